package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	recipePrefix     = "recipe:"
	recipeIDPrefix   = "recipeid:"
	recipeSeq        = "recipe-seq"
	checkpointPrefix = "chkpt:"
)

// makeRecipeKey generates the primary key for a recipe at a storage
// position. Positions are BigEndian so a prefix scan yields insertion order.
// Format: prefix:position
func makeRecipeKey(position uint64) []byte {
	buf := make([]byte, len(recipePrefix)+8)
	offset := copy(buf, recipePrefix)
	binary.BigEndian.PutUint64(buf[offset:], position)
	return buf
}

// makeRecipeIDKey generates the index key mapping a recipe ID to its
// position.
// Format: prefix:id
func makeRecipeIDKey(id int) []byte {
	buf := make([]byte, len(recipeIDPrefix)+8)
	offset := copy(buf, recipeIDPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(int64(id)))
	return buf
}

// makeCheckpointKey generates a key for a named checkpoint.
func makeCheckpointKey(name string) []byte {
	return []byte(fmt.Sprintf("%s%s", checkpointPrefix, name))
}
