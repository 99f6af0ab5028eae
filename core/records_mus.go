package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for stored records. Field order is the wire order; append
// new fields at the end.
var (
	IDMUS         = idMUS{}
	RawRecipeMUS  = rawRecipeMUS{}
	CheckpointMUS = checkpointMUS{}
)

var errBadLength = errors.New("mus: invalid length")

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type rawIngredientMUS struct{}

func (rawIngredientMUS) Marshal(v RawIngredient, bs []byte) (n int) {
	n = ord.String.Marshal(v.Ingredient, bs)
	n += raw.Float64.Marshal(v.Quantity, bs[n:])
	n += ord.String.Marshal(v.Unit, bs[n:])
	return
}

func (rawIngredientMUS) Unmarshal(bs []byte) (v RawIngredient, n int, err error) {
	var n1 int
	v.Ingredient, n1, err = ord.String.Unmarshal(bs)
	n += n1
	if err != nil {
		return
	}
	v.Quantity, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Unit, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (rawIngredientMUS) Size(v RawIngredient) (size int) {
	return ord.String.Size(v.Ingredient) + raw.Float64.Size(v.Quantity) + ord.String.Size(v.Unit)
}

type rawRecipeMUS struct{}

func (rawRecipeMUS) Marshal(v RawRecipe, bs []byte) (n int) {
	n = varint.Int.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += varint.Int.Marshal(v.Servings, bs[n:])
	n += varint.Int.Marshal(v.Time, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Appliance, bs[n:])
	n += varint.Int.Marshal(len(v.Ustensils), bs[n:])
	for _, u := range v.Ustensils {
		n += ord.String.Marshal(u, bs[n:])
	}
	n += varint.Int.Marshal(len(v.Ingredients), bs[n:])
	for _, ing := range v.Ingredients {
		n += rawIngredientMUS{}.Marshal(ing, bs[n:])
	}
	return
}

func (rawRecipeMUS) Unmarshal(bs []byte) (v RawRecipe, n int, err error) {
	var n1 int
	if v.ID, n1, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Servings, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Time, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Appliance, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var length int
	if length, n1, err = unmarshalLength(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Ustensils = make([]string, length)
	for i := range v.Ustensils {
		if v.Ustensils[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}

	if length, n1, err = unmarshalLength(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Ingredients = make([]RawIngredient, length)
	for i := range v.Ingredients {
		if v.Ingredients[i], n1, err = (rawIngredientMUS{}).Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	return
}

func (rawRecipeMUS) Size(v RawRecipe) (size int) {
	size = varint.Int.Size(v.ID)
	size += ord.String.Size(v.Name)
	size += varint.Int.Size(v.Servings)
	size += varint.Int.Size(v.Time)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Appliance)
	size += varint.Int.Size(len(v.Ustensils))
	for _, u := range v.Ustensils {
		size += ord.String.Size(u)
	}
	size += varint.Int.Size(len(v.Ingredients))
	for _, ing := range v.Ingredients {
		size += rawIngredientMUS{}.Size(ing)
	}
	return
}

func (s rawRecipeMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type checkpointMUS struct{}

func (checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += IDMUS.Marshal(v.Fingerprint, bs[n:])
	n += varint.Int.Marshal(v.Count, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	return
}

func (checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	var n1 int
	if v.Name, n1, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.Fingerprint, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (checkpointMUS) Size(v Checkpoint) (size int) {
	return ord.String.Size(v.Name) + IDMUS.Size(v.Fingerprint) +
		varint.Int.Size(v.Count) + varint.Int64.Size(v.UpdatedAt.UnixMicro()) +
		ord.String.Size(v.Source)
}

func (s checkpointMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// unmarshalLength reads a slice length. Every element takes at least one
// byte, so a length larger than the remaining input is corrupt.
func unmarshalLength(bs []byte) (length int, n int, err error) {
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = errBadLength
	}
	return
}
