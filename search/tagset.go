package search

import (
	"slices"

	"github.com/poiesic/larder/core"
)

// TagSet is an immutable ordered set of tags. Insertion order is kept for
// display; it has no effect on filtering. The zero value is an empty set.
type TagSet struct {
	tags []core.Tag
}

// NewTagSet builds a set from tags, dropping duplicates after the first.
func NewTagSet(tags ...core.Tag) TagSet {
	var ts TagSet
	for _, tag := range tags {
		ts = ts.Add(tag)
	}
	return ts
}

// Len returns the number of tags.
func (ts TagSet) Len() int {
	return len(ts.tags)
}

// Tags returns a copy of the tags in insertion order.
func (ts TagSet) Tags() []core.Tag {
	return slices.Clone(ts.tags)
}

// Contains reports whether a tag with the same identity is present.
func (ts TagSet) Contains(tag core.Tag) bool {
	return slices.Contains(ts.tags, tag)
}

// Values returns the values of the tags of one facet type.
func (ts TagSet) Values(t core.FacetType) []string {
	values := []string{}
	for _, tag := range ts.tags {
		if tag.Type == t {
			values = append(values, tag.Value)
		}
	}
	return values
}

// Add returns a set with tag appended. If the tag is already present the
// receiver is returned unchanged.
func (ts TagSet) Add(tag core.Tag) TagSet {
	if ts.Contains(tag) {
		return ts
	}
	tags := make([]core.Tag, len(ts.tags), len(ts.tags)+1)
	copy(tags, ts.tags)
	return TagSet{tags: append(tags, tag)}
}

// Remove returns a set without tag. If the tag is absent the receiver is
// returned unchanged.
func (ts TagSet) Remove(tag core.Tag) TagSet {
	i := slices.Index(ts.tags, tag)
	if i < 0 {
		return ts
	}
	if len(ts.tags) == 1 {
		return TagSet{}
	}
	tags := make([]core.Tag, 0, len(ts.tags)-1)
	tags = append(tags, ts.tags[:i]...)
	tags = append(tags, ts.tags[i+1:]...)
	return TagSet{tags: tags}
}

// partition splits the set into the tags keep accepts and those it rejects.
func (ts TagSet) partition(keep func(core.Tag) bool) (kept TagSet, dropped []core.Tag) {
	tags := make([]core.Tag, 0, len(ts.tags))
	for _, tag := range ts.tags {
		if keep(tag) {
			tags = append(tags, tag)
		} else {
			dropped = append(dropped, tag)
		}
	}
	if len(dropped) == 0 {
		return ts, nil
	}
	if len(tags) == 0 {
		return TagSet{}, dropped
	}
	return TagSet{tags: tags}, dropped
}

// AddTag returns tags with the normalized (t, value) tag added. Adding a tag
// that is already present is a no-op.
func AddTag(tags TagSet, t core.FacetType, value string) TagSet {
	return tags.Add(core.NewTag(t, value))
}

// RemoveTag returns tags without the normalized (t, value) tag. Removing an
// absent tag is a no-op.
func RemoveTag(tags TagSet, t core.FacetType, value string) TagSet {
	return tags.Remove(core.NewTag(t, value))
}
