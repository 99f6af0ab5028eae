package search

import (
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/stretchr/testify/assert"
)

func TestTagSet_AddIsImmutable(t *testing.T) {
	empty := TagSet{}
	one := AddTag(empty, core.FacetIngredients, " Pomme ")
	two := AddTag(one, core.FacetAppliances, "four")

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.Equal(t, []core.Tag{
		{Type: core.FacetIngredients, Value: "pomme"},
		{Type: core.FacetAppliances, Value: "four"},
	}, two.Tags())
}

func TestTagSet_AddDuplicateIsNoop(t *testing.T) {
	tags := AddTag(TagSet{}, core.FacetIngredients, "pomme")
	again := AddTag(tags, core.FacetIngredients, "POMME")

	assert.Equal(t, tags, again)
	assert.Equal(t, 1, again.Len())
}

func TestTagSet_SameValueDifferentType(t *testing.T) {
	tags := AddTag(TagSet{}, core.FacetIngredients, "four")
	tags = AddTag(tags, core.FacetAppliances, "four")

	assert.Equal(t, 2, tags.Len())
	assert.Equal(t, []string{"four"}, tags.Values(core.FacetAppliances))
	assert.Equal(t, []string{"four"}, tags.Values(core.FacetIngredients))
	assert.Empty(t, tags.Values(core.FacetUtensils))
}

func TestTagSet_Remove(t *testing.T) {
	tags := NewTagSet(
		core.NewTag(core.FacetIngredients, "pomme"),
		core.NewTag(core.FacetUtensils, "moule"),
		core.NewTag(core.FacetAppliances, "four"),
	)

	removed := RemoveTag(tags, core.FacetUtensils, "Moule")
	assert.Equal(t, 3, tags.Len())
	assert.Equal(t, []core.Tag{
		core.NewTag(core.FacetIngredients, "pomme"),
		core.NewTag(core.FacetAppliances, "four"),
	}, removed.Tags())

	// Absent tag, or right value with the wrong type.
	assert.Equal(t, tags, RemoveTag(tags, core.FacetUtensils, "louche"))
	assert.Equal(t, tags, RemoveTag(tags, core.FacetIngredients, "four"))

	last := RemoveTag(RemoveTag(removed, core.FacetIngredients, "pomme"), core.FacetAppliances, "four")
	assert.Equal(t, TagSet{}, last)
}

func TestTagSet_AddRemoveRoundTrip(t *testing.T) {
	base := NewTagSet(core.NewTag(core.FacetIngredients, "pomme"))
	roundTrip := RemoveTag(AddTag(base, core.FacetAppliances, "four"), core.FacetAppliances, "four")
	assert.Equal(t, base.Tags(), roundTrip.Tags())
}

func TestTagSet_TagsReturnsCopy(t *testing.T) {
	tags := NewTagSet(core.NewTag(core.FacetIngredients, "pomme"))
	out := tags.Tags()
	out[0].Value = "poire"

	assert.True(t, tags.Contains(core.NewTag(core.FacetIngredients, "pomme")))
}

func TestNewTagSet_DropsDuplicates(t *testing.T) {
	tags := NewTagSet(
		core.NewTag(core.FacetIngredients, "pomme"),
		core.NewTag(core.FacetIngredients, "pomme"),
	)
	assert.Equal(t, 1, tags.Len())
}
