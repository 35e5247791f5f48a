package libvb_test

import (
	"testing"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/stretchr/testify/assert"
)

func ids(items []libvb.Item) []string {
	var s []string
	for _, item := range items {
		s = append(s, item.ID)
	}
	return s
}

func fixture() []libvb.Item {
	return []libvb.Item{
		{ID: "a", Type: libvb.TypeNote},
		{ID: "j1", Type: libvb.TypeJournal},
		{ID: "b", Type: libvb.TypeImage},
		{ID: "c", Type: libvb.TypeQuote},
		{ID: "j2", Type: libvb.TypeJournal},
		{ID: "d", Type: libvb.TypeGoal},
	}
}

func TestPrepend(t *testing.T) {
	items := libvb.Prepend(fixture(), libvb.Item{ID: "z"})
	assert.Equal(t, []string{"z", "a", "j1", "b", "c", "j2", "d"}, ids(items))
}

func TestReplace(t *testing.T) {
	items, err := libvb.Replace(fixture(), libvb.Item{ID: "b", Type: libvb.TypeImage, Title: "updated"})
	assert.NoError(t, err)
	assert.Equal(t, "updated", items[2].Title)
	assert.Equal(t, ids(fixture()), ids(items))

	_, err = libvb.Replace(fixture(), libvb.Item{ID: "unknown"})
	assert.ErrorIs(t, err, libvb.ErrItemNotFound)
}

func TestDelete(t *testing.T) {
	items, err := libvb.Delete(fixture(), "c")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "j1", "b", "j2", "d"}, ids(items))

	_, err = libvb.Delete(fixture(), "unknown")
	assert.ErrorIs(t, err, libvb.ErrItemNotFound)
}

func TestReorder(t *testing.T) {
	// Board subset: a b c d
	items, err := libvb.Reorder(fixture(), 0, 2) // a after c
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids((&libvb.Document{Items: items}).BoardItems()))
	assert.Equal(t, []string{"j1", "j2"}, ids((&libvb.Document{Items: items}).JournalEntries()))
	assert.ElementsMatch(t, ids(fixture()), ids(items))

	items, err = libvb.Reorder(fixture(), 3, 0) // d before a
	assert.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids((&libvb.Document{Items: items}).BoardItems()))
	assert.Equal(t, []string{"j1", "j2"}, ids((&libvb.Document{Items: items}).JournalEntries()))

	items, err = libvb.Reorder(fixture(), 1, 3) // b to the end
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids((&libvb.Document{Items: items}).BoardItems()))

	items, err = libvb.Reorder(fixture(), 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, ids(fixture()), ids(items))

	_, err = libvb.Reorder(fixture(), 0, 4)
	assert.ErrorIs(t, err, libvb.ErrInvalidPosition)
	_, err = libvb.Reorder(fixture(), -1, 0)
	assert.ErrorIs(t, err, libvb.ErrInvalidPosition)
}

func TestReorder_DoesNotMutateInput(t *testing.T) {
	items := fixture()
	_, err := libvb.Reorder(items, 0, 3)
	assert.NoError(t, err)
	assert.Equal(t, ids(fixture()), ids(items))
}

func TestItem_ClampScale(t *testing.T) {
	assert.Equal(t, 1.0, libvb.Item{}.ClampScale())
	assert.Equal(t, 0.5, libvb.Item{Scale: 0.1}.ClampScale())
	assert.Equal(t, 1.5, libvb.Item{Scale: 42}.ClampScale())
	assert.Equal(t, 1.2, libvb.Item{Scale: 1.2}.ClampScale())
	assert.Equal(t, 1.0, libvb.Item{Scale: -3}.ClampScale())
}

func TestNewItemID(t *testing.T) {
	a := libvb.NewItemID()
	b := libvb.NewItemID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^\d{13}[0-9a-z]{9}$`, a)

	assert.Regexp(t, `^board_[0-9a-z]+_[0-9a-z]{7}$`, libvb.NewBoardID())
}

func TestDocument_Clone(t *testing.T) {
	doc := libvb.SeedDocument()
	c := doc.Clone()
	assert.Equal(t, doc, c)

	c.Items[0].Title = "changed"
	c.HeaderConfig.Hashtags[0] = "#changed"
	assert.NotEqual(t, "changed", doc.Items[0].Title)
	assert.NotEqual(t, "#changed", doc.HeaderConfig.Hashtags[0])
}
