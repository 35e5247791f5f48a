package libvb

import (
	"github.com/pkg/errors"
)

// ErrItemNotFound is returned when an item id does not belong to the document.
var ErrItemNotFound = errors.New("item not found")

// ErrInvalidPosition is returned when a reordering position is out of the board.
var ErrInvalidPosition = errors.New("invalid position")

// IndexOf returns the position of the item with the given id or -1.
func IndexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Prepend returns the items with the given item inserted first.
func Prepend(items []Item, item Item) []Item {
	return append([]Item{item}, items...)
}

// Replace returns the items where the item sharing the id of the given one is replaced.
func Replace(items []Item, item Item) ([]Item, error) {
	i := IndexOf(items, item.ID)
	if i < 0 {
		return items, errors.Wrap(ErrItemNotFound, item.ID)
	}

	replaced := append([]Item{}, items...)
	replaced[i] = item
	return replaced, nil
}

// Delete returns the items without the one identified by id.
// The relative order of the remaining items is unchanged.
func Delete(items []Item, id string) ([]Item, error) {
	if IndexOf(items, id) < 0 {
		return items, errors.Wrap(ErrItemNotFound, id)
	}
	return filter(items, func(i Item) bool { return i.ID != id }), nil
}

// Reorder moves the board item at position from to position to.
// Positions are indexes in the board subset (journal entries excluded);
// journal entries are never moved relatively to each other.
//
// The dragged item is removed then inserted at the position the target occupied
// before the removal, so moving down lands after the target and moving up before it.
func Reorder(items []Item, from, to int) ([]Item, error) {
	board := filter(items, func(i Item) bool { return i.Type != TypeJournal })
	if from < 0 || from >= len(board) || to < 0 || to >= len(board) {
		return items, errors.Wrapf(ErrInvalidPosition, "move %d to %d on %d items", from, to, len(board))
	}
	if from == to {
		return items, nil
	}

	dragged := board[from]
	target := board[to]

	reordered := append([]Item{}, items...)
	di := IndexOf(reordered, dragged.ID)
	ti := IndexOf(reordered, target.ID)

	reordered = append(reordered[:di], reordered[di+1:]...)
	reordered = append(reordered[:ti], append([]Item{dragged}, reordered[ti:]...)...)
	return reordered, nil
}
