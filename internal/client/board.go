package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/mdouchement/visionboard/internal/board"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/mdouchement/visionboard/pkg/structs"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// Show prints the board. When dump is true, the whole document is dumped.
func Show(s *board.Store, w io.Writer, dump bool) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}

	if dump {
		fmt.Fprintln(w, litter.Sdump(doc))
		return nil
	}

	fmt.Fprintf(w, "%s\n%s\n", doc.HeaderConfig.Title, doc.HeaderConfig.Subtitle)
	if len(doc.HeaderConfig.Hashtags) > 0 {
		fmt.Fprintln(w, strings.Join(doc.HeaderConfig.Hashtags, " "))
	}

	fmt.Fprintln(w, "\nBoard:")
	for i, item := range doc.BoardItems() {
		fmt.Fprintf(w, "%3d. [%s] %s %s\n", i, item.Type, item.ID, summary(item))
	}

	fmt.Fprintln(w, "\nJournal:")
	for _, item := range doc.JournalEntries() {
		fmt.Fprintf(w, "  - %s %s (%s) %s\n", item.ID, item.Title, item.Date, summary(item))
	}

	PrintStatus(s, w)
	return nil
}

// PrintStatus prints the load and save state of the board.
func PrintStatus(s *board.Store, w io.Writer) {
	st := s.Status()
	fmt.Fprintf(w, "\n%s: %s, %s\n", st.ID, st.Phase, st.Sync)
	if st.Err != nil {
		fmt.Fprintf(w, "error: %s\n", st.Err)
	}
	if st.Retry {
		fmt.Fprintln(w, "last save failed, changes are kept locally until the next save")
	}
}

const summaryLength = 60

func summary(item libvb.Item) string {
	if libvb.IsDataURL([]byte(item.Content)) {
		return "<embedded image>"
	}

	content := []rune(item.Content)
	if len(content) > summaryLength {
		content = append(content[:summaryLength-3], []rune("...")...)
	}
	return strings.ReplaceAll(string(content), "\n", " ")
}

// Add adds an item to the board.
func Add(s *board.Store, w io.Writer, kind, content string, assignments []string) error {
	item := libvb.Item{
		Type:    kind,
		Content: content,
	}
	if err := assign(&item, assignments); err != nil {
		return err
	}

	item, err := s.AddItem(item)
	if err != nil {
		return errors.Wrap(err, "could not add item")
	}

	fmt.Fprintln(w, item.ID)
	return nil
}

// Edit updates the fields of an item, each assignment being `key=value` with key a JSON field name.
func Edit(s *board.Store, id string, assignments []string) error {
	s.OpenEditor()
	defer s.CloseEditor()

	doc, err := s.Document()
	if err != nil {
		return err
	}

	i := libvb.IndexOf(doc.Items, id)
	if i < 0 {
		return errors.Errorf("item %s not found", id)
	}

	item := doc.Items[i]
	if err = assign(&item, assignments); err != nil {
		return err
	}
	item.ID = id

	return errors.Wrap(s.UpdateItem(item), "could not update item")
}

// Delete removes an item.
func Delete(s *board.Store, id string) error {
	return errors.Wrap(s.DeleteItem(id), "could not delete item")
}

// Move moves a board item from an index to another.
func Move(s *board.Store, from, to int) error {
	s.BeginInteraction()
	defer s.EndInteraction()

	return errors.Wrap(s.MoveItem(from, to), "could not move item")
}

// Journal adds a journal entry.
func Journal(s *board.Store, w io.Writer, title, content, sticker string) error {
	item, err := s.AddJournalEntry(title, content, sticker)
	if err != nil {
		return errors.Wrap(err, "could not add journal entry")
	}

	fmt.Fprintln(w, item.ID)
	return nil
}

// Header updates the board header, each assignment being `key=value`.
func Header(s *board.Store, assignments []string) error {
	s.OpenEditor()
	defer s.CloseEditor()

	doc, err := s.Document()
	if err != nil {
		return err
	}

	header := doc.HeaderConfig.Clone()
	if err = assign(&header, assignments); err != nil {
		return err
	}

	return errors.Wrap(s.SetHeader(header), "could not update header")
}

// Reset replaces the board with the default content.
func Reset(s *board.Store) error {
	return errors.Wrap(s.Reset(), "could not reset board")
}

func assign(obj any, assignments []string) error {
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			keys, _ := structs.Keys(obj, "json")
			return errors.Errorf("invalid assignment %q, expected key=value (keys: %s)", a, strings.Join(keys, ", "))
		}

		if err := structs.Set(obj, "json", key, value); err != nil {
			return err
		}
	}
	return nil
}
