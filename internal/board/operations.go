package board

import (
	"context"
	"strings"
	"time"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

// DefaultJournalTitle is the title of untitled journal entries.
const DefaultJournalTitle = "Dear Diary"

// ErrEmptyContent is returned when an entry or message has no text.
var ErrEmptyContent = errors.New("content can't be empty")

// AddItem prepends the item to the board.
// An id is generated when the item has none.
func (s *Store) AddItem(item libvb.Item) (libvb.Item, error) {
	if !libvb.ValidType(item.Type) {
		return item, errors.Errorf("invalid item type: %s", item.Type)
	}
	if item.ID == "" {
		item.ID = libvb.NewItemID()
	}
	if item.Scale <= 0 {
		item.Scale = 1
	}

	err := s.Mutate(func(doc *libvb.Document) error {
		if libvb.IndexOf(doc.Items, item.ID) >= 0 {
			return errors.Errorf("item %s already exists", item.ID)
		}
		doc.Items = libvb.Prepend(doc.Items, item)
		return nil
	})
	return item, err
}

// AddJournalEntry prepends a journal entry dated of today.
// The interaction guard is held for a short while so the entry is not
// overwritten by a stale remote version before it is saved.
func (s *Store) AddJournalEntry(title, content, sticker string) (libvb.Item, error) {
	if strings.TrimSpace(content) == "" {
		return libvb.Item{}, ErrEmptyContent
	}
	if title == "" {
		title = DefaultJournalTitle
	}

	item, err := s.AddItem(libvb.Item{
		Type:    libvb.TypeJournal,
		Title:   title,
		Content: content,
		Sticker: sticker,
		Date:    time.Now().Format("Monday, Jan 2, 2006"),
		Scale:   1,
	})
	if err != nil {
		return item, err
	}

	s.hold(s.options.JournalSettle)
	return item, nil
}

// UpdateItem replaces the item having the same id.
func (s *Store) UpdateItem(item libvb.Item) error {
	return s.Mutate(func(doc *libvb.Document) (err error) {
		doc.Items, err = libvb.Replace(doc.Items, item)
		return err
	})
}

// DeleteItem removes the item identified by id.
func (s *Store) DeleteItem(id string) error {
	return s.Mutate(func(doc *libvb.Document) (err error) {
		doc.Items, err = libvb.Delete(doc.Items, id)
		return err
	})
}

// MoveItem moves the board item (journal entries excluded) at index from to index to.
func (s *Store) MoveItem(from, to int) error {
	return s.Mutate(func(doc *libvb.Document) (err error) {
		doc.Items, err = libvb.Reorder(doc.Items, from, to)
		return err
	})
}

// SetHeader replaces the header.
func (s *Store) SetHeader(header libvb.HeaderConfig) error {
	return s.Mutate(func(doc *libvb.Document) error {
		doc.HeaderConfig = header.Clone()
		return nil
	})
}

// AppendChat appends messages to the chat log.
func (s *Store) AppendChat(messages ...libvb.ChatMessage) error {
	return s.Mutate(func(doc *libvb.Document) error {
		doc.ChatMessages = append(doc.ChatMessages, messages...)
		return nil
	})
}

// Export returns the backup of the in-memory document.
func (s *Store) Export() ([]byte, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return libvb.Export(doc)
}

// Import replaces the in-memory document with the given backup.
// Nothing is applied when the backup is malformed.
func (s *Store) Import(data []byte) error {
	backup, err := libvb.Import(data)
	if err != nil {
		return err
	}

	return s.Mutate(func(doc *libvb.Document) error {
		backup.ApplyTo(doc)
		return nil
	})
}

// Reset replaces the whole document with the seed.
func (s *Store) Reset() error {
	seed := s.options.Seed()
	return s.Mutate(func(doc *libvb.Document) error {
		*doc = *seed.Clone()
		return nil
	})
}

// UploadBlob stores a media (raw bytes or data-URL) and returns the URL to reference it from an item.
func (s *Store) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	url, err := s.remote.UploadBlob(ctx, data, contentType)
	return url, errors.Wrap(err, "could not upload media")
}
