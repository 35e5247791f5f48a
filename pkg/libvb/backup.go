package libvb

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// BackupVersion is the version tag of exported boards.
const BackupVersion = 1

// A Backup is the human-copyable representation of a board.
// Absent optional sections decode to nil and leave the current board values untouched.
type Backup struct {
	Items        []Item        `json:"items"`
	HeaderConfig *HeaderConfig `json:"headerConfig,omitempty"`
	ChatMessages []ChatMessage `json:"chatMessages"`
	LastUpdated  int64         `json:"lastUpdated,omitempty"`
	Version      int           `json:"version"`
}

// Export returns the indented JSON backup of the given document.
func Export(doc *Document) ([]byte, error) {
	d := doc.Clone()
	d.Normalize()

	payload, err := json.MarshalIndent(Backup{
		Items:        d.Items,
		HeaderConfig: &d.HeaderConfig,
		ChatMessages: d.ChatMessages,
		LastUpdated:  d.LastUpdated,
		Version:      BackupVersion,
	}, "", "  ")
	return payload, errors.Wrap(err, "could not serialize backup")
}

// Import parses and validates a backup.
// The payload is rejected as a whole when it is not a JSON object holding an items array.
func Import(data []byte) (*Backup, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, NewError(KindMalformedImport, "Invalid data code: %s", err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, NewError(KindMalformedImport, "Invalid data format: not an object")
	}
	if items := v.Get("items"); items == nil || items.Type() != fastjson.TypeArray {
		return nil, NewError(KindMalformedImport, "Invalid data format: missing items")
	}
	if h := v.Get("headerConfig"); h != nil && h.Type() != fastjson.TypeObject && h.Type() != fastjson.TypeNull {
		return nil, NewError(KindMalformedImport, "Invalid data format: bad headerConfig")
	}
	if c := v.Get("chatMessages"); c != nil && c.Type() != fastjson.TypeArray && c.Type() != fastjson.TypeNull {
		return nil, NewError(KindMalformedImport, "Invalid data format: bad chatMessages")
	}

	var b Backup
	if err = json.Unmarshal(data, &b); err != nil {
		return nil, NewError(KindMalformedImport, "Invalid data format: %s", err)
	}
	if b.Items == nil {
		b.Items = []Item{}
	}
	seen := make(map[string]bool, len(b.Items))
	for _, item := range b.Items {
		if item.ID == "" {
			return nil, NewError(KindMalformedImport, "Invalid data format: item without id")
		}
		if seen[item.ID] {
			return nil, NewError(KindMalformedImport, "Invalid data format: duplicated item id %s", item.ID)
		}
		seen[item.ID] = true
	}
	return &b, nil
}

// ApplyTo replaces the document content with the backup.
// Header and chat log are kept when the backup does not define them.
func (b *Backup) ApplyTo(doc *Document) {
	doc.Items = append([]Item{}, b.Items...)
	if b.HeaderConfig != nil {
		doc.HeaderConfig = b.HeaderConfig.Clone()
	}
	if b.ChatMessages != nil {
		doc.ChatMessages = append([]ChatMessage{}, b.ChatMessages...)
	}
	if b.LastUpdated != 0 {
		doc.LastUpdated = b.LastUpdated
	}
}

// Document returns the backup as a standalone document.
func (b *Backup) Document() *Document {
	doc := &Document{}
	b.ApplyTo(doc)
	return doc
}
