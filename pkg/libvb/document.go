package libvb

import (
	"math"
	"time"
)

// Item types.
const (
	TypeImage   = "image"
	TypeQuote   = "quote"
	TypeGoal    = "goal"
	TypeNote    = "note"
	TypeJournal = "journal"
)

// Image fitting modes.
const (
	FitCover   = "cover"
	FitContain = "contain"
)

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type (
	// A Document is the unit of persistence and synchronization of a board.
	// The order of Items is the display order.
	Document struct {
		Items        []Item        `json:"items"`
		HeaderConfig HeaderConfig  `json:"headerConfig"`
		ChatMessages []ChatMessage `json:"chatMessages"`
		LastUpdated  int64         `json:"lastUpdated,omitempty"` // Unix timestamp in milliseconds
	}

	// An Item is a card on the board or a journal entry.
	Item struct {
		ID       string   `json:"id"`
		Type     string   `json:"type"`
		Content  string   `json:"content"` // URL or data-URL for images, free text otherwise
		Title    string   `json:"title,omitempty"`
		Color    string   `json:"color,omitempty"`
		Rotation Rotation `json:"rotation,omitempty"`
		Scale    float64  `json:"scale,omitempty"`
		Date     string   `json:"date,omitempty"` // display string, never parsed
		Sticker  string   `json:"sticker,omitempty"`
		FontSize string   `json:"fontSize,omitempty"`
		ImageFit string   `json:"imageFit,omitempty"`
	}

	// A HeaderConfig is the board header.
	HeaderConfig struct {
		Title    string   `json:"title"`
		Subtitle string   `json:"subtitle"`
		Hashtags []string `json:"hashtags"`
	}

	// A ChatMessage is an entry of the chat log.
	ChatMessage struct {
		Role      string    `json:"role"`
		Text      string    `json:"text"`
		Timestamp time.Time `json:"timestamp"`
	}
)

// ValidType returns true if t is a known item type.
func ValidType(t string) bool {
	switch t {
	case TypeImage, TypeQuote, TypeGoal, TypeNote, TypeJournal:
		return true
	}
	return false
}

// NewChatMessage returns a message stamped with the current time.
func NewChatMessage(role, text string) ChatMessage {
	return ChatMessage{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().Round(0).UTC(), // strip monotonic clock so it survives JSON round-trips
	}
}

// IsZero returns true when no header field is defined.
func (h HeaderConfig) IsZero() bool {
	return h.Title == "" && h.Subtitle == "" && len(h.Hashtags) == 0
}

// Clone returns a deep copy of the header.
func (h HeaderConfig) Clone() HeaderConfig {
	if h.Hashtags != nil {
		h.Hashtags = append([]string{}, h.Hashtags...)
	}
	return h
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	c := &Document{
		HeaderConfig: d.HeaderConfig.Clone(),
		LastUpdated:  d.LastUpdated,
	}
	if d.Items != nil {
		c.Items = append([]Item{}, d.Items...)
	}
	if d.ChatMessages != nil {
		c.ChatMessages = append([]ChatMessage{}, d.ChatMessages...)
	}
	return c
}

// Normalize replaces nil sequences by empty ones so the document always
// serializes with JSON arrays. Non-finite rotations and scales are reset.
func (d *Document) Normalize() {
	if d.Items == nil {
		d.Items = []Item{}
	}
	if d.ChatMessages == nil {
		d.ChatMessages = []ChatMessage{}
	}
	if d.HeaderConfig.Hashtags == nil {
		d.HeaderConfig.Hashtags = []string{}
	}
	for i := range d.Items {
		d.Items[i].Rotation = d.Items[i].Rotation.Finite()
		if math.IsNaN(d.Items[i].Scale) || math.IsInf(d.Items[i].Scale, 0) {
			d.Items[i].Scale = 1
		}
	}
}

// Touch sets LastUpdated to now.
func (d *Document) Touch() {
	d.LastUpdated = UnixMillisecond(time.Now())
}

// BoardItems returns the items displayed on the board (everything but journal entries).
func (d *Document) BoardItems() []Item {
	return filter(d.Items, func(i Item) bool { return i.Type != TypeJournal })
}

// JournalEntries returns the journal entries.
func (d *Document) JournalEntries() []Item {
	return filter(d.Items, func(i Item) bool { return i.Type == TypeJournal })
}

// ClampScale returns the scale bounded to the range accepted by the board.
// Undefined or malformed scales are treated as 1.
func (i Item) ClampScale() float64 {
	switch {
	case i.Scale <= 0 || i.Scale != i.Scale: // NaN
		return 1
	case i.Scale < 0.5:
		return 0.5
	case i.Scale > 1.5:
		return 1.5
	}
	return i.Scale
}

func filter(items []Item, keep func(Item) bool) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// MIMEApplicationJSON is the content type of board documents.
const MIMEApplicationJSON = "application/json"
