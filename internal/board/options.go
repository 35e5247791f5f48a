package board

import (
	"context"
	"time"

	"github.com/mdouchement/visionboard/internal/advice"
	"github.com/mdouchement/visionboard/internal/remote"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
)

// Default timings.
const (
	DefaultDebounce           = 800 * time.Millisecond
	DefaultInteractionTimeout = 5 * time.Second
	DefaultJournalSettle      = 2 * time.Second
)

type (
	// An Advisor produces chat replies, study plans and images.
	// Failures are absorbed by the advisor and degrade to fallback values.
	Advisor interface {
		ChatReply(ctx context.Context, text string) string
		StudyPlan(ctx context.Context, topic string) string
		GenerateImage(ctx context.Context, prompt string) string
	}

	// A Migration rewrites a freshly loaded document.
	// It returns true when the document has been modified.
	Migration func(doc *libvb.Document) bool

	// Options configures a Store.
	Options struct {
		Remote remote.Service
		Logger logrus.FieldLogger
		// Debounce is the quiet period after the last mutation before a push.
		Debounce time.Duration
		// InteractionTimeout releases a held interaction guard.
		InteractionTimeout time.Duration
		// JournalSettle is how long a new journal entry holds the interaction guard.
		JournalSettle time.Duration
		// Seed returns the document used to create missing boards.
		Seed       func() *libvb.Document
		Migrations []Migration
		Advisor    Advisor
	}
)

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.InteractionTimeout <= 0 {
		o.InteractionTimeout = DefaultInteractionTimeout
	}
	if o.JournalSettle <= 0 {
		o.JournalSettle = DefaultJournalSettle
	}
	if o.Seed == nil {
		o.Seed = libvb.SeedDocument
	}
	if o.Advisor == nil {
		o.Advisor = advice.Offline{}
	}
}
