package board

import (
	"context"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

var equateEmpty = cmpopts.EquateEmpty()

// Reconcile applies a remote version of the document.
// It is rejected while an interaction or an editor is in progress,
// while local changes are unsaved and while a push is in flight.
// Items and header are replaced when present and different. Along with them,
// the chat log is replaced when its length differs.
// A rejected version is not lost: the remote document is read again once nothing holds the local copy.
func (s *Store) Reconcile(remote *libvb.Document) bool {
	if remote == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return false
	}
	if !s.settled() {
		// Read again once the local copy is released.
		s.stale = true
		return false
	}
	s.stale = false

	doc := s.doc.Clone()
	changed := false

	if remote.Items != nil && !cmp.Equal(doc.Items, remote.Items, equateEmpty) {
		doc.Items = append([]libvb.Item{}, remote.Items...)
		changed = true
	}
	if !remote.HeaderConfig.IsZero() && !cmp.Equal(doc.HeaderConfig, remote.HeaderConfig, equateEmpty) {
		doc.HeaderConfig = remote.HeaderConfig.Clone()
		changed = true
	}
	if !changed {
		return true
	}
	if remote.ChatMessages != nil && len(remote.ChatMessages) != len(doc.ChatMessages) {
		doc.ChatMessages = append([]libvb.ChatMessage{}, remote.ChatMessages...)
	}

	doc.LastUpdated = remote.LastUpdated
	doc.Normalize()
	s.doc = doc
	s.notify(doc)
	s.logger.WithField("id", s.id).Debug("remote changes applied")
	return true
}

// Subscribe returns a channel receiving the document each time remote changes are applied.
// Only the latest document is kept when the receiver is slow.
// The returned function stops the subscription.
func (s *Store) Subscribe() (<-chan *libvb.Document, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observerSeq++
	seq := s.observerSeq
	ch := make(chan *libvb.Document, 1)
	s.observers[seq] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if ch, ok := s.observers[seq]; ok {
			close(ch)
			delete(s.observers, seq)
		}
	}
}

func (s *Store) notify(doc *libvb.Document) {
	for _, ch := range s.observers {
		select {
		case <-ch:
		default:
		}
		ch <- doc.Clone()
	}
}

// Watch feeds the remote changes of the loaded board into Reconcile until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.Lock()
	id := s.id
	ready := s.phase == PhaseReady
	s.mu.Unlock()

	if !ready {
		return ErrNotReady
	}

	unsubscribe, err := s.remote.Subscribe(ctx, id, func(doc *libvb.Document) {
		if !s.Reconcile(doc) {
			s.logger.WithField("id", id).Debug("remote changes deferred")
		}
	})
	if err != nil {
		return errors.Wrap(err, "could not subscribe to board")
	}
	defer unsubscribe()

	<-ctx.Done()
	return nil
}
