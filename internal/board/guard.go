package board

import "time"

// BeginInteraction holds the interaction guard while a multi-step local edit is performed.
// Remote changes are not applied while the guard is held.
// The guard releases itself after the interaction timeout if EndInteraction is never called.
func (s *Store) BeginInteraction() {
	s.hold(s.options.InteractionTimeout)
}

// EndInteraction releases the interaction guard.
func (s *Store) EndInteraction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactionSeq++
	s.interacting = false
	if s.interactionTimer != nil {
		s.interactionTimer.Stop()
		s.interactionTimer = nil
	}
	s.requestRefresh()
}

// hold holds the interaction guard for at least d.
// A guard already held for longer is left untouched.
func (s *Store) hold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until := time.Now().Add(d)
	if s.interacting && s.interactionUntil.After(until) {
		return
	}

	s.interactionUntil = until
	s.interactionSeq++
	seq := s.interactionSeq
	s.interacting = true

	if s.interactionTimer != nil {
		s.interactionTimer.Stop()
	}
	s.interactionTimer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.interactionSeq != seq {
			return
		}
		s.interacting = false
		s.interactionTimer = nil
		s.logger.Debug("interaction guard released by timeout")
		s.requestRefresh()
	})
}

// OpenEditor marks an item editor (or the journal composer) as open.
// Remote changes are not applied while an editor is open.
func (s *Store) OpenEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editors++
}

// CloseEditor marks an editor as closed.
func (s *Store) CloseEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editors > 0 {
		s.editors--
	}
	s.requestRefresh()
}
