// Package board holds the in-memory board document and keeps it in sync with a remote.Service.
//
// Local mutations mark the document dirty and are pushed after a quiet period.
// Remote changes are applied only while nothing local is pending or in progress.
// There is no merge: the last accepted write wins at the document level.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/mdouchement/visionboard/internal/remote"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotReady is returned when a board operation is performed before a successful load.
var ErrNotReady = errors.New("board is not loaded")

// A Store owns the in-memory board document.
type Store struct {
	remote  remote.Service
	advisor Advisor
	logger  logrus.FieldLogger
	options Options

	mu         sync.Mutex
	id         string
	phase      Phase
	doc        *libvb.Document
	loadErr    error
	pushErr    error
	epoch      uint64 // incremented by each load
	generation uint64 // incremented by each local mutation
	pushed     uint64 // generation of the last successful push
	saving     bool
	stale      bool // a remote notification has been rejected since the last reconciliation

	interacting      bool
	interactionSeq   uint64
	interactionTimer *time.Timer
	interactionUntil time.Time
	editors          int

	observerSeq int
	observers   map[int]chan *libvb.Document

	debounced func(func())
	pushes    chan struct{}
	refreshes chan struct{}
	pushMu    sync.Mutex
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New returns a new Store.
func New(o Options) *Store {
	o.defaults()

	s := &Store{
		remote:    o.Remote,
		advisor:   o.Advisor,
		logger:    o.Logger,
		options:   o,
		observers: map[int]chan *libvb.Document{},
		debounced: debounce.New(o.Debounce),
		pushes:    make(chan struct{}, 1),
		refreshes: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.pusher()

	return s
}

// Load fetches the board identified by id.
// A missing default board is created from the seed, any other missing board
// (or an empty id) is replaced by a new board whose id is adopted.
func (s *Store) Load(ctx context.Context, id string) (*libvb.Document, error) {
	s.mu.Lock()
	s.phase = PhaseLoading
	s.loadErr = nil
	s.mu.Unlock()

	doc, id, err := s.fetch(ctx, id)

	s.mu.Lock()
	if err != nil {
		s.phase = PhaseLoadFailed
		s.loadErr = err
		s.mu.Unlock()

		s.logger.WithError(err).WithField("id", id).Error("could not load board")
		return nil, err
	}

	doc.Normalize()
	s.id = id
	s.doc = doc
	s.epoch++
	s.generation = 0
	s.pushed = 0
	s.pushErr = nil
	s.stale = false
	s.phase = PhaseReady

	migrated := false
	for _, migrate := range s.options.Migrations {
		if migrate(s.doc) {
			migrated = true
		}
	}
	if migrated {
		s.generation++
	}

	snapshot := s.doc.Clone()
	s.mu.Unlock()

	s.logger.WithField("id", id).WithField("items", len(snapshot.Items)).Info("board loaded")
	if migrated {
		s.logger.WithField("id", id).Info("board migrated")
		s.schedule()
	}
	return snapshot, nil
}

func (s *Store) fetch(ctx context.Context, id string) (*libvb.Document, string, error) {
	if id == "" {
		return s.create(ctx)
	}

	doc, err := s.remote.Read(ctx, id)
	switch {
	case err == nil:
		return doc, id, nil
	case libvb.IsNotFound(err) && id == libvb.DefaultBoardID:
		if _, err = s.remote.CreateIfAbsent(ctx, id, s.options.Seed()); err != nil {
			return nil, id, errors.Wrap(err, "could not create default board")
		}

		doc, err = s.remote.Read(ctx, id)
		return doc, id, errors.Wrap(err, "could not read default board")
	case libvb.IsNotFound(err):
		s.logger.WithField("id", id).Warn("board not found, creating a new one")
		return s.create(ctx)
	default:
		return nil, id, errors.Wrap(err, "could not read board")
	}
}

func (s *Store) create(ctx context.Context) (*libvb.Document, string, error) {
	doc := s.options.Seed()
	id, err := s.remote.Create(ctx, doc)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not create board")
	}
	return doc, id, nil
}

// ID returns the identifier of the loaded board.
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Phase returns the load phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Document returns a copy of the in-memory document.
func (s *Store) Document() (*libvb.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return nil, ErrNotReady
	}
	return s.doc.Clone(), nil
}

// SyncState returns the synchronization state.
func (s *Store) SyncState() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncState()
}

func (s *Store) syncState() SyncState {
	switch {
	case s.interacting || s.editors > 0:
		return SyncInteracting
	case s.saving:
		return SyncSaving
	case s.dirty():
		return SyncDirty
	default:
		return SyncIdle
	}
}

func (s *Store) dirty() bool {
	return s.generation != s.pushed
}

// settled returns true when nothing local prevents remote changes from being applied.
func (s *Store) settled() bool {
	return s.phase == PhaseReady && !s.interacting && s.editors == 0 && !s.dirty() && !s.saving
}

// Status returns a snapshot of the store state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:    s.id,
		Phase: s.phase,
		Sync:  s.syncState(),
		Err:   s.pushErr,
	}
	if s.phase == PhaseLoadFailed {
		st.Err = s.loadErr
	}
	st.Retry = s.phase == PhaseReady && s.pushErr != nil && s.dirty()
	return st
}

// Mutate applies fn to the in-memory document, marks it dirty and schedules a push.
// The document must not be retained by fn.
func (s *Store) Mutate(fn func(doc *libvb.Document) error) error {
	s.mu.Lock()
	if s.phase != PhaseReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	doc := s.doc.Clone()
	if err := fn(doc); err != nil {
		s.mu.Unlock()
		return err
	}
	doc.Normalize()
	s.doc = doc
	s.generation++
	s.mu.Unlock()

	s.schedule()
	return nil
}

// Retry pushes the document now, typically after a failed push.
func (s *Store) Retry(ctx context.Context) error {
	return s.push(ctx)
}

// Flush pushes pending changes now.
func (s *Store) Flush(ctx context.Context) error {
	return s.push(ctx)
}

// Close flushes pending changes and stops the store.
// The remote service is not closed.
func (s *Store) Close(ctx context.Context) error {
	err := s.Flush(ctx)

	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		if s.interactionTimer != nil {
			s.interactionTimer.Stop()
		}
		for seq, ch := range s.observers {
			close(ch)
			delete(s.observers, seq)
		}
		s.mu.Unlock()
	})
	s.wg.Wait()

	return err
}

// schedule (re)starts the debounce timer. Only the last call of a burst enqueues a push.
func (s *Store) schedule() {
	s.debounced(s.enqueue)
}

// enqueue requests a push. The queue holds at most one pending request and
// the document is snapshotted when the push starts, so the latest state is always the one pushed.
func (s *Store) enqueue() {
	select {
	case s.pushes <- struct{}{}:
	default:
	}
}

func (s *Store) pusher() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case <-s.pushes:
			if err := s.push(context.Background()); err != nil {
				s.logger.WithError(err).Warn("auto-save failed")
			}
		case <-s.refreshes:
			s.pushMu.Lock()
			s.refresh(context.Background())
			s.pushMu.Unlock()
		}
	}
}

func (s *Store) push(ctx context.Context) error {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	if s.phase != PhaseReady || !s.dirty() {
		s.mu.Unlock()
		return nil
	}

	id := s.id
	epoch := s.epoch
	generation := s.generation
	snapshot := s.doc.Clone()
	s.saving = true
	s.mu.Unlock()

	patch, err := libvb.Patch(snapshot)
	if err == nil {
		err = s.remote.Write(ctx, id, patch, true)
	}

	s.mu.Lock()
	s.saving = false
	if epoch != s.epoch {
		// The board has been reloaded during the push.
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.pushErr = err
		s.mu.Unlock()
		return errors.Wrap(err, "could not save board")
	}

	s.pushErr = nil
	s.pushed = generation
	stale := s.stale && s.settled()
	s.mu.Unlock()

	s.logger.WithField("id", id).Debug("board saved")
	if stale {
		s.refresh(ctx)
	}
	return nil
}

// requestRefresh asks the pusher to read the remote document again when
// a notification has been rejected and the local copy is no longer held.
// It must be called with s.mu held.
func (s *Store) requestRefresh() {
	if !s.stale || !s.settled() {
		return
	}

	select {
	case s.refreshes <- struct{}{}:
	default:
	}
}

// refresh reads the remote document and reconciles it.
// It must be called with s.pushMu held.
func (s *Store) refresh(ctx context.Context) {
	s.mu.Lock()
	if !s.stale || !s.settled() {
		s.mu.Unlock()
		return
	}
	s.stale = false
	id := s.id
	epoch := s.epoch
	s.mu.Unlock()

	doc, err := s.remote.Read(ctx, id)

	s.mu.Lock()
	current := epoch == s.epoch
	if err != nil && current {
		s.stale = true
	}
	s.mu.Unlock()

	switch {
	case !current:
	case err != nil:
		s.logger.WithError(err).WithField("id", id).Warn("could not refresh board")
	default:
		s.Reconcile(doc)
	}
}
