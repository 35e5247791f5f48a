// Package local implements a remote.Service backed by a storm database file on the device.
package local

import (
	"context"
	"sync"

	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/model"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

// A Local is a remote.Service storing boards in a storm database.
// Subscribers are notified in-process after each write.
type Local struct {
	db database.Client

	mu          sync.Mutex
	seq         int
	subscribers map[string]map[int]func(*libvb.Document)
}

// New returns a new Local using the given database.
// The database is closed by Close.
func New(db database.Client) *Local {
	return &Local{
		db:          db,
		subscribers: map[string]map[int]func(*libvb.Document){},
	}
}

// Create stores a new document under a generated id.
func (s *Local) Create(ctx context.Context, doc *libvb.Document) (string, error) {
	id := libvb.NewBoardID()
	created, err := s.CreateIfAbsent(ctx, id, doc)
	if err != nil {
		return "", err
	}
	if !created {
		return "", libvb.NewError(libvb.KindAlreadyExists, "board %s already exists", id)
	}
	return id, nil
}

// CreateIfAbsent stores the document under id unless a document already exists.
func (s *Local) CreateIfAbsent(ctx context.Context, id string, doc *libvb.Document) (bool, error) {
	payload, err := libvb.Patch(doc)
	if err != nil {
		return false, err
	}

	record := &model.Board{Document: payload}
	record.ID = id

	created, err := s.db.CreateBoard(record)
	if err != nil {
		return false, errors.Wrap(err, "could not create board")
	}
	if created {
		s.notify(id, payload)
	}
	return created, nil
}

// Read returns the document identified by id.
func (s *Local) Read(ctx context.Context, id string) (*libvb.Document, error) {
	record, err := s.db.FindBoard(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, libvb.NewError(libvb.KindNotFound, "board %s not found", id)
		}
		return nil, errors.Wrap(err, "could not read board")
	}
	return libvb.Decode(record.Document)
}

// Write writes a JSON object to the document identified by id.
func (s *Local) Write(ctx context.Context, id string, patch []byte, merge bool) error {
	record, err := s.db.WriteBoard(id, patch, merge)
	if err != nil {
		if s.db.IsNotFound(err) {
			return libvb.NewError(libvb.KindNotFound, "board %s not found", id)
		}
		return errors.Wrap(err, "could not write board")
	}

	s.notify(id, record.Document)
	return nil
}

// Subscribe calls fn each time the document is written through this service.
func (s *Local) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	seq := s.seq
	if s.subscribers[id] == nil {
		s.subscribers[id] = map[int]func(*libvb.Document){}
	}
	s.subscribers[id][seq] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subscribers[id], seq)
		if len(s.subscribers[id]) == 0 {
			delete(s.subscribers, id)
		}
	}, nil
}

// UploadBlob returns the blob as a data-URL, embedded media need no storage.
func (s *Local) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	if libvb.IsDataURL(data) {
		return string(data), nil
	}
	return libvb.DataURL(data, contentType), nil
}

// Close closes the underlying database.
func (s *Local) Close() error {
	return s.db.Close()
}

func (s *Local) notify(id string, payload []byte) {
	s.mu.Lock()
	fns := make([]func(*libvb.Document), 0, len(s.subscribers[id]))
	for _, fn := range s.subscribers[id] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	doc, err := libvb.Decode(payload)
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(doc.Clone())
	}
}
