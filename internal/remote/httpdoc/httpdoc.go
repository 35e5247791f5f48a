// Package httpdoc implements a remote.Service backed by a visionboardd server.
package httpdoc

import (
	"context"
	"time"

	"github.com/mdouchement/visionboard/internal/remote"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
)

// An HTTPDoc is a remote.Service talking to a visionboardd server.
// Remote changes are observed by polling.
type HTTPDoc struct {
	client libvb.Client
	poller *remote.Poller
}

// New returns a new HTTPDoc using the given client.
func New(client libvb.Client, interval time.Duration, logger logrus.FieldLogger) *HTTPDoc {
	s := &HTTPDoc{
		client: client,
	}
	s.poller = remote.Poll(interval, s, logger)
	return s
}

// Create stores a new document under a generated id.
func (s *HTTPDoc) Create(ctx context.Context, doc *libvb.Document) (string, error) {
	return s.client.CreateBoard(ctx, doc)
}

// CreateIfAbsent stores the document under id unless a document already exists.
func (s *HTTPDoc) CreateIfAbsent(ctx context.Context, id string, doc *libvb.Document) (bool, error) {
	return s.client.CreateBoardIfAbsent(ctx, id, doc)
}

// Read returns the document identified by id.
func (s *HTTPDoc) Read(ctx context.Context, id string) (*libvb.Document, error) {
	return s.client.GetBoard(ctx, id)
}

// Write writes a JSON object to the document identified by id.
func (s *HTTPDoc) Write(ctx context.Context, id string, patch []byte, merge bool) error {
	return s.client.UpdateBoard(ctx, id, patch, merge)
}

// Subscribe polls the document and calls fn when it changes.
func (s *HTTPDoc) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	return s.poller.Subscribe(ctx, id, fn)
}

// UploadBlob uploads the blob to the server media store.
func (s *HTTPDoc) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	return s.client.UploadMedia(ctx, data, contentType)
}

// Close implements remote.Service.
func (s *HTTPDoc) Close() error {
	return nil
}
