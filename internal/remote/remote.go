// Package remote defines the document service a board is persisted to.
//
// Three backends are available:
//   - local: a storm database file on the device, changes are pushed in-process.
//   - cloud: a Redis document store with pub/sub push and a MinIO bucket for media.
//   - httpdoc: a visionboardd server, changes are observed by polling.
package remote

import (
	"context"

	"github.com/mdouchement/visionboard/pkg/libvb"
)

// Backend names.
const (
	BackendLocal = "local"
	BackendCloud = "cloud"
	BackendHTTP  = "http"
)

// A Service is a keyed JSON-document store with change subscription and blob upload.
type Service interface {
	// Create stores a new document under a generated id and returns that id.
	Create(ctx context.Context, doc *libvb.Document) (string, error)
	// CreateIfAbsent stores the document under id unless a document already exists.
	// It returns true when the document has been created by this call.
	CreateIfAbsent(ctx context.Context, id string, doc *libvb.Document) (bool, error)
	// Read returns the document identified by id.
	Read(ctx context.Context, id string) (*libvb.Document, error)
	// Write writes a JSON object to the document identified by id.
	// When merge is true, only its top-level fields override the stored ones.
	Write(ctx context.Context, id string, patch []byte, merge bool) error
	// Subscribe calls fn with the document each time it changes remotely.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error)
	// UploadBlob stores a blob (raw bytes or data-URL) and returns the URL to reference it.
	UploadBlob(ctx context.Context, data []byte, contentType string) (string, error)
	// Close releases the resources held by the service.
	Close() error
}
