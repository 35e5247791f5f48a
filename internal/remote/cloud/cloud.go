// Package cloud implements a remote.Service backed by Redis for documents
// and an S3-compatible bucket (MinIO) for media.
package cloud

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"strings"
	"sync"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

const (
	prefix     = "visionboard:board:"
	maxRetries = 10
)

type (
	// An ObjectStore stores media objects.
	ObjectStore interface {
		PutObject(ctx context.Context, bucket, name string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	}

	// MinioConfig holds the MinIO connection parameters.
	MinioConfig struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		Secure    bool
		// PublicURL is the base URL the bucket objects are served from.
		PublicURL string
	}

	// A Cloud is a remote.Service storing boards in Redis.
	Cloud struct {
		redis     *redis.Client
		objects   ObjectStore
		bucket    string
		publicURL string
		logger    logrus.FieldLogger

		mu      sync.Mutex
		pubsubs map[*redis.PubSub]struct{}
		wg      sync.WaitGroup
	}
)

// NewMinio returns a MinIO object store.
func NewMinio(c MinioConfig) (ObjectStore, error) {
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.Secure,
	})
	return client, errors.Wrap(err, "could not create minio client")
}

// BucketURL returns the base URL of the configured bucket.
func (c MinioConfig) BucketURL() string {
	if c.PublicURL != "" {
		return strings.TrimSuffix(c.PublicURL, "/")
	}

	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return scheme + "://" + c.Endpoint + "/" + c.Bucket
}

// Open connects to the Redis server at redisURL.
func Open(ctx context.Context, redisURL string, objects ObjectStore, c MinioConfig, logger logrus.FieldLogger) (*Cloud, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, libvb.Unreachable(err, "Connect to Redis")
	}

	return New(client, objects, c, logger), nil
}

// New returns a new Cloud using the given clients.
func New(client *redis.Client, objects ObjectStore, c MinioConfig, logger logrus.FieldLogger) *Cloud {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cloud{
		redis:     client,
		objects:   objects,
		bucket:    c.Bucket,
		publicURL: c.BucketURL(),
		logger:    logger,
		pubsubs:   map[*redis.PubSub]struct{}{},
	}
}

func key(id string) string {
	return prefix + id
}

// Create stores a new document under a generated id.
func (s *Cloud) Create(ctx context.Context, doc *libvb.Document) (string, error) {
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
func (s *Cloud) CreateIfAbsent(ctx context.Context, id string, doc *libvb.Document) (bool, error) {
	payload, err := libvb.Patch(doc)
	if err != nil {
		return false, err
	}

	created, err := s.redis.SetNX(ctx, key(id), payload, 0).Result()
	if err != nil {
		return false, libvb.Unreachable(err, "Create Board")
	}
	if created {
		s.publish(ctx, id, payload)
	}
	return created, nil
}

// Read returns the document identified by id.
func (s *Cloud) Read(ctx context.Context, id string) (*libvb.Document, error) {
	payload, err := s.redis.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return nil, libvb.NewError(libvb.KindNotFound, "board %s not found", id)
	}
	if err != nil {
		return nil, libvb.Unreachable(err, "Fetch Board")
	}
	return libvb.Decode(payload)
}

// Write writes a JSON object to the document identified by id.
// Merges are performed in an optimistic transaction (WATCH/MULTI).
func (s *Cloud) Write(ctx context.Context, id string, patch []byte, merge bool) error {
	k := key(id)

	if !merge {
		if err := s.redis.Set(ctx, k, patch, 0).Err(); err != nil {
			return libvb.Unreachable(err, "Update Board")
		}
		s.publish(ctx, id, patch)
		return nil
	}

	var document []byte
	txf := func(tx *redis.Tx) error {
		base, err := tx.Get(ctx, k).Bytes()
		if err == redis.Nil {
			return libvb.NewError(libvb.KindNotFound, "board %s not found", id)
		}
		if err != nil {
			return err
		}

		document, err = libvb.MergeTopLevel(base, patch)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, document, 0)
			return nil
		})
		return err
	}

	for range maxRetries {
		err := s.redis.Watch(ctx, txf, k)
		switch {
		case err == nil:
			s.publish(ctx, id, document)
			return nil
		case err == redis.TxFailedErr:
			continue
		case libvb.KindOf(err) != libvb.KindUnknown:
			return err
		default:
			return libvb.Unreachable(err, "Update Board")
		}
	}
	return errors.New("could not update board: too many concurrent writes")
}

// Subscribe calls fn each time the document is written by any client.
func (s *Cloud) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	pubsub := s.redis.Subscribe(ctx, key(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, libvb.Unreachable(err, "Subscribe Board")
	}

	s.mu.Lock()
	s.pubsubs[pubsub] = struct{}{}
	s.mu.Unlock()

	ch := pubsub.Channel()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for msg := range ch {
			doc, err := libvb.Decode([]byte(msg.Payload))
			if err != nil {
				s.logger.WithError(err).WithField("id", id).Warn("could not decode pushed board")
				continue
			}
			fn(doc)
		}
	}()

	return func() {
		s.unsubscribe(pubsub)
	}, nil
}

func (s *Cloud) unsubscribe(pubsub *redis.PubSub) {
	s.mu.Lock()
	_, ok := s.pubsubs[pubsub]
	delete(s.pubsubs, pubsub)
	s.mu.Unlock()

	if ok {
		pubsub.Close()
	}
}

// UploadBlob stores the blob in the bucket under its content hash and returns its public URL.
func (s *Cloud) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.objects == nil {
		return "", errors.New("no object store configured")
	}

	data, contentType, err := libvb.Blob(data, contentType)
	if err != nil {
		return "", errors.Wrap(err, "could not decode blob")
	}

	sum := blake2b.Sum256(data)
	name := "media/" + hex.EncodeToString(sum[:])

	_, err = s.objects.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", libvb.Unreachable(err, "Upload Image")
	}

	return s.publicURL + "/" + name, nil
}

// Close closes the Redis connection and waits for the subscriptions to end.
func (s *Cloud) Close() error {
	s.mu.Lock()
	pubsubs := make([]*redis.PubSub, 0, len(s.pubsubs))
	for pubsub := range s.pubsubs {
		pubsubs = append(pubsubs, pubsub)
	}
	s.mu.Unlock()

	for _, pubsub := range pubsubs {
		s.unsubscribe(pubsub)
	}
	s.wg.Wait()

	return s.redis.Close()
}

func (s *Cloud) publish(ctx context.Context, id string, payload []byte) {
	if err := s.redis.Publish(ctx, key(id), payload).Err(); err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("could not publish board change")
	}
}
