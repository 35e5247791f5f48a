package board_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdouchement/visionboard/internal/board"
	"github.com/mdouchement/visionboard/internal/remote"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	sync.Mutex
	docs        map[string][]byte
	writes      [][]byte
	writeErr    error
	readErr     error
	block       chan struct{} // when not nil, writes wait for it to be closed
	subscribers map[string]func(*libvb.Document)
	seq         int
	reads       int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:        map[string][]byte{},
		subscribers: map[string]func(*libvb.Document){},
	}
}

func (r *fakeRemote) Create(ctx context.Context, doc *libvb.Document) (string, error) {
	r.Lock()
	r.seq++
	id := "board_" + strings.Repeat("x", r.seq)
	r.Unlock()

	_, err := r.CreateIfAbsent(ctx, id, doc)
	return id, err
}

func (r *fakeRemote) CreateIfAbsent(ctx context.Context, id string, doc *libvb.Document) (bool, error) {
	r.Lock()
	defer r.Unlock()

	if r.readErr != nil {
		return false, r.readErr
	}
	if _, ok := r.docs[id]; ok {
		return false, nil
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return false, err
	}
	r.docs[id] = payload
	return true, nil
}

func (r *fakeRemote) Read(ctx context.Context, id string) (*libvb.Document, error) {
	r.Lock()
	defer r.Unlock()

	r.reads++
	if r.readErr != nil {
		return nil, r.readErr
	}
	payload, ok := r.docs[id]
	if !ok {
		return nil, libvb.NewError(libvb.KindNotFound, "board %s not found", id)
	}
	return libvb.Decode(payload)
}

func (r *fakeRemote) Write(ctx context.Context, id string, patch []byte, merge bool) error {
	r.Lock()
	block := r.block
	r.Unlock()
	if block != nil {
		<-block
	}

	r.Lock()
	defer r.Unlock()

	r.writes = append(r.writes, patch)
	if r.writeErr != nil {
		return r.writeErr
	}

	document, err := libvb.MergeTopLevel(r.docs[id], patch)
	if err != nil {
		return err
	}
	r.docs[id] = document
	return nil
}

func (r *fakeRemote) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	r.Lock()
	defer r.Unlock()

	r.subscribers[id] = fn
	return func() {
		r.Lock()
		defer r.Unlock()
		delete(r.subscribers, id)
	}, nil
}

func (r *fakeRemote) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	return "https://media.lan/blob", nil
}

func (r *fakeRemote) Close() error {
	return nil
}

func (r *fakeRemote) push(id string, doc *libvb.Document) bool {
	r.Lock()
	fn := r.subscribers[id]
	r.Unlock()

	if fn == nil {
		return false
	}
	fn(doc)
	return true
}

// set stores doc as if another client wrote it, without notifying subscribers.
func (r *fakeRemote) set(t *testing.T, id string, doc *libvb.Document) {
	t.Helper()

	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	r.Lock()
	defer r.Unlock()
	r.docs[id] = payload
}

func (r *fakeRemote) readCount() int {
	r.Lock()
	defer r.Unlock()
	return r.reads
}

func (r *fakeRemote) writeCount() int {
	r.Lock()
	defer r.Unlock()
	return len(r.writes)
}

func (r *fakeRemote) lastWrite(t *testing.T) *libvb.Document {
	t.Helper()

	r.Lock()
	defer r.Unlock()

	require.NotEmpty(t, r.writes)
	doc, err := libvb.Decode(r.writes[len(r.writes)-1])
	require.NoError(t, err)
	return doc
}

func (r *fakeRemote) stored(t *testing.T, id string) *libvb.Document {
	t.Helper()

	r.Lock()
	defer r.Unlock()

	doc, err := libvb.Decode(r.docs[id])
	require.NoError(t, err)
	return doc
}

type fakeAdvisor struct {
	sync.Mutex
	chats []string
	plans []string
	image string
}

func (a *fakeAdvisor) ChatReply(ctx context.Context, text string) string {
	a.Lock()
	defer a.Unlock()
	a.chats = append(a.chats, text)
	return "chat reply"
}

func (a *fakeAdvisor) StudyPlan(ctx context.Context, topic string) string {
	a.Lock()
	defer a.Unlock()
	a.plans = append(a.plans, topic)
	return "# Plan"
}

func (a *fakeAdvisor) GenerateImage(ctx context.Context, prompt string) string {
	return a.image
}

const (
	debounce = 50 * time.Millisecond
	settle   = 4 * debounce
)

func newStore(t *testing.T, r *fakeRemote, opts ...func(*board.Options)) *board.Store {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	o := board.Options{
		Remote:             r,
		Logger:             logger,
		Debounce:           debounce,
		InteractionTimeout: time.Second,
		JournalSettle:      100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := board.New(o)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func loaded(t *testing.T, r *fakeRemote, opts ...func(*board.Options)) *board.Store {
	t.Helper()

	s := newStore(t, r, opts...)
	_, err := s.Load(context.Background(), libvb.DefaultBoardID)
	require.NoError(t, err)
	return s
}

func note(id, content string) libvb.Item {
	return libvb.Item{ID: id, Type: libvb.TypeNote, Content: content, Scale: 1}
}

// polled is a fakeRemote observed by polling instead of pushed notifications.
type polled struct {
	*fakeRemote
	poller *remote.Poller
}

func (p polled) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	return p.poller.Subscribe(ctx, id, fn)
}

func withPolling(r *fakeRemote) func(*board.Options) {
	return func(o *board.Options) {
		o.Remote = polled{fakeRemote: r, poller: remote.Poll(10*time.Millisecond, r, nil)}
	}
}

func title(t *testing.T, s *board.Store) string {
	t.Helper()

	doc, err := s.Document()
	require.NoError(t, err)
	return doc.HeaderConfig.Title
}

func watch(t *testing.T, s *board.Store) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}
