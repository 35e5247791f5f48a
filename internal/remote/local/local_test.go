package local_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/remote/local"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *local.Local {
	t.Helper()

	db, err := database.StormOpen(filepath.Join(t.TempDir(), "local.db"), "")
	require.NoError(t, err)

	s := local.New(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocal_CreateRead(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	id, err := s.Create(ctx, libvb.SeedDocument())
	require.NoError(t, err)
	assert.Contains(t, id, "board_")

	doc, err := s.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, libvb.SeedDocument().Items, doc.Items)
	assert.NotZero(t, doc.LastUpdated)

	_, err = s.Read(ctx, "missing")
	assert.True(t, libvb.IsNotFound(err))
}

func TestLocal_CreateIfAbsent(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	created, err := s.CreateIfAbsent(ctx, libvb.DefaultBoardID, &libvb.Document{HeaderConfig: libvb.HeaderConfig{Title: "first"}})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.CreateIfAbsent(ctx, libvb.DefaultBoardID, &libvb.Document{HeaderConfig: libvb.HeaderConfig{Title: "second"}})
	require.NoError(t, err)
	assert.False(t, created)

	doc, err := s.Read(ctx, libvb.DefaultBoardID)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.HeaderConfig.Title)
}

func TestLocal_WriteSubscribe(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	assert.True(t, libvb.IsNotFound(s.Write(ctx, "b", []byte(`{"items":[]}`), true)))

	var titles []string
	unsubscribe, err := s.Subscribe(ctx, "b", func(doc *libvb.Document) {
		titles = append(titles, doc.HeaderConfig.Title)
	})
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "b", []byte(`{"items":[],"headerConfig":{"title":"A"}}`), false))
	require.NoError(t, s.Write(ctx, "b", []byte(`{"items":[{"id":"1","type":"note"}]}`), true))
	unsubscribe()
	require.NoError(t, s.Write(ctx, "b", []byte(`{"headerConfig":{"title":"B"}}`), true))

	assert.Equal(t, []string{"A", "A"}, titles)

	doc, err := s.Read(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", doc.HeaderConfig.Title)
	require.Len(t, doc.Items, 1)
}

func TestLocal_UploadBlob(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	url, err := s.UploadBlob(ctx, []byte("raw"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, libvb.DataURL([]byte("raw"), "image/png"), url)

	dataURL := libvb.DataURL([]byte("x"), "image/gif")
	url, err = s.UploadBlob(ctx, []byte(dataURL), "")
	require.NoError(t, err)
	assert.Equal(t, dataURL, url)
}
