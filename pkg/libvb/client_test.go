package libvb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/server"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) libvb.Client {
	t.Helper()

	db, err := database.StormOpen(filepath.Join(t.TempDir(), "visionboard.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	ts := httptest.NewServer(server.EchoEngine(server.IOC{
		Version:  "test",
		Database: db,
		Logger:   logger,
	}))
	t.Cleanup(ts.Close)

	client, err := libvb.NewClient(ts.Client(), ts.URL)
	require.NoError(t, err)
	return client
}

func TestClient_Version(t *testing.T) {
	client := setup(t)

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", v)
}

func TestClient_Board(t *testing.T) {
	client := setup(t)
	ctx := context.Background()

	_, err := client.GetBoard(ctx, libvb.DefaultBoardID)
	assert.True(t, libvb.IsNotFound(err))

	created, err := client.CreateBoardIfAbsent(ctx, libvb.DefaultBoardID, libvb.SeedDocument())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = client.CreateBoardIfAbsent(ctx, libvb.DefaultBoardID, &libvb.Document{})
	require.NoError(t, err)
	assert.False(t, created)

	err = client.UpdateBoard(ctx, libvb.DefaultBoardID, []byte(`{"headerConfig":{"title":"Focus","subtitle":"","hashtags":[]}}`), true)
	require.NoError(t, err)

	doc, err := client.GetBoard(ctx, libvb.DefaultBoardID)
	require.NoError(t, err)
	assert.Equal(t, "Focus", doc.HeaderConfig.Title)
	assert.Equal(t, libvb.SeedDocument().Items, doc.Items)

	err = client.UpdateBoard(ctx, "missing", []byte(`{"items":[]}`), true)
	assert.True(t, libvb.IsNotFound(err))

	err = client.UpdateBoard(ctx, libvb.DefaultBoardID, []byte(`[]`), false)
	var e *libvb.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)

	id, err := client.CreateBoard(ctx, libvb.SeedDocument())
	require.NoError(t, err)
	assert.NotEqual(t, libvb.DefaultBoardID, id)
}

func TestClient_UploadMedia(t *testing.T) {
	client := setup(t)

	url, err := client.UploadMedia(context.Background(), []byte("GIF89a"), "image/gif")
	require.NoError(t, err)
	assert.Contains(t, url, "/media/")
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	client, err := libvb.NewClient(http.DefaultClient, ts.URL)
	require.NoError(t, err)

	_, err = client.GetBoard(context.Background(), libvb.DefaultBoardID)
	assert.True(t, libvb.IsNetworkUnavailable(err))
}
