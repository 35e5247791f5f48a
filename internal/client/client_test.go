package client_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mdouchement/visionboard/internal/client"
	"github.com/mdouchement/visionboard/internal/config"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/lock"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(t *testing.T) client.Options {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	return client.Options{
		Config: config.Config{
			Backend:      "local",
			DatabasePath: filepath.Join(t.TempDir(), "visionboard.db"),
			Debounce:     10 * time.Millisecond,
		},
		Logger: logger,
	}
}

func open(t *testing.T, o client.Options) *client.Session {
	t.Helper()

	s, err := client.Open(context.Background(), o)
	require.NoError(t, err)
	return s
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	o := options(t)

	s := open(t, o)
	assert.Equal(t, libvb.DefaultBoardID, s.Store.ID())

	var out bytes.Buffer
	require.NoError(t, client.Add(s.Store, &out, libvb.TypeGoal, "Run a marathon", []string{"title=Fitness", "rotation=3"}))
	id := string(bytes.TrimSpace(out.Bytes()))
	require.NotEmpty(t, id)

	require.NoError(t, client.Edit(s.Store, id, []string{"content=Run two marathons", "scale=1.5"}))
	require.NoError(t, client.Header(s.Store, []string{"title=Focus", "hashtags=#run, #read"}))
	require.NoError(t, client.Delete(s.Store, "4"))
	require.NoError(t, s.Close(ctx))

	s = open(t, o)
	defer s.Close(ctx)

	doc, err := s.Store.Document()
	require.NoError(t, err)
	require.Equal(t, id, doc.Items[0].ID)
	assert.Equal(t, "Run two marathons", doc.Items[0].Content)
	assert.Equal(t, "Fitness", doc.Items[0].Title)
	assert.Equal(t, libvb.Rotation(3), doc.Items[0].Rotation)
	assert.Equal(t, 1.5, doc.Items[0].Scale)
	assert.Equal(t, "Focus", doc.HeaderConfig.Title)
	assert.Equal(t, []string{"#run", "#read"}, doc.HeaderConfig.Hashtags)
	assert.Equal(t, -1, libvb.IndexOf(doc.Items, "4"))
}

func TestSession_AdoptedID(t *testing.T) {
	ctx := context.Background()
	o := options(t)
	o.BoardID = "missing"

	s := open(t, o)
	id := s.Store.ID()
	assert.NotEqual(t, "missing", id)
	require.NoError(t, s.Close(ctx))

	o.BoardID = ""
	s = open(t, o)
	defer s.Close(ctx)
	assert.Equal(t, id, s.Store.ID())
}

func TestSession_Locked(t *testing.T) {
	ctx := context.Background()
	o := options(t)

	db, err := database.StormOpen(o.Config.DatabasePath, "")
	require.NoError(t, err)
	require.NoError(t, lock.New(db).Enable("1234"))
	require.NoError(t, db.Close())

	asked := 0
	o.Ask = func() (string, error) {
		asked++
		return "0000", nil
	}
	_, err = client.Open(ctx, o)
	assert.ErrorIs(t, err, lock.ErrWrongCode)
	assert.Equal(t, client.UnlockAttempts, asked)

	o.Ask = func() (string, error) { return "1234", nil }
	s := open(t, o)
	require.NoError(t, s.Close(ctx))
}

func TestShow(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	var out bytes.Buffer
	require.NoError(t, client.Show(s.Store, &out, false))
	assert.Contains(t, out.String(), "My Era ✨")
	assert.Contains(t, out.String(), "Productive Day")
	assert.Contains(t, out.String(), "default: ready, idle")

	out.Reset()
	require.NoError(t, client.Show(s.Store, &out, true))
	assert.Contains(t, out.String(), "HeaderConfig")
}

func TestShow_TruncatesRunes(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	var out bytes.Buffer
	require.NoError(t, client.Add(s.Store, &out, libvb.TypeNote, strings.Repeat("✨", 80), nil))

	out.Reset()
	require.NoError(t, client.Show(s.Store, &out, false))
	assert.True(t, utf8.ValidString(out.String()))
	assert.Contains(t, out.String(), strings.Repeat("✨", 57)+"...")
	assert.NotContains(t, out.String(), strings.Repeat("✨", 58))
}

func TestMoveAndJournal(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	require.NoError(t, client.Move(s.Store, 0, 1))

	var out bytes.Buffer
	require.NoError(t, client.Journal(s.Store, &out, "", "Long walk", "🌿"))

	doc, err := s.Store.Document()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, []string{doc.BoardItems()[0].ID, doc.BoardItems()[1].ID})

	entries := doc.JournalEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Dear Diary", entries[0].Title)
	assert.Equal(t, "Long walk", entries[0].Content)

	assert.Error(t, client.Journal(s.Store, &out, "", "  ", ""))
	assert.Error(t, client.Move(s.Store, 0, 42))
}

func TestExportImport(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	filename := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, client.Export(s.Store, filename))
	require.NoError(t, client.Reset(s.Store))
	require.NoError(t, client.Delete(s.Store, "1"))

	require.NoError(t, client.Import(s.Store, filename))
	doc, err := s.Store.Document()
	require.NoError(t, err)
	assert.Equal(t, libvb.SeedDocument().Items, doc.Items)

	require.NoError(t, os.WriteFile(filename, []byte(`{"version":1}`), 0600))
	err = client.Import(s.Store, filename)
	assert.True(t, libvb.IsMalformedImport(err))
}

func TestUpload(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	filename := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(filename, png, 0600))

	var out bytes.Buffer
	require.NoError(t, client.Upload(context.Background(), s.Store, &out, filename, []string{"title=Mood"}))

	doc, err := s.Store.Document()
	require.NoError(t, err)
	item := doc.Items[0]
	assert.Equal(t, string(bytes.TrimSpace(out.Bytes())), item.ID)
	assert.Equal(t, libvb.TypeImage, item.Type)
	assert.Equal(t, "Mood", item.Title)
	assert.Equal(t, libvb.DataURL(png, "image/png"), item.Content)
}

func TestImagine_Offline(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	var out bytes.Buffer
	err := client.Imagine(context.Background(), s.Store, &out, "a sunrise", nil)
	assert.Equal(t, libvb.KindGenerationFailure, libvb.KindOf(err))
	assert.Empty(t, out.String())
}

func TestSay_Offline(t *testing.T) {
	s := open(t, options(t))
	defer s.Close(context.Background())

	var out bytes.Buffer
	require.NoError(t, client.Say(context.Background(), s.Store, &out, "hello"))
	assert.Contains(t, out.String(), "coach")

	doc, err := s.Store.Document()
	require.NoError(t, err)
	assert.Len(t, doc.ChatMessages, 3)
}
