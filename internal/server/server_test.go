package server_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHome(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestVersion(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func setup(t *testing.T) (*echo.Echo, database.Client) {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "visionboard.db")
	require.NoError(t, database.StormInit(filename, ""))

	db, err := database.StormOpen(filename, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	engine := server.EchoEngine(server.IOC{
		Version:  "test",
		Database: db,
		Logger:   logger,
	})
	return engine, db
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func errorTag(t *testing.T, body string) string {
	t.Helper()

	e, ok := decode(t, body)["error"].(map[string]any)
	require.True(t, ok, body)
	tag, _ := e["tag"].(string)
	return tag
}

func mediaID(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}
