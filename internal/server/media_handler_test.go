package server_test

import (
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaUpload(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	var url string
	r.POST("/media").
		SetHeader(gofight.H{"Content-Type": "image/png"}).
		SetBody("\x89PNG fake").
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusCreated, r.Code)
			url, _ = decode(t, r.Body.String())["url"].(string)
		})
	require.Contains(t, url, "/media/")

	r.GET("/media/"+mediaID(url)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, "image/png", r.Header().Get("Content-Type"))
		assert.Equal(t, "\x89PNG fake", r.Body.String())
	})
}

func TestMediaUpload_DataURL(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	var url string
	r.POST("/media").
		SetHeader(gofight.H{"Content-Type": "text/plain"}).
		SetBody(libvb.DataURL([]byte("gif-bytes"), "image/gif")).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusCreated, r.Code)
			url, _ = decode(t, r.Body.String())["url"].(string)
		})

	r.GET("/media/"+mediaID(url)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, "image/gif", r.Header().Get("Content-Type"))
		assert.Equal(t, "gif-bytes", r.Body.String())
	})
}

func TestMediaUpload_Empty(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	r.POST("/media").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
	})
}

func TestMediaShow_NotFound(t *testing.T) {
	engine, _ := setup(t)
	r := gofight.New()

	r.GET("/media/missing").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})
}
