package vberror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mdouchement/visionboard/internal/vberror"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/stretchr/testify/assert"
)

func TestVBError(t *testing.T) {
	err := vberror.New("some message")

	assert.Equal(t, "some message", err.Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusTeapot, vberror.StatusCode(vberror.NewWithTagCode(http.StatusTeapot, "", "")))
	assert.Equal(t, http.StatusInternalServerError, vberror.StatusCode(errors.New("boom")))
}

func TestNewWithKind(t *testing.T) {
	err := vberror.NewWithKind(libvb.KindNotFound, "Board not found")
	assert.Equal(t, http.StatusNotFound, err.HTTPCode)
	assert.Equal(t, "not-found", err.FieldError.Tag)

	err = vberror.NewWithKind(libvb.KindAlreadyExists, "Board already exists")
	assert.Equal(t, http.StatusConflict, err.HTTPCode)

	err = vberror.NewWithKind(libvb.KindUnknown, "oops")
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "unknown", err.FieldError.Tag)
}
