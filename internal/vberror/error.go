package vberror

import (
	"net/http"

	"github.com/mdouchement/visionboard/pkg/libvb"
)

type (
	// A VBError represents the error format that can be rendered by visionboard server.
	VBError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

var statuses = map[libvb.Kind]int{
	libvb.KindNotFound:           http.StatusNotFound,
	libvb.KindAlreadyExists:      http.StatusConflict,
	libvb.KindPermissionDenied:   http.StatusForbidden,
	libvb.KindNetworkUnavailable: http.StatusServiceUnavailable,
	libvb.KindMalformedImport:    http.StatusBadRequest,
	libvb.KindGenerationFailure:  http.StatusBadGateway,
}

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if vberr, ok := err.(*VBError); ok {
		return vberr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new VBError with the given message.
func New(message string) *VBError {
	return &VBError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new VBError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *VBError {
	return &VBError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// NewWithKind returns a new VBError tagged and coded after the given kind.
func NewWithKind(kind libvb.Kind, message string) *VBError {
	code, ok := statuses[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return NewWithTagCode(code, kind.String(), message)
}

// Error implements error interface.
func (e *VBError) Error() string {
	return e.FieldError.Message
}
