package libvb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// A Kind classifies the errors a board can face.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyExists
	KindPermissionDenied
	KindNetworkUnavailable
	KindMalformedImport
	KindGenerationFailure
)

var kinds = map[Kind]string{
	KindUnknown:            "unknown",
	KindNotFound:           "not-found",
	KindAlreadyExists:      "already-exists",
	KindPermissionDenied:   "permission-denied",
	KindNetworkUnavailable: "network-unavailable",
	KindMalformedImport:    "malformed-import",
	KindGenerationFailure:  "generation-failure",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s
	}
	return kinds[KindUnknown]
}

// KindFromTag returns the Kind matching the given tag.
func KindFromTag(tag string) Kind {
	for k, s := range kinds {
		if s == tag {
			return k
		}
	}
	return KindUnknown
}

// An Error is a typed board error.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

// NewError returns a new Error.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the kind of the given error, KindUnknown if err is not a typed board error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func IsAlreadyExists(err error) bool {
	return KindOf(err) == KindAlreadyExists
}

// IsPermissionDenied returns true if err is a permission denied error.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == KindPermissionDenied
}

// IsNetworkUnavailable returns true if err is an offline error.
func IsNetworkUnavailable(err error) bool {
	return KindOf(err) == KindNetworkUnavailable
}

// IsMalformedImport returns true if err is a rejected import.
func IsMalformedImport(err error) bool {
	return KindOf(err) == KindMalformedImport
}

// Unreachable classifies a transport error. Connectivity failures become
// KindNetworkUnavailable errors, everything else is returned wrapped.
func Unreachable(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, action)
	}

	var (
		nerr net.Error
		uerr *url.Error
		oerr *net.OpError
	)
	if errors.As(err, &nerr) || errors.As(err, &uerr) || errors.As(err, &oerr) {
		return &Error{
			Kind:    KindNetworkUnavailable,
			Message: fmt.Sprintf("%s: network unavailable: %s", action, err),
		}
	}
	return errors.Wrap(err, action)
}

// FromStatus builds the Error matching an HTTP status code.
func FromStatus(code int, action, message string) *Error {
	e := &Error{StatusCode: code, Message: fmt.Sprintf("%s failed. Status: %d", action, code)}
	if message != "" {
		e.Message += ". Details: " + message
	}

	switch code {
	case http.StatusNotFound:
		e.Kind = KindNotFound
	case http.StatusConflict:
		e.Kind = KindAlreadyExists
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindPermissionDenied
		e.Message = fmt.Sprintf("Permission denied (%d) for %s. Check the access rules of the document store.", code, action)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.Kind = KindNetworkUnavailable
	}
	return e
}

func parseError(r io.Reader, code int, action string) error {
	var payload struct {
		Error struct {
			Tag     string `json:"tag"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(r).Decode(&payload) // the status code is enough when the body is not JSON

	e := FromStatus(code, action, payload.Error.Message)
	if k := KindFromTag(payload.Error.Tag); k != KindUnknown && e.Kind == KindUnknown {
		e.Kind = k
	}
	return e
}
