package libvb

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// DataURL encodes the given blob as a base64 data-URL.
func DataURL(data []byte, contentType string) string {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL returns true if the payload is a data-URL string.
func IsDataURL(payload []byte) bool {
	return len(payload) > 5 && string(payload[:5]) == "data:"
}

// ParseDataURL decodes a base64 data-URL.
func ParseDataURL(s string) (data []byte, contentType string, err error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", errors.New("not a data-URL")
	}

	meta, encoded, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", errors.New("malformed data-URL")
	}

	contentType, params, _ := strings.Cut(meta, ";")
	if params != "base64" {
		return nil, "", errors.New("only base64 data-URLs are supported")
	}

	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not decode data-URL")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// Blob normalizes an upload payload (raw bytes or data-URL) to raw bytes and content type.
func Blob(payload []byte, contentType string) ([]byte, string, error) {
	if IsDataURL(payload) {
		return ParseDataURL(string(payload))
	}
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}
	return payload, contentType, nil
}
