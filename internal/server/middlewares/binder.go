package middlewares

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/visionboard/internal/vberror"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

type binder struct {
	echo.DefaultBinder
	methodsWithBody map[string]bool
}

// NewBinder returns a wrapp of the default binder implementation where JSON bodies must be a JSON object.
func NewBinder() echo.Binder {
	return &binder{
		methodsWithBody: map[string]bool{
			http.MethodPost:  true,
			http.MethodPatch: true,
			http.MethodPut:   true,
		},
	}
}

// Bind implements the echo.Bind interface.
func (b *binder) Bind(i any, c echo.Context) (err error) {
	if !b.methodsWithBody[c.Request().Method] || !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return b.DefaultBinder.Bind(i, c)
	}

	if err = b.BindPathParams(c, i); err != nil {
		return err
	}

	payload, err := ReadObject(c)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(payload, i); err != nil {
		return vberror.NewWithTagCode(http.StatusBadRequest, "", "Malformed JSON object.")
	}
	return nil
}

// ReadObject reads the request body and ensures it is a JSON object.
func ReadObject(c echo.Context) ([]byte, error) {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read request body")
	}
	if len(payload) == 0 {
		return nil, vberror.NewWithTagCode(http.StatusBadRequest, "", "Request body can't be empty")
	}

	v, err := fastjson.ParseBytes(payload)
	if err != nil || v.Type() != fastjson.TypeObject {
		return nil, vberror.NewWithTagCode(http.StatusBadRequest, "", "Board document must be a JSON object.")
	}
	return payload, nil
}
