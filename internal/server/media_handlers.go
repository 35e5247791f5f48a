package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/model"
	"github.com/mdouchement/visionboard/internal/vberror"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// media contains all media handlers.
type media struct {
	db database.Client
}

///// Upload
////
//

// Upload stores the request body (raw bytes or a data-URL) and renders its public URL.
func (h *media) Upload(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "could not read request body")
	}
	if len(payload) == 0 {
		return vberror.NewWithTagCode(http.StatusBadRequest, "", "Request body can't be empty")
	}

	data, contentType, err := libvb.Blob(payload, c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return vberror.NewWithTagCode(http.StatusBadRequest, "", err.Error())
	}

	blob := &model.Blob{
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}
	blob.ID = xid.New().String()

	if err = h.db.Save(blob); err != nil {
		return errors.Wrap(err, "could not save media")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"url": c.Scheme() + "://" + c.Request().Host + "/media/" + blob.ID,
	})
}

///// Show
////
//

// Show renders the stored media.
func (h *media) Show(c echo.Context) error {
	blob, err := h.db.FindBlob(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return vberror.NewWithKind(libvb.KindNotFound, "Media not found.")
		}
		return err
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, blob.ContentType, blob.Data)
}
