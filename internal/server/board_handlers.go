package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/model"
	"github.com/mdouchement/visionboard/internal/server/middlewares"
	"github.com/mdouchement/visionboard/internal/vberror"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

// board contains all board handlers.
type board struct {
	db database.Client
}

///// Create
////
//

// Create stores a new board under a generated id.
func (h *board) Create(c echo.Context) error {
	var doc libvb.Document
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, vberror.New("Could not get board document."))
	}
	doc.Normalize()

	payload, err := libvb.Patch(&doc)
	if err != nil {
		return err
	}

	record := &model.Board{Document: payload}
	record.ID = libvb.NewBoardID()

	created, err := h.db.CreateBoard(record)
	if err != nil {
		return errors.Wrap(err, "could not create board")
	}
	if !created {
		return vberror.NewWithKind(libvb.KindAlreadyExists, "Board already exists.")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id": record.ID,
	})
}

///// Show
////
//

// Show renders the stored board document.
func (h *board) Show(c echo.Context) error {
	record, err := h.db.FindBoard(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return vberror.NewWithKind(libvb.KindNotFound, "Board not found.")
		}
		return err
	}

	return c.JSONBlob(http.StatusOK, record.Document)
}

///// Replace
////
//

// Replace overwrites the whole board document.
// With `if_absent=true`, the board is only created when it does not exist yet.
func (h *board) Replace(c echo.Context) error {
	payload, err := middlewares.ReadObject(c)
	if err != nil {
		return err
	}

	ifAbsent, _ := strconv.ParseBool(c.QueryParam("if_absent"))
	if ifAbsent {
		record := &model.Board{Document: payload}
		record.ID = c.Param("id")

		created, err := h.db.CreateBoard(record)
		if err != nil {
			return errors.Wrap(err, "could not create board")
		}
		if !created {
			return vberror.NewWithKind(libvb.KindAlreadyExists, "Board already exists.")
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"id": record.ID,
		})
	}

	if _, err = h.db.WriteBoard(c.Param("id"), payload, false); err != nil {
		return errors.Wrap(err, "could not replace board")
	}
	return c.NoContent(http.StatusNoContent)
}

///// Merge
////
//

// Merge overrides the top-level fields of the board document with the given ones.
func (h *board) Merge(c echo.Context) error {
	payload, err := middlewares.ReadObject(c)
	if err != nil {
		return err
	}

	if _, err = h.db.WriteBoard(c.Param("id"), payload, true); err != nil {
		if h.db.IsNotFound(err) {
			return vberror.NewWithKind(libvb.KindNotFound, "Board not found.")
		}
		return errors.Wrap(err, "could not merge board")
	}
	return c.NoContent(http.StatusNoContent)
}
