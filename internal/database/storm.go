package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/visionboard/internal/model"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/mdouchement/visionboard/pkg/stormcodec"
	"github.com/pkg/errors"
)

const settingsBucket = "settings"

type strm struct {
	db *storm.DB
}

func open(database, codec string) (*storm.DB, error) {
	c, err := stormcodec.ByName(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database, storm.Codec(c))
	return db, errors.Wrap(err, "could not get database connection")
}

// StormInit initializes Storm database.
func StormInit(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Init(&model.Board{}); err != nil {
		return errors.Wrap(err, "could not init board index")
	}

	err = db.Init(&model.Blob{})
	return errors.Wrap(err, "could not init blob index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReIndex(&model.Board{}); err != nil {
		return errors.Wrap(err, "could not ReIndex boards")
	}

	err = db.ReIndex(&model.Blob{})
	return errors.Wrap(err, "could not ReIndex blobs")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database, codec string) (Client, error) {
	db, err := open(database, codec)
	if err != nil {
		return nil, err
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
	}
	model.Stamp(m, time.Now().UTC())

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is nil or a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindBoard returns the board for the given id.
func (c *strm) FindBoard(id string) (*model.Board, error) {
	var board model.Board
	if err := c.db.One("ID", id, &board); err != nil {
		return nil, errors.Wrap(err, "could not find board")
	}
	return &board, nil
}

// CreateBoard inserts the board unless a board with the same id already exists.
func (c *strm) CreateBoard(board *model.Board) (bool, error) {
	if board.ID == "" {
		return false, errors.New("could not create a board without id")
	}

	tx, err := c.db.Begin(true)
	if err != nil {
		return false, errors.Wrap(err, "could not start transaction")
	}
	defer tx.Rollback() // nolint:errcheck

	var existing model.Board
	err = tx.One("ID", board.ID, &existing)
	switch {
	case err == nil:
		return false, nil
	case err != storm.ErrNotFound:
		return false, errors.Wrap(err, "could not find board")
	}

	model.Stamp(board, time.Now().UTC())
	if err = tx.Save(board); err != nil {
		return false, errors.Wrap(err, "could not save the board")
	}

	return true, errors.Wrap(tx.Commit(), "could not commit board creation")
}

// WriteBoard writes the given JSON object to the board identified by id in a single transaction.
func (c *strm) WriteBoard(id string, patch []byte, merge bool) (*model.Board, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, errors.Wrap(err, "could not start transaction")
	}
	defer tx.Rollback() // nolint:errcheck

	var board model.Board
	err = tx.One("ID", id, &board)
	switch {
	case err == storm.ErrNotFound && merge:
		return nil, errors.Wrap(err, "could not find board")
	case err == storm.ErrNotFound:
		board.ID = id
	case err != nil:
		return nil, errors.Wrap(err, "could not find board")
	}

	document := patch
	if merge {
		document, err = libvb.MergeTopLevel(board.Document, patch)
		if err != nil {
			return nil, errors.Wrap(err, "could not merge board")
		}
	}
	board.Document = document

	model.Stamp(&board, time.Now().UTC())
	if err = tx.Save(&board); err != nil {
		return nil, errors.Wrap(err, "could not save the board")
	}

	return &board, errors.Wrap(tx.Commit(), "could not commit board update")
}

// FindBlob returns the blob for the given id.
func (c *strm) FindBlob(id string) (*model.Blob, error) {
	var blob model.Blob
	if err := c.db.One("ID", id, &blob); err != nil {
		return nil, errors.Wrap(err, "could not find blob")
	}
	return &blob, nil
}

// GetSetting loads the setting stored under key into v.
func (c *strm) GetSetting(key string, v any) error {
	return errors.Wrapf(c.db.Get(settingsBucket, key, v), "could not get setting %s", key)
}

// SetSetting stores v under key.
func (c *strm) SetSetting(key string, v any) error {
	return errors.Wrapf(c.db.Set(settingsBucket, key, v), "could not set setting %s", key)
}

// DeleteSetting removes the setting stored under key.
func (c *strm) DeleteSetting(key string) error {
	err := c.db.Delete(settingsBucket, key)
	if err == storm.ErrNotFound {
		return nil
	}
	return errors.Wrapf(err, "could not delete setting %s", key)
}
