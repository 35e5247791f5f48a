package database

import (
	"github.com/mdouchement/visionboard/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		BoardInteraction
		BlobInteraction
		SettingInteraction
	}

	// A BoardInteraction defines all the methods used to interact with a board record.
	BoardInteraction interface {
		// FindBoard returns the board for the given id.
		FindBoard(id string) (*model.Board, error)
		// CreateBoard inserts the board unless a board with the same id already exists.
		// It returns false without error when the board already exists.
		CreateBoard(board *model.Board) (bool, error)
		// WriteBoard writes the given JSON object to the board identified by id in a single transaction.
		// When merge is true, the top-level fields of the patch override the stored ones,
		// otherwise the whole document is replaced (and created if needed).
		WriteBoard(id string, patch []byte, merge bool) (*model.Board, error)
	}

	// A BlobInteraction defines all the methods used to interact with a blob record.
	BlobInteraction interface {
		// FindBlob returns the blob for the given id.
		FindBlob(id string) (*model.Blob, error)
	}

	// A SettingInteraction defines all the methods used to interact with the settings bucket.
	// Settings are device-local records that are not part of any board.
	SettingInteraction interface {
		// GetSetting loads the setting stored under key into v.
		GetSetting(key string, v any) error
		// SetSetting stores v under key.
		SetSetting(key string, v any) error
		// DeleteSetting removes the setting stored under key.
		DeleteSetting(key string) error
	}
)
