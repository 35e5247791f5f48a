package client

import (
	"github.com/chzyer/readline"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/lock"
	"github.com/pkg/errors"
)

// AskCode reads a lock code without echoing it.
func AskCode() (string, error) {
	code, err := readline.Password("Code: ")
	return string(code), errors.Wrap(err, "could not read code")
}

// Lock enables the app lock with a code read from the terminal.
func Lock(settings database.Client) error {
	code, err := AskCode()
	if err != nil {
		return err
	}

	confirmation, err := readline.Password("Confirm code: ")
	if err != nil {
		return errors.Wrap(err, "could not read code")
	}
	if string(confirmation) != code {
		return errors.New("codes do not match")
	}

	return lock.New(settings).Enable(code)
}

// Unlock disables the app lock.
func Unlock(settings database.Client) error {
	return lock.New(settings).Disable()
}
