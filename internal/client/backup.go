package client

import (
	"os"

	"github.com/mdouchement/visionboard/internal/board"
	"github.com/pkg/errors"
)

// Export writes the board backup to filename.
func Export(s *board.Store, filename string) error {
	payload, err := s.Export()
	if err != nil {
		return errors.Wrap(err, "could not export board")
	}

	return errors.Wrap(os.WriteFile(filename, payload, 0600), "could not write backup")
}

// Import replaces the board content with the backup read from filename.
func Import(s *board.Store, filename string) error {
	payload, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "could not read backup")
	}

	return errors.Wrap(s.Import(payload), "could not import backup")
}
