package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mdouchement/visionboard/internal/board"
	"github.com/sirupsen/logrus"
)

// Watch applies the remote changes of the board and prints a line for each of them until ctx is done.
func Watch(ctx context.Context, s *board.Store, w io.Writer, logger logrus.FieldLogger) error {
	changes, unsubscribe := s.Subscribe()
	defer unsubscribe()

	errc := make(chan error, 1)
	go func() {
		errc <- s.Watch(ctx)
	}()

	for {
		select {
		case err := <-errc:
			return err
		case doc, ok := <-changes:
			if !ok {
				return nil
			}

			logger.WithField("items", len(doc.Items)).Debug("board updated")
			fmt.Fprintf(w, "%s board updated: %d items, %d messages\n",
				time.Now().Format(time.TimeOnly), len(doc.Items), len(doc.ChatMessages))
		}
	}
}
