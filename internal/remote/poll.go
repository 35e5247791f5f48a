package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/sirupsen/logrus"
)

// A Reader reads documents.
type Reader interface {
	Read(ctx context.Context, id string) (*libvb.Document, error)
}

// A Poller emulates a change subscription by reading a document at a fixed interval.
type Poller struct {
	interval time.Duration
	reader   Reader
	logger   logrus.FieldLogger
}

// Poll returns a Poller reading documents with r every interval.
func Poll(interval time.Duration, r Reader, logger logrus.FieldLogger) *Poller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Poller{
		interval: interval,
		reader:   r,
		logger:   logger,
	}
}

// Subscribe calls fn with the document on the first successful read
// and then each time its JSON representation changes.
func (p *Poller) Subscribe(ctx context.Context, id string, fn func(*libvb.Document)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var last []byte
		for {
			if doc, err := p.reader.Read(ctx, id); err != nil {
				if ctx.Err() == nil {
					p.logger.WithError(err).WithField("id", id).Debug("poll failed")
				}
			} else if payload, err := json.Marshal(doc); err == nil && !bytes.Equal(payload, last) {
				last = payload
				fn(doc)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}, nil
}
