package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mdouchement/visionboard/internal/board"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

// Upload stores the image read from filename and adds it to the board.
func Upload(ctx context.Context, s *board.Store, w io.Writer, filename string, assignments []string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "could not read image")
	}

	return addImage(ctx, s, w, data, http.DetectContentType(data), assignments)
}

// Imagine generates an image from the prompt and adds it to the board.
func Imagine(ctx context.Context, s *board.Store, w io.Writer, prompt string, assignments []string) error {
	dataURL, err := s.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}

	return addImage(ctx, s, w, []byte(dataURL), "", assignments)
}

func addImage(ctx context.Context, s *board.Store, w io.Writer, data []byte, contentType string, assignments []string) error {
	url, err := s.UploadBlob(ctx, data, contentType)
	if err != nil {
		return err
	}

	item := libvb.Item{
		Type:     libvb.TypeImage,
		Content:  url,
		ImageFit: libvb.FitCover,
	}
	if err = assign(&item, assignments); err != nil {
		return err
	}

	item, err = s.AddItem(item)
	if err != nil {
		return errors.Wrap(err, "could not add image")
	}

	fmt.Fprintln(w, item.ID)
	return nil
}
