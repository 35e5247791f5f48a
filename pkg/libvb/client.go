package libvb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on a visionboard document server.
	Client interface {
		// Version returns the version of the remote server.
		Version(ctx context.Context) (string, error)
		// CreateBoard stores a new board and returns its generated id.
		CreateBoard(ctx context.Context, doc *Document) (string, error)
		// CreateBoardIfAbsent stores the board under the given id unless it already exists.
		// It returns true when the board has been created by this call.
		CreateBoardIfAbsent(ctx context.Context, id string, doc *Document) (bool, error)
		// GetBoard fetches the board identified by id.
		GetBoard(ctx context.Context, id string) (*Document, error)
		// UpdateBoard writes the given JSON object to the board.
		// When merge is true, only the top-level fields of the patch are overridden.
		UpdateBoard(ctx context.Context, id string, patch []byte, merge bool) error
		// UploadMedia uploads a blob and returns its public URL.
		UploadMedia(ctx context.Context, data []byte, contentType string) (string, error)
	}

	client struct {
		http     *http.Client
		endpoint string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Version(ctx context.Context) (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	err := c.do(ctx, "Fetch Version", http.MethodGet, "/version", nil, nil, "", &v)
	return v.Version, err
}

func (c *client) CreateBoard(ctx context.Context, doc *Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "could not serialize board")
	}

	var created struct {
		ID string `json:"id"`
	}
	err = c.do(ctx, "Create Board", http.MethodPost, "/boards", nil, body, MIMEApplicationJSON, &created)
	return created.ID, err
}

func (c *client) CreateBoardIfAbsent(ctx context.Context, id string, doc *Document) (bool, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return false, errors.Wrap(err, "could not serialize board")
	}

	query := url.Values{}
	query.Set("if_absent", "true")

	err = c.do(ctx, "Create Board", http.MethodPut, path.Join("/boards", url.PathEscape(id)), query, body, MIMEApplicationJSON, nil)
	if IsAlreadyExists(err) {
		return false, nil
	}
	return err == nil, err
}

func (c *client) GetBoard(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := c.do(ctx, "Fetch Board", http.MethodGet, path.Join("/boards", url.PathEscape(id)), nil, nil, "", &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *client) UpdateBoard(ctx context.Context, id string, patch []byte, merge bool) error {
	method := http.MethodPut
	if merge {
		method = http.MethodPatch
	}
	return c.do(ctx, "Update Board", method, path.Join("/boards", url.PathEscape(id)), nil, patch, MIMEApplicationJSON, nil)
}

func (c *client) UploadMedia(ctx context.Context, data []byte, contentType string) (string, error) {
	var uploaded struct {
		URL string `json:"url"`
	}
	err := c.do(ctx, "Upload Image", http.MethodPost, "/media", nil, data, contentType, &uploaded)
	return uploaded.URL, err
}

func (c *client) do(ctx context.Context, action, method, p string, query url.Values, body []byte, contentType string, v any) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, p)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	//
	// Build request
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Accept", MIMEApplicationJSON)
	req.Header.Add("Cache-Control", "no-store")
	if contentType != "" {
		req.Header.Add("Content-Type", contentType)
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return Unreachable(err, action)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode, action)
	}

	//
	// Process response
	if v == nil {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(v), "could not parse response")
}
