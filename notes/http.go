package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	fetchNewestPath = "/api/fetch-newest-note"
	createNotePath  = "/api/create-new-note"
	maxResponseSize = 64 << 10
)

// HTTPStore talks to a remote note service.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
}

// HTTPStoreOption configures an HTTPStore.
type HTTPStoreOption func(*HTTPStore)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPStoreOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPStore creates a store for the service at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPStoreOption) (*HTTPStore, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("notes: invalid service url %q", baseURL)
	}
	s := &HTTPStore{
		base:   u,
		client: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type newestResponse struct {
	NewestNoteID *string `json:"newestNoteId"`
}

type createResponse struct {
	NoteID string `json:"noteId"`
}

// Newest calls GET /api/fetch-newest-note.
func (s *HTTPStore) Newest(ctx context.Context, ownerID uuid.UUID) (Reference, error) {
	var body newestResponse
	if err := s.call(ctx, http.MethodGet, fetchNewestPath, ownerID, &body); err != nil {
		return Reference{}, err
	}
	if body.NewestNoteID == nil || *body.NewestNoteID == "" {
		return Reference{}, ErrNotFound
	}
	id, err := uuid.Parse(*body.NewestNoteID)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: newest note id: %w", ErrUnexpectedAPI, err)
	}
	return Reference{ID: id, OwnerID: ownerID}, nil
}

// Create calls POST /api/create-new-note.
func (s *HTTPStore) Create(ctx context.Context, ownerID uuid.UUID) (Reference, error) {
	var body createResponse
	if err := s.call(ctx, http.MethodPost, createNotePath, ownerID, &body); err != nil {
		return Reference{}, err
	}
	id, err := uuid.Parse(body.NoteID)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: created note id: %w", ErrUnexpectedAPI, err)
	}
	return Reference{ID: id, OwnerID: ownerID}, nil
}

// Ping checks that the service answers on its base URL.
func (s *HTTPStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnexpectedAPI, resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) call(ctx context.Context, method, path string, ownerID uuid.UUID, out any) error {
	u := s.base.JoinPath(path)
	u.RawQuery = url.Values{"userId": {ownerID.String()}}.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: %s %s: status %d", ErrUnexpectedAPI, method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUnexpectedAPI, path, err)
	}
	return nil
}
