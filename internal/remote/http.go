package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client talks JSON over HTTP to the hosted entity service. One Client is
// shared by all entity-type services; it owns the base URL, the auth token
// and the underlying http.Client.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (e.g. for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// NewClient returns a Client for the service at baseURL. The token, when
// non-empty, is sent as a bearer credential on every request.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Healthy reports whether the service answers its health endpoint. Used by
// the connectivity probe; any transport error or non-2xx counts as down.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

type errorBody struct {
	Error string `json:"error"`
}

// do performs one request and maps the response per the service contract:
// 404 becomes common.ErrNotFound, any other non-2xx becomes a RemoteError,
// transport failures are returned as-is for the caller's fallback logic.
func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set(common.IdempotencyKeyHeaderName, idempotencyKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	case resp.StatusCode >= 400:
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return nil, &common.RemoteError{Status: resp.StatusCode, Message: eb.Error}
	}
	return raw, nil
}

// EntityService is the HTTP Service implementation for one entity type,
// mounted at {baseURL}/{path}.
type EntityService[T any, PT models.Ptr[T]] struct {
	client *Client
	path   string
}

// NewEntityService binds an entity type to its collection path, e.g.
// NewEntityService[models.Contact](c, "contacts").
func NewEntityService[T any, PT models.Ptr[T]](client *Client, path string) *EntityService[T, PT] {
	return &EntityService[T, PT]{client: client, path: "/" + strings.Trim(path, "/")}
}

func (s *EntityService[T, PT]) decode(raw []byte) (PT, error) {
	item := PT(new(T))
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return item, nil
}

func (s *EntityService[T, PT]) Create(ctx context.Context, item PT, idempotencyKey string) (PT, error) {
	if item.EntityID() != "" {
		// The remote is the id authority; a client-chosen id is a bug.
		return nil, errors.New("create payload must not carry an id")
	}
	raw, err := s.client.do(ctx, http.MethodPost, s.path, item, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return s.decode(raw)
}

func (s *EntityService[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	raw, err := s.client.do(ctx, http.MethodGet, s.path+"/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}
	return s.decode(raw)
}

func (s *EntityService[T, PT]) GetAll(ctx context.Context) ([]PT, error) {
	raw, err := s.client.do(ctx, http.MethodGet, s.path, nil, "")
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	result := make([]PT, 0, len(items))
	for i := range items {
		result = append(result, PT(&items[i]))
	}
	return result, nil
}

func (s *EntityService[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (PT, error) {
	raw, err := s.client.do(ctx, http.MethodPatch, s.path+"/"+url.PathEscape(id), fields, "")
	if err != nil {
		return nil, err
	}
	return s.decode(raw)
}

func (s *EntityService[T, PT]) Delete(ctx context.Context, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, s.path+"/"+url.PathEscape(id), nil, "")
	return err
}

var _ Service[*models.Contact] = (*EntityService[models.Contact, *models.Contact])(nil)
