package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPConfig configures the HTTP backend client.
type HTTPConfig struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// HTTPClient talks to the admin backend's REST collection endpoints.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// StatusError carries a non-success HTTP status with the raw response body so
// callers can surface the server's own error text.
type StatusError struct {
	Code int
	Body string
}

// Error returns the server's text when present, otherwise a generic message.
func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return fmt.Sprintf("request failed with status %d", e.Code)
}

// NewHTTPClient builds a client for the configured backend base URL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("restapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
		client:  httpClient,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// List fetches one page of a collection, normalizing the response shape.
func (c *HTTPClient) List(ctx context.Context, collection string, q Query) (ListResult, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+collection+"?"+encodeQuery(q), nil)
	if err != nil {
		return ListResult{}, err
	}
	return NormalizeList(body)
}

// Get fetches a single entity by id.
func (c *HTTPClient) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+collection+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Create posts a new entity to the collection endpoint.
func (c *HTTPClient) Create(ctx context.Context, collection string, payload any) error {
	_, err := c.do(ctx, http.MethodPost, "/"+collection, payload)
	return err
}

// Update patches an entity. Partial-field semantics are the server's to
// interpret; the client sends whatever the form holds.
func (c *HTTPClient) Update(ctx context.Context, collection, id string, payload any) error {
	_, err := c.do(ctx, http.MethodPatch, "/"+collection+"/"+url.PathEscape(id), payload)
	return err
}

// Delete removes an entity by id.
func (c *HTTPClient) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+collection+"/"+url.PathEscape(id), nil)
	return err
}

// Export streams the collection's CSV export into w.
func (c *HTTPClient) Export(ctx context.Context, collection string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/"+collection+"/export", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("restapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: buf.String()}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("restapi: stream export: %w", err)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("restapi: decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("restapi: login response carried no token")
	}
	return resp.Token, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("restapi: encode payload: %w", err)
		}
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("restapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restapi: http request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("restapi: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// encodeQuery serializes list parameters. Blank search and filter values are
// omitted; page and pageSize are always sent. Filter keys are emitted in
// sorted order so URLs are deterministic.
func encodeQuery(q Query) string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	keys := make([]string, 0, len(q.Filters))
	for key, val := range q.Filters {
		if val != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		values.Set(key, q.Filters[key])
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("pageSize", strconv.Itoa(pageSize))
	return values.Encode()
}
