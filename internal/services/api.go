package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/desertthunder/gaana/internal/shared"
)

// DefaultBaseURL is used when no API base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// SessionInvalid is emitted when the API rejects a request with 401.
//
// Token is the bearer token the request carried, empty when it was sent unauthenticated.
type SessionInvalid struct {
	Token  string
	Method string
	Path   string
}

// SessionInvalidListener receives [SessionInvalid] signals.
type SessionInvalidListener func(SessionInvalid)

// APIService is the single outbound pipeline to the catalog API.
//
// Every response passes through the same status policy: 401 notifies session-invalid
// listeners before the caller sees the error, other non-2xx statuses become an [*APIError].
type APIService struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	listeners map[int]SessionInvalidListener
	nextID    int
}

// NewAPIService creates a new API service instance for the catalog API.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		listeners:  make(map[int]SessionInvalidListener),
	}
}

// BaseURL returns the configured API root.
func (a *APIService) BaseURL() string { return a.baseURL }

// OnSessionInvalid registers fn to run synchronously whenever a request is answered with 401.
// The returned function removes the listener.
func (a *APIService) OnSessionInvalid(fn SessionInvalidListener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *APIService) emit(signal SessionInvalid) {
	a.mu.RLock()
	listeners := make([]SessionInvalidListener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(signal)
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Decode unmarshals the response body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the API.
//
// It matches [shared.ErrAPIRequest], and additionally [shared.ErrSessionInvalid] for 401.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string // server-provided message, when the body carried one
	Body       []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *APIError) Unwrap() []error {
	if e.StatusCode == http.StatusUnauthorized {
		return []error{shared.ErrSessionInvalid, shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an [*APIError].
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Get performs a GET request to the specified path.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil, "")
}

// Post performs a POST request with the given JSON data.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, bodyReader(data), "application/json")
}

// Put performs a PUT request with the given JSON data.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, bodyReader(data), "application/json")
}

// Delete performs a DELETE request to the specified path.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil, "")
}

// PostJSON marshals v and posts it to path.
func (a *APIService) PostJSON(ctx context.Context, path string, v any) (*APIResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return a.Post(ctx, path, data)
}

// PutJSON marshals v and puts it to path.
func (a *APIService) PutJSON(ctx context.Context, path string, v any) (*APIResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return a.Put(ctx, path, data)
}

func bodyReader(data []byte) io.Reader {
	if data == nil {
		return nil
	}
	return bytes.NewReader(data)
}

func (a *APIService) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*APIResponse, error) {
	var sent string
	ctx = withSentToken(ctx, &sent)

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		a.emit(SessionInvalid{Token: sent, Method: method, Path: path})
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    serverMessage(data),
			Body:       data,
		}
	}

	if readErr != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrServiceUnavailable, readErr)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    serverMessage(data),
			Body:       data,
		}
	}

	return apiResp, nil
}

// serverMessage extracts a human-readable message from an error body.
//
// JSON bodies are searched for "message" then "error"; a short plain-text body is returned as is.
func serverMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s)
	}

	text := strings.TrimSpace(string(body))
	if text == "" || len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
