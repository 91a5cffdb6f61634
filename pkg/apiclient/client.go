package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Config holds client settings loadable via pkg/config.
type Config struct {
	BaseURL string        `env:"RESOLVEIT_API_URL,required"`
	Timeout time.Duration `env:"RESOLVEIT_API_TIMEOUT" envDefault:"15s"`
}

// Client talks to the ResolveIt backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option is a functional option for configuring the Client
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client. Inject a client whose
// Transport is a credential transport to get bearer injection on every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewFromConfig creates a client from environment-driven configuration.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return New(cfg.BaseURL, opts...)
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// doJSON sends a JSON request and unwraps the envelope.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Join(ErrTransient, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Join(ErrTransient, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// doMultipart sends a multipart/form-data request and unwraps the envelope.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]FileUpload) (*envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return nil, errors.Join(ErrTransient, err)
		}
	}
	for name, file := range files {
		part, err := mw.CreateFormFile(name, file.Name)
		if err != nil {
			return nil, errors.Join(ErrTransient, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, errors.Join(ErrTransient, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Join(ErrTransient, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, errors.Join(ErrTransient, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req)
}

// FileUpload is a named byte stream sent as a multipart file part.
type FileUpload struct {
	Name    string
	Content io.Reader
}

func (c *Client) send(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTransient, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Body is best-effort here; the status alone classifies the error.
		return nil, ErrUnauthorized
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Join(ErrTransient, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Join(ErrTransient, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	// The backend is inconsistent about signalling failures: sometimes a
	// non-2xx status, sometimes success=false on a 200. Both map to APIError.
	if resp.StatusCode >= 500 {
		return nil, errors.Join(ErrTransient, &APIError{Status: resp.StatusCode, Message: env.Message})
	}
	if resp.StatusCode >= 400 || !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

func (e *envelope) decodeUser() (User, error) {
	raw := e.User
	if raw == nil {
		raw = e.Data
	}
	if raw == nil {
		return User{}, errors.Join(ErrTransient, errors.New("apiclient: envelope missing user payload"))
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, errors.Join(ErrTransient, err)
	}
	return u, nil
}

func decodeData[T any](e *envelope) (T, error) {
	var v T
	if e.Data == nil {
		// An absent list payload decodes as the zero value, not an error.
		return v, nil
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, errors.Join(ErrTransient, err)
	}
	return v, nil
}
