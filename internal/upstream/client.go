package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

// Family selects one of the three upstream path families.
type Family string

const (
	FamilyAdmin   Family = "admin"
	FamilyPublic  Family = "public"
	FamilyUploads Family = "uploads"
)

// Envelope is the upstream response contract:
// {success, data?, message?, errors?}.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// Observer receives timing for upstream calls.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Client is the uniform gateway to the backing REST API. Calls carry no
// retries and no client-side timeout; cancellation comes only from the
// caller's context. A non-2xx response surfaces as a typed *apperrors.Error
// built from the decoded body, so callers always handle one error shape.
type Client struct {
	origin   string
	prefixes map[Family]string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// NewClient builds a Client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig, observer Observer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		origin: cfg.Origin,
		prefixes: map[Family]string{
			FamilyAdmin:   cfg.AdminPrefix,
			FamilyPublic:  cfg.PublicPrefix,
			FamilyUploads: cfg.UploadsPrefix,
		},
		http:     &http.Client{},
		observer: observer,
		logger:   logger,
	}
}

// Get issues a GET and returns the envelope's data payload.
func (c *Client) Get(ctx context.Context, family Family, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, family, path, nil, "")
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, family Family, path string, body interface{}) (json.RawMessage, error) {
	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, family, path, reader, "application/json")
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, family Family, path string, body interface{}) (json.RawMessage, error) {
	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, family, path, reader, "application/json")
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, family Family, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, family, path, nil, "")
}

// PostMultipart forwards a prepared multipart body, used by the uploads
// proxy path.
func (c *Client) PostMultipart(ctx context.Context, family Family, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, family, path, body, contentType)
}

func (c *Client) do(ctx context.Context, method string, family Family, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	prefix, ok := c.prefixes[family]
	if !ok {
		return nil, fmt.Errorf("unknown upstream family %q", family)
	}
	url := c.origin + prefix + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		if c.observer != nil {
			c.observer.ObserveUpstreamRequest(method, prefix+path, 0, duration)
		}
		return nil, fmt.Errorf("upstream %s %s: %w", method, prefix+path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(method, prefix+path, resp.StatusCode, duration)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.errorFromBody(resp.StatusCode, raw)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	// Some collection endpoints respond without the envelope wrapper.
	return raw, nil
}

// errorFromBody extracts {status, message, data, errors} from a failed
// response body into a typed error. Bodies that are not the standard
// envelope still produce a usable error with the HTTP status.
func (c *Client) errorFromBody(status int, raw []byte) *apperrors.Error {
	message := apperrors.ErrUpstream.Message
	var fields []apperrors.FieldError
	var data interface{}

	var env struct {
		Message string                 `json:"message"`
		Data    interface{}            `json:"data"`
		Errors  []apperrors.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			message = env.Message
		}
		fields = env.Errors
		data = env.Data
	}

	return &apperrors.Error{
		Code:    apperrors.ErrUpstream.Code,
		Status:  status,
		Message: message,
		Fields:  fields,
		Data:    data,
	}
}

func encodeBody(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request body: %w", err)
	}
	return bytes.NewReader(payload), nil
}
