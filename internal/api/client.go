package api

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/fruits/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHeaders adds default headers to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithLogger sets the logger for per-request debug lines.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client talks to the fruits collection endpoint. It never retries:
// every failure is returned to the caller as-is.
type Client struct {
	base       *url.URL // collection endpoint, no trailing slash
	httpClient *http.Client
	headers    http.Header
	timeout    time.Duration
	log        *logrus.Entry
}

// NewClient creates a Client for the collection URL, e.g.
// http://localhost:8080/api/fruits.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: base URL %q is not absolute", baseURL)
	}

	c := &Client{
		base:       parsed,
		httpClient: &http.Client{},
		headers:    make(http.Header),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string { return c.base.String() }

// collection returns the collection URL with escaped segments appended.
func (c *Client) collection(segments ...string) string {
	var sb strings.Builder
	sb.WriteString(c.base.String())
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}

// root returns the API root (parent of the collection) with segments appended.
func (c *Client) root(segments ...string) string {
	u := *c.base
	if i := strings.LastIndex(u.Path, "/"); i >= 0 {
		u.Path = u.Path[:i]
	}
	u.RawPath = ""
	var sb strings.Builder
	sb.WriteString(u.String())
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	if len(segments) == 0 {
		sb.WriteByte('/')
	}
	return sb.String()
}

// do sends one JSON request and returns the body of a 2xx reply,
// or an *HTTPError for anything else.
func (c *Client) do(ctx context.Context, method, target string, body any) ([]byte, error) {
	return c.send(ctx, method, target, body, "application/json")
}

func (c *Client) send(ctx context.Context, method, target string, body any, accept string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		data, err := jsonMarshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header = c.headers.Clone()
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        target,
		"request_id": reqID,
	})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("api: %s %s: %w", method, target, err)
	}
	defer closeBody(resp.Body)

	data, err := io.ReadAll(resp.Body)
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	if err != nil {
		log.WithError(err).Debug("read body failed")
		return nil, fmt.Errorf("api: read body: %w", err)
	}
	log.Debug("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     statusLine(resp),
			Body:       data,
		}
	}
	return data, nil
}

func statusLine(resp *http.Response) string {
	if s := strings.TrimSpace(resp.Status); s != "" {
		return s
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_, _ = io.Copy(io.Discard, rc)
		_ = rc.Close()
	}
}

func jsonMarshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
