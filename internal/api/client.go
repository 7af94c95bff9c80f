// Package api wraps the labelmark REST backend.
//
// Every call goes through one response path: successful bodies are decoded (unwrapping the
// backend's {code, message, data, total} envelope when present) and failures become *Error,
// which is handed to the Notifier before being returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	DefaultTimeout = 30 * time.Second
)

// Notifier shows a transient failure message to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type Option func(*Client)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	notifier Notifier
	log      *slog.Logger

	Projects Projects
	Tags     Tags
	Images   Images
	Tree     Tree
	Files    Files
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		timeout: DefaultTimeout,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	c.Projects = Projects{c}
	c.Tags = Tags{c}
	c.Images = Images{c}
	c.Tree = Tree{c}
	c.Files = Files{c}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetNotifier swaps the failure notifier (the TUI installs its own after startup).
func (c *Client) SetNotifier(n Notifier) { c.notifier = n }

type request struct {
	method string
	path   string
	query  url.Values

	// absolute overrides baseURL+path (thumbnail and file downloads).
	absolute string

	// json is marshalled as the body unless body is set.
	json        any
	body        io.Reader
	contentType string
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

type result struct {
	data  json.RawMessage
	total *int
}

// do sends r and decodes the (unwrapped) data into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) (result, error) {
	resp, reqID, err := c.send(ctx, r)
	if err != nil {
		return result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{}, c.fail(ctx, &Error{Status: resp.StatusCode, Message: err.Error(), RequestID: reqID, Err: err})
	}
	if resp.StatusCode >= 400 {
		return result{}, c.fail(ctx, &Error{Status: resp.StatusCode, Message: failureMessage(resp.StatusCode, raw), RequestID: reqID})
	}

	res := result{data: raw}
	if env, ok := unwrapEnvelope(raw); ok {
		if env.Code >= 400 {
			msg := strings.TrimSpace(env.Message)
			if msg == "" {
				msg = genericFailure
			}
			return result{}, c.fail(ctx, &Error{Status: env.Code, Message: msg, RequestID: reqID})
		}
		res = result{data: env.Data, total: env.Total}
	}

	if out != nil && hasValue(res.data) {
		if err := json.Unmarshal(res.data, out); err != nil {
			return result{}, c.fail(ctx, &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), RequestID: reqID, Err: err})
		}
	}
	return res, nil
}

// stream sends r and copies a successful body to w.
func (c *Client) stream(ctx context.Context, r request, w io.Writer) (int64, error) {
	resp, reqID, err := c.send(ctx, r)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return 0, c.fail(ctx, &Error{Status: resp.StatusCode, Message: failureMessage(resp.StatusCode, raw), RequestID: reqID})
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, c.fail(ctx, &Error{Status: resp.StatusCode, Message: err.Error(), RequestID: reqID, Err: err})
	}
	return n, nil
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, string, error) {
	reqID := uuid.NewString()

	body := r.body
	contentType := r.contentType
	if body == nil && r.json != nil {
		b, err := json.Marshal(r.json)
		if err != nil {
			return nil, reqID, fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	u := c.baseURL + r.path
	if r.absolute != "" {
		u = r.absolute
	}
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, reqID, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", r.method, "path", r.path, "request_id", reqID, "dur", time.Since(start), "err", err)
		return nil, reqID, c.fail(ctx, &Error{Message: err.Error(), RequestID: reqID, Err: err})
	}
	c.log.Debug("api request", "method", r.method, "path", r.path, "status", resp.StatusCode, "request_id", reqID, "dur", time.Since(start))
	return resp, reqID, nil
}

type quietKey struct{}

// Quiet marks ctx so failures of calls made with it are logged and returned but not
// passed to the Notifier.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func isQuiet(ctx context.Context) bool {
	q, _ := ctx.Value(quietKey{}).(bool)
	return q
}

func (c *Client) fail(ctx context.Context, e *Error) error {
	if strings.TrimSpace(e.Message) == "" {
		e.Message = genericFailure
	}
	c.log.Warn("api error", "status", e.Status, "message", e.Message, "request_id", e.RequestID)
	if c.notifier != nil && !isQuiet(ctx) {
		c.notifier.Notify(e.Message)
	}
	return e
}

// unwrapEnvelope recognises {code, message|data, ...} bodies.
func unwrapEnvelope(raw []byte) (envelope, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return envelope{}, false
	}
	if _, ok := keys["code"]; !ok {
		return envelope{}, false
	}
	_, hasData := keys["data"]
	_, hasMessage := keys["message"]
	if !hasData && !hasMessage {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

func hasValue(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

func pathID(id int) string { return strconv.Itoa(id) }

// escapePath escapes each segment of a slash-separated storage path.
func escapePath(p string) string {
	p = strings.TrimLeft(p, "/")
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
