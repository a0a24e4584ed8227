package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"jobboard-admin/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 4096

var ErrNilClient = errors.New("nil api client")

// TokenSource reads the current bearer token. An empty token means "send no
// Authorization header", not a failure.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Error is a non-2xx answer from the remote API.
type Error struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// Message returns the user-facing text of err: the server's message for API
// errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  *logrus.Logger
	tracer  trace.Tracer

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context, token string)
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
		tracer:  otel.Tracer("jobboard-admin/apiclient"),
	}
}

// OnUnauthorized registers fn to run when a request that carried a bearer
// token is answered with 401. fn receives the token that was rejected.
func (c *Client) OnUnauthorized(fn func(ctx context.Context, token string)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

type request struct {
	method string
	path   string
	route  string
	body   any
	out    any
	// anonymous requests never trigger the unauthorized hook.
	anonymous bool
}

func (c *Client) do(ctx context.Context, r request) error {
	if c == nil {
		return ErrNilClient
	}

	ctx, span := c.tracer.Start(ctx, "api "+r.method+" "+r.route, trace.WithAttributes(
		attribute.String("http.method", r.method),
		attribute.String("http.route", r.route),
	))
	defer span.End()

	start := time.Now()
	status, err := c.send(ctx, r)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	metrics.APIRequestsTotal.WithLabelValues(r.method, r.route, code).Inc()
	metrics.APIRequestDuration.WithLabelValues(r.method, r.route).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	return err
}

func (c *Client) send(ctx context.Context, r request) (int, error) {
	endpoint := c.baseURL + r.path

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	var bearer string
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.WithError(err).Warn("[API] token read failed, sending request without credentials")
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
			bearer = tok
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": r.method, "endpoint": endpoint}).Warn("[API] request failed")
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{StatusCode: resp.StatusCode, Message: messageFromBody(rb, resp.StatusCode), Body: rb}
		c.logger.WithFields(logrus.Fields{
			"method":   r.method,
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"message":  apiErr.Message,
		}).Warn("[API] request rejected")

		if resp.StatusCode == http.StatusUnauthorized && bearer != "" && !r.anonymous {
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook(ctx, bearer)
			}
		}
		return resp.StatusCode, apiErr
	}

	if r.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// messageFromBody takes the server's message verbatim: the "message" (or
// "error") field of a JSON object, a bare JSON string, or the raw text.
func messageFromBody(b []byte, status int) string {
	raw := strings.TrimSpace(string(b))
	if raw != "" {
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err == nil {
			for _, k := range []string{"message", "error"} {
				if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		}
		var s string
		if err := json.Unmarshal(b, &s); err == nil && s != "" {
			return s
		}
		if !strings.HasPrefix(raw, "{") {
			return raw
		}
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return "request failed with status " + strconv.Itoa(status)
}
