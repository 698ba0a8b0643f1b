package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Brownie44l1/kasgo/internal/metrics"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetryWait = 500 * time.Millisecond
	maxResponseBytes = 10 << 20
	userAgent        = "kasgo"
)

var (
	// ErrMissingPathParam means a path template kept an unfilled placeholder.
	ErrMissingPathParam = errors.New("missing path parameter")

	errRetryableStatus = errors.New("retryable status")

	placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Config configures an HTTPTransport.
type Config struct {
	BaseURL     string
	Credentials Credentials
	Timeout     time.Duration // default 30s

	// MaxRetries bounds retries of network errors, 429 and 5xx. Zero disables retries.
	MaxRetries uint64
	// RetryWait is the first backoff interval. Default 500ms.
	RetryWait time.Duration

	// RateLimit caps requests per second from this transport. Zero disables it.
	RateLimit float64
	RateBurst int

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	baseURL     string
	credentials Credentials
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  uint64
	retryWait   time.Duration
	log         *zap.Logger
}

// NewHTTPTransport creates a transport for one upstream base URL.
func NewHTTPTransport(cfg Config) (*HTTPTransport, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("transport base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	retryWait := cfg.RetryWait
	if retryWait == 0 {
		retryWait = defaultRetryWait
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &HTTPTransport{
		baseURL:     base,
		credentials: cfg.Credentials,
		client:      client,
		limiter:     limiter,
		maxRetries:  cfg.MaxRetries,
		retryWait:   retryWait,
		log:         log,
	}, nil
}

// BaseURL returns the upstream base URL.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// CallAPI sends the call, retrying transient failures when configured.
func (t *HTTPTransport) CallAPI(ctx context.Context, call *Call) (*Response, error) {
	target, err := t.buildURL(call)
	if err != nil {
		return nil, &models.TransportError{Op: call.Op, Err: err}
	}
	body, contentType, err := encodeBody(call)
	if err != nil {
		return nil, &models.TransportError{Op: call.Op, Err: err}
	}

	start := time.Now()
	var resp *Response
	attempt := func() error {
		resp = nil
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
			}
		}

		r, err := t.send(ctx, call, target, body, contentType)
		if err != nil {
			if ctx.Err() != nil || !retryableFailure(call.Method, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		if retryableStatus(call.Method, r.StatusCode) {
			return errRetryableStatus
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		metrics.ObserveRetry(call.Op)
		t.log.Warn("retrying remote call",
			zap.String("op", call.Op),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err = backoff.RetryNotify(attempt, backoff.WithContext(
		backoff.WithMaxRetries(t.newBackOff(), t.maxRetries), ctx), notify)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.ObserveUpstream(call.Op, status, time.Since(start))

	if err != nil && !(errors.Is(err, errRetryableStatus) && resp != nil) {
		t.log.Error("remote call failed",
			zap.String("op", call.Op),
			zap.String("url", target),
			zap.Error(err),
		)
		return nil, &models.TransportError{Op: call.Op, Err: err}
	}

	t.log.Debug("remote call finished",
		zap.String("op", call.Op),
		zap.Int("status", resp.StatusCode),
		zap.String("request-id", resp.RequestID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (t *HTTPTransport) send(ctx context.Context, call *Call, target string, body []byte, contentType string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if len(call.Accepts) > 0 {
		req.Header.Set("Accept", strings.Join(call.Accepts, ", "))
	}
	for k, v := range call.HeaderParams {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	if hasAuth(call.AuthNames, AuthBasic) && !t.credentials.IsZero() {
		req.Header.Set("Authorization", t.credentials.BasicAuth())
	}

	t.log.Debug("calling remote API",
		zap.String("op", call.Op),
		zap.String("method", call.Method),
		zap.String("url", target),
		zap.String("request-id", requestID),
	)

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

func (t *HTTPTransport) buildURL(call *Call) (string, error) {
	path, err := ExpandPath(call.Path, call.PathParams)
	if err != nil {
		return "", err
	}

	target := t.baseURL + path
	if len(call.QueryParams) > 0 {
		q := url.Values{}
		for k, v := range call.QueryParams {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}
	return target, nil
}

func (t *HTTPTransport) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryWait
	return b
}

// ExpandPath fills {placeholders} with escaped path parameters.
func ExpandPath(template string, params map[string]string) (string, error) {
	var missing string
	path := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := params[name]
		if !ok || v == "" {
			if missing == "" {
				missing = name
			}
			return m
		}
		return url.PathEscape(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s", ErrMissingPathParam, missing)
	}
	return path, nil
}

func encodeBody(call *Call) ([]byte, string, error) {
	contentType := selectContentType(call.ContentTypes)
	if call.Body == nil {
		return nil, contentType, nil
	}
	b, err := json.Marshal(call.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request body: %w", err)
	}
	return b, contentType, nil
}

// idempotent reports methods that are safe to send again. POST submits
// transactions upstream, so a repeat could mint or transfer twice.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

// retryableStatus: 429 means the request was refused, so any method may
// repeat it. A 5xx may come after the upstream acted on the request.
func retryableStatus(method string, code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= http.StatusInternalServerError && idempotent(method)
}

// retryableFailure: non-idempotent calls are only repeated when the
// connection was never established.
func retryableFailure(method string, err error) bool {
	if idempotent(method) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
