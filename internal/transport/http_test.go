package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestTransport(t *testing.T, router *gin.Engine, cfg Config) *HTTPTransport {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	tr, err := NewHTTPTransport(cfg)
	require.NoError(t, err)
	return tr
}

func TestCallAPI_BuildsRequest(t *testing.T) {
	var seen struct {
		path, auth, chain, requestID, contentType, accept, size string
		body                                                    []byte
	}

	router := gin.New()
	router.POST("/v1/contract/:contract/mint", func(c *gin.Context) {
		seen.path = c.Param("contract")
		seen.auth = c.GetHeader("Authorization")
		seen.chain = c.GetHeader("x-chain-id")
		seen.requestID = c.GetHeader("X-Request-Id")
		seen.contentType = c.GetHeader("Content-Type")
		seen.accept = c.GetHeader("Accept")
		seen.size = c.Query("size")
		seen.body, _ = io.ReadAll(c.Request.Body)
		c.JSON(http.StatusOK, gin.H{"status": "Submitted"})
	})

	tr := newTestTransport(t, router, Config{
		Credentials: Credentials{AccessKeyID: "access", SecretAccessKey: "secret"},
	})

	resp, err := tr.CallAPI(context.Background(), &Call{
		Op:           "kip7.mint",
		Method:       http.MethodPost,
		Path:         "/v1/contract/{contract-address-or-alias}/mint",
		PathParams:   map[string]string{"contract-address-or-alias": "gold-token"},
		QueryParams:  map[string]string{"size": "10"},
		HeaderParams: map[string]string{"x-chain-id": "1001", "x-krn": ""},
		Body:         map[string]any{"to": "0x01", "amount": "0x10"},
		AuthNames:    []string{AuthBasic},
		ContentTypes: []string{ContentTypeJSON},
		Accepts:      []string{ContentTypeJSON},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"status":"Submitted"}`, string(resp.Body))

	assert.Equal(t, "gold-token", seen.path)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("access:secret")), seen.auth)
	assert.Equal(t, "1001", seen.chain)
	assert.Equal(t, resp.RequestID, seen.requestID)
	_, err = uuid.Parse(seen.requestID)
	assert.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, seen.contentType)
	assert.Equal(t, ContentTypeJSON, seen.accept)
	assert.Equal(t, "10", seen.size)
	assert.JSONEq(t, `{"to":"0x01","amount":"0x10"}`, string(seen.body))
}

func TestCallAPI_NoAuthWithoutScheme(t *testing.T) {
	var auth string
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		auth = c.GetHeader("Authorization")
		c.Status(http.StatusNoContent)
	})

	tr := newTestTransport(t, router, Config{Credentials: Credentials{AccessKeyID: "a", SecretAccessKey: "b"}})

	_, err := tr.CallAPI(context.Background(), &Call{Op: "ping", Method: http.MethodGet, Path: "/ping"})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestCallAPI_ErrorStatusIsAResponse(t *testing.T) {
	router := gin.New()
	router.GET("/v1/contract/:contract", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": 1104404, "message": "contract not found"})
	})

	tr := newTestTransport(t, router, Config{})

	resp, err := tr.CallAPI(context.Background(), &Call{
		Op: "kip7.getContract", Method: http.MethodGet, Path: "/v1/contract/{c}",
		PathParams: map[string]string{"c": "missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.OK())
}

func TestCallAPI_NoRetriesByDefault(t *testing.T) {
	var hits int32
	router := gin.New()
	router.GET("/flaky", func(c *gin.Context) {
		atomic.AddInt32(&hits, 1)
		c.Status(http.StatusServiceUnavailable)
	})

	tr := newTestTransport(t, router, Config{})

	resp, err := tr.CallAPI(context.Background(), &Call{Op: "flaky", Method: http.MethodGet, Path: "/flaky"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCallAPI_RetriesTransientStatus(t *testing.T) {
	var hits int32
	router := gin.New()
	router.GET("/flaky", func(c *gin.Context) {
		if atomic.AddInt32(&hits, 1) < 3 {
			c.Status(http.StatusTooManyRequests)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	tr := newTestTransport(t, router, Config{MaxRetries: 3, RetryWait: time.Millisecond})

	resp, err := tr.CallAPI(context.Background(), &Call{Op: "flaky", Method: http.MethodGet, Path: "/flaky"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCallAPI_RetriesExhaustedReturnsLastResponse(t *testing.T) {
	var hits int32
	router := gin.New()
	router.GET("/down", func(c *gin.Context) {
		atomic.AddInt32(&hits, 1)
		c.Status(http.StatusBadGateway)
	})

	tr := newTestTransport(t, router, Config{MaxRetries: 2, RetryWait: time.Millisecond})

	resp, err := tr.CallAPI(context.Background(), &Call{Op: "down", Method: http.MethodGet, Path: "/down"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCallAPI_PostIsNotRetriedOnServerError(t *testing.T) {
	var hits int32
	router := gin.New()
	router.POST("/v1/contract/:contract/mint", func(c *gin.Context) {
		atomic.AddInt32(&hits, 1)
		c.Status(http.StatusServiceUnavailable)
	})

	tr := newTestTransport(t, router, Config{MaxRetries: 3, RetryWait: time.Millisecond})

	resp, err := tr.CallAPI(context.Background(), &Call{
		Op: "kip7.mint", Method: http.MethodPost, Path: "/v1/contract/{c}/mint",
		PathParams: map[string]string{"c": "gold-token"},
		Body:       map[string]any{"to": "0x1111111111111111111111111111111111111111", "amount": "0x64"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCallAPI_PostIsRetriedWhenThrottled(t *testing.T) {
	var hits int32
	router := gin.New()
	router.POST("/v2/tx/value", func(c *gin.Context) {
		if atomic.AddInt32(&hits, 1) < 2 {
			c.Status(http.StatusTooManyRequests)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Submitted"})
	})

	tr := newTestTransport(t, router, Config{MaxRetries: 3, RetryWait: time.Millisecond})

	resp, err := tr.CallAPI(context.Background(), &Call{Op: "wallet.requestValueTransfer", Method: http.MethodPost, Path: "/v2/tx/value"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRetryPolicy(t *testing.T) {
	dial := fmt.Errorf("send request: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	read := fmt.Errorf("send request: %w", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")})

	assert.True(t, retryableStatus(http.MethodGet, http.StatusBadGateway))
	assert.True(t, retryableStatus(http.MethodDelete, http.StatusServiceUnavailable))
	assert.False(t, retryableStatus(http.MethodPost, http.StatusBadGateway))
	assert.True(t, retryableStatus(http.MethodPost, http.StatusTooManyRequests))
	assert.False(t, retryableStatus(http.MethodGet, http.StatusNotFound))

	assert.True(t, retryableFailure(http.MethodGet, read))
	assert.True(t, retryableFailure(http.MethodPost, dial))
	assert.False(t, retryableFailure(http.MethodPost, read))
}

func TestCallAPI_NetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tr, err := NewHTTPTransport(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = tr.CallAPI(context.Background(), &Call{Op: "gone", Method: http.MethodGet, Path: "/"})
	require.Error(t, err)
	assert.True(t, models.IsTransportError(err))

	var terr *models.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "gone", terr.Op)
}

func TestCallAPI_MissingPathParam(t *testing.T) {
	tr, err := NewHTTPTransport(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = tr.CallAPI(context.Background(), &Call{Op: "x", Method: http.MethodGet, Path: "/v1/contract/{c}"})
	assert.ErrorIs(t, err, ErrMissingPathParam)
	assert.True(t, models.IsTransportError(err))
}

func TestCallAPI_RateLimitHonoursContext(t *testing.T) {
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tr := newTestTransport(t, router, Config{RateLimit: 0.001, RateBurst: 1})

	_, err := tr.CallAPI(context.Background(), &Call{Op: "ping", Method: http.MethodGet, Path: "/ping"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = tr.CallAPI(ctx, &Call{Op: "ping", Method: http.MethodGet, Path: "/ping"})
	assert.True(t, models.IsTransportError(err))
}

func TestExpandPath(t *testing.T) {
	p, err := ExpandPath("/v2/transfer/account/{address}", map[string]string{"address": "0xAbC"})
	require.NoError(t, err)
	assert.Equal(t, "/v2/transfer/account/0xAbC", p)

	p, err = ExpandPath("/v1/contract/{c}/token/{id}", map[string]string{"c": "a b", "id": "0x1"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/contract/a%20b/token/0x1", p)

	_, err = ExpandPath("/v1/contract/{c}", nil)
	assert.ErrorIs(t, err, ErrMissingPathParam)
}

func TestNewHTTPTransport_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPTransport(Config{})
	assert.Error(t, err)

	_, err = NewHTTPTransport(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}
