package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_SuccessReachesCallbackAndAwaitIdentically(t *testing.T) {
	mt := okTransport(`{"address":"0xabc","alias":"gold-token","status":"deployed"}`)
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	var cbErr error
	var cbData any
	var cbRaw *transport.Response
	fut, err := svc.GetContract(context.Background(), testAlias, WithCallback(func(err error, data any, raw *transport.Response) {
		cbErr, cbData, cbRaw = err, data, raw
	}))
	require.NoError(t, err)

	res, err := fut.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ResultOK, res.Kind)
	assert.Equal(t, "gold-token", res.Data.Alias)
	assert.NoError(t, cbErr)
	assert.Same(t, res.Data, cbData)
	assert.Same(t, res.Raw, cbRaw)
}

func TestFuture_RemoteErrorResolves(t *testing.T) {
	mt := &MockTransport{CallAPIFunc: respond(http.StatusNotFound, `{"code":1104404,"message":"contract not found"}`)}
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	var cbErr error
	var cbData any
	fut, err := svc.GetContract(context.Background(), testAlias, WithCallback(func(err error, data any, _ *transport.Response) {
		cbErr, cbData = err, data
	}))
	require.NoError(t, err)

	res, err := fut.Await(context.Background())
	require.NoError(t, err, "a remote error payload resolves, it does not reject")

	assert.Equal(t, ResultRemoteError, res.Kind)
	require.NotNil(t, res.Remote)
	assert.Equal(t, 1104404, res.Remote.Code)
	assert.Equal(t, "contract not found", res.Remote.Message)
	assert.NoError(t, cbErr)
	assert.Same(t, res.Remote, cbData)
	assert.Equal(t, http.StatusNotFound, res.Raw.StatusCode)
}

func TestFuture_RemoteErrorWithOKStatusResolves(t *testing.T) {
	mt := okTransport(`{"code":1104404,"message":"contract not found"}`)
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	var cbErr error
	var cbData any
	fut, err := svc.GetContract(context.Background(), testAlias, WithCallback(func(err error, data any, _ *transport.Response) {
		cbErr, cbData = err, data
	}))
	require.NoError(t, err)

	res, err := fut.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ResultRemoteError, res.Kind)
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Remote)
	assert.Equal(t, 1104404, res.Remote.Code)
	assert.Equal(t, "contract not found", res.Remote.Message)
	assert.Equal(t, http.StatusOK, res.Remote.StatusCode)
	assert.NoError(t, cbErr)
	assert.Same(t, res.Remote, cbData)
}

func TestFuture_TransportFailureRejects(t *testing.T) {
	failure := &models.TransportError{Op: "kip7.getContract", Err: errors.New("connection reset")}
	mt := &MockTransport{CallAPIFunc: func(context.Context, *transport.Call) (*transport.Response, error) {
		return nil, failure
	}}
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	var cbErr error
	var cbData any = "untouched"
	fut, err := svc.GetContract(context.Background(), testAlias, WithCallback(func(err error, data any, _ *transport.Response) {
		cbErr, cbData = err, data
	}))
	require.NoError(t, err, "transport failures never surface synchronously")

	res, err := fut.Await(context.Background())
	require.Error(t, err)
	assert.Same(t, failure, err)
	assert.Equal(t, ResultTransportFailure, res.Kind)
	assert.Same(t, failure, cbErr)
	assert.Nil(t, cbData)
}

func TestFuture_CallbackRunsBeforeDone(t *testing.T) {
	release := make(chan struct{})
	mt := &MockTransport{CallAPIFunc: func(context.Context, *transport.Call) (*transport.Response, error) {
		<-release
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}}
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	var fut *Future[*dto.Contract]
	callbackRan, doneAtCallback := false, false
	fut, err = svc.GetContract(context.Background(), testAlias, WithCallback(func(error, any, *transport.Response) {
		callbackRan = true
		select {
		case <-fut.Done():
			doneAtCallback = true
		default:
		}
	}))
	require.NoError(t, err)

	_, finished := fut.Result()
	assert.False(t, finished)

	close(release)
	_, err = fut.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, callbackRan)
	assert.False(t, doneAtCallback)
}

func TestFuture_OnComplete(t *testing.T) {
	release := make(chan struct{})
	mt := &MockTransport{CallAPIFunc: func(context.Context, *transport.Call) (*transport.Response, error) {
		<-release
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"balance":"0x1","decimals":0}`)}, nil
	}}
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	fut, err := svc.BalanceOf(context.Background(), testAlias, testOwner)
	require.NoError(t, err)

	var early, late int32
	fut.OnComplete(func(r Result[*dto.TokenBalance]) {
		assert.Equal(t, "0x1", r.Data.Balance)
		atomic.AddInt32(&early, 1)
	})

	close(release)
	<-fut.Done()

	fut.OnComplete(func(r Result[*dto.TokenBalance]) {
		atomic.AddInt32(&late, 1)
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&early))
	assert.Equal(t, int32(1), atomic.LoadInt32(&late))
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	mt := &MockTransport{CallAPIFunc: func(context.Context, *transport.Call) (*transport.Response, error) {
		<-release
		return &transport.Response{StatusCode: http.StatusOK}, nil
	}}
	svc, err := NewKIP7(testSession(mt))
	require.NoError(t, err)

	fut, err := svc.GetContract(context.Background(), testAlias)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = fut.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_CompletesOnce(t *testing.T) {
	f := newFuture[int]()
	var calls int32
	cb := func(error, any, *transport.Response) { atomic.AddInt32(&calls, 1) }

	f.complete(Result[int]{Kind: ResultOK, Data: 1}, cb)
	f.complete(Result[int]{Kind: ResultOK, Data: 2}, cb)

	r, ok := f.Result()
	require.True(t, ok)
	assert.Equal(t, 1, r.Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResultKind_String(t *testing.T) {
	assert.Equal(t, "ok", ResultOK.String())
	assert.Equal(t, "remote_error", ResultRemoteError.String())
	assert.Equal(t, "transport_failure", ResultTransportFailure.String())
}
