package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"github.com/stretchr/testify/require"
)

const (
	testChainID = "1001"
	testAlias   = "gold-token"
	testOwner   = "0x7F8A5E2B1d49c53E8ba43E1a2f9bE5B3cBDCc5e0"
	testTo      = "0x1111111111111111111111111111111111111111"
	testSpender = "0x2222222222222222222222222222222222222222"
	testTxHash  = "0x4d3c8b2a1f0e9d8c7b6a5f4e3d2c1b0a9f8e7d6c5b4a3f2e1d0c9b8a7f6e5d4c"
)

// ==============================================
// MOCK TRANSPORT
// ==============================================

type MockTransport struct {
	CallAPIFunc func(ctx context.Context, call *transport.Call) (*transport.Response, error)

	mu    sync.Mutex
	calls []*transport.Call
}

func (m *MockTransport) CallAPI(ctx context.Context, call *transport.Call) (*transport.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.CallAPIFunc != nil {
		return m.CallAPIFunc(ctx, call)
	}
	return nil, errors.New("not implemented")
}

func (m *MockTransport) Calls() []*transport.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*transport.Call(nil), m.calls...)
}

func (m *MockTransport) LastCall(t *testing.T) *transport.Call {
	t.Helper()
	calls := m.Calls()
	require.NotEmpty(t, calls, "expected a transport call")
	return calls[len(calls)-1]
}

// respond answers every call with status and body.
func respond(status int, body string) func(context.Context, *transport.Call) (*transport.Response, error) {
	return func(context.Context, *transport.Call) (*transport.Response, error) {
		return &transport.Response{StatusCode: status, Body: []byte(body)}, nil
	}
}

func okTransport(body string) *MockTransport {
	return &MockTransport{CallAPIFunc: respond(http.StatusOK, body)}
}

func testSession(t transport.Transport) Session {
	return Session{Transport: t, ChainID: testChainID}
}

// bodyJSON renders a call body the way the transport would send it.
func bodyJSON(t *testing.T, call *transport.Call) string {
	t.Helper()
	if call.Body == nil {
		return ""
	}
	b, err := json.Marshal(call.Body)
	require.NoError(t, err)
	return string(b)
}

func bodyObject(t *testing.T, call *transport.Call) dto.Object {
	t.Helper()
	obj, ok := call.Body.(dto.Object)
	require.True(t, ok, "body is %T", call.Body)
	return obj
}
