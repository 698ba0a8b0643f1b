package binding

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chainID   = "1001"
	testOwner = "0x7F8A5E2B1d49c53E8ba43E1a2f9bE5B3cBDCc5e0"
	testTo    = "0x1111111111111111111111111111111111111111"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recorder captures the last call and answers with a canned response.
type recorder struct {
	last   *transport.Call
	status int
	body   string
	err    error
}

func (r *recorder) CallAPI(_ context.Context, call *transport.Call) (*transport.Response, error) {
	r.last = call
	if r.err != nil {
		return nil, r.err
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &transport.Response{StatusCode: status, Body: []byte(r.body)}, nil
}

// ==============================================
// END TO END OVER HTTP
// ==============================================

func TestKIP7API_MintOverHTTP(t *testing.T) {
	var gotBody []byte
	var gotChain string

	router := gin.New()
	router.POST("/v1/contract/:contract/mint", func(c *gin.Context) {
		gotChain = c.GetHeader(HeaderChainID)
		gotBody, _ = io.ReadAll(c.Request.Body)
		if c.Param("contract") != "gold-token" {
			c.JSON(http.StatusNotFound, gin.H{"code": 1104404, "message": "contract not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Submitted", "transactionHash": "0xabc"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	tr, err := transport.NewHTTPTransport(transport.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	api := NewKIP7API(tr)

	req := dto.KIP7MintSchema.MustConstruct(dto.Object{"to": testTo, "amount": 100})
	res, raw, err := api.Mint(context.Background(), chainID, "gold-token", req)
	require.NoError(t, err)

	assert.Equal(t, "Submitted", res.Status)
	assert.Equal(t, "0xabc", res.TransactionHash)
	assert.Equal(t, http.StatusOK, raw.StatusCode)
	assert.Equal(t, chainID, gotChain)
	assert.JSONEq(t, `{"to":"`+testTo+`","amount":"0x64"}`, string(gotBody))

	_, raw, err = api.Mint(context.Background(), chainID, "silver-token", req)
	var remote *models.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 1104404, remote.Code)
	assert.Equal(t, "contract not found", remote.Message)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	require.NotNil(t, raw)
	assert.Equal(t, http.StatusNotFound, raw.StatusCode)
}

// ==============================================
// CALL ASSEMBLY
// ==============================================

func TestKIP7API_CallShapes(t *testing.T) {
	rec := &recorder{body: `{"balance":"0x10","decimals":18}`}
	api := NewKIP7API(rec)

	bal, _, err := api.BalanceOf(context.Background(), chainID, "gold-token", testOwner)
	require.NoError(t, err)
	assert.Equal(t, "0x10", bal.Balance)

	assert.Equal(t, http.MethodGet, rec.last.Method)
	assert.Equal(t, "/v1/contract/{contract-address-or-alias}/account/{owner}/balance", rec.last.Path)
	assert.Equal(t, map[string]string{"contract-address-or-alias": "gold-token", "owner": testOwner}, rec.last.PathParams)
	assert.Equal(t, map[string]string{HeaderChainID: chainID}, rec.last.HeaderParams)
	assert.Equal(t, []string{transport.AuthBasic}, rec.last.AuthNames)
	assert.Equal(t, []string{transport.ContentTypeJSON}, rec.last.ContentTypes)
	assert.Equal(t, []string{transport.ContentTypeJSON}, rec.last.Accepts)
	assert.Nil(t, rec.last.Body)

	_, _, err = api.Pause(context.Background(), chainID, "gold-token", dto.Record{})
	require.NoError(t, err)
	assert.Equal(t, "/v1/contract/{contract-address-or-alias}/pause", rec.last.Path)
	assert.Nil(t, rec.last.Body, "an empty record sends no body")
}

func TestKIP7API_ListContractsQuery(t *testing.T) {
	rec := &recorder{body: `{"items":[{"address":"0x1","alias":"a","status":"deployed"}],"cursor":"next"}`}
	api := NewKIP7API(rec)

	opts, err := dto.NewQueryOptions(dto.Object{"size": 1, "status": "DEPLOYED"})
	require.NoError(t, err)

	list, _, err := api.ListContracts(context.Background(), chainID, opts)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, "next", list.Cursor)
	assert.Equal(t, map[string]string{"size": "1", "status": "deployed"}, rec.last.QueryParams)
}

func TestKIP17API_TokenPaths(t *testing.T) {
	rec := &recorder{body: `{"status":"Submitted","transactionHash":"0x1"}`}
	api := NewKIP17API(rec)

	req := dto.KIP17TransferSchema.MustConstruct(dto.Object{"sender": testOwner, "owner": testOwner, "to": testTo})
	_, _, err := api.Transfer(context.Background(), chainID, "nft-art", "0x7b", req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.last.Method)
	assert.Equal(t, pathToken, rec.last.Path)
	assert.Equal(t, "0x7b", rec.last.PathParams["token-id"])

	_, _, err = api.Burn(context.Background(), chainID, "nft-art", "0x7b", dto.KIP17BurnSchema.MustConstruct(dto.Object{"from": testOwner}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.last.Method)
	assert.Equal(t, dto.Object{"from": testOwner}, rec.last.Body)
}

func TestWalletAPI_KRNHeaderAndQueryNames(t *testing.T) {
	rec := &recorder{body: `{"items":[],"cursor":""}`}
	api := NewWalletAPI(rec)

	opts, err := dto.NewQueryOptions(dto.Object{"size": 10, "fromTimestamp": 1600000000})
	require.NoError(t, err)

	_, _, err = api.ListAccounts(context.Background(), chainID, "krn:1001:wallet:test:account-pool:default", opts)
	require.NoError(t, err)
	assert.Equal(t, "krn:1001:wallet:test:account-pool:default", rec.last.HeaderParams[HeaderKRN])
	assert.Equal(t, map[string]string{"size": "10", "from-timestamp": "1600000000"}, rec.last.QueryParams)

	_, _, err = api.GetAccount(context.Background(), chainID, "", testOwner)
	require.NoError(t, err)
	_, hasKRN := rec.last.HeaderParams[HeaderKRN]
	assert.False(t, hasKRN)
	assert.Equal(t, testOwner, rec.last.PathParams["address"])
}

func TestNodeAPI_RPCErrorMemberIsRemoteError(t *testing.T) {
	rec := &recorder{body: `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"the method klay_nope does not exist"}}`}
	api := NewNodeAPI(rec)

	req := dto.NodeRPCSchema.MustConstruct(dto.Object{"jsonrpc": "2.0", "method": "klay_nope", "params": []any{}, "id": 1})
	env, raw, err := api.Call(context.Background(), chainID, req)

	var remote *models.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, -32601, remote.Code)
	assert.Equal(t, http.StatusOK, remote.StatusCode)
	require.NotNil(t, env)
	assert.Equal(t, int64(1), env.ID)
	assert.NotNil(t, raw)
}

func TestNodeAPI_Result(t *testing.T) {
	rec := &recorder{body: `{"jsonrpc":"2.0","id":7,"result":"0x2a"}`}
	api := NewNodeAPI(rec)

	req := dto.NodeRPCSchema.MustConstruct(dto.Object{"jsonrpc": "2.0", "method": "klay_blockNumber", "params": []any{}, "id": 7})
	env, _, err := api.Call(context.Background(), chainID, req)
	require.NoError(t, err)

	var height string
	require.NoError(t, env.Into(&height))
	assert.Equal(t, "0x2a", height)
	assert.Equal(t, "/v1/klaytn", rec.last.Path)
}

func TestHistoryAPI_PresetsAndQueryNames(t *testing.T) {
	rec := &recorder{body: `{"items":[],"cursor":""}`}
	api := NewHistoryAPI(rec)

	opts, err := dto.NewQueryOptions(dto.Object{"kind": []string{"ft"}, "caFilter": testTo, "excludeZeroKlay": true})
	require.NoError(t, err)

	_, _, err = api.ListTransfers(context.Background(), chainID, []int{1, 12}, opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"presets":           "1,12",
		"kind":              "ft",
		"ca-filter":         testTo,
		"exclude-zero-klay": "true",
	}, rec.last.QueryParams)
}

// ==============================================
// FAILURE CLASSIFICATION
// ==============================================

func TestInvoke_Failures(t *testing.T) {
	netErr := &models.TransportError{Op: "kip7.getContract", Err: errors.New("connection refused")}

	cases := []struct {
		name       string
		rec        *recorder
		remote     bool
		transport  bool
		wantStatus int
	}{
		{"remote payload with string code", &recorder{status: 400, body: `{"code":"1100050","message":"invalid address"}`}, true, false, 400},
		{"remote payload on ok status", &recorder{status: 200, body: `{"code":1100050,"message":"invalid address"}`}, true, false, 200},
		{"error status without payload", &recorder{status: 502, body: `<html>bad gateway</html>`}, false, true, 502},
		{"undecodable success body", &recorder{status: 200, body: `{"address":`}, false, true, 200},
		{"no response", &recorder{err: netErr}, false, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := NewKIP7API(tc.rec)
			_, _, err := api.GetContract(context.Background(), chainID, "gold-token")
			require.Error(t, err)

			assert.Equal(t, tc.remote, models.IsRemoteError(err))
			assert.Equal(t, tc.transport, models.IsTransportError(err))

			var terr *models.TransportError
			if errors.As(err, &terr) {
				assert.Equal(t, tc.wantStatus, terr.StatusCode)
			}
			var remote *models.RemoteError
			if errors.As(err, &remote) {
				assert.Equal(t, 1100050, remote.Code)
				assert.Equal(t, tc.wantStatus, remote.StatusCode)
			}
		})
	}
}

func TestInvoke_EmptySuccessBody(t *testing.T) {
	api := NewWalletAPI(&recorder{status: http.StatusNoContent})

	res, raw, err := api.DeleteAccount(context.Background(), chainID, "", testOwner)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, http.StatusNoContent, raw.StatusCode)
}
