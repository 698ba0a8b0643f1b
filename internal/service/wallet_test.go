package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultPool = "krn:1001:wallet:test:account-pool:default"
	otherPool   = "krn:1001:wallet:test:account-pool:other"
)

func walletSession(t *testing.T, mt *MockTransport) *WalletService {
	t.Helper()
	sess := testSession(mt)
	sess.DefaultKRN = defaultPool
	svc, err := NewWallet(sess)
	require.NoError(t, err)
	return svc
}

func TestWallet_KRNDefaultsToSessionPool(t *testing.T) {
	mt := okTransport(`{"address":"0x1111111111111111111111111111111111111111","chainId":1001}`)
	svc := walletSession(t, mt)
	ctx := context.Background()

	fut, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	res, err := fut.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1001, res.Data.ChainID)

	call := mt.LastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/v2/account", call.Path)
	assert.Equal(t, defaultPool, call.HeaderParams["x-krn"])
	assert.Nil(t, call.Body)

	fut, err = svc.GetAccount(ctx, testTo, WithKRN(otherPool))
	require.NoError(t, err)
	_, err = fut.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, otherPool, mt.LastCall(t).HeaderParams["x-krn"])
	assert.Equal(t, testTo, mt.LastCall(t).PathParams["address"])
}

func TestWallet_NoKRNHeaderWithoutPool(t *testing.T) {
	mt := okTransport(`{}`)
	svc, err := NewWallet(testSession(mt))
	require.NoError(t, err)

	fut, err := svc.DisableAccount(context.Background(), testTo)
	require.NoError(t, err)
	_, err = fut.Await(context.Background())
	require.NoError(t, err)

	call := mt.LastCall(t)
	assert.Equal(t, "/v2/account/{address}/disable", call.Path)
	_, ok := call.HeaderParams["x-krn"]
	assert.False(t, ok)
}

func TestWallet_AccountListQueryNames(t *testing.T) {
	mt := okTransport(`{"items":[],"cursor":""}`)
	svc := walletSession(t, mt)

	fut, err := svc.GetAccountList(context.Background(), dto.Object{
		"size":          20,
		"fromTimestamp": 1600000000,
		"toTimestamp":   "1700000000",
	})
	require.NoError(t, err)
	_, err = fut.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"size":           "20",
		"from-timestamp": "1600000000",
		"to-timestamp":   "1700000000",
	}, mt.LastCall(t).QueryParams)

	_, err = svc.GetAccountList(context.Background(), dto.Object{"status": "active"})
	assert.ErrorIs(t, err, models.ErrInvalidQueryOptions)
}

func TestWallet_ValueTransfer(t *testing.T) {
	mt := okTransport(`{"from":"` + testOwner + `","status":"Submitted","transactionHash":"` + testTxHash + `"}`)
	svc := walletSession(t, mt)
	ctx := context.Background()

	fut, err := svc.RequestValueTransfer(ctx, testOwner, testTo, "1000000000000000000")
	require.NoError(t, err)
	res, err := fut.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, testTxHash, res.Data.TransactionHash)

	call := mt.LastCall(t)
	assert.Equal(t, "/v2/tx/value", call.Path)
	assert.Equal(t, dto.Object{"from": testOwner, "to": testTo, "value": "0xde0b6b3a7640000"}, bodyObject(t, call),
		"memo and submit stay absent unless given")

	fut, err = svc.RequestFDValueTransferPaidByGlobalFeePayer(ctx, testOwner, testTo, 1,
		WithMemo("rent"), WithSubmit(true), WithKRN(otherPool))
	require.NoError(t, err)
	_, err = fut.Await(ctx)
	require.NoError(t, err)

	call = mt.LastCall(t)
	assert.Equal(t, "/v2/tx/fd/value", call.Path)
	assert.Equal(t, otherPool, call.HeaderParams["x-krn"])
	assert.Equal(t, dto.Object{"from": testOwner, "to": testTo, "value": "0x1", "memo": "rent", "submit": true}, bodyObject(t, call))
}

func TestWallet_Validation(t *testing.T) {
	mt := okTransport(`{}`)
	svc := walletSession(t, mt)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() error
		wantField string
	}{
		{"receipt hash", func() error { _, err := svc.GetTransactionReceipt(ctx, "0x1234"); return err }, "transactionHash"},
		{"transfer from", func() error { _, err := svc.RequestValueTransfer(ctx, "", testTo, 1); return err }, "from"},
		{"transfer value", func() error { _, err := svc.RequestValueTransfer(ctx, testOwner, testTo, "-1"); return err }, "value"},
		{"delete address", func() error { _, err := svc.DeleteAccount(ctx, "0xzz"); return err }, "address"},
		{"memo on account call", func() error { _, err := svc.EnableAccount(ctx, testTo, WithMemo("x")); return err }, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *models.ValidationError
			require.True(t, errors.As(tt.call(), &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
	assert.Empty(t, mt.Calls())
}

func TestWallet_ReceiptPath(t *testing.T) {
	mt := okTransport(`{"status":"0x1","transactionHash":"` + testTxHash + `"}`)
	svc := walletSession(t, mt)

	fut, err := svc.GetTransactionReceipt(context.Background(), testTxHash)
	require.NoError(t, err)
	res, err := fut.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0x1", res.Data.Status)
	assert.Equal(t, "/v2/tx/{transaction-hash}/receipt", mt.LastCall(t).Path)
	assert.Equal(t, testTxHash, mt.LastCall(t).PathParams["transaction-hash"])
}

func TestWallet_UnboundFailsFirst(t *testing.T) {
	var svc *WalletService
	_, err := svc.RequestValueTransfer(context.Background(), "", "", nil)
	assert.ErrorIs(t, err, models.ErrNotInitialized)

	_, err = (&WalletService{}).GetTransactionReceipt(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrNotInitialized)
}
