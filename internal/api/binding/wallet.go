package binding

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

const pathAccount = "/v2/account/{address}"

// walletQueryNames maps option keys to the wallet service's query names.
var walletQueryNames = map[string]string{
	dto.OptFromTimestamp: "from-timestamp",
	dto.OptToTimestamp:   "to-timestamp",
}

// WalletAPI binds the key-managed account and transaction endpoints.
// Every method takes the account pool KRN; it is sent as x-krn when set.
type WalletAPI struct {
	client
}

// NewWalletAPI creates the wallet binding over t.
func NewWalletAPI(t transport.Transport) *WalletAPI {
	return &WalletAPI{client{transport: t}}
}

// CreateAccount issues POST /v2/account
func (a *WalletAPI) CreateAccount(ctx context.Context, chainID, krn string) (*dto.Account, *transport.Response, error) {
	call := a.walletCall("wallet.createAccount", http.MethodPost, "/v2/account", chainID, krn)
	return invoke[dto.Account](ctx, a.client, call)
}

// ListAccounts issues GET /v2/account
func (a *WalletAPI) ListAccounts(ctx context.Context, chainID, krn string, opts dto.QueryOptions) (*dto.AccountList, *transport.Response, error) {
	call := a.walletCall("wallet.listAccounts", http.MethodGet, "/v2/account", chainID, krn)
	call.QueryParams = queryParams(opts, walletQueryNames)
	return invoke[dto.AccountList](ctx, a.client, call)
}

// GetAccount issues GET /v2/account/{address}
func (a *WalletAPI) GetAccount(ctx context.Context, chainID, krn, address string) (*dto.Account, *transport.Response, error) {
	call := a.accountCall("wallet.getAccount", http.MethodGet, pathAccount, chainID, krn, address)
	return invoke[dto.Account](ctx, a.client, call)
}

// DeleteAccount issues DELETE /v2/account/{address}
func (a *WalletAPI) DeleteAccount(ctx context.Context, chainID, krn, address string) (*dto.AccountStatus, *transport.Response, error) {
	call := a.accountCall("wallet.deleteAccount", http.MethodDelete, pathAccount, chainID, krn, address)
	return invoke[dto.AccountStatus](ctx, a.client, call)
}

// EnableAccount issues PUT /v2/account/{address}/enable
func (a *WalletAPI) EnableAccount(ctx context.Context, chainID, krn, address string) (*dto.AccountStatus, *transport.Response, error) {
	call := a.accountCall("wallet.enableAccount", http.MethodPut, pathAccount+"/enable", chainID, krn, address)
	return invoke[dto.AccountStatus](ctx, a.client, call)
}

// DisableAccount issues PUT /v2/account/{address}/disable
func (a *WalletAPI) DisableAccount(ctx context.Context, chainID, krn, address string) (*dto.AccountStatus, *transport.Response, error) {
	call := a.accountCall("wallet.disableAccount", http.MethodPut, pathAccount+"/disable", chainID, krn, address)
	return invoke[dto.AccountStatus](ctx, a.client, call)
}

// RequestValueTransfer issues POST /v2/tx/value
func (a *WalletAPI) RequestValueTransfer(ctx context.Context, chainID, krn string, req dto.Record) (*dto.WalletTransaction, *transport.Response, error) {
	call := a.walletCall("wallet.requestValueTransfer", http.MethodPost, "/v2/tx/value", chainID, krn)
	call.Body = body(req)
	return invoke[dto.WalletTransaction](ctx, a.client, call)
}

// RequestFDValueTransferPaidByGlobalFeePayer issues POST /v2/tx/fd/value
func (a *WalletAPI) RequestFDValueTransferPaidByGlobalFeePayer(ctx context.Context, chainID, krn string, req dto.Record) (*dto.WalletTransaction, *transport.Response, error) {
	call := a.walletCall("wallet.requestFDValueTransferPaidByGlobalFeePayer", http.MethodPost, "/v2/tx/fd/value", chainID, krn)
	call.Body = body(req)
	return invoke[dto.WalletTransaction](ctx, a.client, call)
}

// GetTransactionReceipt issues GET /v2/tx/{transaction-hash}/receipt
func (a *WalletAPI) GetTransactionReceipt(ctx context.Context, chainID, krn, txHash string) (*dto.TransactionReceipt, *transport.Response, error) {
	call := a.walletCall("wallet.getTransactionReceipt", http.MethodGet, "/v2/tx/{transaction-hash}/receipt", chainID, krn)
	call.PathParams["transaction-hash"] = txHash
	return invoke[dto.TransactionReceipt](ctx, a.client, call)
}

func (a *WalletAPI) walletCall(op, method, path, chainID, krn string) *transport.Call {
	call := a.call(op, method, path, chainID)
	if krn != "" {
		call.HeaderParams[HeaderKRN] = krn
	}
	return call
}

func (a *WalletAPI) accountCall(op, method, path, chainID, krn, address string) *transport.Call {
	call := a.walletCall(op, method, path, chainID, krn)
	call.PathParams["address"] = address
	return call
}
