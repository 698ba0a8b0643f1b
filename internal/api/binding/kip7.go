package binding

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

const (
	pathContracts = "/v1/contract"
	pathContract  = "/v1/contract/{contract-address-or-alias}"
)

// KIP7API binds the fungible token contract endpoints.
type KIP7API struct {
	client
}

// NewKIP7API creates the KIP-7 binding over t.
func NewKIP7API(t transport.Transport) *KIP7API {
	return &KIP7API{client{transport: t}}
}

// Deploy issues POST /v1/contract
func (a *KIP7API) Deploy(ctx context.Context, chainID string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.call("kip7.deploy", http.MethodPost, pathContracts, chainID)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

// ListContracts issues GET /v1/contract
func (a *KIP7API) ListContracts(ctx context.Context, chainID string, opts dto.QueryOptions) (*dto.ContractList, *transport.Response, error) {
	call := a.call("kip7.listContracts", http.MethodGet, pathContracts, chainID)
	call.QueryParams = queryParams(opts, nil)
	return invoke[dto.ContractList](ctx, a.client, call)
}

// GetContract issues GET /v1/contract/{contract-address-or-alias}
func (a *KIP7API) GetContract(ctx context.Context, chainID, contract string) (*dto.Contract, *transport.Response, error) {
	call := a.contractCall("kip7.getContract", http.MethodGet, pathContract, chainID, contract)
	return invoke[dto.Contract](ctx, a.client, call)
}

// UpdateContractOptions issues PUT /v1/contract/{contract-address-or-alias}
func (a *KIP7API) UpdateContractOptions(ctx context.Context, chainID, contract string, req dto.Record) (*dto.Contract, *transport.Response, error) {
	call := a.contractCall("kip7.updateContractOptions", http.MethodPut, pathContract, chainID, contract)
	call.Body = body(req)
	return invoke[dto.Contract](ctx, a.client, call)
}

// Mint issues POST /v1/contract/{contract-address-or-alias}/mint
func (a *KIP7API) Mint(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.mint", "/mint", chainID, contract, req)
}

// Transfer issues POST /v1/contract/{contract-address-or-alias}/transfer
func (a *KIP7API) Transfer(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.transfer", "/transfer", chainID, contract, req)
}

// TransferFrom issues POST /v1/contract/{contract-address-or-alias}/transfer-from
func (a *KIP7API) TransferFrom(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.transferFrom", "/transfer-from", chainID, contract, req)
}

// Approve issues POST /v1/contract/{contract-address-or-alias}/approve
func (a *KIP7API) Approve(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.approve", "/approve", chainID, contract, req)
}

// Burn issues POST /v1/contract/{contract-address-or-alias}/burn
func (a *KIP7API) Burn(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.burn", "/burn", chainID, contract, req)
}

// Pause issues POST /v1/contract/{contract-address-or-alias}/pause
func (a *KIP7API) Pause(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.pause", "/pause", chainID, contract, req)
}

// Unpause issues POST /v1/contract/{contract-address-or-alias}/unpause
func (a *KIP7API) Unpause(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	return a.submit(ctx, "kip7.unpause", "/unpause", chainID, contract, req)
}

// Allowance issues GET /v1/contract/{contract-address-or-alias}/account/{owner}/allowance/{spender}
func (a *KIP7API) Allowance(ctx context.Context, chainID, contract, owner, spender string) (*dto.TokenBalance, *transport.Response, error) {
	call := a.contractCall("kip7.allowance", http.MethodGet, pathContract+"/account/{owner}/allowance/{spender}", chainID, contract)
	call.PathParams["owner"] = owner
	call.PathParams["spender"] = spender
	return invoke[dto.TokenBalance](ctx, a.client, call)
}

// BalanceOf issues GET /v1/contract/{contract-address-or-alias}/account/{owner}/balance
func (a *KIP7API) BalanceOf(ctx context.Context, chainID, contract, owner string) (*dto.TokenBalance, *transport.Response, error) {
	call := a.contractCall("kip7.balanceOf", http.MethodGet, pathContract+"/account/{owner}/balance", chainID, contract)
	call.PathParams["owner"] = owner
	return invoke[dto.TokenBalance](ctx, a.client, call)
}

func (a *KIP7API) submit(ctx context.Context, op, suffix, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.contractCall(op, http.MethodPost, pathContract+suffix, chainID, contract)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

func (c client) contractCall(op, method, path, chainID, contract string) *transport.Call {
	call := c.call(op, method, path, chainID)
	call.PathParams["contract-address-or-alias"] = contract
	return call
}
