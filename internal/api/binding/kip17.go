package binding

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

const pathToken = pathContract + "/token/{token-id}"

// KIP17API binds the non-fungible token contract endpoints.
type KIP17API struct {
	client
}

// NewKIP17API creates the KIP-17 binding over t.
func NewKIP17API(t transport.Transport) *KIP17API {
	return &KIP17API{client{transport: t}}
}

// Deploy issues POST /v1/contract
func (a *KIP17API) Deploy(ctx context.Context, chainID string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.call("kip17.deploy", http.MethodPost, pathContracts, chainID)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

// ListContracts issues GET /v1/contract
func (a *KIP17API) ListContracts(ctx context.Context, chainID string, opts dto.QueryOptions) (*dto.ContractList, *transport.Response, error) {
	call := a.call("kip17.listContracts", http.MethodGet, pathContracts, chainID)
	call.QueryParams = queryParams(opts, nil)
	return invoke[dto.ContractList](ctx, a.client, call)
}

// GetContract issues GET /v1/contract/{contract-address-or-alias}
func (a *KIP17API) GetContract(ctx context.Context, chainID, contract string) (*dto.Contract, *transport.Response, error) {
	call := a.contractCall("kip17.getContract", http.MethodGet, pathContract, chainID, contract)
	return invoke[dto.Contract](ctx, a.client, call)
}

// UpdateContractOptions issues PUT /v1/contract/{contract-address-or-alias}
func (a *KIP17API) UpdateContractOptions(ctx context.Context, chainID, contract string, req dto.Record) (*dto.Contract, *transport.Response, error) {
	call := a.contractCall("kip17.updateContractOptions", http.MethodPut, pathContract, chainID, contract)
	call.Body = body(req)
	return invoke[dto.Contract](ctx, a.client, call)
}

// Mint issues POST /v1/contract/{contract-address-or-alias}/token
func (a *KIP17API) Mint(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.contractCall("kip17.mint", http.MethodPost, pathContract+"/token", chainID, contract)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

// ListTokens issues GET /v1/contract/{contract-address-or-alias}/token
func (a *KIP17API) ListTokens(ctx context.Context, chainID, contract string, opts dto.QueryOptions) (*dto.NFTList, *transport.Response, error) {
	call := a.contractCall("kip17.listTokens", http.MethodGet, pathContract+"/token", chainID, contract)
	call.QueryParams = queryParams(opts, nil)
	return invoke[dto.NFTList](ctx, a.client, call)
}

// GetToken issues GET /v1/contract/{contract-address-or-alias}/token/{token-id}
func (a *KIP17API) GetToken(ctx context.Context, chainID, contract, tokenID string) (*dto.NFT, *transport.Response, error) {
	call := a.tokenCall("kip17.getToken", http.MethodGet, chainID, contract, tokenID)
	return invoke[dto.NFT](ctx, a.client, call)
}

// Transfer issues PUT /v1/contract/{contract-address-or-alias}/token/{token-id}
func (a *KIP17API) Transfer(ctx context.Context, chainID, contract, tokenID string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.tokenCall("kip17.transfer", http.MethodPut, chainID, contract, tokenID)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

// Burn issues DELETE /v1/contract/{contract-address-or-alias}/token/{token-id}
func (a *KIP17API) Burn(ctx context.Context, chainID, contract, tokenID string, req dto.Record) (*dto.TransactionResult, *transport.Response, error) {
	call := a.tokenCall("kip17.burn", http.MethodDelete, chainID, contract, tokenID)
	call.Body = body(req)
	return invoke[dto.TransactionResult](ctx, a.client, call)
}

func (a *KIP17API) tokenCall(op, method, chainID, contract, tokenID string) *transport.Call {
	call := a.contractCall(op, method, pathToken, chainID, contract)
	call.PathParams["token-id"] = tokenID
	return call
}
