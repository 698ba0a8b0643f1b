package service

import (
	"context"

	"github.com/Brownie44l1/kasgo/internal/api/binding"
	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"go.uber.org/zap"
)

// ==============================================
// KIP-17 SERVICE
// ==============================================

var kip17ListOptions = []string{dto.OptSize, dto.OptCursor}

// KIP17Service wraps the non-fungible token API. The zero value is unbound.
type KIP17Service struct {
	api     *binding.KIP17API
	chainID string
	log     *zap.Logger
}

// NewKIP17 binds a KIP-17 service to a session.
func NewKIP17(s Session) (*KIP17Service, error) {
	if err := s.validate("kip17"); err != nil {
		return nil, err
	}
	return &KIP17Service{
		api:     binding.NewKIP17API(s.Transport),
		chainID: s.ChainID,
		log:     s.logger(),
	}, nil
}

func (s *KIP17Service) ready() error {
	if s == nil || s.api == nil {
		return models.ErrNotInitialized
	}
	return nil
}

// Deploy deploys a new KIP-17 contract. Accepts WithFeePayer.
func (s *KIP17Service) Deploy(ctx context.Context, name, symbol, alias string, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip17.deploy"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).nonEmpty("name", name).nonEmpty("symbol", symbol).alias("alias", alias).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFeePayer)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP17DeploySchema.Construct(dto.Object{
		"alias":   alias,
		"name":    name,
		"symbol":  symbol,
		"options": o.feePayer,
	})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return s.api.Deploy(ctx, s.chainID, req)
	}), nil
}

// GetContractList lists KIP-17 contracts. query accepts size and cursor.
func (s *KIP17Service) GetContractList(ctx context.Context, query dto.Object, opts ...CallOption) (*Future[*dto.ContractList], error) {
	const op = "kip17.getContractList"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	if err := args(op).query(query, &q, kip17ListOptions...).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.ContractList, *transport.Response, error) {
		return s.api.ListContracts(ctx, s.chainID, q)
	}), nil
}

// GetContract fetches one KIP-17 contract.
func (s *KIP17Service) GetContract(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.Contract], error) {
	const op = "kip17.getContract"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).contract(addressOrAlias).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.Contract, *transport.Response, error) {
		return s.api.GetContract(ctx, s.chainID, addressOrAlias)
	}), nil
}

// UpdateContractOptions changes who pays fees for a contract. Accepts WithFeePayer.
func (s *KIP17Service) UpdateContractOptions(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.Contract], error) {
	const op = "kip17.updateContractOptions"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).contract(addressOrAlias).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFeePayer)
	if err != nil {
		return nil, err
	}

	req, err := dto.ContractOptionsSchema.Construct(dto.Object{"options": o.feePayer})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.Contract, *transport.Response, error) {
		return s.api.UpdateContractOptions(ctx, s.chainID, addressOrAlias, req)
	}), nil
}

// Mint issues token tokenID with metadata tokenURI to to.
func (s *KIP17Service) Mint(ctx context.Context, addressOrAlias, to string, tokenID any, tokenURI string, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip17.mint"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var id string
	err := args(op).
		contract(addressOrAlias).
		address("to", to).
		quantity("tokenId", tokenID, &id).
		nonEmpty("tokenUri", tokenURI).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP17MintSchema.Construct(dto.Object{"to": to, "id": id, "uri": tokenURI})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return s.api.Mint(ctx, s.chainID, addressOrAlias, req)
	}), nil
}

// GetTokenList lists the tokens of a contract. query accepts size and cursor.
func (s *KIP17Service) GetTokenList(ctx context.Context, addressOrAlias string, query dto.Object, opts ...CallOption) (*Future[*dto.NFTList], error) {
	const op = "kip17.getTokenList"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	if err := args(op).contract(addressOrAlias).query(query, &q, kip17ListOptions...).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.NFTList, *transport.Response, error) {
		return s.api.ListTokens(ctx, s.chainID, addressOrAlias, q)
	}), nil
}

// GetToken fetches one token.
func (s *KIP17Service) GetToken(ctx context.Context, addressOrAlias string, tokenID any, opts ...CallOption) (*Future[*dto.NFT], error) {
	const op = "kip17.getToken"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var id string
	if err := args(op).contract(addressOrAlias).quantity("tokenId", tokenID, &id).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.NFT, *transport.Response, error) {
		return s.api.GetToken(ctx, s.chainID, addressOrAlias, id)
	}), nil
}

// Transfer moves token tokenID from owner to to, sent by sender.
func (s *KIP17Service) Transfer(ctx context.Context, addressOrAlias, sender, owner, to string, tokenID any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip17.transfer"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var id string
	err := args(op).
		contract(addressOrAlias).
		address("sender", sender).
		address("owner", owner).
		address("to", to).
		quantity("tokenId", tokenID, &id).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP17TransferSchema.Construct(dto.Object{"sender": sender, "owner": owner, "to": to})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return s.api.Transfer(ctx, s.chainID, addressOrAlias, id, req)
	}), nil
}

// Burn destroys token tokenID held by from.
func (s *KIP17Service) Burn(ctx context.Context, addressOrAlias, from string, tokenID any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip17.burn"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var id string
	err := args(op).
		contract(addressOrAlias).
		address("from", from).
		quantity("tokenId", tokenID, &id).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP17BurnSchema.Construct(dto.Object{"from": from})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return s.api.Burn(ctx, s.chainID, addressOrAlias, id, req)
	}), nil
}
