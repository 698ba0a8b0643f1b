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
// KIP-7 SERVICE
// ==============================================

// Query options accepted by KIP-7 contract listing
var kip7ListOptions = []string{dto.OptSize, dto.OptCursor, dto.OptStatus}

// KIP7Service wraps the fungible token API. The zero value is unbound and
// fails every operation with models.ErrNotInitialized.
type KIP7Service struct {
	api     *binding.KIP7API
	chainID string
	log     *zap.Logger
}

// NewKIP7 binds a KIP-7 service to a session.
func NewKIP7(s Session) (*KIP7Service, error) {
	if err := s.validate("kip7"); err != nil {
		return nil, err
	}
	return &KIP7Service{
		api:     binding.NewKIP7API(s.Transport),
		chainID: s.ChainID,
		log:     s.logger(),
	}, nil
}

func (s *KIP7Service) ready() error {
	if s == nil || s.api == nil {
		return models.ErrNotInitialized
	}
	return nil
}

// Deploy deploys a new KIP-7 contract. Accepts WithFeePayer.
func (s *KIP7Service) Deploy(ctx context.Context, name, symbol string, decimals int, initialSupply any, alias string, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.deploy"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var supply string
	err := args(op).
		nonEmpty("name", name).
		nonEmpty("symbol", symbol).
		intRange("decimals", decimals, 0, 255).
		quantity("initialSupply", initialSupply, &supply).
		alias("alias", alias).
		done()
	if err != nil {
		return nil, err
	}

	o, err := resolveOptions(op, opts, optFeePayer)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7DeploySchema.Construct(dto.Object{
		"alias":         alias,
		"name":          name,
		"symbol":        symbol,
		"decimals":      decimals,
		"initialSupply": supply,
		"options":       o.feePayer,
	})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return s.api.Deploy(ctx, s.chainID, req)
	}), nil
}

// GetContractList lists deployed contracts. query accepts size, cursor and status.
func (s *KIP7Service) GetContractList(ctx context.Context, query dto.Object, opts ...CallOption) (*Future[*dto.ContractList], error) {
	const op = "kip7.getContractList"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	if err := args(op).query(query, &q, kip7ListOptions...).done(); err != nil {
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

// GetContract fetches one contract by address or alias.
func (s *KIP7Service) GetContract(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.Contract], error) {
	const op = "kip7.getContract"
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
func (s *KIP7Service) UpdateContractOptions(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.Contract], error) {
	const op = "kip7.updateContractOptions"
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

// Mint creates amount tokens for to. Accepts WithFrom (the minter).
func (s *KIP7Service) Mint(ctx context.Context, addressOrAlias, to string, amount any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.mint"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var hexAmount string
	err := args(op).
		contract(addressOrAlias).
		address("to", to).
		quantity("amount", amount, &hexAmount).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFrom)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7MintSchema.Construct(dto.Object{"to": to, "amount": hexAmount, "from": o.from})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, s.api.Mint), nil
}

// Transfer sends amount tokens to to. Accepts WithFrom (the sender).
func (s *KIP7Service) Transfer(ctx context.Context, addressOrAlias, to string, amount any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.transfer"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var hexAmount string
	err := args(op).
		contract(addressOrAlias).
		address("to", to).
		quantity("amount", amount, &hexAmount).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFrom)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7TransferSchema.Construct(dto.Object{"to": to, "amount": hexAmount, "from": o.from})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, s.api.Transfer), nil
}

// TransferFrom moves amount of owner's tokens to to, spent by spender.
func (s *KIP7Service) TransferFrom(ctx context.Context, addressOrAlias, spender, owner, to string, amount any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.transferFrom"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var hexAmount string
	err := args(op).
		contract(addressOrAlias).
		address("spender", spender).
		address("owner", owner).
		address("to", to).
		quantity("amount", amount, &hexAmount).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7TransferFromSchema.Construct(dto.Object{
		"spender": spender,
		"owner":   owner,
		"to":      to,
		"amount":  hexAmount,
	})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, s.api.TransferFrom), nil
}

// Approve lets spender use amount of the caller's tokens. Accepts WithFrom (the owner).
func (s *KIP7Service) Approve(ctx context.Context, addressOrAlias, spender string, amount any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.approve"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var hexAmount string
	err := args(op).
		contract(addressOrAlias).
		address("spender", spender).
		quantity("amount", amount, &hexAmount).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFrom)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7ApproveSchema.Construct(dto.Object{"spender": spender, "amount": hexAmount, "from": o.from})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, s.api.Approve), nil
}

// Allowance reads how much of owner's tokens spender may use.
func (s *KIP7Service) Allowance(ctx context.Context, addressOrAlias, owner, spender string, opts ...CallOption) (*Future[*dto.TokenBalance], error) {
	const op = "kip7.allowance"
	if err := s.ready(); err != nil {
		return nil, err
	}

	err := args(op).
		contract(addressOrAlias).
		address("owner", owner).
		address("spender", spender).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TokenBalance, *transport.Response, error) {
		return s.api.Allowance(ctx, s.chainID, addressOrAlias, owner, spender)
	}), nil
}

// BalanceOf reads owner's token balance.
func (s *KIP7Service) BalanceOf(ctx context.Context, addressOrAlias, owner string, opts ...CallOption) (*Future[*dto.TokenBalance], error) {
	const op = "kip7.balanceOf"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).contract(addressOrAlias).address("owner", owner).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TokenBalance, *transport.Response, error) {
		return s.api.BalanceOf(ctx, s.chainID, addressOrAlias, owner)
	}), nil
}

// Burn destroys amount tokens. Accepts WithFrom (the holder).
func (s *KIP7Service) Burn(ctx context.Context, addressOrAlias string, amount any, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	const op = "kip7.burn"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var hexAmount string
	if err := args(op).contract(addressOrAlias).quantity("amount", amount, &hexAmount).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFrom)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7BurnSchema.Construct(dto.Object{"amount": hexAmount, "from": o.from})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, s.api.Burn), nil
}

// Pause stops all token movement. Accepts WithFrom (the pauser).
func (s *KIP7Service) Pause(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pauseOrUnpause(ctx, "kip7.pause", addressOrAlias, opts, s.api.Pause)
}

// Unpause resumes token movement. Accepts WithFrom (the pauser).
func (s *KIP7Service) Unpause(ctx context.Context, addressOrAlias string, opts ...CallOption) (*Future[*dto.TransactionResult], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pauseOrUnpause(ctx, "kip7.unpause", addressOrAlias, opts, s.api.Unpause)
}

type kip7Submit func(ctx context.Context, chainID, contract string, req dto.Record) (*dto.TransactionResult, *transport.Response, error)

func (s *KIP7Service) pauseOrUnpause(ctx context.Context, op, addressOrAlias string, opts []CallOption, call kip7Submit) (*Future[*dto.TransactionResult], error) {
	if err := args(op).contract(addressOrAlias).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optFrom)
	if err != nil {
		return nil, err
	}

	req, err := dto.KIP7PauseSchema.Construct(dto.Object{"from": o.from})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, op, o.callback, req, addressOrAlias, call), nil
}

func (s *KIP7Service) submit(ctx context.Context, op string, cb Completion, req dto.Record, contract string, call kip7Submit) *Future[*dto.TransactionResult] {
	return run(ctx, s.log, op, cb, func(ctx context.Context) (*dto.TransactionResult, *transport.Response, error) {
		return call(ctx, s.chainID, contract, req)
	})
}
