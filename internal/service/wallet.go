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
// WALLET SERVICE
// ==============================================

var walletListOptions = []string{dto.OptSize, dto.OptCursor, dto.OptFromTimestamp, dto.OptToTimestamp}

// WalletService wraps the key-managed account API. Every operation accepts
// WithKRN; without it the session's default account pool is used.
type WalletService struct {
	api        *binding.WalletAPI
	chainID    string
	defaultKRN string
	log        *zap.Logger
}

// NewWallet binds a wallet service to a session.
func NewWallet(s Session) (*WalletService, error) {
	if err := s.validate("wallet"); err != nil {
		return nil, err
	}
	return &WalletService{
		api:        binding.NewWalletAPI(s.Transport),
		chainID:    s.ChainID,
		defaultKRN: s.DefaultKRN,
		log:        s.logger(),
	}, nil
}

func (s *WalletService) ready() error {
	if s == nil || s.api == nil {
		return models.ErrNotInitialized
	}
	return nil
}

func (s *WalletService) krn(o callOptions) string {
	if o.krn != "" {
		return o.krn
	}
	return s.defaultKRN
}

// CreateAccount creates a new account in the pool.
func (s *WalletService) CreateAccount(ctx context.Context, opts ...CallOption) (*Future[*dto.Account], error) {
	const op = "wallet.createAccount"
	if err := s.ready(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optKRN)
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.Account, *transport.Response, error) {
		return s.api.CreateAccount(ctx, s.chainID, krn)
	}), nil
}

// GetAccountList lists accounts. query accepts size, cursor, fromTimestamp and toTimestamp.
func (s *WalletService) GetAccountList(ctx context.Context, query dto.Object, opts ...CallOption) (*Future[*dto.AccountList], error) {
	const op = "wallet.getAccountList"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	if err := args(op).query(query, &q, walletListOptions...).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optKRN)
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.AccountList, *transport.Response, error) {
		return s.api.ListAccounts(ctx, s.chainID, krn, q)
	}), nil
}

// GetAccount fetches one account.
func (s *WalletService) GetAccount(ctx context.Context, address string, opts ...CallOption) (*Future[*dto.Account], error) {
	const op = "wallet.getAccount"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).address("address", address).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optKRN)
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.Account, *transport.Response, error) {
		return s.api.GetAccount(ctx, s.chainID, krn, address)
	}), nil
}

// DeleteAccount removes an account from the pool.
func (s *WalletService) DeleteAccount(ctx context.Context, address string, opts ...CallOption) (*Future[*dto.AccountStatus], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.accountStatus(ctx, "wallet.deleteAccount", address, opts, s.api.DeleteAccount)
}

// EnableAccount re-enables a disabled account.
func (s *WalletService) EnableAccount(ctx context.Context, address string, opts ...CallOption) (*Future[*dto.AccountStatus], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.accountStatus(ctx, "wallet.enableAccount", address, opts, s.api.EnableAccount)
}

// DisableAccount stops an account from signing.
func (s *WalletService) DisableAccount(ctx context.Context, address string, opts ...CallOption) (*Future[*dto.AccountStatus], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.accountStatus(ctx, "wallet.disableAccount", address, opts, s.api.DisableAccount)
}

type accountStatusCall func(ctx context.Context, chainID, krn, address string) (*dto.AccountStatus, *transport.Response, error)

func (s *WalletService) accountStatus(ctx context.Context, op, address string, opts []CallOption, call accountStatusCall) (*Future[*dto.AccountStatus], error) {
	if err := args(op).address("address", address).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optKRN)
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.AccountStatus, *transport.Response, error) {
		return call(ctx, s.chainID, krn, address)
	}), nil
}

// RequestValueTransfer moves value (in peb) from from to to. Accepts WithMemo,
// WithSubmit and WithKRN.
func (s *WalletService) RequestValueTransfer(ctx context.Context, from, to string, value any, opts ...CallOption) (*Future[*dto.WalletTransaction], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.valueTransfer(ctx, "wallet.requestValueTransfer", from, to, value, opts, s.api.RequestValueTransfer)
}

// RequestFDValueTransferPaidByGlobalFeePayer is RequestValueTransfer with the
// fee paid by the global fee payer.
func (s *WalletService) RequestFDValueTransferPaidByGlobalFeePayer(ctx context.Context, from, to string, value any, opts ...CallOption) (*Future[*dto.WalletTransaction], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.valueTransfer(ctx, "wallet.requestFDValueTransferPaidByGlobalFeePayer", from, to, value, opts, s.api.RequestFDValueTransferPaidByGlobalFeePayer)
}

type valueTransferCall func(ctx context.Context, chainID, krn string, req dto.Record) (*dto.WalletTransaction, *transport.Response, error)

func (s *WalletService) valueTransfer(ctx context.Context, op, from, to string, value any, opts []CallOption, call valueTransferCall) (*Future[*dto.WalletTransaction], error) {
	var hexValue string
	err := args(op).
		address("from", from).
		address("to", to).
		quantity("value", value, &hexValue).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optMemo, optSubmit, optKRN)
	if err != nil {
		return nil, err
	}

	req, err := dto.ValueTransferSchema.Construct(dto.Object{
		"from":   from,
		"to":     to,
		"value":  hexValue,
		"memo":   o.memo,
		"submit": o.submit,
	})
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.WalletTransaction, *transport.Response, error) {
		return call(ctx, s.chainID, krn, req)
	}), nil
}

// GetTransactionReceipt fetches the receipt of a submitted transaction.
func (s *WalletService) GetTransactionReceipt(ctx context.Context, txHash string, opts ...CallOption) (*Future[*dto.TransactionReceipt], error) {
	const op = "wallet.getTransactionReceipt"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).txHash("transactionHash", txHash).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optKRN)
	if err != nil {
		return nil, err
	}

	krn := s.krn(o)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransactionReceipt, *transport.Response, error) {
		return s.api.GetTransactionReceipt(ctx, s.chainID, krn, txHash)
	}), nil
}
