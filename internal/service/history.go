package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Brownie44l1/kasgo/internal/api/binding"
	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"go.uber.org/zap"
)

// ==============================================
// TOKEN HISTORY SERVICE
// ==============================================

var historyListOptions = []string{
	dto.OptKind,
	dto.OptRange,
	dto.OptSize,
	dto.OptCursor,
	dto.OptCAFilter,
	dto.OptExcludeZeroKlay,
}

var (
	// ErrStopWalk ends a history walk early without error.
	ErrStopWalk = errors.New("stop walk")

	// ErrCursorLoop means the remote service handed back a cursor it already served.
	ErrCursorLoop = errors.New("history cursor repeated")
)

// HistoryService wraps the token transfer history API.
type HistoryService struct {
	api     *binding.HistoryAPI
	chainID string
	log     *zap.Logger
}

// NewHistory binds a history service to a session.
func NewHistory(s Session) (*HistoryService, error) {
	if err := s.validate("history"); err != nil {
		return nil, err
	}
	return &HistoryService{
		api:     binding.NewHistoryAPI(s.Transport),
		chainID: s.ChainID,
		log:     s.logger(),
	}, nil
}

func (s *HistoryService) ready() error {
	if s == nil || s.api == nil {
		return models.ErrNotInitialized
	}
	return nil
}

// GetTransferHistory lists transfers of the accounts grouped under the given
// preset ids. query accepts kind, range, size, cursor, caFilter and excludeZeroKlay.
func (s *HistoryService) GetTransferHistory(ctx context.Context, presets []int, query dto.Object, opts ...CallOption) (*Future[*dto.TransferHistoryPage], error) {
	const op = "history.getTransferHistory"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	err := args(op).
		check(len(presets) > 0, "presets", errors.New("at least one preset id is required")).
		check(allPositive(presets), "presets", errors.New("preset ids must be positive")).
		query(query, &q, historyListOptions...).
		done()
	if err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	ids := append([]int(nil), presets...)
	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransferHistoryPage, *transport.Response, error) {
		return s.api.ListTransfers(ctx, s.chainID, ids, q)
	}), nil
}

// GetTransferHistoryByTxHash lists the transfers made in one transaction.
func (s *HistoryService) GetTransferHistoryByTxHash(ctx context.Context, txHash string, opts ...CallOption) (*Future[*dto.TransferHistoryPage], error) {
	const op = "history.getTransferHistoryByTxHash"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).txHash("transactionHash", txHash).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransferHistoryPage, *transport.Response, error) {
		return s.api.ListTransfersByTxHash(ctx, s.chainID, txHash)
	}), nil
}

// GetTransferHistoryByAccount lists the transfers of one account. query accepts
// kind, range, size, cursor, caFilter and excludeZeroKlay.
func (s *HistoryService) GetTransferHistoryByAccount(ctx context.Context, address string, query dto.Object, opts ...CallOption) (*Future[*dto.TransferHistoryPage], error) {
	const op = "history.getTransferHistoryByAccount"
	if err := s.ready(); err != nil {
		return nil, err
	}

	var q dto.QueryOptions
	if err := args(op).address("address", address).query(query, &q, historyListOptions...).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.TransferHistoryPage, *transport.Response, error) {
		return s.api.ListTransfersByAccount(ctx, s.chainID, address, q)
	}), nil
}

// WalkTransferHistoryByAccount fetches an account's history page by page,
// following cursors, and hands each page to fn. It blocks until the last page,
// an error, or fn returning ErrStopWalk. Remote error payloads are returned as
// *models.RemoteError.
func (s *HistoryService) WalkTransferHistoryByAccount(ctx context.Context, address string, query dto.Object, fn func(page *dto.TransferHistoryPage) error) error {
	const op = "history.walkTransferHistoryByAccount"
	if err := s.ready(); err != nil {
		return err
	}

	var q dto.QueryOptions
	if err := args(op).address("address", address).query(query, &q, historyListOptions...).done(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for pageNo := 1; ; pageNo++ {
		page, _, err := s.api.ListTransfersByAccount(ctx, s.chainID, address, q)
		if err != nil {
			return err
		}

		s.log.Debug("history page fetched",
			zap.String("address", address),
			zap.Int("page", pageNo),
			zap.Int("items", len(page.Items)),
		)

		if err := fn(page); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}

		if page.Cursor == "" {
			return nil
		}
		if seen[page.Cursor] {
			return fmt.Errorf("%w: %s", ErrCursorLoop, page.Cursor)
		}
		seen[page.Cursor] = true
		q = q.WithCursor(page.Cursor)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func allPositive(ids []int) bool {
	for _, id := range ids {
		if id <= 0 {
			return false
		}
	}
	return true
}
