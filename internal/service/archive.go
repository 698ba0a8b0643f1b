package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/metrics"
	"github.com/Brownie44l1/kasgo/internal/models"
	"go.uber.org/zap"
)

// ==============================================
// REPOSITORY INTERFACE (for testing)
// ==============================================

// TransferStore persists archived transfers. Inserting a transfer already
// stored is a no-op.
type TransferStore interface {
	InsertTransfers(ctx context.Context, records []models.TransferRecord) (int64, error)
}

// ==============================================
// TRANSFER ARCHIVE
// ==============================================

var ErrNoStore = errors.New("transfer archive has no store")

// ArchiveStats summarizes one archive run.
type ArchiveStats struct {
	Account  string
	Pages    int
	Fetched  int
	Inserted int64
}

// Archiver copies an account's transfer history into a TransferStore.
type Archiver struct {
	history *HistoryService
	store   TransferStore
	log     *zap.Logger
}

// NewArchiver creates an archiver reading from history and writing to store.
func NewArchiver(history *HistoryService, store TransferStore, log *zap.Logger) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{history: history, store: store, log: log}
}

// ArchiveAccountTransfers walks the account's history and stores every page.
// query accepts the same keys as GetTransferHistoryByAccount. Pages stored
// before a failure stay stored.
func (a *Archiver) ArchiveAccountTransfers(ctx context.Context, address string, query dto.Object) (*ArchiveStats, error) {
	if a == nil || a.history.ready() != nil {
		return nil, models.ErrNotInitialized
	}
	if a.store == nil {
		return nil, ErrNoStore
	}

	startTime := time.Now()
	stats := &ArchiveStats{Account: address}

	err := a.history.WalkTransferHistoryByAccount(ctx, address, query, func(page *dto.TransferHistoryPage) error {
		stats.Pages++
		stats.Fetched += len(page.Items)
		if len(page.Items) == 0 {
			return nil
		}

		records := make([]models.TransferRecord, 0, len(page.Items))
		for _, item := range page.Items {
			records = append(records, ToTransferRecord(address, item))
		}

		n, err := a.store.InsertTransfers(ctx, records)
		if err != nil {
			return fmt.Errorf("store page %d: %w", stats.Pages, err)
		}
		stats.Inserted += n
		metrics.ObserveArchived(n)
		return nil
	})
	if err != nil {
		a.log.Error("archive failed",
			zap.String("account", address),
			zap.Int("pages", stats.Pages),
			zap.Error(err),
		)
		return stats, err
	}

	a.log.Info("archive completed",
		zap.String("account", address),
		zap.Int("pages", stats.Pages),
		zap.Int("fetched", stats.Fetched),
		zap.Int64("inserted", stats.Inserted),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return stats, nil
}

// ToTransferRecord maps one history item to its archive row.
func ToTransferRecord(account string, item dto.TransferItem) models.TransferRecord {
	r := models.TransferRecord{
		Account:         account,
		TransferType:    item.TransferType,
		TransactionHash: item.Transaction.TransactionHash,
		FromAddress:     item.From,
		ToAddress:       item.To,
		Value:           item.Value,
		TokenID:         item.TokenID,
		BlockNumber:     item.Transaction.BlockNumber,
		Timestamp:       time.Unix(item.Transaction.Timestamp, 0).UTC(),
	}
	if r.TransferType == models.TransferTypeKLAY && r.Value == "" {
		r.Value = item.Transaction.Value
	}
	if item.Contract != nil && item.Contract.Address != "" {
		addr := item.Contract.Address
		r.ContractAddress = &addr
	}
	return r
}
