package repository

import (
	"context"
	"fmt"

	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// transferSchema creates the archive table. A transfer is identified by the
// account it was fetched for plus its on-chain coordinates.
const transferSchema = `
CREATE TABLE IF NOT EXISTS transfers (
	id               BIGSERIAL PRIMARY KEY,
	account          TEXT        NOT NULL,
	transfer_type    TEXT        NOT NULL,
	transaction_hash TEXT        NOT NULL,
	from_address     TEXT        NOT NULL,
	to_address       TEXT        NOT NULL,
	value            TEXT        NOT NULL DEFAULT '',
	token_id         TEXT        NOT NULL DEFAULT '',
	contract_address TEXT,
	block_number     BIGINT      NOT NULL,
	block_time       TIMESTAMPTZ NOT NULL,
	archived_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS transfers_identity_idx ON transfers (
	account, transaction_hash, transfer_type, from_address, to_address, token_id, COALESCE(contract_address, '')
);
CREATE INDEX IF NOT EXISTS transfers_account_block_idx ON transfers (account, block_number DESC);
`

const insertTransfer = `
INSERT INTO transfers (
	account, transfer_type, transaction_hash, from_address, to_address,
	value, token_id, contract_address, block_number, block_time
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT DO NOTHING`

type TransferRepository struct {
	db *pgxpool.Pool
}

func NewTransferRepository(db *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{db: db}
}

// EnsureSchema creates the archive table and its indexes when missing.
func (r *TransferRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, transferSchema); err != nil {
		return fmt.Errorf("failed to create transfer schema: %w", err)
	}
	return nil
}

// InsertTransfers stores records in one transaction and returns how many were
// new. Records already archived are skipped.
func (r *TransferRepository) InsertTransfers(ctx context.Context, records []models.TransferRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertTransfer,
			rec.Account,
			rec.TransferType,
			rec.TransactionHash,
			rec.FromAddress,
			rec.ToAddress,
			rec.Value,
			rec.TokenID,
			rec.ContractAddress,
			rec.BlockNumber,
			rec.Timestamp,
		)
	}

	results := tx.SendBatch(ctx, batch)
	var inserted int64
	for i := range records {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert transfer %s: %w", records[i].TransactionHash, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// ListTransfers returns an account's archived transfers, newest block first.
func (r *TransferRepository) ListTransfers(ctx context.Context, account string, limit int) ([]models.TransferRecord, error) {
	query := `
		SELECT id, account, transfer_type, transaction_hash, from_address, to_address,
		       value, token_id, contract_address, block_number, block_time, archived_at
		FROM transfers
		WHERE account = $1
		ORDER BY block_number DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var out []models.TransferRecord
	for rows.Next() {
		var rec models.TransferRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Account,
			&rec.TransferType,
			&rec.TransactionHash,
			&rec.FromAddress,
			&rec.ToAddress,
			&rec.Value,
			&rec.TokenID,
			&rec.ContractAddress,
			&rec.BlockNumber,
			&rec.Timestamp,
			&rec.ArchivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return out, nil
}

// CountTransfers returns how many transfers are archived for account.
func (r *TransferRepository) CountTransfers(ctx context.Context, account string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM transfers WHERE account = $1`, account).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return n, nil
}
