package models

import "time"

// ==============================================
// DATABASE MODELS (Maps to DB tables)
// ==============================================

// TransferRecord is one archived token transfer of an account
type TransferRecord struct {
	ID              int64     `db:"id"`
	Account         string    `db:"account"`          // account the history was fetched for
	TransferType    string    `db:"transfer_type"`    // 'klay', 'ft', 'nft', 'mt'
	TransactionHash string    `db:"transaction_hash"` // 0x-prefixed
	FromAddress     string    `db:"from_address"`
	ToAddress       string    `db:"to_address"`
	Value           string    `db:"value"`    // hex quantity, empty for nft
	TokenID         string    `db:"token_id"` // hex id, empty unless nft/mt
	ContractAddress *string   `db:"contract_address"`
	BlockNumber     int64     `db:"block_number"`
	Timestamp       time.Time `db:"block_time"`
	ArchivedAt      time.Time `db:"archived_at"`
}

// Transfer kinds as reported by the history service
const (
	TransferTypeKLAY = "klay"
	TransferTypeFT   = "ft"
	TransferTypeNFT  = "nft"
	TransferTypeMT   = "mt"
)

// IsToken checks if the transfer moved a token rather than the native coin
func (r *TransferRecord) IsToken() bool {
	return r.TransferType != TransferTypeKLAY
}
