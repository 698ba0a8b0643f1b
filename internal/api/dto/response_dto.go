package dto

import "encoding/json"

// ==============================================
// CONTRACT RESPONSE DTOs
// ==============================================

// ContractOptions echoes the fee payer settings of a contract
type ContractOptions struct {
	EnableGlobalFeePayer bool          `json:"enableGlobalFeePayer"`
	UserFeePayer         *UserFeePayer `json:"userFeePayer,omitempty"`
}

// UserFeePayer is the account paying fees for a contract
type UserFeePayer struct {
	KRN     string `json:"krn"`
	Address string `json:"address"`
}

// Contract describes a deployed token contract (KIP-7 or KIP-17)
type Contract struct {
	Address     string           `json:"address"`
	Alias       string           `json:"alias"`
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Decimals    int              `json:"decimals,omitempty"`    // KIP-7 only
	TotalSupply string           `json:"totalSupply,omitempty"` // hex
	Status      string           `json:"status"`
	Options     *ContractOptions `json:"options,omitempty"`
}

// ContractList is one page of contracts
type ContractList struct {
	Items  []Contract `json:"items"`
	Cursor string     `json:"cursor"`
}

// TransactionResult is returned by every state-changing contract call
type TransactionResult struct {
	Status          string           `json:"status"` // 'Submitted'
	TransactionHash string           `json:"transactionHash"`
	Options         *ContractOptions `json:"options,omitempty"`
}

// TokenBalance answers balance and allowance queries
type TokenBalance struct {
	Balance  string `json:"balance"` // hex
	Decimals int    `json:"decimals"`
}

// NFT is one KIP-17 token
type NFT struct {
	Owner           string `json:"owner"`
	PreviousOwner   string `json:"previousOwner"`
	TokenID         string `json:"tokenId"`
	TokenURI        string `json:"tokenUri"`
	TransactionHash string `json:"transactionHash"`
	CreatedAt       int64  `json:"createdAt"`
	UpdatedAt       int64  `json:"updatedAt"`
}

// NFTList is one page of KIP-17 tokens
type NFTList struct {
	Items  []NFT  `json:"items"`
	Cursor string `json:"cursor"`
}

// ==============================================
// WALLET RESPONSE DTOs
// ==============================================

// Account is a key-managed account of the wallet service
type Account struct {
	Address   string `json:"address"`
	ChainID   int    `json:"chainId"`
	CreatedAt int64  `json:"createdAt"`
	KeyID     string `json:"keyId"`
	KRN       string `json:"krn"`
	PublicKey string `json:"publicKey"`
	UpdatedAt int64  `json:"updatedAt"`
}

// AccountList is one page of accounts
type AccountList struct {
	Items  []Account `json:"items"`
	Cursor string    `json:"cursor"`
}

// AccountStatus answers delete, enable and disable
type AccountStatus struct {
	Status  string `json:"status,omitempty"`
	Address string `json:"address,omitempty"`
	KRN     string `json:"krn,omitempty"`
}

// WalletTransaction is a transaction built (and possibly submitted) by the wallet service
type WalletTransaction struct {
	From            string `json:"from"`
	To              string `json:"to,omitempty"`
	Value           string `json:"value,omitempty"`
	GasLimit        int64  `json:"gas"`
	GasPrice        string `json:"gasPrice"`
	Input           string `json:"input,omitempty"`
	Nonce           int64  `json:"nonce"`
	RLP             string `json:"rlp"`
	Status          string `json:"status"`
	TransactionHash string `json:"transactionHash"`
	TypeInt         int    `json:"typeInt"`
}

// TransactionReceipt is the mined result of a transaction
type TransactionReceipt struct {
	BlockHash       string `json:"blockHash"`
	BlockNumber     string `json:"blockNumber"`
	From            string `json:"from"`
	To              string `json:"to,omitempty"`
	GasUsed         string `json:"gasUsed"`
	Status          string `json:"status"` // 0x1 success
	TransactionHash string `json:"transactionHash"`
	Value           string `json:"value,omitempty"`
}

// ==============================================
// NODE RESPONSE DTOs
// ==============================================

// RPCError is the error member of a JSON-RPC response
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RPCResponse is a JSON-RPC 2.0 response relayed by the node proxy
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Into decodes the result member into v.
func (r *RPCResponse) Into(v any) error {
	return json.Unmarshal(r.Result, v)
}

// ==============================================
// TOKEN HISTORY RESPONSE DTOs
// ==============================================

// TransferContract identifies the token contract of a transfer
type TransferContract struct {
	Address  string `json:"address"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals,omitempty"`
}

// TransferTransaction is the transaction a transfer happened in
type TransferTransaction struct {
	BlockNumber     int64  `json:"blockNumber"`
	Timestamp       int64  `json:"timestamp"`
	TransactionHash string `json:"transactionHash"`
	From            string `json:"from"`
	To              string `json:"to,omitempty"`
	FeePayer        string `json:"feePayer,omitempty"`
	Fee             string `json:"fee,omitempty"`
	Value           string `json:"value,omitempty"`
	TypeInt         int    `json:"typeInt"`
}

// TransferItem is one entry of the transfer history
type TransferItem struct {
	TransferType string              `json:"transferType"` // 'klay', 'ft', 'nft', 'mt'
	From         string              `json:"from"`
	To           string              `json:"to"`
	Value        string              `json:"value,omitempty"`   // hex, empty for nft
	TokenID      string              `json:"tokenId,omitempty"` // hex, nft/mt only
	Contract     *TransferContract   `json:"contract,omitempty"`
	Transaction  TransferTransaction `json:"transaction"`
}

// TransferHistoryPage is one page of transfers
type TransferHistoryPage struct {
	Items  []TransferItem `json:"items"`
	Cursor string         `json:"cursor"`
}
