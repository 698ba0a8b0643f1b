package dto

// ==============================================
// GATEWAY RESPONSE DTOs
// ==============================================

// ErrorResponse - Standard gateway error format. Code carries the remote
// service's code when the failure came from upstream.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// ArchiveResponse - result of an account history archive run
type ArchiveResponse struct {
	Account  string `json:"account"`
	Pages    int    `json:"pages"`
	Fetched  int    `json:"fetched"`
	Inserted int64  `json:"inserted"`
}

// ==============================================
// GATEWAY REQUEST DTOs
// ==============================================

// NodeCallRequest - body of POST /api/v1/node/rpc
type NodeCallRequest struct {
	Method string `json:"method" binding:"required"`
	Params []any  `json:"params"`
	ID     *int   `json:"id,omitempty"`
}
