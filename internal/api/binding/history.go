package binding

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

// historyQueryNames maps option keys to the token history service's query names.
var historyQueryNames = map[string]string{
	dto.OptCAFilter:        "ca-filter",
	dto.OptExcludeZeroKlay: "exclude-zero-klay",
}

// HistoryAPI binds the token transfer history endpoints.
type HistoryAPI struct {
	client
}

// NewHistoryAPI creates the token history binding over t.
func NewHistoryAPI(t transport.Transport) *HistoryAPI {
	return &HistoryAPI{client{transport: t}}
}

// ListTransfers issues GET /v2/transfer for the given preset ids.
func (a *HistoryAPI) ListTransfers(ctx context.Context, chainID string, presets []int, opts dto.QueryOptions) (*dto.TransferHistoryPage, *transport.Response, error) {
	call := a.call("history.listTransfers", http.MethodGet, "/v2/transfer", chainID)
	call.QueryParams = queryParams(opts, historyQueryNames)
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = strconv.Itoa(p)
	}
	call.QueryParams["presets"] = strings.Join(ids, ",")
	return invoke[dto.TransferHistoryPage](ctx, a.client, call)
}

// ListTransfersByTxHash issues GET /v2/transfer/tx/{transaction-hash}
func (a *HistoryAPI) ListTransfersByTxHash(ctx context.Context, chainID, txHash string) (*dto.TransferHistoryPage, *transport.Response, error) {
	call := a.call("history.listTransfersByTxHash", http.MethodGet, "/v2/transfer/tx/{transaction-hash}", chainID)
	call.PathParams["transaction-hash"] = txHash
	return invoke[dto.TransferHistoryPage](ctx, a.client, call)
}

// ListTransfersByAccount issues GET /v2/transfer/account/{address}
func (a *HistoryAPI) ListTransfersByAccount(ctx context.Context, chainID, address string, opts dto.QueryOptions) (*dto.TransferHistoryPage, *transport.Response, error) {
	call := a.call("history.listTransfersByAccount", http.MethodGet, "/v2/transfer/account/{address}", chainID)
	call.PathParams["address"] = address
	call.QueryParams = queryParams(opts, historyQueryNames)
	return invoke[dto.TransferHistoryPage](ctx, a.client, call)
}
