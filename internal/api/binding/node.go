package binding

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

// NodeAPI binds the JSON-RPC node proxy.
type NodeAPI struct {
	client
}

// NewNodeAPI creates the node binding over t.
func NewNodeAPI(t transport.Transport) *NodeAPI {
	return &NodeAPI{client{transport: t}}
}

// Call issues POST /v1/klaytn. An error member in a 2xx answer is returned
// as *models.RemoteError alongside the decoded envelope.
func (a *NodeAPI) Call(ctx context.Context, chainID string, req dto.Record) (*dto.RPCResponse, *transport.Response, error) {
	call := a.call("node.call", http.MethodPost, "/v1/klaytn", chainID)
	call.Body = body(req)

	out, resp, err := invoke[dto.RPCResponse](ctx, a.client, call)
	if err != nil {
		return nil, resp, err
	}
	if out.Error != nil {
		return out, resp, &models.RemoteError{
			Code:       out.Error.Code,
			Message:    out.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}
	return out, resp, nil
}
