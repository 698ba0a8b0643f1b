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
// NODE SERVICE
// ==============================================

// NodeService proxies JSON-RPC calls to a chain node.
type NodeService struct {
	api     *binding.NodeAPI
	chainID string
	log     *zap.Logger
}

// NewNode binds a node service to a session.
func NewNode(s Session) (*NodeService, error) {
	if err := s.validate("node"); err != nil {
		return nil, err
	}
	return &NodeService{
		api:     binding.NewNodeAPI(s.Transport),
		chainID: s.ChainID,
		log:     s.logger(),
	}, nil
}

func (s *NodeService) ready() error {
	if s == nil || s.api == nil {
		return models.ErrNotInitialized
	}
	return nil
}

// CallNodeAPI sends one JSON-RPC 2.0 request. A nil params list is sent as [].
// An RPC error member resolves as ResultRemoteError with the envelope in Data.
// Accepts WithRPCID.
func (s *NodeService) CallNodeAPI(ctx context.Context, method string, params []any, opts ...CallOption) (*Future[*dto.RPCResponse], error) {
	const op = "node.callNodeAPI"
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := args(op).nonEmpty("method", method).done(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(op, opts, optRPCID)
	if err != nil {
		return nil, err
	}
	if err := args(op).intRange("rpcId", o.rpcID, 0, 1<<53).done(); err != nil {
		return nil, err
	}

	if params == nil {
		params = []any{}
	}
	req, err := dto.NodeRPCSchema.Construct(dto.Object{
		"jsonrpc": dto.JSONRPCVersion,
		"method":  method,
		"params":  params,
		"id":      o.rpcID,
	})
	if err != nil {
		return nil, err
	}

	return run(ctx, s.log, op, o.callback, func(ctx context.Context) (*dto.RPCResponse, *transport.Response, error) {
		return s.api.Call(ctx, s.chainID, req)
	}), nil
}
