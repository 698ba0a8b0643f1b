package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ==============================================
// SERVICE INTERFACES (for testing)
// ==============================================

type KIP7Service interface {
	GetContractList(ctx context.Context, query dto.Object, opts ...service.CallOption) (*service.Future[*dto.ContractList], error)
	GetContract(ctx context.Context, addressOrAlias string, opts ...service.CallOption) (*service.Future[*dto.Contract], error)
	BalanceOf(ctx context.Context, addressOrAlias, owner string, opts ...service.CallOption) (*service.Future[*dto.TokenBalance], error)
}

type HistoryService interface {
	GetTransferHistoryByAccount(ctx context.Context, address string, query dto.Object, opts ...service.CallOption) (*service.Future[*dto.TransferHistoryPage], error)
	GetTransferHistoryByTxHash(ctx context.Context, txHash string, opts ...service.CallOption) (*service.Future[*dto.TransferHistoryPage], error)
}

type NodeService interface {
	CallNodeAPI(ctx context.Context, method string, params []any, opts ...service.CallOption) (*service.Future[*dto.RPCResponse], error)
}

type Archiver interface {
	ArchiveAccountTransfers(ctx context.Context, address string, query dto.Object) (*service.ArchiveStats, error)
}

type ArchiveReader interface {
	ListTransfers(ctx context.Context, account string, limit int) ([]models.TransferRecord, error)
	CountTransfers(ctx context.Context, account string) (int64, error)
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

// GatewayDeps wires the gateway. Archiver and ArchiveReader are nil when no
// database is configured; the archive routes then answer 503.
type GatewayDeps struct {
	KIP7          KIP7Service
	History       HistoryService
	Node          NodeService
	Archiver      Archiver
	ArchiveReader ArchiveReader
	Logger        *zap.Logger
}

type GatewayHandler struct {
	kip7     KIP7Service
	history  HistoryService
	node     NodeService
	archiver Archiver
	archive  ArchiveReader
	log      *zap.Logger
}

func NewGatewayHandler(deps GatewayDeps) *GatewayHandler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &GatewayHandler{
		kip7:     deps.KIP7,
		history:  deps.History,
		node:     deps.Node,
		archiver: deps.Archiver,
		archive:  deps.ArchiveReader,
		log:      log,
	}
}

const defaultArchiveLimit = 50

var errArchiveDisabled = errors.New("transfer archive is not configured")

// ==============================================
// ENDPOINTS
// ==============================================

// ListKIP7Contracts handles GET /api/v1/kip7/contracts
func (h *GatewayHandler) ListKIP7Contracts(c *gin.Context) {
	fut, err := h.kip7.GetContractList(c.Request.Context(), queryObject(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondFuture(c, fut)
}

// GetKIP7Contract handles GET /api/v1/kip7/contracts/:contract
func (h *GatewayHandler) GetKIP7Contract(c *gin.Context) {
	fut, err := h.kip7.GetContract(c.Request.Context(), c.Param("contract"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondFuture(c, fut)
}

// GetKIP7Balance handles GET /api/v1/kip7/contracts/:contract/balance/:owner
func (h *GatewayHandler) GetKIP7Balance(c *gin.Context) {
	fut, err := h.kip7.BalanceOf(c.Request.Context(), c.Param("contract"), c.Param("owner"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondFuture(c, fut)
}

// GetAccountHistory handles GET /api/v1/history/accounts/:address
func (h *GatewayHandler) GetAccountHistory(c *gin.Context) {
	fut, err := h.history.GetTransferHistoryByAccount(c.Request.Context(), c.Param("address"), queryObject(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondFuture(c, fut)
}

// GetTxHistory handles GET /api/v1/history/tx/:hash
func (h *GatewayHandler) GetTxHistory(c *gin.Context) {
	fut, err := h.history.GetTransferHistoryByTxHash(c.Request.Context(), c.Param("hash"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondFuture(c, fut)
}

// NodeRPC handles POST /api/v1/node/rpc. The JSON-RPC envelope is relayed
// as is, error member included.
func (h *GatewayHandler) NodeRPC(c *gin.Context) {
	var req dto.NodeCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var opts []service.CallOption
	if req.ID != nil {
		opts = append(opts, service.WithRPCID(*req.ID))
	}

	fut, err := h.node.CallNodeAPI(c.Request.Context(), req.Method, req.Params, opts...)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	res, err := fut.Await(c.Request.Context())
	if err != nil {
		respondTransportError(c, err)
		return
	}
	if res.Kind == service.ResultRemoteError && res.Data != nil {
		c.JSON(http.StatusOK, res.Data)
		return
	}
	respondResult(c, res)
}

// ArchiveAccount handles POST /api/v1/history/accounts/:address/archive
func (h *GatewayHandler) ArchiveAccount(c *gin.Context) {
	if h.archiver == nil {
		respondError(c, http.StatusServiceUnavailable, "Archive unavailable", errArchiveDisabled)
		return
	}

	address := c.Param("address")
	stats, err := h.archiver.ArchiveAccountTransfers(c.Request.Context(), address, queryObject(c))
	if err != nil {
		h.log.Warn("archive request failed", zap.String("account", address), zap.Error(err))
		var remote *models.RemoteError
		switch {
		case errors.As(err, &remote):
			respondRemoteError(c, remote)
		case stats == nil || models.IsValidationError(err):
			respondServiceError(c, err)
		default:
			// Pages stored before the failure stay stored
			status := http.StatusInternalServerError
			if models.IsTransportError(err) {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{
				"error":   "Archive incomplete",
				"message": err.Error(),
				"stats":   archiveResponse(stats),
			})
		}
		return
	}

	resp := gin.H{"stats": archiveResponse(stats)}
	if h.archive != nil {
		if total, err := h.archive.CountTransfers(c.Request.Context(), address); err == nil {
			resp["archived_total"] = total
		}
	}
	respondSuccess(c, http.StatusOK, resp)
}

// ListArchived handles GET /api/v1/history/accounts/:address/archive
func (h *GatewayHandler) ListArchived(c *gin.Context) {
	if h.archive == nil {
		respondError(c, http.StatusServiceUnavailable, "Archive unavailable", errArchiveDisabled)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultArchiveLimit)))
	if err != nil || limit <= 0 || limit > dto.MaxQuerySize {
		respondError(c, http.StatusBadRequest, "Invalid limit", errors.New("limit must be between 1 and 1000"))
		return
	}

	items, err := h.archive.ListTransfers(c.Request.Context(), c.Param("address"), limit)
	if err != nil {
		h.log.Error("archive read failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	if items == nil {
		items = []models.TransferRecord{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"items": items})
}

// ==============================================
// ROUTE REGISTRATION
// ==============================================

// RegisterRoutes mounts the /api/v1 routes. middleware runs before every route.
func (h *GatewayHandler) RegisterRoutes(router *gin.Engine, middleware ...gin.HandlerFunc) {
	v1 := router.Group("/api/v1", middleware...)
	{
		v1.GET("/kip7/contracts", h.ListKIP7Contracts)
		v1.GET("/kip7/contracts/:contract", h.GetKIP7Contract)
		v1.GET("/kip7/contracts/:contract/balance/:owner", h.GetKIP7Balance)
		v1.GET("/history/accounts/:address", h.GetAccountHistory)
		v1.GET("/history/tx/:hash", h.GetTxHistory)
		v1.POST("/node/rpc", RequireScope(ScopeNodeRPC), h.NodeRPC)
		v1.POST("/history/accounts/:address/archive", RequireScope(ScopeArchive), h.ArchiveAccount)
		v1.GET("/history/accounts/:address/archive", h.ListArchived)
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// queryObject turns the URL query into plain query options. Numeric sizes and
// boolean flags are converted; everything else stays a string so the option
// parsers can reject it.
func queryObject(c *gin.Context) dto.Object {
	values := c.Request.URL.Query()
	if len(values) == 0 {
		return nil
	}
	out := make(dto.Object, len(values))
	for key, vs := range values {
		v := vs[0]
		switch key {
		case dto.OptSize:
			if n, err := strconv.Atoi(v); err == nil {
				out[key] = n
				continue
			}
		case dto.OptExcludeZeroKlay:
			if b, err := strconv.ParseBool(v); err == nil {
				out[key] = b
				continue
			}
		}
		out[key] = v
	}
	return out
}

// respondFuture waits for the operation and writes its outcome.
func respondFuture[T any](c *gin.Context, fut *service.Future[T]) {
	res, err := fut.Await(c.Request.Context())
	if err != nil {
		respondTransportError(c, err)
		return
	}
	respondResult(c, res)
}

func respondResult[T any](c *gin.Context, res service.Result[T]) {
	if res.Kind == service.ResultRemoteError {
		respondRemoteError(c, res.Remote)
		return
	}
	respondSuccess(c, http.StatusOK, res.Data)
}

// respondRemoteError relays the upstream rejection with its status and payload.
func respondRemoteError(c *gin.Context, remote *models.RemoteError) {
	status := remote.StatusCode
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	c.JSON(status, dto.ErrorResponse{
		Error:   "Upstream rejected request",
		Message: remote.Message,
		Code:    remote.Code,
	})
}

func respondTransportError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		respondError(c, http.StatusGatewayTimeout, "Upstream timeout", err)
		return
	}
	respondError(c, http.StatusBadGateway, "Upstream unavailable", err)
}

// respondSuccess sends a successful JSON response
func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// respondError sends an error JSON response
func respondError(c *gin.Context, statusCode int, message string, err error) {
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// respondServiceError maps service errors to appropriate HTTP status codes and responses
func respondServiceError(c *gin.Context, err error) {
	statusCode, message := mapServiceError(err)
	resp := dto.ErrorResponse{Error: message, Message: err.Error()}
	if models.IsValidationError(err) {
		resp.Field = validationField(err)
	}
	c.JSON(statusCode, resp)
}

func archiveResponse(stats *service.ArchiveStats) dto.ArchiveResponse {
	return dto.ArchiveResponse{
		Account:  stats.Account,
		Pages:    stats.Pages,
		Fetched:  stats.Fetched,
		Inserted: stats.Inserted,
	}
}

// mapServiceError maps service errors to HTTP status codes and user-friendly messages
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidQueryOptions):
		return http.StatusBadRequest, "Unsupported query option"
	case models.IsValidationError(err):
		return http.StatusBadRequest, "Invalid " + validationField(err)
	case models.IsPreconditionError(err):
		return http.StatusServiceUnavailable, "Service not initialized"
	case errors.Is(err, service.ErrNoStore):
		return http.StatusServiceUnavailable, "Archive unavailable"
	case models.IsTransportError(err):
		return http.StatusBadGateway, "Upstream unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Upstream timeout"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func validationField(err error) string {
	var verr *models.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		return strings.TrimSpace(verr.Field)
	}
	return "request"
}
