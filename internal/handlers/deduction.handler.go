package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/mkarimz/deduction-gateway/internal/model"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
)

type DeductionService interface {
	List(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error)
	Create(ctx context.Context, p model.DeductionCreateRequest) (*model.ScheduledDeduction, error)
	Update(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error)
	Delete(ctx context.Context, id int64) error
}

type DeductionHandler struct {
	svc DeductionService
}

func RegisterDeductionRoutes(e *router.Group, h *DeductionHandler) {
	e.GET("/deductions/{walletAddress}", h.ListDeductions)
	e.POST("/deductions", h.CreateDeduction)
	e.PATCH("/deductions/{id}", h.UpdateDeduction)
	e.DELETE("/deductions/{id}", h.DeleteDeduction)
}

func NewDeductionHandler(svc DeductionService) *DeductionHandler {
	return &DeductionHandler{
		svc: svc,
	}
}

type createDeductionRequest struct {
	UserID        int64     `json:"user_id"`
	WalletAddress string    `json:"wallet_address"`
	Amount        string    `json:"amount"`
	TokenSymbol   string    `json:"token_symbol"`
	TokenAddress  string    `json:"token_address"`
	Interval      string    `json:"interval"`
	Duration      string    `json:"duration"`
	StartDate     time.Time `json:"start_date"`
	Status        string    `json:"status"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *DeductionHandler) ListDeductions(ctx *xhttp.RequestCtx) {
	address := pathParam(ctx, "walletAddress")
	if address == "" {
		writeError(ctx, 400, "wallet address is required")
		return
	}

	items, err := h.svc.List(ctx, address)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if items == nil {
		items = []*model.ScheduledDeduction{}
	}
	writeJSON(ctx, 200, items)
}

func (h *DeductionHandler) CreateDeduction(ctx *xhttp.RequestCtx) {
	var req createDeductionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.DeductionCreateRequest{
		UserID:        req.UserID,
		WalletAddress: req.WalletAddress,
		Amount:        req.Amount,
		TokenSymbol:   req.TokenSymbol,
		TokenAddress:  req.TokenAddress,
		Interval:      model.Interval(req.Interval),
		Duration:      req.Duration,
		StartDate:     req.StartDate,
		Status:        model.DeductionStatus(req.Status),
	}
	d, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, d)
}

func (h *DeductionHandler) UpdateDeduction(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid deduction id")
		return
	}

	var patch model.DeductionPatch
	if err := readJSONStrict(ctx, &patch); err != nil {
		writeError(ctx, 400, "invalid patch: "+err.Error())
		return
	}

	d, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, d)
}

func (h *DeductionHandler) DeleteDeduction(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid deduction id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
