package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/mkarimz/deduction-gateway/internal/model"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
)

type TransactionService interface {
	List(ctx context.Context, walletAddress string) ([]*model.Transaction, error)
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
}

type TransactionHandler struct {
	svc TransactionService
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.GET("/transactions/{walletAddress}", h.ListTransactions)
	e.POST("/transactions", h.CreateTransaction)
}

func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{
		svc: svc,
	}
}

type createTransactionRequest struct {
	DeductionID   int64     `json:"deduction_id"`
	WalletAddress string    `json:"wallet_address"`
	Amount        string    `json:"amount"`
	TokenSymbol   string    `json:"token_symbol"`
	TokenAddress  string    `json:"token_address"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	TxHash        string    `json:"tx_hash"`
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
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
		items = []*model.Transaction{}
	}
	writeJSON(ctx, 200, items)
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	var req createTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.TransactionCreateRequest{
		DeductionID:   req.DeductionID,
		WalletAddress: req.WalletAddress,
		Amount:        req.Amount,
		TokenSymbol:   req.TokenSymbol,
		TokenAddress:  req.TokenAddress,
		Status:        req.Status,
		Date:          req.Date,
		TxHash:        req.TxHash,
	}
	txn, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, txn)
}
