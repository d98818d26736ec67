package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) List(ctx context.Context, walletAddress string) ([]*model.Transaction, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc := new(MockTransactionService)
		handler := NewTransactionHandler(svc)

		body, _ := json.Marshal(createTransactionRequest{
			DeductionID:   3,
			WalletAddress: "0xABC",
			Amount:        "10",
			Status:        "success",
			TxHash:        "0xfeed",
		})

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.TransactionCreateRequest) bool {
			return p.DeductionID == 3 && p.TxHash == "0xfeed"
		})).Return(&model.Transaction{ID: 11, DeductionID: 3, Status: "success"}, nil)

		ctx := setupTestContext("POST", "/api/transactions", body)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.Transaction
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, int64(11), response.ID)
		svc.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(MockTransactionService)
		handler := NewTransactionHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &model.ValidationError{Field: "deduction_id", Reason: "is required"})

		body, _ := json.Marshal(createTransactionRequest{WalletAddress: "0xABC", Amount: "1", Status: "success"})
		ctx := setupTestContext("POST", "/api/transactions", body)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Contains(t, response["error"], "deduction_id")
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("returns service order untouched", func(t *testing.T) {
		svc := new(MockTransactionService)
		handler := NewTransactionHandler(svc)

		newer := &model.Transaction{ID: 2, Date: time.Now()}
		older := &model.Transaction{ID: 1, Date: time.Now().Add(-time.Hour)}
		svc.On("List", mock.Anything, "0xabc").Return([]*model.Transaction{newer, older}, nil)

		ctx := setupTestContext("GET", "/api/transactions/0xabc", nil)
		ctx.SetUserValue("walletAddress", "0xabc")
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response []*model.Transaction
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		require.Len(t, response, 2)
		assert.Equal(t, int64(2), response[0].ID)
	})

	t.Run("missing address", func(t *testing.T) {
		svc := new(MockTransactionService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/transactions/", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}
