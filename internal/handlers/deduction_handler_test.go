package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/services"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockDeductionService struct {
	mock.Mock
}

func (m *MockDeductionService) List(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledDeduction), args.Error(1)
}

func (m *MockDeductionService) Create(ctx context.Context, p model.DeductionCreateRequest) (*model.ScheduledDeduction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledDeduction), args.Error(1)
}

func (m *MockDeductionService) Update(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledDeduction), args.Error(1)
}

func (m *MockDeductionService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestDeductionHandler_CreateDeduction(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		reqBody := createDeductionRequest{
			UserID:        1,
			WalletAddress: "0xABC",
			Amount:        "10",
			Interval:      "monthly",
			Duration:      "3",
			StartDate:     time.Now().Add(24 * time.Hour),
		}
		bodyBytes, _ := json.Marshal(reqBody)

		expected := &model.ScheduledDeduction{
			ID:            7,
			WalletAddress: "0xABC",
			Amount:        "10",
			Interval:      model.IntervalMonthly,
			Status:        model.DeductionStatusPending,
		}

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.DeductionCreateRequest) bool {
			return p.WalletAddress == "0xABC" && p.Amount == "10" && p.Interval == model.IntervalMonthly
		})).Return(expected, nil)

		ctx := setupTestContext("POST", "/api/deductions", bodyBytes)
		handler.CreateDeduction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.ScheduledDeduction
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, int64(7), response.ID)
		assert.Equal(t, model.DeductionStatusPending, response.Status)

		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		ctx := setupTestContext("POST", "/api/deductions", []byte("not json"))
		handler.CreateDeduction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Contains(t, response["error"], "invalid JSON")
	})

	t.Run("validation error names the field", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &model.ValidationError{Field: "amount", Reason: "is required"})

		body, _ := json.Marshal(createDeductionRequest{WalletAddress: "0xABC", Interval: "monthly"})
		ctx := setupTestContext("POST", "/api/deductions", body)
		handler.CreateDeduction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Contains(t, response["error"], "amount")
	})

	t.Run("unexpected error collapses to generic 500", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("disk on fire"))

		body, _ := json.Marshal(createDeductionRequest{WalletAddress: "0xABC", Amount: "1", Interval: "monthly", Duration: "3"})
		ctx := setupTestContext("POST", "/api/deductions", body)
		handler.CreateDeduction(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "internal server error", response["error"])
		assert.NotContains(t, response["error"], "disk")
	})
}

func TestDeductionHandler_ListDeductions(t *testing.T) {
	t.Run("returns empty array rather than null", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("List", mock.Anything, "0xabc").Return([]*model.ScheduledDeduction(nil), nil)

		ctx := setupTestContext("GET", "/api/deductions/0xabc", nil)
		ctx.SetUserValue("walletAddress", "0xabc")
		handler.ListDeductions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, "[]", string(ctx.Response.Body()))
	})

	t.Run("missing address", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		ctx := setupTestContext("GET", "/api/deductions/", nil)
		handler.ListDeductions(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestDeductionHandler_UpdateDeduction(t *testing.T) {
	t.Run("strict decode rejects unknown fields", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		ctx := setupTestContext("PATCH", "/api/deductions/1", []byte(`{"owner":"mallory"}`))
		ctx.SetUserValue("id", "1")
		handler.UpdateDeduction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Update")
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		ctx := setupTestContext("PATCH", "/api/deductions/abc", []byte(`{"status":"cancelled"}`))
		ctx.SetUserValue("id", "abc")
		handler.UpdateDeduction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("Update", mock.Anything, int64(9999), mock.Anything).Return(nil, services.ErrNotFound)

		ctx := setupTestContext("PATCH", "/api/deductions/9999", []byte(`{"status":"cancelled"}`))
		ctx.SetUserValue("id", "9999")
		handler.UpdateDeduction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("successful patch returns merged record", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		cancelled := model.DeductionStatusCancelled
		svc.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(p model.DeductionPatch) bool {
			return p.Status != nil && *p.Status == cancelled
		})).Return(&model.ScheduledDeduction{ID: 3, Status: cancelled}, nil)

		ctx := setupTestContext("PATCH", "/api/deductions/3", []byte(`{"status":"cancelled"}`))
		ctx.SetUserValue("id", "3")
		handler.UpdateDeduction(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response model.ScheduledDeduction
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, cancelled, response.Status)
	})
}

func TestDeductionHandler_DeleteDeduction(t *testing.T) {
	t.Run("successful delete is empty 204", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("Delete", mock.Anything, int64(5)).Return(nil)

		ctx := setupTestContext("DELETE", "/api/deductions/5", nil)
		ctx.SetUserValue("id", "5")
		handler.DeleteDeduction(ctx)

		assert.Equal(t, 204, ctx.Response.StatusCode())
		assert.Empty(t, ctx.Response.Body())
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		svc := new(MockDeductionService)
		handler := NewDeductionHandler(svc)

		svc.On("Delete", mock.Anything, int64(9999)).Return(services.ErrNotFound)

		ctx := setupTestContext("DELETE", "/api/deductions/9999", nil)
		ctx.SetUserValue("id", "9999")
		handler.DeleteDeduction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}
