package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeduction(wallet string) *model.ScheduledDeduction {
	return &model.ScheduledDeduction{
		UserID:        1,
		WalletAddress: wallet,
		Amount:        "10.5",
		TokenSymbol:   "USDC",
		TokenAddress:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		Interval:      model.IntervalMonthly,
		Duration:      "3",
		StartDate:     time.Now().Add(24 * time.Hour),
	}
}

func TestDeductionRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeductionRepository(db)
	ctx := context.Background()

	t.Run("assigns id and creation timestamp", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.NotZero(t, created.CreatedAt)
	})

	t.Run("defaults status to pending", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
		require.NoError(t, err)
		assert.Equal(t, model.DeductionStatusPending, created.Status)
	})

	t.Run("keeps explicit status", func(t *testing.T) {
		d := newTestDeduction("0xABC123")
		d.Status = model.DeductionStatusApproved
		created, err := repo.Create(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, model.DeductionStatusApproved, created.Status)
	})

	t.Run("ids are strictly increasing", func(t *testing.T) {
		var last int64
		for i := 0; i < 5; i++ {
			created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
			require.NoError(t, err)
			assert.Greater(t, created.ID, last)
			last = created.ID
		}
	})
}

func TestDeductionRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeductionRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestDeduction("0xAbCdEf"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestDeduction("0xABCDEF"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestDeduction("0xOther"))
	require.NoError(t, err)

	t.Run("matches wallet address case-insensitively", func(t *testing.T) {
		for _, q := range []string{"0xabcdef", "0xABCDEF", "0xAbCdEf"} {
			got, err := repo.List(ctx, q)
			require.NoError(t, err)
			assert.Len(t, got, 2, "query %q", q)
		}
	})

	t.Run("unknown wallet yields empty list", func(t *testing.T) {
		got, err := repo.List(ctx, "0xNobody")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDeductionRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeductionRepository(db)
	ctx := context.Background()

	t.Run("patches only the named field", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
		require.NoError(t, err)

		cancelled := model.DeductionStatusCancelled
		updated, err := repo.Update(ctx, created.ID, model.DeductionPatch{Status: &cancelled})
		require.NoError(t, err)

		assert.Equal(t, model.DeductionStatusCancelled, updated.Status)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.WalletAddress, updated.WalletAddress)
		assert.Equal(t, created.Amount, updated.Amount)
		assert.Equal(t, created.Interval, updated.Interval)
		assert.Equal(t, created.Duration, updated.Duration)
		assert.Equal(t, created.TokenSymbol, updated.TokenSymbol)
	})

	t.Run("merges multiple fields", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
		require.NoError(t, err)

		amount := "42"
		interval := model.IntervalWeekly
		updated, err := repo.Update(ctx, created.ID, model.DeductionPatch{Amount: &amount, Interval: &interval})
		require.NoError(t, err)

		assert.Equal(t, "42", updated.Amount)
		assert.Equal(t, model.IntervalWeekly, updated.Interval)
		assert.Equal(t, created.Status, updated.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		amount := "1"
		_, err := repo.Update(ctx, 99999, model.DeductionPatch{Amount: &amount})
		assert.ErrorIs(t, err, ErrDeductionNotFound)
	})
}

func TestDeductionRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeductionRepository(db)
	ctx := context.Background()

	t.Run("removes existing row", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xABC123"))
		require.NoError(t, err)

		existed, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, existed)

		_, err = repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrDeductionNotFound)
	})

	t.Run("nonexistent id reports false and leaves store unchanged", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestDeduction("0xKEEP"))
		require.NoError(t, err)

		existed, err := repo.Delete(ctx, 99999)
		require.NoError(t, err)
		assert.False(t, existed)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		_, err = repo.Get(ctx, 99999)
		assert.ErrorIs(t, err, ErrDeductionNotFound)
	})
}
