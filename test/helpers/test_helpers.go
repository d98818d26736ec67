package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/repository"
	"github.com/mkarimz/deduction-gateway/pkg/pg"
	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.UserEntity{},
		&repository.DeductionEntity{},
		&repository.TransactionEntity{},
	)
	require.NoError(t, err)

	return pg.NewFromGorm(db, db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	// Unique connection name per test to avoid global adapter caching issues
	connName := fmt.Sprintf("test-%d", time.Now().UnixNano())
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestDeduction(t *testing.T, db *pg.DB, walletAddress, amount string, status model.DeductionStatus) *model.ScheduledDeduction {
	repo := repository.NewDeductionRepository(db)
	ded, err := repo.Create(context.Background(), &model.ScheduledDeduction{
		WalletAddress: walletAddress,
		Amount:        amount,
		Interval:      model.IntervalMonthly,
		Duration:      "6",
		StartDate:     time.Now().AddDate(0, 0, 1),
		Status:        status,
	})
	require.NoError(t, err)
	return ded
}

func CreateTestTransaction(t *testing.T, db *pg.DB, deductionID int64, walletAddress, amount, txHash string) *model.Transaction {
	repo := repository.NewTransactionRepository(db)
	tx, err := repo.Create(context.Background(), &model.Transaction{
		DeductionID:   deductionID,
		WalletAddress: walletAddress,
		Amount:        amount,
		Status:        "success",
		TxHash:        txHash,
	})
	require.NoError(t, err)
	return tx
}
