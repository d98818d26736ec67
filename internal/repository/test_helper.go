package repository

import (
	"testing"

	"github.com/mkarimz/deduction-gateway/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&UserEntity{}, &DeductionEntity{}, &TransactionEntity{})
	require.NoError(t, err)

	return pg.NewFromGorm(db, db)
}
