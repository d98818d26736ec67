package repository

import (
	"context"

	"github.com/mkarimz/deduction-gateway/pkg/pg"
)

// Migrate creates the schema in-process. Used by the memory driver; the
// postgres driver runs versioned migrations through cmd/migrate instead.
func Migrate(db *pg.DB) error {
	return db.Write(context.Background()).AutoMigrate(
		&UserEntity{},
		&DeductionEntity{},
		&TransactionEntity{},
	)
}
