package repository

import (
	"context"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/pkg/pg"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// List returns the wallet's transactions newest-first (descending by date),
// matching the address case-insensitively.
func (r *TransactionRepository) List(ctx context.Context, walletAddress string) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("LOWER(wallet_address) = LOWER(?)", walletAddress).
		Order("date DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

// Create stores the transaction, defaulting date to now and tx hash to the
// empty string. Rows are immutable after this point.
func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)
	if entity.Date.IsZero() {
		entity.Date = time.Now()
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}
