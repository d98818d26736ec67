package services

import (
	"context"

	"github.com/mkarimz/deduction-gateway/internal/model"
)

type TransactionRepository interface {
	List(ctx context.Context, walletAddress string) ([]*model.Transaction, error)
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
}

type TransactionService struct {
	repo TransactionRepository
}

func NewTransactionService(repo TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

func (s *TransactionService) List(ctx context.Context, walletAddress string) ([]*model.Transaction, error) {
	if walletAddress == "" {
		return nil, ErrMissingAddress
	}
	return s.repo.List(ctx, walletAddress)
}

func (s *TransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		DeductionID:   p.DeductionID,
		WalletAddress: p.WalletAddress,
		Amount:        p.Amount,
		TokenSymbol:   p.TokenSymbol,
		TokenAddress:  p.TokenAddress,
		Status:        p.Status,
		Date:          p.Date,
		TxHash:        p.TxHash,
	}
	return s.repo.Create(ctx, txn)
}
