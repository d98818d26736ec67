package repository

import (
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
)

type TransactionEntity struct {
	ID            int64     `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	DeductionID   int64     `db:"deduction_id"   gorm:"column:deduction_id;index"`
	WalletAddress string    `db:"wallet_address" gorm:"column:wallet_address;not null;index"`
	Amount        string    `db:"amount"         gorm:"column:amount;not null"`
	TokenSymbol   string    `db:"token_symbol"   gorm:"column:token_symbol"`
	TokenAddress  string    `db:"token_address"  gorm:"column:token_address"`
	Status        string    `db:"status"         gorm:"column:status;not null"`
	Date          time.Time `db:"date"           gorm:"column:date;index"`
	TxHash        string    `db:"tx_hash"        gorm:"column:tx_hash"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:            m.ID,
		DeductionID:   m.DeductionID,
		WalletAddress: m.WalletAddress,
		Amount:        m.Amount,
		TokenSymbol:   m.TokenSymbol,
		TokenAddress:  m.TokenAddress,
		Status:        m.Status,
		Date:          m.Date,
		TxHash:        m.TxHash,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:            e.ID,
		DeductionID:   e.DeductionID,
		WalletAddress: e.WalletAddress,
		Amount:        e.Amount,
		TokenSymbol:   e.TokenSymbol,
		TokenAddress:  e.TokenAddress,
		Status:        e.Status,
		Date:          e.Date,
		TxHash:        e.TxHash,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
