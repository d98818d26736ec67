package model

import "time"

// Transaction records one ledger operation against a scheduled deduction.
// Rows are immutable once created and are never deleted.
type Transaction struct {
	ID            int64     `json:"id"             db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	DeductionID   int64     `json:"deduction_id"   db:"deduction_id"   gorm:"column:deduction_id;index"`
	WalletAddress string    `json:"wallet_address" db:"wallet_address" gorm:"column:wallet_address;not null;index"`
	Amount        string    `json:"amount"         db:"amount"         gorm:"column:amount;not null"`
	TokenSymbol   string    `json:"token_symbol"   db:"token_symbol"   gorm:"column:token_symbol"`
	TokenAddress  string    `json:"token_address"  db:"token_address"  gorm:"column:token_address"`
	Status        string    `json:"status"         db:"status"         gorm:"column:status;not null"` // "success" | "failed" in practice, free-form
	Date          time.Time `json:"date"           db:"date"           gorm:"column:date;index"`
	TxHash        string    `json:"tx_hash"        db:"tx_hash"        gorm:"column:tx_hash"`
}

func (Transaction) TableName() string { return "transactions" }

type TransactionCreateRequest struct {
	DeductionID   int64     `json:"deduction_id"`
	WalletAddress string    `json:"wallet_address"`
	Amount        string    `json:"amount"`
	TokenSymbol   string    `json:"token_symbol"`
	TokenAddress  string    `json:"token_address"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	TxHash        string    `json:"tx_hash"`
}

func (p TransactionCreateRequest) Validate() error {
	if p.DeductionID == 0 {
		return &ValidationError{Field: "deduction_id", Reason: "is required"}
	}
	if p.WalletAddress == "" {
		return &ValidationError{Field: "wallet_address", Reason: "is required"}
	}
	if p.Amount == "" {
		return &ValidationError{Field: "amount", Reason: "is required"}
	}
	if err := validateAmount(p.Amount); err != nil {
		return err
	}
	if p.Status == "" {
		return &ValidationError{Field: "status", Reason: "is required"}
	}
	return nil
}
