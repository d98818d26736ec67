package repository

import (
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
)

type DeductionEntity struct {
	ID            int64     `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64     `db:"user_id"        gorm:"column:user_id;index"`
	WalletAddress string    `db:"wallet_address" gorm:"column:wallet_address;not null;index"`
	Amount        string    `db:"amount"         gorm:"column:amount;not null"`
	TokenSymbol   string    `db:"token_symbol"   gorm:"column:token_symbol"`
	TokenAddress  string    `db:"token_address"  gorm:"column:token_address"`
	Interval      string    `db:"interval"       gorm:"column:interval;not null"`
	Duration      string    `db:"duration"       gorm:"column:duration;not null"`
	StartDate     time.Time `db:"start_date"     gorm:"column:start_date"`
	Status        string    `db:"status"         gorm:"column:status;not null"`
	CreatedAt     time.Time `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
}

func (DeductionEntity) TableName() string {
	return "scheduled_deductions"
}

func toDeductionEntity(m *model.ScheduledDeduction) *DeductionEntity {
	if m == nil {
		return nil
	}
	return &DeductionEntity{
		ID:            m.ID,
		UserID:        m.UserID,
		WalletAddress: m.WalletAddress,
		Amount:        m.Amount,
		TokenSymbol:   m.TokenSymbol,
		TokenAddress:  m.TokenAddress,
		Interval:      string(m.Interval),
		Duration:      m.Duration,
		StartDate:     m.StartDate,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

func toDeductionModel(e *DeductionEntity) *model.ScheduledDeduction {
	if e == nil {
		return nil
	}
	return &model.ScheduledDeduction{
		ID:            e.ID,
		UserID:        e.UserID,
		WalletAddress: e.WalletAddress,
		Amount:        e.Amount,
		TokenSymbol:   e.TokenSymbol,
		TokenAddress:  e.TokenAddress,
		Interval:      model.Interval(e.Interval),
		Duration:      e.Duration,
		StartDate:     e.StartDate,
		Status:        model.DeductionStatus(e.Status),
		CreatedAt:     e.CreatedAt,
	}
}

func toDeductionModels(entities []*DeductionEntity) []*model.ScheduledDeduction {
	if entities == nil {
		return nil
	}
	models := make([]*model.ScheduledDeduction, len(entities))
	for i, e := range entities {
		models[i] = toDeductionModel(e)
	}
	return models
}
