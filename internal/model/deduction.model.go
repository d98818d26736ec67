package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionStatus is the lifecycle state of a scheduled deduction.
type DeductionStatus string

const (
	DeductionStatusPending   DeductionStatus = "pending"
	DeductionStatusApproved  DeductionStatus = "approved"
	DeductionStatusCancelled DeductionStatus = "cancelled"
)

type Interval string

const (
	IntervalDaily    Interval = "daily"
	IntervalWeekly   Interval = "weekly"
	IntervalBiweekly Interval = "biweekly"
	IntervalMonthly  Interval = "monthly"
)

// DurationIndefinite is the open-ended duration choice; the ledger adapter
// maps it to a fixed 120-month horizon.
const DurationIndefinite = "indefinite"

var validIntervals = map[Interval]struct{}{
	IntervalDaily:    {},
	IntervalWeekly:   {},
	IntervalBiweekly: {},
	IntervalMonthly:  {},
}

var validDurations = map[string]struct{}{
	"3":                {},
	"6":                {},
	"12":               {},
	DurationIndefinite: {},
}

// IntervalDays maps an interval to its length in days.
var IntervalDays = map[Interval]int{
	IntervalDaily:    1,
	IntervalWeekly:   7,
	IntervalBiweekly: 14,
	IntervalMonthly:  30,
}

type ScheduledDeduction struct {
	ID            int64           `json:"id"             db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64           `json:"user_id"        db:"user_id"        gorm:"column:user_id;index"`
	WalletAddress string          `json:"wallet_address" db:"wallet_address" gorm:"column:wallet_address;not null;index"` // matched case-insensitively
	Amount        string          `json:"amount"         db:"amount"         gorm:"column:amount;not null"`               // decimal string
	TokenSymbol   string          `json:"token_symbol"   db:"token_symbol"   gorm:"column:token_symbol"`
	TokenAddress  string          `json:"token_address"  db:"token_address"  gorm:"column:token_address"` // "" = native asset
	Interval      Interval        `json:"interval"       db:"interval"       gorm:"column:interval;not null"`
	Duration      string          `json:"duration"       db:"duration"       gorm:"column:duration;not null"` // months, or "indefinite"
	StartDate     time.Time       `json:"start_date"     db:"start_date"     gorm:"column:start_date"`
	Status        DeductionStatus `json:"status"         db:"status"         gorm:"column:status;not null"`
	CreatedAt     time.Time       `json:"created_at"     db:"created_at"     gorm:"column:created_at;autoCreateTime"`
}

func (ScheduledDeduction) TableName() string { return "scheduled_deductions" }

// DeductionCreateRequest is the input for creating a scheduled deduction.
type DeductionCreateRequest struct {
	UserID        int64           `json:"user_id"`
	WalletAddress string          `json:"wallet_address"`
	Amount        string          `json:"amount"`
	TokenSymbol   string          `json:"token_symbol"`
	TokenAddress  string          `json:"token_address"`
	Interval      Interval        `json:"interval"`
	Duration      string          `json:"duration"`
	StartDate     time.Time       `json:"start_date"`
	Status        DeductionStatus `json:"status"`
}

func (p DeductionCreateRequest) Validate() error {
	if p.WalletAddress == "" {
		return &ValidationError{Field: "wallet_address", Reason: "is required"}
	}
	if p.Amount == "" {
		return &ValidationError{Field: "amount", Reason: "is required"}
	}
	if err := validateAmount(p.Amount); err != nil {
		return err
	}
	if p.Interval == "" {
		return &ValidationError{Field: "interval", Reason: "is required"}
	}
	if _, ok := validIntervals[p.Interval]; !ok {
		return &ValidationError{Field: "interval", Reason: "must be one of daily, weekly, biweekly, monthly"}
	}
	if p.Duration == "" {
		return &ValidationError{Field: "duration", Reason: "is required"}
	}
	if _, ok := validDurations[p.Duration]; !ok {
		return &ValidationError{Field: "duration", Reason: "must be one of 3, 6, 12, indefinite"}
	}
	if p.Status != "" && !validStatus(p.Status) {
		return &ValidationError{Field: "status", Reason: "must be one of pending, approved, cancelled"}
	}
	return nil
}

// DeductionPatch is the explicit set of patchable fields. Unknown fields are
// rejected at decode time; value checks happen in Validate.
type DeductionPatch struct {
	WalletAddress *string          `json:"wallet_address"`
	Amount        *string          `json:"amount"`
	TokenSymbol   *string          `json:"token_symbol"`
	TokenAddress  *string          `json:"token_address"`
	Interval      *Interval        `json:"interval"`
	Duration      *string          `json:"duration"`
	StartDate     *time.Time       `json:"start_date"`
	Status        *DeductionStatus `json:"status"`
}

func (p DeductionPatch) Validate() error {
	if p.WalletAddress != nil && *p.WalletAddress == "" {
		return &ValidationError{Field: "wallet_address", Reason: "cannot be empty"}
	}
	if p.Amount != nil {
		if err := validateAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.Interval != nil {
		if _, ok := validIntervals[*p.Interval]; !ok {
			return &ValidationError{Field: "interval", Reason: "must be one of daily, weekly, biweekly, monthly"}
		}
	}
	if p.Duration != nil {
		if _, ok := validDurations[*p.Duration]; !ok {
			return &ValidationError{Field: "duration", Reason: "must be one of 3, 6, 12, indefinite"}
		}
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return &ValidationError{Field: "status", Reason: "must be one of pending, approved, cancelled"}
	}
	return nil
}

// Empty reports whether the patch names no fields at all.
func (p DeductionPatch) Empty() bool {
	return p.WalletAddress == nil && p.Amount == nil && p.TokenSymbol == nil &&
		p.TokenAddress == nil && p.Interval == nil && p.Duration == nil &&
		p.StartDate == nil && p.Status == nil
}

func validStatus(s DeductionStatus) bool {
	switch s {
	case DeductionStatusPending, DeductionStatusApproved, DeductionStatusCancelled:
		return true
	}
	return false
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return &ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	if !d.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}
