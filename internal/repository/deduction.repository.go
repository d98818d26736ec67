package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrDeductionNotFound is returned when a scheduled deduction does not exist.
	ErrDeductionNotFound = errors.New("scheduled deduction not found")
)

type DeductionRepository struct {
	*pg.DB
}

func NewDeductionRepository(db *pg.DB) *DeductionRepository {
	return &DeductionRepository{
		db,
	}
}

// List returns every deduction whose wallet address equals the query under
// case-insensitive comparison. No ordering is guaranteed.
func (r *DeductionRepository) List(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error) {
	var entities []*DeductionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("LOWER(wallet_address) = LOWER(?)", walletAddress).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toDeductionModels(entities), nil
}

func (r *DeductionRepository) Get(ctx context.Context, id int64) (*model.ScheduledDeduction, error) {
	var entity DeductionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeductionNotFound
		}
		return nil, err
	}
	return toDeductionModel(&entity), nil
}

// Create stores the deduction, assigning the id and creation timestamp and
// defaulting status to pending when absent.
func (r *DeductionRepository) Create(ctx context.Context, d *model.ScheduledDeduction) (*model.ScheduledDeduction, error) {
	entity := toDeductionEntity(d)
	if entity.Status == "" {
		entity.Status = string(model.DeductionStatusPending)
	}
	entity.CreatedAt = time.Now()

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toDeductionModel(entity), nil
}

// Update merges the set fields of the patch into the stored record and
// returns the merged result. Fields the patch leaves nil keep their prior
// values.
func (r *DeductionRepository) Update(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error) {
	var entity DeductionEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeductionNotFound
		}
		return nil, err
	}

	if patch.WalletAddress != nil {
		entity.WalletAddress = *patch.WalletAddress
	}
	if patch.Amount != nil {
		entity.Amount = *patch.Amount
	}
	if patch.TokenSymbol != nil {
		entity.TokenSymbol = *patch.TokenSymbol
	}
	if patch.TokenAddress != nil {
		entity.TokenAddress = *patch.TokenAddress
	}
	if patch.Interval != nil {
		entity.Interval = string(*patch.Interval)
	}
	if patch.Duration != nil {
		entity.Duration = *patch.Duration
	}
	if patch.StartDate != nil {
		entity.StartDate = *patch.StartDate
	}
	if patch.Status != nil {
		entity.Status = string(*patch.Status)
	}

	if err := r.Write(ctx).WithContext(ctx).Save(&entity).Error; err != nil {
		return nil, err
	}

	return toDeductionModel(&entity), nil
}

// Delete hard-deletes the row and reports whether one existed.
func (r *DeductionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&DeductionEntity{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
