package services

import (
	"context"
	"errors"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrMissingAddress = errors.New("wallet address is required")
	ErrEmptyPatch     = errors.New("patch names no fields")
)

type DeductionRepository interface {
	List(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error)
	Get(ctx context.Context, id int64) (*model.ScheduledDeduction, error)
	Create(ctx context.Context, d *model.ScheduledDeduction) (*model.ScheduledDeduction, error)
	Update(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type DeductionService struct {
	repo DeductionRepository
}

func NewDeductionService(repo DeductionRepository) *DeductionService {
	return &DeductionService{repo: repo}
}

func (s *DeductionService) List(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error) {
	if walletAddress == "" {
		return nil, ErrMissingAddress
	}
	return s.repo.List(ctx, walletAddress)
}

func (s *DeductionService) Get(ctx context.Context, id int64) (*model.ScheduledDeduction, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDeductionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DeductionService) Create(ctx context.Context, p model.DeductionCreateRequest) (*model.ScheduledDeduction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d := &model.ScheduledDeduction{
		UserID:        p.UserID,
		WalletAddress: p.WalletAddress,
		Amount:        p.Amount,
		TokenSymbol:   p.TokenSymbol,
		TokenAddress:  p.TokenAddress,
		Interval:      p.Interval,
		Duration:      p.Duration,
		StartDate:     p.StartDate,
		Status:        p.Status,
	}
	return s.repo.Create(ctx, d)
}

// Update validates the patch against the patchable-field policy before the
// repository merges it; the store itself performs no validation.
func (s *DeductionService) Update(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDeductionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DeductionService) Delete(ctx context.Context, id int64) error {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}
