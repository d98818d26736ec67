package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserRepository interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user with a bcrypt-hashed password. The username
// uniqueness check lives here because the store declares but does not
// enforce the constraint; check and create run in one transaction to keep
// concurrent registrations from both passing the check.
func (s *UserService) Register(ctx context.Context, p model.UserCreateRequest) (*model.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *model.User
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByUsername(ctx, p.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}

		u, err := s.repo.Create(ctx, &model.User{
			Username: p.Username,
			Password: string(hash),
		})
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
