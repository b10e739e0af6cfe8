package services

import (
	"context"
	"math"

	"github.com/baharkarakas/balance-ledger/internal/models"
	repo "github.com/baharkarakas/balance-ledger/internal/repository"
)

type UserService struct {
	users    repo.Users
	trx      repo.Transactions
	balances *BalanceService
}

func NewUserService(u repo.Users, t repo.Transactions, b *BalanceService) *UserService {
	return &UserService{users: u, trx: t, balances: b}
}

// Create makes a user with balance 0. A non-zero opening balance becomes an
// ordinary credit transaction followed by a recomputation, never a direct
// balance write.
func (s *UserService) Create(ctx context.Context, initialBalance float64) (models.User, error) {
	if initialBalance < 0 || math.IsNaN(initialBalance) || math.IsInf(initialBalance, 0) {
		return models.User{}, ErrInvalidAmount
	}

	user, err := s.users.Create(ctx, 0)
	if err != nil {
		return models.User{}, err
	}

	if initialBalance > 0 {
		if _, err := s.trx.Create(ctx, user.ID, models.ActionCredit, initialBalance); err != nil {
			return models.User{}, err
		}
		return s.balances.Recalculate(ctx, user.ID)
	}

	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}
