package repository

import (
	"context"

	"github.com/baharkarakas/balance-ledger/internal/models"
)

type Users interface {
	Create(ctx context.Context, balance float64) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	UpdateBalance(ctx context.Context, id int64, balance float64) (models.User, error)
}

type Transactions interface {
	Create(ctx context.Context, userID int64, action models.TransactionAction, amount float64) (models.Transaction, error)

	// FindByUserID returns the full history, most recent first. Implementations
	// may serve it from cache.
	FindByUserID(ctx context.Context, userID int64) ([]models.Transaction, error)

	// History always reads the ledger directly, bypassing any cache.
	History(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error)

	GetByID(ctx context.Context, id int64) (models.Transaction, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
