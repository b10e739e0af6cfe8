package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/balance-ledger/internal/cache"
	"github.com/baharkarakas/balance-ledger/internal/metrics"
	"github.com/baharkarakas/balance-ledger/internal/models"
	repo "github.com/baharkarakas/balance-ledger/internal/repository"
	"github.com/baharkarakas/balance-ledger/internal/worker"
)

// BalanceService derives user balances from the transaction ledger and keeps
// the cache consistent around writes. Side effects are strictly ordered:
// validate -> append transaction -> invalidate cache -> recompute from history
// -> persist balance -> re-cache.
type BalanceService struct {
	users repo.Users
	trx   repo.Transactions
	logs  repo.AuditLogs
	cache cache.Cache
	ttl   time.Duration
	wp    *worker.Pool
}

func NewBalanceService(u repo.Users, t repo.Transactions, l repo.AuditLogs, c cache.Cache, balanceTTL time.Duration, wp *worker.Pool) *BalanceService {
	return &BalanceService{users: u, trx: t, logs: l, cache: c, ttl: balanceTTL, wp: wp}
}

func (s *BalanceService) Debit(ctx context.Context, userID int64, amount float64, description string) (models.BalanceInfo, error) {
	return s.processOperation(ctx, userID, amount, description, models.ActionDebit)
}

func (s *BalanceService) Credit(ctx context.Context, userID int64, amount float64, description string) (models.BalanceInfo, error) {
	return s.processOperation(ctx, userID, amount, description, models.ActionCredit)
}

// GetBalance returns the stored balance without forcing a recomputation.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (models.BalanceInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.BalanceInfo{}, err
	}
	return models.BalanceInfo{Balance: user.Balance, UserID: userID}, nil
}

// processOperation is the single write path for both actions. The funds check
// and the ledger append are two separate steps with no per-user lock between
// them, so two concurrent debits can both pass the check against the same
// snapshot; a per-user critical section around this method closes that gap
// without any contract change.
func (s *BalanceService) processOperation(ctx context.Context, userID int64, amount float64, description string, action models.TransactionAction) (models.BalanceInfo, error) {
	if err := validateAmount(amount); err != nil {
		return models.BalanceInfo{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.BalanceInfo{}, err
	}

	if action == models.ActionDebit && user.Balance < amount {
		return models.BalanceInfo{}, ErrInsufficientFunds
	}

	if _, err := s.trx.Create(ctx, userID, action, amount); err != nil {
		metrics.OperationsFailed.Inc()
		return models.BalanceInfo{}, err
	}

	s.cache.Delete(ctx, cache.BalanceKey(userID))

	updated, err := s.Recalculate(ctx, userID)
	if err != nil {
		return models.BalanceInfo{}, err
	}

	metrics.OperationsTotal.WithLabelValues(string(action)).Inc()
	s.audit(userID, string(action), amount, updated.Balance, description)

	slog.Info("balance operation completed",
		"user_id", userID, "action", action, "amount", amount, "balance", updated.Balance)

	return models.BalanceInfo{Balance: updated.Balance, UserID: userID}, nil
}

// Recalculate is the authoritative recompute path. A cache hit short-circuits;
// on a miss the entire history is folded to a balance, which is persisted to
// the user row and re-cached with the balance TTL.
func (s *BalanceService) Recalculate(ctx context.Context, userID int64) (models.User, error) {
	key := cache.BalanceKey(userID)

	var cached models.User
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("balance").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("balance").Inc()

	txs, err := s.trx.FindByUserID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	balance := foldBalance(txs)

	updated, err := s.users.UpdateBalance(ctx, userID, balance)
	if err != nil {
		return models.User{}, err
	}

	s.cache.Set(ctx, key, updated, s.ttl)

	slog.Debug("balance recalculated", "user_id", userID, "balance", balance)
	return updated, nil
}

// foldBalance sums credits minus debits. The fold is commutative, so the
// order of the history does not matter. Unrecognized actions contribute zero.
func foldBalance(txs []models.Transaction) float64 {
	var balance float64
	for _, tx := range txs {
		switch tx.Action {
		case models.ActionCredit:
			balance += tx.Amount
		case models.ActionDebit:
			balance -= tx.Amount
		}
	}
	return balance
}

func (s *BalanceService) audit(userID int64, action string, amount, balance float64, description string) {
	details := map[string]any{"amount": amount, "balance": balance}
	if description != "" {
		details["description"] = description
	}
	s.wp.Submit(func() {
		_ = s.logs.Create(context.Background(), models.AuditLog{
			EntityType: "balance",
			EntityID:   &userID,
			Action:     action,
			Details:    details,
		})
	})
}
