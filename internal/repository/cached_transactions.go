package repository

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/balance-ledger/internal/cache"
	"github.com/baharkarakas/balance-ledger/internal/metrics"
	"github.com/baharkarakas/balance-ledger/internal/models"
)

// ErrInvalidTransaction is returned by Create before any I/O when a required
// field is missing or the action is unknown.
var ErrInvalidTransaction = errors.New("user id, action and amount are required")

// CachedTransactions decorates a ledger-backed Transactions repository with
// read-through caching of the per-user history page and write-invalidation
// of both the history and balance keys.
type CachedTransactions struct {
	inner Transactions
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedTransactions(inner Transactions, c cache.Cache, ttl time.Duration) *CachedTransactions {
	return &CachedTransactions{inner: inner, cache: c, ttl: ttl}
}

// Create appends a ledger entry, then deletes the balance and history keys
// for that user. Invalidation runs even when the insert failed: a duplicate
// or not-found error downstream may still have left a row behind, and serving
// a history page that excludes it would be worse than an extra ledger read.
func (r *CachedTransactions) Create(ctx context.Context, userID int64, action models.TransactionAction, amount float64) (models.Transaction, error) {
	if userID <= 0 || (action != models.ActionCredit && action != models.ActionDebit) || amount == 0 {
		return models.Transaction{}, ErrInvalidTransaction
	}

	tx, err := r.inner.Create(ctx, userID, action, amount)

	r.cache.Delete(ctx, cache.BalanceKey(userID))
	r.cache.Delete(ctx, cache.TransactionsKey(userID))

	return tx, err
}

func (r *CachedTransactions) FindByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	key := cache.TransactionsKey(userID)

	var cached []models.Transaction
	if r.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("transactions").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("transactions").Inc()

	txs, err := r.inner.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, txs, r.ttl)
	return txs, nil
}

// History is used for paginated views where staleness is unacceptable, so it
// always goes to the ledger.
func (r *CachedTransactions) History(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	return r.inner.History(ctx, userID, limit, offset)
}

func (r *CachedTransactions) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	return r.inner.GetByID(ctx, id)
}
