package postgres

import (
	"context"

	"github.com/baharkarakas/balance-ledger/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Create(ctx context.Context, userID int64, action models.TransactionAction, amount float64) (models.Transaction, error) {
	var tx models.Transaction
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions(user_id, action, amount)
		 VALUES($1, $2, $3)
		 RETURNING id, user_id, action, amount, ts`,
		userID, action, amount,
	).Scan(&tx.ID, &tx.UserID, &tx.Action, &tx.Amount, &tx.Ts)
	return tx, wrapErr("insert transaction", err, userID, action, amount)
}

func (r *transactionsRepo) FindByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return r.list(ctx, "find transactions by user id",
		`SELECT id, user_id, action, amount, ts
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY ts DESC`,
		userID)
}

func (r *transactionsRepo) History(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	return r.list(ctx, "get transaction history",
		`SELECT id, user_id, action, amount, ts
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY ts DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *transactionsRepo) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	var tx models.Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, action, amount, ts FROM transactions WHERE id=$1`, id,
	).Scan(&tx.ID, &tx.UserID, &tx.Action, &tx.Amount, &tx.Ts)
	return tx, wrapErr("get transaction by id", err, id)
}

func (r *transactionsRepo) list(ctx context.Context, op, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err, args...)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Action, &tx.Amount, &tx.Ts); err != nil {
			return nil, wrapErr(op, err, args...)
		}
		out = append(out, tx)
	}
	return out, wrapErr(op, rows.Err(), args...)
}
