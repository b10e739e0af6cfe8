package postgres

import (
	"context"

	"github.com/baharkarakas/balance-ledger/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func (r *usersRepo) Create(ctx context.Context, balance float64) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(balance) VALUES($1)
		 RETURNING id, balance, created_at, updated_at`,
		balance,
	).Scan(&u.ID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	return u, wrapErr("create user", err, balance)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, balance, created_at, updated_at FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	return u, wrapErr("get user by id", err, id)
}

func (r *usersRepo) UpdateBalance(ctx context.Context, id int64, balance float64) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET balance = $2,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING id, balance, created_at, updated_at`,
		id, balance,
	).Scan(&u.ID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	return u, wrapErr("update user balance", err, id, balance)
}
