package postgres

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/balance-ledger/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// wrapErr narrows pgx failures to the repository error kinds. Anything
// unexpected keeps the operation name and input context so it is never
// propagated bare.
func wrapErr(op string, err error, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrConflict
	}
	if len(args) > 0 {
		return fmt.Errorf("%s %v: %w", op, args, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
