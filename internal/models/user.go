package models

import "time"

// User carries a denormalized balance. The balance is derived from the
// transaction ledger and is only written by the recalculation path (or set
// to 0 at creation).
type User struct {
	ID        int64     `json:"id"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceInfo is the result of a balance operation.
type BalanceInfo struct {
	Balance float64 `json:"balance"`
	UserID  int64   `json:"user_id"`
}
