package models

import "time"

type TransactionAction string

const (
	ActionCredit TransactionAction = "credit"
	ActionDebit  TransactionAction = "debit"
)

// Transaction is an immutable ledger entry. ID and Ts are server-assigned;
// rows are never updated or deleted.
type Transaction struct {
	ID     int64             `json:"id"`
	UserID int64             `json:"user_id"`
	Action TransactionAction `json:"action"`
	Amount float64           `json:"amount"`
	Ts     time.Time         `json:"ts"`
}
