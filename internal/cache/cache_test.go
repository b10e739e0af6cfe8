package cache

import "testing"

func TestKeys(t *testing.T) {
	if got := BalanceKey(42); got != "balance:42" {
		t.Fatalf("BalanceKey = %q", got)
	}
	if got := TransactionsKey(42); got != "transactions:42" {
		t.Fatalf("TransactionsKey = %q", got)
	}
}
