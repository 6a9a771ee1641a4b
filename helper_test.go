package cryptofolio

import (
	"testing"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// ptr returns a pointer to v.
func ptr[T any](v T) *T { return &v }

// day returns noon UTC of the given day of January 2025.
func day(d int) time.Time { return time.Date(2025, time.January, d, 12, 0, 0, 0, time.UTC) }

// tx builds a crypto transaction, value is the fiat value, a negative value means no value.
func tx(id string, on time.Time, kind Kind, asset string, amount float64, value float64) Transaction {
	t := Transaction{
		TxID:   id,
		Time:   on,
		Type:   kind.String(),
		Kind:   kind,
		Asset:  asset,
		Amount: Q(amount),
	}
	if value >= 0 {
		t.FiatValue = ptr(USD(value))
	}
	return t
}

func mustRun(t *testing.T, txs []Transaction, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(txs, opts...)
	if err := e.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return e
}

func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Decimal().Equal(want.Decimal()) {
		t.Errorf("%s = %v, want %v", name, got.Decimal(), want.Decimal())
	}
}

func assertQuantity(t *testing.T, name string, got, want Quantity) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
