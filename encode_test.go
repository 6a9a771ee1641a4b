package cryptofolio

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeRealizedGains(t *testing.T) {
	e := mustRun(t, []Transaction{
		tx("a", day(1), Trade, "BTC", 1, 100),
		tx("b", day(2), Trade, "BTC", -1.5, 300),
		tx("c", day(3), Trade, "ETH", 1, 10),
		tx("d", day(4), Trade, "ETH", -1, 20),
	})
	var b bytes.Buffer
	if err := EncodeRealizedGains(&b, e.RealizedGains()); err != nil {
		t.Fatalf("EncodeRealizedGains() error = %v", err)
	}
	want := `{"time":"2025-01-02T12:00:00Z","txid":"b","asset":"BTC","type":"trade","quantity":1.5,"proceeds":300,"costBasis":100,"gain":200,"shortfall":0.5,"lots":[{"acquired":"2025-01-01T12:00:00Z","quantity":1,"unitCost":100}]}
{"time":"2025-01-04T12:00:00Z","txid":"d","asset":"ETH","type":"trade","quantity":1,"proceeds":20,"costBasis":10,"gain":10,"lots":[{"acquired":"2025-01-03T12:00:00Z","quantity":1,"unitCost":10}]}
`
	if got := b.String(); got != want {
		t.Errorf("EncodeRealizedGains() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeHistory(t *testing.T) {
	e := mustRun(t, []Transaction{
		tx("a", day(1), Deposit, "USD", 50, -1),
		tx("b", day(1), Trade, "BTC", 2, 100),
	})
	var b bytes.Buffer
	if err := EncodeHistory(&b, e.History()); err != nil {
		t.Fatalf("EncodeHistory() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("EncodeHistory() wrote %d lines, want 2", len(lines))
	}
	want := `{"time":"2025-01-01T12:00:00Z","txid":"b","realizedGain":0,"costBasis":150,"marketValue":150,"cashValue":50,"cash":{"USD":50},"assets":{"BTC":{"quantity":2,"costBasis":100,"marketValue":100}}}`
	if lines[1] != want {
		t.Errorf("EncodeHistory() line 2 =\n%s\nwant\n%s", lines[1], want)
	}
}

func TestEncodeHoldings(t *testing.T) {
	e := mustRun(t, []Transaction{tx("a", day(1), Trade, "BTC", 2, 100)})
	var b bytes.Buffer
	if err := EncodeHoldings(&b, e.Holdings()); err != nil {
		t.Fatalf("EncodeHoldings() error = %v", err)
	}
	want := `{"asset":"BTC","quantity":2,"unitPrice":50,"marketValue":100,"costBasis":100,"averageBuyPrice":50,"unrealizedGain":0}` + "\n"
	if got := b.String(); got != want {
		t.Errorf("EncodeHoldings() = %s, want %s", got, want)
	}
}
