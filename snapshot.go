package cryptofolio

import (
	"maps"
	"time"
)

// AssetState is the position of one asset at a point in time.
type AssetState struct {
	Quantity  Quantity
	CostBasis Money
	// MarketValue at the last price implied by the ledger.
	MarketValue Money
}

// PortfolioSnapshot is the state of the portfolio right after processing one
// transaction.
type PortfolioSnapshot struct {
	Time time.Time
	TxID string
	// RealizedGain is cumulative since the first transaction.
	RealizedGain Money
	// CostBasis of all open lots plus the cash valued at par, cash being its own basis.
	CostBasis Money
	// MarketValue estimates open lots at the last price seen in the ledger, plus cash at par.
	MarketValue Money
	// CashValue is the part of CostBasis and MarketValue made of cash valued at par.
	CashValue Money
	Cash      map[string]Quantity
	Assets    map[string]AssetState // assets with open lots
}

// UnrealizedGain returns MarketValue - CostBasis.
func (s PortfolioSnapshot) UnrealizedGain() Money { return s.MarketValue.Sub(s.CostBasis) }

func (s PortfolioSnapshot) clone() PortfolioSnapshot {
	s.Cash = maps.Clone(s.Cash)
	s.Assets = maps.Clone(s.Assets)
	return s
}
