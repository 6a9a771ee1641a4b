package cryptofolio

import (
	"slices"
	"strings"
)

// Holding is the current position in one asset.
type Holding struct {
	Asset           string
	Quantity        Quantity
	UnitPrice       Money // last known price
	MarketValue     Money
	CostBasis       Money
	AverageBuyPrice Money
	UnrealizedGain  Money
}

// HoldingsSummary lists the assets currently held, cash excluded.
type HoldingsSummary struct {
	Currency string
	Holdings []Holding // sorted by asset
}

func newHolding(asset string, quantity Quantity, cost, price Money) Holding {
	value := price.Mul(quantity)
	return Holding{
		Asset:           asset,
		Quantity:        quantity,
		UnitPrice:       price,
		MarketValue:     value,
		CostBasis:       cost,
		AverageBuyPrice: cost.Div(quantity),
		UnrealizedGain:  value.Sub(cost),
	}
}

// Holdings returns the current holdings valued at the last price seen in the ledger.
func (e *Engine) Holdings() HoldingsSummary {
	h := HoldingsSummary{Currency: e.currency}
	for asset := range e.inventory.Assets() {
		quantity, cost := e.inventory.Position(asset)
		if !quantity.IsPositive() {
			continue
		}
		h.Holdings = append(h.Holdings, newHolding(asset, quantity, cost, e.price(asset)))
	}
	return h
}

// Get returns the holding of asset.
func (h HoldingsSummary) Get(asset string) (Holding, bool) {
	i, found := slices.BinarySearchFunc(h.Holdings, asset, func(x Holding, a string) int {
		return strings.Compare(x.Asset, a)
	})
	if !found {
		return Holding{}, false
	}
	return h.Holdings[i], true
}

// MarketValue sums the market value of all holdings.
func (h HoldingsSummary) MarketValue() Money {
	total := M(0, h.Currency)
	for _, x := range h.Holdings {
		total = total.Add(x.MarketValue)
	}
	return total
}

// CostBasis sums the cost basis of all holdings.
func (h HoldingsSummary) CostBasis() Money {
	total := M(0, h.Currency)
	for _, x := range h.Holdings {
		total = total.Add(x.CostBasis)
	}
	return total
}

// UnrealizedGain sums the unrealized gain of all holdings.
func (h HoldingsSummary) UnrealizedGain() Money { return h.MarketValue().Sub(h.CostBasis()) }

// Revalue returns a copy of the summary where assets with an external price
// are valued at that price instead of the last price implied by the ledger.
func (h HoldingsSummary) Revalue(prices map[string]Money) HoldingsSummary {
	res := HoldingsSummary{Currency: h.Currency, Holdings: make([]Holding, len(h.Holdings))}
	for i, x := range h.Holdings {
		if p, ok := prices[x.Asset]; ok {
			x = newHolding(x.Asset, x.Quantity, x.CostBasis, M(p.Decimal(), h.Currency))
		}
		res.Holdings[i] = x
	}
	return res
}
