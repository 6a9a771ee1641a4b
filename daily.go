package cryptofolio

import (
	"maps"
	"slices"

	"github.com/etnz/cryptofolio/date"
	"github.com/shopspring/decimal"
)

// PriceTable holds external daily prices per asset, in the reporting currency.
type PriceTable map[string]*date.History[decimal.Decimal]

// Set records the price of asset on a day.
func (t PriceTable) Set(asset string, on date.Date, price decimal.Decimal) {
	h, ok := t[asset]
	if !ok {
		h = new(date.History[decimal.Decimal])
		t[asset] = h
	}
	h.Append(on, price)
}

// PriceAsOf returns the price of asset on day, or the most recent one before it.
func (t PriceTable) PriceAsOf(asset string, on date.Date) (decimal.Decimal, bool) {
	h, ok := t[asset]
	if !ok {
		return decimal.Zero, false
	}
	return h.ValueAsOf(on)
}

// Latest returns the most recent price of every asset, as of a day.
func (t PriceTable) Latest(on date.Date, currency string) map[string]Money {
	res := make(map[string]Money, len(t))
	for asset := range t {
		if p, ok := t.PriceAsOf(asset, on); ok {
			res[asset] = M(p, currency)
		}
	}
	return res
}

// DailyAsset is the end of day position of one asset.
type DailyAsset struct {
	Quantity    Quantity
	CostBasis   Money
	MarketValue Money
	// Priced is true when MarketValue comes from an external price.
	Priced bool
}

// DailyPoint is the portfolio state at the end of a day.
type DailyPoint struct {
	Day          date.Date
	RealizedGain Money
	CostBasis    Money
	MarketValue  Money
	CashValue    Money
	Assets       map[string]DailyAsset
}

// Assets returns all the assets that appear in points, sorted.
func Assets(points []DailyPoint) []string {
	seen := make(map[string]struct{})
	for _, p := range points {
		for a := range p.Assets {
			seen[a] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Resample turns the per-transaction history into one point per calendar day
// (UTC), from the first transaction's day up to 'through' or the last
// transaction's day if later. A day keeps the last snapshot taken on it, days
// without transactions repeat the previous day.
func Resample(history []PortfolioSnapshot, through date.Date) []DailyPoint {
	if len(history) == 0 {
		return nil
	}
	first := date.Of(history[0].Time)
	last := date.Of(history[len(history)-1].Time)
	if through.After(last) {
		last = through
	}

	var points []DailyPoint
	var current PortfolioSnapshot
	i := 0
	for day := range date.Days(first, last) {
		for i < len(history) && !date.Of(history[i].Time).After(day) {
			current = history[i]
			i++
		}
		p := DailyPoint{
			Day:          day,
			RealizedGain: current.RealizedGain,
			CostBasis:    current.CostBasis,
			MarketValue:  current.MarketValue,
			CashValue:    current.CashValue,
			Assets:       make(map[string]DailyAsset, len(current.Assets)),
		}
		for asset, s := range current.Assets {
			p.Assets[asset] = DailyAsset{Quantity: s.Quantity, CostBasis: s.CostBasis, MarketValue: s.MarketValue}
		}
		points = append(points, p)
	}
	return points
}

// Overlay values every asset of every point with the external prices, when
// available. Assets without an external price keep the ledger estimate. The
// total market value of a point is recomputed as soon as one of its assets is
// priced externally.
func Overlay(points []DailyPoint, prices PriceTable) []DailyPoint {
	res := make([]DailyPoint, len(points))
	for i, p := range points {
		q := p
		q.Assets = make(map[string]DailyAsset, len(p.Assets))
		total := q.CashValue
		priced := false
		for asset, a := range p.Assets {
			if price, ok := prices.PriceAsOf(asset, p.Day); ok {
				a.MarketValue = M(price, a.MarketValue.Currency()).Mul(a.Quantity)
				a.Priced = true
				priced = true
			}
			total = total.Add(a.MarketValue)
			q.Assets[asset] = a
		}
		if priced {
			q.MarketValue = total
		}
		res[i] = q
	}
	return res
}
