package cryptofolio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// timeFormat keeps sub-second precision, ledgers often have several entries per second.
const timeFormat = time.RFC3339Nano

func (l LotMatch) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("acquired", l.Acquired.UTC().Format(timeFormat))
	w.Append("quantity", l.Quantity)
	w.Append("unitCost", l.UnitCost)
	return w.MarshalJSON()
}

func (r RealizedGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", r.Time.UTC().Format(timeFormat))
	w.Optional("txid", r.TxID)
	w.Append("asset", r.Asset)
	w.Optional("type", r.Type)
	w.Append("quantity", r.Quantity)
	w.Append("proceeds", r.Proceeds)
	w.Append("costBasis", r.CostBasis)
	w.Append("gain", r.Gain)
	if r.Shortfall.IsPositive() {
		w.Append("shortfall", r.Shortfall)
	}
	w.Optional("lots", r.Lots)
	return w.MarshalJSON()
}

func (a AssetState) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("quantity", a.Quantity)
	w.Append("costBasis", a.CostBasis)
	w.Append("marketValue", a.MarketValue)
	return w.MarshalJSON()
}

func (s PortfolioSnapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", s.Time.UTC().Format(timeFormat))
	w.Optional("txid", s.TxID)
	w.Append("realizedGain", s.RealizedGain)
	w.Append("costBasis", s.CostBasis)
	w.Append("marketValue", s.MarketValue)
	w.Append("cashValue", s.CashValue)
	w.Optional("cash", s.Cash)
	w.Optional("assets", s.Assets)
	return w.MarshalJSON()
}

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", h.Asset)
	w.Append("quantity", h.Quantity)
	w.Append("unitPrice", h.UnitPrice)
	w.Append("marketValue", h.MarketValue)
	w.Append("costBasis", h.CostBasis)
	w.Append("averageBuyPrice", h.AverageBuyPrice)
	w.Append("unrealizedGain", h.UnrealizedGain)
	return w.MarshalJSON()
}

func (a DailyAsset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("quantity", a.Quantity)
	w.Append("costBasis", a.CostBasis)
	w.Append("marketValue", a.MarketValue)
	w.Optional("priced", a.Priced)
	return w.MarshalJSON()
}

func (p DailyPoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("day", p.Day)
	w.Append("realizedGain", p.RealizedGain)
	w.Append("costBasis", p.CostBasis)
	w.Append("marketValue", p.MarketValue)
	w.Append("cashValue", p.CashValue)
	w.Optional("assets", p.Assets)
	return w.MarshalJSON()
}

// encodeLines writes one JSON document per line.
func encodeLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding line %d: %w", i+1, err)
		}
	}
	return nil
}

// EncodeRealizedGains writes the realized gains as JSONL.
func EncodeRealizedGains(w io.Writer, gains []RealizedGain) error { return encodeLines(w, gains) }

// EncodeHistory writes the snapshot history as JSONL.
func EncodeHistory(w io.Writer, history []PortfolioSnapshot) error { return encodeLines(w, history) }

// EncodeHoldings writes one holding per line.
func EncodeHoldings(w io.Writer, h HoldingsSummary) error { return encodeLines(w, h.Holdings) }

// EncodeDaily writes the daily series as JSONL.
func EncodeDaily(w io.Writer, points []DailyPoint) error { return encodeLines(w, points) }
