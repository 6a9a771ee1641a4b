package cryptofolio

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
)

// ErrAlreadyRun is returned when Run is called more than once on an Engine.
var ErrAlreadyRun = errors.New("ledger already processed")

// Engine replays a ledger in chronological order and keeps the FIFO lot
// inventory, the realized gains and one snapshot per transaction.
//
// An Engine processes its ledger exactly once. It is not safe for concurrent use.
type Engine struct {
	txs      []Transaction
	policy   Policy
	currency string
	fiat     map[string]bool // symbols tracked as cash
	par      map[string]bool // cash symbols valued 1:1 in currency
	logger   *slog.Logger

	done       bool
	inventory  *Inventory
	prices     map[string]Money // last price implied by the ledger itself
	cash       map[string]Quantity
	realized   Money
	gains      []RealizedGain
	history    []PortfolioSnapshot
	shortfalls []Shortfall
	stats      Stats
}

// Stats counts how transactions were interpreted.
type Stats struct {
	Transactions int
	Cash         int
	Dispositions map[Disposition]int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy sets the transfer policy, DefaultPolicy otherwise.
func WithPolicy(p Policy) Option { return func(e *Engine) { e.policy = p } }

// WithFiat replaces the set of symbols tracked as cash balances instead of lots.
func WithFiat(symbols ...string) Option {
	return func(e *Engine) {
		e.fiat = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			e.fiat[s] = true
		}
	}
}

// WithReportingCurrency sets the currency of all values. Cash in currency,
// or in one of its aliases, is valued at par.
func WithReportingCurrency(currency string, aliases ...string) Option {
	return func(e *Engine) {
		e.currency = currency
		e.par = map[string]bool{currency: true}
		for _, a := range aliases {
			e.par[a] = true
		}
	}
}

// WithLogger sets the logger used to report data quality issues.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine creates an engine over a copy of txs sorted by time. Ties keep
// their input order, which is only as good as the source timestamps.
func NewEngine(txs []Transaction, opts ...Option) *Engine {
	e := &Engine{
		txs:    slices.Clone(txs),
		policy: DefaultPolicy,
		logger: slog.New(slog.DiscardHandler),
	}
	WithFiat("USD", "ZUSD", "EUR", "ZEUR")(e)
	WithReportingCurrency("USD", "ZUSD")(e)
	for _, opt := range opts {
		opt(e)
	}
	slices.SortStableFunc(e.txs, func(a, b Transaction) int { return a.Time.Compare(b.Time) })

	e.inventory = NewInventory(e.currency)
	e.prices = make(map[string]Money)
	e.cash = make(map[string]Quantity)
	e.realized = M(0, e.currency)
	e.stats.Dispositions = make(map[Disposition]int)
	return e
}

// Run processes every transaction. It can only be called once.
func (e *Engine) Run() error {
	if e.done {
		return ErrAlreadyRun
	}
	e.done = true
	e.history = make([]PortfolioSnapshot, 0, len(e.txs))
	for _, tx := range e.txs {
		e.process(tx)
		e.history = append(e.history, e.snapshot(tx))
	}
	e.logger.Info("ledger processed",
		"transactions", len(e.txs),
		"disposals", len(e.gains),
		"shortfalls", len(e.shortfalls),
		"realized", e.realized.Decimal().String(),
	)
	return nil
}

func (e *Engine) process(tx Transaction) {
	e.stats.Transactions++
	if e.fiat[tx.Asset] {
		e.cash[tx.Asset] = e.cash[tx.Asset].Add(tx.Amount)
		e.stats.Cash++
		return
	}

	d := e.policy.Classify(tx.Kind, tx.Amount)
	e.stats.Dispositions[d]++
	value, known := tx.fiatValue(e.currency)

	switch d {
	case Acquisition:
		e.inventory.Acquire(tx.Asset, tx.Amount, value.Div(tx.Amount), tx.Time)
	case Return:
		e.logger.Debug("inflow treated as a return of transferred funds", "txid", tx.TxID, "asset", tx.Asset, "amount", tx.Amount.String())
		return
	case SelfTransfer:
		e.logger.Debug("outflow treated as a transfer", "txid", tx.TxID, "asset", tx.Asset, "amount", tx.Amount.String())
	case Disposal:
		r := realize(e.inventory, tx, value)
		if r.Shortfall.IsPositive() {
			s := Shortfall{Time: tx.Time, TxID: tx.TxID, Asset: tx.Asset, Requested: r.Quantity, Removed: r.Quantity.Sub(r.Shortfall)}
			e.shortfalls = append(e.shortfalls, s)
			e.logger.Warn("disposal exceeds inventory",
				"txid", tx.TxID, "asset", tx.Asset, "time", tx.Time,
				"requested", s.Requested.String(), "available", s.Removed.String())
		}
		e.gains = append(e.gains, r)
		e.realized = e.realized.Add(r.Gain)
	case NoMovement:
		return
	}
	// transfers only reprice the asset when their value is known.
	if known || d != SelfTransfer {
		e.prices[tx.Asset] = value.Div(tx.Amount.Abs())
	}
}

// price returns the last price of asset implied by the ledger, zero if none.
func (e *Engine) price(asset string) Money {
	if p, ok := e.prices[asset]; ok {
		return p
	}
	return M(0, e.currency)
}

func (e *Engine) snapshot(tx Transaction) PortfolioSnapshot {
	s := PortfolioSnapshot{
		Time:         tx.Time,
		TxID:         tx.TxID,
		RealizedGain: e.realized,
		CostBasis:    M(0, e.currency),
		MarketValue:  M(0, e.currency),
		CashValue:    M(0, e.currency),
		Cash:         maps.Clone(e.cash),
		Assets:       make(map[string]AssetState),
	}
	for asset := range e.inventory.Assets() {
		quantity, cost := e.inventory.Position(asset)
		value := e.price(asset).Mul(quantity)
		s.Assets[asset] = AssetState{Quantity: quantity, CostBasis: cost, MarketValue: value}
		s.CostBasis = s.CostBasis.Add(cost)
		s.MarketValue = s.MarketValue.Add(value)
	}
	for symbol, balance := range e.cash {
		if e.par[symbol] {
			s.CashValue = s.CashValue.Add(M(balance.Decimal(), e.currency))
		}
	}
	s.CostBasis = s.CostBasis.Add(s.CashValue)
	s.MarketValue = s.MarketValue.Add(s.CashValue)
	return s
}

// Currency returns the reporting currency.
func (e *Engine) Currency() string { return e.currency }

// Policy returns the transfer policy in use.
func (e *Engine) Policy() Policy { return e.policy }

// Transactions returns the ledger in processing order.
func (e *Engine) Transactions() []Transaction { return slices.Clone(e.txs) }

// RealizedGains returns one record per disposal, in processing order.
func (e *Engine) RealizedGains() []RealizedGain { return slices.Clone(e.gains) }

// TotalRealizedGain returns the cumulative realized gain.
func (e *Engine) TotalRealizedGain() Money { return e.realized }

// History returns one snapshot per processed transaction, in processing order.
func (e *Engine) History() []PortfolioSnapshot {
	res := make([]PortfolioSnapshot, len(e.history))
	for i, s := range e.history {
		res[i] = s.clone()
	}
	return res
}

// Shortfalls returns the disposals that could not be fully matched with lots.
func (e *Engine) Shortfalls() []Shortfall { return slices.Clone(e.shortfalls) }

// Cash returns the cash balances per fiat symbol.
func (e *Engine) Cash() map[string]Quantity { return maps.Clone(e.cash) }

// LastPrices returns the last unit price of each asset implied by the ledger.
func (e *Engine) LastPrices() map[string]Money { return maps.Clone(e.prices) }

// Lots returns the open lots of asset, oldest first.
func (e *Engine) Lots(asset string) []Lot { return e.inventory.Lots(asset) }

// Position returns the quantity and cost basis held for asset.
func (e *Engine) Position(asset string) (Quantity, Money) { return e.inventory.Position(asset) }

// Stats returns how transactions were interpreted.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Dispositions = maps.Clone(e.stats.Dispositions)
	return s
}
