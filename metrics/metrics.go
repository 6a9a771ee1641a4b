// Package metrics exposes the results of a ledger run as Prometheus metrics,
// written in the node exporter textfile format.
package metrics

import (
	"github.com/etnz/cryptofolio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics of one or more ledger runs.
type Metrics struct {
	reg *prometheus.Registry

	Transactions   *prometheus.CounterVec
	CashMovements  prometheus.Counter
	GainRecords    *prometheus.CounterVec
	Shortfalls     *prometheus.CounterVec
	RealizedGain   prometheus.Gauge
	CostBasis      prometheus.Gauge
	MarketValue    prometheus.Gauge
	AssetQuantity  *prometheus.GaugeVec
	AssetCostBasis *prometheus.GaugeVec
}

// New creates the metrics in their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Transactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfo_transactions_total",
				Help: "Number of ledger transactions processed, by disposition",
			},
			[]string{"disposition"},
		),
		CashMovements: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cfo_cash_movements_total",
				Help: "Number of ledger transactions on fiat balances",
			},
		),
		GainRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfo_realized_gain_records_total",
				Help: "Number of disposals, by asset",
			},
			[]string{"asset"},
		),
		Shortfalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfo_shortfalls_total",
				Help: "Number of disposals exceeding the inventory, by asset",
			},
			[]string{"asset"},
		),
		RealizedGain: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "cfo_realized_gain",
				Help: "Cumulative realized gain in the reporting currency",
			},
		),
		CostBasis: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "cfo_cost_basis",
				Help: "Cost basis of open lots and cash",
			},
		),
		MarketValue: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "cfo_market_value",
				Help: "Market value of open lots and cash",
			},
		),
		AssetQuantity: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cfo_asset_quantity",
				Help: "Quantity held, by asset",
			},
			[]string{"asset"},
		),
		AssetCostBasis: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cfo_asset_cost_basis",
				Help: "Cost basis of the open lots, by asset",
			},
			[]string{"asset"},
		),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Observe records the results of a processed engine.
func (m *Metrics) Observe(e *cryptofolio.Engine) {
	s := e.Stats()
	for d, n := range s.Dispositions {
		m.Transactions.WithLabelValues(d.String()).Add(float64(n))
	}
	m.CashMovements.Add(float64(s.Cash))
	for _, g := range e.RealizedGains() {
		m.GainRecords.WithLabelValues(g.Asset).Inc()
	}
	for _, sf := range e.Shortfalls() {
		m.Shortfalls.WithLabelValues(sf.Asset).Inc()
	}
	m.RealizedGain.Set(e.TotalRealizedGain().Float())
	if h := e.History(); len(h) > 0 {
		last := h[len(h)-1]
		m.CostBasis.Set(last.CostBasis.Float())
		m.MarketValue.Set(last.MarketValue.Float())
	}
	m.AssetQuantity.Reset()
	m.AssetCostBasis.Reset()
	for _, x := range e.Holdings().Holdings {
		m.AssetQuantity.WithLabelValues(x.Asset).Set(x.Quantity.Float())
		m.AssetCostBasis.WithLabelValues(x.Asset).Set(x.CostBasis.Float())
	}
}

// WriteFile writes the metrics to path, atomically, for the node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
