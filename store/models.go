package store

import (
	"maps"
	"slices"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

// Amounts are stored as text, sqlite numeric affinity would turn them into floats.

// Run is one processing of a ledger.
type Run struct {
	ID                     string `gorm:"primaryKey"`
	CreatedAt              time.Time
	Source                 string
	Currency               string
	WithdrawalsAsTransfers bool
	DepositsAsTransfers    bool
	Transactions           int
	Shortfalls             int
	RealizedGain           decimal.Decimal `gorm:"type:text"`

	Gains     []Gain     `gorm:"constraint:OnDelete:CASCADE"`
	Snapshots []Snapshot `gorm:"constraint:OnDelete:CASCADE"`
	Holdings  []Holding  `gorm:"constraint:OnDelete:CASCADE"`
}

// Gain is a realized gain record.
type Gain struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"index;not null"`
	Seq       int
	Time      time.Time
	TxID      string `gorm:"index"`
	Asset     string `gorm:"index"`
	Type      string
	Quantity  decimal.Decimal `gorm:"type:text"`
	Proceeds  decimal.Decimal `gorm:"type:text"`
	CostBasis decimal.Decimal `gorm:"type:text"`
	Gain      decimal.Decimal `gorm:"type:text"`
	Shortfall decimal.Decimal `gorm:"type:text"`
}

// Snapshot is the portfolio state after one transaction.
type Snapshot struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	RunID        string `gorm:"index;not null"`
	Seq          int
	Time         time.Time
	TxID         string
	RealizedGain decimal.Decimal `gorm:"type:text"`
	CostBasis    decimal.Decimal `gorm:"type:text"`
	MarketValue  decimal.Decimal `gorm:"type:text"`
	CashValue    decimal.Decimal `gorm:"type:text"`
	Assets       []SnapshotAsset `gorm:"constraint:OnDelete:CASCADE"`
}

// SnapshotAsset is the position in one asset within a Snapshot.
type SnapshotAsset struct {
	ID          uint `gorm:"primaryKey;autoIncrement"`
	SnapshotID  uint `gorm:"index;not null"`
	Asset       string
	Quantity    decimal.Decimal `gorm:"type:text"`
	CostBasis   decimal.Decimal `gorm:"type:text"`
	MarketValue decimal.Decimal `gorm:"type:text"`
}

// Holding is a position at the end of a run.
type Holding struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RunID       string `gorm:"index;not null"`
	Asset       string
	Quantity    decimal.Decimal `gorm:"type:text"`
	UnitPrice   decimal.Decimal `gorm:"type:text"`
	MarketValue decimal.Decimal `gorm:"type:text"`
	CostBasis   decimal.Decimal `gorm:"type:text"`
}

// NewRun captures the results of a processed engine. The run gets its ID when saved.
func NewRun(e *cryptofolio.Engine, source string) *Run {
	p := e.Policy()
	r := &Run{
		Source:                 source,
		Currency:               e.Currency(),
		WithdrawalsAsTransfers: p.WithdrawalsAsTransfers,
		DepositsAsTransfers:    p.DepositsAsTransfers,
		Transactions:           e.Stats().Transactions,
		Shortfalls:             len(e.Shortfalls()),
		RealizedGain:           e.TotalRealizedGain().Decimal(),
	}
	for i, g := range e.RealizedGains() {
		r.Gains = append(r.Gains, Gain{
			Seq:       i,
			Time:      g.Time.UTC(),
			TxID:      g.TxID,
			Asset:     g.Asset,
			Type:      g.Type,
			Quantity:  g.Quantity.Decimal(),
			Proceeds:  g.Proceeds.Decimal(),
			CostBasis: g.CostBasis.Decimal(),
			Gain:      g.Gain.Decimal(),
			Shortfall: g.Shortfall.Decimal(),
		})
	}
	for i, s := range e.History() {
		snap := Snapshot{
			Seq:          i,
			Time:         s.Time.UTC(),
			TxID:         s.TxID,
			RealizedGain: s.RealizedGain.Decimal(),
			CostBasis:    s.CostBasis.Decimal(),
			MarketValue:  s.MarketValue.Decimal(),
			CashValue:    s.CashValue.Decimal(),
		}
		for _, asset := range slices.Sorted(maps.Keys(s.Assets)) {
			a := s.Assets[asset]
			snap.Assets = append(snap.Assets, SnapshotAsset{
				Asset:       asset,
				Quantity:    a.Quantity.Decimal(),
				CostBasis:   a.CostBasis.Decimal(),
				MarketValue: a.MarketValue.Decimal(),
			})
		}
		r.Snapshots = append(r.Snapshots, snap)
	}
	for _, h := range e.Holdings().Holdings {
		r.Holdings = append(r.Holdings, Holding{
			Asset:       h.Asset,
			Quantity:    h.Quantity.Decimal(),
			UnitPrice:   h.UnitPrice.Decimal(),
			MarketValue: h.MarketValue.Decimal(),
			CostBasis:   h.CostBasis.Decimal(),
		})
	}
	return r
}
