package cryptofolio

import "time"

// RealizedGain records the gain or loss realized by one disposal.
type RealizedGain struct {
	Time      time.Time
	TxID      string
	Asset     string
	Quantity  Quantity // quantity disposed
	Proceeds  Money
	CostBasis Money // cost of the lots actually consumed
	Gain      Money // Proceeds - CostBasis
	Type      string
	// Shortfall is the part of Quantity that no open lot could match. It is
	// zero unless the ledger disposes of more than it ever acquired.
	Shortfall Quantity
	Lots      []LotMatch
}

// Shortfall reports a disposal that requested more than the inventory held.
type Shortfall struct {
	Time      time.Time
	TxID      string
	Asset     string
	Requested Quantity
	Removed   Quantity
}

// Missing returns the quantity that could not be matched.
func (s Shortfall) Missing() Quantity { return s.Requested.Sub(s.Removed) }

// realize consumes the disposed quantity from inv and computes the realized gain.
func realize(inv *Inventory, tx Transaction, proceeds Money) RealizedGain {
	quantity := tx.Amount.Abs()
	c := inv.Consume(tx.Asset, quantity)
	return RealizedGain{
		Time:      tx.Time,
		TxID:      tx.TxID,
		Asset:     tx.Asset,
		Quantity:  quantity,
		Proceeds:  proceeds,
		CostBasis: c.CostBasis,
		Gain:      proceeds.Sub(c.CostBasis),
		Type:      tx.Type,
		Shortfall: c.Shortfall(),
		Lots:      c.Matches,
	}
}

// TotalGain sums the gains of records.
func TotalGain(records []RealizedGain, currency string) Money {
	total := M(0, currency)
	for _, r := range records {
		total = total.Add(r.Gain)
	}
	return total
}
