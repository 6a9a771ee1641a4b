package cryptofolio

import "time"

// Transaction is one normalized ledger entry. It is produced upstream (see
// the kraken package) and only ever read by the Engine.
//
// Amount is signed: positive for an inflow of Asset, negative for an
// outflow. FiatValue is the total value of the movement in the reporting
// currency; its sign is not trusted and the engine uses its absolute value.
type Transaction struct {
	TxID       string
	RefID      string
	Time       time.Time
	Type       string // raw type as found in the source, kept for reporting
	Kind       Kind
	Subtype    string
	AssetClass string
	Asset      string // canonical symbol e.g. "BTC"
	Amount     Quantity
	Fee        Quantity
	Balance    *Quantity // running balance, when the source provides it
	FiatValue  *Money
	SpotPrice  *Money
}

// fiatValue returns the absolute fiat value of the movement in currency, and
// whether it was known. The upstream normalizer is trusted to have expressed
// it in the reporting currency.
func (tx Transaction) fiatValue(currency string) (Money, bool) {
	if tx.FiatValue == nil {
		return M(0, currency), false
	}
	return M(tx.FiatValue.Decimal().Abs(), currency), true
}
