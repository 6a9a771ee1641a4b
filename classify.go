package cryptofolio

// Disposition is what a movement means for the inventory.
type Disposition int

const (
	// NoMovement is a zero amount entry, it changes nothing.
	NoMovement Disposition = iota
	// Acquisition creates a new lot.
	Acquisition
	// Return is an inflow of assets that were previously transferred out
	// and never left the inventory: no lot is created.
	Return
	// Disposal is a taxable outflow: lots are consumed and a gain is realized.
	Disposal
	// SelfTransfer is an outflow to a wallet of the same owner: lots are retained.
	SelfTransfer
)

func (d Disposition) String() string {
	switch d {
	case NoMovement:
		return "none"
	case Acquisition:
		return "acquisition"
	case Return:
		return "return"
	case Disposal:
		return "disposal"
	case SelfTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Policy states which wallet the ledger represents.
type Policy struct {
	// WithdrawalsAsTransfers treats outflows as moves to self custody
	// (lots retained) unless they are trades or spends.
	WithdrawalsAsTransfers bool
	// DepositsAsTransfers treats deposits as funds coming back from self
	// custody, already present in the inventory.
	DepositsAsTransfers bool
}

// DefaultPolicy treats withdrawals as transfers and deposits as acquisitions.
var DefaultPolicy = Policy{WithdrawalsAsTransfers: true}

// Classify decides the disposition of a movement of amount with the given kind.
func (p Policy) Classify(kind Kind, amount Quantity) Disposition {
	switch {
	case amount.IsPositive():
		if p.DepositsAsTransfers {
			switch kind {
			case Deposit, Transfer, Receive:
				return Return
			}
		}
		return Acquisition
	case amount.IsNegative():
		if !p.WithdrawalsAsTransfers {
			return Disposal
		}
		switch kind {
		case Trade, Margin, Settled, Spend:
			return Disposal
		case Withdrawal, Transfer, Send, Deposit:
			return SelfTransfer
		default:
			return SelfTransfer
		}
	default:
		return NoMovement
	}
}
