package cryptofolio

import "strings"

// Kind is the closed set of ledger entry categories the engine knows how to
// classify. Free-form exchange types are mapped to a Kind once, at the
// normalization boundary.
type Kind int

const (
	// Other is any type the normalizer did not recognize.
	Other Kind = iota
	Deposit
	Withdrawal
	Trade
	Margin
	Settled
	Spend
	Receive
	Transfer
	Send
	Staking
	Earn
	Adjustment
	Rollover
)

var kindNames = [...]string{
	Other:      "other",
	Deposit:    "deposit",
	Withdrawal: "withdrawal",
	Trade:      "trade",
	Margin:     "margin",
	Settled:    "settled",
	Spend:      "spend",
	Receive:    "receive",
	Transfer:   "transfer",
	Send:       "send",
	Staking:    "staking",
	Earn:       "earn",
	Adjustment: "adjustment",
	Rollover:   "rollover",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a free-form transaction type to a Kind, ignoring case and
// surrounding spaces. Unknown types map to Other and ok is false, so that
// callers can report them instead of letting a typo fall through silently.
func ParseKind(s string) (k Kind, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if i != int(Other) && name == s {
			return Kind(i), true
		}
	}
	return Other, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown types decode to Other.
func (k *Kind) UnmarshalText(text []byte) error {
	*k, _ = ParseKind(string(text))
	return nil
}
