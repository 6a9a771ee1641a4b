package cryptofolio

import "testing"

func TestPolicy_Classify(t *testing.T) {
	out, in := Q(-1), Q(1)
	both := Policy{WithdrawalsAsTransfers: true, DepositsAsTransfers: true}
	none := Policy{}

	tests := []struct {
		policy Policy
		kind   Kind
		amount Quantity
		want   Disposition
	}{
		// outflows, flag set
		{both, Withdrawal, out, SelfTransfer},
		{both, Transfer, out, SelfTransfer},
		{both, Send, out, SelfTransfer},
		{both, Deposit, out, SelfTransfer},
		{both, Trade, out, Disposal},
		{both, Margin, out, Disposal},
		{both, Settled, out, Disposal},
		{both, Spend, out, Disposal},
		{both, Staking, out, SelfTransfer},
		{both, Other, out, SelfTransfer},
		// outflows, flag unset
		{none, Withdrawal, out, Disposal},
		{none, Send, out, Disposal},
		{none, Trade, out, Disposal},
		{none, Other, out, Disposal},
		// inflows
		{both, Deposit, in, Return},
		{both, Transfer, in, Return},
		{both, Receive, in, Return},
		{both, Trade, in, Acquisition},
		{both, Staking, in, Acquisition},
		{none, Deposit, in, Acquisition},
		{none, Receive, in, Acquisition},
		// nothing moves
		{both, Trade, Q(0), NoMovement},
	}
	for _, tt := range tests {
		got := tt.policy.Classify(tt.kind, tt.amount)
		if got != tt.want {
			t.Errorf("%+v.Classify(%v, %v) = %v, want %v", tt.policy, tt.kind, tt.amount, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"trade", Trade, true},
		{"Withdrawal", Withdrawal, true},
		{" SPEND ", Spend, true},
		{"staking", Staking, true},
		{"withdrawl", Other, false},
		{"", Other, false},
		{"other", Other, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseKind(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
