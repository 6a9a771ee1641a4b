package cryptofolio

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m      Money
		want   string
		signed string
	}{
		{USD(1234.567), "$1,234.57", "+$1,234.57"},
		{USD(-12.5), "-$12.50", "-$12.50"},
		{USD(0.001), "$0.00", "-"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.m.Decimal(), got, tt.want)
		}
		if got := tt.m.SignedString(); got != tt.signed {
			t.Errorf("%v.SignedString() = %q, want %q", tt.m.Decimal(), got, tt.signed)
		}
	}
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("USD + EUR did not panic")
		}
	}()
	USD(1).Add(M(1, "EUR"))
}

func TestMoney_DivByZero(t *testing.T) {
	assertMoney(t, "USD(10).Div(0)", USD(10).Div(Q(0)), USD(0))
	assertMoney(t, "USD(10).Div(4)", USD(10).Div(Q(4)), USD(2.5))
}
