package domain

import "testing"

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(17550, "ZAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents != 17550 || m.Currency != "ZAR" {
		t.Errorf("unexpected money: %+v", m)
	}
}

func TestNewMoney_DefaultsCurrency(t *testing.T) {
	m, err := NewMoney(100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Currency != DefaultCurrency {
		t.Errorf("expected %s, got %s", DefaultCurrency, m.Currency)
	}
}

func TestNewMoney_RejectsNonPositive(t *testing.T) {
	if _, err := NewMoney(0, "ZAR"); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := NewMoney(-500, "ZAR"); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestMoney_SplitFee(t *testing.T) {
	testCases := []struct {
		name       string
		cents      int64
		feeBps     int64
		wantFee    int64
		wantPayout int64
	}{
		{"one cent", 1, 1500, 0, 1},
		{"hundred rand", 10000, 1500, 1500, 8500},
		{"rounds half up", 99999, 1500, 15000, 84999},
		{"typical fare", 17550, 1500, 2633, 14917},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Money{Cents: tc.cents, Currency: "ZAR"}
			fee, payout := m.SplitFee(tc.feeBps)

			if fee.Cents != tc.wantFee {
				t.Errorf("fee = %d, want %d", fee.Cents, tc.wantFee)
			}
			if payout.Cents != tc.wantPayout {
				t.Errorf("payout = %d, want %d", payout.Cents, tc.wantPayout)
			}
			if fee.Cents+payout.Cents != tc.cents {
				t.Errorf("fee + payout = %d, want exactly %d", fee.Cents+payout.Cents, tc.cents)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	m := Money{Cents: 17550, Currency: "ZAR"}
	if got := m.String(); got != "ZAR 175.50" {
		t.Errorf("expected ZAR 175.50, got %s", got)
	}

	neg := Money{Cents: -5, Currency: "ZAR"}
	if got := neg.String(); got != "ZAR -0.05" {
		t.Errorf("expected ZAR -0.05, got %s", got)
	}
}

func TestMoney_Sub(t *testing.T) {
	a := Money{Cents: 10000, Currency: "ZAR"}
	b := Money{Cents: 1500, Currency: "ZAR"}

	diff := a.Sub(b)
	if diff.Cents != 8500 || diff.Currency != "ZAR" {
		t.Errorf("unexpected result: %+v", diff)
	}
}
