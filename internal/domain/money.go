package domain

import "fmt"

// DefaultCurrency is the currency applied when a request does not name one.
const DefaultCurrency = "ZAR"

// Money is an exact monetary amount in minor units (cents), tagged with an
// ISO 4217 currency code. All arithmetic is integer arithmetic.
type Money struct {
	Cents    int64
	Currency string
}

// NewMoney creates a positive amount. Zero or negative cents are rejected.
func NewMoney(cents int64, currency string) (Money, error) {
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Cents: cents, Currency: currency}, nil
}

// Sub returns m minus other. Currencies are the caller's responsibility.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// String formats the amount in major units, e.g. "ZAR 175.50".
func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", m.Currency, sign, cents/100, cents%100)
}

// SplitFee splits the amount into a platform fee and the remaining payout.
// The fee is feeBps basis points of the amount, rounded half-up to a cent,
// so fee + payout always equals the amount exactly.
func (m Money) SplitFee(feeBps int64) (fee, payout Money) {
	fee = Money{Cents: (m.Cents*feeBps + 5000) / 10000, Currency: m.Currency}
	return fee, m.Sub(fee)
}
