package boutik

import (
	money "github.com/Rhymond/go-money"
)

// Money is a monetary amount in whole CFA francs, the smallest unit in use.
// Arithmetic stays on plain integers; formatting goes through go-money.
type Money int64

// currencyCode is the ISO code used for display. XOF has no minor unit, so
// a Money value maps one-to-one to the go-money amount.
const currencyCode = "XOF"

// String renders the amount with the XOF formatter, e.g. "50,000 CFA".
func (m Money) String() string {
	return money.New(int64(m), currencyCode).Display()
}

// SignedString renders the amount with an explicit sign, and zero as "-".
func (m Money) SignedString() string {
	switch {
	case m == 0:
		return "-"
	case m > 0:
		return "+" + m.String()
	default:
		return m.String()
	}
}
