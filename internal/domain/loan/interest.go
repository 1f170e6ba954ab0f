package loan

import (
	"fmt"

	"loan-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type Money = decimal.Decimal

// MoneyPlaces is the scale every stored or returned amount is rounded to.
// Rounding is half away from zero, which is half-up for non-negative money.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}

// InterestDue is the interest owed for one period on the remaining principal.
func InterestDue(principalRemaining, ratePercent Money) (Money, error) {
	if principalRemaining.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal remaining %s cannot be negative", apperrors.ErrInvalidInput, principalRemaining)
	}
	if !ratePercent.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: interest rate %s must be greater than zero", apperrors.ErrInvalidInput, ratePercent)
	}
	return RoundMoney(principalRemaining.Mul(ratePercent).Div(hundred)), nil
}
