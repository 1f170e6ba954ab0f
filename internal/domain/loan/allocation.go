package loan

import (
	"fmt"
	"strings"

	"loan-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// ParseMode defaults an empty mode to automatic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAutomatic:
		return ModeAutomatic, nil
	case ModeManual:
		return ModeManual, nil
	}
	return "", fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrInvalidInput, s)
}

type ManualSplit struct {
	Interest  Money
	Principal Money
}

// Allocation is the split of one payment.
//
// Excess is the part of an automatic payment left over once interest and the
// whole remaining principal are covered. It is reported, never applied.
// InterestShortfall is informational and is not carried into later periods.
type Allocation struct {
	InterestDue       Money
	InterestPortion   Money
	PrincipalPortion  Money
	InterestShortfall Money
	Excess            Money
}

// Total is the amount actually applied to the loan.
func (a Allocation) Total() Money {
	return a.InterestPortion.Add(a.PrincipalPortion)
}

// Allocate splits a payment between interest and principal.
//
// In automatic mode interest is always satisfied first. In manual mode the
// caller's split is validated and passed through; amount is ignored.
func Allocate(amount, interestDue, principalRemaining Money, mode Mode, split *ManualSplit) (Allocation, error) {
	if interestDue.IsNegative() {
		return Allocation{}, fmt.Errorf("%w: interest due %s cannot be negative", apperrors.ErrInvalidInput, interestDue)
	}
	if principalRemaining.IsNegative() {
		return Allocation{}, fmt.Errorf("%w: principal remaining %s cannot be negative", apperrors.ErrInvalidInput, principalRemaining)
	}

	switch mode {
	case ModeAutomatic:
		return allocateAutomatic(RoundMoney(amount), interestDue, principalRemaining)
	case ModeManual:
		return allocateManual(split, interestDue, principalRemaining)
	}
	return Allocation{}, fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrInvalidInput, mode)
}

func allocateAutomatic(amount, interestDue, principalRemaining Money) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, fmt.Errorf("%w: payment amount %s must be greater than zero", apperrors.ErrInvalidInput, amount)
	}

	if amount.LessThan(interestDue) {
		return Allocation{
			InterestDue:       interestDue,
			InterestPortion:   amount,
			PrincipalPortion:  decimal.Zero,
			InterestShortfall: interestDue.Sub(amount),
			Excess:            decimal.Zero,
		}, nil
	}

	principal := decimal.Min(amount.Sub(interestDue), principalRemaining)
	return Allocation{
		InterestDue:       interestDue,
		InterestPortion:   interestDue,
		PrincipalPortion:  principal,
		InterestShortfall: decimal.Zero,
		Excess:            amount.Sub(interestDue).Sub(principal),
	}, nil
}

func allocateManual(split *ManualSplit, interestDue, principalRemaining Money) (Allocation, error) {
	if split == nil {
		return Allocation{}, fmt.Errorf("%w: manual mode requires interest and principal amounts", apperrors.ErrInvalidAllocation)
	}
	interest := RoundMoney(split.Interest)
	principal := RoundMoney(split.Principal)

	if interest.IsNegative() {
		return Allocation{}, fmt.Errorf("%w: interest amount %s cannot be negative", apperrors.ErrInvalidAllocation, interest)
	}
	if principal.IsNegative() {
		return Allocation{}, fmt.Errorf("%w: principal amount %s cannot be negative", apperrors.ErrInvalidAllocation, principal)
	}
	if interest.IsZero() && principal.IsZero() {
		return Allocation{}, fmt.Errorf("%w: interest and principal cannot both be zero", apperrors.ErrInvalidAllocation)
	}
	if principal.GreaterThan(principalRemaining) {
		return Allocation{}, fmt.Errorf("%w: principal amount %s exceeds remaining principal %s",
			apperrors.ErrInvalidAllocation, principal, principalRemaining)
	}

	shortfall := decimal.Zero
	if interest.LessThan(interestDue) {
		shortfall = interestDue.Sub(interest)
	}

	return Allocation{
		InterestDue:       interestDue,
		InterestPortion:   interest,
		PrincipalPortion:  principal,
		InterestShortfall: shortfall,
		Excess:            decimal.Zero,
	}, nil
}
