package service

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input error so handlers can map it to 400.
var ErrValidation = errors.New("invalid input")

var (
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidBalance    = fmt.Errorf("%w: balance must not be negative", ErrValidation)
	ErrInvalidRate       = fmt.Errorf("%w: apr must not be negative", ErrValidation)
	ErrInvalidTerm       = fmt.Errorf("%w: term must be at least one month", ErrValidation)
	ErrInvalidPayment    = fmt.Errorf("%w: payment must be greater than zero", ErrValidation)
	ErrInvalidStrategy   = fmt.Errorf("%w: unknown strategy", ErrValidation)
	ErrInvalidPreference = fmt.Errorf("%w: unknown preference", ErrValidation)
	ErrInvalidPurchase   = fmt.Errorf("%w: future purchase needs month >= 1 and amount >= 0", ErrValidation)
	ErrInvalidHorizon    = fmt.Errorf("%w: max months out of range", ErrValidation)
	ErrInvalidTarget     = fmt.Errorf("%w: target months out of range", ErrValidation)
	ErrNoDebts           = fmt.Errorf("%w: no debts provided", ErrValidation)
	ErrEmptyDebtName     = fmt.Errorf("%w: debt name must not be empty", ErrValidation)
	ErrDuplicateDebtName = fmt.Errorf("%w: duplicate debt name", ErrValidation)
	ErrBudgetTooLow      = fmt.Errorf("%w: monthly budget does not cover the minimum payments", ErrValidation)
	ErrNoCandidates      = fmt.Errorf("%w: no target fits the maximum monthly payment", ErrValidation)
)

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
