// Package amortization computes mortgage repayment schedules under annuity and
// linear repayment, applies the mortgage interest deduction and aggregates the
// monthly schedule into yearly summaries.
package amortization

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// ErrInvalidParameter is wrapped by every error caused by loan parameters that
// would make the schedule ill-defined.
var ErrInvalidParameter = errors.New("invalid parameter")

// MortgageType selects the repayment policy.
type MortgageType int

const (
	// Annuity keeps the gross monthly payment fixed.
	Annuity MortgageType = iota
	// Linear keeps the principal portion fixed.
	Linear
)

// String returns the configuration name of the mortgage type.
func (t MortgageType) String() string {
	switch t {
	case Annuity:
		return constants.MortgageTypeAnnuity
	case Linear:
		return constants.MortgageTypeLinear
	default:
		return fmt.Sprintf("MortgageType(%d)", int(t))
	}
}

// ParseMortgageType parses "annuity" or "linear", ignoring case and
// surrounding whitespace. An empty string selects Annuity.
func ParseMortgageType(value string) (MortgageType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", constants.MortgageTypeAnnuity:
		return Annuity, nil
	case constants.MortgageTypeLinear:
		return Linear, nil
	default:
		return Annuity, fmt.Errorf("%w: unknown mortgage type %q, expected %s or %s",
			ErrInvalidParameter, value, constants.MortgageTypeAnnuity, constants.MortgageTypeLinear)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t MortgageType) MarshalText() ([]byte, error) {
	if t != Annuity && t != Linear {
		return nil, fmt.Errorf("%w: unknown mortgage type %d", ErrInvalidParameter, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *MortgageType) UnmarshalText(text []byte) error {
	parsed, err := ParseMortgageType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LoanParameters holds the inputs of one schedule calculation.
type LoanParameters struct {
	Principal                 float64      `json:"principal"`
	AnnualInterestRatePercent float64      `json:"annualInterestRate"`
	TermYears                 int          `json:"termYears"`
	ApplyTaxDeduction         bool         `json:"taxDeduction"`
	TaxRate                   float64      `json:"taxRate"`
	MortgageType              MortgageType `json:"mortgageType"`
}

// NewLoanParameters builds loan parameters from a house price and down
// payment using the default tax rate.
func NewLoanParameters(housePrice, downPayment, annualInterestRatePercent float64, termYears int,
	applyTaxDeduction bool, mortgageType MortgageType) (LoanParameters, error) {
	if downPayment < 0 {
		return LoanParameters{}, fmt.Errorf("%w: down payment must not be negative, got %.2f",
			ErrInvalidParameter, downPayment)
	}
	if downPayment > housePrice {
		return LoanParameters{}, fmt.Errorf("%w: down payment %.2f exceeds house price %.2f",
			ErrInvalidParameter, downPayment, housePrice)
	}

	params := LoanParameters{
		Principal:                 housePrice - downPayment,
		AnnualInterestRatePercent: annualInterestRatePercent,
		TermYears:                 termYears,
		ApplyTaxDeduction:         applyTaxDeduction,
		TaxRate:                   constants.DefaultTaxRate,
		MortgageType:              mortgageType,
	}
	if err := params.Validate(); err != nil {
		return LoanParameters{}, err
	}
	return params, nil
}

// Validate checks the preconditions of the schedule recurrence.
func (p LoanParameters) Validate() error {
	if p.TermYears <= 0 {
		return fmt.Errorf("%w: term must be a positive number of years, got %d", ErrInvalidParameter, p.TermYears)
	}
	if p.TermYears > math.MaxInt/constants.MonthsPerYear {
		return fmt.Errorf("%w: term of %d years overflows the number of payments", ErrInvalidParameter, p.TermYears)
	}
	if !mathutil.IsFinite(p.Principal) || p.Principal < 0 {
		return fmt.Errorf("%w: principal must be a non-negative amount, got %v", ErrInvalidParameter, p.Principal)
	}
	if !mathutil.IsFinite(p.AnnualInterestRatePercent) || p.AnnualInterestRatePercent < 0 {
		return fmt.Errorf("%w: annual interest rate must not be negative, got %v",
			ErrInvalidParameter, p.AnnualInterestRatePercent)
	}
	if !mathutil.IsFinite(p.TaxRate) || p.TaxRate < 0 || p.TaxRate > 1 {
		return fmt.Errorf("%w: tax rate must be between 0 and 1, got %v", ErrInvalidParameter, p.TaxRate)
	}
	if p.MortgageType != Annuity && p.MortgageType != Linear {
		return fmt.Errorf("%w: unknown mortgage type %d", ErrInvalidParameter, int(p.MortgageType))
	}
	return nil
}

// MonthlyInterestRate returns the periodic rate as a fraction.
func (p LoanParameters) MonthlyInterestRate() float64 {
	return mathutil.PercentToMonthlyRate(p.AnnualInterestRatePercent)
}

// NumPayments returns the number of monthly periods in the term.
func (p LoanParameters) NumPayments() int {
	return p.TermYears * constants.MonthsPerYear
}
