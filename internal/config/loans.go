package config

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// Loan indicates a mortgage and its parameters.
type Loan struct {
	HousePrice         float64  `yaml:"housePrice"`
	DownPayment        float64  `yaml:"downPayment"`
	AnnualInterestRate float64  `yaml:"annualInterestRate"` // percent
	TermYears          int      `yaml:"termYears"`
	TaxDeduction       bool     `yaml:"taxDeduction"`
	TaxRate            *float64 `yaml:"taxRate,omitempty"`
	MortgageType       string   `yaml:"mortgageType,omitempty"` // annuity, linear
}

// Scenario names a variation on the common loan. Every field that is set
// overrides the common value.
type Scenario struct {
	Name               string   `yaml:"name"`
	Active             bool     `yaml:"active"`
	HousePrice         *float64 `yaml:"housePrice,omitempty"`
	DownPayment        *float64 `yaml:"downPayment,omitempty"`
	AnnualInterestRate *float64 `yaml:"annualInterestRate,omitempty"`
	TermYears          *int     `yaml:"termYears,omitempty"`
	TaxDeduction       *bool    `yaml:"taxDeduction,omitempty"`
	TaxRate            *float64 `yaml:"taxRate,omitempty"`
	MortgageType       *string  `yaml:"mortgageType,omitempty"`
}

// Merge applies the scenario overrides on top of the common loan.
func (s Scenario) Merge(common Loan) Loan {
	loan := common
	if s.HousePrice != nil {
		loan.HousePrice = *s.HousePrice
	}
	if s.DownPayment != nil {
		loan.DownPayment = *s.DownPayment
	}
	if s.AnnualInterestRate != nil {
		loan.AnnualInterestRate = *s.AnnualInterestRate
	}
	if s.TermYears != nil {
		loan.TermYears = *s.TermYears
	}
	if s.TaxDeduction != nil {
		loan.TaxDeduction = *s.TaxDeduction
	}
	if s.TaxRate != nil {
		loan.TaxRate = s.TaxRate
	}
	if s.MortgageType != nil {
		loan.MortgageType = *s.MortgageType
	}
	return loan
}

// Parameters converts the loan into validated amortization parameters. Terms
// longer than constants.MaxTermYears are rejected.
func (loan Loan) Parameters() (amortization.LoanParameters, error) {
	mortgageType, err := amortization.ParseMortgageType(loan.MortgageType)
	if err != nil {
		return amortization.LoanParameters{}, err
	}

	if loan.TermYears > constants.MaxTermYears {
		return amortization.LoanParameters{}, fmt.Errorf("%w: term of %d years exceeds the maximum of %d",
			amortization.ErrInvalidParameter, loan.TermYears, constants.MaxTermYears)
	}

	params, err := amortization.NewLoanParameters(loan.HousePrice, loan.DownPayment, loan.AnnualInterestRate,
		loan.TermYears, loan.TaxDeduction, mortgageType)
	if err != nil {
		return amortization.LoanParameters{}, err
	}

	if loan.TaxRate != nil {
		params.TaxRate = *loan.TaxRate
		if err := params.Validate(); err != nil {
			return amortization.LoanParameters{}, err
		}
	}
	return params, nil
}

// ScenarioParameters resolves the amortization parameters for a scenario.
func (conf *Configuration) ScenarioParameters(scenario Scenario) (amortization.LoanParameters, error) {
	params, err := scenario.Merge(conf.Common).Parameters()
	if err != nil {
		return amortization.LoanParameters{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return params, nil
}
