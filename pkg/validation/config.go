// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// ScenarioConfig carries the scenario fields that warnings are derived from.
type ScenarioConfig struct {
	Name               string
	Active             bool
	HousePrice         float64
	DownPayment        float64
	AnnualInterestRate float64
	TermYears          int
	TaxDeduction       bool
}

// ConfigValidator collects non-fatal issues in a configuration.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

// ValidateTaxDeductionTerm warns when the deduction is claimed for longer
// than it is granted.
func ValidateTaxDeductionTerm(scenarioName string, termYears int, taxDeduction bool) string {
	if taxDeduction && termYears > constants.MaxTaxDeductionYears {
		return fmt.Sprintf("Scenario '%s' applies the tax deduction over %d years but it is granted for at most %d years",
			scenarioName, termYears, constants.MaxTaxDeductionYears)
	}
	return ""
}

// ValidateInterestRate warns on rates that are likely a typo.
func ValidateInterestRate(scenarioName string, annualInterestRate float64) string {
	if annualInterestRate > constants.HighInterestRateWarning {
		return fmt.Sprintf("Scenario '%s' has an unusually high interest rate of %.2f%%",
			scenarioName, annualInterestRate)
	}
	if annualInterestRate > 0 && annualInterestRate < 0.1 {
		return fmt.Sprintf("Scenario '%s' has an interest rate of %.4f%%; rates are given in percent, not as a fraction",
			scenarioName, annualInterestRate)
	}
	return ""
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for _, scenario := range cv.Scenarios {
		key := strings.ToLower(strings.TrimSpace(scenario.Name))
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[key] = true

		if !scenario.Active {
			continue
		}
		active++

		if warning := ValidateTaxDeductionTerm(scenario.Name, scenario.TermYears, scenario.TaxDeduction); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidateInterestRate(scenario.Name, scenario.AnnualInterestRate); warning != "" {
			warnings = append(warnings, warning)
		}
		if scenario.HousePrice > 0 && scenario.DownPayment == scenario.HousePrice {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a down payment covering the full house price", scenario.Name))
		}
	}

	if len(cv.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No active scenarios configured - nothing will be calculated")
	}

	return warnings
}
