package testutil

import (
	"fmt"
	"testing"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
)

func result(name string, principal float64) calculator.Result {
	return calculator.Result{
		Name: name,
		Calculation: &amortization.Calculation{
			Parameters: amortization.LoanParameters{Principal: principal},
		},
	}
}

func TestFindScenario(t *testing.T) {
	results := []calculator.Result{
		result("Scenario A", 1000),
		result("Scenario B", 2000),
		result("Another Scenario", 3000),
	}

	tests := []struct {
		name              string
		searchName        string
		expectFound       bool
		expectedPrincipal float64
	}{
		{"Find existing scenario A", "Scenario A", true, 1000},
		{"Find existing scenario B", "Scenario B", true, 2000},
		{"Find scenario with longer name", "Another Scenario", true, 3000},
		{"Search for non-existent scenario", "Non-existent", false, 0},
		{"Empty search name", "", false, 0},
		{"Case sensitive search", "scenario a", false, 0},
		{"Partial name match", "Scenario", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindScenario(results, tt.searchName)

			if !tt.expectFound {
				if found != nil {
					t.Errorf("FindScenario() expected nil for scenario '%s' but got '%s'", tt.searchName, found.Name)
				}
				return
			}
			if found == nil {
				t.Fatalf("FindScenario() expected to find scenario '%s' but got nil", tt.searchName)
			}
			if found.Parameters.Principal != tt.expectedPrincipal {
				t.Errorf("FindScenario() returned principal %v, expected %v",
					found.Parameters.Principal, tt.expectedPrincipal)
			}
		})
	}
}

func TestFindScenarioNilResults(t *testing.T) {
	if found := FindScenario(nil, "Any Scenario"); found != nil {
		t.Errorf("FindScenario() with nil results should return nil, got %v", found)
	}
}

func TestFindScenarioReturnsFirstMatch(t *testing.T) {
	results := []calculator.Result{
		result("Duplicate", 1000),
		result("Duplicate", 2000),
	}

	found := FindScenario(results, "Duplicate")
	if found == nil {
		t.Fatal("FindScenario() returned nil")
	}
	if &results[0] != found {
		t.Errorf("FindScenario() should return pointer to first matching element")
	}
}

func TestFindScenarioLargeSlice(t *testing.T) {
	const numScenarios = 1000
	results := make([]calculator.Result, numScenarios)
	for i := range results {
		results[i] = result(fmt.Sprintf("Scenario %d", i), float64(i*100))
	}

	found := FindScenario(results, "Scenario 500")
	if found == nil {
		t.Fatal("FindScenario() should find 'Scenario 500' in large slice")
	}
	if found.Parameters.Principal != 50000 {
		t.Errorf("FindScenario() returned wrong principal: got %v, expected 50000", found.Parameters.Principal)
	}
}
