// Package output provides utilities for formatting and displaying mortgage results.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryLine returns the headline payment line for a calculation.
func SummaryLine(summary amortization.Summary) string {
	kind := "gross"
	if summary.TaxDeduction {
		kind = "net"
	}
	return fmt.Sprintf("Average monthly payment (%s): %s", kind, format.Currency(summary.AverageMonthlyPayment))
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []calculator.Result) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s (%s) ---\n", result.Name, result.Parameters.MortgageType)
		_, _ = fmt.Fprintf(w, "%s\n", SummaryLine(result.Summary))
		_, _ = fmt.Fprintf(w, "Year | Total Gross | Total Net | Principal | Interest Net | Balance\n")
		_, _ = fmt.Fprintf(w, "____ | ___________ | _________ | _________ | ____________ | _______\n")
		for _, year := range result.Yearly {
			_, _ = p.Fprintf(w, "%4d | €%.2f | €%.2f | €%.2f | €%.2f | €%.2f\n",
				year.Year, year.AverageGrossPayment, year.AverageNetPayment, year.AveragePrincipal,
				year.AverageNetInterest, year.AverageBalance)
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format, one row per scenario year.
func CsvFormat(w io.Writer, results []calculator.Result) {
	_, _ = fmt.Fprintf(w, `"scenario","mortgage type","year","total gross","total net","principal","interest net","balance"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, result := range results {
		for _, year := range result.Yearly {
			_, _ = fmt.Fprintf(w, `"%s","%s","%d","%s","%s","%s","%s","%s"`,
				csvEscape(result.Name), result.Parameters.MortgageType, year.Year,
				format.Plain(year.AverageGrossPayment), format.Plain(year.AverageNetPayment),
				format.Plain(year.AveragePrincipal), format.Plain(year.AverageNetInterest),
				format.Plain(year.AverageBalance))
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// csvEscape doubles embedded quotes for a quoted CSV cell.
func csvEscape(value string) string {
	return strings.ReplaceAll(value, `"`, `""`)
}

// CsvString returns the CSV output as a string.
func CsvString(results []calculator.Result) string {
	var buf bytes.Buffer
	CsvFormat(&buf, results)
	return buf.String()
}

// ScenarioReport is the machine-readable view of one scenario.
type ScenarioReport struct {
	Name        string                       `json:"name"`
	Parameters  amortization.LoanParameters  `json:"parameters"`
	SummaryLine string                       `json:"summaryLine"`
	Summary     amortization.Summary         `json:"summary"`
	Yearly      []amortization.YearlySummary `json:"yearly"`
	Chart       Chart                        `json:"chart"`
}

// NewScenarioReport builds the report for a named calculation.
func NewScenarioReport(name string, calc *amortization.Calculation) ScenarioReport {
	return ScenarioReport{
		Name:        name,
		Parameters:  calc.Parameters,
		SummaryLine: SummaryLine(calc.Summary),
		Summary:     calc.Summary,
		Yearly:      calc.Yearly,
		Chart:       ChartSeries(calc.Parameters, calc.Yearly),
	}
}

// Reports converts calculator results into scenario reports.
func Reports(results []calculator.Result) []ScenarioReport {
	reports := make([]ScenarioReport, 0, len(results))
	for _, result := range results {
		reports = append(reports, NewScenarioReport(result.Name, result.Calculation))
	}
	return reports
}

// JSONFormat outputs the scenario reports as indented JSON.
func JSONFormat(w io.Writer, results []calculator.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Reports(results))
}
