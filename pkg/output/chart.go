package output

import "github.com/iwvelando/mortgage-calculator/pkg/amortization"

// Series labels for the stacked area chart.
const (
	PrincipalLabel     = "Principal"
	NetInterestLabel   = "Interest (Net)"
	GrossInterestLabel = "Interest (Gross)"
)

// ChartPoint is one year of the stacked area chart. Total is the top of the
// stack.
type ChartPoint struct {
	Year      int     `json:"year"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Total     float64 `json:"total"`
}

// Chart holds the monthly principal and interest over time, averaged per year.
type Chart struct {
	Title          string       `json:"title"`
	PrincipalLabel string       `json:"principalLabel"`
	InterestLabel  string       `json:"interestLabel"`
	Points         []ChartPoint `json:"points"`
}

// ChartSeries derives the stacked principal and interest series. With the tax
// deduction the net interest is stacked, otherwise the gross interest.
func ChartSeries(params amortization.LoanParameters, yearly []amortization.YearlySummary) Chart {
	chart := Chart{
		Title:          "Monthly Principal and Interest over Time",
		PrincipalLabel: PrincipalLabel,
		InterestLabel:  GrossInterestLabel,
		Points:         make([]ChartPoint, 0, len(yearly)),
	}
	if params.ApplyTaxDeduction {
		chart.InterestLabel = NetInterestLabel
	}

	for _, year := range yearly {
		interest := year.AverageGrossPayment - year.AveragePrincipal
		if params.ApplyTaxDeduction {
			interest = year.AverageNetInterest
		}
		chart.Points = append(chart.Points, ChartPoint{
			Year:      year.Year,
			Principal: year.AveragePrincipal,
			Interest:  interest,
			Total:     year.AveragePrincipal + interest,
		})
	}
	return chart
}
