package amortization

import (
	"sort"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// YearlySummary averages the monthly values of one year of the schedule.
// AverageBalance is the mean of the month-end balances, not a snapshot.
type YearlySummary struct {
	Year                int     `json:"year"`
	Months              int     `json:"months"`
	AverageGrossPayment float64 `json:"averageGrossPayment"`
	AverageNetPayment   float64 `json:"averageNetPayment"`
	AveragePrincipal    float64 `json:"averagePrincipal"`
	AverageInterest     float64 `json:"averageInterest"`
	AverageNetInterest  float64 `json:"averageNetInterest"`
	AverageBalance      float64 `json:"averageBalance"`
}

// YearOf returns the 1-based year a 1-based period falls in.
func YearOf(period int) int {
	return (period-1)/constants.MonthsPerYear + 1
}

// Aggregate groups the schedule by year and averages each monetary column.
// Years are returned in ascending order; a trailing partial year is averaged
// over the periods it actually has.
func Aggregate(schedule []PeriodRecord) []YearlySummary {
	totals := make(map[int]*YearlySummary)
	for _, record := range schedule {
		year := YearOf(record.Period)
		total, ok := totals[year]
		if !ok {
			total = &YearlySummary{Year: year}
			totals[year] = total
		}
		total.Months++
		total.AverageGrossPayment += record.GrossPayment
		total.AverageNetPayment += record.NetPayment
		total.AveragePrincipal += record.Principal
		total.AverageInterest += record.Interest
		total.AverageNetInterest += record.NetInterest
		total.AverageBalance += record.RemainingBalance
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	summaries := make([]YearlySummary, 0, len(years))
	for _, year := range years {
		total := totals[year]
		months := float64(total.Months)
		summaries = append(summaries, YearlySummary{
			Year:                year,
			Months:              total.Months,
			AverageGrossPayment: total.AverageGrossPayment / months,
			AverageNetPayment:   total.AverageNetPayment / months,
			AveragePrincipal:    total.AveragePrincipal / months,
			AverageInterest:     total.AverageInterest / months,
			AverageNetInterest:  total.AverageNetInterest / months,
			AverageBalance:      total.AverageBalance / months,
		})
	}
	return summaries
}
