package amortization

// Summary holds the headline figures of a schedule.
type Summary struct {
	MortgageType MortgageType `json:"mortgageType"`
	TaxDeduction bool         `json:"taxDeduction"`
	Periods      int          `json:"periods"`

	// AverageMonthlyPayment is the mean net payment when the tax deduction
	// applies and the mean gross payment otherwise.
	AverageMonthlyPayment float64 `json:"averageMonthlyPayment"`

	FirstGrossPayment float64 `json:"firstGrossPayment"`
	LastGrossPayment  float64 `json:"lastGrossPayment"`
	TotalGrossPaid    float64 `json:"totalGrossPaid"`
	TotalNetPaid      float64 `json:"totalNetPaid"`
	TotalPrincipal    float64 `json:"totalPrincipal"`
	TotalInterest     float64 `json:"totalInterest"`
	TotalNetInterest  float64 `json:"totalNetInterest"`
	TotalTaxBenefit   float64 `json:"totalTaxBenefit"`
}

// Summarize derives totals and the average monthly payment from a schedule.
func Summarize(params LoanParameters, schedule []PeriodRecord) Summary {
	summary := Summary{
		MortgageType: params.MortgageType,
		TaxDeduction: params.ApplyTaxDeduction,
		Periods:      len(schedule),
	}
	if len(schedule) == 0 {
		return summary
	}

	for _, record := range schedule {
		summary.TotalGrossPaid += record.GrossPayment
		summary.TotalNetPaid += record.NetPayment
		summary.TotalPrincipal += record.Principal
		summary.TotalInterest += record.Interest
		summary.TotalNetInterest += record.NetInterest
	}
	summary.TotalTaxBenefit = summary.TotalInterest - summary.TotalNetInterest
	summary.FirstGrossPayment = schedule[0].GrossPayment
	summary.LastGrossPayment = schedule[len(schedule)-1].GrossPayment

	periods := float64(len(schedule))
	if params.ApplyTaxDeduction {
		summary.AverageMonthlyPayment = summary.TotalNetPaid / periods
	} else {
		summary.AverageMonthlyPayment = summary.TotalGrossPaid / periods
	}
	return summary
}
