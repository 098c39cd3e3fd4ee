package amortization

import "go.uber.org/zap"

// Calculation bundles a schedule with its derived views.
type Calculation struct {
	Parameters LoanParameters  `json:"parameters"`
	Schedule   []PeriodRecord  `json:"schedule"`
	Yearly     []YearlySummary `json:"yearly"`
	Summary    Summary         `json:"summary"`
}

// Calculate generates the schedule for params and derives the yearly and
// summary views from it.
func (g *Generator) Calculate(params LoanParameters) (*Calculation, error) {
	schedule, err := g.Generate(params)
	if err != nil {
		return nil, err
	}

	calc := &Calculation{
		Parameters: params,
		Schedule:   schedule,
		Yearly:     Aggregate(schedule),
		Summary:    Summarize(params, schedule),
	}

	g.logger.Debug("amortization calculated",
		zap.String("op", "amortization.Calculate"),
		zap.Stringer("mortgage_type", params.MortgageType),
		zap.Int("periods", len(calc.Schedule)),
		zap.Int("years", len(calc.Yearly)),
		zap.Float64("average_monthly_payment", calc.Summary.AverageMonthlyPayment),
	)
	return calc, nil
}

// Calculate runs Generator.Calculate with a no-op logger.
func Calculate(params LoanParameters) (*Calculation, error) {
	return NewGenerator(nil).Calculate(params)
}
