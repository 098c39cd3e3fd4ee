package amortization

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// PeriodRecord holds the values for one monthly installment.
type PeriodRecord struct {
	Period           int     `json:"period"`
	GrossPayment     float64 `json:"grossPayment"`
	NetPayment       float64 `json:"netPayment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	NetInterest      float64 `json:"netInterest"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// CalculateAnnuityPayment calculates the fixed gross payment of an annuity
// mortgage using the standard amortization formula. The discount factor
// 1-(1+r)^-n is evaluated with Log1p and Expm1 so rates too small to change
// 1+r still give a finite payment.
func CalculateAnnuityPayment(principal, monthlyInterestRate float64, numPayments int) float64 {
	if monthlyInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(numPayments)
	}
	denominator := -math.Expm1(-float64(numPayments) * math.Log1p(monthlyInterestRate))
	if denominator == 0 || !mathutil.IsFinite(denominator) {
		return principal / float64(numPayments)
	}
	return principal * monthlyInterestRate / denominator
}

// CalculateLinearPrincipal calculates the constant principal portion of a
// linear mortgage.
func CalculateLinearPrincipal(principal float64, numPayments int) float64 {
	return principal / float64(numPayments)
}

// CalculateInterestPayment calculates the interest owed on a balance for one period.
func CalculateInterestPayment(balance, monthlyInterestRate float64) float64 {
	return balance * monthlyInterestRate
}

// principalPolicy returns the principal repaid in a period given that
// period's interest.
type principalPolicy func(interest float64) float64

// taxPolicy turns pre-tax interest into the interest actually borne.
type taxPolicy func(interest float64) float64

// Generator produces amortization schedules.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new generator instance
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

// Generate computes the schedule with a no-op logger.
func Generate(params LoanParameters) ([]PeriodRecord, error) {
	return NewGenerator(nil).Generate(params)
}

// Generate computes the period-by-period schedule. The result has
// params.NumPayments() records ordered by period. Invalid parameters return an
// error wrapping ErrInvalidParameter and no records.
func (g *Generator) Generate(params LoanParameters) ([]PeriodRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rate := params.MonthlyInterestRate()
	numPayments := params.NumPayments()

	principalFor, err := g.principalPolicy(params, rate, numPayments)
	if err != nil {
		return nil, err
	}
	netInterestFor := selectTaxPolicy(params)

	schedule := make([]PeriodRecord, 0, numPayments)
	balance := params.Principal
	for period := 1; period <= numPayments; period++ {
		interest := CalculateInterestPayment(balance, rate)
		principal := principalFor(interest)
		netInterest := netInterestFor(interest)

		balance -= principal
		if period == numPayments {
			balance = clampResidue(balance, params.Principal)
		}

		schedule = append(schedule, PeriodRecord{
			Period:           period,
			GrossPayment:     principal + interest,
			NetPayment:       principal + netInterest,
			Principal:        principal,
			Interest:         interest,
			NetInterest:      netInterest,
			RemainingBalance: balance,
		})
	}

	if len(schedule) == 0 {
		return schedule, nil
	}
	if residue := schedule[len(schedule)-1].RemainingBalance; residue != 0 {
		g.logger.Warn("final balance not fully repaid",
			zap.String("op", "amortization.Generate"),
			zap.Float64("residue", residue),
		)
	}

	return schedule, nil
}

func (g *Generator) principalPolicy(params LoanParameters, rate float64, numPayments int) (principalPolicy, error) {
	switch params.MortgageType {
	case Annuity:
		payment := CalculateAnnuityPayment(params.Principal, rate, numPayments)
		g.logger.Debug(fmt.Sprintf("annuity schedule with fixed gross payment %.2f over %d months",
			payment, numPayments),
			zap.String("op", "amortization.Generate"),
			zap.Float64("principal", params.Principal),
			zap.Float64("monthly_rate", rate),
		)
		return func(interest float64) float64 {
			return payment - interest
		}, nil
	case Linear:
		principal := CalculateLinearPrincipal(params.Principal, numPayments)
		g.logger.Debug(fmt.Sprintf("linear schedule with fixed principal %.2f over %d months",
			principal, numPayments),
			zap.String("op", "amortization.Generate"),
			zap.Float64("principal", params.Principal),
			zap.Float64("monthly_rate", rate),
		)
		return func(float64) float64 {
			return principal
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mortgage type %d", ErrInvalidParameter, int(params.MortgageType))
	}
}

func selectTaxPolicy(params LoanParameters) taxPolicy {
	if !params.ApplyTaxDeduction {
		return func(interest float64) float64 { return interest }
	}
	keep := 1 - params.TaxRate
	return func(interest float64) float64 { return interest * keep }
}

// clampResidue reports a negligible final balance as exactly zero; we will
// get machine error otherwise.
func clampResidue(balance, principal float64) float64 {
	tolerance := principal * constants.ResidualBalanceRelativeTolerance
	if tolerance < constants.ResidualBalanceAbsoluteTolerance {
		tolerance = constants.ResidualBalanceAbsoluteTolerance
	}
	if mathutil.WithinTolerance(balance, 0, tolerance) {
		return 0
	}
	return balance
}
