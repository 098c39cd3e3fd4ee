// Package calculator evaluates the mortgage scenarios of a configuration.
package calculator

import (
	"context"
	"fmt"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result holds the calculation of one scenario.
type Result struct {
	Name string
	*amortization.Calculation
}

// Calculate computes the schedule for a single set of parameters, honoring
// cancellation of ctx before starting.
func Calculate(ctx context.Context, logger *zap.Logger, params amortization.LoanParameters) (*amortization.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return amortization.NewGenerator(logger).Calculate(params)
}

// GetResults calculates every active scenario. Scenarios are evaluated
// concurrently and returned in configuration order; the first failure cancels
// the remaining scenarios.
func GetResults(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "calculator.GetResults"),
			)
		}
	}

	scenarios := conf.ActiveScenarios()
	results := make([]Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		g.Go(func() error {
			params, err := conf.ScenarioParameters(scenario)
			if err != nil {
				return err
			}

			calc, err := Calculate(gctx, logger.With(zap.String("scenario", scenario.Name)), params)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}

			results[i] = Result{Name: scenario.Name, Calculation: calc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("scenarios calculated",
		zap.String("op", "calculator.GetResults"),
		zap.Int("scenarios", len(results)),
	)
	return results, nil
}

// Compare calculates the same loan under both repayment policies
// concurrently. The mortgage type of params is ignored.
func Compare(ctx context.Context, logger *zap.Logger, params amortization.LoanParameters) (annuity, linear *amortization.Calculation, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p := params
		p.MortgageType = amortization.Annuity
		var calcErr error
		annuity, calcErr = Calculate(gctx, logger, p)
		return calcErr
	})
	g.Go(func() error {
		p := params
		p.MortgageType = amortization.Linear
		var calcErr error
		linear, calcErr = Calculate(gctx, logger, p)
		return calcErr
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return annuity, linear, nil
}
