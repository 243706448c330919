package optimization

import (
	"fmt"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/internal/modules/pricing"
	"github.com/aristath/flatbook/internal/modules/routes"
	"github.com/aristath/flatbook/internal/utils"
	"github.com/rs/zerolog"
)

// Formulation is a fully assembled problem together with the route
// metadata needed to read a solution back.
type Formulation struct {
	Problem      *lp.Problem
	Routes       *routes.Set
	Coefficients map[domain.Route]Coefficients
	Data         *market.Data
	Options      Options
	// BigM is zero when the formulation has no selectors.
	BigM float64
}

// Formulate builds the problem for data under opts. It never mutates data.
func Formulate(data *market.Data, opts Options, log zerolog.Logger) (*Formulation, error) {
	if data == nil {
		return nil, fmt.Errorf("formulate: %w: no market data", domain.ErrInvalidMarketData)
	}
	log = log.With().Str("component", "formulation").Logger()
	timer := utils.NewTimer("formulate", log)

	p := lp.NewProblem("Maximize_Profit_"+opts.Name(), lp.Maximize)
	set, err := routes.Allocate(data.Calendar(), p, opts.Selectors)
	if err != nil {
		return nil, fmt.Errorf("formulate: %w", err)
	}

	calc := NewProfitCalculator(pricing.NewPricer(data), opts.Rule)
	coef := make(map[domain.Route]Coefficients, set.Len())
	for _, r := range set.Routes() {
		coef[r] = calc.Coefficients(r)
	}
	if err := p.SetObjective(AssembleObjective(set, coef)); err != nil {
		return nil, fmt.Errorf("formulate: %w", err)
	}

	var bigM float64
	if opts.Selectors {
		bigM = BigM(data)
	}
	if err := NewConstraintsManager(data, log).BuildConstraints(p, set, bigM); err != nil {
		return nil, fmt.Errorf("formulate: %w", err)
	}

	timer.StopWithContext(map[string]interface{}{"policy": opts.Name()})
	log.Info().
		Str("policy", opts.Name()).
		Int("routes", set.Len()).
		Int("variables", p.NumVariables()).
		Int("binaries", p.NumBinaries()).
		Int("constraints", p.NumConstraints()).
		Msg("Problem formulated")

	return &Formulation{
		Problem:      p,
		Routes:       set,
		Coefficients: coef,
		Data:         data,
		Options:      opts,
		BigM:         bigM,
	}, nil
}
