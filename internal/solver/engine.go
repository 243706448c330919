// Package solver implements lp.Engine on gonum's dense simplex. Problems are
// presolved, brought to standard form and scaled before every simplex call;
// binary variables are handled by depth-first branch-and-bound over the
// linear relaxation.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/utils"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Options tune the engine.
type Options struct {
	// Tolerance is the simplex reduced-cost tolerance.
	Tolerance float64
	// IntegralityTolerance is how far a binary may sit from 0 or 1 and still
	// count as integral.
	IntegralityTolerance float64
	// FeasibilityTolerance is the relative row tolerance used to accept
	// rounded points and to drop emptied rows.
	FeasibilityTolerance float64
	// Gap is the relative objective gap under which a node cannot improve
	// the incumbent.
	Gap float64
	// MaxNodes bounds the number of relaxations solved by branch-and-bound.
	MaxNodes int
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Tolerance:            1e-9,
		IntegralityTolerance: 1e-6,
		FeasibilityTolerance: 1e-6,
		Gap:                  1e-6,
		MaxNodes:             2000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if !(o.Tolerance > 0) {
		o.Tolerance = d.Tolerance
	}
	if !(o.IntegralityTolerance > 0) {
		o.IntegralityTolerance = d.IntegralityTolerance
	}
	if !(o.FeasibilityTolerance > 0) {
		o.FeasibilityTolerance = d.FeasibilityTolerance
	}
	if !(o.Gap > 0) {
		o.Gap = d.Gap
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = d.MaxNodes
	}
	return o
}

// Engine solves lp.Problems. It holds no per-solve state and is safe for
// concurrent use.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

var _ lp.Engine = (*Engine)(nil)

// New creates an engine. Zero option fields take their defaults.
func New(opts Options, log zerolog.Logger) *Engine {
	return &Engine{
		opts: opts.withDefaults(),
		log:  log.With().Str("component", "solver").Logger(),
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Solve solves p. A non-optimal outcome is reported through the solution
// status; errors are reserved for malformed problems and cancellation.
func (e *Engine) Solve(ctx context.Context, p *lp.Problem) (*lp.Solution, error) {
	if p == nil || p.NumVariables() == 0 {
		return nil, lp.ErrEmptyProblem
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("solve %s: %w", p.Name, err)
	}

	timer := utils.NewTimer("solve", e.log)
	m := newModel(p)

	var sol *lp.Solution
	if len(m.binaries) == 0 {
		r := e.relax(m, m.lower, m.upper)
		sol = &lp.Solution{Status: r.status, Nodes: 1}
		if r.status == lp.StatusOptimal {
			sol.Values = r.values
			sol.Objective = p.Objective().Eval(r.values)
		}
	} else {
		var err error
		if sol, err = e.branchAndBound(ctx, p, m); err != nil {
			return nil, fmt.Errorf("solve %s: %w", p.Name, err)
		}
	}

	timer.StopWithContext(map[string]interface{}{"status": sol.Status.String(), "nodes": sol.Nodes})
	ev := e.log.Info().
		Str("problem", p.Name).
		Str("status", sol.Status.String()).
		Int("nodes", sol.Nodes)
	if sol.Status == lp.StatusOptimal {
		ev = ev.Float64("objective", sol.Objective)
	}
	ev.Msg("Solve finished")
	return sol, nil
}

// model is the problem in minimization form with relaxed root bounds.
type model struct {
	cost     []float64
	lower    []float64
	upper    []float64
	binaries []int
	rows     []lp.Constraint
	colRows  [][]entry
}

type entry struct {
	row  int
	coef float64
}

func newModel(p *lp.Problem) *model {
	vars := p.Variables()
	n := len(vars)
	sign := 1.0
	if p.Sense == lp.Maximize {
		sign = -1
	}

	m := &model{
		cost:    make([]float64, n),
		lower:   make([]float64, n),
		upper:   make([]float64, n),
		rows:    p.Constraints(),
		colRows: make([][]entry, n),
	}
	for _, t := range p.Objective() {
		m.cost[t.Var] += sign * t.Coef
	}
	for _, v := range vars {
		m.lower[v.ID], m.upper[v.ID] = v.Lower, v.Upper
		if v.Kind != lp.Binary {
			continue
		}
		m.binaries = append(m.binaries, int(v.ID))
		// costless selectors are bounded by branching rather than by a row
		if m.cost[v.ID] == 0 && v.Lower < v.Upper {
			m.upper[v.ID] = math.Inf(1)
		}
	}
	for i, c := range m.rows {
		for _, t := range c.LHS {
			m.colRows[t.Var] = append(m.colRows[t.Var], entry{row: i, coef: t.Coef})
		}
	}
	return m
}

// objective is the minimization-form objective at values.
func (m *model) objective(values []float64) float64 {
	return floats.Dot(m.cost, values)
}
