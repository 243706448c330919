package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/internal/modules/optimization"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckTolerance is the relative tolerance of the post-solve plan checks.
const CheckTolerance = 1e-6

// Recorder receives run measurements. *metrics.Metrics implements it.
type Recorder interface {
	ObserveFormulation(policy string, routes, variables, constraints, binaries int)
	ObserveSolve(policy, status string, d time.Duration, objective float64, nodes int, optimal bool)
}

// Service formulates, solves and extracts plans.
type Service struct {
	engine   lp.Engine
	recorder Recorder
	log      zerolog.Logger
}

// NewService creates a planning service. recorder may be nil.
func NewService(engine lp.Engine, recorder Recorder, log zerolog.Logger) *Service {
	return &Service{
		engine:   engine,
		recorder: recorder,
		log:      log.With().Str("module", "planning").Logger(),
	}
}

// Result is a plan together with the formulation it came from.
type Result struct {
	Plan        *Plan
	Formulation *optimization.Formulation
	Values      []float64
	Violations  []Violation
}

// Run builds and solves one scenario. A non-optimal status is not an error.
func (s *Service) Run(ctx context.Context, data *market.Data, opts optimization.Options) (*Result, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	f, err := optimization.Formulate(data, opts, log)
	if err != nil {
		return nil, err
	}
	policy := opts.Name()
	if s.recorder != nil {
		p := f.Problem
		s.recorder.ObserveFormulation(policy, f.Routes.Len(), p.NumVariables(), p.NumConstraints(), p.NumBinaries())
	}

	start := time.Now()
	sol, err := s.engine.Solve(ctx, f.Problem)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveSolve(policy, sol.Status.String(), elapsed, sol.Objective, sol.Nodes, sol.Status == lp.StatusOptimal)
	}

	plan := Extract(f, sol, runID)
	plan.SolveTime = elapsed
	res := &Result{Plan: plan, Formulation: f, Values: sol.Values}

	if !plan.Optimal() {
		log.Warn().Str("status", sol.Status.String()).Msg("Solve did not reach an optimal plan")
		return res, nil
	}

	res.Violations = Check(plan, CheckTolerance)
	for _, v := range res.Violations {
		log.Warn().Str("property", v.Property).Str("detail", v.Detail).Float64("amount", v.Amount).Msg("Plan check failed")
	}
	log.Info().
		Str("policy", policy).
		Float64("objective", plan.Objective).
		Int("trades", len(plan.Trades())).
		Dur("solve_time", elapsed).
		Msg("Plan ready")
	return res, nil
}
