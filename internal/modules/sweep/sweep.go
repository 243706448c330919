// Package sweep solves the same book under a range of forecast
// adjustments to show how sensitive the optimal profit is to the
// forecast curve.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/internal/modules/optimization"
	"github.com/aristath/flatbook/internal/modules/planning"
	"github.com/aristath/flatbook/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent solves when none is configured.
const DefaultWorkers = 4

// Runner runs one scenario. *planning.Service implements it.
type Runner interface {
	Run(ctx context.Context, data *market.Data, opts optimization.Options) (*planning.Result, error)
}

// Point is the outcome of one shifted scenario.
type Point struct {
	Shift     float64
	RunID     string
	Status    lp.Status
	Objective float64
	Trades    int
	Duration  time.Duration
}

// Sweeper fans scenarios out over a bounded number of workers.
type Sweeper struct {
	runner  Runner
	workers int
	log     zerolog.Logger
}

// New creates a sweeper. Non-positive workers fall back to DefaultWorkers.
func New(runner Runner, workers int, log zerolog.Logger) *Sweeper {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Sweeper{
		runner:  runner,
		workers: workers,
		log:     log.With().Str("module", "sweep").Logger(),
	}
}

// Run solves base with forecast_adjustment[m] += shift for every shift and
// returns the points sorted by shift. Each scenario gets its own market
// data; base is never modified. The first failing scenario cancels the rest.
func (s *Sweeper) Run(ctx context.Context, base *market.Data, shifts []float64, opts optimization.Options) ([]Point, error) {
	if base == nil {
		return nil, fmt.Errorf("sweep: nil market data")
	}
	stats := utils.NewPerformanceMetrics("sweep_scenario")
	points := make([]Point, len(shifts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, shift := range shifts {
		i, shift := i, shift
		g.Go(func() error {
			data, err := base.WithForecastShift(shift)
			if err != nil {
				return fmt.Errorf("shift %g: %w", shift, err)
			}

			start := time.Now()
			res, err := s.runner.Run(gctx, data, opts)
			if err != nil {
				return fmt.Errorf("shift %g: %w", shift, err)
			}
			elapsed := time.Since(start)
			stats.Record(elapsed)

			plan := res.Plan
			points[i] = Point{
				Shift:     shift,
				RunID:     plan.RunID,
				Status:    plan.Status,
				Objective: plan.Objective,
				Trades:    len(plan.Trades()),
				Duration:  elapsed,
			}
			s.log.Debug().
				Float64("shift", shift).
				Str("status", plan.Status.String()).
				Float64("objective", plan.Objective).
				Msg("Scenario solved")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Shift < points[j].Shift })
	stats.LogMetrics(s.log)
	s.log.Info().Int("scenarios", len(points)).Int("workers", s.workers).Msg("Sweep finished")
	return points, nil
}

// Monotone reports whether the optimal objective never decreases as the
// shift grows, within tol*(1+|objective|). Non-optimal points are skipped.
func Monotone(points []Point, tol float64) bool {
	prev, seen := 0.0, false
	for _, p := range points {
		if p.Status != lp.StatusOptimal {
			continue
		}
		if seen && p.Objective < prev-tol*(1+math.Abs(prev)) {
			return false
		}
		prev, seen = p.Objective, true
	}
	return true
}
