package solver

import (
	"context"
	"math"
	"testing"

	"github.com/aristath/flatbook/internal/lp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(opts Options) *Engine {
	return New(opts, zerolog.Nop())
}

func addRow(t *testing.T, p *lp.Problem, name string, lhs lp.Expr, rel lp.Relation, rhs float64) {
	t.Helper()
	require.NoError(t, p.AddConstraint(lp.Constraint{Name: name, Family: "test", LHS: lhs, Relation: rel, RHS: rhs}))
}

func TestSolve_LinearPrograms(t *testing.T) {
	tests := []struct {
		name   string
		build  func(t *testing.T) *lp.Problem
		status lp.Status
		obj    float64
		values []float64
	}{
		{
			name: "maximize with upper bound",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("max", lp.Maximize)
				x, _ := p.AddVariable("x", 0, 3, lp.Continuous)
				y, _ := p.AddNonNegative("y")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 3).Add(y, 2)))
				addRow(t, p, "a", lp.Expr{}.Add(x, 1).Add(y, 1), lp.LessEq, 4)
				addRow(t, p, "b", lp.Expr{}.Add(x, 1).Add(y, 3), lp.LessEq, 6)
				return p
			},
			status: lp.StatusOptimal,
			obj:    11,
			values: []float64{3, 1},
		},
		{
			name: "minimize with cover and equality",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("min", lp.Minimize)
				x, _ := p.AddNonNegative("x")
				y, _ := p.AddNonNegative("y")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 1).Add(y, 1)))
				addRow(t, p, "cover", lp.Expr{}.Add(x, 1).Add(y, 2), lp.GreaterEq, 4)
				addRow(t, p, "diff", lp.Expr{}.Add(x, 1).Add(y, -1), lp.Equal, 1)
				return p
			},
			status: lp.StatusOptimal,
			obj:    3,
			values: []float64{2, 1},
		},
		{
			name: "shifted lower bound",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("shift", lp.Minimize)
				x, _ := p.AddVariable("x", 2, 10, lp.Continuous)
				y, _ := p.AddNonNegative("y")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 1).Add(y, 2)))
				addRow(t, p, "cover", lp.Expr{}.Add(x, 1).Add(y, 1), lp.GreaterEq, 5)
				return p
			},
			status: lp.StatusOptimal,
			obj:    5,
			values: []float64{5, 0},
		},
		{
			name: "large right-hand side",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("barrels", lp.Maximize)
				long, _ := p.AddNonNegative("long")
				short, _ := p.AddNonNegative("short")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(long, 0.9).Add(short, -0.4)))
				addRow(t, p, "cap_long", lp.Expr{}.Add(long, 1), lp.LessEq, 1_760_000)
				addRow(t, p, "cap_short", lp.Expr{}.Add(short, 1), lp.LessEq, 3_000_000)
				addRow(t, p, "flat", lp.Expr{}.Add(long, 1).Add(short, -1), lp.Equal, 0)
				return p
			},
			status: lp.StatusOptimal,
			obj:    0.5 * 1_760_000,
			values: []float64{1_760_000, 1_760_000},
		},
		{
			name: "infeasible",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("infeasible", lp.Maximize)
				x, _ := p.AddNonNegative("x")
				y, _ := p.AddNonNegative("y")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 1)))
				addRow(t, p, "low", lp.Expr{}.Add(x, 1).Add(y, 1), lp.LessEq, 1)
				addRow(t, p, "high", lp.Expr{}.Add(x, 1).Add(y, 1), lp.GreaterEq, 2)
				return p
			},
			status: lp.StatusInfeasible,
		},
		{
			name: "unbounded",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("unbounded", lp.Maximize)
				x, _ := p.AddNonNegative("x")
				y, _ := p.AddNonNegative("y")
				require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 1).Add(y, 1)))
				addRow(t, p, "gap", lp.Expr{}.Add(x, 1).Add(y, -1), lp.LessEq, 1)
				return p
			},
			status: lp.StatusUnbounded,
		},
		{
			name: "fixed variable violates row",
			build: func(t *testing.T) *lp.Problem {
				p := lp.NewProblem("fixed", lp.Maximize)
				x, _ := p.AddVariable("x", 2, 2, lp.Continuous)
				addRow(t, p, "cap", lp.Expr{}.Add(x, 1), lp.LessEq, 1)
				return p
			},
			status: lp.StatusInfeasible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build(t)
			sol, err := newEngine(DefaultOptions()).Solve(context.Background(), p)
			require.NoError(t, err)
			require.Equal(t, tt.status, sol.Status)
			if tt.status != lp.StatusOptimal {
				assert.Nil(t, sol.Values)
				return
			}
			assert.InDelta(t, tt.obj, sol.Objective, 1e-6*(1+math.Abs(tt.obj)))
			require.Len(t, sol.Values, len(tt.values))
			for i, want := range tt.values {
				assert.InDelta(t, want, sol.Values[i], 1e-6*(1+math.Abs(want)))
			}
			assert.Empty(t, p.Check(sol.Values, 1e-6))
		})
	}
}

func TestSolve_Knapsack(t *testing.T) {
	p := lp.NewProblem("knapsack", lp.Maximize)
	a, _ := p.AddBinary("a")
	b, _ := p.AddBinary("b")
	c, _ := p.AddBinary("c")
	require.NoError(t, p.SetObjective(lp.Expr{}.Add(a, 5).Add(b, 4).Add(c, 3)))
	addRow(t, p, "weight", lp.Expr{}.Add(a, 2).Add(b, 3).Add(c, 1), lp.LessEq, 5)

	sol, err := newEngine(DefaultOptions()).Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	assert.InDelta(t, 9, sol.Objective, 1e-9)
	assert.Equal(t, []float64{1, 1, 0}, sol.Values)
	assert.Greater(t, sol.Nodes, 1)
}

func TestSolve_FixedCharge(t *testing.T) {
	p := lp.NewProblem("fixed-charge", lp.Maximize)
	x, _ := p.AddNonNegative("x")
	y, _ := p.AddBinary("y")
	require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 3).Add(y, -5)))
	addRow(t, p, "cap", lp.Expr{}.Add(x, 1), lp.LessEq, 4)
	addRow(t, p, "link", lp.Expr{}.Add(x, 1).Add(y, -100), lp.LessEq, 0)

	sol, err := newEngine(DefaultOptions()).Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	assert.InDelta(t, 7, sol.Objective, 1e-6)
	assert.InDelta(t, 4, sol.Values[x], 1e-6)
	assert.Equal(t, 1.0, sol.Values[y])
}

func TestSolve_CostlessSelectorClosesAtRoot(t *testing.T) {
	p := lp.NewProblem("selector", lp.Maximize)
	x, _ := p.AddNonNegative("x")
	z, _ := p.AddNonNegative("z")
	yx, _ := p.AddBinary("yx")
	yz, _ := p.AddBinary("yz")
	require.NoError(t, p.SetObjective(lp.Expr{}.Add(x, 2).Add(z, -1)))
	addRow(t, p, "cap", lp.Expr{}.Add(x, 1), lp.LessEq, 3)
	addRow(t, p, "link_x", lp.Expr{}.Add(x, 1).Add(yx, -50), lp.LessEq, 0)
	addRow(t, p, "link_z", lp.Expr{}.Add(z, 1).Add(yz, -50), lp.LessEq, 0)

	sol, err := newEngine(DefaultOptions()).Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	assert.InDelta(t, 6, sol.Objective, 1e-6)
	assert.Equal(t, 1.0, sol.Values[yx])
	assert.Equal(t, 0.0, sol.Values[yz])
	assert.InDelta(t, 0, sol.Values[z], 1e-9)
	assert.Equal(t, 1, sol.Nodes)
}

func TestSolve_NodeLimit(t *testing.T) {
	p := lp.NewProblem("knapsack", lp.Maximize)
	a, _ := p.AddBinary("a")
	b, _ := p.AddBinary("b")
	c, _ := p.AddBinary("c")
	require.NoError(t, p.SetObjective(lp.Expr{}.Add(a, 5).Add(b, 4).Add(c, 3)))
	addRow(t, p, "weight", lp.Expr{}.Add(a, 2).Add(b, 3).Add(c, 1), lp.LessEq, 5)

	opts := DefaultOptions()
	opts.MaxNodes = 1
	sol, err := newEngine(opts).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, lp.StatusNotSolved, sol.Status)
	assert.Nil(t, sol.Values)
	assert.Equal(t, 1, sol.Nodes)
}

func TestSolve_InfeasibleBinaries(t *testing.T) {
	p := lp.NewProblem("parity", lp.Maximize)
	a, _ := p.AddBinary("a")
	b, _ := p.AddBinary("b")
	require.NoError(t, p.SetObjective(lp.Expr{}.Add(a, 1).Add(b, 1)))
	addRow(t, p, "half", lp.Expr{}.Add(a, 2).Add(b, 2), lp.Equal, 1)

	sol, err := newEngine(DefaultOptions()).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, lp.StatusInfeasible, sol.Status)
}

func TestSolve_Errors(t *testing.T) {
	e := newEngine(DefaultOptions())

	_, err := e.Solve(context.Background(), lp.NewProblem("empty", lp.Maximize))
	assert.ErrorIs(t, err, lp.ErrEmptyProblem)

	p := lp.NewProblem("cancelled", lp.Maximize)
	_, _ = p.AddNonNegative("x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Solve(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_FillsDefaults(t *testing.T) {
	e := newEngine(Options{MaxNodes: 10})
	assert.Equal(t, 10, e.Options().MaxNodes)
	assert.Equal(t, DefaultOptions().Tolerance, e.Options().Tolerance)
	assert.Equal(t, DefaultOptions().IntegralityTolerance, e.Options().IntegralityTolerance)
}
