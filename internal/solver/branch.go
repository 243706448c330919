package solver

import (
	"context"
	"math"

	"github.com/aristath/flatbook/internal/lp"
)

type node struct {
	lower, upper []float64
	// bound is the parent's relaxation objective in minimization form.
	bound float64
	depth int
}

type rounding func(x float64) float64

func roundUp(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func roundNearest(x float64) float64 {
	if x >= 0.5 {
		return 1
	}
	return 0
}

// branchAndBound searches depth first. The up branch is explored before the
// down branch and every solved node tries both roundings.
func (e *Engine) branchAndBound(ctx context.Context, p *lp.Problem, m *model) (*lp.Solution, error) {
	var (
		best     []float64
		bestObj  = math.Inf(1)
		stack    []node
		nodes    int
		limitHit bool
		failed   bool
	)

	prunable := func(bound float64) bool {
		return best != nil && bound >= bestObj-e.opts.Gap*(1+math.Abs(bestObj))
	}

	process := func(lower, upper []float64, r relaxation, depth int) {
		for _, round := range []rounding{roundUp, roundNearest} {
			cand := m.round(r.values, round)
			obj := m.objective(cand)
			if obj >= bestObj || len(p.Check(cand, e.opts.FeasibilityTolerance)) > 0 {
				continue
			}
			best, bestObj = cand, obj
			e.log.Debug().Int("node", nodes).Int("depth", depth).Float64("incumbent", p.Objective().Eval(best)).Msg("New incumbent")
		}
		if prunable(r.obj) {
			return
		}

		j, ok := m.mostFractional(r.values, lower, upper, e.opts.IntegralityTolerance)
		if !ok {
			return
		}
		down := node{lower: clone(lower), upper: clone(upper), bound: r.obj, depth: depth + 1}
		down.upper[j] = 0
		up := node{lower: clone(lower), upper: clone(upper), bound: r.obj, depth: depth + 1}
		up.lower[j], up.upper[j] = 1, 1
		stack = append(stack, down, up)
	}

	root := e.relax(m, m.lower, m.upper)
	nodes++
	if root.status != lp.StatusOptimal {
		return &lp.Solution{Status: root.status, Nodes: nodes}, nil
	}
	process(m.lower, m.upper, root, 0)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if prunable(nd.bound) {
			continue
		}
		if nodes >= e.opts.MaxNodes {
			limitHit = true
			break
		}

		r := e.relax(m, nd.lower, nd.upper)
		nodes++
		switch r.status {
		case lp.StatusOptimal:
			process(nd.lower, nd.upper, r, nd.depth)
		case lp.StatusInfeasible:
		default:
			failed = true
			e.log.Warn().Err(r.err).Int("node", nodes).Str("status", r.status.String()).Msg("Node relaxation not solved")
		}
	}

	sol := &lp.Solution{Nodes: nodes}
	switch {
	case limitHit || failed:
		ev := e.log.Warn().Int("nodes", nodes).Bool("node_limit", limitHit)
		if limitHit {
			ev = ev.Err(lp.ErrNodeLimit)
		}
		if best != nil {
			ev = ev.Float64("incumbent", p.Objective().Eval(best))
		}
		ev.Msg("Branch-and-bound stopped before proving optimality")
		sol.Status = lp.StatusNotSolved
	case best == nil:
		sol.Status = lp.StatusInfeasible
	default:
		sol.Status = lp.StatusOptimal
		sol.Values = best
		sol.Objective = p.Objective().Eval(best)
	}
	return sol, nil
}

// round returns a copy of values with every binary rounded.
func (m *model) round(values []float64, round rounding) []float64 {
	out := clone(values)
	for _, j := range m.binaries {
		out[j] = round(values[j])
	}
	return out
}

// mostFractional picks the free binary furthest from integrality. Values
// above 1 always branch.
func (m *model) mostFractional(values, lower, upper []float64, tol float64) (int, bool) {
	pick, score := -1, tol
	for _, j := range m.binaries {
		if lower[j] == upper[j] {
			continue
		}
		x := values[j]
		s := math.Min(math.Abs(x), math.Abs(1-x))
		if x > 1+tol {
			s = 1
		}
		if s > score {
			pick, score = j, s
		}
	}
	return pick, pick >= 0
}

func clone(xs []float64) []float64 {
	return append([]float64(nil), xs...)
}
