package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/flatbook/internal/lp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	golp "gonum.org/v1/gonum/optimize/convex/lp"
)

var errRankDeficient = errors.New("more rows than columns in standard form")

// relaxation is the outcome of one linear relaxation.
type relaxation struct {
	status lp.Status
	values []float64
	// obj is in minimization form.
	obj float64
	err error
}

// relax solves the linear relaxation under the given bounds.
func (e *Engine) relax(m *model, lower, upper []float64) relaxation {
	ps, status := m.presolve(lower, upper, e.opts.FeasibilityTolerance)
	if status != lp.StatusOptimal {
		e.log.Debug().Str("status", status.String()).Msg("Presolve decided relaxation")
		return relaxation{status: status}
	}
	e.log.Debug().
		Int("fixed", ps.fixed).
		Int("empty_rows", ps.emptyRows).
		Int("empty_cols", ps.emptyCols).
		Int("singletons", ps.singletons).
		Int("rows", len(ps.rows)).
		Int("cols", len(ps.cols)).
		Msg("Presolve finished")

	kept, status, err := e.simplex(m, ps, lower, upper)
	if status != lp.StatusOptimal {
		if err != nil {
			e.log.Warn().Err(err).Msg("Simplex failed")
		}
		return relaxation{status: status, err: err}
	}

	values := ps.postsolve(kept)
	return relaxation{status: lp.StatusOptimal, values: values, obj: m.objective(values)}
}

// standardForm is min c·x subject to Ax = b, x >= 0 over the kept columns
// shifted by their lower bounds, followed by slack columns.
type standardForm struct {
	c     []float64
	a     *mat.Dense
	b     []float64
	scale float64
}

func (m *model) standardForm(ps *presolved, lower, upper []float64) standardForm {
	pos := make(map[int]int, len(ps.cols))
	bounded := 0
	for k, j := range ps.cols {
		pos[j] = k
		if !math.IsInf(upper[j], 1) {
			bounded++
		}
	}
	slacks := bounded
	for _, i := range ps.rows {
		if m.rows[i].Relation != lp.Equal {
			slacks++
		}
	}

	rows, cols := len(ps.rows)+bounded, len(ps.cols)+slacks
	sf := standardForm{
		c:     make([]float64, cols),
		a:     mat.NewDense(rows, cols, nil),
		b:     make([]float64, rows),
		scale: 1,
	}
	for k, j := range ps.cols {
		sf.c[k] = m.cost[j]
	}

	slack := len(ps.cols)
	for r, i := range ps.rows {
		c := m.rows[i]
		rhs := ps.rhs[i]
		for _, t := range c.LHS {
			k, ok := pos[int(t.Var)]
			if !ok {
				continue
			}
			sf.a.Set(r, k, t.Coef)
			rhs -= t.Coef * lower[t.Var]
		}
		switch c.Relation {
		case lp.LessEq:
			sf.a.Set(r, slack, 1)
			slack++
		case lp.GreaterEq:
			sf.a.Set(r, slack, -1)
			slack++
		}
		sf.b[r] = rhs
	}

	r := len(ps.rows)
	for k, j := range ps.cols {
		if math.IsInf(upper[j], 1) {
			continue
		}
		sf.a.Set(r, k, 1)
		sf.a.Set(r, slack, 1)
		sf.b[r] = upper[j] - lower[j]
		slack++
		r++
	}

	for i, v := range sf.b {
		if v < 0 {
			floats.Scale(-1, sf.a.RawRowView(i))
			sf.b[i] = -v
		}
	}

	// Phase I accepts a point only when the artificial variable is below an
	// absolute 1e-12, so keep the right-hand side at unit scale.
	if peak := floats.Max(append([]float64{0}, sf.b...)); peak > 1 {
		sf.scale = math.Pow(10, math.Ceil(math.Log10(peak)))
		floats.Scale(1/sf.scale, sf.b)
	}
	return sf
}

// simplex solves the reduced problem and returns the kept columns' values.
func (e *Engine) simplex(m *model, ps *presolved, lower, upper []float64) (kept []float64, status lp.Status, err error) {
	if len(ps.cols) == 0 {
		return nil, lp.StatusOptimal, nil
	}

	sf := m.standardForm(ps, lower, upper)
	rows, cols := sf.a.Dims()
	if rows > cols {
		return nil, lp.StatusNotSolved, fmt.Errorf("%w: %d x %d", errRankDeficient, rows, cols)
	}

	var x []float64
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("simplex: %v", r)
			}
		}()
		_, x, err = golp.Simplex(sf.c, sf.a, sf.b, e.opts.Tolerance, nil)
	}()

	switch {
	case err == nil:
	case errors.Is(err, golp.ErrInfeasible):
		return nil, lp.StatusInfeasible, nil
	case errors.Is(err, golp.ErrUnbounded):
		return nil, lp.StatusUnbounded, nil
	default:
		return nil, lp.StatusNotSolved, err
	}

	kept = make([]float64, len(ps.cols))
	for k, j := range ps.cols {
		kept[k] = lower[j] + math.Max(x[k], 0)*sf.scale
	}
	return kept, lp.StatusOptimal, nil
}
