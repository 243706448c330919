package solver

import (
	"math"

	"github.com/aristath/flatbook/internal/lp"
)

// singleton records a removed implied-free column singleton: the column
// takes the smallest value that satisfies its row once the row's other
// columns are known.
type singleton struct {
	col   int
	lower float64
	coef  float64
	rhs   float64
	terms []lp.Term
}

// presolved is a reduced problem plus what is needed to expand a reduced
// solution back to every column.
type presolved struct {
	values []float64
	rhs    []float64
	cols   []int
	rows   []int
	stack  []singleton

	fixed, emptyRows, emptyCols, singletons int
}

// presolve reduces the problem under the given bounds until no rule applies:
// fixed columns are folded into the right-hand side, empty rows are checked
// and dropped, empty columns go to their cheapest bound and implied-free
// column singletons are removed together with their row. A status other
// than optimal means the reduction already decided the problem.
func (m *model) presolve(lower, upper []float64, tol float64) (*presolved, lp.Status) {
	n, nr := len(m.cost), len(m.rows)
	ps := &presolved{
		values: make([]float64, n),
		rhs:    make([]float64, nr),
	}
	colActive := make([]bool, n)
	rowActive := make([]bool, nr)
	for j := range colActive {
		colActive[j] = true
	}
	for i, c := range m.rows {
		rowActive[i] = true
		ps.rhs[i] = c.RHS
	}

	fix := func(j int, v float64) {
		ps.values[j] = v
		colActive[j] = false
		for _, e := range m.colRows[j] {
			if rowActive[e.row] {
				ps.rhs[e.row] -= e.coef * v
			}
		}
	}
	activeRows := func(j int) []entry {
		var out []entry
		for _, e := range m.colRows[j] {
			if rowActive[e.row] {
				out = append(out, e)
			}
		}
		return out
	}
	rowEmpty := func(i int) bool {
		for _, t := range m.rows[i].LHS {
			if colActive[t.Var] {
				return false
			}
		}
		return true
	}

	for changed := true; changed; {
		changed = false

		for j := 0; j < n; j++ {
			if colActive[j] && lower[j] == upper[j] {
				fix(j, lower[j])
				ps.fixed++
				changed = true
			}
		}

		for i := 0; i < nr; i++ {
			if !rowActive[i] || !rowEmpty(i) {
				continue
			}
			if !emptyRowHolds(m.rows[i].Relation, ps.rhs[i], tol) {
				return nil, lp.StatusInfeasible
			}
			rowActive[i] = false
			ps.emptyRows++
			changed = true
		}

		for j := 0; j < n; j++ {
			if !colActive[j] {
				continue
			}
			rows := activeRows(j)
			switch {
			case len(rows) == 0:
				v, ok := emptyColumnValue(m.cost[j], lower[j], upper[j])
				if !ok {
					return nil, lp.StatusUnbounded
				}
				fix(j, v)
				ps.emptyCols++
				changed = true

			case len(rows) == 1 && m.cost[j] == 0 && math.IsInf(upper[j], 1) &&
				restoresFeasibility(m.rows[rows[0].row].Relation, rows[0].coef):
				i := rows[0].row
				s := singleton{col: j, lower: lower[j], coef: rows[0].coef, rhs: ps.rhs[i]}
				for _, t := range m.rows[i].LHS {
					if int(t.Var) != j && colActive[t.Var] {
						s.terms = append(s.terms, t)
					}
				}
				ps.stack = append(ps.stack, s)
				colActive[j] = false
				rowActive[i] = false
				ps.singletons++
				changed = true
			}
		}
	}

	for j, ok := range colActive {
		if ok {
			ps.cols = append(ps.cols, j)
		}
	}
	for i, ok := range rowActive {
		if ok {
			ps.rows = append(ps.rows, i)
		}
	}
	return ps, lp.StatusOptimal
}

// postsolve writes the reduced solution into the kept columns and replays
// the singleton removals in reverse.
func (ps *presolved) postsolve(kept []float64) []float64 {
	for k, j := range ps.cols {
		ps.values[j] = kept[k]
	}
	for k := len(ps.stack) - 1; k >= 0; k-- {
		s := ps.stack[k]
		var act float64
		for _, t := range s.terms {
			act += t.Coef * ps.values[t.Var]
		}
		ps.values[s.col] = math.Max(s.lower, (s.rhs-act)/s.coef)
	}
	return ps.values
}

func emptyRowHolds(rel lp.Relation, rhs, tol float64) bool {
	slack := tol * (1 + math.Abs(rhs))
	switch rel {
	case lp.LessEq:
		return 0 <= rhs+slack
	case lp.GreaterEq:
		return 0 >= rhs-slack
	default:
		return math.Abs(rhs) <= slack
	}
}

// emptyColumnValue is the optimal value of a column that appears in no row.
// ok is false when the column can improve the objective without limit.
func emptyColumnValue(cost, lower, upper float64) (float64, bool) {
	if cost >= 0 {
		return lower, true
	}
	if math.IsInf(upper, 1) {
		return 0, false
	}
	return upper, true
}

// restoresFeasibility reports whether raising a column with coefficient coef
// can always satisfy a row of the given relation.
func restoresFeasibility(rel lp.Relation, coef float64) bool {
	switch rel {
	case lp.LessEq:
		return coef < 0
	case lp.GreaterEq:
		return coef > 0
	}
	return false
}
