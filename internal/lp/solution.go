package lp

import (
	"context"
	"fmt"
	"math"
)

// Status is the outcome reported by an Engine.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	default:
		return "Not Solved"
	}
}

// Solution is what an Engine returns. Values and Objective are meaningful
// only when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
	Nodes     int
}

// Value returns the value of a variable, or 0 when no values are available.
func (s *Solution) Value(id VarID) float64 {
	if s == nil || int(id) >= len(s.Values) || id < 0 {
		return 0
	}
	return s.Values[id]
}

// Engine solves problems. Implementations must not modify the problem.
type Engine interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// Violation describes a constraint or bound not met by a point.
type Violation struct {
	Name   string
	Family string
	Amount float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (%s) violated by %g", v.Name, v.Family, v.Amount)
}

// Check evaluates values against every bound and constraint. A constraint
// is violated when it misses by more than tol*(1+max(|rhs|, sum|a*x|)).
func (p *Problem) Check(values []float64, tol float64) []Violation {
	var out []Violation
	if len(values) != len(p.vars) {
		return []Violation{{Name: "values", Family: "shape", Amount: math.Abs(float64(len(values) - len(p.vars)))}}
	}

	for _, v := range p.vars {
		x := values[v.ID]
		slack := tol * (1 + math.Abs(x))
		if x < v.Lower-slack {
			out = append(out, Violation{Name: v.Name, Family: "bound", Amount: v.Lower - x})
		}
		if x > v.Upper+slack {
			out = append(out, Violation{Name: v.Name, Family: "bound", Amount: x - v.Upper})
		}
		if v.Kind == Binary && math.Min(math.Abs(x), math.Abs(x-1)) > tol {
			out = append(out, Violation{Name: v.Name, Family: "integrality", Amount: math.Min(math.Abs(x), math.Abs(x-1))})
		}
	}

	for _, c := range p.constraints {
		lhs := c.LHS.Eval(values)
		var activity float64
		for _, t := range c.LHS {
			activity += math.Abs(t.Coef * values[t.Var])
		}
		limit := tol * (1 + math.Max(math.Abs(c.RHS), activity))
		var miss float64
		switch c.Relation {
		case LessEq:
			miss = lhs - c.RHS
		case GreaterEq:
			miss = c.RHS - lhs
		case Equal:
			miss = math.Abs(lhs - c.RHS)
		}
		if miss > limit {
			out = append(out, Violation{Name: c.Name, Family: c.Family, Amount: miss})
		}
	}
	return out
}
