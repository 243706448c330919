package lp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrDuplicateVariable = errors.New("lp: duplicate variable name")
	ErrUnknownVariable   = errors.New("lp: unknown variable")
	ErrInvalidBounds     = errors.New("lp: invalid variable bounds")
	ErrEmptyProblem      = errors.New("lp: problem has no variables")
	ErrNodeLimit         = errors.New("lp: branch-and-bound node limit reached")
)

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Kind is a variable domain.
type Kind int

const (
	Continuous Kind = iota
	Binary
)

func (k Kind) String() string {
	if k == Binary {
		return "binary"
	}
	return "continuous"
}

// VarID identifies a variable inside one Problem.
type VarID int

// NoVar marks an absent variable.
const NoVar VarID = -1

// Variable is a decision variable with bounds. Upper may be +Inf.
type Variable struct {
	ID    VarID
	Name  string
	Lower float64
	Upper float64
	Kind  Kind
}

// Term is coef * variable.
type Term struct {
	Var  VarID
	Coef float64
}

// Expr is a linear expression. The zero value is the empty sum.
type Expr []Term

// Add appends coef * v.
func (e Expr) Add(v VarID, coef float64) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Plus appends every term of o.
func (e Expr) Plus(o Expr) Expr {
	return append(e, o...)
}

// Scale returns a copy with every coefficient multiplied by k.
func (e Expr) Scale(k float64) Expr {
	out := make(Expr, len(e))
	for i, t := range e {
		out[i] = Term{Var: t.Var, Coef: t.Coef * k}
	}
	return out
}

// Normalize merges repeated variables, drops zero coefficients and sorts by
// variable id.
func (e Expr) Normalize() Expr {
	if len(e) == 0 {
		return nil
	}
	sum := make(map[VarID]float64, len(e))
	for _, t := range e {
		sum[t.Var] += t.Coef
	}
	out := make(Expr, 0, len(sum))
	for v, c := range sum {
		if c != 0 {
			out = append(out, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out
}

// Eval computes the expression at values, indexed by VarID.
func (e Expr) Eval(values []float64) float64 {
	var total float64
	for _, t := range e {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Relation is the comparison in a constraint.
type Relation int

const (
	LessEq Relation = iota
	Equal
	GreaterEq
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "="
	case GreaterEq:
		return ">="
	default:
		return "<="
	}
}

// Constraint is lhs rel rhs. Family groups constraints of the same kind
// (e.g. "BuyCap") for logging and reporting.
type Constraint struct {
	Name     string
	Family   string
	LHS      Expr
	Relation Relation
	RHS      float64
}

// Problem is a linear program with optional binary variables.
type Problem struct {
	Name        string
	Sense       Sense
	vars        []Variable
	names       map[string]VarID
	constraints []Constraint
	objective   Expr
}

// NewProblem creates an empty problem.
func NewProblem(name string, sense Sense) *Problem {
	return &Problem{
		Name:  name,
		Sense: sense,
		names: make(map[string]VarID),
	}
}

// AddVariable declares a variable. Names must be unique.
func (p *Problem) AddVariable(name string, lower, upper float64, kind Kind) (VarID, error) {
	if _, dup := p.names[name]; dup {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateVariable, name)
	}
	if kind == Binary {
		lower, upper = math.Max(lower, 0), math.Min(upper, 1)
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || lower > upper {
		return 0, fmt.Errorf("%w: %s [%g, %g]", ErrInvalidBounds, name, lower, upper)
	}

	id := VarID(len(p.vars))
	p.vars = append(p.vars, Variable{ID: id, Name: name, Lower: lower, Upper: upper, Kind: kind})
	p.names[name] = id
	return id, nil
}

// AddNonNegative declares a continuous variable in [0, +Inf).
func (p *Problem) AddNonNegative(name string) (VarID, error) {
	return p.AddVariable(name, 0, math.Inf(1), Continuous)
}

// AddBinary declares a {0,1} variable.
func (p *Problem) AddBinary(name string) (VarID, error) {
	return p.AddVariable(name, 0, 1, Binary)
}

// AddConstraint appends a constraint after normalizing its expression.
func (p *Problem) AddConstraint(c Constraint) error {
	for _, t := range c.LHS {
		if !p.valid(t.Var) {
			return fmt.Errorf("%w: id %d in constraint %s", ErrUnknownVariable, t.Var, c.Name)
		}
	}
	c.LHS = c.LHS.Normalize()
	p.constraints = append(p.constraints, c)
	return nil
}

// SetObjective replaces the objective expression.
func (p *Problem) SetObjective(e Expr) error {
	for _, t := range e {
		if !p.valid(t.Var) {
			return fmt.Errorf("%w: id %d in objective", ErrUnknownVariable, t.Var)
		}
	}
	p.objective = e.Normalize()
	return nil
}

func (p *Problem) valid(id VarID) bool {
	return id >= 0 && int(id) < len(p.vars)
}

// Variables returns the declared variables. Do not modify the slice.
func (p *Problem) Variables() []Variable { return p.vars }

// Variable returns one variable.
func (p *Problem) Variable(id VarID) Variable { return p.vars[id] }

// Lookup finds a variable by name.
func (p *Problem) Lookup(name string) (VarID, bool) {
	id, ok := p.names[name]
	return id, ok
}

// Constraints returns the constraints. Do not modify the slice.
func (p *Problem) Constraints() []Constraint { return p.constraints }

// Objective returns the normalized objective expression.
func (p *Problem) Objective() Expr { return p.objective }

// NumVariables returns the variable count.
func (p *Problem) NumVariables() int { return len(p.vars) }

// NumConstraints returns the constraint count.
func (p *Problem) NumConstraints() int { return len(p.constraints) }

// NumBinaries returns the number of binary variables.
func (p *Problem) NumBinaries() int {
	n := 0
	for _, v := range p.vars {
		if v.Kind == Binary {
			n++
		}
	}
	return n
}

// FamilyCounts returns the number of constraints per family.
func (p *Problem) FamilyCounts() map[string]int {
	out := make(map[string]int)
	for _, c := range p.constraints {
		out[c.Family]++
	}
	return out
}
