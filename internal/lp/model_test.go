package lp

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr_Normalize(t *testing.T) {
	e := Expr{}.Add(2, 1).Add(0, 3).Add(2, -1).Add(1, 0.5).Add(0, 1)

	got := e.Normalize()

	assert.Equal(t, Expr{{Var: 0, Coef: 4}, {Var: 1, Coef: 0.5}}, got)
	assert.Nil(t, Expr{}.Normalize())
}

func TestProblem_AddVariable(t *testing.T) {
	p := NewProblem("t", Maximize)

	x, err := p.AddNonNegative("x")
	require.NoError(t, err)
	assert.Equal(t, VarID(0), x)
	assert.True(t, math.IsInf(p.Variable(x).Upper, 1))

	_, err = p.AddNonNegative("x")
	assert.ErrorIs(t, err, ErrDuplicateVariable)

	y, err := p.AddBinary("y")
	require.NoError(t, err)
	assert.Equal(t, Binary, p.Variable(y).Kind)
	assert.Equal(t, 1.0, p.Variable(y).Upper)
	assert.Equal(t, 1, p.NumBinaries())

	_, err = p.AddVariable("bad", 2, 1, Continuous)
	assert.ErrorIs(t, err, ErrInvalidBounds)

	id, ok := p.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, y, id)
}

func TestProblem_RejectsUnknownVariables(t *testing.T) {
	p := NewProblem("t", Maximize)
	_, err := p.AddNonNegative("x")
	require.NoError(t, err)

	err = p.AddConstraint(Constraint{Name: "c", LHS: Expr{}.Add(5, 1), RHS: 1})
	assert.ErrorIs(t, err, ErrUnknownVariable)

	err = p.SetObjective(Expr{}.Add(-1, 1))
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestProblem_Check(t *testing.T) {
	p := NewProblem("t", Maximize)
	x, _ := p.AddNonNegative("x")
	y, _ := p.AddBinary("y")
	require.NoError(t, p.AddConstraint(Constraint{Name: "cap", Family: "Cap", LHS: Expr{}.Add(x, 1), Relation: LessEq, RHS: 10}))
	require.NoError(t, p.AddConstraint(Constraint{Name: "link", Family: "Link", LHS: Expr{}.Add(x, 1).Add(y, -100), Relation: LessEq, RHS: 0}))
	require.NoError(t, p.AddConstraint(Constraint{Name: "eq", Family: "Eq", LHS: Expr{}.Add(x, 1), Relation: Equal, RHS: 4}))

	assert.Empty(t, p.Check([]float64{4, 1}, 1e-9))

	v := p.Check([]float64{4, 0}, 1e-9)
	require.Len(t, v, 1)
	assert.Equal(t, "link", v[0].Name)

	v = p.Check([]float64{11, 0.5}, 1e-9)
	families := make([]string, 0, len(v))
	for _, vi := range v {
		families = append(families, vi.Family)
	}
	assert.ElementsMatch(t, []string{"integrality", "Cap", "Eq"}, families)

	assert.Len(t, p.Check([]float64{1}, 1e-9), 1)
}

func TestProblem_FamilyCounts(t *testing.T) {
	p := NewProblem("t", Maximize)
	x, _ := p.AddNonNegative("x")
	for i := 0; i < 3; i++ {
		require.NoError(t, p.AddConstraint(Constraint{Name: "a", Family: "A", LHS: Expr{}.Add(x, 1), RHS: 1}))
	}
	require.NoError(t, p.AddConstraint(Constraint{Name: "b", Family: "B", LHS: Expr{}.Add(x, 1), RHS: 1}))

	assert.Equal(t, map[string]int{"A": 3, "B": 1}, p.FamilyCounts())
}

func TestProblem_WriteLP(t *testing.T) {
	p := NewProblem("flat", Maximize)
	x, _ := p.AddNonNegative("xplus_WTI")
	z, _ := p.AddNonNegative("xminus_WTI")
	y, _ := p.AddBinary("yplus_WTI")
	require.NoError(t, p.SetObjective(Expr{}.Add(x, 0.25).Add(z, -0.25)))
	require.NoError(t, p.AddConstraint(Constraint{Name: "FlatBook_WTI", LHS: Expr{}.Add(x, 1).Add(z, -1), Relation: Equal}))
	require.NoError(t, p.AddConstraint(Constraint{Name: "Link", LHS: Expr{}.Add(x, 1).Add(y, -1e7), Relation: LessEq}))

	var buf bytes.Buffer
	require.NoError(t, p.WriteLP(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\\* flat *\\\nMaximize\n"))
	assert.Contains(t, out, " obj: 0.25 xplus_WTI - 0.25 xminus_WTI\n")
	assert.Contains(t, out, " FlatBook_WTI: 1 xplus_WTI - 1 xminus_WTI = 0\n")
	assert.Contains(t, out, " Link: 1 xplus_WTI - 10000000 yplus_WTI <= 0\n")
	assert.Contains(t, out, "Binaries\n yplus_WTI\n")
	assert.True(t, strings.HasSuffix(out, "End\n"))

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), maxLineLen)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Optimal", StatusOptimal.String())
	assert.Equal(t, "Infeasible", StatusInfeasible.String())
	assert.Equal(t, "Unbounded", StatusUnbounded.String())
	assert.Equal(t, "Not Solved", StatusNotSolved.String())
}
