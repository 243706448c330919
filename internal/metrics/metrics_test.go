package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveFormulation("symmetric-lp", 432, 864, 50, 0)
	m.ObserveSolve("symmetric-lp", "Optimal", 250*time.Millisecond, 1234.5, 1, true)
	m.ObserveSolve("symmetric-lp", "Infeasible", time.Second, 99, 3, false)

	path := filepath.Join(t.TempDir(), "flatbook.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `flatbook_routes{policy="symmetric-lp"} 432`)
	assert.Contains(t, out, `flatbook_variables{policy="symmetric-lp"} 864`)
	assert.Contains(t, out, `flatbook_constraints{policy="symmetric-lp"} 50`)
	assert.Contains(t, out, `flatbook_objective_dollars{policy="symmetric-lp"} 1234.5`)
	assert.Contains(t, out, `flatbook_bnb_nodes_total{policy="symmetric-lp"} 4`)
	assert.Contains(t, out, `flatbook_solves_total{policy="symmetric-lp",status="Infeasible"} 1`)
	assert.Contains(t, out, `flatbook_solve_duration_seconds_count{policy="symmetric-lp",status="Optimal"} 1`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveFormulation("asymmetric-mip", 1, 2, 3, 4)

	families, err := b.Registry.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
