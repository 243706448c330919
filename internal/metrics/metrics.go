// Package metrics holds the Prometheus collectors of a batch run. Each run
// owns its registry; flatbook writes it in the node-exporter textfile format
// rather than serving it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a dedicated registry plus the collectors registered on it.
type Metrics struct {
	Registry *prometheus.Registry

	Routes       *prometheus.GaugeVec
	Variables    *prometheus.GaugeVec
	Constraints  *prometheus.GaugeVec
	Binaries     *prometheus.GaugeVec
	SolveSeconds *prometheus.HistogramVec
	Objective    *prometheus.GaugeVec
	Nodes        *prometheus.CounterVec
	Solves       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Routes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "flatbook_routes", Help: "Enumerated routes in the last formulation."},
			[]string{"policy"},
		),
		Variables: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "flatbook_variables", Help: "Decision variables in the last formulation."},
			[]string{"policy"},
		),
		Constraints: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "flatbook_constraints", Help: "Constraints in the last formulation."},
			[]string{"policy"},
		),
		Binaries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "flatbook_binaries", Help: "Binary selectors in the last formulation."},
			[]string{"policy"},
		),
		SolveSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "flatbook_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}},
			[]string{"policy", "status"},
		),
		Objective: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "flatbook_objective_dollars", Help: "Objective of the last optimal solve."},
			[]string{"policy"},
		),
		Nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "flatbook_bnb_nodes_total", Help: "Branch-and-bound relaxations solved."},
			[]string{"policy"},
		),
		Solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "flatbook_solves_total", Help: "Solves by outcome status."},
			[]string{"policy", "status"},
		),
	}
	m.Registry.MustRegister(m.Routes, m.Variables, m.Constraints, m.Binaries, m.SolveSeconds, m.Objective, m.Nodes, m.Solves)
	return m
}

// ObserveFormulation records the size of a formulation.
func (m *Metrics) ObserveFormulation(policy string, routes, variables, constraints, binaries int) {
	m.Routes.WithLabelValues(policy).Set(float64(routes))
	m.Variables.WithLabelValues(policy).Set(float64(variables))
	m.Constraints.WithLabelValues(policy).Set(float64(constraints))
	m.Binaries.WithLabelValues(policy).Set(float64(binaries))
}

// ObserveSolve records a solve outcome. The objective gauge only moves on
// optimal solves.
func (m *Metrics) ObserveSolve(policy, status string, d time.Duration, objective float64, nodes int, optimal bool) {
	m.SolveSeconds.WithLabelValues(policy, status).Observe(d.Seconds())
	m.Solves.WithLabelValues(policy, status).Inc()
	m.Nodes.WithLabelValues(policy).Add(float64(nodes))
	if optimal {
		m.Objective.WithLabelValues(policy).Set(objective)
	}
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
