// Package planning runs a formulation through an engine and reads the
// solution back into a per-route plan.
package planning

import (
	"time"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/optimization"
)

// Record is one route with its objective coefficients and, for optimal
// plans, its resolved volumes. Volumes under the reporting threshold are 0.
type Record struct {
	Route        domain.Route
	Coefficients optimization.Coefficients
	LongVolume   float64
	ShortVolume  float64
	// Selector values; both false when the plan has no selectors.
	LongSelected  bool
	ShortSelected bool
}

// Volume returns the volume on a side.
func (r Record) Volume(side domain.Side) float64 {
	if side == domain.Short {
		return r.ShortVolume
	}
	return r.LongVolume
}

// Selected returns the selector on a side.
func (r Record) Selected(side domain.Side) bool {
	if side == domain.Short {
		return r.ShortSelected
	}
	return r.LongSelected
}

// Trade is one executed side of a route.
type Trade struct {
	Route  domain.Route
	Side   domain.Side
	Volume float64
	// Profit is the per-barrel objective coefficient of the side.
	Profit float64
}

// Totals are per-product volume sums.
type Totals struct {
	Long  float64
	Short float64
}

// Capacity is one cell of the monthly capacity table.
type Capacity struct {
	Product domain.Product
	Month   domain.Month
	Barrels float64
}

// Plan is the outcome of one run. Records and Totals are empty unless the
// status is optimal.
type Plan struct {
	RunID     string
	Policy    string
	Status    lp.Status
	Objective float64
	Nodes     int
	SolveTime time.Duration
	Selectors bool
	Calendar  domain.Calendar
	// StorageLimit is the per-hub tank capacity the plan was built under.
	StorageLimit float64
	Records      []Record
	Totals       map[domain.Product]Totals
	Capacities   []Capacity
}

// Optimal reports whether the plan carries a solution.
func (p *Plan) Optimal() bool {
	return p.Status == lp.StatusOptimal
}

// Trades returns every side with a nonzero volume, in route order, long
// before short.
func (p *Plan) Trades() []Trade {
	var out []Trade
	for _, r := range p.Records {
		for _, side := range domain.Sides() {
			if v := r.Volume(side); v > 0 {
				out = append(out, Trade{Route: r.Route, Side: side, Volume: v, Profit: r.Coefficients.For(side)})
			}
		}
	}
	return out
}

// TradesFor returns the trades of one product.
func (p *Plan) TradesFor(product domain.Product) []Trade {
	var out []Trade
	for _, t := range p.Trades() {
		if t.Route.Product == product {
			out = append(out, t)
		}
	}
	return out
}

// RecordsFor returns the records of one product.
func (p *Plan) RecordsFor(product domain.Product) []Record {
	var out []Record
	for _, r := range p.Records {
		if r.Route.Product == product {
			out = append(out, r)
		}
	}
	return out
}

// Extract reads a solution back into a plan. Non-optimal solutions yield a
// plan with the status and capacity table only.
func Extract(f *optimization.Formulation, sol *lp.Solution, runID string) *Plan {
	plan := &Plan{
		RunID:     runID,
		Policy:    f.Options.Name(),
		Status:    sol.Status,
		Nodes:     sol.Nodes,
		Selectors: f.Routes.HasSelectors(),
		Calendar:  f.Data.Calendar(),

		StorageLimit: f.Data.Costs().StorageLimit,
	}
	for _, product := range domain.Products() {
		for _, m := range f.Data.Calendar().Months() {
			plan.Capacities = append(plan.Capacities, Capacity{
				Product: product,
				Month:   m,
				Barrels: f.Data.MonthlyCapacity(product, m),
			})
		}
	}
	if sol.Status != lp.StatusOptimal {
		return plan
	}

	threshold := f.Data.Costs().VolumeThreshold
	volume := func(id lp.VarID) float64 {
		if v := sol.Value(id); v > threshold {
			return v
		}
		return 0
	}

	plan.Objective = sol.Objective
	plan.Totals = make(map[domain.Product]Totals, len(domain.Products()))
	plan.Records = make([]Record, 0, f.Routes.Len())
	for _, r := range f.Routes.Routes() {
		v := f.Routes.MustVariables(r)
		rec := Record{
			Route:        r,
			Coefficients: f.Coefficients[r],
			LongVolume:   volume(v.Long),
			ShortVolume:  volume(v.Short),
		}
		if v.HasSelectors() {
			rec.LongSelected = sol.Value(v.LongSelector) > 0.5
			rec.ShortSelected = sol.Value(v.ShortSelector) > 0.5
		}
		plan.Records = append(plan.Records, rec)

		t := plan.Totals[r.Product]
		t.Long += rec.LongVolume
		t.Short += rec.ShortVolume
		plan.Totals[r.Product] = t
	}
	return plan
}
