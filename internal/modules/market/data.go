// Package market holds the static market data the formulation is built from:
// spot prices, sour differentials, forecast adjustments, trading days,
// capacities and cost parameters.
package market

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/flatbook/internal/domain"
)

// Table maps a month name to a per-barrel value.
type Table map[string]float64

func (t Table) clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Costs are the static per-barrel cost parameters and model constants.
type Costs struct {
	PipelineFixed         float64        `yaml:"pipeline_fixed"`          // $/bbl when barrels move between hubs
	PipelineVariableRate  float64        `yaml:"pipeline_variable_rate"`  // share of the buy price added to the pipeline fee
	StoragePerMonth       float64        `yaml:"storage_per_month"`       // $/bbl/month
	StorageLimit          float64        `yaml:"storage_limit"`           // bbl per hub per month
	RefineryPremiumWTI    float64        `yaml:"refinery_premium_wti"`    // added to the Houston WTI forecast
	RefineryAdjustmentWTS float64        `yaml:"refinery_adjustment_wts"` // signed, added to the reference forecast
	RefineryWTSReference  domain.Product `yaml:"refinery_wts_reference"`  // forecast grade the WTS refinery price keys off
	LongHoldingCredit     float64        `yaml:"long_holding_credit"`     // asymmetric rule only
	BigMMultiplier        float64        `yaml:"big_m_multiplier"`        // big-M = multiplier x max monthly capacity
	VolumeThreshold       float64        `yaml:"volume_threshold"`        // bbl below which volumes report as zero
}

// Tables is the serializable form of the market data.
type Tables struct {
	Months             []string                   `yaml:"months"`
	MidlandPrice       Table                      `yaml:"midland_price"`
	HoustonPrice       Table                      `yaml:"houston_price"`
	SourMidland        Table                      `yaml:"sour_differential_midland"`
	SourHouston        Table                      `yaml:"sour_differential_houston"`
	ForecastAdjustment Table                      `yaml:"forecast_adjustment"`
	TradingDays        map[string]int             `yaml:"trading_days"`
	DailyCapacity      map[domain.Product]float64 `yaml:"daily_capacity"`
	Costs              Costs                      `yaml:"costs"`
}

func (t Tables) clone() Tables {
	out := t
	out.Months = append([]string(nil), t.Months...)
	out.MidlandPrice = t.MidlandPrice.clone()
	out.HoustonPrice = t.HoustonPrice.clone()
	out.SourMidland = t.SourMidland.clone()
	out.SourHouston = t.SourHouston.clone()
	out.ForecastAdjustment = t.ForecastAdjustment.clone()
	if t.TradingDays != nil {
		out.TradingDays = make(map[string]int, len(t.TradingDays))
		for k, v := range t.TradingDays {
			out.TradingDays[k] = v
		}
	}
	if t.DailyCapacity != nil {
		out.DailyCapacity = make(map[domain.Product]float64, len(t.DailyCapacity))
		for k, v := range t.DailyCapacity {
			out.DailyCapacity[k] = v
		}
	}
	return out
}

// Data is validated, immutable market data. Build it with New, Default or
// LoadScenario; every accessor is total over the calendar's months.
type Data struct {
	calendar domain.Calendar
	tables   Tables
}

// New validates the tables and takes a private copy.
func New(t Tables) (*Data, error) {
	t = t.clone()
	cal, err := domain.NewCalendar(t.Months...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMarketData, err)
	}
	if err := validate(cal, t); err != nil {
		return nil, err
	}
	return &Data{calendar: cal, tables: t}, nil
}

func validate(cal domain.Calendar, t Tables) error {
	named := []struct {
		name  string
		table Table
	}{
		{"midland_price", t.MidlandPrice},
		{"houston_price", t.HoustonPrice},
		{"sour_differential_midland", t.SourMidland},
		{"sour_differential_houston", t.SourHouston},
		{"forecast_adjustment", t.ForecastAdjustment},
	}
	for _, n := range named {
		if err := checkTable(cal, n.name, n.table); err != nil {
			return err
		}
	}

	for _, m := range cal.Months() {
		days, ok := t.TradingDays[m.Name]
		if !ok {
			return fmt.Errorf("%w: trading_days missing %s", domain.ErrInvalidMarketData, m.Name)
		}
		if days <= 0 {
			return fmt.Errorf("%w: trading_days[%s] = %d", domain.ErrInvalidMarketData, m.Name, days)
		}
	}
	for name := range t.TradingDays {
		if _, err := cal.Month(name); err != nil {
			return fmt.Errorf("%w: trading_days: %w", domain.ErrInvalidMarketData, err)
		}
	}

	for _, p := range domain.Products() {
		c, ok := t.DailyCapacity[p]
		if !ok || !(c > 0) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: daily_capacity[%s] must be positive", domain.ErrInvalidMarketData, p)
		}
	}
	for p := range t.DailyCapacity {
		if _, err := domain.ParseProduct(string(p)); err != nil {
			return fmt.Errorf("%w: daily_capacity: %w", domain.ErrInvalidMarketData, err)
		}
	}

	return validateCosts(t.Costs)
}

func checkTable(cal domain.Calendar, name string, table Table) error {
	for _, m := range cal.Months() {
		v, ok := table[m.Name]
		if !ok {
			return fmt.Errorf("%w: %s missing %s", domain.ErrInvalidMarketData, name, m.Name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%s] is not finite", domain.ErrInvalidMarketData, name, m.Name)
		}
	}
	for month := range table {
		if _, err := cal.Month(month); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidMarketData, name, err)
		}
	}
	return nil
}

func validateCosts(c Costs) error {
	finite := map[string]float64{
		"pipeline_fixed":          c.PipelineFixed,
		"pipeline_variable_rate":  c.PipelineVariableRate,
		"storage_per_month":       c.StoragePerMonth,
		"refinery_premium_wti":    c.RefineryPremiumWTI,
		"refinery_adjustment_wts": c.RefineryAdjustmentWTS,
		"long_holding_credit":     c.LongHoldingCredit,
	}
	keys := make([]string, 0, len(finite))
	for k := range finite {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := finite[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: costs.%s is not finite", domain.ErrInvalidMarketData, k)
		}
	}

	switch {
	case c.PipelineFixed < 0 || c.PipelineVariableRate < 0 || c.StoragePerMonth < 0:
		return fmt.Errorf("%w: pipeline and storage costs must be non-negative", domain.ErrInvalidMarketData)
	case !(c.StorageLimit > 0):
		return fmt.Errorf("%w: costs.storage_limit must be positive", domain.ErrInvalidMarketData)
	case !(c.BigMMultiplier > 1) || math.IsInf(c.BigMMultiplier, 0):
		return fmt.Errorf("%w: costs.big_m_multiplier must exceed 1", domain.ErrInvalidMarketData)
	case c.VolumeThreshold < 0 || math.IsNaN(c.VolumeThreshold):
		return fmt.Errorf("%w: costs.volume_threshold must be non-negative", domain.ErrInvalidMarketData)
	}
	if _, err := domain.ParseProduct(string(c.RefineryWTSReference)); err != nil {
		return fmt.Errorf("%w: costs.refinery_wts_reference: %w", domain.ErrInvalidMarketData, err)
	}
	return nil
}

// Calendar returns the planning calendar.
func (d *Data) Calendar() domain.Calendar { return d.calendar }

// Costs returns the cost parameters.
func (d *Data) Costs() Costs { return d.tables.Costs }

// Tables returns a copy of the underlying tables.
func (d *Data) Tables() Tables { return d.tables.clone() }

// SpotPrice is the WTI spot price at a hub.
func (d *Data) SpotPrice(loc domain.Location, m domain.Month) float64 {
	switch loc {
	case domain.Midland:
		return d.tables.MidlandPrice[m.Name]
	case domain.Houston:
		return d.tables.HoustonPrice[m.Name]
	}
	panic(fmt.Sprintf("market: %v: %q", domain.ErrUnknownLocation, loc))
}

// SourDifferential is the WTS discount to WTI at a hub.
func (d *Data) SourDifferential(loc domain.Location, m domain.Month) float64 {
	switch loc {
	case domain.Midland:
		return d.tables.SourMidland[m.Name]
	case domain.Houston:
		return d.tables.SourHouston[m.Name]
	}
	panic(fmt.Sprintf("market: %v: %q", domain.ErrUnknownLocation, loc))
}

// ForecastAdjustment is the forecast shift applied to Houston futures prices.
func (d *Data) ForecastAdjustment(m domain.Month) float64 {
	return d.tables.ForecastAdjustment[m.Name]
}

// TradingDays returns the trading-day count for a month.
func (d *Data) TradingDays(m domain.Month) int {
	return d.tables.TradingDays[m.Name]
}

// DailyCapacity returns the daily barrel limit for a product.
func (d *Data) DailyCapacity(p domain.Product) float64 {
	return d.tables.DailyCapacity[p]
}

// MonthlyCapacity is daily capacity times trading days.
func (d *Data) MonthlyCapacity(p domain.Product, m domain.Month) float64 {
	return d.DailyCapacity(p) * float64(d.TradingDays(m))
}

// MaxMonthlyCapacity is the largest monthly capacity across products and months.
func (d *Data) MaxMonthlyCapacity() float64 {
	var max float64
	for _, p := range domain.Products() {
		for _, m := range d.calendar.Months() {
			max = math.Max(max, d.MonthlyCapacity(p, m))
		}
	}
	return max
}

// ForecastHouston is the forecast Houston futures price: spot plus the
// forecast adjustment, net of the Houston sour differential for WTS.
func (d *Data) ForecastHouston(p domain.Product, m domain.Month) float64 {
	price := d.tables.HoustonPrice[m.Name] + d.tables.ForecastAdjustment[m.Name]
	switch p {
	case domain.WTI:
		return price
	case domain.WTS:
		return price - d.tables.SourHouston[m.Name]
	}
	panic(fmt.Sprintf("market: %v: %q", domain.ErrUnknownProduct, p))
}

// WithForecastShift returns new data with shift added to every month's
// forecast adjustment. The receiver is unchanged.
func (d *Data) WithForecastShift(shift float64) (*Data, error) {
	t := d.tables.clone()
	for m := range t.ForecastAdjustment {
		t.ForecastAdjustment[m] += shift
	}
	return New(t)
}

// WithCosts returns new data with replaced cost parameters.
func (d *Data) WithCosts(c Costs) (*Data, error) {
	t := d.tables.clone()
	t.Costs = c
	return New(t)
}

// WithMonths returns new data restricted to the named months, kept in the
// receiver's calendar order. Every name must be in the calendar.
func (d *Data) WithMonths(names ...string) (*Data, error) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		if _, err := d.calendar.Month(n); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMarketData, err)
		}
		keep[n] = true
	}

	t := d.tables.clone()
	t.Months = t.Months[:0]
	for _, m := range d.calendar.Months() {
		if keep[m.Name] {
			t.Months = append(t.Months, m.Name)
		}
	}
	for _, table := range []Table{t.MidlandPrice, t.HoustonPrice, t.SourMidland, t.SourHouston, t.ForecastAdjustment} {
		for m := range table {
			if !keep[m] {
				delete(table, m)
			}
		}
	}
	for m := range t.TradingDays {
		if !keep[m] {
			delete(t.TradingDays, m)
		}
	}
	return New(t)
}
