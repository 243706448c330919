// Package optimization turns market data into a solver-ready problem: route
// profit coefficients, capacity, flat-book, storage and linking constraints,
// and the objective.
package optimization

import (
	"fmt"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/modules/pricing"
)

// ProfitRule selects how long and short route economics are computed.
type ProfitRule int

const (
	// SymmetricProfit uses one profit per route: long earns it, short earns
	// its negation.
	SymmetricProfit ProfitRule = iota
	// AsymmetricProfit charges storage (less the holding credit) to longs
	// only and prices shorts as cost minus sale.
	AsymmetricProfit
)

func (r ProfitRule) String() string {
	if r == AsymmetricProfit {
		return "asymmetric"
	}
	return "symmetric"
}

// Coefficients are a route's per-barrel objective coefficients.
type Coefficients struct {
	Long  float64
	Short float64
}

// For returns the coefficient of a side.
func (c Coefficients) For(side domain.Side) float64 {
	if side == domain.Short {
		return c.Short
	}
	return c.Long
}

// ProfitCalculator computes route profits under a rule.
type ProfitCalculator struct {
	pricer *pricing.Pricer
	rule   ProfitRule
}

// NewProfitCalculator creates a calculator.
func NewProfitCalculator(pricer *pricing.Pricer, rule ProfitRule) *ProfitCalculator {
	return &ProfitCalculator{pricer: pricer, rule: rule}
}

// Profit is sale price minus buy cost, pipeline fee and storage accrued over
// the holding months.
func (pc *ProfitCalculator) Profit(r domain.Route) float64 {
	return pc.grossMargin(r) - pc.pricer.StorageCost(r)
}

// ProfitLong is the asymmetric long profit: storage less the holding credit
// is charged only when the route spans at least one month.
func (pc *ProfitCalculator) ProfitLong(r domain.Route) float64 {
	margin := pc.grossMargin(r)
	if r.HoldingMonths() > 0 {
		margin += pc.pricer.Data().Costs().LongHoldingCredit - pc.pricer.StorageCost(r)
	}
	return margin
}

// ProfitShort is the asymmetric short profit: buy cost plus pipeline fee
// minus sale price, with no storage.
func (pc *ProfitCalculator) ProfitShort(r domain.Route) float64 {
	return -pc.grossMargin(r)
}

func (pc *ProfitCalculator) grossMargin(r domain.Route) float64 {
	sale := pc.pricer.SalePrice(r.Product, r.SellMonth, r.SellOption)
	cost := pc.pricer.CostBuy(r.Product, r.BuyMonth, r.BuyLocation) + pc.pricer.TransportCost(r)
	return sale - cost
}

// Coefficients returns the long and short objective coefficients. Both are
// oriented so that a profitable position raises the objective.
func (pc *ProfitCalculator) Coefficients(r domain.Route) Coefficients {
	switch pc.rule {
	case SymmetricProfit:
		p := pc.Profit(r)
		return Coefficients{Long: p, Short: -p}
	case AsymmetricProfit:
		return Coefficients{Long: pc.ProfitLong(r), Short: pc.ProfitShort(r)}
	}
	panic(fmt.Sprintf("optimization: unknown profit rule %d", pc.rule))
}
