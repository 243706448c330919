// Package pricing derives per-barrel buy costs, transport costs and sale
// prices from market data.
package pricing

import (
	"fmt"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/modules/market"
)

// Pricer evaluates the pricing functions over one immutable market data set.
// All methods are pure.
type Pricer struct {
	data *market.Data
}

// NewPricer creates a pricer over data.
func NewPricer(data *market.Data) *Pricer {
	return &Pricer{data: data}
}

// Data returns the market data the pricer reads.
func (p *Pricer) Data() *market.Data { return p.data }

// CostBuy is the price paid for a barrel of product at loc in month m:
// the hub spot price, net of the hub sour differential for WTS.
func (p *Pricer) CostBuy(product domain.Product, m domain.Month, loc domain.Location) float64 {
	price := p.data.SpotPrice(loc, m)
	switch product {
	case domain.WTI:
		return price
	case domain.WTS:
		return price - p.data.SourDifferential(loc, m)
	}
	panic(fmt.Sprintf("pricing: %v: %q", domain.ErrUnknownProduct, product))
}

// PipelineCostAdjust is the pipeline fee for barrels bought at loc in month
// m: a fixed fee plus a share of the buy price.
func (p *Pricer) PipelineCostAdjust(product domain.Product, m domain.Month, loc domain.Location) float64 {
	c := p.data.Costs()
	return c.PipelineFixed + c.PipelineVariableRate*p.CostBuy(product, m, loc)
}

// SalePrice is the price received in month m through a sell option.
func (p *Pricer) SalePrice(product domain.Product, m domain.Month, opt domain.SellOption) float64 {
	c := p.data.Costs()
	switch opt {
	case domain.SellMidland:
		return p.CostBuy(product, m, domain.Midland)
	case domain.SellHouston:
		return p.data.ForecastHouston(product, m)
	case domain.SellRefinery:
		switch product {
		case domain.WTI:
			return p.data.ForecastHouston(domain.WTI, m) + c.RefineryPremiumWTI
		case domain.WTS:
			// keyed off the reference grade's forecast, WTI unless configured
			return p.data.ForecastHouston(c.RefineryWTSReference, m) + c.RefineryAdjustmentWTS
		}
		panic(fmt.Sprintf("pricing: %v: %q", domain.ErrUnknownProduct, product))
	}
	panic(fmt.Sprintf("pricing: %v: %q", domain.ErrUnknownSellOption, opt))
}

// TransportCost is the pipeline fee a route pays, zero when the sell option
// serves the buy location.
func (p *Pricer) TransportCost(r domain.Route) float64 {
	if !r.NeedsPipeline() {
		return 0
	}
	return p.PipelineCostAdjust(r.Product, r.BuyMonth, r.BuyLocation)
}

// StorageCost is the storage accrued over the route's holding months.
func (p *Pricer) StorageCost(r domain.Route) float64 {
	return p.data.Costs().StoragePerMonth * float64(r.HoldingMonths())
}
