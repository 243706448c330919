package domain

import "fmt"

// Route is the unit of cost and profit computation: buy a product in one
// month at a location and deliver it in a later (or the same) month via a
// sell option. Route is a comparable value and is used directly as a map key.
type Route struct {
	Product     Product
	BuyMonth    Month
	SellMonth   Month
	BuyLocation Location
	SellOption  SellOption
}

// NewRoute validates the month order. Backward-dated routes cannot be built.
func NewRoute(p Product, buy, sell Month, loc Location, opt SellOption) (Route, error) {
	if sell.Before(buy) {
		return Route{}, fmt.Errorf("%w: buy %s, sell %s", ErrBackwardRoute, buy, sell)
	}
	return Route{
		Product:     p,
		BuyMonth:    buy,
		SellMonth:   sell,
		BuyLocation: loc,
		SellOption:  opt,
	}, nil
}

// HoldingMonths returns sell index minus buy index.
func (r Route) HoldingMonths() int {
	return HoldingMonths(r.BuyMonth, r.SellMonth)
}

// NeedsPipeline reports whether barrels move between hubs, i.e. the sell
// option is not the buy location.
func (r Route) NeedsPipeline() bool {
	return !r.SellOption.Serves(r.BuyLocation)
}

// StorageLocation returns the hub where a long position on this route sits
// in the tank. Only same-location routes spanning at least one month store.
func (r Route) StorageLocation() (Location, bool) {
	if r.NeedsPipeline() || r.HoldingMonths() == 0 {
		return "", false
	}
	return r.BuyLocation, true
}

// InTankDuring reports whether a stored barrel is held during month t, that
// is buy <= t < sell.
func (r Route) InTankDuring(t Month) bool {
	if _, ok := r.StorageLocation(); !ok {
		return false
	}
	return r.BuyMonth.Index <= t.Index && t.Index < r.SellMonth.Index
}

// Key is a stable identifier used for variable names and exports.
func (r Route) Key() string {
	return fmt.Sprintf("%s_%s_%s_%s_%s",
		r.Product, r.BuyLocation, r.SellOption, r.BuyMonth.Name, r.SellMonth.Name)
}

// String renders the route for logs.
func (r Route) String() string {
	return fmt.Sprintf("%s %s@%s -> %s via %s",
		r.Product, r.BuyMonth, r.BuyLocation, r.SellMonth, r.SellOption)
}
