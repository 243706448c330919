package planning

import (
	"fmt"
	"math"

	"github.com/aristath/flatbook/internal/domain"
)

// Properties verified by Check.
const (
	PropertyRouteOrder   = "route_order"
	PropertyFlatBook     = "flat_book"
	PropertyBuyCapacity  = "buy_capacity"
	PropertySellCapacity = "sell_capacity"
	PropertyStorage      = "storage"
	PropertyLinking      = "linking"
)

// Violation is a plan property that does not hold.
type Violation struct {
	Property string
	Detail   string
	Amount   float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (by %g)", v.Property, v.Detail, v.Amount)
}

// Check verifies an optimal plan against the desk rules: routes never run
// backwards, books are flat per product, monthly buy and sell volume stays
// within capacity, tanks stay within the storage limit and, with selectors,
// an unselected side carries no volume. Limits are relaxed by
// tol*(1+limit). Non-optimal plans have nothing to check.
func Check(plan *Plan, tol float64) []Violation {
	if !plan.Optimal() {
		return nil
	}
	var out []Violation
	exceeds := func(got, limit float64) bool {
		return got > limit+tol*(1+math.Abs(limit))
	}

	type productMonth struct {
		product domain.Product
		month   int
	}
	buy := make(map[productMonth]float64)
	sell := make(map[productMonth]float64)
	type hubMonth struct {
		hub   domain.Location
		month int
	}
	tank := make(map[hubMonth]float64)

	for _, r := range plan.Records {
		rt := r.Route
		if rt.SellMonth.Index < rt.BuyMonth.Index {
			out = append(out, Violation{Property: PropertyRouteOrder, Detail: rt.Key(), Amount: float64(rt.BuyMonth.Index - rt.SellMonth.Index)})
		}

		both := r.LongVolume + r.ShortVolume
		buy[productMonth{rt.Product, rt.BuyMonth.Index}] += both
		sell[productMonth{rt.Product, rt.SellMonth.Index}] += both

		if hub, ok := rt.StorageLocation(); ok {
			for t := rt.BuyMonth.Index; t < rt.SellMonth.Index; t++ {
				tank[hubMonth{hub, t}] += r.LongVolume
			}
		}

		if plan.Selectors {
			for _, side := range domain.Sides() {
				if !r.Selected(side) && r.Volume(side) > 0 {
					out = append(out, Violation{Property: PropertyLinking, Detail: fmt.Sprintf("%s %s unselected", rt.Key(), side), Amount: r.Volume(side)})
				}
			}
		}
	}

	for _, product := range domain.Products() {
		t := plan.Totals[product]
		if diff := math.Abs(t.Long - t.Short); diff > tol*(1+t.Long+t.Short) {
			out = append(out, Violation{Property: PropertyFlatBook, Detail: string(product), Amount: diff})
		}
	}

	for _, c := range plan.Capacities {
		key := productMonth{c.Product, c.Month.Index}
		if got := buy[key]; exceeds(got, c.Barrels) {
			out = append(out, Violation{Property: PropertyBuyCapacity, Detail: fmt.Sprintf("%s %s", c.Product, c.Month), Amount: got - c.Barrels})
		}
		if got := sell[key]; exceeds(got, c.Barrels) {
			out = append(out, Violation{Property: PropertySellCapacity, Detail: fmt.Sprintf("%s %s", c.Product, c.Month), Amount: got - c.Barrels})
		}
	}

	for _, hub := range domain.Locations() {
		for _, m := range plan.Calendar.Months() {
			if got := tank[hubMonth{hub, m.Index}]; exceeds(got, plan.StorageLimit) {
				out = append(out, Violation{Property: PropertyStorage, Detail: fmt.Sprintf("%s %s", hub, m), Amount: got - plan.StorageLimit})
			}
		}
	}
	return out
}
