// Package routes enumerates the route space and allocates one pair of volume
// variables (and optionally a pair of selectors) per route.
package routes

import (
	"fmt"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
)

// Variable name prefixes, one per side and kind.
const (
	LongPrefix          = "xplus"
	ShortPrefix         = "xminus"
	LongSelectorPrefix  = "yplus"
	ShortSelectorPrefix = "yminus"
)

// Enumerate returns every route over the calendar with sell month >= buy
// month, ordered product, buy location, sell option, buy month, sell month.
// The order is the variable allocation order and never changes.
func Enumerate(cal domain.Calendar) []domain.Route {
	months := cal.Months()
	n := len(months)
	out := make([]domain.Route, 0, len(domain.Products())*len(domain.Locations())*len(domain.SellOptions())*n*(n+1)/2)

	for _, p := range domain.Products() {
		for _, loc := range domain.Locations() {
			for _, opt := range domain.SellOptions() {
				for i, buy := range months {
					for _, sell := range months[i:] {
						out = append(out, domain.Route{
							Product:     p,
							BuyMonth:    buy,
							SellMonth:   sell,
							BuyLocation: loc,
							SellOption:  opt,
						})
					}
				}
			}
		}
	}
	return out
}

// Variables are the decision variables of one route. Selector ids are
// lp.NoVar when the set was allocated without selectors.
type Variables struct {
	Long          lp.VarID
	Short         lp.VarID
	LongSelector  lp.VarID
	ShortSelector lp.VarID
}

// HasSelectors reports whether the route carries binary selectors.
func (v Variables) HasSelectors() bool {
	return v.LongSelector != lp.NoVar && v.ShortSelector != lp.NoVar
}

// Volume returns the volume variable for a side.
func (v Variables) Volume(side domain.Side) lp.VarID {
	if side == domain.Short {
		return v.Short
	}
	return v.Long
}

// Selector returns the selector variable for a side.
func (v Variables) Selector(side domain.Side) lp.VarID {
	if side == domain.Short {
		return v.ShortSelector
	}
	return v.LongSelector
}

// Set is the enumerated route space bound to the variables of one problem.
type Set struct {
	routes    []domain.Route
	vars      map[domain.Route]Variables
	selectors bool
}

// Allocate enumerates the routes and declares their variables in p. Volume
// variables are non-negative and unbounded above. With selectors, each route
// also gets a long and a short binary.
func Allocate(cal domain.Calendar, p *lp.Problem, selectors bool) (*Set, error) {
	rs := Enumerate(cal)
	s := &Set{
		routes:    rs,
		vars:      make(map[domain.Route]Variables, len(rs)),
		selectors: selectors,
	}

	for _, r := range rs {
		v := Variables{LongSelector: lp.NoVar, ShortSelector: lp.NoVar}
		var err error
		if v.Long, err = p.AddNonNegative(VariableName(LongPrefix, r)); err != nil {
			return nil, fmt.Errorf("allocate %s: %w", r, err)
		}
		if v.Short, err = p.AddNonNegative(VariableName(ShortPrefix, r)); err != nil {
			return nil, fmt.Errorf("allocate %s: %w", r, err)
		}
		if selectors {
			if v.LongSelector, err = p.AddBinary(VariableName(LongSelectorPrefix, r)); err != nil {
				return nil, fmt.Errorf("allocate %s: %w", r, err)
			}
			if v.ShortSelector, err = p.AddBinary(VariableName(ShortSelectorPrefix, r)); err != nil {
				return nil, fmt.Errorf("allocate %s: %w", r, err)
			}
		}
		s.vars[r] = v
	}
	return s, nil
}

// VariableName is prefix_KEY, e.g. xplus_WTI_M_H_May_June.
func VariableName(prefix string, r domain.Route) string {
	return prefix + "_" + r.Key()
}

// Routes returns the routes in allocation order. Do not modify the slice.
func (s *Set) Routes() []domain.Route { return s.routes }

// Len returns the number of routes.
func (s *Set) Len() int { return len(s.routes) }

// HasSelectors reports whether selectors were allocated.
func (s *Set) HasSelectors() bool { return s.selectors }

// Variables returns the variables of a route.
func (s *Set) Variables(r domain.Route) (Variables, bool) {
	v, ok := s.vars[r]
	return v, ok
}

// MustVariables is Variables for routes known to belong to the set.
func (s *Set) MustVariables(r domain.Route) Variables {
	v, ok := s.vars[r]
	if !ok {
		panic(fmt.Sprintf("routes: %s not in set", r))
	}
	return v
}

// Filter returns the routes, in allocation order, for which keep is true.
func (s *Set) Filter(keep func(domain.Route) bool) []domain.Route {
	var out []domain.Route
	for _, r := range s.routes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
