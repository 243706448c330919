package optimization

import (
	"fmt"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/aristath/flatbook/internal/modules/routes"
	"github.com/rs/zerolog"
)

// Constraint families.
const (
	FamilyBuyCap    = "BuyCap"
	FamilySellCap   = "SellCap"
	FamilyFlatBook  = "FlatBook"
	FamilyInvCap    = "InvCap"
	FamilyLinkLong  = "LinkLong"
	FamilyLinkShort = "LinkShort"
)

// ConstraintsManager translates desk rules into problem constraints.
type ConstraintsManager struct {
	data *market.Data
	log  zerolog.Logger
}

// NewConstraintsManager creates a new constraints manager.
func NewConstraintsManager(data *market.Data, log zerolog.Logger) *ConstraintsManager {
	return &ConstraintsManager{
		data: data,
		log:  log.With().Str("component", "constraints").Logger(),
	}
}

// BuildConstraints adds every constraint family to p. Linking rows are
// added only when the set carries selectors.
func (cm *ConstraintsManager) BuildConstraints(p *lp.Problem, set *routes.Set, bigM float64) error {
	steps := []struct {
		family string
		build  func(*lp.Problem, *routes.Set) error
	}{
		{"capacity", cm.buildCapacity},
		{FamilyFlatBook, cm.buildFlatBook},
		{FamilyInvCap, cm.buildInventory},
	}
	for _, s := range steps {
		if err := s.build(p, set); err != nil {
			return fmt.Errorf("build %s constraints: %w", s.family, err)
		}
	}

	if set.HasSelectors() {
		if err := cm.buildLinking(p, set, bigM); err != nil {
			return fmt.Errorf("build linking constraints: %w", err)
		}
	}

	counts := p.FamilyCounts()
	for _, f := range []string{FamilyBuyCap, FamilySellCap, FamilyFlatBook, FamilyInvCap, FamilyLinkLong, FamilyLinkShort} {
		cm.log.Debug().Str("family", f).Int("count", counts[f]).Msg("Constraint family built")
	}
	return nil
}

type productMonth struct {
	product domain.Product
	month   int
}

// buildCapacity caps long plus short volume per product and month, once
// keyed by buy month and once by sell month.
func (cm *ConstraintsManager) buildCapacity(p *lp.Problem, set *routes.Set) error {
	buy := make(map[productMonth]lp.Expr)
	sell := make(map[productMonth]lp.Expr)
	for _, r := range set.Routes() {
		v := set.MustVariables(r)
		bk := productMonth{r.Product, r.BuyMonth.Index}
		sk := productMonth{r.Product, r.SellMonth.Index}
		buy[bk] = buy[bk].Add(v.Long, 1).Add(v.Short, 1)
		sell[sk] = sell[sk].Add(v.Long, 1).Add(v.Short, 1)
	}

	for _, product := range domain.Products() {
		for _, m := range cm.data.Calendar().Months() {
			limit := cm.data.MonthlyCapacity(product, m)
			key := productMonth{product, m.Index}
			if err := p.AddConstraint(lp.Constraint{
				Name:     fmt.Sprintf("%s_%s_%s", FamilyBuyCap, product, m.Name),
				Family:   FamilyBuyCap,
				LHS:      buy[key],
				Relation: lp.LessEq,
				RHS:      limit,
			}); err != nil {
				return err
			}
			if err := p.AddConstraint(lp.Constraint{
				Name:     fmt.Sprintf("%s_%s_%s", FamilySellCap, product, m.Name),
				Family:   FamilySellCap,
				LHS:      sell[key],
				Relation: lp.LessEq,
				RHS:      limit,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildFlatBook equates total long and total short volume per product.
func (cm *ConstraintsManager) buildFlatBook(p *lp.Problem, set *routes.Set) error {
	for _, product := range domain.Products() {
		var balance lp.Expr
		for _, r := range set.Routes() {
			if r.Product != product {
				continue
			}
			v := set.MustVariables(r)
			balance = balance.Add(v.Long, 1).Add(v.Short, -1)
		}
		if err := p.AddConstraint(lp.Constraint{
			Name:     fmt.Sprintf("%s_%s", FamilyFlatBook, product),
			Family:   FamilyFlatBook,
			LHS:      balance,
			Relation: lp.Equal,
			RHS:      0,
		}); err != nil {
			return err
		}
	}
	return nil
}

// buildInventory caps the long barrels sitting in each hub's tanks during
// each month. Only same-hub routes store, across both products.
func (cm *ConstraintsManager) buildInventory(p *lp.Problem, set *routes.Set) error {
	limit := cm.data.Costs().StorageLimit
	for _, loc := range domain.Locations() {
		stored := set.Filter(func(r domain.Route) bool {
			at, ok := r.StorageLocation()
			return ok && at == loc
		})
		for _, t := range cm.data.Calendar().Months() {
			var inTank lp.Expr
			for _, r := range stored {
				if r.InTankDuring(t) {
					inTank = inTank.Add(set.MustVariables(r).Long, 1)
				}
			}
			if err := p.AddConstraint(lp.Constraint{
				Name:     fmt.Sprintf("%s_%s_%s", FamilyInvCap, loc, t.Name),
				Family:   FamilyInvCap,
				LHS:      inTank,
				Relation: lp.LessEq,
				RHS:      limit,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildLinking adds volume - bigM*selector <= 0 for both sides of every route.
func (cm *ConstraintsManager) buildLinking(p *lp.Problem, set *routes.Set, bigM float64) error {
	for _, r := range set.Routes() {
		v := set.MustVariables(r)
		for _, side := range domain.Sides() {
			family := FamilyLinkLong
			if side == domain.Short {
				family = FamilyLinkShort
			}
			if err := p.AddConstraint(lp.Constraint{
				Name:     fmt.Sprintf("%s_%s", family, r.Key()),
				Family:   family,
				LHS:      lp.Expr{}.Add(v.Volume(side), 1).Add(v.Selector(side), -bigM),
				Relation: lp.LessEq,
				RHS:      0,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
