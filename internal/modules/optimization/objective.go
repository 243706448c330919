package optimization

import (
	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
	"github.com/aristath/flatbook/internal/modules/routes"
)

// AssembleObjective sums each route's long and short coefficients times its
// volumes. Selectors carry no cost.
func AssembleObjective(set *routes.Set, coef map[domain.Route]Coefficients) lp.Expr {
	obj := make(lp.Expr, 0, 2*set.Len())
	for _, r := range set.Routes() {
		v := set.MustVariables(r)
		c := coef[r]
		obj = obj.Add(v.Long, c.Long).Add(v.Short, c.Short)
	}
	return obj
}
