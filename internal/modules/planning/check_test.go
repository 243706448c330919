package planning

import (
	"testing"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(t *testing.T) (*Plan, domain.Calendar) {
	t.Helper()
	cal, err := domain.NewCalendar("May", "June", "July")
	require.NoError(t, err)

	plan := &Plan{
		Status:       lp.StatusOptimal,
		Calendar:     cal,
		StorageLimit: 100,
		Totals:       map[domain.Product]Totals{},
	}
	for _, p := range domain.Products() {
		for _, m := range cal.Months() {
			plan.Capacities = append(plan.Capacities, Capacity{Product: p, Month: m, Barrels: 150})
		}
	}
	return plan, cal
}

func addRecord(plan *Plan, r domain.Route, long, short float64) {
	plan.Records = append(plan.Records, Record{Route: r, LongVolume: long, ShortVolume: short, LongSelected: long > 0, ShortSelected: short > 0})
	t := plan.Totals[r.Product]
	t.Long += long
	t.Short += short
	plan.Totals[r.Product] = t
}

func TestCheck(t *testing.T) {
	plan, cal := testPlan(t)
	ms := cal.Months()
	stored := domain.Route{Product: domain.WTI, BuyMonth: ms[0], SellMonth: ms[2], BuyLocation: domain.Midland, SellOption: domain.SellMidland}
	spot := domain.Route{Product: domain.WTI, BuyMonth: ms[1], SellMonth: ms[1], BuyLocation: domain.Midland, SellOption: domain.SellHouston}
	addRecord(plan, stored, 80, 0)
	addRecord(plan, spot, 0, 80)

	assert.Empty(t, Check(plan, 1e-9))

	t.Run("storage and flat book", func(t *testing.T) {
		p, _ := testPlan(t)
		addRecord(p, stored, 120, 0)
		addRecord(p, spot, 0, 60)

		props := map[string]bool{}
		for _, v := range Check(p, 1e-9) {
			props[v.Property] = true
		}
		assert.Equal(t, map[string]bool{PropertyStorage: true, PropertyFlatBook: true}, props)
	})

	t.Run("capacity", func(t *testing.T) {
		p, _ := testPlan(t)
		addRecord(p, spot, 90, 90)

		props := map[string]bool{}
		for _, v := range Check(p, 1e-9) {
			props[v.Property] = true
		}
		assert.Equal(t, map[string]bool{PropertyBuyCapacity: true, PropertySellCapacity: true}, props)
	})

	t.Run("linking and route order", func(t *testing.T) {
		p, _ := testPlan(t)
		p.Selectors = true
		backward := domain.Route{Product: domain.WTS, BuyMonth: ms[2], SellMonth: ms[0], BuyLocation: domain.Houston, SellOption: domain.SellRefinery}
		p.Records = append(p.Records, Record{Route: backward, LongVolume: 5, ShortVolume: 5, ShortSelected: true})
		p.Totals[domain.WTS] = Totals{Long: 5, Short: 5}

		props := map[string]int{}
		for _, v := range Check(p, 1e-9) {
			props[v.Property]++
		}
		assert.Equal(t, map[string]int{PropertyRouteOrder: 1, PropertyLinking: 1}, props)
	})

	t.Run("non-optimal plans are not checked", func(t *testing.T) {
		p, _ := testPlan(t)
		p.Status = lp.StatusUnbounded
		addRecord(p, spot, 1000, 0)
		assert.Nil(t, Check(p, 1e-9))
	})
}
