package pricing

import (
	"testing"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/aristath/flatbook/internal/modules/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func months(t *testing.T, d *market.Data, names ...string) []domain.Month {
	t.Helper()
	out := make([]domain.Month, len(names))
	for i, n := range names {
		m, err := d.Calendar().Month(n)
		require.NoError(t, err)
		out[i] = m
	}
	return out
}

func TestCostBuy(t *testing.T) {
	d := market.Default()
	p := NewPricer(d)
	ms := months(t, d, "May", "July")

	tests := []struct {
		name    string
		product domain.Product
		month   domain.Month
		loc     domain.Location
		want    float64
	}{
		{"WTI Midland May", domain.WTI, ms[0], domain.Midland, 70.00},
		{"WTI Houston May", domain.WTI, ms[0], domain.Houston, 70.65},
		{"WTS Midland May", domain.WTS, ms[0], domain.Midland, 69.00},
		{"WTS Houston July", domain.WTS, ms[1], domain.Houston, 71.55 - 0.90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.CostBuy(tt.product, tt.month, tt.loc), 1e-12)
		})
	}
}

func TestPipelineCostAdjust(t *testing.T) {
	d := market.Default()
	p := NewPricer(d)
	may := months(t, d, "May")[0]

	assert.InDelta(t, 0.55+0.002*70.00, p.PipelineCostAdjust(domain.WTI, may, domain.Midland), 1e-12)
	assert.InDelta(t, 0.55+0.002*(70.65-0.75), p.PipelineCostAdjust(domain.WTS, may, domain.Houston), 1e-12)
}

func TestSalePrice(t *testing.T) {
	d := market.Default()
	p := NewPricer(d)
	jul := months(t, d, "July")[0]

	tests := []struct {
		name    string
		product domain.Product
		opt     domain.SellOption
		want    float64
	}{
		{"WTI Midland", domain.WTI, domain.SellMidland, 70.70},
		{"WTI Houston", domain.WTI, domain.SellHouston, 71.55},
		{"WTI Refinery", domain.WTI, domain.SellRefinery, 71.55 + 0.05},
		{"WTS Midland", domain.WTS, domain.SellMidland, 70.70 - 0.70},
		{"WTS Houston", domain.WTS, domain.SellHouston, 71.55 - 0.90},
		{"WTS Refinery keyed off WTI", domain.WTS, domain.SellRefinery, 71.55 - 0.62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.SalePrice(tt.product, jul, tt.opt), 1e-12)
		})
	}
}

func TestSalePrice_WTSRefineryReference(t *testing.T) {
	c := market.DefaultCosts()
	c.RefineryWTSReference = domain.WTS
	d, err := market.Default().WithCosts(c)
	require.NoError(t, err)
	jul := months(t, d, "July")[0]

	assert.InDelta(t, 71.55-0.90-0.62, NewPricer(d).SalePrice(domain.WTS, jul, domain.SellRefinery), 1e-12)
}

func TestSalePrice_ForecastShiftRaisesHoustonSales(t *testing.T) {
	base := market.Default()
	shifted, err := base.WithForecastShift(0.4)
	require.NoError(t, err)

	lo, hi := NewPricer(base), NewPricer(shifted)
	for _, m := range base.Calendar().Months() {
		for _, product := range domain.Products() {
			for _, opt := range []domain.SellOption{domain.SellHouston, domain.SellRefinery} {
				assert.GreaterOrEqual(t, hi.SalePrice(product, m, opt), lo.SalePrice(product, m, opt))
			}
			assert.Equal(t, lo.SalePrice(product, m, domain.SellMidland), hi.SalePrice(product, m, domain.SellMidland))
		}
	}
}

func TestTransportAndStorageCost(t *testing.T) {
	d := market.Default()
	p := NewPricer(d)
	ms := months(t, d, "May", "August")

	same, err := domain.NewRoute(domain.WTI, ms[0], ms[1], domain.Midland, domain.SellMidland)
	require.NoError(t, err)
	assert.Zero(t, p.TransportCost(same))
	assert.InDelta(t, 0.26*3, p.StorageCost(same), 1e-12)

	refinery, err := domain.NewRoute(domain.WTI, ms[0], ms[0], domain.Houston, domain.SellRefinery)
	require.NoError(t, err)
	assert.InDelta(t, 0.55+0.002*70.65, p.TransportCost(refinery), 1e-12)
	assert.Zero(t, p.StorageCost(refinery))
}
