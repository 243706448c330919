package market

import (
	"testing"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, d *Data, name string) domain.Month {
	t.Helper()
	m, err := d.Calendar().Month(name)
	require.NoError(t, err)
	return m
}

func TestDefault_DerivedTables(t *testing.T) {
	d := Default()
	may := month(t, d, "May")
	jul := month(t, d, "July")

	assert.Equal(t, 1_600_000.0, d.MonthlyCapacity(domain.WTI, may))
	assert.Equal(t, 440_000.0, d.MonthlyCapacity(domain.WTS, jul))
	assert.Equal(t, 1_760_000.0, d.MaxMonthlyCapacity())

	assert.InDelta(t, 71.55, d.ForecastHouston(domain.WTI, jul), 1e-12)
	assert.InDelta(t, 71.55-0.90, d.ForecastHouston(domain.WTS, jul), 1e-12)
	assert.Equal(t, 70.70, d.SpotPrice(domain.Midland, jul))
	assert.Equal(t, 0.70, d.SourDifferential(domain.Midland, jul))
	assert.Equal(t, domain.WTI, d.Costs().RefineryWTSReference)
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"missing month in price table", func(tb *Tables) { delete(tb.HoustonPrice, "June") }},
		{"month outside calendar", func(tb *Tables) { tb.SourMidland["January"] = 1 }},
		{"zero trading days", func(tb *Tables) { tb.TradingDays["July"] = 0 }},
		{"trading days for unknown month", func(tb *Tables) { tb.TradingDays["Smarch"] = 20 }},
		{"missing product capacity", func(tb *Tables) { delete(tb.DailyCapacity, domain.WTS) }},
		{"unknown product capacity", func(tb *Tables) { tb.DailyCapacity["Brent"] = 1 }},
		{"non-positive storage limit", func(tb *Tables) { tb.Costs.StorageLimit = 0 }},
		{"big-M multiplier too small", func(tb *Tables) { tb.Costs.BigMMultiplier = 1 }},
		{"unknown refinery reference", func(tb *Tables) { tb.Costs.RefineryWTSReference = "Brent" }},
		{"negative storage cost", func(tb *Tables) { tb.Costs.StoragePerMonth = -0.1 }},
		{"duplicate month", func(tb *Tables) { tb.Months = append(tb.Months, "May") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := DefaultTables()
			tt.mutate(&tb)

			_, err := New(tb)
			assert.ErrorIs(t, err, domain.ErrInvalidMarketData)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	tb := DefaultTables()
	d, err := New(tb)
	require.NoError(t, err)

	tb.MidlandPrice["May"] = 1
	assert.Equal(t, 70.00, d.SpotPrice(domain.Midland, month(t, d, "May")))

	copied := d.Tables()
	copied.HoustonPrice["May"] = 1
	assert.Equal(t, 70.65, d.SpotPrice(domain.Houston, month(t, d, "May")))
}

func TestWithForecastShift(t *testing.T) {
	base := Default()
	shifted, err := base.WithForecastShift(0.25)
	require.NoError(t, err)

	for _, m := range base.Calendar().Months() {
		assert.Equal(t, 0.0, base.ForecastAdjustment(m))
		assert.Equal(t, 0.25, shifted.ForecastAdjustment(m))
		assert.InDelta(t, base.ForecastHouston(domain.WTI, m)+0.25, shifted.ForecastHouston(domain.WTI, m), 1e-12)
	}
}

func TestWithMonths(t *testing.T) {
	base := Default()
	d, err := base.WithMonths("July", "May", "June")
	require.NoError(t, err)

	assert.Equal(t, []string{"May", "June", "July"}, d.Calendar().Names())
	assert.Equal(t, 1_760_000.0, d.MaxMonthlyCapacity())
	assert.Len(t, d.Tables().HoustonPrice, 3)
	assert.Equal(t, 8, base.Calendar().Len())

	_, err = base.WithMonths("May", "Smarch")
	assert.ErrorIs(t, err, domain.ErrInvalidMarketData)
	assert.ErrorIs(t, err, domain.ErrUnknownMonth)

	_, err = base.WithMonths()
	assert.ErrorIs(t, err, domain.ErrInvalidMarketData)
}
