package market

import "github.com/aristath/flatbook/internal/domain"

// DefaultCosts are the desk's static cost parameters.
func DefaultCosts() Costs {
	return Costs{
		PipelineFixed:         0.55,
		PipelineVariableRate:  0.002,
		StoragePerMonth:       0.26,
		StorageLimit:          3_000_000,
		RefineryPremiumWTI:    0.05,
		RefineryAdjustmentWTS: -0.62,
		RefineryWTSReference:  domain.WTI,
		LongHoldingCredit:     0.06,
		BigMMultiplier:        10,
		VolumeThreshold:       1e-3,
	}
}

// DefaultTables are the May–December market tables.
func DefaultTables() Tables {
	return Tables{
		Months: append([]string(nil), domain.DefaultMonthNames...),
		MidlandPrice: Table{
			"May": 70.00, "June": 70.35, "July": 70.70, "August": 70.90,
			"September": 70.90, "October": 70.90, "November": 70.90, "December": 70.90,
		},
		HoustonPrice: Table{
			"May": 70.65, "June": 71.45, "July": 71.55, "August": 71.35,
			"September": 71.25, "October": 71.25, "November": 71.25, "December": 71.25,
		},
		SourMidland: Table{
			"May": 1.00, "June": 1.00, "July": 0.70, "August": 0.70,
			"September": 0.70, "October": 0.70, "November": 0.70, "December": 0.70,
		},
		SourHouston: Table{
			"May": 0.75, "June": 0.75, "July": 0.90, "August": 0.90,
			"September": 0.90, "October": 0.90, "November": 0.90, "December": 0.90,
		},
		ForecastAdjustment: Table{
			"May": 0, "June": 0, "July": 0, "August": 0,
			"September": 0, "October": 0, "November": 0, "December": 0,
		},
		TradingDays: map[string]int{
			"May": 20, "June": 21, "July": 22, "August": 21,
			"September": 21, "October": 22, "November": 21, "December": 21,
		},
		DailyCapacity: map[domain.Product]float64{
			domain.WTI: 80_000,
			domain.WTS: 20_000,
		},
		Costs: DefaultCosts(),
	}
}

// Default returns the validated default market data.
func Default() *Data {
	d, err := New(DefaultTables())
	if err != nil {
		panic(err) // static data
	}
	return d
}
