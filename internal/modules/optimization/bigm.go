package optimization

import "github.com/aristath/flatbook/internal/modules/market"

// BigM is the linking constant: the big-M multiplier times the largest
// monthly capacity over products and months. A volume can never exceed
// one month's capacity, so with a multiplier above 1 the linking row is
// slack whenever its selector is 1.
func BigM(data *market.Data) float64 {
	return data.Costs().BigMMultiplier * data.MaxMonthlyCapacity()
}
