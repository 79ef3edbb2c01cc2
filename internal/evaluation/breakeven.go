package evaluation

import "math"

// EstimateBreakEven returns the months needed for monthly savings to cover
// cost, rounded up. It is nil, not zero, when either figure is missing,
// savings are not positive, or the ratio does not fit a month count.
func EstimateBreakEven(cost, monthlySaved *float64) *int {
	if cost == nil || monthlySaved == nil || *monthlySaved <= 0 || *cost < 0 {
		return nil
	}
	ratio := math.Ceil(*cost / *monthlySaved)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio > math.MaxInt32 {
		return nil
	}
	months := int(ratio)
	return &months
}
