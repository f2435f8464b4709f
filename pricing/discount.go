package pricing

import "math"

// ClampDiscount bounds a requested discount to [0, gross].
func ClampDiscount(requested, gross float64) float64 {
	if math.IsNaN(requested) || requested < 0 {
		return 0
	}
	return math.Min(requested, math.Max(gross, 0))
}

// Prorate spreads an absolute discount across line subtotals in proportion
// to each line's share of the gross. The discount is clamped first. With a
// zero gross every adjusted subtotal is zero.
func Prorate(subtotals []float64, discount float64) []float64 {
	adjusted := make([]float64, len(subtotals))
	gross := 0.0
	for _, s := range subtotals {
		gross += s
	}
	if gross <= 0 {
		return adjusted
	}
	factor := 1 - ClampDiscount(discount, gross)/gross
	for i, s := range subtotals {
		adjusted[i] = s * factor
	}
	return adjusted
}

// Sum adds up values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
