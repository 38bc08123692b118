package stats

import "math"

// Summary holds the aggregate over a sample of validated current prices.
type Summary struct {
	SampleSize int
	Average    float64
	Minimum    float64
	Maximum    float64
	Range      float64
}

// Derive computes sample size, arithmetic mean, min, max and range over the
// given prices. Average and range are rounded to 2 decimal places; min and
// max keep source precision. Returns nil for an empty sample.
func Derive(prices []float64) *Summary {
	if len(prices) == 0 {
		return nil
	}

	lowest := prices[0]
	highest := prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
		sum += p
	}

	return &Summary{
		SampleSize: len(prices),
		Average:    Round2(sum / float64(len(prices))),
		Minimum:    lowest,
		Maximum:    highest,
		Range:      Round2(highest - lowest),
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
