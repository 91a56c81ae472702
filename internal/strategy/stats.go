package strategy

import "math"

// computeMean calculates arithmetic mean of values.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// coefficientOfVariation returns stddev/mean over the last window values,
// a scale-free stability measure. Returns 0 when the mean is not positive
// (degenerate series are treated as stable rather than faulted).
func coefficientOfVariation(values []float64, window int) float64 {
	values = lastN(values, window)
	mean := computeMean(values)
	if mean <= 0 {
		return 0
	}
	return computeStddev(values, mean) / mean
}

// computeVolatility returns the mean absolute point-to-point return of the
// price series, capped at cap. With fewer than 2 points there is nothing to
// difference, so the profile's fallback is returned instead.
func computeVolatility(prices []float64, cap, fallback float64) float64 {
	if len(prices) < 2 {
		return fallback
	}

	sum := 0.0
	count := 0
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev <= 0 {
			continue
		}
		sum += math.Abs(prices[i]-prev) / prev
		count++
	}
	if count == 0 {
		return fallback
	}

	vol := sum / float64(count)
	if vol > cap {
		return cap
	}
	return vol
}

// recentReturn returns the fractional return across the last window points.
// ok is false when the series is too short or the base price is not positive.
func recentReturn(prices []float64, window int) (ret float64, ok bool) {
	if len(prices) < window || window < 2 {
		return 0, false
	}
	base := prices[len(prices)-window]
	if base <= 0 {
		return 0, false
	}
	return (prices[len(prices)-1] - base) / base, true
}

// lastN returns the trailing n values (the whole slice when shorter).
func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
