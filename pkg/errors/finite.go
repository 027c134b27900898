package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckScalar checks a single metric value and emits a NonFiniteMetricWarning
// if it is NaN or infinite. Returns true when the value is finite.
func CheckScalar(metric string, step int, value float64) bool {
	if IsFinite(value) {
		return true
	}
	Warn(NewNonFiniteMetricWarning(metric, step, value))
	return false
}

// CheckSeries checks a slice of metric values and warns once for the first
// non-finite entry found. Returns true when all values are finite.
func CheckSeries(metric string, step int, values []float64) bool {
	for _, v := range values {
		if !IsFinite(v) {
			Warn(NewNonFiniteMetricWarning(metric, step, v))
			return false
		}
	}
	return true
}
