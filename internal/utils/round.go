package utils

import "math"

// Round2 rounds v to two decimal places, half away from zero.  Every
// user-facing figure (consistency percentages, formula results, finance
// and sleep summaries) goes through this helper so rounding behaves the
// same everywhere.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
