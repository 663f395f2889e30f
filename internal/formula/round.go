package formula

import (
	"math"
	"strconv"
)

// DisplayPlaces is the number of decimal places reported for computed values.
const DisplayPlaces = 6

// Round rounds x half away from zero to the given number of decimal places.
// Negative zero is normalised to zero so it never reaches a response body.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	pow := math.Pow(10, float64(places))
	r := math.Round(x*pow) / pow
	if math.IsInf(r, 0) {
		// x*pow overflowed; x has no fractional digits worth keeping.
		r = x
	}
	if r == 0 {
		return 0
	}
	return r
}

func round6(x float64) float64 { return Round(x, DisplayPlaces) }

// FormatNumber renders a float in its shortest exact decimal form.
func FormatNumber(x float64) string {
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
