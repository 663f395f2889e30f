package formula

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/af-corp/mathforge/internal/apperr"
)

// NoMode is reported when every value in the dataset is distinct.
const NoMode = "No mode"

// Mode holds every value tied for the highest frequency, in order of first
// appearance. An empty Mode marshals as NoMode.
type Mode []float64

func (m Mode) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return json.Marshal(NoMode)
	}
	return json.Marshal([]float64(m))
}

// Summary describes a dataset with population statistics.
type Summary struct {
	Size              int     `json:"dataset_size"`
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	Mode              Mode    `json:"mode"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standard_deviation"`
	Range             float64 `json:"range"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
}

// Summarize computes descriptive statistics for a non-empty dataset.
func Summarize(data []float64) (Summary, error) {
	n := len(data)
	if n == 0 {
		return Summary{}, apperr.Domain(ErrInvalidDataset.Code, "Invalid dataset. Provide a non-empty array of numbers.")
	}
	for _, v := range data {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Summary{}, apperr.Domain(ErrInvalidDataset.Code, "Dataset values must be finite numbers")
		}
	}

	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(n)

	sorted := slices.Clone(data)
	slices.Sort(sorted)
	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	var sq float64
	for _, v := range data {
		d := v - mean
		sq += d * d
	}
	variance := sq / float64(n)
	minV, maxV := sorted[0], sorted[n-1]

	s := Summary{
		Size:              n,
		Mean:              round6(mean),
		Median:            round6(median),
		Mode:              modes(data),
		Variance:          round6(variance),
		StandardDeviation: round6(math.Sqrt(variance)),
		Range:             round6(maxV - minV),
		Min:               minV,
		Max:               maxV,
	}
	if err := finite("dataset", s.Mean, s.Median, s.Variance, s.StandardDeviation, s.Range); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// modes returns all values with the highest frequency, or nil when every
// value is distinct. A dataset of identical values has that value as mode.
func modes(data []float64) Mode {
	counts := make(map[float64]int, len(data))
	var order []float64
	best := 0
	for _, v := range data {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		best = max(best, counts[v])
	}

	var out Mode
	for _, v := range order {
		if counts[v] == best {
			out = append(out, v)
		}
	}
	if len(out) == len(data) {
		return nil
	}
	return out
}
