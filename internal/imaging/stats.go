package imaging

import "math"

// Statistics summarizes the intensity distribution of a full plane stack.
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Pixels int     `json:"pixels"`
	Shape  []int   `json:"shape"` // [t, c, z, height, width]
}

// ComputeStatistics walks every plane of the stack once and returns
// min/max/mean/standard deviation over all samples.
func ComputeStatistics(s *Stack) *Statistics {
	stats := &Statistics{
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		Shape: []int{s.T, s.C, s.Z, s.Height(), s.Width()},
	}

	var sum, sumSq float64
	for _, p := range s.Planes() {
		for _, v := range p.Pix {
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			sum += v
			sumSq += v * v
			stats.Pixels++
		}
	}
	if stats.Pixels == 0 {
		stats.Min, stats.Max = 0, 0
		return stats
	}

	n := float64(stats.Pixels)
	stats.Mean = sum / n
	variance := sumSq/n - stats.Mean*stats.Mean
	if variance < 0 {
		variance = 0 // guard against float cancellation
	}
	stats.Std = math.Sqrt(variance)

	stats.Mean = math.Round(stats.Mean*10000) / 10000
	stats.Std = math.Round(stats.Std*10000) / 10000
	return stats
}
