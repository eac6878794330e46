package imaging

import (
	"fmt"
	"math"
)

// DistanceResult contains the measurement between two world-space points.
type DistanceResult struct {
	Distance     float64   `json:"distance"`
	Deltas       []float64 `json:"deltas"`
	AngleDegrees *float64  `json:"angle_degrees,omitempty"` // 2-D points only
}

// MeasureDistance computes the Euclidean distance between two points of
// equal dimensionality. For 2-D points the in-plane angle is included
// (0 = toward +x, 90 = toward +y, matching screen-down conventions).
func MeasureDistance(p1, p2 []float64) (*DistanceResult, error) {
	if len(p1) == 0 || len(p2) == 0 {
		return nil, fmt.Errorf("points must have at least one coordinate")
	}
	if len(p1) != len(p2) {
		return nil, fmt.Errorf("points have mismatched dimensions: %d vs %d", len(p1), len(p2))
	}

	deltas := make([]float64, len(p1))
	var sumSq float64
	for i := range p1 {
		deltas[i] = p2[i] - p1[i]
		sumSq += deltas[i] * deltas[i]
	}

	result := &DistanceResult{
		Distance: math.Round(math.Sqrt(sumSq)*100) / 100,
		Deltas:   deltas,
	}
	if len(p1) == 2 {
		// Points are (y, x) ordered; 0 degrees points toward +x, 90 toward
		// +y (screen-down).
		angle := math.Atan2(deltas[0], deltas[1]) * 180 / math.Pi
		angle = math.Round(angle*10) / 10
		result.AngleDegrees = &angle
	}
	return result, nil
}
