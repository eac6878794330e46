package imaging

import (
	"math"
	"testing"
)

func rampPlane(w, h int) *Plane {
	p := NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, float64(y*w+x))
		}
	}
	return p
}

func TestPlaneMinMax(t *testing.T) {
	p := rampPlane(4, 4)
	lo, hi := p.MinMax()
	if lo != 0 || hi != 15 {
		t.Errorf("MinMax: got (%v, %v), want (0, 15)", lo, hi)
	}
}

func TestPlaneCrop(t *testing.T) {
	p := rampPlane(10, 10)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		wantW, wantH   int
		wantErr        bool
	}{
		{"interior", 2, 3, 7, 8, 5, 5, false},
		{"full", 0, 0, 10, 10, 10, 10, false},
		{"single pixel", 4, 4, 5, 5, 1, 1, false},
		{"inverted x", 7, 3, 2, 8, 0, 0, true},
		{"inverted y", 2, 8, 7, 3, 0, 0, true},
		{"out of bounds", 0, 0, 11, 5, 0, 0, true},
		{"negative origin", -1, 0, 5, 5, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cropped, err := p.Crop(tt.x1, tt.y1, tt.x2, tt.y2)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if cropped.Width != tt.wantW || cropped.Height != tt.wantH {
				t.Fatalf("size: got %dx%d, want %dx%d", cropped.Width, cropped.Height, tt.wantW, tt.wantH)
			}
			if got, want := cropped.At(0, 0), p.At(tt.x1, tt.y1); got != want {
				t.Errorf("top-left value: got %v, want %v", got, want)
			}
		})
	}
}

func TestStackPlaneClampsIndexes(t *testing.T) {
	s := NewStack(3, 1, 2, 4, 4)
	s.Plane(1, 0, 1).Set(0, 0, 42)

	if got := s.Plane(1, 0, 1).At(0, 0); got != 42 {
		t.Errorf("stored value lost: got %v", got)
	}
	// Out-of-range slider positions clamp to the nearest valid plane rather
	// than panic; a 2-D layer stays viewable while scrubbing a 3-D one.
	if got := s.Plane(99, 0, 1).At(0, 0); got != 0 {
		t.Errorf("clamped t should hit plane t=2, got %v", got)
	}
	if got := s.Plane(1, -5, 1).At(0, 0); got != 42 {
		t.Errorf("clamped c should hit plane c=0, got %v", got)
	}
}

func TestStackOf(t *testing.T) {
	p := rampPlane(3, 2)
	s := StackOf(p)
	if s.T != 1 || s.C != 1 || s.Z != 1 {
		t.Errorf("StackOf shape: got (%d,%d,%d), want (1,1,1)", s.T, s.C, s.Z)
	}
	if s.Plane(0, 0, 0) != p {
		t.Error("StackOf should wrap the plane, not copy it")
	}
	if s.Width() != 3 || s.Height() != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", s.Width(), s.Height())
	}
}

func TestComputeStatistics(t *testing.T) {
	p := NewPlane(2, 2)
	p.Set(0, 0, 2)
	p.Set(1, 0, 4)
	p.Set(0, 1, 4)
	p.Set(1, 1, 6)

	stats := ComputeStatistics(StackOf(p))
	if stats.Min != 2 || stats.Max != 6 {
		t.Errorf("min/max: got %v/%v, want 2/6", stats.Min, stats.Max)
	}
	if stats.Mean != 4 {
		t.Errorf("mean: got %v, want 4", stats.Mean)
	}
	if math.Abs(stats.Std-math.Sqrt(2)) > 0.001 {
		t.Errorf("std: got %v, want %v", stats.Std, math.Sqrt(2))
	}
	if stats.Pixels != 4 {
		t.Errorf("pixels: got %d, want 4", stats.Pixels)
	}
	if len(stats.Shape) != 5 || stats.Shape[3] != 2 || stats.Shape[4] != 2 {
		t.Errorf("shape: got %v, want [1 1 1 2 2]", stats.Shape)
	}
}

func TestComputeStatisticsConstantData(t *testing.T) {
	p := NewPlane(3, 3)
	for i := range p.Pix {
		p.Pix[i] = 7
	}
	stats := ComputeStatistics(StackOf(p))
	if stats.Min != 7 || stats.Max != 7 || stats.Std != 0 {
		t.Errorf("constant data: got min=%v max=%v std=%v", stats.Min, stats.Max, stats.Std)
	}
}
