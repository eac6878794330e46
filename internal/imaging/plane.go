// Package imaging holds the pixel-level machinery behind the viewer:
// intensity planes and plane stacks, file loading, colormap lookup tables,
// screenshot compositing, cropping, statistics and measurement.
//
// Everything in this package is plain data plus pure functions; layer
// bookkeeping and threading rules live in the viewer package.
package imaging

import (
	"fmt"
	"math"
)

// Plane is a single 2-D intensity plane stored row-major as float64.
// Values keep their native range (0-255 for 8-bit sources, 0-65535 for
// 16-bit); contrast limits map them to display range at render time.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zero-filled plane.
func NewPlane(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// At returns the value at (x, y). Callers are responsible for bounds.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set writes the value at (x, y).
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// MinMax returns the smallest and largest values in the plane.
func (p *Plane) MinMax() (lo, hi float64) {
	if len(p.Pix) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Crop returns a copy of the region [x1,x2) x [y1,y2).
func (p *Plane) Crop(x1, y1, x2, y2 int) (*Plane, error) {
	if x1 < 0 || y1 < 0 || x2 > p.Width || y2 > p.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside plane bounds %dx%d",
			x1, y1, x2, y2, p.Width, p.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	out := NewPlane(x2-x1, y2-y1)
	for y := y1; y < y2; y++ {
		copy(out.Pix[(y-y1)*out.Width:(y-y1+1)*out.Width], p.Pix[y*p.Width+x1:y*p.Width+x2])
	}
	return out, nil
}

// Stack is a (t, c, z) indexed collection of equally sized planes, the
// storage behind image and labels layers. A plain 2-D image is a stack
// with T = C = Z = 1.
type Stack struct {
	T, C, Z int
	planes  []*Plane
}

// NewStack allocates a stack of zero-filled planes.
func NewStack(t, c, z, width, height int) *Stack {
	if t < 1 {
		t = 1
	}
	if c < 1 {
		c = 1
	}
	if z < 1 {
		z = 1
	}
	s := &Stack{T: t, C: c, Z: z, planes: make([]*Plane, t*c*z)}
	for i := range s.planes {
		s.planes[i] = NewPlane(width, height)
	}
	return s
}

// StackOf wraps a single plane as a 1x1x1 stack.
func StackOf(p *Plane) *Stack {
	return &Stack{T: 1, C: 1, Z: 1, planes: []*Plane{p}}
}

// Plane returns the plane at (t, c, z), clamping each index into range so
// that stepping a shared timestep past a short layer shows its last frame.
func (s *Stack) Plane(t, c, z int) *Plane {
	t = clampIndex(t, s.T)
	c = clampIndex(c, s.C)
	z = clampIndex(z, s.Z)
	return s.planes[t*(s.C*s.Z)+c*s.Z+z]
}

// SetPlane replaces the plane at (t, c, z).
func (s *Stack) SetPlane(t, c, z int, p *Plane) {
	s.planes[clampIndex(t, s.T)*(s.C*s.Z)+clampIndex(c, s.C)*s.Z+clampIndex(z, s.Z)] = p
}

// Width returns the plane width; all planes in a stack share dimensions.
func (s *Stack) Width() int { return s.planes[0].Width }

// Height returns the plane height.
func (s *Stack) Height() int { return s.planes[0].Height }

// Planes returns every plane in index order.
func (s *Stack) Planes() []*Plane { return s.planes }

// Crop crops every plane in the stack to the same region.
func (s *Stack) Crop(x1, y1, x2, y2 int) (*Stack, error) {
	out := &Stack{T: s.T, C: s.C, Z: s.Z, planes: make([]*Plane, len(s.planes))}
	for i, p := range s.planes {
		cropped, err := p.Crop(x1, y1, x2, y2)
		if err != nil {
			return nil, err
		}
		out.planes[i] = cropped
	}
	return out, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
