// Package viewer models the live viewer state: the layer list, camera and
// dims, plus the single-goroutine event loop that owns every mutation of
// that state.
package viewer

import (
	"github.com/LLNL/bioimage-agent/internal/imaging"
)

// LayerType distinguishes the visual data a layer carries.
type LayerType string

const (
	LayerImage   LayerType = "image"
	LayerLabels  LayerType = "labels"
	LayerPoints  LayerType = "points"
	LayerShapes  LayerType = "shapes"
	LayerSurface LayerType = "surface"
	LayerVectors LayerType = "vectors"
)

// Rendering modes for image layers.
const (
	RenderingMIP = "mip"
	RenderingIso = "iso"
)

// Interpolation modes accepted by set_interpolation.
var Interpolations = []string{"nearest", "linear", "cubic"}

// Shape is one entry of a shapes layer: a typed vertex list in (y, x)
// world coordinates.
type Shape struct {
	Type     string      `json:"shape_type"`
	Vertices [][]float64 `json:"vertices"`
}

// Surface is a 3-D triangle mesh.
type Surface struct {
	Vertices [][]float64 `json:"vertices"`
	Faces    [][3]int    `json:"faces"`
}

// Layer is a named, typed visual entity. All fields are owned by the event
// loop; nothing outside it may mutate a layer.
type Layer struct {
	Name   string
	Type   LayerType
	Source string // originating file path, when loaded from disk

	Visible        bool
	Opacity        float64
	Colormap       string
	Blending       string
	Gamma          float64
	Interpolation  string
	ContrastLimits [2]float64
	Rendering      string
	IsoThreshold   float64

	Image   *imaging.Stack // image and labels layers
	Points  [][]float64    // points layer, rows of (…, y, x)
	Props   map[string]any // per-points properties
	Shapes  []Shape
	Surface *Surface
	Vectors [][][]float64 // vectors layer, rows of [origin, direction]
}

// newLayer fills in the display defaults shared by every layer type.
func newLayer(name string, typ LayerType) *Layer {
	return &Layer{
		Name:           name,
		Type:           typ,
		Visible:        true,
		Opacity:        1.0,
		Colormap:       "gray",
		Blending:       "translucent",
		Gamma:          1.0,
		Interpolation:  "nearest",
		Rendering:      RenderingMIP,
		ContrastLimits: [2]float64{0, 255},
	}
}

// NewImageLayer builds an image layer around a plane stack, deriving the
// initial contrast limits from the data range.
func NewImageLayer(name string, stack *imaging.Stack) *Layer {
	l := newLayer(name, LayerImage)
	l.Image = stack
	lo, hi := stackRange(stack)
	if hi > lo {
		l.ContrastLimits = [2]float64{lo, hi}
	}
	return l
}

// NewLabelsLayer builds a labels (segmentation) layer.
func NewLabelsLayer(name string, stack *imaging.Stack) *Layer {
	l := newLayer(name, LayerLabels)
	l.Image = stack
	return l
}

// NewPointsLayer builds a points annotation layer.
func NewPointsLayer(name string, coords [][]float64, props map[string]any) *Layer {
	l := newLayer(name, LayerPoints)
	l.Points = coords
	l.Props = props
	return l
}

// NewShapesLayer builds a shapes annotation layer.
func NewShapesLayer(name string, shapes []Shape) *Layer {
	l := newLayer(name, LayerShapes)
	l.Shapes = shapes
	return l
}

// NewSurfaceLayer builds a surface mesh layer.
func NewSurfaceLayer(name string, surface *Surface) *Layer {
	l := newLayer(name, LayerSurface)
	l.Surface = surface
	return l
}

// NewVectorsLayer builds a vector field layer.
func NewVectorsLayer(name string, vectors [][][]float64) *Layer {
	l := newLayer(name, LayerVectors)
	l.Vectors = vectors
	return l
}

// Info returns the layer metadata served by list_layers.
func (l *Layer) Info() map[string]any {
	info := map[string]any{
		"name":      l.Name,
		"type":      string(l.Type),
		"visible":   l.Visible,
		"opacity":   l.Opacity,
		"blending":  l.Blending,
		"colormap":  l.Colormap,
		"gamma":     l.Gamma,
		"rendering": l.Rendering,
	}
	if l.Source != "" {
		info["source"] = l.Source
	}
	switch l.Type {
	case LayerImage, LayerLabels:
		info["shape"] = []int{l.Image.T, l.Image.C, l.Image.Z, l.Image.Height(), l.Image.Width()}
		info["contrast_limits"] = []float64{l.ContrastLimits[0], l.ContrastLimits[1]}
		info["interpolation"] = l.Interpolation
	case LayerPoints:
		info["num_points"] = len(l.Points)
	case LayerShapes:
		info["num_shapes"] = len(l.Shapes)
	case LayerSurface:
		info["num_vertices"] = len(l.Surface.Vertices)
		info["num_faces"] = len(l.Surface.Faces)
	case LayerVectors:
		info["num_vectors"] = len(l.Vectors)
	}
	return info
}

func stackRange(s *imaging.Stack) (lo, hi float64) {
	first := true
	for _, p := range s.Planes() {
		plo, phi := p.MinMax()
		if first {
			lo, hi = plo, phi
			first = false
			continue
		}
		if plo < lo {
			lo = plo
		}
		if phi > hi {
			hi = phi
		}
	}
	return lo, hi
}
