package viewer

import (
	"fmt"
)

// Camera holds the view transform. Center and Angles are (z, y, x) ordered;
// only the in-plane parts matter while ndisplay is 2.
type Camera struct {
	Center [3]float64 `json:"center"`
	Zoom   float64    `json:"zoom"`
	Angles [3]float64 `json:"angles"`
}

// Dims tracks the current position along the non-displayed axes and the
// display dimensionality (2 or 3).
type Dims struct {
	NDisplay int `json:"ndisplay"`
	Timestep int `json:"timestep"`
	Channel  int `json:"channel"`
	ZSlice   int `json:"z_slice"`
}

// ScaleBar holds the scale-bar overlay settings.
type ScaleBar struct {
	Visible bool   `json:"visible"`
	Unit    string `json:"unit"`
}

// Viewer is the single live viewer document. It is not safe for concurrent
// use; every access must happen on the event loop goroutine (see Loop).
type Viewer struct {
	layers []*Layer
	active *Layer

	Camera     Camera
	Dims       Dims
	ScaleBar   ScaleBar
	AxisLabels []string
	Theme      string
}

// New returns an empty viewer with default camera and display settings.
func New() *Viewer {
	return &Viewer{
		Camera:     Camera{Zoom: 1.0},
		Dims:       Dims{NDisplay: 2},
		ScaleBar:   ScaleBar{Unit: "px"},
		AxisLabels: []string{"t", "c", "z", "y", "x"},
		Theme:      "dark",
	}
}

// AddLayer appends a layer, uniquifying its name with a " [n]" suffix when
// the name is already taken, and makes it the active layer. The final name
// is returned.
func (v *Viewer) AddLayer(l *Layer) string {
	if l.Name == "" {
		l.Name = string(l.Type)
	}
	name := l.Name
	for n := 1; v.hasLayer(name); n++ {
		name = fmt.Sprintf("%s [%d]", l.Name, n)
	}
	l.Name = name
	v.layers = append(v.layers, l)
	v.active = l
	return name
}

// RemoveLayer removes the given layer, fixing up the active selection.
func (v *Viewer) RemoveLayer(target *Layer) bool {
	for i, l := range v.layers {
		if l == target {
			v.layers = append(v.layers[:i], v.layers[i+1:]...)
			if v.active == target {
				v.active = nil
				if len(v.layers) > 0 {
					v.active = v.layers[len(v.layers)-1]
				}
			}
			return true
		}
	}
	return false
}

// Layers returns the layer list in stacking order (bottom first).
func (v *Viewer) Layers() []*Layer { return v.layers }

// LayerNames returns the names of all layers in stacking order.
func (v *Viewer) LayerNames() []string {
	names := make([]string, len(v.layers))
	for i, l := range v.layers {
		names[i] = l.Name
	}
	return names
}

// Active returns the active layer, or nil when the viewer is empty.
func (v *Viewer) Active() *Layer { return v.active }

// SetActive marks a layer as the active selection.
func (v *Viewer) SetActive(l *Layer) { v.active = l }

// ToggleNDisplay flips between 2-D and 3-D display and returns the new
// value.
func (v *Viewer) ToggleNDisplay() int {
	if v.Dims.NDisplay == 2 {
		v.Dims.NDisplay = 3
	} else {
		v.Dims.NDisplay = 2
	}
	return v.Dims.NDisplay
}

// ResetCamera restores the default view transform.
func (v *Viewer) ResetCamera() {
	v.Camera = Camera{Zoom: 1.0}
}

// DimsRange returns the (t, c, z) extents over all image and labels
// layers; an empty viewer reports 1 along each axis.
func (v *Viewer) DimsRange() (t, c, z int) {
	t, c, z = 1, 1, 1
	for _, l := range v.layers {
		if l.Image == nil {
			continue
		}
		if l.Image.T > t {
			t = l.Image.T
		}
		if l.Image.C > c {
			c = l.Image.C
		}
		if l.Image.Z > z {
			z = l.Image.Z
		}
	}
	return t, c, z
}

// DimsInfo returns the structure served by get_dims_info.
func (v *Viewer) DimsInfo() map[string]any {
	t, c, z := v.DimsRange()
	return map[string]any{
		"ndisplay":     v.Dims.NDisplay,
		"current_step": []int{v.Dims.Timestep, v.Dims.Channel, v.Dims.ZSlice},
		"range":        []int{t, c, z},
		"axis_labels":  v.AxisLabels,
		"nlayers":      len(v.layers),
	}
}

func (v *Viewer) hasLayer(name string) bool {
	for _, l := range v.layers {
		if l.Name == name {
			return true
		}
	}
	return false
}
