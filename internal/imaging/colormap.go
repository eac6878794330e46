package imaging

import (
	"fmt"
	"image/color"
	"sort"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LUT is a 256-entry colormap lookup table. Normalized intensities in [0,1]
// index into it after scaling by 255.
type LUT [256]color.NRGBA

// gradient stops per colormap, interpolated in Lab space. The perceptual
// maps use sampled anchor colors from their published definitions.
var colormapStops = map[string][]string{
	"gray":    {"#000000", "#FFFFFF"},
	"red":     {"#000000", "#FF0000"},
	"green":   {"#000000", "#00FF00"},
	"blue":    {"#000000", "#0000FF"},
	"cyan":    {"#000000", "#00FFFF"},
	"magenta": {"#000000", "#FF00FF"},
	"yellow":  {"#000000", "#FFFF00"},
	"viridis": {"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"},
	"magma":   {"#000004", "#51127C", "#B63679", "#FB8861", "#FCFDBF"},
	"plasma":  {"#0D0887", "#7E03A8", "#CC4778", "#F89441", "#F0F921"},
	"inferno": {"#000004", "#57106E", "#BC3754", "#F98C0A", "#FCFFA4"},
	"turbo":   {"#30123B", "#28BBEC", "#A2FC3C", "#FB7E21", "#7A0403"},
}

var (
	lutMu    sync.Mutex
	lutCache = map[string]*LUT{}
)

// Colormap returns the lookup table for name, building and caching it on
// first use. Unknown names return an error listing the valid choices.
func Colormap(name string) (*LUT, error) {
	lutMu.Lock()
	defer lutMu.Unlock()

	if lut, ok := lutCache[name]; ok {
		return lut, nil
	}
	stops, ok := colormapStops[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q", name)
	}

	anchors := make([]colorful.Color, len(stops))
	for i, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("colormap %q stop %d: %w", name, i, err)
		}
		anchors[i] = c
	}

	lut := &LUT{}
	segs := len(anchors) - 1
	for i := 0; i < 256; i++ {
		t := float64(i) / 255 * float64(segs)
		seg := int(t)
		if seg >= segs {
			seg = segs - 1
		}
		c := anchors[seg].BlendLab(anchors[seg+1], t-float64(seg)).Clamped()
		r, g, b := c.RGB255()
		lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	lutCache[name] = lut
	return lut, nil
}

// ColormapNames returns the known colormap names, sorted.
func ColormapNames() []string {
	names := make([]string, 0, len(colormapStops))
	for name := range colormapStops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsColormap reports whether name is a known colormap.
func IsColormap(name string) bool {
	_, ok := colormapStops[name]
	return ok
}

// labelPalette is the cycling color set used to shade labels layers.
// Label 0 renders transparent (background).
var labelPalette = []color.NRGBA{
	{230, 25, 75, 255}, {60, 180, 75, 255}, {255, 225, 25, 255},
	{0, 130, 200, 255}, {245, 130, 48, 255}, {145, 30, 180, 255},
	{70, 240, 240, 255}, {240, 50, 230, 255}, {210, 245, 60, 255},
	{250, 190, 190, 255}, {0, 128, 128, 255}, {170, 110, 40, 255},
}

// LabelColor returns the display color for an integer label value.
func LabelColor(label int) color.NRGBA {
	if label <= 0 {
		return color.NRGBA{}
	}
	return labelPalette[(label-1)%len(labelPalette)]
}
