package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Blending mode names, matching the layer attribute values.
const (
	BlendOpaque      = "opaque"
	BlendTranslucent = "translucent"
	BlendAdditive    = "additive"
	BlendMinimum     = "minimum"
)

// IsBlending reports whether name is a supported blending mode.
func IsBlending(name string) bool {
	switch name {
	case BlendOpaque, BlendTranslucent, BlendAdditive, BlendMinimum:
		return true
	}
	return false
}

// BlendingNames lists the supported blending modes.
func BlendingNames() []string {
	return []string{BlendOpaque, BlendTranslucent, BlendAdditive, BlendMinimum}
}

// RenderLayer is one compositing input: a shaded plane plus its display
// attributes. The viewer's current (t, c, z) selection happens upstream;
// the renderer only ever sees a single plane per layer.
type RenderLayer struct {
	Plane          *Plane
	Labels         bool // shade through the label palette instead of the LUT
	Opacity        float64
	Blending       string
	LUT            *LUT
	Gamma          float64
	ContrastLimits [2]float64
	Iso            bool // iso rendering: values below the threshold are transparent
	IsoThreshold   float64
}

// Marker is a point annotation drawn as a small cross, in (y, x) order.
type Marker struct {
	Y, X  float64
	Color color.NRGBA
}

// Outline is a shape annotation drawn as a closed polyline of (y, x)
// vertices.
type Outline struct {
	Vertices [][2]float64
	Color    color.NRGBA
}

// ScaleBarSpec controls the burned-in scale bar.
type ScaleBarSpec struct {
	Visible bool
	Unit    string
	Length  int // bar length in pixels; 0 means the 100 px default
}

// RenderOptions describes the canvas-level inputs of one screenshot.
type RenderOptions struct {
	Width, Height int // canvas size; zero derives from the first layer
	Zoom          float64
	Background    color.NRGBA
	Markers       []Marker
	Outlines      []Outline
	ScaleBar      ScaleBarSpec
}

// Render composites the given layers bottom-up into a single frame,
// draws annotations and the optional scale bar, and applies the camera
// zoom as a resize. The result is always an NRGBA image.
func Render(layers []RenderLayer, opts RenderOptions) (*image.NRGBA, error) {
	width, height := opts.Width, opts.Height
	if width == 0 || height == 0 {
		for _, l := range layers {
			if l.Plane != nil {
				if l.Plane.Width > width {
					width = l.Plane.Width
				}
				if l.Plane.Height > height {
					height = l.Plane.Height
				}
			}
		}
	}
	if width == 0 || height == 0 {
		width, height = 256, 256 // empty viewer still screenshots
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for _, l := range layers {
		if l.Plane == nil {
			continue
		}
		fg := shadeLayer(l, width, height)
		canvas = composite(canvas, fg, l.Blending, l.Opacity)
	}

	for _, o := range opts.Outlines {
		drawOutline(canvas, o)
	}
	for _, m := range opts.Markers {
		drawMarker(canvas, m)
	}
	if opts.ScaleBar.Visible {
		drawScaleBar(canvas, opts.ScaleBar)
	}

	if opts.Zoom > 0 && opts.Zoom != 1.0 {
		zw := int(math.Round(float64(width) * opts.Zoom))
		zh := int(math.Round(float64(height) * opts.Zoom))
		if zw < 1 {
			zw = 1
		}
		if zh < 1 {
			zh = 1
		}
		canvas = imaging.Resize(canvas, zw, zh, imaging.Lanczos)
	}
	return canvas, nil
}

// shadeLayer maps a plane onto a canvas-sized NRGBA image through the
// layer's transfer function (contrast limits, gamma, LUT or label palette).
func shadeLayer(l RenderLayer, width, height int) *image.NRGBA {
	fg := image.NewNRGBA(image.Rect(0, 0, width, height))

	if l.Labels {
		for y := 0; y < l.Plane.Height && y < height; y++ {
			for x := 0; x < l.Plane.Width && x < width; x++ {
				fg.SetNRGBA(x, y, LabelColor(int(l.Plane.At(x, y))))
			}
		}
		return fg
	}

	lo, hi := l.ContrastLimits[0], l.ContrastLimits[1]
	if hi <= lo {
		hi = lo + 1
	}
	gamma := l.Gamma
	if gamma <= 0 {
		gamma = 1
	}

	for y := 0; y < l.Plane.Height && y < height; y++ {
		for x := 0; x < l.Plane.Width && x < width; x++ {
			v := l.Plane.At(x, y)
			if l.Iso && v < l.IsoThreshold {
				continue // transparent below the iso threshold
			}
			norm := (v - lo) / (hi - lo)
			if norm < 0 {
				norm = 0
			}
			if norm > 1 {
				norm = 1
			}
			norm = math.Pow(norm, gamma)
			fg.SetNRGBA(x, y, l.LUT[int(norm*255)])
		}
	}
	return fg
}

// composite blends fg over base according to the layer blending mode,
// scaling fg's alpha by the layer opacity first.
func composite(base *image.NRGBA, fg *image.NRGBA, blending string, opacity float64) *image.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	var out *image.RGBA
	switch blending {
	case BlendAdditive:
		out = blend.Add(base, scaleAlpha(fg, opacity))
	case BlendMinimum:
		out = blend.Darken(base, scaleAlpha(fg, opacity))
	case BlendOpaque:
		out = blend.Opacity(base, fg, opacity)
	default: // translucent
		out = blend.Normal(base, scaleAlpha(fg, opacity))
	}

	result := image.NewNRGBA(out.Bounds())
	draw.Draw(result, out.Bounds(), out, out.Bounds().Min, draw.Src)
	return result
}

func scaleAlpha(img *image.NRGBA, opacity float64) *image.NRGBA {
	if opacity == 1 {
		return img
	}
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * opacity)
	}
	return out
}

func drawMarker(img *image.NRGBA, m Marker) {
	c := m.Color
	if c.A == 0 {
		c = color.NRGBA{255, 255, 255, 255}
	}
	x, y := int(math.Round(m.X)), int(math.Round(m.Y))
	const arm = 3
	for d := -arm; d <= arm; d++ {
		setIfInside(img, x+d, y, c)
		setIfInside(img, x, y+d, c)
	}
}

func drawOutline(img *image.NRGBA, o Outline) {
	if len(o.Vertices) < 2 {
		return
	}
	c := o.Color
	if c.A == 0 {
		c = color.NRGBA{255, 255, 0, 255}
	}
	for i := range o.Vertices {
		a := o.Vertices[i]
		b := o.Vertices[(i+1)%len(o.Vertices)]
		drawLine(img, int(a[1]), int(a[0]), int(b[1]), int(b[0]), c)
	}
}

// drawLine rasterizes a segment with the integer Bresenham walk.
func drawLine(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		setIfInside(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func drawScaleBar(img *image.NRGBA, spec ScaleBarSpec) {
	bounds := img.Bounds()
	length := spec.Length
	if length <= 0 {
		length = 100
	}
	if length > bounds.Dx()-20 {
		length = bounds.Dx() - 20
	}
	if length < 10 {
		return
	}

	const margin, thickness = 10, 3
	x2 := bounds.Max.X - margin
	x1 := x2 - length
	y2 := bounds.Max.Y - margin
	y1 := y2 - thickness

	white := color.NRGBA{255, 255, 255, 255}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			setIfInside(img, x, y, white)
		}
	}

	label := fmt.Sprintf("%d %s", length, spec.Unit)
	drawGlyphText(img, x1, y1-10, label, white, color.NRGBA{0, 0, 0, 180})
}

func setIfInside(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ScreenshotResult carries an encoded frame back over the wire.
type ScreenshotResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeScreenshot PNG-encodes a rendered frame and wraps it base64.
func EncodeScreenshot(img image.Image) (*ScreenshotResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	bounds := img.Bounds()
	return &ScreenshotResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes a rendered frame to disk; the format follows the file
// extension (png, jpg, tif, ...).
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}
