package catalog

import (
	"strings"
	"testing"

	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func TestToggleNDisplayRoundTrips(t *testing.T) {
	r, v := testViewer()

	first := exec(t, r, v, "toggle_ndisplay").(string)
	if !strings.Contains(first, "3D") || v.Dims.NDisplay != 3 {
		t.Errorf("first toggle: %q, ndisplay %d", first, v.Dims.NDisplay)
	}
	second := exec(t, r, v, "toggle_ndisplay").(string)
	if !strings.Contains(second, "2D") || v.Dims.NDisplay != 2 {
		t.Errorf("second toggle: %q, ndisplay %d", second, v.Dims.NDisplay)
	}
}

func TestSetViewMode(t *testing.T) {
	r, v := testViewer()

	exec(t, r, v, "set_view_mode", "3d")
	if v.Dims.NDisplay != 3 {
		t.Errorf("ndisplay: got %d, want 3", v.Dims.NDisplay)
	}
	exec(t, r, v, "set_view_mode", "2D")
	if v.Dims.NDisplay != 2 {
		t.Errorf("ndisplay: got %d, want 2", v.Dims.NDisplay)
	}

	tagged := execErr(t, r, v, "set_view_mode", "4D")
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestSetOpacityRejectsOutOfRange(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4)

	tagged := execErr(t, r, v, "set_opacity", "cells", 1.5)
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
	if _, ok := tagged.Context["valid_range"]; !ok {
		t.Errorf("context should report the valid range, got %v", tagged.Context)
	}
	// The layer keeps its previous value.
	if got := v.Active().Opacity; got != 1 {
		t.Errorf("opacity changed on failure: %v", got)
	}

	exec(t, r, v, "set_opacity", "cells", 0.5)
	if got := v.Active().Opacity; got != 0.5 {
		t.Errorf("opacity: got %v, want 0.5", got)
	}
}

func TestSetColormap(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4)

	exec(t, r, v, "set_colormap", "cells", "viridis")
	if v.Active().Colormap != "viridis" {
		t.Errorf("colormap: got %s", v.Active().Colormap)
	}

	tagged := execErr(t, r, v, "set_colormap", "cells", "sparkles")
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
	if _, ok := tagged.Context["valid"]; !ok {
		t.Errorf("context should list the valid colormaps, got %v", tagged.Context)
	}
}

func TestSetBlending(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4)

	exec(t, r, v, "set_blending", "cells", "additive")
	if v.Active().Blending != "additive" {
		t.Errorf("blending: got %s", v.Active().Blending)
	}
	tagged := execErr(t, r, v, "set_blending", "cells", "screen")
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestSetContrastLimits(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4)

	exec(t, r, v, "set_contrast_limits", "cells", 10.0, 200.0)
	if v.Active().ContrastLimits != [2]float64{10, 200} {
		t.Errorf("limits: got %v", v.Active().ContrastLimits)
	}

	tagged := execErr(t, r, v, "set_contrast_limits", "cells", 200.0, 10.0)
	if tagged.Kind != KindValidation {
		t.Errorf("inverted limits: kind %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestAutoContrast(t *testing.T) {
	r, v := testViewer()
	l := addTestImage(v, "cells", 4, 4) // values 0..15

	exec(t, r, v, "auto_contrast", "cells")
	if l.ContrastLimits != [2]float64{0, 15} {
		t.Errorf("limits: got %v, want [0 15]", l.ContrastLimits)
	}

	t.Run("constant data", func(t *testing.T) {
		flat := addTestImage(v, "flat", 2, 2)
		for i := range flat.Image.Plane(0, 0, 0).Pix {
			flat.Image.Plane(0, 0, 0).Pix[i] = 7
		}
		tagged := execErr(t, r, v, "auto_contrast", "flat")
		if tagged.Kind != KindLayer {
			t.Errorf("kind: got %s, want %s", tagged.Kind, KindLayer)
		}
	})
}

func TestSetGamma(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4)

	exec(t, r, v, "set_gamma", "cells", 2.2)
	if v.Active().Gamma != 2.2 {
		t.Errorf("gamma: got %v", v.Active().Gamma)
	}
	for _, bad := range []float64{0, -1, 11} {
		tagged := execErr(t, r, v, "set_gamma", "cells", bad)
		if tagged.Kind != KindValidation {
			t.Errorf("gamma %v: kind %s, want %s", bad, tagged.Kind, KindValidation)
		}
	}
}

func TestSetInterpolationRequiresImageLayer(t *testing.T) {
	r, v := testViewer()
	exec(t, r, v, "add_points", []any{[]any{1.0, 2.0}}, nil, "spots")

	tagged := execErr(t, r, v, "set_interpolation", "spots", "linear")
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}

	addTestImage(v, "cells", 4, 4)
	exec(t, r, v, "set_interpolation", "cells", "cubic")
	if v.Active().Interpolation != "cubic" {
		t.Errorf("interpolation: got %s", v.Active().Interpolation)
	}
}

func TestIsoContour(t *testing.T) {
	r, v := testViewer()
	a := addTestImage(v, "a", 4, 4)
	b := addTestImage(v, "b", 4, 4)

	// No reference: every image layer flips to iso with the automatic
	// threshold at the contrast midpoint.
	exec(t, r, v, "iso_contour")
	for _, l := range []*viewer.Layer{a, b} {
		if l.Rendering != viewer.RenderingIso {
			t.Errorf("layer %s rendering: got %s, want iso", l.Name, l.Rendering)
		}
		mid := (l.ContrastLimits[0] + l.ContrastLimits[1]) / 2
		if l.IsoThreshold != mid {
			t.Errorf("layer %s threshold: got %v, want %v", l.Name, l.IsoThreshold, mid)
		}
	}

	exec(t, r, v, "iso_contour", "a", 5.0)
	if a.IsoThreshold != 5 {
		t.Errorf("explicit threshold: got %v, want 5", a.IsoThreshold)
	}
}

func TestScaleBarAndAxisLabels(t *testing.T) {
	r, v := testViewer()

	exec(t, r, v, "set_scale_bar", true, "um")
	if !v.ScaleBar.Visible || v.ScaleBar.Unit != "um" {
		t.Errorf("scale bar: %+v", v.ScaleBar)
	}
	exec(t, r, v, "set_scale_bar", false)
	if v.ScaleBar.Visible {
		t.Error("scale bar should be hidden")
	}

	exec(t, r, v, "set_axis_labels", []any{"time", "ch", "depth", "y", "x"})
	if len(v.AxisLabels) != 5 || v.AxisLabels[0] != "time" {
		t.Errorf("axis labels: %v", v.AxisLabels)
	}
	tagged := execErr(t, r, v, "set_axis_labels", []any{})
	if tagged.Kind != KindValidation {
		t.Errorf("empty labels: kind %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestToggleTheme(t *testing.T) {
	r, v := testViewer()
	exec(t, r, v, "toggle_theme")
	if v.Theme != "light" {
		t.Errorf("theme: got %s, want light", v.Theme)
	}
	exec(t, r, v, "toggle_theme")
	if v.Theme != "dark" {
		t.Errorf("theme: got %s, want dark", v.Theme)
	}
}
