package catalog

import (
	"fmt"

	"github.com/LLNL/bioimage-agent/internal/imaging"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func (r *Registry) registerDisplayCommands() {
	r.register("toggle_ndisplay", 0, 0, cmdToggleNDisplay)
	r.register("set_view_mode", 1, 1, cmdSetViewMode)
	r.register("iso_contour", 0, 2, cmdIsoContour)
	r.register("set_colormap", 2, 2, cmdSetColormap)
	r.register("set_opacity", 2, 2, cmdSetOpacity)
	r.register("set_blending", 2, 2, cmdSetBlending)
	r.register("set_contrast_limits", 3, 3, cmdSetContrastLimits)
	r.register("auto_contrast", 0, 1, cmdAutoContrast)
	r.register("set_gamma", 2, 2, cmdSetGamma)
	r.register("set_interpolation", 2, 2, cmdSetInterpolation)
	r.register("set_scale_bar", 0, 2, cmdSetScaleBar)
	r.register("set_axis_labels", 1, 1, cmdSetAxisLabels)
	r.register("toggle_theme", 0, 0, cmdToggleTheme)
}

func cmdToggleNDisplay(v *viewer.Viewer, args Args) (any, error) {
	nd := v.ToggleNDisplay()
	return fmt.Sprintf("display mode is now %dD", nd), nil
}

func cmdSetViewMode(v *viewer.Viewer, args Args) (any, error) {
	mode, err := args.String(0, "mode")
	if err != nil {
		return nil, err
	}
	switch mode {
	case "2D", "2d":
		v.Dims.NDisplay = 2
	case "3D", "3d":
		v.Dims.NDisplay = 3
	default:
		return nil, Validationf(map[string]any{"mode": mode, "valid": []string{"2D", "3D"}},
			"unknown view mode %q", mode)
	}
	return fmt.Sprintf("display mode is now %dD", v.Dims.NDisplay), nil
}

// cmdIsoContour switches one layer (or every image layer when no reference
// is given) to iso rendering, optionally setting the threshold.
func cmdIsoContour(v *viewer.Viewer, args Args) (any, error) {
	var targets []*viewer.Layer
	if args.Present(0) {
		ref, err := args.LayerRef(0)
		if err != nil {
			return nil, err
		}
		layer, err := v.Resolve(ref)
		if err != nil {
			return nil, err
		}
		targets = append(targets, layer)
	} else {
		for _, l := range v.Layers() {
			if l.Type == viewer.LayerImage {
				targets = append(targets, l)
			}
		}
		if len(targets) == 0 {
			return nil, NewError(KindLayer, "no image layers to render", nil)
		}
	}

	hasThreshold := args.Present(1)
	threshold, err := args.OptionalFloat(1, "threshold", 0)
	if err != nil {
		return nil, err
	}

	for _, l := range targets {
		if l.Type != viewer.LayerImage {
			return nil, Validationf(map[string]any{"layer": l.Name, "type": string(l.Type)},
				"iso rendering applies to image layers, %q is %s", l.Name, l.Type)
		}
		l.Rendering = viewer.RenderingIso
		if hasThreshold {
			l.IsoThreshold = threshold
		} else {
			// default threshold sits midway through the contrast window
			l.IsoThreshold = (l.ContrastLimits[0] + l.ContrastLimits[1]) / 2
		}
	}
	return fmt.Sprintf("iso rendering enabled on %d layer(s)", len(targets)), nil
}

func cmdSetColormap(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	name, err := args.String(1, "colormap")
	if err != nil {
		return nil, err
	}
	if !imaging.IsColormap(name) {
		return nil, Validationf(map[string]any{"colormap": name, "valid": imaging.ColormapNames()},
			"unknown colormap %q", name)
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	layer.Colormap = name
	return fmt.Sprintf("layer %q colormap set to %s", layer.Name, name), nil
}

func cmdSetOpacity(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	opacity, err := args.Float(1, "opacity")
	if err != nil {
		return nil, err
	}
	if opacity < 0 || opacity > 1 {
		return nil, Validationf(map[string]any{"opacity": opacity, "valid_range": []float64{0, 1}},
			"opacity %v is outside the valid range [0, 1]", opacity)
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	layer.Opacity = opacity
	return fmt.Sprintf("layer %q opacity set to %v", layer.Name, opacity), nil
}

func cmdSetBlending(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	blending, err := args.String(1, "blending")
	if err != nil {
		return nil, err
	}
	if !imaging.IsBlending(blending) {
		return nil, Validationf(map[string]any{"blending": blending, "valid": imaging.BlendingNames()},
			"unknown blending mode %q", blending)
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	layer.Blending = blending
	return fmt.Sprintf("layer %q blending set to %s", layer.Name, blending), nil
}

func cmdSetContrastLimits(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	lo, err := args.Float(1, "contrast_min")
	if err != nil {
		return nil, err
	}
	hi, err := args.Float(2, "contrast_max")
	if err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, Validationf(map[string]any{"contrast_min": lo, "contrast_max": hi},
			"contrast_max (%v) must be greater than contrast_min (%v)", hi, lo)
	}
	layer, err := resolveImageLayer(v, ref)
	if err != nil {
		return nil, err
	}
	layer.ContrastLimits = [2]float64{lo, hi}
	return fmt.Sprintf("layer %q contrast limits set to [%v, %v]", layer.Name, lo, hi), nil
}

func cmdAutoContrast(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	layer, err := resolveImageLayer(v, ref)
	if err != nil {
		return nil, err
	}

	stats := imaging.ComputeStatistics(layer.Image)
	if stats.Max <= stats.Min {
		return nil, NewError(KindLayer, fmt.Sprintf("layer %q has constant data, nothing to stretch", layer.Name),
			map[string]any{"layer": layer.Name, "value": stats.Min})
	}
	layer.ContrastLimits = [2]float64{stats.Min, stats.Max}
	return fmt.Sprintf("layer %q contrast limits set to [%v, %v]", layer.Name, stats.Min, stats.Max), nil
}

func cmdSetGamma(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	gamma, err := args.Float(1, "gamma")
	if err != nil {
		return nil, err
	}
	if gamma <= 0 || gamma > 10 {
		return nil, Validationf(map[string]any{"gamma": gamma, "valid_range": []float64{0, 10}},
			"gamma %v is outside the valid range (0, 10]", gamma)
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	layer.Gamma = gamma
	return fmt.Sprintf("layer %q gamma set to %v", layer.Name, gamma), nil
}

func cmdSetInterpolation(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	interp, err := args.String(1, "interpolation")
	if err != nil {
		return nil, err
	}
	valid := false
	for _, name := range viewer.Interpolations {
		if name == interp {
			valid = true
			break
		}
	}
	if !valid {
		return nil, Validationf(map[string]any{"interpolation": interp, "valid": viewer.Interpolations},
			"unknown interpolation %q", interp)
	}
	layer, err := resolveImageLayer(v, ref)
	if err != nil {
		return nil, err
	}
	layer.Interpolation = interp
	return fmt.Sprintf("layer %q interpolation set to %s", layer.Name, interp), nil
}

func cmdSetScaleBar(v *viewer.Viewer, args Args) (any, error) {
	visible, err := args.OptionalBool(0, "visible", true)
	if err != nil {
		return nil, err
	}
	unit, err := args.OptionalString(1, "unit", v.ScaleBar.Unit)
	if err != nil {
		return nil, err
	}
	v.ScaleBar.Visible = visible
	v.ScaleBar.Unit = unit
	if visible {
		return fmt.Sprintf("scale bar shown (unit %s)", unit), nil
	}
	return "scale bar hidden", nil
}

func cmdSetAxisLabels(v *viewer.Viewer, args Args) (any, error) {
	labels, err := args.Strings(0, "labels")
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, Validationf(map[string]any{"argument": "labels"}, "labels must be a non-empty string list")
	}
	v.AxisLabels = labels
	return fmt.Sprintf("axis labels set to %v", labels), nil
}

func cmdToggleTheme(v *viewer.Viewer, args Args) (any, error) {
	if v.Theme == "dark" {
		v.Theme = "light"
	} else {
		v.Theme = "dark"
	}
	return fmt.Sprintf("theme is now %s", v.Theme), nil
}

// resolveImageLayer resolves a reference and checks the target carries
// raster data, since contrast and interpolation mean nothing elsewhere.
func resolveImageLayer(v *viewer.Viewer, ref viewer.LayerRef) (*viewer.Layer, error) {
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if layer.Image == nil {
		return nil, Validationf(map[string]any{"layer": layer.Name, "type": string(layer.Type)},
			"operation requires an image or labels layer, %q is %s", layer.Name, layer.Type)
	}
	return layer, nil
}
