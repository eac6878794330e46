package catalog

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/LLNL/bioimage-agent/internal/imaging"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func (r *Registry) registerAnalysisCommands() {
	r.register("screenshot", 0, 0, cmdScreenshot)
	r.register("export_screenshot", 1, 2, cmdExportScreenshot)
	r.register("crop_layer", 2, 2, cmdCropLayer)
	r.register("measure_distance", 2, 2, cmdMeasureDistance)
	r.register("get_layer_statistics", 0, 1, cmdGetLayerStatistics)
}

func cmdScreenshot(v *viewer.Viewer, args Args) (any, error) {
	frame, err := renderViewer(v, true)
	if err != nil {
		return nil, err
	}
	result, err := imaging.EncodeScreenshot(frame)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func cmdExportScreenshot(v *viewer.Viewer, args Args) (any, error) {
	path, err := args.String(0, "file_path")
	if err != nil {
		return nil, err
	}
	canvasOnly, err := args.OptionalBool(1, "canvas_only", true)
	if err != nil {
		return nil, err
	}

	frame, err := renderViewer(v, canvasOnly)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	if err := imaging.SaveImage(frame, path); err != nil {
		return nil, Filef(map[string]any{"path": path}, "%v", err)
	}
	bounds := frame.Bounds()
	return map[string]any{"path": path, "width": bounds.Dx(), "height": bounds.Dy()}, nil
}

// renderViewer assembles the compositing inputs from the current viewer
// state. canvasOnly=false additionally burns in the scale bar even when it
// is hidden, mirroring the "full window" export of the original viewer.
func renderViewer(v *viewer.Viewer, canvasOnly bool) (*image.NRGBA, error) {
	var layers []imaging.RenderLayer
	var markers []imaging.Marker
	var outlines []imaging.Outline

	for _, l := range v.Layers() {
		if !l.Visible {
			continue
		}
		switch l.Type {
		case viewer.LayerImage, viewer.LayerLabels:
			rl := imaging.RenderLayer{
				Plane:          l.Image.Plane(v.Dims.Timestep, v.Dims.Channel, v.Dims.ZSlice),
				Labels:         l.Type == viewer.LayerLabels,
				Opacity:        l.Opacity,
				Blending:       l.Blending,
				Gamma:          l.Gamma,
				ContrastLimits: l.ContrastLimits,
				Iso:            l.Rendering == viewer.RenderingIso,
				IsoThreshold:   l.IsoThreshold,
			}
			if !rl.Labels {
				lut, lutErr := imaging.Colormap(l.Colormap)
				if lutErr != nil {
					return nil, lutErr
				}
				rl.LUT = lut
			}
			layers = append(layers, rl)
		case viewer.LayerPoints:
			for _, pt := range l.Points {
				if len(pt) >= 2 {
					markers = append(markers, imaging.Marker{Y: pt[len(pt)-2], X: pt[len(pt)-1]})
				}
			}
		case viewer.LayerShapes:
			for _, s := range l.Shapes {
				o := imaging.Outline{}
				for _, vert := range s.Vertices {
					if len(vert) >= 2 {
						o.Vertices = append(o.Vertices, [2]float64{vert[len(vert)-2], vert[len(vert)-1]})
					}
				}
				outlines = append(outlines, o)
			}
		case viewer.LayerVectors:
			for _, vec := range l.Vectors {
				origin, dir := vec[0], vec[1]
				if len(origin) >= 2 && len(dir) >= 2 {
					oy, ox := origin[len(origin)-2], origin[len(origin)-1]
					dy, dx := dir[len(dir)-2], dir[len(dir)-1]
					outlines = append(outlines, imaging.Outline{
						Vertices: [][2]float64{{oy, ox}, {oy + dy, ox + dx}},
						Color:    color.NRGBA{0, 200, 255, 255},
					})
				}
			}
		}
	}

	background := color.NRGBA{0, 0, 0, 255}
	if v.Theme == "light" {
		background = color.NRGBA{255, 255, 255, 255}
	}

	return imaging.Render(layers, imaging.RenderOptions{
		Zoom:       v.Camera.Zoom,
		Background: background,
		Markers:    markers,
		Outlines:   outlines,
		ScaleBar: imaging.ScaleBarSpec{
			Visible: v.ScaleBar.Visible || !canvasOnly,
			Unit:    v.ScaleBar.Unit,
		},
	})
}

func cmdCropLayer(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	bounds, err := args.Floats(1, "bounds")
	if err != nil {
		return nil, err
	}
	if len(bounds) != 4 {
		return nil, Validationf(map[string]any{"bounds": bounds},
			"bounds must be [y1, x1, y2, x2], got %d values", len(bounds))
	}
	layer, err := resolveImageLayer(v, ref)
	if err != nil {
		return nil, err
	}

	y1, x1, y2, x2 := int(bounds[0]), int(bounds[1]), int(bounds[2]), int(bounds[3])
	cropped, err := layer.Image.Crop(x1, y1, x2, y2)
	if err != nil {
		return nil, Validationf(map[string]any{
			"bounds": bounds, "layer": layer.Name,
			"layer_size": []int{layer.Image.Height(), layer.Image.Width()},
		}, "%v", err)
	}
	layer.Image = cropped
	return fmt.Sprintf("layer %q cropped to %dx%d", layer.Name, cropped.Width(), cropped.Height()), nil
}

func cmdMeasureDistance(v *viewer.Viewer, args Args) (any, error) {
	p1, err := args.Floats(0, "point1")
	if err != nil {
		return nil, err
	}
	p2, err := args.Floats(1, "point2")
	if err != nil {
		return nil, err
	}
	result, err := imaging.MeasureDistance(p1, p2)
	if err != nil {
		return nil, Validationf(map[string]any{"point1": p1, "point2": p2}, "%v", err)
	}
	return result, nil
}

func cmdGetLayerStatistics(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	layer, err := resolveImageLayer(v, ref)
	if err != nil {
		return nil, err
	}
	stats := imaging.ComputeStatistics(layer.Image)
	return map[string]any{
		"layer": layer.Name,
		"min":   stats.Min,
		"max":   stats.Max,
		"mean":  stats.Mean,
		"std":   stats.Std,
		"shape": stats.Shape,
	}, nil
}
