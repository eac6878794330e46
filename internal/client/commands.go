package client

import (
	"fmt"
	"os"
	"path/filepath"
)

// Screenshot holds a captured frame. Data is base64-encoded PNG.
type Screenshot struct {
	Width    int
	Height   int
	Data     string
	MimeType string
}

// Ping checks that the daemon is alive.
func (c *Client) Ping() (any, error) {
	return c.SendCommand("ping")
}

// OpenFile loads an image file as a new layer. The path is resolved and
// checked locally first so a typo fails fast with the path that was tried,
// instead of a daemon-side error about a path the daemon resolved
// differently.
func (c *Client) OpenFile(path string) (any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, statErr := os.Stat(abs); statErr != nil {
		return nil, &Error{Kind: KindFile,
			Message:    fmt.Sprintf("cannot access %s: %v", abs, statErr),
			Context:    map[string]any{"path": abs},
			Suggestion: suggestionFor(KindFile)}
	}
	return c.SendCommand("open_file", abs)
}

// RemoveLayer deletes a layer. A nil ref targets the active layer.
func (c *Client) RemoveLayer(ref any) (any, error) {
	return c.SendCommand("remove_layer", ref)
}

// ListLayers reports every loaded layer with its display settings.
func (c *Client) ListLayers() (any, error) {
	return c.SendCommand("list_layers")
}

// SelectLayer makes a layer the active one.
func (c *Client) SelectLayer(ref any) (any, error) {
	return c.SendCommand("select_layer", ref)
}

// SetLayerVisibility shows or hides a layer.
func (c *Client) SetLayerVisibility(ref any, visible bool) (any, error) {
	return c.SendCommand("set_layer_visibility", ref, visible)
}

// GetLayerData returns the raw data of a layer: the current plane for
// rasters, coordinates for geometry layers.
func (c *Client) GetLayerData(ref any) (any, error) {
	return c.SendCommand("get_layer_data", ref)
}

// SaveLayers writes layers to disk under a shared base path. A nil names
// list saves every layer.
func (c *Client) SaveLayers(path string, names []string) (any, error) {
	if names == nil {
		return c.SendCommand("save_layers", path)
	}
	return c.SendCommand("save_layers", path, names)
}

// AddPoints creates a points layer from [y, x] (or higher-dimensional)
// coordinates. properties may be nil.
func (c *Client) AddPoints(points [][]float64, properties map[string]any, name string) (any, error) {
	return c.SendCommand("add_points", points, properties, name)
}

// AddShapes creates a shapes layer. shapeType applies to every shape.
func (c *Client) AddShapes(shapes [][][]float64, shapeType, name string) (any, error) {
	return c.SendCommand("add_shapes", shapes, shapeType, name)
}

// AddLabels creates a labels layer from an integer-valued mask.
func (c *Client) AddLabels(data [][]float64, name string) (any, error) {
	return c.SendCommand("add_labels", data, name)
}

// AddSurface creates a surface layer from vertices and triangle faces.
func (c *Client) AddSurface(vertices [][]float64, faces [][]float64, name string) (any, error) {
	return c.SendCommand("add_surface", vertices, faces, name)
}

// AddVectors creates a vectors layer from [origin, direction] pairs.
func (c *Client) AddVectors(vectors [][][]float64, name string) (any, error) {
	return c.SendCommand("add_vectors", vectors, name)
}

// ToggleNDisplay flips between 2-D and 3-D display.
func (c *Client) ToggleNDisplay() (any, error) {
	return c.SendCommand("toggle_ndisplay")
}

// SetViewMode sets the display mode explicitly, "2D" or "3D".
func (c *Client) SetViewMode(mode string) (any, error) {
	return c.SendCommand("set_view_mode", mode)
}

// IsoContour switches a layer (or all image layers when ref is nil) to
// iso-surface rendering. threshold may be nil for the automatic midpoint.
func (c *Client) IsoContour(ref any, threshold any) (any, error) {
	return c.SendCommand("iso_contour", ref, threshold)
}

// SetColormap applies a named colormap to a layer.
func (c *Client) SetColormap(ref any, colormap string) (any, error) {
	return c.SendCommand("set_colormap", ref, colormap)
}

// SetOpacity sets a layer's opacity in [0, 1].
func (c *Client) SetOpacity(ref any, opacity float64) (any, error) {
	return c.SendCommand("set_opacity", ref, opacity)
}

// SetBlending sets a layer's blending mode.
func (c *Client) SetBlending(ref any, blending string) (any, error) {
	return c.SendCommand("set_blending", ref, blending)
}

// SetContrastLimits sets the display window of an image layer.
func (c *Client) SetContrastLimits(ref any, min, max float64) (any, error) {
	return c.SendCommand("set_contrast_limits", ref, min, max)
}

// AutoContrast stretches a layer's contrast to its data range.
func (c *Client) AutoContrast(ref any) (any, error) {
	return c.SendCommand("auto_contrast", ref)
}

// SetGamma sets a layer's gamma correction.
func (c *Client) SetGamma(ref any, gamma float64) (any, error) {
	return c.SendCommand("set_gamma", ref, gamma)
}

// SetInterpolation sets the sampling mode of an image layer.
func (c *Client) SetInterpolation(ref any, interpolation string) (any, error) {
	return c.SendCommand("set_interpolation", ref, interpolation)
}

// SetScaleBar shows or hides the scale bar overlay.
func (c *Client) SetScaleBar(visible bool, unit string) (any, error) {
	if unit == "" {
		return c.SendCommand("set_scale_bar", visible)
	}
	return c.SendCommand("set_scale_bar", visible, unit)
}

// SetAxisLabels renames the viewer axes.
func (c *Client) SetAxisLabels(labels []string) (any, error) {
	return c.SendCommand("set_axis_labels", labels)
}

// ToggleTheme flips between the dark and light themes.
func (c *Client) ToggleTheme() (any, error) {
	return c.SendCommand("toggle_theme")
}

// SetCamera adjusts center, zoom and/or angle; nil leaves a field alone.
func (c *Client) SetCamera(center any, zoom any, angle any) (any, error) {
	return c.SendCommand("set_camera", center, zoom, angle)
}

// GetCamera reports the current camera parameters.
func (c *Client) GetCamera() (any, error) {
	return c.SendCommand("get_camera")
}

// ResetCamera restores the default view.
func (c *Client) ResetCamera() (any, error) {
	return c.SendCommand("reset_camera")
}

// SetTimestep moves the time slider.
func (c *Client) SetTimestep(index int) (any, error) {
	return c.SendCommand("set_timestep", index)
}

// SetChannel moves the channel slider.
func (c *Client) SetChannel(index int) (any, error) {
	return c.SendCommand("set_channel", index)
}

// SetZSlice moves the z slider.
func (c *Client) SetZSlice(index int) (any, error) {
	return c.SendCommand("set_z_slice", index)
}

// GetDimsInfo reports the axis ranges and current slider positions.
func (c *Client) GetDimsInfo() (any, error) {
	return c.SendCommand("get_dims_info")
}

// PlayAnimation steps the timestep from start to end at fps frames/s.
func (c *Client) PlayAnimation(start, end, fps int) (any, error) {
	return c.SendCommand("play_animation", start, end, fps)
}

// TakeScreenshot captures the canvas and returns the decoded frame info.
func (c *Client) TakeScreenshot() (*Screenshot, error) {
	payload, err := c.SendCommand("screenshot")
	if err != nil {
		return nil, err
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, &Error{Kind: KindInternal,
			Message:    fmt.Sprintf("screenshot reply has unexpected shape %T", payload),
			Suggestion: suggestionFor(KindInternal)}
	}
	shot := &Screenshot{
		Data:     stringField(m, "image_base64"),
		MimeType: stringField(m, "mime_type"),
	}
	shot.Width = intField(m, "width")
	shot.Height = intField(m, "height")
	if shot.Data == "" {
		return nil, &Error{Kind: KindInternal,
			Message:    "screenshot reply carries no image data",
			Suggestion: suggestionFor(KindInternal)}
	}
	return shot, nil
}

// ExportScreenshot renders the view to a file on the daemon's filesystem.
func (c *Client) ExportScreenshot(path string, canvasOnly bool) (any, error) {
	return c.SendCommand("export_screenshot", path, canvasOnly)
}

// CropLayer crops an image layer to [y1, x1, y2, x2].
func (c *Client) CropLayer(ref any, bounds []float64) (any, error) {
	return c.SendCommand("crop_layer", ref, bounds)
}

// MeasureDistance measures the Euclidean distance between two points.
func (c *Client) MeasureDistance(p1, p2 []float64) (any, error) {
	return c.SendCommand("measure_distance", p1, p2)
}

// GetLayerStatistics reports min/max/mean/std over a raster layer.
func (c *Client) GetLayerStatistics(ref any) (any, error) {
	return c.SendCommand("get_layer_statistics", ref)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}
