// Data-driven tool definitions for the viewer MCP front-end.
//
// Each tool is one toolDef; the registration engine in handlers.go turns
// the table into mcp.Tool schemas and handlers. Params are declared in the
// daemon command's positional order.
package server

// paramKind determines the JSON schema type of a parameter and how the
// handler validates it before forwarding.
type paramKind int

const (
	paramString   paramKind = iota
	paramNumber             // float64
	paramInt                // number that the daemon requires to be integral
	paramBool               //
	paramStrings            // array of strings
	paramArray              // array, nested shape checked by the daemon
	paramObject             // free-form object
	paramLayerRef           // layer name or integer index as a string
)

// paramDef describes one tool parameter.
type paramDef struct {
	Name     string
	Desc     string
	Kind     paramKind
	Required bool
}

// resultKind selects the MCP content type of a successful reply.
type resultKind int

const (
	resultText  resultKind = iota
	resultImage            // base64 PNG payload, returned as image content
)

// toolDef declares one MCP tool and the daemon command behind it.
type toolDef struct {
	Name     string
	Desc     string
	Command  string
	ReadOnly bool
	Result   resultKind
	Params   []paramDef
}

func layerParam(desc string) paramDef {
	return paramDef{Name: "layer", Desc: desc, Kind: paramLayerRef}
}

var allTools = []toolDef{
	// Session
	{
		Name: "viewer_ping", Command: "ping", ReadOnly: true,
		Desc: "Check that the viewer daemon is running and reachable.",
	},

	// Layer management
	{
		Name: "open_file", Command: "open_file",
		Desc: "Open an image file (PNG, JPEG, GIF or TIFF) as a new layer and make it active.",
		Params: []paramDef{
			{Name: "path", Desc: "Absolute path to the image file.", Kind: paramString, Required: true},
		},
	},
	{
		Name: "list_layers", Command: "list_layers", ReadOnly: true,
		Desc: "List every loaded layer with its type, visibility and display settings.",
	},
	{
		Name: "remove_layer", Command: "remove_layer",
		Desc:   "Remove a layer from the viewer.",
		Params: []paramDef{layerParam("Layer to remove.")},
	},
	{
		Name: "select_layer", Command: "select_layer",
		Desc: "Make a layer the active one; layer commands without an explicit target apply to it.",
		Params: []paramDef{
			{Name: "layer", Desc: "Layer to select. Pass a layer name or an integer index (negative counts from the end).", Kind: paramLayerRef, Required: true},
		},
	},
	{
		Name: "set_layer_visibility", Command: "set_layer_visibility",
		Desc: "Show or hide a layer without removing it.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "visible", Desc: "true to show the layer, false to hide it.", Kind: paramBool, Required: true},
		},
	},
	{
		Name: "get_layer_data", Command: "get_layer_data", ReadOnly: true,
		Desc:   "Return the raw data of a layer: the currently displayed plane for image and labels layers, coordinates for geometry layers.",
		Params: []paramDef{layerParam("Layer to read.")},
	},
	{
		Name: "save_layers", Command: "save_layers",
		Desc: "Write layers to disk under a shared base path; rasters as images, geometry as JSON.",
		Params: []paramDef{
			{Name: "path", Desc: "Base file path; each layer is written as base_name.ext.", Kind: paramString, Required: true},
			{Name: "layer_names", Desc: "Layers to save; omit to save all of them.", Kind: paramStrings},
		},
	},
	{
		Name: "add_points", Command: "add_points",
		Desc: "Create a points layer from a list of coordinates.",
		Params: []paramDef{
			{Name: "points", Desc: "Array of [y, x] (or higher-dimensional) coordinates.", Kind: paramArray, Required: true},
			{Name: "properties", Desc: "Optional per-layer properties object.", Kind: paramObject},
			{Name: "name", Desc: "Layer name (default 'points').", Kind: paramString},
		},
	},
	{
		Name: "add_shapes", Command: "add_shapes",
		Desc: "Create a shapes layer from vertex lists.",
		Params: []paramDef{
			{Name: "shapes", Desc: "Array of shapes, each an array of [y, x] vertices.", Kind: paramArray, Required: true},
			{Name: "shape_type", Desc: "One of rectangle, ellipse, line, polygon, path (default rectangle).", Kind: paramString},
			{Name: "name", Desc: "Layer name (default 'shapes').", Kind: paramString},
		},
	},
	{
		Name: "add_labels", Command: "add_labels",
		Desc: "Create a labels layer from a 2-D integer mask; each label value gets its own color.",
		Params: []paramDef{
			{Name: "data", Desc: "2-D array of integer label values, 0 meaning background.", Kind: paramArray, Required: true},
			{Name: "name", Desc: "Layer name (default 'labels').", Kind: paramString},
		},
	},
	{
		Name: "add_surface", Command: "add_surface",
		Desc: "Create a surface layer from a triangle mesh.",
		Params: []paramDef{
			{Name: "vertices", Desc: "Array of vertex coordinates.", Kind: paramArray, Required: true},
			{Name: "faces", Desc: "Array of triangles, each three vertex indices.", Kind: paramArray, Required: true},
			{Name: "name", Desc: "Layer name (default 'surface').", Kind: paramString},
		},
	},
	{
		Name: "add_vectors", Command: "add_vectors",
		Desc: "Create a vectors layer from origin/direction pairs.",
		Params: []paramDef{
			{Name: "vectors", Desc: "Array of [[origin], [direction]] coordinate pairs.", Kind: paramArray, Required: true},
			{Name: "name", Desc: "Layer name (default 'vectors').", Kind: paramString},
		},
	},

	// Display settings
	{
		Name: "toggle_ndisplay", Command: "toggle_ndisplay",
		Desc: "Flip the viewer between 2-D and 3-D display.",
	},
	{
		Name: "set_view_mode", Command: "set_view_mode",
		Desc: "Set the display mode explicitly.",
		Params: []paramDef{
			{Name: "mode", Desc: "\"2D\" or \"3D\".", Kind: paramString, Required: true},
		},
	},
	{
		Name: "iso_contour", Command: "iso_contour",
		Desc: "Switch a layer (or all image layers) to iso-surface rendering.",
		Params: []paramDef{
			layerParam("Layer to change; omit to apply to every image layer."),
			{Name: "threshold", Desc: "Iso threshold; omit for the contrast window midpoint.", Kind: paramNumber},
		},
	},
	{
		Name: "set_colormap", Command: "set_colormap",
		Desc: "Apply a named colormap to an image layer.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "colormap", Desc: "Colormap name, e.g. gray, viridis, magma, red, green, cyan.", Kind: paramString, Required: true},
		},
	},
	{
		Name: "set_opacity", Command: "set_opacity",
		Desc: "Set a layer's opacity.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "opacity", Desc: "Opacity between 0 (transparent) and 1 (opaque).", Kind: paramNumber, Required: true},
		},
	},
	{
		Name: "set_blending", Command: "set_blending",
		Desc: "Set how a layer composites with the layers below it.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "blending", Desc: "One of opaque, translucent, additive, minimum.", Kind: paramString, Required: true},
		},
	},
	{
		Name: "set_contrast_limits", Command: "set_contrast_limits",
		Desc: "Set the display window of an image layer; values at or below min render black, at or above max render full intensity.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "contrast_min", Desc: "Lower display limit.", Kind: paramNumber, Required: true},
			{Name: "contrast_max", Desc: "Upper display limit, must exceed contrast_min.", Kind: paramNumber, Required: true},
		},
	},
	{
		Name: "auto_contrast", Command: "auto_contrast",
		Desc:   "Stretch an image layer's contrast limits to its actual data range.",
		Params: []paramDef{layerParam("Layer to adjust.")},
	},
	{
		Name: "set_gamma", Command: "set_gamma",
		Desc: "Set a layer's gamma correction.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "gamma", Desc: "Gamma in (0, 10]; 1 is linear.", Kind: paramNumber, Required: true},
		},
	},
	{
		Name: "set_interpolation", Command: "set_interpolation",
		Desc: "Set the sampling mode of an image layer.",
		Params: []paramDef{
			layerParam("Layer to change."),
			{Name: "interpolation", Desc: "One of nearest, linear, cubic.", Kind: paramString, Required: true},
		},
	},
	{
		Name: "set_scale_bar", Command: "set_scale_bar",
		Desc: "Show or hide the scale bar overlay.",
		Params: []paramDef{
			{Name: "visible", Desc: "true to show the scale bar (default true).", Kind: paramBool},
			{Name: "unit", Desc: "Unit label, e.g. px, um, nm.", Kind: paramString},
		},
	},
	{
		Name: "set_axis_labels", Command: "set_axis_labels",
		Desc: "Rename the viewer axes.",
		Params: []paramDef{
			{Name: "labels", Desc: "Axis names, e.g. [\"t\", \"c\", \"z\", \"y\", \"x\"].", Kind: paramStrings, Required: true},
		},
	},
	{
		Name: "toggle_theme", Command: "toggle_theme",
		Desc: "Flip the viewer between the dark and light themes.",
	},

	// Camera
	{
		Name: "set_camera", Command: "set_camera",
		Desc: "Move the camera; any combination of center, zoom and angle may be given.",
		Params: []paramDef{
			{Name: "center", Desc: "View center as [y, x] or [z, y, x].", Kind: paramArray},
			{Name: "zoom", Desc: "Zoom factor, must be positive.", Kind: paramNumber},
			{Name: "angle", Desc: "In-plane rotation in degrees.", Kind: paramNumber},
		},
	},
	{
		Name: "get_camera", Command: "get_camera", ReadOnly: true,
		Desc: "Report the current camera center, zoom and angles.",
	},
	{
		Name: "reset_camera", Command: "reset_camera",
		Desc: "Reset the camera to the default view.",
	},

	// Dimensions
	{
		Name: "set_timestep", Command: "set_timestep",
		Desc: "Move the time slider to a frame.",
		Params: []paramDef{
			{Name: "timestep", Desc: "Zero-based frame index.", Kind: paramInt, Required: true},
		},
	},
	{
		Name: "set_channel", Command: "set_channel",
		Desc: "Move the channel slider.",
		Params: []paramDef{
			{Name: "channel_index", Desc: "Zero-based channel index.", Kind: paramInt, Required: true},
		},
	},
	{
		Name: "set_z_slice", Command: "set_z_slice",
		Desc: "Move the z slider.",
		Params: []paramDef{
			{Name: "z_index", Desc: "Zero-based z index.", Kind: paramInt, Required: true},
		},
	},
	{
		Name: "get_dims_info", Command: "get_dims_info", ReadOnly: true,
		Desc: "Report axis ranges and the current slider positions.",
	},
	{
		Name: "play_animation", Command: "play_animation",
		Desc: "Step the time slider from one frame to another at a fixed rate.",
		Params: []paramDef{
			{Name: "start_frame", Desc: "First frame, zero-based.", Kind: paramInt, Required: true},
			{Name: "end_frame", Desc: "Last frame; smaller than start_frame plays backwards.", Kind: paramInt, Required: true},
			{Name: "fps", Desc: "Frames per second, 1 to 120 (default 10).", Kind: paramInt},
		},
	},

	// Capture and analysis
	{
		Name: "screenshot", Command: "screenshot", ReadOnly: true, Result: resultImage,
		Desc: "Capture the current canvas and return it as a PNG image.",
	},
	{
		Name: "export_screenshot", Command: "export_screenshot",
		Desc: "Render the current view to an image file on the daemon's filesystem.",
		Params: []paramDef{
			{Name: "path", Desc: "Output file path; .png is appended when no extension is given.", Kind: paramString, Required: true},
			{Name: "canvas_only", Desc: "false to include window overlays such as the scale bar (default true).", Kind: paramBool},
		},
	},
	{
		Name: "crop_layer", Command: "crop_layer",
		Desc: "Crop an image layer to a rectangular region, replacing its data.",
		Params: []paramDef{
			layerParam("Layer to crop."),
			{Name: "bounds", Desc: "Region as [y1, x1, y2, x2], end-exclusive.", Kind: paramArray, Required: true},
		},
	},
	{
		Name: "measure_distance", Command: "measure_distance", ReadOnly: true,
		Desc: "Measure the Euclidean distance between two points in data coordinates.",
		Params: []paramDef{
			{Name: "point1", Desc: "First point coordinates.", Kind: paramArray, Required: true},
			{Name: "point2", Desc: "Second point coordinates, same dimensionality.", Kind: paramArray, Required: true},
		},
	},
	{
		Name: "get_layer_statistics", Command: "get_layer_statistics", ReadOnly: true,
		Desc:   "Compute min, max, mean and standard deviation over a raster layer.",
		Params: []paramDef{layerParam("Layer to analyze.")},
	},
}
