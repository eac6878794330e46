package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LLNL/bioimage-agent/internal/imaging"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func (r *Registry) registerLayerCommands() {
	r.register("open_file", 1, 1, cmdOpenFile)
	r.register("remove_layer", 0, 1, cmdRemoveLayer)
	r.register("list_layers", 0, 0, cmdListLayers)
	r.register("select_layer", 1, 1, cmdSelectLayer)
	r.register("set_layer_visibility", 2, 2, cmdSetLayerVisibility)
	r.register("get_layer_data", 0, 1, cmdGetLayerData)
	r.register("save_layers", 1, 2, cmdSaveLayers)
	r.register("add_points", 1, 3, cmdAddPoints)
	r.register("add_shapes", 1, 3, cmdAddShapes)
	r.register("add_labels", 1, 2, cmdAddLabels)
	r.register("add_surface", 2, 3, cmdAddSurface)
	r.register("add_vectors", 1, 2, cmdAddVectors)
}

func cmdOpenFile(v *viewer.Viewer, args Args) (any, error) {
	path, err := args.String(0, "file_path")
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, Filef(map[string]any{"path": path}, "file not found: %s", path)
	}
	if !imaging.SupportedExt(path) {
		return nil, Filef(map[string]any{"path": path, "supported": []string{"png", "jpg", "jpeg", "gif", "tif", "tiff"}},
			"unsupported file type: %s", filepath.Ext(path))
	}

	loaded, err := imaging.LoadPlane(path)
	if err != nil {
		return nil, Filef(map[string]any{"path": path}, "could not read %s: %v", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	layer := viewer.NewImageLayer(name, imaging.StackOf(loaded.Plane))
	layer.Source = path
	final := v.AddLayer(layer)

	return fmt.Sprintf("opened %s as layer %q (%dx%d, %s)",
		path, final, loaded.Plane.Width, loaded.Plane.Height, loaded.Format), nil
}

func cmdRemoveLayer(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	v.RemoveLayer(layer)
	return fmt.Sprintf("removed layer %q", layer.Name), nil
}

func cmdListLayers(v *viewer.Viewer, args Args) (any, error) {
	infos := make([]map[string]any, 0, len(v.Layers()))
	for _, l := range v.Layers() {
		info := l.Info()
		info["active"] = l == v.Active()
		infos = append(infos, info)
	}
	return infos, nil
}

func cmdSelectLayer(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	v.SetActive(layer)
	return fmt.Sprintf("selected layer %q", layer.Name), nil
}

func cmdSetLayerVisibility(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	visible, err := args.Bool(1, "visible")
	if err != nil {
		return nil, err
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}
	layer.Visible = visible
	return fmt.Sprintf("layer %q visibility set to %v", layer.Name, visible), nil
}

func cmdGetLayerData(v *viewer.Viewer, args Args) (any, error) {
	ref, err := args.LayerRef(0)
	if err != nil {
		return nil, err
	}
	layer, err := v.Resolve(ref)
	if err != nil {
		return nil, err
	}

	switch layer.Type {
	case viewer.LayerImage, viewer.LayerLabels:
		// Full rasters can be enormous; serve the current plane only.
		p := layer.Image.Plane(v.Dims.Timestep, v.Dims.Channel, v.Dims.ZSlice)
		rows := make([][]float64, p.Height)
		for y := 0; y < p.Height; y++ {
			rows[y] = append([]float64(nil), p.Pix[y*p.Width:(y+1)*p.Width]...)
		}
		return map[string]any{
			"layer": layer.Name, "type": string(layer.Type),
			"plane": []int{v.Dims.Timestep, v.Dims.Channel, v.Dims.ZSlice},
			"data":  rows,
		}, nil
	case viewer.LayerPoints:
		return map[string]any{"layer": layer.Name, "type": "points", "data": layer.Points, "properties": layer.Props}, nil
	case viewer.LayerShapes:
		return map[string]any{"layer": layer.Name, "type": "shapes", "data": layer.Shapes}, nil
	case viewer.LayerSurface:
		return map[string]any{"layer": layer.Name, "type": "surface", "data": layer.Surface}, nil
	case viewer.LayerVectors:
		return map[string]any{"layer": layer.Name, "type": "vectors", "data": layer.Vectors}, nil
	}
	return nil, NewError(KindInternal, "layer has unknown type", map[string]any{"layer": layer.Name})
}

func cmdSaveLayers(v *viewer.Viewer, args Args) (any, error) {
	path, err := args.String(0, "file_path")
	if err != nil {
		return nil, err
	}
	names, err := args.Strings(1, "layer_names")
	if err != nil {
		return nil, err
	}

	layers := v.Layers()
	if names != nil {
		layers = layers[:0:0]
		for _, name := range names {
			l, err := v.Resolve(viewer.RefByName(name))
			if err != nil {
				return nil, err
			}
			layers = append(layers, l)
		}
	}
	if len(layers) == 0 {
		return nil, NewError(KindLayer, "no layers to save", nil)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".png"
	}

	var saved []string
	for _, l := range layers {
		target := path
		if len(layers) > 1 {
			target = fmt.Sprintf("%s_%s%s", base, sanitizeName(l.Name), ext)
		}
		switch l.Type {
		case viewer.LayerImage, viewer.LayerLabels:
			p := l.Image.Plane(v.Dims.Timestep, v.Dims.Channel, v.Dims.ZSlice)
			if err := imaging.SavePlane(p, target); err != nil {
				return nil, Filef(map[string]any{"path": target, "layer": l.Name}, "%v", err)
			}
		default:
			if len(layers) == 1 || ext != ".json" {
				target = fmt.Sprintf("%s_%s.json", base, sanitizeName(l.Name))
			}
			data, _ := cmdGetLayerData(v, Args{l.Name})
			if err := imaging.SaveJSON(target, data); err != nil {
				return nil, Filef(map[string]any{"path": target, "layer": l.Name}, "%v", err)
			}
		}
		saved = append(saved, target)
	}
	return map[string]any{"saved": saved}, nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func cmdAddPoints(v *viewer.Viewer, args Args) (any, error) {
	coords, err := args.FloatMatrix(0, "coordinates")
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, Validationf(map[string]any{"argument": "coordinates"}, "coordinates must contain at least one point")
	}
	dim := len(coords[0])
	for i, pt := range coords {
		if len(pt) != dim {
			return nil, Validationf(map[string]any{"point": i, "expected_dim": dim, "got_dim": len(pt)},
				"point %d has %d coordinates, expected %d", i, len(pt), dim)
		}
	}

	var props map[string]any
	if raw, ok := args.Value(1); ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, wrongType(1, "properties", "object", raw)
		}
		props = m
	}
	name, err := args.OptionalString(2, "name", "points")
	if err != nil {
		return nil, err
	}

	final := v.AddLayer(viewer.NewPointsLayer(name, coords, props))
	return fmt.Sprintf("added points layer %q with %d points", final, len(coords)), nil
}

var shapeTypes = map[string]bool{
	"rectangle": true, "ellipse": true, "line": true, "polygon": true, "path": true,
}

func cmdAddShapes(v *viewer.Viewer, args Args) (any, error) {
	raw, ok := args.Value(0)
	if !ok || raw == nil {
		return nil, missingArg(0, "shape_data", "list of vertex lists")
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, wrongType(0, "shape_data", "list of vertex lists", raw)
	}
	shapeType, err := args.OptionalString(1, "shape_type", "rectangle")
	if err != nil {
		return nil, err
	}
	if !shapeTypes[shapeType] {
		return nil, Validationf(map[string]any{"shape_type": shapeType, "valid": keys(shapeTypes)},
			"unknown shape type %q", shapeType)
	}
	name, err := args.OptionalString(2, "name", "shapes")
	if err != nil {
		return nil, err
	}

	shapes := make([]viewer.Shape, 0, len(rows))
	for i, row := range rows {
		verts, err := Args{row}.FloatMatrix(0, fmt.Sprintf("shape_data[%d]", i))
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, viewer.Shape{Type: shapeType, Vertices: verts})
	}

	final := v.AddLayer(viewer.NewShapesLayer(name, shapes))
	return fmt.Sprintf("added shapes layer %q with %d %s(s)", final, len(shapes), shapeType), nil
}

func cmdAddLabels(v *viewer.Viewer, args Args) (any, error) {
	raster, err := args.FloatMatrix(0, "label_image")
	if err != nil {
		return nil, err
	}
	if len(raster) == 0 || len(raster[0]) == 0 {
		return nil, Validationf(map[string]any{"argument": "label_image"}, "label image must be a non-empty 2-D array")
	}
	width := len(raster[0])
	plane := imaging.NewPlane(width, len(raster))
	for y, row := range raster {
		if len(row) != width {
			return nil, Validationf(map[string]any{"row": y, "expected": width, "got": len(row)},
				"label image row %d has %d values, expected %d", y, len(row), width)
		}
		copy(plane.Pix[y*width:(y+1)*width], row)
	}
	name, err := args.OptionalString(1, "name", "labels")
	if err != nil {
		return nil, err
	}

	final := v.AddLayer(viewer.NewLabelsLayer(name, imaging.StackOf(plane)))
	return fmt.Sprintf("added labels layer %q (%dx%d)", final, width, len(raster)), nil
}

func cmdAddSurface(v *viewer.Viewer, args Args) (any, error) {
	vertices, err := args.FloatMatrix(0, "vertices")
	if err != nil {
		return nil, err
	}
	faceRows, err := args.FloatMatrix(1, "faces")
	if err != nil {
		return nil, err
	}
	faces := make([][3]int, len(faceRows))
	for i, row := range faceRows {
		if len(row) != 3 {
			return nil, Validationf(map[string]any{"face": i, "got": len(row)},
				"face %d has %d vertex indexes, expected 3", i, len(row))
		}
		for j, idx := range row {
			n := int(idx)
			if n < 0 || n >= len(vertices) {
				return nil, Validationf(map[string]any{"face": i, "index": n, "num_vertices": len(vertices)},
					"face %d references vertex %d, outside 0-%d", i, n, len(vertices)-1)
			}
			faces[i][j] = n
		}
	}
	name, err := args.OptionalString(2, "name", "surface")
	if err != nil {
		return nil, err
	}

	final := v.AddLayer(viewer.NewSurfaceLayer(name, &viewer.Surface{Vertices: vertices, Faces: faces}))
	return fmt.Sprintf("added surface layer %q (%d vertices, %d faces)", final, len(vertices), len(faces)), nil
}

func cmdAddVectors(v *viewer.Viewer, args Args) (any, error) {
	raw, ok := args.Value(0)
	if !ok || raw == nil {
		return nil, missingArg(0, "vectors", "list of [origin, direction] pairs")
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, wrongType(0, "vectors", "list of [origin, direction] pairs", raw)
	}
	vectors := make([][][]float64, 0, len(rows))
	for i, row := range rows {
		pair, err := Args{row}.FloatMatrix(0, fmt.Sprintf("vectors[%d]", i))
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, Validationf(map[string]any{"vector": i, "got": len(pair)},
				"vector %d must be an [origin, direction] pair", i)
		}
		vectors = append(vectors, pair)
	}
	name, err := args.OptionalString(1, "name", "vectors")
	if err != nil {
		return nil, err
	}

	final := v.AddLayer(viewer.NewVectorsLayer(name, vectors))
	return fmt.Sprintf("added vectors layer %q with %d vectors", final, len(vectors)), nil
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
