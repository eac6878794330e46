package catalog

import (
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func (r *Registry) registerCameraCommands() {
	r.register("set_camera", 0, 3, cmdSetCamera)
	r.register("get_camera", 0, 0, cmdGetCamera)
	r.register("reset_camera", 0, 0, cmdResetCamera)
}

// cmdSetCamera updates any of center, zoom and angles; null arguments
// leave the corresponding parameter untouched.
func cmdSetCamera(v *viewer.Viewer, args Args) (any, error) {
	if args.Present(0) {
		center, err := args.Floats(0, "center")
		if err != nil {
			return nil, err
		}
		if len(center) < 2 || len(center) > 3 {
			return nil, Validationf(map[string]any{"center": center},
				"center must have 2 or 3 coordinates, got %d", len(center))
		}
		copy(v.Camera.Center[3-len(center):], center)
	}
	if args.Present(1) {
		zoom, err := args.Float(1, "zoom")
		if err != nil {
			return nil, err
		}
		if zoom <= 0 {
			return nil, Validationf(map[string]any{"zoom": zoom}, "zoom must be positive, got %v", zoom)
		}
		v.Camera.Zoom = zoom
	}
	if args.Present(2) {
		// A single number means in-plane rotation; three numbers are the
		// full 3-D Euler angles.
		if f, ok := args[2].(float64); ok {
			v.Camera.Angles = [3]float64{0, 0, f}
		} else {
			angles, err := args.Floats(2, "angle")
			if err != nil {
				return nil, err
			}
			if len(angles) != 3 {
				return nil, Validationf(map[string]any{"angle": angles},
					"angle must be one number or three, got %d", len(angles))
			}
			copy(v.Camera.Angles[:], angles)
		}
	}
	return cameraInfo(v), nil
}

func cmdGetCamera(v *viewer.Viewer, args Args) (any, error) {
	return cameraInfo(v), nil
}

func cmdResetCamera(v *viewer.Viewer, args Args) (any, error) {
	v.ResetCamera()
	return cameraInfo(v), nil
}

func cameraInfo(v *viewer.Viewer) map[string]any {
	return map[string]any{
		"center": v.Camera.Center[:],
		"zoom":   v.Camera.Zoom,
		"angles": v.Camera.Angles[:],
	}
}
