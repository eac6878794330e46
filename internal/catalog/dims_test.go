package catalog

import (
	"testing"

	"github.com/LLNL/bioimage-agent/internal/imaging"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func addStackLayer(v *viewer.Viewer, t, c, z int) {
	v.AddLayer(viewer.NewImageLayer("stack", imaging.NewStack(t, c, z, 4, 4)))
}

func TestSetTimestep(t *testing.T) {
	r, v := testViewer()
	addStackLayer(v, 5, 1, 1)

	exec(t, r, v, "set_timestep", 3.0)
	if v.Dims.Timestep != 3 {
		t.Errorf("timestep: got %d, want 3", v.Dims.Timestep)
	}

	tagged := execErr(t, r, v, "set_timestep", 5.0)
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
	if _, ok := tagged.Context["valid_range"]; !ok {
		t.Errorf("context should report the valid range, got %v", tagged.Context)
	}
	if v.Dims.Timestep != 3 {
		t.Errorf("failed set changed the timestep to %d", v.Dims.Timestep)
	}

	tagged = execErr(t, r, v, "set_timestep", 1.5)
	if tagged.Kind != KindValidation {
		t.Errorf("fractional index: kind %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestSetChannelAndZSlice(t *testing.T) {
	r, v := testViewer()
	addStackLayer(v, 1, 3, 4)

	exec(t, r, v, "set_channel", 2.0)
	exec(t, r, v, "set_z_slice", 3.0)
	if v.Dims.Channel != 2 || v.Dims.ZSlice != 3 {
		t.Errorf("dims: %+v", v.Dims)
	}

	if tagged := execErr(t, r, v, "set_channel", 3.0); tagged.Kind != KindValidation {
		t.Errorf("kind: got %s", tagged.Kind)
	}
	if tagged := execErr(t, r, v, "set_z_slice", -1.0); tagged.Kind != KindValidation {
		t.Errorf("kind: got %s", tagged.Kind)
	}
}

func TestGetDimsInfo(t *testing.T) {
	r, v := testViewer()
	addStackLayer(v, 5, 2, 3)
	exec(t, r, v, "set_timestep", 4.0)

	info := exec(t, r, v, "get_dims_info").(map[string]any)
	if got := info["range"].([]int); got[0] != 5 || got[1] != 2 || got[2] != 3 {
		t.Errorf("range: %v", got)
	}
	if got := info["current_step"].([]int); got[0] != 4 {
		t.Errorf("current_step: %v", got)
	}
	if info["ndisplay"] != 2 {
		t.Errorf("ndisplay: %v", info["ndisplay"])
	}
}

func TestPlayAnimationWithoutPoster(t *testing.T) {
	r, v := testViewer()
	addStackLayer(v, 10, 1, 1)

	// Without an event loop attached, playback collapses to a jump to the
	// final frame.
	exec(t, r, v, "play_animation", 0.0, 7.0, 30.0)
	if v.Dims.Timestep != 7 {
		t.Errorf("timestep: got %d, want 7", v.Dims.Timestep)
	}

	// Reverse playback.
	exec(t, r, v, "play_animation", 7.0, 2.0)
	if v.Dims.Timestep != 2 {
		t.Errorf("reverse timestep: got %d, want 2", v.Dims.Timestep)
	}
}

func TestPlayAnimationValidation(t *testing.T) {
	r, v := testViewer()
	addStackLayer(v, 10, 1, 1)

	tests := []struct {
		name string
		args []any
	}{
		{"fps too high", []any{0.0, 5.0, 500.0}},
		{"fps zero", []any{0.0, 5.0, 0.0}},
		{"start out of range", []any{-1.0, 5.0}},
		{"end out of range", []any{0.0, 10.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagged := execErr(t, r, v, "play_animation", tt.args...)
			if tagged.Kind != KindValidation {
				t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
			}
		})
	}
}

func TestSetCamera(t *testing.T) {
	r, v := testViewer()

	info := exec(t, r, v, "set_camera", []any{10.0, 20.0}, 2.0, 45.0).(map[string]any)
	if v.Camera.Zoom != 2 {
		t.Errorf("zoom: got %v, want 2", v.Camera.Zoom)
	}
	if v.Camera.Center != [3]float64{0, 10, 20} {
		t.Errorf("center: got %v", v.Camera.Center)
	}
	if v.Camera.Angles != [3]float64{0, 0, 45} {
		t.Errorf("angles: got %v", v.Camera.Angles)
	}
	if _, ok := info["zoom"]; !ok {
		t.Errorf("result should echo the camera state, got %v", info)
	}

	tagged := execErr(t, r, v, "set_camera", nil, -1.0)
	if tagged.Kind != KindValidation {
		t.Errorf("negative zoom: kind %s, want %s", tagged.Kind, KindValidation)
	}

	exec(t, r, v, "reset_camera")
	if v.Camera.Zoom != 1 || v.Camera.Center != [3]float64{} {
		t.Errorf("camera not reset: %+v", v.Camera)
	}
}
