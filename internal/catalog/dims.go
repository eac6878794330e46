package catalog

import (
	"fmt"
	"time"

	"github.com/LLNL/bioimage-agent/internal/viewer"
)

func (r *Registry) registerDimsCommands() {
	r.register("set_timestep", 1, 1, cmdSetTimestep)
	r.register("set_channel", 1, 1, cmdSetChannel)
	r.register("set_z_slice", 1, 1, cmdSetZSlice)
	r.register("get_dims_info", 0, 0, cmdGetDimsInfo)
	r.register("play_animation", 2, 3, r.cmdPlayAnimation)
}

func cmdSetTimestep(v *viewer.Viewer, args Args) (any, error) {
	return setDimIndex(v, args, "timestep", 0)
}

func cmdSetChannel(v *viewer.Viewer, args Args) (any, error) {
	return setDimIndex(v, args, "channel_index", 1)
}

func cmdSetZSlice(v *viewer.Viewer, args Args) (any, error) {
	return setDimIndex(v, args, "z_index", 2)
}

// setDimIndex validates one step index against the derived axis range and
// applies it. axis: 0 = t, 1 = c, 2 = z.
func setDimIndex(v *viewer.Viewer, args Args, name string, axis int) (any, error) {
	idx, err := args.Int(0, name)
	if err != nil {
		return nil, err
	}
	t, c, z := v.DimsRange()
	limit := [3]int{t, c, z}[axis]
	if idx < 0 || idx >= limit {
		return nil, Validationf(map[string]any{name: idx, "valid_range": []int{0, limit - 1}},
			"%s %d is outside the valid range [0, %d]", name, idx, limit-1)
	}
	switch axis {
	case 0:
		v.Dims.Timestep = idx
	case 1:
		v.Dims.Channel = idx
	case 2:
		v.Dims.ZSlice = idx
	}
	return fmt.Sprintf("%s set to %d", name, idx), nil
}

func cmdGetDimsInfo(v *viewer.Viewer, args Args) (any, error) {
	return v.DimsInfo(), nil
}

// cmdPlayAnimation steps the timestep from start to end at the requested
// rate. The frames are posted back onto the event loop from a timer
// goroutine so the loop itself never blocks; without a poster (unit tests)
// the frames apply immediately.
func (r *Registry) cmdPlayAnimation(v *viewer.Viewer, args Args) (any, error) {
	start, err := args.Int(0, "start_frame")
	if err != nil {
		return nil, err
	}
	end, err := args.Int(1, "end_frame")
	if err != nil {
		return nil, err
	}
	fps, err := args.OptionalInt(2, "fps", 10)
	if err != nil {
		return nil, err
	}
	if fps < 1 || fps > 120 {
		return nil, Validationf(map[string]any{"fps": fps, "valid_range": []int{1, 120}},
			"fps %d is outside the valid range [1, 120]", fps)
	}
	maxT, _, _ := v.DimsRange()
	if start < 0 || start >= maxT || end < 0 || end >= maxT {
		return nil, Validationf(map[string]any{"start_frame": start, "end_frame": end, "valid_range": []int{0, maxT - 1}},
			"frames [%d, %d] fall outside the valid range [0, %d]", start, end, maxT-1)
	}

	step := 1
	if end < start {
		step = -1
	}
	frames := (end-start)*step + 1

	if r.poster == nil {
		v.Dims.Timestep = end
		return fmt.Sprintf("played %d frames, timestep now %d", frames, end), nil
	}

	interval := time.Second / time.Duration(fps)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for f := start; ; f += step {
			frame := f
			if err := r.poster.Post(func(v *viewer.Viewer) { v.Dims.Timestep = frame }); err != nil {
				return
			}
			if f == end {
				return
			}
			<-ticker.C
		}
	}()
	return fmt.Sprintf("playing %d frames at %d fps", frames, fps), nil
}
