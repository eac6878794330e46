package catalog

import (
	"sort"
	"strconv"

	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// Func is one catalogue function. It runs on the event loop goroutine with
// exclusive access to the viewer and returns either a JSON-serializable
// payload or a tagged error.
type Func func(v *viewer.Viewer, args Args) (any, error)

// Command couples a catalogue function with its arity bounds; arity is
// checked once by the registry instead of ad hoc inside every function.
type Command struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 means unbounded
	Fn      Func
}

// Poster schedules work onto the event loop without waiting, used by
// commands that spread side effects over time (play_animation).
type Poster interface {
	Post(fn func(*viewer.Viewer)) error
}

// Registry maps command identifiers to commands.
type Registry struct {
	commands map[string]*Command
	poster   Poster
}

// NewRegistry returns a registry with the full command catalogue
// installed.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	r.registerLayerCommands()
	r.registerDisplayCommands()
	r.registerCameraCommands()
	r.registerDimsCommands()
	r.registerAnalysisCommands()

	r.register("ping", 0, 0, func(v *viewer.Viewer, args Args) (any, error) {
		return "pong", nil
	})
	return r
}

// SetPoster provides the event-loop post hook. Without it, time-spread
// commands run their steps synchronously.
func (r *Registry) SetPoster(p Poster) { r.poster = p }

func (r *Registry) register(name string, minArgs, maxArgs int, fn Func) {
	r.commands[name] = &Command{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn}
}

// Names returns all registered command identifiers, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute resolves and runs a command. Unknown identifiers and arity
// mismatches come back as tagged errors; function failures are normalized
// through Wrap so the caller always sees *Error.
func (r *Registry) Execute(v *viewer.Viewer, name string, args []any) (any, error) {
	cmd, ok := r.commands[name]
	if !ok {
		return nil, NewError(KindCommand, "unknown command \""+name+"\"",
			map[string]any{"command": name, "available": r.Names()})
	}
	if len(args) < cmd.MinArgs || (cmd.MaxArgs >= 0 && len(args) > cmd.MaxArgs) {
		ctx := map[string]any{"command": name, "got": len(args), "min": cmd.MinArgs}
		if cmd.MaxArgs >= 0 {
			ctx["max"] = cmd.MaxArgs
		}
		return nil, Validationf(ctx, "command %q takes %s arguments, got %d",
			name, arityRange(cmd.MinArgs, cmd.MaxArgs), len(args))
	}

	result, err := cmd.Fn(v, Args(args))
	if err != nil {
		return nil, Wrap(err)
	}
	return result, nil
}

func arityRange(min, max int) string {
	switch {
	case max < 0:
		return strconv.Itoa(min) + " or more"
	case min == max:
		return strconv.Itoa(min)
	default:
		return strconv.Itoa(min) + " to " + strconv.Itoa(max)
	}
}
