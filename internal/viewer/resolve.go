package viewer

import (
	"fmt"
	"strings"
)

// LayerRef identifies a layer by name, by stacking index, or as the active
// selection. One resolver consumes it everywhere, replacing per-command
// name-or-index guessing.
type LayerRef struct {
	kind  refKind
	name  string
	index int
}

type refKind int

const (
	refActive refKind = iota
	refByName
	refByIndex
)

// RefActive refers to the currently active layer.
func RefActive() LayerRef { return LayerRef{kind: refActive} }

// RefByName refers to a layer by its exact name.
func RefByName(name string) LayerRef { return LayerRef{kind: refByName, name: name} }

// RefByIndex refers to a layer by stacking position; negative indexes count
// from the end.
func RefByIndex(i int) LayerRef { return LayerRef{kind: refByIndex, index: i} }

// String renders the reference for error messages.
func (r LayerRef) String() string {
	switch r.kind {
	case refByName:
		return fmt.Sprintf("%q", r.name)
	case refByIndex:
		return fmt.Sprintf("index %d", r.index)
	default:
		return "active layer"
	}
}

// LayerError reports an unresolvable layer reference together with the
// names that would have resolved.
type LayerError struct {
	Ref       LayerRef
	Available []string
}

func (e *LayerError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("layer %s not found: no layers are loaded", e.Ref)
	}
	return fmt.Sprintf("layer %s not found (loaded layers: %s)",
		e.Ref, strings.Join(e.Available, ", "))
}

// Resolve returns the layer a reference points at, or a *LayerError naming
// the valid choices.
func (v *Viewer) Resolve(ref LayerRef) (*Layer, error) {
	switch ref.kind {
	case refByName:
		for _, l := range v.layers {
			if l.Name == ref.name {
				return l, nil
			}
		}
	case refByIndex:
		i := ref.index
		if i < 0 {
			i += len(v.layers)
		}
		if i >= 0 && i < len(v.layers) {
			return v.layers[i], nil
		}
	default:
		if v.active != nil {
			return v.active, nil
		}
	}
	return nil, &LayerError{Ref: ref, Available: v.LayerNames()}
}
