package client

import (
	"fmt"

	"github.com/LLNL/bioimage-agent/internal/protocol"
)

// Error kinds mirror the daemon's error vocabulary so callers can branch
// without parsing message text.
const (
	KindConnection = "connection"
	KindFile       = "file"
	KindLayer      = "layer"
	KindValidation = "validation"
	KindCommand    = "command"
	KindInternal   = "internal"
)

// Error is a command failure enriched with a recovery hint. Context is
// whatever the daemon attached: valid ranges, known layer names, the
// command catalogue.
type Error struct {
	Kind       string
	Message    string
	Context    map[string]any
	Suggestion string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s error: %s (%s)", e.Kind, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// fromPayload lifts a wire error into a client Error with a hint attached.
func fromPayload(p *protocol.ErrorPayload) *Error {
	if p == nil {
		return &Error{Kind: KindInternal, Message: "daemon reported an error without details",
			Suggestion: suggestionFor(KindInternal)}
	}
	kind := p.Kind
	if kind == "" {
		kind = KindInternal
	}
	return &Error{Kind: kind, Message: p.Message, Context: p.Context, Suggestion: suggestionFor(kind)}
}

// suggestionFor maps an error kind to the most useful next step for a
// calling agent.
func suggestionFor(kind string) string {
	switch kind {
	case KindConnection:
		return "check that the viewer daemon is running and BIOIMAGE_HOST/BIOIMAGE_PORT point at it"
	case KindFile:
		return "check that the path exists and uses a supported image format"
	case KindLayer:
		return "call list_layers to see the layers currently loaded"
	case KindValidation:
		return "check the argument values against the ranges reported in the error context"
	case KindCommand:
		return "check the command name against the catalogue in the error context"
	default:
		return "retry once; if it persists, restart the viewer daemon"
	}
}
