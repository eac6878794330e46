// Package catalog implements the command catalogue: the registry mapping
// stable string identifiers to functions that operate on the live viewer,
// with shared positional-argument decoding and one structured error type
// for every failure.
package catalog

import (
	"errors"
	"fmt"

	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// Error kinds. Every failure a command reports carries exactly one of
// these, so a calling agent can branch on the category instead of parsing
// message text.
const (
	KindConnection = "connection"
	KindFile       = "file"
	KindLayer      = "layer"
	KindValidation = "validation"
	KindCommand    = "command"
	KindInternal   = "internal"
)

// Error is the single tagged failure type returned by catalogue functions.
// Context carries machine-readable details (offending value, valid range,
// available names).
type Error struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a tagged error.
func NewError(kind, message string, context map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Context: context}
}

// Validationf builds a validation-kind error.
func Validationf(context map[string]any, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Context: context}
}

// Filef builds a file-kind error.
func Filef(context map[string]any, format string, args ...any) *Error {
	return &Error{Kind: KindFile, Message: fmt.Sprintf(format, args...), Context: context}
}

// Wrap normalizes any error into a tagged *Error. Layer resolution
// failures become layer-kind errors carrying the valid names; everything
// unrecognized becomes internal.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged
	}
	var layerErr *viewer.LayerError
	if errors.As(err, &layerErr) {
		return &Error{
			Kind:    KindLayer,
			Message: layerErr.Error(),
			Context: map[string]any{
				"layer":     layerErr.Ref.String(),
				"available": layerErr.Available,
			},
		}
	}
	return &Error{Kind: KindInternal, Message: err.Error()}
}
