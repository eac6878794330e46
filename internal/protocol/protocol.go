// Package protocol implements the one-line JSON wire protocol spoken
// between the viewer daemon and its clients.
//
// A request is a single newline-terminated JSON array of exactly two
// elements: the command identifier and its positional arguments:
//
//	["set_opacity", ["nuclei", 0.5]]
//
// The reply is a single line, one of:
//
//	OK
//	OK <json payload>
//	ERR <json error object>
//
// The connection carries exactly one request and one reply.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxLineBytes bounds a single request or reply line. Screenshot payloads
// travel base64-encoded inside the reply, so the cap is generous.
const MaxLineBytes = 32 * 1024 * 1024

// Envelope is the (identifier, arguments) request unit.
type Envelope struct {
	Command string
	Args    []any
}

// EncodeEnvelope renders env as one newline-terminated JSON line.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	args := env.Args
	if args == nil {
		args = []any{}
	}
	b, err := json.Marshal([]any{env.Command, args})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return append(b, '\n'), nil
}

// DecodeEnvelope parses one request line. The line must be a JSON array of
// exactly two elements: a string command id and an argument list.
func DecodeEnvelope(line []byte) (Envelope, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Envelope{}, fmt.Errorf("request is not a JSON array: %w", err)
	}
	if len(raw) != 2 {
		return Envelope{}, fmt.Errorf("request array has %d elements, want 2", len(raw))
	}

	var env Envelope
	if err := json.Unmarshal(raw[0], &env.Command); err != nil {
		return Envelope{}, fmt.Errorf("command id is not a string: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, fmt.Errorf("command id is empty")
	}
	if err := json.Unmarshal(raw[1], &env.Args); err != nil {
		return Envelope{}, fmt.Errorf("arguments are not a JSON array: %w", err)
	}
	return env, nil
}

// ErrorPayload is the structured error object carried on an ERR line.
// Kind is machine-readable; Context carries details a calling agent can use
// to self-correct (offending layer name, valid ranges, known commands).
type ErrorPayload struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Reply is the decoded form of one response line.
type Reply struct {
	OK      bool
	Payload any           // decoded JSON payload, or raw string when not JSON
	Err     *ErrorPayload // set when OK is false
	Raw     string        // reply line as received, without the trailing newline
}

// EncodeOK renders a success reply. A nil payload yields the bare OK line.
func EncodeOK(payload any) ([]byte, error) {
	if payload == nil {
		return []byte("OK\n"), nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	line := make([]byte, 0, len(b)+4)
	line = append(line, "OK "...)
	line = append(line, b...)
	return append(line, '\n'), nil
}

// EncodeErr renders a failure reply carrying a structured error object.
func EncodeErr(e ErrorPayload) []byte {
	if e.Kind == "" {
		e.Kind = "internal"
	}
	b, err := json.Marshal(e)
	if err != nil {
		// ErrorPayload marshals unless Context holds something unserializable;
		// degrade to a message-only object rather than fail the reply.
		b, _ = json.Marshal(ErrorPayload{Kind: e.Kind, Message: e.Message})
	}
	line := make([]byte, 0, len(b)+5)
	line = append(line, "ERR "...)
	line = append(line, b...)
	return append(line, '\n')
}

// ParseReply decodes one response line.
//
// "OK" alone means success with no payload. After "OK " the remainder is
// JSON-decoded, falling back to the raw string for plain-text payloads.
// After "ERR " the remainder is decoded as an ErrorPayload, falling back to
// a free-text internal error so older peers remain readable.
func ParseReply(line string) Reply {
	line = strings.TrimRight(line, "\r\n")
	rep := Reply{Raw: line}

	switch {
	case line == "OK":
		rep.OK = true
	case strings.HasPrefix(line, "OK "):
		rep.OK = true
		rest := strings.TrimSpace(line[3:])
		var v any
		if err := json.Unmarshal([]byte(rest), &v); err != nil {
			rep.Payload = rest
		} else {
			rep.Payload = v
		}
	case strings.HasPrefix(line, "ERR "):
		rest := strings.TrimSpace(line[4:])
		var e ErrorPayload
		if err := json.Unmarshal([]byte(rest), &e); err != nil || e.Message == "" && e.Kind == "" {
			rep.Err = &ErrorPayload{Kind: "internal", Message: rest}
		} else {
			rep.Err = &e
		}
	default:
		rep.Err = &ErrorPayload{Kind: "connection", Message: fmt.Sprintf("unrecognized reply: %q", line)}
	}
	return rep
}
