package protocol

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecodeEnvelope_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{"no args", Envelope{Command: "list_layers", Args: []any{}}},
		{"nil args", Envelope{Command: "ping"}},
		{"string arg", Envelope{Command: "open_file", Args: []any{"/data/cells.tif"}}},
		{"mixed args", Envelope{Command: "set_opacity", Args: []any{"nuclei", 0.5}}},
		{"nested args", Envelope{Command: "add_points", Args: []any{[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}}, nil, "pts"}}},
		{"bool arg", Envelope{Command: "set_layer_visibility", Args: []any{"nuclei", true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := EncodeEnvelope(tt.env)
			if err != nil {
				t.Fatalf("EncodeEnvelope failed: %v", err)
			}
			if line[len(line)-1] != '\n' {
				t.Error("encoded line is not newline-terminated")
			}

			got, err := DecodeEnvelope(line[:len(line)-1])
			if err != nil {
				t.Fatalf("DecodeEnvelope failed: %v", err)
			}
			if got.Command != tt.env.Command {
				t.Errorf("command: got %q, want %q", got.Command, tt.env.Command)
			}

			want := tt.env.Args
			if want == nil {
				want = []any{}
			}
			// JSON round-trips ints as float64; encode the expectation the same way.
			wantLine, _ := EncodeEnvelope(Envelope{Command: tt.env.Command, Args: want})
			wantEnv, _ := DecodeEnvelope(wantLine[:len(wantLine)-1])
			if !reflect.DeepEqual(got.Args, wantEnv.Args) {
				t.Errorf("args: got %#v, want %#v", got.Args, wantEnv.Args)
			}
		})
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", "open sesame"},
		{"json object", `{"command": "ping"}`},
		{"one element", `["ping"]`},
		{"three elements", `["ping", [], "extra"]`},
		{"numeric id", `[42, []]`},
		{"empty id", `["", []]`},
		{"args not array", `["ping", {"a": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEnvelope([]byte(tt.line)); err == nil {
				t.Errorf("DecodeEnvelope(%q) should fail", tt.line)
			}
		})
	}
}

func TestEncodeOK(t *testing.T) {
	line, err := EncodeOK(nil)
	if err != nil {
		t.Fatalf("EncodeOK(nil) failed: %v", err)
	}
	if string(line) != "OK\n" {
		t.Errorf("bare OK: got %q, want %q", line, "OK\n")
	}

	line, err = EncodeOK(map[string]any{"zoom": 2.0})
	if err != nil {
		t.Fatalf("EncodeOK(payload) failed: %v", err)
	}
	if !strings.HasPrefix(string(line), "OK {") || !strings.HasSuffix(string(line), "}\n") {
		t.Errorf("payload OK line malformed: %q", line)
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOK  bool
		payload any
		kind    string
	}{
		{"bare ok", "OK\n", true, nil, ""},
		{"json payload", `OK {"zoom": 2}`, true, map[string]any{"zoom": 2.0}, ""},
		{"array payload", `OK [1, 2]`, true, []any{1.0, 2.0}, ""},
		{"plain text payload", "OK opened /data/cells.tif", true, "opened /data/cells.tif", ""},
		{"structured error", `ERR {"kind":"layer","message":"no such layer"}`, false, nil, "layer"},
		{"free text error", "ERR something broke", false, nil, "internal"},
		{"garbage", "HELLO", false, nil, "connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := ParseReply(tt.line)
			if rep.OK != tt.wantOK {
				t.Fatalf("OK: got %v, want %v (reply %q)", rep.OK, tt.wantOK, tt.line)
			}
			if tt.wantOK {
				if !reflect.DeepEqual(rep.Payload, tt.payload) {
					t.Errorf("payload: got %#v, want %#v", rep.Payload, tt.payload)
				}
				return
			}
			if rep.Err == nil {
				t.Fatal("failed reply has nil Err")
			}
			if rep.Err.Kind != tt.kind {
				t.Errorf("kind: got %q, want %q", rep.Err.Kind, tt.kind)
			}
		})
	}
}

func TestParseReply_ErrorContext(t *testing.T) {
	rep := ParseReply(`ERR {"kind":"layer","message":"layer \"missing\" not found","context":{"layer":"missing","available":["a","b"]}}`)
	if rep.OK {
		t.Fatal("ERR reply parsed as success")
	}
	if rep.Err.Context["layer"] != "missing" {
		t.Errorf("context.layer: got %v", rep.Err.Context["layer"])
	}
	avail, ok := rep.Err.Context["available"].([]any)
	if !ok || len(avail) != 2 {
		t.Errorf("context.available: got %v", rep.Err.Context["available"])
	}
}
