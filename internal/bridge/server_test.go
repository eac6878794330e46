package bridge

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LLNL/bioimage-agent/internal/catalog"
	"github.com/LLNL/bioimage-agent/internal/client"
	"github.com/LLNL/bioimage-agent/internal/protocol"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// startServer brings up a full daemon on an ephemeral port and returns a
// client pointed at it.
func startServer(t *testing.T) *client.Client {
	t.Helper()

	loop := viewer.NewLoop(viewer.New())
	loop.Start()
	t.Cleanup(loop.Stop)

	registry := catalog.NewRegistry()
	registry.SetPoster(loop)

	srv := NewServer(loop, registry)
	if err := srv.Listen("127.0.0.1", 0); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })

	addr := srv.Addr().(*net.TCPAddr)
	c := client.New("127.0.0.1", addr.Port, 2*time.Second)
	c.MaxRetries = 0
	return c
}

func TestPingRoundTrip(t *testing.T) {
	c := startServer(t)
	got, err := c.Ping()
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if got != "pong" {
		t.Errorf("got %v, want pong", got)
	}
}

func TestCommandErrorsCarryStructure(t *testing.T) {
	c := startServer(t)

	_, err := c.RemoveLayer("ghost")
	if err == nil {
		t.Fatal("removing a missing layer should fail")
	}
	ce, ok := err.(*client.Error)
	if !ok {
		t.Fatalf("expected *client.Error, got %T", err)
	}
	if ce.Kind != client.KindLayer {
		t.Errorf("kind: got %s, want %s", ce.Kind, client.KindLayer)
	}
	if ce.Suggestion == "" {
		t.Error("layer errors should carry a recovery suggestion")
	}
	if _, present := ce.Context["available"]; !present {
		t.Errorf("context should survive the wire, got %v", ce.Context)
	}
}

func TestStateMutationsPersistAcrossConnections(t *testing.T) {
	c := startServer(t)

	// Each call opens a fresh connection; state must live in the daemon.
	if _, err := c.ToggleNDisplay(); err != nil {
		t.Fatalf("ToggleNDisplay failed: %v", err)
	}
	info, err := c.GetDimsInfo()
	if err != nil {
		t.Fatalf("GetDimsInfo failed: %v", err)
	}
	m := info.(map[string]any)
	if m["ndisplay"] != 3.0 {
		t.Errorf("ndisplay: got %v, want 3", m["ndisplay"])
	}
}

func TestValidationErrorRoundTrip(t *testing.T) {
	c := startServer(t)

	if _, err := c.AddPoints([][]float64{{1, 2}}, nil, "spots"); err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	_, err := c.SetOpacity("spots", 1.5)
	ce, ok := err.(*client.Error)
	if !ok {
		t.Fatalf("expected *client.Error, got %T (%v)", err, err)
	}
	if ce.Kind != client.KindValidation {
		t.Errorf("kind: got %s, want %s", ce.Kind, client.KindValidation)
	}
	if _, present := ce.Context["valid_range"]; !present {
		t.Errorf("valid range lost on the wire: %v", ce.Context)
	}
}

func TestMalformedRequests(t *testing.T) {
	c := startServer(t)

	tests := []struct {
		name string
		line string
	}{
		{"not json", "hello viewer\n"},
		{"not an array", `{"command": "ping"}` + "\n"},
		{"wrong arity", `["ping"]` + "\n"},
		{"non-string id", `[42, []]` + "\n"},
		{"args not array", `["ping", {}]` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := net.Dial("tcp", addrOf(c))
			if err != nil {
				t.Fatalf("dial failed: %v", err)
			}
			defer conn.Close()
			if _, err := conn.Write([]byte(tt.line)); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			reply, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !strings.HasPrefix(reply, "ERR ") {
				t.Fatalf("got %q, want an ERR line", reply)
			}
			parsed := protocol.ParseReply(reply)
			if parsed.Err == nil || parsed.Err.Kind != "validation" {
				t.Errorf("error kind: got %+v, want validation", parsed.Err)
			}
		})
	}
}

func TestBareOKReplyLine(t *testing.T) {
	c := startServer(t)

	conn, err := net.Dial("tcp", addrOf(c))
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	line, _ := protocol.EncodeEnvelope(protocol.Envelope{Command: "reset_camera", Args: []any{}})
	if _, err := conn.Write(line); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.HasPrefix(reply, "OK") {
		t.Errorf("got %q, want an OK line", reply)
	}
}

func TestConcurrentClients(t *testing.T) {
	c := startServer(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ToggleTheme(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}

	// 20 toggles land back on the default dark theme; the 21st reports
	// light, proving every toggle ran exactly once.
	got, err := c.ToggleTheme()
	if err != nil {
		t.Fatalf("final toggle failed: %v", err)
	}
	if s, _ := got.(string); !strings.Contains(s, "light") {
		t.Errorf("after 21 toggles the theme should be light, got %v", got)
	}
}

func addrOf(c *client.Client) string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
