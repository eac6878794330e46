// Package client talks to a running viewer daemon. Every call opens a
// fresh TCP connection, sends one command envelope and reads one reply,
// so a crashed or restarted daemon never wedges the caller.
package client

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/LLNL/bioimage-agent/internal/protocol"
)

// DefaultPort matches the daemon's conventional listen port.
const DefaultPort = 64908

// Client issues commands to one viewer daemon. The zero value is not
// usable; construct with New.
type Client struct {
	Host    string
	Port    int
	Timeout time.Duration
	// MaxRetries applies to dial failures only. A command that reached the
	// daemon is never replayed, since many commands mutate viewer state.
	MaxRetries int
}

// New builds a client from explicit settings, falling back to the
// BIOIMAGE_HOST / BIOIMAGE_PORT / BIOIMAGE_TIMEOUT environment for
// anything left zero.
func New(host string, port int, timeout time.Duration) *Client {
	if host == "" {
		host = envOr("BIOIMAGE_HOST", "127.0.0.1")
	}
	if port == 0 {
		port = envInt("BIOIMAGE_PORT", DefaultPort)
	}
	if timeout == 0 {
		timeout = time.Duration(envInt("BIOIMAGE_TIMEOUT", 5)) * time.Second
	}
	return &Client{Host: host, Port: port, Timeout: timeout, MaxRetries: 2}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// SendCommand runs one command on the daemon and returns the decoded
// reply payload (nil for bare acknowledgements).
func (c *Client) SendCommand(command string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	line, err := protocol.EncodeEnvelope(protocol.Envelope{Command: command, Args: args})
	if err != nil {
		return nil, &Error{Kind: KindValidation,
			Message:    fmt.Sprintf("could not encode %q request: %v", command, err),
			Suggestion: suggestionFor(KindValidation)}
	}

	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.Timeout))

	if _, err := conn.Write(line); err != nil {
		return nil, connErrorf("could not send %q: %v", command, err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), protocol.MaxLineBytes)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, connErrorf("could not read reply to %q: %v", command, err)
		}
		return nil, connErrorf("daemon closed the connection without replying to %q", command)
	}

	reply := protocol.ParseReply(scanner.Text())
	if !reply.OK {
		return nil, fromPayload(reply.Err)
	}
	return reply.Payload, nil
}

// dial connects with linear backoff. Only the dial itself is retried;
// by the time a command is written retries would risk double execution.
func (c *Client) dial() (net.Conn, error) {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	var lastErr error
	attempts := c.MaxRetries + 1
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(time.Duration(i) * 200 * time.Millisecond)
		}
		conn, err := net.DialTimeout("tcp", addr, c.Timeout)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, &Error{Kind: KindConnection,
		Message:    fmt.Sprintf("could not reach the viewer at %s after %d attempts: %v", addr, attempts, lastErr),
		Context:    map[string]any{"host": c.Host, "port": c.Port, "attempts": attempts},
		Suggestion: suggestionFor(KindConnection)}
}

func connErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConnection,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestionFor(KindConnection)}
}
