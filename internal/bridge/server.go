// Package bridge runs the TCP command server of the viewer daemon. Each
// accepted connection carries exactly one JSON-line command envelope; the
// handler marshals the call onto the viewer event loop, waits for it to
// complete, writes one reply line and closes.
package bridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/LLNL/bioimage-agent/internal/catalog"
	"github.com/LLNL/bioimage-agent/internal/protocol"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// DefaultPort is the conventional viewer daemon port.
const DefaultPort = 64908

// connTimeout bounds the read and write on a single connection.
const connTimeout = 30 * time.Second

// Server accepts command connections and dispatches envelopes through the
// registry onto the event loop.
type Server struct {
	loop     *viewer.Loop
	registry *catalog.Registry

	// ExecTimeout bounds how long one command may run on the event loop
	// before the connection reports a timeout.
	ExecTimeout time.Duration

	listener net.Listener
	wg       sync.WaitGroup
	closed   chan struct{}
}

// NewServer wires a registry and event loop into a command server.
func NewServer(loop *viewer.Loop, registry *catalog.Registry) *Server {
	return &Server{
		loop:        loop,
		registry:    registry,
		ExecTimeout: 30 * time.Second,
		closed:      make(chan struct{}),
	}
}

// Listen binds the address. Port 0 picks an ephemeral port; Addr reports
// the bound address afterwards. A bind failure is fatal to startup and is
// returned rather than degraded.
func (s *Server) Listen(host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("bind %s:%d: %w", host, port, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Close. Each connection is handled on its
// own goroutine; a handler failure never takes the accept loop down.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closed:
				s.wg.Wait()
				return nil
			default:
			}
			log.Printf("accept error: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting and waits for in-flight connections.
func (s *Server) Close() error {
	close(s.closed)
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// handleConn reads one envelope, executes it to completion on the event
// loop, and writes one reply line. Every failure path produces an ERR line
// with a structured payload; the server itself never crashes on bad input.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), protocol.MaxLineBytes)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			s.reply(conn, nil, &catalog.Error{Kind: catalog.KindValidation,
				Message: fmt.Sprintf("could not read request: %v", err)})
		}
		return
	}

	env, err := protocol.DecodeEnvelope(scanner.Bytes())
	if err != nil {
		s.reply(conn, nil, &catalog.Error{Kind: catalog.KindValidation,
			Message: fmt.Sprintf("malformed request: %v", err)})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ExecTimeout)
	defer cancel()

	result, err := s.loop.Call(ctx, func(v *viewer.Viewer) (any, error) {
		return s.registry.Execute(v, env.Command, env.Args)
	})
	if err != nil {
		tagged := catalog.Wrap(err)
		if errors.Is(err, context.DeadlineExceeded) {
			tagged = &catalog.Error{Kind: catalog.KindInternal,
				Message: fmt.Sprintf("command %q did not complete within %s", env.Command, s.ExecTimeout)}
		}
		log.Printf("command %q failed: %s", env.Command, tagged.Message)
		s.reply(conn, nil, tagged)
		return
	}
	s.reply(conn, result, nil)
}

func (s *Server) reply(conn net.Conn, payload any, cmdErr *catalog.Error) {
	var line []byte
	if cmdErr != nil {
		line = protocol.EncodeErr(protocol.ErrorPayload{
			Kind:    cmdErr.Kind,
			Message: cmdErr.Message,
			Context: cmdErr.Context,
		})
	} else {
		var err error
		line, err = protocol.EncodeOK(payload)
		if err != nil {
			line = protocol.EncodeErr(protocol.ErrorPayload{
				Kind:    catalog.KindInternal,
				Message: fmt.Sprintf("could not encode reply: %v", err),
			})
		}
	}
	if _, err := conn.Write(line); err != nil {
		log.Printf("write reply: %v", err)
	}
}
