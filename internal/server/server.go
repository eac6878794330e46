package server

import (
	"github.com/mark3labs/mcp-go/server"
)

// Commander issues one command to the viewer daemon and returns the decoded
// reply payload. *client.Client satisfies it; tests substitute a fake.
type Commander interface {
	SendCommand(command string, args ...any) (any, error)
}

// New builds the MCP server with the full viewer tool set registered.
func New(name, version string, c Commander) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithRecovery())
	registerAllTools(s, c)
	return s
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
