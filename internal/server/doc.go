// Package server implements the MCP (Model Context Protocol) front-end for
// the viewer daemon.
//
// It exposes the daemon's command catalogue as MCP tools over stdio, so an
// AI agent can drive a running viewer: load images, restyle layers, move
// the camera, step through time series and capture screenshots.
//
// Tools are declared in a single table (see tools.go); a small registration
// engine turns each declaration into an mcp.Tool plus a handler that maps
// named MCP arguments onto the daemon's positional command arguments. Every
// tool call opens its own connection to the daemon, so the MCP server holds
// no viewer state of its own and survives daemon restarts.
//
// Daemon errors arrive as tagged error objects; the handlers render them
// with the kind, the context details (valid ranges, known layer names) and
// a recovery suggestion, so a calling agent can self-correct instead of
// retrying blindly.
package server
