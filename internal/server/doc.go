// Package server implements an MCP (Model Context Protocol) server over the
// cascade archive pipeline.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - cascade_detect: run the classifier and return regions, writing nothing
//   - cascade_archive: run the full pipeline into an archive directory
//
// Arguments left out of a call fall back to the config.Config the server was
// created with. Requests are handled one at a time.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// detecting and then archiving the same image decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the Go error string
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
