package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/cascade-archive/internal/config"
	"github.com/ironsheep/cascade-archive/internal/extractor"
	"github.com/ironsheep/cascade-archive/internal/imaging"
)

// Version is reported in the initialize handshake.
var Version = "dev"

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// maxRequestSize bounds a single request line.
const maxRequestSize = 1024 * 1024

// JSON-RPC error codes.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests about one configured archive pipeline.
type Server struct {
	cfg   config.Config
	cache *imaging.ImageCache
	open  extractor.Opener

	methods map[string]func(*MCPRequest) *MCPResponse
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New returns a server whose tools fall back to cfg for every argument a
// caller leaves out.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg:   cfg,
		cache: imaging.NewImageCache(),
	}
	s.methods = map[string]func(*MCPRequest) *MCPResponse{
		"initialize":                s.handleInitialize,
		"notifications/initialized": func(*MCPRequest) *MCPResponse { return nil },
		"tools/list":                s.handleToolsList,
		"tools/call":                s.handleToolsCall,
		"ping": func(req *MCPRequest) *MCPResponse {
			return resultResponse(req.ID, map[string]interface{}{})
		},
	}
	return s
}

// Run serves stdin and stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted. Requests are handled one at a time; lines that do not
// parse are logged and skipped.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		if resp := s.handleRequest(&req); resp != nil {
			if err := enc.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest dispatches req by method. Notifications get no response.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	handler, ok := s.methods[req.Method]
	if !ok {
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
	return handler(req)
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "cascade-archive",
			"version": Version,
		},
	})
}

func resultResponse(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

// errorResponse builds a JSON-RPC error; an empty data is omitted.
func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}
