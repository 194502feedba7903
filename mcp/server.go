// Package mcp exposes the report generator to Model Context Protocol
// clients. An assistant connected to the server can fill templates with
// report data, fetch PNG previews, manage the template library, and read
// the placeholder catalogue, all through the standard MCP tool and
// resource surfaces.
//
// Transport is JSON-RPC 2.0, one message per line, over the process's
// stdin and stdout. The server targets protocol revision 2024-11-05.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

const (
	serverName      = "reportgen-mcp"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Server dispatches JSON-RPC requests to registered tools and resources.
type Server struct {
	tools     map[string]Tool
	resources map[string]Resource
	input     io.Reader
	output    io.Writer
	mu        sync.Mutex
}

// Tool is a callable operation advertised to the client.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler executes a tool call with its decoded arguments.
type ToolHandler func(args map[string]interface{}) (ToolResult, error)

// ToolResult is what a tool call returns to the client.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of tool output, textual or binary.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64 for binary
}

// Resource is a readable document advertised to the client.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler produces the content behind a resource URI.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is one chunk of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64
}

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func rpcError(code int, message string, data interface{}) *jsonrpcError {
	return &jsonrpcError{Code: code, Message: message, Data: data}
}

// NewServer returns a server wired to the process's stdin and stdout.
func NewServer() *Server {
	return NewServerWithIO(os.Stdin, os.Stdout)
}

// NewServerWithIO returns a server over the given streams, for embedding
// and tests.
func NewServerWithIO(in io.Reader, out io.Writer) *Server {
	return &Server{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
	}
}

// AddTool registers t, replacing any tool with the same name.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers r, replacing any resource with the same URI.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run reads newline-delimited requests until EOF. Base64 report payloads
// can run large, so the line buffer allows messages up to 10MB.
func (s *Server) Run() error {
	sc := bufio.NewScanner(s.input)
	sc.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(nil, nil, rpcError(-32700, "Parse error", err.Error()))
			continue
		}
		if req.Method == "initialized" {
			continue // notification
		}
		result, rpcErr := s.dispatch(req)
		s.reply(req.ID, result, rpcErr)
	}
	return sc.Err()
}

func (s *Server) dispatch(req jsonrpcRequest) (interface{}, *jsonrpcError) {
	switch req.Method {
	case "initialize":
		return s.initializeResult(), nil
	case "ping":
		return map[string]interface{}{}, nil
	case "tools/list":
		return map[string]interface{}{"tools": s.toolList()}, nil
	case "tools/call":
		return s.callTool(req.Params)
	case "resources/list":
		return map[string]interface{}{"resources": s.resourceList()}, nil
	case "resources/read":
		return s.readResource(req.Params)
	default:
		return nil, rpcError(-32601, "Method not found", req.Method)
	}
}

func (s *Server) initializeResult() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": serverVersion,
		},
	}
}

// toolList returns the registered tools sorted by name so listings are
// stable across calls.
func (s *Server) toolList() []map[string]interface{} {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		t := s.tools[name]
		list = append(list, map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	return list
}

func (s *Server) callTool(raw json.RawMessage) (interface{}, *jsonrpcError) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, rpcError(-32602, "Invalid params", err.Error())
	}
	tool, ok := s.tools[params.Name]
	if !ok {
		return nil, rpcError(-32602, "Unknown tool", params.Name)
	}

	result, err := tool.Handler(params.Arguments)
	if err != nil {
		// Handler failures travel as tool-level errors, not protocol errors,
		// so the client can show them to the user.
		return ToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil
	}
	return result, nil
}

func (s *Server) resourceList() []map[string]interface{} {
	uris := make([]string, 0, len(s.resources))
	for uri := range s.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	list := make([]map[string]interface{}, 0, len(uris))
	for _, uri := range uris {
		r := s.resources[uri]
		entry := map[string]interface{}{
			"uri":  r.URI,
			"name": r.Name,
		}
		if r.Description != "" {
			entry["description"] = r.Description
		}
		if r.MIMEType != "" {
			entry["mimeType"] = r.MIMEType
		}
		list = append(list, entry)
	}
	return list
}

func (s *Server) readResource(raw json.RawMessage) (interface{}, *jsonrpcError) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, rpcError(-32602, "Invalid params", err.Error())
	}
	resource, ok := s.resources[params.URI]
	if !ok {
		return nil, rpcError(-32602, "Unknown resource", params.URI)
	}
	contents, err := resource.Handler(params.URI)
	if err != nil {
		return nil, rpcError(-32603, "Resource error", err.Error())
	}
	return map[string]interface{}{"contents": contents}, nil
}

func (s *Server) reply(id *json.RawMessage, result interface{}, rpcErr *jsonrpcError) {
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr}
	if rpcErr != nil {
		resp.Result = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	s.output.Write(data)
}
