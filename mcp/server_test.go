package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lvillar/reportgen"
	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/store"
	"github.com/lvillar/reportgen/template"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return Deps{Generator: reportgen.New(), Store: s}
}

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	s.Run()

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func callTool(t *testing.T, s *Server, id int, name string, args map[string]interface{}) string {
	t.Helper()
	resp := sendRequest(t, s, "tools/call", id, map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if resp.Error != nil {
		t.Fatalf("%s: %s", name, resp.Error.Message)
	}
	out, _ := json.Marshal(resp.Result)
	return string(out)
}

func TestServerInitialize(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, testDeps(t))

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "reportgen-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, testDeps(t))

	resp := sendRequest(t, s, "tools/list", 2, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	toolNames := make(map[string]bool)
	for _, tool := range tools {
		tm, ok := tool.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := tm["name"].(string); ok {
			toolNames[name] = true
		}
	}

	expected := []string{
		"generate_report", "preview_report", "resolve_text",
		"list_templates", "save_template", "delete_template",
		"set_default_template", "duplicate_template",
	}
	for _, name := range expected {
		if !toolNames[name] {
			t.Errorf("expected tool %q not found", name)
		}
	}
}

func TestServerResourcesList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s, testDeps(t))

	resp := sendRequest(t, s, "resources/list", 3, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	resources, ok := result["resources"].([]interface{})
	if !ok {
		t.Fatal("resources is not an array")
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "ping", 4, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Fatalf("expected error code -32601, got %d", resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, testDeps(t))

	resp := sendRequest(t, s, "tools/call", 6, map[string]interface{}{
		"name":      "nonexistent_tool",
		"arguments": map[string]interface{}{},
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestResolveTextTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, testDeps(t))

	out := callTool(t, s, 7, "resolve_text", map[string]interface{}{
		"text": "Pasien {SubjectName}, lahir {SubjectBirthDate}",
		"data": map[string]interface{}{
			"subject": map[string]interface{}{
				"name":      "Budi Santoso",
				"birthDate": "1985-07-20",
			},
		},
	})
	if !strings.Contains(out, "Pasien Budi Santoso, lahir 20 Juli 1985") {
		t.Fatalf("unexpected result: %s", out)
	}
}

func TestGenerateReportTool(t *testing.T) {
	deps := testDeps(t)
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, deps)

	tpl := template.New().
		SetName("mcp-test").
		Header(func(h *template.HeaderBuilder) {
			h.NoLeftLogo()
			h.NoRightLogo()
			h.AddPlaceholderLine(placeholder.KeyInstitutionName, 16, true, template.AlignCenter)
		}).
		Build()
	if err := deps.Store.Create(context.Background(), &tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out := callTool(t, s, 8, "generate_report", map[string]interface{}{
		"templateName": "mcp-test",
		"data": map[string]interface{}{
			"institution": map[string]interface{}{"name": "RS Sehat"},
			"subject":     map[string]interface{}{"name": "Budi"},
		},
	})
	if !strings.Contains(out, "Report generated") || !strings.Contains(out, "Base64") {
		t.Fatalf("unexpected result: %s", out)
	}
}

func TestTemplateManagementTools(t *testing.T) {
	deps := testDeps(t)
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s, deps)

	tpl := template.New().SetName("managed").Build()
	encoded, err := template.Marshal(&tpl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(encoded, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	out := callTool(t, s, 9, "save_template", map[string]interface{}{"template": raw})
	if !strings.Contains(out, "created") {
		t.Fatalf("save_template: %s", out)
	}

	stored, err := deps.Store.GetByName(context.Background(), "managed")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}

	callTool(t, s, 10, "set_default_template", map[string]interface{}{"templateId": stored.ID})
	callTool(t, s, 11, "duplicate_template", map[string]interface{}{"templateId": stored.ID, "newName": "managed copy"})

	out = callTool(t, s, 12, "list_templates", nil)
	if !strings.Contains(out, "managed") || !strings.Contains(out, "managed copy") {
		t.Fatalf("list_templates: %s", out)
	}

	callTool(t, s, 13, "delete_template", map[string]interface{}{"templateId": stored.ID})
	if _, err := deps.Store.GetByName(context.Background(), "managed"); err == nil {
		t.Fatal("template still present after delete_template")
	}
}

func TestServerMultipleRequests(t *testing.T) {
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := NewServerWithIO(strings.NewReader(input), &output)
	deps := testDeps(t)
	RegisterDefaultTools(s, deps)
	RegisterDefaultResources(s, deps)

	s.Run()

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d: %s", len(lines), output.String())
	}
	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
	}
}

func TestToolAddTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	customTool := Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return ToolResult{
				Content: []ContentBlock{{Type: "text", Text: "custom result"}},
			}, nil
		},
	}
	s.AddTool(customTool)

	resp := sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name":      "custom_tool",
		"arguments": map[string]interface{}{},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	resultBytes, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(resultBytes), "custom result") {
		t.Fatalf("unexpected result: %s", string(resultBytes))
	}
}
