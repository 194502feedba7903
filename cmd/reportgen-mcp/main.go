// Command reportgen-mcp is an MCP (Model Context Protocol) server that
// exposes report generation and template management to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/reportgen/cmd/reportgen-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "reportgen": {
//	      "command": "reportgen-mcp",
//	      "args": ["-db", "/path/to/templates.db"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - generate_report: Bind report data to a template and return a PDF
//   - preview_report: Render a PNG preview of the first page
//   - resolve_text: Substitute {Placeholder} tokens in free text
//   - list_templates: List stored templates
//   - save_template: Create or update a stored template
//   - delete_template: Delete a stored template
//   - set_default_template: Mark a template as the default
//   - duplicate_template: Copy a template under a new name
//
// # Available Resources
//
//   - reportgen://placeholders : All placeholder keys with metadata
//   - reportgen://templates : The JSON form of every stored template
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lvillar/reportgen"
	"github.com/lvillar/reportgen/mcp"
	"github.com/lvillar/reportgen/render"
	"github.com/lvillar/reportgen/store"
)

func main() {
	dbPath := flag.String("db", "", "path to the template database (empty for in-memory)")
	letterhead := flag.String("letterhead", "", "PDF whose first page underlays every report page")
	flag.Parse()

	dsn := *dbPath
	if dsn == "" {
		dsn = ":memory:"
	}
	st, err := store.Open(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportgen-mcp: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	var opts []reportgen.Option
	if *letterhead != "" {
		opts = append(opts, reportgen.WithRenderer(render.NewPDF(render.WithLetterhead(*letterhead))))
	}

	server := mcp.NewServer()
	deps := mcp.Deps{Generator: reportgen.New(opts...), Store: st}
	mcp.RegisterDefaultTools(server, deps)
	mcp.RegisterDefaultResources(server, deps)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "reportgen-mcp: %v\n", err)
		os.Exit(1)
	}
}
