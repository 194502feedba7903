package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lvillar/reportgen/placeholder"
)

// RegisterDefaultResources adds the built-in resources under the
// reportgen:// scheme.
func RegisterDefaultResources(s *Server, d Deps) {
	s.AddResource(Resource{
		URI:         "reportgen://placeholders",
		Name:        "Placeholder Keys",
		Description: "All placeholder keys usable in templates, with display name, category and data type.",
		MIMEType:    "application/json",
		Handler:     placeholdersResource(d),
	})

	s.AddResource(Resource{
		URI:         "reportgen://templates",
		Name:        "Stored Templates",
		Description: "The full JSON form of every stored report template.",
		MIMEType:    "application/json",
		Handler:     templatesResource(d),
	})
}

func placeholdersResource(d Deps) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		defs := placeholder.SystemDefinitions()
		if d.Store != nil {
			stored, err := d.Store.GetAllDefinitions(context.Background())
			if err == nil && len(stored) > 0 {
				defs = stored
			}
		}
		out, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding definitions: %w", err)
		}
		return []ResourceContent{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(out),
		}}, nil
	}
}

func templatesResource(d Deps) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		if d.Store == nil {
			return nil, fmt.Errorf("no template store configured")
		}
		all, err := d.Store.GetAll(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		out, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding templates: %w", err)
		}
		return []ResourceContent{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(out),
		}}, nil
	}
}
