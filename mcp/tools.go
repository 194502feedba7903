package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lvillar/reportgen"
	"github.com/lvillar/reportgen/report"
	"github.com/lvillar/reportgen/store"
	"github.com/lvillar/reportgen/template"
)

// Deps are the backends the tools operate on. Store may be nil, in which
// case only the tools that take an inline template work.
type Deps struct {
	Generator *reportgen.Generator
	Store     *store.Store
}

// RegisterDefaultTools adds all built-in report tools to the server.
func RegisterDefaultTools(s *Server, d Deps) {
	s.AddTool(generateReportTool(d))
	s.AddTool(previewReportTool(d))
	s.AddTool(resolveTextTool(d))
	s.AddTool(listTemplatesTool(d))
	s.AddTool(saveTemplateTool(d))
	s.AddTool(deleteTemplateTool(d))
	s.AddTool(setDefaultTemplateTool(d))
	s.AddTool(duplicateTemplateTool(d))
}

// templateSelector is the shared input schema fragment for choosing a
// template: by id, by name, inline, or the stored default.
func templateSelector() map[string]interface{} {
	return map[string]interface{}{
		"templateId": map[string]interface{}{
			"type":        "integer",
			"description": "ID of a stored template",
		},
		"templateName": map[string]interface{}{
			"type":        "string",
			"description": "Name of a stored template",
		},
		"template": map[string]interface{}{
			"type":        "object",
			"description": "Inline template definition (JSON form). Takes precedence over id/name.",
		},
	}
}

// pickTemplate resolves the template a tool call refers to. Precedence:
// inline definition, then id, then name, then the stored default.
func pickTemplate(ctx context.Context, d Deps, args map[string]interface{}) (*template.Template, error) {
	if raw, ok := args["template"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encoding inline template: %w", err)
		}
		return template.Unmarshal(data)
	}
	if d.Store == nil {
		return nil, fmt.Errorf("no template store configured; pass an inline 'template'")
	}
	if id, ok := args["templateId"].(float64); ok {
		return d.Store.GetByID(ctx, int(id))
	}
	if name, ok := args["templateName"].(string); ok && name != "" {
		return d.Store.GetByName(ctx, name)
	}
	return d.Store.GetDefault(ctx)
}

// reportPayload is the wire form of report data. Dates accept RFC 3339 or
// plain "2006-01-02".
type reportPayload struct {
	Institution report.Institution `json:"institution"`
	Subject     struct {
		Name      string `json:"name"`
		Number    string `json:"number"`
		BirthDate string `json:"birthDate"`
		Age       *int   `json:"age"`
		Gender    string `json:"gender"`
		Address   string `json:"address"`
		Phone     string `json:"phone"`
		Insurance string `json:"insurance"`
	} `json:"subject"`
	Examination struct {
		Name           string `json:"name"`
		Date           string `json:"date"`
		Time           string `json:"time"` // "HH:MM"
		Room           string `json:"room"`
		ClinicalNotes  string `json:"clinicalNotes"`
		Result         string `json:"result"`
		Conclusion     string `json:"conclusion"`
		Recommendation string `json:"recommendation"`
	} `json:"examination"`
	Staff  report.Staff `json:"staff"`
	City   string       `json:"city"`
	Images []struct {
		Data    string `json:"data"` // base64
		Path    string `json:"path"`
		Caption string `json:"caption"`
	} `json:"images"`
	Extra map[string]interface{} `json:"extra"`
}

func parseWireDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// decodeData converts the tool-call 'data' argument into report data.
func decodeData(raw interface{}) (*report.Data, error) {
	b := report.NewBuilder()
	if raw == nil {
		return b.Data(), nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}
	var p reportPayload
	if err := json.Unmarshal(encoded, &p); err != nil {
		return nil, fmt.Errorf("decoding data: %w", err)
	}

	birth, err := parseWireDate(p.Subject.BirthDate)
	if err != nil {
		return nil, err
	}
	examDate, err := parseWireDate(p.Examination.Date)
	if err != nil {
		return nil, err
	}
	var examTime *time.Duration
	if p.Examination.Time != "" {
		var hh, mm int
		if _, err := fmt.Sscanf(p.Examination.Time, "%d:%d", &hh, &mm); err != nil {
			return nil, fmt.Errorf("unrecognized time %q", p.Examination.Time)
		}
		dur := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		examTime = &dur
	}

	b.WithInstitution(p.Institution).
		WithSubject(report.Subject{
			Name: p.Subject.Name, Number: p.Subject.Number, BirthDate: birth,
			Age: p.Subject.Age, Gender: p.Subject.Gender, Address: p.Subject.Address,
			Phone: p.Subject.Phone, Insurance: p.Subject.Insurance,
		}).
		WithExamination(report.Examination{
			Name: p.Examination.Name, Date: examDate, Time: examTime,
			Room: p.Examination.Room, ClinicalNotes: p.Examination.ClinicalNotes,
			Result: p.Examination.Result, Conclusion: p.Examination.Conclusion,
			Recommendation: p.Examination.Recommendation,
		}).
		WithStaff(p.Staff).
		WithCity(p.City)

	for _, img := range p.Images {
		if img.Data != "" {
			decoded, err := base64.StdEncoding.DecodeString(img.Data)
			if err != nil {
				return nil, fmt.Errorf("decoding image: %w", err)
			}
			b.AddImage(decoded, img.Caption)
		} else if img.Path != "" {
			b.AddImageFile(img.Path, img.Caption)
		}
	}
	for k, v := range p.Extra {
		switch x := v.(type) {
		case string:
			b.WithExtra(k, report.String(x))
		case bool:
			b.WithExtra(k, report.Bool(x))
		case float64:
			if x == float64(int64(x)) {
				b.WithExtra(k, report.Int(int64(x)))
			} else {
				b.WithExtra(k, report.Float(x))
			}
		default:
			return nil, fmt.Errorf("extra value %q has no text form", k)
		}
	}
	return b.Data(), nil
}

func generateReportTool(d Deps) Tool {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": templateSelector(),
	}
	props := schema["properties"].(map[string]interface{})
	props["data"] = map[string]interface{}{
		"type":        "object",
		"description": "Report data: institution, subject, examination, staff, images, extra placeholder values",
	}
	props["outputPath"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file path to save the PDF. If omitted, returns base64.",
	}
	return Tool{
		Name:        "generate_report",
		Description: "Generate a PDF report by binding report data to a template. Selects a stored template by id or name, an inline template, or the stored default. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: schema,
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			ctx := context.Background()
			tpl, err := pickTemplate(ctx, d, args)
			if err != nil {
				return ToolResult{}, err
			}
			data, err := decodeData(args["data"])
			if err != nil {
				return ToolResult{}, err
			}

			if path, ok := args["outputPath"].(string); ok && path != "" {
				res := d.Generator.GenerateToFile(ctx, tpl, data, path)
				if !res.OK {
					return ToolResult{}, res.Err
				}
				return textResult(fmt.Sprintf("Report written to %s (%s)", res.Path, res.Elapsed)), nil
			}

			res := d.Generator.Generate(ctx, tpl, data)
			if !res.OK {
				return ToolResult{}, res.Err
			}
			encoded := base64.StdEncoding.EncodeToString(res.PDF)
			return textResult(fmt.Sprintf("Report generated (%d bytes). Base64 data:\n%s", len(res.PDF), encoded)), nil
		},
	}
}

func previewReportTool(d Deps) Tool {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": templateSelector(),
	}
	props := schema["properties"].(map[string]interface{})
	props["data"] = map[string]interface{}{"type": "object", "description": "Report data"}
	props["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Preview width in pixels (default 600)",
	}
	return Tool{
		Name:        "preview_report",
		Description: "Render a PNG preview of the first page of a report.",
		InputSchema: schema,
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			ctx := context.Background()
			tpl, err := pickTemplate(ctx, d, args)
			if err != nil {
				return ToolResult{}, err
			}
			data, err := decodeData(args["data"])
			if err != nil {
				return ToolResult{}, err
			}
			width := 600
			if w, ok := args["width"].(float64); ok && w > 0 {
				width = int(w)
			}
			png := d.Generator.Preview(ctx, tpl, data, width)
			if len(png) == 0 {
				return ToolResult{
					Content: []ContentBlock{{Type: "text", Text: "preview unavailable for this template and data"}},
					IsError: true,
				}, nil
			}
			return ToolResult{Content: []ContentBlock{{
				Type:     "image",
				MIMEType: "image/png",
				Data:     base64.StdEncoding.EncodeToString(png),
			}}}, nil
		},
	}
}

func resolveTextTool(d Deps) Tool {
	return Tool{
		Name:        "resolve_text",
		Description: "Substitute {Placeholder} tokens in free text against report data. Useful for checking what a template line will display.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{"type": "string", "description": "Text containing {Placeholder} tokens"},
				"data": map[string]interface{}{"type": "object", "description": "Report data"},
			},
			"required": []string{"text"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			text, ok := args["text"].(string)
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'text' argument")
			}
			data, err := decodeData(args["data"])
			if err != nil {
				return ToolResult{}, err
			}
			out, err := d.Generator.ResolveText(text, data)
			if err != nil {
				return ToolResult{}, err
			}
			return textResult(out), nil
		},
	}
}

func listTemplatesTool(d Deps) Tool {
	return Tool{
		Name:        "list_templates",
		Description: "List all stored report templates with id, name, paper and default flag.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			if d.Store == nil {
				return ToolResult{}, fmt.Errorf("no template store configured")
			}
			all, err := d.Store.GetAll(context.Background())
			if err != nil {
				return ToolResult{}, err
			}
			type row struct {
				ID      int                `json:"id"`
				Name    string             `json:"name"`
				Paper   template.PaperSize `json:"paper"`
				Default bool               `json:"default"`
				Active  bool               `json:"active"`
			}
			rows := make([]row, 0, len(all))
			for _, t := range all {
				rows = append(rows, row{ID: t.ID, Name: t.Name, Paper: t.Paper, Default: t.IsDefault, Active: t.IsActive})
			}
			out, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return ToolResult{}, err
			}
			return textResult(string(out)), nil
		},
	}
}

func saveTemplateTool(d Deps) Tool {
	return Tool{
		Name:        "save_template",
		Description: "Create or update a stored template from its JSON form. Templates with id 0 are created; others updated.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{"type": "object", "description": "Template definition (JSON form)"},
			},
			"required": []string{"template"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			if d.Store == nil {
				return ToolResult{}, fmt.Errorf("no template store configured")
			}
			raw, ok := args["template"]
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'template' argument")
			}
			encoded, err := json.Marshal(raw)
			if err != nil {
				return ToolResult{}, err
			}
			tpl, err := template.Unmarshal(encoded)
			if err != nil {
				return ToolResult{}, err
			}

			ctx := context.Background()
			if tpl.ID == 0 {
				if err := d.Store.Create(ctx, tpl); err != nil {
					return ToolResult{}, err
				}
				return textResult(fmt.Sprintf("Template %q created with id %d", tpl.Name, tpl.ID)), nil
			}
			if err := d.Store.Update(ctx, tpl); err != nil {
				return ToolResult{}, err
			}
			return textResult(fmt.Sprintf("Template %q (id %d) updated", tpl.Name, tpl.ID)), nil
		},
	}
}

func deleteTemplateTool(d Deps) Tool {
	return Tool{
		Name:        "delete_template",
		Description: "Delete a stored template by id.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"templateId": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"templateId"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			if d.Store == nil {
				return ToolResult{}, fmt.Errorf("no template store configured")
			}
			id, ok := args["templateId"].(float64)
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'templateId' argument")
			}
			if err := d.Store.Delete(context.Background(), int(id)); err != nil {
				return ToolResult{}, err
			}
			return textResult(fmt.Sprintf("Template %d deleted", int(id))), nil
		},
	}
}

func setDefaultTemplateTool(d Deps) Tool {
	return Tool{
		Name:        "set_default_template",
		Description: "Mark a stored template as the default used when no template is named.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"templateId": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"templateId"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			if d.Store == nil {
				return ToolResult{}, fmt.Errorf("no template store configured")
			}
			id, ok := args["templateId"].(float64)
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'templateId' argument")
			}
			if err := d.Store.SetDefault(context.Background(), int(id)); err != nil {
				return ToolResult{}, err
			}
			return textResult(fmt.Sprintf("Template %d is now the default", int(id))), nil
		},
	}
}

func duplicateTemplateTool(d Deps) Tool {
	return Tool{
		Name:        "duplicate_template",
		Description: "Copy a stored template under a new name.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"templateId": map[string]interface{}{"type": "integer"},
				"newName":    map[string]interface{}{"type": "string"},
			},
			"required": []string{"templateId", "newName"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			if d.Store == nil {
				return ToolResult{}, fmt.Errorf("no template store configured")
			}
			id, ok := args["templateId"].(float64)
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'templateId' argument")
			}
			name, ok := args["newName"].(string)
			if !ok || name == "" {
				return ToolResult{}, fmt.Errorf("missing 'newName' argument")
			}
			dup, err := d.Store.Duplicate(context.Background(), int(id), name)
			if err != nil {
				return ToolResult{}, err
			}
			return textResult(fmt.Sprintf("Template %d duplicated as %q (id %d)", int(id), dup.Name, dup.ID)), nil
		},
	}
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}
