// Package reportgen generates examination reports from declarative
// templates and per-report data.
//
// A template (package template) describes page geometry, header, content
// and footer; report data (package report) carries the values bound into
// it. The composition engine (package compose) resolves every placeholder
// into a renderer-agnostic layout tree, and a renderer (package render)
// paints that tree; the built-in backend produces PDF. This package ties
// the pipeline together behind a single Generator:
//
//	tpl := template.New().
//		SetName("Radiology A4").
//		Header(func(h *template.HeaderBuilder) {
//			h.AddPlaceholderLine(placeholder.KeyInstitutionName, 16, true, template.AlignCenter)
//		}).
//		Build()
//
//	data := report.NewBuilder().
//		WithInstitution(report.Institution{Name: "RS Sehat Sentosa"}).
//		WithSubject(report.Subject{Name: "Budi Santoso"}).
//		Data()
//
//	res := reportgen.New().Generate(ctx, &tpl, data)
//	if res.OK {
//		os.WriteFile("report.pdf", res.PDF, 0o644)
//	}
//
// Templates persist through package store (SQLite), and cmd/reportgen-mcp
// exposes the pipeline to MCP clients over stdio.
package reportgen
