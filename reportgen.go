package reportgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/reportgen/compose"
	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/render"
	"github.com/lvillar/reportgen/report"
	"github.com/lvillar/reportgen/template"
)

// Generator binds report data to templates and renders the result. A
// Generator is safe for concurrent use; construct once and share it.
type Generator struct {
	renderer    render.Renderer
	resolver    *placeholder.Resolver
	engine      *compose.Engine
	now         func() time.Time
	documentIDs bool
}

// New returns a Generator with the PDF renderer, the default resolver, and
// automatic document identifiers.
func New(opts ...Option) *Generator {
	g := &Generator{
		renderer:    render.NewPDF(),
		now:         time.Now,
		documentIDs: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.resolver == nil {
		g.resolver = placeholder.NewResolver()
	}
	g.engine = compose.NewEngine(g.resolver)
	return g
}

// Generate composes and renders one report. The returned Result always has
// either OK set with the document bytes, or Err set with a typed
// *GenerateError; Generate itself never panics on bad input.
func (g *Generator) Generate(ctx context.Context, tpl *template.Template, data *report.Data) Result {
	const op = "Generate"
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return failure(op, KindCanceled, err, time.Since(start))
	}

	prepared := g.prepare(data)
	lay, err := g.engine.Compose(tpl, prepared)
	if err != nil {
		return failure(op, KindCompose, err, time.Since(start))
	}

	pdf, err := g.renderer.Render(ctx, lay, render.PageFor(tpl))
	if err != nil {
		return failure(op, renderKind(err), err, time.Since(start))
	}

	return Result{
		OK:      true,
		PDF:     pdf,
		Pages:   countPages(pdf),
		Elapsed: time.Since(start),
		Message: fmt.Sprintf("generated %d bytes from template %q", len(pdf), tpl.Name),
	}
}

// countPages scans the document for page objects. Page dictionaries are
// never inside compressed streams, so the count is reliable for the PDF
// backend; other backends report 0.
func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

// GenerateToFile renders a report and writes it to path, creating the
// destination directory if it does not exist. On success the Result
// carries the path instead of the document bytes.
func (g *Generator) GenerateToFile(ctx context.Context, tpl *template.Template, data *report.Data, path string) Result {
	const op = "GenerateToFile"

	res := g.Generate(ctx, tpl, data)
	if !res.OK {
		return res
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return failure(op, KindWrite, err, res.Elapsed)
	}
	if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
		return failure(op, KindWrite, err, res.Elapsed)
	}
	res.PDF = nil
	res.Path = path
	res.Message = "written to " + path
	return res
}

// Preview composes the report and rasterizes an approximation of its first
// page as a PNG of the given pixel width. Preview is best effort: any
// compose or render failure yields nil bytes rather than an error, so a
// broken template never interrupts an editing session.
func (g *Generator) Preview(ctx context.Context, tpl *template.Template, data *report.Data, widthPx int) []byte {
	lay, err := g.engine.Compose(tpl, g.prepare(data))
	if err != nil {
		return nil
	}
	png, err := g.renderer.RenderPreview(ctx, lay, render.PageFor(tpl), widthPx)
	if err != nil {
		return nil
	}
	return png
}

// ResolveText substitutes placeholder tokens in free text against report
// data, a convenience for callers previewing template strings.
func (g *Generator) ResolveText(text string, data *report.Data) (string, error) {
	return g.resolver.ResolveText(text, data)
}

// prepare copies the report data so generation never mutates the caller's
// value, stamps the generation time, and injects the {DocumentID}
// extension value when enabled.
func (g *Generator) prepare(data *report.Data) *report.Data {
	var d report.Data
	if data != nil {
		d = *data
	}
	extra := make(map[string]report.Value, len(d.Extra)+1)
	for k, v := range d.Extra {
		extra[k] = v
	}
	d.Extra = extra

	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = g.now()
	}
	if g.documentIDs {
		if _, ok := d.Extra["DocumentID"]; !ok {
			d.Extra["DocumentID"] = report.String(uuid.NewString())
		}
	}
	return &d
}

func renderKind(err error) ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindRender
}
