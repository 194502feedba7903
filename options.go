package reportgen

import (
	"time"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/render"
)

// Option is a functional option for configuring a Generator.
type Option func(*Generator)

// WithRenderer substitutes the rendering backend. The default is the PDF
// renderer with its own defaults.
func WithRenderer(r render.Renderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// WithResolver substitutes the placeholder resolver used for composition.
func WithResolver(res *placeholder.Resolver) Option {
	return func(g *Generator) { g.resolver = res }
}

// WithClock substitutes the wall clock used to stamp generation time.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithDocumentIDs toggles the automatic {DocumentID} extension value. On by
// default; each generation receives a fresh random identifier unless the
// report data already carries one.
func WithDocumentIDs(on bool) Option {
	return func(g *Generator) { g.documentIDs = on }
}
