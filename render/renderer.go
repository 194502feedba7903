// Package render turns composed layout trees into output documents.
//
// The Renderer interface is the seam between composition and any concrete
// backend; PDF is the reference implementation. Renderers receive fully
// resolved trees and only fill in the deferred page-number and print-time
// nodes.
package render

import (
	"context"

	"github.com/lvillar/reportgen/compose"
	"github.com/lvillar/reportgen/template"
)

// Page is the physical page geometry a layout is painted onto, derived from
// a template. All dimensions are millimetres, already orientation-swapped.
type Page struct {
	Width   float64
	Height  float64
	Margins template.Margins
}

// Named paper dimensions in portrait millimetres.
var paperSizes = map[template.PaperSize]struct{ w, h float64 }{
	template.PaperA4:     {210, 297},
	template.PaperA5:     {148, 210},
	template.PaperLetter: {215.9, 279.4},
	template.Paper4R:     {101.6, 152.4},
	template.Paper5R:     {127, 177.8},
}

// PageFor derives the page geometry from a template. Unknown paper names
// fall back to A4; a custom paper without a size does too.
func PageFor(tpl *template.Template) Page {
	w, h := 210.0, 297.0
	if tpl.Paper == template.PaperCustom && tpl.CustomSize != nil {
		w, h = tpl.CustomSize.Width, tpl.CustomSize.Height
	} else if dim, ok := paperSizes[tpl.Paper]; ok {
		w, h = dim.w, dim.h
	}
	if tpl.Orientation == template.Landscape {
		w, h = h, w
	}
	return Page{Width: w, Height: h, Margins: tpl.Margins}
}

// Renderer paints a composed layout. Implementations must be safe for
// concurrent use and must honor ctx cancellation between pages.
type Renderer interface {
	// Render produces the final document bytes.
	Render(ctx context.Context, lay *compose.Layout, page Page) ([]byte, error)

	// RenderPreview produces a raster approximation of the first page as a
	// PNG of the given pixel width.
	RenderPreview(ctx context.Context, lay *compose.Layout, page Page, widthPx int) ([]byte, error)
}
