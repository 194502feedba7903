package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lvillar/reportgen/compose"
)

// RenderPreview rasterizes an approximation of the first page into a PNG.
// Typography is reduced to a single bitmap face, so the preview conveys
// structure and content rather than exact metrics.
func (p *PDF) RenderPreview(ctx context.Context, lay *compose.Layout, page Page, widthPx int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if widthPx <= 0 {
		widthPx = 600
	}
	heightPx := int(float64(widthPx) * page.Height / page.Width)
	scale := float64(widthPx) / page.Width // px per mm

	canvas := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	pv := &preview{canvas: canvas, scale: scale, page: page}

	pv.y = page.Margins.Top
	if lay.Header != nil {
		pv.header(lay.Header)
	}
	pv.content(&lay.Content)
	if lay.Footer != nil {
		pv.footer(lay.Footer)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, errors.Wrap(err, "encode preview")
	}
	return buf.Bytes(), nil
}

type preview struct {
	canvas *image.RGBA
	scale  float64 // px per mm
	page   Page
	y      float64 // current mm offset from page top
}

func (pv *preview) px(mm float64) int { return int(mm * pv.scale) }

// text draws one line at the given mm position with the fixed bitmap face.
func (pv *preview) text(s string, xMM, yMM float64, align string, widthMM float64) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, s).Ceil()
	x := pv.px(xMM)
	switch align {
	case "C", "center":
		x += (pv.px(widthMM) - textW) / 2
	case "R", "right":
		x += pv.px(widthMM) - textW
	}
	d := font.Drawer{
		Dst:  pv.canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, pv.px(yMM)+face.Ascent),
	}
	d.DrawString(s)
}

func (pv *preview) line(yMM float64) {
	y := pv.px(yMM)
	for x := pv.px(pv.page.Margins.Left); x < pv.px(pv.page.Width-pv.page.Margins.Right); x++ {
		pv.canvas.Set(x, y, color.Black)
	}
}

// imageAt decodes and scales raster bytes into a rectangle given in mm.
// Height 0 keeps the source aspect ratio.
func (pv *preview) imageAt(data []byte, xMM, yMM, wMM, hMM float64) {
	normalized, _, err := normalizeImage(data)
	if err != nil {
		return
	}
	src, _, err := image.Decode(bytes.NewReader(normalized))
	if err != nil {
		return
	}
	if hMM == 0 {
		b := src.Bounds()
		hMM = wMM * float64(b.Dy()) / float64(b.Dx())
	}
	dst := image.Rect(pv.px(xMM), pv.px(yMM), pv.px(xMM+wMM), pv.px(yMM+hMM))
	xdraw.ApproxBiLinear.Scale(pv.canvas, dst, src, src.Bounds(), xdraw.Over, nil)
}

const previewLineMM = 5

func (pv *preview) header(h *compose.HeaderBlock) {
	if h.LeftLogo != nil {
		pv.imageAt(h.LeftLogo.Data, pv.page.Margins.Left, pv.y, h.LeftLogo.Width, h.LeftLogo.Height)
	}
	if h.RightLogo != nil {
		pv.imageAt(h.RightLogo.Data, pv.page.Width-pv.page.Margins.Right-h.RightLogo.Width, pv.y,
			h.RightLogo.Width, h.RightLogo.Height)
	}
	y := pv.y
	for _, l := range h.Lines {
		pv.text(l.Text, pv.page.Margins.Left, y, string(l.Style.Align),
			pv.page.Width-pv.page.Margins.Left-pv.page.Margins.Right)
		y += previewLineMM
	}
	pv.y += h.Height
	if h.Border != nil {
		pv.line(pv.y)
	}
	pv.y += 2
}

func (pv *preview) content(c *compose.ContentBlock) {
	width := pv.page.Width - pv.page.Margins.Left - pv.page.Margins.Right

	if g := c.InfoFields; g != nil {
		colW := width
		if g.Columns == 2 {
			colW = (width - g.ColumnSpacing) / 2
		}
		for _, row := range g.Rows {
			if row.Left != nil {
				pv.text(row.Left.Label+" "+row.Left.Separator+" "+row.Left.Value,
					pv.page.Margins.Left, pv.y, "L", colW)
			}
			if row.Right != nil {
				pv.text(row.Right.Label+" "+row.Right.Separator+" "+row.Right.Value,
					pv.page.Margins.Left+colW+g.ColumnSpacing, pv.y, "L", colW)
			}
			pv.y += previewLineMM
		}
		pv.y += 3
	}

	if g := c.ImageGrid; g != nil && len(g.Cells) > 0 {
		cellW := (width - float64(g.Columns-1)*g.Spacing) / float64(g.Columns)
		cellH := cellW * 0.75
		rows := 0
		for _, cell := range g.Cells {
			if cell.Row+1 > rows {
				rows = cell.Row + 1
			}
			x := pv.page.Margins.Left + float64(cell.Col)*(cellW+g.Spacing)
			pv.imageAt(cell.Data, x, pv.y+float64(cell.Row)*(cellH+g.Spacing), cellW, cellH)
		}
		pv.y += float64(rows)*(cellH+g.Spacing) + 3
	}

	if r := c.Result; r != nil {
		pv.text(r.Label, pv.page.Margins.Left, pv.y, "L", width)
		pv.y += previewLineMM
		pv.text(r.Value, pv.page.Margins.Left, pv.y, "L", width)
		pv.y += maxf(previewLineMM, r.MinHeight) + 3
	}

	for _, s := range c.Sections {
		switch {
		case s.Height > 0:
			pv.y += s.Height
		case len(s.Image) > 0:
			w := width / 3
			pv.imageAt(s.Image, pv.page.Margins.Left, pv.y, w, 0)
			pv.y += w * 0.75
		case s.Text != "":
			pv.text(s.Text, pv.page.Margins.Left, pv.y, string(s.Style.Align), width)
			pv.y += previewLineMM
		default:
			pv.line(pv.y)
			pv.y += 2
		}
	}
}

func (pv *preview) footer(f *compose.FooterBlock) {
	width := pv.page.Width - pv.page.Margins.Left - pv.page.Margins.Right
	y := pv.page.Height - pv.page.Margins.Bottom - f.Height
	if f.Border != nil {
		pv.line(y)
	}
	y += 2

	if f.DateLocation != nil {
		pv.text(f.DateLocation.Text, pv.page.Margins.Left, y, string(f.DateLocation.Position), width)
		y += previewLineMM
	}
	if s := f.Signature; s != nil {
		pv.text(s.Title, pv.page.Margins.Left, y, string(s.Position), width)
		y += s.SpaceHeight + previewLineMM
		pv.text(s.Name, pv.page.Margins.Left, y, string(s.Position), width)
		y += previewLineMM
		if s.Credentials != "" {
			pv.text(s.Credentials, pv.page.Margins.Left, y, string(s.Position), width)
			y += previewLineMM
		}
	}
	for _, n := range f.Elements {
		switch n.Kind {
		case compose.NodePageNumber:
			pv.text("1 / 1", pv.page.Margins.Left, y, string(n.Position), width)
		case compose.NodeDateTime:
			pv.text("--/--/---- --:--", pv.page.Margins.Left, y, string(n.Position), width)
		case compose.NodeSeparator:
			pv.line(y)
		case compose.NodeImage:
			pv.imageAt(n.Image, pv.page.Margins.Left, y, 20, 0)
		default:
			pv.text(n.Text, pv.page.Margins.Left, y, string(n.Position), width)
		}
		y += previewLineMM
	}
}
