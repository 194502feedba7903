package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"github.com/pkg/errors"

	"github.com/lvillar/reportgen/compose"
	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/template"
)

// lineFactor converts a font size in points to a line height in mm.
const lineFactor = 0.48

// PDF renders layout trees to PDF documents. The zero value is not usable;
// construct with NewPDF. A PDF renderer is safe for concurrent use: each
// Render call builds its own document.
type PDF struct {
	fontFamily string
	compress   bool
	letterhead string
	now        func() time.Time
}

// PDFOption configures a PDF renderer.
type PDFOption func(*PDF)

// WithFontFamily sets the fallback font family used when a layout node
// carries none. Must be one of the core PDF families (Arial/Helvetica,
// Times, Courier).
func WithFontFamily(name string) PDFOption {
	return func(p *PDF) { p.fontFamily = name }
}

// WithCompression toggles stream compression in the output.
func WithCompression(on bool) PDFOption {
	return func(p *PDF) { p.compress = on }
}

// WithLetterhead underlays the first page of the given external PDF on
// every rendered page.
func WithLetterhead(path string) PDFOption {
	return func(p *PDF) { p.letterhead = path }
}

// WithClock substitutes the wall clock used for deferred print-time nodes.
func WithClock(now func() time.Time) PDFOption {
	return func(p *PDF) { p.now = now }
}

// NewPDF returns a PDF renderer with Arial fallback and compression on.
func NewPDF(opts ...PDFOption) *PDF {
	p := &PDF{fontFamily: "Arial", compress: true, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render paints the layout into a finished PDF. The header and footer
// repeat on every page; content flows with automatic page breaks. Deferred
// page-number and print-time nodes are filled in here.
func (p *PDF) Render(ctx context.Context, lay *compose.Layout, page Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetCompression(p.compress)
	doc.SetMargins(page.Margins.Left, page.Margins.Top, page.Margins.Right)
	doc.AliasNbPages("{nb}")

	pt := &painter{doc: doc, page: page, fallbackFont: p.fontFamily, now: p.now}

	if p.letterhead != "" {
		imp := gofpdi.NewImporter()
		tplID := imp.ImportPage(doc, p.letterhead, 1, "/MediaBox")
		pt.letterhead = func() {
			imp.UseImportedTemplate(doc, tplID, 0, 0, page.Width, page.Height)
		}
	}

	footerHeight := 0.0
	if lay.Footer != nil {
		footerHeight = lay.Footer.Height
	}
	doc.SetAutoPageBreak(true, page.Margins.Bottom+footerHeight)

	doc.SetHeaderFunc(func() {
		if pt.letterhead != nil {
			pt.letterhead()
		}
		if lay.Header != nil {
			pt.header(lay.Header)
		}
	})
	doc.SetFooterFunc(func() {
		if lay.Footer != nil {
			pt.footer(lay.Footer)
		}
	})

	doc.AddPage()
	pt.content(&lay.Content)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}

// painter holds per-render drawing state.
type painter struct {
	doc          *gofpdf.Fpdf
	page         Page
	fallbackFont string
	now          func() time.Time
	letterhead   func()
	imgSeq       int
}

func (pt *painter) contentWidth() float64 {
	return pt.page.Width - pt.page.Margins.Left - pt.page.Margins.Right
}

func (pt *painter) setFont(s compose.TextStyle) {
	family := s.FontFamily
	if family == "" {
		family = pt.fallbackFont
	}
	style := ""
	if s.Bold {
		style += "B"
	}
	if s.Italic {
		style += "I"
	}
	if s.Underline {
		style += "U"
	}
	size := s.FontSize
	if size == 0 {
		size = 10
	}
	pt.doc.SetFont(family, style, size)
	r, g, b := hexColor(s.Color)
	pt.doc.SetTextColor(r, g, b)
}

func (pt *painter) rule(rule *compose.Rule, y float64) {
	r, g, b := hexColor(rule.Color)
	pt.doc.SetDrawColor(r, g, b)
	w := rule.Thickness
	if w == 0 {
		w = 0.3
	}
	pt.doc.SetLineWidth(w)
	pt.doc.Line(pt.page.Margins.Left, y, pt.page.Width-pt.page.Margins.Right, y)
}

// image registers and places raster bytes. Format sniffing covers the
// types gofpdf accepts natively; anything else is converted to PNG first.
// Undecodable bytes are skipped rather than failing the whole document.
func (pt *painter) image(data []byte, x, y, w, h float64) {
	data, kind, err := normalizeImage(data)
	if err != nil {
		return
	}
	pt.imgSeq++
	name := "img" + strconv.Itoa(pt.imgSeq)
	opts := gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	pt.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pt.doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (pt *painter) header(h *compose.HeaderBlock) {
	top := pt.page.Margins.Top

	textLeft := pt.page.Margins.Left
	textRight := pt.page.Width - pt.page.Margins.Right
	if h.LeftLogo != nil {
		pt.image(h.LeftLogo.Data, pt.page.Margins.Left, top, h.LeftLogo.Width, h.LeftLogo.Height)
		textLeft += h.LeftLogo.Width + 2
	}
	if h.RightLogo != nil {
		x := pt.page.Width - pt.page.Margins.Right - h.RightLogo.Width
		pt.image(h.RightLogo.Data, x, top, h.RightLogo.Width, h.RightLogo.Height)
		textRight -= h.RightLogo.Width + 2
	}

	y := top
	for _, line := range h.Lines {
		y += line.MarginTop
		pt.setFont(line.Style)
		lh := line.Style.FontSize * lineFactor
		pt.doc.SetXY(textLeft, y)
		pt.doc.CellFormat(textRight-textLeft, lh, line.Text, "", 0, string(line.Style.Align), false, 0, "")
		y += lh + line.MarginBottom
	}

	bottom := top + h.Height
	if h.Border != nil {
		pt.rule(h.Border, bottom)
	}
	pt.doc.SetY(bottom + 2)
}

func (pt *painter) content(c *compose.ContentBlock) {
	if c.InfoFields != nil {
		pt.infoFields(c.InfoFields)
	}
	if c.ImageGrid != nil {
		pt.imageGrid(c.ImageGrid)
	}
	if c.Result != nil {
		pt.result(c.Result)
	}
	for i := range c.Sections {
		pt.section(&c.Sections[i])
	}
}

func (pt *painter) infoFields(g *compose.FieldGrid) {
	colWidth := pt.contentWidth()
	if g.Columns == 2 {
		colWidth = (pt.contentWidth() - g.ColumnSpacing) / 2
	}
	base := compose.TextStyle{FontFamily: g.FontFamily, FontSize: g.FontSize}
	lh := g.FontSize * lineFactor

	startY := pt.doc.GetY()
	for _, row := range g.Rows {
		y := pt.doc.GetY()
		if row.Left != nil {
			pt.fieldCell(row.Left, pt.page.Margins.Left, y, colWidth, base, lh)
		}
		if row.Right != nil {
			pt.fieldCell(row.Right, pt.page.Margins.Left+colWidth+g.ColumnSpacing, y, colWidth, base, lh)
		}
		pt.doc.SetY(y + lh + g.RowSpacing)
	}
	if g.Border != nil {
		r, gr, b := hexColor(g.Border.Color)
		pt.doc.SetDrawColor(r, gr, b)
		pt.doc.SetLineWidth(0.3)
		pt.doc.Rect(pt.page.Margins.Left-g.Padding, startY-g.Padding,
			pt.contentWidth()+2*g.Padding, pt.doc.GetY()-startY+2*g.Padding, "D")
	}
	pt.doc.SetY(pt.doc.GetY() + 3)
}

func (pt *painter) fieldCell(cell *compose.FieldCell, x, y, width float64, base compose.TextStyle, lh float64) {
	labelW := cell.LabelWidth
	if labelW == 0 {
		labelW = width * 0.4
	}
	sepW := 4.0

	label := base
	label.Bold = cell.LabelBold
	pt.setFont(label)
	pt.doc.SetXY(x, y)
	pt.doc.CellFormat(labelW, lh, cell.Label, "", 0, "L", false, 0, "")
	pt.doc.CellFormat(sepW, lh, cell.Separator, "", 0, "C", false, 0, "")

	value := base
	value.Bold = cell.ValueBold
	pt.setFont(value)
	pt.doc.CellFormat(width-labelW-sepW, lh, cell.Value, "", 0, "L", false, 0, "")
}

func (pt *painter) imageGrid(g *compose.ImageGrid) {
	if len(g.Cells) == 0 {
		return
	}
	cellW := (pt.contentWidth() - float64(g.Columns-1)*g.Spacing) / float64(g.Columns)
	cellH := cellW * 0.75 // 4:3 cells

	startY := pt.doc.GetY()
	rows := 0
	for _, cell := range g.Cells {
		if cell.Row+1 > rows {
			rows = cell.Row + 1
		}
		x := pt.page.Margins.Left + float64(cell.Col)*(cellW+g.Spacing)
		y := startY + float64(cell.Row)*(cellH+g.Spacing)
		pt.image(cell.Data, x, y, cellW, cellH)
		if g.Border != nil {
			r, gr, b := hexColor(g.Border.Color)
			pt.doc.SetDrawColor(r, gr, b)
			pt.doc.SetLineWidth(maxf(g.Border.Thickness, 0.3))
			pt.doc.Rect(x, y, cellW, cellH, "D")
		}
		if cell.Caption != "" {
			pt.setFont(compose.TextStyle{FontSize: 8})
			pt.doc.SetXY(x, y+cellH+1)
			pt.doc.CellFormat(cellW, 4, cell.Caption, "", 0, "C", false, 0, "")
		}
	}
	pt.doc.SetY(startY + float64(rows)*(cellH+g.Spacing) + 3)
}

func (pt *painter) result(r *compose.ResultBlock) {
	base := compose.TextStyle{FontFamily: r.FontFamily, FontSize: r.FontSize}
	lh := r.FontSize * lineFactor
	startY := pt.doc.GetY() + r.Padding

	label := base
	label.Bold = r.LabelBold
	pt.setFont(label)
	pt.doc.SetXY(pt.page.Margins.Left+r.Padding, startY)
	pt.doc.CellFormat(pt.contentWidth()-2*r.Padding, lh, r.Label, "", 1, "L", false, 0, "")

	value := base
	value.Bold = r.ValueBold
	pt.setFont(value)
	pt.doc.SetX(pt.page.Margins.Left + r.Padding)
	pt.doc.MultiCell(pt.contentWidth()-2*r.Padding, lh, r.Value, "", "L", false)

	endY := maxf(pt.doc.GetY(), startY+r.MinHeight)
	if r.Border != nil {
		cr, cg, cb := hexColor(r.Border.Color)
		pt.doc.SetDrawColor(cr, cg, cb)
		pt.doc.SetLineWidth(0.3)
		pt.doc.Rect(pt.page.Margins.Left, startY-r.Padding,
			pt.contentWidth(), endY-startY+2*r.Padding, "D")
	}
	pt.doc.SetY(endY + 3)
}

func (pt *painter) section(s *compose.Section) {
	pt.doc.SetY(pt.doc.GetY() + s.MarginTop)
	switch s.Kind {
	case template.SectionSpacer:
		pt.doc.SetY(pt.doc.GetY() + s.Height)
	case template.SectionSeparator:
		pt.rule(&compose.Rule{Color: "#000000", Thickness: 0.3}, pt.doc.GetY())
		pt.doc.SetY(pt.doc.GetY() + 2)
	case template.SectionImage, template.SectionBarcode:
		w := pt.contentWidth() / 3
		x := pt.page.Margins.Left
		switch s.Style.Align {
		case template.AlignCenter:
			x = pt.page.Margins.Left + (pt.contentWidth()-w)/2
		case template.AlignRight:
			x = pt.page.Width - pt.page.Margins.Right - w
		}
		pt.image(s.Image, x, pt.doc.GetY(), w, 0)
		pt.doc.SetY(pt.doc.GetY() + w*0.75)
	default:
		pt.setFont(s.Style)
		lh := s.Style.FontSize * lineFactor
		pt.doc.SetX(pt.page.Margins.Left)
		pt.doc.MultiCell(pt.contentWidth(), lh, s.Text, "", string(s.Style.Align), false)
	}
	pt.doc.SetY(pt.doc.GetY() + s.MarginBottom)
}

func (pt *painter) footer(f *compose.FooterBlock) {
	top := pt.page.Height - pt.page.Margins.Bottom - f.Height
	if f.Border != nil {
		pt.rule(f.Border, top)
	}
	y := top + 2

	if f.DateLocation != nil {
		pt.setFont(compose.TextStyle{FontFamily: f.DateLocation.FontFamily, FontSize: f.DateLocation.FontSize})
		lh := f.DateLocation.FontSize * lineFactor
		pt.doc.SetXY(pt.page.Margins.Left, y)
		pt.doc.CellFormat(pt.contentWidth(), lh, f.DateLocation.Text, "", 0, alignFor(f.DateLocation.Position), false, 0, "")
		y += lh + 1
	}

	if f.Signature != nil {
		y = pt.signature(f.Signature, y)
	}

	for i := range f.Elements {
		y = pt.footerNode(&f.Elements[i], y)
	}
}

func (pt *painter) signature(s *compose.SignatureNode, y float64) float64 {
	style := compose.TextStyle{FontFamily: s.FontFamily, FontSize: s.FontSize}
	lh := s.FontSize * lineFactor

	width := s.LineWidth
	if width == 0 {
		width = 60
	}
	x := pt.page.Margins.Left
	switch s.Position {
	case template.PositionCenter:
		x = pt.page.Margins.Left + (pt.contentWidth()-width)/2
	case template.PositionRight:
		x = pt.page.Width - pt.page.Margins.Right - width
	}

	pt.setFont(style)
	pt.doc.SetXY(x, y)
	pt.doc.CellFormat(width, lh, s.Title, "", 0, "C", false, 0, "")
	y += lh + s.SpaceHeight

	if s.Line != nil {
		pt.doc.SetDrawColor(0, 0, 0)
		pt.doc.SetLineWidth(0.3)
		pt.doc.Line(x, y, x+width, y)
		y += 1
	}

	bold := style
	bold.Bold = true
	pt.setFont(bold)
	pt.doc.SetXY(x, y)
	pt.doc.CellFormat(width, lh, s.Name, "", 0, "C", false, 0, "")
	y += lh

	if s.Credentials != "" {
		pt.setFont(style)
		pt.doc.SetXY(x, y)
		pt.doc.CellFormat(width, lh, s.Credentials, "", 0, "C", false, 0, "")
		y += lh
	}
	return y
}

func (pt *painter) footerNode(n *compose.FooterNode, y float64) float64 {
	lh := maxf(n.Style.FontSize, 8) * lineFactor
	switch n.Kind {
	case compose.NodeSeparator:
		pt.rule(&compose.Rule{Color: n.Style.Color, Thickness: 0.3}, y)
		return y + 2
	case compose.NodeImage:
		w := 20.0
		x := pt.nodeX(n.Position, w)
		pt.image(n.Image, x, y, w, 0)
		return y + w
	}

	text := n.Text
	switch n.Kind {
	case compose.NodePageNumber:
		if n.Text != "" {
			text = strings.NewReplacer(
				"{page}", strconv.Itoa(pt.doc.PageNo()),
				"{pages}", "{nb}",
			).Replace(n.Text)
		} else {
			text = fmt.Sprintf("%d / {nb}", pt.doc.PageNo())
		}
	case compose.NodeDateTime:
		if n.Text != "" {
			text = placeholder.FormatDate(pt.now(), n.Text, "")
		} else {
			text = pt.now().Format("02/01/2006 15:04")
		}
	}
	if text == "" {
		return y
	}
	pt.setFont(n.Style)
	pt.doc.SetXY(pt.page.Margins.Left, y)
	pt.doc.CellFormat(pt.contentWidth(), lh, text, "", 0, alignFor(n.Position), false, 0, "")
	return y + lh
}

func (pt *painter) nodeX(pos template.HorizontalPosition, w float64) float64 {
	switch pos {
	case template.PositionCenter:
		return pt.page.Margins.Left + (pt.contentWidth()-w)/2
	case template.PositionRight:
		return pt.page.Width - pt.page.Margins.Right - w
	default:
		return pt.page.Margins.Left
	}
}

func alignFor(pos template.HorizontalPosition) string {
	switch pos {
	case template.PositionCenter:
		return "C"
	case template.PositionRight:
		return "R"
	default:
		return "L"
	}
}

// hexColor parses "#RRGGBB" into components. Empty or malformed values
// come out black.
func hexColor(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
