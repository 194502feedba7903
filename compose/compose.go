package compose

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/report"
	"github.com/lvillar/reportgen/template"
)

// Engine walks templates against report data. Engines hold only the
// resolver and are safe for concurrent use; Compose never mutates its
// inputs.
type Engine struct {
	res *placeholder.Resolver
}

// NewEngine returns an Engine using the given resolver, or the default
// resolver when nil.
func NewEngine(res *placeholder.Resolver) *Engine {
	if res == nil {
		res = placeholder.NewResolver()
	}
	return &Engine{res: res}
}

// Compose resolves tpl against data with the default resolver.
func Compose(tpl *template.Template, data *report.Data) (*Layout, error) {
	return NewEngine(nil).Compose(tpl, data)
}

// Compose builds the layout tree. Missing or empty data degrades to blank
// output per section rules; the only fatal conditions are malformed spacer
// heights, extension values without a text form, and barcode payloads that
// cannot be encoded. On error no partial tree is returned.
func (e *Engine) Compose(tpl *template.Template, data *report.Data) (*Layout, error) {
	if data == nil {
		data = &report.Data{}
	}
	lay := &Layout{}

	if tpl.Header != nil && tpl.Header.Visible {
		h, err := e.composeHeader(tpl.Header, data)
		if err != nil {
			return nil, err
		}
		lay.Header = h
	}

	content, err := e.composeContent(&tpl.Content, data)
	if err != nil {
		return nil, err
	}
	lay.Content = *content

	if tpl.Footer != nil && tpl.Footer.Visible {
		f, err := e.composeFooter(tpl.Footer, data)
		if err != nil {
			return nil, err
		}
		lay.Footer = f
	}

	return lay, nil
}

func (e *Engine) composeHeader(h *template.HeaderSection, data *report.Data) (*HeaderBlock, error) {
	block := &HeaderBlock{Height: h.Height}

	block.LeftLogo = logoImage(h.LeftLogo, data.Institution.LogoLeft)
	block.RightLogo = logoImage(h.RightLogo, data.Institution.LogoRight)

	for _, line := range visibleSortedLines(h.Lines) {
		text := line.Text
		if line.PlaceholderKey != "" {
			v, err := e.res.Resolve(line.PlaceholderKey, data)
			if err != nil {
				return nil, composeErr("header line", err)
			}
			if v != "" {
				text = v
			}
		}
		if text == "" {
			continue // no blank lines in the tree
		}
		block.Lines = append(block.Lines, TextLine{
			Text: text,
			Style: TextStyle{
				FontFamily: line.FontFamily,
				FontSize:   line.FontSize,
				Bold:       line.Bold,
				Italic:     line.Italic,
				Underline:  line.Underline,
				Color:      line.FontColor,
				Align:      line.Align,
			},
			MarginTop:    line.MarginTop,
			MarginBottom: line.MarginBottom,
		})
	}

	if h.BorderBottom {
		block.Border = &Rule{Color: h.BorderColor, Thickness: h.BorderThickness}
	}
	return block, nil
}

func visibleSortedLines(lines []template.HeaderLine) []template.HeaderLine {
	out := make([]template.HeaderLine, 0, len(lines))
	for _, l := range lines {
		if l.Visible {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// logoImage resolves a logo slot: inline bytes win, then the institution's
// logo, then a lazily read file path. A missing or unreadable file is
// silently omitted.
func logoImage(p template.LogoPlacement, institutionLogo []byte) *LogoImage {
	if !p.Visible {
		return nil
	}
	data := p.ImageData
	if len(data) == 0 {
		data = institutionLogo
	}
	if len(data) == 0 && p.ImagePath != "" {
		data, _ = os.ReadFile(p.ImagePath)
	}
	if len(data) == 0 {
		return nil
	}
	return &LogoImage{Data: data, Width: p.Width, Height: p.Height}
}

func (e *Engine) composeContent(c *template.ContentSection, data *report.Data) (*ContentBlock, error) {
	block := &ContentBlock{}

	grid, err := e.composeInfoFields(&c.InfoFields, data)
	if err != nil {
		return nil, err
	}
	block.InfoFields = grid

	if c.ImageGrid.Visible && len(data.Images) > 0 {
		block.ImageGrid = composeImageGrid(&c.ImageGrid, data.Images)
	}

	if c.Result.Visible {
		r, err := e.composeResult(&c.Result, data)
		if err != nil {
			return nil, err
		}
		block.Result = r
	}

	sections, err := e.composeCustomSections(c.Custom, data)
	if err != nil {
		return nil, err
	}
	block.Sections = sections

	return block, nil
}

func (e *Engine) composeInfoFields(l *template.InfoFieldsLayout, data *report.Data) (*FieldGrid, error) {
	if !l.Visible {
		return nil, nil
	}
	fields := make([]template.InfoField, 0, len(l.Fields))
	for _, f := range l.Fields {
		if f.Visible {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}

	grid := &FieldGrid{
		Columns:       l.Columns,
		FontFamily:    l.FontFamily,
		FontSize:      l.FontSize,
		RowSpacing:    l.RowSpacing,
		ColumnSpacing: l.ColumnSpacing,
		Padding:       l.Padding,
	}
	if l.ShowBorder {
		grid.Border = &Rule{Color: l.BorderColor}
	}

	if l.Columns == 2 {
		rows, err := e.twoColumnRows(fields, data)
		if err != nil {
			return nil, err
		}
		grid.Rows = rows
		return grid, nil
	}

	// One-column mode ignores Column and lays fields out flat by Order.
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	for _, f := range fields {
		cell, err := e.fieldCell(f, data)
		if err != nil {
			return nil, err
		}
		grid.Rows = append(grid.Rows, FieldRow{Left: cell})
	}
	grid.Columns = 1
	return grid, nil
}

// twoColumnRows pairs fields row by row over the union of per-column row
// ranks, in ascending rank order. A rank present in only one column leaves
// the other slot blank.
func (e *Engine) twoColumnRows(fields []template.InfoField, data *report.Data) ([]FieldRow, error) {
	byRank := make(map[int]*FieldRow)
	ranks := make([]int, 0, len(fields))
	for _, f := range fields {
		row, ok := byRank[f.Order]
		if !ok {
			row = &FieldRow{}
			byRank[f.Order] = row
			ranks = append(ranks, f.Order)
		}
		cell, err := e.fieldCell(f, data)
		if err != nil {
			return nil, err
		}
		if f.Column == 0 {
			row.Left = cell
		} else {
			row.Right = cell
		}
	}
	sort.Ints(ranks)

	rows := make([]FieldRow, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, *byRank[r])
	}
	return rows, nil
}

func (e *Engine) fieldCell(f template.InfoField, data *report.Data) (*FieldCell, error) {
	value, err := e.res.Resolve(f.PlaceholderKey, data)
	if err != nil {
		return nil, composeErr(fmt.Sprintf("info field %q", f.Label), err)
	}
	sep := f.Separator
	if sep == "" {
		sep = ":"
	}
	return &FieldCell{
		Label:      f.Label,
		Separator:  sep,
		Value:      value,
		LabelBold:  f.LabelBold,
		ValueBold:  f.ValueBold,
		LabelWidth: f.LabelWidth,
	}, nil
}

// composeImageGrid sorts images by their capture order, truncates to the
// configured maximum, and places them row-major. Images without bytes or a
// readable file are dropped but still consume their grid slot.
func composeImageGrid(l *template.ImageGridLayout, images []report.Image) *ImageGrid {
	sorted := make([]report.Image, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	max := l.MaxImages
	if max <= 0 || max > l.Columns*l.Rows {
		max = l.Columns * l.Rows
	}
	if len(sorted) > max {
		sorted = sorted[:max]
	}

	grid := &ImageGrid{
		Columns:   l.Columns,
		Rows:      l.Rows,
		Spacing:   l.Spacing,
		ScaleMode: l.ScaleMode,
	}
	if l.ShowBorder {
		grid.Border = &Rule{Color: l.BorderColor, Thickness: l.BorderThickness}
	}

	for i, img := range sorted {
		data := img.Data
		if len(data) == 0 && img.FilePath != "" {
			data, _ = os.ReadFile(img.FilePath)
		}
		if len(data) == 0 {
			continue
		}
		grid.Cells = append(grid.Cells, ImageCell{
			Row:     i / l.Columns,
			Col:     i % l.Columns,
			Data:    data,
			Caption: img.Caption,
		})
	}
	return grid
}

func (e *Engine) composeResult(r *template.ResultSection, data *report.Data) (*ResultBlock, error) {
	value, err := e.res.Resolve(r.PlaceholderKey, data)
	if err != nil {
		return nil, composeErr("result", err)
	}
	if value == "" {
		value = "-"
	}
	block := &ResultBlock{
		Label:      r.Label,
		Value:      value,
		FontFamily: r.FontFamily,
		FontSize:   r.FontSize,
		LabelBold:  r.LabelBold,
		ValueBold:  r.ValueBold,
		MinHeight:  r.MinHeight,
		Padding:    r.Padding,
	}
	if r.ShowBorder {
		block.Border = &Rule{Color: r.BorderColor}
	}
	return block, nil
}

func (e *Engine) composeCustomSections(sections []template.CustomSection, data *report.Data) ([]Section, error) {
	visible := make([]template.CustomSection, 0, len(sections))
	for _, s := range sections {
		if s.Visible {
			visible = append(visible, s)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Order < visible[j].Order })

	var out []Section
	for i, s := range visible {
		where := fmt.Sprintf("custom section %d", i)

		content := s.Content
		if s.PlaceholderKey != "" {
			v, err := e.res.Resolve(s.PlaceholderKey, data)
			if err != nil {
				return nil, composeErr(where, err)
			}
			content = v
		}

		sec := Section{
			Kind: s.Kind,
			Style: TextStyle{
				FontFamily: s.FontFamily,
				FontSize:   s.FontSize,
				Bold:       s.Bold,
				Align:      s.Align,
			},
			MarginTop:    s.MarginTop,
			MarginBottom: s.MarginBottom,
		}

		switch s.Kind {
		case template.SectionText, template.SectionTable:
			if content == "" {
				continue
			}
			sec.Text = content
		case template.SectionSeparator:
			// height and margins only
		case template.SectionSpacer:
			h, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
			if err != nil {
				return nil, composeErr(where, fmt.Errorf("spacer height %q: %w", content, err))
			}
			sec.Height = h
		case template.SectionImage:
			b := sectionImage(content, s.PlaceholderKey, data)
			if len(b) == 0 {
				continue
			}
			sec.Image = b
		case template.SectionBarcode:
			if content == "" {
				continue
			}
			png, err := encodeBarcode(s.Barcode, content)
			if err != nil {
				return nil, composeErr(where, err)
			}
			sec.Image = png
		default:
			continue
		}
		out = append(out, sec)
	}
	return out, nil
}

// sectionImage loads an image section's bytes: an extension value holding
// raw bytes wins, then a file path in content. Missing files drop the
// section silently.
func sectionImage(content, key string, data *report.Data) []byte {
	if key != "" {
		name := strings.TrimSuffix(strings.TrimPrefix(key, "{"), "}")
		if v, ok := data.Extra[name]; ok {
			if b := v.BytesValue(); len(b) > 0 {
				return b
			}
		}
	}
	if content != "" {
		b, _ := os.ReadFile(content)
		return b
	}
	return nil
}

func (e *Engine) composeFooter(f *template.FooterSection, data *report.Data) (*FooterBlock, error) {
	block := &FooterBlock{Height: f.Height}
	if f.BorderTop {
		block.Border = &Rule{Color: f.BorderColor, Thickness: f.BorderThickness}
	}

	if f.DateLocation.Visible {
		block.DateLocation = e.dateLocation(&f.DateLocation, data)
	}

	if f.Signature.Visible {
		sig, err := e.signature(&f.Signature, data)
		if err != nil {
			return nil, err
		}
		block.Signature = sig
	}

	elements, err := e.footerElements(f.Elements, data)
	if err != nil {
		return nil, err
	}
	block.Elements = elements

	return block, nil
}

// dateLocation builds the "City, 12 Maret 2024" line. CustomText replaces
// the whole string verbatim; the block's CityName wins over the report's.
func (e *Engine) dateLocation(b *template.DateLocationBlock, data *report.Data) *PositionedText {
	text := b.CustomText
	if text == "" {
		city := b.CityName
		if city == "" {
			city = data.CityName
		}
		date := placeholder.FormatDate(e.res.Now(), b.DateFormat, b.Culture)
		if city != "" {
			text = city + ", " + date
		} else {
			text = date
		}
	}
	return &PositionedText{
		Text:       text,
		Position:   b.Position,
		FontFamily: b.FontFamily,
		FontSize:   b.FontSize,
	}
}

func (e *Engine) signature(s *template.SignatureBlock, data *report.Data) (*SignatureNode, error) {
	name, err := e.res.Resolve(s.NameKey, data)
	if err != nil {
		return nil, composeErr("signature name", err)
	}
	if name == "" {
		name = "-"
	}

	var credentials string
	if s.CredentialsKey != "" {
		credentials, err = e.res.Resolve(s.CredentialsKey, data)
		if err != nil {
			return nil, composeErr("signature credentials", err)
		}
	}

	node := &SignatureNode{
		Title:       s.Title,
		Name:        name,
		Credentials: credentials,
		SpaceHeight: s.SpaceHeight,
		LineWidth:   s.LineWidth,
		Position:    s.Position,
		FontFamily:  s.FontFamily,
		FontSize:    s.FontSize,
	}
	if s.ShowLine {
		node.Line = &Rule{}
	}
	return node, nil
}

func (e *Engine) footerElements(elements []template.FooterElement, data *report.Data) ([]FooterNode, error) {
	visible := make([]template.FooterElement, 0, len(elements))
	for _, el := range elements {
		if el.Visible {
			visible = append(visible, el)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Order < visible[j].Order })

	var out []FooterNode
	for i, el := range visible {
		where := fmt.Sprintf("footer element %d", i)

		node := FooterNode{
			Position: el.Position,
			Style: TextStyle{
				FontFamily: el.FontFamily,
				FontSize:   el.FontSize,
				Bold:       el.Bold,
				Italic:     el.Italic,
				Color:      el.FontColor,
			},
		}

		switch el.Kind {
		case template.ElementText:
			text := el.Content
			if el.PlaceholderKey != "" {
				v, err := e.res.Resolve(el.PlaceholderKey, data)
				if err != nil {
					return nil, composeErr(where, err)
				}
				if v != "" {
					text = v
				}
			}
			if text == "" {
				continue
			}
			node.Kind = NodeText
			node.Text = text
		case template.ElementPageNumber:
			node.Kind = NodePageNumber
			node.Text = el.Content // optional format, e.g. "Halaman {page}/{pages}"
		case template.ElementDateTime:
			node.Kind = NodeDateTime
			node.Text = el.Content // optional date pattern
		case template.ElementSeparator:
			node.Kind = NodeSeparator
		case template.ElementImage:
			b := sectionImage(el.Content, el.PlaceholderKey, data)
			if len(b) == 0 {
				continue
			}
			node.Kind = NodeImage
			node.Image = b
		case template.ElementBarcode:
			content := el.Content
			if el.PlaceholderKey != "" {
				v, err := e.res.Resolve(el.PlaceholderKey, data)
				if err != nil {
					return nil, composeErr(where, err)
				}
				content = v
			}
			if content == "" {
				continue
			}
			png, err := encodeBarcode(el.Barcode, content)
			if err != nil {
				return nil, composeErr(where, err)
			}
			node.Kind = NodeImage
			node.Image = png
		default:
			continue
		}
		out = append(out, node)
	}
	return out, nil
}
