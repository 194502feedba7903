package template

import "strconv"

// Builder constructs a Template step by step. Configuration accumulates in
// the builder; nothing is observable until Build returns the finished value.
// Builder methods never fail: validation of names, keys and dimensions is
// deferred to the repository and the composition engine.
//
//	tpl := template.New().
//		SetName("Radiology A4").
//		Header(func(h *template.HeaderBuilder) {
//			h.AddPlaceholderLine("{InstitutionName}", 16, true, template.AlignCenter)
//		}).
//		Build()
type Builder struct {
	t Template
}

// New returns a Builder preloaded with the standard defaults: portrait A4,
// 20mm margins, a visible content section and no header or footer.
func New() *Builder {
	return &Builder{t: Template{
		Paper:       PaperA4,
		Orientation: Portrait,
		Margins:     DefaultMargins(),
		Content:     defaultContent(),
		IsActive:    true,
	}}
}

// Edit returns a Builder seeded from an existing template, for deriving a
// modified copy. The original value is not touched.
func Edit(t *Template) *Builder {
	b := &Builder{t: *t}
	b.t = cloneTemplate(&b.t)
	return b
}

func (b *Builder) SetName(name string) *Builder {
	b.t.Name = name
	return b
}

func (b *Builder) SetDescription(desc string) *Builder {
	b.t.Description = desc
	return b
}

func (b *Builder) SetPaper(size PaperSize) *Builder {
	b.t.Paper = size
	return b
}

// SetCustomPaper switches to a custom page size in millimetres.
func (b *Builder) SetCustomPaper(width, height float64) *Builder {
	b.t.Paper = PaperCustom
	b.t.CustomSize = &Size{Width: width, Height: height}
	return b
}

func (b *Builder) SetOrientation(o Orientation) *Builder {
	b.t.Orientation = o
	return b
}

func (b *Builder) SetMargins(m Margins) *Builder {
	b.t.Margins = m
	return b
}

// Header configures the header section through a nested builder. Calling it
// again reconfigures the section from scratch.
func (b *Builder) Header(configure func(*HeaderBuilder)) *Builder {
	hb := &HeaderBuilder{h: defaultHeader()}
	configure(hb)
	b.t.Header = &hb.h
	return b
}

// NoHeader removes the header section.
func (b *Builder) NoHeader() *Builder {
	b.t.Header = nil
	return b
}

// Content configures the content section through a nested builder.
func (b *Builder) Content(configure func(*ContentBuilder)) *Builder {
	cb := &ContentBuilder{c: defaultContent()}
	configure(cb)
	b.t.Content = cb.c
	return b
}

// Footer configures the footer section through a nested builder.
func (b *Builder) Footer(configure func(*FooterBuilder)) *Builder {
	fb := &FooterBuilder{f: defaultFooter()}
	configure(fb)
	b.t.Footer = &fb.f
	return b
}

// NoFooter removes the footer section.
func (b *Builder) NoFooter() *Builder {
	b.t.Footer = nil
	return b
}

// Build materializes the template. The returned value is independent of the
// builder: further builder calls do not affect it.
func (b *Builder) Build() Template {
	return cloneTemplate(&b.t)
}

// HeaderBuilder configures a HeaderSection.
type HeaderBuilder struct {
	h HeaderSection
}

func defaultHeader() HeaderSection {
	return HeaderSection{
		Visible:         true,
		Height:          40,
		LeftLogo:        LogoPlacement{Visible: true, Width: 25, Height: 25},
		RightLogo:       LogoPlacement{Visible: true, Width: 25, Height: 25},
		BorderBottom:    true,
		BorderColor:     "#000000",
		BorderThickness: 1,
	}
}

func (b *HeaderBuilder) SetHeight(mm float64) *HeaderBuilder {
	b.h.Height = mm
	return b
}

// LeftLogo configures the left logo slot. An empty path keeps the slot
// bound to the institution's logo bytes at composition time.
func (b *HeaderBuilder) LeftLogo(width, height float64, path string) *HeaderBuilder {
	b.h.LeftLogo = LogoPlacement{Visible: true, Width: width, Height: height, ImagePath: path}
	return b
}

// RightLogo configures the right logo slot.
func (b *HeaderBuilder) RightLogo(width, height float64, path string) *HeaderBuilder {
	b.h.RightLogo = LogoPlacement{Visible: true, Width: width, Height: height, ImagePath: path}
	return b
}

func (b *HeaderBuilder) NoLeftLogo() *HeaderBuilder {
	b.h.LeftLogo.Visible = false
	return b
}

func (b *HeaderBuilder) NoRightLogo() *HeaderBuilder {
	b.h.RightLogo.Visible = false
	return b
}

// AddLine appends a literal text line. Order is assigned by append
// position, starting at 1; the builder does not support reordering.
func (b *HeaderBuilder) AddLine(text string, fontSize float64, bold bool, align Alignment) *HeaderBuilder {
	b.h.Lines = append(b.h.Lines, HeaderLine{
		Order:    len(b.h.Lines) + 1,
		Text:     text,
		FontSize: fontSize,
		Bold:     bold,
		Align:    align,
		Visible:  true,
	})
	return b
}

// AddPlaceholderLine appends a line whose text is resolved from a
// placeholder key at composition time.
func (b *HeaderBuilder) AddPlaceholderLine(key string, fontSize float64, bold bool, align Alignment) *HeaderBuilder {
	b.h.Lines = append(b.h.Lines, HeaderLine{
		Order:          len(b.h.Lines) + 1,
		PlaceholderKey: key,
		FontSize:       fontSize,
		Bold:           bold,
		Align:          align,
		Visible:        true,
	})
	return b
}

func (b *HeaderBuilder) BorderBottom(color string, thickness float64) *HeaderBuilder {
	b.h.BorderBottom = true
	b.h.BorderColor = color
	b.h.BorderThickness = thickness
	return b
}

func (b *HeaderBuilder) NoBorderBottom() *HeaderBuilder {
	b.h.BorderBottom = false
	return b
}

// ContentBuilder configures a ContentSection.
type ContentBuilder struct {
	c ContentSection
}

func defaultContent() ContentSection {
	return ContentSection{
		InfoFields: InfoFieldsLayout{
			Visible:       true,
			Columns:       2,
			FontFamily:    "Arial",
			FontSize:      12,
			RowSpacing:    2,
			ColumnSpacing: 10,
			BorderColor:   "#CCCCCC",
			Padding:       3,
		},
		ImageGrid: ImageGridLayout{
			Visible:         true,
			Columns:         2,
			Rows:            2,
			MaxImages:       4,
			Spacing:         4,
			BorderColor:     "#CCCCCC",
			BorderThickness: 1,
			ScaleMode:       ScaleUniform,
		},
		Result: ResultSection{
			Visible:        true,
			Label:          "Hasil Pemeriksaan",
			PlaceholderKey: "{ExamResult}",
			FontFamily:     "Arial",
			FontSize:       12,
			LabelBold:      true,
			MinHeight:      20,
			BorderColor:    "#CCCCCC",
			Padding:        3,
		},
	}
}

// InfoFields configures the info-field grid through a nested builder.
func (b *ContentBuilder) InfoFields(configure func(*InfoFieldsBuilder)) *ContentBuilder {
	fb := &InfoFieldsBuilder{l: defaultContent().InfoFields}
	configure(fb)
	b.c.InfoFields = fb.l
	return b
}

// ImageGrid configures the image grid with the common parameters.
func (b *ContentBuilder) ImageGrid(columns, rows, maxImages int, spacing float64) *ContentBuilder {
	g := defaultContent().ImageGrid
	g.Columns = columns
	g.Rows = rows
	g.MaxImages = maxImages
	g.Spacing = spacing
	b.c.ImageGrid = g
	return b
}

// ConfigureImageGrid exposes the full image-grid builder.
func (b *ContentBuilder) ConfigureImageGrid(configure func(*ImageGridBuilder)) *ContentBuilder {
	gb := &ImageGridBuilder{g: defaultContent().ImageGrid}
	configure(gb)
	b.c.ImageGrid = gb.g
	return b
}

// Result configures the result block label.
func (b *ContentBuilder) Result(label string, labelBold bool) *ContentBuilder {
	b.c.Result.Visible = true
	b.c.Result.Label = label
	b.c.Result.LabelBold = labelBold
	return b
}

func (b *ContentBuilder) NoResult() *ContentBuilder {
	b.c.Result.Visible = false
	return b
}

// AddTextSection appends a custom text section with literal content.
func (b *ContentBuilder) AddTextSection(name, content string) *ContentBuilder {
	return b.addSection(CustomSection{Name: name, Kind: SectionText, Content: content})
}

// AddPlaceholderSection appends a custom text section resolved from a key.
func (b *ContentBuilder) AddPlaceholderSection(name, key string) *ContentBuilder {
	return b.addSection(CustomSection{Name: name, Kind: SectionText, PlaceholderKey: key})
}

// AddSpacer appends a vertical gap of the given height in millimetres.
func (b *ContentBuilder) AddSpacer(height float64) *ContentBuilder {
	return b.addSection(CustomSection{Kind: SectionSpacer, Content: strconv.FormatFloat(height, 'f', -1, 64)})
}

// AddSeparator appends a horizontal rule.
func (b *ContentBuilder) AddSeparator() *ContentBuilder {
	return b.addSection(CustomSection{Kind: SectionSeparator})
}

// AddBarcodeSection appends a barcode whose payload is resolved from a key.
func (b *ContentBuilder) AddBarcodeSection(name, key string, format BarcodeFormat) *ContentBuilder {
	return b.addSection(CustomSection{Name: name, Kind: SectionBarcode, PlaceholderKey: key, Barcode: format})
}

func (b *ContentBuilder) addSection(s CustomSection) *ContentBuilder {
	s.Order = len(b.c.Custom) + 1
	s.Visible = true
	if s.FontSize == 0 {
		s.FontSize = 12
	}
	if s.FontFamily == "" {
		s.FontFamily = "Arial"
	}
	if s.Align == "" {
		s.Align = AlignLeft
	}
	b.c.Custom = append(b.c.Custom, s)
	return b
}

// InfoFieldsBuilder configures an InfoFieldsLayout.
type InfoFieldsBuilder struct {
	l InfoFieldsLayout
}

// Columns sets the column count (1 or 2).
func (b *InfoFieldsBuilder) Columns(n int) *InfoFieldsBuilder {
	b.l.Columns = n
	return b
}

// AddField appends a field to the given column. The row rank is computed
// per column: the number of fields already in that column, plus one. In
// two-column mode fields with equal ranks pair up on the same row.
func (b *InfoFieldsBuilder) AddField(label, placeholderKey string, column int) *InfoFieldsBuilder {
	inColumn := 0
	for _, f := range b.l.Fields {
		if f.Column == column {
			inColumn++
		}
	}
	b.l.Fields = append(b.l.Fields, InfoField{
		Label:          label,
		PlaceholderKey: placeholderKey,
		Column:         column,
		Order:          inColumn + 1,
		Visible:        true,
		Separator:      ":",
	})
	return b
}

func (b *InfoFieldsBuilder) FontSize(size float64) *InfoFieldsBuilder {
	b.l.FontSize = size
	return b
}

// ImageGridBuilder configures an ImageGridLayout.
type ImageGridBuilder struct {
	g ImageGridLayout
}

// Grid sets the dimensions and caps MaxImages at the cell count.
func (b *ImageGridBuilder) Grid(columns, rows int) *ImageGridBuilder {
	b.g.Columns = columns
	b.g.Rows = rows
	b.g.MaxImages = columns * rows
	return b
}

func (b *ImageGridBuilder) MaxImages(n int) *ImageGridBuilder {
	b.g.MaxImages = n
	return b
}

func (b *ImageGridBuilder) Spacing(mm float64) *ImageGridBuilder {
	b.g.Spacing = mm
	return b
}

func (b *ImageGridBuilder) Border(color string, thickness float64) *ImageGridBuilder {
	b.g.ShowBorder = true
	b.g.BorderColor = color
	b.g.BorderThickness = thickness
	return b
}

func (b *ImageGridBuilder) ScaleMode(mode ImageScaleMode) *ImageGridBuilder {
	b.g.ScaleMode = mode
	return b
}

// FooterBuilder configures a FooterSection.
type FooterBuilder struct {
	f FooterSection
}

func defaultFooter() FooterSection {
	return FooterSection{
		Visible: true,
		Height:  45,
		Signature: SignatureBlock{
			Visible:        true,
			Title:          "Dokter Pemeriksa",
			NameKey:        "{StaffName}",
			CredentialsKey: "{StaffCredentials}",
			SpaceHeight:    20,
			Position:       PositionRight,
			FontFamily:     "Arial",
			FontSize:       12,
			LineWidth:      60,
		},
		DateLocation: DateLocationBlock{
			Visible:    true,
			DateFormat: "dd MMMM yyyy",
			Culture:    "id-ID",
			Position:   PositionRight,
			FontFamily: "Arial",
			FontSize:   12,
		},
		BorderColor:     "#000000",
		BorderThickness: 1,
	}
}

func (b *FooterBuilder) SetHeight(mm float64) *FooterBuilder {
	b.f.Height = mm
	return b
}

// Signature configures the signature block title and signing space.
func (b *FooterBuilder) Signature(title string, spaceHeight float64) *FooterBuilder {
	b.f.Signature.Visible = true
	b.f.Signature.Title = title
	b.f.Signature.SpaceHeight = spaceHeight
	return b
}

func (b *FooterBuilder) NoSignature() *FooterBuilder {
	b.f.Signature.Visible = false
	return b
}

// DateLocation configures the city and date format for the date/location
// line. An empty city falls back to the report data's city at composition.
func (b *FooterBuilder) DateLocation(city, dateFormat string) *FooterBuilder {
	b.f.DateLocation.Visible = true
	b.f.DateLocation.CityName = city
	b.f.DateLocation.DateFormat = dateFormat
	return b
}

func (b *FooterBuilder) BorderTop(color string, thickness float64) *FooterBuilder {
	b.f.BorderTop = true
	b.f.BorderColor = color
	b.f.BorderThickness = thickness
	return b
}

// AddPageNumber appends a deferred page-number element.
func (b *FooterBuilder) AddPageNumber() *FooterBuilder {
	return b.addElement(FooterElement{Kind: ElementPageNumber, Position: PositionCenter})
}

// AddDateTime appends a deferred print-time element.
func (b *FooterBuilder) AddDateTime() *FooterBuilder {
	return b.addElement(FooterElement{Kind: ElementDateTime, Position: PositionCenter})
}

// AddText appends a literal text element.
func (b *FooterBuilder) AddText(content string, pos HorizontalPosition) *FooterBuilder {
	return b.addElement(FooterElement{Kind: ElementText, Content: content, Position: pos})
}

// AddBarcode appends a barcode element whose payload is resolved from a key.
func (b *FooterBuilder) AddBarcode(key string, format BarcodeFormat, pos HorizontalPosition) *FooterBuilder {
	return b.addElement(FooterElement{Kind: ElementBarcode, PlaceholderKey: key, Barcode: format, Position: pos})
}

func (b *FooterBuilder) addElement(e FooterElement) *FooterBuilder {
	e.Order = len(b.f.Elements) + 1
	e.Visible = true
	if e.FontSize == 0 {
		e.FontSize = 10
	}
	if e.FontFamily == "" {
		e.FontFamily = "Arial"
	}
	b.f.Elements = append(b.f.Elements, e)
	return b
}

// cloneTemplate deep-copies the slice- and pointer-valued parts so built
// templates never alias builder state.
func cloneTemplate(t *Template) Template {
	out := *t
	if t.CustomSize != nil {
		cs := *t.CustomSize
		out.CustomSize = &cs
	}
	if t.Header != nil {
		h := *t.Header
		h.Lines = append([]HeaderLine(nil), t.Header.Lines...)
		h.LeftLogo.ImageData = append([]byte(nil), t.Header.LeftLogo.ImageData...)
		h.RightLogo.ImageData = append([]byte(nil), t.Header.RightLogo.ImageData...)
		out.Header = &h
	}
	out.Content.InfoFields.Fields = append([]InfoField(nil), t.Content.InfoFields.Fields...)
	out.Content.Custom = append([]CustomSection(nil), t.Content.Custom...)
	if t.Footer != nil {
		f := *t.Footer
		f.Elements = append([]FooterElement(nil), t.Footer.Elements...)
		out.Footer = &f
	}
	return out
}
