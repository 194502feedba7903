// Package compose turns a template plus one report data instance into a
// fully resolved, renderer-agnostic layout tree.
//
// No placeholder key survives into the tree: every text node carries final
// display text and every image node carries decoded-ready bytes. The two
// exceptions are page numbers and print timestamps, which cannot be known
// until pagination; those are emitted as deferred node kinds that the
// renderer fills in at paint time.
package compose

import "github.com/lvillar/reportgen/template"

// Layout is the ordered forest produced by Compose. Header and Footer are
// nil when the corresponding section is absent or invisible.
type Layout struct {
	Header  *HeaderBlock
	Content ContentBlock
	Footer  *FooterBlock
}

// TextStyle is the resolved styling of a text node.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	Bold       bool
	Italic     bool
	Underline  bool
	Color      string // hex
	Align      template.Alignment
}

// Rule is a resolved horizontal line.
type Rule struct {
	Color     string
	Thickness float64
}

// TextLine is one resolved line of text.
type TextLine struct {
	Text         string
	Style        TextStyle
	MarginTop    float64
	MarginBottom float64
}

// LogoImage is a resolved header logo.
type LogoImage struct {
	Data   []byte
	Width  float64 // mm
	Height float64 // mm
}

// HeaderBlock is the resolved header.
type HeaderBlock struct {
	Height    float64
	LeftLogo  *LogoImage
	RightLogo *LogoImage
	Lines     []TextLine
	Border    *Rule // nil when disabled
}

// ContentBlock is the resolved content section. Any part may be nil/empty
// when hidden or without data.
type ContentBlock struct {
	InfoFields *FieldGrid
	ImageGrid  *ImageGrid
	Result     *ResultBlock
	Sections   []Section
}

// FieldGrid is the resolved info-field table. Columns is 1 or 2; in
// one-column mode every row has only a Left cell.
type FieldGrid struct {
	Columns       int
	Rows          []FieldRow
	FontFamily    string
	FontSize      float64
	RowSpacing    float64
	ColumnSpacing float64
	Border        *Rule
	Padding       float64
}

// FieldRow pairs up to two cells on one grid row. A nil cell renders as a
// blank slot.
type FieldRow struct {
	Left  *FieldCell
	Right *FieldCell
}

// FieldCell is one resolved label/separator/value triple.
type FieldCell struct {
	Label      string
	Separator  string
	Value      string
	LabelBold  bool
	ValueBold  bool
	LabelWidth float64 // mm, 0 = auto
}

// ImageGrid is the resolved image grid with row-major cell placement.
type ImageGrid struct {
	Columns   int
	Rows      int
	Spacing   float64
	Border    *Rule
	ScaleMode template.ImageScaleMode
	Cells     []ImageCell
}

// ImageCell is one placed image.
type ImageCell struct {
	Row     int
	Col     int
	Data    []byte
	Caption string
}

// ResultBlock is the resolved result section. Value is never empty: an
// empty resolution renders as "-".
type ResultBlock struct {
	Label      string
	Value      string
	FontFamily string
	FontSize   float64
	LabelBold  bool
	ValueBold  bool
	MinHeight  float64
	Border     *Rule
	Padding    float64
}

// Section is a resolved custom section.
type Section struct {
	Kind         template.SectionKind
	Text         string  // SectionText
	Height       float64 // SectionSpacer
	Image        []byte  // SectionImage and SectionBarcode (PNG)
	Style        TextStyle
	MarginTop    float64
	MarginBottom float64
}

// NodeKind tags a footer element node. Deferred kinds carry render-time
// semantics the renderer must fill in: the page number is unknown until
// pagination and the print timestamp is taken at paint time.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeImage
	NodeSeparator
	NodePageNumber // deferred
	NodeDateTime   // deferred
)

// FooterNode is one resolved extra footer element.
type FooterNode struct {
	Kind     NodeKind
	Text     string
	Image    []byte
	Position template.HorizontalPosition
	Style    TextStyle
}

// PositionedText is a resolved, positioned line such as the date/location
// block.
type PositionedText struct {
	Text       string
	Position   template.HorizontalPosition
	FontFamily string
	FontSize   float64
}

// SignatureNode is the resolved signature block. Name is never empty: an
// unresolved name renders as "-". Credentials is empty when not configured
// or unresolved, in which case the renderer omits the line.
type SignatureNode struct {
	Title       string
	Name        string
	Credentials string
	SpaceHeight float64
	Line        *Rule   // nil when no signing line
	LineWidth   float64 // mm
	Position    template.HorizontalPosition
	FontFamily  string
	FontSize    float64
}

// FooterBlock is the resolved footer.
type FooterBlock struct {
	Height       float64
	Border       *Rule // top border, nil when disabled
	DateLocation *PositionedText
	Signature    *SignatureNode
	Elements     []FooterNode
}
