package template

// ContentSection is the main body of a report: an info-field grid, an image
// grid, a result block, and any number of custom sections. It is always
// present on a Template, though each part can be hidden individually.
type ContentSection struct {
	InfoFields InfoFieldsLayout `json:"infoFields"`
	ImageGrid  ImageGridLayout  `json:"imageGrid"`
	Result     ResultSection    `json:"result"`
	Custom     []CustomSection  `json:"custom,omitempty"`
}

// InfoFieldsLayout arranges labelled placeholder fields in one or two
// columns.
type InfoFieldsLayout struct {
	Visible bool        `json:"visible"`
	Columns int         `json:"columns"` // 1 or 2
	Fields  []InfoField `json:"fields"`

	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize"`
	RowSpacing    float64 `json:"rowSpacing,omitempty"`
	ColumnSpacing float64 `json:"columnSpacing,omitempty"`
	ShowBorder    bool    `json:"showBorder,omitempty"`
	BorderColor   string  `json:"borderColor,omitempty"`
	Padding       float64 `json:"padding,omitempty"`
}

// InfoField is one label/value pair in the info grid. Order is a per-column
// row rank; in two-column mode fields with the same rank share a row.
type InfoField struct {
	Label          string `json:"label"`
	PlaceholderKey string `json:"placeholderKey"`
	Column         int    `json:"column"` // 0 = left, 1 = right
	Order          int    `json:"order"`

	Visible    bool    `json:"visible"`
	LabelBold  bool    `json:"labelBold,omitempty"`
	ValueBold  bool    `json:"valueBold,omitempty"`
	Separator  string  `json:"separator,omitempty"` // between label and value, default ":"
	LabelWidth float64 `json:"labelWidth,omitempty"` // mm, 0 = auto
}

// ImageScaleMode controls how a grid image fills its cell.
type ImageScaleMode string

const (
	ScaleUniform ImageScaleMode = "uniform" // keep aspect ratio, fit within bounds
	ScaleFill    ImageScaleMode = "fill"    // fill the cell, may crop
	ScaleStretch ImageScaleMode = "stretch" // fill the cell, may distort
	ScaleNone    ImageScaleMode = "none"    // original size
)

// ImageGridLayout places report images into a fixed grid.
type ImageGridLayout struct {
	Visible   bool `json:"visible"`
	Columns   int  `json:"columns"`
	Rows      int  `json:"rows"`
	MaxImages int  `json:"maxImages"`

	Spacing         float64        `json:"spacing,omitempty"`
	ShowBorder      bool           `json:"showBorder,omitempty"`
	BorderColor     string         `json:"borderColor,omitempty"`
	BorderThickness float64        `json:"borderThickness,omitempty"`
	ScaleMode       ImageScaleMode `json:"scaleMode,omitempty"`
	CornerRadius    float64        `json:"cornerRadius,omitempty"`
	ShowNumbers     bool           `json:"showNumbers,omitempty"`
}

// ResultSection is the labelled result/findings block. It is the only
// section that renders a "-" literal when its placeholder resolves empty.
type ResultSection struct {
	Visible        bool   `json:"visible"`
	Label          string `json:"label"`
	PlaceholderKey string `json:"placeholderKey"`

	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize"`
	LabelBold   bool    `json:"labelBold,omitempty"`
	ValueBold   bool    `json:"valueBold,omitempty"`
	MinHeight   float64 `json:"minHeight,omitempty"`
	ShowBorder  bool    `json:"showBorder,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
}

// SectionKind selects the behavior of a custom section.
type SectionKind string

const (
	SectionText      SectionKind = "text"
	SectionTable     SectionKind = "table"
	SectionSeparator SectionKind = "separator"
	SectionSpacer    SectionKind = "spacer"
	SectionImage     SectionKind = "image"
	SectionBarcode   SectionKind = "barcode"
)

// BarcodeFormat selects the symbology for barcode sections and elements.
type BarcodeFormat string

const (
	BarcodeQR      BarcodeFormat = "qr"
	BarcodeCode128 BarcodeFormat = "code128"
	BarcodePDF417  BarcodeFormat = "pdf417"
)

// CustomSection is an additional content block appended after the fixed
// sections, ordered by Order.
//
// The meaning of Content depends on Kind: literal text for SectionText, a
// numeric height for SectionSpacer, a file path for SectionImage, and the
// encoded payload for SectionBarcode. Separators ignore it. When
// PlaceholderKey is set it is resolved and takes the place of Content.
type CustomSection struct {
	Name           string        `json:"name,omitempty"`
	Order          int           `json:"order"`
	Visible        bool          `json:"visible"`
	Kind           SectionKind   `json:"kind"`
	Content        string        `json:"content,omitempty"`
	PlaceholderKey string        `json:"placeholderKey,omitempty"`
	Barcode        BarcodeFormat `json:"barcode,omitempty"`

	FontFamily   string    `json:"fontFamily,omitempty"`
	FontSize     float64   `json:"fontSize,omitempty"`
	Bold         bool      `json:"bold,omitempty"`
	Align        Alignment `json:"align,omitempty"`
	MarginTop    float64   `json:"marginTop,omitempty"`
	MarginBottom float64   `json:"marginBottom,omitempty"`
}
