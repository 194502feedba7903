// Package template defines the declarative report layout model and the
// fluent builder that constructs it.
//
// A Template describes page geometry plus three sections: an optional
// header (logos and text lines), a content section that is always present
// (info-field grid, image grid, result block, custom sections), and an
// optional footer (signature, date/location, extra elements). Text anywhere
// in a template may reference placeholder keys such as {SubjectName} that
// are bound to live report data during composition.
//
// Templates are built once, either through the Builder or by loading a
// stored definition, and are read-only afterwards. The composition engine
// never mutates a template.
package template

import "time"

// PaperSize selects a named page format.
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperA5     PaperSize = "A5"
	PaperLetter PaperSize = "Letter"
	Paper4R     PaperSize = "4x6" // 4x6 inch photo paper
	Paper5R     PaperSize = "5x7" // 5x7 inch photo paper
	PaperCustom PaperSize = "Custom"
)

// Orientation selects page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Alignment is a horizontal text alignment: "L", "C", "R" or "J".
type Alignment string

const (
	AlignLeft    Alignment = "L"
	AlignCenter  Alignment = "C"
	AlignRight   Alignment = "R"
	AlignJustify Alignment = "J"
)

// HorizontalPosition places a block within the page width.
type HorizontalPosition string

const (
	PositionLeft   HorizontalPosition = "left"
	PositionCenter HorizontalPosition = "center"
	PositionRight  HorizontalPosition = "right"
)

// Size is a custom paper size in millimetres.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margins are page margins in millimetres.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins returns the standard 20mm margins.
func DefaultMargins() Margins {
	return Margins{Top: 20, Right: 20, Bottom: 20, Left: 20}
}

// UniformMargins returns margins with the same value on all sides.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// Template is a complete report layout description.
//
// ID 0 means the template has not been persisted. Header and Footer may be
// nil; Content is always present. Within a stored collection at most one
// template is the default, which the repository enforces, not this package.
type Template struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Paper       PaperSize   `json:"paper"`
	CustomSize  *Size       `json:"customSize,omitempty"` // used when Paper is PaperCustom
	Orientation Orientation `json:"orientation"`
	Margins     Margins     `json:"margins"`

	Header  *HeaderSection `json:"header,omitempty"`
	Content ContentSection `json:"content"`
	Footer  *FooterSection `json:"footer,omitempty"`

	IsDefault bool      `json:"isDefault"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
