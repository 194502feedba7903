package template

// FooterSection is the page footer: a signature block, a date/location
// block, and an ordered list of extra elements.
type FooterSection struct {
	Visible bool    `json:"visible"`
	Height  float64 `json:"height"` // mm

	Signature    SignatureBlock    `json:"signature"`
	DateLocation DateLocationBlock `json:"dateLocation"`
	Elements     []FooterElement   `json:"elements,omitempty"`

	BorderTop       bool    `json:"borderTop,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderThickness float64 `json:"borderThickness,omitempty"`
}

// SignatureBlock renders a title, an empty signing space, and the resolved
// staff name with optional credentials underneath.
type SignatureBlock struct {
	Visible        bool   `json:"visible"`
	Title          string `json:"title"`
	NameKey        string `json:"nameKey"`
	CredentialsKey string `json:"credentialsKey,omitempty"`

	SpaceHeight float64            `json:"spaceHeight"` // mm reserved for the signature
	Position    HorizontalPosition `json:"position"`
	FontFamily  string             `json:"fontFamily,omitempty"`
	FontSize    float64            `json:"fontSize"`
	ShowLine    bool               `json:"showLine,omitempty"`
	LineWidth   float64            `json:"lineWidth,omitempty"` // mm
}

// DateLocationBlock renders "City, 12 Maret 2024" style text. CustomText,
// when set, replaces the whole computed string verbatim. CityName takes
// priority over the report data's city.
type DateLocationBlock struct {
	Visible    bool   `json:"visible"`
	CityName   string `json:"cityName,omitempty"`
	CustomText string `json:"customText,omitempty"`
	DateFormat string `json:"dateFormat"` // e.g. "dd MMMM yyyy"
	Culture    string `json:"culture"`    // e.g. "id-ID"

	Position   HorizontalPosition `json:"position"`
	FontFamily string             `json:"fontFamily,omitempty"`
	FontSize   float64            `json:"fontSize"`
}

// ElementKind selects the behavior of an extra footer element.
type ElementKind string

const (
	ElementText       ElementKind = "text"
	ElementPageNumber ElementKind = "pageNumber"
	ElementDateTime   ElementKind = "dateTime"
	ElementImage      ElementKind = "image"
	ElementSeparator  ElementKind = "separator"
	ElementBarcode    ElementKind = "barcode"
)

// FooterElement is an extra footer item, ordered by Order. PageNumber and
// DateTime elements are not resolved during composition; they become
// deferred tokens that the renderer fills in at paint time.
type FooterElement struct {
	Name           string        `json:"name,omitempty"`
	Order          int           `json:"order"`
	Kind           ElementKind   `json:"kind"`
	Content        string        `json:"content,omitempty"`
	PlaceholderKey string        `json:"placeholderKey,omitempty"`
	Barcode        BarcodeFormat `json:"barcode,omitempty"`

	Position   HorizontalPosition `json:"position"`
	FontFamily string             `json:"fontFamily,omitempty"`
	FontSize   float64            `json:"fontSize"`
	FontColor  string             `json:"fontColor,omitempty"`
	Bold       bool               `json:"bold,omitempty"`
	Italic     bool               `json:"italic,omitempty"`
	Visible    bool               `json:"visible"`
}
