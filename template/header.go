package template

// HeaderSection is the page header: two logo slots flanking an ordered set
// of text lines, with an optional bottom border.
type HeaderSection struct {
	Visible bool    `json:"visible"`
	Height  float64 `json:"height"` // mm

	LeftLogo  LogoPlacement `json:"leftLogo"`
	RightLogo LogoPlacement `json:"rightLogo"`

	Lines []HeaderLine `json:"lines"`

	BorderBottom    bool    `json:"borderBottom"`
	BorderColor     string  `json:"borderColor"` // hex, e.g. "#000000"
	BorderThickness float64 `json:"borderThickness"`
}

// LogoPlacement configures one logo slot. The image comes from ImageData
// when set, otherwise from the report data's institution logos, otherwise
// from ImagePath which is read lazily during composition.
type LogoPlacement struct {
	Visible   bool    `json:"visible"`
	Width     float64 `json:"width"`  // mm
	Height    float64 `json:"height"` // mm
	ImagePath string  `json:"imagePath,omitempty"`
	ImageData []byte  `json:"imageData,omitempty"`
}

// HeaderLine is a single line of header text. Text and PlaceholderKey are
// mutually exclusive per render: the placeholder wins when it resolves
// non-empty, otherwise the literal text is used.
type HeaderLine struct {
	Order          int    `json:"order"`
	Text           string `json:"text,omitempty"`
	PlaceholderKey string `json:"placeholderKey,omitempty"`

	FontFamily string    `json:"fontFamily,omitempty"`
	FontSize   float64   `json:"fontSize"`
	FontColor  string    `json:"fontColor,omitempty"`
	Bold       bool      `json:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty"`
	Underline  bool      `json:"underline,omitempty"`
	Align      Alignment `json:"align,omitempty"`

	Visible      bool    `json:"visible"`
	MarginTop    float64 `json:"marginTop,omitempty"`
	MarginBottom float64 `json:"marginBottom,omitempty"`
}
