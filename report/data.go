// Package report defines the data bound into a template for a single
// generation: institution, subject, examination and staff records, ordered
// images, and an open map of caller-defined extension values.
//
// A Data instance is assembled once per generation, read by the composition
// engine for the duration of one call, and never mutated by it.
package report

import "time"

// Data is one complete binding for a report generation.
type Data struct {
	Institution Institution
	Subject     Subject
	Examination Examination
	Staff       Staff

	Images []Image

	// Extra holds caller-defined placeholder values, keyed without braces:
	// Extra["Referrer"] backs the {Referrer} placeholder.
	Extra map[string]Value

	CityName    string
	GeneratedAt time.Time
}

// Institution identifies the issuing organization.
type Institution struct {
	Name       string
	Address    string
	Phone      string
	Fax        string
	Email      string
	Website    string
	Department string
	LogoLeft   []byte
	LogoRight  []byte
}

// Subject is the person or entity the report is about. A zero BirthDate
// means unknown; Age, when nil, is derived from BirthDate at resolution
// time.
type Subject struct {
	Name      string
	Number    string // record number
	BirthDate time.Time
	Age       *int
	Gender    string
	Address   string
	Phone     string
	Insurance string
}

// Examination describes the examination this report documents. A zero Date
// resolves to empty; Time, when set, is the offset from midnight.
type Examination struct {
	Name           string
	Date           time.Time
	Time           *time.Duration
	Room           string
	ClinicalNotes  string
	Result         string
	Conclusion     string
	Recommendation string
}

// Staff is the signing examiner.
type Staff struct {
	Name        string
	Credentials string
	Specialty   string
	Signature   []byte // signature image
}

// Image is one report image. Order is the sort key for grid placement;
// insertion order breaks ties. Data takes priority over FilePath, which is
// read lazily during composition.
type Image struct {
	Order      int
	Data       []byte
	FilePath   string
	Caption    string
	CapturedAt time.Time
}
