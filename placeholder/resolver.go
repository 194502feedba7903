package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lvillar/reportgen/report"
)

// defaultDateFormat is the fixed pattern for built-in date keys.
const defaultDateFormat = "dd MMMM yyyy"

// defaultCulture drives month names for built-in date keys.
const defaultCulture = "id-ID"

// pattern matches one placeholder token: braces around one or more
// non-brace characters. Nested braces are not part of the grammar.
var pattern = regexp.MustCompile(`\{[^{}]+\}`)

// Resolver resolves placeholder keys against report data. The zero value
// is not usable; construct with NewResolver. Resolvers are stateless apart
// from the injected clock and are safe for concurrent use.
type Resolver struct {
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock substitutes the wall clock used for current-date keys and age
// derivation.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver returns a Resolver with the real clock unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the resolver's notion of the current time. Exposed so that
// callers deriving display dates outside Resolve stay on the same clock.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Resolve maps a single placeholder key to its display value.
//
// Built-in keys read the corresponding report field; unknown keys are
// stripped of braces and looked up in the extension map; keys matching
// neither resolve to "". Missing data is never an error; the only failure
// is an extension value without a text form.
func (r *Resolver) Resolve(key string, data *report.Data) (string, error) {
	if key == "" || data == nil {
		return "", nil
	}

	switch key {
	case KeyInstitutionName:
		return data.Institution.Name, nil
	case KeyInstitutionAddress:
		return data.Institution.Address, nil
	case KeyInstitutionPhone:
		return data.Institution.Phone, nil
	case KeyInstitutionFax:
		return data.Institution.Fax, nil
	case KeyInstitutionEmail:
		return data.Institution.Email, nil
	case KeyInstitutionWebsite:
		return data.Institution.Website, nil
	case KeyDepartmentName:
		return data.Institution.Department, nil
	case KeyRoomName, KeyExamRoom:
		return data.Examination.Room, nil

	case KeySubjectName:
		return data.Subject.Name, nil
	case KeySubjectNumber:
		return data.Subject.Number, nil
	case KeySubjectBirthDate:
		return FormatDate(data.Subject.BirthDate, defaultDateFormat, defaultCulture), nil
	case KeySubjectAge:
		return r.subjectAge(data), nil
	case KeySubjectGender:
		return data.Subject.Gender, nil
	case KeySubjectAddress:
		return data.Subject.Address, nil
	case KeySubjectPhone:
		return data.Subject.Phone, nil
	case KeySubjectInsurance:
		return data.Subject.Insurance, nil

	case KeyExamName:
		return data.Examination.Name, nil
	case KeyExamDate:
		return FormatDate(data.Examination.Date, defaultDateFormat, defaultCulture), nil
	case KeyExamTime:
		return formatClock(data.Examination.Time), nil
	case KeyExamDateTime:
		return r.examDateTime(data), nil
	case KeyClinicalNotes:
		return data.Examination.ClinicalNotes, nil
	case KeyExamResult:
		return data.Examination.Result, nil
	case KeyExamConclusion:
		return data.Examination.Conclusion, nil
	case KeyExamRecommendation:
		return data.Examination.Recommendation, nil

	case KeyStaffName:
		return data.Staff.Name, nil
	case KeyStaffCredentials:
		return data.Staff.Credentials, nil
	case KeyStaffSpecialty:
		return data.Staff.Specialty, nil

	case KeyCurrentDate:
		return FormatDate(r.now(), defaultDateFormat, defaultCulture), nil
	case KeyCurrentTime:
		return FormatDate(r.now(), "HH:mm", defaultCulture), nil
	case KeyCurrentDateTime:
		return FormatDate(r.now(), "dd MMMM yyyy HH:mm", defaultCulture), nil
	case KeyPrintDate:
		return FormatDate(data.GeneratedAt, defaultDateFormat, defaultCulture), nil
	}

	// Extension fallback: brace-stripped lookup.
	name := strings.TrimSuffix(strings.TrimPrefix(key, "{"), "}")
	if v, ok := data.Extra[name]; ok {
		text, err := v.Text()
		if err != nil {
			return "", fmt.Errorf("placeholder %s: %w", key, err)
		}
		return text, nil
	}

	// Unknown keys blank out; the raw key is never echoed.
	return "", nil
}

// ResolveText substitutes every {Key} token in text, leftmost first. A
// token that resolves to empty is still replaced with empty.
func (r *Resolver) ResolveText(text string, data *report.Data) (string, error) {
	if text == "" {
		return "", nil
	}
	var firstErr error
	out := pattern.ReplaceAllStringFunc(text, func(token string) string {
		v, err := r.Resolve(token, data)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (r *Resolver) subjectAge(data *report.Data) string {
	if data.Subject.Age != nil {
		return strconv.Itoa(*data.Subject.Age)
	}
	if data.Subject.BirthDate.IsZero() {
		return ""
	}
	return strconv.Itoa(ageAt(data.Subject.BirthDate, r.now()))
}

func (r *Resolver) examDateTime(data *report.Data) string {
	date := data.Examination.Date
	if date.IsZero() {
		return ""
	}
	if data.Examination.Time != nil {
		at := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
			Add(*data.Examination.Time)
		return FormatDate(at, "dd MMMM yyyy HH:mm", defaultCulture)
	}
	return FormatDate(date, defaultDateFormat, defaultCulture)
}

func formatClock(d *time.Duration) string {
	if d == nil {
		return ""
	}
	total := int(d.Minutes())
	return pad2(total/60) + ":" + pad2(total%60)
}
