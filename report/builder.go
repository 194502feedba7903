package report

import (
	"os"
	"time"
)

// Builder assembles a Data instance fluently. Image order is assigned by
// append position; extension values overwrite earlier ones with the same
// key.
type Builder struct {
	d Data
}

// NewBuilder returns an empty report data builder.
func NewBuilder() *Builder {
	return &Builder{d: Data{Extra: make(map[string]Value)}}
}

func (b *Builder) WithInstitution(inst Institution) *Builder {
	b.d.Institution = inst
	return b
}

func (b *Builder) WithSubject(s Subject) *Builder {
	b.d.Subject = s
	return b
}

func (b *Builder) WithExamination(e Examination) *Builder {
	b.d.Examination = e
	return b
}

func (b *Builder) WithStaff(s Staff) *Builder {
	b.d.Staff = s
	return b
}

// AddImage appends an inline image. Order is the current count plus one.
func (b *Builder) AddImage(data []byte, caption string) *Builder {
	b.d.Images = append(b.d.Images, Image{
		Order:      len(b.d.Images) + 1,
		Data:       data,
		Caption:    caption,
		CapturedAt: time.Now(),
	})
	return b
}

// AddImageFile appends an image by path. Paths that do not exist are
// skipped, matching the lazy-load behavior during composition.
func (b *Builder) AddImageFile(path, caption string) *Builder {
	if _, err := os.Stat(path); err != nil {
		return b
	}
	b.d.Images = append(b.d.Images, Image{
		Order:      len(b.d.Images) + 1,
		FilePath:   path,
		Caption:    caption,
		CapturedAt: time.Now(),
	})
	return b
}

// ClearImages removes all images added so far.
func (b *Builder) ClearImages() *Builder {
	b.d.Images = nil
	return b
}

// WithExtra sets an extension value for placeholder resolution. The key is
// stored without braces.
func (b *Builder) WithExtra(key string, v Value) *Builder {
	b.d.Extra[key] = v
	return b
}

// WithCity sets the city used by footer date/location blocks.
func (b *Builder) WithCity(city string) *Builder {
	b.d.CityName = city
	return b
}

// Data returns the assembled instance. The builder retains no ownership;
// callers should not reuse it afterwards.
func (b *Builder) Data() *Data {
	d := b.d
	return &d
}
