// Package store persists templates, settings and placeholder definitions.
//
// The interfaces here are the persistence seam; the SQLite implementation
// in this package is the reference backend. Repositories take a
// context.Context on every call and return sentinel errors for absent
// rows, never nil-nil.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/template"
)

// Sentinel errors for absent rows.
var (
	ErrTemplateNotFound    = errors.New("store: template not found")
	ErrSettingNotFound     = errors.New("store: setting not found")
	ErrDefinitionNotFound  = errors.New("store: placeholder definition not found")
	ErrDuplicateTemplateID = errors.New("store: template already has an id")
)

// TemplateRepository stores layout templates. At most one template is the
// default at any time; SetDefault enforces this transactionally.
type TemplateRepository interface {
	GetByID(ctx context.Context, id int) (*template.Template, error)
	GetByName(ctx context.Context, name string) (*template.Template, error)
	GetDefault(ctx context.Context) (*template.Template, error)
	GetAll(ctx context.Context) ([]template.Template, error)
	Create(ctx context.Context, t *template.Template) error
	Update(ctx context.Context, t *template.Template) error
	Delete(ctx context.Context, id int) error
	SetDefault(ctx context.Context, id int) error
	Exists(ctx context.Context, name string) (bool, error)

	// Duplicate copies a stored template under a new name and returns the
	// copy. The copy is never the default.
	Duplicate(ctx context.Context, id int, newName string) (*template.Template, error)
}

// Setting is one configuration row.
type Setting struct {
	Key      string
	Value    string
	Category string
}

// SettingsRepository stores string-keyed configuration. Values are stored
// as strings; the typed getters parse on the way out and fail on malformed
// values, not silently default.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetInt(ctx context.Context, key string) (int, error)
	GetBool(ctx context.Context, key string) (bool, error)
	GetFloat(ctx context.Context, key string) (float64, error)
	Set(ctx context.Context, key, value, category string) error
	GetByCategory(ctx context.Context, category string) ([]Setting, error)
	Delete(ctx context.Context, key string) error
}

// PlaceholderRepository stores placeholder definition metadata for editing
// surfaces. The resolver does not read from it.
type PlaceholderRepository interface {
	GetAll(ctx context.Context) ([]placeholder.Definition, error)
	GetByCategory(ctx context.Context, category string) ([]placeholder.Definition, error)
	GetByKey(ctx context.Context, key string) (*placeholder.Definition, error)
	Create(ctx context.Context, d *placeholder.Definition) error
	Update(ctx context.Context, d *placeholder.Definition) error
	Delete(ctx context.Context, id int) error
}
