package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/template"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT    NOT NULL UNIQUE,
	description   TEXT    NOT NULL DEFAULT '',
	paper         TEXT    NOT NULL,
	custom_width  REAL,
	custom_height REAL,
	orientation   TEXT    NOT NULL,
	margin_top    REAL    NOT NULL,
	margin_right  REAL    NOT NULL,
	margin_bottom REAL    NOT NULL,
	margin_left   REAL    NOT NULL,
	header_json   TEXT,
	content_json  TEXT    NOT NULL,
	footer_json   TEXT,
	is_default    INTEGER NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT    NOT NULL,
	updated_at    TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS placeholder_definitions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	key           TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	data_type     TEXT NOT NULL DEFAULT 'string',
	default_value TEXT NOT NULL DEFAULT '',
	format        TEXT NOT NULL DEFAULT '',
	system        INTEGER NOT NULL DEFAULT 0
);
`

// Store is the SQLite-backed implementation of all three repositories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates if needed) a SQLite database at the given DSN and
// prepares the schema. Use ":memory:" for an ephemeral store. System
// placeholder definitions are seeded idempotently.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// A single connection keeps :memory: databases coherent and sidesteps
	// SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	if err := s.seedDefinitions(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Templates returns the template view of the store.
func (s *Store) Templates() TemplateRepository { return s }

// Settings returns the settings view of the store.
func (s *Store) Settings() SettingsRepository { return settingsView{s} }

// Placeholders returns the placeholder-definition view of the store.
func (s *Store) Placeholders() PlaceholderRepository { return placeholderView{s} }

type settingsView struct{ s *Store }

func (v settingsView) Get(ctx context.Context, key string) (string, error) { return v.s.Get(ctx, key) }
func (v settingsView) GetInt(ctx context.Context, key string) (int, error) {
	return v.s.GetIntSetting(ctx, key)
}
func (v settingsView) GetBool(ctx context.Context, key string) (bool, error) {
	return v.s.GetBoolSetting(ctx, key)
}
func (v settingsView) GetFloat(ctx context.Context, key string) (float64, error) {
	return v.s.GetFloatSetting(ctx, key)
}
func (v settingsView) Set(ctx context.Context, key, value, category string) error {
	return v.s.Set(ctx, key, value, category)
}
func (v settingsView) GetByCategory(ctx context.Context, category string) ([]Setting, error) {
	return v.s.GetByCategory(ctx, category)
}
func (v settingsView) Delete(ctx context.Context, key string) error {
	return v.s.DeleteSetting(ctx, key)
}

type placeholderView struct{ s *Store }

func (v placeholderView) GetAll(ctx context.Context) ([]placeholder.Definition, error) {
	return v.s.GetAllDefinitions(ctx)
}
func (v placeholderView) GetByCategory(ctx context.Context, category string) ([]placeholder.Definition, error) {
	return v.s.GetDefinitionsByCategory(ctx, category)
}
func (v placeholderView) GetByKey(ctx context.Context, key string) (*placeholder.Definition, error) {
	return v.s.GetDefinitionByKey(ctx, key)
}
func (v placeholderView) Create(ctx context.Context, d *placeholder.Definition) error {
	return v.s.CreateDefinition(ctx, d)
}
func (v placeholderView) Update(ctx context.Context, d *placeholder.Definition) error {
	return v.s.UpdateDefinition(ctx, d)
}
func (v placeholderView) Delete(ctx context.Context, id int) error {
	return v.s.DeleteDefinition(ctx, id)
}

func (s *Store) seedDefinitions(ctx context.Context) error {
	const q = `INSERT OR IGNORE INTO placeholder_definitions
		(key, display_name, category, data_type, default_value, format, system)
		VALUES (?, ?, ?, ?, ?, ?, 1)`
	for _, d := range placeholder.SystemDefinitions() {
		if _, err := s.db.ExecContext(ctx, q, d.Key, d.DisplayName, d.Category, d.DataType, d.Default, d.Format); err != nil {
			return errors.Wrapf(err, "seed definition %s", d.Key)
		}
	}
	return nil
}

const templateColumns = `id, name, description, paper, custom_width, custom_height,
	orientation, margin_top, margin_right, margin_bottom, margin_left,
	header_json, content_json, footer_json, is_default, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*template.Template, error) {
	var (
		t                      template.Template
		customW, customH       sql.NullFloat64
		headerJSON, footerJSON sql.NullString
		contentJSON            string
		createdAt, updatedAt   string
	)
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Paper, &customW, &customH,
		&t.Orientation, &t.Margins.Top, &t.Margins.Right, &t.Margins.Bottom, &t.Margins.Left,
		&headerJSON, &contentJSON, &footerJSON, &t.IsDefault, &t.IsActive, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan template")
	}

	if customW.Valid {
		t.CustomSize = &template.Size{Width: customW.Float64, Height: customH.Float64}
	}
	if headerJSON.Valid && headerJSON.String != "" {
		var h template.HeaderSection
		if err := codec.UnmarshalFromString(headerJSON.String, &h); err != nil {
			return nil, errors.Wrapf(err, "decode header of template %d", t.ID)
		}
		t.Header = &h
	}
	if err := codec.UnmarshalFromString(contentJSON, &t.Content); err != nil {
		return nil, errors.Wrapf(err, "decode content of template %d", t.ID)
	}
	if footerJSON.Valid && footerJSON.String != "" {
		var f template.FooterSection
		if err := codec.UnmarshalFromString(footerJSON.String, &f); err != nil {
			return nil, errors.Wrapf(err, "decode footer of template %d", t.ID)
		}
		t.Footer = &f
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}

type templateRow struct {
	customW, customH       interface{}
	headerJSON, footerJSON interface{}
	contentJSON            string
}

func encodeSections(t *template.Template) (*templateRow, error) {
	row := &templateRow{}
	if t.CustomSize != nil {
		row.customW, row.customH = t.CustomSize.Width, t.CustomSize.Height
	}
	if t.Header != nil {
		s, err := codec.MarshalToString(t.Header)
		if err != nil {
			return nil, errors.Wrap(err, "encode header")
		}
		row.headerJSON = s
	}
	content, err := codec.MarshalToString(&t.Content)
	if err != nil {
		return nil, errors.Wrap(err, "encode content")
	}
	row.contentJSON = content
	if t.Footer != nil {
		s, err := codec.MarshalToString(t.Footer)
		if err != nil {
			return nil, errors.Wrap(err, "encode footer")
		}
		row.footerJSON = s
	}
	return row, nil
}

func (s *Store) GetByID(ctx context.Context, id int) (*template.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	return scanTemplate(row)
}

func (s *Store) GetByName(ctx context.Context, name string) (*template.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE name = ?`, name)
	return scanTemplate(row)
}

func (s *Store) GetDefault(ctx context.Context) (*template.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE is_default = 1 LIMIT 1`)
	return scanTemplate(row)
}

func (s *Store) GetAll(ctx context.Context) ([]template.Template, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query templates")
	}
	defer rows.Close()

	var out []template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, errors.Wrap(rows.Err(), "iterate templates")
}

// Create inserts a new template and writes the assigned id and timestamps
// back into t. A template that already has an id must go through Update.
func (s *Store) Create(ctx context.Context, t *template.Template) error {
	if t.ID != 0 {
		return ErrDuplicateTemplateID
	}
	enc, err := encodeSections(t)
	if err != nil {
		return err
	}
	now := s.now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `INSERT INTO templates
		(name, description, paper, custom_width, custom_height, orientation,
		 margin_top, margin_right, margin_bottom, margin_left,
		 header_json, content_json, footer_json, is_default, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Paper, enc.customW, enc.customH, t.Orientation,
		t.Margins.Top, t.Margins.Right, t.Margins.Bottom, t.Margins.Left,
		enc.headerJSON, enc.contentJSON, enc.footerJSON, t.IsDefault, t.IsActive,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "create template %q", t.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "last insert id")
	}
	t.ID = int(id)
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (s *Store) Update(ctx context.Context, t *template.Template) error {
	enc, err := encodeSections(t)
	if err != nil {
		return err
	}
	now := s.now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `UPDATE templates SET
		name = ?, description = ?, paper = ?, custom_width = ?, custom_height = ?,
		orientation = ?, margin_top = ?, margin_right = ?, margin_bottom = ?, margin_left = ?,
		header_json = ?, content_json = ?, footer_json = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Description, t.Paper, enc.customW, enc.customH,
		t.Orientation, t.Margins.Top, t.Margins.Right, t.Margins.Bottom, t.Margins.Left,
		enc.headerJSON, enc.contentJSON, enc.footerJSON, t.IsActive,
		now.Format(time.RFC3339), t.ID)
	if err != nil {
		return errors.Wrapf(err, "update template %d", t.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete template %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// SetDefault marks one template as the default. The clear-then-set runs in
// a transaction so readers never observe zero or two defaults.
func (s *Store) SetDefault(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE templates SET is_default = 0 WHERE is_default = 1`); err != nil {
		return errors.Wrap(err, "clear default")
	}
	res, err := tx.ExecContext(ctx, `UPDATE templates SET is_default = 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "set default %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "exists %q", name)
	}
	return n > 0, nil
}

func (s *Store) Duplicate(ctx context.Context, id int, newName string) (*template.Template, error) {
	src, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := template.Edit(src).SetName(newName).Build()
	dup.ID = 0
	dup.IsDefault = false
	if err := s.Create(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "get setting %q", key)
	}
	return v, nil
}

func (s *Store) GetIntSetting(ctx context.Context, key string) (int, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	return n, errors.Wrapf(err, "setting %q", key)
}

func (s *Store) GetBoolSetting(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	return b, errors.Wrapf(err, "setting %q", key)
}

func (s *Store) GetFloatSetting(ctx context.Context, key string) (float64, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, errors.Wrapf(err, "setting %q", key)
}

func (s *Store) Set(ctx context.Context, key, value, category string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value, category, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value,
			category = excluded.category, updated_at = excluded.updated_at`,
		key, value, category, s.now().UTC().Format(time.RFC3339))
	return errors.Wrapf(err, "set setting %q", key)
}

func (s *Store) GetByCategory(ctx context.Context, category string) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, category FROM settings WHERE category = ? ORDER BY key`, category)
	if err != nil {
		return nil, errors.Wrapf(err, "settings in %q", category)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.Category); err != nil {
			return nil, errors.Wrap(err, "scan setting")
		}
		out = append(out, st)
	}
	return out, errors.Wrap(rows.Err(), "iterate settings")
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return errors.Wrapf(err, "delete setting %q", key)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSettingNotFound
	}
	return nil
}

const definitionColumns = `id, key, display_name, category, data_type, default_value, format, system`

func scanDefinition(row rowScanner) (*placeholder.Definition, error) {
	var d placeholder.Definition
	err := row.Scan(&d.ID, &d.Key, &d.DisplayName, &d.Category, &d.DataType, &d.Default, &d.Format, &d.System)
	if err == sql.ErrNoRows {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan definition")
	}
	return &d, nil
}

func (s *Store) GetAllDefinitions(ctx context.Context) ([]placeholder.Definition, error) {
	return s.queryDefinitions(ctx, `SELECT `+definitionColumns+` FROM placeholder_definitions ORDER BY category, id`)
}

func (s *Store) GetDefinitionsByCategory(ctx context.Context, category string) ([]placeholder.Definition, error) {
	return s.queryDefinitions(ctx,
		`SELECT `+definitionColumns+` FROM placeholder_definitions WHERE category = ? ORDER BY id`, category)
}

func (s *Store) queryDefinitions(ctx context.Context, q string, args ...interface{}) ([]placeholder.Definition, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query definitions")
	}
	defer rows.Close()

	var out []placeholder.Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, errors.Wrap(rows.Err(), "iterate definitions")
}

func (s *Store) GetDefinitionByKey(ctx context.Context, key string) (*placeholder.Definition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM placeholder_definitions WHERE key = ?`, key)
	return scanDefinition(row)
}

func (s *Store) CreateDefinition(ctx context.Context, d *placeholder.Definition) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO placeholder_definitions
		(key, display_name, category, data_type, default_value, format, system)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Key, d.DisplayName, d.Category, d.DataType, d.Default, d.Format, d.System)
	if err != nil {
		return errors.Wrapf(err, "create definition %s", d.Key)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "last insert id")
	}
	d.ID = int(id)
	return nil
}

func (s *Store) UpdateDefinition(ctx context.Context, d *placeholder.Definition) error {
	res, err := s.db.ExecContext(ctx, `UPDATE placeholder_definitions SET
		key = ?, display_name = ?, category = ?, data_type = ?, default_value = ?, format = ?
		WHERE id = ?`,
		d.Key, d.DisplayName, d.Category, d.DataType, d.Default, d.Format, d.ID)
	if err != nil {
		return errors.Wrapf(err, "update definition %d", d.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDefinitionNotFound
	}
	return nil
}

func (s *Store) DeleteDefinition(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM placeholder_definitions WHERE id = ? AND system = 0`, id)
	if err != nil {
		return errors.Wrapf(err, "delete definition %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDefinitionNotFound
	}
	return nil
}
