package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/template"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTemplate(name string) template.Template {
	return template.New().
		SetName(name).
		Header(func(h *template.HeaderBuilder) {
			h.AddPlaceholderLine(placeholder.KeyInstitutionName, 16, true, template.AlignCenter)
		}).
		Footer(func(f *template.FooterBuilder) {
			f.AddPageNumber()
		}).
		Build()
}

func TestTemplateCRUD(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	tpl := sampleTemplate("Radiology A4")
	if err := s.Create(ctx, &tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tpl.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	got, err := s.GetByID(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Radiology A4" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Header == nil || len(got.Header.Lines) != 1 {
		t.Errorf("header did not round-trip: %+v", got.Header)
	}
	if got.Footer == nil || len(got.Footer.Elements) != 1 {
		t.Errorf("footer did not round-trip: %+v", got.Footer)
	}
	if got.Content.Result.Label != tpl.Content.Result.Label {
		t.Errorf("content did not round-trip")
	}

	got.Description = "updated"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := s.GetByName(ctx, "Radiology A4")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if again.Description != "updated" {
		t.Errorf("description = %q", again.Description)
	}

	if err := s.Delete(ctx, tpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, tpl.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("after delete err = %v, want ErrTemplateNotFound", err)
	}
}

func TestCreateRejectsExistingID(t *testing.T) {
	s := openTest(t)
	tpl := sampleTemplate("x")
	tpl.ID = 7
	if err := s.Create(context.Background(), &tpl); !errors.Is(err, ErrDuplicateTemplateID) {
		t.Fatalf("err = %v, want ErrDuplicateTemplateID", err)
	}
}

func TestSetDefaultIsExclusive(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	a := sampleTemplate("a")
	b := sampleTemplate("b")
	for _, tpl := range []*template.Template{&a, &b} {
		if err := s.Create(ctx, tpl); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := s.SetDefault(ctx, a.ID); err != nil {
		t.Fatalf("SetDefault(a): %v", err)
	}
	if err := s.SetDefault(ctx, b.ID); err != nil {
		t.Fatalf("SetDefault(b): %v", err)
	}

	def, err := s.GetDefault(ctx)
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != b.ID {
		t.Errorf("default = %d, want %d", def.ID, b.ID)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	defaults := 0
	for _, tpl := range all {
		if tpl.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("%d templates marked default, want exactly 1", defaults)
	}

	if err := s.SetDefault(ctx, 9999); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("SetDefault(missing) err = %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	orig := sampleTemplate("original")
	if err := s.Create(ctx, &orig); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.SetDefault(ctx, orig.ID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	dup, err := s.Duplicate(ctx, orig.ID, "copy")
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.ID == 0 || dup.ID == orig.ID {
		t.Errorf("duplicate id = %d", dup.ID)
	}
	if dup.Name != "copy" {
		t.Errorf("duplicate name = %q", dup.Name)
	}
	if dup.IsDefault {
		t.Error("duplicate must not inherit the default flag")
	}

	ok, err := s.Exists(ctx, "copy")
	if err != nil || !ok {
		t.Errorf("Exists(copy) = %v, %v", ok, err)
	}
}

func TestSettings(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	settings := s.Settings()

	if _, err := settings.Get(ctx, "missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}

	if err := settings.Set(ctx, "city", "Jakarta", "report"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := settings.Set(ctx, "city", "Bandung", "report"); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}
	v, err := settings.Get(ctx, "city")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "Bandung" {
		t.Errorf("city = %q, want upserted value", v)
	}

	byCat, err := settings.GetByCategory(ctx, "report")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if len(byCat) != 1 {
		t.Errorf("got %d settings in category, want 1", len(byCat))
	}

	if err := settings.Delete(ctx, "city"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := settings.Delete(ctx, "city"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestTypedSettings(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	settings := s.Settings()

	for k, v := range map[string]string{"copies": "3", "draft": "true", "scale": "1.5"} {
		if err := settings.Set(ctx, k, v, "print"); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	if n, err := settings.GetInt(ctx, "copies"); err != nil || n != 3 {
		t.Errorf("GetInt = %d, %v", n, err)
	}
	if b, err := settings.GetBool(ctx, "draft"); err != nil || !b {
		t.Errorf("GetBool = %v, %v", b, err)
	}
	if f, err := settings.GetFloat(ctx, "scale"); err != nil || f != 1.5 {
		t.Errorf("GetFloat = %v, %v", f, err)
	}

	// Malformed values fail loudly rather than defaulting.
	if _, err := settings.GetInt(ctx, "draft"); err == nil {
		t.Error("GetInt on a boolean value should fail")
	}
	if _, err := settings.GetInt(ctx, "missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetInt(missing) err = %v", err)
	}
}

func TestPlaceholderDefinitionsSeeded(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	repo := s.Placeholders()

	defs, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(defs) != len(placeholder.SystemDefinitions()) {
		t.Fatalf("seeded %d definitions, want %d", len(defs), len(placeholder.SystemDefinitions()))
	}

	d, err := repo.GetByKey(ctx, placeholder.KeySubjectName)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if !d.System || d.Category != placeholder.CategorySubject {
		t.Errorf("definition = %+v", d)
	}

	// System rows must survive deletion attempts.
	if err := repo.Delete(ctx, d.ID); !errors.Is(err, ErrDefinitionNotFound) {
		t.Errorf("deleting a system definition: err = %v", err)
	}

	custom := &placeholder.Definition{Key: "{ReferringDoctor}", DisplayName: "Referring Doctor",
		Category: placeholder.CategoryCustom, DataType: placeholder.TypeString}
	if err := repo.Create(ctx, custom); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, custom.ID); err != nil {
		t.Errorf("deleting a custom definition: %v", err)
	}
}

func TestOpenIsIdempotentOnSeed(t *testing.T) {
	// Seeding uses INSERT OR IGNORE, so reopening a shared database must
	// not duplicate definitions.
	s := openTest(t)
	defs, err := s.GetAllDefinitions(context.Background())
	if err != nil {
		t.Fatalf("GetAllDefinitions: %v", err)
	}
	if err := s.seedDefinitions(context.Background()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	again, err := s.GetAllDefinitions(context.Background())
	if err != nil {
		t.Fatalf("GetAllDefinitions: %v", err)
	}
	if len(defs) != len(again) {
		t.Errorf("reseed changed definition count: %d -> %d", len(defs), len(again))
	}
}
