package template

import (
	"reflect"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	tpl := New().
		SetName("round-trip").
		SetDescription("full sections").
		SetPaper(PaperA5).
		SetOrientation(Landscape).
		SetMargins(UniformMargins(15)).
		Header(func(h *HeaderBuilder) {
			h.AddPlaceholderLine("{InstitutionName}", 16, true, AlignCenter)
			h.AddLine("Jl. Melati 5", 10, false, AlignCenter)
		}).
		Content(func(c *ContentBuilder) {
			c.InfoFields(func(f *InfoFieldsBuilder) {
				f.AddField("Nama", "{SubjectName}", 0)
				f.AddField("Umur", "{SubjectAge}", 1)
			})
			c.AddTextSection("note", "catatan")
			c.AddSpacer(8)
			c.AddBarcodeSection("doc", "{DocumentID}", BarcodeQR)
		}).
		Footer(func(f *FooterBuilder) {
			f.DateLocation("Jakarta", "dd MMMM yyyy")
			f.AddPageNumber()
		}).
		Build()

	data, err := Marshal(&tpl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !reflect.DeepEqual(&tpl, got) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", tpl, *got)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
