package compose

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/report"
	"github.com/lvillar/reportgen/template"
)

func fixedClock() func() time.Time {
	at := time.Date(2024, time.March, 12, 14, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestComposeEmptyData(t *testing.T) {
	tpl := template.New().
		SetName("defaults").
		Header(func(h *template.HeaderBuilder) {
			h.AddPlaceholderLine(placeholder.KeyInstitutionName, 16, true, template.AlignCenter)
		}).
		Footer(func(f *template.FooterBuilder) {}).
		Build()

	lay, err := Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose with empty data: %v", err)
	}
	if len(lay.Header.Lines) != 0 {
		t.Errorf("expected no header lines, got %d", len(lay.Header.Lines))
	}
	if lay.Content.Result == nil {
		t.Fatal("result block missing")
	}
	if lay.Content.Result.Value != "-" {
		t.Errorf("empty result value = %q, want \"-\"", lay.Content.Result.Value)
	}
	if lay.Footer.Signature == nil {
		t.Fatal("signature missing")
	}
	if lay.Footer.Signature.Name != "-" {
		t.Errorf("unresolved signature name = %q, want \"-\"", lay.Footer.Signature.Name)
	}
}

func TestComposeNilData(t *testing.T) {
	tpl := template.New().Build()
	if _, err := Compose(&tpl, nil); err != nil {
		t.Fatalf("Compose(nil data): %v", err)
	}
}

func TestHeaderLineLiteralFallback(t *testing.T) {
	tpl := template.New().
		Header(func(h *template.HeaderBuilder) {
			h.NoLeftLogo()
			h.NoRightLogo()
			h.AddPlaceholderLine(placeholder.KeyInstitutionName, 16, true, template.AlignCenter)
			h.AddLine("Jl. Sudirman No. 1", 10, false, template.AlignCenter)
		}).
		Build()
	// Literal fallback when the key resolves empty.
	tpl.Header.Lines[0].Text = "Fallback Clinic"

	lay, err := Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(lay.Header.Lines) != 2 {
		t.Fatalf("got %d header lines, want 2", len(lay.Header.Lines))
	}
	if lay.Header.Lines[0].Text != "Fallback Clinic" {
		t.Errorf("line 0 = %q, want literal fallback", lay.Header.Lines[0].Text)
	}

	data := report.NewBuilder().
		WithInstitution(report.Institution{Name: "RS Sehat"}).
		Data()
	lay, err = Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if lay.Header.Lines[0].Text != "RS Sehat" {
		t.Errorf("line 0 = %q, want resolved value to win over literal", lay.Header.Lines[0].Text)
	}
}

func TestInfoFieldRowGrouping(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.InfoFields(func(f *template.InfoFieldsBuilder) {
				f.AddField("Nama", placeholder.KeySubjectName, 0)  // left rank 1
				f.AddField("No.", placeholder.KeySubjectNumber, 0) // left rank 2
				f.AddField("Umur", placeholder.KeySubjectAge, 1)   // right rank 1
			})
		}).
		Build()

	data := report.NewBuilder().
		WithSubject(report.Subject{Name: "Budi", Number: "MR-001"}).
		Data()

	lay, err := Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	grid := lay.Content.InfoFields
	if grid == nil {
		t.Fatal("info-field grid missing")
	}
	if len(grid.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(grid.Rows))
	}
	r0 := grid.Rows[0]
	if r0.Left == nil || r0.Left.Value != "Budi" {
		t.Errorf("row 0 left = %+v, want Budi", r0.Left)
	}
	if r0.Right == nil || r0.Right.Label != "Umur" {
		t.Errorf("row 0 right = %+v, want Umur cell", r0.Right)
	}
	r1 := grid.Rows[1]
	if r1.Left == nil || r1.Left.Value != "MR-001" {
		t.Errorf("row 1 left = %+v, want MR-001", r1.Left)
	}
	if r1.Right != nil {
		t.Errorf("row 1 right = %+v, want blank slot", r1.Right)
	}
}

func TestImageGridOrderAndTruncation(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.ImageGrid(2, 2, 4, 10)
		}).
		Build()

	data := &report.Data{}
	for _, order := range []int{3, 1, 5, 2, 4} {
		data.Images = append(data.Images, report.Image{
			Order:   order,
			Data:    []byte{byte(order)},
			Caption: "",
		})
	}

	lay, err := Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	grid := lay.Content.ImageGrid
	if grid == nil {
		t.Fatal("image grid missing")
	}
	if len(grid.Cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(grid.Cells))
	}
	for i, cell := range grid.Cells {
		if want := byte(i + 1); cell.Data[0] != want {
			t.Errorf("cell %d holds image %d, want %d", i, cell.Data[0], want)
		}
		if cell.Row != i/2 || cell.Col != i%2 {
			t.Errorf("cell %d at (%d,%d), want (%d,%d)", i, cell.Row, cell.Col, i/2, i%2)
		}
	}
}

func TestSpacerParseFailure(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.AddTextSection("note", "before")
		}).
		Build()
	tpl.Content.Custom = append(tpl.Content.Custom, template.CustomSection{
		Order:   2,
		Visible: true,
		Kind:    template.SectionSpacer,
		Content: "tall",
	})

	_, err := Compose(&tpl, &report.Data{})
	if err == nil {
		t.Fatal("expected spacer parse failure")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
}

func TestCustomSectionOrderAndSpacer(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.AddTextSection("a", "first")
			c.AddSpacer(12.5)
			c.AddSeparator()
			c.AddTextSection("b", "second")
		}).
		Build()

	lay, err := Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	secs := lay.Content.Sections
	if len(secs) != 4 {
		t.Fatalf("got %d sections, want 4", len(secs))
	}
	if secs[0].Text != "first" || secs[3].Text != "second" {
		t.Errorf("section order wrong: %q ... %q", secs[0].Text, secs[3].Text)
	}
	if secs[1].Kind != template.SectionSpacer || secs[1].Height != 12.5 {
		t.Errorf("spacer = %+v, want height 12.5", secs[1])
	}
	if secs[2].Kind != template.SectionSeparator {
		t.Errorf("section 2 kind = %q, want separator", secs[2].Kind)
	}
}

func TestExtensionValueWithoutTextForm(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.AddPlaceholderSection("raw", "{Thumbnail}")
		}).
		Build()

	data := report.NewBuilder().
		WithExtra("Thumbnail", report.Bytes([]byte{1, 2, 3})).
		Data()

	_, err := Compose(&tpl, data)
	if !errors.Is(err, report.ErrUnsupportedValue) {
		t.Fatalf("err = %v, want ErrUnsupportedValue", err)
	}
}

func TestDeferredFooterElements(t *testing.T) {
	tpl := template.New().
		Footer(func(f *template.FooterBuilder) {
			f.NoSignature()
			f.AddPageNumber()
			f.AddDateTime()
		}).
		Build()

	lay, err := Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	els := lay.Footer.Elements
	if len(els) != 2 {
		t.Fatalf("got %d footer elements, want 2", len(els))
	}
	if els[0].Kind != NodePageNumber {
		t.Errorf("element 0 kind = %d, want deferred page number", els[0].Kind)
	}
	if els[1].Kind != NodeDateTime {
		t.Errorf("element 1 kind = %d, want deferred date/time", els[1].Kind)
	}
}

func TestDateLocationLine(t *testing.T) {
	eng := NewEngine(placeholder.NewResolver(placeholder.WithClock(fixedClock())))

	tpl := template.New().
		Footer(func(f *template.FooterBuilder) {
			f.DateLocation("Jakarta", "dd MMMM yyyy")
		}).
		Build()

	data := report.NewBuilder().WithCity("Bandung").Data()
	lay, err := eng.Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := lay.Footer.DateLocation.Text; got != "Jakarta, 12 Maret 2024" {
		t.Errorf("date/location = %q, want template city to win", got)
	}

	// Without a template city the report data's city is used.
	tpl.Footer.DateLocation.CityName = ""
	lay, err = eng.Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := lay.Footer.DateLocation.Text; got != "Bandung, 12 Maret 2024" {
		t.Errorf("date/location = %q, want data city fallback", got)
	}

	// CustomText replaces the whole line verbatim.
	tpl.Footer.DateLocation.CustomText = "Printed on demand"
	lay, err = eng.Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := lay.Footer.DateLocation.Text; got != "Printed on demand" {
		t.Errorf("date/location = %q, want verbatim custom text", got)
	}
}

func TestBarcodeSectionProducesPNG(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.AddBarcodeSection("doc", "{DocumentID}", template.BarcodeQR)
		}).
		Build()

	data := report.NewBuilder().
		WithExtra("DocumentID", report.String("RPT-2024-0001")).
		Data()

	lay, err := Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	var barcodes []Section
	for _, s := range lay.Content.Sections {
		if s.Kind == template.SectionBarcode {
			barcodes = append(barcodes, s)
		}
	}
	if len(barcodes) != 1 {
		t.Fatalf("got %d barcode sections, want 1", len(barcodes))
	}
	if !bytes.HasPrefix(barcodes[0].Image, []byte("\x89PNG")) {
		t.Errorf("barcode image is not PNG")
	}
}

func TestBarcodeEmptyContentSkipped(t *testing.T) {
	tpl := template.New().
		Content(func(c *template.ContentBuilder) {
			c.AddBarcodeSection("doc", "{DocumentID}", template.BarcodeQR)
		}).
		Build()

	lay, err := Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for _, s := range lay.Content.Sections {
		if s.Kind == template.SectionBarcode {
			t.Fatal("empty barcode payload should be skipped")
		}
	}
}

func TestLogoFallbackToInstitution(t *testing.T) {
	tpl := template.New().
		Header(func(h *template.HeaderBuilder) {
			h.LeftLogo(60, 60, "")
			h.NoRightLogo()
		}).
		Build()

	logo := []byte{0xFF, 0xD8, 0xFF}
	data := report.NewBuilder().
		WithInstitution(report.Institution{Name: "RS", LogoLeft: logo}).
		Data()

	lay, err := Compose(&tpl, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if lay.Header.LeftLogo == nil {
		t.Fatal("left logo missing")
	}
	if !bytes.Equal(lay.Header.LeftLogo.Data, logo) {
		t.Error("left logo did not fall back to institution bytes")
	}
	if lay.Header.RightLogo != nil {
		t.Error("hidden right logo should be nil")
	}

	// A missing logo file is silently omitted, not an error.
	tpl.Header.LeftLogo.ImagePath = "/nonexistent/logo.png"
	lay, err = Compose(&tpl, &report.Data{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if lay.Header.LeftLogo != nil {
		t.Error("unreadable logo path should be omitted")
	}
}
