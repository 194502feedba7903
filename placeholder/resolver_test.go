package placeholder

import (
	"errors"
	"testing"
	"time"

	"github.com/lvillar/reportgen/report"
)

func clockAt(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func sampleData() *report.Data {
	return report.NewBuilder().
		WithInstitution(report.Institution{
			Name:    "RS Sehat Sentosa",
			Address: "Jl. Sudirman No. 1",
			Phone:   "021-5551234",
		}).
		WithSubject(report.Subject{
			Name:      "Budi Santoso",
			Number:    "MR-2024-0001",
			BirthDate: time.Date(1985, time.July, 20, 0, 0, 0, 0, time.UTC),
			Gender:    "Laki-laki",
		}).
		WithExamination(report.Examination{
			Name:   "USG Abdomen",
			Date:   time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
			Room:   "Ruang 3",
			Result: "Normal",
		}).
		WithStaff(report.Staff{Name: "dr. Sari Wulandari", Credentials: "SIP 123/456"}).
		Data()
}

func TestResolveBuiltinKeys(t *testing.T) {
	r := NewResolver(clockAt(time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)))
	data := sampleData()

	cases := []struct {
		key  string
		want string
	}{
		{KeyInstitutionName, "RS Sehat Sentosa"},
		{KeySubjectName, "Budi Santoso"},
		{KeySubjectNumber, "MR-2024-0001"},
		{KeySubjectBirthDate, "20 Juli 1985"},
		{KeySubjectAge, "38"}, // birthday not yet reached in 2024
		{KeyExamName, "USG Abdomen"},
		{KeyExamDate, "12 Maret 2024"},
		{KeyExamRoom, "Ruang 3"},
		{KeyRoomName, "Ruang 3"}, // alias of ExamRoom
		{KeyExamResult, "Normal"},
		{KeyStaffName, "dr. Sari Wulandari"},
		{KeyCurrentDate, "01 Januari 2024"},
		{KeyCurrentTime, "09:30"},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.key, data)
		if err != nil {
			t.Errorf("Resolve(%s): %v", tc.key, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Resolve(%s) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestResolveAgePrefersExplicit(t *testing.T) {
	r := NewResolver(clockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	age := 40
	data := sampleData()
	data.Subject.Age = &age

	got, err := r.Resolve(KeySubjectAge, data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "40" {
		t.Errorf("age = %q, want explicit value to win", got)
	}
}

func TestResolveUnknownKeyIsBlank(t *testing.T) {
	r := NewResolver()
	got, err := r.Resolve("{NoSuchKey}", sampleData())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "" {
		t.Errorf("unknown key = %q, want empty (never the raw key)", got)
	}
}

func TestResolveExtensionValues(t *testing.T) {
	r := NewResolver()
	data := report.NewBuilder().
		WithExtra("ReferringDoctor", report.String("dr. Andi")).
		WithExtra("Sequence", report.Int(42)).
		WithExtra("Verified", report.Bool(true)).
		WithExtra("Thumbnail", report.Bytes([]byte{1})).
		Data()

	for key, want := range map[string]string{
		"{ReferringDoctor}": "dr. Andi",
		"{Sequence}":        "42",
		"{Verified}":        "true",
	} {
		got, err := r.Resolve(key, data)
		if err != nil {
			t.Errorf("Resolve(%s): %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%s) = %q, want %q", key, got, want)
		}
	}

	if _, err := r.Resolve("{Thumbnail}", data); !errors.Is(err, report.ErrUnsupportedValue) {
		t.Errorf("byte value err = %v, want ErrUnsupportedValue", err)
	}
}

func TestResolveExamDateTime(t *testing.T) {
	r := NewResolver()
	data := sampleData()

	got, err := r.Resolve(KeyExamDateTime, data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "12 Maret 2024" {
		t.Errorf("without time = %q", got)
	}

	dur := 14*time.Hour + 45*time.Minute
	data.Examination.Time = &dur
	got, err = r.Resolve(KeyExamDateTime, data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "12 Maret 2024 14:45" {
		t.Errorf("with time = %q", got)
	}

	got, err = r.Resolve(KeyExamTime, data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "14:45" {
		t.Errorf("exam time = %q", got)
	}
}

func TestResolveTextSubstitutesAllTokens(t *testing.T) {
	r := NewResolver()
	data := sampleData()

	out, err := r.ResolveText("Pasien {SubjectName} ({SubjectNumber}) - {Unknown}", data)
	if err != nil {
		t.Fatalf("ResolveText: %v", err)
	}
	want := "Pasien Budi Santoso (MR-2024-0001) - "
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

func TestResolveTextIdempotent(t *testing.T) {
	r := NewResolver()
	data := sampleData()

	once, err := r.ResolveText("{SubjectName} / {ExamResult}", data)
	if err != nil {
		t.Fatalf("ResolveText: %v", err)
	}
	twice, err := r.ResolveText(once, data)
	if err != nil {
		t.Fatalf("ResolveText: %v", err)
	}
	if once != twice {
		t.Errorf("resolution not idempotent: %q then %q", once, twice)
	}
}

func TestResolveEmptyInputs(t *testing.T) {
	r := NewResolver()
	if got, err := r.Resolve("", sampleData()); err != nil || got != "" {
		t.Errorf("empty key: %q, %v", got, err)
	}
	if got, err := r.Resolve(KeySubjectName, nil); err != nil || got != "" {
		t.Errorf("nil data: %q, %v", got, err)
	}
	if got, err := r.ResolveText("", sampleData()); err != nil || got != "" {
		t.Errorf("empty text: %q, %v", got, err)
	}
}

func TestResolveZeroDatesBlank(t *testing.T) {
	r := NewResolver()
	data := report.NewBuilder().Data()

	for _, key := range []string{KeySubjectBirthDate, KeySubjectAge, KeyExamDate, KeyExamDateTime, KeyExamTime, KeyPrintDate} {
		got, err := r.Resolve(key, data)
		if err != nil {
			t.Errorf("Resolve(%s): %v", key, err)
			continue
		}
		if got != "" {
			t.Errorf("Resolve(%s) = %q, want empty for unset data", key, got)
		}
	}
}
