package placeholder_test

import (
	"fmt"
	"time"

	"github.com/lvillar/reportgen/placeholder"
	"github.com/lvillar/reportgen/report"
)

func ExampleResolver_ResolveText() {
	data := report.NewBuilder().
		WithSubject(report.Subject{
			Name:      "Budi Santoso",
			BirthDate: time.Date(1985, time.July, 20, 0, 0, 0, 0, time.UTC),
		}).
		Data()

	res := placeholder.NewResolver()
	out, err := res.ResolveText("Pasien {SubjectName}, lahir {SubjectBirthDate}", data)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: Pasien Budi Santoso, lahir 20 Juli 1985
}

func ExampleFormatDate() {
	at := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	fmt.Println(placeholder.FormatDate(at, "dd MMMM yyyy", "id-ID"))
	fmt.Println(placeholder.FormatDate(at, "dd MMMM yyyy", "en-US"))
	// Output:
	// 12 Maret 2024
	// 12 March 2024
}
