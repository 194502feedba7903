package placeholder

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Month name tables per supported locale. Indonesian is the default, as
// report templates in the wild overwhelmingly use "dd MMMM yyyy" with
// Indonesian month names.
var (
	monthsIndonesian = [12]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	monthsEnglish = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

var localeMatcher = language.NewMatcher([]language.Tag{
	language.Indonesian, // first entry is the fallback
	language.English,
})

// monthNames picks the month table for a culture code such as "id-ID" or
// "en-US". Unknown or empty codes fall back to Indonesian.
func monthNames(culture string) [12]string {
	tag, err := language.Parse(culture)
	if err != nil {
		return monthsIndonesian
	}
	_, idx, _ := localeMatcher.Match(tag)
	if idx == 1 {
		return monthsEnglish
	}
	return monthsIndonesian
}

// FormatDate renders t using a template-style date pattern ("dd MMMM yyyy",
// "dd/MM/yyyy HH:mm", ...) and the month names of the given culture code.
// A zero time renders as the empty string.
//
// Supported tokens: yyyy, MMMM, MM, dd, HH, mm, ss. Any other rune is
// copied through verbatim.
func FormatDate(t time.Time, pattern, culture string) string {
	if t.IsZero() {
		return ""
	}
	months := monthNames(culture)

	var sb strings.Builder
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "yyyy"):
			sb.WriteString(strconv.Itoa(t.Year()))
			i += 4
		case strings.HasPrefix(pattern[i:], "MMMM"):
			sb.WriteString(months[int(t.Month())-1])
			i += 4
		case strings.HasPrefix(pattern[i:], "MM"):
			sb.WriteString(pad2(int(t.Month())))
			i += 2
		case strings.HasPrefix(pattern[i:], "dd"):
			sb.WriteString(pad2(t.Day()))
			i += 2
		case strings.HasPrefix(pattern[i:], "HH"):
			sb.WriteString(pad2(t.Hour()))
			i += 2
		case strings.HasPrefix(pattern[i:], "mm"):
			sb.WriteString(pad2(t.Minute()))
			i += 2
		case strings.HasPrefix(pattern[i:], "ss"):
			sb.WriteString(pad2(t.Second()))
			i += 2
		default:
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// ageAt computes whole years between birth and today, decrementing when
// today's month/day falls before the birthday. No leap-day special case.
func ageAt(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}
