package gedcom

import (
	"strconv"
	"strings"
	"time"
)

// GEDCOM date phrases are kept verbatim as date_value; ParseDate derives the
// best-effort sort date. Qualifier prefixes (ABT, BEF, AFT, CAL, EST, FROM,
// TO) are stripped, a BET ... AND ... range resolves to its lower bound, and
// partial dates snap to the first day of the month or year.
func ParseDate(value string) (time.Time, bool) {
	text := strings.TrimSpace(strings.ToUpper(value))
	if text == "" {
		return time.Time{}, false
	}

	for _, prefix := range []string{"ABT ", "BEF ", "AFT ", "CAL ", "EST ", "FROM ", "TO "} {
		if rest, ok := strings.CutPrefix(text, prefix); ok {
			text = rest
			break
		}
	}
	if rest, ok := strings.CutPrefix(text, "BET "); ok {
		if first, _, found := strings.Cut(rest, " AND "); found {
			text = first
		} else {
			text = rest
		}
	}

	parts := strings.Fields(text)
	switch len(parts) {
	case 3: // DD MMM YYYY
		day, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		month, ok := monthNumber(parts[1])
		if !ok {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, false
		}
		return civilDate(year, month, day)
	case 2: // MMM YYYY
		month, ok := monthNumber(parts[0])
		if !ok {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return time.Time{}, false
		}
		return civilDate(year, month, 1)
	case 1: // YYYY
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		return civilDate(year, time.January, 1)
	default:
		return time.Time{}, false
	}
}

// civilDate rejects impossible day-of-month combinations, which time.Date
// would otherwise normalize away.
func civilDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}

var gedcomMonths = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

func monthNumber(token string) (time.Month, bool) {
	month, ok := gedcomMonths[strings.ToUpper(token)]
	return month, ok
}

// ParseCoordinate decodes a GEDCOM MAP coordinate such as "N50.8333" or
// "W1.5833"; south and west are negative.
func ParseCoordinate(value string) (float64, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, false
	}
	sign := 1.0
	switch text[0] {
	case 'N', 'E':
		text = text[1:]
	case 'S', 'W':
		sign = -1.0
		text = text[1:]
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return sign * parsed, true
}

// FormatCoordinate renders a latitude or longitude back into GEDCOM MAP
// notation.
func FormatCoordinate(value float64, latitude bool) string {
	prefix := "E"
	if latitude {
		prefix = "N"
	}
	if value < 0 {
		value = -value
		if latitude {
			prefix = "S"
		} else {
			prefix = "W"
		}
	}
	return prefix + strconv.FormatFloat(value, 'f', -1, 64)
}
