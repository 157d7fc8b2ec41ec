package clean

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat classifies the apparent layout of a date string. It exists to
// improve failure diagnostics only; parsing always follows the single
// day-first policy passed to Date.
type DateFormat int

const (
	FormatUnknown DateFormat = iota
	FormatISO
	FormatDayFirst
	FormatMonthFirst
	FormatAmbiguous
)

var (
	isoPrefixRe   = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}`)
	numGroupRe    = regexp.MustCompile(`\d+`)
	numericDateRe = regexp.MustCompile(`^(\d{1,4})[./\-](\d{1,2})[./\-](\d{1,4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
)

// Textual layouts some exports use instead of numeric dates.
var textualLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// DetectDateFormat classifies a date string by separators and numeric
// magnitudes: a leading YYYY-MM-DD/YYYY/MM/DD shape is ISO; otherwise the
// first numeric group > 12 means day-first, the second > 12 means
// month-first, both <= 12 is ambiguous.
func DetectDateFormat(s string) DateFormat {
	if isoPrefixRe.MatchString(s) {
		return FormatISO
	}
	parts := numGroupRe.FindAllString(s, -1)
	if len(parts) >= 3 {
		first, err1 := strconv.Atoi(parts[0])
		second, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			if first > 12 {
				return FormatDayFirst
			}
			if second > 12 {
				return FormatMonthFirst
			}
			return FormatAmbiguous
		}
	}
	return FormatUnknown
}

// Date converts a raw date cell to a time.Time. Native time values pass
// through. Strings are parsed under one uniform policy: dayFirst selects the
// DD/MM/YYYY reading of ambiguous numeric dates (true for UK bank exports).
// Failure messages echo the original value and carry a hint derived from
// DetectDateFormat.
func Date(v any, dayFirst bool) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, &Error{Reason: "Date is missing"}
	case time.Time:
		return d, nil
	case string:
		return dateFromString(d, dayFirst)
	default:
		return dateFromString(fmt.Sprint(v), dayFirst)
	}
}

func dateFromString(raw string, dayFirst bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, &Error{Reason: "Date is empty"}
	}

	format := DetectDateFormat(s)

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		t, ok, dayMonthRange := buildNumericDate(m, dayFirst)
		if ok {
			return t, nil
		}
		if dayMonthRange {
			msg := fmt.Sprintf("Cannot parse '%s' as date. Invalid day or month value", raw)
			switch format {
			case FormatDayFirst:
				msg += " (detected DD/MM/YYYY format)"
			case FormatMonthFirst:
				msg += " (detected MM/DD/YYYY format)"
			}
			return time.Time{}, &Error{Reason: msg}
		}
	}

	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	msg := fmt.Sprintf("Cannot parse '%s' as date", raw)
	switch format {
	case FormatUnknown:
		msg += ". Expected format: DD/MM/YYYY (e.g., 25/12/2024) or YYYY-MM-DD"
	case FormatAmbiguous:
		assumed := "DD/MM/YYYY"
		if !dayFirst {
			assumed = "MM/DD/YYYY"
		}
		msg += fmt.Sprintf(". Ambiguous date - interpreted as %s", assumed)
	}
	return time.Time{}, &Error{Reason: msg}
}

// buildNumericDate assembles a date from the three numeric groups of a
// separator-delimited date plus an optional time suffix. The second return
// reports success; the third reports specifically that a day or month was
// out of range, which drives the diagnostic hint.
func buildNumericDate(m []string, dayFirst bool) (time.Time, bool, bool) {
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	var year, month, day int
	if len(m[1]) == 4 {
		// ISO order: YYYY sep MM sep DD.
		year, month, day = a, b, c
	} else {
		year = c
		if len(m[3]) < 4 {
			// Two-digit year, same pivot as time.Parse.
			if year < 69 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if dayFirst {
			day, month = a, b
		} else {
			month, day = a, b
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false, true
	}

	hour, min, sec := 0, 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		min, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		if hour > 23 || min > 59 || sec > 59 {
			return time.Time{}, false, false
		}
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		// time.Date normalized an impossible calendar date (e.g. 30 Feb).
		return time.Time{}, false, true
	}
	return t, true, false
}
