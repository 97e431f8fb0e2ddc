// Package dates normalizes the assorted date strings that publishers put in
// their markup into canonical UTC timestamps.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	monthDayYear = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})$`)
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
)

// layouts tried after the human-readable forms, roughly in order of how often
// sources actually emit them (feed pubDates first, then bare dates).
var layouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Parse converts an arbitrary date-like string into a UTC timestamp.
// Day-level inputs map to midnight UTC. The second return value is false when
// the input is empty, unrecognized, or not a real calendar date.
func Parse(s string) (time.Time, bool) {
	text := strings.TrimSpace(s)
	if text == "" {
		return time.Time{}, false
	}

	if m := monthDayYear.FindStringSubmatch(text); m != nil {
		return makeDate(m[3], m[1], m[2])
	}
	if m := dayMonthYear.FindStringSubmatch(text); m != nil {
		return makeDate(m[3], m[2], m[1])
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func makeDate(year, month, day string) (time.Time, bool) {
	m, ok := months[strings.ToLower(month)]
	if !ok {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)

	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2); reject
	// anything that did not round-trip.
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
