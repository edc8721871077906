package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthCodes = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// DayMonth is a cryptic-format date (e.g. "20JUN") without a year. Parsers
// stay pure by deferring year resolution to the handler, which has a clock.
type DayMonth struct {
	Day   int
	Month time.Month
}

// ParseDayMonth parses the fixed 5-character DDMMM field.
func ParseDayMonth(raw string) (DayMonth, bool) {
	if len(raw) != 5 {
		return DayMonth{}, false
	}
	day, err := strconv.Atoi(raw[:2])
	if err != nil || day < 1 || day > 31 {
		return DayMonth{}, false
	}
	month, ok := monthCodes[strings.ToUpper(raw[2:])]
	if !ok {
		return DayMonth{}, false
	}
	return DayMonth{Day: day, Month: month}, true
}

// Resolve returns the next occurrence of the date on or after now's day.
func (d DayMonth) Resolve(now time.Time) time.Time {
	candidate := time.Date(now.Year(), d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}

// String renders the date back in command format, e.g. "20JUN".
func (d DayMonth) String() string {
	return fmt.Sprintf("%02d%s", d.Day, strings.ToUpper(d.Month.String()[:3]))
}

// ParseDocumentDate parses the 7-character DDMMMYY field used in SRDOCS
// (e.g. "12JUL76"). Years 00-49 map to 2000s, 50-99 to 1900s, keeping
// both plausible birth dates and passport expiries representable.
func ParseDocumentDate(raw string) (time.Time, bool) {
	if len(raw) != 7 {
		return time.Time{}, false
	}
	dm, ok := ParseDayMonth(raw[:5])
	if !ok {
		return time.Time{}, false
	}
	yy, err := strconv.Atoi(raw[5:])
	if err != nil {
		return time.Time{}, false
	}
	year := 1900 + yy
	if yy < 50 {
		year = 2000 + yy
	}
	return time.Date(year, dm.Month, dm.Day, 0, 0, 0, 0, time.UTC), true
}

// validTime reports whether a 4-character HHMM field is a real clock time.
// Every character must be a digit; strconv would accept signed fields.
func validTime(raw string) bool {
	if len(raw) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	hh := int(raw[0]-'0')*10 + int(raw[1]-'0')
	mm := int(raw[2]-'0')*10 + int(raw[3]-'0')
	return hh < 24 && mm < 60
}

// validStation reports whether a 3-character field is an IATA station code.
func validStation(raw string) bool {
	if len(raw) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if raw[i] < 'A' || raw[i] > 'Z' {
			return false
		}
	}
	return true
}
