// Package schedule holds the day-of-week/time ordering used to sort
// recurring activities and the calendar-date helpers shared by the
// attendance, cancellation and session code.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates. ISO dates compare
// lexicographically in chronological order, so handlers and the window
// queries can compare them as strings.
const DateLayout = "2006-01-02"

// DaysFull lists day names Sunday..Saturday, index 0-6.
var DaysFull = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

const minutesPerDay = 1440

// DayIndex returns the 0-6 index of a full day name, or -1 when the name
// is unknown. Unknown days deliberately sort before Sunday; see Scalar.
func DayIndex(day string) int {
	for i, d := range DaysFull {
		if d == day {
			return i
		}
	}
	return -1
}

// ParseMinutes converts a time-of-day string to minutes since midnight.
// Accepts "HH:MM" (24-hour) and "H:MM AM"/"H:MM PM". Empty or malformed
// input yields 0 so a bad record sorts first within its day instead of
// breaking the whole sort.
func ParseMinutes(t string) int {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0
	}

	upper := strings.ToUpper(t)
	period := ""
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		period = upper[len(upper)-2:]
		t = strings.TrimSpace(t[:len(t)-2])
	}

	parts := strings.SplitN(t, ":", 3)
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}

	if period == "PM" && h != 12 {
		h += 12
	}
	if period == "AM" && h == 12 {
		h = 0
	}
	return h*60 + m
}

// Scalar collapses a (day, time) pair into a single comparable value:
// dayIndex*1440 + minutes. Unknown day names map to index -1, so they
// land before Sunday; product has confirmed that ordering for now.
func Scalar(day, timeOfDay string) int {
	return DayIndex(day)*minutesPerDay + ParseMinutes(timeOfDay)
}

// Compare orders two (day, time) pairs chronologically Sunday 00:00 through
// Saturday 23:59, returning -1, 0 or 1.
func Compare(dayA, timeA, dayB, timeB string) int {
	a, b := Scalar(dayA, timeA), Scalar(dayB, timeB)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// WeekdayName returns the full day name ("Sunday".."Saturday") for a date.
func WeekdayName(t time.Time) string {
	return DaysFull[int(t.Weekday())]
}
