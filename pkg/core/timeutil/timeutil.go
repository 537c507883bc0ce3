// Package timeutil provides clock-time parsing and week arithmetic for
// schedule generation. All dates are normalized to midnight UTC so week
// calculations are stable across DST transitions.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClock is returned when a clock string is malformed or out of range
var ErrInvalidClock = errors.New("invalid clock time")

// ErrInvalidWeek is returned when a week slice does not contain exactly 7 dates
var ErrInvalidWeek = errors.New("week must contain exactly 7 dates")

// Weekday is a lowercase weekday token as stored in templates and availability
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists all weekdays in ISO order (Monday first)
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday converts a weekday token to a Weekday
func ParseWeekday(s string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Weekdays {
		if day == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("unrecognized weekday %q", s)
}

// Clock is a time of day expressed as minutes since midnight
type Clock int

// ParseClock parses an "HH:mm" or "HH:mm:ss" string into a Clock.
// Seconds, if present, are ignored. Returns ErrInvalidClock for malformed
// strings or out-of-range hour/minute values.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return Clock(hour*60 + minute), nil
}

// MustClock parses a clock string and panics on failure. Intended for
// constants and test fixtures.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component (0-23)
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component (0-59)
func (c Clock) Minute() int { return int(c) % 60 }

// Before reports whether c is earlier in the day than other
func (c Clock) Before(other Clock) bool { return c < other }

// After reports whether c is later in the day than other
func (c Clock) After(other Clock) bool { return c > other }

// String formats the clock as "HH:mm"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// SpanHours returns the duration from start to end in hours. An end time
// earlier than start yields zero; callers log the anomaly rather than
// treating it as an overnight shift.
func SpanHours(start, end Clock) float64 {
	if end.Before(start) {
		return 0
	}
	return float64(end-start) / 60.0
}

// WeekRange returns the Monday-to-Sunday week containing the given date.
// Each returned date is midnight UTC.
func WeekRange(anyDate time.Time) [7]time.Time {
	d := time.Date(anyDate.Year(), anyDate.Month(), anyDate.Day(), 0, 0, 0, 0, time.UTC)

	// time.Weekday has Sunday == 0; shift so Monday == 0
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)

	var week [7]time.Time
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// WeekdayOf returns the weekday token for a date
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DateForWeekday returns the date within the given week that falls on the
// given weekday. The week slice must contain exactly 7 dates.
func DateForWeekday(day Weekday, week []time.Time) (time.Time, error) {
	if len(week) != 7 {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidWeek, len(week))
	}
	for _, date := range week {
		if WeekdayOf(date) == day {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized weekday %q", day)
}

// DateKey formats a date as "2006-01-02" for use as a map key
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}
