package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of Class.Date and Class.EndDate.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Frequency is the recurrence rule name stored on a class.
type Frequency string

const (
	FrequencyDaily    Frequency = "Daily"
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiWeekly Frequency = "Bi-weekly"
	FrequencyMonthly  Frequency = "Monthly"
)

// ParseFrequency normalises a frequency name. The second result is false for
// names outside the four known rules.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return FrequencyDaily, true
	case "weekly":
		return FrequencyWeekly, true
	case "bi-weekly", "biweekly":
		return FrequencyBiWeekly, true
	case "monthly":
		return FrequencyMonthly, true
	}
	return Frequency(s), false
}

// Recurrence counts the dated occurrences of a series between two dates.
type Recurrence interface {
	Occurrences(start, end time.Time) int
}

// Daily counts both endpoints.
type Daily struct{}

func (Daily) Occurrences(start, end time.Time) int {
	return int(math.Ceil(daysBetween(start, end))) + 1
}

// Weekly counts started weeks.
type Weekly struct{}

func (Weekly) Occurrences(start, end time.Time) int {
	return int(math.Ceil(daysBetween(start, end) / 7))
}

// BiWeekly counts started fortnights.
type BiWeekly struct{}

func (BiWeekly) Occurrences(start, end time.Time) int {
	return int(math.Ceil(daysBetween(start, end) / 14))
}

// Monthly counts calendar months, inclusive of both endpoints' months.
type Monthly struct{}

func (Monthly) Occurrences(start, end time.Time) int {
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	return years*12 + months + 1
}

// SingleOccurrence is the fallback for unknown rules.
type SingleOccurrence struct{}

func (SingleOccurrence) Occurrences(time.Time, time.Time) int { return 1 }

// RecurrenceFor maps a frequency onto its rule.
func RecurrenceFor(f Frequency) Recurrence {
	norm, _ := ParseFrequency(string(f))
	switch norm {
	case FrequencyDaily:
		return Daily{}
	case FrequencyWeekly:
		return Weekly{}
	case FrequencyBiWeekly:
		return BiWeekly{}
	case FrequencyMonthly:
		return Monthly{}
	}
	return SingleOccurrence{}
}

func daysBetween(start, end time.Time) float64 {
	return float64(end.Sub(start)) / float64(day)
}

// ParseClock parses a 24-hour "HH:MM" string into minutes after midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}
	return h*60 + m, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SingleClassMinutes returns the length of one occurrence. Overnight ranges
// are not supported: end must be strictly after start.
func SingleClassMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, ErrInvalidTimeRange
	}
	return e - s, nil
}

// RecurringSeriesMinutes multiplies the occurrence count of the rule by the
// length of a single occurrence.
func RecurringSeriesMinutes(start, end time.Time, f Frequency, singleMinutes int) int {
	return RecurrenceFor(f).Occurrences(start, end) * singleMinutes
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
