// Package report derives dashboard statistics from order and customer
// collections. Every function receives the current time explicitly.
package report

import (
	"errors"
	"fmt"
	"time"

	"babyboss-sales/internal/model"
)

var (
	ErrInvalidRange = errors.New("range must be one of week, month, year")
	ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
)

// Range is a dashboard time window.
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

const monthLayout = "2006-01"

// ParseRange validates a range name. Empty means month.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeYear:
		return Range(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// Contains reports whether a YYYY-MM-DD date falls in the window ending at now.
// The week window covers the last seven calendar days.
func (r Range) Contains(date string, now time.Time) bool {
	if !validDate(date) {
		return false
	}
	switch r {
	case RangeWeek:
		return date >= now.AddDate(0, 0, -7).Format(model.DateLayout)
	case RangeMonth:
		return date[:7] == now.Format(monthLayout)
	case RangeYear:
		return date[:4] == now.Format("2006")
	}
	return false
}

// StartOfWeek returns the Monday of the week containing now.
func StartOfWeek(now time.Time) string {
	offset := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -offset).Format(model.DateLayout)
}

// SameQuarter reports whether date lies in the calendar quarter of now.
func SameQuarter(date string, now time.Time) bool {
	d, ok := parseDate(date, now.Location())
	if !ok || d.Year() != now.Year() {
		return false
	}
	return (int(d.Month())-1)/3 == (int(now.Month())-1)/3
}

// ValidateMonth checks a YYYY-MM string. Empty is accepted.
func ValidateMonth(month string) error {
	if month == "" {
		return nil
	}
	if _, err := time.Parse(monthLayout, month); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD string. Empty is accepted.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if !validDate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func validDate(date string) bool {
	_, ok := parseDate(date, time.UTC)
	return ok
}

func parseDate(date string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(model.DateLayout, date, loc)
	return t, err == nil
}
