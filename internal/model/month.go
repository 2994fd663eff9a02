package model

import (
	"time"

	"github.com/cleared-dev/budgetwatch/internal/id"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month of t in t's own location.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "2024-05".
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, err := id.ParseMonth(s)
	if err != nil {
		return YearMonth{}, err
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

func (ym YearMonth) String() string {
	return id.FormatMonth(ym.Year, int(ym.Month))
}

// Prev returns the preceding calendar month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Bounds returns the first and last instant of the month in loc. Both ends
// are inclusive.
func (ym YearMonth) Bounds(loc *time.Location) (start, end time.Time) {
	start = time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Contains reports whether t falls inside the month in loc. Zero times are
// never contained.
func (ym YearMonth) Contains(t time.Time, loc *time.Location) bool {
	if t.IsZero() {
		return false
	}
	start, end := ym.Bounds(loc)
	t = t.In(loc)
	return !t.Before(start) && !t.After(end)
}
