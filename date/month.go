package date

import (
	"fmt"
	"time"
)

// MonthFormat is the layout of a YearMonth key.
const MonthFormat = "2006-01"

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM" (single digit months are accepted).
func ParseYearMonth(str string) (YearMonth, error) {
	on, err := time.Parse("2006-1", str)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return YearMonth{Year: on.Year(), Month: on.Month()}, nil
}

// String returns the "YYYY-MM" key of the month. Keys sort lexically in
// chronological order for years 0 to 9999.
func (m YearMonth) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// Contains reports whether d falls in the month.
func (m YearMonth) Contains(d Date) bool { return d.y == m.Year && d.m == m.Month }

// Before reports whether m is strictly before x.
func (m YearMonth) Before(x YearMonth) bool {
	if m.Year != x.Year {
		return m.Year < x.Year
	}
	return m.Month < x.Month
}

// First returns the first day of the month.
func (m YearMonth) First() Date { return New(m.Year, m.Month, 1) }

// Last returns the last day of the month.
func (m YearMonth) Last() Date { return New(m.Year, m.Month+1, 0) }

// Next returns the following month.
func (m YearMonth) Next() YearMonth { return m.First().Add(32).YearMonth() }
