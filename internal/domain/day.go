package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// dayLayout is the wire format for calendar dates.
const dayLayout = "2006-01-02"

// Day represents a calendar date with no time-of-day component.
// Market data and valuation snapshots are keyed by Day: two moments on the
// same UTC date are the same Day.
type Day struct {
	t time.Time
}

// NewDay creates a Day from its components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a point in time to its UTC calendar date.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return NewDay(y, m, d)
}

// ParseDay parses a date in YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format(dayLayout)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

// AddDays returns the day shifted by n calendar days (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar date.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other. It is the comparison function used for sorted-day searches.
func (d Day) Compare(other Day) int {
	return d.t.Compare(other.t)
}

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}
