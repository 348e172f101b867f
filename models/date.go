package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
// All schedule arithmetic operates on whole days; the underlying time.Time
// is always normalized to midnight UTC.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t.UTC()}, nil
}

// DateOf truncates a time.Time to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// AddDays returns the date shifted by n days. Negative n shifts earlier.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of days from d to other.
// Positive when other is after d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether both dates name the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the underlying midnight-UTC time.
func (d Date) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler, used by the JSON and TOML
// encoders.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler. yaml.v3 does not consult
// encoding.TextMarshaler, so this is needed for the YAML data format.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
