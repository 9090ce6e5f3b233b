package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a nullable calendar value as the API sends it: null, "",
// "2006-01-02" or an RFC 3339 timestamp.
type Date struct {
	Time  time.Time
	Valid bool
	// dateOnly values carry no zone and are never shifted into the display location.
	dateOnly bool
}

// NewDate returns a valid date-only value.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true, dateOnly: true}
}

// ParseDate parses the API representation. An empty string yields the null Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return Date{Time: t, Valid: true, dateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("records: unrecognised date %q", s)
	}
	return Date{Time: t, Valid: true}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("records: date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	if d.dateOnly {
		return json.Marshal(d.Time.Format(time.DateOnly))
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

// In returns the calendar time to display in loc.
func (d Date) In(loc *time.Location) time.Time {
	if d.dateOnly || loc == nil {
		return d.Time
	}
	return d.Time.In(loc)
}
