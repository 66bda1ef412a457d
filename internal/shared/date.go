// Package shared holds small helpers used across entity packages.
package shared

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (birth dates,
// foundation dates).
const DateLayout = "02/01/2006"

// Date is a calendar date that marshals as dd/MM/yyyy.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date in the dd/MM/yyyy wire format.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses a dd/MM/yyyy string.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("shared: parse date %q: %w", raw, err)
	}
	d.Time = parsed
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}
