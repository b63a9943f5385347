package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for all date fields.
const DateLayout = "2006-01-02"

// Date is a calendar day normalized to UTC midnight. Mission windows and
// maintenance deadlines carry day granularity only.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string. An empty string returns the zero
// Date; anything else that does not parse is an error, never silently
// skipped.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return Date{t: t}, nil
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MustDate is a test helper that panics on parse failure.
func MustDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Time returns the underlying UTC midnight instant.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string, empty when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RangesOverlap reports whether [aStart,aEnd] and [bStart,bEnd] intersect.
// Boundaries are inclusive on both sides: ranges touching on a single day
// overlap. This is the shared predicate for pilot and drone double-booking
// detection.
func RangesOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	return !bStart.After(aEnd) && !bEnd.Before(aStart)
}
