package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DateOnly is a calendar date without a time component. Deadlines and
// decision dates arrive as "YYYY-MM-DD" strings and are stored in DATE
// columns; comparisons treat the date as midnight UTC.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to its calendar date in UTC.
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.UTC().Date()
	return DateOnly{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDateOnly parses a "YYYY-MM-DD" string.
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.ParseInLocation(dateOnlyLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return DateOnly{Time: t}, nil
}

func (d DateOnly) String() string {
	return d.Format(dateOnlyLayout)
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateOnlyLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, for tolerant clients, a full
// RFC 3339 timestamp which is truncated to its date.
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*d = DateOnly{}
		return nil
	}
	if parsed, err := ParseDateOnly(raw); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	*d = NewDateOnly(t)
	return nil
}

// Value implements driver.Valuer so DATE columns receive a time.Time.
func (d DateOnly) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *DateOnly) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = DateOnly{}
		return nil
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case []byte:
		parsed, err := ParseDateOnly(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDateOnly(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateOnly", src)
}

// GormDataType maps the type to a DATE column.
func (DateOnly) GormDataType() string {
	return "date"
}
