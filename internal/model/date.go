package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the catalog providers.
const DateLayout = "2006-01-02"

// Date is a nullable calendar date.  It scans from MySQL DATE columns and
// serialises as "YYYY-MM-DD" (or null) so API clients see the same shape the
// providers use.
type Date struct {
	Time  time.Time
	Valid bool
}

// ParseDate converts a provider date string.  Empty or malformed input yields
// an invalid (null) Date rather than an error: providers routinely send "".
func ParseDate(s string) Date {
	if s == "" {
		return Date{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}
	}
	return Date{Time: t, Valid: true}
}

// String returns the date in DateLayout, or "" when null.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Time: v, Valid: true}
	case []byte:
		*d = ParseDate(string(v))
	case string:
		*d = ParseDate(v)
	default:
		return fmt.Errorf("model.Date: cannot scan %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time.Format(DateLayout), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDate(s)
	return nil
}
