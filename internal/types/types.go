// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, the service, and storage can all import types without
// depending on each other.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted wire and storage format for dates.
const DateLayout = "2006-01-02"

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..." controls how the field appears in API responses.
//  2. db:"..." maps the field to its column in the students table
//     (read by sqlx when scanning rows).
type Student struct {
	ID        int64   `json:"student_id" db:"student_id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name"  db:"last_name"`
	DOB       Date    `json:"dob"        db:"dob"`
	AmountDue float64 `json:"amount_due" db:"amount_due"`
}

// Date is a calendar date without a time-of-day component.
//
// It is encoded as "YYYY-MM-DD" everywhere it leaves the process: in JSON
// bodies and in the dob TEXT column.
type Date struct {
	time.Time
}

// ParseDate parses s using DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from its year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so a Date is stored as ISO text.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
//
// The sqlite3 driver hands back TEXT columns as string or []byte, and
// columns declared DATE as time.Time, so all three are accepted.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}
