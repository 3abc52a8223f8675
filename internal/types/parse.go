package types

import (
	"bytes"
	"encoding/json"
	"mime"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear in request bodies.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldDOB       = "dob"
	FieldAmountDue = "amount_due"
)

// validate is shared; a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// Fields is an untrusted request body, split into its top-level keys.
// Values stay raw until Parse decides how each one must be decoded.
type Fields map[string]json.RawMessage

// DecodeFields turns a request body into Fields.
//
// An empty contentType is accepted; anything else must be application/json
// (parameters such as charset are allowed).
func DecodeFields(contentType string, body []byte) (Fields, error) {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return nil, &ValidationError{Kind: UnsupportedMediaType}
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ValidationError{Kind: MalformedBody}
	}

	var fields Fields
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, &ValidationError{Kind: MalformedBody}
	}
	return fields, nil
}

// Parse builds a Student from untrusted fields.
//
// Fields are checked in the order first_name, last_name, dob, amount_due
// and the first failure is returned as a *ValidationError. Nothing is
// trimmed or normalised. The returned Student has no ID.
func Parse(fields Fields) (Student, error) {
	var s Student
	var err error

	if s.FirstName, err = parseName(fields, FieldFirstName); err != nil {
		return Student{}, err
	}
	if s.LastName, err = parseName(fields, FieldLastName); err != nil {
		return Student{}, err
	}
	if s.DOB, err = parseDOB(fields); err != nil {
		return Student{}, err
	}
	if s.AmountDue, err = parseAmount(fields); err != nil {
		return Student{}, err
	}
	return s, nil
}

// lookup returns the raw value for key, treating JSON null as absent.
func lookup(fields Fields, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func parseName(fields Fields, key string) (string, error) {
	raw, ok := lookup(fields, key)
	if !ok {
		return "", &ValidationError{Kind: MissingField, Field: key}
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", &ValidationError{Kind: InvalidField, Field: key}
	}
	if err := validate.Var(name, "required"); err != nil {
		return "", &ValidationError{Kind: MissingField, Field: key}
	}
	return name, nil
}

func parseDOB(fields Fields) (Date, error) {
	raw, ok := lookup(fields, FieldDOB)
	if !ok {
		return Date{}, &ValidationError{Kind: MissingField, Field: FieldDOB}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return Date{}, &ValidationError{Kind: BadDate, Field: FieldDOB}
	}
	if err := validate.Var(s, "datetime="+DateLayout); err != nil {
		return Date{}, &ValidationError{Kind: BadDate, Field: FieldDOB}
	}

	dob, err := ParseDate(s)
	if err != nil {
		return Date{}, &ValidationError{Kind: BadDate, Field: FieldDOB}
	}
	return dob, nil
}

func parseAmount(fields Fields) (float64, error) {
	raw, ok := lookup(fields, FieldAmountDue)
	if !ok {
		return 0, &ValidationError{Kind: MissingField, Field: FieldAmountDue}
	}

	var amount float64
	if err := json.Unmarshal(raw, &amount); err != nil {
		return 0, &ValidationError{Kind: BadAmount, Field: FieldAmountDue}
	}
	return amount, nil
}
