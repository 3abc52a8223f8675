package types

import "fmt"

// ValidationKind classifies why client input was rejected.
type ValidationKind int

const (
	// MissingField means a required key was absent, null, or an empty name.
	MissingField ValidationKind = iota + 1
	// InvalidField means a name field was present but not a JSON string.
	InvalidField
	// BadDate means dob was present but not a YYYY-MM-DD date.
	BadDate
	// BadAmount means amount_due was present but not a JSON number.
	BadAmount
	// MalformedBody means the request body was empty or not a JSON object.
	MalformedBody
	// UnsupportedMediaType means the body was not declared as JSON.
	UnsupportedMediaType
)

// ValidationError reports the first problem found in client input.
// Its Error text is safe to return to the client as-is.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("Missing field: %s", e.Field)
	case InvalidField:
		return fmt.Sprintf("Invalid value for field: %s", e.Field)
	case BadDate:
		return "Invalid date format for dob, expected YYYY-MM-DD"
	case BadAmount:
		return "Invalid value for amount_due, expected a number"
	case MalformedBody:
		return "Request body must be a JSON object"
	case UnsupportedMediaType:
		return "Content-Type must be application/json"
	default:
		return "Invalid request"
	}
}
