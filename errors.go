package patchbay

import "fmt"

// Error codes for settings validation failures.
const (
	// ErrCodeType marks a document value whose shape does not match the
	// schema entry (e.g. a string where an unsigned integer is expected).
	ErrCodeType = "invalid_type"

	// ErrCodeValue marks a value of the right shape that fails semantic
	// validation (out of range, unparseable, over the length limit).
	ErrCodeValue = "invalid_value"
)

// FieldError reports the first recognized setting that failed validation.
// Loading stops at that setting; no partial record is returned.
type FieldError struct {
	Path    string // Slash-separated document pointer (e.g. "/listen_port")
	Code    string // Error code (ErrCodeType or ErrCodeValue)
	Message string // Human-readable description
}

// Error formats the failure as a single-line message.
func (e *FieldError) Error() string {
	return fmt.Sprintf("patchbay: invalid setting %s: %s (%s)", e.Path, e.Message, e.Code)
}

// DecodeError reports a document that could not be parsed at all, before any
// setting was examined.
type DecodeError struct {
	Format Format // Encoding the document was parsed as
	Err    error  // Underlying decoder error
}

// Error formats the failure with the attempted encoding.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("patchbay: malformed %s document: %v", e.Format, e.Err)
}

// Unwrap exposes the underlying decoder error.
func (e *DecodeError) Unwrap() error { return e.Err }
