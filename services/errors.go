package services

import "errors"

// Store error codes. Every failure surfaced by the stores carries one of
// these; there are no fatal error classes — callers decide the user-facing
// behavior.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodePersistence = "PERSISTENCE_ERROR"
)

// StoreError is a typed failure returned by the record and event stores.
type StoreError struct {
	Code    string
	Message string
	Err     error // underlying cause, if any
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func validationErr(message string) *StoreError {
	return &StoreError{Code: CodeValidation, Message: message}
}

func notFoundErr(message string) *StoreError {
	return &StoreError{Code: CodeNotFound, Message: message}
}

func persistenceErr(message string, err error) *StoreError {
	return &StoreError{Code: CodePersistence, Message: message, Err: err}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is an unknown-slug failure.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsPersistence reports whether err is an I/O failure.
func IsPersistence(err error) bool {
	return hasCode(err, CodePersistence)
}

func hasCode(err error, code string) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == code
}
