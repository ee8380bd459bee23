package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError signals that a well-formed dataset identifier is unknown to
// the registry. Distinct from ValidationError so callers can tell a bad
// configuration apart from a missing dataset.
type NotFoundError struct {
	Identifier string
	Err        error
}

func (e *NotFoundError) Error() string {
	msg := "dataset not found: " + e.Identifier
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func NewNotFound(identifier string, err error) *NotFoundError {
	return &NotFoundError{Identifier: identifier, Err: err}
}
