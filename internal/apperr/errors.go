package apperr

type ValidationError struct {
	Message string
	Details []string
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

func NewValidation(msg string, details ...string) *ValidationError {
	return &ValidationError{Message: msg, Details: details}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConflictError reports a request that cannot proceed in the current state.
// Hint tells the caller what to do first.
type ConflictError struct {
	Message string
	Hint    string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflict(msg, hint string, err error) *ConflictError {
	return &ConflictError{Message: msg, Hint: hint, Err: err}
}

// OperationError is a server-side failure whose cause is safe to show the caller.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func NewOperation(msg string, err error) *OperationError {
	return &OperationError{Message: msg, Err: err}
}
