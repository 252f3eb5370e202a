package journal

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("journal not found")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError carries the user-facing message and the offending fields.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
