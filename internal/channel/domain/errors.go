package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
)

// UnprocessableEntityError marks a configuration failure the pipeline cannot
// recover from, such as a channel without a valid destination group. The
// transport layer maps it to HTTP 422; an administrator has to fix the
// channel definition.
type UnprocessableEntityError struct {
	Message string
}

func (e *UnprocessableEntityError) Error() string {
	return e.Message
}

// NewUnprocessableEntity wraps a message into an UnprocessableEntityError.
func NewUnprocessableEntity(message string) error {
	return &UnprocessableEntityError{Message: message}
}

// IsUnprocessableEntity reports whether err is an UnprocessableEntityError.
func IsUnprocessableEntity(err error) bool {
	var uerr *UnprocessableEntityError
	return errors.As(err, &uerr)
}
