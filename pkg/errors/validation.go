package errors

import "fmt"

// Action names the mutation a validation failure happened in.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// ValidationFailure reports that an entity could not be persisted with the
// received data. The cause is kept for logs only and never reaches clients.
func ValidationFailure(entity string, action Action, cause error) *Error {
	msg := fmt.Sprintf("%s could not be %s with received data.", entity, action)
	return Wrap(CodeValidation, cause, msg).WithDetails(map[string]any{
		"entity": entity,
		"status": "Bad request",
	})
}

// IsCode reports whether err carries the provided code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
