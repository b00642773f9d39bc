package form

import "errors"

var (
	// ErrUnclosedForm is returned by Open while a previous form is still open.
	ErrUnclosedForm = errors.New("form: form is already open")
	// ErrInvalidInputType is returned by Input for an unsupported type.
	ErrInvalidInputType = errors.New("form: invalid input type")
)
