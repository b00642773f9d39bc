package view

import "errors"

var (
	ErrInvalidTemplate = errors.New("view: template not found")
	ErrInvalidElement  = errors.New("view: element not found")
	ErrInvalidLayout   = errors.New("view: layout not found")
	ErrInvalidCell     = errors.New("view: cell not found")
	ErrMissingHelper   = errors.New("view: helper not registered")
	ErrUnopenedBlock   = errors.New("view: no block is open")
	ErrUnclosedBlock   = errors.New("view: blocks left open")
)
