package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist or was deleted.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrConflict indicates the project changed since the caller read it.
	ErrConflict = errors.New("project version conflict")
	// ErrAlreadyExists indicates a project with the same id exists.
	ErrAlreadyExists = errors.New("project already exists")
)
