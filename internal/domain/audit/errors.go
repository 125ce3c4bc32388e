package audit

import "errors"

var (
	// ErrNilEntity indicates a recorder call without an entity.
	ErrNilEntity = errors.New("audit: nil entity")
	// ErrInvalidInput indicates an invalid history query.
	ErrInvalidInput = errors.New("invalid audit input")
)
