package audit

import "context"

// Sink appends audit records. Implementations write inside the caller's
// active transaction.
type Sink interface {
	AppendAudit(ctx context.Context, rec *Record) error
}

// Repository reads persisted audit history.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Record, error)
}
