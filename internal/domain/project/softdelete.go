package project

import "time"

// AuditFields are the lifecycle columns shared by every registry table.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *string   `json:"created_by"`
	UpdatedBy *string   `json:"updated_by"`
	Active    bool      `json:"is_active"`
}

// SoftDeletable is implemented by every entity that carries AuditFields.
type SoftDeletable interface {
	Meta() *AuditFields
}

// Meta returns the lifecycle fields; embedding AuditFields satisfies SoftDeletable.
func (f *AuditFields) Meta() *AuditFields { return f }

// StampCreate marks a new row as live and created by actor.
func (f *AuditFields) StampCreate(actor string, now time.Time) {
	f.CreatedAt = now
	f.CreatedBy = &actor
	f.Active = true
	f.StampUpdate(actor, now)
}

// StampUpdate records the last modification.
func (f *AuditFields) StampUpdate(actor string, now time.Time) {
	f.UpdatedAt = now
	f.UpdatedBy = &actor
}

// SoftDelete hides the row from live reads without removing it.
func (f *AuditFields) SoftDelete(actor string, now time.Time) {
	f.Active = false
	f.StampUpdate(actor, now)
}

func (f *AuditFields) columns(cols map[string]any) {
	cols["created_at"] = f.CreatedAt
	cols["updated_at"] = f.UpdatedAt
	cols["created_by"] = f.CreatedBy
	cols["updated_by"] = f.UpdatedBy
	cols["is_active"] = f.Active
}

// IsLive is the soft-delete gate: a row is visible iff its active flag is set.
func IsLive(e SoftDeletable) bool {
	return e.Meta().Active
}

// FilterLive keeps the live rows of items, preserving order.
func FilterLive[T SoftDeletable](items []T) []T {
	live := make([]T, 0, len(items))
	for _, item := range items {
		if IsLive(item) {
			live = append(live, item)
		}
	}
	return live
}
