package project

import (
	"context"
	"fmt"
	"time"

	"github.com/ganot/project-registry/internal/domain/audit"
)

// Audit context labels.
const (
	ContextSmartUpdate = "smart-update"
	ContextCreate      = "create"
	ContextDelete      = "delete"
)

// Child is a reconcilable row owned by a project.
type Child interface {
	SoftDeletable
	audit.Entity
}

// Kind describes how one child collection is identified, built and stored.
// Changed and Apply are nil for kinds whose identity is their only attribute.
type Kind[T Child] struct {
	Table   string
	Key     func(T) string
	New     func(projectID string, desired T) T
	Changed func(existing, desired T) bool
	Apply   func(existing, desired T)
	Insert  func(ctx context.Context, item T) error
	Save    func(ctx context.Context, item T) error
}

// Env carries the per-request collaborators of a reconciliation.
type Env struct {
	Recorder *audit.Recorder
	Actor    string
	Label    string
	Now      func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

// Outcome counts what a reconciliation did to one collection.
type Outcome struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Updated int `json:"updated"`
	Kept    int `json:"kept"`
}

// Changed reports whether any row was written.
func (o Outcome) Changed() bool {
	return o.Added+o.Removed+o.Updated > 0
}

// Partition splits identity keys into the three reconciliation sets.
type Partition struct {
	Add    []string
	Remove []string
	Check  []string
}

// Plan partitions desired and existing identity keys. Add and Check keep the
// first-seen order of desired, Remove keeps the order of existing. Duplicate
// keys appear once.
func Plan(desired, existing []string) Partition {
	existingSet := make(map[string]struct{}, len(existing))
	for _, key := range existing {
		existingSet[key] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))

	var p Partition
	for _, key := range desired {
		if _, seen := desiredSet[key]; seen {
			continue
		}
		desiredSet[key] = struct{}{}
		if _, ok := existingSet[key]; ok {
			p.Check = append(p.Check, key)
		} else {
			p.Add = append(p.Add, key)
		}
	}

	removed := make(map[string]struct{})
	for _, key := range existing {
		if _, keep := desiredSet[key]; keep {
			continue
		}
		if _, seen := removed[key]; seen {
			continue
		}
		removed[key] = struct{}{}
		p.Remove = append(p.Remove, key)
	}
	return p
}

// Reconcile brings the live rows of one collection in line with desired.
// Only live rows of existing are considered. When two desired rows share an
// identity key the later one wins. Unchanged rows are neither written nor
// audited.
func Reconcile[T Child](ctx context.Context, kind Kind[T], projectID string, desired, existing []T, env Env) (Outcome, error) {
	desiredByKey := make(map[string]T, len(desired))
	desiredKeys := make([]string, 0, len(desired))
	for _, item := range desired {
		key := kind.Key(item)
		desiredByKey[key] = item
		desiredKeys = append(desiredKeys, key)
	}

	live := FilterLive(existing)
	existingByKey := make(map[string]T, len(live))
	existingKeys := make([]string, 0, len(live))
	for _, row := range live {
		key := kind.Key(row)
		existingByKey[key] = row
		existingKeys = append(existingKeys, key)
	}

	plan := Plan(desiredKeys, existingKeys)
	var out Outcome

	for _, key := range plan.Remove {
		row := existingByKey[key]
		if err := env.Recorder.RecordDelete(ctx, row, env.Actor, env.Label); err != nil {
			return out, err
		}
		row.Meta().SoftDelete(env.Actor, env.now())
		if err := kind.Save(ctx, row); err != nil {
			return out, fmt.Errorf("removing %s %q: %w", kind.Table, key, err)
		}
		out.Removed++
	}

	for _, key := range plan.Add {
		row := kind.New(projectID, desiredByKey[key])
		row.Meta().StampCreate(env.Actor, env.now())
		if err := kind.Insert(ctx, row); err != nil {
			return out, fmt.Errorf("adding %s %q: %w", kind.Table, key, err)
		}
		if err := env.Recorder.RecordInsert(ctx, row, env.Actor, env.Label); err != nil {
			return out, err
		}
		out.Added++
	}

	for _, key := range plan.Check {
		row, want := existingByKey[key], desiredByKey[key]
		if kind.Changed == nil || !kind.Changed(row, want) {
			out.Kept++
			continue
		}
		prior := audit.Capture(row)
		kind.Apply(row, want)
		row.Meta().StampUpdate(env.Actor, env.now())
		if err := kind.Save(ctx, row); err != nil {
			return out, fmt.Errorf("updating %s %q: %w", kind.Table, key, err)
		}
		if err := env.Recorder.RecordUpdate(ctx, row, prior, env.Actor, env.Label); err != nil {
			return out, err
		}
		out.Updated++
	}

	return out, nil
}
