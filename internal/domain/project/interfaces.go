package project

import (
	"context"
	"time"

	"github.com/ganot/project-registry/internal/domain/audit"
)

// Store opens units of work over project persistence.
type Store interface {
	Reader
	// WithinTx runs fn in a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Reader serves live reads outside a transaction.
type Reader interface {
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, opts ListOptions) ([]*Project, error)
	Overview(ctx context.Context) (*Overview, error)
	TimelineProgress(ctx context.Context) (*TimelineReport, error)
}

// Tx is the write side of a unit of work. Child loaders return every row of
// the project, soft-deleted ones included.
type Tx interface {
	audit.Sink

	LoadProject(ctx context.Context, id string) (*Project, error)
	InsertProject(ctx context.Context, p *Project) error
	SaveProject(ctx context.Context, p *Project) error
	// BumpVersion increments the project version if it still equals
	// expected and returns repository.ErrConflict otherwise.
	BumpVersion(ctx context.Context, id string, expected int64) (int64, error)

	LoadTags(ctx context.Context, projectID string) ([]*Tag, error)
	InsertTag(ctx context.Context, t *Tag) error
	SaveTag(ctx context.Context, t *Tag) error

	LoadContributors(ctx context.Context, projectID string) ([]*Contributor, error)
	InsertContributor(ctx context.Context, c *Contributor) error
	SaveContributor(ctx context.Context, c *Contributor) error

	LoadTimeline(ctx context.Context, projectID string) ([]*TimelineItem, error)
	InsertTimelineItem(ctx context.Context, i *TimelineItem) error
	SaveTimelineItem(ctx context.Context, i *TimelineItem) error
}

// Metrics observes service activity.
type Metrics interface {
	ObserveReconcile(table string, added, removed, updated, kept int)
	ObserveWrite(op string, d time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveReconcile(string, int, int, int, int) {}
func (noopMetrics) ObserveWrite(string, time.Duration, error)   {}
