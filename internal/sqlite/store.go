package sqlite

import (
	"context"
	"fmt"

	"github.com/ganot/project-registry/internal/domain/project"
)

// Store implements project.Store for SQLite.
type Store struct {
	db *DB
}

// NewStore creates a new Store
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// WithinTx runs fn in a database transaction, committing when it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(tx project.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{q: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetProject returns a live project with its live children.
func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	proj, err := getProject(ctx, s.db, id, true)
	if err != nil {
		return nil, err
	}
	if err := attachChildren(ctx, s.db, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// ListProjects returns live projects with their live children, newest first.
func (s *Store) ListProjects(ctx context.Context, opts project.ListOptions) ([]*project.Project, error) {
	projects, err := listProjects(ctx, s.db, opts)
	if err != nil {
		return nil, err
	}
	for _, proj := range projects {
		if err := attachChildren(ctx, s.db, proj); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// Tx implements project.Tx over one SQL transaction. Loads include
// soft-deleted rows; the domain applies the live filter.
type Tx struct {
	q querier
}

func (t *Tx) LoadProject(ctx context.Context, id string) (*project.Project, error) {
	return getProject(ctx, t.q, id, false)
}

func (t *Tx) InsertProject(ctx context.Context, p *project.Project) error {
	return insertProject(ctx, t.q, p)
}

func (t *Tx) SaveProject(ctx context.Context, p *project.Project) error {
	return saveProject(ctx, t.q, p)
}

func (t *Tx) BumpVersion(ctx context.Context, id string, expected int64) (int64, error) {
	return bumpVersion(ctx, t.q, id, expected)
}

func (t *Tx) LoadTags(ctx context.Context, projectID string) ([]*project.Tag, error) {
	return loadTags(ctx, t.q, projectID, false)
}

func (t *Tx) InsertTag(ctx context.Context, tag *project.Tag) error {
	return insertTag(ctx, t.q, tag)
}

func (t *Tx) SaveTag(ctx context.Context, tag *project.Tag) error {
	return saveTag(ctx, t.q, tag)
}

func (t *Tx) LoadContributors(ctx context.Context, projectID string) ([]*project.Contributor, error) {
	return loadContributors(ctx, t.q, projectID, false)
}

func (t *Tx) InsertContributor(ctx context.Context, c *project.Contributor) error {
	return insertContributor(ctx, t.q, c)
}

func (t *Tx) SaveContributor(ctx context.Context, c *project.Contributor) error {
	return saveContributor(ctx, t.q, c)
}

func (t *Tx) LoadTimeline(ctx context.Context, projectID string) ([]*project.TimelineItem, error) {
	return loadTimeline(ctx, t.q, projectID, false)
}

func (t *Tx) InsertTimelineItem(ctx context.Context, item *project.TimelineItem) error {
	return insertTimelineItem(ctx, t.q, item)
}

func (t *Tx) SaveTimelineItem(ctx context.Context, item *project.TimelineItem) error {
	return saveTimelineItem(ctx, t.q, item)
}

func attachChildren(ctx context.Context, q querier, proj *project.Project) error {
	var err error
	if proj.Tags, err = loadTags(ctx, q, proj.ID, true); err != nil {
		return err
	}
	if proj.Contributors, err = loadContributors(ctx, q, proj.ID, true); err != nil {
		return err
	}
	if proj.Timeline, err = loadTimeline(ctx, q, proj.ID, true); err != nil {
		return err
	}
	return nil
}
