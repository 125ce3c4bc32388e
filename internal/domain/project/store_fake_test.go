package project_test

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/repository"
)

var errInjected = errors.New("injected failure")

type memState struct {
	projects     map[string]project.Project
	tags         []project.Tag
	contributors []project.Contributor
	timeline     []project.TimelineItem
	audits       []audit.Record
	nextID       int64
}

func (s *memState) clone() *memState {
	return &memState{
		projects:     maps.Clone(s.projects),
		tags:         slices.Clone(s.tags),
		contributors: slices.Clone(s.contributors),
		timeline:     slices.Clone(s.timeline),
		audits:       slices.Clone(s.audits),
		nextID:       s.nextID,
	}
}

// memStore is an in-memory project.Store. WithinTx works on a copy of the
// state and publishes it only when fn succeeds.
type memStore struct {
	state  *memState
	failOn string
}

func newMemStore() *memStore {
	return &memStore{state: &memState{projects: map[string]project.Project{}}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx project.Tx) error) error {
	tx := &memTx{st: m.state.clone(), failOn: m.failOn}
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx.st
	return nil
}

func (m *memStore) GetProject(_ context.Context, id string) (*project.Project, error) {
	p, ok := m.state.projects[id]
	if !ok || !p.Active {
		return nil, repository.ErrNotFound
	}
	return m.assemble(p), nil
}

func (m *memStore) ListProjects(_ context.Context, _ project.ListOptions) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range m.state.projects {
		if p.Active {
			out = append(out, m.assemble(p))
		}
	}
	return out, nil
}

func (m *memStore) Overview(context.Context) (*project.Overview, error) {
	return &project.Overview{TotalProjects: len(m.state.projects)}, nil
}

func (m *memStore) TimelineProgress(context.Context) (*project.TimelineReport, error) {
	return &project.TimelineReport{}, nil
}

func (m *memStore) assemble(p project.Project) *project.Project {
	for _, t := range m.state.tags {
		if t.ProjectID == p.ID && t.Active {
			p.Tags = append(p.Tags, &t)
		}
	}
	for _, c := range m.state.contributors {
		if c.ProjectID == p.ID && c.Active {
			p.Contributors = append(p.Contributors, &c)
		}
	}
	for _, i := range m.state.timeline {
		if i.ProjectID == p.ID && i.Active {
			p.Timeline = append(p.Timeline, &i)
		}
	}
	return &p
}

func (m *memStore) audits() []audit.Record { return m.state.audits }

func (m *memStore) liveTags(projectID string) []string {
	var values []string
	for _, t := range m.state.tags {
		if t.ProjectID == projectID && t.Active {
			values = append(values, t.Value)
		}
	}
	return values
}

type memTx struct {
	st     *memState
	failOn string
}

func (t *memTx) fail(op string) error {
	if t.failOn == op {
		return errInjected
	}
	return nil
}

func (t *memTx) AppendAudit(_ context.Context, rec *audit.Record) error {
	if err := t.fail("AppendAudit"); err != nil {
		return err
	}
	rec.ID = int64(len(t.st.audits) + 1)
	t.st.audits = append(t.st.audits, *rec)
	return nil
}

func (t *memTx) LoadProject(_ context.Context, id string) (*project.Project, error) {
	p, ok := t.st.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) InsertProject(_ context.Context, p *project.Project) error {
	if _, ok := t.st.projects[p.ID]; ok {
		return repository.ErrAlreadyExists
	}
	t.st.projects[p.ID] = *p
	return nil
}

func (t *memTx) SaveProject(_ context.Context, p *project.Project) error {
	stored, ok := t.st.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *p
	cp.Version = stored.Version
	t.st.projects[p.ID] = cp
	return nil
}

func (t *memTx) BumpVersion(_ context.Context, id string, expected int64) (int64, error) {
	p, ok := t.st.projects[id]
	if !ok || p.Version != expected {
		return 0, repository.ErrConflict
	}
	p.Version++
	t.st.projects[id] = p
	return p.Version, nil
}

func (t *memTx) LoadTags(_ context.Context, projectID string) ([]*project.Tag, error) {
	var out []*project.Tag
	for _, row := range t.st.tags {
		if row.ProjectID == projectID {
			out = append(out, &row)
		}
	}
	return out, nil
}

func (t *memTx) InsertTag(_ context.Context, row *project.Tag) error {
	if err := t.fail("InsertTag"); err != nil {
		return err
	}
	t.st.nextID++
	row.ID = t.st.nextID
	t.st.tags = append(t.st.tags, *row)
	return nil
}

func (t *memTx) SaveTag(_ context.Context, row *project.Tag) error {
	i := slices.IndexFunc(t.st.tags, func(x project.Tag) bool { return x.ID == row.ID })
	if i < 0 {
		return repository.ErrNotFound
	}
	t.st.tags[i] = *row
	return nil
}

func (t *memTx) LoadContributors(_ context.Context, projectID string) ([]*project.Contributor, error) {
	var out []*project.Contributor
	for _, row := range t.st.contributors {
		if row.ProjectID == projectID {
			out = append(out, &row)
		}
	}
	return out, nil
}

func (t *memTx) InsertContributor(_ context.Context, row *project.Contributor) error {
	t.st.nextID++
	row.ID = t.st.nextID
	t.st.contributors = append(t.st.contributors, *row)
	return nil
}

func (t *memTx) SaveContributor(_ context.Context, row *project.Contributor) error {
	i := slices.IndexFunc(t.st.contributors, func(x project.Contributor) bool { return x.ID == row.ID })
	if i < 0 {
		return repository.ErrNotFound
	}
	t.st.contributors[i] = *row
	return nil
}

func (t *memTx) LoadTimeline(_ context.Context, projectID string) ([]*project.TimelineItem, error) {
	var out []*project.TimelineItem
	for _, row := range t.st.timeline {
		if row.ProjectID == projectID {
			out = append(out, &row)
		}
	}
	return out, nil
}

func (t *memTx) InsertTimelineItem(_ context.Context, row *project.TimelineItem) error {
	if err := t.fail("InsertTimelineItem"); err != nil {
		return err
	}
	t.st.nextID++
	row.ID = t.st.nextID
	t.st.timeline = append(t.st.timeline, *row)
	return nil
}

func (t *memTx) SaveTimelineItem(_ context.Context, row *project.TimelineItem) error {
	i := slices.IndexFunc(t.st.timeline, func(x project.TimelineItem) bool { return x.ID == row.ID })
	if i < 0 {
		return repository.ErrNotFound
	}
	t.st.timeline[i] = *row
	return nil
}
