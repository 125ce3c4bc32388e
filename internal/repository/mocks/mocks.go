package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

// AuditRepository is a mock for audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Record, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]audit.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectStore is a mock for project.Store. WithinTx hands Tx to the
// callback when one is set and otherwise returns the recorded error.
type ProjectStore struct {
	mock.Mock
	Tx project.Tx
}

func (m *ProjectStore) WithinTx(ctx context.Context, fn func(tx project.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

func (m *ProjectStore) GetProject(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) ListProjects(ctx context.Context, opts project.ListOptions) ([]*project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]*project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Overview(ctx context.Context) (*project.Overview, error) {
	args := m.Called(ctx)
	if overview, ok := args.Get(0).(*project.Overview); ok {
		return overview, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) TimelineProgress(ctx context.Context) (*project.TimelineReport, error) {
	args := m.Called(ctx)
	if report, ok := args.Get(0).(*project.TimelineReport); ok {
		return report, args.Error(1)
	}
	return nil, args.Error(1)
}
