package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/repository"
)

var tracer = otel.Tracer("registry.project")

// Service handles project operations. Every write runs in one transaction
// together with its audit records.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics Metrics
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source for lifecycle stamps and audit records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new project service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		store:   store,
		logger:  logger,
		metrics: noopMetrics{},
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Changes holds the reconciliation outcome of each child collection.
type Changes struct {
	Tags         Outcome `json:"tags"`
	Contributors Outcome `json:"contributors"`
	Timeline     Outcome `json:"timeline"`
}

// Changed reports whether any child row was written.
func (c Changes) Changed() bool {
	return c.Tags.Changed() || c.Contributors.Changed() || c.Timeline.Changed()
}

// UpdateResult describes what an update did.
type UpdateResult struct {
	Project       *Project `json:"project"`
	FieldsChanged []string `json:"fields_changed"`
	Changes       Changes  `json:"changes"`
}

// Create inserts a project and its children.
func (s *Service) Create(ctx context.Context, actor string, p Payload) (_ *Project, err error) {
	if err := validatePayload(p); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.NewString()
	}
	actor = audit.ResolveActor(actor)

	ctx, span := tracer.Start(ctx, "project.Create", trace.WithAttributes(
		attribute.String("project.id", id),
		attribute.String("actor", actor),
	))
	start := time.Now()
	defer func() { s.finish(span, "create", start, err) }()

	err = s.store.WithinTx(ctx, func(tx Tx) error {
		env := s.env(tx, actor, ContextCreate)
		proj := &Project{ID: id, Fields: p.Fields, Version: 1}
		proj.StampCreate(actor, env.now())
		if err := tx.InsertProject(ctx, proj); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("inserting project: %w", err)
		}
		if err := env.Recorder.RecordInsert(ctx, proj, actor, ContextCreate); err != nil {
			return err
		}
		changes, err := s.reconcileChildren(ctx, tx, id, p, env)
		if err != nil {
			return err
		}
		s.logChanges("project created", id, nil, changes)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches a live project with its live children.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns live projects, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Project, error) {
	projects, err := s.store.ListProjects(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies p to the project with the given id. Scalar fields are
// written only when they differ, children are reconciled, and the version
// advances only when something was written. A non-nil expectedVersion must
// match the stored version.
func (s *Service) Update(ctx context.Context, actor, id string, p Payload, expectedVersion *int64) (_ *UpdateResult, err error) {
	if err := validatePayload(p); err != nil {
		return nil, err
	}
	actor = audit.ResolveActor(actor)

	ctx, span := tracer.Start(ctx, "project.Update", trace.WithAttributes(
		attribute.String("project.id", id),
		attribute.String("actor", actor),
	))
	start := time.Now()
	defer func() { s.finish(span, "update", start, err) }()

	result := &UpdateResult{}
	err = s.store.WithinTx(ctx, func(tx Tx) error {
		proj, err := s.loadLive(ctx, tx, id)
		if err != nil {
			return err
		}
		if expectedVersion != nil && *expectedVersion != proj.Version {
			return ErrConflict
		}

		env := s.env(tx, actor, ContextSmartUpdate)
		result.FieldsChanged = ChangedFields(proj.Fields, p.Fields)
		if len(result.FieldsChanged) > 0 {
			prior := audit.Capture(proj)
			proj.Fields = p.Fields
			proj.StampUpdate(actor, env.now())
			if err := tx.SaveProject(ctx, proj); err != nil {
				return fmt.Errorf("saving project: %w", err)
			}
			if err := env.Recorder.RecordUpdate(ctx, proj, prior, actor, ContextSmartUpdate); err != nil {
				return err
			}
		}

		result.Changes, err = s.reconcileChildren(ctx, tx, id, p, env)
		if err != nil {
			return err
		}
		if len(result.FieldsChanged) > 0 || result.Changes.Changed() {
			if err := s.bump(ctx, tx, id, proj.Version); err != nil {
				return err
			}
		}
		s.logChanges("project updated", id, result.FieldsChanged, result.Changes)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	result.Project, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete soft-deletes the project and each of its live children.
func (s *Service) Delete(ctx context.Context, actor, id string) (err error) {
	actor = audit.ResolveActor(actor)

	ctx, span := tracer.Start(ctx, "project.Delete", trace.WithAttributes(
		attribute.String("project.id", id),
		attribute.String("actor", actor),
	))
	start := time.Now()
	defer func() { s.finish(span, "delete", start, err) }()

	err = s.store.WithinTx(ctx, func(tx Tx) error {
		proj, err := s.loadLive(ctx, tx, id)
		if err != nil {
			return err
		}
		env := s.env(tx, actor, ContextDelete)
		if err := env.Recorder.RecordDelete(ctx, proj, actor, ContextDelete); err != nil {
			return err
		}
		proj.SoftDelete(actor, env.now())
		if err := tx.SaveProject(ctx, proj); err != nil {
			return fmt.Errorf("saving project: %w", err)
		}
		changes, err := s.reconcileChildren(ctx, tx, id, Payload{}, env)
		if err != nil {
			return err
		}
		if err := s.bump(ctx, tx, id, proj.Version); err != nil {
			return err
		}
		s.logChanges("project deleted", id, nil, changes)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (s *Service) env(tx Tx, actor, label string) Env {
	return Env{
		Recorder: audit.NewRecorder(tx, audit.WithClock(s.now)),
		Actor:    actor,
		Label:    label,
		Now:      s.now,
	}
}

func (s *Service) loadLive(ctx context.Context, tx Tx, id string) (*Project, error) {
	proj, err := tx.LoadProject(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if !IsLive(proj) {
		return nil, ErrProjectNotFound
	}
	return proj, nil
}

func (s *Service) bump(ctx context.Context, tx Tx, id string, expected int64) error {
	if _, err := tx.BumpVersion(ctx, id, expected); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("bumping version: %w", err)
	}
	return nil
}

func (s *Service) reconcileChildren(ctx context.Context, tx Tx, projectID string, p Payload, env Env) (Changes, error) {
	var changes Changes

	tags, err := tx.LoadTags(ctx, projectID)
	if err != nil {
		return changes, fmt.Errorf("loading tags: %w", err)
	}
	if changes.Tags, err = Reconcile(ctx, TagKind(tx), projectID, p.desiredTags(), tags, env); err != nil {
		return changes, err
	}

	contributors, err := tx.LoadContributors(ctx, projectID)
	if err != nil {
		return changes, fmt.Errorf("loading contributors: %w", err)
	}
	if changes.Contributors, err = Reconcile(ctx, ContributorKind(tx), projectID, p.desiredContributors(), contributors, env); err != nil {
		return changes, err
	}

	timeline, err := tx.LoadTimeline(ctx, projectID)
	if err != nil {
		return changes, fmt.Errorf("loading timeline: %w", err)
	}
	if changes.Timeline, err = Reconcile(ctx, TimelineKind(tx), projectID, p.desiredTimeline(), timeline, env); err != nil {
		return changes, err
	}

	s.metrics.ObserveReconcile(TableTags, changes.Tags.Added, changes.Tags.Removed, changes.Tags.Updated, changes.Tags.Kept)
	s.metrics.ObserveReconcile(TableContributors, changes.Contributors.Added, changes.Contributors.Removed, changes.Contributors.Updated, changes.Contributors.Kept)
	s.metrics.ObserveReconcile(TableTimeline, changes.Timeline.Added, changes.Timeline.Removed, changes.Timeline.Updated, changes.Timeline.Kept)
	return changes, nil
}

func (s *Service) logChanges(msg, id string, fields []string, c Changes) {
	s.logger.Info(msg,
		slog.String("project_id", id),
		slog.Int("fields_changed", len(fields)),
		slog.Any("tags", c.Tags),
		slog.Any("contributors", c.Contributors),
		slog.Any("timeline", c.Timeline),
	)
	if len(fields) > 0 {
		s.logger.Debug("project fields changed", slog.String("project_id", id), slog.Any("fields", fields))
	}
}

func (s *Service) finish(span trace.Span, op string, start time.Time, err error) {
	s.metrics.ObserveWrite(op, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func validatePayload(p Payload) error {
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(p.Status) == "" {
		problems = append(problems, "status is required")
	}
	for i, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			problems = append(problems, fmt.Sprintf("tags[%d] is empty", i))
		}
	}
	for i, name := range p.Contributors {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("contributors[%d] is empty", i))
		}
	}
	for i, item := range p.Timeline {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Date) == "" {
			problems = append(problems, fmt.Sprintf("timeline[%d] needs a title and a date", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
