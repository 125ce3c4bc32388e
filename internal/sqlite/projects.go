package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/repository"
)

const projectColumns = `id, title, description, status,
	why_we_built_this, what_weve_built, nti_status, nti_link,
	primary_benefits_category, primary_ai_benefit_category, investment_required,
	expected_near_term_benefits, expected_long_term_benefits, primary_business_function,
	version, created_at, updated_at, created_by, updated_by, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.WhyWeBuiltThis,
		&p.WhatWeveBuilt,
		&p.NTIStatus,
		&p.NTILink,
		&p.PrimaryBenefitsCategory,
		&p.PrimaryAIBenefitCategory,
		&p.InvestmentRequired,
		&p.ExpectedNearTermBenefits,
		&p.ExpectedLongTermBenefits,
		&p.PrimaryBusinessFunction,
		&p.Version,
		timeColumn{&p.CreatedAt},
		timeColumn{&p.UpdatedAt},
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.Active,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func fieldArgs(f *project.Fields) []any {
	return []any{
		f.Title,
		f.Description,
		f.Status,
		f.WhyWeBuiltThis,
		f.WhatWeveBuilt,
		f.NTIStatus,
		f.NTILink,
		f.PrimaryBenefitsCategory,
		f.PrimaryAIBenefitCategory,
		f.InvestmentRequired,
		f.ExpectedNearTermBenefits,
		f.ExpectedLongTermBenefits,
		f.PrimaryBusinessFunction,
	}
}

func auditArgs(f *project.AuditFields) []any {
	return []any{formatTime(f.CreatedAt), formatTime(f.UpdatedAt), f.CreatedBy, f.UpdatedBy, f.Active}
}

func getProject(ctx context.Context, q querier, id string, liveOnly bool) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	if liveOnly {
		query += ` AND is_active = 1`
	}

	proj, err := scanProject(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

func listProjects(ctx context.Context, q querier, opts project.ListOptions) ([]*project.Project, error) {
	var (
		where = []string{"is_active = 1"}
		args  []any
	)
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Function != "" {
		where = append(where, "primary_business_function = ?")
		args = append(args, opts.Function)
	}
	if opts.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM project_tags t
			WHERE t.project_id = projects.id AND t.tag = ? AND t.is_active = 1)`)
		args = append(args, opts.Tag)
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

func insertProject(ctx context.Context, q querier, p *project.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := append([]any{p.ID}, fieldArgs(&p.Fields)...)
	args = append(args, p.Version)
	args = append(args, auditArgs(&p.AuditFields)...)

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return classify("create project", err)
	}
	return nil
}

// saveProject writes scalar and lifecycle columns. The version is owned by
// bumpVersion.
func saveProject(ctx context.Context, q querier, p *project.Project) error {
	query := `
		UPDATE projects SET
			title = ?, description = ?, status = ?,
			why_we_built_this = ?, what_weve_built = ?, nti_status = ?, nti_link = ?,
			primary_benefits_category = ?, primary_ai_benefit_category = ?, investment_required = ?,
			expected_near_term_benefits = ?, expected_long_term_benefits = ?, primary_business_function = ?,
			created_at = ?, updated_at = ?, created_by = ?, updated_by = ?, is_active = ?
		WHERE id = ?
	`
	args := append(fieldArgs(&p.Fields), auditArgs(&p.AuditFields)...)
	args = append(args, p.ID)

	return execOne(ctx, q, "update project", query, args...)
}

func bumpVersion(ctx context.Context, q querier, id string, expected int64) (int64, error) {
	query := `UPDATE projects SET version = version + 1 WHERE id = ? AND version = ?`

	result, err := q.ExecContext(ctx, query, id, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to bump project version: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return 0, repository.ErrConflict
	}
	return expected + 1, nil
}

func execOne(ctx context.Context, q querier, op, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
