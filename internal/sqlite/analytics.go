package sqlite

import (
	"context"
	"fmt"

	"github.com/ganot/project-registry/internal/domain/project"
)

// Overview computes dashboard counts. Children only count when both they and
// their project are live.
func (s *Store) Overview(ctx context.Context) (*project.Overview, error) {
	overview := &project.Overview{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE is_active = 1`,
	).Scan(&overview.TotalProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM timeline_items i
		JOIN projects p ON p.id = i.project_id
		WHERE i.is_step_active = 1 AND i.is_active = 1 AND p.is_active = 1
	`).Scan(&overview.ActiveMilestones)
	if err != nil {
		return nil, fmt.Errorf("failed to count active milestones: %w", err)
	}

	groups := []struct {
		column string
		dest   *[]project.Count
	}{
		{"status", &overview.ByStatus},
		{"primary_business_function", &overview.ByFunction},
		{"primary_benefits_category", &overview.ByBenefits},
		{"primary_ai_benefit_category", &overview.ByAIBenefits},
	}
	for _, g := range groups {
		query := `SELECT ` + g.column + `, COUNT(*) FROM projects
			WHERE is_active = 1 AND ` + g.column + ` IS NOT NULL
			GROUP BY ` + g.column + ` ORDER BY COUNT(*) DESC, ` + g.column
		if *g.dest, err = s.counts(ctx, query); err != nil {
			return nil, err
		}
	}

	overview.TopTags, err = s.counts(ctx, `
		SELECT t.tag, COUNT(*)
		FROM project_tags t
		JOIN projects p ON p.id = t.project_id
		WHERE t.is_active = 1 AND p.is_active = 1
		GROUP BY t.tag
		ORDER BY COUNT(*) DESC, t.tag
		LIMIT ?
	`, project.TopTagsLimit)
	if err != nil {
		return nil, err
	}
	return overview, nil
}

// TimelineProgress reports live milestone progress per live project.
func (s *Store) TimelineProgress(ctx context.Context) (*project.TimelineReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.status,
			COUNT(i.id),
			COALESCE(SUM(CASE WHEN i.is_step_active = 1 THEN 1 ELSE 0 END), 0)
		FROM projects p
		LEFT JOIN timeline_items i ON i.project_id = p.id AND i.is_active = 1
		WHERE p.is_active = 1
		GROUP BY p.id, p.title, p.status, p.created_at
		ORDER BY p.created_at DESC, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline progress: %w", err)
	}
	defer rows.Close()

	report := &project.TimelineReport{Projects: []project.Progress{}}
	for rows.Next() {
		var (
			id, title, status string
			total, active     int
		)
		if err := rows.Scan(&id, &title, &status, &total, &active); err != nil {
			return nil, fmt.Errorf("failed to scan timeline progress: %w", err)
		}
		report.Projects = append(report.Projects, project.NewProgress(id, title, status, total, active))
		report.TotalTimelineItems += total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline progress rows: %w", err)
	}
	return report, nil
}

func (s *Store) counts(ctx context.Context, query string, args ...any) ([]project.Count, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	counts := []project.Count{}
	for rows.Next() {
		var c project.Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}
