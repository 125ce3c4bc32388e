package sqlite

import (
	"context"
	"fmt"

	"github.com/ganot/project-registry/internal/domain/project"
)

const auditColumns = `created_at, updated_at, created_by, updated_by, is_active`

func auditDest(f *project.AuditFields) []any {
	return []any{timeColumn{&f.CreatedAt}, timeColumn{&f.UpdatedAt}, &f.CreatedBy, &f.UpdatedBy, &f.Active}
}

// queryChildren runs a per-project child query and scans every row with
// scan before returning, so the single pooled connection is free again.
func queryChildren[T any](ctx context.Context, q querier, table, columns, projectID string, liveOnly bool, scan func(rowScanner) (T, error)) ([]T, error) {
	query := `SELECT ` + columns + `, ` + auditColumns + ` FROM ` + table + ` WHERE project_id = ?`
	if liveOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY id`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return items, nil
}

func loadTags(ctx context.Context, q querier, projectID string, liveOnly bool) ([]*project.Tag, error) {
	return queryChildren(ctx, q, project.TableTags, `id, project_id, tag`, projectID, liveOnly,
		func(row rowScanner) (*project.Tag, error) {
			var t project.Tag
			dest := append([]any{&t.ID, &t.ProjectID, &t.Value}, auditDest(&t.AuditFields)...)
			return &t, row.Scan(dest...)
		})
}

func insertTag(ctx context.Context, q querier, t *project.Tag) error {
	query := `INSERT INTO project_tags (project_id, tag, ` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{t.ProjectID, t.Value}, auditArgs(&t.AuditFields)...)

	id, err := insertRow(ctx, q, "create tag", query, args...)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func saveTag(ctx context.Context, q querier, t *project.Tag) error {
	query := `UPDATE project_tags SET tag = ?, updated_at = ?, updated_by = ?, is_active = ? WHERE id = ?`
	return execOne(ctx, q, "update tag", query, t.Value, formatTime(t.UpdatedAt), t.UpdatedBy, t.Active, t.ID)
}

func loadContributors(ctx context.Context, q querier, projectID string, liveOnly bool) ([]*project.Contributor, error) {
	return queryChildren(ctx, q, project.TableContributors, `id, project_id, name`, projectID, liveOnly,
		func(row rowScanner) (*project.Contributor, error) {
			var c project.Contributor
			dest := append([]any{&c.ID, &c.ProjectID, &c.Name}, auditDest(&c.AuditFields)...)
			return &c, row.Scan(dest...)
		})
}

func insertContributor(ctx context.Context, q querier, c *project.Contributor) error {
	query := `INSERT INTO project_individuals (project_id, name, ` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{c.ProjectID, c.Name}, auditArgs(&c.AuditFields)...)

	id, err := insertRow(ctx, q, "create contributor", query, args...)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func saveContributor(ctx context.Context, q querier, c *project.Contributor) error {
	query := `UPDATE project_individuals SET name = ?, updated_at = ?, updated_by = ?, is_active = ? WHERE id = ?`
	return execOne(ctx, q, "update contributor", query, c.Name, formatTime(c.UpdatedAt), c.UpdatedBy, c.Active, c.ID)
}

func loadTimeline(ctx context.Context, q querier, projectID string, liveOnly bool) ([]*project.TimelineItem, error) {
	return queryChildren(ctx, q, project.TableTimeline, `id, project_id, title, description, date, is_step_active`, projectID, liveOnly,
		func(row rowScanner) (*project.TimelineItem, error) {
			var i project.TimelineItem
			dest := append([]any{&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Date, &i.StepActive}, auditDest(&i.AuditFields)...)
			return &i, row.Scan(dest...)
		})
}

func insertTimelineItem(ctx context.Context, q querier, i *project.TimelineItem) error {
	query := `INSERT INTO timeline_items (project_id, title, description, date, is_step_active, ` + auditColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{i.ProjectID, i.Title, i.Description, i.Date, i.StepActive}, auditArgs(&i.AuditFields)...)

	id, err := insertRow(ctx, q, "create timeline item", query, args...)
	if err != nil {
		return err
	}
	i.ID = id
	return nil
}

func saveTimelineItem(ctx context.Context, q querier, i *project.TimelineItem) error {
	query := `UPDATE timeline_items SET description = ?, is_step_active = ?, updated_at = ?, updated_by = ?, is_active = ? WHERE id = ?`
	return execOne(ctx, q, "update timeline item", query,
		i.Description, i.StepActive, formatTime(i.UpdatedAt), i.UpdatedBy, i.Active, i.ID)
}

func insertRow(ctx context.Context, q querier, op, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}
