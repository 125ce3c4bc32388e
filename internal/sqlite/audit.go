package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ganot/project-registry/internal/domain/audit"
)

// AppendAudit writes rec inside the transaction and assigns its ID.
func (t *Tx) AppendAudit(ctx context.Context, rec *audit.Record) error {
	oldData, err := encodeSnapshot(rec.OldData)
	if err != nil {
		return err
	}
	newData, err := encodeSnapshot(rec.NewData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_log (table_name, row_id, action, old_data, new_data, timestamp, actor, context)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := insertRow(ctx, t.q, "append audit record", query,
		rec.TableName,
		rec.RowID,
		string(rec.Action),
		oldData,
		newData,
		formatTime(rec.Timestamp),
		rec.Actor,
		rec.Context,
	)
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// AuditRepository implements audit.Repository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// List returns audit records matching filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.TableName != "" {
		where = append(where, "table_name = ?")
		args = append(args, filter.TableName)
	}
	if filter.RowID != "" {
		where = append(where, "row_id = ?")
		args = append(args, filter.RowID)
	}
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Actor != "" {
		where = append(where, "actor = ?")
		args = append(args, filter.Actor)
	}

	query := `SELECT id, table_name, row_id, action, old_data, new_data, timestamp, actor, context FROM audit_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var (
			rec              audit.Record
			action           string
			oldData, newData sql.NullString
		)
		err := rows.Scan(
			&rec.ID,
			&rec.TableName,
			&rec.RowID,
			&action,
			&oldData,
			&newData,
			timeColumn{&rec.Timestamp},
			&rec.Actor,
			&rec.Context,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Action = audit.Action(action)
		if rec.OldData, err = decodeSnapshot(oldData); err != nil {
			return nil, err
		}
		if rec.NewData, err = decodeSnapshot(newData); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return records, nil
}

func encodeSnapshot(s audit.Snapshot) (*string, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	text := string(data)
	return &text, nil
}

func decodeSnapshot(col sql.NullString) (audit.Snapshot, error) {
	if !col.Valid {
		return nil, nil
	}
	var s audit.Snapshot
	if err := json.Unmarshal([]byte(col.String), &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
