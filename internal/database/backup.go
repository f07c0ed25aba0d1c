package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"planner-go/internal/backup"
	"planner-go/internal/model"
)

// Backup operations

// ExportProjectRows reads every row belonging to the project across the
// nine collections inside one transaction, so the document is a
// consistent point-in-time view. Rows come back ordered by primary key.
func (s *SQLiteStore) ExportProjectRows(projectID string) (*backup.Payload, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	payload := &backup.Payload{}
	reads := []struct {
		dest  *[]backup.Row
		query string
		args  []any
	}{
		{&payload.Projects, `SELECT * FROM projects WHERE id = ? ORDER BY id`, []any{projectID}},
		{&payload.Rooms, `SELECT * FROM rooms WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.Tasks, `SELECT * FROM tasks WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.Events, `SELECT * FROM events WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.Expenses, `SELECT * FROM expenses WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.BuilderQuotes, `SELECT * FROM builder_quotes WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.Attachments, `SELECT * FROM attachments WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.Tags, `SELECT * FROM tags WHERE project_id = ? ORDER BY id`, []any{projectID}},
		{&payload.TaskTags, `
			SELECT tt.task_id, tt.tag_id
			FROM task_tags tt
			INNER JOIN tasks t ON t.id = tt.task_id
			WHERE t.project_id = ?
			ORDER BY tt.task_id, tt.tag_id`, []any{projectID}},
	}

	for _, read := range reads {
		rows, err := queryRows(tx, read.query, read.args...)
		if err != nil {
			return nil, rollbackAndFail(tx, fmt.Sprintf("exportProjectRows(%s)", projectID), err)
		}
		*read.dest = rows
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("exportProjectRows(%s) failed: %w", projectID, err)
	}
	return payload, nil
}

// queryRows runs a query and returns every result row as a generic
// column map, the shape backup documents carry.
func queryRows(tx *sql.Tx, query string, args ...any) ([]backup.Row, error) {
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []backup.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(backup.Row, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// restoreDeletes is the child-first delete order for wiping a project's
// rows. restoreInserts mirrors it parent-first so foreign keys hold as
// the payload goes back in.
var restoreDeletes = []struct {
	sql     string
	argRefs int
}{
	{`DELETE FROM task_tags
	  WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)
	     OR tag_id IN (SELECT id FROM tags WHERE project_id = ?)`, 2},
	{`DELETE FROM attachments WHERE project_id = ?`, 1},
	{`DELETE FROM expenses WHERE project_id = ?`, 1},
	{`DELETE FROM builder_quotes WHERE project_id = ?`, 1},
	{`DELETE FROM events WHERE project_id = ?`, 1},
	{`DELETE FROM tasks WHERE project_id = ?`, 1},
	{`DELETE FROM tags WHERE project_id = ?`, 1},
	{`DELETE FROM rooms WHERE project_id = ?`, 1},
	{`DELETE FROM projects WHERE id = ?`, 1},
}

// RestoreProject replaces the project's live rows with the document's
// payload in a single transaction that also persists the pre-restore
// snapshot. Foreign key checks are deferred to commit: the snapshot row
// must survive the moment the old project row is deleted, and the
// payload re-inserts the project before the transaction ends.
func (s *SQLiteStore) RestoreProject(snapshot *model.BackupSnapshot, doc *backup.Document) error {
	projectID := snapshot.ProjectID
	operation := fmt.Sprintf("restoreProject(%s)", projectID)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if _, err := tx.Exec("PRAGMA defer_foreign_keys = ON"); err != nil {
		return rollbackAndFail(tx, operation, err)
	}

	_, err = tx.Exec(`
		INSERT INTO backup_snapshots (id, project_id, reason, backup_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.ProjectID, snapshot.Reason, snapshot.BackupJSON, snapshot.CreatedAt)
	if err != nil {
		return rollbackAndFail(tx, operation, err)
	}

	for _, del := range restoreDeletes {
		args := make([]any, del.argRefs)
		for i := range args {
			args[i] = projectID
		}
		if _, err := tx.Exec(del.sql, args...); err != nil {
			return rollbackAndFail(tx, operation, err)
		}
	}

	inserts := []struct {
		table string
		rows  []backup.Row
	}{
		{"projects", doc.Payload.Projects},
		{"rooms", doc.Payload.Rooms},
		{"tasks", doc.Payload.Tasks},
		{"events", doc.Payload.Events},
		{"expenses", doc.Payload.Expenses},
		{"builder_quotes", doc.Payload.BuilderQuotes},
		{"attachments", doc.Payload.Attachments},
		{"tags", doc.Payload.Tags},
		{"task_tags", doc.Payload.TaskTags},
	}
	for _, group := range inserts {
		for _, row := range group.rows {
			if err := insertRow(tx, group.table, row); err != nil {
				return rollbackAndFail(tx, operation, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s failed: %w", operation, err)
	}
	return nil
}

// insertRow writes one payload row. Column names come from an untrusted
// document and are interpolated into the statement, so anything beyond
// plain identifier characters is rejected outright.
func insertRow(tx *sql.Tx, table string, row backup.Row) error {
	columns := make([]string, 0, len(row))
	for column := range row {
		if !isIdentifier(column) {
			return fmt.Errorf("invalid column name %q in %s row", column, table)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		placeholders[i] = "?"
		args[i] = row[column]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("inserting %s row: %w", table, err)
	}
	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
