package database

import (
	"database/sql"
	"fmt"
	"strings"

	"planner-go/internal/model"
	"planner-go/internal/rules"
)

// Task operations

// CreateTask inserts the task and writes its tag links inside one
// exclusive transaction. The task takes the next sort index in its
// room.
func (s *SQLiteStore) CreateTask(task *model.Task, tradeTags, customTags []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var sortIndex int64
	err = tx.QueryRow(`SELECT COALESCE(MAX(sort_index), 0) + 1 FROM tasks WHERE room_id = ?`,
		task.RoomID).Scan(&sortIndex)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("createTask(%s)", task.ID), err)
	}
	task.SortIndex = sortIndex

	_, err = tx.Exec(`
		INSERT INTO tasks (
			id, project_id, room_id, title, description, phase, status,
			waiting_reason, due_at, start_at, priority, sort_index,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.RoomID, task.Title, task.Description,
		task.Phase, task.Status, task.WaitingReason, task.DueAt, task.StartAt,
		task.Priority, task.SortIndex, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("createTask(%s)", task.ID), err)
	}

	if err := s.upsertTaskTags(tx, task.ID, task.ProjectID, tradeTags, customTags); err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("createTask(%s)", task.ID), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("createTask(%s) failed: %w", task.ID, err)
	}
	return nil
}

// UpdateTask rewrites the task's editable fields and replaces its tag
// links, in one transaction.
func (s *SQLiteStore) UpdateTask(task *model.Task, tradeTags, customTags []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE tasks
		SET room_id = ?, title = ?, description = ?, phase = ?, status = ?,
		    waiting_reason = ?, due_at = ?, start_at = ?, priority = ?,
		    updated_at = ?
		WHERE id = ?`,
		task.RoomID, task.Title, task.Description, task.Phase, task.Status,
		task.WaitingReason, task.DueAt, task.StartAt, task.Priority,
		task.UpdatedAt, task.ID)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("updateTask(%s)", task.ID), err)
	}

	if err := s.upsertTaskTags(tx, task.ID, task.ProjectID, tradeTags, customTags); err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("updateTask(%s)", task.ID), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("updateTask(%s) failed: %w", task.ID, err)
	}
	return nil
}

type tagRef struct {
	name string
	kind string
}

// upsertTaskTags replaces the task's tag links. Tag names are
// normalized, existing tags are reused, and missing ones are created
// with fresh ids. Runs inside the caller's transaction.
func (s *SQLiteStore) upsertTaskTags(tx *sql.Tx, taskID, projectID string, tradeTags, customTags []string) error {
	var all []tagRef
	for _, name := range rules.NormalizeTagNames(tradeTags) {
		all = append(all, tagRef{name: name, kind: "trade"})
	}
	for _, name := range rules.NormalizeTagNames(customTags) {
		all = append(all, tagRef{name: name, kind: "custom"})
	}

	if _, err := tx.Exec(`DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing tag links: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	clauses := make([]string, len(all))
	lookupArgs := []any{projectID}
	for i, tag := range all {
		clauses[i] = "(name = ? AND type = ?)"
		lookupArgs = append(lookupArgs, tag.name, tag.kind)
	}

	rows, err := tx.Query(`
		SELECT id, name, type FROM tags
		WHERE project_id = ? AND (`+strings.Join(clauses, " OR ")+`)`, lookupArgs...)
	if err != nil {
		return fmt.Errorf("looking up tags: %w", err)
	}
	idsByKey := make(map[tagRef]string)
	for rows.Next() {
		var id string
		var ref tagRef
		if err := rows.Scan(&id, &ref.name, &ref.kind); err != nil {
			rows.Close()
			return fmt.Errorf("scanning tag: %w", err)
		}
		idsByKey[ref] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("looking up tags: %w", err)
	}

	for _, tag := range all {
		if _, ok := idsByKey[tag]; ok {
			continue
		}
		id := s.ids.NewID("tag")
		_, err := tx.Exec(`INSERT INTO tags (id, project_id, name, type, color_token) VALUES (?, ?, ?, ?, NULL)`,
			id, projectID, tag.name, tag.kind)
		if err != nil {
			return fmt.Errorf("creating tag %q: %w", tag.name, err)
		}
		idsByKey[tag] = id
	}

	for _, tag := range all {
		_, err := tx.Exec(`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`,
			taskID, idsByKey[tag])
		if err != nil {
			return fmt.Errorf("linking tag %q: %w", tag.name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListTasks(projectID string) ([]*model.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, room_id, title, description, phase, status,
		       waiting_reason, due_at, start_at, completed_at, priority,
		       sort_index, created_at, updated_at, deleted_at
		FROM tasks
		WHERE project_id = ? AND deleted_at IS NULL
		ORDER BY sort_index ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var result []*model.Task
	for rows.Next() {
		var t model.Task
		err := rows.Scan(&t.ID, &t.ProjectID, &t.RoomID, &t.Title,
			&t.Description, &t.Phase, &t.Status, &t.WaitingReason,
			&t.DueAt, &t.StartAt, &t.CompletedAt, &t.Priority,
			&t.SortIndex, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// ListNextTaskCandidates returns the non-deleted tasks joined with
// their room names, as scoring input for the recommendation rules.
func (s *SQLiteStore) ListNextTaskCandidates(projectID string) ([]rules.NextTaskCandidate, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.title, r.name, t.status, t.phase, t.due_at,
		       t.priority, t.sort_index, t.updated_at
		FROM tasks t
		INNER JOIN rooms r ON r.id = t.room_id
		WHERE t.project_id = ? AND t.deleted_at IS NULL`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task candidates: %w", err)
	}
	defer rows.Close()

	var result []rules.NextTaskCandidate
	for rows.Next() {
		var c rules.NextTaskCandidate
		err := rows.Scan(&c.ID, &c.Title, &c.RoomName, &c.Status, &c.Phase,
			&c.DueAt, &c.Priority, &c.SortIndex, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task candidate: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
