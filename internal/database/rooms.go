package database

import (
	"fmt"

	"planner-go/internal/model"
)

// Room operations

// CreateRoom inserts the room at the end of the project's ordering.
// The next order index is read and the row written in one transaction
// so concurrent inserts cannot claim the same slot.
func (s *SQLiteStore) CreateRoom(room *model.Room) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var orderIndex int64
	err = tx.QueryRow(`SELECT COALESCE(MAX(order_index), 0) + 1 FROM rooms WHERE project_id = ?`,
		room.ProjectID).Scan(&orderIndex)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("createRoom(%s)", room.ID), err)
	}
	room.OrderIndex = orderIndex

	_, err = tx.Exec(`
		INSERT INTO rooms (id, project_id, name, type, floor, order_index,
			status, budget_planned, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.ProjectID, room.Name, room.Type, room.Floor,
		room.OrderIndex, room.Status, room.BudgetPlanned, room.Notes,
		room.CreatedAt, room.UpdatedAt)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("createRoom(%s)", room.ID), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("createRoom(%s) failed: %w", room.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListRooms(projectID string) ([]*model.Room, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, name, type, floor, order_index, status,
		       budget_planned, notes, created_at, updated_at
		FROM rooms
		WHERE project_id = ?
		ORDER BY COALESCE(floor, '') ASC, order_index ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var result []*model.Room
	for rows.Next() {
		var r model.Room
		err := rows.Scan(&r.ID, &r.ProjectID, &r.Name, &r.Type, &r.Floor,
			&r.OrderIndex, &r.Status, &r.BudgetPlanned, &r.Notes,
			&r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// DeleteRoom removes the room and everything that hangs off it. Rows
// that merely point at the room's tasks or expenses from elsewhere in
// the project are removed too, and tags left with no task links at the
// end are swept out. One transaction, all or nothing.
func (s *SQLiteStore) DeleteRoom(projectID, roomID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{`DELETE FROM task_tags
		  WHERE task_id IN (SELECT id FROM tasks WHERE room_id = ?)`, []any{roomID}},
		{`DELETE FROM attachments
		  WHERE room_id = ?
		     OR task_id IN (SELECT id FROM tasks WHERE room_id = ?)
		     OR expense_id IN (SELECT id FROM expenses WHERE room_id = ?)`, []any{roomID, roomID, roomID}},
		{`DELETE FROM builder_quotes WHERE room_id = ? AND project_id = ?`, []any{roomID, projectID}},
		{`DELETE FROM events
		  WHERE room_id = ?
		     OR task_id IN (SELECT id FROM tasks WHERE room_id = ?)`, []any{roomID, roomID}},
		{`DELETE FROM expenses
		  WHERE room_id = ?
		     OR task_id IN (SELECT id FROM tasks WHERE room_id = ?)`, []any{roomID, roomID}},
		{`DELETE FROM tasks WHERE room_id = ?`, []any{roomID}},
		{`DELETE FROM rooms WHERE id = ? AND project_id = ?`, []any{roomID, projectID}},
		{`DELETE FROM tags
		  WHERE project_id = ?
		    AND id NOT IN (SELECT tag_id FROM task_tags)`, []any{projectID}},
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt.sql, stmt.args...); err != nil {
			return rollbackAndFail(tx, fmt.Sprintf("deleteRoom(%s)", roomID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleteRoom(%s) failed: %w", roomID, err)
	}
	return nil
}
