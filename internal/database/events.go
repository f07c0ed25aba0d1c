package database

import (
	"fmt"

	"planner-go/internal/model"
)

// Event operations

func (s *SQLiteStore) CreateEvent(event *model.Event) error {
	_, err := s.db.Exec(`
		INSERT INTO events (
			id, project_id, room_id, task_id, type, title, description,
			starts_at, ends_at, is_all_day, company, contact_name,
			contact_phone, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.ProjectID, event.RoomID, event.TaskID, event.Type,
		event.Title, event.Description, event.StartsAt, event.EndsAt,
		event.IsAllDay, event.Company, event.ContactName, event.ContactPhone,
		event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListEvents(projectID string) ([]*model.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, room_id, task_id, type, title, description,
		       starts_at, ends_at, is_all_day, company, contact_name,
		       contact_phone, created_at, updated_at
		FROM events
		WHERE project_id = ?
		ORDER BY starts_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var result []*model.Event
	for rows.Next() {
		var e model.Event
		err := rows.Scan(&e.ID, &e.ProjectID, &e.RoomID, &e.TaskID, &e.Type,
			&e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.IsAllDay,
			&e.Company, &e.ContactName, &e.ContactPhone, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
