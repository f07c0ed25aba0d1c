package database

import (
	"fmt"

	"planner-go/internal/model"
)

// Attachment and tag operations

func (s *SQLiteStore) CreateAttachment(attachment *model.Attachment) error {
	_, err := s.db.Exec(`
		INSERT INTO attachments (
			id, project_id, room_id, task_id, expense_id, kind, uri,
			file_name, mime_type, size_bytes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attachment.ID, attachment.ProjectID, attachment.RoomID,
		attachment.TaskID, attachment.ExpenseID, attachment.Kind,
		attachment.URI, attachment.FileName, attachment.MimeType,
		attachment.SizeBytes, attachment.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAttachments(projectID string) ([]*model.Attachment, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, room_id, task_id, expense_id, kind, uri,
		       file_name, mime_type, size_bytes, created_at
		FROM attachments
		WHERE project_id = ?
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var result []*model.Attachment
	for rows.Next() {
		var a model.Attachment
		err := rows.Scan(&a.ID, &a.ProjectID, &a.RoomID, &a.TaskID,
			&a.ExpenseID, &a.Kind, &a.URI, &a.FileName, &a.MimeType,
			&a.SizeBytes, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) ListTags(projectID string) ([]*model.Tag, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, name, type, color_token
		FROM tags
		WHERE project_id = ?
		ORDER BY type ASC, name ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var result []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Type, &t.ColorToken); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}
