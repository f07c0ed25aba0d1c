package database

import (
	"fmt"

	"planner-go/internal/model"
)

// Builder quote operations

func (s *SQLiteStore) CreateQuote(quote *model.BuilderQuote) error {
	_, err := s.db.Exec(`
		INSERT INTO builder_quotes (
			id, project_id, room_id, title, scope, builder_name, amount,
			currency, status, notes, selected_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quote.ID, quote.ProjectID, quote.RoomID, quote.Title, quote.Scope,
		quote.BuilderName, quote.Amount, quote.Currency, quote.Status,
		quote.Notes, quote.SelectedAt, quote.CreatedAt, quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating quote: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListQuotes(projectID string) ([]*model.BuilderQuote, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, room_id, title, scope, builder_name, amount,
		       currency, status, notes, selected_at, created_at, updated_at
		FROM builder_quotes
		WHERE project_id = ?
		ORDER BY amount ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var result []*model.BuilderQuote
	for rows.Next() {
		var q model.BuilderQuote
		err := rows.Scan(&q.ID, &q.ProjectID, &q.RoomID, &q.Title, &q.Scope,
			&q.BuilderName, &q.Amount, &q.Currency, &q.Status, &q.Notes,
			&q.SelectedAt, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		result = append(result, &q)
	}
	return result, rows.Err()
}

// SelectQuote marks one quote selected and flips any previously
// selected quote in the project back to received. A single UPDATE over
// the project's quotes keeps the at-most-one-selected invariant without
// a read-modify-write cycle.
func (s *SQLiteStore) SelectQuote(projectID, quoteID string, now string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE builder_quotes
		SET
			status = CASE WHEN id = ? THEN 'selected' ELSE CASE WHEN status = 'selected' THEN 'received' ELSE status END END,
			selected_at = CASE WHEN id = ? THEN ? ELSE NULL END,
			updated_at = ?
		WHERE project_id = ?`,
		quoteID, quoteID, now, now, projectID)
	if err != nil {
		return rollbackAndFail(tx, fmt.Sprintf("selectQuote(%s)", quoteID), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("selectQuote(%s) failed: %w", quoteID, err)
	}
	return nil
}
