package database

import (
	"fmt"
	"strings"

	"planner-go/internal/rules"
)

// Each kind is capped individually before scoring so one noisy table
// cannot crowd the others out of the combined result set.
const searchRowsPerKind = 120

// SearchRows runs the LIKE-based match over tasks, events and expenses
// and returns the combined unscored rows. Scoring and ordering happen
// in the rules layer.
func (s *SQLiteStore) SearchRows(projectID string, params rules.SearchParams) ([]rules.SearchResult, error) {
	pattern := "%" + strings.TrimSpace(params.Query) + "%"

	var results []rules.SearchResult
	for _, search := range []func(string, string, rules.SearchParams) ([]rules.SearchResult, error){
		s.searchTasks, s.searchEvents, s.searchExpenses,
	} {
		rows, err := search(projectID, pattern, params)
		if err != nil {
			return nil, err
		}
		results = append(results, rows...)
	}
	return results, nil
}

func (s *SQLiteStore) searchTasks(projectID, pattern string, params rules.SearchParams) ([]rules.SearchResult, error) {
	query := `
		SELECT t.id, t.title, COALESCE(r.name, ''),
		       COALESCE(t.due_at, t.start_at, ''), t.updated_at,
		       t.status, t.phase
		FROM tasks t
		LEFT JOIN rooms r ON r.id = t.room_id
		WHERE t.project_id = ? AND t.deleted_at IS NULL
		  AND (t.title LIKE ? COLLATE NOCASE
		       OR t.description LIKE ? COLLATE NOCASE
		       OR r.name LIKE ? COLLATE NOCASE)`
	args := []any{projectID, pattern, pattern, pattern}

	if params.RoomID != "" {
		query += ` AND t.room_id = ?`
		args = append(args, params.RoomID)
	}
	if params.Status != "" {
		query += ` AND t.status = ?`
		args = append(args, params.Status)
	}
	if params.Phase != "" {
		query += ` AND t.phase = ?`
		args = append(args, params.Phase)
	}
	if params.DateFrom != "" {
		query += ` AND COALESCE(t.due_at, t.start_at) >= ?`
		args = append(args, params.DateFrom)
	}
	if params.DateTo != "" {
		query += ` AND COALESCE(t.due_at, t.start_at) <= ?`
		args = append(args, params.DateTo)
	}
	query += `
		ORDER BY COALESCE(t.due_at, t.start_at) DESC, t.updated_at DESC
		LIMIT ?`
	args = append(args, searchRowsPerKind)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	defer rows.Close()

	var results []rules.SearchResult
	for rows.Next() {
		result := rules.SearchResult{Kind: "task"}
		err := rows.Scan(&result.ID, &result.Title, &result.RoomName,
			&result.Date, &result.UpdatedAt, &result.Status, &result.Phase)
		if err != nil {
			return nil, fmt.Errorf("scanning task match: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) searchEvents(projectID, pattern string, params rules.SearchParams) ([]rules.SearchResult, error) {
	query := `
		SELECT e.id, e.title, COALESCE(r.name, ''), e.starts_at,
		       e.updated_at, e.type
		FROM events e
		LEFT JOIN rooms r ON r.id = e.room_id
		WHERE e.project_id = ?
		  AND (e.title LIKE ? COLLATE NOCASE
		       OR e.description LIKE ? COLLATE NOCASE
		       OR r.name LIKE ? COLLATE NOCASE)`
	args := []any{projectID, pattern, pattern, pattern}

	if params.RoomID != "" {
		query += ` AND e.room_id = ?`
		args = append(args, params.RoomID)
	}
	if params.DateFrom != "" {
		query += ` AND e.starts_at >= ?`
		args = append(args, params.DateFrom)
	}
	if params.DateTo != "" {
		query += ` AND e.starts_at <= ?`
		args = append(args, params.DateTo)
	}
	query += `
		ORDER BY e.starts_at DESC, e.updated_at DESC
		LIMIT ?`
	args = append(args, searchRowsPerKind)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	defer rows.Close()

	var results []rules.SearchResult
	for rows.Next() {
		result := rules.SearchResult{Kind: "event"}
		err := rows.Scan(&result.ID, &result.Title, &result.RoomName,
			&result.Date, &result.UpdatedAt, &result.Subtype)
		if err != nil {
			return nil, fmt.Errorf("scanning event match: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) searchExpenses(projectID, pattern string, params rules.SearchParams) ([]rules.SearchResult, error) {
	// Expenses have no free-form title, so the category doubles as the
	// display title and the subtype.
	query := `
		SELECT e.id, e.category, COALESCE(r.name, ''), e.incurred_on,
		       e.updated_at, e.category, e.amount
		FROM expenses e
		LEFT JOIN rooms r ON r.id = e.room_id
		WHERE e.project_id = ?
		  AND (e.category LIKE ? COLLATE NOCASE
		       OR e.vendor LIKE ? COLLATE NOCASE
		       OR r.name LIKE ? COLLATE NOCASE)`
	args := []any{projectID, pattern, pattern, pattern}

	if params.RoomID != "" {
		query += ` AND e.room_id = ?`
		args = append(args, params.RoomID)
	}
	if params.Category != "" {
		query += ` AND e.category = ?`
		args = append(args, params.Category)
	}
	if params.DateFrom != "" {
		query += ` AND e.incurred_on >= ?`
		args = append(args, params.DateFrom)
	}
	if params.DateTo != "" {
		query += ` AND e.incurred_on <= ?`
		args = append(args, params.DateTo)
	}
	query += `
		ORDER BY e.incurred_on DESC, e.updated_at DESC
		LIMIT ?`
	args = append(args, searchRowsPerKind)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching expenses: %w", err)
	}
	defer rows.Close()

	var results []rules.SearchResult
	for rows.Next() {
		result := rules.SearchResult{Kind: "expense"}
		err := rows.Scan(&result.ID, &result.Title, &result.RoomName,
			&result.Date, &result.UpdatedAt, &result.Subtype, &result.Amount)
		if err != nil {
			return nil, fmt.Errorf("scanning expense match: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
