package database

import (
	"database/sql"
	"errors"
	"fmt"

	"planner-go/internal/model"
)

// Project operations

func (s *SQLiteStore) CreateProject(project *model.Project) error {
	_, err := s.db.Exec(`
		INSERT INTO projects (
			id, name, address, start_date, target_end_date, currency,
			home_layout, theme_preference, budget_planned_total,
			created_at, updated_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Address, project.StartDate,
		project.TargetEndDate, project.Currency, project.HomeLayout,
		project.ThemePreference, project.BudgetPlannedTotal,
		project.CreatedAt, project.UpdatedAt, project.ArchivedAt)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProject(id string) (*model.Project, error) {
	row := s.db.QueryRow(`
		SELECT id, name, address, start_date, target_end_date, currency,
		       home_layout, theme_preference, budget_planned_total,
		       created_at, updated_at, archived_at
		FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return project, nil
}

func (s *SQLiteStore) ListProjects() ([]*model.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, address, start_date, target_end_date, currency,
		       home_layout, theme_preference, budget_planned_total,
		       created_at, updated_at, archived_at
		FROM projects ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.StartDate,
		&p.TargetEndDate, &p.Currency, &p.HomeLayout, &p.ThemePreference,
		&p.BudgetPlannedTotal, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ClearProjectData deletes every row scoped to the project inside one
// exclusive transaction. The project row itself survives with its
// planned budget reset to zero. Child tables go first so foreign keys
// hold at every step.
func (s *SQLiteStore) ClearProjectData(projectID string, now string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{`DELETE FROM task_tags
		  WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)
		     OR tag_id IN (SELECT id FROM tags WHERE project_id = ?)`, []any{projectID, projectID}},
		{`DELETE FROM attachments WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM expenses WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM events WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM tasks WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM tags WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM builder_quotes WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM rooms WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM notification_queue WHERE project_id = ?`, []any{projectID}},
		{`DELETE FROM notification_preferences WHERE project_id = ?`, []any{projectID}},
		{`UPDATE projects SET budget_planned_total = 0, updated_at = ? WHERE id = ?`, []any{now, projectID}},
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt.sql, stmt.args...); err != nil {
			return rollbackAndFail(tx, fmt.Sprintf("clearProjectData(%s)", projectID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clearProjectData(%s) failed: %w", projectID, err)
	}
	return nil
}
