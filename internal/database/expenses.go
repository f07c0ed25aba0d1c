package database

import (
	"fmt"

	"planner-go/internal/model"
	"planner-go/internal/rules"
)

// Expense operations

func (s *SQLiteStore) CreateExpense(expense *model.Expense) error {
	_, err := s.db.Exec(`
		INSERT INTO expenses (
			id, project_id, room_id, task_id, category, vendor, amount,
			tax_amount, incurred_on, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.ProjectID, expense.RoomID, expense.TaskID,
		expense.Category, expense.Vendor, expense.Amount, expense.TaxAmount,
		expense.IncurredOn, expense.Notes, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExpenses(projectID string) ([]*model.Expense, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, room_id, task_id, category, vendor, amount,
		       tax_amount, incurred_on, notes, created_at, updated_at
		FROM expenses
		WHERE project_id = ?
		ORDER BY incurred_on DESC, created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var result []*model.Expense
	for rows.Next() {
		var e model.Expense
		err := rows.Scan(&e.ID, &e.ProjectID, &e.RoomID, &e.TaskID,
			&e.Category, &e.Vendor, &e.Amount, &e.TaxAmount, &e.IncurredOn,
			&e.Notes, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// Cost insight inputs

// CostInsightRows gathers the budget figures the insight rules work
// from. The project's explicit planned total wins when set; otherwise
// the room budgets are summed. Task pressure counts ignore soft-deleted
// tasks, and a task is overdue when its due timestamp is behind now.
func (s *SQLiteStore) CostInsightRows(projectID string, now string) (float64, float64, []rules.RoomCostCandidate, error) {
	var planned, actual float64
	err := s.db.QueryRow(`
		WITH room_totals AS (
			SELECT SUM(budget_planned) AS planned
			FROM rooms WHERE project_id = ?
		),
		expense_totals AS (
			SELECT SUM(amount) AS actual
			FROM expenses WHERE project_id = ?
		)
		SELECT
			CASE
				WHEN COALESCE(p.budget_planned_total, 0) > 0 THEN p.budget_planned_total
				ELSE COALESCE(room_totals.planned, 0)
			END,
			COALESCE(expense_totals.actual, 0)
		FROM projects p
		LEFT JOIN room_totals ON 1 = 1
		LEFT JOIN expense_totals ON 1 = 1
		WHERE p.id = ?`, projectID, projectID, projectID).Scan(&planned, &actual)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("loading project totals: %w", err)
	}

	rows, err := s.db.Query(`
		WITH project_rooms AS (
			SELECT id, name, budget_planned, order_index
			FROM rooms WHERE project_id = ?
		),
		expense_by_room AS (
			SELECT e.room_id, SUM(e.amount) AS actual
			FROM expenses e
			INNER JOIN project_rooms r ON r.id = e.room_id
			GROUP BY e.room_id
		),
		task_stats AS (
			SELECT
				t.room_id,
				SUM(CASE WHEN t.status != 'done' THEN 1 ELSE 0 END) AS open_count,
				SUM(CASE
					WHEN t.status != 'done' AND t.due_at IS NOT NULL AND t.due_at < ?
					THEN 1 ELSE 0
				END) AS overdue_count
			FROM tasks t
			INNER JOIN project_rooms r ON r.id = t.room_id
			WHERE t.deleted_at IS NULL
			GROUP BY t.room_id
		)
		SELECT
			r.id, r.name, r.budget_planned,
			COALESCE(expense_by_room.actual, 0),
			COALESCE(task_stats.open_count, 0),
			COALESCE(task_stats.overdue_count, 0)
		FROM project_rooms r
		LEFT JOIN expense_by_room ON expense_by_room.room_id = r.id
		LEFT JOIN task_stats ON task_stats.room_id = r.id
		ORDER BY r.order_index ASC`, projectID, now)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("loading room cost rows: %w", err)
	}
	defer rows.Close()

	var candidates []rules.RoomCostCandidate
	for rows.Next() {
		var c rules.RoomCostCandidate
		err := rows.Scan(&c.RoomID, &c.RoomName, &c.Planned, &c.Actual,
			&c.OpenTaskCount, &c.OverdueTaskCount)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("scanning room cost row: %w", err)
		}
		candidates = append(candidates, c)
	}
	return planned, actual, candidates, rows.Err()
}
