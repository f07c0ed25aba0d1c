package database

import (
	"fmt"

	"planner-go/internal/model"
)

// Snapshot operations

// ListSnapshots returns the newest snapshots first, at most limit of
// them. The serialized documents stay in the database; only id and
// timestamp come back.
func (s *SQLiteStore) ListSnapshots(projectID string, limit int) ([]*model.SnapshotInfo, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at
		FROM backup_snapshots
		WHERE project_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var result []*model.SnapshotInfo
	for rows.Next() {
		var info model.SnapshotInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		result = append(result, &info)
	}
	return result, rows.Err()
}
