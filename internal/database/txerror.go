package database

import (
	"database/sql"
	"fmt"
)

// rollbackAndFail rolls tx back and returns an error describing the
// failed operation. When the rollback itself fails too, both causes are
// reported in one error so neither is lost.
func rollbackAndFail(tx *sql.Tx, operation string, cause error) error {
	if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
		return fmt.Errorf("%s failed: %v. Rollback also failed: %v", operation, cause, rbErr)
	}
	return fmt.Errorf("%s failed: %w", operation, cause)
}
