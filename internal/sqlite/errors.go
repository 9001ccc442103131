package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/rpggio/roster/internal/repository"
)

// expectRowAffected maps a zero-row write to repository.ErrNotFound.
func expectRowAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", op, err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
