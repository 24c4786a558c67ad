package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// NextSequentialID produces the next business identifier for a table whose
// keys look like F001, E014, PO007. It reads the current maximum and formats
// prefix + zero-padded counter (minimum three digits). Callers that need the
// ID to be race-free must run inside a transaction.
func NextSequentialID(executor SQLExecutor, table, column, prefix string) (string, error) {
	query := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE %s LIKE $1`, column, table, column)

	var maxID sql.NullString
	if err := executor.QueryRow(query, prefix+"%").Scan(&maxID); err != nil {
		return "", fmt.Errorf("%w: next id for %s: %v", ErrDatabaseError, table, err)
	}

	next := 1
	if maxID.Valid {
		numeric := strings.TrimPrefix(maxID.String, prefix)
		if n, err := strconv.Atoi(numeric); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}
