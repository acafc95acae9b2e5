package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/struffoli/facecard/pkg"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// now is the timestamp written to created_at/updated_at.
var now = func() time.Time { return time.Now().UTC() }

func newID() string {
	return uuid.NewString()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// checkAffected turns a zero-row update or delete into pkg.ErrNotFound.
func checkAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s not found", pkg.ErrNotFound, what)
	}
	return nil
}

// orderByIDs returns the items whose id appears in ids, in ids order.
// Ids with no matching item are skipped.
func orderByIDs[T any](ids []string, items []T, idOf func(*T) string) []T {
	byID := make(map[string]int, len(items))
	for i := range items {
		byID[idOf(&items[i])] = i
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, items[i])
		}
	}
	return out
}

// collect drains rows through scan.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
