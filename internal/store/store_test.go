package store

import (
	"database/sql"
	"testing"

	"famiglia/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// addExpense inserts a row directly, bypassing the store, so tests can
// control every column including the date.
func addExpense(t *testing.T, db *sql.DB, date, category string, cents int64, vacationID int64, extra bool) {
	t.Helper()
	e := 0
	if extra {
		e = 1
	}
	_, err := db.Exec(
		`INSERT INTO expenses (date, category, amount_cents, note, vacation_id, extra) VALUES (?, ?, ?, '', ?, ?)`,
		date, category, cents, vacationID, e,
	)
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}
}
