package store

import (
	"database/sql"
	"fmt"
)

// AdminStore holds the destructive maintenance operations behind the
// settings "danger zone".
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// wipeTables are the data tables cleared by WipeData. Settings and
// categories are deliberately kept: the gate sequence survives a reset
// and the category palette stays usable.
var wipeTables = []string{
	"expenses",
	"vacations",
	"shopping_items",
	"shopping_history",
	"chores",
	"ledger_entries",
}

// WipeData empties every data table in one transaction. Irreversible;
// confirmation is the caller's responsibility.
func (s *AdminStore) WipeData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	defer tx.Rollback()

	for _, table := range wipeTables {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return tx.Commit()
}
