package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Default categories seeded on first start, matching the colors the
// expense views were designed around.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{"Alimentari", "#10b981"},
	{"Casa", "#3b82f6"},
	{"Bollette", "#ef4444"},
	{"Trasporti", "#f59e0b"},
	{"Salute", "#ec4899"},
	{"Svago", "#8b5cf6"},
	{"Altro", "#6b7280"},
}

// Open opens the SQLite database at the given path, applies pending
// migrations in filename order, and seeds default categories when the
// table is empty. Every step is idempotent.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := seedCategories(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// seedCategories inserts the default category set only when the table
// is empty, so a wiped or fresh database comes back usable without
// clobbering user-defined categories.
func seedCategories(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultCategories {
		if _, err := db.Exec(
			`INSERT OR IGNORE INTO categories (name, color) VALUES (?, ?)`,
			c.Name, c.Color,
		); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}
	return nil
}
