package store

import (
	"database/sql"
	"fmt"

	"famiglia/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var done int
	if err := scanner.Scan(&c.ID, &c.Task, &done); err != nil {
		return nil, err
	}
	c.Done = done != 0
	return &c, nil
}

func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT id, task, done FROM chores ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT id, task, done FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) Create(task string) (*model.Chore, error) {
	result, err := s.db.Exec(`INSERT INTO chores (task, done) VALUES (?, 0)`, task)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// SetDone sets the done flag explicitly rather than toggling, so a
// repeated request is idempotent.
func (s *ChoreStore) SetDone(id int64, done bool) (*model.Chore, error) {
	d := 0
	if done {
		d = 1
	}
	_, err := s.db.Exec(`UPDATE chores SET done = ? WHERE id = ?`, d, id)
	if err != nil {
		return nil, fmt.Errorf("set chore done: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}
