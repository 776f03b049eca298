package store

import (
	"database/sql"
	"fmt"

	"famiglia/internal/model"
)

// MoveDirection selects which neighbor a shopping item swaps with.
type MoveDirection string

const (
	MoveEarlier MoveDirection = "earlier"
	MoveLater   MoveDirection = "later"
)

// ShoppingStore maintains the active list and the purchase history.
// Display order is induced by the position column: an integer order
// key that stays a strict total order but is not kept contiguous.
type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	if err := scanner.Scan(&item.ID, &item.Article, &item.Position); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ShoppingStore) ListItems() ([]model.ShoppingItem, error) {
	rows, err := s.db.Query(`SELECT id, article, position FROM shopping_items ORDER BY position ASC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) GetItemByID(id int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT id, article, position FROM shopping_items WHERE id = ?`, id)
	item, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return item, nil
}

// Append adds an article at the end of the list: its position is the
// current maximum plus one, or 1 for an empty list.
func (s *ShoppingStore) Append(article string) (*model.ShoppingItem, error) {
	var maxPos sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(position) FROM shopping_items`).Scan(&maxPos); err != nil {
		return nil, fmt.Errorf("max position: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_items (article, position) VALUES (?, ?)`,
		article, maxPos.Int64+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

// Move swaps the item's position with its neighbor in the given
// direction: the item with the next-smaller position for MoveEarlier,
// the next-larger for MoveLater. At either end of the list there is no
// neighbor and the call is a no-op.
func (s *ShoppingStore) Move(id int64, dir MoveDirection) error {
	current, err := s.GetItemByID(id)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}

	var neighborQuery string
	switch dir {
	case MoveEarlier:
		neighborQuery = `SELECT id, article, position FROM shopping_items WHERE position < ? ORDER BY position DESC LIMIT 1`
	case MoveLater:
		neighborQuery = `SELECT id, article, position FROM shopping_items WHERE position > ? ORDER BY position ASC LIMIT 1`
	default:
		return fmt.Errorf("invalid move direction %q", dir)
	}

	neighbor, err := scanShoppingItem(s.db.QueryRow(neighborQuery, current.Position))
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find neighbor: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE shopping_items SET position = ? WHERE id = ?`, neighbor.Position, current.ID); err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}
	if _, err := tx.Exec(`UPDATE shopping_items SET position = ? WHERE id = ?`, current.Position, neighbor.ID); err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}
	return tx.Commit()
}

// Purchase removes an item from the active list and bumps its purchase
// count in the history, which feeds the frequency-ranked suggestions.
// The history key is the exact article text.
func (s *ShoppingStore) Purchase(id int64) (*model.ShoppingItem, error) {
	item, err := s.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO shopping_history (article, purchase_count) VALUES (?, 1)
		 ON CONFLICT(article) DO UPDATE SET purchase_count = purchase_count + 1`,
		item.Article,
	); err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM shopping_items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete shopping item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit purchase: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item without recording a purchase, for
// entries added by mistake.
func (s *ShoppingStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}

func (s *ShoppingStore) History() ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(`SELECT article, purchase_count FROM shopping_history ORDER BY article ASC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Article, &e.PurchaseCount); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Suggestions returns up to limit history articles ranked by purchase
// count. Articles already on the active list are excluded, compared
// case-insensitively so "latte" suppresses a "Latte" suggestion.
func (s *ShoppingStore) Suggestions(limit int) ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT article, purchase_count FROM shopping_history
		 WHERE lower(article) NOT IN (SELECT lower(article) FROM shopping_items)
		 ORDER BY purchase_count DESC, article ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Article, &e.PurchaseCount); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
