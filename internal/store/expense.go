package store

import (
	"database/sql"
	"fmt"

	"famiglia/internal/model"
	"famiglia/internal/money"
	"famiglia/internal/month"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// expenseCols joins the vacation name so listings can label
// vacation-tagged rows; the LEFT JOIN tolerates dangling vacation ids.
const expenseCols = `e.id, e.date, e.category, e.amount_cents, e.note, e.vacation_id, e.extra, COALESCE(v.name, '')`

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	var cents int64
	var extra int
	err := scanner.Scan(&e.ID, &e.Date, &e.Category, &cents, &e.Note, &e.VacationID, &extra, &e.VacationName)
	if err != nil {
		return nil, err
	}
	e.Amount = money.Cents(cents)
	e.Extra = extra != 0
	return &e, nil
}

func (s *ExpenseStore) GetByID(id int64) (*model.Expense, error) {
	row := s.db.QueryRow(
		`SELECT `+expenseCols+` FROM expenses e LEFT JOIN vacations v ON v.id = e.vacation_id WHERE e.id = ?`,
		id,
	)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ExpenseFilter narrows List. VacationID 0 means no vacation filter;
// Search matches note or category, case-insensitively.
type ExpenseFilter struct {
	VacationID int64
	Search     string
	Page       int
	Limit      int
}

// List returns one page of expenses, newest first, plus the total row
// count for the filter so the caller can paginate.
func (s *ExpenseStore) List(f ExpenseFilter) (*model.ExpensePage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	where := `WHERE 1=1`
	var args []any
	if f.VacationID > 0 {
		where += ` AND e.vacation_id = ?`
		args = append(args, f.VacationID)
	}
	if f.Search != "" {
		where += ` AND (e.note LIKE ? OR e.category LIKE ?)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countArgs := append([]any{}, args...)
	err := s.db.QueryRow(`SELECT COUNT(*) FROM expenses e `+where, countArgs...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := s.db.Query(
		`SELECT `+expenseCols+` FROM expenses e LEFT JOIN vacations v ON v.id = e.vacation_id `+
			where+` ORDER BY e.date DESC, e.id DESC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	page := &model.ExpensePage{Items: []model.Expense{}, Total: total}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		page.Items = append(page.Items, *e)
	}
	return page, rows.Err()
}

// Create inserts a manually entered expense. Unlike the importer it
// does not auto-create the category: manual entry picks from the
// existing set and a free-typed name becomes a dangling soft reference.
func (s *ExpenseStore) Create(date, category string, amount money.Cents, note string, vacationID int64, extra bool) (*model.Expense, error) {
	normalized, err := month.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO expenses (date, category, amount_cents, note, vacation_id, extra) VALUES (?, ?, ?, ?, ?, ?)`,
		normalized, category, int64(amount), note, vacationID, boolToInt(extra),
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ExpenseStore) Update(id int64, date, category string, amount money.Cents, note string, vacationID int64, extra bool) (*model.Expense, error) {
	normalized, err := month.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`UPDATE expenses SET date = ?, category = ?, amount_cents = ?, note = ?, vacation_id = ?, extra = ? WHERE id = ?`,
		normalized, category, int64(amount), note, vacationID, boolToInt(extra), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return s.GetByID(id)
}

func (s *ExpenseStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
