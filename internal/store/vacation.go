package store

import (
	"database/sql"
	"fmt"

	"famiglia/internal/model"
	"famiglia/internal/money"
	"famiglia/internal/month"
)

type VacationStore struct {
	db *sql.DB
}

func NewVacationStore(db *sql.DB) *VacationStore {
	return &VacationStore{db: db}
}

func scanVacation(scanner interface{ Scan(...any) error }) (*model.Vacation, error) {
	var v model.Vacation
	var active int
	var endDate sql.NullString
	var total sql.NullInt64
	err := scanner.Scan(&v.ID, &v.Name, &active, &v.StartDate, &endDate, &total)
	if err != nil {
		return nil, err
	}
	v.Active = active != 0
	if endDate.Valid {
		v.EndDate = &endDate.String
	}
	v.TotalSpent = money.Cents(total.Int64)
	return &v, nil
}

// vacationCols attaches the derived total: the sum of all expenses
// tagged with the vacation, 0 when there are none.
const vacationCols = `v.id, v.name, v.active, v.start_date, v.end_date,
	(SELECT COALESCE(SUM(e.amount_cents), 0) FROM expenses e WHERE e.vacation_id = v.id)`

func (s *VacationStore) List() ([]model.Vacation, error) {
	rows, err := s.db.Query(`SELECT ` + vacationCols + ` FROM vacations v ORDER BY v.start_date DESC, v.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	defer rows.Close()

	var vacations []model.Vacation
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vacation: %w", err)
		}
		vacations = append(vacations, *v)
	}
	return vacations, rows.Err()
}

func (s *VacationStore) GetByID(id int64) (*model.Vacation, error) {
	row := s.db.QueryRow(`SELECT `+vacationCols+` FROM vacations v WHERE v.id = ?`, id)
	v, err := scanVacation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vacation: %w", err)
	}
	return v, nil
}

// Active returns the most recent active vacation, the default target
// for new manual expenses. Several vacations may be active at once;
// nil when none are.
func (s *VacationStore) Active() (*model.Vacation, error) {
	row := s.db.QueryRow(`SELECT ` + vacationCols + ` FROM vacations v WHERE v.active = 1 ORDER BY v.start_date DESC, v.id DESC LIMIT 1`)
	v, err := scanVacation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active vacation: %w", err)
	}
	return v, nil
}

// Create inserts a vacation, active by default. Manual CRUD never
// adjusts date ranges from expenses; only the importer does that.
func (s *VacationStore) Create(name, startDate string, endDate *string) (*model.Vacation, error) {
	start, err := month.NormalizeDate(startDate)
	if err != nil {
		return nil, err
	}
	var end sql.NullString
	if endDate != nil && *endDate != "" {
		normalized, err := month.NormalizeDate(*endDate)
		if err != nil {
			return nil, err
		}
		end = sql.NullString{String: normalized, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO vacations (name, active, start_date, end_date) VALUES (?, 1, ?, ?)`,
		name, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("insert vacation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *VacationStore) Update(id int64, name, startDate string, endDate *string) (*model.Vacation, error) {
	start, err := month.NormalizeDate(startDate)
	if err != nil {
		return nil, err
	}
	var end sql.NullString
	if endDate != nil && *endDate != "" {
		normalized, err := month.NormalizeDate(*endDate)
		if err != nil {
			return nil, err
		}
		end = sql.NullString{String: normalized, Valid: true}
	}

	_, err = s.db.Exec(
		`UPDATE vacations SET name = ?, start_date = ?, end_date = ? WHERE id = ?`,
		name, start, end, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update vacation: %w", err)
	}
	return s.GetByID(id)
}

func (s *VacationStore) SetActive(id int64, active bool) (*model.Vacation, error) {
	_, err := s.db.Exec(`UPDATE vacations SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return nil, fmt.Errorf("set vacation active: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a vacation. Expenses keep their vacation_id: the
// reference is soft and listings simply stop resolving the name.
func (s *VacationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM vacations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	return nil
}
