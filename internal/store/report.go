package store

import (
	"database/sql"
	"fmt"
	"math"

	"famiglia/internal/model"
	"famiglia/internal/money"
	"famiglia/internal/month"
)

// ReportStore holds the read-only aggregation queries behind the
// dashboard and drill-down views. All bucketing keys off the "YYYY-MM"
// prefix of the stored date; since dates are written zero-padded, the
// prefix comparison is exact calendar-month bucketing.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// MonthlySeries returns months consecutive calendar-month buckets in
// ascending order, ending at the current month shifted back by offset
// whole months. Each bucket carries three disjoint sums: normal
// (no extra flag, no vacation), vacation (vacation-tagged, no extra
// flag), and extra (extra-flagged regardless of vacation). Months with
// no expenses still appear, zero-filled.
func (s *ReportStore) MonthlySeries(months, offset int) ([]model.MonthBucket, error) {
	if months < 1 {
		months = 1
	}
	if offset < 0 {
		offset = 0
	}

	ref := month.Current().Sub(offset)
	keys := month.Window(ref, months)
	first, last := keys[0], keys[len(keys)-1]

	rows, err := s.db.Query(
		`SELECT substr(date, 1, 7) AS bucket,
		        SUM(CASE WHEN extra = 0 AND vacation_id = 0 THEN amount_cents ELSE 0 END),
		        SUM(CASE WHEN extra = 0 AND vacation_id > 0 THEN amount_cents ELSE 0 END),
		        SUM(CASE WHEN extra = 1 THEN amount_cents ELSE 0 END)
		 FROM expenses
		 WHERE substr(date, 1, 7) BETWEEN ? AND ?
		 GROUP BY bucket`,
		string(first), string(last),
	)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	defer rows.Close()

	sums := make(map[month.Key]model.MonthBucket)
	for rows.Next() {
		var key string
		var normal, vacation, extra int64
		if err := rows.Scan(&key, &normal, &vacation, &extra); err != nil {
			return nil, fmt.Errorf("scan month bucket: %w", err)
		}
		sums[month.Key(key)] = model.MonthBucket{
			Month:    month.Key(key),
			Normal:   money.Cents(normal),
			Vacation: money.Cents(vacation),
			Extra:    money.Cents(extra),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Walk the window so empty months appear with zero sums.
	series := make([]model.MonthBucket, 0, len(keys))
	for _, key := range keys {
		if bucket, ok := sums[key]; ok {
			series = append(series, bucket)
		} else {
			series = append(series, model.MonthBucket{Month: key})
		}
	}
	return series, nil
}

// Summary returns the current-month total (all expenses, no filters)
// and the historical monthly average. The average is taken over
// per-month sums of months that contain at least one expense; empty
// months do not drag it down.
func (s *ReportStore) Summary() (*model.SpendingSummary, error) {
	var current sql.NullInt64
	err := s.db.QueryRow(
		`SELECT SUM(amount_cents) FROM expenses WHERE substr(date, 1, 7) = ?`,
		string(month.Current()),
	).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("current month total: %w", err)
	}

	var average sql.NullFloat64
	err = s.db.QueryRow(
		`SELECT AVG(monthly_total) FROM (
		    SELECT SUM(amount_cents) AS monthly_total
		    FROM expenses
		    GROUP BY substr(date, 1, 7)
		 )`,
	).Scan(&average)
	if err != nil {
		return nil, fmt.Errorf("monthly average: %w", err)
	}

	return &model.SpendingSummary{
		CurrentMonth:   money.Cents(current.Int64),
		MonthlyAverage: money.Cents(int64(math.Round(average.Float64))),
	}, nil
}

// MonthDetail backs the month drill-down view: every expense of the
// month (with the vacation name joined on), per-category and
// per-vacation rollups, the extra-flag total, and the plain month
// total.
func (s *ReportStore) MonthDetail(key month.Key) (*model.MonthDetail, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid month key %q", key)
	}

	detail := &model.MonthDetail{
		Month:      key,
		Expenses:   []model.Expense{},
		ByCategory: []model.CategoryTotal{},
		ByVacation: []model.VacationTotal{},
	}

	rows, err := s.db.Query(
		`SELECT `+expenseCols+`
		 FROM expenses e LEFT JOIN vacations v ON v.id = e.vacation_id
		 WHERE substr(e.date, 1, 7) = ?
		 ORDER BY e.date DESC, e.id DESC`,
		string(key),
	)
	if err != nil {
		return nil, fmt.Errorf("month expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan month expense: %w", err)
		}
		detail.Expenses = append(detail.Expenses, *e)
		detail.MonthTotal += e.Amount
		if e.Extra {
			detail.ExtraTotal += e.Amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.Query(
		`SELECT category, SUM(amount_cents)
		 FROM expenses
		 WHERE substr(date, 1, 7) = ?
		 GROUP BY category
		 ORDER BY SUM(amount_cents) DESC`,
		string(key),
	)
	if err != nil {
		return nil, fmt.Errorf("month category totals: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var ct model.CategoryTotal
		var total int64
		if err := catRows.Scan(&ct.Category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = money.Cents(total)
		detail.ByCategory = append(detail.ByCategory, ct)
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	// Group on the expense's vacation_id, not the vacations table, so
	// only vacations with at least one matching expense appear; the
	// LEFT JOIN keeps rows whose vacation was deleted.
	vacRows, err := s.db.Query(
		`SELECT e.vacation_id, COALESCE(v.name, ''), SUM(e.amount_cents)
		 FROM expenses e LEFT JOIN vacations v ON v.id = e.vacation_id
		 WHERE substr(e.date, 1, 7) = ? AND e.vacation_id > 0
		 GROUP BY e.vacation_id
		 ORDER BY SUM(e.amount_cents) DESC`,
		string(key),
	)
	if err != nil {
		return nil, fmt.Errorf("month vacation totals: %w", err)
	}
	defer vacRows.Close()

	for vacRows.Next() {
		var vt model.VacationTotal
		var total int64
		if err := vacRows.Scan(&vt.VacationID, &vt.Name, &total); err != nil {
			return nil, fmt.Errorf("scan vacation total: %w", err)
		}
		vt.Total = money.Cents(total)
		detail.ByVacation = append(detail.ByVacation, vt)
	}
	return detail, vacRows.Err()
}

// VacationCategoryBreakdown sums the vacation's expenses by category.
func (s *ReportStore) VacationCategoryBreakdown(vacationID int64) ([]model.CategoryTotal, error) {
	rows, err := s.db.Query(
		`SELECT category, SUM(amount_cents)
		 FROM expenses
		 WHERE vacation_id = ?
		 GROUP BY category
		 ORDER BY SUM(amount_cents) DESC`,
		vacationID,
	)
	if err != nil {
		return nil, fmt.Errorf("vacation breakdown: %w", err)
	}
	defer rows.Close()

	totals := []model.CategoryTotal{}
	for rows.Next() {
		var ct model.CategoryTotal
		var total int64
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, fmt.Errorf("scan vacation category total: %w", err)
		}
		ct.Total = money.Cents(total)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
