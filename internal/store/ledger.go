package store

import (
	"database/sql"
	"fmt"
	"time"

	"famiglia/internal/model"
	"famiglia/internal/money"
	"famiglia/internal/month"
)

// LedgerStore tracks expenses advanced for the secondary person.
// Settling entries stamps a payment date; entries sharing the stamp
// form an implicit payment batch.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

const ledgerCols = `id, date, description, amount_cents, paid, payment_date`

func scanLedgerEntry(scanner interface{ Scan(...any) error }) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	var cents int64
	var paid int
	var paymentDate sql.NullString
	err := scanner.Scan(&e.ID, &e.Date, &e.Description, &cents, &paid, &paymentDate)
	if err != nil {
		return nil, err
	}
	e.Amount = money.Cents(cents)
	e.Paid = paid != 0
	if paymentDate.Valid {
		e.PaymentDate = &paymentDate.String
	}
	return &e, nil
}

// Summary returns all entries, newest first, plus the outstanding
// unpaid total (0 when everything is settled).
func (s *LedgerStore) Summary() (*model.LedgerSummary, error) {
	rows, err := s.db.Query(`SELECT ` + ledgerCols + ` FROM ledger_entries ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	summary := &model.LedgerSummary{Items: []model.LedgerEntry{}}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		summary.Items = append(summary.Items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var unpaid sql.NullInt64
	err = s.db.QueryRow(`SELECT SUM(amount_cents) FROM ledger_entries WHERE paid = 0`).Scan(&unpaid)
	if err != nil {
		return nil, fmt.Errorf("sum unpaid: %w", err)
	}
	summary.UnpaidTotal = money.Cents(unpaid.Int64)
	return summary, nil
}

func (s *LedgerStore) GetByID(id int64) (*model.LedgerEntry, error) {
	row := s.db.QueryRow(`SELECT `+ledgerCols+` FROM ledger_entries WHERE id = ?`, id)
	e, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

func (s *LedgerStore) Create(date, description string, amount money.Cents) (*model.LedgerEntry, error) {
	normalized, err := month.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO ledger_entries (date, description, amount_cents, paid) VALUES (?, ?, ?, 0)`,
		normalized, description, int64(amount),
	)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Pay settles a single entry, stamping today's date.
func (s *LedgerStore) Pay(id int64) (*model.LedgerEntry, error) {
	today := time.Now().Format("2006-01-02")
	_, err := s.db.Exec(
		`UPDATE ledger_entries SET paid = 1, payment_date = ? WHERE id = ? AND paid = 0`,
		today, id,
	)
	if err != nil {
		return nil, fmt.Errorf("pay ledger entry: %w", err)
	}
	return s.GetByID(id)
}

// PayAll settles every unpaid entry with one shared payment date,
// forming a single payment batch. Returns how many entries were
// settled.
func (s *LedgerStore) PayAll() (int64, error) {
	today := time.Now().Format("2006-01-02")
	result, err := s.db.Exec(
		`UPDATE ledger_entries SET paid = 1, payment_date = ? WHERE paid = 0`,
		today,
	)
	if err != nil {
		return 0, fmt.Errorf("pay all ledger entries: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *LedgerStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}

// PaymentBatches groups settled entries by their shared payment date,
// newest batch first.
func (s *LedgerStore) PaymentBatches() ([]model.PaymentBatch, error) {
	rows, err := s.db.Query(
		`SELECT payment_date, COUNT(*), SUM(amount_cents)
		 FROM ledger_entries
		 WHERE paid = 1 AND payment_date IS NOT NULL
		 GROUP BY payment_date
		 ORDER BY payment_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list payment batches: %w", err)
	}
	defer rows.Close()

	var batches []model.PaymentBatch
	for rows.Next() {
		var b model.PaymentBatch
		var total int64
		if err := rows.Scan(&b.PaymentDate, &b.Count, &total); err != nil {
			return nil, fmt.Errorf("scan payment batch: %w", err)
		}
		b.Total = money.Cents(total)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
