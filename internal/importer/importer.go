// Package importer merges tabular expense and vacation exports into
// the database without duplicating or corrupting existing state. Rows
// are upserted by their external id, missing categories and vacations
// are created on the fly, and vacation date ranges are repaired from
// the expenses after every batch. The whole batch, repair pass
// included, runs in a single transaction: a structural failure rolls
// everything back.
package importer

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"famiglia/internal/money"
	"famiglia/internal/month"
	"famiglia/internal/store"
)

// ExpenseHeader is the fixed column contract for expense exports.
const ExpenseHeader = "id,data,categoria,importo,note,id_vacanza,extra"

// VacationHeader is the fixed column contract for vacation exports.
const VacationHeader = "id,nome,attiva,data_inizio,data_fine"

// Result reports the outcome of a batch. Success is false only when
// the batch as a whole failed and was rolled back; skipped rows are a
// per-row condition and leave Success true.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
}

func failure(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

type Importer struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// ImportExpenses ingests an expense CSV payload. Each row is upserted
// by its external id; rows whose amount or date fail to parse are
// skipped and counted, not fatal. Unknown categories are created with
// the default color and unknown vacation ids become active vacations
// spanning the row's date. After the last row, every referenced
// vacation's range is recomputed from the MIN/MAX of its expenses.
// Never panics past its boundary: all failures come back as a Result.
func (im *Importer) ImportExpenses(content string) Result {
	records, err := parseCSV(content, ExpenseHeader)
	if err != nil {
		return failure("invalid expense CSV: %v", err)
	}

	tx, err := im.db.Begin()
	if err != nil {
		return failure("begin import: %v", err)
	}
	defer tx.Rollback()

	var res Result
	for i, record := range records {
		row, err := parseExpenseRow(record)
		if err != nil {
			// Recoverable: skip this row, keep the batch going.
			im.logger.Warn("skipping expense row", "line", i+2, "error", err)
			res.Skipped++
			continue
		}

		if err := ensureCategory(tx, row.Category); err != nil {
			return failure("import aborted: %v", err)
		}
		if row.VacationID > 0 {
			if err := ensureVacation(tx, row.VacationID, row.Date); err != nil {
				return failure("import aborted: %v", err)
			}
		}

		inserted, err := upsertExpense(tx, row)
		if err != nil {
			return failure("import aborted: %v", err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	// Authoritative repair: per-row extension above only ever grows
	// ranges, so recompute each referenced vacation strictly from its
	// expenses. This also fixes ranges left stale by earlier edits.
	if err := repairVacationRanges(tx); err != nil {
		return failure("import aborted: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return failure("commit import: %v", err)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Imported %d expenses (%d new, %d updated, %d skipped)",
		res.Inserted+res.Updated, res.Inserted, res.Updated, res.Skipped)
	im.logger.Info("expense import complete",
		"inserted", res.Inserted, "updated", res.Updated, "skipped", res.Skipped)
	return res
}

// ImportVacations ingests a vacation CSV payload, upserting by id.
func (im *Importer) ImportVacations(content string) Result {
	records, err := parseCSV(content, VacationHeader)
	if err != nil {
		return failure("invalid vacation CSV: %v", err)
	}

	tx, err := im.db.Begin()
	if err != nil {
		return failure("begin import: %v", err)
	}
	defer tx.Rollback()

	var res Result
	for i, record := range records {
		id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil || id <= 0 {
			im.logger.Warn("skipping vacation row", "line", i+2, "error", "invalid id")
			res.Skipped++
			continue
		}
		start, err := month.NormalizeDate(record[3])
		if err != nil {
			im.logger.Warn("skipping vacation row", "line", i+2, "error", err)
			res.Skipped++
			continue
		}
		var end sql.NullString
		if strings.TrimSpace(record[4]) != "" {
			normalized, err := month.NormalizeDate(record[4])
			if err != nil {
				im.logger.Warn("skipping vacation row", "line", i+2, "error", err)
				res.Skipped++
				continue
			}
			end = sql.NullString{String: normalized, Valid: true}
		}
		name := strings.TrimSpace(record[1])
		active := parseFlag(record[2])

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM vacations WHERE id = ?)`, id).Scan(&exists); err != nil {
			return failure("import aborted: %v", err)
		}
		if exists {
			if _, err := tx.Exec(
				`UPDATE vacations SET name = ?, active = ?, start_date = ?, end_date = ? WHERE id = ?`,
				name, boolInt(active), start, end, id,
			); err != nil {
				return failure("import aborted: %v", err)
			}
			res.Updated++
		} else {
			if _, err := tx.Exec(
				`INSERT INTO vacations (id, name, active, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
				id, name, boolInt(active), start, end,
			); err != nil {
				return failure("import aborted: %v", err)
			}
			res.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return failure("commit import: %v", err)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Imported %d vacations (%d new, %d updated, %d skipped)",
		res.Inserted+res.Updated, res.Inserted, res.Updated, res.Skipped)
	return res
}

type expenseRow struct {
	ID         int64
	Date       string
	Category   string
	Amount     money.Cents
	Note       string
	VacationID int64
	Extra      bool
}

func parseExpenseRow(record []string) (*expenseRow, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", record[0])
	}
	date, err := month.NormalizeDate(record[1])
	if err != nil {
		return nil, err
	}
	amount, err := money.Parse(record[3])
	if err != nil {
		return nil, err
	}
	vacationID, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil || vacationID < 0 {
		return nil, fmt.Errorf("invalid vacation id %q", record[5])
	}

	return &expenseRow{
		ID:         id,
		Date:       date,
		Category:   strings.TrimSpace(record[2]),
		Amount:     amount,
		Note:       strings.TrimSpace(record[4]),
		VacationID: vacationID,
		Extra:      parseFlag(record[6]),
	}, nil
}

// parseCSV reads the payload and validates the fixed header. A wrong
// header or ragged row is a structural error that fails the batch.
func parseCSV(content, header string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(content)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	got := strings.Join(records[0], ",")
	if !strings.EqualFold(strings.TrimSpace(got), header) {
		return nil, fmt.Errorf("expected header %q, got %q", header, got)
	}
	return records[1:], nil
}

// parseFlag accepts the boolean-like encodings seen in exports.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "si", "sì":
		return true
	default:
		return false
	}
}

// ensureCategory creates the category with the default color when the
// row names one the database does not know, keeping the soft category
// reference resolvable for imported data.
func ensureCategory(tx *sql.Tx, name string) error {
	if name == "" {
		return nil
	}
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`, name).Scan(&exists); err != nil {
		return fmt.Errorf("check category %q: %w", name, err)
	}
	if exists {
		return nil
	}
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO categories (name, color) VALUES (?, ?)`,
		name, store.DefaultCategoryColor,
	); err != nil {
		return fmt.Errorf("create category %q: %w", name, err)
	}
	return nil
}

// ensureVacation creates an unknown vacation id as an active record
// spanning exactly the row's date, or widens an existing range to
// include it. Ranges only ever grow here; the post-batch repair is the
// authoritative pass.
func ensureVacation(tx *sql.Tx, id int64, date string) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM vacations WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check vacation %d: %w", id, err)
	}
	if !exists {
		if _, err := tx.Exec(
			`INSERT INTO vacations (id, name, active, start_date, end_date) VALUES (?, ?, 1, ?, ?)`,
			id, fmt.Sprintf("Vacanza %d", id), date, date,
		); err != nil {
			return fmt.Errorf("create vacation %d: %w", id, err)
		}
		return nil
	}

	if _, err := tx.Exec(
		`UPDATE vacations
		 SET start_date = MIN(start_date, ?),
		     end_date = CASE WHEN end_date IS NULL THEN ? ELSE MAX(end_date, ?) END
		 WHERE id = ?`,
		date, date, date, id,
	); err != nil {
		return fmt.Errorf("extend vacation %d: %w", id, err)
	}
	return nil
}

// upsertExpense writes the row under its external id, overwriting an
// existing record wholesale. Reports whether a new row was inserted.
func upsertExpense(tx *sql.Tx, row *expenseRow) (bool, error) {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ?)`, row.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check expense %d: %w", row.ID, err)
	}

	if exists {
		if _, err := tx.Exec(
			`UPDATE expenses SET date = ?, category = ?, amount_cents = ?, note = ?, vacation_id = ?, extra = ? WHERE id = ?`,
			row.Date, row.Category, int64(row.Amount), row.Note, row.VacationID, boolInt(row.Extra), row.ID,
		); err != nil {
			return false, fmt.Errorf("update expense %d: %w", row.ID, err)
		}
		return false, nil
	}

	if _, err := tx.Exec(
		`INSERT INTO expenses (id, date, category, amount_cents, note, vacation_id, extra) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Date, row.Category, int64(row.Amount), row.Note, row.VacationID, boolInt(row.Extra),
	); err != nil {
		return false, fmt.Errorf("insert expense %d: %w", row.ID, err)
	}
	return true, nil
}

// repairVacationRanges recomputes start and end for every vacation
// that has at least one expense, strictly from the MIN/MAX of those
// expenses. This corrects drift from per-row extension, including rows
// arriving out of chronological order within the same batch. Vacations
// with no expenses keep their stored range.
func repairVacationRanges(tx *sql.Tx) error {
	_, err := tx.Exec(
		`UPDATE vacations
		 SET start_date = (SELECT MIN(date) FROM expenses WHERE vacation_id = vacations.id),
		     end_date = (SELECT MAX(date) FROM expenses WHERE vacation_id = vacations.id)
		 WHERE id IN (SELECT DISTINCT vacation_id FROM expenses WHERE vacation_id > 0)`,
	)
	if err != nil {
		return fmt.Errorf("repair vacation ranges: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
