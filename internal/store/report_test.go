package store

import (
	"testing"

	"famiglia/internal/money"
	"famiglia/internal/month"
)

// day returns a date in the middle of the given month bucket.
func day(k month.Key) string {
	return string(k) + "-15"
}

func TestMonthlySeriesZeroFillsEmptyMonths(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	current := month.Current()
	addExpense(t, db, day(current), "Alimentari", 1000, 0, false)
	addExpense(t, db, day(current.Sub(3)), "Casa", 2500, 0, false)

	series, err := reports.MonthlySeries(4, 0)
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(series))
	}

	// Ascending, consecutive, ending at the current month.
	for i, bucket := range series {
		want := current.Sub(3 - i)
		if bucket.Month != want {
			t.Errorf("bucket %d: month = %q, want %q", i, bucket.Month, want)
		}
	}

	if series[0].Normal != 2500 {
		t.Errorf("oldest bucket normal = %d, want 2500", series[0].Normal)
	}
	for i := 1; i < 3; i++ {
		b := series[i]
		if b.Normal != 0 || b.Vacation != 0 || b.Extra != 0 {
			t.Errorf("bucket %d should be zero-filled, got %+v", i, b)
		}
	}
	if series[3].Normal != 1000 {
		t.Errorf("current bucket normal = %d, want 1000", series[3].Normal)
	}
}

func TestMonthlySeriesOffset(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	current := month.Current()
	addExpense(t, db, day(current), "Alimentari", 9999, 0, false)
	addExpense(t, db, day(current.Sub(2)), "Casa", 4000, 0, false)

	series, err := reports.MonthlySeries(2, 2)
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(series))
	}
	if series[1].Month != current.Sub(2) {
		t.Errorf("last bucket = %q, want %q", series[1].Month, current.Sub(2))
	}
	// The current month falls outside the shifted window.
	if series[1].Normal != 4000 {
		t.Errorf("last bucket normal = %d, want 4000", series[1].Normal)
	}
}

func TestMonthlySeriesPartitionsSums(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	current := month.Current()
	addExpense(t, db, day(current), "Alimentari", 1000, 0, false) // normal
	addExpense(t, db, day(current), "Svago", 2000, 1, false)      // vacation
	addExpense(t, db, day(current), "Altro", 3000, 0, true)       // extra
	addExpense(t, db, day(current), "Svago", 4000, 1, true)       // extra wins over vacation

	series, err := reports.MonthlySeries(1, 0)
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}
	b := series[0]
	if b.Normal != 1000 {
		t.Errorf("normal = %d, want 1000", b.Normal)
	}
	if b.Vacation != 2000 {
		t.Errorf("vacation = %d, want 2000", b.Vacation)
	}
	if b.Extra != 7000 {
		t.Errorf("extra = %d, want 7000", b.Extra)
	}

	// The three sums partition the month total exactly.
	var raw int64
	if err := db.QueryRow(`SELECT SUM(amount_cents) FROM expenses`).Scan(&raw); err != nil {
		t.Fatalf("raw sum: %v", err)
	}
	if got := int64(b.Normal + b.Vacation + b.Extra); got != raw {
		t.Errorf("partition sum = %d, raw sum = %d", got, raw)
	}
}

func TestSummaryAverageExcludesEmptyMonths(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	current := month.Current()
	// Two populated months with an empty gap between them.
	addExpense(t, db, day(current.Sub(1)), "Alimentari", 10000, 0, false)
	addExpense(t, db, day(current.Sub(3)), "Casa", 30000, 0, false)

	summary, err := reports.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.MonthlyAverage != 20000 {
		t.Errorf("monthly average = %d, want 20000", summary.MonthlyAverage)
	}
	if summary.CurrentMonth != 0 {
		t.Errorf("current month = %d, want 0", summary.CurrentMonth)
	}
}

func TestSummaryCurrentMonthCountsEverything(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	current := month.Current()
	addExpense(t, db, day(current), "Alimentari", 1000, 0, false)
	addExpense(t, db, day(current), "Svago", 2000, 1, false)
	addExpense(t, db, day(current), "Altro", 3000, 0, true)

	summary, err := reports.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.CurrentMonth != 6000 {
		t.Errorf("current month = %d, want 6000", summary.CurrentMonth)
	}
}

func TestSummaryEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	summary, err := reports.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.CurrentMonth != 0 || summary.MonthlyAverage != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestMonthDetail(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)
	vacations := NewVacationStore(db)

	v, err := vacations.Create("Mare", "2024-06-01", nil)
	if err != nil {
		t.Fatalf("create vacation: %v", err)
	}

	addExpense(t, db, "2024-06-10", "Alimentari", 5000, 0, false)
	addExpense(t, db, "2024-06-12", "Alimentari", 1500, 0, false)
	addExpense(t, db, "2024-06-15", "Svago", 8000, v.ID, false)
	addExpense(t, db, "2024-06-20", "Altro", 2000, 0, true)
	addExpense(t, db, "2024-07-01", "Casa", 9999, 0, false) // outside the month

	detail, err := reports.MonthDetail("2024-06")
	if err != nil {
		t.Fatalf("MonthDetail: %v", err)
	}

	if len(detail.Expenses) != 4 {
		t.Fatalf("expected 4 expenses, got %d", len(detail.Expenses))
	}
	if detail.Expenses[0].Date != "2024-06-20" {
		t.Errorf("expenses not newest first: first date %q", detail.Expenses[0].Date)
	}
	if detail.MonthTotal != 16500 {
		t.Errorf("month total = %d, want 16500", detail.MonthTotal)
	}
	if detail.ExtraTotal != 2000 {
		t.Errorf("extra total = %d, want 2000", detail.ExtraTotal)
	}

	if len(detail.ByCategory) != 3 {
		t.Fatalf("expected 3 category totals, got %d", len(detail.ByCategory))
	}
	if detail.ByCategory[0].Category != "Svago" || detail.ByCategory[0].Total != 8000 {
		t.Errorf("top category = %+v, want Svago/8000", detail.ByCategory[0])
	}

	if len(detail.ByVacation) != 1 {
		t.Fatalf("expected 1 vacation total, got %d", len(detail.ByVacation))
	}
	if detail.ByVacation[0].Name != "Mare" || detail.ByVacation[0].Total != 8000 {
		t.Errorf("vacation total = %+v, want Mare/8000", detail.ByVacation[0])
	}
}

func TestMonthDetailRejectsInvalidKey(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)

	if _, err := reports.MonthDetail("2024-6"); err == nil {
		t.Error("expected error for unpadded month key")
	}
	if _, err := reports.MonthDetail("giugno"); err == nil {
		t.Error("expected error for non-date key")
	}
}

func TestMonthDetailToleratesDeletedVacation(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)
	vacations := NewVacationStore(db)

	v, err := vacations.Create("Montagna", "2024-02-01", nil)
	if err != nil {
		t.Fatalf("create vacation: %v", err)
	}
	addExpense(t, db, "2024-02-10", "Svago", 4000, v.ID, false)
	if err := vacations.Delete(v.ID); err != nil {
		t.Fatalf("delete vacation: %v", err)
	}

	detail, err := reports.MonthDetail("2024-02")
	if err != nil {
		t.Fatalf("MonthDetail: %v", err)
	}
	if len(detail.ByVacation) != 1 {
		t.Fatalf("expected dangling vacation rollup, got %d entries", len(detail.ByVacation))
	}
	if detail.ByVacation[0].Name != "" || detail.ByVacation[0].Total != 4000 {
		t.Errorf("dangling rollup = %+v, want empty name and 4000", detail.ByVacation[0])
	}
}

func TestVacationCategoryBreakdown(t *testing.T) {
	db := setupTestDB(t)
	reports := NewReportStore(db)
	vacations := NewVacationStore(db)

	v, err := vacations.Create("Mare", "2024-08-01", nil)
	if err != nil {
		t.Fatalf("create vacation: %v", err)
	}
	addExpense(t, db, "2024-08-02", "Alimentari", 3000, v.ID, false)
	addExpense(t, db, "2024-08-03", "Alimentari", 2000, v.ID, false)
	addExpense(t, db, "2024-08-04", "Svago", 7000, v.ID, false)
	addExpense(t, db, "2024-08-05", "Casa", 1000, 0, false) // untagged

	totals, err := reports.VacationCategoryBreakdown(v.ID)
	if err != nil {
		t.Fatalf("VacationCategoryBreakdown: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}
	if totals[0].Category != "Svago" || totals[0].Total != money.Cents(7000) {
		t.Errorf("top category = %+v, want Svago/7000", totals[0])
	}
	if totals[1].Category != "Alimentari" || totals[1].Total != money.Cents(5000) {
		t.Errorf("second category = %+v, want Alimentari/5000", totals[1])
	}
}
