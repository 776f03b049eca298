package store

import (
	"testing"

	"famiglia/internal/money"
)

func TestExpenseCreateNormalizesDate(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	e, err := expenses.Create("2024-3-5", "Alimentari", money.Cents(1250), "spesa", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Date != "2024-03-05" {
		t.Errorf("date = %q, want zero-padded 2024-03-05", e.Date)
	}
	if e.Amount != 1250 {
		t.Errorf("amount = %d, want 1250", e.Amount)
	}
}

func TestExpenseCreateRejectsBadDate(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	if _, err := expenses.Create("05/03/2024", "Alimentari", 100, "", 0, false); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestExpenseGetMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	e, err := expenses.GetByID(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e != nil {
		t.Errorf("expected nil for missing expense, got %+v", e)
	}
}

func TestExpenseListPagination(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	for i := 1; i <= 5; i++ {
		addExpense(t, db, "2024-01-10", "Casa", int64(i*100), 0, false)
	}

	page, err := expenses.List(ExpenseFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Items))
	}

	last, err := expenses.List(ExpenseFilter{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Items) != 1 {
		t.Errorf("last page size = %d, want 1", len(last.Items))
	}
}

func TestExpenseListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	addExpense(t, db, "2024-01-05", "Casa", 100, 0, false)
	addExpense(t, db, "2024-02-05", "Casa", 200, 0, false)
	addExpense(t, db, "2024-01-20", "Casa", 300, 0, false)

	page, err := expenses.List(ExpenseFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	dates := []string{page.Items[0].Date, page.Items[1].Date, page.Items[2].Date}
	want := []string{"2024-02-05", "2024-01-20", "2024-01-05"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("order = %v, want %v", dates, want)
		}
	}
}

func TestExpenseListSearchAndVacationFilter(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)
	vacations := NewVacationStore(db)

	v, err := vacations.Create("Mare", "2024-07-01", nil)
	if err != nil {
		t.Fatalf("create vacation: %v", err)
	}

	if _, err := expenses.Create("2024-07-02", "Alimentari", 1000, "gelato in spiaggia", v.ID, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := expenses.Create("2024-07-03", "Casa", 2000, "bolletta", 0, false); err != nil {
		t.Fatalf("create: %v", err)
	}

	byVacation, err := expenses.List(ExpenseFilter{VacationID: v.ID})
	if err != nil {
		t.Fatalf("list by vacation: %v", err)
	}
	if byVacation.Total != 1 || byVacation.Items[0].VacationName != "Mare" {
		t.Errorf("vacation filter result: %+v", byVacation)
	}

	bySearch, err := expenses.List(ExpenseFilter{Search: "gelato"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if bySearch.Total != 1 || bySearch.Items[0].Note != "gelato in spiaggia" {
		t.Errorf("search filter result: %+v", bySearch)
	}

	byCategory, err := expenses.List(ExpenseFilter{Search: "Casa"})
	if err != nil {
		t.Fatalf("list by category search: %v", err)
	}
	if byCategory.Total != 1 {
		t.Errorf("category search total = %d, want 1", byCategory.Total)
	}
}

func TestExpenseUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	expenses := NewExpenseStore(db)

	e, err := expenses.Create("2024-05-01", "Casa", 1000, "prima", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := expenses.Update(e.ID, "2024-05-02", "Svago", 2500, "dopo", 0, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Svago" || updated.Amount != 2500 || !updated.Extra {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := expenses.Delete(e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := expenses.GetByID(e.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expense still present after delete: %+v", gone)
	}
}
