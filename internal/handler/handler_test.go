package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"famiglia/internal/database"
	"famiglia/internal/importer"
	"famiglia/internal/model"
	"famiglia/internal/store"
	"famiglia/internal/websocket"
)

type testEnv struct {
	db     *sql.DB
	hub    *websocket.Hub
	logger *slog.Logger
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{db: db, hub: websocket.NewHub(logger), logger: logger}
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any, pathID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestChoreHandlerLifecycle(t *testing.T) {
	env := setupEnv(t)
	h := NewChoreHandler(store.NewChoreStore(env.db), env.hub, env.logger)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/chores", map[string]string{"task": "lavare i piatti"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Chore
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, h.SetDone, http.MethodPut, "/api/chores/1", map[string]bool{"done": true}, "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("set done status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.Chore
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if !updated.Done {
		t.Error("chore not marked done")
	}

	rec = doJSON(t, h.Delete, http.MethodDelete, "/api/chores/1", nil, "1")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, h.Delete, http.MethodDelete, "/api/chores/1", nil, "1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestChoreHandlerRejectsEmptyTask(t *testing.T) {
	env := setupEnv(t)
	h := NewChoreHandler(store.NewChoreStore(env.db), env.hub, env.logger)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/chores", map[string]string{"task": "  "}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExpenseHandlerCreateParsesCommaAmount(t *testing.T) {
	env := setupEnv(t)
	h := NewExpenseHandler(store.NewExpenseStore(env.db), env.hub, env.logger)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/expenses", map[string]any{
		"date":     "2024-05-01",
		"category": "Alimentari",
		"amount":   "12,50",
		"note":     "spesa",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"amount":12.50`) {
		t.Errorf("amount not serialized as 12.50: %s", rec.Body.String())
	}
}

func TestExpenseHandlerRejectsBadInput(t *testing.T) {
	env := setupEnv(t)
	h := NewExpenseHandler(store.NewExpenseStore(env.db), env.hub, env.logger)

	cases := []map[string]any{
		{"date": "2024-05-01", "category": "", "amount": "10"},
		{"date": "", "category": "Casa", "amount": "10"},
		{"date": "2024-05-01", "category": "Casa", "amount": "dieci"},
		{"date": "2024-05-01", "category": "Casa", "amount": "-5"},
	}
	for i, body := range cases {
		rec := doJSON(t, h.Create, http.MethodPost, "/api/expenses", body, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
		}
	}
}

func TestShoppingHandlerMove(t *testing.T) {
	env := setupEnv(t)
	shopping := store.NewShoppingStore(env.db)
	h := NewShoppingHandler(shopping, env.hub, env.logger)

	for _, article := range []string{"latte", "pane"} {
		if _, err := shopping.Append(article); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	items, _ := shopping.ListItems()
	second := items[1]

	rec := doJSON(t, h.Move, http.MethodPost, "/api/shopping/items/2/move",
		map[string]string{"direction": "earlier"}, itoa(second.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body.String())
	}

	var after []model.ShoppingItem
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after[0].Article != "pane" {
		t.Errorf("order after move: %+v", after)
	}

	rec = doJSON(t, h.Move, http.MethodPost, "/api/shopping/items/2/move",
		map[string]string{"direction": "sideways"}, itoa(second.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction status = %d, want 400", rec.Code)
	}
}

func TestImportHandlerExpenses(t *testing.T) {
	env := setupEnv(t)
	im := importer.New(env.db, env.logger)
	h := NewImportHandler(im, env.hub, env.logger)

	csv := "id,data,categoria,importo,note,id_vacanza,extra\n1,2024-01-10,Alimentari,12.50,spesa,0,0\n"
	req := httptest.NewRequest(http.MethodPost, "/api/import/expenses", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.Expenses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	var result importer.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Inserted != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestImportHandlerRejectsGarbage(t *testing.T) {
	env := setupEnv(t)
	im := importer.New(env.db, env.logger)
	h := NewImportHandler(im, env.hub, env.logger)

	req := httptest.NewRequest(http.MethodPost, "/api/import/expenses", strings.NewReader("nonsense"))
	rec := httptest.NewRecorder()
	h.Expenses(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReportHandlerMonthDetailValidation(t *testing.T) {
	env := setupEnv(t)
	h := NewReportHandler(store.NewReportStore(env.db), env.logger)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/months/2024-6", nil)
	req.SetPathValue("month", "2024-6")
	rec := httptest.NewRecorder()
	h.MonthDetail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unpadded month", rec.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
