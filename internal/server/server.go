// Package server wires the stores, handlers, and middleware onto an
// http.ServeMux. The icon gate protects everything except the login
// endpoint, the health check, and the websocket upgrade.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"famiglia/internal/auth"
	"famiglia/internal/handler"
	"famiglia/internal/importer"
	"famiglia/internal/middleware"
	"famiglia/internal/store"
	ws "famiglia/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	sessions    *auth.Sessions
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger

	authH     *handler.AuthHandler
	expenseH  *handler.ExpenseHandler
	categoryH *handler.CategoryHandler
	vacationH *handler.VacationHandler
	shoppingH *handler.ShoppingHandler
	choreH    *handler.ChoreHandler
	ledgerH   *handler.LedgerHandler
	reportH   *handler.ReportHandler
	settingsH *handler.SettingsHandler
	importH   *handler.ImportHandler
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	sessions := auth.NewSessions(auth.DefaultTTL)

	expenseStore := store.NewExpenseStore(db)
	categoryStore := store.NewCategoryStore(db)
	vacationStore := store.NewVacationStore(db)
	shoppingStore := store.NewShoppingStore(db)
	choreStore := store.NewChoreStore(db)
	ledgerStore := store.NewLedgerStore(db)
	reportStore := store.NewReportStore(db)
	settingsStore := store.NewSettingsStore(db)
	adminStore := store.NewAdminStore(db)

	im := importer.New(db, logger.With("component", "importer"))

	return &Server{
		db:          db,
		hub:         hub,
		sessions:    sessions,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,

		authH:     handler.NewAuthHandler(settingsStore, sessions, logger.With("component", "auth")),
		expenseH:  handler.NewExpenseHandler(expenseStore, hub, logger.With("component", "expense")),
		categoryH: handler.NewCategoryHandler(categoryStore, hub, logger.With("component", "category")),
		vacationH: handler.NewVacationHandler(vacationStore, reportStore, hub, logger.With("component", "vacation")),
		shoppingH: handler.NewShoppingHandler(shoppingStore, hub, logger.With("component", "shopping")),
		choreH:    handler.NewChoreHandler(choreStore, hub, logger.With("component", "chore")),
		ledgerH:   handler.NewLedgerHandler(ledgerStore, hub, logger.With("component", "ledger")),
		reportH:   handler.NewReportHandler(reportStore, logger.With("component", "report")),
		settingsH: handler.NewSettingsHandler(settingsStore, adminStore, hub, logger.With("component", "settings")),
		importH:   handler.NewImportHandler(im, hub, logger.With("component", "import")),
	}
}

// RateLimiter exposes the limiter so main can run periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /api/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	// Everything else sits behind the gate.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireSession(s.sessions)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimited guards the login endpoint against sequence guessing.
func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)

	// Expenses
	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("POST /api/expenses", s.expenseH.Create)
	mux.HandleFunc("GET /api/expenses/{id}", s.expenseH.Get)
	mux.HandleFunc("PUT /api/expenses/{id}", s.expenseH.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.expenseH.Delete)

	// Categories
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Vacations
	mux.HandleFunc("GET /api/vacations", s.vacationH.List)
	mux.HandleFunc("POST /api/vacations", s.vacationH.Create)
	mux.HandleFunc("GET /api/vacations/active", s.vacationH.Active)
	mux.HandleFunc("GET /api/vacations/{id}", s.vacationH.Get)
	mux.HandleFunc("PUT /api/vacations/{id}", s.vacationH.Update)
	mux.HandleFunc("DELETE /api/vacations/{id}", s.vacationH.Delete)
	mux.HandleFunc("POST /api/vacations/{id}/active", s.vacationH.SetActive)
	mux.HandleFunc("GET /api/vacations/{id}/categories", s.vacationH.CategoryBreakdown)

	// Shopping list
	mux.HandleFunc("GET /api/shopping/items", s.shoppingH.ListItems)
	mux.HandleFunc("POST /api/shopping/items", s.shoppingH.CreateItem)
	mux.HandleFunc("POST /api/shopping/items/{id}/move", s.shoppingH.Move)
	mux.HandleFunc("POST /api/shopping/items/{id}/purchase", s.shoppingH.Purchase)
	mux.HandleFunc("DELETE /api/shopping/items/{id}", s.shoppingH.DeleteItem)
	mux.HandleFunc("GET /api/shopping/suggestions", s.shoppingH.Suggestions)
	mux.HandleFunc("GET /api/shopping/history", s.shoppingH.History)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.SetDone)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)

	// Ledger
	mux.HandleFunc("GET /api/ledger", s.ledgerH.Summary)
	mux.HandleFunc("POST /api/ledger", s.ledgerH.Create)
	mux.HandleFunc("POST /api/ledger/{id}/pay", s.ledgerH.Pay)
	mux.HandleFunc("POST /api/ledger/pay-all", s.ledgerH.PayAll)
	mux.HandleFunc("DELETE /api/ledger/{id}", s.ledgerH.Delete)
	mux.HandleFunc("GET /api/ledger/batches", s.ledgerH.PaymentBatches)

	// Reports
	mux.HandleFunc("GET /api/reports/monthly", s.reportH.MonthlySeries)
	mux.HandleFunc("GET /api/reports/summary", s.reportH.Summary)
	mux.HandleFunc("GET /api/reports/months/{month}", s.reportH.MonthDetail)

	// CSV import
	mux.HandleFunc("POST /api/import/expenses", s.importH.Expenses)
	mux.HandleFunc("POST /api/import/vacations", s.importH.Vacations)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.GetAll)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Set)
	mux.HandleFunc("GET /api/settings/login-sequence", s.settingsH.GetLoginSequence)
	mux.HandleFunc("PUT /api/settings/login-sequence", s.settingsH.SetLoginSequence)
	mux.HandleFunc("POST /api/admin/wipe", s.settingsH.WipeData)
}
