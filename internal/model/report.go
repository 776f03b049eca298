package model

import (
	"famiglia/internal/money"
	"famiglia/internal/month"
)

// MonthBucket is one calendar-month entry of the dashboard series.
// The three sums partition the month's expenses: Normal excludes both
// the extra flag and vacations, Vacation covers vacation-tagged rows
// without the extra flag, Extra covers every extra-flagged row.
type MonthBucket struct {
	Month    month.Key   `json:"month"`
	Normal   money.Cents `json:"normal"`
	Vacation money.Cents `json:"vacation"`
	Extra    money.Cents `json:"extra"`
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string      `json:"category"`
	Total    money.Cents `json:"total"`
}

// VacationTotal is an amount aggregated by vacation.
type VacationTotal struct {
	VacationID int64       `json:"vacation_id"`
	Name       string      `json:"name"`
	Total      money.Cents `json:"total"`
}

// MonthDetail backs the month drill-down view.
type MonthDetail struct {
	Month      month.Key       `json:"month"`
	Expenses   []Expense       `json:"expenses"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByVacation []VacationTotal `json:"by_vacation"`
	ExtraTotal money.Cents     `json:"extra_total"`
	MonthTotal money.Cents     `json:"month_total"`
}

// SpendingSummary carries the dashboard headline figures.
type SpendingSummary struct {
	CurrentMonth   money.Cents `json:"current_month"`
	MonthlyAverage money.Cents `json:"monthly_average"`
}
