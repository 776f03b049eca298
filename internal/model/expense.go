package model

import "famiglia/internal/money"

// Expense is a household expense row. Category is a soft reference by
// name; VacationID is 0 when the expense is not tied to a vacation.
type Expense struct {
	ID         int64       `json:"id"`
	Date       string      `json:"date"`
	Category   string      `json:"category"`
	Amount     money.Cents `json:"amount"`
	Note       string      `json:"note"`
	VacationID int64       `json:"vacation_id"`
	Extra      bool        `json:"extra"`

	// VacationName is joined on reads; empty when VacationID is 0 or
	// the vacation no longer exists.
	VacationName string `json:"vacation_name,omitempty"`
}

// ExpensePage is one page of a filtered expense listing.
type ExpensePage struct {
	Items []Expense `json:"items"`
	Total int       `json:"total"`
}
