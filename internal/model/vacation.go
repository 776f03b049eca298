package model

import "famiglia/internal/money"

type Vacation struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Active    bool    `json:"active"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`

	// TotalSpent is derived on reads: the sum of all expenses tagged
	// with this vacation, 0 when there are none.
	TotalSpent money.Cents `json:"total_spent"`
}
