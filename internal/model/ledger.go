package model

import "famiglia/internal/money"

// LedgerEntry is one expense advanced on behalf of the secondary
// person. PaymentDate is shared by every entry settled in the same
// "pay all" action, forming an implicit payment batch.
type LedgerEntry struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      money.Cents `json:"amount"`
	Paid        bool        `json:"paid"`
	PaymentDate *string     `json:"payment_date"`
}

// LedgerSummary is the ledger listing plus the outstanding balance.
type LedgerSummary struct {
	Items       []LedgerEntry `json:"items"`
	UnpaidTotal money.Cents   `json:"unpaid_total"`
}

// PaymentBatch groups ledger entries settled on the same date.
type PaymentBatch struct {
	PaymentDate string      `json:"payment_date"`
	Count       int         `json:"count"`
	Total       money.Cents `json:"total"`
}
