package model

// ShoppingItem is an entry on the active shopping list. Position is an
// integer order key: it induces the display order but is not required
// to be contiguous.
type ShoppingItem struct {
	ID       int64  `json:"id"`
	Article  string `json:"article"`
	Position int64  `json:"position"`
}

// HistoryEntry records how many times an article has been purchased
// (removed from the active list).
type HistoryEntry struct {
	Article       string `json:"article"`
	PurchaseCount int64  `json:"purchase_count"`
}
