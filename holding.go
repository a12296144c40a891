package pfreport

// Holding is one position as stored in the remote ledger.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Shares   float64 `json:"shares"`
	Currency string  `json:"currency,omitempty"` // "USD" or "JPY"
}
