package pfreport

import "github.com/etnz/pfreport/date"

// PriceProvider is the minimal contract every market-data source implements.
// Both operations fail loudly: a nil error always comes with a usable value.
type PriceProvider interface {
	// Price returns the latest price for symbol in its trading currency.
	Price(symbol string) (float64, error)
	// FXRate returns the rate converting one unit of from into to.
	FXRate(from, to string) (float64, error)
}

// Horizon selects how far back a previous close looks.
type Horizon int

const (
	PreviousDay Horizon = iota
	PreviousMonth
	PreviousYear
)

// HistoryProvider is implemented by providers that can look back in time.
// Previous closes are best-effort: a false return means unavailable, never
// zero. Callers discover the capability with a single type assertion.
type HistoryProvider interface {
	// PreviousClose returns the symbol's close one day, month or year back.
	PreviousClose(symbol string, h Horizon) (float64, bool)
	// MonthlySeries returns up to months month-end closes, oldest first.
	MonthlySeries(symbol string, months int) (*date.History[float64], error)
	// FXSymbol returns the provider's ticker for a currency pair, usable
	// with PreviousClose and MonthlySeries.
	FXSymbol(from, to string) string
}

// Enricher is implemented by providers that expose descriptive data.
type Enricher interface {
	// CompanyName returns the issuer's display name.
	CompanyName(symbol string) (string, bool)
	// TrailingPE returns the trailing price-to-earnings multiple.
	TrailingPE(symbol string) (float64, bool)
}

// FetchPrices fetches the latest price of every distinct symbol, one call
// per symbol in holdings order. The first failure aborts the whole fetch.
func FetchPrices(p PriceProvider, holdings []Holding) (map[string]float64, error) {
	prices := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		if _, done := prices[h.Symbol]; done {
			continue
		}
		v, err := p.Price(h.Symbol)
		if err != nil {
			return nil, err
		}
		prices[h.Symbol] = v
	}
	return prices, nil
}
