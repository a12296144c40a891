package pfreport

import (
	"math"
	"sort"
	"time"
)

// Row is one valued position. Every numeric field uses NaN for "unknown";
// a zero is always an actual zero.
type Row struct {
	Symbol   string
	Name     string // issuer display name, may be empty
	Shares   float64
	Currency string  // native trading currency, "USD" or "JPY"
	PER      float64 // trailing price-to-earnings multiple

	USDPrice, USDValue float64
	JPYPrice, JPYValue float64

	// Relative changes vs the previous day, month and year close, each
	// computed in the currency of the column it sits next to.
	USDDoD, USDMoM, USDYoY float64
	JPYDoD, JPYMoM, JPYYoY float64
}

// Valuation is the complete valued portfolio at one instant.
type Valuation struct {
	Time     time.Time
	Rows     []Row
	TotalUSD float64
	TotalJPY float64
	USDJPY   float64 // applied conversion rate, NaN when unavailable
}

// SortKey selects the column report rows are ordered by.
type SortKey int

const (
	SortNone SortKey = iota
	SortUSDValue
	SortJPYValue
)

// ParseSortKey maps the CLI spelling of a sort column.
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "usd":
		return SortUSDValue, true
	case "jpy":
		return SortJPYValue, true
	case "none", "":
		return SortNone, true
	}
	return SortNone, false
}

// SortRows orders rows by the given column. Rows with an unknown value sink
// to the end whatever the direction; the sort is stable so equal rows keep
// their ledger order.
func SortRows(rows []Row, key SortKey, descending bool) {
	if key == SortNone {
		return
	}
	value := func(r Row) float64 {
		if key == SortUSDValue {
			return r.USDValue
		}
		return r.JPYValue
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := value(rows[i]), value(rows[j])
		switch {
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		}
		if descending {
			return a > b
		}
		return a < b
	})
}

// Totals sums the USD and JPY values of rows, skipping unknown values so a
// single failed quote cannot poison the portfolio total.
func Totals(rows []Row) (usd, jpy float64) {
	for _, r := range rows {
		if !math.IsNaN(r.USDValue) {
			usd += r.USDValue
		}
		if !math.IsNaN(r.JPYValue) {
			jpy += r.JPYValue
		}
	}
	return usd, jpy
}
