package pfreport

import (
	"math"
	"time"
)

// pct returns the relative change from prev to cur, NaN when either side is
// unknown or prev cannot serve as a base.
func pct(cur, prev float64) float64 {
	if math.IsNaN(cur) || math.IsNaN(prev) || prev == 0 || math.IsInf(prev, 0) {
		return math.NaN()
	}
	return (cur - prev) / prev
}

// safeDiv divides a by b, NaN when b is zero or either side is unknown.
func safeDiv(a, b float64) float64 {
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return a / b
}

// previousCloses gathers a symbol's day/month/year closes from an optional
// history capability, NaN where unavailable.
func previousCloses(hist HistoryProvider, symbol string) (day, month, year float64) {
	day, month, year = math.NaN(), math.NaN(), math.NaN()
	if hist == nil {
		return
	}
	if v, ok := hist.PreviousClose(symbol, PreviousDay); ok {
		day = v
	}
	if v, ok := hist.PreviousClose(symbol, PreviousMonth); ok {
		month = v
	}
	if v, ok := hist.PreviousClose(symbol, PreviousYear); ok {
		year = v
	}
	return
}

// BuildValuation turns fetched prices into valued rows with both currency
// views. usdjpy is the number of JPY per USD; NaN leaves every converted
// column unknown. A holding outside the supported currency set aborts the
// whole valuation with a ValidationError.
func BuildValuation(holdings []Holding, prices map[string]float64, usdjpy float64, p PriceProvider) (*Valuation, error) {
	hist, _ := p.(HistoryProvider)
	enricher, _ := p.(Enricher)

	// previous FX closes, so converted change metrics compare like with
	// like: today's price at today's rate vs yesterday's price at
	// yesterday's rate.
	fxPrevDay, fxPrevMonth, fxPrevYear := math.NaN(), math.NaN(), math.NaN()
	if hist != nil {
		fxPrevDay, fxPrevMonth, fxPrevYear = previousCloses(hist, hist.FXSymbol("USD", "JPY"))
	}

	type enrichment struct {
		name string
		per  float64
	}
	cache := map[string]enrichment{}
	enrich := func(symbol string) enrichment {
		if e, ok := cache[symbol]; ok {
			return e
		}
		e := enrichment{per: math.NaN()}
		if enricher != nil {
			if name, ok := enricher.CompanyName(symbol); ok {
				e.name = name
			}
			if per, ok := enricher.TrailingPE(symbol); ok {
				e.per = per
			}
		}
		cache[symbol] = e
		return e
	}

	v := &Valuation{Time: time.Now(), USDJPY: usdjpy}
	for _, h := range holdings {
		if !SupportedCurrencies[h.Currency] {
			return nil, &ValidationError{Symbol: h.Symbol, Reason: "unsupported currency " + h.Currency}
		}
		price, ok := prices[h.Symbol]
		if !ok {
			price = math.NaN()
		}
		prevD, prevM, prevY := math.NaN(), math.NaN(), math.NaN()
		if hist != nil {
			prevD, prevM, prevY = previousCloses(hist, h.Symbol)
		}

		e := enrich(h.Symbol)
		row := Row{
			Symbol:   h.Symbol,
			Name:     e.name,
			Shares:   h.Shares,
			Currency: h.Currency,
			PER:      e.per,
		}
		switch h.Currency {
		case "USD":
			row.USDPrice = price
			row.JPYPrice = price * usdjpy
			row.USDDoD = pct(price, prevD)
			row.USDMoM = pct(price, prevM)
			row.USDYoY = pct(price, prevY)
			row.JPYDoD = pct(price*usdjpy, prevD*fxPrevDay)
			row.JPYMoM = pct(price*usdjpy, prevM*fxPrevMonth)
			row.JPYYoY = pct(price*usdjpy, prevY*fxPrevYear)
		case "JPY":
			row.JPYPrice = price
			row.USDPrice = safeDiv(price, usdjpy)
			row.JPYDoD = pct(price, prevD)
			row.JPYMoM = pct(price, prevM)
			row.JPYYoY = pct(price, prevY)
			row.USDDoD = pct(safeDiv(price, usdjpy), safeDiv(prevD, fxPrevDay))
			row.USDMoM = pct(safeDiv(price, usdjpy), safeDiv(prevM, fxPrevMonth))
			row.USDYoY = pct(safeDiv(price, usdjpy), safeDiv(prevY, fxPrevYear))
		}
		row.USDValue = row.USDPrice * h.Shares
		row.JPYValue = row.JPYPrice * h.Shares
		v.Rows = append(v.Rows, row)
	}
	v.TotalUSD, v.TotalJPY = Totals(v.Rows)
	return v, nil
}
