package pfreport

import (
	"encoding/json"
	"errors"
	"log"
	"math"

	"github.com/etnz/pfreport/date"
)

// ErrHistoryUnsupported reports a provider without the history capability.
var ErrHistoryUnsupported = errors.New("price provider does not support historical series")

// MonthlyRow is one holding's aligned history. Every slice has exactly one
// entry per dataset month, NaN where the provider had no observation.
type MonthlyRow struct {
	Symbol   string
	Shares   float64
	Currency string

	USDPrice []float64
	USDValue []float64
	JPYPrice []float64
	JPYValue []float64
}

// MonthlyDataset is the portfolio history aligned on a single month axis.
// The axis is the FX series' months, ascending, so every holding's slices
// line up index by index.
type MonthlyDataset struct {
	Months []date.Month
	FX     []float64 // JPY per USD, per month
	Rows   []MonthlyRow
}

// BuildMonthlyDataset assembles up to months months of valuation history.
// Holdings whose series cannot be fetched degrade to all-NaN rows; only a
// missing FX series fails the whole build, since it defines the axis.
func BuildMonthlyDataset(p PriceProvider, holdings []Holding, months int) (*MonthlyDataset, error) {
	hist, ok := p.(HistoryProvider)
	if !ok {
		return nil, ErrHistoryUnsupported
	}

	fxSeries, err := hist.MonthlySeries(hist.FXSymbol("USD", "JPY"), months)
	if err != nil {
		return nil, &ProviderError{Provider: "history", Op: "monthly fx series", Err: err}
	}
	d := &MonthlyDataset{Months: fxSeries.Months()}
	if len(d.Months) == 0 {
		return nil, &ProviderError{Provider: "history", Op: "monthly fx series", Err: errors.New("empty series")}
	}
	d.FX = alignSeries(fxSeries, d.Months)

	for _, h := range holdings {
		if !SupportedCurrencies[h.Currency] {
			return nil, &ValidationError{Symbol: h.Symbol, Reason: "unsupported currency " + h.Currency}
		}
		series, err := hist.MonthlySeries(h.Symbol, months)
		if err != nil {
			log.Printf("monthly series %s: %v (holding kept with empty history)", h.Symbol, err)
			series = new(date.History[float64])
		}
		native := alignSeries(series, d.Months)

		row := MonthlyRow{
			Symbol:   h.Symbol,
			Shares:   h.Shares,
			Currency: h.Currency,
			USDPrice: make([]float64, len(d.Months)),
			USDValue: make([]float64, len(d.Months)),
			JPYPrice: make([]float64, len(d.Months)),
			JPYValue: make([]float64, len(d.Months)),
		}
		for i, price := range native {
			fx := d.FX[i]
			var usd, jpy float64
			if h.Currency == "USD" {
				usd, jpy = price, price*fx
			} else {
				jpy, usd = price, safeDiv(price, fx)
			}
			row.USDPrice[i] = usd
			row.USDValue[i] = usd * h.Shares
			row.JPYPrice[i] = jpy
			row.JPYValue[i] = jpy * h.Shares
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// alignSeries re-indexes a series on the axis, NaN for absent months.
func alignSeries(h *date.History[float64], axis []date.Month) []float64 {
	out := make([]float64, len(axis))
	for i, m := range axis {
		v, ok := h.Get(m)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// MarshalJSON encodes the dataset with months as "YYYY-MM" strings and
// unknown values as null, since JSON has no NaN.
func (d *MonthlyDataset) MarshalJSON() ([]byte, error) {
	type jsonRow struct {
		Symbol   string  `json:"symbol"`
		Shares   float64 `json:"shares"`
		Currency string  `json:"currency"`
		USDPrice []any   `json:"usd_price"`
		USDValue []any   `json:"usd_value"`
		JPYPrice []any   `json:"jpy_price"`
		JPYValue []any   `json:"jpy_value"`
	}
	doc := struct {
		Months []date.Month `json:"months"`
		FX     []any        `json:"fx"`
		Rows   []jsonRow    `json:"rows"`
	}{
		Months: d.Months,
		FX:     nullableNumbers(d.FX),
	}
	for _, r := range d.Rows {
		doc.Rows = append(doc.Rows, jsonRow{
			Symbol:   r.Symbol,
			Shares:   r.Shares,
			Currency: r.Currency,
			USDPrice: nullableNumbers(r.USDPrice),
			USDValue: nullableNumbers(r.USDValue),
			JPYPrice: nullableNumbers(r.JPYPrice),
			JPYValue: nullableNumbers(r.JPYValue),
		})
	}
	return json.Marshal(doc)
}

func nullableNumbers(vs []float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		if math.IsNaN(v) {
			out[i] = nil
		} else {
			out[i] = v
		}
	}
	return out
}
