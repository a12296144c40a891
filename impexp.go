package pfreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// datasetHeader is the fixed column order of the historical CSV export.
var datasetHeader = []string{
	"month", "symbol", "shares", "currency",
	"usd_price", "usd_value", "jpy_price", "jpy_value", "fx_rate",
}

// csvNumber formats a value with six decimals, "" when unknown.
func csvNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// EncodeDatasetCSV writes the monthly dataset as one row per month and
// holding, months ascending, holdings in dataset order within each month.
func EncodeDatasetCSV(w io.Writer, d *MonthlyDataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(datasetHeader); err != nil {
		return err
	}
	for i, m := range d.Months {
		for _, r := range d.Rows {
			rec := []string{
				m.String(),
				r.Symbol,
				strconv.FormatFloat(r.Shares, 'f', -1, 64),
				r.Currency,
				csvNumber(r.USDPrice[i]),
				csvNumber(r.USDValue[i]),
				csvNumber(r.JPYPrice[i]),
				csvNumber(r.JPYValue[i]),
				csvNumber(d.FX[i]),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeHoldingsCSV reads a local holdings file with a symbol,shares,currency
// header (any column order). Blank symbols are skipped and unparseable share
// counts become 0; the currency is kept as found, blank included, so the
// caller decides the fallback.
func DecodeHoldingsCSV(r io.Reader) ([]Holding, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	symbolCol, ok := col["symbol"]
	if !ok {
		return nil, &ValidationError{Reason: "csv header misses a symbol column"}
	}
	sharesCol, hasShares := col["shares"]
	currencyCol, hasCurrency := col["currency"]

	var holdings []Holding
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read csv row: %w", err)
		}
		symbol := strings.TrimSpace(rec[symbolCol])
		if symbol == "" {
			continue
		}
		h := Holding{Symbol: symbol}
		if hasShares && sharesCol < len(rec) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[sharesCol]), 64); err == nil {
				h.Shares = v
			}
		}
		if hasCurrency && currencyCol < len(rec) {
			h.Currency = strings.ToUpper(strings.TrimSpace(rec[currencyCol]))
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
