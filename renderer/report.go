// Package renderer turns a valued portfolio into its user-facing shapes: a
// markdown text report and a self-contained sortable HTML page.
package renderer

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/etnz/pfreport"
	md "github.com/nao1215/markdown"
)

// formatShares renders a share count rounded to units with thousands
// separators.
func formatShares(v float64) string {
	n := int64(math.Round(v))
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// ReportMarkdown renders the valuation as a markdown document with one table
// row per position and a closing total row.
func ReportMarkdown(v *pfreport.Valuation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Valuation (%s)", v.Time.Format("2006-01-02 15:04")))

	table := md.TableSet{
		Header: []string{"SYMBOL", "SHARES", "USD_PRICE", "USD_VALUE", "JPY_PRICE", "JPY_VALUE"},
	}
	for _, r := range v.Rows {
		table.Rows = append(table.Rows, []string{
			r.Symbol,
			formatShares(r.Shares),
			pfreport.A(r.USDPrice, "USD").String(),
			pfreport.A(r.USDValue, "USD").String(),
			pfreport.A(r.JPYPrice, "JPY").String(),
			pfreport.A(r.JPYValue, "JPY").String(),
		})
	}
	table.Rows = append(table.Rows, []string{
		"TOTAL", "", "",
		pfreport.A(v.TotalUSD, "USD").String(),
		"",
		pfreport.A(v.TotalJPY, "JPY").String(),
	})
	doc.Table(table)

	if !math.IsNaN(v.USDJPY) {
		doc.PlainText(fmt.Sprintf("FX: 1 USD = %.4f JPY", v.USDJPY))
	}
	return doc.String()
}
