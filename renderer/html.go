package renderer

import (
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/etnz/pfreport"
)

//go:embed report.html.tmpl
var templates embed.FS

// Cell is one table cell, carrying both the display string and the raw
// numeric value the in-page sorter compares. Value is "" for unknowns so
// they sort last.
type Cell struct {
	Display string
	Value   string
	Class   string
}

// Table is one currency group of the HTML report.
type Table struct {
	Title string
	Rows  [][]Cell
	Foot  []Cell
}

type htmlPage struct {
	Generated string
	FX        string
	Tables    []Table
	TotalUSD  string
	TotalJPY  string
	Dataset   template.HTML
}

func numCell(v float64, currency string) Cell {
	c := Cell{Display: pfreport.A(v, currency).String(), Class: "num"}
	if !math.IsNaN(v) {
		c.Value = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return c
}

func pctCell(p float64) Cell {
	c := Cell{Display: pfreport.Percent(p).SignedString(), Class: "num pct"}
	if math.IsNaN(p) {
		return c
	}
	c.Value = strconv.FormatFloat(p, 'f', 6, 64)
	if p > 0 {
		c.Class += " up"
	} else if p < 0 {
		c.Class += " down"
	}
	return c
}

func symbolCell(r pfreport.Row) Cell {
	display := r.Symbol
	if r.Name != "" {
		display = fmt.Sprintf("%s (%s)", r.Symbol, r.Name)
	}
	return Cell{Display: display, Value: r.Symbol, Class: "sym"}
}

func perCell(v float64) Cell {
	c := Cell{Class: "num"}
	if !math.IsNaN(v) {
		c.Display = strconv.FormatFloat(v, 'f', 1, 64)
		c.Value = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return c
}

func rowCells(r pfreport.Row) []Cell {
	return []Cell{
		symbolCell(r),
		{Display: formatShares(r.Shares), Value: strconv.FormatFloat(r.Shares, 'f', 6, 64), Class: "num"},
		perCell(r.PER),
		numCell(r.USDPrice, "USD"),
		pctCell(r.USDYoY),
		pctCell(r.USDMoM),
		pctCell(r.USDDoD),
		numCell(r.USDValue, "USD"),
		numCell(r.JPYPrice, "JPY"),
		pctCell(r.JPYYoY),
		pctCell(r.JPYMoM),
		pctCell(r.JPYDoD),
		numCell(r.JPYValue, "JPY"),
	}
}

func groupTable(title string, rows []pfreport.Row) Table {
	t := Table{Title: title}
	for _, r := range rows {
		t.Rows = append(t.Rows, rowCells(r))
	}
	usd, jpy := pfreport.Totals(rows)
	foot := make([]Cell, 13)
	foot[0] = Cell{Display: "TOTAL", Class: "sym"}
	foot[7] = numCell(usd, "USD")
	foot[12] = numCell(jpy, "JPY")
	t.Foot = foot
	return t
}

// ReportHTML renders the valuation as a single self-contained HTML page:
// one sortable table per currency group, overall totals, and, when ds is
// not nil, the monthly dataset embedded as JSON plus its CSV flattening.
func ReportHTML(v *pfreport.Valuation, ds *pfreport.MonthlyDataset) (string, error) {
	var domestic, foreign []pfreport.Row
	for _, r := range v.Rows {
		if r.Currency == "JPY" {
			domestic = append(domestic, r)
		} else {
			foreign = append(foreign, r)
		}
	}
	page := htmlPage{
		Generated: v.Time.Format("2006-01-02 15:04"),
		TotalUSD:  pfreport.A(v.TotalUSD, "USD").String(),
		TotalJPY:  pfreport.A(v.TotalJPY, "JPY").String(),
	}
	if !math.IsNaN(v.USDJPY) {
		page.FX = fmt.Sprintf("1 USD = %.4f JPY", v.USDJPY)
	}
	if len(domestic) > 0 {
		page.Tables = append(page.Tables, groupTable("Domestic (JPY)", domestic))
	}
	if len(foreign) > 0 {
		page.Tables = append(page.Tables, groupTable("Foreign (USD)", foreign))
	}
	if ds != nil {
		block, err := datasetBlock(ds)
		if err != nil {
			return "", err
		}
		page.Dataset = block
	}

	tmpl, err := template.ParseFS(templates, "report.html.tmpl")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, page); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// datasetBlock embeds the dataset twice: as JSON for scripts and as the CSV
// flattening for copy-paste. json.Marshal escapes "<" so the JSON is safe
// inside a script element as-is.
func datasetBlock(ds *pfreport.MonthlyDataset) (template.HTML, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	var csv strings.Builder
	if err := pfreport.EncodeDatasetCSV(&csv, ds); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<script id="pf-data" type="application/json">`)
	b.Write(raw)
	b.WriteString("</script>\n")
	b.WriteString(`<pre id="pf-csv" hidden>`)
	b.WriteString(html.EscapeString(csv.String()))
	b.WriteString("</pre>\n")
	return template.HTML(b.String()), nil
}
