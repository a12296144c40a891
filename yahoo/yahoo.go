// Package yahoo implements the Yahoo Finance market-data provider.
//
// Yahoo exposes several overlapping endpoints of uneven reliability, so the
// client is an aggregator: each lookup walks a chain of sources and
// swallows individual failures, erroring only when the whole chain is
// exhausted. It is the only provider with history and enrichment
// capabilities.
package yahoo

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/pfreport"
	"github.com/etnz/pfreport/date"
)

const providerName = "yahoo"

// Client queries the public Yahoo Finance JSON endpoints. Monthly history
// goes through a daily-expiring disk cache since it cannot change within a
// day.
type Client struct {
	BaseURL string
	Client  *http.Client
	History *http.Client
}

// New returns a ready-to-use client.
func New() *Client {
	return &Client{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  &http.Client{Timeout: 20 * time.Second},
		History: pfreport.NewDailyCachingClient(20 * time.Second),
	}
}

// chart endpoint payload

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency           string   `json:"currency"`
		Symbol             string   `json:"symbol"`
		ShortName          string   `json:"shortName"`
		LongName           string   `json:"longName"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		ChartPreviousClose *float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// chart fetches one symbol's chart for the given range and interval.
func (c *Client) chart(client *http.Client, symbol, rng, interval string) (*chartResult, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.BaseURL, url.PathEscape(symbol), rng, interval)
	var resp chartResponse
	if err := pfreport.JSONGet(client, addr, &resp); err != nil {
		return nil, err
	}
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("%s: %s", e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart for %s", symbol)
	}
	return &resp.Chart.Result[0], nil
}

// closes returns the chart's close column, nil-safe.
func (r *chartResult) closes() []*float64 {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	return r.Indicators.Quote[0].Close
}

// lastClose returns the n-th defined close counting back from the end,
// n=1 being the most recent.
func lastClose(r *chartResult, n int) (float64, bool) {
	closes := r.closes()
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		if n--; n == 0 {
			return *closes[i], true
		}
	}
	return 0, false
}

// Price returns the latest price: the chart's realtime meta field when
// present, the most recent daily close otherwise.
func (c *Client) Price(symbol string) (float64, error) {
	r, err := c.chart(c.Client, symbol, "1d", "1d")
	if err == nil {
		if r.Meta.RegularMarketPrice != nil {
			return *r.Meta.RegularMarketPrice, nil
		}
		if v, ok := lastClose(r, 1); ok {
			return v, nil
		}
	}
	// a wider window sometimes carries closes when the 1d chart is bare
	if r, err2 := c.chart(c.Client, symbol, "5d", "1d"); err2 == nil {
		if v, ok := lastClose(r, 1); ok {
			return v, nil
		}
	}
	return 0, &pfreport.ProviderError{Provider: providerName, Op: fmt.Sprintf("price %q", symbol), Err: err}
}

// FXSymbol returns Yahoo's ticker for a currency pair, e.g. "USDJPY=X".
func (c *Client) FXSymbol(from, to string) string {
	return strings.ToUpper(from) + strings.ToUpper(to) + "=X"
}

// FXRate returns the rate converting one unit of from into to.
func (c *Client) FXRate(from, to string) (float64, error) {
	return c.Price(c.FXSymbol(from, to))
}

// PreviousClose looks one day, month or year back. Absence is reported,
// never invented: a series too short for the horizon returns false.
func (c *Client) PreviousClose(symbol string, h pfreport.Horizon) (float64, bool) {
	switch h {
	case pfreport.PreviousDay:
		r, err := c.chart(c.Client, symbol, "5d", "1d")
		if err != nil {
			return 0, false
		}
		if r.Meta.ChartPreviousClose != nil {
			return *r.Meta.ChartPreviousClose, true
		}
		return lastClose(r, 2)
	case pfreport.PreviousMonth:
		return c.monthlyFromEnd(symbol, 2)
	case pfreport.PreviousYear:
		return c.monthlyFromEnd(symbol, 13)
	}
	return 0, false
}

// monthlyFromEnd reads the n-th most recent month-end close, the last
// entry being the current partial month.
func (c *Client) monthlyFromEnd(symbol string, n int) (float64, bool) {
	series, err := c.MonthlySeries(symbol, n+1)
	if err != nil {
		return 0, false
	}
	return series.FromEnd(n)
}

// rangeFor picks the smallest chart range covering months of history.
func rangeFor(months int) string {
	switch {
	case months <= 12:
		return "1y"
	case months <= 24:
		return "2y"
	case months <= 60:
		return "5y"
	case months <= 120:
		return "10y"
	}
	return "max"
}

// MonthlySeries returns up to months month-end closes, oldest first.
// Months with no defined close are simply absent from the series.
func (c *Client) MonthlySeries(symbol string, months int) (*date.History[float64], error) {
	r, err := c.chart(c.History, symbol, rangeFor(months), "1mo")
	if err != nil {
		return nil, &pfreport.ProviderError{Provider: providerName, Op: fmt.Sprintf("monthly %q", symbol), Err: err}
	}
	series := new(date.History[float64])
	closes := r.closes()
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		// duplicate timestamps within a month keep the latest observation
		series.Append(date.MonthOf(time.Unix(ts, 0).UTC()), *closes[i])
	}
	series.TakeLast(months)
	return series, nil
}

// quoteSummary endpoint payload

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE struct {
					Raw *float64 `json:"raw"`
				} `json:"trailingPE"`
			} `json:"summaryDetail"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// CompanyName returns the issuer's display name from the chart metadata.
func (c *Client) CompanyName(symbol string) (string, bool) {
	r, err := c.chart(c.Client, symbol, "1d", "1d")
	if err != nil {
		return "", false
	}
	if r.Meta.ShortName != "" {
		return r.Meta.ShortName, true
	}
	if r.Meta.LongName != "" {
		return r.Meta.LongName, true
	}
	return "", false
}

// TrailingPE returns the trailing price-to-earnings multiple, best-effort.
func (c *Client) TrailingPE(symbol string) (float64, bool) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail",
		c.BaseURL, url.PathEscape(symbol))
	var resp quoteSummaryResponse
	if err := pfreport.JSONGet(c.Client, addr, &resp); err != nil {
		return 0, false
	}
	res := resp.QuoteSummary.Result
	if len(res) == 0 || res[0].SummaryDetail.TrailingPE.Raw == nil {
		return 0, false
	}
	return *res[0].SummaryDetail.TrailingPE.Raw, true
}

// compile-time capability checks
var (
	_ pfreport.PriceProvider   = (*Client)(nil)
	_ pfreport.HistoryProvider = (*Client)(nil)
	_ pfreport.Enricher        = (*Client)(nil)
)
