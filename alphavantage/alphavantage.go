// Package alphavantage implements the Alpha Vantage market-data provider.
//
// Alpha Vantage meters its free tier hard, so every outbound call goes
// through a shared sliding-window rate limiter, and the service reports its
// own throttling and errors as advisory fields inside an HTTP 200 body.
// Any such advisory fails the call.
package alphavantage

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pfreport"
)

const providerName = "alphavantage"

// Client queries the Alpha Vantage query endpoint. It implements
// pfreport.PriceProvider and nothing more: the service has no usable
// history or profile endpoints on the free tier.
type Client struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Limiter *pfreport.RateLimiter
}

// New returns a client throttled to the free-tier quota of 5 calls per
// minute.
func New(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: "https://www.alphavantage.co/query",
		Client:  &http.Client{Timeout: 20 * time.Second},
		Limiter: pfreport.NewRateLimiter(5, time.Minute),
	}
}

// query performs one metered GET and decodes the JSON body.
func (c *Client) query(params url.Values) (any, error) {
	c.Limiter.Acquire()
	params.Set("apikey", c.APIKey)
	var data any
	if err := pfreport.JSONGet(c.Client, c.BaseURL+"?"+params.Encode(), &data); err != nil {
		return nil, err
	}
	if err := advisory(data); err != nil {
		return nil, err
	}
	return data, nil
}

// advisory detects the service's in-band failure fields. Their presence
// means the payload carries no data, whatever else it looks like.
func advisory(data any) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	for _, field := range []string{"Note", "Error Message", "Information"} {
		if msg, ok := obj[field].(string); ok && msg != "" {
			return fmt.Errorf("service advisory %s: %s", field, msg)
		}
	}
	return nil
}

// field extracts a single string field with a jsonpath expression.
func field(data any, path string) (string, bool) {
	v, err := jsonpath.Get(path, data)
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Price returns the latest quote for symbol. The quote endpoint sometimes
// returns an empty object for valid symbols, in which case the latest
// daily close serves as fallback.
func (c *Client) Price(symbol string) (float64, error) {
	op := fmt.Sprintf("price %q", symbol)
	data, err := c.query(url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}})
	if err != nil {
		return 0, &pfreport.ProviderError{Provider: providerName, Op: op, Err: err}
	}
	if s, ok := field(data, `$["Global Quote"]["05. price"]`); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, nil
		}
	}
	v, err := c.latestDailyClose(symbol)
	if err != nil {
		return 0, &pfreport.ProviderError{Provider: providerName, Op: op, Err: err}
	}
	return v, nil
}

// latestDailyClose returns the close of the most recent day in the daily
// time series.
func (c *Client) latestDailyClose(symbol string) (float64, error) {
	data, err := c.query(url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}})
	if err != nil {
		return 0, err
	}
	raw, err := jsonpath.Get(`$["Time Series (Daily)"]`, data)
	if err != nil {
		return 0, fmt.Errorf("no daily series for %s", symbol)
	}
	days, ok := raw.(map[string]any)
	if !ok || len(days) == 0 {
		return 0, fmt.Errorf("empty daily series for %s", symbol)
	}
	// date keys sort lexicographically, the greatest is the latest day
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	latest := dates[len(dates)-1]
	if s, ok := field(days, fmt.Sprintf(`$["%s"]["4. close"]`, latest)); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no close for %s on %s", symbol, latest)
}

// FXRate returns the realtime exchange rate converting from into to.
func (c *Client) FXRate(from, to string) (float64, error) {
	op := fmt.Sprintf("fx %s/%s", from, to)
	data, err := c.query(url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {from},
		"to_currency":   {to},
	})
	if err != nil {
		return 0, &pfreport.ProviderError{Provider: providerName, Op: op, Err: err}
	}
	s, ok := field(data, `$["Realtime Currency Exchange Rate"]["5. Exchange Rate"]`)
	if !ok {
		return 0, &pfreport.ProviderError{Provider: providerName, Op: op, Err: fmt.Errorf("rate field missing")}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &pfreport.ProviderError{Provider: providerName, Op: op, Err: err}
	}
	return v, nil
}
