package pfreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// LedgerClient talks to the remote holdings store, a small JSON API exposing
// GET (list), POST (upsert) and DELETE (remove by symbol) on a single
// endpoint.
type LedgerClient struct {
	BaseURL string
	Client  *http.Client
}

// NewLedgerClient returns a client for the given portfolio endpoint.
func NewLedgerClient(baseURL string) *LedgerClient {
	return &LedgerClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ledgerEntry tolerates the loose typing of stored rows: shares may arrive
// as a number or a string.
type ledgerEntry struct {
	Symbol   string          `json:"symbol"`
	Shares   json.RawMessage `json:"shares"`
	Currency string          `json:"currency"`
}

// Holdings lists the stored positions. Rows with a blank symbol are
// skipped, unparseable share counts become 0, and a blank currency falls
// back to defaultCurrency.
func (c *LedgerClient) Holdings(defaultCurrency string) ([]Holding, error) {
	var entries []ledgerEntry
	if err := JSONGet(c.Client, c.BaseURL, &entries); err != nil {
		return nil, fmt.Errorf("cannot load portfolio: %w", err)
	}
	holdings := make([]Holding, 0, len(entries))
	for _, e := range entries {
		symbol := strings.TrimSpace(e.Symbol)
		if symbol == "" {
			continue
		}
		currency := strings.ToUpper(strings.TrimSpace(e.Currency))
		if currency == "" {
			currency = strings.ToUpper(defaultCurrency)
		}
		holdings = append(holdings, Holding{
			Symbol:   symbol,
			Shares:   parseShares(e.Shares),
			Currency: currency,
		})
	}
	return holdings, nil
}

func parseShares(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n
		}
	}
	return 0
}

// Upsert creates or replaces the position for h.Symbol.
func (c *LedgerClient) Upsert(h Holding) error {
	body, err := json.Marshal(h)
	if err != nil {
		return err
	}
	resp, err := c.Client.Post(c.BaseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot upsert %s: %w", h.Symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("cannot upsert %s: %s", h.Symbol, resp.Status)
	}
	return nil
}

// Remove deletes the position for symbol. Removing an absent symbol is not
// an error.
func (c *LedgerClient) Remove(symbol string) error {
	addr := c.BaseURL + "?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequest(http.MethodDelete, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot remove %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cannot remove %s: %s", symbol, resp.Status)
	}
	return nil
}
