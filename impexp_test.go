package pfreport

import (
	"strings"
	"testing"
)

func TestEncodeDatasetCSV(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAPL", Shares: 10, Currency: "USD"},
		{Symbol: "7203.T", Shares: 5, Currency: "JPY"},
	}
	d, err := BuildMonthlyDataset(monthlyFixture(), holdings, 12)
	if err != nil {
		t.Fatalf("BuildMonthlyDataset() unexpected error = %v", err)
	}
	var sb strings.Builder
	if err := EncodeDatasetCSV(&sb, d); err != nil {
		t.Fatalf("EncodeDatasetCSV() unexpected error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if lines[0] != "month,symbol,shares,currency,usd_price,usd_value,jpy_price,jpy_value,fx_rate" {
		t.Errorf("header = %q", lines[0])
	}
	// 3 months x 2 holdings
	if len(lines) != 1+6 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), sb.String())
	}
	if lines[1] != "2024-01,AAPL,10,USD,100.000000,1000.000000,14000.000000,140000.000000,140.000000" {
		t.Errorf("first row = %q", lines[1])
	}
	// AAPL has no 2024-02 observation: unknown cells stay empty
	if lines[3] != "2024-02,AAPL,10,USD,,,,,145.000000" {
		t.Errorf("gap row = %q", lines[3])
	}
}

func TestDecodeHoldingsCSV(t *testing.T) {
	in := "symbol,shares,currency\nAAPL,10,usd\n7203.T,5.5,\n,1,USD\nBAD,oops,JPY\n"
	holdings, err := DecodeHoldingsCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeHoldingsCSV() unexpected error = %v", err)
	}
	want := []Holding{
		{Symbol: "AAPL", Shares: 10, Currency: "USD"},
		{Symbol: "7203.T", Shares: 5.5, Currency: ""},
		{Symbol: "BAD", Shares: 0, Currency: "JPY"},
	}
	if len(holdings) != len(want) {
		t.Fatalf("got %v, want %v", holdings, want)
	}
	for i := range want {
		if holdings[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, holdings[i], want[i])
		}
	}
}

func TestDecodeHoldingsCSVRequiresSymbol(t *testing.T) {
	if _, err := DecodeHoldingsCSV(strings.NewReader("shares,currency\n1,USD\n")); err == nil {
		t.Error("expected an error without a symbol column")
	}
}
