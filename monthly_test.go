package pfreport

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/etnz/pfreport/date"
)

func series(pairs map[string]float64) *date.History[float64] {
	h := new(date.History[float64])
	for m, v := range pairs {
		h.Append(date.MustParseMonth(m), v)
	}
	return h
}

func monthlyFixture() *fakeHistoryProvider {
	return &fakeHistoryProvider{
		series: map[string]*date.History[float64]{
			"USDJPY=X": series(map[string]float64{"2024-01": 140, "2024-02": 145, "2024-03": 150}),
			"AAPL":     series(map[string]float64{"2024-01": 100, "2024-03": 120}),
			"7203.T":   series(map[string]float64{"2024-01": 2800, "2024-02": 2900, "2024-03": 3000}),
		},
	}
}

func TestBuildMonthlyDatasetAxisFromFX(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAPL", Shares: 10, Currency: "USD"},
		{Symbol: "7203.T", Shares: 5, Currency: "JPY"},
	}
	d, err := BuildMonthlyDataset(monthlyFixture(), holdings, 12)
	if err != nil {
		t.Fatalf("BuildMonthlyDataset() unexpected error = %v", err)
	}
	if len(d.Months) != 3 || d.Months[0].String() != "2024-01" || d.Months[2].String() != "2024-03" {
		t.Fatalf("axis = %v", d.Months)
	}

	aapl := d.Rows[0]
	// 2024-02 is on the axis but absent from AAPL's series
	if !math.IsNaN(aapl.USDPrice[1]) || !math.IsNaN(aapl.JPYValue[1]) {
		t.Error("missing month should be unknown, not zero")
	}
	if aapl.USDValue[0] != 1000 {
		t.Errorf("AAPL usd_value[0] = %v, want 1000", aapl.USDValue[0])
	}
	if aapl.JPYPrice[2] != 120*150.0 {
		t.Errorf("AAPL jpy_price[2] = %v, want 18000", aapl.JPYPrice[2])
	}

	toyota := d.Rows[1]
	if toyota.USDPrice[0] != 2800/140.0 {
		t.Errorf("7203.T usd_price[0] = %v, want 20", toyota.USDPrice[0])
	}
}

func TestBuildMonthlyDatasetFailedHoldingDegrades(t *testing.T) {
	p := monthlyFixture()
	holdings := []Holding{{Symbol: "GHOST", Shares: 1, Currency: "USD"}}
	d, err := BuildMonthlyDataset(p, holdings, 12)
	if err != nil {
		t.Fatalf("BuildMonthlyDataset() unexpected error = %v", err)
	}
	for _, v := range d.Rows[0].USDValue {
		if !math.IsNaN(v) {
			t.Fatalf("GHOST values = %v, want all NaN", d.Rows[0].USDValue)
		}
	}
}

func TestBuildMonthlyDatasetMissingFXPoisonsMonthOnly(t *testing.T) {
	p := monthlyFixture()
	p.series["USDJPY=X"] = series(map[string]float64{"2024-01": math.NaN(), "2024-02": 145})
	holdings := []Holding{{Symbol: "7203.T", Shares: 5, Currency: "JPY"}}
	d, err := BuildMonthlyDataset(p, holdings, 12)
	if err != nil {
		t.Fatalf("BuildMonthlyDataset() unexpected error = %v", err)
	}
	row := d.Rows[0]
	if !math.IsNaN(row.USDPrice[0]) {
		t.Error("month without FX should have an unknown converted price")
	}
	if row.JPYPrice[0] != 2800 {
		t.Errorf("native price should survive a missing FX rate, got %v", row.JPYPrice[0])
	}
	if row.USDPrice[1] != 2900/145.0 {
		t.Errorf("usd_price[1] = %v, want 20", row.USDPrice[1])
	}
}

func TestBuildMonthlyDatasetRequiresHistory(t *testing.T) {
	_, err := BuildMonthlyDataset(&fakeProvider{}, nil, 12)
	if !errors.Is(err, ErrHistoryUnsupported) {
		t.Errorf("error = %v, want ErrHistoryUnsupported", err)
	}
}

func TestMonthlyDatasetJSON(t *testing.T) {
	holdings := []Holding{{Symbol: "AAPL", Shares: 10, Currency: "USD"}}
	d, err := BuildMonthlyDataset(monthlyFixture(), holdings, 12)
	if err != nil {
		t.Fatalf("BuildMonthlyDataset() unexpected error = %v", err)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"months":["2024-01","2024-02","2024-03"]`) {
		t.Errorf("months missing from %s", s)
	}
	if !strings.Contains(s, "null") {
		t.Error("unknown values should encode as null")
	}
	if strings.Contains(s, "NaN") {
		t.Error("NaN leaked into JSON")
	}
}
