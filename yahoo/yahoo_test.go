package yahoo

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/pfreport"
)

// newTestClient serves canned charts without the disk cache, so every test
// request reaches the handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New()
	c.BaseURL = srv.URL
	c.History = c.Client
	return c
}

func chartBody(meta string, timestamps []int64, closes []string) string {
	var ts []string
	for _, t := range timestamps {
		ts = append(ts, fmt.Sprint(t))
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{%s},"timestamp":[%s],
		"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		meta, strings.Join(ts, ","), strings.Join(closes, ","))
}

func TestPriceFastPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"regularMarketPrice":150.25,"symbol":"AAPL"`, nil, nil))
	})
	v, err := c.Price("AAPL")
	if err != nil {
		t.Fatalf("Price() unexpected error = %v", err)
	}
	if v != 150.25 {
		t.Errorf("Price() = %v, want 150.25", v)
	}
}

func TestPriceFallsBackToLastClose(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"symbol":"AAPL"`,
			[]int64{1700000000, 1700086400, 1700172800},
			[]string{"148.0", "149.5", "null"}))
	})
	v, err := c.Price("AAPL")
	if err != nil {
		t.Fatalf("Price() unexpected error = %v", err)
	}
	if v != 149.5 {
		t.Errorf("Price() = %v, want the last defined close 149.5", v)
	}
}

func TestPriceExhaustedChain(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	})
	var pe *pfreport.ProviderError
	if _, err := c.Price("GHOST"); !errors.As(err, &pe) {
		t.Fatalf("Price() error = %v, want a ProviderError", err)
	}
}

func TestFXSymbol(t *testing.T) {
	c := New()
	if got := c.FXSymbol("usd", "jpy"); got != "USDJPY=X" {
		t.Errorf("FXSymbol() = %q, want USDJPY=X", got)
	}
}

// monthTS returns a mid-month unix timestamp for year/month.
func monthTS(year, month int) int64 {
	return time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC).Unix()
}

func TestMonthlySeries(t *testing.T) {
	var gotRange, gotInterval string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		fmt.Fprint(w, chartBody(`"symbol":"AAPL"`,
			[]int64{monthTS(2024, 1), monthTS(2024, 2), monthTS(2024, 2), monthTS(2024, 3), monthTS(2024, 4)},
			[]string{"100", "105", "106", "null", "120"}))
	})
	series, err := c.MonthlySeries("AAPL", 12)
	if err != nil {
		t.Fatalf("MonthlySeries() unexpected error = %v", err)
	}
	if gotRange != "1y" || gotInterval != "1mo" {
		t.Errorf("queried range=%s interval=%s, want 1y/1mo", gotRange, gotInterval)
	}
	// duplicate 2024-02 keeps the later value, null 2024-03 is absent
	if got := series.String(); got != "[2024-01:100 2024-02:106 2024-04:120]" {
		t.Errorf("series = %s", got)
	}
}

func TestMonthlySeriesTruncates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"symbol":"AAPL"`,
			[]int64{monthTS(2024, 1), monthTS(2024, 2), monthTS(2024, 3)},
			[]string{"100", "105", "110"}))
	})
	series, err := c.MonthlySeries("AAPL", 2)
	if err != nil {
		t.Fatalf("MonthlySeries() unexpected error = %v", err)
	}
	if got := series.String(); got != "[2024-02:105 2024-03:110]" {
		t.Errorf("series = %s", got)
	}
}

func TestRangeFor(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{6, "1y"}, {12, "1y"}, {13, "2y"}, {24, "2y"},
		{36, "5y"}, {61, "10y"}, {121, "max"},
	}
	for _, tt := range tests {
		if got := rangeFor(tt.months); got != tt.want {
			t.Errorf("rangeFor(%d) = %s, want %s", tt.months, got, tt.want)
		}
	}
}

func TestPreviousCloseDay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"chartPreviousClose":148.5,"symbol":"AAPL"`, nil, nil))
	})
	v, ok := c.PreviousClose("AAPL", pfreport.PreviousDay)
	if !ok || v != 148.5 {
		t.Errorf("PreviousClose(day) = %v, %v", v, ok)
	}
}

func TestPreviousCloseMonthAndYearFromSeries(t *testing.T) {
	// 14 months ending 2024-03, value = 100 + index
	var ts []int64
	var closes []string
	for i := 0; i < 14; i++ {
		m := time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		ts = append(ts, m.Unix())
		closes = append(closes, fmt.Sprint(100+i))
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"symbol":"AAPL"`, ts, closes))
	})
	if v, ok := c.PreviousClose("AAPL", pfreport.PreviousMonth); !ok || v != 112 {
		t.Errorf("PreviousClose(month) = %v, %v, want 112", v, ok)
	}
	if v, ok := c.PreviousClose("AAPL", pfreport.PreviousYear); !ok || v != 101 {
		t.Errorf("PreviousClose(year) = %v, %v, want 101", v, ok)
	}
}

func TestPreviousCloseShortSeries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"symbol":"IPO"`,
			[]int64{monthTS(2024, 2), monthTS(2024, 3)},
			[]string{"10", "11"}))
	})
	if _, ok := c.PreviousClose("IPO", pfreport.PreviousYear); ok {
		t.Error("a 2-month series cannot have a year-ago close")
	}
	if v, ok := c.PreviousClose("IPO", pfreport.PreviousMonth); !ok || v != 10 {
		t.Errorf("PreviousClose(month) = %v, %v, want 10", v, ok)
	}
}

func TestCompanyName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`"shortName":"Apple Inc.","symbol":"AAPL"`, nil, nil))
	})
	name, ok := c.CompanyName("AAPL")
	if !ok || name != "Apple Inc." {
		t.Errorf("CompanyName() = %q, %v", name, ok)
	}
}

func TestTrailingPE(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "quoteSummary") {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"summaryDetail":{"trailingPE":{"raw":28.5,"fmt":"28.50"}}}]}}`)
	})
	v, ok := c.TrailingPE("AAPL")
	if !ok || v != 28.5 {
		t.Errorf("TrailingPE() = %v, %v", v, ok)
	}
}

func TestTrailingPEUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"summaryDetail":{}}]}}`)
	})
	if _, ok := c.TrailingPE("ETF"); ok {
		t.Error("TrailingPE() reported ok without a value")
	}
}
