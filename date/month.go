package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// Month represents a calendar month, the finest granularity of the
// historical datasets in this module.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
// Out-of-range months roll over, so NewMonth(2024, 13) is January 2025.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{t.Year(), t.Month()}
}

// MonthOf returns the Month containing the given instant.
func MonthOf(t time.Time) Month { return NewMonth(t.Year(), t.Month()) }

// ThisMonth returns the current month.
func ThisMonth() Month { return MonthOf(time.Now()) }

// time returns a canonical representation of that month (first day at midnight UTC).
func (m Month) time() time.Time { return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC) }

// Before reports whether m is strictly before x.
func (m Month) Before(x Month) bool { return m.time().Before(x.time()) }

// After reports whether m is strictly after x.
func (m Month) After(x Month) bool { return m.time().After(x.time()) }

// Add returns a new Month with the given number of months added.
func (m Month) Add(i int) Month { return NewMonth(m.y, m.m+time.Month(i)) }

// Year returns the month's year.
func (m Month) Year() int { return m.y }

// String formats the month in its standard "YYYY-MM" form.
func (m Month) String() string { return m.time().Format(MonthFormat) }

// ParseMonth parses a Month from its standard "YYYY-MM" form.
func ParseMonth(str string) (Month, error) {
	t, err := time.Parse(MonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return MonthOf(t), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// UnmarshalJSON implements the json specific way to unmarshal a month from a json string.
func (j *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	m, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*j = m
	return nil
}

func (j Month) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Month pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)
