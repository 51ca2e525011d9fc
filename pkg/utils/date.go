package utils

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used on the wire and in the database.
const DateFormat = "2006-01-02"

// Date is a calendar date with day granularity and no time-of-day or zone.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date, so NewDate(2024, 1, 32) is February 1st.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Date{y, m, d}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return NewDate(d.y, d.m, d.d+n) }

func (d Date) String() string { return d.time().Format(DateFormat) }

// SignedDayDifference returns target - reference in whole days. The result is
// negative when target is in the past relative to reference.
//
// Classification and period filtering both go through this function so they
// agree on boundary days.
func SignedDayDifference(reference, target Date) int {
	return int(target.epochDay() - reference.epochDay())
}

const secondsPerDay = 24 * 60 * 60

// epochDay counts days since 1970-01-01. Midnight UTC is an exact multiple of
// a day in Unix seconds, so the division never rounds.
func (d Date) epochDay() int64 { return d.time().Unix() / secondsPerDay }

// ParseDate parses a calendar date. Database drivers hand dates back either as
// "2006-01-02" or as a full RFC 3339 timestamp at midnight, so only the first ten
// characters are considered.
func ParseDate(s string) (Date, error) {
	if len(s) > len(DateFormat) {
		s = s[:len(DateFormat)]
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, DateFormat, err)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
