package timemap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

var months = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"MAI": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"JLY": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"OKT": time.October,
	"NOV": time.November,
	"DEC": time.December,
	"DES": time.December,
}

// Month maps a month abbreviation, including the alternate spellings OKT,
// MAI, JLY and DES, to its month.
func Month(name string) (time.Month, bool) {
	m, ok := months[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// MkDate returns midnight UTC of the given day.
func MkDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Forward moves t by seconds, which may be negative.
func Forward(t time.Time, seconds int64) time.Time {
	return t.Add(time.Duration(seconds) * time.Second)
}

// ParseDate parses "DAY MON YEAR [HH:MM[:SS[.sss]]]", e.g. "1 OKT 2000" or
// "3 JAN 1982 14:56:45.123".
func ParseDate(s string) (time.Time, error) {
	f := strings.Fields(s)
	if len(f) != 3 && len(f) != 4 {
		return time.Time{}, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid date %q", s)
	}
	day, err := strconv.Atoi(f[0])
	if err != nil {
		return time.Time{}, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid day in date %q", s)
	}
	year, err := strconv.Atoi(f[2])
	if err != nil {
		return time.Time{}, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid year in date %q", s)
	}
	clock := "00:00:00"
	if len(f) == 4 {
		clock = f[3]
	}
	return makeTime(day, f[1], year, clock)
}

func makeTime(day int, month string, year int, clock string) (time.Time, error) {
	m, ok := Month(month)
	if !ok {
		return time.Time{}, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid month %q", month)
	}
	h, minute, sec, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	t := MkDate(year, m, day)
	if t.Day() != day || t.Month() != m {
		return time.Time{}, diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"invalid date %d %s %d", day, month, year)
	}
	ns := int64(math.Round(sec * 1e9))
	return t.Add(time.Duration(h)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(ns)), nil
}

func parseClock(clock string) (h, m int, sec float64, err error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid time of day %q", clock)
	}
	if h, err = strconv.Atoi(parts[0]); err != nil || h < 0 || h > 23 {
		return 0, 0, 0, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid hour in %q", clock)
	}
	if m, err = strconv.Atoi(parts[1]); err != nil || m < 0 || m > 59 {
		return 0, 0, 0, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid minute in %q", clock)
	}
	if len(parts) == 3 {
		if sec, err = strconv.ParseFloat(parts[2], 64); err != nil || sec < 0 || sec >= 60 {
			return 0, 0, 0, diag.Format(diag.Semantic, diag.CodeInvalidValue, "invalid second in %q", clock)
		}
	}
	return h, m, sec, nil
}

// DateFromRecord reads a DATES or START record.
func DateFromRecord(r *deck.Record) (time.Time, error) {
	get := func(name string) (*deck.Item, error) {
		it, err := r.Item(name)
		if err != nil {
			return nil, err
		}
		if it.Size() == 0 {
			return nil, diag.Format(diag.Schema, diag.CodeMissingItem, "date item %s is missing", name)
		}
		return it, nil
	}
	dayItem, err := get("DAY")
	if err != nil {
		return time.Time{}, err
	}
	monthItem, err := get("MONTH")
	if err != nil {
		return time.Time{}, err
	}
	yearItem, err := get("YEAR")
	if err != nil {
		return time.Time{}, err
	}
	day, err := dayItem.Int(0)
	if err != nil {
		return time.Time{}, err
	}
	month, err := monthItem.String(0)
	if err != nil {
		return time.Time{}, err
	}
	year, err := yearItem.Int(0)
	if err != nil {
		return time.Time{}, err
	}
	clock := "00:00:00"
	if r.Has("TIME") {
		if it, _ := r.Item("TIME"); it.Size() > 0 {
			if clock, err = it.String(0); err != nil {
				return time.Time{}, err
			}
		}
	}
	t, err := makeTime(day, month, year, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("date record: %w", err)
	}
	return t, nil
}
