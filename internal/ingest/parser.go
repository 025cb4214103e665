package ingest

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var errBadTime = errors.New("unrecognized date")

// ParseTime reads a create_time cell. Excel stores dates as serial day
// numbers; text cells are tried against a few common layouts. The zone of
// the result is loc, the wall clock is kept as written.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadTime
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return withZone(t, loc), nil
	}

	for _, layout := range []string{
		time.RFC3339,
		time.DateTime,
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		time.DateOnly,
		"02.01.2006 15:04:05",
		"02.01.2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.RFC3339 {
				return t, nil
			}
			return withZone(t, loc), nil
		}
	}
	return time.Time{}, errBadTime
}

// withZone attaches loc to the wall clock of t without converting it.
func withZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
