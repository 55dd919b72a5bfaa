package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	fullDate  = regexp.MustCompile(`^(\d{4}|\d{2})\s*[.\-/년]\s*(\d{1,2})\s*[.\-/월]\s*(\d{1,2})\s*일?\.?$`)
	yearMonth = regexp.MustCompile(`^(\d{4}|\d{2})\s*[.\-/년]\s*(\d{1,2})\s*월?\.?$`)
)

// Clock returns the current time. Two-digit years are resolved against it.
type Clock func() time.Time

// DateParser reads the date notations found on certificates.
type DateParser struct {
	now Clock
}

func NewDateParser(now Clock) DateParser {
	if now == nil {
		now = time.Now
	}
	return DateParser{now: now}
}

// Parse accepts YYYY-MM-DD, YY.MM.DD, YYYY-MM and YY.MM (with ".", "-", "/"
// or 년/월/일 separators). Year-month dates resolve to the first day of the
// month. A two-digit year greater than the current two-digit year belongs to
// the previous century.
func (p DateParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if m := fullDate.FindStringSubmatch(s); m != nil {
		return p.build(s, m[1], m[2], m[3])
	}
	if m := yearMonth.FindStringSubmatch(s); m != nil {
		return p.build(s, m[1], m[2], "1")
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (p DateParser) build(raw, y, m, d string) (time.Time, error) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)

	if len(y) == 2 {
		current := p.now().Year()
		century := current / 100 * 100
		if year > current%100 {
			year += century - 100
		} else {
			year += century
		}
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month in %q", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflowing days, reject them instead
	if day < 1 || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid day in %q", raw)
	}
	return t, nil
}

// CalendarDays counts the days from start to end, both included. It is zero
// when end is before start.
func CalendarDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// FormatDate renders a date the way normalized entries carry it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
