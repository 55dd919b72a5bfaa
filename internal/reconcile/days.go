package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dayCount = regexp.MustCompile(`^\(?\s*([\d,]+)\s*일?\s*\)?$`)

// FormatDays renders a day count as "(N일)".
func FormatDays(n int) string {
	return fmt.Sprintf("(%d일)", n)
}

// ParseDays reads "(N일)", "N일" or "N", with optional thousands separators.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := dayCount.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unrecognized day count %q", s)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, fmt.Errorf("unrecognized day count %q: %w", s, err)
	}
	return n, nil
}
