package filtering

import (
	"context"
	"strings"

	"github.com/spigell/career-checker/internal/entry"
)

type duplicatesFilter struct {
	disabled bool
	reason   string
}

// NewDuplicates creates a filter that keeps the first of entries sharing a
// project name, client and period. Certificates repeat rows across page breaks.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *duplicatesFilter) IsEnabled() bool { return !f.disabled }

func (f *duplicatesFilter) Validate() error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, entries []entry.CareerEntry) ([]entry.CareerEntry, Step, error) {
	seen := make(map[string]struct{}, len(entries))
	kept, step := keep(entries, func(e entry.CareerEntry) bool {
		key := dedupKey(e)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
	return kept, step, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

func dedupKey(e entry.CareerEntry) string {
	norm := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	return strings.Join([]string{
		norm(e.ProjectName), norm(e.Client), norm(e.Task), e.StartDate, e.EndDate,
	}, "\x1f")
}
