package filtering

import (
	"context"

	"github.com/spigell/career-checker/internal/entry"
)

type requiredFieldsFilter struct{}

// NewRequiredFields creates a filter that removes entries without a project name, client or task.
// It cannot be disabled.
func NewRequiredFields() Filter {
	return &requiredFieldsFilter{}
}

func (f *requiredFieldsFilter) Name() string { return "required_fields" }

func (f *requiredFieldsFilter) Disable(string) {}

func (f *requiredFieldsFilter) IsEnabled() bool { return true }

func (f *requiredFieldsFilter) Validate() error { return nil }

func (f *requiredFieldsFilter) Apply(_ context.Context, entries []entry.CareerEntry) ([]entry.CareerEntry, Step, error) {
	kept, step := keep(entries, func(e entry.CareerEntry) bool { return !e.Valid() })
	return kept, step, nil
}
