package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/logger"
)

// Filter represents a single filtering step applied to parsed entries.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, entries []entry.CareerEntry) ([]entry.CareerEntry, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name     string   `json:"name"`
	Initial  int      `json:"initial"`
	Dropped  int      `json:"dropped"`
	Left     int      `json:"left"`
	Excluded []string `json:"excluded,omitempty"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, log *zap.Logger) *Filtering {
	return &Filtering{
		steps:  steps,
		logger: logger.WithFields(log, zap.String(logger.FieldStage, "filter")),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering) DisableByName(name, reason string) {
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters executes the enabled filters sequentially and returns the entries left
// together with one Step per executed filter.
func (f *Filtering) RunFilters(ctx context.Context, entries []entry.CareerEntry) ([]entry.CareerEntry, []Step, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	var report []Step
	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, entries)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		info.Name = step.Name()

		f.logger.Info("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		if len(info.Excluded) > 0 {
			f.logger.Debug("excluded entries", zap.String("name", info.Name), zap.Strings("projects", info.Excluded))
		}

		entries = next
		report = append(report, info)
	}

	return entries, report, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep splits entries by drop and returns the kept entries plus the project
// names of the dropped ones.
func keep(entries []entry.CareerEntry, drop func(entry.CareerEntry) bool) ([]entry.CareerEntry, Step) {
	kept := make([]entry.CareerEntry, 0, len(entries))
	var excluded []string
	for _, e := range entries {
		if drop(e) {
			excluded = append(excluded, label(e))
			continue
		}
		kept = append(kept, e)
	}
	return kept, Step{Initial: len(entries), Dropped: len(excluded), Left: len(kept), Excluded: excluded}
}

func label(e entry.CareerEntry) string {
	if e.ProjectName != "" {
		return e.ProjectName
	}
	if e.Client != "" {
		return e.Client
	}
	return fmt.Sprintf("page %d #%d", e.Provenance.Page+1, e.Provenance.Sequence)
}
