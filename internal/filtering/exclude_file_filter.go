package filtering

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/career-checker/internal/entry"
)

type excludeFileFilter struct {
	path     string
	projects map[string]struct{}
	disabled bool
	reason   string
}

// NewExcludeFile creates a filter that removes entries whose project name is
// listed in the file at path, one name per line. Lines starting with # are ignored.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{
		path: strings.TrimSpace(path),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate() error {
	f.projects = nil
	if f.path == "" {
		return nil
	}

	projects, err := ReadExcludeFile(f.path)
	if err != nil {
		return fmt.Errorf("getting excluded projects from file: %w", err)
	}
	f.projects = projects
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, entries []entry.CareerEntry) ([]entry.CareerEntry, Step, error) {
	if len(f.projects) == 0 {
		return entries, Step{Initial: len(entries), Left: len(entries)}, nil
	}

	kept, step := keep(entries, func(e entry.CareerEntry) bool {
		_, ok := f.projects[normalizeName(e.ProjectName)]
		return ok
	})
	return kept, step, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
		details["projects"] = fmt.Sprint(len(f.projects))
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// ReadExcludeFile loads the normalized project names of an exclusion file.
// A missing file yields an empty set.
func ReadExcludeFile(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}

	projects := map[string]struct{}{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		projects[normalizeName(line)] = struct{}{}
	}
	return projects, nil
}

// AppendExcludeFile adds project names to the exclusion file, skipping names already present.
func AppendExcludeFile(path string, names []string) (int, error) {
	existing, err := ReadExcludeFile(path)
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	added := 0
	for _, name := range names {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		b.WriteString(strings.TrimSpace(name))
		b.WriteByte('\n')
		added++
	}
	if added == 0 {
		return 0, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if _, err := file.WriteString(b.String()); err != nil {
		return 0, err
	}
	return added, nil
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
