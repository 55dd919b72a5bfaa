package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/career-checker/internal/entry"
)

func entries() []entry.CareerEntry {
	return []entry.CareerEntry{
		{ProjectName: "OO하천정비사업", Client: "강남구청", StartDate: "2020-01-01", EndDate: "2020-06-30", Task: "공사감독"},
		{ProjectName: "OO하천정비사업", Client: "강남구청 ", StartDate: "2020-01-01", EndDate: "2020-06-30", Task: "공사감독", Provenance: entry.Provenance{Page: 1}},
		{ProjectName: "국도  확장", Client: "국토교통부", StartDate: "2021-01-01", EndDate: "2021-03-31"},
		{StartDate: "2022-01-01"},
	}
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "exclude.txt")
	require.NoError(t, os.WriteFile(path, []byte("# skipped\n국도 확장\n"), 0o644))

	core, logs := observer.New(zap.InfoLevel)
	f := New([]Filter{NewRequiredFields(), NewDuplicates(), NewExcludeFile(path)}, zap.New(core))

	left, steps, err := f.RunFilters(context.Background(), entries())
	require.NoError(t, err)

	require.Len(t, left, 1)
	assert.Equal(t, "OO하천정비사업", left[0].ProjectName)
	assert.Equal(t, 0, left[0].Provenance.Page, "first occurrence kept")

	require.Len(t, steps, 3)
	assert.Equal(t, Step{Name: "required_fields", Initial: 4, Dropped: 1, Left: 3, Excluded: []string{"page 1 #0"}}, steps[0])
	assert.Equal(t, "duplicates", steps[1].Name)
	assert.Equal(t, 1, steps[1].Dropped)
	assert.Equal(t, []string{"국도  확장"}, steps[2].Excluded)

	assert.Equal(t, 3, logs.FilterMessage("filter step").Len())
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	t.Parallel()

	f := New([]Filter{NewDuplicates()}, nil)
	f.DisableByName("duplicates", "requested")

	left, steps, err := f.RunFilters(context.Background(), entries())
	require.NoError(t, err)
	assert.Len(t, left, 4)
	assert.Empty(t, steps)

	status := f.Describe()
	require.Len(t, status, 1)
	assert.False(t, status[0].Enabled)
	assert.Equal(t, "requested", status[0].Reason)
}

func TestExcludeFileMissingAndEmptyPath(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.txt")} {
		f := New([]Filter{NewExcludeFile(path)}, nil)
		left, steps, err := f.RunFilters(context.Background(), entries())
		require.NoError(t, err)
		assert.Len(t, left, 4)
		assert.Equal(t, 0, steps[0].Dropped)
	}
}

func TestAppendExcludeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.txt")

	added, err := AppendExcludeFile(path, []string{"하천 정비", " 하천  정비 ", "", "국도"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = AppendExcludeFile(path, []string{"국도", "항만"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	got, err := ReadExcludeFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Contains(t, got, "하천 정비")
}
