package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/entry"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
}

func TestDateParserFormats(t *testing.T) {
	t.Parallel()

	p := NewDateParser(fixedClock)
	tests := []struct {
		in   string
		want string
	}{
		{"2023-01-15", "2023-01-15"},
		{"1981.02.11", "1981-02-11"},
		{"2005/03/31", "2005-03-31"},
		{"95.01.23", "1995-01-23"},
		{"05.03.31", "2005-03-31"},
		{"26.10.01", "2026-10-01"},
		{"27.01.01", "1927-01-01"},
		{"2013-11", "2013-11-01"},
		{"95.01", "1995-01-01"},
		{"2005년 3월 31일", "2005-03-31"},
	}

	for _, tt := range tests {
		got, err := p.Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, FormatDate(got), tt.in)
	}

	for _, bad := range []string{"", "yesterday", "2021-12-84", "2021-13-01"} {
		_, err := p.Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestCalendarDays(t *testing.T) {
	t.Parallel()

	p := NewDateParser(fixedClock)
	start, _ := p.Parse("1981-02-11")
	end, _ := p.Parse("1981-05-31")
	assert.Equal(t, 110, CalendarDays(start, end))
	assert.Equal(t, 1, CalendarDays(start, start))
	assert.Equal(t, 0, CalendarDays(end, start))
}

func TestDaysRoundTrip(t *testing.T) {
	t.Parallel()

	p := NewDateParser(fixedClock)
	pairs := [][2]string{
		{"1981-02-11", "1981-05-31"},
		{"1997-08-15", "1997-08-16"},
		{"2000-02-01", "2000-03-01"},
		{"1999-12-31", "2024-02-29"},
	}
	for _, pair := range pairs {
		start, err := p.Parse(pair[0])
		require.NoError(t, err)
		end, err := p.Parse(pair[1])
		require.NoError(t, err)

		n := CalendarDays(start, end)
		parsed, err := ParseDays(FormatDays(n))
		require.NoError(t, err)
		assert.Equal(t, n, parsed)
	}

	for in, want := range map[string]int{"(110일)": 110, "936일": 936, " 12 ": 12, "(1,234일)": 1234} {
		got, err := ParseDays(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDays("약 3개월")
	assert.Error(t, err)
}

func TestReconcileScenarios(t *testing.T) {
	t.Parallel()

	r := New(NewDateParser(fixedClock), zap.NewNop())

	a := r.Reconcile(entry.CareerEntry{ProjectName: "A", StartDate: "1981.02.11", EndDate: "1981.05.31", RecognizedDays: "(110일)"})
	assert.False(t, a.Corrected)
	assert.Equal(t, "(110일)", a.Entry.RecognizedDays)
	assert.False(t, a.Entry.HasFlag(entry.FlagAutoCorrected))
	assert.Equal(t, "1981-02-11", a.Entry.StartDate)

	b := r.Reconcile(entry.CareerEntry{ProjectName: "B", StartDate: "1997-08-15", EndDate: "1997-08-16", RecognizedDays: "(936일)"})
	assert.True(t, b.Corrected)
	assert.Equal(t, "(2일)", b.Entry.RecognizedDays)
	assert.True(t, b.Entry.HasFlag(entry.FlagAutoCorrected))
	assert.Equal(t, []string{"(936일)"}, b.StatedBefore)
}

func TestReconcileTolerance(t *testing.T) {
	t.Parallel()

	r := New(NewDateParser(fixedClock), nil)
	// calendar count is 110
	tests := []struct {
		stated  string
		want    string
		flagged bool
	}{
		{"(140일)", "(140일)", false},
		{"(80일)", "(80일)", false},
		{"(141일)", "(110일)", true},
		{"(79일)", "(110일)", true},
	}

	for _, tt := range tests {
		out := r.Reconcile(entry.CareerEntry{ProjectName: "x", StartDate: "1981-02-11", EndDate: "1981-05-31", RecognizedDays: tt.stated})
		assert.Equal(t, tt.want, out.Entry.RecognizedDays, tt.stated)
		assert.Equal(t, tt.flagged, out.Entry.HasFlag(entry.FlagAutoCorrected), tt.stated)
	}
}

func TestReconcileDegradesGracefully(t *testing.T) {
	t.Parallel()

	r := New(NewDateParser(fixedClock), nil)

	missing := r.Reconcile(entry.CareerEntry{ProjectName: "x", StartDate: "2020.01.01", EndDate: "2020.01.31"})
	assert.Equal(t, "(31일)", missing.Entry.RecognizedDays)
	assert.Equal(t, "(31일)", missing.Entry.ParticipatedDays)
	assert.True(t, missing.Entry.HasFlag(entry.FlagComputed))

	ambiguous := r.Reconcile(entry.CareerEntry{ProjectName: "x", StartDate: "언젠가", EndDate: "2020.01.31", RecognizedDays: "(10일)"})
	assert.True(t, ambiguous.Ambiguous)
	assert.Empty(t, ambiguous.Entry.StartDate)
	assert.Equal(t, "2020-01-31", ambiguous.Entry.EndDate)
	assert.Equal(t, "(10일)", ambiguous.Entry.RecognizedDays)
	assert.True(t, ambiguous.Entry.HasFlag(entry.FlagDateAmbiguous))

	reversed := r.Reconcile(entry.CareerEntry{ProjectName: "x", StartDate: "2020.02.01", EndDate: "2020.01.01", RecognizedDays: "(10일)"})
	assert.Zero(t, reversed.CalendarDays)
	assert.Equal(t, "(10일)", reversed.Entry.RecognizedDays)
}
