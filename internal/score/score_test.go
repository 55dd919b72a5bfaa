package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/normalize"
)

func project(name, task string, participated int) normalize.Project {
	return normalize.Project{
		Entry:            entry.CareerEntry{PersonName: "홍길동", ProjectName: name, StartDate: "2020-01-01", EndDate: "2020-12-31"},
		ClientRaw:        "강남구청",
		Fields:           normalize.NewSet(normalize.One("하천"), ""),
		Roles:            normalize.NewSet(normalize.One(task), ""),
		ParticipatedDays: participated,
		Logic:            normalize.Logic{UseDateType: normalize.DateTypeParticipation},
	}
}

func TestMonths(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, -5: 0, 15: 0, 16: 1, 31: 1, 365: 12, 3672: 120}
	for days, want := range cases {
		assert.Equal(t, want, Months(days), days)
	}

	assert.Equal(t, "1년 0월", YearMonth(365))
	assert.Equal(t, "0년 0월", YearMonth(0))
	assert.Equal(t, "2년 6월", YearMonth(918))
}

func TestCurve(t *testing.T) {
	t.Parallel()

	exp := DefaultConfig().Experience
	cases := []struct {
		years float64
		want  float64
	}{
		{0, 0}, {0.99, 0}, {1, 2.1}, {2.5, 4.2}, {3, 6.3}, {4, 8.4}, {5, 10.5}, {6, 12}, {30, 12},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, exp.Eval(tc.years), tc.years)
	}

	capped := Curve{Bound: 5, Steps: []Step{{1, 3}, {2, 9}}}
	assert.Equal(t, 5.0, capped.Eval(2))
	assert.Equal(t, 3.0, capped.Eval(1.5))
}

func TestCompute(t *testing.T) {
	t.Parallel()

	relevant := []normalize.Project{
		project("OO하천정비사업", "공사감독", 700),
		project("△△하천 개수", "설계감독", 400),
	}
	other := []normalize.Project{
		project("국도 확장", "공사감독", 500),
	}

	s := Compute(relevant, other, DefaultConfig())

	assert.Equal(t, "홍길동", s.EngineerName)
	assert.Equal(t, "하천", s.Field)

	assert.Equal(t, 1100, s.Relevant.RawDays)
	assert.Equal(t, 1100, s.Relevant.WeightedDays)
	assert.Equal(t, "1100일 × 100% = 1100일", s.Relevant.Calculation)

	assert.Equal(t, 500, s.Other.RawDays)
	assert.Equal(t, 300, s.Other.WeightedDays)
	assert.Equal(t, "500일 × 60% = 300일", s.Other.Calculation)
	require.Len(t, s.Other.Lines, 1)
	assert.Equal(t, "2020-01-01 ~ 2020-12-31", s.Other.Lines[0].Period)

	assert.Equal(t, 1400, s.TotalDays)
	assert.Equal(t, 46, s.TotalMonths)
	assert.Equal(t, "3년 10월", s.TotalDisplay)
	assert.Equal(t, 6.3, s.ExperienceScore)

	assert.Equal(t, []string{"공사감독", "설계감독"}, s.JobField.Roles)
	assert.Equal(t, 1600, s.JobField.Days)
	require.Len(t, s.JobField.Rubrics, 2)
	assert.Equal(t, 3.0, s.JobField.Rubrics[0].Score)
	assert.Equal(t, 2.0, s.JobField.Rubrics[1].Score)
	assert.Equal(t, 5.0, s.JobField.Score)
}

func TestComputeUsesRecognizedDaysWhenConfigured(t *testing.T) {
	t.Parallel()

	p := project("a", "감독", 900)
	p.RecognizedDays = 100
	p.Logic.UseDateType = normalize.DateTypeRecognition

	s := Compute([]normalize.Project{p}, nil, DefaultConfig())
	assert.Equal(t, 100, s.Relevant.RawDays)
}

func TestJobFieldBound(t *testing.T) {
	t.Parallel()

	var ps []normalize.Project
	for _, role := range []string{"a", "b", "c", "d", "e"} {
		ps = append(ps, project(role, role, 800))
	}

	s := Compute(ps, nil, DefaultConfig())
	assert.Equal(t, 6.0, s.JobField.Rubrics[0].Score)
	assert.Equal(t, 4.0, s.JobField.Rubrics[1].Score)
	assert.Equal(t, 8.0, s.JobField.Score)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	s := Compute(nil, nil, DefaultConfig())
	assert.Equal(t, 0, s.TotalDays)
	assert.Equal(t, "0년 0월", s.TotalDisplay)
	assert.Equal(t, 0.0, s.ExperienceScore)
	assert.Equal(t, 0.0, s.JobField.Score)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.JobYears.Steps = nil
	require.Error(t, cfg.Validate())
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	partial := Config{
		Experience: Curve{Bound: 10, Steps: []Step{{1, 5}}},
		JobBound:   6,
	}

	cfg := partial.WithDefaults()
	assert.Equal(t, DefaultOtherWeight, cfg.OtherWeight)
	assert.Equal(t, partial.Experience, cfg.Experience)
	assert.Equal(t, DefaultConfig().RoleScope, cfg.RoleScope)
	assert.Equal(t, DefaultConfig().JobYears, cfg.JobYears)
	assert.Equal(t, 6.0, cfg.JobBound)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultConfig(), Config{}.WithDefaults())
}
