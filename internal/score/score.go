package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/spigell/career-checker/internal/normalize"
)

const (
	// DaysPerMonth converts day totals to months.
	DaysPerMonth = 30.6
	// DefaultOtherWeight is applied to experience outside the relevant field.
	DefaultOtherWeight = 0.6
)

type Config struct {
	OtherWeight float64 `mapstructure:"other-weight" validate:"gte=0,lte=1"`
	Experience  Curve   `mapstructure:"experience"`
	RoleScope   Curve   `mapstructure:"role-scope"`
	JobYears    Curve   `mapstructure:"job-years"`
	JobBound    float64 `mapstructure:"job-bound" validate:"gte=0"`
}

// DefaultConfig returns the standard evaluation curves.
func DefaultConfig() Config {
	return Config{
		OtherWeight: DefaultOtherWeight,
		Experience: Curve{Bound: 12, Steps: []Step{
			{6, 12}, {5, 10.5}, {4, 8.4}, {3, 6.3}, {2, 4.2}, {1, 2.1},
		}},
		RoleScope: Curve{Bound: 6, Steps: []Step{{5, 6}, {1, 3}}},
		JobYears:  Curve{Bound: 4, Steps: []Step{{10, 4}, {5, 3}, {1, 2}}},
		JobBound:  8,
	}
}

// WithDefaults fills unset fields from DefaultConfig. A zero other weight
// counts as unset.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.OtherWeight == 0 {
		c.OtherWeight = d.OtherWeight
	}
	if len(c.Experience.Steps) == 0 {
		c.Experience = d.Experience
	}
	if len(c.RoleScope.Steps) == 0 {
		c.RoleScope = d.RoleScope
	}
	if len(c.JobYears.Steps) == 0 {
		c.JobYears = d.JobYears
	}
	if c.JobBound == 0 {
		c.JobBound = d.JobBound
	}
	return c
}

// Validate checks every curve.
func (c Config) Validate() error {
	for name, curve := range map[string]Curve{"experience": c.Experience, "role-scope": c.RoleScope, "job-years": c.JobYears} {
		if err := curve.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Line is one project row in a bucket.
type Line struct {
	ProjectName string `json:"project_name"`
	Client      string `json:"client"`
	Period      string `json:"period"`
	Days        int    `json:"days"`
	Role        string `json:"role"`
}

type Bucket struct {
	Lines        []Line  `json:"lines"`
	RawDays      int     `json:"raw_days"`
	Weight       float64 `json:"weight"`
	WeightedDays int     `json:"weighted_days"`
	Months       int     `json:"months"`
	Display      string  `json:"display"`
	Calculation  string  `json:"calculation"`
}

// Rubric is one of the job-field evaluation scales.
type Rubric struct {
	Name  string  `json:"name"`
	Basis string  `json:"basis"`
	Score float64 `json:"score"`
	Bound float64 `json:"bound"`
}

type JobField struct {
	Roles   []string `json:"roles"`
	Days    int      `json:"days"`
	Months  int      `json:"months"`
	Display string   `json:"display"`
	Rubrics []Rubric `json:"rubrics"`
	Score   float64  `json:"score"`
}

type Summary struct {
	EngineerName    string   `json:"engineer_name"`
	Field           string   `json:"field"`
	Relevant        Bucket   `json:"relevant"`
	Other           Bucket   `json:"other"`
	TotalDays       int      `json:"total_days"`
	TotalMonths     int      `json:"total_months"`
	TotalDisplay    string   `json:"total_display"`
	ExperienceYears float64  `json:"experience_years"`
	ExperienceScore float64  `json:"experience_score"`
	ExperienceBound float64  `json:"experience_bound"`
	JobField        JobField `json:"job_field"`
}

// Months converts days with round(days / 30.6). Non-positive input gives 0.
func Months(days int) int {
	if days <= 0 {
		return 0
	}
	return int(math.Round(float64(days) / DaysPerMonth))
}

// YearMonth renders a day total as "X년 Y월".
func YearMonth(days int) string {
	m := Months(days)
	return fmt.Sprintf("%d년 %d월", m/12, m%12)
}

// Compute aggregates the classified projects. It is pure and deterministic.
func Compute(relevant, other []normalize.Project, cfg Config) Summary {
	var s Summary
	s.EngineerName, s.Field = identity(relevant, other)

	s.Relevant = bucket(relevant, 1)
	s.Other = bucket(other, cfg.OtherWeight)

	s.TotalDays = s.Relevant.WeightedDays + s.Other.WeightedDays
	s.TotalMonths = Months(s.TotalDays)
	s.TotalDisplay = YearMonth(s.TotalDays)
	s.ExperienceYears = float64(s.TotalMonths) / 12
	s.ExperienceScore = cfg.Experience.Eval(s.ExperienceYears)
	s.ExperienceBound = cfg.Experience.Bound

	s.JobField = jobField(append(append([]normalize.Project{}, relevant...), other...), cfg)
	return s
}

func bucket(projects []normalize.Project, weight float64) Bucket {
	b := Bucket{Weight: weight}
	for _, p := range projects {
		days := p.Days()
		b.RawDays += days
		b.Lines = append(b.Lines, Line{
			ProjectName: p.Entry.ProjectName,
			Client:      p.ClientRaw,
			Period:      fmt.Sprintf("%s ~ %s", p.Entry.StartDate, p.Entry.EndDate),
			Days:        days,
			Role:        p.Roles.String(),
		})
	}
	b.WeightedDays = int(math.Round(float64(b.RawDays) * weight))
	b.Months = Months(b.WeightedDays)
	b.Display = YearMonth(b.WeightedDays)
	b.Calculation = fmt.Sprintf("%d일 × %.0f%% = %d일", b.RawDays, weight*100, b.WeightedDays)
	return b
}

func jobField(projects []normalize.Project, cfg Config) JobField {
	roles := map[string]struct{}{}
	var jf JobField
	for _, p := range projects {
		jf.Days += p.Days()
		for _, r := range p.Roles.Members() {
			roles[r] = struct{}{}
		}
	}
	for r := range roles {
		jf.Roles = append(jf.Roles, r)
	}
	sort.Strings(jf.Roles)

	jf.Months = Months(jf.Days)
	jf.Display = YearMonth(jf.Days)

	scope := cfg.RoleScope.Eval(float64(len(jf.Roles)))
	years := cfg.JobYears.Eval(float64(jf.Months) / 12)
	jf.Rubrics = []Rubric{
		{Name: "직무분야 범위", Basis: fmt.Sprintf("담당업무 %d종", len(jf.Roles)), Score: scope, Bound: cfg.RoleScope.Bound},
		{Name: "직무분야 경력", Basis: jf.Display, Score: years, Bound: cfg.JobYears.Bound},
	}
	jf.Score = capAt(scope+years, cfg.JobBound)
	return jf
}

func identity(groups ...[]normalize.Project) (string, string) {
	var name, field string
	for _, g := range groups {
		for _, p := range g {
			if name == "" {
				name = p.Entry.PersonName
			}
			if field == "" {
				field = p.Fields.Primary()
			}
		}
	}
	return name, field
}
