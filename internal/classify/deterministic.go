package classify

import (
	"fmt"
	"strings"

	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/rules"
)

// Check is the keyword-based relevance test. Every non-empty criteria category must
// match (an empty category is satisfied), with these blank-value exceptions:
//   - no roles at all: relevant only when AllowBlankRole is set;
//   - no work-type evidence at all: relevant only when AllowBlankField is set;
//   - no job field: passes when no job field is required or AllowBlankField is set.
func Check(c Criteria, p normalize.Project) (bool, string) {
	var matched []string

	work := workEvidence(p)
	switch {
	case len(work) == 0:
		if !c.AllowBlankField {
			return false, "공종 정보 없음"
		}
	case len(c.WorkTypes) > 0:
		kw, ok := firstMatch(work, c.WorkTypes)
		if !ok {
			return false, "공종 불일치"
		}
		matched = append(matched, "공종: "+kw)
	}

	roles := p.Roles.Members()
	switch {
	case len(roles) == 0:
		if !c.AllowBlankRole {
			return false, "담당업무 없음"
		}
	case len(c.Roles) > 0:
		kw, ok := firstMatch(roles, c.Roles)
		if !ok {
			return false, "담당업무 불일치"
		}
		matched = append(matched, "담당업무: "+kw)
	}

	job := jobEvidence(p)
	switch {
	case len(job) == 0:
		if len(c.JobFields) > 0 && !c.AllowBlankField {
			return false, "직무분야 없음"
		}
	case len(c.JobFields) > 0:
		kw, ok := firstMatch(job, c.JobFields)
		if !ok {
			return false, "직무분야 불일치"
		}
		matched = append(matched, "직무분야: "+kw)
	}

	if len(matched) == 0 {
		return true, "조건 없음"
	}
	return true, strings.Join(matched, " / ")
}

func workEvidence(p normalize.Project) []string {
	return nonBlank(append(p.Fields.Members(), p.Entry.ProjectType, p.Entry.ProjectName)...)
}

// jobEvidence uses the parsed job field and specialty. A missing one is
// derived only from the project's own work types, never from a default.
func jobEvidence(p normalize.Project) []string {
	workTypes := append([]string{p.Fields.Primary()}, p.Fields.Members()...)

	jobField := strings.TrimSpace(p.Entry.JobField)
	if jobField == "" {
		jobField = derive(workTypes, normalize.DutyFieldFor)
	}
	specialty := strings.TrimSpace(p.Entry.Specialty)
	if specialty == "" {
		specialty = derive(workTypes, normalize.SpecialtyFor)
	}
	return nonBlank(jobField, specialty)
}

func derive(workTypes []string, lookup func(string) (string, bool)) string {
	for _, w := range workTypes {
		if v, ok := lookup(w); ok {
			return v
		}
	}
	return ""
}

func firstMatch(values, keywords []string) (string, bool) {
	for _, kw := range keywords {
		for _, v := range values {
			if rules.ContainsAny(v, []string{kw}) {
				return kw, true
			}
		}
	}
	return "", false
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func deterministicResult(c Criteria, p normalize.Project, batch int) Result {
	ok, reason := Check(c, p)
	return Result{
		Project:  p,
		Relevant: ok,
		Reason:   reason,
		Evidence: Evidence{Strategy: StrategyDeterministic, Batch: batch},
	}
}

func (e Evidence) String() string {
	s := fmt.Sprintf("%s#%d", e.Strategy, e.Batch)
	if e.Fallback {
		s += " (fallback)"
	}
	return s
}
