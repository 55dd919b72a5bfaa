package classify

import (
	"sort"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/rules"
)

// Criteria is the filter an entry of the second document must pass.
type Criteria = ai.Criteria

// DeriveCriteria turns matched rule ids into criteria using each rule's criterion tag.
// Ids missing from the catalogue are returned separately.
func DeriveCriteria(catalogue *rules.Catalogue, ids []string) (Criteria, []string) {
	var c Criteria
	work, role, job := keywordSet{}, keywordSet{}, keywordSet{}

	for _, id := range ids {
		d, ok := catalogue.Get(id)
		if !ok {
			continue
		}
		switch d.Criterion {
		case rules.CriterionWorkType:
			work.add(d.Keywords()...)
		case rules.CriterionRole:
			role.add(d.Keywords()...)
		case rules.CriterionJobField:
			job.add(d.Keywords()...)
		case rules.CriterionAllowBlankRole:
			c.AllowBlankRole = true
		case rules.CriterionAllowBlankField:
			c.AllowBlankField = true
		}
	}

	c.WorkTypes = work.sorted()
	c.Roles = role.sorted()
	c.JobFields = job.sorted()
	return c, catalogue.Unknown(ids)
}

type keywordSet map[string]struct{}

func (s keywordSet) add(kws ...string) {
	for _, kw := range kws {
		if kw != "" {
			s[kw] = struct{}{}
		}
	}
}

func (s keywordSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for kw := range s {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
