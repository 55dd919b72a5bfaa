package rules

import "sort"

// Group collects matched rule ids that share a category and group.
type Group struct {
	Category string   `json:"category"`
	Name     string   `json:"group"`
	IDs      []string `json:"ids"`
}

// Matches is the result of evaluating a catalogue against one record.
type Matches struct {
	IDs    []string `json:"ids"`
	Groups []Group  `json:"groups"`
}

// Has reports whether the rule id matched.
func (m Matches) Has(id string) bool {
	i := sort.SearchStrings(m.IDs, id)
	return i < len(m.IDs) && m.IDs[i] == id
}

// Len returns the number of matched rules.
func (m Matches) Len() int { return len(m.IDs) }

// Evaluate runs every descriptor against rec and returns matched ids sorted
// lexicographically, so the result does not depend on descriptor order.
func Evaluate(rec Record, descriptors []Descriptor) Matches {
	var matched []Descriptor
	for _, d := range descriptors {
		if d.Predicate == nil {
			continue
		}
		if d.Predicate.Eval(rec) {
			matched = append(matched, d)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	ids := make([]string, 0, len(matched))
	for _, d := range matched {
		ids = append(ids, d.ID)
	}

	return Matches{IDs: ids, Groups: group(matched)}
}

// Evaluate runs the whole catalogue against rec.
func (c *Catalogue) Evaluate(rec Record) Matches {
	return Evaluate(rec, c.descriptors)
}

// Union merges matched ids of several evaluations, deduplicated and sorted.
func Union(all ...Matches) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range all {
		for _, id := range m.IDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func group(sorted []Descriptor) []Group {
	byKey := map[[2]string]*Group{}
	var keys [][2]string
	for _, d := range sorted {
		key := [2]string{d.Category, d.Group}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Category: d.Category, Name: d.Group}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.IDs = append(g.IDs, d.ID)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
