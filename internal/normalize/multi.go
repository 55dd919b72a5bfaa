package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[,/·;\n]+`)

// Multi is a value that arrives either as one string or as a list of strings.
type Multi struct {
	scalar string
	list   []string
	isList bool
}

// One wraps a single string.
func One(s string) Multi { return Multi{scalar: s} }

// Many wraps a list.
func Many(items ...string) Multi {
	cp := make([]string, len(items))
	copy(cp, items)
	return Multi{list: cp, isList: true}
}

// IsList reports whether the value arrived as a list.
func (m Multi) IsList() bool { return m.isList }

// Items returns the trimmed, non-empty items. A scalar is split on common separators.
func (m Multi) Items() []string {
	var raw []string
	if m.isList {
		raw = m.list
	} else {
		raw = separators.Split(m.scalar, -1)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// UnmarshalJSON accepts a string, a list of strings, or null.
func (m *Multi) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*m = Multi{}
		return nil
	case data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode list value: %w", err)
		}
		*m = Many(items...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode scalar value: %w", err)
		}
		*m = One(s)
		return nil
	}
}

// MarshalJSON keeps the original shape.
func (m Multi) MarshalJSON() ([]byte, error) {
	if m.isList {
		return json.Marshal(m.list)
	}
	return json.Marshal(m.scalar)
}

// Set is a deduplicated collection with a primary member. Membership order is not significant
// but Members keeps the primary first.
type Set struct {
	members []string
}

// NewSet builds a set from m. An empty primary falls back to the first item; a primary that is
// not among the items is added.
func NewSet(m Multi, primary string) Set {
	items := m.Items()
	primary = strings.TrimSpace(primary)
	if primary == "" && len(items) > 0 {
		primary = items[0]
	}

	var s Set
	seen := map[string]bool{}
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		s.members = append(s.members, v)
	}
	add(primary)
	for _, it := range items {
		add(it)
	}
	return s
}

// Primary returns the primary member or "".
func (s Set) Primary() string {
	if len(s.members) == 0 {
		return ""
	}
	return s.members[0]
}

// Members returns a copy of the members, primary first.
func (s Set) Members() []string {
	out := make([]string, len(s.members))
	copy(out, s.members)
	return out
}

// Contains reports exact membership.
func (s Set) Contains(v string) bool {
	for _, m := range s.members {
		if m == v {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return len(s.members) == 0 }

// String joins members with ", ".
func (s Set) String() string { return strings.Join(s.members, ", ") }

// MarshalJSON encodes the set as a list.
func (s Set) MarshalJSON() ([]byte, error) {
	if s.members == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.members)
}
