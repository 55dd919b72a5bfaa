package rules

import "strings"

// Value is a field value seen by predicates: either a single string or a set of strings.
// The first member of a set is its primary member.
type Value struct {
	scalar string
	set    []string
	isSet  bool
}

// Scalar wraps a single string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Set wraps a list of values. The first item is treated as primary.
func Set(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{set: cp, isSet: true}
}

// IsSet reports whether the value holds a list.
func (v Value) IsSet() bool { return v.isSet }

// Members returns the set members, or the scalar as a one-element slice when it is not empty.
func (v Value) Members() []string {
	if v.isSet {
		cp := make([]string, len(v.set))
		copy(cp, v.set)
		return cp
	}
	if strings.TrimSpace(v.scalar) == "" {
		return nil
	}
	return []string{v.scalar}
}

// Primary returns the scalar or the first set member.
func (v Value) Primary() string {
	if !v.isSet {
		return v.scalar
	}
	if len(v.set) == 0 {
		return ""
	}
	return v.set[0]
}

// String joins set members with ", ".
func (v Value) String() string {
	if !v.isSet {
		return v.scalar
	}
	return strings.Join(v.set, ", ")
}

// Record is anything predicates can read named fields from.
type Record interface {
	Field(name string) (Value, bool)
}

// Fields is a map-backed Record, handy for ad-hoc evaluation.
type Fields map[string]Value

// Field implements Record.
func (f Fields) Field(name string) (Value, bool) {
	v, ok := f[name]
	return v, ok
}
