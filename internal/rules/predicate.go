package rules

import "strings"

// PredicateType names a predicate variant in the catalogue.
type PredicateType string

const (
	TypeKeywordAny PredicateType = "keyword_any"
	TypeFieldValue PredicateType = "field_value"
)

// Predicate is a closed set of checks over one record field.
// Only KeywordAny and FieldValue implement it.
type Predicate interface {
	Type() PredicateType
	FieldName() string
	Eval(rec Record) bool

	sealed()
}

// KeywordAny holds when any keyword occurs, case-insensitively, inside the field.
// For a set field it holds when any keyword occurs inside any member.
type KeywordAny struct {
	Field    string
	Keywords []string
}

func (KeywordAny) sealed() {}

func (KeywordAny) Type() PredicateType { return TypeKeywordAny }

func (p KeywordAny) FieldName() string { return p.Field }

func (p KeywordAny) Eval(rec Record) bool {
	v, _ := lookup(rec, p.Field)
	for _, member := range v.Members() {
		if ContainsAny(member, p.Keywords) {
			return true
		}
	}
	return false
}

// FieldValue holds when the trimmed field equals Equals exactly.
// For a set field the primary member is compared.
type FieldValue struct {
	Field  string
	Equals string
}

func (FieldValue) sealed() {}

func (FieldValue) Type() PredicateType { return TypeFieldValue }

func (p FieldValue) FieldName() string { return p.Field }

func (p FieldValue) Eval(rec Record) bool {
	v, _ := lookup(rec, p.Field)
	return strings.TrimSpace(v.Primary()) == strings.TrimSpace(p.Equals)
}

// ContainsAny reports whether any non-empty keyword is a case-insensitive substring of s.
func ContainsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// missing fields read as empty
func lookup(rec Record, name string) (Value, bool) {
	if rec == nil {
		return Value{}, false
	}
	v, ok := rec.Field(name)
	if !ok {
		return Value{}, false
	}
	return v, true
}
