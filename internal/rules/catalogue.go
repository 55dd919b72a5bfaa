package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Criterion marks how a matched rule feeds the relevance criteria.
type Criterion string

const (
	CriterionNone            Criterion = ""
	CriterionWorkType        Criterion = "work_type"
	CriterionRole            Criterion = "role"
	CriterionJobField        Criterion = "job_field"
	CriterionAllowBlankRole  Criterion = "allow_blank_role"
	CriterionAllowBlankField Criterion = "allow_blank_field"
)

var (
	// ErrUnknownPredicate is returned when a catalogue entry names an unsupported predicate type.
	ErrUnknownPredicate = errors.New("unknown predicate type")
	// ErrDuplicateRule is returned when two catalogue entries share an id.
	ErrDuplicateRule = errors.New("duplicate rule id")
)

// Descriptor is one eligibility rule.
type Descriptor struct {
	ID        string
	Label     string
	Category  string
	Group     string
	Criterion Criterion
	Predicate Predicate
}

// Keywords returns the keyword list of a keyword_any rule and nil otherwise.
func (d Descriptor) Keywords() []string {
	if p, ok := d.Predicate.(KeywordAny); ok {
		return p.Keywords
	}
	return nil
}

// Catalogue is an immutable, ordered set of rule descriptors.
type Catalogue struct {
	Version     string
	descriptors []Descriptor
	index       map[string]int
}

//go:embed catalogue.yaml
var defaultCatalogue []byte

type rawCatalogue struct {
	Version string    `mapstructure:"version"`
	Rules   []rawRule `mapstructure:"rules" validate:"required,min=1,dive"`
}

type rawRule struct {
	ID        string   `mapstructure:"id" validate:"required"`
	Label     string   `mapstructure:"label" validate:"required"`
	Category  string   `mapstructure:"category" validate:"required"`
	Group     string   `mapstructure:"group"`
	Criterion string   `mapstructure:"criterion" validate:"omitempty,oneof=work_type role job_field allow_blank_role allow_blank_field"`
	Logic     rawLogic `mapstructure:"logic"`
}

type rawLogic struct {
	Type     string   `mapstructure:"type" validate:"required"`
	Field    string   `mapstructure:"field" validate:"required"`
	Keywords []string `mapstructure:"keywords" validate:"dive,required"`
	Equals   *string  `mapstructure:"equals"`
}

// Default returns the built-in catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// LoadFile reads a catalogue from a YAML file.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule catalogue: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalogue and validates every rule.
func Parse(data []byte) (*Catalogue, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule catalogue: %w", err)
	}

	var raw rawCatalogue
	if err := mapstructure.Decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode rule catalogue: %w", err)
	}

	if err := validator.New().Struct(raw); err != nil {
		return nil, fmt.Errorf("validate rule catalogue: %w", err)
	}

	c := &Catalogue{
		Version:     raw.Version,
		descriptors: make([]Descriptor, 0, len(raw.Rules)),
		index:       make(map[string]int, len(raw.Rules)),
	}

	for _, r := range raw.Rules {
		if _, ok := c.index[r.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}

		pred, err := buildPredicate(r.Logic)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}

		c.index[r.ID] = len(c.descriptors)
		c.descriptors = append(c.descriptors, Descriptor{
			ID:        r.ID,
			Label:     r.Label,
			Category:  r.Category,
			Group:     r.Group,
			Criterion: Criterion(r.Criterion),
			Predicate: pred,
		})
	}

	return c, nil
}

func buildPredicate(l rawLogic) (Predicate, error) {
	switch PredicateType(l.Type) {
	case TypeKeywordAny:
		if len(l.Keywords) == 0 {
			return nil, errors.New("keyword_any needs at least one keyword")
		}
		kws := make([]string, len(l.Keywords))
		copy(kws, l.Keywords)
		return KeywordAny{Field: l.Field, Keywords: kws}, nil
	case TypeFieldValue:
		if l.Equals == nil {
			return nil, errors.New("field_value needs an equals value")
		}
		return FieldValue{Field: l.Field, Equals: *l.Equals}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPredicate, l.Type)
	}
}

// Len returns the number of rules.
func (c *Catalogue) Len() int { return len(c.descriptors) }

// Descriptors returns the rules in catalogue order.
func (c *Catalogue) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Get looks a rule up by id.
func (c *Catalogue) Get(id string) (Descriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.descriptors[i], true
}

// Categories returns category names in first-seen order.
func (c *Catalogue) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range c.descriptors {
		if seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		out = append(out, d.Category)
	}
	return out
}

// Unknown returns the ids that are not in the catalogue, sorted.
func (c *Catalogue) Unknown(ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := c.index[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
