package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// Criteria is what an entry must satisfy to count as relevant experience.
type Criteria struct {
	WorkTypes       []string `json:"work_types"`
	Roles           []string `json:"roles"`
	JobFields       []string `json:"job_fields"`
	AllowBlankRole  bool     `json:"allow_blank_role"`
	AllowBlankField bool     `json:"allow_blank_field"`
}

// Candidate is the compact summary of one entry sent for judgement.
type Candidate struct {
	Index       int      `json:"index"`
	ProjectName string   `json:"project_name"`
	Client      string   `json:"client,omitempty"`
	Fields      []string `json:"fields,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	JobField    string   `json:"job_field,omitempty"`
	Specialty   string   `json:"specialty,omitempty"`
	Period      string   `json:"period,omitempty"`
}

// Verdict is the judgement for one candidate index.
type Verdict struct {
	Index    int    `json:"index"`
	Relevant bool   `json:"relevant"`
	Reason   string `json:"reason"`
}

// Judge classifies a batch of candidates against the criteria.
type Judge interface {
	Judge(ctx context.Context, criteria Criteria, batch []Candidate) ([]Verdict, error)
}

//go:embed prompt.md
var promptTemplate string

// BuildPrompt renders the classification prompt for a batch.
func BuildPrompt(criteria Criteria, batch []Candidate) (string, error) {
	criteriaJSON, err := json.MarshalIndent(criteria, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal criteria: %w", err)
	}
	batchJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Criteria:\n{{CRITERIA_JSON}}\n\nEntries:\n{{ENTRIES_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CRITERIA_JSON}}", string(criteriaJSON))
	prompt = strings.ReplaceAll(prompt, "{{ENTRIES_JSON}}", string(batchJSON))
	return prompt, nil
}
