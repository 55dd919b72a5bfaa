package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/classify"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/rules"
	"github.com/spigell/career-checker/internal/score"
)

// ProjectMatches holds the rules one project of the primary document satisfies.
type ProjectMatches struct {
	Project normalize.Project `json:"project"`
	Matches rules.Matches     `json:"matches"`
}

// Result is the outcome of a full run.
type Result struct {
	ID           string              `json:"id"`
	StartedAt    time.Time           `json:"started_at"`
	Catalogue    string              `json:"catalogue_version"`
	Primary      *Document           `json:"primary"`
	Secondary    *Document           `json:"secondary"`
	Matched      []ProjectMatches    `json:"matched"`
	RuleIDs      []string            `json:"rule_ids"`
	UnknownRules []string            `json:"unknown_rules,omitempty"`
	Criteria     classify.Criteria   `json:"criteria"`
	Results      []classify.Result   `json:"classification"`
	Summary      score.Summary       `json:"summary"`
	Issues       []Issue             `json:"issues,omitempty"`
	outcome      classify.Outcome
}

// Relevant returns the projects classified relevant.
func (r *Result) Relevant() []classify.Result { return r.outcome.Relevant() }

// Other returns the projects classified not relevant.
func (r *Result) Other() []classify.Result { return r.outcome.Other() }

type Runner struct {
	loader     *Loader
	catalogue  *rules.Catalogue
	classifier *classify.Classifier
	extraRules []string
	score      score.Config
	logger     *zap.Logger
}

func NewRunner(loader *Loader, catalogue *rules.Catalogue, classifier *classify.Classifier, extraRules []string, scoreCfg score.Config, log *zap.Logger) *Runner {
	return &Runner{
		loader:     loader,
		catalogue:  catalogue,
		classifier: classifier,
		extraRules: extraRules,
		score:      scoreCfg,
		logger:     logger.WithFields(log),
	}
}

// Run evaluates the catalogue against the primary document, derives the
// classification criteria from the matched rules and classifies and scores
// the entries of the secondary document. When secondary is empty the primary
// document is classified against its own criteria.
func (r *Runner) Run(ctx context.Context, primary, secondary string) (*Result, error) {
	if r.catalogue == nil {
		return nil, errors.New("no rule catalogue configured")
	}

	res := &Result{ID: uuid.NewString(), StartedAt: time.Now(), Catalogue: r.catalogue.Version}
	log := r.logger.With(zap.String("run_id", res.ID))

	first, err := r.loader.Load(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("primary document: %w", err)
	}
	res.Primary = first

	second := first
	if secondary != "" && secondary != primary {
		second, err = r.loader.Load(ctx, secondary)
		if err != nil {
			return nil, fmt.Errorf("secondary document: %w", err)
		}
	}
	res.Secondary = second

	all := make([]rules.Matches, 0, len(first.Projects))
	for _, p := range first.Projects {
		m := r.catalogue.Evaluate(p)
		res.Matched = append(res.Matched, ProjectMatches{Project: p, Matches: m})
		all = append(all, m)
	}
	res.RuleIDs = rules.Union(append(all, rules.Matches{IDs: r.extraRules})...)

	res.Criteria, res.UnknownRules = classify.DeriveCriteria(r.catalogue, res.RuleIDs)
	if len(res.UnknownRules) > 0 {
		log.Warn("unknown rule ids ignored", zap.Strings("rules", res.UnknownRules))
	}
	log.Info("rules matched",
		zap.Int("projects", len(first.Projects)),
		zap.Int("rules", len(res.RuleIDs)),
	)

	res.outcome = r.classifier.Classify(ctx, res.Criteria, second.Projects)
	res.Results = res.outcome.Results
	for _, f := range res.outcome.Failures {
		second.Issues = append(second.Issues, Issue{
			Kind:   ClassificationServiceFailure,
			Detail: fmt.Sprintf("batch %d: %v", f.Batch, f.Err),
		})
	}

	res.Summary = score.Compute(projects(res.outcome.Relevant()), projects(res.outcome.Other()), r.score)

	res.Issues = append(res.Issues, first.Issues...)
	if second != first {
		res.Issues = append(res.Issues, second.Issues...)
	}

	log.Info("run finished",
		zap.Int("relevant", len(res.outcome.Relevant())),
		zap.Int("other", len(res.outcome.Other())),
		zap.String("total", res.Summary.TotalDisplay),
		zap.Float64("experience_score", res.Summary.ExperienceScore),
		zap.Int("issues", len(res.Issues)),
	)
	return res, nil
}

func projects(results []classify.Result) []normalize.Project {
	out := make([]normalize.Project, 0, len(results))
	for _, r := range results {
		out = append(out, r.Project)
	}
	return out
}
