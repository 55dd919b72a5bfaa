package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/normalize"
)

// Strategy selects how batches are classified.
type Strategy string

const (
	StrategyDeterministic Strategy = "deterministic"
	StrategyService       Strategy = "service"
)

const (
	// MaxBatchSize is the largest number of entries sent in one request.
	MaxBatchSize = 20

	defaultWorkers = 4
	defaultTimeout = 60 * time.Second
)

type Config struct {
	Strategy   Strategy      `mapstructure:"strategy" validate:"omitempty,oneof=deterministic service"`
	BatchSize  int           `mapstructure:"batch-size" validate:"gte=0,lte=20"`
	Workers    int           `mapstructure:"workers" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout"`
	ExtraRules []string      `mapstructure:"extra-rules"`
}

// Evidence records which strategy produced a verdict.
type Evidence struct {
	Strategy Strategy `json:"strategy"`
	Batch    int      `json:"batch"`
	Fallback bool     `json:"fallback,omitempty"`
}

// Result is the verdict for one project.
type Result struct {
	Project    normalize.Project `json:"project"`
	Relevant   bool              `json:"relevant"`
	Reason     string            `json:"reason"`
	Evidence   Evidence          `json:"evidence"`
	Downgraded bool              `json:"downgraded,omitempty"`
}

// BatchFailure describes a service batch that was replaced by the deterministic check.
type BatchFailure struct {
	Batch int
	Err   error
}

type Outcome struct {
	Results  []Result
	Failures []BatchFailure
}

// Relevant returns the relevant results in input order.
func (o Outcome) Relevant() []Result { return o.filter(true) }

// Other returns the non-relevant results in input order.
func (o Outcome) Other() []Result { return o.filter(false) }

func (o Outcome) filter(relevant bool) []Result {
	var out []Result
	for _, r := range o.Results {
		if r.Relevant == relevant {
			out = append(out, r)
		}
	}
	return out
}

type Classifier struct {
	cfg    Config
	judge  ai.Judge
	logger *zap.Logger
}

// New builds a classifier. judge may be nil for the deterministic strategy.
func New(cfg Config, judge ai.Judge, log *zap.Logger) *Classifier {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyDeterministic
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Classifier{cfg: cfg, judge: judge, logger: logger.WithFields(log, zap.String(logger.FieldStage, "classify"))}
}

// Classify labels every project relevant or other. Results keep the input order.
// Service failures never abort the run; the failed batch is checked deterministically.
func (c *Classifier) Classify(ctx context.Context, criteria Criteria, projects []normalize.Project) Outcome {
	batches := split(len(projects), c.cfg.BatchSize)
	results := make([][]Result, len(batches))
	failures := make([]error, len(batches))

	strategy := c.cfg.Strategy
	if strategy == StrategyService && c.judge == nil {
		c.logger.Warn("classification service is not configured; using deterministic strategy")
		strategy = StrategyDeterministic
	}

	c.logger.Info("classifying entries",
		zap.String("strategy", string(strategy)),
		zap.Int("entries", len(projects)),
		zap.Int("batches", len(batches)),
		zap.Strings("work_types", criteria.WorkTypes),
		zap.Strings("roles", criteria.Roles),
		zap.Strings("job_fields", criteria.JobFields),
	)

	if strategy == StrategyDeterministic {
		for i, b := range batches {
			results[i] = c.deterministic(criteria, projects[b.start:b.end], i, false)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(c.cfg.Workers)
		for i, b := range batches {
			g.Go(func() error {
				res, err := c.service(ctx, criteria, projects[b.start:b.end], i)
				if err != nil {
					failures[i] = err
					res = c.deterministic(criteria, projects[b.start:b.end], i, true)
				}
				results[i] = res
				return nil
			})
		}
		_ = g.Wait()
	}

	var out Outcome
	for i, res := range results {
		out.Results = append(out.Results, res...)
		if failures[i] != nil {
			c.logger.Warn("classification batch failed; deterministic fallback used",
				zap.Int("batch", i),
				zap.Error(failures[i]),
			)
			out.Failures = append(out.Failures, BatchFailure{Batch: i, Err: failures[i]})
		}
	}

	c.validate(criteria, out.Results)
	return out
}

func (c *Classifier) deterministic(criteria Criteria, projects []normalize.Project, batch int, fallback bool) []Result {
	out := make([]Result, 0, len(projects))
	for _, p := range projects {
		r := deterministicResult(criteria, p, batch)
		r.Evidence.Fallback = fallback
		out = append(out, r)
	}
	return out
}

func (c *Classifier) service(ctx context.Context, criteria Criteria, projects []normalize.Project, batch int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	candidates := make([]ai.Candidate, 0, len(projects))
	for i, p := range projects {
		candidates = append(candidates, candidate(i, p))
	}

	verdicts, err := c.judge.Judge(ctx, criteria, candidates)
	if err != nil {
		return nil, err
	}

	byIndex := make(map[int]ai.Verdict, len(verdicts))
	for _, v := range verdicts {
		if v.Index >= 0 && v.Index < len(projects) {
			byIndex[v.Index] = v
		}
	}
	if len(byIndex) == 0 {
		return nil, fmt.Errorf("batch %d: %w", batch, ai.ErrNoVerdicts)
	}

	out := make([]Result, 0, len(projects))
	for i, p := range projects {
		v, ok := byIndex[i]
		if !ok {
			c.logger.Debug("no verdict for entry; deterministic check used",
				zap.Int("batch", batch),
				zap.Int("index", i),
			)
			r := deterministicResult(criteria, p, batch)
			r.Evidence.Fallback = true
			out = append(out, r)
			continue
		}
		out = append(out, Result{
			Project:  p,
			Relevant: v.Relevant,
			Reason:   v.Reason,
			Evidence: Evidence{Strategy: StrategyService, Batch: batch},
		})
	}
	return out, nil
}

// validate downgrades every relevant verdict the deterministic check rejects. It never upgrades.
func (c *Classifier) validate(criteria Criteria, results []Result) {
	for i := range results {
		r := &results[i]
		if !r.Relevant {
			continue
		}
		if ok, why := Check(criteria, r.Project); !ok {
			c.logger.Info("relevant verdict downgraded",
				zap.String("project", r.Project.Entry.ProjectName),
				zap.String("evidence", r.Evidence.String()),
				zap.String("failed_check", why),
			)
			r.Relevant = false
			r.Reason = ""
			r.Downgraded = true
		}
	}
}

func candidate(index int, p normalize.Project) ai.Candidate {
	period := ""
	if p.Entry.StartDate != "" || p.Entry.EndDate != "" {
		period = strings.TrimSpace(p.Entry.StartDate + " ~ " + p.Entry.EndDate)
	}
	return ai.Candidate{
		Index:       index,
		ProjectName: p.Entry.ProjectName,
		Client:      p.ClientRaw,
		Fields:      p.Fields.Members(),
		Roles:       p.Roles.Members(),
		JobField:    p.Entry.JobField,
		Specialty:   p.Entry.Specialty,
		Period:      period,
	}
}

type span struct{ start, end int }

func split(n, size int) []span {
	var out []span
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, span{start, end})
	}
	return out
}

