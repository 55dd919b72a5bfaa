package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/extract"
	"github.com/spigell/career-checker/internal/filtering"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/reconcile"
)

// IssueKind classifies a non-fatal problem found while processing a document.
type IssueKind string

const (
	ExtractionFailure            IssueKind = "extraction_failure"
	PageRecognitionFailure       IssueKind = "page_recognition_failure"
	ParseSkip                    IssueKind = "parse_skip"
	DateAmbiguity                IssueKind = "date_ambiguity"
	DayCountMismatch             IssueKind = "day_count_mismatch"
	ClassificationServiceFailure IssueKind = "classification_service_failure"
)

// Issue is recorded on the result instead of failing the run. Page is 1-based, 0 when unknown.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Page   int       `json:"page,omitempty"`
	Detail string    `json:"detail"`
}

// Document is one processed input file.
type Document struct {
	ID         string              `json:"id"`
	Path       string              `json:"path"`
	Extraction *extract.Document   `json:"extraction,omitempty"`
	Entries    []entry.CareerEntry `json:"entries"`
	Filters    []filtering.Step    `json:"filters,omitempty"`
	Projects   []normalize.Project `json:"projects"`
	Issues     []Issue             `json:"issues,omitempty"`
}

// Extractor reads the pages of a document.
type Extractor interface {
	Extract(ctx context.Context, path string) (extract.Document, error)
}

// Loader runs the per-document stages: extraction, parsing, reconciliation,
// filtering and normalization. Pages are processed sequentially.
type Loader struct {
	extractor  Extractor
	parser     *entry.Parser
	reconciler *reconcile.Reconciler
	filters    *filtering.Filtering
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

// NewLoader wires the stages. filters may be nil.
func NewLoader(ex Extractor, filters *filtering.Filtering, opts normalize.Options, log *zap.Logger) *Loader {
	log = logger.WithFields(log)
	if filters == nil {
		filters = filtering.New(nil, log)
	}
	return &Loader{
		extractor:  ex,
		parser:     entry.NewParser(log),
		reconciler: reconcile.New(reconcile.NewDateParser(nil), log),
		filters:    filters,
		normalizer: normalize.New(opts, log),
		logger:     log,
	}
}

// Load processes the document at path. A .json file is read as a list of
// entry records and skips extraction. Only an unreadable document is an error.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	doc := &Document{ID: uuid.NewString(), Path: path}
	log := l.logger.With(logger.DocumentFields(doc.ID, path)...)

	var (
		sources []normalize.Source
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		sources, err = normalize.LoadSources(path)
		if err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}
		log.Info("entry records loaded", zap.Int("records", len(sources)))
	} else {
		sources, err = l.extract(ctx, doc, log)
		if err != nil {
			return nil, err
		}
	}

	sources = l.reconcile(doc, sources)

	sources, err = l.filter(ctx, doc, sources)
	if err != nil {
		return nil, err
	}

	for _, src := range sources {
		doc.Entries = append(doc.Entries, src.Entry)
	}
	doc.Projects = l.normalizer.NormalizeAll(sources)

	log.Info("document processed",
		zap.Int("entries", len(doc.Entries)),
		zap.Int("issues", len(doc.Issues)),
	)
	return doc, nil
}

func (l *Loader) extract(ctx context.Context, doc *Document, log *zap.Logger) ([]normalize.Source, error) {
	if l.extractor == nil {
		return nil, errors.New("no extractor configured")
	}

	ex, err := l.extractor.Extract(ctx, doc.Path)
	if err != nil {
		doc.Issues = append(doc.Issues, Issue{Kind: ExtractionFailure, Detail: err.Error()})
		log.Error("extraction failed", zap.Error(err))
		return nil, fmt.Errorf("extract %s: %w", doc.Path, err)
	}
	doc.Extraction = &ex

	for _, p := range ex.Pages {
		if p.Method == extract.MethodNativeEmpty {
			detail := p.Warning
			if detail == "" {
				detail = "no text recognized"
			}
			doc.Issues = append(doc.Issues, Issue{Kind: PageRecognitionFailure, Page: p.Index + 1, Detail: detail})
		}
	}

	res := l.parser.Parse(ex.Pages)
	if res.Skipped > 0 {
		doc.Issues = append(doc.Issues, Issue{
			Kind:   ParseSkip,
			Detail: fmt.Sprintf("%d row groups without project name, client or task dropped", res.Skipped),
		})
	}
	log.Info("entries parsed",
		zap.Int("pages", len(ex.Pages)),
		zap.Int("entries", len(res.Entries)),
		zap.Int("skipped", res.Skipped),
	)

	for _, pp := range res.Positional {
		doc.Issues = append(doc.Issues, Issue{
			Kind:   DateAmbiguity,
			Page:   pp.Page + 1,
			Detail: fmt.Sprintf("%d date blocks for %d entries, dates assigned by position", pp.Blocks, pp.Entries),
		})
	}

	sources := make([]normalize.Source, 0, len(res.Entries))
	for _, e := range res.Entries {
		sources = append(sources, normalize.FromEntry(e))
	}
	return sources, nil
}

func (l *Loader) reconcile(doc *Document, sources []normalize.Source) []normalize.Source {
	for i := range sources {
		out := l.reconciler.Reconcile(sources[i].Entry)
		sources[i].Entry = out.Entry
		page := out.Entry.Provenance.Page + 1
		if doc.Extraction == nil {
			page = 0
		}

		if out.Ambiguous {
			doc.Issues = append(doc.Issues, Issue{
				Kind:   DateAmbiguity,
				Page:   page,
				Detail: fmt.Sprintf("%s: unreadable date", out.Entry.ProjectName),
			})
		}
		if out.Corrected {
			doc.Issues = append(doc.Issues, Issue{
				Kind: DayCountMismatch,
				Page: page,
				Detail: fmt.Sprintf("%s: stated %s replaced with %s",
					out.Entry.ProjectName, strings.Join(out.StatedBefore, ", "), reconcile.FormatDays(out.CalendarDays)),
			})
		}
	}
	return sources
}

func (l *Loader) filter(ctx context.Context, doc *Document, sources []normalize.Source) ([]normalize.Source, error) {
	entries := make([]entry.CareerEntry, 0, len(sources))
	for _, src := range sources {
		entries = append(entries, src.Entry)
	}

	left, steps, err := l.filters.RunFilters(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("filter entries: %w", err)
	}
	doc.Filters = steps

	kept := make(map[int]struct{}, len(left))
	for _, e := range left {
		kept[e.Provenance.Sequence] = struct{}{}
	}

	out := make([]normalize.Source, 0, len(left))
	for _, src := range sources {
		if _, ok := kept[src.Entry.Provenance.Sequence]; ok {
			out = append(out, src)
		}
	}
	return out, nil
}
