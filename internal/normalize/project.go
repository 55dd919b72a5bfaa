package normalize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/reconcile"
	"github.com/spigell/career-checker/internal/rules"
)

// Source is an entry plus the work-type and role values the normalizer should use.
// Fields and Roles may be scalars or lists.
type Source struct {
	Entry        entry.CareerEntry
	Fields       Multi
	PrimaryField string
	Roles        Multi
	PrimaryRole  string
}

// FromEntry builds a Source from a parsed entry. Work types come from the
// project type and facility type, roles from the assigned task.
func FromEntry(e entry.CareerEntry) Source {
	fields := append(One(e.ProjectType).Items(), One(e.FacilityType).Items()...)
	primary := ""
	if len(fields) > 0 {
		primary = fields[0]
	}
	return Source{
		Entry:        e,
		Fields:       Many(fields...),
		PrimaryField: primary,
		Roles:        One(e.Task),
	}
}

// Project is the normalized record rules and classifiers work on.
type Project struct {
	Entry            entry.CareerEntry `json:"entry"`
	ClientRaw        string            `json:"client_raw"`
	ClientType       ClientType        `json:"client_type"`
	Fields           Set               `json:"original_fields"`
	Roles            Set               `json:"roles"`
	RecognizedDays   int               `json:"recognized_days"`
	ParticipatedDays int               `json:"participated_days"`
	Logic            Logic             `json:"logic"`
}

// Client returns the canonical client string: the raw name followed by its category.
func (p Project) Client() string {
	if p.ClientRaw == "" {
		return string(p.ClientType)
	}
	return p.ClientRaw + " " + string(p.ClientType)
}

// Days returns the day count selected by use_date_type.
func (p Project) Days() int {
	if p.Logic.UseDateType == DateTypeRecognition {
		return p.RecognizedDays
	}
	return p.ParticipatedDays
}

// Field implements rules.Record.
func (p Project) Field(name string) (rules.Value, bool) {
	switch name {
	case "original_fields":
		return rules.Set(p.Fields.Members()...), true
	case "roles":
		return rules.Set(p.Roles.Members()...), true
	case "original_field":
		return rules.Scalar(p.Fields.Primary()), true
	case "role":
		return rules.Scalar(p.Roles.Primary()), true
	case "client":
		return rules.Scalar(p.Client()), true
	case "client_raw":
		return rules.Scalar(p.ClientRaw), true
	case "client_type":
		return rules.Scalar(string(p.ClientType)), true
	case "engineer_name":
		return rules.Scalar(p.Entry.PersonName), true
	case "project_name":
		return rules.Scalar(p.Entry.ProjectName), true
	case "project_type":
		return rules.Scalar(p.Entry.ProjectType), true
	case "start_date":
		return rules.Scalar(p.Entry.StartDate), true
	case "end_date":
		return rules.Scalar(p.Entry.EndDate), true
	case "job_field":
		return rules.Scalar(p.Entry.JobField), true
	case "position":
		return rules.Scalar(p.Entry.Position), true
	case "responsibility":
		return rules.Scalar(p.Entry.Responsibility), true
	case "facility_type":
		return rules.Scalar(p.Entry.FacilityType), true
	case "applied_tech":
		return rules.Scalar(p.Entry.AppliedTech), true
	case "use_date_type":
		return rules.Scalar(p.Logic.UseDateType), true
	case "duty_field1":
		return rules.Scalar(p.Logic.DutyField1), true
	case "duty_field2":
		return rules.Scalar(p.Logic.DutyField2), true
	case "specialty":
		return rules.Scalar(p.Logic.Specialty), true
	case "duty_field1_eval_method":
		return rules.Scalar(p.Logic.DutyField1EvalMethod), true
	case "duty_field2_eval_method":
		return rules.Scalar(p.Logic.DutyField2EvalMethod), true
	case "tech_eval_method":
		return rules.Scalar(p.Logic.TechEvalMethod), true
	case "duty_field1_recognition_rule":
		return rules.Scalar(p.Logic.DutyField1RecognitionRule), true
	case "duty_field2_recognition_rule":
		return rules.Scalar(p.Logic.DutyField2RecognitionRule), true
	case "recognition_rate_rule":
		return rules.Scalar(p.Logic.RecognitionRateRule), true
	}
	return rules.Value{}, false
}

type Normalizer struct {
	opts   Options
	logger *zap.Logger
}

func New(opts Options, log *zap.Logger) *Normalizer {
	return &Normalizer{opts: opts, logger: logger.WithFields(log)}
}

// Normalize never fails: unknown clients become 기타 and unreadable day counts become 0.
func (n *Normalizer) Normalize(src Source) Project {
	e := src.Entry
	raw := strings.TrimSpace(e.Client)
	kind := ClassifyClient(raw)

	p := Project{
		Entry:      e,
		ClientRaw:  raw,
		ClientType: kind,
		Fields:     NewSet(src.Fields, src.PrimaryField),
		Roles:      NewSet(src.Roles, src.PrimaryRole),
	}
	p.RecognizedDays = n.days(e.RecognizedDays, "recognized_days", e)
	p.ParticipatedDays = n.days(e.ParticipatedDays, "participated_days", e)
	p.Logic = InferLogic(p.Fields.Primary(), kind, e.JobField, e.Specialty, n.opts)

	n.logger.Debug("project normalized",
		zap.String("project", e.ProjectName),
		zap.String("client_type", string(kind)),
		zap.Strings("fields", p.Fields.Members()),
		zap.Strings("roles", p.Roles.Members()),
	)
	return p
}

// NormalizeAll normalizes every source in order.
func (n *Normalizer) NormalizeAll(sources []Source) []Project {
	out := make([]Project, 0, len(sources))
	for _, s := range sources {
		out = append(out, n.Normalize(s))
	}
	return out
}

func (n *Normalizer) days(text, name string, e entry.CareerEntry) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	d, err := reconcile.ParseDays(text)
	if err != nil {
		n.logger.Warn("day count is not a number",
			zap.String("field", name),
			zap.String("value", text),
			zap.Int("page", e.Provenance.Page+1),
			zap.Int("sequence", e.Provenance.Sequence),
		)
		return 0
	}
	return d
}
