package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/reconcile"
)

// ErrNoRecords is returned when a record file holds nothing usable.
var ErrNoRecords = errors.New("no records")

// Record is one project in the JSON import shape.
type Record struct {
	EngineerName         string   `json:"engineer_name"`
	ProjectName          string   `json:"project_name"`
	Client               string   `json:"client"`
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date"`
	RecognizedDays       dayCount `json:"recognized_days"`
	ParticipatedDays     dayCount `json:"participated_days"`
	OriginalFields       Multi    `json:"original_fields"`
	PrimaryOriginalField string   `json:"primary_original_field"`
	Roles                Multi    `json:"roles"`
	PrimaryRole          string   `json:"primary_role"`
	JobField             string   `json:"job_field"`
	Specialty            string   `json:"specialty"`
	Position             string   `json:"position"`
}

// dayCount accepts 120, "120" or "(120일)".
type dayCount string

func (d *dayCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = dayCount(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("decode day count: %w", err)
	}
	*d = dayCount(reconcile.FormatDays(n))
	return nil
}

// Source turns the record into a normalizer input. seq becomes the provenance sequence.
func (r Record) Source(seq int) Source {
	e := entry.CareerEntry{
		PersonName:       strings.TrimSpace(r.EngineerName),
		ProjectName:      strings.TrimSpace(r.ProjectName),
		Client:           strings.TrimSpace(r.Client),
		StartDate:        strings.TrimSpace(r.StartDate),
		EndDate:          strings.TrimSpace(r.EndDate),
		RecognizedDays:   string(r.RecognizedDays),
		ParticipatedDays: string(r.ParticipatedDays),
		ProjectType:      strings.Join(r.OriginalFields.Items(), ", "),
		Task:             strings.Join(r.Roles.Items(), ", "),
		JobField:         strings.TrimSpace(r.JobField),
		Specialty:        strings.TrimSpace(r.Specialty),
		Position:         strings.TrimSpace(r.Position),
		Provenance:       entry.Provenance{Sequence: seq},
	}
	return Source{
		Entry:        e,
		Fields:       r.OriginalFields,
		PrimaryField: r.PrimaryOriginalField,
		Roles:        r.Roles,
		PrimaryRole:  r.PrimaryRole,
	}
}

// DecodeRecords reads a JSON list of records. A single object is treated as a one-element list.
func DecodeRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoRecords
	}

	var records []Record
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
	case '{':
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = []Record{r}
	default:
		return nil, fmt.Errorf("decode records: unexpected %q", data[0])
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// LoadSources reads a record file and converts every record to a Source.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]Source, 0, len(records))
	for i, r := range records {
		out = append(out, r.Source(i))
	}
	return out, nil
}
