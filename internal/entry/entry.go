package entry

import "strings"

// Flag marks how much a value of an entry can be trusted.
type Flag string

const (
	// FlagPositionalDates is set when dates were recovered from page text and
	// the number of date blocks differs from the number of entries on the page.
	FlagPositionalDates Flag = "positional-dates"
	// FlagAutoCorrected is set when a stated day count was replaced with the calendar count.
	FlagAutoCorrected Flag = "auto-corrected"
	// FlagComputed is set when a missing day count was filled from the dates.
	FlagComputed Flag = "computed"
	// FlagDateAmbiguous is set when a date could not be parsed.
	FlagDateAmbiguous Flag = "date-ambiguous"
)

type Provenance struct {
	Page     int `json:"page"`
	Sequence int `json:"sequence"`
}

// CareerEntry is one project line of a career certificate.
type CareerEntry struct {
	PersonName       string `json:"engineer_name,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	RecognizedDays   string `json:"recognized_days,omitempty"`
	ParticipatedDays string `json:"participated_days,omitempty"`
	ProjectName      string `json:"project_name,omitempty"`
	Client           string `json:"client,omitempty"`
	ProjectType      string `json:"project_type,omitempty"`
	AppliedTech      string `json:"applied_tech,omitempty"`
	JobField         string `json:"job_field,omitempty"`
	Specialty        string `json:"specialty,omitempty"`
	Responsibility   string `json:"responsibility,omitempty"`
	Task             string `json:"task,omitempty"`
	Position         string `json:"position,omitempty"`
	Amount           string `json:"amount,omitempty"`
	FacilityType     string `json:"facility_type,omitempty"`

	Provenance Provenance `json:"provenance"`
	Flags      []Flag     `json:"flags,omitempty"`
}

// Valid reports whether the entry carries at least a project name, a client
// or an assigned task.
func (e CareerEntry) Valid() bool {
	return strings.TrimSpace(e.ProjectName) != "" ||
		strings.TrimSpace(e.Client) != "" ||
		strings.TrimSpace(e.Task) != ""
}

func (e CareerEntry) HasFlag(f Flag) bool {
	for _, existing := range e.Flags {
		if existing == f {
			return true
		}
	}
	return false
}

// WithFlag returns a copy of the entry carrying f.
func (e CareerEntry) WithFlag(f Flag) CareerEntry {
	if e.HasFlag(f) {
		return e
	}
	flags := make([]Flag, 0, len(e.Flags)+1)
	flags = append(flags, e.Flags...)
	e.Flags = append(flags, f)
	return e
}
