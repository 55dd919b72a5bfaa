package entry

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/extract"
	"github.com/spigell/career-checker/internal/logger"
)

// GroupRows is the height of the header block and of every data group.
const GroupRows = 4

// minHeaderKeys is how many known keys the first header row needs.
const minHeaderKeys = 2

var personName = regexp.MustCompile(`(?:성\s*명|성영|이\s*름)\s*[:：]?\s*([가-힣]{2,4})`)

// Result is the outcome of parsing one document.
type Result struct {
	Entries []CareerEntry
	// Skipped counts row groups dropped because they had no project name,
	// client or task.
	Skipped int
	// Positional lists pages whose recovered dates did not line up with the
	// number of entries.
	Positional []PositionalPage
}

// PositionalPage is a page whose dates were assigned to entries by position.
// Page is 0-based.
type PositionalPage struct {
	Page    int
	Blocks  int
	Entries int
}

type Parser struct {
	logger *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	return &Parser{logger: logger.WithFields(log)}
}

// keyMatrix maps header cell positions to entry fields.
type keyMatrix [GroupRows][]Field

// Parse turns extracted pages into career entries. The key matrix of the last
// page with a header is reused for continuation pages that have none.
func (p *Parser) Parse(pages []extract.RawPage) Result {
	var (
		res  Result
		keys *keyMatrix
		name string
		seq  int
	)

	for _, page := range pages {
		if name == "" {
			if m := personName.FindStringSubmatch(page.Text); m != nil {
				name = m[1]
			}
		}

		if len(page.Table) == 0 {
			continue
		}

		data := page.Table
		if start, found := findHeader(page.Table); found {
			k := buildKeys(page.Table[start : start+GroupRows])
			keys = &k
			data = page.Table[start+GroupRows:]
		} else if keys == nil {
			p.logger.Debug("no table header on page", logger.StageFields("parse", page.Index+1)...)
			continue
		}

		entries, skipped := parseGroups(*keys, data)
		res.Skipped += skipped
		if skipped > 0 {
			p.logger.Debug("dropped row groups without project, client or task",
				append(logger.StageFields("parse", page.Index+1), zap.Int("count", skipped))...)
		}

		for i := range entries {
			entries[i].Provenance = Provenance{Page: page.Index, Sequence: seq}
			seq++
		}

		blocks := FindDateBlocks(page.Text)
		entries, positional := recoverDates(entries, blocks)
		if positional {
			res.Positional = append(res.Positional, PositionalPage{Page: page.Index, Blocks: len(blocks), Entries: len(entries)})
			p.logger.Warn("date blocks and entries differ in count, dates assigned by position",
				append(logger.StageFields("parse", page.Index+1),
					zap.Int("blocks", len(blocks)),
					zap.Int("entries", len(entries)),
				)...)
		}

		res.Entries = append(res.Entries, entries...)
	}

	for i := range res.Entries {
		if res.Entries[i].PersonName == "" {
			res.Entries[i].PersonName = name
		}
	}

	return res
}

// ParseGrid parses a single grid whose first rows hold the header block.
func ParseGrid(grid [][]string) (entries []CareerEntry, skipped int) {
	start, found := findHeader(grid)
	if !found {
		return nil, 0
	}
	return parseGroups(buildKeys(grid[start:start+GroupRows]), grid[start+GroupRows:])
}

func findHeader(grid [][]string) (int, bool) {
	for i := 0; i+GroupRows <= len(grid); i++ {
		known := 0
		for _, cell := range grid[i] {
			if _, ok := Lookup(cell); ok {
				known++
			}
		}
		if known >= minHeaderKeys {
			return i, true
		}
	}
	return 0, false
}

func buildKeys(header [][]string) keyMatrix {
	var keys keyMatrix
	for r := 0; r < GroupRows; r++ {
		keys[r] = make([]Field, len(header[r]))
		for c, cell := range header[r] {
			if field, ok := Lookup(cell); ok {
				keys[r][c] = field
			}
		}
	}
	return keys
}

func parseGroups(keys keyMatrix, rows [][]string) ([]CareerEntry, int) {
	var (
		entries []CareerEntry
		skipped int
	)

	// a trailing partial group is dropped
	for g := 0; g+GroupRows <= len(rows); g += GroupRows {
		var e CareerEntry
		for r := 0; r < GroupRows; r++ {
			for c, cell := range rows[g+r] {
				if c >= len(keys[r]) || keys[r][c] == FieldUnknown {
					continue
				}
				assign(&e, keys[r][c], cell)
			}
		}

		if !e.Valid() {
			skipped++
			continue
		}
		entries = append(entries, e)
	}

	return entries, skipped
}

func assign(e *CareerEntry, field Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch field {
	case FieldPeriod:
		start, end := splitPeriod(value)
		setOnce(&e.StartDate, start)
		setOnce(&e.EndDate, end)
	case FieldDaysPair:
		recognized, participated := splitDays(value)
		setOnce(&e.RecognizedDays, recognized)
		setOnce(&e.ParticipatedDays, participated)
	case FieldStartDate:
		start, _ := splitPeriod(value)
		setOnce(&e.StartDate, start)
	case FieldEndDate:
		end, _ := splitPeriod(value)
		setOnce(&e.EndDate, end)
	case FieldRecognizedDays:
		recognized, _ := splitDays(value)
		setOnce(&e.RecognizedDays, recognized)
	case FieldParticipatedDays:
		participated, _ := splitDays(value)
		setOnce(&e.ParticipatedDays, participated)
	case FieldPersonName:
		setOnce(&e.PersonName, value)
	case FieldProjectName:
		appendValue(&e.ProjectName, value)
	case FieldClient:
		appendValue(&e.Client, value)
	case FieldProjectType:
		appendValue(&e.ProjectType, value)
	case FieldAppliedTech:
		appendValue(&e.AppliedTech, value)
	case FieldTask:
		appendValue(&e.Task, value)
	case FieldJobField:
		appendValue(&e.JobField, value)
	case FieldSpecialty:
		appendValue(&e.Specialty, value)
	case FieldResponsibility:
		appendValue(&e.Responsibility, value)
	case FieldPosition:
		appendValue(&e.Position, value)
	case FieldAmount:
		appendValue(&e.Amount, value)
	case FieldFacilityType:
		appendValue(&e.FacilityType, value)
	}
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// appendValue joins values of the same field spread over several cells.
func appendValue(dst *string, value string) {
	if *dst == "" {
		*dst = value
		return
	}
	*dst += ", " + value
}

// recoverDates fills missing dates and day counts from the page's date blocks,
// in order. Blocks are matched to entries by position only; when the counts
// differ every entry of the page is flagged.
func recoverDates(entries []CareerEntry, blocks []DateBlock) ([]CareerEntry, bool) {
	if len(blocks) == 0 || len(entries) == 0 {
		return entries, false
	}

	positional := len(blocks) != len(entries)
	for i := range entries {
		if i < len(blocks) {
			b := blocks[i]
			setOnce(&entries[i].StartDate, b.Start)
			setOnce(&entries[i].EndDate, b.End)
			setOnce(&entries[i].RecognizedDays, b.RecognizedDays)
			setOnce(&entries[i].ParticipatedDays, b.ParticipatedDays)
		}
		if positional {
			entries[i] = entries[i].WithFlag(FlagPositionalDates)
		}
	}
	return entries, positional
}
