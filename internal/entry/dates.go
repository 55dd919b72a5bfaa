package entry

import (
	"regexp"
	"strings"
)

// lookahead bounds how far after a start date the end date and day counts
// are searched, in bytes.
const lookahead = 96

const dateToken = `(\d{2,4}\s*[.\-/]\s*\d{1,2}(?:\s*[.\-/]\s*\d{1,2})?)`

var (
	startDate = regexp.MustCompile(dateToken)
	blockRest = regexp.MustCompile(`^\s*[~∼〜]\s*` + dateToken +
		`(?:\s*\(\s*(\d[\d,]*)\s*일?\s*\))?(?:\s*\(\s*(\d[\d,]*)\s*일?\s*\))?`)
	dayCounts = regexp.MustCompile(`\(?\s*(\d[\d,]*)\s*일?\s*\)?`)
	spaces    = regexp.MustCompile(`\s+`)
)

// DateBlock is a period with optional day counts found in page text.
type DateBlock struct {
	Start            string
	End              string
	RecognizedDays   string
	ParticipatedDays string
}

// FindDateBlocks scans text for "start ~ end (N일) (M일)" blocks in document
// order. The first parenthesized count is the recognized day count, the second
// the participated one.
func FindDateBlocks(text string) []DateBlock {
	var blocks []DateBlock
	cursor := 0

	for _, loc := range startDate.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] < cursor {
			continue
		}

		end := loc[1] + lookahead
		if end > len(text) {
			end = len(text)
		}
		window := text[loc[1]:end]

		m := blockRest.FindStringSubmatchIndex(window)
		if m == nil {
			continue
		}

		block := DateBlock{
			Start: compactDate(text[loc[2]:loc[3]]),
			End:   compactDate(window[m[2]:m[3]]),
		}
		if m[4] >= 0 {
			block.RecognizedDays = formatDays(window[m[4]:m[5]])
		}
		if m[6] >= 0 {
			block.ParticipatedDays = formatDays(window[m[6]:m[7]])
		}

		blocks = append(blocks, block)
		cursor = loc[1] + m[1]
	}

	return blocks
}

// splitPeriod reads "1981.02.11 ~ 1981.05.31" style cells.
func splitPeriod(value string) (string, string) {
	dates := startDate.FindAllString(value, 2)
	switch len(dates) {
	case 0:
		return "", ""
	case 1:
		return compactDate(dates[0]), ""
	default:
		return compactDate(dates[0]), compactDate(dates[1])
	}
}

// splitDays reads "(110일)(98일)" style cells.
func splitDays(value string) (string, string) {
	counts := dayCounts.FindAllStringSubmatch(value, 2)
	switch len(counts) {
	case 0:
		return "", ""
	case 1:
		return formatDays(counts[0][1]), ""
	default:
		return formatDays(counts[0][1]), formatDays(counts[1][1])
	}
}

func compactDate(s string) string {
	return spaces.ReplaceAllString(s, "")
}

func formatDays(n string) string {
	n = strings.TrimSpace(n)
	if n == "" {
		return ""
	}
	return "(" + n + "일)"
}
