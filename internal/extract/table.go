package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	cellGap = regexp.MustCompile(`\t+| {2,}`)
	pipeSep = regexp.MustCompile(`\|`)
)

// minCells is how many filled cells the first table line needs.
const minCells = 2

// cell is one piece of a laid out line and the rune offset it starts at.
type cell struct {
	start int
	text  string
}

// GridFromText rebuilds a rectangular table grid from laid out page text.
//
// The table starts at the first line with at least two cells and ends at the
// last non-blank line. The cell positions of that first line fix the columns:
// every later cell lands in the column whose start is nearest, so an empty
// cell stays empty instead of pulling its neighbours left. Blank and
// single-cell lines inside the table are kept as rows. Pipe delimited lines
// keep their cells as written. Short rows are padded with empty cells. It
// returns nil when fewer than two rows are found.
func GridFromText(text string) [][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	first := -1
	for i, line := range lines {
		if filled(lineCells(line)) >= minCells {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	last := len(lines) - 1
	for strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last == first {
		return nil
	}

	columns := lineCells(lines[first])
	width := len(columns)
	rows := make([][]string, 0, last-first+1)
	for _, line := range lines[first : last+1] {
		row := alignCells(line, columns)
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

// alignCells places the cells of line into the given columns.
func alignCells(line string, columns []cell) []string {
	if strings.Contains(line, "|") {
		cells := lineCells(line)
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.text
		}
		return row
	}

	row := make([]string, len(columns))
	for _, c := range split(line, cellGap, false) {
		i := nearest(columns, c.start)
		if row[i] != "" {
			row[i] += " "
		}
		row[i] += c.text
	}
	return row
}

// lineCells splits a line into cells. Pipe delimited lines keep their empty
// cells, with the outer borders removed.
func lineCells(line string) []cell {
	if !strings.Contains(line, "|") {
		return split(line, cellGap, false)
	}

	cells := split(line, pipeSep, true)
	if len(cells) > 0 && cells[0].text == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1].text == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func split(line string, sep *regexp.Regexp, keepEmpty bool) []cell {
	var out []cell
	prev := 0
	bounds := append(sep.FindAllStringIndex(line, -1), []int{len(line), len(line)})
	for _, b := range bounds {
		seg := line[prev:b[0]]
		text := strings.TrimSpace(seg)
		if text != "" || keepEmpty {
			lead := len(seg) - len(strings.TrimLeftFunc(seg, unicode.IsSpace))
			out = append(out, cell{start: utf8.RuneCountInString(line[:prev+lead]), text: text})
		}
		prev = b[1]
	}
	return out
}

func filled(cells []cell) int {
	n := 0
	for _, c := range cells {
		if c.text != "" {
			n++
		}
	}
	return n
}

// nearest returns the column whose start is closest to pos. Ties go left.
func nearest(columns []cell, pos int) int {
	best, dist := 0, -1
	for i, c := range columns {
		d := c.start - pos
		if d < 0 {
			d = -d
		}
		if dist < 0 || d < dist {
			best, dist = i, d
		}
	}
	return best
}
