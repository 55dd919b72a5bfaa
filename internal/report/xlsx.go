package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/career-checker/internal/classify"
	"github.com/spigell/career-checker/internal/pipeline"
)

const (
	sheetSummary  = "요약"
	sheetProjects = "경력"
	sheetRules    = "규칙"
)

// WriteXLSX exports the run to an xlsx workbook with a summary sheet, one
// row per classified project and one row per primary project with its rules.
func WriteXLSX(path string, res *pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, sheet := range []string{sheetProjects, sheetRules} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	summary(f, res)
	projects(f, res.Results)
	matched(f, res.Matched)

	_ = f.SetColWidth(sheetSummary, "A", "A", 24)
	_ = f.SetColWidth(sheetSummary, "B", "B", 40)
	_ = f.SetColWidth(sheetProjects, "A", "A", 40) // project name
	_ = f.SetColWidth(sheetProjects, "B", "C", 22)
	_ = f.SetColWidth(sheetProjects, "D", "E", 12) // dates
	_ = f.SetColWidth(sheetProjects, "I", "I", 48) // reason
	_ = f.SetColWidth(sheetRules, "A", "A", 40)
	_ = f.SetColWidth(sheetRules, "B", "B", 80)

	index, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(index)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func summary(f *excelize.File, res *pipeline.Result) {
	s := res.Summary
	rows := [][]any{
		{"실행 ID", res.ID},
		{"규칙 버전", res.Catalogue},
		{"성명", s.EngineerName},
		{"해당분야", s.Field},
		{"해당분야 경력", s.Relevant.Calculation},
		{"기타 경력", s.Other.Calculation},
		{"합계 일수", s.TotalDays},
		{"합계 기간", s.TotalDisplay},
		{"경력 점수", s.ExperienceScore},
	}
	for _, r := range s.JobField.Rubrics {
		rows = append(rows, []any{r.Name, fmt.Sprintf("%s / %g점", r.Basis, r.Score)})
	}
	rows = append(rows, []any{"직무분야 점수", s.JobField.Score})

	for i, r := range rows {
		writeRow(f, sheetSummary, i+1, r...)
	}
}

func projects(f *excelize.File, results []classify.Result) {
	writeRow(f, sheetProjects, 1, "사업명", "발주처", "발주처 분류", "시작일", "종료일", "일수", "담당업무", "해당분야", "판단 근거", "판단 방식")
	for i, r := range results {
		e := r.Project.Entry
		relevant := "기타"
		if r.Relevant {
			relevant = "해당"
		}
		writeRow(f, sheetProjects, i+2,
			e.ProjectName,
			r.Project.ClientRaw,
			string(r.Project.ClientType),
			e.StartDate,
			e.EndDate,
			r.Project.Days(),
			r.Project.Roles.String(),
			relevant,
			r.Reason,
			r.Evidence.String(),
		)
	}
}

func matched(f *excelize.File, pms []pipeline.ProjectMatches) {
	writeRow(f, sheetRules, 1, "사업명", "충족 규칙")
	for i, pm := range pms {
		writeRow(f, sheetRules, i+2, pm.Project.Entry.ProjectName, strings.Join(pm.Matches.IDs, "\n"))
	}
}
