package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/pipeline"
	"github.com/spigell/career-checker/internal/rules"
	"github.com/spigell/career-checker/internal/score"
)

var dateBasis = map[string]string{
	normalize.DateTypeParticipation: "참여일 기준",
	normalize.DateTypeRecognition:   "인정일 기준",
}

// WriteText renders the scoring report: both buckets with their entries and
// subtotals, the grand total and the job-field section.
func WriteText(w io.Writer, res *pipeline.Result) error {
	s := res.Summary
	p := &printer{w: w}

	name := s.EngineerName
	if name == "" {
		name = "(성명 없음)"
	}
	p.linef("경력 평가: %s", name)
	if s.Field != "" {
		p.linef("해당분야: %s", s.Field)
	}
	p.line("")

	p.bucket("해당분야 경력", s.Relevant)
	p.bucket("기타 경력", s.Other)

	p.linef("합계: %d일 (%s) / 경력 점수 %s점 (최대 %s점)",
		s.TotalDays, s.TotalDisplay, points(s.ExperienceScore), points(s.ExperienceBound))
	p.line("")

	jf := s.JobField
	p.line("[직무분야 실적]")
	roles := strings.Join(jf.Roles, ", ")
	if roles == "" {
		roles = "(없음)"
	}
	p.linef("  담당업무: %s", roles)
	p.linef("  참여기간 합계: %d일 (%s)", jf.Days, jf.Display)
	for _, r := range jf.Rubrics {
		p.linef("  - %s: %s / %s점 (최대 %s점)", r.Name, r.Basis, points(r.Score), points(r.Bound))
	}
	p.linef("  직무분야 점수: %s점", points(jf.Score))

	if len(res.Issues) > 0 {
		p.line("")
		p.line("[확인 필요]")
		for _, issue := range res.Issues {
			if issue.Page > 0 {
				p.linef("  - %s (p.%d): %s", issue.Kind, issue.Page, issue.Detail)
				continue
			}
			p.linef("  - %s: %s", issue.Kind, issue.Detail)
		}
	}
	return p.err
}

func (p *printer) bucket(title string, b score.Bucket) {
	p.linef("[%s] %d건", title, len(b.Lines))
	if len(b.Lines) > 0 {
		tw := tabwriter.NewWriter(p, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  사업명\t발주처\t참여기간\t일수\t담당업무")
		for _, l := range b.Lines {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d일\t%s\n", l.ProjectName, l.Client, l.Period, l.Days, l.Role)
		}
		if err := tw.Flush(); err != nil && p.err == nil {
			p.err = err
		}
	}
	p.linef("  소계: %s (%s)", b.Calculation, b.Display)
	p.line("")
}

// WriteProjectSummary renders one project of the primary document with the
// rules it satisfies, grouped by category and group.
func WriteProjectSummary(w io.Writer, catalogue *rules.Catalogue, pm pipeline.ProjectMatches) error {
	p := &printer{w: w}
	e := pm.Project.Entry

	p.line("📌 프로젝트")
	p.line("")
	p.linef("- 사업명: %s", or(e.ProjectName, "(사업명 없음)"))
	p.linef("- 발주처: %s (분류: %s)", or(pm.Project.ClientRaw, "(발주처 정보 없음)"), or(string(pm.Project.ClientType), "정보 없음"))
	p.linef("- 담당업무: %s", or(pm.Project.Roles.Primary(), "(담당업무 정보 없음)"))
	p.linef("- 참여기간: %s ~ %s", or(e.StartDate, "-"), or(e.EndDate, "-"))
	basis, ok := dateBasis[pm.Project.Logic.UseDateType]
	if !ok {
		basis = "기준일 정보 없음"
	}
	p.linef("- 평가 기준 일자: %s", basis)
	p.line("")
	p.line("📋 자동 체크 결과")
	p.line("")

	if pm.Matches.Len() == 0 {
		p.line("(체크된 항목이 없습니다.)")
		return p.err
	}

	category := ""
	for _, g := range pm.Matches.Groups {
		if g.Category != category {
			if category != "" {
				p.line("")
			}
			category = g.Category
			p.linef("[%s]", category)
		}
		p.linef("- %s", g.Name)
		for _, id := range g.IDs {
			label := id
			if d, ok := catalogue.Get(id); ok {
				label = d.Label
			}
			p.linef("    - [✔] %s", label)
		}
	}
	return p.err
}

// WriteCatalogue lists every rule grouped by category and group.
func WriteCatalogue(w io.Writer, catalogue *rules.Catalogue) error {
	p := &printer{w: w}
	p.linef("rule catalogue %s: %d rules", catalogue.Version, catalogue.Len())

	descriptors := catalogue.Descriptors()
	for _, category := range catalogue.Categories() {
		p.line("")
		p.linef("[%s]", category)
		group := ""
		for _, d := range descriptors {
			if d.Category != category {
				continue
			}
			if d.Group != group {
				group = d.Group
				p.linef("- %s", group)
			}
			criterion := ""
			if d.Criterion != "" {
				criterion = " {" + string(d.Criterion) + "}"
			}
			p.linef("    %s  %s%s", d.ID, d.Label, criterion)
		}
	}
	return p.err
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	n, err := p.w.Write(b)
	p.err = err
	return n, err
}

func (p *printer) line(s string) {
	_, _ = io.WriteString(p, s+"\n")
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

func points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
