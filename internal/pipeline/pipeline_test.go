package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/classify"
	"github.com/spigell/career-checker/internal/extract"
	"github.com/spigell/career-checker/internal/filtering"
	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/rules"
	"github.com/spigell/career-checker/internal/score"
)

type stubExtractor struct {
	doc extract.Document
	err error
}

func (s stubExtractor) Extract(_ context.Context, path string) (extract.Document, error) {
	if s.err != nil {
		return extract.Document{}, s.err
	}
	doc := s.doc
	doc.Path = path
	return doc, nil
}

func header() [][]string {
	return [][]string{
		{"사업명", "발주자", "참여기간", "인정일(참여일)"},
		{"공사종류", "직무분야", "담당업무", "직위"},
		{"적용 공법", "전문분야", "책임정도", "공사(용역)금액"},
		{"시설물 종류", "비고", "", ""},
	}
}

func group(name, client, period, days, kind, task string) [][]string {
	return [][]string{
		{name, client, period, days},
		{kind, "토목", task, "과장"},
		{"", "", "참여기술인", ""},
		{"", "", "", ""},
	}
}

func certificate() extract.Document {
	table := header()
	table = append(table, group("△△하천정비사업", "경기도", "2020.01.01 ~ 2020.06.30", "(182일)(182일)", "하천", "공사감독")...)
	table = append(table, group("아파트 신축공사", "OO건설", "2021.01.01 ~ 2021.03.31", "(900일)(90일)", "건축", "공사감독")...)
	table = append(table, group("", "", "", "", "", "")...)

	return extract.Document{
		Language: "kor",
		Pages: []extract.RawPage{
			{Index: 0, Text: "성명: 홍길동", Method: extract.MethodNative, Table: table},
			{Index: 1, Method: extract.MethodNativeEmpty, Warning: "tesseract failed"},
		},
	}
}

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primary.json")
	data := `[{"engineer_name":"홍길동","project_name":"OO하천정비사업","client":"서울특별시 강남구청",
		"start_date":"2019-01-01","end_date":"2019-12-31","original_fields":["하천"],"roles":"공사감독"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadCertificateCollectsIssues(t *testing.T) {
	t.Parallel()

	loader := NewLoader(stubExtractor{doc: certificate()}, nil, normalize.Options{}, zap.NewNop())
	doc, err := loader.Load(context.Background(), "career.pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "홍길동", doc.Projects[0].Entry.PersonName)
	assert.Equal(t, "2020-01-01", doc.Projects[0].Entry.StartDate)
	assert.Equal(t, 90, doc.Projects[1].RecognizedDays)

	kinds := map[IssueKind]int{}
	for _, issue := range doc.Issues {
		kinds[issue.Kind]++
	}
	assert.Equal(t, 1, kinds[PageRecognitionFailure])
	assert.Equal(t, 1, kinds[ParseSkip])
	assert.Equal(t, 1, kinds[DayCountMismatch])
	assert.Zero(t, kinds[ExtractionFailure])
}

func TestLoadPositionalDatesIssuePerPage(t *testing.T) {
	t.Parallel()

	table := header()
	table = append(table, group("학성교가설공사", "울산시청", "", "", "도로", "시공")...)
	table = append(table, group("번영로확장공사", "울산광역시", "", "", "도로", "감리")...)
	doc := extract.Document{Pages: []extract.RawPage{{
		Index:  2,
		Text:   "1981.02.11 ~ 1981.05.31 (110일)",
		Method: extract.MethodNative,
		Table:  table,
	}}}

	loaded, err := NewLoader(stubExtractor{doc: doc}, nil, normalize.Options{}, nil).Load(context.Background(), "career.pdf")
	require.NoError(t, err)
	require.Len(t, loaded.Projects, 2)

	var positional []Issue
	for _, issue := range loaded.Issues {
		if issue.Kind == DateAmbiguity && strings.Contains(issue.Detail, "by position") {
			positional = append(positional, issue)
		}
	}
	require.Len(t, positional, 1)
	assert.Equal(t, 3, positional[0].Page)
	assert.Equal(t, "1 date blocks for 2 entries, dates assigned by position", positional[0].Detail)
}

func TestLoadUnreadableDocument(t *testing.T) {
	t.Parallel()

	loader := NewLoader(stubExtractor{err: fmt.Errorf("%w: empty", extract.ErrUnreadable)}, nil, normalize.Options{}, nil)
	_, err := loader.Load(context.Background(), "scan.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrUnreadable))
}

func TestLoadRecordsAppliesFilters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.json")
	data := `[{"project_name":"하천 정비","start_date":"2020-01-01","end_date":"2020-01-31"},
		{"project_name":"하천 정비","start_date":"2020-01-01","end_date":"2020-01-31"},
		{"start_date":"2020-02-01"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	filters := filtering.New([]filtering.Filter{filtering.NewRequiredFields(), filtering.NewDuplicates()}, nil)
	doc, err := NewLoader(nil, filters, normalize.Options{}, nil).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, doc.Projects, 1)
	assert.Equal(t, 31, doc.Projects[0].ParticipatedDays)
	require.Len(t, doc.Filters, 2)
	assert.Nil(t, doc.Extraction)
}

type failingJudge struct{}

func (failingJudge) Judge(context.Context, ai.Criteria, []ai.Candidate) ([]ai.Verdict, error) {
	return nil, errors.New("quota exceeded")
}

func TestRun(t *testing.T) {
	t.Parallel()

	catalogue, err := rules.Default()
	require.NoError(t, err)

	loader := NewLoader(stubExtractor{doc: certificate()}, nil, normalize.Options{}, nil)
	classifier := classify.New(classify.Config{Strategy: classify.StrategyService}, failingJudge{}, nil)
	runner := NewRunner(loader, catalogue, classifier, []string{"made.up"}, score.DefaultConfig(), nil)

	res, err := runner.Run(context.Background(), writeRecords(t), "career.pdf")
	require.NoError(t, err)

	require.Len(t, res.Matched, 1)
	assert.True(t, res.Matched[0].Matches.Has("sangju.field.river"))
	assert.Contains(t, res.RuleIDs, "sangju.field.river")
	assert.Equal(t, []string{"made.up"}, res.UnknownRules)
	assert.Equal(t, []string{"하천"}, res.Criteria.WorkTypes)

	require.Len(t, res.Results, 2)
	assert.True(t, res.Results[0].Relevant)
	assert.True(t, res.Results[0].Evidence.Fallback)
	assert.False(t, res.Results[1].Relevant)
	assert.Len(t, res.Relevant(), 1)
	assert.Len(t, res.Other(), 1)

	assert.Equal(t, 182, res.Summary.Relevant.RawDays)
	assert.Equal(t, 90, res.Summary.Other.RawDays)
	assert.Equal(t, 54, res.Summary.Other.WeightedDays)

	var service int
	for _, issue := range res.Issues {
		if issue.Kind == ClassificationServiceFailure {
			service++
		}
	}
	assert.Equal(t, 1, service)
}

func TestRunSingleDocument(t *testing.T) {
	t.Parallel()

	catalogue, err := rules.Default()
	require.NoError(t, err)

	loader := NewLoader(nil, nil, normalize.Options{}, nil)
	runner := NewRunner(loader, catalogue, classify.New(classify.Config{}, nil, nil), nil, score.DefaultConfig(), nil)

	res, err := runner.Run(context.Background(), writeRecords(t), "")
	require.NoError(t, err)
	assert.Same(t, res.Primary, res.Secondary)
	require.Len(t, res.Relevant(), 1)
	assert.Equal(t, 365, res.Summary.Relevant.RawDays)
}
