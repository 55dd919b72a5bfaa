package normalize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/rules"
)

func TestClassifyClient(t *testing.T) {
	t.Parallel()

	cases := map[string]ClientType{
		"서울특별시 강남구청":  ClientMunicipal,
		"수원 시청":       ClientMunicipal,
		"경기도":         ClientMetropolitan,
		"부산광역시":       ClientMetropolitan,
		"한국도로공사":      ClientPublicCorp,
		"한국농어촌공단":     ClientPublicCorp,
		"국토교통부 서울국토관리청": ClientNational,
		"(주)대한엔지니어링":  ClientPrivate,
		"㈜한빛":         ClientPrivate,
		"어딘가":         ClientOther,
		"":            ClientOther,
	}

	for name, want := range cases {
		assert.Equal(t, want, ClassifyClient(name), name)
	}
}

func TestMultiUnmarshal(t *testing.T) {
	t.Parallel()

	var v struct {
		A Multi `json:"a"`
		B Multi `json:"b"`
		C Multi `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"도로, 하천 / 상수도","b":["공사감독"," 설계 "],"c":null}`), &v))

	assert.False(t, v.A.IsList())
	assert.Equal(t, []string{"도로", "하천", "상수도"}, v.A.Items())
	assert.True(t, v.B.IsList())
	assert.Equal(t, []string{"공사감독", "설계"}, v.B.Items())
	assert.Empty(t, v.C.Items())

	require.Error(t, json.Unmarshal([]byte(`{"a":12}`), &v))
}

func TestSetPrimary(t *testing.T) {
	t.Parallel()

	s := NewSet(One("도로; 하천\n도로"), "교량")
	assert.Equal(t, "교량", s.Primary())
	assert.True(t, s.Contains("교량"))
	assert.ElementsMatch(t, []string{"교량", "도로", "하천"}, s.Members())

	s = NewSet(Many("하천", "도로"), "")
	assert.Equal(t, "하천", s.Primary())

	s = NewSet(Many(), "")
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.Primary())
}

func TestInferLogic(t *testing.T) {
	t.Parallel()

	l := InferLogic("하천", ClientMunicipal, "", "", Options{})
	assert.Equal(t, Logic{
		UseDateType:               DateTypeParticipation,
		DutyField1:                "토목",
		DutyField2:                "토목",
		Specialty:                 "수자원개발",
		DutyField1EvalMethod:      EvalByDuty,
		DutyField2EvalMethod:      EvalSameAsSangju,
		TechEvalMethod:            EvalUseSpecialty,
		DutyField1RecognitionRule: RecognitionOnlyFilled,
		DutyField2RecognitionRule: RecognitionOnlyFilled,
		RecognitionRateRule:       RateCivil60,
	}, l)

	l = InferLogic("조경", ClientPrivate, "", "", Options{})
	assert.Equal(t, "조경", l.DutyField1)
	assert.Equal(t, "토목시공", l.Specialty)
	assert.Empty(t, l.RecognitionRateRule)

	l = InferLogic("우주정거장", ClientPublicCorp, "건축", "건축시공", Options{DateType: DateTypeRecognition, RecognitionRule: RecognitionIncludeBlankDuty})
	assert.Equal(t, "건축", l.DutyField1)
	assert.Equal(t, "건축시공", l.Specialty)
	assert.Equal(t, DateTypeRecognition, l.UseDateType)
	assert.Equal(t, RecognitionIncludeBlankDuty, l.DutyField2RecognitionRule)
	assert.Equal(t, RateCivil60, l.RecognitionRateRule)
}

func TestNormalizeEntry(t *testing.T) {
	t.Parallel()

	n := New(Options{}, nil)
	p := n.Normalize(FromEntry(entry.CareerEntry{
		ProjectName:      "OO지방하천 정비사업",
		Client:           " 서울특별시 강남구청 ",
		ProjectType:      "하천",
		FacilityType:     "제방",
		Task:             "공사감독",
		RecognizedDays:   "(110일)",
		ParticipatedDays: "(936일)",
	}))

	assert.Equal(t, "서울특별시 강남구청", p.ClientRaw)
	assert.Equal(t, ClientMunicipal, p.ClientType)
	assert.Equal(t, "서울특별시 강남구청 기초자치단체", p.Client())
	assert.Equal(t, "하천", p.Fields.Primary())
	assert.True(t, p.Fields.Contains("제방"))
	assert.Equal(t, 110, p.RecognizedDays)
	assert.Equal(t, 936, p.ParticipatedDays)
	assert.Equal(t, 936, p.Days())

	v, ok := p.Field("original_fields")
	require.True(t, ok)
	assert.True(t, v.IsSet())
	assert.Equal(t, "하천", v.Primary())

	_, ok = p.Field("no_such_field")
	assert.False(t, ok)
}

func TestNormalizedProjectAgainstCatalogue(t *testing.T) {
	t.Parallel()

	c, err := rules.Default()
	require.NoError(t, err)

	p := New(Options{}, nil).Normalize(FromEntry(entry.CareerEntry{
		ProjectName: "OO지방하천 정비사업",
		Client:      "강남구청",
		ProjectType: "하천",
		Task:        "공사감독",
	}))

	m := c.Evaluate(p)
	assert.True(t, m.Has("sangju.field.river"))
	assert.True(t, m.Has("sangju.duty.construction_supervision"))
	assert.True(t, m.Has("sangju.field.river.detail.civil_60"))
	assert.True(t, m.Has("date.use_participation"))
	assert.True(t, m.Has("tech.eval.use_specialty"))
	assert.False(t, m.Has("orderer.blank"))
}

func TestDecodeRecords(t *testing.T) {
	t.Parallel()

	records, err := DecodeRecords([]byte(`{"engineer_name":"홍길동","project_name":"국도 확장","client":"한국도로공사",
		"original_fields":"도로, 교량","primary_original_field":"교량","roles":["공사감독"],"participated_days":120}`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	src := records[0].Source(0)
	assert.Equal(t, "(120일)", src.Entry.ParticipatedDays)

	p := New(Options{}, nil).Normalize(src)
	assert.Equal(t, "교량", p.Fields.Primary())
	assert.ElementsMatch(t, []string{"도로", "교량"}, p.Fields.Members())
	assert.Equal(t, "공사감독", p.Roles.Primary())
	assert.Equal(t, ClientPublicCorp, p.ClientType)
	assert.Equal(t, 120, p.ParticipatedDays)

	_, err = DecodeRecords([]byte(`[]`))
	require.ErrorIs(t, err, ErrNoRecords)

	_, err = DecodeRecords([]byte(`"nope"`))
	require.Error(t, err)
}

func TestLoadSources(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"project_name":"a"},{"project_name":"b","roles":"설계/감리"}]`), 0o600))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, 1, sources[1].Entry.Provenance.Sequence)
	assert.Equal(t, "설계, 감리", sources[1].Entry.Task)
}
