package normalize

import "strings"

const (
	DateTypeParticipation = "participation"
	DateTypeRecognition   = "recognition"

	EvalByDuty       = "by_duty"
	EvalSameAsSangju = "same_as_sangju"
	EvalUseSpecialty = "use_specialty"

	RecognitionOnlyFilled        = "only_filled"
	RecognitionIncludeBlankField = "include_blank_field"
	RecognitionIncludeBlankDuty  = "include_blank_duty"

	RateCivil60 = "civil_60"

	defaultDutyField = "토목"
	defaultSpecialty = "토목시공"
)

var dutyFieldByWorkType = map[string]string{
	"도로":   "토목",
	"하천":   "토목",
	"상수도":  "토목",
	"하수도":  "토목",
	"철도":   "토목",
	"단지":   "토목",
	"항만":   "토목",
	"기타토목": "토목",
	"토목":   "토목",
	"조경":   "조경",
}

var specialtyByWorkType = map[string]string{
	"도로":  "도로및공항",
	"철도":  "철도삭도",
	"상수도": "상하수도",
	"하수도": "상하수도",
	"항만":  "항만및해안",
	"하천":  "수자원개발",
	"토목":  "토목시공",
}

// Logic holds the derived attributes rules are written against.
type Logic struct {
	UseDateType               string `json:"use_date_type"`
	DutyField1                string `json:"duty_field1"`
	DutyField2                string `json:"duty_field2"`
	Specialty                 string `json:"specialty"`
	DutyField1EvalMethod      string `json:"duty_field1_eval_method"`
	DutyField2EvalMethod      string `json:"duty_field2_eval_method"`
	TechEvalMethod            string `json:"tech_eval_method"`
	DutyField1RecognitionRule string `json:"duty_field1_recognition_rule"`
	DutyField2RecognitionRule string `json:"duty_field2_recognition_rule"`
	RecognitionRateRule       string `json:"recognition_rate_rule"`
}

// Options tweaks the defaults of the derived attributes.
type Options struct {
	DateType        string `mapstructure:"date-type" validate:"omitempty,oneof=participation recognition"`
	RecognitionRule string `mapstructure:"recognition-rule" validate:"omitempty,oneof=only_filled include_blank_field include_blank_duty"`
}

// DutyFieldFor looks up the job field of a known work type.
func DutyFieldFor(workType string) (string, bool) {
	duty, ok := dutyFieldByWorkType[workTypeKey(workType)]
	return duty, ok
}

// SpecialtyFor looks up the specialty of a known work type.
func SpecialtyFor(workType string) (string, bool) {
	spec, ok := specialtyByWorkType[workTypeKey(workType)]
	return spec, ok
}

func workTypeKey(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// InferLogic fills every derived attribute. Unmapped work types fall back to defaults.
func InferLogic(primaryField string, client ClientType, jobField, specialty string, opts Options) Logic {
	duty, ok := DutyFieldFor(primaryField)
	if !ok {
		duty = defaultDutyField
	}
	if jf := strings.TrimSpace(jobField); jf != "" {
		duty = jf
	}

	spec, ok := SpecialtyFor(primaryField)
	if !ok {
		spec = defaultSpecialty
	}
	if s := strings.TrimSpace(specialty); s != "" {
		spec = s
	}

	dateType := opts.DateType
	if dateType == "" {
		dateType = DateTypeParticipation
	}
	recognition := opts.RecognitionRule
	if recognition == "" {
		recognition = RecognitionOnlyFilled
	}

	l := Logic{
		UseDateType:               dateType,
		DutyField1:                duty,
		DutyField2:                duty,
		Specialty:                 spec,
		DutyField1EvalMethod:      EvalByDuty,
		DutyField2EvalMethod:      EvalSameAsSangju,
		TechEvalMethod:            EvalUseSpecialty,
		DutyField1RecognitionRule: recognition,
		DutyField2RecognitionRule: recognition,
	}
	if client == ClientMunicipal || client == ClientPublicCorp {
		l.RecognitionRateRule = RateCivil60
	}
	return l
}
