package entry

import (
	"strings"
	"unicode"
)

// Field identifies a CareerEntry attribute a table key maps to.
type Field int

const (
	FieldUnknown Field = iota
	FieldPersonName
	FieldPeriod
	FieldStartDate
	FieldEndDate
	FieldDaysPair
	FieldRecognizedDays
	FieldParticipatedDays
	FieldProjectName
	FieldClient
	FieldProjectType
	FieldAppliedTech
	FieldTask
	FieldJobField
	FieldSpecialty
	FieldResponsibility
	FieldPosition
	FieldAmount
	FieldFacilityType
)

type synonyms struct {
	field Field
	keys  []string
}

// Checked in order; the first match wins, so keys that contain shorter keys of
// other fields must come first.
var vocabulary = []synonyms{
	{FieldDaysPair, []string{"인정일참여일", "인정일수참여일수"}},
	{FieldPeriod, []string{"참여기간", "공사기간", "용역기간", "근무기간", "기간"}},
	{FieldStartDate, []string{"착수일", "착공일", "시작일", "개시일"}},
	{FieldEndDate, []string{"종료일", "완료일", "준공일"}},
	{FieldRecognizedDays, []string{"인정일수", "인정일"}},
	{FieldParticipatedDays, []string{"참여일수", "참여일"}},
	{FieldPersonName, []string{"성명", "이름"}},
	{FieldProjectName, []string{"사업명", "용역명", "공사명", "과업명", "프로젝트"}},
	{FieldClient, []string{"발주자", "발주처", "발주기관", "발주청"}},
	{FieldAmount, []string{"공사금액", "용역금액", "사업비", "금액"}},
	{FieldFacilityType, []string{"시설물종류", "시설물"}},
	{FieldProjectType, []string{"공사종류", "공종", "사업개요", "공사개요", "과업개요"}},
	{FieldAppliedTech, []string{"적용공법", "적용기술", "신기술", "공법"}},
	{FieldTask, []string{"담당업무", "직무내용", "업무"}},
	{FieldJobField, []string{"직무분야", "직무"}},
	{FieldSpecialty, []string{"전문분야"}},
	{FieldResponsibility, []string{"책임정도", "책임"}},
	{FieldPosition, []string{"직위", "직책", "직급"}},
}

// normalizeKey drops whitespace and punctuation so that "공사(용역) 금액" and
// "공사용역금액" compare equal.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup matches a table key against the vocabulary. A synonym contained in
// the key wins; only when none is found, a key of two or more runes contained
// in a synonym matches.
func Lookup(key string) (Field, bool) {
	k := normalizeKey(key)
	if k == "" {
		return FieldUnknown, false
	}

	for _, entry := range vocabulary {
		for _, syn := range entry.keys {
			if strings.Contains(k, syn) {
				return entry.field, true
			}
		}
	}

	if len([]rune(k)) < 2 {
		return FieldUnknown, false
	}
	for _, entry := range vocabulary {
		for _, syn := range entry.keys {
			if strings.Contains(syn, k) {
				return entry.field, true
			}
		}
	}
	return FieldUnknown, false
}
