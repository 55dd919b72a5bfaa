package normalize

import "strings"

// ClientType is the ordering-organisation category.
type ClientType string

const (
	ClientNational     ClientType = "국가"
	ClientMetropolitan ClientType = "광역자치단체"
	ClientMunicipal    ClientType = "기초자치단체"
	ClientPublicCorp   ClientType = "정부투자기관"
	ClientPrivate      ClientType = "민간"
	ClientOther        ClientType = "기타"
)

type clientKeywords struct {
	kind     ClientType
	keywords []string
}

// First match wins. 기초 is checked before 광역 so "서울특별시 강남구청" lands on the district office.
var clientTable = []clientKeywords{
	{ClientMunicipal, []string{"기초자치단체", "시청", "구청", "군청", "군"}},
	{ClientMetropolitan, []string{"광역자치단체", "도청", "특별시", "광역시", "경기도", "경기도건설본부"}},
	{ClientPublicCorp, []string{"정부투자기관", "공사", "공단", "한국도로공사"}},
	{ClientNational, []string{"국토교통부", "국토관리청", "국가", "환경부"}},
	{ClientPrivate, []string{"주식회사", "(주)", "㈜", "유한회사"}},
}

// ClassifyClient maps a raw client name to its category. Whitespace is ignored.
func ClassifyClient(name string) ClientType {
	compact := strings.Join(strings.Fields(name), "")
	if compact == "" {
		return ClientOther
	}
	for _, row := range clientTable {
		for _, kw := range row.keywords {
			if strings.Contains(compact, kw) {
				return row.kind
			}
		}
	}
	return ClientOther
}
