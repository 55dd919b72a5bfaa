package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdicts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []Verdict
	}{
		{
			name: "plain list",
			raw:  `[{"index":0,"relevant":true,"reason":"하천 공사감독"},{"index":1,"relevant":false,"reason":"무관"}]`,
			want: []Verdict{{Index: 0, Relevant: true, Reason: "하천 공사감독"}, {Index: 1, Relevant: false, Reason: "무관"}},
		},
		{
			name: "single object is wrapped",
			raw:  `{"index":3,"relevant":"yes","reason":" ok "}`,
			want: []Verdict{{Index: 3, Relevant: true, Reason: "ok"}},
		},
		{
			name: "fenced and wrapped under verdicts",
			raw:  "```json\n{\"verdicts\":[{\"index\":\"2\",\"is_relevant\":1,\"justification\":\"x\"}]}\n```",
			want: []Verdict{{Index: 2, Relevant: true, Reason: "x"}},
		},
		{
			name: "items without index are dropped",
			raw:  `[{"relevant":true},{"index":1,"relevant":false}]`,
			want: []Verdict{{Index: 1}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVerdicts(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseVerdictsRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "the entries look fine", `[]`, `[1,2]`, `"true"`} {
		_, err := ParseVerdicts(raw)
		assert.ErrorIs(t, err, ErrNoVerdicts, raw)
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := BuildPrompt(
		Criteria{WorkTypes: []string{"하천"}, AllowBlankRole: true},
		[]Candidate{{Index: 0, ProjectName: "OO하천정비사업"}},
	)
	require.NoError(t, err)

	assert.Contains(t, prompt, `"하천"`)
	assert.Contains(t, prompt, `"allow_blank_role": true`)
	assert.Contains(t, prompt, "OO하천정비사업")
	assert.False(t, strings.Contains(prompt, "{{"), "placeholders left in prompt")
}
