package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/spigell/career-checker/internal/ai"
)

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"content": content}}},
	})
	return string(body)
}

func TestClientJudge(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_, _ = io.WriteString(w, completion(`[{"index":0,"relevant":true,"reason":"하천"},{"index":1,"relevant":false,"reason":"도로"}]`))
	}))
	defer srv.Close()

	c, err := New("key", Config{BaseURL: srv.URL, Model: "test/model"}, nil)
	require.NoError(t, err)

	verdicts, err := c.Judge(context.Background(), ai.Criteria{WorkTypes: []string{"하천"}}, []ai.Candidate{
		{Index: 0, ProjectName: "OO하천정비사업"},
		{Index: 1, ProjectName: "국도 확장"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer key", gotAuth)
	assert.Equal(t, "test/model", gjson.Get(gotBody, "model").String())
	assert.Contains(t, gjson.Get(gotBody, "messages.1.content").String(), "OO하천정비사업")
	assert.Equal(t, []ai.Verdict{
		{Index: 0, Relevant: true, Reason: "하천"},
		{Index: 1, Relevant: false, Reason: "도로"},
	}, verdicts)
}

func TestClientJudgeErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		noVerds bool
	}{
		{name: "server error", status: http.StatusBadGateway, body: `{"error":{"message":"upstream"}}`},
		{name: "empty content", status: http.StatusOK, body: completion(""), noVerds: true},
		{name: "prose content", status: http.StatusOK, body: completion("looks relevant to me"), noVerds: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c, err := New("key", Config{BaseURL: srv.URL}, nil)
			require.NoError(t, err)

			_, err = c.Judge(context.Background(), ai.Criteria{}, []ai.Candidate{{Index: 0}})
			require.Error(t, err)
			if tc.noVerds {
				assert.True(t, errors.Is(err, ai.ErrNoVerdicts))
			}
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("  ", Config{}, nil)
	require.Error(t, err)
}
