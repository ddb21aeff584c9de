package matching

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRequest(method, target, body string) *http.Request {
	return httptest.NewRequest(method, target, strings.NewReader(body))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		criteria  Criteria
		req       *http.Request
		body      string
		wantScore int
		wantMax   int
		wantFull  bool
	}{
		{
			name:     "no criteria matches everything",
			req:      newRequest("GET", "/anything", ""),
			wantFull: true,
		},
		{
			name:      "method and exact path",
			criteria:  Criteria{Methods: []string{"GET"}, Path: "/api/users"},
			req:       newRequest("GET", "/api/users", ""),
			wantScore: ScoreMethod + ScorePathExact,
			wantMax:   ScoreMethod + ScorePathExact,
			wantFull:  true,
		},
		{
			name:      "method mismatch is partial",
			criteria:  Criteria{Methods: []string{"POST"}, Path: "/api/users"},
			req:       newRequest("GET", "/api/users", ""),
			wantScore: ScorePathExact,
			wantMax:   ScoreMethod + ScorePathExact,
		},
		{
			name:      "glob path",
			criteria:  Criteria{Path: "/api/**"},
			req:       newRequest("GET", "/api/users/1/orders", ""),
			wantScore: ScorePathGlob,
			wantMax:   ScorePathGlob,
			wantFull:  true,
		},
		{
			name:      "path pattern",
			criteria:  Criteria{PathPattern: `^/users/\d+$`},
			req:       newRequest("GET", "/users/42", ""),
			wantScore: ScorePathPattern,
			wantMax:   ScorePathPattern,
			wantFull:  true,
		},
		{
			name:      "query params",
			criteria:  Criteria{Params: map[string]string{"page": "2", "size": "10"}},
			req:       newRequest("GET", "/items?page=2&size=20", ""),
			wantScore: ScoreQueryParam,
			wantMax:   2 * ScoreQueryParam,
		},
		{
			name:      "body equals and contains",
			criteria:  Criteria{BodyEquals: "hello world", BodyContains: "world"},
			req:       newRequest("POST", "/", ""),
			body:      "hello world",
			wantScore: ScoreBodyEquals + ScoreBodyContains,
			wantMax:   ScoreBodyEquals + ScoreBodyContains,
			wantFull:  true,
		},
		{
			name:      "body contains mismatch",
			criteria:  Criteria{BodyContains: "absent"},
			req:       newRequest("POST", "/", ""),
			body:      "hello",
			wantScore: 0,
			wantMax:   ScoreBodyContains,
		},
		{
			name: "json path partially satisfied",
			criteria: Criteria{BodyJSONPath: map[string]any{
				"$.user.name": "alice",
				"$.user.age":  float64(30),
			}},
			req:       newRequest("POST", "/", ""),
			body:      `{"user":{"name":"alice","age":31}}`,
			wantScore: ScoreJSONPathCondition,
			wantMax:   2 * ScoreJSONPathCondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.criteria, tt.req, []byte(tt.body))
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantMax, got.Max)
			assert.Equal(t, tt.wantFull, got.Full())
		})
	}
}

func TestEvaluate_Headers(t *testing.T) {
	req := newRequest("GET", "/", "")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Request-Id", "abc-123")

	c := Criteria{Headers: map[string]string{
		"content-type": "application/json*",
		"X-Request-Id": "*-123",
	}}
	got := Evaluate(c, req, nil)
	assert.True(t, got.Full())
	assert.Equal(t, 2*ScoreHeader, got.Score)
}

func TestResult_Ratio(t *testing.T) {
	assert.Equal(t, 1.0, Result{}.Ratio())
	assert.Equal(t, 0.5, Result{Score: 10, Max: 20}.Ratio())
	assert.Equal(t, 0.0, Result{Score: 0, Max: 20}.Ratio())
}

func TestMatchMethod(t *testing.T) {
	assert.True(t, MatchMethod([]string{"get"}, "GET"))
	assert.True(t, MatchMethod([]string{"POST", "PUT"}, "PUT"))
	assert.True(t, MatchMethod([]string{"ANY"}, "DELETE"))
	assert.True(t, MatchMethod([]string{"*"}, "PATCH"))
	assert.False(t, MatchMethod([]string{"POST"}, "GET"))
}

func TestMatchHeaderPattern(t *testing.T) {
	h := http.Header{}
	h.Set("Accept", "application/json")

	tests := []struct {
		pattern string
		want    bool
	}{
		{"application/json", true},
		{"application/*", true},
		{"*/json", true},
		{"*cation/js*", true},
		{"text/*", false},
		{"application/xml", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchHeaderPattern("Accept", tt.pattern, h), tt.pattern)
	}
	assert.False(t, MatchHeaderPattern("Missing", "*", h))
}
