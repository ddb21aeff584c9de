package matching

import (
	"testing"
)

func TestMatchJSONPath(t *testing.T) {
	tests := []struct {
		name        string
		conditions  map[string]any
		body        string
		wantMatched int
	}{
		{
			name:        "simple string field match",
			conditions:  map[string]any{"$.status": "active"},
			body:        `{"status": "active", "name": "test"}`,
			wantMatched: 1,
		},
		{
			name:        "simple string field mismatch",
			conditions:  map[string]any{"$.status": "active"},
			body:        `{"status": "inactive"}`,
			wantMatched: 0,
		},
		{
			name:        "number field match with int expectation",
			conditions:  map[string]any{"$.count": 42},
			body:        `{"count": 42}`,
			wantMatched: 1,
		},
		{
			name:        "null field match",
			conditions:  map[string]any{"$.deleted": nil},
			body:        `{"deleted": null}`,
			wantMatched: 1,
		},
		{
			name:        "wildcard array match",
			conditions:  map[string]any{"$.items[*].id": "b"},
			body:        `{"items": [{"id": "a"}, {"id": "b"}]}`,
			wantMatched: 1,
		},
		{
			name:        "exists true",
			conditions:  map[string]any{"$.token": map[string]any{"exists": true}},
			body:        `{"token": "x"}`,
			wantMatched: 1,
		},
		{
			name:        "exists false",
			conditions:  map[string]any{"$.token": map[string]any{"exists": false}},
			body:        `{"other": 1}`,
			wantMatched: 1,
		},
		{
			name:        "exists false but present",
			conditions:  map[string]any{"$.token": map[string]any{"exists": false}},
			body:        `{"token": 1}`,
			wantMatched: 0,
		},
		{
			name:        "invalid json body",
			conditions:  map[string]any{"$.a": "b"},
			body:        `not json`,
			wantMatched: 0,
		},
		{
			name:        "invalid expression",
			conditions:  map[string]any{"$[[": "b"},
			body:        `{"a": "b"}`,
			wantMatched: 0,
		},
		{
			name: "conditions scored independently",
			conditions: map[string]any{
				"$.a": "x",
				"$.b": "y",
				"$.c": "z",
			},
			body:        `{"a": "x", "b": "y", "c": "nope"}`,
			wantMatched: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchJSONPath(tt.conditions, []byte(tt.body))
			if got.Matched != tt.wantMatched {
				t.Errorf("Matched = %d, want %d", got.Matched, tt.wantMatched)
			}
			if got.Score != tt.wantMatched*ScoreJSONPathCondition {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantMatched*ScoreJSONPathCondition)
			}
		})
	}
}

func TestValidateJSONPathExpression(t *testing.T) {
	if err := ValidateJSONPathExpression("$.user.name"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateJSONPathExpression("$[["); err == nil {
		t.Error("expected error for invalid expression")
	}
}
