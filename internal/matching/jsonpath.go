package matching

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ohler55/ojg/jp"
)

// JSONPathResult contains the results of JSONPath matching.
type JSONPathResult struct {
	// Score is ScoreJSONPathCondition per matched condition.
	Score int
	// Matched is the number of satisfied conditions.
	Matched int
}

// MatchJSONPath evaluates JSONPath conditions against a JSON body. Each
// condition is scored on its own so partial matches can be ranked. A body
// that is not valid JSON satisfies nothing.
func MatchJSONPath(conditions map[string]any, body []byte) JSONPathResult {
	if len(conditions) == 0 {
		return JSONPathResult{}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return JSONPathResult{}
	}

	var result JSONPathResult
	for path, expected := range conditions {
		if matchSingleJSONPath(path, expected, data) {
			result.Matched++
			result.Score += ScoreJSONPathCondition
		}
	}
	return result
}

// matchSingleJSONPath evaluates a single JSONPath condition.
func matchSingleJSONPath(path string, expected any, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false
	}

	results := expr.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		return exists == (len(results) > 0)
	}

	// For wildcard paths that return multiple results, any match counts
	for _, result := range results {
		if valuesEqual(result, expected) {
			return true
		}
	}
	return false
}

// existenceCheck recognises {"exists": bool} conditions.
func existenceCheck(expected any) (exists bool, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	v, has := m["exists"]
	if !has {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// valuesEqual compares two values for equality, handling numeric coercion.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if reflect.DeepEqual(actual, expected) {
		return true
	}

	// JSON numbers decode as float64; YAML mappings may carry ints.
	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression validates a JSONPath expression at load time.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}
