package matching

import (
	"net/http"
	"strings"
)

// Criteria are the request conditions of a stub mapping. Empty fields are
// not evaluated.
type Criteria struct {
	// Methods lists accepted methods; any one of them satisfies the criterion.
	Methods []string
	// Path is an exact path or a doublestar glob.
	Path string
	// PathPattern is an RE2 regular expression matched against the path.
	PathPattern string
	// Headers must all be present; values support *prefix, suffix* and *middle* wildcards.
	Headers map[string]string
	// Params are query parameters that must all be present with equal values.
	Params       map[string]string
	BodyEquals   string
	BodyContains string
	// BodyJSONPath maps JSONPath expressions to expected values.
	BodyJSONPath map[string]any
}

// Result is the outcome of evaluating a request against Criteria.
type Result struct {
	// Score is the summed weight of satisfied criteria.
	Score int
	// Max is the summed weight of every declared criterion.
	Max int
}

// Full reports whether every declared criterion was satisfied.
func (r Result) Full() bool {
	return r.Score == r.Max
}

// Ratio returns the satisfied share of the declared weight, in [0, 1].
// Criteria with nothing declared match everything.
func (r Result) Ratio() float64 {
	if r.Max == 0 {
		return 1
	}
	return float64(r.Score) / float64(r.Max)
}

// Evaluate scores r and its already-read body against c.
func Evaluate(c Criteria, r *http.Request, body []byte) Result {
	var res Result
	add := func(weight int, ok bool) {
		res.Max += weight
		if ok {
			res.Score += weight
		}
	}

	if len(c.Methods) > 0 {
		add(ScoreMethod, MatchMethod(c.Methods, r.Method))
	}

	if c.Path != "" {
		add(PathWeight(c.Path), MatchPath(c.Path, r.URL.Path))
	}

	if c.PathPattern != "" {
		add(ScorePathPattern, MatchPathPattern(c.PathPattern, r.URL.Path))
	}

	for name, value := range c.Headers {
		add(ScoreHeader, MatchHeaderPattern(name, value, r.Header))
	}

	if len(c.Params) > 0 {
		query := r.URL.Query()
		for name, value := range c.Params {
			_, present := query[name]
			add(ScoreQueryParam, present && query.Get(name) == value)
		}
	}

	if c.BodyEquals != "" {
		add(ScoreBodyEquals, string(body) == c.BodyEquals)
	}

	if c.BodyContains != "" {
		add(ScoreBodyContains, strings.Contains(string(body), c.BodyContains))
	}

	if len(c.BodyJSONPath) > 0 {
		jp := MatchJSONPath(c.BodyJSONPath, body)
		res.Max += ScoreJSONPathCondition * len(c.BodyJSONPath)
		res.Score += jp.Score
	}

	return res
}

// MatchMethod reports whether actual is one of the accepted methods.
// Comparison is case-insensitive; "ANY" and "*" accept every method.
func MatchMethod(accepted []string, actual string) bool {
	for _, m := range accepted {
		if m == "*" || strings.EqualFold(m, "ANY") || strings.EqualFold(m, actual) {
			return true
		}
	}
	return false
}

// MatchHeaderPattern checks if a header matches a pattern.
// Supports simple prefix (prefix*), suffix (*suffix), and contains (*middle*) patterns.
func MatchHeaderPattern(name, pattern string, headers http.Header) bool {
	actualValue := headers.Get(name)
	if actualValue == "" {
		return false
	}

	// Exact match
	if !strings.Contains(pattern, "*") {
		return actualValue == pattern
	}

	starts, ends := strings.HasPrefix(pattern, "*"), strings.HasSuffix(pattern, "*")
	switch {
	case starts && ends:
		return strings.Contains(actualValue, strings.Trim(pattern, "*"))
	case ends:
		return strings.HasPrefix(actualValue, strings.TrimSuffix(pattern, "*"))
	case starts:
		return strings.HasSuffix(actualValue, strings.TrimPrefix(pattern, "*"))
	}
	return false
}
