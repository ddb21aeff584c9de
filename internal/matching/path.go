package matching

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// IsGlob reports whether a path contains doublestar meta characters.
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// PathWeight returns the weight a Path criterion contributes.
func PathWeight(pattern string) int {
	if IsGlob(pattern) {
		return ScorePathGlob
	}
	return ScorePathExact
}

// MatchPath checks if the request path matches pattern, either exactly or
// as a doublestar glob ("/api/*" matches one segment, "/api/**" any depth).
func MatchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !IsGlob(pattern) {
		return false
	}
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// ValidatePath reports a malformed glob pattern.
func ValidatePath(pattern string) error {
	if !IsGlob(pattern) {
		return nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return doublestar.ErrBadPattern
	}
	return nil
}

var patternCache sync.Map // map[string]*regexp.Regexp

// MatchPathPattern checks if the request path matches a regex pattern.
// Invalid patterns never match.
func MatchPathPattern(pattern, path string) bool {
	re, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// ValidatePathPattern checks if a regex pattern is valid.
func ValidatePathPattern(pattern string) error {
	_, err := compilePattern(pattern)
	return err
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
