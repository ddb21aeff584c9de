package standalone

import (
	"errors"
	"flag"
)

// ErrNoEngine is returned when a Launcher has no engine to start.
var ErrNoEngine = errors.New("no server engine configured")

// ParseError reports command-line input that does not match the flag
// registry. Err holds the underlying cause when there is one.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsHelp reports whether err is a request for the usage synopsis.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
