// Package logging builds the log/slog loggers shared by the bootstrapper and
// the engine.
//
// The CLI creates one logger from MOCKD_LOG_LEVEL and MOCKD_LOG_FORMAT (see
// config.LoadEnvironment) writing to stderr:
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(env.LogLevel),
//	    Format: logging.ParseFormat(env.LogFormat),
//	    Output: os.Stderr,
//	})
//
// Engine components take it through WithLogger options or setters, tag it
// with Component, and fall back to Nop when nothing was injected.
package logging
