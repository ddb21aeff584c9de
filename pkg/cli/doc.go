// Package cli provides the command-line interface for mockd-standalone.
//
// The root command owns no flags of its own: every argument is handed to the
// standalone flag registry, which reports errors and usage in its own terms.
// The server runs until SIGINT or SIGTERM.
//
// Ambient settings come from the environment (see config.LoadEnvironment):
//   - MOCKD_LOG_LEVEL: debug, info, warn, error
//   - MOCKD_LOG_FORMAT: text or json
//   - MOCKD_MAPPINGS_DIR: static and recorded mappings directory
//   - MOCKD_CERTIFICATE_DIR: proxy client certificate directory
//
// A .env file in the working directory is read first.
package cli
