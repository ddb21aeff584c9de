package standalone

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/logging"
)

// Server is a running mock server.
type Server interface {
	// URLs returns the effective listen addresses.
	URLs() []string
	Stop() error
}

// Engine starts a mock server from a configuration.
type Engine interface {
	Start(cfg config.ServerConfiguration) (Server, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(cfg config.ServerConfiguration) (Server, error)

// Start calls f(cfg).
func (f EngineFunc) Start(cfg config.ServerConfiguration) (Server, error) {
	return f(cfg)
}

// Launcher runs the bootstrap sequence: parse, build, report, start.
type Launcher struct {
	engine Engine
	out    io.Writer
	usage  io.Writer
	log    *slog.Logger
	hooks  []func(*config.ServerConfiguration)
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithOutput sets where the settings dump and the listening line are
// written. Defaults to os.Stdout.
func WithOutput(w io.Writer) LauncherOption {
	return func(l *Launcher) {
		l.out = w
	}
}

// WithUsageOutput sets where parse errors and usage are written. Defaults
// to the launcher output.
func WithUsageOutput(w io.Writer) LauncherOption {
	return func(l *Launcher) {
		l.usage = w
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.log = logging.Component(log, "standalone")
	}
}

// WithConfigHook registers a function applied to the built configuration
// before it is reported and started. Hooks run in registration order.
func WithConfigHook(fn func(*config.ServerConfiguration)) LauncherOption {
	return func(l *Launcher) {
		if fn != nil {
			l.hooks = append(l.hooks, fn)
		}
	}
}

// NewLauncher creates a Launcher around engine.
func NewLauncher(engine Engine, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		engine: engine,
		out:    os.Stdout,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.usage == nil {
		l.usage = l.out
	}
	return l
}

// StartArgs parses args, builds the configuration and starts the server.
// Parse failures are returned as *ParseError after the usage synopsis has
// been written; the engine is not called. Start failures are returned
// unchanged.
func (l *Launcher) StartArgs(args []string) (Server, error) {
	opts, err := Parse(args, l.usage)
	if err != nil {
		return nil, err
	}

	cfg := BuildConfiguration(*opts)
	for _, hook := range l.hooks {
		hook(&cfg)
	}
	l.reportSettings(cfg)

	srv, err := l.start(cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(l.out, "mockd server listening at %s\n", strings.Join(srv.URLs(), " and "))
	return srv, nil
}

// Start starts the server from a pre-built configuration, bypassing
// argument parsing.
func (l *Launcher) Start(cfg config.ServerConfiguration) (Server, error) {
	return l.start(cfg)
}

func (l *Launcher) start(cfg config.ServerConfiguration) (Server, error) {
	if l.engine == nil {
		return nil, ErrNoEngine
	}
	l.log.Debug("starting server", "config", cfg.String())
	srv, err := l.engine.Start(cfg)
	if err != nil {
		l.log.Debug("server start failed", "error", err)
		return nil, err
	}
	l.log.Info("server started", "urls", srv.URLs())
	return srv, nil
}

func (l *Launcher) reportSettings(cfg config.ServerConfiguration) {
	if cfg.AdminPassword != "" {
		cfg.AdminPassword = "********"
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		l.log.Warn("failed to render settings", "error", err)
		return
	}
	fmt.Fprintf(l.out, "mockd server settings %s\n", data)
}
