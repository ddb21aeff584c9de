package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/engine"
	"github.com/getmockd/mockd-standalone/pkg/logging"
	"github.com/getmockd/mockd-standalone/pkg/standalone"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// Main runs the CLI with args and returns the process exit code.
func Main(args []string) int {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		// Parse errors were already written together with the usage.
		var perr *standalone.ParseError
		if !errors.As(err, &perr) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Output goes to stdout; operational
// logs and errors go to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   standalone.ProgramName + " [flags]",
		Short: "mockd-standalone runs a mock HTTP server configured from the command line",
		Long: `mockd-standalone starts a mock HTTP server that serves stub mappings,
records unmatched requests through an optional proxy, and exposes an admin
API under /__admin.

Flags use the single-dash form, for example:

  mockd-standalone -Port 8080 -ProxyURL https://api.example.com

Run "mockd-standalone -help" for the list of flags.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true, // Main reports errors
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), args, stdout, stderr)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	// No "help" subcommand: positional arguments belong to the flag parser.
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newVersionCmd())
	return root
}

// serve starts the server from args and blocks until ctx is done or the
// process is signalled.
func serve(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env, err := config.LoadEnvironment(".")
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(env.LogLevel),
		Format: logging.ParseFormat(env.LogFormat),
		Output: stderr,
	})

	launcher := standalone.NewLauncher(
		standalone.EngineFunc(func(cfg config.ServerConfiguration) (standalone.Server, error) {
			srv, err := engine.Start(cfg, engine.WithLogger(log))
			if err != nil {
				return nil, err
			}
			return srv, nil
		}),
		standalone.WithOutput(stdout),
		standalone.WithLogger(log),
		standalone.WithConfigHook(env.Apply),
	)

	srv, err := launcher.StartArgs(args)
	if err != nil {
		if standalone.IsHelp(err) {
			// Usage has been written.
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := srv.Stop(); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
