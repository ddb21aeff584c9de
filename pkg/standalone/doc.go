// Package standalone turns command-line arguments into a
// config.ServerConfiguration and hands it to a mock server engine.
//
// The package has two halves. The argument parser declares every
// recognized flag in a data-driven registry (DefaultFlags) and parses raw
// tokens into Options, failing with a *ParseError and a usage synopsis on
// malformed input. The configuration builder and launcher map Options onto
// the server schema, applying the default listen URL, the port-over-URLs
// precedence and the optional proxy settings, then start the engine and
// report its listen addresses.
//
// The engine is reached only through the Engine interface, so the
// bootstrap sequence can be exercised with a fake:
//
//	launcher := standalone.NewLauncher(standalone.EngineFunc(
//		func(cfg config.ServerConfiguration) (standalone.Server, error) {
//			return engine.Start(cfg)
//		}),
//	)
//	srv, err := launcher.StartArgs(os.Args[1:])
package standalone
