// Package engine provides the mock server engine behind mockd-standalone.
//
// # Architecture
//
// A Server binds every configured listen URL and routes each request:
//
//	┌────────────────────────────────────────────────────────┐
//	│                     Server                              │
//	│                                                         │
//	│   /__admin/...  ──►  admin.API (mappings, request log)  │
//	│                                                         │
//	│   everything else ──► Handler                           │
//	│                         │                               │
//	│                         ├─ mapping.Store.Find           │
//	│                         ├─ proxy.Recorder (unmatched)   │
//	│                         └─ 404 No matching mapping      │
//	└────────────────────────────────────────────────────────┘
//
// # Basic Usage
//
//	port := 0
//	srv, err := engine.Start(config.ServerConfiguration{Port: &port})
//	if err != nil {
//	    return err
//	}
//	defer srv.Stop()
//	fmt.Println(srv.URLs())
//
// Start validates the configuration, loads static mappings, creates the
// request log and the proxy recorder, then binds all listeners before
// serving any of them. A bind failure closes the listeners already opened.
package engine
