// Package requestlog captures the requests a mock server receives so they
// can be inspected through the admin API. It is distinct from operational
// logging, which uses log/slog.
//
// MemoryStore keeps entries in arrival order and enforces two optional
// retention limits on every write and read: a maximum entry count (oldest
// entries are evicted first) and an expiration horizon in hours. A nil
// limit means unbounded; non-positive limits are applied literally, so a
// count of zero retains nothing.
//
//	store := requestlog.NewMemoryStore(requestlog.Limits{MaxCount: &max})
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/api/users"})
package requestlog
