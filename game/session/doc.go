// Package session provides in-memory session management for Explorer Quest.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Expiry of idle sessions
//
// Core Types:
//
// Manager stores service.Session values, each owning its own engine instance
// along with creation and last access times. Sessions live only as long as
// the process; nothing is written to disk.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive, and generated IDs are retried on collision.
//
// Usage:
//
//	manager := session.NewManager(engine.Options{MoveCooldown: 300 * time.Millisecond})
//
//	player, _ := engine.NewPlayer("Ada", "1")
//	sess, err := manager.Create("", player)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
