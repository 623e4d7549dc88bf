// Package service provides the business logic layer for Explorer Quest.
//
// GameService is the main interface used by the transports (HTTP, WebSocket,
// MCP). SessionManager stores sessions and LevelManager loads level
// definitions; both are injected so tests can swap in fakes.
//
// Each session owns one engine and a mutex. Operations on a session are
// serialised by that mutex, while different sessions run in parallel.
//
// Usage:
//
//	sessions := session.NewManager(engine.Options{})
//	levels, _ := config.NewManager("levels")
//	svc := service.NewGameService(sessions, levels)
//
//	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{
//		PlayerName: "Mia",
//		LevelID:    engine.Jungle,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.BulkMove(ctx, info.ID, []string{"right", "right", "right"})
//
// Unknown level ids fall back to the default level. Bulk moves wait for the
// movement lock between steps and stop early when ctx is canceled.
package service
