// Package websocket pushes Explorer Quest game state to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session by
// id (case-insensitive) and receive a JSON Message after each state change:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// Custom events such as "challenge_started" or "level_entered" carry a Data
// payload instead of a full state.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), state)
//	})
//
// Broadcasts never block the caller. When the hub's queue or a client's
// send buffer is full the update is dropped, and a client that cannot keep up
// is disconnected. Incoming frames are read only to keep the connection alive.
package websocket
