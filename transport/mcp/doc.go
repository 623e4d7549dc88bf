// Package mcp exposes Explorer Quest to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// the api package and the JSON response is rendered as plain text, with the
// grid drawn one character per tile and the player shown as '@'.
//
// MCP Tools:
//   - create_session, list_sessions: session management
//   - list_levels, enter_level: level selection
//   - game_state, describe_tile: observation
//   - move, bulk_move, move_history: movement
//   - interact, submit_challenge, dismiss_challenge: challenges
//   - game_instructions: rules and legend
//
// Transport Modes:
//
// GetMCPServer returns the server for stdio use with server.ServeStdio.
// HTTPHandler serves JSON-RPC messages posted to /mcp.
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
