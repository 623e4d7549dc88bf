// Package api provides HTTP REST API handlers for Explorer Quest.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {player_name, avatar_id, level_id}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get session details
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/level - Enter a level {level_id}
//   - POST /api/sessions/{id}/move - Single move {direction}
//   - POST /api/sessions/{id}/bulk-move - Up to 20 moves {moves: [...]}
//   - GET /api/sessions/{id}/history - Move history (?page=&limit=&order=)
//
// Challenges:
//   - POST /api/sessions/{id}/interact - Start the challenge of the object in range
//   - POST /api/sessions/{id}/challenge/submit - Complete it {challenge_id, answer, friend_count}
//   - POST /api/sessions/{id}/challenge/dismiss - Close without reward
//   - POST /api/sessions/{id}/challenge/recording - Reading challenge recording {recording}
//
// Levels:
//   - GET /api/levels - List built-in and file levels
//   - GET /api/levels/{id} - Level definition
//   - POST /api/levels - Save a level definition to the level directory
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket state stream
//
// A rejected move is not an error: the response is 200 with success=false and
// a machine reason (locked, boundary, blocked, invalid_direction, no_level).
// Interacting with nothing in range answers 200 with started=false.
//
// Errors are returned as JSON:
//
//	{"error": "session ab12: session not found"}
//
// with 404 for unknown sessions and levels, 400 for malformed input and
// invalid levels, 409 for challenge state conflicts and 403 when level saving
// is disabled.
package api

// Enriched Responses (Move and Bulk Move)
//
// Move (POST /api/sessions/{id}/move)
//   Response:
//     - step: { idx, dir, from{x,y}, to{x,y}, tile_char, tile_type, success, interactable? }
//     - attempted_to: { x, y, tile_char, tile_type, passable } // present when rejected at a cell
//     - game_state additions:
//         map: one string per row, one character per tile (@ is the player)
//         local_view_3x3: ["...","...","..."] // 3x3 characters around the player
//
// Bulk Move (POST /api/sessions/{id}/bulk-move)
//   Response:
//     - requested_moves, moves_executed
//     - stopped_reason (text), stop_reason_code (enum), stopped_on_move (1-based), truncated, limit
//     - steps: [{ idx, dir, from, to, tile_char, tile_type, success, interactable? }]
//     - attempted_to: failed target cell on first rejection
//     - start_pos, end_pos, possible_moves, local_view_3x3, interactable
