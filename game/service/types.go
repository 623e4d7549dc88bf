package service

import (
	"time"

	"github.com/wricardo/explorer-quest/game/engine"
)

// CreateSessionRequest carries the player's identity and optional first level
type CreateSessionRequest struct {
	PlayerName string         `json:"player_name"`
	AvatarID   string         `json:"avatar_id,omitempty"`
	LevelID    engine.LevelID `json:"level_id,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	PlayerName     string            `json:"player_name"`
	LevelID        engine.LevelID    `json:"level_id,omitempty"`
	Coins          int               `json:"coins"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	Reason      string            `json:"reason,omitempty"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // locked|boundary|blocked|invalid_direction|no_level|canceled
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	Message       string                    `json:"message,omitempty"`
	PossibleMoves []engine.Direction        `json:"possible_moves,omitempty"`
	LocalView3x3  []string                  `json:"local_view_3x3,omitempty"`
	Interactable  *engine.InteractiveObject `json:"interactable,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx          int             `json:"idx"`
	Dir          string          `json:"dir"`
	From         engine.Position `json:"from"`
	To           engine.Position `json:"to"`
	TileChar     string          `json:"tile_char"`
	TileType     string          `json:"tile_type"`
	Success      bool            `json:"success"`
	Interactable string          `json:"interactable,omitempty"`
}

// AttemptInfo details the target cell of a rejected move
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	TileChar string `json:"tile_char"`
	TileType string `json:"tile_type"`
	Passable bool   `json:"passable"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "interactable", "level_entered", "challenge_started", "challenge_completed", "challenge_failed", "challenge_dismissed"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// InteractResult is returned by an interaction attempt
type InteractResult struct {
	Started      bool                      `json:"started"`
	Challenge    *engine.Challenge         `json:"challenge,omitempty"`
	Interactable *engine.InteractiveObject `json:"interactable,omitempty"`
	GameState    *engine.GameState         `json:"game_state"`
	Message      string                    `json:"message"`
}

// ChallengeSubmission is a completion attempt. ChallengeID 0 targets the active challenge.
type ChallengeSubmission struct {
	ChallengeID int    `json:"challenge_id,omitempty"`
	Answer      string `json:"answer,omitempty"`
	FriendCount int    `json:"friend_count,omitempty"`
}

// ChallengeResult contains the outcome of a completion attempt
type ChallengeResult struct {
	Outcome   engine.Outcome    `json:"outcome"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelInfo provides information about a level
type LevelInfo struct {
	ID          engine.LevelID `json:"id"` // The identifier to use for level entry
	Title       string         `json:"title"`
	StoryTitle  string         `json:"story_title"`
	Story       string         `json:"story"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ObjectCount int            `json:"object_count"`
	Source      string         `json:"source"` // "builtin" or "file"
	Filename    string         `json:"filename,omitempty"`
}
