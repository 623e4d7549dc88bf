package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/explorer-quest/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	EnterLevel(ctx context.Context, sessionID string, levelID engine.LevelID) (*engine.GameState, error)
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)

	// Challenges
	Interact(ctx context.Context, sessionID string) (*InteractResult, error)
	SubmitChallenge(ctx context.Context, sessionID string, sub ChallengeSubmission) (*ChallengeResult, error)
	DismissChallenge(ctx context.Context, sessionID string) (*engine.GameState, error)
	SetRecording(ctx context.Context, sessionID string, recording bool) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*engine.LevelDefinition, error)
	SaveLevel(ctx context.Context, def *engine.LevelDefinition) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, player *engine.Player) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelManager handles level definition loading
type LevelManager interface {
	LoadLevel(id string) (*engine.LevelDefinition, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.LevelDefinition
	SaveLevel(def *engine.LevelDefinition) error
}

// Session represents an active game session. The engine is not safe for
// concurrent use, so callers hold the session lock while touching it.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock acquires exclusive access to the session's engine
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's engine
func (s *Session) Unlock() { s.mu.Unlock() }
