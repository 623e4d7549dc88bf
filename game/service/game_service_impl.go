package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wricardo/explorer-quest/game/engine"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// CreateSession creates a new game session. When a level is requested it is
// entered right away, otherwise the player starts at the level menu.
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	player, err := engine.NewPlayer(req.PlayerName, req.AvatarID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", player)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	if req.LevelID != "" {
		if err := s.enterLevel(sess, req.LevelID); err != nil {
			s.sessions.Delete(sess.ID)
			return nil, err
		}
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, sessionInfo(sess))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// EnterLevel regenerates the level map for the session and resets the player
// to its start. Unknown level ids fall back to the default level.
func (s *gameServiceImpl) EnterLevel(ctx context.Context, sessionID string, levelID engine.LevelID) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if err := s.enterLevel(sess, levelID); err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

func (s *gameServiceImpl) enterLevel(sess *Session, levelID engine.LevelID) error {
	def, err := s.levels.LoadLevel(string(levelID))
	if err != nil {
		if !errors.Is(err, ErrLevelNotFound) {
			return fmt.Errorf("failed to load level %s: %w", levelID, err)
		}
		def = s.levels.GetDefault()
		log.Printf("[LEVELS] session=%s unknown level %q, using %s", sess.ID, levelID, def.ID)
	}

	if err := sess.Engine.EnterLevel(def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	r := sess.Engine.Move(direction)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   r.Accepted,
		Reason:    string(r.Reason),
		GameState: state,
		Message:   state.Message,
	}

	if r.Accepted {
		step := buildStep(1, direction, r, state)
		result.Step = &step
		result.Events = moveEvents(r, state)
	} else if r.Reason != engine.RejectNoLevel && r.Reason != engine.RejectLocked {
		result.AttemptedTo = buildAttempt(r, state)
	}

	return result, nil
}

// BulkMove executes moves in sequence, waiting out the movement lock between
// steps. It stops at the first rejected move.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	startState := sess.Engine.GetState()
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartPos:       startState.PlayerPos,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if err := waitForLock(ctx, sess.Engine); err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d canceled: %v", i+1, err)
			result.StopReasonCode = "canceled"
			result.StoppedOnMove = i + 1
			break
		}

		r := sess.Engine.Move(move)
		state := sess.Engine.GetState()

		if !r.Accepted {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %s (%s)", i+1, move, r.Reason)
			result.StopReasonCode = string(r.Reason)
			result.StoppedOnMove = i + 1
			if r.Reason != engine.RejectNoLevel {
				result.AttemptedTo = buildAttempt(r, state)
			}
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, buildStep(i+1, move, r, state))
		result.Events = append(result.Events, moveEvents(r, state)...)
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndPos = endState.PlayerPos
	result.Message = endState.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	result.LocalView3x3 = endState.LocalView3x3
	result.Interactable = endState.Interactable

	return result, nil
}

// waitForLock blocks until the engine accepts moves again or ctx is done
func waitForLock(ctx context.Context, eng *engine.GameEngine) error {
	wait := eng.LockRemaining()
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interact starts the challenge of the object the player stands next to
func (s *gameServiceImpl) Interact(ctx context.Context, sessionID string) (*InteractResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	ch, ok := sess.Engine.Interact()
	state := sess.Engine.GetState()

	result := &InteractResult{
		Started:      ok,
		Challenge:    ch,
		Interactable: state.Interactable,
		GameState:    state,
		Message:      state.Message,
	}
	if !ok {
		result.Message = "Nothing to interact with here"
		if sess.Engine.CurrentLevel() == nil {
			result.Message = engine.ErrNoLevelLoaded.Error()
		}
	}
	return result, nil
}

// SubmitChallenge evaluates a completion attempt for the active challenge
func (s *gameServiceImpl) SubmitChallenge(ctx context.Context, sessionID string, sub ChallengeSubmission) (*ChallengeResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	out, err := sess.Engine.SubmitChallenge(sub.ChallengeID, engine.Submission{
		Answer:      sub.Answer,
		FriendCount: sub.FriendCount,
	})
	if err != nil {
		return nil, err
	}

	event := GameEvent{Type: "challenge_failed", Message: out.Message, Timestamp: time.Now()}
	if out.Cleared {
		event.Type = "challenge_completed"
		log.Printf("[CHALLENGE] session=%s %s cleared reward=%d coins=%d", sess.ID, out.Kind, out.Reward, out.Coins)
	}

	return &ChallengeResult{
		Outcome:   out,
		GameState: sess.Engine.GetState(),
		Events:    []GameEvent{event},
	}, nil
}

// DismissChallenge closes the active challenge without reward. Dismissing
// with nothing active is a no-op.
func (s *gameServiceImpl) DismissChallenge(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Engine.DismissChallenge()
	return sess.Engine.GetState(), nil
}

// SetRecording toggles the recording step of an active reading challenge
func (s *gameServiceImpl) SetRecording(ctx context.Context, sessionID string, recording bool) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Engine.SetRecording(recording); err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := sess.Engine.GetMoveHistory()
	sess.Unlock()

	return paginateHistory(history, opts), nil
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := make([]engine.MoveHistoryEntry, 0, opts.Limit)
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel returns a level definition by id
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.LevelDefinition, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel validates and stores a level definition. Unknown challenge kinds
// are stored as math.
func (s *gameServiceImpl) SaveLevel(ctx context.Context, def *engine.LevelDefinition) error {
	engine.NormalizeChallenges(def)
	return s.levels.SaveLevel(def)
}

func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	s.sessions.UpdateLastAccessed(id)
	return sess, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		PlayerName:     state.Player.Name,
		LevelID:        state.LevelID,
		Coins:          state.Player.Coins,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
	}
}

func buildStep(idx int, dir string, r engine.MoveResult, state *engine.GameState) StepInfo {
	char, kind := tileInfo(state, r.To)
	step := StepInfo{
		Idx:      idx,
		Dir:      dir,
		From:     r.From,
		To:       r.To,
		TileChar: char,
		TileType: kind,
		Success:  r.Accepted,
	}
	if state.Interactable != nil {
		step.Interactable = state.Interactable.Description
	}
	return step
}

func buildAttempt(r engine.MoveResult, state *engine.GameState) *AttemptInfo {
	dx, dy := r.Direction.Delta()
	x, y := r.From.X+dx, r.From.Y+dy
	if r.Reason == engine.RejectInvalidDirection {
		x, y = r.From.X, r.From.Y
	}

	char, kind := tileInfo(state, engine.Position{X: x, Y: y})
	return &AttemptInfo{
		X:        x,
		Y:        y,
		TileChar: char,
		TileType: kind,
		Passable: false,
	}
}

// tileInfo returns the map symbol and kind name at pos; off-grid cells are "boundary"
func tileInfo(state *engine.GameState, pos engine.Position) (string, string) {
	if pos.Y < 0 || pos.Y >= len(state.Tiles) || pos.X < 0 || pos.X >= len(state.Tiles[pos.Y]) {
		return engine.Rock.Char(), "boundary"
	}
	kind := state.Tiles[pos.Y][pos.X].Kind
	return kind.Char(), string(kind)
}

func moveEvents(r engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to (%d,%d)", r.Direction, r.To.X, r.To.Y),
		Timestamp: now,
		Position:  r.To,
	}}

	if obj := state.Interactable; obj != nil {
		events = append(events, GameEvent{
			Type:      "interactable",
			Message:   fmt.Sprintf("%s nearby (%s challenge)", obj.Description, obj.Challenge),
			Timestamp: now,
			Position:  obj.Position(),
		})
	}
	return events
}
