package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoLevelLoaded = errors.New("no level loaded")

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	Player() *Player
	Coins() int

	// Levels
	EnterLevel(def *LevelDefinition) error
	CurrentLevel() *LevelDefinition

	// Movement operations
	Move(direction string) MoveResult
	CanMove(direction string) bool
	GetPossibleMoves() []Direction
	LockRemaining() time.Duration

	// Interaction and challenges
	Interactable() (InteractiveObject, bool)
	Interact() (*Challenge, bool)
	ActiveChallenge() *Challenge
	SubmitChallenge(id int, sub Submission) (Outcome, error)
	DismissChallenge() bool
	SetRecording(on bool) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// Options tune an engine. A zero MoveCooldown selects DefaultMoveCooldown and a
// negative one disables the movement lock. Nil Clock and Random fall back to
// the wall clock and a time-seeded source.
type Options struct {
	MoveCooldown time.Duration
	Clock        func() time.Time
	Random       RandomSource
}

func (o Options) cooldown() time.Duration {
	switch {
	case o.MoveCooldown == 0:
		return DefaultMoveCooldown
	case o.MoveCooldown < 0:
		return 0
	}
	return o.MoveCooldown
}

// GameEngine implements the Engine interface for one player
type GameEngine struct {
	player     *Player
	level      *LevelDefinition
	world      *WorldState
	movement   *MovementController
	detector   *InteractionDetector
	challenges *ChallengeEngine
	rng        RandomSource
	clock      func() time.Time

	message    string
	history    []MoveHistoryEntry
	totalMoves int
	visits     map[LevelID]int
}

// NewEngine creates an engine for the player. No level is loaded until
// EnterLevel is called.
func NewEngine(player *Player, opts Options) *GameEngine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	rng := opts.Random
	if rng == nil {
		rng = NewTimeSeededSource()
	}

	return &GameEngine{
		player:     player,
		movement:   NewMovementController(opts.cooldown(), clock),
		detector:   NewInteractionDetector(DefaultInteractionRadius),
		challenges: NewChallengeEngine(rng),
		rng:        rng,
		clock:      clock,
		message:    fmt.Sprintf("Welcome, %s! Pick a level to start exploring.", player.Name()),
		history:    []MoveHistoryEntry{},
		visits:     make(map[LevelID]int),
	}
}

// EnterLevel generates a fresh map for def and places the player at its start.
// Any active challenge is dismissed and the movement lock is released.
func (e *GameEngine) EnterLevel(def *LevelDefinition) error {
	if err := ValidateLevel(def); err != nil {
		return err
	}

	e.level = def
	e.world = NewWorldState(Generate(def, e.rng), def.PlayerStart)
	e.detector = NewInteractionDetector(def.Radius())
	e.detector.Recompute(e.world)
	e.challenges.Dismiss()
	e.movement.Release()
	e.visits[def.ID]++

	e.message = fmt.Sprintf("Welcome to %s! %s", def.Title, def.Story.Title)
	return nil
}

// CurrentLevel returns the loaded level definition or nil
func (e *GameEngine) CurrentLevel() *LevelDefinition {
	return e.level
}

// World returns the live world state or nil before the first level entry
func (e *GameEngine) World() *WorldState {
	return e.world
}

// Player returns the engine's player
func (e *GameEngine) Player() *Player {
	return e.player
}

// Coins returns the player's coin total
func (e *GameEngine) Coins() int {
	return e.player.Coins()
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(direction string) MoveResult {
	dir, ok := ParseDirection(direction)

	var result MoveResult
	switch {
	case e.world == nil:
		result = MoveResult{Direction: dir, Reason: RejectNoLevel}
	case !ok:
		p := e.world.Player
		result = MoveResult{From: p, To: p, Target: p, Reason: RejectInvalidDirection}
	default:
		result = e.movement.Move(e.world, dir)
	}

	if result.Accepted {
		e.detector.Recompute(e.world)
	}
	e.message = e.moveMessage(result)
	e.addMoveToHistory(direction, result)

	return result
}

func (e *GameEngine) moveMessage(r MoveResult) string {
	switch r.Reason {
	case RejectNone:
		if obj, ok := e.detector.Active(); ok {
			return fmt.Sprintf("You found the %s! Interact to start a challenge.", obj.Description)
		}
		return fmt.Sprintf("Moved %s to (%d,%d)", r.Direction, r.To.X, r.To.Y)
	case RejectLocked:
		return "Still moving..."
	case RejectBoundary:
		return fmt.Sprintf("Can't move %s: edge of the world", r.Direction)
	case RejectBlocked:
		return fmt.Sprintf("Can't move %s: %s at (%d,%d)", r.Direction, r.TargetKind, r.Target.X, r.Target.Y)
	case RejectNoLevel:
		return "Pick a level before moving"
	default:
		return "Unknown direction"
	}
}

// CanMove checks if the player can move in the specified direction right now
func (e *GameEngine) CanMove(direction string) bool {
	if e.world == nil || e.movement.Moving() {
		return false
	}
	dir, ok := ParseDirection(direction)
	if !ok {
		return false
	}
	dx, dy := dir.Delta()
	p := e.world.Player
	x := clamp(p.X+dx, 0, e.world.Map.Width-1)
	y := clamp(p.Y+dy, 0, e.world.Map.Height-1)
	if x == p.X && y == p.Y {
		return false
	}
	return e.world.IsWalkable(x, y)
}

// GetPossibleMoves returns all directions the player can move in right now
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(string(dir)) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// LockRemaining returns how long until the next move is accepted
func (e *GameEngine) LockRemaining() time.Duration {
	return e.movement.LockRemaining()
}

// Interactable returns the object the player can currently interact with
func (e *GameEngine) Interactable() (InteractiveObject, bool) {
	return e.detector.Active()
}

// Interact starts the challenge of the active interactable. With nothing in
// range it is a no-op. With a challenge already active, that challenge is returned.
// The returned challenge is a copy.
func (e *GameEngine) Interact() (*Challenge, bool) {
	if ch := e.challenges.Active(); ch != nil {
		return ch.Snapshot(), true
	}
	if e.level == nil {
		return nil, false
	}
	obj, ok := e.detector.Active()
	if !ok {
		return nil, false
	}

	ch := e.challenges.Start(obj.Challenge, obj.Reward, obj, e.level.Sentences())
	e.message = fmt.Sprintf("%s at the %s!", ch.Title, obj.Description)
	return ch.Snapshot(), true
}

// ActiveChallenge returns a copy of the active challenge or nil
func (e *GameEngine) ActiveChallenge() *Challenge {
	return e.challenges.Active().Snapshot()
}

// SubmitChallenge evaluates a completion attempt for the active challenge
func (e *GameEngine) SubmitChallenge(id int, sub Submission) (Outcome, error) {
	out, err := e.challenges.Complete(id, sub, e.player)
	if err != nil {
		return out, err
	}
	e.message = out.Message
	if out.Cleared {
		e.message = fmt.Sprintf("%s You earned %d coins!", out.Message, out.Reward)
	}
	return out, nil
}

// DismissChallenge closes the active challenge without reward
func (e *GameEngine) DismissChallenge() bool {
	if !e.challenges.Dismiss() {
		return false
	}
	e.message = "Challenge closed"
	return true
}

// SetRecording toggles the cosmetic recording state of a reading challenge
func (e *GameEngine) SetRecording(on bool) error {
	if err := e.challenges.SetRecording(on); err != nil {
		return err
	}
	if on {
		e.message = "Recording... Speak clearly!"
	} else {
		e.message = "Recording completed! Great job!"
	}
	return nil
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Player:          e.player.Info(),
		ActiveChallenge: e.challenges.Active().Snapshot(),
		Moving:          e.movement.Moving(),
		Message:         e.message,
		TotalMoves:      e.totalMoves,
	}

	if e.world == nil {
		return state
	}

	state.LevelID = e.level.ID
	state.LevelTitle = e.level.Title
	state.LevelVisits = e.visits[e.level.ID]
	state.Width = e.world.Map.Width
	state.Height = e.world.Map.Height
	state.Tiles = e.world.Map.Tiles
	state.Objects = e.world.Map.Objects
	state.PlayerPos = e.world.Player
	if obj, ok := e.detector.Active(); ok {
		state.Interactable = &obj
	}
	state.Map = e.world.Render()
	state.LocalView3x3 = e.world.LocalView3x3()

	return state
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// LevelVisits returns how many times the level has been entered
func (e *GameEngine) LevelVisits(id LevelID) int {
	return e.visits[id]
}

// addMoveToHistory adds a move to the game's move history
func (e *GameEngine) addMoveToHistory(action string, r MoveResult) {
	var level LevelID
	if e.level != nil {
		level = e.level.ID
	}
	e.totalMoves++
	e.history = append(e.history, MoveHistoryEntry{
		Action:       action,
		FromPosition: r.From,
		ToPosition:   r.To,
		Success:      r.Accepted,
		Reason:       string(r.Reason),
		LevelID:      level,
		Timestamp:    e.clock().Unix(),
		MoveNumber:   e.totalMoves,
	})
}
