package engine

import "time"

// DefaultMoveCooldown is how long one move holds the movement lock
const DefaultMoveCooldown = 300 * time.Millisecond

// MoveRejection explains why a move was not applied
type MoveRejection string

const (
	RejectNone             MoveRejection = ""
	RejectLocked           MoveRejection = "locked"
	RejectBoundary         MoveRejection = "boundary"
	RejectBlocked          MoveRejection = "blocked"
	RejectInvalidDirection MoveRejection = "invalid_direction"
	RejectNoLevel          MoveRejection = "no_level"
)

// MoveResult is the outcome of a single move request
type MoveResult struct {
	Accepted  bool          `json:"accepted"`
	Direction Direction     `json:"direction,omitempty"`
	From      Position      `json:"from"`
	To        Position      `json:"to"`
	Reason    MoveRejection `json:"reason,omitempty"`
	// Target is the candidate cell that was tested; equal to From at a boundary
	Target Position `json:"target"`
	// TargetKind is the tile kind of Target when it lies on the grid
	TargetKind TileKind `json:"target_kind,omitempty"`
}

// MovementController applies one-step moves and enforces the single
// outstanding move lock
type MovementController struct {
	cooldown    time.Duration
	now         func() time.Time
	movingUntil time.Time
}

// NewMovementController creates a controller; a nil clock uses time.Now
func NewMovementController(cooldown time.Duration, clock func() time.Time) *MovementController {
	if clock == nil {
		clock = time.Now
	}
	if cooldown < 0 {
		cooldown = 0
	}
	return &MovementController{cooldown: cooldown, now: clock}
}

// Moving reports whether a previous move is still in flight
func (m *MovementController) Moving() bool {
	return m.now().Before(m.movingUntil)
}

// LockRemaining returns how long until the next move can be accepted
func (m *MovementController) LockRemaining() time.Duration {
	remaining := m.movingUntil.Sub(m.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Release clears the movement lock immediately (used on level entry)
func (m *MovementController) Release() {
	m.movingUntil = time.Time{}
}

// Move attempts to step the player one tile in dir.
// A move is rejected, with no state change, while the lock is held, when the
// clamped candidate equals the current position, or when the candidate tile is
// not walkable.
func (m *MovementController) Move(w *WorldState, dir Direction) MoveResult {
	from := w.Player
	result := MoveResult{Direction: dir, From: from, To: from, Target: from}

	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		result.Reason = RejectInvalidDirection
		return result
	}

	if m.Moving() {
		result.Reason = RejectLocked
		return result
	}

	candidate := Position{
		X: clamp(from.X+dx, 0, w.Map.Width-1),
		Y: clamp(from.Y+dy, 0, w.Map.Height-1),
	}
	result.Target = candidate
	if tile, ok := w.TileAt(candidate.X, candidate.Y); ok {
		result.TargetKind = tile.Kind
	}

	if candidate == from {
		result.Reason = RejectBoundary
		return result
	}
	if !w.IsWalkable(candidate.X, candidate.Y) {
		result.Reason = RejectBlocked
		return result
	}

	w.Player = candidate
	m.movingUntil = m.now().Add(m.cooldown)

	result.Accepted = true
	result.To = candidate
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
