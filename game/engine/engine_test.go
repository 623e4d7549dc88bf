package engine

import (
	"testing"
	"time"
)

func TestNewEngine(t *testing.T) {
	e, _ := createTestEngine(t, nil, nil)

	if e.CurrentLevel() != nil || e.World() != nil {
		t.Error("Expected no level before EnterLevel")
	}
	if e.Coins() != 0 {
		t.Errorf("Expected 0 coins, got %d", e.Coins())
	}

	state := e.GetState()
	if state.Player.Name != "Tester" || state.Player.Avatar != "🐒" {
		t.Errorf("Unexpected player info: %+v", state.Player)
	}
	if state.Tiles != nil || state.LevelID != "" {
		t.Error("Expected empty grid in state before level entry")
	}

	r := e.Move("up")
	if r.Accepted || r.Reason != RejectNoLevel {
		t.Errorf("Expected no_level rejection, got %+v", r)
	}
	if _, ok := e.Interact(); ok {
		t.Error("Interact without a level should be a no-op")
	}
}

func TestEnterLevelRejectsInvalid(t *testing.T) {
	e, _ := createTestEngine(t, nil, nil)
	def := createTestLevel()
	def.Objects = nil

	if err := e.EnterLevel(def); err == nil {
		t.Error("Expected validation error")
	}
	if e.CurrentLevel() != nil {
		t.Error("Invalid level must not be loaded")
	}
}

func TestJungleWalkToMathHut(t *testing.T) {
	jungle, _ := BuiltinLevel(Jungle)
	// all filler rolls are grass; math operands 8 + 7
	e, clock := createTestEngine(t, jungle, &scriptedRandom{ints: []int{7, 6}})

	state := e.GetState()
	if state.PlayerPos != (Position{X: 2, Y: 2}) {
		t.Fatalf("Expected start at (2,2), got %+v", state.PlayerPos)
	}
	if state.Interactable != nil {
		t.Errorf("Expected nothing interactable at start, got %+v", state.Interactable)
	}

	for i := 0; i < 3; i++ {
		r := e.Move("right")
		if !r.Accepted {
			t.Fatalf("Move %d rejected: %+v", i+1, r)
		}
		clock.Advance(DefaultMoveCooldown)
	}

	state = e.GetState()
	if state.PlayerPos != (Position{X: 5, Y: 2}) {
		t.Fatalf("Expected player at (5,2), got %+v", state.PlayerPos)
	}
	if state.Interactable == nil || state.Interactable.Description != "Math Hut" {
		t.Fatalf("Expected Math Hut interactable, got %+v", state.Interactable)
	}

	ch, ok := e.Interact()
	if !ok || ch.Kind != MathChallenge {
		t.Fatalf("Expected math challenge, got %+v", ch)
	}
	if ch.Math.Answer() != 15 {
		t.Fatalf("Expected 8 + 7, got %+v", ch.Math)
	}

	out, err := e.SubmitChallenge(ch.ID, Submission{Answer: "15"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success || e.Coins() != 15 {
		t.Errorf("Expected 15 coins, got %d (%+v)", e.Coins(), out)
	}
	if e.ActiveChallenge() != nil {
		t.Error("Expected no active challenge after completion")
	}
}

func TestEngineMovementLock(t *testing.T) {
	e, clock := createTestEngine(t, createTestLevel(), nil)

	if r := e.Move("right"); !r.Accepted {
		t.Fatalf("Expected first move accepted, got %+v", r)
	}
	if !e.GetState().Moving {
		t.Error("Expected moving flag while lock is held")
	}
	if r := e.Move("right"); r.Reason != RejectLocked {
		t.Errorf("Expected locked rejection, got %+v", r)
	}
	if len(e.GetPossibleMoves()) != 0 {
		t.Error("Expected no possible moves while locked")
	}
	if e.LockRemaining() != DefaultMoveCooldown {
		t.Errorf("Expected %v remaining, got %v", DefaultMoveCooldown, e.LockRemaining())
	}

	clock.Advance(DefaultMoveCooldown)
	if r := e.Move("d"); !r.Accepted {
		t.Errorf("Expected move after cooldown accepted, got %+v", r)
	}
	if e.GetState().PlayerPos != (Position{X: 3, Y: 1}) {
		t.Errorf("Expected player at (3,1), got %+v", e.GetState().PlayerPos)
	}
}

func TestEngineWithoutCooldown(t *testing.T) {
	player, _ := NewPlayer("Tester", "1")
	e := NewEngine(player, Options{MoveCooldown: -1, Random: &scriptedRandom{}})
	if err := e.EnterLevel(createTestLevel()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if r := e.Move("right"); !r.Accepted {
			t.Fatalf("Move %d rejected: %+v", i+1, r)
		}
	}
	if e.GetState().PlayerPos != (Position{X: 4, Y: 1}) {
		t.Errorf("Expected player at (4,1), got %+v", e.GetState().PlayerPos)
	}
}

func TestEngineHistory(t *testing.T) {
	e, clock := createTestEngine(t, createTestLevel(), nil)

	e.Move("up")
	e.Move("right")
	clock.Advance(time.Second)
	e.Move("sideways")

	history := e.GetMoveHistory()
	if len(history) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(history))
	}
	if history[0].Success || history[0].Reason != string(RejectBlocked) {
		t.Errorf("Expected first move blocked, got %+v", history[0])
	}
	if !history[1].Success || history[1].ToPosition != (Position{X: 2, Y: 1}) {
		t.Errorf("Expected second move to (2,1), got %+v", history[1])
	}
	if history[2].Reason != string(RejectInvalidDirection) {
		t.Errorf("Expected invalid direction, got %+v", history[2])
	}
	if history[2].MoveNumber != 3 || history[2].LevelID != "test" {
		t.Errorf("Unexpected last entry: %+v", history[2])
	}

	last := e.GetLastMove()
	if last == nil || last.Action != "sideways" {
		t.Errorf("Expected last move 'sideways', got %+v", last)
	}
	if e.GetState().TotalMoves != 3 {
		t.Errorf("Expected 3 total moves, got %d", e.GetState().TotalMoves)
	}
}

func TestReenterLevelResetsVisit(t *testing.T) {
	def := createTestLevel()
	e, clock := createTestEngine(t, def, &scriptedRandom{ints: []int{0}})

	e.Move("right")
	clock.Advance(DefaultMoveCooldown)
	e.Move("right")
	clock.Advance(DefaultMoveCooldown)
	e.Move("right")
	if _, ok := e.Interact(); !ok {
		t.Fatal("Expected hut in range at (4,1)")
	}
	if !e.GetState().Moving {
		t.Fatal("Expected lock held after last move")
	}

	if err := e.EnterLevel(def); err != nil {
		t.Fatal(err)
	}

	state := e.GetState()
	if state.PlayerPos != def.PlayerStart {
		t.Errorf("Expected position reset to start, got %+v", state.PlayerPos)
	}
	if state.ActiveChallenge != nil {
		t.Error("Expected active challenge dismissed on level entry")
	}
	if state.Moving {
		t.Error("Expected movement lock released on level entry")
	}
	if state.LevelVisits != 2 {
		t.Errorf("Expected 2 visits, got %d", state.LevelVisits)
	}
}

func TestInteractWhileActive(t *testing.T) {
	def := createTestLevel()
	def.PlayerStart = Position{X: 3, Y: 1}
	e, _ := createTestEngine(t, def, nil)

	first, ok := e.Interact()
	if !ok {
		t.Fatal("Expected interaction in range")
	}
	second, ok := e.Interact()
	if !ok || second.ID != first.ID {
		t.Error("Expected the active challenge to be returned again")
	}

	if !e.DismissChallenge() {
		t.Error("Expected dismiss to close the challenge")
	}
	if e.DismissChallenge() {
		t.Error("Expected second dismiss to be a no-op")
	}

	if _, ok := e.Interactable(); !ok {
		t.Error("Dismissal must not change the interactable")
	}
}

func TestChallengeSnapshotsAreCopies(t *testing.T) {
	def := createTestLevel()
	def.PlayerStart = Position{X: 3, Y: 1}
	e, _ := createTestEngine(t, def, nil)

	started, ok := e.Interact()
	if !ok {
		t.Fatal("Expected interaction in range")
	}
	state := e.GetState()

	if _, err := e.SubmitChallenge(0, Submission{Answer: "wrong"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	started.Math.Operand1 = 99

	if started.Attempts != 0 || state.ActiveChallenge.Attempts != 0 {
		t.Errorf("Earlier snapshots changed: %d, %d", started.Attempts, state.ActiveChallenge.Attempts)
	}
	live := e.ActiveChallenge()
	if live.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", live.Attempts)
	}
	if live.Math.Operand1 == 99 || state.ActiveChallenge.Math == started.Math {
		t.Error("Math problem must not be shared between copies")
	}
}

func TestGetStateViews(t *testing.T) {
	e, _ := createTestEngine(t, createTestLevel(), nil)
	state := e.GetState()

	if state.Width != 7 || state.Height != 7 {
		t.Errorf("Unexpected dimensions %dx%d", state.Width, state.Height)
	}
	if len(state.Map) != 7 || state.Map[1][1] != '@' {
		t.Errorf("Expected player marker in map, got %v", state.Map)
	}
	if len(state.LocalView3x3) != 3 {
		t.Errorf("Expected 3x3 view, got %v", state.LocalView3x3)
	}
	if state.LevelTitle != "Test Meadow" {
		t.Errorf("Unexpected level title %q", state.LevelTitle)
	}
}

func TestCanMove(t *testing.T) {
	e, _ := createTestEngine(t, createTestLevel(), nil)

	if e.CanMove("up") || e.CanMove("left") {
		t.Error("Expected border moves to be impossible")
	}
	if !e.CanMove("right") || !e.CanMove("down") {
		t.Error("Expected open moves to be possible")
	}
	if e.CanMove("jump") {
		t.Error("Expected invalid direction to be impossible")
	}

	moves := e.GetPossibleMoves()
	if len(moves) != 2 || moves[0] != Down || moves[1] != Right {
		t.Errorf("Expected [down right], got %v", moves)
	}
}
