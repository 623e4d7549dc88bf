package engine

import (
	"testing"
	"time"
)

// scriptedRandom replays fixed values; once a script is exhausted it repeats
// its last value. An empty float script returns 0.99 so filler is ground.
type scriptedRandom struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[min(s.fi, len(s.floats)-1)]
	s.fi++
	return v
}

func (s *scriptedRandom) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[min(s.ii, len(s.ints)-1)]
	s.ii++
	return v % n
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// createTestLevel returns a 7x7 level with an open interior and one math hut at (4,2)
func createTestLevel() *LevelDefinition {
	return &LevelDefinition{
		ID:          "test",
		Title:       "Test Meadow",
		Story:       Story{Title: "A Quiet Field", Text: "Nothing to see here."},
		Width:       7,
		Height:      7,
		PlayerStart: Position{X: 1, Y: 1},
		Paths:       []PathRule{Row(3)},
		Terrain:     TerrainRule{Obstacle: Tree, Probability: 0, Ground: Grass},
		Objects: []InteractiveObject{
			{X: 4, Y: 2, Kind: Hut, Challenge: MathChallenge, Reward: 15, Description: "Test Hut"},
		},
	}
}

func createTestEngine(t *testing.T, def *LevelDefinition, rng RandomSource) (*GameEngine, *fakeClock) {
	t.Helper()

	player, err := NewPlayer("Tester", "1")
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	clock := newFakeClock()
	if rng == nil {
		rng = &scriptedRandom{}
	}
	e := NewEngine(player, Options{MoveCooldown: DefaultMoveCooldown, Clock: clock.Now, Random: rng})
	if def != nil {
		if err := e.EnterLevel(def); err != nil {
			t.Fatalf("Failed to enter level: %v", err)
		}
	}
	return e, clock
}
