package engine

import "testing"

func TestGenerateBorderIsRock(t *testing.T) {
	for _, def := range BuiltinLevels() {
		t.Run(string(def.ID), func(t *testing.T) {
			m := Generate(def, NewRandomSource(42))
			for x := 0; x < m.Width; x++ {
				if m.Tiles[0][x].Kind != Rock || m.Tiles[m.Height-1][x].Kind != Rock {
					t.Fatalf("Expected rock border at column %d", x)
				}
			}
			for y := 0; y < m.Height; y++ {
				if m.Tiles[y][0].Kind != Rock || m.Tiles[y][m.Width-1].Kind != Rock {
					t.Fatalf("Expected rock border at row %d", y)
				}
			}
		})
	}
}

func TestGenerateObjectsAndStart(t *testing.T) {
	for _, def := range BuiltinLevels() {
		t.Run(string(def.ID), func(t *testing.T) {
			for seed := uint64(0); seed < 25; seed++ {
				m := Generate(def, NewRandomSource(seed))

				for _, obj := range def.Objects {
					tile := m.Tiles[obj.Y][obj.X]
					if tile.Kind != obj.Kind {
						t.Fatalf("seed %d: expected %s at (%d,%d), got %s", seed, obj.Kind, obj.X, obj.Y, tile.Kind)
					}
					if tile.Walkable {
						t.Fatalf("seed %d: object tile at (%d,%d) must not be walkable", seed, obj.X, obj.Y)
					}
				}

				start := m.Tiles[def.PlayerStart.Y][def.PlayerStart.X]
				if !start.Walkable {
					t.Fatalf("seed %d: start tile is %s", seed, start.Kind)
				}

				for _, lm := range def.Landmarks {
					if m.Tiles[lm.Y][lm.X].Kind != lm.Kind {
						t.Fatalf("seed %d: expected landmark %s at (%d,%d)", seed, lm.Kind, lm.X, lm.Y)
					}
				}
			}
		})
	}
}

func TestGeneratePathSkeletonIsStable(t *testing.T) {
	def, _ := BuiltinLevel(Jungle)
	occupied := make(map[Position]bool)
	for _, obj := range def.Objects {
		occupied[obj.Position()] = true
	}
	for _, lm := range def.Landmarks {
		occupied[Position{X: lm.X, Y: lm.Y}] = true
	}

	maps := []*WorldMap{
		Generate(def, NewRandomSource(1)),
		Generate(def, NewRandomSource(2)),
		Generate(def, NewRandomSource(3)),
	}

	for y := 1; y < def.Height-1; y++ {
		for x := 1; x < def.Width-1; x++ {
			onPath := false
			for _, rule := range def.Paths {
				if rule.Contains(x, y) {
					onPath = true
				}
			}
			if !onPath || occupied[Position{X: x, Y: y}] {
				continue
			}
			for i, m := range maps {
				if m.Tiles[y][x].Kind != Path {
					t.Fatalf("map %d: expected path at (%d,%d), got %s", i, x, y, m.Tiles[y][x].Kind)
				}
			}
		}
	}
}

func TestGenerateSameSeedSameMap(t *testing.T) {
	def, _ := BuiltinLevel(Mountains)
	a := Generate(def, NewRandomSource(7))
	b := Generate(def, NewRandomSource(7))

	for y := range a.Tiles {
		for x := range a.Tiles[y] {
			if a.Tiles[y][x] != b.Tiles[y][x] {
				t.Fatalf("Tiles differ at (%d,%d): %s vs %s", x, y, a.Tiles[y][x].Kind, b.Tiles[y][x].Kind)
			}
		}
	}
}

func TestGenerateFillerFollowsRoll(t *testing.T) {
	def := createTestLevel()
	def.Terrain.Probability = 0.5

	t.Run("all rolls below probability", func(t *testing.T) {
		m := Generate(def, &scriptedRandom{floats: []float64{0.1}})
		if m.Tiles[5][5].Kind != Tree {
			t.Errorf("Expected tree filler, got %s", m.Tiles[5][5].Kind)
		}
		// start is cleared even though the roll produced a tree
		if m.Tiles[1][1].Kind != Grass {
			t.Errorf("Expected start cleared to grass, got %s", m.Tiles[1][1].Kind)
		}
		if m.Tiles[3][2].Kind != Path {
			t.Errorf("Expected path row to survive, got %s", m.Tiles[3][2].Kind)
		}
	})

	t.Run("all rolls above probability", func(t *testing.T) {
		m := Generate(def, &scriptedRandom{floats: []float64{0.9}})
		if got := CountTileKind(m.Tiles, Tree); got != 0 {
			t.Errorf("Expected no trees, got %d", got)
		}
	})
}

func TestGenerateDoesNotShareObjects(t *testing.T) {
	def := createTestLevel()
	m := Generate(def, &scriptedRandom{})
	m.Objects[0].Reward = 999
	if def.Objects[0].Reward == 999 {
		t.Error("Generated map must not alias the definition's objects")
	}
}

func TestWorldStateQueries(t *testing.T) {
	def := createTestLevel()
	def.Objects = append(def.Objects, InteractiveObject{X: 2, Y: 2, Kind: Board, Challenge: ReadingChallenge, Reward: 10, Description: "Near Board"})
	w := NewWorldState(Generate(def, &scriptedRandom{}), Position{X: 3, Y: 1})

	if w.InBounds(-1, 0) || w.InBounds(7, 0) || !w.InBounds(6, 6) {
		t.Error("InBounds returned wrong results")
	}
	if w.IsWalkable(0, 0) {
		t.Error("Border should not be walkable")
	}
	if w.IsWalkable(4, 2) {
		t.Error("Object tile should not be walkable")
	}

	// both objects are within radius 1 of (3,1); declaration order wins
	obj, ok := w.FirstObjectWithinRange(w.Player, 1)
	if !ok || obj.Description != "Test Hut" {
		t.Errorf("Expected first declared object, got %+v", obj)
	}
	if got := w.ObjectsWithinRange(w.Player, 1); len(got) != 2 {
		t.Errorf("Expected 2 objects in range, got %d", len(got))
	}
	if _, ok := w.FirstObjectWithinRange(Position{X: 5, Y: 5}, 1); ok {
		t.Error("Expected no object within range of (5,5)")
	}

	if obj, ok := w.ObjectAt(2, 2); !ok || obj.Kind != Board {
		t.Errorf("Expected board at (2,2), got %+v", obj)
	}
}

func TestWorldStateRender(t *testing.T) {
	w := NewWorldState(Generate(createTestLevel(), &scriptedRandom{}), Position{X: 1, Y: 1})

	rows := w.Render()
	if len(rows) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(rows))
	}
	if rows[0] != "#######" {
		t.Errorf("Unexpected top row %q", rows[0])
	}
	if rows[1] != "#@....#" {
		t.Errorf("Unexpected player row %q", rows[1])
	}
	if rows[2] != "#...H.#" {
		t.Errorf("Unexpected object row %q", rows[2])
	}
	if rows[3] != "#=====#" {
		t.Errorf("Unexpected path row %q", rows[3])
	}

	view := w.LocalView3x3()
	expected := []string{"###", "#@.", "#.."}
	for i := range expected {
		if view[i] != expected[i] {
			t.Errorf("Local view row %d: expected %q, got %q", i, expected[i], view[i])
		}
	}
}

func TestReachableFrom(t *testing.T) {
	def := createTestLevel()
	// wall off column 3 except the path row
	for y := 1; y < 6; y++ {
		if y != 3 {
			def.Landmarks = append(def.Landmarks, Landmark{X: 3, Y: y, Kind: Rock})
		}
	}
	w := NewWorldState(Generate(def, &scriptedRandom{}), def.PlayerStart)

	reachable := ReachableFrom(w, def.PlayerStart)
	if !reachable[Position{X: 5, Y: 5}] {
		t.Error("Expected (5,5) reachable through the path row")
	}
	if !CanReachObject(reachable, def.Objects[0], 1) {
		t.Error("Expected hut reachable")
	}

	if got := ReachableFrom(w, Position{X: 0, Y: 0}); len(got) != 0 {
		t.Errorf("Expected empty set from a border cell, got %d cells", len(got))
	}
}
