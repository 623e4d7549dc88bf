package engine

import "strings"

// WorldState holds the current level's map and the live player position
type WorldState struct {
	Map    *WorldMap
	Player Position
}

// NewWorldState places the player at start on the given map
func NewWorldState(m *WorldMap, start Position) *WorldState {
	return &WorldState{Map: m, Player: start}
}

// InBounds reports whether (x, y) lies on the grid
func (w *WorldState) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.Map.Width && y < w.Map.Height
}

// TileAt returns the tile at (x, y); ok is false outside the grid
func (w *WorldState) TileAt(x, y int) (Tile, bool) {
	if !w.InBounds(x, y) {
		return Tile{}, false
	}
	return w.Map.Tiles[y][x], true
}

// IsWalkable checks if the player can stand on (x, y)
func (w *WorldState) IsWalkable(x, y int) bool {
	tile, ok := w.TileAt(x, y)
	return ok && tile.Walkable
}

// ObjectsWithinRange returns every object whose Chebyshev distance to pos is at
// most radius, in declaration order
func (w *WorldState) ObjectsWithinRange(pos Position, radius int) []InteractiveObject {
	var result []InteractiveObject
	for _, obj := range w.Map.Objects {
		if ChebyshevDistance(pos, obj.Position()) <= radius {
			result = append(result, obj)
		}
	}
	return result
}

// FirstObjectWithinRange returns the first declared object within radius of pos.
// Ties are broken by declaration order, not by distance.
func (w *WorldState) FirstObjectWithinRange(pos Position, radius int) (InteractiveObject, bool) {
	for _, obj := range w.Map.Objects {
		if ChebyshevDistance(pos, obj.Position()) <= radius {
			return obj, true
		}
	}
	return InteractiveObject{}, false
}

// ObjectAt returns the object stamped at (x, y), if any
func (w *WorldState) ObjectAt(x, y int) (InteractiveObject, bool) {
	for _, obj := range w.Map.Objects {
		if obj.X == x && obj.Y == y {
			return obj, true
		}
	}
	return InteractiveObject{}, false
}

// Render draws the map one character per tile with the player as '@'
func (w *WorldState) Render() []string {
	rows := make([]string, 0, w.Map.Height)
	for y := 0; y < w.Map.Height; y++ {
		var row strings.Builder
		for x := 0; x < w.Map.Width; x++ {
			if x == w.Player.X && y == w.Player.Y {
				row.WriteString("@")
				continue
			}
			row.WriteString(w.Map.Tiles[y][x].Kind.Char())
		}
		rows = append(rows, row.String())
	}
	return rows
}

// LocalView3x3 returns the 3x3 neighbourhood around the player; outside cells are rock
func (w *WorldState) LocalView3x3() []string {
	px, py := w.Player.X, w.Player.Y
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				row.WriteString("@")
				continue
			}
			tile, ok := w.TileAt(px+dx, py+dy)
			if !ok {
				row.WriteString(Rock.Char())
				continue
			}
			row.WriteString(tile.Kind.Char())
		}
		lines = append(lines, row.String())
	}
	return lines
}
