package engine

// ChebyshevDistance returns max(|dx|, |dy|) between two positions
func ChebyshevDistance(from, to Position) int {
	dx := abs(from.X - to.X)
	dy := abs(from.Y - to.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// CountTileKind counts the total number of tiles of a specific kind in the grid
func CountTileKind(tiles [][]Tile, kind TileKind) int {
	count := 0
	for _, row := range tiles {
		for _, tile := range row {
			if tile.Kind == kind {
				count++
			}
		}
	}
	return count
}

// CountWalkable counts walkable tiles in the grid
func CountWalkable(tiles [][]Tile) int {
	count := 0
	for _, row := range tiles {
		for _, tile := range row {
			if tile.Walkable {
				count++
			}
		}
	}
	return count
}

// ReachableFrom returns every walkable cell reachable from start with
// cardinal steps. An unwalkable start yields an empty set.
func ReachableFrom(w *WorldState, start Position) map[Position]bool {
	seen := make(map[Position]bool)
	if !w.IsWalkable(start.X, start.Y) {
		return seen
	}

	queue := []Position{start}
	seen[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range Directions {
			dx, dy := dir.Delta()
			next := Position{X: cur.X + dx, Y: cur.Y + dy}
			if seen[next] || !w.IsWalkable(next.X, next.Y) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// CanReachObject reports whether some cell within interaction radius of obj is
// in the reachable set
func CanReachObject(reachable map[Position]bool, obj InteractiveObject, radius int) bool {
	for pos := range reachable {
		if ChebyshevDistance(pos, obj.Position()) <= radius {
			return true
		}
	}
	return false
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
