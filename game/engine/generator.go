package engine

// Generate builds a world map for one visit of the level.
//
// Each cell is decided by a strict priority chain: border rock, then path rules,
// then a Bernoulli roll between the level obstacle and its ground. The start cell
// is cleared to ground, and finally objects and landmarks are stamped over
// whatever was generated. Only the roll consumes randomness, so every call shares
// the same walkable skeleton while filler terrain differs.
func Generate(def *LevelDefinition, rng RandomSource) *WorldMap {
	w, h := def.Width, def.Height
	tiles := make([][]Tile, h)
	for y := 0; y < h; y++ {
		tiles[y] = make([]Tile, w)
		for x := 0; x < w; x++ {
			tiles[y][x] = newTile(terrainAt(def, x, y, rng))
		}
	}

	start := def.PlayerStart
	if start.X >= 0 && start.X < w && start.Y >= 0 && start.Y < h && !tiles[start.Y][start.X].Walkable {
		tiles[start.Y][start.X] = newTile(def.Terrain.Ground)
	}

	for _, lm := range def.Landmarks {
		if lm.X >= 0 && lm.X < w && lm.Y >= 0 && lm.Y < h {
			tiles[lm.Y][lm.X] = newTile(lm.Kind)
		}
	}

	objects := make([]InteractiveObject, len(def.Objects))
	copy(objects, def.Objects)
	for _, obj := range objects {
		if obj.X >= 0 && obj.X < w && obj.Y >= 0 && obj.Y < h {
			// Object cells are never walkable, whatever the kind says.
			tiles[obj.Y][obj.X] = Tile{Kind: obj.Kind, Walkable: false}
		}
	}

	return &WorldMap{
		LevelID: def.ID,
		Width:   w,
		Height:  h,
		Tiles:   tiles,
		Objects: objects,
	}
}

func terrainAt(def *LevelDefinition, x, y int, rng RandomSource) TileKind {
	if x == 0 || y == 0 || x == def.Width-1 || y == def.Height-1 {
		return Rock
	}
	for _, rule := range def.Paths {
		if rule.Contains(x, y) {
			return Path
		}
	}
	if rng.Float64() < def.Terrain.Probability {
		return def.Terrain.Obstacle
	}
	return def.Terrain.Ground
}
