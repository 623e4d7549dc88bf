package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateLevel validates a level definition for correctness and playability
func ValidateLevel(def *LevelDefinition) error {
	if def == nil {
		return fmt.Errorf("level validation: definition is nil")
	}

	// Validate required fields
	if def.ID == "" {
		return fmt.Errorf("level validation: id is required")
	}
	if def.Title == "" {
		return fmt.Errorf("level validation: title is required")
	}

	// Validate grid size
	if def.Width < MinGridSize || def.Width > MaxGridSize {
		return fmt.Errorf("level validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, def.Width)
	}
	if def.Height < MinGridSize || def.Height > MaxGridSize {
		return fmt.Errorf("level validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, def.Height)
	}

	if !def.interior(def.PlayerStart.X, def.PlayerStart.Y) {
		return fmt.Errorf("level validation: player_start (%d,%d) must be inside the border", def.PlayerStart.X, def.PlayerStart.Y)
	}

	// Validate terrain roll
	t := def.Terrain
	if t.Probability < 0 || t.Probability > 1 {
		return fmt.Errorf("level validation: terrain.probability must be between 0 and 1, got %v", t.Probability)
	}
	if !t.Obstacle.Valid() || t.Obstacle.Walkable() {
		return fmt.Errorf("level validation: terrain.obstacle must be a non-walkable tile kind, got '%s'", t.Obstacle)
	}
	if !t.Ground.Walkable() {
		return fmt.Errorf("level validation: terrain.ground must be a walkable tile kind, got '%s'", t.Ground)
	}

	// Validate path rules
	for i, rule := range def.Paths {
		switch rule.Kind {
		case RowPath:
			if rule.Index < 0 || rule.Index >= def.Height {
				return fmt.Errorf("level validation: path %d row index %d out of range", i+1, rule.Index)
			}
		case ColumnPath:
			if rule.Index < 0 || rule.Index >= def.Width {
				return fmt.Errorf("level validation: path %d column index %d out of range", i+1, rule.Index)
			}
		case RectPath:
			if rule.MinX > rule.MaxX || rule.MinY > rule.MaxY {
				return fmt.Errorf("level validation: path %d rectangle has min greater than max", i+1)
			}
			if rule.MinX < 0 || rule.MinY < 0 || rule.MaxX >= def.Width || rule.MaxY >= def.Height {
				return fmt.Errorf("level validation: path %d rectangle exceeds the grid", i+1)
			}
		default:
			return fmt.Errorf("level validation: path %d has unknown kind '%s'", i+1, rule.Kind)
		}
	}

	// Validate objects
	if len(def.Objects) == 0 {
		return fmt.Errorf("level validation: level must contain at least one interactive object")
	}
	occupied := make(map[Position]string)
	for i, obj := range def.Objects {
		if !def.interior(obj.X, obj.Y) {
			return fmt.Errorf("level validation: object %d at (%d,%d) must be inside the border", i+1, obj.X, obj.Y)
		}
		if !obj.Kind.IsObjectKind() {
			return fmt.Errorf("level validation: object %d kind must be hut, board or box, got '%s'", i+1, obj.Kind)
		}
		if obj.Reward <= 0 {
			return fmt.Errorf("level validation: object %d reward must be positive, got %d", i+1, obj.Reward)
		}
		pos := obj.Position()
		if other, ok := occupied[pos]; ok {
			return fmt.Errorf("level validation: object %d at (%d,%d) overlaps %s", i+1, obj.X, obj.Y, other)
		}
		occupied[pos] = fmt.Sprintf("object %d", i+1)
	}

	for i, lm := range def.Landmarks {
		if lm.X < 0 || lm.X >= def.Width || lm.Y < 0 || lm.Y >= def.Height {
			return fmt.Errorf("level validation: landmark %d at (%d,%d) is outside the grid", i+1, lm.X, lm.Y)
		}
		if !lm.Kind.Valid() || lm.Kind.Walkable() || lm.Kind.IsObjectKind() {
			return fmt.Errorf("level validation: landmark %d kind must be a non-walkable terrain kind, got '%s'", i+1, lm.Kind)
		}
		pos := Position{X: lm.X, Y: lm.Y}
		if other, ok := occupied[pos]; ok {
			return fmt.Errorf("level validation: landmark %d at (%d,%d) overlaps %s", i+1, lm.X, lm.Y, other)
		}
		occupied[pos] = fmt.Sprintf("landmark %d", i+1)
	}

	if other, ok := occupied[def.PlayerStart]; ok {
		return fmt.Errorf("level validation: player_start (%d,%d) is occupied by %s", def.PlayerStart.X, def.PlayerStart.Y, other)
	}

	for i, s := range def.ReadingSentences {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("level validation: reading sentence %d is empty", i+1)
		}
	}

	return nil
}

// interior reports whether (x, y) is inside the non-walkable border
func (d *LevelDefinition) interior(x, y int) bool {
	return x > 0 && y > 0 && x < d.Width-1 && y < d.Height-1
}

// ParseLevel decodes a level definition; format is "json" or "yaml"
func ParseLevel(data []byte, format string) (*LevelDefinition, error) {
	var def LevelDefinition
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	case "json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported level format '%s'", format)
	}
	NormalizeChallenges(&def)
	return &def, nil
}

// NormalizeChallenges rewrites unknown object challenge kinds to math
func NormalizeChallenges(def *LevelDefinition) {
	if def == nil {
		return
	}
	for i := range def.Objects {
		obj := &def.Objects[i]
		kind := ParseChallengeKind(string(obj.Challenge))
		if kind != obj.Challenge {
			log.Printf("[LEVELS] %s: object %d has unknown challenge '%s', using %s", def.ID, i+1, obj.Challenge, kind)
		}
		obj.Challenge = kind
	}
}

// FormatFromPath maps a file extension to a ParseLevel format, or "" if unsupported
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// LoadLevelFile loads and validates a level definition from a JSON or YAML file
func LoadLevelFile(path string) (*LevelDefinition, error) {
	format := FormatFromPath(path)
	if format == "" {
		return nil, fmt.Errorf("level file '%s' must end in .json, .yaml or .yml", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	def, err := ParseLevel(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filepath.Base(path), err)
	}

	if err := ValidateLevel(def); err != nil {
		return nil, err
	}

	return def, nil
}
