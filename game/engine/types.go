package engine

import "strings"

// TileKind represents different types of grid tiles
type TileKind string

const (
	Rock  TileKind = "rock"
	Path  TileKind = "path"
	Tree  TileKind = "tree"
	Grass TileKind = "grass"
	Water TileKind = "water"
	Hut   TileKind = "hut"
	Board TileKind = "board"
	Box   TileKind = "box"

	// Validation constants
	MinGridSize              = 5
	MaxGridSize              = 50
	MaxBulkMoves             = 20
	DefaultInteractionRadius = 1
	WebSocketBufferSize      = 256
)

// Walkable reports whether the player may stand on a tile of this kind.
func (k TileKind) Walkable() bool {
	return k == Path || k == Grass
}

// IsObjectKind reports whether k can be used for an interactive object.
func (k TileKind) IsObjectKind() bool {
	return k == Hut || k == Board || k == Box
}

// Valid reports whether k is one of the known tile kinds.
func (k TileKind) Valid() bool {
	switch k {
	case Rock, Path, Tree, Grass, Water, Hut, Board, Box:
		return true
	}
	return false
}

// Char returns the single-character map symbol for the tile kind
func (k TileKind) Char() string {
	switch k {
	case Rock:
		return "#"
	case Path:
		return "="
	case Tree:
		return "T"
	case Grass:
		return "."
	case Water:
		return "~"
	case Hut:
		return "H"
	case Board:
		return "B"
	case Box:
		return "X"
	default:
		return "?"
	}
}

// Tile represents a single grid cell
type Tile struct {
	Kind     TileKind `json:"kind"`
	Walkable bool     `json:"walkable"`
}

func newTile(kind TileKind) Tile {
	return Tile{Kind: kind, Walkable: kind.Walkable()}
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Direction is a logical movement intent
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists the four cardinal directions in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection decodes a direction name or key name (w/a/s/d, ArrowUp, ...).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w", "arrowup", "north":
		return Up, true
	case "down", "s", "arrowdown", "south":
		return Down, true
	case "left", "a", "arrowleft", "west":
		return Left, true
	case "right", "d", "arrowright", "east":
		return Right, true
	}
	return "", false
}

// Delta returns the unit step for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// ChallengeKind identifies a mini-task attached to an interactive object
type ChallengeKind string

const (
	MathChallenge     ChallengeKind = "math"
	ReadingChallenge  ChallengeKind = "reading"
	SelfieChallenge   ChallengeKind = "selfie"
	FriendsChallenge  ChallengeKind = "friends"
	CreativeChallenge ChallengeKind = "creative"
)

// Valid reports whether k is a known challenge kind.
func (k ChallengeKind) Valid() bool {
	switch k {
	case MathChallenge, ReadingChallenge, SelfieChallenge, FriendsChallenge, CreativeChallenge:
		return true
	}
	return false
}

// ParseChallengeKind returns the matching kind, falling back to math for unknown names.
func ParseChallengeKind(s string) ChallengeKind {
	k := ChallengeKind(strings.ToLower(strings.TrimSpace(s)))
	if k.Valid() {
		return k
	}
	return MathChallenge
}

// Title returns the display title of the challenge kind
func (k ChallengeKind) Title() string {
	switch k {
	case ReadingChallenge:
		return "Reading Challenge"
	case SelfieChallenge:
		return "Selfie Challenge"
	case FriendsChallenge:
		return "Friends Challenge"
	case CreativeChallenge:
		return "Creative Challenge"
	default:
		return "Math Challenge"
	}
}

// LevelID identifies a themed level
type LevelID string

const (
	Jungle    LevelID = "jungle"
	Desert    LevelID = "desert"
	Mountains LevelID = "mountains"
	Ocean     LevelID = "ocean"

	DefaultLevel = Jungle
)

// InteractiveObject is a fixed, non-walkable tile that starts a challenge
type InteractiveObject struct {
	X           int           `json:"x" yaml:"x"`
	Y           int           `json:"y" yaml:"y"`
	Kind        TileKind      `json:"kind" yaml:"kind"`
	Challenge   ChallengeKind `json:"challenge" yaml:"challenge"`
	Reward      int           `json:"reward" yaml:"reward"`
	Description string        `json:"description" yaml:"description"`
}

// Position returns the object's grid coordinate
func (o InteractiveObject) Position() Position {
	return Position{X: o.X, Y: o.Y}
}

// Landmark is a fixed non-walkable, non-interactive stamp (a pond, a boulder)
type Landmark struct {
	X    int      `json:"x" yaml:"x"`
	Y    int      `json:"y" yaml:"y"`
	Kind TileKind `json:"kind" yaml:"kind"`
}

// WorldMap is the generated grid for one level visit
type WorldMap struct {
	LevelID LevelID             `json:"level_id"`
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Tiles   [][]Tile            `json:"tiles"`
	Objects []InteractiveObject `json:"objects"`
}

// PlayerInfo is the serialisable view of the player
type PlayerInfo struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatar_id"`
	Avatar   string `json:"avatar"`
	Coins    int    `json:"coins"`
}

// GameState is a snapshot of everything the presentation layer renders
type GameState struct {
	Player          PlayerInfo          `json:"player"`
	LevelID         LevelID             `json:"level_id,omitempty"`
	LevelTitle      string              `json:"level_title,omitempty"`
	Width           int                 `json:"width"`
	Height          int                 `json:"height"`
	Tiles           [][]Tile            `json:"tiles,omitempty"`
	Objects         []InteractiveObject `json:"objects,omitempty"`
	PlayerPos       Position            `json:"player_pos"`
	Interactable    *InteractiveObject  `json:"interactable,omitempty"`
	ActiveChallenge *Challenge          `json:"active_challenge,omitempty"`
	Moving          bool                `json:"moving"`
	Message         string              `json:"message"`
	TotalMoves      int                 `json:"total_moves"`
	LevelVisits     int                 `json:"level_visits"`

	// Computed helper views (not required for core game logic)
	Map          []string `json:"map,omitempty"`
	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Success      bool     `json:"success"`
	Reason       string   `json:"reason,omitempty"`
	LevelID      LevelID  `json:"level_id"`
	Timestamp    int64    `json:"timestamp"`
	MoveNumber   int      `json:"move_number"`
}
