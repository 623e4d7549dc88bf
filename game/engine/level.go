package engine

// PathKind selects how a PathRule matches cells
type PathKind string

const (
	RowPath    PathKind = "row"
	ColumnPath PathKind = "column"
	RectPath   PathKind = "rect"
)

// PathRule marks cells that always generate as walkable path.
// Row and column rules use Index; rect rules use the inclusive Min/Max bounds.
type PathRule struct {
	Kind  PathKind `json:"kind" yaml:"kind"`
	Index int      `json:"index,omitempty" yaml:"index,omitempty"`
	MinX  int      `json:"min_x,omitempty" yaml:"min_x,omitempty"`
	MinY  int      `json:"min_y,omitempty" yaml:"min_y,omitempty"`
	MaxX  int      `json:"max_x,omitempty" yaml:"max_x,omitempty"`
	MaxY  int      `json:"max_y,omitempty" yaml:"max_y,omitempty"`
}

// Contains reports whether the rule covers (x, y)
func (r PathRule) Contains(x, y int) bool {
	switch r.Kind {
	case RowPath:
		return y == r.Index
	case ColumnPath:
		return x == r.Index
	case RectPath:
		return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
	}
	return false
}

// Row returns a rule covering a whole row
func Row(y int) PathRule { return PathRule{Kind: RowPath, Index: y} }

// Column returns a rule covering a whole column
func Column(x int) PathRule { return PathRule{Kind: ColumnPath, Index: x} }

// Rect returns a rule covering the inclusive rectangle
func Rect(minX, minY, maxX, maxY int) PathRule {
	return PathRule{Kind: RectPath, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// TerrainRule is the random filler drawn for cells not covered by border or paths
type TerrainRule struct {
	Obstacle    TileKind `json:"obstacle" yaml:"obstacle"`
	Probability float64  `json:"probability" yaml:"probability"`
	Ground      TileKind `json:"ground" yaml:"ground"`
}

// Story is the narrative shown before a level
type Story struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// LevelDefinition is the authoring-time description of a level
type LevelDefinition struct {
	ID                LevelID             `json:"id" yaml:"id"`
	Title             string              `json:"title" yaml:"title"`
	Story             Story               `json:"story" yaml:"story"`
	Width             int                 `json:"width" yaml:"width"`
	Height            int                 `json:"height" yaml:"height"`
	PlayerStart       Position            `json:"player_start" yaml:"player_start"`
	InteractionRadius int                 `json:"interaction_radius,omitempty" yaml:"interaction_radius,omitempty"`
	Paths             []PathRule          `json:"paths" yaml:"paths"`
	Terrain           TerrainRule         `json:"terrain" yaml:"terrain"`
	Objects           []InteractiveObject `json:"objects" yaml:"objects"`
	Landmarks         []Landmark          `json:"landmarks,omitempty" yaml:"landmarks,omitempty"`
	ReadingSentences  []string            `json:"reading_sentences,omitempty" yaml:"reading_sentences,omitempty"`
}

// Radius returns the interaction radius, defaulting to DefaultInteractionRadius
func (d *LevelDefinition) Radius() int {
	if d.InteractionRadius <= 0 {
		return DefaultInteractionRadius
	}
	return d.InteractionRadius
}

// Sentences returns the level's reading list, or the shared default list
func (d *LevelDefinition) Sentences() []string {
	if len(d.ReadingSentences) > 0 {
		return d.ReadingSentences
	}
	return DefaultReadingSentences
}

// DefaultReadingSentences is used by levels that do not define their own list
var DefaultReadingSentences = []string{
	"The brave explorer discovers ancient treasures.",
	"A magical creature lives in the enchanted forest.",
	"The wise owl teaches young animals to fly.",
	"Adventure awaits around every corner.",
	"Friendship makes every journey special.",
}

// BuiltinLevels returns fresh copies of the four bundled levels, in menu order
func BuiltinLevels() []*LevelDefinition {
	return []*LevelDefinition{
		{
			ID:    Jungle,
			Title: "Jungle Adventure",
			Story: Story{
				Title: "The Lost Monkey",
				Text:  "A little monkey has lost his way in the jungle! Help him find his family by solving challenges and collecting bananas.",
			},
			Width:       20,
			Height:      15,
			PlayerStart: Position{X: 2, Y: 2},
			Paths:       []PathRule{Column(10), Row(7), Rect(5, 3, 15, 3), Rect(8, 10, 18, 10)},
			Terrain:     TerrainRule{Obstacle: Tree, Probability: 0.3, Ground: Grass},
			Objects: []InteractiveObject{
				{X: 5, Y: 3, Kind: Hut, Challenge: MathChallenge, Reward: 15, Description: "Math Hut"},
				{X: 8, Y: 7, Kind: Board, Challenge: ReadingChallenge, Reward: 20, Description: "Reading Board"},
				{X: 12, Y: 5, Kind: Box, Challenge: SelfieChallenge, Reward: 25, Description: "Mystery Box"},
				{X: 15, Y: 10, Kind: Hut, Challenge: FriendsChallenge, Reward: 30, Description: "Friends Hut"},
			},
			Landmarks: []Landmark{{X: 5, Y: 12, Kind: Water}},
		},
		{
			ID:    Desert,
			Title: "Desert Quest",
			Story: Story{
				Title: "The Thirsty Rabbit",
				Text:  "Oh no! Little Rabbit is very thirsty in the hot desert. He found a well, but it's locked! Can you help him get water by solving challenges to find the key?",
			},
			Width:       20,
			Height:      15,
			PlayerStart: Position{X: 2, Y: 2},
			Paths:       []PathRule{Column(10), Row(7)},
			Terrain:     TerrainRule{Obstacle: Rock, Probability: 0.2, Ground: Grass},
			Objects: []InteractiveObject{
				{X: 6, Y: 4, Kind: Hut, Challenge: MathChallenge, Reward: 18, Description: "Desert Math Hut"},
				{X: 10, Y: 8, Kind: Board, Challenge: ReadingChallenge, Reward: 22, Description: "Desert Reading Board"},
				{X: 14, Y: 6, Kind: Box, Challenge: CreativeChallenge, Reward: 35, Description: "Desert Mystery Box"},
			},
		},
		{
			ID:    Mountains,
			Title: "Mountain Peak",
			Story: Story{
				Title: "The Brave Eagle",
				Text:  "A young eagle wants to learn to fly high above the mountains. Help him gain confidence through various challenges!",
			},
			Width:       20,
			Height:      15,
			PlayerStart: Position{X: 2, Y: 2},
			Paths:       []PathRule{Column(10), Row(7)},
			Terrain:     TerrainRule{Obstacle: Rock, Probability: 0.4, Ground: Grass},
			Objects: []InteractiveObject{
				{X: 7, Y: 5, Kind: Hut, Challenge: MathChallenge, Reward: 25, Description: "Mountain Math Hut"},
				{X: 11, Y: 9, Kind: Board, Challenge: ReadingChallenge, Reward: 30, Description: "Mountain Reading Board"},
				{X: 13, Y: 7, Kind: Box, Challenge: CreativeChallenge, Reward: 40, Description: "Mountain Mystery Box"},
			},
		},
		{
			ID:    Ocean,
			Title: "Ocean Depths",
			Story: Story{
				Title: "The Curious Dolphin",
				Text:  "A friendly dolphin wants to explore the ocean depths but needs help with some underwater challenges first.",
			},
			Width:       20,
			Height:      15,
			PlayerStart: Position{X: 2, Y: 2},
			Paths:       []PathRule{Column(10), Row(7)},
			Terrain:     TerrainRule{Obstacle: Water, Probability: 0.3, Ground: Grass},
			Objects: []InteractiveObject{
				{X: 5, Y: 4, Kind: Hut, Challenge: MathChallenge, Reward: 20, Description: "Ocean Math Hut"},
				{X: 9, Y: 8, Kind: Board, Challenge: ReadingChallenge, Reward: 25, Description: "Ocean Reading Board"},
				{X: 15, Y: 6, Kind: Box, Challenge: SelfieChallenge, Reward: 30, Description: "Ocean Mystery Box"},
			},
		},
	}
}

// BuiltinLevel returns the bundled level with the given id, or the default level
// when the id is unknown. The second result reports whether the id matched.
func BuiltinLevel(id LevelID) (*LevelDefinition, bool) {
	levels := BuiltinLevels()
	for _, def := range levels {
		if def.ID == id {
			return def, true
		}
	}
	for _, def := range levels {
		if def.ID == DefaultLevel {
			return def, false
		}
	}
	return levels[0], false
}
