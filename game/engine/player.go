package engine

import (
	"errors"
	"strings"
)

var ErrPlayerNameRequired = errors.New("player name is required")

// DefaultAvatarID is used when no avatar is picked
const DefaultAvatarID = "1"

var avatarEmojis = map[string]string{
	"1": "🐒",
	"2": "🐰",
	"3": "🦅",
	"4": "🐳",
}

// AvatarEmoji maps an avatar id to its emoji; unknown ids get a generic kid
func AvatarEmoji(id string) string {
	if e, ok := avatarEmojis[id]; ok {
		return e
	}
	return "👦"
}

// Player holds identity and earned coins. Coins can only grow, and only the
// challenge completion path adds them.
type Player struct {
	name     string
	avatarID string
	coins    int
}

// NewPlayer validates the name and creates a player with zero coins
func NewPlayer(name, avatarID string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if avatarID == "" {
		avatarID = DefaultAvatarID
	}
	return &Player{name: name, avatarID: avatarID}, nil
}

// Name returns the player's display name
func (p *Player) Name() string { return p.name }

// AvatarID returns the chosen avatar id
func (p *Player) AvatarID() string { return p.avatarID }

// Coins returns the current coin total
func (p *Player) Coins() int { return p.coins }

// addCoins increases the coin total; negative amounts are ignored
func (p *Player) addCoins(amount int) {
	if amount <= 0 {
		return
	}
	p.coins += amount
}

// Info returns the serialisable view of the player
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		Name:     p.name,
		AvatarID: p.avatarID,
		Avatar:   AvatarEmoji(p.avatarID),
		Coins:    p.coins,
	}
}
