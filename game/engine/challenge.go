package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoActiveChallenge  = errors.New("no active challenge")
	ErrChallengeMismatch  = errors.New("challenge is not the active challenge")
	ErrRecordingNotNeeded = errors.New("active challenge has no recording step")
)

// Math operand ranges, inclusive
const (
	MathOperand1Max = 20
	MathOperand2Max = 15

	FriendsBonusPerFriend  = 5
	FriendsMaxBonusFriends = 4
)

// MathProblem holds the generated operands of a math challenge
type MathProblem struct {
	Operand1 int `json:"operand1"`
	Operand2 int `json:"operand2"`
}

// Answer returns the correct sum
func (m MathProblem) Answer() int {
	return m.Operand1 + m.Operand2
}

// Challenge is the single active mini-task of a session
type Challenge struct {
	ID        int               `json:"id"`
	Kind      ChallengeKind     `json:"kind"`
	Title     string            `json:"title"`
	Prompt    string            `json:"prompt"`
	Reward    int               `json:"reward"`
	Source    InteractiveObject `json:"source"`
	Math      *MathProblem      `json:"math,omitempty"`
	Sentence  string            `json:"sentence,omitempty"`
	Recording bool              `json:"recording,omitempty"`
	Attempts  int               `json:"attempts"`
}

// Submission carries the player's completion input.
// Answer is the raw math answer; FriendCount is the friends photo head count.
type Submission struct {
	Answer      string `json:"answer,omitempty"`
	FriendCount int    `json:"friend_count,omitempty"`
}

// Outcome is the result of a completion attempt
type Outcome struct {
	ChallengeID   int           `json:"challenge_id"`
	Kind          ChallengeKind `json:"kind"`
	Success       bool          `json:"success"`
	Reward        int           `json:"reward"`
	Bonus         int           `json:"bonus,omitempty"`
	CorrectAnswer *int          `json:"correct_answer,omitempty"`
	Cleared       bool          `json:"cleared"`
	Coins         int           `json:"coins"`
	Message       string        `json:"message"`
}

// Snapshot returns a copy that shares no memory with the live challenge
func (c *Challenge) Snapshot() *Challenge {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Math != nil {
		m := *c.Math
		cp.Math = &m
	}
	return &cp
}

// ChallengeEngine runs the NONE -> ACTIVE -> NONE challenge state machine
type ChallengeEngine struct {
	rng    RandomSource
	active *Challenge
	nextID int
}

// NewChallengeEngine creates an engine with no active challenge
func NewChallengeEngine(rng RandomSource) *ChallengeEngine {
	if rng == nil {
		rng = NewTimeSeededSource()
	}
	return &ChallengeEngine{rng: rng}
}

// Active returns the active challenge or nil
func (c *ChallengeEngine) Active() *Challenge {
	return c.active
}

// Start instantiates a challenge of the given kind. Unknown kinds become math.
// When a challenge is already active it is returned unchanged.
func (c *ChallengeEngine) Start(kind ChallengeKind, reward int, source InteractiveObject, sentences []string) *Challenge {
	if c.active != nil {
		return c.active
	}
	if !kind.Valid() {
		kind = MathChallenge
	}

	c.nextID++
	ch := &Challenge{
		ID:     c.nextID,
		Kind:   kind,
		Title:  kind.Title(),
		Reward: reward,
		Source: source,
	}

	switch kind {
	case MathChallenge:
		problem := MathProblem{
			Operand1: c.rng.IntN(MathOperand1Max) + 1,
			Operand2: c.rng.IntN(MathOperand2Max) + 1,
		}
		ch.Math = &problem
		ch.Prompt = fmt.Sprintf("Solve this math problem: %d + %d = ?", problem.Operand1, problem.Operand2)
	case ReadingChallenge:
		if len(sentences) == 0 {
			sentences = DefaultReadingSentences
		}
		ch.Sentence = sentences[c.rng.IntN(len(sentences))]
		ch.Prompt = fmt.Sprintf("Read this sentence out loud: %q", ch.Sentence)
	case SelfieChallenge:
		ch.Prompt = "Take a selfie and show your best smile!"
	case FriendsChallenge:
		ch.Prompt = "Take a photo with at least one friend! How many friends are in your photo?"
	case CreativeChallenge:
		ch.Prompt = "Draw or create something amazing, then take a photo of your creation."
	}

	c.active = ch
	return ch
}

// Complete evaluates a submission for the active challenge. id 0 targets
// whatever challenge is active. A successful completion credits the player
// and clears the challenge; a wrong math answer leaves it active.
func (c *ChallengeEngine) Complete(id int, sub Submission, player *Player) (Outcome, error) {
	ch := c.active
	if ch == nil {
		return Outcome{}, ErrNoActiveChallenge
	}
	if id != 0 && id != ch.ID {
		return Outcome{}, fmt.Errorf("%w: got %d, active is %d", ErrChallengeMismatch, id, ch.ID)
	}

	ch.Attempts++
	out := Outcome{ChallengeID: ch.ID, Kind: ch.Kind}

	switch ch.Kind {
	case MathChallenge:
		correct := ch.Math.Answer()
		answer, err := strconv.Atoi(strings.TrimSpace(sub.Answer))
		if err != nil || answer != correct {
			out.CorrectAnswer = &correct
			out.Message = fmt.Sprintf("Try again! The answer was %d", correct)
			out.Coins = player.Coins()
			return out, nil
		}
		out.Reward = ch.Reward
		out.Message = "Correct! You earned coins! 🎉"
	case ReadingChallenge:
		out.Reward = ch.Reward
		out.Message = "Excellent reading! You earned coins! 📖"
	case SelfieChallenge:
		out.Reward = ch.Reward
		out.Message = "Amazing selfie! You earned coins! 📸"
	case FriendsChallenge:
		out.Bonus = FriendsBonus(sub.FriendCount)
		out.Reward = ch.Reward + out.Bonus
		out.Message = fmt.Sprintf("Great group photo! You earned %d coins! 👥", out.Reward)
	case CreativeChallenge:
		out.Reward = ch.Reward
		out.Message = "Wonderful creativity! You earned coins! 🎨"
	}

	out.Success = true
	out.Cleared = true
	player.addCoins(out.Reward)
	out.Coins = player.Coins()
	c.active = nil
	return out, nil
}

// Dismiss closes the active challenge without reward; false if none was active
func (c *ChallengeEngine) Dismiss() bool {
	if c.active == nil {
		return false
	}
	c.active = nil
	return true
}

// SetRecording toggles the cosmetic recording flag of a reading challenge
func (c *ChallengeEngine) SetRecording(on bool) error {
	if c.active == nil {
		return ErrNoActiveChallenge
	}
	if c.active.Kind != ReadingChallenge {
		return ErrRecordingNotNeeded
	}
	c.active.Recording = on
	return nil
}

// FriendsBonus returns the bonus for n friends in the photo: 5 coins per extra
// friend, capped at 4 extra friends. Counts below 1 are treated as 1.
func FriendsBonus(n int) int {
	if n < 1 {
		n = 1
	}
	extra := n - 1
	if extra > FriendsMaxBonusFriends {
		extra = FriendsMaxBonusFriends
	}
	return extra * FriendsBonusPerFriend
}
