package main

import (
	"strconv"

	"github.com/wricardo/explorer-quest/game/engine"
	"github.com/wricardo/explorer-quest/game/service"
)

// Strategy picks the next object to visit and plans walking routes to it
type Strategy struct {
	radius int
	done   map[engine.Position]bool
	failed map[engine.Position]int
}

// maxRouteFailures is how many blocked routes an object gets before it is skipped
const maxRouteFailures = 3

func NewStrategy(radius int) *Strategy {
	if radius <= 0 {
		radius = engine.DefaultInteractionRadius
	}
	return &Strategy{
		radius: radius,
		done:   make(map[engine.Position]bool),
		failed: make(map[engine.Position]int),
	}
}

// MarkDone records a cleared object
func (s *Strategy) MarkDone(pos engine.Position) {
	s.done[pos] = true
}

// MarkFailed records a blocked route; it reports whether the object is given up on
func (s *Strategy) MarkFailed(pos engine.Position) bool {
	s.failed[pos]++
	return s.failed[pos] >= maxRouteFailures
}

func (s *Strategy) skipped(pos engine.Position) bool {
	return s.done[pos] || s.failed[pos] >= maxRouteFailures
}

// Next returns the pending object with the shortest route and that route.
// ok is false when no pending object can be reached.
func (s *Strategy) Next(state *engine.GameState) (target engine.InteractiveObject, route []engine.Direction, ok bool) {
	for _, obj := range state.Objects {
		if s.skipped(obj.Position()) {
			continue
		}
		r, found := s.Route(state, obj)
		if !found {
			continue
		}
		if !ok || len(r) < len(route) {
			target, route, ok = obj, r, true
		}
	}
	return target, route, ok
}

// Route runs a BFS over walkable tiles from the player to any cell within
// interaction range of obj
func (s *Strategy) Route(state *engine.GameState, obj engine.InteractiveObject) ([]engine.Direction, bool) {
	start := state.PlayerPos
	if s.inRange(start, obj) {
		return []engine.Direction{}, true
	}

	type queueItem struct {
		pos  engine.Position
		path []engine.Direction
	}

	queue := []queueItem{{pos: start, path: []engine.Direction{}}}
	visited := map[engine.Position]bool{start: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions {
			dx, dy := dir.Delta()
			next := engine.Position{X: current.pos.X + dx, Y: current.pos.Y + dy}

			if visited[next] || !walkable(state, next) {
				continue
			}

			path := append([]engine.Direction{}, current.path...)
			path = append(path, dir)

			if s.inRange(next, obj) {
				return path, true
			}

			visited[next] = true
			queue = append(queue, queueItem{pos: next, path: path})
		}
	}

	return nil, false
}

func (s *Strategy) inRange(pos engine.Position, obj engine.InteractiveObject) bool {
	return engine.ChebyshevDistance(pos, obj.Position()) <= s.radius
}

func walkable(state *engine.GameState, pos engine.Position) bool {
	if pos.Y < 0 || pos.Y >= len(state.Tiles) || pos.X < 0 || pos.X >= len(state.Tiles[pos.Y]) {
		return false
	}
	return state.Tiles[pos.Y][pos.X].Walkable
}

// chunk splits a route into bulk-move sized batches
func chunk(route []engine.Direction, size int) [][]engine.Direction {
	var batches [][]engine.Direction
	for len(route) > size {
		batches = append(batches, route[:size])
		route = route[size:]
	}
	if len(route) > 0 {
		batches = append(batches, route)
	}
	return batches
}

// Answer builds the submission that clears ch
func Answer(ch *engine.Challenge, friends int) service.ChallengeSubmission {
	sub := service.ChallengeSubmission{ChallengeID: ch.ID}
	switch ch.Kind {
	case engine.MathChallenge:
		if ch.Math != nil {
			sub.Answer = strconv.Itoa(ch.Math.Answer())
		}
	case engine.FriendsChallenge:
		sub.FriendCount = friends
	}
	return sub
}
