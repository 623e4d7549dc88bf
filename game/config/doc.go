// Package config provides level management for Explorer Quest.
//
// The config package handles:
//   - Serving the built-in levels (jungle, desert, mountains, ocean)
//   - Loading extra levels from JSON or YAML files in a level directory
//   - Validating every level before it is offered to a session
//   - Reloading the directory when files change
//
// Level Format:
//
// A level file describes the grid size, the player start, path rules, the
// random filler terrain and the interactive objects:
//
//	id: meadow
//	title: Sunny Meadow
//	width: 12
//	height: 8
//	player_start: {x: 1, y: 1}
//	paths:
//	  - {kind: row, index: 4}
//	terrain: {obstacle: tree, probability: 0.25, ground: grass}
//	objects:
//	  - {x: 6, y: 3, kind: hut, challenge: math, reward: 15, description: Meadow Hut}
//
// A file whose id matches a built-in level replaces it.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("desert")
//	levels, err := manager.ListLevels()
//
//	watcher, err := config.NewWatcher(manager)
//	go watcher.Run(ctx)
package config
