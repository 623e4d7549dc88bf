// Package engine provides the core game logic for Explorer Quest.
//
// The engine package implements the game mechanics including:
//   - Level definitions, validation and JSON/YAML loading
//   - Procedural grid generation from a level's path and terrain rules
//   - Tile-by-tile movement with a single outstanding movement lock
//   - Proximity detection of interactive objects
//   - The challenge state machine and coin rewards
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. A LevelDefinition describes a themed level, and
// Generate turns it into a WorldMap for one visit. GameState is the snapshot
// handed to the presentation layers.
//
// Usage:
//
//	player, err := engine.NewPlayer("Ada", "1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine := engine.NewEngine(player, engine.Options{})
//	level, _ := engine.BuiltinLevel(engine.Jungle)
//	if err := gameEngine.EnterLevel(level); err != nil {
//		log.Fatal(err)
//	}
//
//	result := gameEngine.Move("right")
//	if challenge, ok := gameEngine.Interact(); ok {
//		fmt.Println(challenge.Prompt)
//	}
//
// Game Rules:
//
// The player walks a bordered grid. Path and grass are walkable, everything
// else blocks. Standing within the interaction radius of a hut, board or box
// lets the player start its challenge; completing it awards coins. Coins only
// ever grow and there is no win or lose state.
package engine
