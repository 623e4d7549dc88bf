// Command autoplay plays Explorer Quest through the REST API. It creates (or
// resumes) a session, then repeatedly walks the shortest route to the nearest
// uncleared object, interacts with it and completes its challenge until every
// reachable object is cleared.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/explorer-quest/game/engine"
)

// Options tune a play-through
type Options struct {
	Friends int
	Delay   time.Duration
	Verbose bool
}

// Summary reports the outcome of a play-through
type Summary struct {
	SessionID string
	Cleared   int
	Skipped   int
	Moves     int
	Coins     int
}

// Play clears every reachable object of the session's current level
func Play(ctx context.Context, client *Client, state *engine.GameState, radius int, opts Options) (Summary, error) {
	summary := Summary{SessionID: client.SessionID()}
	if state == nil || state.LevelID == "" {
		return summary, fmt.Errorf("session has no level entered")
	}

	strategy := NewStrategy(radius)

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		target, route, ok := strategy.Next(state)
		if !ok {
			break
		}
		if opts.Verbose {
			log.Printf("Heading to %s at (%d,%d): %d moves", target.Description, target.X, target.Y, len(route))
		}

		arrived := true
		for _, batch := range chunk(route, engine.MaxBulkMoves) {
			result, err := client.BulkMove(ctx, batch)
			if err != nil {
				return summary, err
			}
			summary.Moves += result.MovesExecuted
			state = result.GameState
			if result.StoppedReason != "" {
				log.Printf("⚠️  Route to %s stopped: %s", target.Description, result.StoppedReason)
				arrived = false
				break
			}
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}
		}
		if !arrived {
			if strategy.MarkFailed(target.Position()) {
				summary.Skipped++
			}
			continue
		}

		interaction, err := client.Interact(ctx)
		if err != nil {
			return summary, err
		}
		state = interaction.GameState
		if !interaction.Started {
			log.Printf("⚠️  Nothing to interact with near %s", target.Description)
			if strategy.MarkFailed(target.Position()) {
				summary.Skipped++
			}
			continue
		}

		ch := interaction.Challenge
		result, err := client.Submit(ctx, Answer(ch, opts.Friends))
		if err != nil {
			return summary, err
		}
		state = result.GameState

		// the first object in range is the one started, which may not be the target
		source := ch.Source.Position()
		repeat := strategy.done[source]
		strategy.MarkDone(source)
		if source != target.Position() && strategy.MarkFailed(target.Position()) {
			summary.Skipped++
		}
		if repeat {
			continue
		}
		if result.Outcome.Cleared {
			summary.Cleared++
			log.Printf("✅ %s at the %s: +%d coins (total %d)", ch.Title, ch.Source.Description, result.Outcome.Reward, result.Outcome.Coins)
		} else {
			summary.Skipped++
			log.Printf("❌ %s at the %s: %s", ch.Title, ch.Source.Description, result.Outcome.Message)
		}
	}

	for _, obj := range state.Objects {
		if !strategy.done[obj.Position()] && strategy.failed[obj.Position()] < maxRouteFailures {
			log.Printf("⚠️  %s at (%d,%d) is unreachable", obj.Description, obj.X, obj.Y)
			summary.Skipped++
		}
	}

	summary.Coins = state.Player.Coins
	return summary, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Clear every challenge of an Explorer Quest level through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "player", Value: "Robo Explorer", Usage: "Player name for a new session"},
			&cli.StringFlag{Name: "avatar", Value: engine.DefaultAvatarID, Usage: "Avatar id for a new session"},
			&cli.StringFlag{Name: "level", Value: string(engine.DefaultLevel), Usage: "Level to play"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.IntFlag{Name: "friends", Value: 3, Usage: "Friends reported for friends photo challenges"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between bulk moves"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			serverURL := cmd.String("url")
			log.Printf("Connecting to game server at %s", serverURL)
			client := NewClient(serverURL)

			var state *engine.GameState
			var err error
			if id := cmd.String("continue"); id != "" {
				if _, err = client.Resume(ctx, id); err != nil {
					return fmt.Errorf("failed to resume session: %w", err)
				}
				log.Printf("🔄 Resuming session: %s", id)
				state, err = client.EnterLevel(ctx, cmd.String("level"))
			} else {
				state, err = client.CreateSession(ctx, cmd.String("player"), cmd.String("avatar"), cmd.String("level"))
				if err == nil {
					log.Printf("✨ Session created: %s", client.SessionID())
				}
			}
			if err != nil {
				return err
			}
			log.Printf("Level: %s, Grid: %dx%d, Objects: %d", state.LevelTitle, state.Width, state.Height, len(state.Objects))

			summary, err := Play(ctx, client, state, engine.DefaultInteractionRadius, Options{
				Friends: int(cmd.Int("friends")),
				Delay:   cmd.Duration("delay"),
				Verbose: cmd.Bool("verbose"),
			})
			if err != nil {
				return err
			}

			log.Printf("🎉 Cleared %d objects (%d skipped) in %d moves, %d coins. Session: %s",
				summary.Cleared, summary.Skipped, summary.Moves, summary.Coins, summary.SessionID)
			if summary.Cleared == 0 {
				return cli.Exit("no challenge cleared", 1)
			}
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
