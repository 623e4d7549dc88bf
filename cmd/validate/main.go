// Command validate checks level files before they are dropped into the
// server's level directory. For every *.json, *.yaml and *.yml file (and,
// unless disabled, the built-in levels) it checks:
//   - the file parses and passes engine.ValidateLevel
//   - every object can be reached from the start when no random obstacle spawns
//   - whether each object stays reachable when every random cell is an obstacle
//
// It prints a concise report and exits non-zero if any level is invalid.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/explorer-quest/game/engine"
)

// ValidationResult captures the outcome of validating a single level.
// Errors make the level invalid; Warnings and Info are reported only.
type ValidationResult struct {
	Name     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// fixedSource always rolls the same value, which pins the terrain roll
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }
func (f fixedSource) IntN(n int) int    { return 0 }

var (
	// noObstacles never draws below any probability < 1
	noObstacles = fixedSource(0.999999)
	// allObstacles draws below every probability > 0
	allObstacles = fixedSource(0)
)

// validateFile loads a level file and validates its definition
func validateFile(path string) ValidationResult {
	def, err := engine.LoadLevelFile(path)
	if err != nil {
		result := ValidationResult{Name: filepath.Base(path), Valid: true}
		result.fail("%v", err)
		return result
	}
	result := validateDefinition(def)
	result.Name = filepath.Base(path)
	return result
}

// validateDefinition runs structural validation and reachability analysis
func validateDefinition(def *engine.LevelDefinition) ValidationResult {
	result := ValidationResult{Name: string(def.ID), Valid: true}

	if err := engine.ValidateLevel(def); err != nil {
		result.fail("%v", err)
		return result
	}

	best := reachability(def, noObstacles)
	worst := reachability(def, allObstacles)

	for i, obj := range def.Objects {
		switch {
		case !best[i]:
			result.fail("Unreachable: %s at (%d,%d) cannot be reached from the start", describe(obj), obj.X, obj.Y)
		case !worst[i]:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s at (%d,%d) is only reachable through random terrain; consider a path next to it", describe(obj), obj.X, obj.Y))
		}
	}

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Title: %s", def.Title),
			fmt.Sprintf("✓ Grid: %dx%d", def.Width, def.Height),
			fmt.Sprintf("✓ Start: (%d,%d)", def.PlayerStart.X, def.PlayerStart.Y),
			fmt.Sprintf("✓ Paths: %d, Landmarks: %d", len(def.Paths), len(def.Landmarks)),
			fmt.Sprintf("✓ Objects: %d", len(def.Objects)),
			fmt.Sprintf("✓ Terrain: %s on %s (p=%.2f)", def.Terrain.Obstacle, def.Terrain.Ground, def.Terrain.Probability),
		)
	}

	return result
}

// reachability reports, per object, whether an adjacent cell is reachable from
// the start on a map generated with rng
func reachability(def *engine.LevelDefinition, rng engine.RandomSource) []bool {
	world := engine.NewWorldState(engine.Generate(def, rng), def.PlayerStart)
	reachable := engine.ReachableFrom(world, def.PlayerStart)

	reached := make([]bool, len(def.Objects))
	for i, obj := range def.Objects {
		reached[i] = engine.CanReachObject(reachable, obj, def.Radius())
	}
	return reached
}

func describe(obj engine.InteractiveObject) string {
	if obj.Description != "" {
		return obj.Description
	}
	return string(obj.Kind)
}

// levelFiles lists level files in dir, sorted by name
func levelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || engine.FormatFromPath(entry.Name()) == "" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// validateAll validates the built-ins (optionally) and every file in dir
func validateAll(dir string, builtins bool) ([]ValidationResult, error) {
	var results []ValidationResult

	if builtins {
		for _, def := range engine.BuiltinLevels() {
			r := validateDefinition(def)
			r.Name = "builtin:" + r.Name
			results = append(results, r)
		}
	}

	if dir != "" {
		files, err := levelFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("error finding level files: %w", err)
		}
		for _, file := range files {
			results = append(results, validateFile(file))
		}
	}

	return results, nil
}

// printReport writes the report and returns whether every level is valid
func printReport(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.Name)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintf(w, "✅ All %d levels are valid!\n", len(results))
	} else {
		fmt.Fprintln(w, "❌ Some levels have errors")
	}
	return allValid
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate Explorer Quest level files",
		ArgsUsage: "[level-dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Directory containing level files",
				Sources: cli.EnvVars("LEVEL_DIR"),
			},
			&cli.BoolFlag{
				Name:  "builtin",
				Value: true,
				Usage: "Also validate the built-in levels",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}

			results, err := validateAll(dir, cmd.Bool("builtin"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if len(results) == 0 {
				return cli.Exit("no levels to validate", 1)
			}
			if !printReport(out, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
