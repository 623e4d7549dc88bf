package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/explorer-quest/game/engine"
	"github.com/wricardo/explorer-quest/game/service"
)

var (
	ErrLevelNotFound  = service.ErrLevelNotFound
	ErrInvalidLevel   = service.ErrInvalidLevel
	ErrNoLevelDir     = errors.New("no level directory configured")
	ErrInvalidLevelID = errors.New("level id must be lowercase letters, digits, '-' or '_'")
)

var levelIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// levelExtensions are tried in order when looking up a level file by id
var levelExtensions = []string{".json", ".yaml", ".yml"}

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
)

type levelEntry struct {
	def      *engine.LevelDefinition
	filename string
}

// Manager handles level definition loading and caching. Built-in levels are
// always available; files in the level directory add levels or override a
// built-in with the same id.
type Manager struct {
	levelDir string
	builtins map[engine.LevelID]*engine.LevelDefinition
	order    []engine.LevelID
	files    map[engine.LevelID]levelEntry
	mu       sync.RWMutex
}

// NewManager creates a new level manager. An empty levelDir serves only the
// built-in levels.
func NewManager(levelDir string) (*Manager, error) {
	if levelDir != "" {
		// Ensure level directory exists
		if _, err := os.Stat(levelDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
		}
	}

	m := &Manager{
		levelDir: levelDir,
		builtins: make(map[engine.LevelID]*engine.LevelDefinition),
		files:    make(map[engine.LevelID]levelEntry),
	}
	for _, def := range engine.BuiltinLevels() {
		m.builtins[def.ID] = def
		m.order = append(m.order, def.ID)
	}

	if err := m.RefreshCache(); err != nil {
		return nil, fmt.Errorf("failed to load levels: %w", err)
	}

	return m, nil
}

// LevelDir returns the watched level directory, or "" when none is configured
func (m *Manager) LevelDir() string {
	return m.levelDir
}

// LoadLevel loads a level by id
func (m *Manager) LoadLevel(id string) (*engine.LevelDefinition, error) {
	levelID := engine.LevelID(strings.ToLower(strings.TrimSpace(id)))

	m.mu.RLock()
	// Check cache first
	if def, ok := m.lookup(levelID); ok {
		m.mu.RUnlock()
		return def, nil
	}
	m.mu.RUnlock()

	if m.levelDir == "" || !levelIDPattern.MatchString(string(levelID)) {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if def, ok := m.lookup(levelID); ok {
		return def, nil
	}

	for _, ext := range levelExtensions {
		path := filepath.Join(m.levelDir, string(levelID)+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		def, err := engine.LoadLevelFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
		def.ID = engine.LevelID(strings.ToLower(string(def.ID)))
		m.files[def.ID] = levelEntry{def: def, filename: filepath.Base(path)}
		return def, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
}

// lookup checks file levels, then built-ins; the caller holds the lock
func (m *Manager) lookup(id engine.LevelID) (*engine.LevelDefinition, bool) {
	if entry, ok := m.files[id]; ok {
		return entry.def, true
	}
	def, ok := m.builtins[id]
	return def, ok
}

// ListLevels returns information about all available levels: the built-ins
// in menu order, then file-only levels sorted by id
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	levels := make([]*service.LevelInfo, 0, len(m.order)+len(m.files))
	for _, id := range m.order {
		if entry, ok := m.files[id]; ok {
			levels = append(levels, levelInfo(entry.def, SourceFile, entry.filename))
			continue
		}
		levels = append(levels, levelInfo(m.builtins[id], SourceBuiltin, ""))
	}

	var extra []levelEntry
	for id, entry := range m.files {
		if _, builtin := m.builtins[id]; !builtin {
			extra = append(extra, entry)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].def.ID < extra[j].def.ID })
	for _, entry := range extra {
		levels = append(levels, levelInfo(entry.def, SourceFile, entry.filename))
	}

	return levels, nil
}

func levelInfo(def *engine.LevelDefinition, source, filename string) *service.LevelInfo {
	return &service.LevelInfo{
		ID:          def.ID,
		Title:       def.Title,
		StoryTitle:  def.Story.Title,
		Story:       def.Story.Text,
		Width:       def.Width,
		Height:      def.Height,
		ObjectCount: len(def.Objects),
		Source:      source,
		Filename:    filename,
	}
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if def, ok := m.lookup(engine.DefaultLevel); ok {
		return def
	}
	return m.builtins[m.order[0]]
}

// RefreshCache rescans the level directory. Invalid files are logged and
// skipped so one bad file does not hide the others.
func (m *Manager) RefreshCache() error {
	if m.levelDir == "" {
		return nil
	}

	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return fmt.Errorf("failed to read level directory: %w", err)
	}

	files := make(map[engine.LevelID]levelEntry)
	for _, entry := range entries {
		if entry.IsDir() || engine.FormatFromPath(entry.Name()) == "" {
			continue
		}

		path := filepath.Join(m.levelDir, entry.Name())
		def, err := engine.LoadLevelFile(path)
		if err != nil {
			log.Printf("[LEVELS] skipping %s: %v", entry.Name(), err)
			continue
		}
		def.ID = engine.LevelID(strings.ToLower(string(def.ID)))
		if prev, dup := files[def.ID]; dup {
			log.Printf("[LEVELS] %s redefines level %s from %s, keeping %s", entry.Name(), def.ID, prev.filename, prev.filename)
			continue
		}
		files[def.ID] = levelEntry{def: def, filename: entry.Name()}
	}

	m.mu.Lock()
	m.files = files
	m.mu.Unlock()

	return nil
}

// SaveLevel validates a level and writes it to the level directory as JSON
func (m *Manager) SaveLevel(def *engine.LevelDefinition) error {
	// Validate level before saving
	if err := engine.ValidateLevel(def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if !levelIDPattern.MatchString(string(def.ID)) {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, ErrInvalidLevelID)
	}
	if m.levelDir == "" {
		return ErrNoLevelDir
	}

	filename := string(def.ID) + ".json"
	levelPath := filepath.Join(m.levelDir, filename)

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	// Write to file
	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.files[def.ID] = levelEntry{def: def, filename: filename}
	m.mu.Unlock()

	return nil
}
