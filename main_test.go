package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/explorer-quest/api"
	"github.com/wricardo/explorer-quest/game/engine"
	"github.com/wricardo/explorer-quest/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Explorer Quest Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

// runCommand runs the CLI with args and returns the config each mode received
func runCommand(t *testing.T, args ...string) (mode string, cfg serverConfig) {
	t.Helper()

	capture := func(name string) runFunc {
		return func(ctx context.Context, c serverConfig) error {
			mode = name
			cfg = c
			return nil
		}
	}

	cmd := newCommand(capture("server"), capture("stdio"))
	if err := cmd.Run(context.Background(), append([]string{"explorer-quest"}, args...)); err != nil {
		t.Fatalf("Run(%v) failed: %v", args, err)
	}
	return mode, cfg
}

func TestCommand_Modes(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "server"},
		{[]string{"server"}, "server"},
		{[]string{"http"}, "server"},
		{[]string{"stdio-mcp"}, "stdio"},
		{[]string{"mcp-stdio"}, "stdio"},
		{[]string{"mcp"}, "stdio"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			mode, _ := runCommand(t, tt.args...)
			if mode != tt.want {
				t.Errorf("Expected mode %s, got %s", tt.want, mode)
			}
		})
	}
}

func TestCommand_FlagDefaults(t *testing.T) {
	_, cfg := runCommand(t)

	if cfg.Port != defaultPort {
		t.Errorf("Expected default port %d, got %d", defaultPort, cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", cfg.Host)
	}
	if cfg.MoveCooldown != engine.DefaultMoveCooldown {
		t.Errorf("Expected default cooldown %v, got %v", engine.DefaultMoveCooldown, cfg.MoveCooldown)
	}
	if cfg.SessionTTL != defaultSessionTTL {
		t.Errorf("Expected default TTL %v, got %v", defaultSessionTTL, cfg.SessionTTL)
	}
	if cfg.NgrokEnabled {
		t.Error("Ngrok should be disabled by default")
	}
}

func TestCommand_FlagsAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEVEL_DIR", dir)
	t.Setenv("NGROK_AUTH_TOKEN", "tok")

	mode, cfg := runCommand(t, "--port", "9090", "--move-cooldown", "50ms", "--ngrok", "stdio-mcp")

	if mode != "stdio" {
		t.Errorf("Expected stdio mode, got %s", mode)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.LevelDir != dir {
		t.Errorf("Expected level dir from env %s, got %s", dir, cfg.LevelDir)
	}
	if cfg.MoveCooldown != 50*time.Millisecond {
		t.Errorf("Expected 50ms cooldown, got %v", cfg.MoveCooldown)
	}
	if !cfg.NgrokEnabled || cfg.NgrokAuth != "tok" {
		t.Errorf("Expected ngrok enabled with token, got %+v", cfg)
	}
	if cfg.addr() != "localhost:9090" {
		t.Errorf("Unexpected addr %s", cfg.addr())
	}
}

func TestInitializeServices(t *testing.T) {
	svcs, err := initializeServices(serverConfig{LevelDir: t.TempDir(), MoveCooldown: -1})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if svcs.Game == nil || svcs.Sessions == nil || svcs.Levels == nil {
		t.Fatal("Expected all services to be initialized")
	}

	levels, err := svcs.Game.ListLevels(context.Background())
	if err != nil {
		t.Fatalf("ListLevels failed: %v", err)
	}
	if len(levels) < 4 {
		t.Errorf("Expected at least the 4 built-in levels, got %d", len(levels))
	}
}

func TestInitializeServices_InvalidLevelDir(t *testing.T) {
	_, err := initializeServices(serverConfig{LevelDir: "/non/existent/path"})
	if err == nil {
		t.Error("Expected error for non-existent level directory")
	}
}

func TestStartBackground_StopsWithContext(t *testing.T) {
	svcs, err := initializeServices(serverConfig{LevelDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	startBackground(ctx, &wg, svcs, serverConfig{})
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Background routines did not stop after cancel")
	}
}

func TestRouter(t *testing.T) {
	svcs, err := initializeServices(serverConfig{MoveCooldown: -1})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	router := newRouter(api.NewServer(svcs.Game, nil), mcp.NewClient("http://127.0.0.1:1"))

	t.Run("api", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 from /api/health, got %d", rec.Code)
		}
	})

	t.Run("mcp", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405 from GET /mcp, got %d", rec.Code)
		}
	})
}

func TestExternalAPIAvailable(t *testing.T) {
	svcs, err := initializeServices(serverConfig{})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ts := httptest.NewServer(api.NewServer(svcs.Game, nil))
	defer ts.Close()

	if !externalAPIAvailable(ts.URL) {
		t.Error("Expected running API to be detected")
	}
	if externalAPIAvailable("http://127.0.0.1:1") {
		t.Error("Expected unreachable API to be reported unavailable")
	}
}
