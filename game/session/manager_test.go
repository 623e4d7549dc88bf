package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/explorer-quest/game/engine"
)

func createTestPlayer(t *testing.T) *engine.Player {
	t.Helper()
	p, err := engine.NewPlayer("Tester", "2")
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	return p
}

func createTestManager() *Manager {
	return NewManager(engine.Options{MoveCooldown: -1, Random: engine.NewRandomSource(3)})
}

func TestManager_Create(t *testing.T) {
	manager := createTestManager()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", createTestPlayer(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.Engine.Player().Name() != "Tester" {
			t.Errorf("Expected engine for player Tester, got %q", session.Engine.Player().Name())
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", createTestPlayer(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", createTestPlayer(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", createTestPlayer(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("a/b", createTestPlayer(t)); err != ErrInvalidSessionID {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("nil player", func(t *testing.T) {
		if _, err := manager.Create("", nil); !errors.Is(err, engine.ErrPlayerNameRequired) {
			t.Errorf("Expected ErrPlayerNameRequired, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := createTestManager()
	created, _ := manager.Create("AbCd", createTestPlayer(t))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("AbCd")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the created session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("ABCD")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != "AbCd" {
			t.Errorf("Expected original ID to be kept, got %q", session.ID)
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := createTestManager()
	manager.Create("delete-test", createTestPlayer(t))

	if err := manager.Delete("DELETE-TEST"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
		t.Error("Expected session to be deleted")
	}
	if err := manager.Delete("delete-test"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := createTestManager()
	for i := 0; i < 3; i++ {
		manager.Create(fmt.Sprintf("list-%d", i), createTestPlayer(t))
	}

	sessions := manager.List()
	if len(sessions) != 3 || manager.Count() != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}

	found := make(map[string]bool)
	for _, s := range sessions {
		found[s.ID] = true
	}
	for i := 0; i < 3; i++ {
		if !found[fmt.Sprintf("list-%d", i)] {
			t.Errorf("Session list-%d not found in list", i)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := createTestManager()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	active, _ := manager.Create("active", createTestPlayer(t))
	expired, _ := manager.Create("expired", createTestPlayer(t))

	expired.LastAccessedAt = now.Add(-2 * time.Hour)
	active.LastAccessedAt = now.Add(-30 * time.Minute)

	if deleted := manager.CleanupExpiredSessions(time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := createTestManager()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	session, _ := manager.Create("access-test", createTestPlayer(t))
	now = now.Add(time.Minute)

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.Equal(now) {
		t.Errorf("Expected LastAccessedAt %v, got %v", now, session.LastAccessedAt)
	}
	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := createTestManager()
	jungle, _ := engine.BuiltinLevel(engine.Jungle)

	session1, _ := manager.Create("iso-1", createTestPlayer(t))
	session2, _ := manager.Create("iso-2", createTestPlayer(t))
	session1.Engine.EnterLevel(jungle)
	session2.Engine.EnterLevel(jungle)

	// the start column and row around (2,2) may hold trees; walk until a move sticks
	for _, dir := range engine.Directions {
		if session1.Engine.Move(string(dir)).Accepted {
			break
		}
	}

	if session2.Engine.GetState().PlayerPos != jungle.PlayerStart {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if len(session2.Engine.GetMoveHistory()) != 0 {
		t.Error("Session 2 should have an empty history")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := createTestManager()
	generated := make(map[string]bool)

	for i := 0; i < 200; i++ {
		session, err := manager.Create("", createTestPlayer(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generated[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generated[session.ID] = true

		for _, c := range session.ID {
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
				t.Errorf("Session ID %q should be lowercase hex", session.ID)
				break
			}
		}
	}
}

func TestManager_SessionIDRandomFailure(t *testing.T) {
	manager := createTestManager()
	errEntropy := errors.New("entropy unavailable")
	manager.random = func([]byte) (int, error) { return 0, errEntropy }

	if _, err := manager.Create("", createTestPlayer(t)); !errors.Is(err, errEntropy) {
		t.Fatalf("Expected random source error, got %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected no session to be stored, got %d", manager.Count())
	}

	if _, err := manager.Create("named", createTestPlayer(t)); err != nil {
		t.Errorf("Explicit IDs must not need randomness, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := createTestManager()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			player, _ := engine.NewPlayer("Racer", "1")
			session, err := manager.Create("", player)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				errs <- err
			}
			manager.UpdateLastAccessed(session.ID)
			manager.List()
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}
