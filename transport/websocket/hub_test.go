package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/explorer-quest/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}

	if cap(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected broadcast buffer %d, got %d", engine.WebSocketBufferSize, cap(hub.broadcast))
	}

	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register/unregister channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "Test-Session")

	hub.registerClient(client)

	// Session keys are case-insensitive
	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered under the lowercased session id")
	}

	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	if _, ok := <-client.send; ok {
		t.Error("Client send channel should be closed")
	}

	// A second unregister must not panic on the closed channel
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}

	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "ab12")
	other := newTestClient(hub, "cd34")
	hub.registerClient(client)
	hub.registerClient(other)

	state := &engine.GameState{
		PlayerPos: engine.Position{X: 5, Y: 3},
		Player:    engine.PlayerInfo{Name: "Mia", Coins: 15},
		LevelID:   engine.Jungle,
	}
	hub.broadcastMessage(&Message{SessionID: "AB12", GameState: state, Event: "state_update"})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != "state_update" {
			t.Errorf("Expected event 'state_update', got %s", message.Event)
		}
		if message.GameState.PlayerPos != (engine.Position{X: 5, Y: 3}) {
			t.Errorf("GameState position not transmitted, got %+v", message.GameState.PlayerPos)
		}
		if message.GameState.Player.Coins != 15 {
			t.Errorf("Expected 15 coins, got %d", message.GameState.Player.Coins)
		}
	default:
		t.Fatal("No message delivered to subscribed client")
	}

	select {
	case <-other.send:
		t.Error("Client of another session received the message")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "state_update"})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Slow client should have been unregistered")
	}
}

func TestHubBroadcastEventIsQueued(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", "challenge_started", "math")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != "challenge_started" {
			t.Errorf("Expected event 'challenge_started', got %s", message.Event)
		}
		if message.Data != "math" {
			t.Errorf("Expected data 'math', got %v", message.Data)
		}
	default:
		t.Fatal("No broadcast message queued")
	}
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		// Nobody drains the queue; overflow must be dropped
		for i := 0; i < engine.WebSocketBufferSize+10; i++ {
			hub.BroadcastToSession("full", &engine.GameState{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastToSession blocked on a full queue")
	}

	if len(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected full queue of %d, got %d", engine.WebSocketBufferSize, len(hub.broadcast))
	}
}

func startTestServer(t *testing.T, hub *Hub, initial *engine.GameState) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"), initial)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(context.Background(), sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(context.Background(), sessionID))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestWebSocketLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	wsURL := startTestServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, "WS-TEST", 1)

	conn.Close()

	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketInitialStateAndUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	initial := &engine.GameState{PlayerPos: engine.Position{X: 1, Y: 10}, LevelID: engine.Jungle}
	wsURL := startTestServer(t, hub, initial)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=msg-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.GameState == nil || first.GameState.PlayerPos != initial.PlayerPos {
		t.Fatalf("Expected initial state at %+v, got %+v", initial.PlayerPos, first.GameState)
	}

	waitForClients(t, hub, "msg-test", 1)

	hub.BroadcastToSession("msg-test", &engine.GameState{PlayerPos: engine.Position{X: 2, Y: 10}})

	update := readMessage(t, conn)
	if update.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", update.SessionID)
	}
	if update.GameState.PlayerPos != (engine.Position{X: 2, Y: 10}) {
		t.Errorf("GameState position not correctly received, got %+v", update.GameState.PlayerPos)
	}
}

func TestHubRunClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	wsURL := startTestServer(t, hub, nil)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=bye", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "bye", 1)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after hub shutdown")
	}
}
