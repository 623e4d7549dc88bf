package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/explorer-quest/game/engine"
	"github.com/wricardo/explorer-quest/game/service"
)

// ServerName and ServerVersion identify the MCP server to clients
const (
	ServerName    = "Explorer Quest"
	ServerVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// bulk moves wait out the movement lock between steps
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Explorer Quest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk your explorer (@) around a themed level, find huts (H), reading boards (B)
and mystery boxes (X), and complete their challenges to earn coins.

AVAILABLE TOOLS:
- create_session: Start a new game for a player (optionally entering a level)
- list_sessions: List all active sessions
- list_levels: List the available levels
- enter_level: Enter (or re-enter) a level; regenerates the map
- game_state: Current map, position, coins and challenge
- move / bulk_move: Walk one tile or a sequence of tiles - requires intent explanation
- interact: Start the challenge of the object next to you
- submit_challenge: Complete the active challenge (answer for math, friend_count for friends)
- dismiss_challenge: Close the active challenge without reward
- move_history: View past moves
- describe_tile: Inspect one grid cell
- game_instructions: Full rules

NOTE: The 'intent' parameter on move/bulk_move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func directionEnum() []string {
	return []string{"up", "down", "left", "right"}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session for a player, optionally entering a level right away",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_name": map[string]interface{}{
					"type":        "string",
					"description": "Player display name (required)",
				},
				"avatar_id": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"1", "2", "3", "4"},
					"description": "Avatar: 1 monkey, 2 rabbit, 3 eagle, 4 whale",
				},
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to enter (jungle, desert, mountains, ocean or a custom level id)",
				},
			},
			Required: []string{"player_name"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	// Levels
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels with their stories",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "enter_level",
		Description: "Enter a level. The map is regenerated and the player moves to the level start. Unknown ids fall back to the jungle.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level ID",
				},
			},
			Required: []string{"session_id", "level_id"},
		},
	}, c.handleEnterLevel)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with the map drawn one character per tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum(),
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked move", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionEnum(),
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Challenges
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "interact",
		Description: "Start the challenge of the hut, board or box within reach",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleInteract)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_challenge",
		Description: "Complete the active challenge. Math needs an answer; friends photos take friend_count; other kinds complete as-is.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"challenge_id": map[string]interface{}{
					"type":        "integer",
					"description": "ID of the active challenge (optional, 0 targets the active one)",
				},
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "Answer to a math challenge",
				},
				"friend_count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of friends in the photo for a friends challenge",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSubmitChallenge)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "dismiss_challenge",
		Description: "Close the active challenge without earning coins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDismissChallenge)

	// Help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about one grid cell: its character, kind, whether it is walkable and which object sits there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell, 0-based",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell, 0-based",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves JSON-RPC MCP messages posted to it
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// intArg accepts JSON numbers and numeric strings
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := service.CreateSessionRequest{
		PlayerName: stringArg(args, "player_name"),
		AvatarID:   stringArg(args, "avatar_id"),
		LevelID:    engine.LevelID(stringArg(args, "level_id")),
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPlayer: %s\n", session.ID, session.PlayerName)
	if session.GameState != nil && session.GameState.LevelID != "" {
		result += "\n" + formatGameState(session.GameState)
	} else {
		result += "No level entered yet. Use list_levels and enter_level to start exploring."
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := string(s.LevelID)
		if level == "" {
			level = "menu"
		}
		fmt.Fprintf(&result, "- %s (Player: %s, Level: %s, Coins: %d, Created: %s)\n",
			s.ID, s.PlayerName, level, s.Coins, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Levels:\n\n")
	for _, l := range levels {
		fmt.Fprintf(&result, "• %s - %s (%s)\n  %s: %s\n  Grid: %dx%d, Objects: %d\n\n",
			l.ID, l.Title, l.Source, l.StoryTitle, l.Story, l.Width, l.Height, l.ObjectCount)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleEnterLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	body := map[string]string{"level_id": stringArg(args, "level_id")}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/level"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	// intent is not forwarded; it only helps the agent reason
	body := map[string]string{"direction": stringArg(args, "direction")}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	movesRaw, _ := args["moves"].([]interface{})
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must contain at least one direction"), nil
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), map[string][]string{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", strconv.Itoa(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleInteract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var result service.InteractResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/interact"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Started {
		return mcp.NewToolResultText(fmt.Sprintf("✗ %s\n\nWalk next to a hut (H), board (B) or box (X) first.", result.Message)), nil
	}
	return mcp.NewToolResultText(formatChallenge(result.Challenge)), nil
}

func (c *Client) handleSubmitChallenge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	sub := service.ChallengeSubmission{Answer: stringArg(args, "answer")}
	if id, ok := intArg(args, "challenge_id"); ok {
		sub.ChallengeID = id
	}
	if n, ok := intArg(args, "friend_count"); ok {
		sub.FriendCount = n
	}
	// numeric answers may arrive as JSON numbers
	if sub.Answer == "" {
		if n, ok := intArg(args, "answer"); ok {
			sub.Answer = strconv.Itoa(n)
		}
	}

	var result service.ChallengeResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/challenge/submit"), sub, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatOutcome(&result.Outcome)), nil
}

func (c *Client) handleDismissChallenge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/challenge/dismiss"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Challenge dismissed.\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return describeTile(&state, x, y)
}

func describeTile(state *engine.GameState, x, y int) (*mcp.CallToolResult, error) {
	if len(state.Tiles) == 0 {
		return mcp.NewToolResultError("No level entered yet"), nil
	}
	if x < 0 || x >= state.Width || y < 0 || y >= state.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid is %dx%d (x 0-%d, y 0-%d)",
			x, y, state.Width, state.Height, state.Width-1, state.Height-1)), nil
	}

	tile := state.Tiles[y][x]
	char := tile.Kind.Char()

	var result strings.Builder
	fmt.Fprintf(&result, "Tile (%d, %d)\n", x, y)
	fmt.Fprintf(&result, "Character: %s\n", char)
	fmt.Fprintf(&result, "Kind: %s\n", tile.Kind)
	fmt.Fprintf(&result, "Walkable: %t\n", tile.Walkable)

	if x == state.PlayerPos.X && y == state.PlayerPos.Y {
		result.WriteString("The player (@) is standing here.\n")
	}
	for _, obj := range state.Objects {
		if obj.X == x && obj.Y == y {
			fmt.Fprintf(&result, "Object: %s (%s challenge, reward %d coins)\n", obj.Description, obj.Challenge, obj.Reward)
			result.WriteString("Stand on a neighbouring tile and use interact to start it.\n")
		}
	}
	if tip := tileReminder(tile.Kind); tip != "" {
		result.WriteString(tip + "\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func tileReminder(kind engine.TileKind) string {
	switch kind {
	case engine.Path:
		return "✅ Path - always walkable."
	case engine.Grass:
		return "✅ Grass - walkable."
	case engine.Tree, engine.Rock, engine.Water:
		return "⛔ Obstacle - you cannot walk here."
	case engine.Hut, engine.Board, engine.Box:
		return "🎯 Interactive object - not walkable, interact from next to it."
	default:
		return ""
	}
}

const instructions = `🧭 Explorer Quest - Complete Instructions

GAME OBJECTIVE:
Explore themed levels, find interactive objects and complete their challenges
to earn coins. Coins never go down.

LEVELS:
• jungle - Jungle Adventure: The Lost Monkey
• desert - Desert Quest: The Thirsty Rabbit
• mountains - Mountain Peak: The Brave Eagle
• ocean - Ocean Depths: The Curious Dolphin
Entering a level regenerates its map. Paths (=) are always in the same place;
the scattered obstacles change every visit.

GRID LEGEND:
• @ - You
• = - Path (walkable)
• . - Grass (walkable)
• T - Tree (blocked)
• # - Rock (blocked, also the world edge)
• ~ - Water (blocked)
• H - Hut (object)
• B - Reading board (object)
• X - Mystery box (object)

MOVEMENT:
• up, down, left, right - one tile per move
• A move right after another is rejected with reason "locked"; bulk_move waits
  for you automatically
• bulk_move stops at the first blocked move and reports why

CHALLENGES:
Stand on any tile touching an object (diagonals count) and call interact.
• math - add two numbers; a wrong answer reveals the solution, try again
• reading - read the sentence out loud, then submit
• selfie - take a selfie, then submit
• friends - photo with friends; each friend beyond the first adds 5 coins (up to +20)
• creative - make something, then submit
Only one challenge can be active at a time; dismiss_challenge closes it.

STRATEGY TIPS:
• Follow the paths (=); objects sit next to them
• Use describe_tile when a character is unclear
• Use bulk_move for straight runs

Happy exploring! 🐒🐰🦅🐳`

// Formatting helpers

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Player: %s %s | Coins: %d | Moves: %d\n",
		state.Player.Name, state.Player.Avatar, state.Player.Coins, state.TotalMoves)

	if state.LevelID == "" {
		result.WriteString("No level entered yet.\n")
		if state.Message != "" {
			fmt.Fprintf(&result, "\nMessage: %s", state.Message)
		}
		return result.String()
	}

	fmt.Fprintf(&result, "Level: %s (%s) | Position: (%d,%d) | Grid: %dx%d\n\n",
		state.LevelTitle, state.LevelID, state.PlayerPos.X, state.PlayerPos.Y, state.Width, state.Height)

	if len(state.LocalView3x3) == 3 {
		result.WriteString("Local 3x3:\n")
		for _, line := range state.LocalView3x3 {
			result.WriteString(line + "\n")
		}
		result.WriteString("\n")
	}

	for _, row := range renderMap(state) {
		result.WriteString(row + "\n")
	}

	if state.Interactable != nil {
		fmt.Fprintf(&result, "\n🎯 In reach: %s at (%d,%d) - %s challenge, %d coins. Use interact!\n",
			state.Interactable.Description, state.Interactable.X, state.Interactable.Y,
			state.Interactable.Challenge, state.Interactable.Reward)
	}
	if state.ActiveChallenge != nil {
		result.WriteString("\n" + formatChallenge(state.ActiveChallenge) + "\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

// renderMap prefers the server-rendered rows and falls back to the tiles
func renderMap(state *engine.GameState) []string {
	if len(state.Map) == state.Height && state.Height > 0 {
		return state.Map
	}

	rows := make([]string, 0, len(state.Tiles))
	for y, line := range state.Tiles {
		var row strings.Builder
		for x, tile := range line {
			if x == state.PlayerPos.X && y == state.PlayerPos.Y {
				row.WriteString("@")
				continue
			}
			row.WriteString(tile.Kind.Char())
		}
		rows = append(rows, row.String())
	}
	return rows
}

func formatChallenge(ch *engine.Challenge) string {
	if ch == nil {
		return "No active challenge"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "🏆 %s (id %d) at the %s - reward %d coins\n", ch.Title, ch.ID, ch.Source.Description, ch.Reward)
	result.WriteString(ch.Prompt + "\n")
	switch ch.Kind {
	case engine.MathChallenge:
		result.WriteString("Submit with submit_challenge and answer=<number>.")
	case engine.FriendsChallenge:
		result.WriteString("Submit with submit_challenge and friend_count=<friends in the photo>.")
	default:
		result.WriteString("Submit with submit_challenge when done.")
	}
	return result.String()
}

func formatOutcome(out *engine.Outcome) string {
	var result strings.Builder
	if out.Cleared {
		fmt.Fprintf(&result, "✓ %s\n", out.Message)
		fmt.Fprintf(&result, "Reward: %d coins", out.Reward)
		if out.Bonus > 0 {
			fmt.Fprintf(&result, " (includes %d friends bonus)", out.Bonus)
		}
		fmt.Fprintf(&result, "\nTotal coins: %d", out.Coins)
		return result.String()
	}

	fmt.Fprintf(&result, "✗ %s\n", out.Message)
	result.WriteString("The challenge is still active. Try again or dismiss it.")
	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var response strings.Builder
	if result.Success {
		response.WriteString("✓ Move successful\n")
	} else {
		fmt.Fprintf(&response, "✗ Move rejected (%s)\n", result.Reason)
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&response, "Step: %s (%d,%d)→(%d,%d) tile=%s\n",
			s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.TileChar)
	}

	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&response, "Attempted: (%d,%d) tile=%s type=%s passable=%t\n",
			a.X, a.Y, a.TileChar, a.TileType, a.Passable)
	}

	if result.Reason == string(engine.RejectLocked) {
		response.WriteString("Still moving; wait a moment or use bulk_move.\n")
	}

	response.WriteString("\n" + formatGameState(result.GameState))
	return response.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var response strings.Builder

	fmt.Fprintf(&response, "Session %s: executed %d/%d moves", sessionID, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&response, " (truncated to %d)", result.Limit)
	}
	response.WriteString("\n")
	fmt.Fprintf(&response, "Start: (%d,%d) → End: (%d,%d)\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)

	for _, s := range result.Steps {
		line := fmt.Sprintf("  %d. %s (%d,%d)→(%d,%d) tile=%s", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.TileChar)
		if s.Interactable != "" {
			line += " 🎯 " + s.Interactable
		}
		response.WriteString(line + "\n")
	}

	if result.StoppedReason != "" {
		fmt.Fprintf(&response, "Stopped on move %d: %s [%s]\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&response, "Attempted: (%d,%d) tile=%s type=%s\n", a.X, a.Y, a.TileChar, a.TileType)
	}

	if len(result.PossibleMoves) > 0 {
		dirs := make([]string, len(result.PossibleMoves))
		for i, d := range result.PossibleMoves {
			dirs[i] = string(d)
		}
		fmt.Fprintf(&response, "Possible moves: %s\n", strings.Join(dirs, ", "))
	}

	response.WriteString("\n" + formatGameState(result.GameState))
	return response.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Move History (page %d/%d, total %d):\n", history.Page, history.TotalPages, history.TotalMoves)

	for _, m := range history.Moves {
		status := "✓"
		if !m.Success {
			status = "✗ " + m.Reason
		}
		fmt.Fprintf(&result, "#%d %s (%d,%d)→(%d,%d) [%s] %s\n",
			m.MoveNumber, m.Action, m.FromPosition.X, m.FromPosition.Y, m.ToPosition.X, m.ToPosition.Y, m.LevelID, status)
	}

	if history.HasNext {
		result.WriteString("More moves on the next page.\n")
	}
	return result.String()
}
