package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/explorer-quest/game/engine"
	"github.com/wricardo/explorer-quest/game/service"
)

// Client drives one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s %s failed: %s", method, path, errResp.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a session and enters levelID
func (c *Client) CreateSession(ctx context.Context, player, avatar, levelID string) (*engine.GameState, error) {
	req := service.CreateSessionRequest{PlayerName: player, AvatarID: avatar, LevelID: engine.LevelID(levelID)}

	var session service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", req, &session); err != nil {
		return nil, err
	}
	c.sessionID = session.ID
	return session.GameState, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID
	return c.GetState(ctx)
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, "GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) EnterLevel(ctx context.Context, levelID string) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, "POST", c.sessionPath("/level"), map[string]string{"level_id": levelID}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) BulkMove(ctx context.Context, moves []engine.Direction) (*service.BulkMoveResult, error) {
	dirs := make([]string, len(moves))
	for i, m := range moves {
		dirs[i] = string(m)
	}

	var result service.BulkMoveResult
	if err := c.do(ctx, "POST", c.sessionPath("/bulk-move"), map[string][]string{"moves": dirs}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Interact(ctx context.Context) (*service.InteractResult, error) {
	var result service.InteractResult
	if err := c.do(ctx, "POST", c.sessionPath("/interact"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Submit(ctx context.Context, sub service.ChallengeSubmission) (*service.ChallengeResult, error) {
	var result service.ChallengeResult
	if err := c.do(ctx, "POST", c.sessionPath("/challenge/submit"), sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
