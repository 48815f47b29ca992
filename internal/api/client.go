package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// TokenStore holds the bearer token for the current session. The
// authentication flow writes it; the REST client and the realtime channel
// read it.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// Set replaces the stored token.
func (t *TokenStore) Set(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

// Get returns the current token, or "" when logged out.
func (t *TokenStore) Get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// Clear removes the stored token.
func (t *TokenStore) Clear() {
	t.Set("")
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client makes REST calls to the platform backend, injecting the bearer
// token on every request that has one available.
type Client struct {
	baseURL string
	tokens  *TokenStore
	client  *http.Client
}

// NewClient creates a client targeting the given base URL
// (e.g. "http://localhost:3001").
func NewClient(baseURL string, tokens *TokenStore) *Client {
	if tokens == nil {
		tokens = &TokenStore{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the token store shared with the realtime layer.
func (c *Client) Tokens() *TokenStore { return c.tokens }

// Register creates an account and stores the returned session token.
func (c *Client) Register(username, email, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var out AuthResponse
	if err := c.post("/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.tokens.Set(out.Token)
	return &out, nil
}

// Login authenticates and stores the returned session token.
func (c *Client) Login(usernameOrEmail, password string) (*AuthResponse, error) {
	body := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	var out AuthResponse
	if err := c.post("/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.tokens.Set(out.Token)
	return &out, nil
}

// Me fetches the authenticated profile.
func (c *Client) Me() (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.get("/profile/me", &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile changes username/email.
func (c *Client) UpdateProfile(username, email string) (*User, error) {
	body := map[string]string{"username": username, "email": email}
	var out struct {
		User *User `json:"user"`
	}
	if err := c.put("/profile/me", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// JoinMatchmaking enters the matchmaking queue.
func (c *Client) JoinMatchmaking() (*MatchStatus, error) {
	var out MatchStatus
	if err := c.post("/matchmaking/join", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaveMatchmaking exits the matchmaking queue.
func (c *Client) LeaveMatchmaking() (*MatchStatus, error) {
	var out MatchStatus
	if err := c.post("/matchmaking/leave", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchmakingStatus reports queue position and any assigned game.
func (c *Client) MatchmakingStatus() (*MatchStatus, error) {
	var out MatchStatus
	if err := c.get("/matchmaking/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGame fetches one game.
func (c *Client) GetGame(gameID string) (*Game, error) {
	var out struct {
		Game *Game `json:"game"`
	}
	if err := c.get("/games/"+url.PathEscape(gameID), &out); err != nil {
		return nil, err
	}
	return out.Game, nil
}

// GetMoves fetches the move list of a game.
func (c *Client) GetMoves(gameID string) ([]Move, error) {
	var out struct {
		Moves []Move `json:"moves"`
	}
	if err := c.get("/games/"+url.PathEscape(gameID)+"/moves", &out); err != nil {
		return nil, err
	}
	return out.Moves, nil
}

// SubmitMove sends a SAN move to the game authority.
func (c *Client) SubmitMove(gameID, san string) (*MoveResult, error) {
	var out MoveResult
	if err := c.post("/games/"+url.PathEscape(gameID)+"/move", map[string]string{"san": san}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resign forfeits the game.
func (c *Client) Resign(gameID string) (*Game, error) {
	var out struct {
		Game *Game `json:"game"`
	}
	if err := c.post("/games/"+url.PathEscape(gameID)+"/resign", nil, &out); err != nil {
		return nil, err
	}
	return out.Game, nil
}

// OfferDraw offers/accepts a draw.
func (c *Client) OfferDraw(gameID string) (*Game, error) {
	var out struct {
		Game *Game `json:"game"`
	}
	if err := c.post("/games/"+url.PathEscape(gameID)+"/draw", nil, &out); err != nil {
		return nil, err
	}
	return out.Game, nil
}

// ListChat fetches the chat backlog of a game.
func (c *Client) ListChat(gameID string) ([]ChatMessage, error) {
	var out struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.get("/games/"+url.PathEscape(gameID)+"/chat", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendChat posts a chat message to a game.
func (c *Client) SendChat(gameID, text string) (*ChatMessage, error) {
	var out struct {
		Message *ChatMessage `json:"message"`
	}
	if err := c.post("/games/"+url.PathEscape(gameID)+"/chat", map[string]string{"messageText": text}, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

// LeaderboardTop fetches the rating leaderboard.
func (c *Client) LeaderboardTop(limit int) ([]LeaderboardEntry, error) {
	var out struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.get(fmt.Sprintf("/leaderboards/top?limit=%d", limit), &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

// LeaderboardRecent fetches recently finished games.
func (c *Client) LeaderboardRecent(limit int) ([]RecentGame, error) {
	var out struct {
		RecentGames []RecentGame `json:"recentGames"`
	}
	if err := c.get(fmt.Sprintf("/leaderboards/recent?limit=%d", limit), &out); err != nil {
		return nil, err
	}
	return out.RecentGames, nil
}

// MyGames fetches the caller's game history.
func (c *Client) MyGames(limit, offset int) ([]HistoryGame, error) {
	var out struct {
		Games []HistoryGame `json:"games"`
	}
	if err := c.get(fmt.Sprintf("/history/me?limit=%d&offset=%d", limit, offset), &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

func (c *Client) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) put(path string, body, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Get(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return &Error{Status: resp.StatusCode, Message: payload.Message}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
