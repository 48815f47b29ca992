// Package api provides the REST client for the chess platform backend.
// Types mirror the backend's JSON shapes without importing server packages.
package api

import "time"

// User is a platform account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Rating   int    `json:"rating,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MatchStatus reports the caller's matchmaking position. GameID is set once
// a match has been assigned.
type MatchStatus struct {
	Queued bool   `json:"queued"`
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

// Game is the authoritative game record.
type Game struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	WhiteUserID   string    `json:"white_user_id"`
	BlackUserID   string    `json:"black_user_id"`
	WhiteUsername string    `json:"white_username,omitempty"`
	BlackUsername string    `json:"black_username,omitempty"`
	WinnerUserID  string    `json:"winner_user_id,omitempty"`
	CurrentFEN    string    `json:"current_fen"`
	MoveCount     int       `json:"move_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Move is one applied move.
type Move struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	MoveNumber int       `json:"move_number"`
	SAN        string    `json:"san"`
	CreatedAt  time.Time `json:"created_at"`
}

// MoveResult is returned by move submission.
type MoveResult struct {
	Game *Game `json:"game"`
	Move *Move `json:"move"`
}

// ChatMessage is one in-game chat entry.
type ChatMessage struct {
	ID           string    `json:"id"`
	GameID       string    `json:"game_id"`
	SenderUserID string    `json:"sender_user_id"`
	MessageText  string    `json:"message_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaderboardEntry is one row of the rating leaderboard.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// RecentGame is one row of the recent-games feed.
type RecentGame struct {
	GameID        string    `json:"game_id"`
	WhiteUsername string    `json:"white_username"`
	BlackUsername string    `json:"black_username"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HistoryGame is one row of the caller's game history.
type HistoryGame struct {
	ID            string    `json:"id"`
	WhiteUsername string    `json:"white_username"`
	BlackUsername string    `json:"black_username"`
	Status        string    `json:"status"`
	MoveCount     int       `json:"move_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}
