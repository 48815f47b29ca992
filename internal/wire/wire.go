// Package wire mirrors the chess platform's WebSocket wire protocol.
// Frames are JSON objects discriminated by a "type" field. Types here are
// defined client-side without importing any backend package.
package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType identifies an outbound frame.
type CommandType string

const (
	CmdAuth      CommandType = "auth"
	CmdJoinGame  CommandType = "join_game"
	CmdLeaveGame CommandType = "leave_game"
	CmdPing      CommandType = "ping"
)

// Command is a single outbound frame. Unused fields are omitted so every
// command kind shares one marshalable shape.
type Command struct {
	Type   CommandType `json:"type"`
	Token  string      `json:"token,omitempty"`
	GameID string      `json:"gameId,omitempty"`
}

// Auth builds the authentication handshake frame.
func Auth(token string) Command {
	return Command{Type: CmdAuth, Token: token}
}

// JoinGame builds a game-room subscribe frame.
func JoinGame(gameID string) Command {
	return Command{Type: CmdJoinGame, GameID: gameID}
}

// LeaveGame builds a game-room unsubscribe frame.
func LeaveGame(gameID string) Command {
	return Command{Type: CmdLeaveGame, GameID: gameID}
}

// Ping builds the keepalive frame.
func Ping() Command {
	return Command{Type: CmdPing}
}

// EventType identifies an inbound frame.
type EventType string

const (
	EventMatchFound   EventType = "match_found"
	EventMove         EventType = "move"
	EventChat         EventType = "chat"
	EventGameFinished EventType = "game_finished"
)

// Event is one decoded inbound frame. The set of implementations is closed:
// MatchFound, Move, Chat, GameFinished, plus Unknown for any type the client
// does not recognize, so consumers can type-switch exhaustively.
type Event interface {
	// Kind returns the wire discriminator.
	Kind() EventType
	// Game returns the game the event belongs to, or "" for events that are
	// not scoped to a game. Observers use this to filter the shared stream.
	Game() string
}

// MatchFound assigns the session to a new game.
type MatchFound struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

func (MatchFound) Kind() EventType { return EventMatchFound }
func (e MatchFound) Game() string  { return e.GameID }

// Move reports a move applied by the game authority.
type Move struct {
	GameID   string `json:"gameId"`
	SANMove  string `json:"sanMove"`
	FENAfter string `json:"fenAfter"`
	Status   string `json:"status"`
}

func (Move) Kind() EventType { return EventMove }
func (e Move) Game() string  { return e.GameID }

// ChatMessage is the nested message body of a chat event.
type ChatMessage struct {
	ID           string    `json:"id"`
	SenderUserID string    `json:"senderUserId"`
	MessageText  string    `json:"messageText"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Chat delivers one in-game chat message.
type Chat struct {
	GameID  string      `json:"gameId"`
	Message ChatMessage `json:"message"`
}

func (Chat) Kind() EventType { return EventChat }
func (e Chat) Game() string  { return e.GameID }

// GameFinished reports a terminal game state.
type GameFinished struct {
	GameID       string `json:"gameId"`
	WinnerUserID string `json:"winnerUserId"`
}

func (GameFinished) Kind() EventType { return EventGameFinished }
func (e GameFinished) Game() string  { return e.GameID }

// Unknown preserves frames of a type this client predates. The raw payload is
// kept so debugging surfaces can still show it.
type Unknown struct {
	Type EventType
	Raw  json.RawMessage
}

func (e Unknown) Kind() EventType { return e.Type }
func (Unknown) Game() string      { return "" }

type envelope struct {
	Type EventType `json:"type"`
}

// Decode parses one inbound frame into its Event variant. A frame that is not
// a JSON object with a "type" string is an error; a well-formed frame with an
// unrecognized type decodes to Unknown.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: invalid frame: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("wire: frame missing type")
	}

	switch env.Type {
	case EventMatchFound:
		var e MatchFound
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("wire: bad %s frame: %w", env.Type, err)
		}
		return e, nil
	case EventMove:
		var e Move
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("wire: bad %s frame: %w", env.Type, err)
		}
		return e, nil
	case EventChat:
		var e Chat
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("wire: bad %s frame: %w", env.Type, err)
		}
		return e, nil
	case EventGameFinished:
		var e GameFinished
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("wire: bad %s frame: %w", env.Type, err)
		}
		return e, nil
	default:
		return Unknown{Type: env.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
