package wire

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, e Event)
	}{
		{
			name:  "match_found",
			frame: `{"type":"match_found","gameId":"game_1","color":"white"}`,
			check: func(t *testing.T, e Event) {
				m, ok := e.(MatchFound)
				if !ok {
					t.Fatalf("expected MatchFound, got %T", e)
				}
				if m.GameID != "game_1" || m.Color != "white" {
					t.Errorf("unexpected payload: %+v", m)
				}
			},
		},
		{
			name:  "move",
			frame: `{"type":"move","gameId":"game_2","sanMove":"e4","fenAfter":"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1","status":"active"}`,
			check: func(t *testing.T, e Event) {
				m, ok := e.(Move)
				if !ok {
					t.Fatalf("expected Move, got %T", e)
				}
				if m.SANMove != "e4" || m.Status != "active" {
					t.Errorf("unexpected payload: %+v", m)
				}
			},
		},
		{
			name:  "chat",
			frame: `{"type":"chat","gameId":"game_3","message":{"id":"msg_1","senderUserId":"user_9","messageText":"gg!","createdAt":"2024-05-01T12:00:00Z"}}`,
			check: func(t *testing.T, e Event) {
				c, ok := e.(Chat)
				if !ok {
					t.Fatalf("expected Chat, got %T", e)
				}
				if c.Message.SenderUserID != "user_9" || c.Message.MessageText != "gg!" {
					t.Errorf("unexpected payload: %+v", c)
				}
			},
		},
		{
			name:  "game_finished",
			frame: `{"type":"game_finished","gameId":"game_4","winnerUserId":"user_1"}`,
			check: func(t *testing.T, e Event) {
				g, ok := e.(GameFinished)
				if !ok {
					t.Fatalf("expected GameFinished, got %T", e)
				}
				if g.WinnerUserID != "user_1" {
					t.Errorf("unexpected payload: %+v", g)
				}
			},
		},
		{
			name:  "unknown type preserved",
			frame: `{"type":"tournament_started","tournamentId":"t_1"}`,
			check: func(t *testing.T, e Event) {
				u, ok := e.(Unknown)
				if !ok {
					t.Fatalf("expected Unknown, got %T", e)
				}
				if u.Type != "tournament_started" {
					t.Errorf("Type = %q", u.Type)
				}
				if !strings.Contains(string(u.Raw), "tournamentId") {
					t.Errorf("raw frame not preserved: %s", u.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode([]byte(tt.frame))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestDecodeGameScope(t *testing.T) {
	e, err := Decode([]byte(`{"type":"move","gameId":"game_7","sanMove":"Nf3"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Game() != "game_7" {
		t.Errorf("Game() = %q, want game_7", e.Game())
	}

	u, err := Decode([]byte(`{"type":"server_notice"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if u.Game() != "" {
		t.Errorf("unknown events must not claim a game scope, got %q", u.Game())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", "this is not json"},
		{"missing type", `{"gameId":"game_1"}`},
		{"empty frame", `{}`},
		{"json array", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.frame)); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tt.frame)
			}
		})
	}
}

func TestCommandMarshalling(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"auth", Auth("tok-123"), `{"type":"auth","token":"tok-123"}`},
		{"join", JoinGame("game_42"), `{"type":"join_game","gameId":"game_42"}`},
		{"leave", LeaveGame("game_42"), `{"type":"leave_game","gameId":"game_42"}`},
		{"ping", Ping(), `{"type":"ping"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.cmd)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}
