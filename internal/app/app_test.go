package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/api"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

func newTestModel() Model {
	sess := realtime.NewSession(realtime.SessionConfig{})
	return New(sess, nil, "realtime", "u1", "magnus")
}

func deliver(t *testing.T, m Model, e realtime.Event) Model {
	t.Helper()
	updated, _ := m.Update(sessionEventMsg{event: e})
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next
}

func TestMatchFoundEntersGame(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_5", Color: "black"}})

	if m.gameID != "game_5" || m.color != "black" {
		t.Fatalf("game binding = %q/%q, want game_5/black", m.gameID, m.color)
	}
	if m.statusBar.GameID != "game_5" || m.chat.GameID() != "game_5" {
		t.Fatalf("views not rebound: status=%q chat=%q", m.statusBar.GameID, m.chat.GameID())
	}
	if m.gameStatus != "active" {
		t.Fatalf("gameStatus = %q, want active", m.gameStatus)
	}
}

func TestSecondMatchFoundIgnoredWhileInGame(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_5", Color: "white"}})
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_6", Color: "black"}})

	if m.gameID != "game_5" {
		t.Fatalf("gameID = %q, want game_5 kept", m.gameID)
	}
}

func TestMoveUpdatesBoardState(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_5", Color: "white"}})
	m = deliver(t, m, realtime.MessageEvent{Message: wire.Move{GameID: "game_5", SANMove: "e4", FENAfter: "after-e4", Status: "active"}})

	if m.fen != "after-e4" {
		t.Fatalf("fen = %q, want after-e4", m.fen)
	}

	// Moves in other games never touch the board.
	m = deliver(t, m, realtime.MessageEvent{Message: wire.Move{GameID: "game_9", SANMove: "d4", FENAfter: "other"}})
	if m.fen != "after-e4" {
		t.Fatalf("fen = %q after foreign move, want after-e4", m.fen)
	}
}

func TestGameFinished(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_5", Color: "white"}})
	m = deliver(t, m, realtime.MessageEvent{Message: wire.GameFinished{GameID: "game_5", WinnerUserID: "u2"}})

	if m.gameStatus != "finished" {
		t.Fatalf("gameStatus = %q, want finished", m.gameStatus)
	}
}

func TestStatusEventReachesBar(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.StatusEvent{State: realtime.StateConnecting})
	if m.statusBar.State != realtime.StateConnecting {
		t.Fatalf("status bar state = %v, want connecting", m.statusBar.State)
	}
}

func TestErrorEventRendered(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.ErrorEvent{Err: errors.New("poll matchmaking: boom")})

	if !strings.Contains(m.View(), "poll matchmaking: boom") {
		t.Fatal("View() does not show the last error")
	}
}

func TestQueueJoinedAssignsImmediately(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(queueJoinedMsg{status: &api.MatchStatus{Queued: false, GameID: "game_3", Color: "white"}})
	m = updated.(Model)

	if m.gameID != "game_3" {
		t.Fatalf("gameID = %q, want game_3", m.gameID)
	}
}

func TestChatSendFailureDropsEcho(t *testing.T) {
	m := newTestModel()
	m = deliver(t, m, realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_5", Color: "white"}})

	mm, _ := m.Update(chatSentMsg{localID: "local-1", err: errors.New("api: 403 muted")})
	m = mm.(Model)

	if !strings.Contains(m.View(), "403 muted") {
		t.Fatal("View() does not surface the chat send failure")
	}
}
