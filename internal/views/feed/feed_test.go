package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

func TestAppendFormatsEachKind(t *testing.T) {
	m := New()
	m.Append(realtime.StatusEvent{State: realtime.StateOpen})
	m.Append(realtime.MessageEvent{Message: wire.MatchFound{GameID: "game_1", Color: "white"}})
	m.Append(realtime.MessageEvent{Message: wire.Move{GameID: "game_1", SANMove: "e4", Status: "active"}})
	m.Append(realtime.MessageEvent{Message: wire.Chat{GameID: "game_1", Message: wire.ChatMessage{SenderUserID: "u2", MessageText: "hi"}}})
	m.Append(realtime.MessageEvent{Message: wire.GameFinished{GameID: "game_1", WinnerUserID: "u2"}})
	m.Append(realtime.ErrorEvent{Err: errors.New("boom")})
	m.Append(realtime.MessageEvent{Message: wire.Unknown{Type: "rematch_offer"}})

	if m.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", m.Len())
	}
	m.Height = 20
	v := m.View()
	for _, want := range []string{"connected", "game_1", "e4", "hi", "winner u2", "boom", "rematch_offer"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestLogIsBounded(t *testing.T) {
	m := New()
	for i := 0; i < maxLines+50; i++ {
		m.Append(realtime.MessageEvent{Message: wire.Move{GameID: "game_1", SANMove: "e4"}})
	}
	if m.Len() != maxLines {
		t.Fatalf("Len() = %d, want bounded at %d", m.Len(), maxLines)
	}
}
