package realtime

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

// stubFeed records lifecycle calls so session tests can assert delegation
// without a transport.
type stubFeed struct {
	mu         sync.Mutex
	connects   int
	shutdowns  int
	keepalives int
	joins      []string
	leaves     []string
	sent       []wire.Command
}

func (f *stubFeed) Connect()    { f.mu.Lock(); f.connects++; f.mu.Unlock() }
func (f *stubFeed) Disconnect() {}
func (f *stubFeed) Shutdown()   { f.mu.Lock(); f.shutdowns++; f.mu.Unlock() }
func (f *stubFeed) Join(id string) {
	f.mu.Lock()
	f.joins = append(f.joins, id)
	f.mu.Unlock()
}
func (f *stubFeed) Leave(id string) {
	f.mu.Lock()
	f.leaves = append(f.leaves, id)
	f.mu.Unlock()
}
func (f *stubFeed) Send(cmd wire.Command) {
	f.mu.Lock()
	f.sent = append(f.sent, cmd)
	f.mu.Unlock()
}
func (f *stubFeed) Keepalive()   { f.mu.Lock(); f.keepalives++; f.mu.Unlock() }
func (f *stubFeed) State() State { return StateOpen }

func quietSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	return NewSession(cfg)
}

func TestSessionFanOut(t *testing.T) {
	s := quietSession(SessionConfig{})

	var gotA, gotB []Event
	s.Subscribe(func(e Event) { gotA = append(gotA, e) })
	s.Subscribe(func(e Event) { gotB = append(gotB, e) })

	move := wire.Move{GameID: "game_1", SANMove: "e4"}
	s.Publish(StatusEvent{State: StateOpen})
	s.Publish(MessageEvent{Message: move})

	for name, got := range map[string][]Event{"A": gotA, "B": gotB} {
		if len(got) != 2 {
			t.Fatalf("observer %s saw %d events, want 2", name, len(got))
		}
		msg, ok := got[1].(MessageEvent)
		if !ok {
			t.Fatalf("observer %s event 1 is %T, want MessageEvent", name, got[1])
		}
		if mv := msg.Message.(wire.Move); mv.SANMove != "e4" {
			t.Fatalf("observer %s saw move %q, want e4", name, mv.SANMove)
		}
	}
}

func TestSessionObserversFilterIndependently(t *testing.T) {
	s := quietSession(SessionConfig{})

	var game1, game2 []string
	s.Subscribe(func(e Event) {
		if msg, ok := e.(MessageEvent); ok && msg.Message.Game() == "game_1" {
			game1 = append(game1, string(msg.Message.Kind()))
		}
	})
	s.Subscribe(func(e Event) {
		if msg, ok := e.(MessageEvent); ok && msg.Message.Game() == "game_2" {
			game2 = append(game2, string(msg.Message.Kind()))
		}
	})

	s.Publish(MessageEvent{Message: wire.Move{GameID: "game_1"}})
	s.Publish(MessageEvent{Message: wire.Chat{GameID: "game_2"}})
	s.Publish(MessageEvent{Message: wire.GameFinished{GameID: "game_1"}})

	if want := []string{"move", "game_finished"}; !equalStrings(game1, want) {
		t.Fatalf("game_1 observer saw %v, want %v", game1, want)
	}
	if want := []string{"chat"}; !equalStrings(game2, want) {
		t.Fatalf("game_2 observer saw %v, want %v", game2, want)
	}
}

func TestSessionObserverPanicIsolated(t *testing.T) {
	s := quietSession(SessionConfig{})

	var after int
	s.Subscribe(func(Event) { panic("bad observer") })
	s.Subscribe(func(Event) { after++ })

	s.Publish(StatusEvent{State: StateConnecting})
	s.Publish(StatusEvent{State: StateOpen})

	if after != 2 {
		t.Fatalf("observer after the panicking one saw %d events, want 2", after)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	s := quietSession(SessionConfig{})

	var kept, cancelled int
	sub := s.Subscribe(func(Event) { cancelled++ })
	s.Subscribe(func(Event) { kept++ })

	s.Publish(StatusEvent{State: StateOpen})
	sub.Cancel()
	sub.Cancel() // idempotent
	s.Publish(StatusEvent{State: StateDisconnected})

	if cancelled != 1 {
		t.Fatalf("cancelled observer saw %d events, want 1", cancelled)
	}
	if kept != 2 {
		t.Fatalf("remaining observer saw %d events, want 2", kept)
	}
}

func TestSessionSnapshot(t *testing.T) {
	s := quietSession(SessionConfig{})

	if s.State() != StateDisconnected {
		t.Fatalf("initial state = %v, want disconnected", s.State())
	}
	if s.LastEvent() != nil {
		t.Fatalf("initial last event = %v, want nil", s.LastEvent())
	}

	s.Publish(StatusEvent{State: StateOpen})
	s.Publish(MessageEvent{Message: wire.MatchFound{GameID: "game_9", Color: "white"}})

	if s.State() != StateOpen {
		t.Fatalf("state = %v, want open", s.State())
	}
	mf, ok := s.LastEvent().(wire.MatchFound)
	if !ok || mf.GameID != "game_9" {
		t.Fatalf("last event = %#v, want match_found for game_9", s.LastEvent())
	}
}

func TestSessionStartAndCloseIdempotent(t *testing.T) {
	feed := &stubFeed{}
	s := quietSession(SessionConfig{})
	s.Attach(feed)

	s.Start()
	s.Start()
	s.Close()
	s.Close()

	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.connects != 1 {
		t.Fatalf("feed connected %d times, want 1", feed.connects)
	}
	if feed.shutdowns != 1 {
		t.Fatalf("feed shut down %d times, want 1", feed.shutdowns)
	}
}

func TestSessionClosedIsInert(t *testing.T) {
	feed := &stubFeed{}
	s := quietSession(SessionConfig{})
	s.Attach(feed)
	s.Start()
	s.Close()

	s.Join("game_1")
	s.Send(wire.Ping())
	var seen int
	s.Subscribe(func(Event) { seen++ })
	s.Publish(StatusEvent{State: StateOpen})

	feed.mu.Lock()
	joins, sent := len(feed.joins), len(feed.sent)
	feed.mu.Unlock()
	if joins != 0 || sent != 0 {
		t.Fatalf("closed session forwarded %d joins and %d sends, want 0", joins, sent)
	}
	if seen != 0 {
		t.Fatalf("observer registered after close saw %d events, want 0", seen)
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state after close = %v, want disconnected", s.State())
	}
}

func TestSessionKeepaliveSchedule(t *testing.T) {
	feed := &stubFeed{}
	s := quietSession(SessionConfig{KeepaliveInterval: 10 * time.Millisecond})
	s.Attach(feed)
	s.Start()
	defer s.Close()

	deadline := time.After(2 * time.Second)
	for {
		feed.mu.Lock()
		n := feed.keepalives
		feed.mu.Unlock()
		if n >= 3 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("saw %d keepalives, want at least 3", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSessionDelegates(t *testing.T) {
	feed := &stubFeed{}
	s := quietSession(SessionConfig{})
	s.Attach(feed)

	s.Join("game_1")
	s.Leave("game_1")
	s.Send(wire.JoinGame("game_2"))

	feed.mu.Lock()
	defer feed.mu.Unlock()
	if !equalStrings(feed.joins, []string{"game_1"}) {
		t.Fatalf("joins = %v, want [game_1]", feed.joins)
	}
	if !equalStrings(feed.leaves, []string{"game_1"}) {
		t.Fatalf("leaves = %v, want [game_1]", feed.leaves)
	}
	if len(feed.sent) != 1 || feed.sent[0].GameID != "game_2" {
		t.Fatalf("sent = %v, want one command for game_2", feed.sent)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
