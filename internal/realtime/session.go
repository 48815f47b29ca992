package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

const defaultKeepaliveInterval = 25 * time.Second

// Observer receives every broadcast event. Observers filter the shared
// stream themselves (for example by wire.Event.Game); the session does not
// route per topic.
type Observer func(Event)

// Subscription is the detach handle returned by Subscribe.
type Subscription struct {
	session *Session
	fn      Observer
}

// Cancel removes the observer. Idempotent; events already in flight may
// still be delivered once.
func (sub *Subscription) Cancel() {
	if sub == nil || sub.session == nil {
		return
	}
	s := sub.session
	s.mu.Lock()
	for i, other := range s.subs {
		if other == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// KeepaliveInterval between heartbeats; zero uses the 25s default.
	KeepaliveInterval time.Duration
	// Logger for observer panics. Nil uses log.Default().
	Logger *log.Logger
}

// Session is the per-authenticated-session fan-out: it owns one feed
// (realtime channel or REST poller), exposes the current connection state
// and the most recently received event, and broadcasts every event once to
// each registered observer. Observers never affect one another: a panicking
// observer is isolated and delivery to the rest continues.
//
// A Session is an explicitly constructed, explicitly owned value — create it
// when a session authenticates, hand it to every consumer that needs it, and
// Close it on logout.
type Session struct {
	keepalive time.Duration
	logger    *log.Logger

	mu      sync.Mutex
	feed    Feed
	subs    []*Subscription
	state   State
	last    wire.Event
	stop    chan struct{}
	started bool
	closed  bool
}

// NewSession creates a session with no feed attached.
func NewSession(cfg SessionConfig) *Session {
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = defaultKeepaliveInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Session{
		keepalive: cfg.KeepaliveInterval,
		logger:    cfg.Logger,
	}
}

// Attach wires the feed the session owns. Must be called before Start. The
// feed's sink should be this session's Publish.
func (s *Session) Attach(feed Feed) {
	s.mu.Lock()
	s.feed = feed
	s.mu.Unlock()
}

// Start connects the feed and begins the keepalive schedule. Idempotent.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started || s.closed || s.feed == nil {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	feed, stop := s.feed, s.stop
	s.mu.Unlock()

	feed.Connect()
	go s.keepaliveLoop(feed, stop)
}

// Close tears the session down: the keepalive schedule stops and the feed is
// shut down (channel disconnected, subscriptions forgotten). Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	feed := s.feed
	stop := s.stop
	s.subs = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if feed != nil {
		feed.Shutdown()
	}
}

// Subscribe registers an observer for every subsequent event and returns its
// detach handle.
func (s *Session) Subscribe(fn Observer) *Subscription {
	sub := &Subscription{session: s, fn: fn}
	s.mu.Lock()
	if !s.closed {
		s.subs = append(s.subs, sub)
	}
	s.mu.Unlock()
	return sub
}

// Publish broadcasts one event to every registered observer, in registration
// order, and updates the status/last-event snapshot. It is the sink feeds
// deliver into.
func (s *Session) Publish(e Event) {
	s.mu.Lock()
	if s.closed {
		// A feed racing its own shutdown may still deliver; the session is
		// terminal and stays silent.
		s.mu.Unlock()
		return
	}
	switch ev := e.(type) {
	case StatusEvent:
		s.state = ev.State
	case MessageEvent:
		// Last-value cache only; observers needing history accumulate it
		// from the broadcasts they receive while registered.
		s.last = ev.Message
	}
	subs := make([]*Subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		s.deliver(sub, e)
	}
}

func (s *Session) deliver(sub *Subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("realtime: observer panic: %v", r)
		}
	}()
	sub.fn(e)
}

// State returns the connection state as last broadcast.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastEvent returns the most recently received wire event, or nil. This is a
// last-value cache for late-registering observers, not a history.
func (s *Session) LastEvent() wire.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Join subscribes the session to a game room.
func (s *Session) Join(gameID string) {
	if feed := s.currentFeed(); feed != nil {
		feed.Join(gameID)
	}
}

// Leave unsubscribes the session from a game room.
func (s *Session) Leave(gameID string) {
	if feed := s.currentFeed(); feed != nil {
		feed.Leave(gameID)
	}
}

// Send hands a command to the feed.
func (s *Session) Send(cmd wire.Command) {
	if feed := s.currentFeed(); feed != nil {
		feed.Send(cmd)
	}
}

func (s *Session) currentFeed() Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.feed
}

func (s *Session) keepaliveLoop(feed Feed, stop chan struct{}) {
	t := time.NewTicker(s.keepalive)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			feed.Keepalive()
		}
	}
}
