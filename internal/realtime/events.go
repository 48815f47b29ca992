package realtime

import (
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

// State is the connection state of a feed.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "connected"
	default:
		return "disconnected"
	}
}

// Event is one broadcast delivered to session observers: a connection status
// change, a decoded wire message, or a non-fatal error. The set of
// implementations is closed.
type Event interface {
	sessionEvent()
}

// StatusEvent reports a connection state transition.
type StatusEvent struct {
	State State
}

// MessageEvent carries one inbound wire event.
type MessageEvent struct {
	Message wire.Event
}

// ErrorEvent reports a recoverable failure (malformed frame, poll error).
// The feed stays up; observers decide whether to surface it.
type ErrorEvent struct {
	Err error
}

func (StatusEvent) sessionEvent()  {}
func (MessageEvent) sessionEvent() {}
func (ErrorEvent) sessionEvent()   {}

// Feed is the uniform transport contract the session owns: the realtime
// Channel and the REST Poller both satisfy it.
type Feed interface {
	Connect()
	Disconnect()
	// Shutdown disconnects and forgets session state (subscriptions, queued
	// commands). Used on session teardown; Disconnect alone keeps them for
	// the next Connect.
	Shutdown()
	Join(gameID string)
	Leave(gameID string)
	Send(cmd wire.Command)
	Keepalive()
	State() State
}
