package realtime

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

const (
	defaultBackoffMin    = 400 * time.Millisecond
	defaultBackoffMax    = 6 * time.Second
	defaultBackoffFactor = 1.6
)

// Conn is the subset of *websocket.Conn the channel drives. Tests substitute
// an in-memory implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// DialFunc opens one transport connection to the event endpoint.
type DialFunc func(ctx context.Context, url string) (Conn, error)

// TokenFunc returns the current session token. It is consulted fresh on
// every handshake so a login that happened while disconnected is honored on
// the next connect.
type TokenFunc func() string

// ChannelConfig configures a Channel.
type ChannelConfig struct {
	// URL of the WebSocket endpoint. See Endpoint.
	URL string
	// Token supplies the auth token; nil means unauthenticated.
	Token TokenFunc
	// Dial overrides the transport dialer. Nil uses gorilla's default dialer.
	Dial DialFunc
	// Backoff tuning; zero values use the platform defaults
	// (400ms base, x1.6 growth, 6s cap).
	BackoffMin    time.Duration
	BackoffMax    time.Duration
	BackoffFactor float64
	// Logger for connection lifecycle noise. Nil uses log.Default().
	Logger *log.Logger
}

// Channel maintains a single logical bidirectional event stream to the
// backend: it owns at most one physical connection at a time, authenticates
// on open, replays the subscription registry, flushes the outbound queue,
// and keeps reconnecting with capped exponential backoff until Disconnect.
//
// Connect, Disconnect, Send, Join, Leave and Keepalive all return
// immediately and never fail; the eventual outcome is observed through the
// event stream, not returned.
type Channel struct {
	url    string
	token  TokenFunc
	dial   DialFunc
	logger *log.Logger
	sink   func(Event)

	registry *Registry
	queue    *Queue
	retry    *backoff.Backoff

	// sleep waits between reconnect attempts; swapped in tests to drive the
	// retry loop with a virtual clock.
	sleep func(ctx context.Context, d time.Duration) bool

	mu      sync.Mutex // guards state, conn, cancel
	writeMu sync.Mutex // serialises all writes and queue handoff
	state   State
	conn    Conn
	cancel  context.CancelFunc
}

// NewChannel creates a channel that will deliver events to sink. The channel
// is idle until Connect.
func NewChannel(cfg ChannelConfig, sink func(Event)) *Channel {
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = defaultBackoffMin
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = defaultBackoffMax
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = defaultBackoffFactor
	}
	if cfg.Token == nil {
		cfg.Token = func() string { return "" }
	}
	if cfg.Dial == nil {
		cfg.Dial = dialWebsocket
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if sink == nil {
		sink = func(Event) {}
	}
	return &Channel{
		url:      cfg.URL,
		token:    cfg.Token,
		dial:     cfg.Dial,
		logger:   cfg.Logger,
		sink:     sink,
		registry: NewRegistry(),
		queue:    NewQueue(),
		retry: &backoff.Backoff{
			Min:    cfg.BackoffMin,
			Max:    cfg.BackoffMax,
			Factor: cfg.BackoffFactor,
		},
		sleep: sleepCtx,
	}
}

// Endpoint derives the WebSocket endpoint from the HTTP API base URL:
// http→ws, https→wss, plus the fixed /ws path. A non-empty override wins.
func Endpoint(apiBaseURL, override string) string {
	if override != "" {
		return override
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil || u.Host == "" {
		return apiBaseURL
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return scheme + "://" + u.Host + "/ws"
}

// Connect starts the connection loop. Idempotent: calling it while the
// channel is already running is a no-op. It never blocks; failures feed the
// retry schedule instead of surfacing to the caller.
func (c *Channel) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
}

// Disconnect stops the retry loop and closes any open transport. Safe to
// call repeatedly or before ever connecting.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.cancel = nil
	c.conn = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close() // unblocks the read loop
	}
}

// Shutdown disconnects and drops all session state: the subscription
// registry and any queued commands. Used on logout; a later Connect starts
// from a clean slate.
func (c *Channel) Shutdown() {
	c.Disconnect()
	c.registry.Clear()
	c.queue.Clear()
}

// Send transmits a command, buffering it if the channel is not open. The
// buffered commands are flushed in enqueue order after the subscription
// replay on the next successful connect.
func (c *Channel) Send(cmd wire.Command) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn, open := c.current()
	if !open {
		c.queue.Enqueue(cmd)
		return
	}
	if err := conn.WriteJSON(cmd); err != nil {
		// Connection is dying; the read loop will notice. Keep the command
		// for the next connect.
		c.queue.Enqueue(cmd)
	}
}

// Join subscribes to a game room. The registry is the durable record: if the
// channel is not open the subscribe frame is not queued separately, because
// the replay on the next connect sends it exactly once.
func (c *Channel) Join(gameID string) {
	if gameID == "" {
		return
	}
	c.registry.Add(gameID)
	c.sendIfOpen(wire.JoinGame(gameID))
}

// Leave unsubscribes from a game room. While disconnected the removal alone
// is enough: the server-side subscription died with the connection and the
// topic will not be replayed.
func (c *Channel) Leave(gameID string) {
	if gameID == "" {
		return
	}
	c.registry.Remove(gameID)
	c.sendIfOpen(wire.LeaveGame(gameID))
}

// Keepalive sends a heartbeat to keep intermediaries from closing an idle
// connection. Heartbeats are connection-scoped and are dropped, not queued,
// while the channel is not open.
func (c *Channel) Keepalive() {
	c.sendIfOpen(wire.Ping())
}

// Subscriptions returns the current game-room subscription set.
func (c *Channel) Subscriptions() []string {
	return c.registry.All()
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx, c.url)
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return
			}
			c.logger.Printf("realtime: dial %s: %v", c.url, err)
			if !c.sleep(ctx, c.retry.Duration()) {
				return
			}
			continue
		}

		c.open(conn)
		err = c.readLoop(conn)
		c.dropConn(conn)
		c.setState(StateDisconnected)
		if ctx.Err() != nil {
			return
		}
		c.logger.Printf("realtime: connection lost: %v", err)
		if !c.sleep(ctx, c.retry.Duration()) {
			return
		}
	}
}

// open installs the new connection and performs the on-open sequence:
// authenticate with a freshly read token, replay every subscribed room,
// then flush the outbound queue. Holding writeMu across the whole sequence
// keeps concurrent Sends ordered after the flush.
func (c *Channel) open(conn Conn) {
	c.writeMu.Lock()

	c.mu.Lock()
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()
	c.retry.Reset()

	if tok := c.token(); tok != "" {
		if err := conn.WriteJSON(wire.Auth(tok)); err != nil {
			c.logger.Printf("realtime: auth write: %v", err)
		}
	}
	for _, id := range c.registry.All() {
		if err := conn.WriteJSON(wire.JoinGame(id)); err != nil {
			c.logger.Printf("realtime: resubscribe %s: %v", id, err)
			break
		}
	}
	if err := c.queue.Drain(func(cmd wire.Command) error { return conn.WriteJSON(cmd) }); err != nil {
		c.logger.Printf("realtime: flush interrupted: %v", err)
	}

	c.writeMu.Unlock()

	// Announced after the handshake so an observer reacting to the status
	// change sends onto a fully initialised connection.
	c.sink(StatusEvent{State: StateOpen})
}

func (c *Channel) readLoop(conn Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := wire.Decode(data)
		if err != nil {
			// Malformed frames are dropped and reported; they never bring
			// the connection down.
			c.sink(ErrorEvent{Err: err})
			continue
		}
		c.sink(MessageEvent{Message: ev})
	}
}

func (c *Channel) dropConn(conn Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Channel) current() (Conn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn, c.state == StateOpen && c.conn != nil
}

func (c *Channel) sendIfOpen(cmd wire.Command) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn, open := c.current()
	if !open {
		return
	}
	if err := conn.WriteJSON(cmd); err != nil {
		c.logger.Printf("realtime: write %s: %v", cmd.Type, err)
	}
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()
	c.sink(StatusEvent{State: s})
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func dialWebsocket(ctx context.Context, rawURL string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
