package realtime

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/api"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

const (
	defaultGamePollInterval  = 1200 * time.Millisecond
	defaultChatPollInterval  = 2 * time.Second
	defaultMatchPollInterval = 1500 * time.Millisecond
)

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Poll cadences; zero values use the platform defaults (1.2s game state,
	// 2s chat, 1.5s matchmaking).
	GameInterval  time.Duration
	ChatInterval  time.Duration
	MatchInterval time.Duration
	// Logger for poll failures. Nil uses log.Default().
	Logger *log.Logger
}

// gameCursor tracks how much of a game's server state has already been
// announced, so each poll only emits the difference.
type gameCursor struct {
	primed     bool
	chatPrimed bool
	moves      int
	chats      int
	finished   bool
}

// Poller is the request/response operating mode: it watches the REST surface
// and synthesizes the same wire events the realtime channel would push
// (match_found, move, chat, game_finished), delivered through the same sink.
// Consumers cannot tell which feed is active.
//
// The first poll after Join establishes a baseline; only changes after that
// point become events, matching the channel's "events from now on" contract.
type Poller struct {
	client *api.Client
	sink   func(Event)
	logger *log.Logger

	gameInterval  time.Duration
	chatInterval  time.Duration
	matchInterval time.Duration

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	games     map[string]*gameCursor
	lastMatch string
}

// NewPoller creates a poller that delivers events to sink. Idle until
// Connect.
func NewPoller(client *api.Client, cfg PollerConfig, sink func(Event)) *Poller {
	if cfg.GameInterval <= 0 {
		cfg.GameInterval = defaultGamePollInterval
	}
	if cfg.ChatInterval <= 0 {
		cfg.ChatInterval = defaultChatPollInterval
	}
	if cfg.MatchInterval <= 0 {
		cfg.MatchInterval = defaultMatchPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if sink == nil {
		sink = func(Event) {}
	}
	return &Poller{
		client:        client,
		sink:          sink,
		logger:        cfg.Logger,
		gameInterval:  cfg.GameInterval,
		chatInterval:  cfg.ChatInterval,
		matchInterval: cfg.MatchInterval,
		games:         make(map[string]*gameCursor),
	}
}

// Connect starts the poll loop. Idempotent and non-blocking.
func (p *Poller) Connect() {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = StateOpen
	p.mu.Unlock()

	p.sink(StatusEvent{State: StateOpen})
	go p.run(ctx)
}

// Disconnect stops polling. Joined games are kept for the next Connect.
func (p *Poller) Disconnect() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	wasOpen := p.state == StateOpen
	p.state = StateDisconnected
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if wasOpen {
		p.sink(StatusEvent{State: StateDisconnected})
	}
}

// Shutdown stops polling and forgets all game cursors.
func (p *Poller) Shutdown() {
	p.Disconnect()
	p.mu.Lock()
	p.games = make(map[string]*gameCursor)
	p.lastMatch = ""
	p.mu.Unlock()
}

// Join starts watching a game. Idempotent.
func (p *Poller) Join(gameID string) {
	if gameID == "" {
		return
	}
	p.mu.Lock()
	if _, ok := p.games[gameID]; !ok {
		p.games[gameID] = &gameCursor{}
	}
	p.mu.Unlock()
}

// Leave stops watching a game. Idempotent.
func (p *Poller) Leave(gameID string) {
	p.mu.Lock()
	delete(p.games, gameID)
	p.mu.Unlock()
}

// Send is a no-op in polling mode: game actions go through the REST client
// directly. Logged so a miswired consumer is visible.
func (p *Poller) Send(cmd wire.Command) {
	if cmd.Type == wire.CmdPing {
		return
	}
	p.logger.Printf("realtime: poller dropping %s command (no push transport)", cmd.Type)
}

// Keepalive is a no-op: there is no connection to keep warm.
func (p *Poller) Keepalive() {}

// State reports StateOpen while the poll loop runs.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) run(ctx context.Context) {
	gameTick := time.NewTicker(p.gameInterval)
	chatTick := time.NewTicker(p.chatInterval)
	matchTick := time.NewTicker(p.matchInterval)
	defer gameTick.Stop()
	defer chatTick.Stop()
	defer matchTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-matchTick.C:
			p.pollMatchmaking()
		case <-gameTick.C:
			for _, id := range p.watched() {
				p.pollGame(id)
			}
		case <-chatTick.C:
			for _, id := range p.watched() {
				p.pollChat(id)
			}
		}
	}
}

func (p *Poller) watched() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.games))
	for id := range p.games {
		out = append(out, id)
	}
	return out
}

func (p *Poller) cursor(gameID string) (*gameCursor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.games[gameID]
	return c, ok
}

func (p *Poller) pollMatchmaking() {
	st, err := p.client.MatchmakingStatus()
	if err != nil {
		p.report("matchmaking status", err)
		return
	}
	if st.GameID == "" {
		return
	}

	p.mu.Lock()
	announced := p.lastMatch == st.GameID
	if !announced {
		p.lastMatch = st.GameID
	}
	p.mu.Unlock()

	if !announced {
		p.sink(MessageEvent{Message: wire.MatchFound{GameID: st.GameID, Color: st.Color}})
	}
}

func (p *Poller) pollGame(gameID string) {
	cur, ok := p.cursor(gameID)
	if !ok {
		return
	}

	moves, err := p.client.GetMoves(gameID)
	if err != nil {
		p.report("moves "+gameID, err)
		return
	}
	game, err := p.client.GetGame(gameID)
	if err != nil {
		p.report("game "+gameID, err)
		return
	}

	p.mu.Lock()
	if !cur.primed {
		cur.primed = true
		cur.moves = len(moves)
		if game.Status != "active" {
			cur.finished = true
		}
		p.mu.Unlock()
		return
	}
	from := cur.moves
	if len(moves) > cur.moves {
		cur.moves = len(moves)
	}
	emitFinish := game.Status != "active" && !cur.finished
	if emitFinish {
		cur.finished = true
	}
	p.mu.Unlock()

	for i := from; i < len(moves); i++ {
		ev := wire.Move{GameID: gameID, SANMove: moves[i].SAN, Status: game.Status}
		if i == len(moves)-1 {
			ev.FENAfter = game.CurrentFEN
		}
		p.sink(MessageEvent{Message: ev})
	}
	if emitFinish {
		p.sink(MessageEvent{Message: wire.GameFinished{GameID: gameID, WinnerUserID: game.WinnerUserID}})
	}
}

func (p *Poller) pollChat(gameID string) {
	cur, ok := p.cursor(gameID)
	if !ok {
		return
	}

	messages, err := p.client.ListChat(gameID)
	if err != nil {
		p.report("chat "+gameID, err)
		return
	}

	p.mu.Lock()
	if !cur.chatPrimed {
		// First look at this room: the backlog is baseline, not events.
		cur.chatPrimed = true
		cur.chats = len(messages)
		p.mu.Unlock()
		return
	}
	from := cur.chats
	if len(messages) > cur.chats {
		cur.chats = len(messages)
	}
	p.mu.Unlock()

	for i := from; i < len(messages); i++ {
		m := messages[i]
		p.sink(MessageEvent{Message: wire.Chat{
			GameID: gameID,
			Message: wire.ChatMessage{
				ID:           m.ID,
				SenderUserID: m.SenderUserID,
				MessageText:  m.MessageText,
				CreatedAt:    m.CreatedAt,
			},
		}})
	}
}

func (p *Poller) report(op string, err error) {
	p.logger.Printf("realtime: poll %s: %v", op, err)
	p.sink(ErrorEvent{Err: fmt.Errorf("poll %s: %w", op, err)})
}
