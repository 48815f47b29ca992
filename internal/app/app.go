// Package app is the root Bubble Tea model of the chess console. It is a
// demo consumer of the realtime session: the feed view logs everything, the
// chat view filters for its own game, and neither knows whether events
// arrive over the WebSocket channel or the REST poller.
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/api"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/theme"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/views/chat"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/views/feed"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/views/status"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

// sessionEventMsg wraps one session broadcast for the Bubble Tea loop.
type sessionEventMsg struct {
	event realtime.Event
}

type queueJoinedMsg struct {
	status *api.MatchStatus
	err    error
}

type chatSentMsg struct {
	localID string
	message *api.ChatMessage
	err     error
}

type gameActionMsg struct {
	game *api.Game
	err  error
}

// Model is the root Bubble Tea model.
type Model struct {
	session *realtime.Session
	client  *api.Client
	sub     *realtime.Subscription
	events  chan realtime.Event

	keys   KeyMap
	width  int
	height int

	statusBar status.Model
	feed      feed.Model
	chat      chat.Model

	gameID     string
	color      string
	fen        string
	gameStatus string
	lastErr    string
}

// New creates the root model and registers it as a session observer. The
// observer only forwards into a channel the Bubble Tea loop drains, so a
// slow terminal never runs UI code inside the session's broadcast.
func New(session *realtime.Session, client *api.Client, mode, selfUserID, username string) Model {
	m := Model{
		session:   session,
		client:    client,
		events:    make(chan realtime.Event, 256),
		keys:      DefaultKeyMap(),
		statusBar: status.New(mode),
		feed:      feed.New(),
		chat:      chat.New(),
	}
	m.statusBar.Username = username
	m.chat.SetSelf(selfUserID)

	events := m.events
	m.sub = session.Subscribe(func(e realtime.Event) {
		events <- e
	})
	return m
}

// Init starts waiting for session events.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.feed.Width = msg.Width - 2
		m.feed.Height = (msg.Height - 8) / 2
		m.chat.Width = msg.Width - 2
		m.chat.Height = (msg.Height - 8) / 2
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionEventMsg:
		return m.handleEvent(msg.event)

	case queueJoinedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		if msg.status != nil && msg.status.GameID != "" {
			m.enterGame(msg.status.GameID, msg.status.Color)
		}
		return m, nil

	case chatSentMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			m.chat.Fail(msg.localID)
			return m, nil
		}
		serverID := ""
		if msg.message != nil {
			serverID = msg.message.ID
		}
		m.chat.Confirm(msg.localID, serverID)
		return m, nil

	case gameActionMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		if msg.game != nil {
			m.fen = msg.game.CurrentFEN
			m.gameStatus = msg.game.Status
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chat.Focused() {
		switch msg.String() {
		case "enter":
			text, localID, ok := m.chat.Compose()
			if !ok {
				return m, nil
			}
			return m, m.sendChat(text, localID)
		case "esc":
			m.chat.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sub.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Queue):
		return m, m.joinQueue()
	case key.Matches(msg, m.keys.Resign):
		if m.gameID != "" {
			return m, m.resign()
		}
	case key.Matches(msg, m.keys.Draw):
		if m.gameID != "" {
			return m, m.offerDraw()
		}
	case key.Matches(msg, m.keys.Compose):
		if m.gameID != "" {
			m.chat.Focus()
		}
	}
	return m, nil
}

func (m Model) handleEvent(e realtime.Event) (tea.Model, tea.Cmd) {
	m.feed.Append(e)

	switch ev := e.(type) {
	case realtime.StatusEvent:
		m.statusBar.State = ev.State

	case realtime.ErrorEvent:
		m.lastErr = ev.Err.Error()

	case realtime.MessageEvent:
		switch msg := ev.Message.(type) {
		case wire.MatchFound:
			if m.gameID == "" {
				m.enterGame(msg.GameID, msg.Color)
			}
		case wire.Move:
			if msg.GameID == m.gameID {
				if msg.FENAfter != "" {
					m.fen = msg.FENAfter
				}
				if msg.Status != "" {
					m.gameStatus = msg.Status
				}
			}
		case wire.Chat:
			m.chat.Observe(msg)
		case wire.GameFinished:
			if msg.GameID == m.gameID {
				m.gameStatus = "finished"
			}
		}
	}

	return m, m.waitForEvent()
}

// enterGame binds the UI to a newly assigned game and subscribes the
// session to its room.
func (m *Model) enterGame(gameID, color string) {
	m.gameID = gameID
	m.color = color
	m.gameStatus = "active"
	m.statusBar.GameID = gameID
	m.statusBar.Color = color
	m.chat.SetGame(gameID)
	m.session.Join(gameID)
}

// View renders the console.
func (m Model) View() string {
	parts := []string{
		m.statusBar.View(),
		m.feed.View(),
		m.chat.View(),
	}
	if m.lastErr != "" {
		parts = append(parts, theme.ErrText.Render(m.lastErr))
	}
	parts = append(parts, theme.Dimmed.Render("m matchmaking · i chat · r resign · d draw · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return sessionEventMsg{event: <-events}
	}
}

func (m Model) joinQueue() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		st, err := client.JoinMatchmaking()
		return queueJoinedMsg{status: st, err: err}
	}
}

func (m Model) sendChat(text, localID string) tea.Cmd {
	client, gameID := m.client, m.gameID
	return func() tea.Msg {
		msg, err := client.SendChat(gameID, text)
		return chatSentMsg{localID: localID, message: msg, err: err}
	}
}

func (m Model) resign() tea.Cmd {
	client, gameID := m.client, m.gameID
	return func() tea.Msg {
		game, err := client.Resign(gameID)
		return gameActionMsg{game: game, err: err}
	}
}

func (m Model) offerDraw() tea.Cmd {
	client, gameID := m.client, m.gameID
	return func() tea.Msg {
		game, err := client.OfferDraw(gameID)
		return gameActionMsg{game: game, err: err}
	}
}
