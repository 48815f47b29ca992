// Package chat renders in-game chat for the active game and owns the
// compose input. It is one observer of the shared event stream: it filters
// for chat events carrying its own game id and ignores everything else.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/theme"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

// Message is one rendered chat line. Pending messages are optimistic local
// echoes awaiting the server copy.
type Message struct {
	LocalID string
	Sender  string
	Text    string
	Pending bool
}

// Model holds the chat panel state.
type Model struct {
	Width  int
	Height int

	gameID   string
	selfID   string
	input    textinput.Model
	messages []Message
	seen     map[string]bool
}

// New creates an empty chat panel.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "message…"
	ti.CharLimit = 280
	return Model{input: ti, seen: make(map[string]bool)}
}

// SetGame switches the panel to a new game, clearing the transcript.
func (m *Model) SetGame(gameID string) {
	m.gameID = gameID
	m.messages = nil
	m.seen = make(map[string]bool)
}

// SetSelf records the authenticated user id so own messages render as "me".
func (m *Model) SetSelf(userID string) {
	m.selfID = userID
}

// GameID returns the game the panel is bound to.
func (m Model) GameID() string { return m.gameID }

// Observe consumes one chat wire event. Events for other games are ignored;
// duplicates (possible in polling mode or across reconnects) are dropped by
// server message id.
func (m *Model) Observe(ev wire.Chat) {
	if ev.GameID == "" || ev.GameID != m.gameID {
		return
	}
	if ev.Message.ID != "" {
		if m.seen[ev.Message.ID] {
			return
		}
		m.seen[ev.Message.ID] = true
	}

	if ev.Message.SenderUserID == m.selfID {
		// The server copy of a message we already echoed locally.
		for i := range m.messages {
			if m.messages[i].Pending {
				m.messages[i].Pending = false
				m.messages[i].Text = ev.Message.MessageText
				return
			}
		}
	}
	m.messages = append(m.messages, Message{
		Sender: ev.Message.SenderUserID,
		Text:   ev.Message.MessageText,
	})
}

// Compose consumes the input value as an optimistic local echo and returns
// the text plus the local id used to confirm or fail it later. Returns ok
// false when the input is blank or no game is active.
func (m *Model) Compose() (text, localID string, ok bool) {
	text = strings.TrimSpace(m.input.Value())
	if text == "" || m.gameID == "" {
		return "", "", false
	}
	m.input.Reset()
	localID = uuid.NewString()
	m.messages = append(m.messages, Message{
		LocalID: localID,
		Sender:  m.selfID,
		Text:    text,
		Pending: true,
	})
	return text, localID, true
}

// Confirm marks a local echo as accepted, recording the server id so the
// broadcast copy is not rendered twice.
func (m *Model) Confirm(localID, serverID string) {
	for i := range m.messages {
		if m.messages[i].LocalID == localID {
			m.messages[i].Pending = false
			break
		}
	}
	if serverID != "" {
		m.seen[serverID] = true
	}
}

// Fail removes a local echo whose send was rejected.
func (m *Model) Fail(localID string) {
	for i := range m.messages {
		if m.messages[i].LocalID == localID {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return
		}
	}
}

// Focus moves keyboard input to the compose field.
func (m *Model) Focus() { m.input.Focus() }

// Blur releases keyboard input.
func (m *Model) Blur() { m.input.Blur() }

// Focused reports whether the compose field owns the keyboard.
func (m Model) Focused() bool { return m.input.Focused() }

// Update forwards keystrokes to the compose field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript and compose field.
func (m Model) View() string {
	height := m.Height
	if height < 3 {
		height = 3
	}

	var lines []string
	for _, msg := range m.messages {
		sender := msg.Sender
		if sender == m.selfID && m.selfID != "" {
			sender = "me"
		}
		line := fmt.Sprintf("%s: %s", theme.Title.Render(sender), msg.Text)
		if msg.Pending {
			line += theme.Dimmed.Render(" …")
		}
		lines = append(lines, line)
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}

	body := strings.Join(lines, "\n")
	if body == "" {
		if m.gameID == "" {
			body = theme.Dimmed.Render("no active game")
		} else {
			body = theme.Dimmed.Render("say hi…")
		}
	}

	title := "Chat"
	if m.gameID != "" {
		title += " · " + m.gameID
	}
	return theme.Panel.Width(m.Width).Render(
		theme.Title.Render(title) + "\n" + body + "\n" + m.input.View(),
	)
}
