package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/api"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/app"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/config"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/token"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	apiBase := flag.String("api", "", "HTTP API base URL (overrides config)")
	wsURL := flag.String("ws", "", "WebSocket URL override (overrides config)")
	sessionToken := flag.String("token", "", "session token (skips login)")
	mode := flag.String("mode", "", "transport mode: realtime or polling")
	login := flag.String("login", "", "username or email to log in with")
	password := flag.String("password", "", "password for -login")
	logPath := flag.String("log", "", "append debug logs to this file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *apiBase != "" {
		cfg.API.BaseURL = *apiBase
	}
	if *wsURL != "" {
		cfg.Realtime.URL = *wsURL
	}
	if *sessionToken != "" {
		cfg.API.Token = *sessionToken
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if cfg.Mode != config.ModeRealtime && cfg.Mode != config.ModePolling {
		fatalf("unknown mode %q", cfg.Mode)
	}

	// Bubble Tea owns the terminal; logs go to a file or nowhere.
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "chess")
		if err != nil {
			fatalf("open log: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	tokens := &api.TokenStore{}
	tokens.Set(cfg.API.Token)
	client := api.NewClient(cfg.API.BaseURL, tokens)

	if *login != "" {
		if _, err := client.Login(*login, *password); err != nil {
			fatalf("login: %v", err)
		}
	}

	selfID, username := identity(client, tokens)

	sess := realtime.NewSession(realtime.SessionConfig{
		KeepaliveInterval: cfg.Realtime.KeepaliveInterval,
	})

	var feed realtime.Feed
	if cfg.Mode == config.ModePolling {
		feed = realtime.NewPoller(client, realtime.PollerConfig{
			GameInterval:  cfg.Polling.GameInterval,
			ChatInterval:  cfg.Polling.ChatInterval,
			MatchInterval: cfg.Polling.MatchInterval,
		}, sess.Publish)
	} else {
		feed = realtime.NewChannel(realtime.ChannelConfig{
			URL:           realtime.Endpoint(cfg.API.BaseURL, cfg.Realtime.URL),
			Token:         tokens.Get,
			BackoffMin:    cfg.Realtime.BackoffMin,
			BackoffMax:    cfg.Realtime.BackoffMax,
			BackoffFactor: cfg.Realtime.BackoffFactor,
		}, sess.Publish)
	}
	sess.Attach(feed)

	m := app.New(sess, client, cfg.Mode, selfID, username)
	sess.Start()
	defer sess.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatalf("%v", err)
	}
}

// identity resolves who the session acts as: token claims when the backend
// issues JWTs, the profile endpoint otherwise. Either may fail without the
// console being unusable.
func identity(client *api.Client, tokens *api.TokenStore) (userID, username string) {
	if claims, err := token.Peek(tokens.Get()); err == nil {
		userID, username = claims.UserID, claims.Username
	}
	if userID != "" && username != "" {
		return userID, username
	}
	if me, err := client.Me(); err == nil && me != nil {
		if userID == "" {
			userID = me.ID
		}
		if username == "" {
			username = me.Username
		}
	}
	return userID, username
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "chess-console: "+format+"\n", args...)
	os.Exit(1)
}
