// Command eventhub is the terminal client for the EventHub backend.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/app"
	"github.com/eventhub/tui/internal/config"
	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	apiURL := flag.String("url", "", "backend base URL (overrides config)")
	flag.Parse()

	// A .env next to the binary is a convenience for development; a
	// missing one is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventhub: loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	tokens := session.NewTokenFile(cfg.State.Dir)
	sess := session.NewManager(client, tokens)
	st := store.New(client, sess)

	p := tea.NewProgram(app.New(sess, st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "eventhub: %v\n", err)
		os.Exit(1)
	}
}
