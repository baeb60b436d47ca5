package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/assistant/engine"
	"github.com/portiq/assist-go/internal/config"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/history"
	"github.com/portiq/assist-go/internal/intelligence"
	"github.com/portiq/assist-go/internal/logger"
	"github.com/portiq/assist-go/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// Keep log output away from the terminal UI.
	logger.SetOutput(io.Discard)

	var backend assistant.Backend
	switch cfg.Backend.Mode {
	case config.BackendModeLocal:
		backend = engine.New(engine.NewClient(cfg.LLM), cfg.LLM)
	default:
		backend = assistant.NewRemoteBackend(cfg.Backend)
	}

	archive := history.NewArchive(cfg.Storage.HistoryPath)
	defer archive.Close()

	// One fixed-name store: the bar continues the same conversation across
	// restarts.
	snapshots := conversation.NewSnapshotStore(cfg.Storage.SnapshotPath)
	store := conversation.NewStore("portiq-conversation", snapshots)
	if snap, found, err := snapshots.LoadSnapshot("portiq-conversation"); err == nil && found {
		store.Hydrate(snap)
	}

	orc := assistant.NewOrchestrator(store, backend, archive, nil)

	var watcher *intelligence.Watcher
	if cfg.Backend.BaseURL != "" {
		watcher = intelligence.NewWatcher(
			intelligence.NewClient(cfg.Backend),
			time.Duration(cfg.Intelligence.DebounceMS)*time.Millisecond,
			time.Duration(cfg.Intelligence.CacheTTLSec)*time.Second,
			nil,
		)
		defer watcher.Close()
	}

	p := tea.NewProgram(tui.NewModel(orc, watcher), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
