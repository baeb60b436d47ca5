package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/portiq/assist-go/internal/api"
	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/assistant/engine"
	"github.com/portiq/assist-go/internal/command"
	"github.com/portiq/assist-go/internal/config"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/history"
	"github.com/portiq/assist-go/internal/intelligence"
	"github.com/portiq/assist-go/internal/logger"
	"github.com/portiq/assist-go/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	var backend assistant.Backend
	switch cfg.Backend.Mode {
	case config.BackendModeLocal:
		backend = engine.New(engine.NewClient(cfg.LLM), cfg.LLM)
	default:
		backend = assistant.NewRemoteBackend(cfg.Backend)
	}

	m := metrics.New()
	archive := history.NewArchive(cfg.Storage.HistoryPath)
	defer archive.Close()
	snapshots := conversation.NewSnapshotStore(cfg.Storage.SnapshotPath)
	sessions := api.NewSessionManager(backend, archive, snapshots, m)

	var fetcher intelligence.Fetcher
	if cfg.Backend.BaseURL != "" {
		fetcher = intelligence.NewClient(cfg.Backend)
	}

	// The gateway's command registry answers with route targets; navigation
	// itself happens in whichever client consumes them.
	registry := command.DefaultRegistry(func(string) {})

	handlers := api.NewAssistantHandlers(sessions, archive, registry, fetcher)
	router := api.NewRouter(api.RouterDependencies{Assistant: handlers, Metrics: m})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting assist gateway", "address", addr, "backend_mode", cfg.Backend.Mode)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.L.Error("server exited", "error", err)
		os.Exit(1)
	}
}
