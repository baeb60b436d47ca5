package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/portiq/assist-go/internal/metrics"
)

// RouterDependencies holds everything the router wires together.
type RouterDependencies struct {
	Assistant *AssistantHandlers
	Metrics   *metrics.Metrics
}

// NewRouter creates the gateway's Chi router.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.portiq.app"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/assistant/message", deps.Assistant.HandleSendMessage)
		r.Post("/assistant/actions/execute", deps.Assistant.HandleExecuteAction)
		r.Delete("/assistant/conversation", deps.Assistant.HandleClearConversation)
		r.Get("/assistant/transcript", deps.Assistant.HandleTranscript)
		r.Get("/assistant/history", deps.Assistant.HandleHistory)
		r.Get("/commands", deps.Assistant.HandleCommands)
		r.Get("/intelligence/combined", deps.Assistant.HandleCombinedIntelligence)
	})

	return r
}
