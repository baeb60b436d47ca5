package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/portiq/assist-go/internal/command"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/history"
	"github.com/portiq/assist-go/internal/intelligence"
	"github.com/portiq/assist-go/internal/intent"
	"github.com/portiq/assist-go/pkg/httputil"
)

// AssistantHandlers serves the chat, command-bar and intelligence routes.
type AssistantHandlers struct {
	sessions *SessionManager
	archive  *history.Archive
	registry *command.Registry
	intel    intelligence.Fetcher
}

// NewAssistantHandlers creates the handler set. archive and intel may be nil;
// their routes then answer 503.
func NewAssistantHandlers(sessions *SessionManager, archive *history.Archive, registry *command.Registry, intel intelligence.Fetcher) *AssistantHandlers {
	return &AssistantHandlers{
		sessions: sessions,
		archive:  archive,
		registry: registry,
		intel:    intel,
	}
}

type sendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type sendMessageResponse struct {
	SessionID string               `json:"session_id"`
	Reply     conversation.Message `json:"reply"`
}

// HandleSendMessage runs the send-message flow for a session.
func (h *AssistantHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	o := h.sessions.Get(req.SessionID)
	reply := o.SendMessage(r.Context(), req.Message)

	httputil.RespondJSON(w, http.StatusOK, sendMessageResponse{
		SessionID: o.Store().SessionID(),
		Reply:     reply,
	})
}

type executeActionRequest struct {
	SessionID string              `json:"session_id,omitempty"`
	Action    conversation.Action `json:"action"`
}

// HandleExecuteAction executes a suggested action for a session.
func (h *AssistantHandlers) HandleExecuteAction(w http.ResponseWriter, r *http.Request) {
	var req executeActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Action.Action == "" {
		httputil.RespondError(w, http.StatusBadRequest, "action identifier is required")
		return
	}

	o := h.sessions.Get(req.SessionID)
	reply := o.ExecuteAction(r.Context(), req.Action)

	httputil.RespondJSON(w, http.StatusOK, sendMessageResponse{
		SessionID: o.Store().SessionID(),
		Reply:     reply,
	})
}

// HandleClearConversation empties a session and returns the rotated id.
func (h *AssistantHandlers) HandleClearConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	newID := h.sessions.Clear(sessionID)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"session_id": newID})
}

// HandleTranscript returns the session's bounded transcript.
func (h *AssistantHandlers) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	o := h.sessions.Get(sessionID)
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id": o.Store().SessionID(),
		"messages":   o.Store().Messages(),
		"processing": o.Store().Processing(),
	})
}

// HandleHistory returns the unbounded archived history of a session.
func (h *AssistantHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "history archive not configured")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	entries := h.archive.List(sessionID)
	if entries == nil {
		entries = []history.Entry{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"messages": entries})
}

type commandsResponse struct {
	Intent   intent.Type       `json:"intent"`
	Commands []command.Command `json:"commands"`
}

// HandleCommands classifies the query and returns matching commands.
func (h *AssistantHandlers) HandleCommands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	httputil.RespondJSON(w, http.StatusOK, commandsResponse{
		Intent:   intent.Classify(q),
		Commands: h.registry.Filter(q),
	})
}

// HandleCombinedIntelligence proxies one combined-intelligence fetch. The
// 500ms debounce and 30s cache live client-side in the watcher; the gateway
// fetches on demand.
func (h *AssistantHandlers) HandleCombinedIntelligence(w http.ResponseWriter, r *http.Request) {
	if h.intel == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "intelligence backend not configured")
		return
	}

	q := r.URL.Query()
	p := intelligence.Params{
		DeliveryPort:    q.Get("delivery_port"),
		VesselID:        q.Get("vessel_id"),
		DeliveryDate:    q.Get("delivery_date"),
		BiddingDeadline: q.Get("bidding_deadline"),
	}
	if codes := strings.TrimSpace(q.Get("impa_codes")); codes != "" {
		p.IMPACodes = strings.Split(codes, ",")
	}
	if !p.Active() {
		httputil.RespondError(w, http.StatusBadRequest, "delivery_port is required")
		return
	}

	combined, err := h.intel.FetchCombined(r.Context(), p)
	if err != nil {
		httputil.RespondError(w, http.StatusBadGateway, "unable to load intelligence: "+err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, combined)
}
