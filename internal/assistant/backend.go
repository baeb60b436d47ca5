// Package assistant orchestrates chat sends and action executions against an
// assistant backend, keeping the conversation store and message archive in
// step with every request.
package assistant

import (
	"context"

	"github.com/portiq/assist-go/internal/conversation"
)

// MessageRequest is one user message plus the session state the backend
// needs: the single active context slot and the session identifier. The
// transcript itself is not sent; continuity beyond the context slot is the
// backend's concern.
type MessageRequest struct {
	Message   string                `json:"message"`
	Context   *conversation.Context `json:"context,omitempty"`
	SessionID string                `json:"session_id"`
}

// Reply is the backend's answer to a message.
type Reply struct {
	Message string                `json:"message"`
	Cards   []conversation.Card   `json:"cards,omitempty"`
	Actions []conversation.Action `json:"actions,omitempty"`
	Context *conversation.Context `json:"context,omitempty"`
}

// ActionRequest executes a suggested action by identifier.
type ActionRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// ActionResult is the backend's answer to an executed action.
type ActionResult struct {
	Message string `json:"message"`
}

// Backend is the assistant the orchestrator talks to. Implementations:
// RemoteBackend (procurement platform REST API) and engine.Engine (local
// LLM). Easy to mock in tests.
type Backend interface {
	SendMessage(ctx context.Context, req MessageRequest) (*Reply, error)
	ExecuteAction(ctx context.Context, req ActionRequest) (*ActionResult, error)
}
