// Package engine is the in-process assistant backend: it answers chat
// messages with an LLM and maps the model's tool calls into suggested portal
// actions. It never executes actions itself.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/config"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/logger"
)

// Client is the minimal subset of openai.Client the engine uses; it is easy
// to mock in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient creates an OpenAI-compatible client from config.
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

const defaultSystemPrompt = "You are PortiQ, a procurement assistant for maritime buyers. " +
	"Answer questions about products, suppliers, RFQs, orders, deliveries and invoices accurately and concisely. " +
	"When a portal action would help the user, call the matching function instead of describing it."

// suggestible maps tool names the LLM may call to user-facing labels.
var suggestible = []struct {
	name        string
	label       string
	description string
	params      json.RawMessage
}{
	{
		name:        "create_rfq",
		label:       "Create RFQ",
		description: "Start a request for quotation for the discussed products.",
		params:      json.RawMessage(`{"type":"object","properties":{"delivery_port":{"type":"string"},"impa_codes":{"type":"array","items":{"type":"string"}},"vessel_id":{"type":"string"}}}`),
	},
	{
		name:        "compare_quotes",
		label:       "Compare Quotes",
		description: "Open a side-by-side comparison of the received quotes for an RFQ.",
		params:      json.RawMessage(`{"type":"object","properties":{"rfq_id":{"type":"string"}}}`),
	},
	{
		name:        "find_suppliers",
		label:       "Find Suppliers",
		description: "Search matching suppliers for a product and delivery port.",
		params:      json.RawMessage(`{"type":"object","properties":{"delivery_port":{"type":"string"},"query":{"type":"string"}}}`),
	},
	{
		name:        "track_order",
		label:       "Track Order",
		description: "Show delivery status for an order.",
		params:      json.RawMessage(`{"type":"object","properties":{"order_id":{"type":"string"}}}`),
	},
}

// Engine implements assistant.Backend with a local LLM.
type Engine struct {
	llm   Client
	cfg   config.LLMConfig
	tools []openai.Tool
}

// New creates an Engine.
func New(llm Client, cfg config.LLMConfig) *Engine {
	tools := make([]openai.Tool, 0, len(suggestible))
	for _, s := range suggestible {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.name,
				Description: s.description,
				Parameters:  s.params,
			},
		})
	}
	return &Engine{llm: llm, cfg: cfg, tools: tools}
}

// SendMessage answers one user message. The active conversation context is
// folded into the system prompt; the model's tool calls come back as
// suggested actions for the user to trigger, not as executions.
func (e *Engine) SendMessage(ctx context.Context, req assistant.MessageRequest) (*assistant.Reply, error) {
	systemPrompt := e.cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if req.Context != nil && !req.Context.IsZero() {
		payload, err := json.Marshal(req.Context.Data)
		if err != nil {
			payload = []byte("{}")
		}
		systemPrompt += fmt.Sprintf("\n\nActive %s context: %s", req.Context.Type, payload)
	}

	resp, err := e.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
		Tools: e.tools,
	})
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("llm returned no choices")
	}

	msg := resp.Choices[0].Message
	reply := &assistant.Reply{Message: msg.Content}

	for i, tc := range msg.ToolCalls {
		label := labelFor(tc.Function.Name)
		if label == "" {
			logger.L.Warn("llm suggested unknown action", "name", tc.Function.Name)
			continue
		}
		var params map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &params); err != nil {
			logger.L.Warn("unparseable action arguments", "name", tc.Function.Name, "error", err)
			params = nil
		}
		variant := conversation.ActionOutline
		if i == 0 {
			variant = conversation.ActionPrimary
		}
		reply.Actions = append(reply.Actions, conversation.Action{
			ID:      tc.ID,
			Label:   label,
			Variant: variant,
			Action:  tc.Function.Name,
			Params:  params,
		})
	}

	if len(reply.Actions) > 0 {
		labels := make([]any, 0, len(reply.Actions))
		for _, a := range reply.Actions {
			labels = append(labels, a.Label)
		}
		reply.Cards = append(reply.Cards, conversation.Card{
			Type:  conversation.CardSuggestion,
			Title: "Suggested next steps",
			Data:  map[string]any{"suggestions": labels},
		})
		if reply.Message == "" {
			reply.Message = "Here is what I can do next."
		}
	}

	return reply, nil
}

// ExecuteAction is not supported locally: portal actions mutate procurement
// data, which only the platform backend may do.
func (e *Engine) ExecuteAction(context.Context, assistant.ActionRequest) (*assistant.ActionResult, error) {
	return nil, errors.New("local engine cannot execute portal actions; configure backend.mode: remote")
}

func labelFor(name string) string {
	for _, s := range suggestible {
		if s.name == name {
			return s.label
		}
	}
	return ""
}
