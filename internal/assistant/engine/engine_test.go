package engine

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/config"
	"github.com/portiq/assist-go/internal/conversation"
)

type mockLLM struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (m *mockLLM) CreateChatCompletion(_ context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastReq = r
	return m.resp, m.err
}

func TestSendMessage_PlainAnswer(t *testing.T) {
	llm := &mockLLM{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Content: "Engine oil benchmarks run 4 to 5 USD/l."},
			}},
		},
	}
	e := New(llm, config.LLMConfig{Model: "gpt-4o"})

	reply, err := e.SendMessage(context.Background(), assistant.MessageRequest{Message: "engine oil prices?"})
	require.NoError(t, err)
	require.Equal(t, "Engine oil benchmarks run 4 to 5 USD/l.", reply.Message)
	require.Empty(t, reply.Actions)

	require.Equal(t, "gpt-4o", llm.lastReq.Model)
	require.Len(t, llm.lastReq.Messages, 2)
	require.NotEmpty(t, llm.lastReq.Tools, "suggestible actions are offered as functions")
}

func TestSendMessage_ToolCallsBecomeSuggestedActions(t *testing.T) {
	llm := &mockLLM{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					ToolCalls: []openai.ToolCall{
						{
							ID:   "call_1",
							Type: openai.ToolTypeFunction,
							Function: openai.FunctionCall{
								Name:      "create_rfq",
								Arguments: `{"delivery_port":"SGSIN"}`,
							},
						},
						{
							ID:   "call_2",
							Type: openai.ToolTypeFunction,
							Function: openai.FunctionCall{
								Name:      "find_suppliers",
								Arguments: `{"query":"engine oil"}`,
							},
						},
					},
				},
			}},
		},
	}
	e := New(llm, config.LLMConfig{Model: "gpt-4o"})

	reply, err := e.SendMessage(context.Background(), assistant.MessageRequest{Message: "get me engine oil in singapore"})
	require.NoError(t, err)

	require.Len(t, reply.Actions, 2)
	require.Equal(t, "Create RFQ", reply.Actions[0].Label)
	require.Equal(t, conversation.ActionPrimary, reply.Actions[0].Variant)
	require.Equal(t, map[string]any{"delivery_port": "SGSIN"}, reply.Actions[0].Params)
	require.Equal(t, conversation.ActionOutline, reply.Actions[1].Variant)

	require.Len(t, reply.Cards, 1)
	require.Equal(t, conversation.CardSuggestion, reply.Cards[0].Type)
	require.NotEmpty(t, reply.Message, "content synthesized when the model only calls tools")
}

func TestSendMessage_ContextFoldedIntoPrompt(t *testing.T) {
	llm := &mockLLM{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Content: "ok"},
			}},
		},
	}
	e := New(llm, config.LLMConfig{Model: "gpt-4o"})

	_, err := e.SendMessage(context.Background(), assistant.MessageRequest{
		Message: "what about this vessel?",
		Context: &conversation.Context{Type: conversation.ContextVessel, Data: map[string]any{"imo": "9321483"}},
	})
	require.NoError(t, err)

	system := llm.lastReq.Messages[0]
	require.Equal(t, openai.ChatMessageRoleSystem, system.Role)
	require.Contains(t, system.Content, "vessel")
	require.Contains(t, system.Content, "9321483")
}

func TestSendMessage_UnknownToolSkipped(t *testing.T) {
	llm := &mockLLM{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Content: "done",
					ToolCalls: []openai.ToolCall{{
						ID:       "call_9",
						Type:     openai.ToolTypeFunction,
						Function: openai.FunctionCall{Name: "launch_rocket", Arguments: `{}`},
					}},
				},
			}},
		},
	}
	e := New(llm, config.LLMConfig{Model: "gpt-4o"})

	reply, err := e.SendMessage(context.Background(), assistant.MessageRequest{Message: "hi"})
	require.NoError(t, err)
	require.Empty(t, reply.Actions)
}

func TestSendMessage_LLMError(t *testing.T) {
	e := New(&mockLLM{err: context.DeadlineExceeded}, config.LLMConfig{Model: "gpt-4o"})
	_, err := e.SendMessage(context.Background(), assistant.MessageRequest{Message: "hi"})
	require.Error(t, err)
}

func TestExecuteAction_Unsupported(t *testing.T) {
	e := New(&mockLLM{}, config.LLMConfig{})
	_, err := e.ExecuteAction(context.Background(), assistant.ActionRequest{Action: "create_rfq"})
	require.Error(t, err)
}
