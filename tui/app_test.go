package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/conversation"
)

type stubBackend struct{}

func (stubBackend) SendMessage(_ context.Context, req assistant.MessageRequest) (*assistant.Reply, error) {
	return &assistant.Reply{Message: "re: " + req.Message}, nil
}

func (stubBackend) ExecuteAction(_ context.Context, req assistant.ActionRequest) (*assistant.ActionResult, error) {
	return &assistant.ActionResult{Message: "executed " + req.Action}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := conversation.NewStore("test", nil)
	orc := assistant.NewOrchestrator(store, stubBackend{}, nil, nil)
	return NewModel(orc, nil)
}

func TestSubmit_NavigationRoutesByDestination(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("go to invoices")

	updated, cmd := m.submit()
	m = updated.(Model)

	require.Nil(t, cmd)
	require.Equal(t, "/invoices", m.nav.route)
	require.Empty(t, m.input.Value())
}

func TestSubmit_SearchSetsSearchRoute(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("engine oil")

	updated, _ := m.submit()
	m = updated.(Model)

	require.Equal(t, "/search?q=engine oil", m.nav.route)
}

func TestSubmit_ConversationGoesToAssistant(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("What is the status of my order?")

	updated, cmd := m.submit()
	m = updated.(Model)

	require.NotNil(t, cmd)
	require.Equal(t, 1, m.inflight)

	msg := cmd()
	require.IsType(t, assistantDoneMsg{}, msg)

	msgs := m.orc.Store().Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, conversation.RoleUser, msgs[0].Role)
	require.Equal(t, "What is the status of my order?", msgs[0].Content)
	require.Equal(t, "re: What is the status of my order?", msgs[1].Content)
}

func TestParamsFromContext(t *testing.T) {
	p := paramsFromContext(conversation.Context{
		Type: conversation.ContextRFQ,
		Data: map[string]any{
			"delivery_port": "SGSIN",
			"impa_codes":    []any{"550101", "550102"},
			"vessel_id":     "v-9",
		},
	})
	require.Equal(t, "SGSIN", p.DeliveryPort)
	require.Equal(t, []string{"550101", "550102"}, p.IMPACodes)
	require.Equal(t, "v-9", p.VesselID)
	require.True(t, p.Active())

	require.False(t, paramsFromContext(conversation.Context{}).Active())
}
