package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddMessage_CapsTranscriptAtFifty(t *testing.T) {
	s := NewStore("test", nil)

	for i := 0; i < 60; i++ {
		s.AddMessage(Message{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})
	}

	msgs := s.Messages()
	require.Len(t, msgs, MaxTranscript)
	require.Equal(t, "msg-10", msgs[0].Content, "earliest ten evicted")
	require.Equal(t, "msg-59", msgs[len(msgs)-1].Content)
}

func TestAddMessage_AssignsIDAndTimestamp(t *testing.T) {
	s := NewStore("test", nil)

	a := s.AddMessage(Message{Role: RoleUser, Content: "a"})
	b := s.AddMessage(Message{Role: RoleAssistant, Content: "b"})

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.Timestamp.IsZero())
}

func TestClearConversation_ResetsEverything(t *testing.T) {
	s := NewStore("test", nil)
	s.AddMessage(Message{Role: RoleUser, Content: "hello"})
	s.UpdateContext(ContextVessel, map[string]any{"imo": "9321483"})
	s.SetProcessing(true)
	prior := s.SessionID()

	s.ClearConversation()

	require.Empty(t, s.Messages())
	require.True(t, s.Context().IsZero())
	require.False(t, s.Processing())
	require.NotEqual(t, prior, s.SessionID())
}

func TestUpdateContext_ReplacesWholesale(t *testing.T) {
	s := NewStore("test", nil)
	s.UpdateContext(ContextRFQ, map[string]any{"rfq_id": "r-1", "port": "SGSIN"})
	s.UpdateContext(ContextOrder, map[string]any{"order_id": "o-9"})

	ctx := s.Context()
	require.Equal(t, ContextOrder, ctx.Type)
	require.Equal(t, map[string]any{"order_id": "o-9"}, ctx.Data, "no partial merge")

	s.ClearContext()
	require.True(t, s.Context().IsZero())
}

func TestOnEvict_CountsDroppedMessages(t *testing.T) {
	s := NewStore("test", nil)
	total := 0
	s.OnEvict(func(n int) { total += n })

	for i := 0; i < MaxTranscript+7; i++ {
		s.AddMessage(Message{Role: RoleUser, Content: "x"})
	}
	require.Equal(t, 7, total)
}

func TestHydrate_RestoresMessagesAndSession(t *testing.T) {
	s := NewStore("test", nil)
	s.Hydrate(Snapshot{
		SessionID: "session-123",
		Messages:  []Message{{ID: "m1", Role: RoleUser, Content: "hi"}},
	})

	require.Equal(t, "session-123", s.SessionID())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "hi", msgs[0].Content)
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/conv.bolt"
	sink := NewSnapshotStore(path)

	s := NewStore("portiq-conversation", sink)
	s.AddMessage(Message{Role: RoleUser, Content: "persist me"})
	sid := s.SessionID()

	snap, found, err := sink.LoadSnapshot("portiq-conversation")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, sid, snap.SessionID)
	require.Len(t, snap.Messages, 1)
	require.Equal(t, "persist me", snap.Messages[0].Content)

	// A reloaded store continues the same session.
	restored := NewStore("portiq-conversation", sink)
	restored.Hydrate(snap)
	require.Equal(t, sid, restored.SessionID())
}

func TestSnapshotStore_MissingRecord(t *testing.T) {
	sink := NewSnapshotStore(t.TempDir() + "/conv.bolt")
	_, found, err := sink.LoadSnapshot("nope")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCard_VariantUnknownFallback(t *testing.T) {
	require.Equal(t, CardQuoteComparison, Card{Type: CardQuoteComparison}.Variant())
	require.Equal(t, CardUnknown, Card{Type: "hologram"}.Variant())
	// The wire type string is preserved for raw display.
	require.Equal(t, CardType("hologram"), Card{Type: "hologram"}.Type)
}
