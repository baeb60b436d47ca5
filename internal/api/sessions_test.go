package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/portiq/assist-go/internal/conversation"
)

// Clearing a session must remove its persisted snapshot; otherwise a later
// request carrying the old session id rehydrates the cleared transcript.
func TestClear_RemovesPersistedSnapshot(t *testing.T) {
	snaps := conversation.NewSnapshotStore(t.TempDir() + "/conv.bolt")
	sm := NewSessionManager(&stubBackend{}, nil, snaps, nil)

	o := sm.Get("")
	o.SendMessage(context.Background(), "pre-clear message")
	oldID := o.Store().SessionID()

	_, found, err := snaps.LoadSnapshot("session-" + oldID)
	require.NoError(t, err)
	require.True(t, found, "snapshot persisted before the clear")

	newID := sm.Clear(oldID)
	require.NotEqual(t, oldID, newID)

	_, found, err = snaps.LoadSnapshot("session-" + oldID)
	require.NoError(t, err)
	require.False(t, found, "old snapshot record deleted by the clear")

	// A fresh manager over the same bolt file must not resurrect the
	// transcript for the old id.
	restarted := NewSessionManager(&stubBackend{}, nil, snaps, nil)
	require.Empty(t, restarted.Get(oldID).Store().Messages())
}

func TestGet_EvictsLeastRecentlyUsedSession(t *testing.T) {
	sm := NewSessionManager(&stubBackend{}, nil, nil, nil)
	sm.maxSessions = 2

	first := sm.Get("").Store().SessionID()
	time.Sleep(time.Millisecond)
	second := sm.Get("").Store().SessionID()
	time.Sleep(time.Millisecond)

	// Touch the first session so the second becomes the eviction candidate.
	sm.Get(first)
	time.Sleep(time.Millisecond)

	third := sm.Get("").Store().SessionID()

	require.Len(t, sm.byID, 2)
	require.Contains(t, sm.byID, first)
	require.Contains(t, sm.byID, third)
	require.NotContains(t, sm.byID, second)
}

func TestGet_ReturnsSameOrchestratorForKnownID(t *testing.T) {
	sm := NewSessionManager(&stubBackend{}, nil, nil, nil)

	o := sm.Get("")
	id := o.Store().SessionID()
	require.Same(t, o, sm.Get(id))
}
