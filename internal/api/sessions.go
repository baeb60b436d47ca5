package api

import (
	"sync"
	"time"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/history"
	"github.com/portiq/assist-go/internal/logger"
	"github.com/portiq/assist-go/internal/metrics"
)

// defaultMaxSessions bounds the in-memory session map. Evicted sessions are
// not lost: their transcripts live in the snapshot store and rehydrate on the
// next request carrying the session id.
const defaultMaxSessions = 1024

type sessionEntry struct {
	orc      *assistant.Orchestrator
	lastUsed time.Time
}

// SessionManager hands out one orchestrator per conversation session.
// Unknown or empty session ids get a fresh session; ids seen before (in
// memory or in the snapshot store) continue where they left off.
type SessionManager struct {
	mu          sync.Mutex
	backend     assistant.Backend
	archive     *history.Archive
	snapshots   *conversation.SnapshotStore
	m           *metrics.Metrics
	maxSessions int
	byID        map[string]*sessionEntry
}

// NewSessionManager creates a SessionManager. archive, snapshots and m may
// be nil.
func NewSessionManager(backend assistant.Backend, archive *history.Archive, snapshots *conversation.SnapshotStore, m *metrics.Metrics) *SessionManager {
	return &SessionManager{
		backend:     backend,
		archive:     archive,
		snapshots:   snapshots,
		m:           m,
		maxSessions: defaultMaxSessions,
		byID:        make(map[string]*sessionEntry),
	}
}

// Get returns the orchestrator for sessionID, hydrating from the snapshot
// store or creating a fresh session as needed.
func (sm *SessionManager) Get(sessionID string) *assistant.Orchestrator {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sessionID != "" {
		if e, ok := sm.byID[sessionID]; ok {
			e.lastUsed = time.Now()
			return e.orc
		}
	}

	var sink conversation.SnapshotSink
	if sm.snapshots != nil {
		sink = sm.snapshots
	}
	// An empty store name keys snapshots by session id, so every session
	// gets its own record and Clear starts a fresh one.
	store := conversation.NewStore("", sink)

	if sessionID != "" && sm.snapshots != nil {
		snap, found, err := sm.snapshots.LoadSnapshot("session-" + sessionID)
		if err != nil {
			logger.L.Warn("snapshot load failed", "session_id", sessionID, "error", err)
		} else if found && snap.SessionID == sessionID {
			store.Hydrate(snap)
		}
	}

	o := assistant.NewOrchestrator(store, sm.backend, sm.archive, sm.m)
	sm.byID[store.SessionID()] = &sessionEntry{orc: o, lastUsed: time.Now()}
	sm.evictLocked()
	sm.updateGaugeLocked()
	return o
}

// Clear empties the session's conversation, deletes its persisted snapshot,
// and re-registers the orchestrator under the rotated session id. Returns
// the new id.
func (sm *SessionManager) Clear(sessionID string) string {
	o := sm.Get(sessionID)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	oldID := o.Store().SessionID()
	delete(sm.byID, oldID)
	o.Clear()
	if sm.snapshots != nil {
		// Without this, a later request carrying the old id would
		// rehydrate the cleared transcript.
		if err := sm.snapshots.DeleteSnapshot("session-" + oldID); err != nil {
			logger.L.Warn("snapshot delete failed", "session_id", oldID, "error", err)
		}
	}
	newID := o.Store().SessionID()
	sm.byID[newID] = &sessionEntry{orc: o, lastUsed: time.Now()}
	sm.updateGaugeLocked()
	return newID
}

// evictLocked drops the least recently used sessions once the map exceeds
// its cap. Snapshot-backed sessions rehydrate on their next request; only
// in-flight context and the processing flag are in-memory-only.
func (sm *SessionManager) evictLocked() {
	for len(sm.byID) > sm.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, e := range sm.byID {
			if oldestID == "" || e.lastUsed.Before(oldest) {
				oldestID = id
				oldest = e.lastUsed
			}
		}
		delete(sm.byID, oldestID)
	}
}

func (sm *SessionManager) updateGaugeLocked() {
	if sm.m != nil {
		sm.m.SessionsActive.Set(float64(len(sm.byID)))
	}
}
