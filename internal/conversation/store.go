package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/portiq/assist-go/internal/logger"
)

// MaxTranscript caps the in-store transcript. Oldest entries are evicted
// first. This is a display cap only; the archive keeps everything.
const MaxTranscript = 50

// Snapshot is the persisted subset of a session: transcript and session id.
// Context and the processing flag are deliberately excluded — continuity is
// about history, not in-flight UI state.
type Snapshot struct {
	Messages  []Message `json:"messages"`
	SessionID string    `json:"session_id"`
}

// SnapshotSink receives the persisted subset after every transcript change.
type SnapshotSink interface {
	SaveSnapshot(name string, snap Snapshot) error
}

// Store is the single source of truth for one chat session. All operations
// are atomic state transitions that cannot fail; a mutex serializes them so
// concurrent callers see a consistent transcript. Construct one per session
// and inject it where needed.
type Store struct {
	mu         sync.Mutex
	name       string
	messages   []Message
	context    Context
	processing bool
	sessionID  string
	sink       SnapshotSink
	evicted    func(n int)
}

// NewStore creates an empty session store. name keys the persisted snapshot;
// an empty name keys the snapshot by session id instead, so rotating the
// session starts a new record. sink may be nil to disable persistence.
func NewStore(name string, sink SnapshotSink) *Store {
	return &Store{
		name:      name,
		sessionID: uuid.NewString(),
		sink:      sink,
	}
}

// OnEvict registers a callback invoked with the number of messages dropped
// whenever the transcript cap evicts entries.
func (s *Store) OnEvict(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicted = fn
}

// Hydrate restores transcript and session id from a snapshot, typically at
// startup. Context and processing start fresh.
func (s *Store) Hydrate(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.SessionID != "" {
		s.sessionID = snap.SessionID
	}
	s.messages = append([]Message(nil), snap.Messages...)
	if len(s.messages) > MaxTranscript {
		s.messages = s.messages[len(s.messages)-MaxTranscript:]
	}
}

// AddMessage assigns a fresh id and timestamp, appends the message, and
// truncates the transcript to the most recent MaxTranscript entries. Returns
// the stored message.
func (s *Store) AddMessage(msg Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now().UTC()
	s.messages = append(s.messages, msg)
	if over := len(s.messages) - MaxTranscript; over > 0 {
		s.messages = s.messages[over:]
		if s.evicted != nil {
			s.evicted(over)
		}
	}
	s.persistLocked()
	return msg
}

// UpdateContext replaces the context slot wholesale.
func (s *Store) UpdateContext(t ContextType, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = Context{Type: t, Data: data}
}

// ClearContext resets the context slot.
func (s *Store) ClearContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = Context{}
}

// SetProcessing toggles the thinking indicator. Concurrent sends share the
// flag; last write wins.
func (s *Store) SetProcessing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = v
}

// ClearConversation empties the transcript, clears context and processing,
// and issues a new session id.
func (s *Store) ClearConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.context = Context{}
	s.processing = false
	s.sessionID = uuid.NewString()
	s.persistLocked()
}

// Messages returns a copy of the transcript in append order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// SessionID returns the current session identifier.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Context returns the active context slot.
func (s *Store) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// Processing reports whether a send or action is in flight.
func (s *Store) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// persistLocked pushes the snapshot to the sink. Store operations cannot
// fail, so persistence errors are logged and swallowed.
func (s *Store) persistLocked() {
	if s.sink == nil {
		return
	}
	snap := Snapshot{
		Messages:  append([]Message(nil), s.messages...),
		SessionID: s.sessionID,
	}
	key := s.name
	if key == "" {
		key = "session-" + s.sessionID
	}
	if err := s.sink.SaveSnapshot(key, snap); err != nil {
		logger.L.Warn("conversation snapshot save failed", "store", key, "error", err)
	}
}
