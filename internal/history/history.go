// Package history archives every chat message across sessions in SQLite.
// Unlike the session store's 50-entry transcript cap, the archive is
// unbounded. If opening the DB or executing queries fails, the archive
// falls back to in-memory storage so chat flows keep working.
package history

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/portiq/assist-go/internal/logger"
)

// Entry is one archived message row.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive persists entries in SQLite with an in-memory fallback.
type Archive struct {
	mu       sync.Mutex
	fallback []Entry

	db      *sql.DB
	initErr error
}

// NewArchive opens (or creates) the archive database at path. A returned
// Archive is always usable: on open failure it runs memory-only.
func NewArchive(path string) *Archive {
	a := &Archive{}
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000&_fk=1")
	if err != nil {
		a.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory archive", "error", err)
		return a
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT,
        role TEXT,
        content TEXT,
        created_at DATETIME
    );`); err != nil {
		a.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory archive", "error", err)
		return a
	}
	a.db = db
	return a
}

// Save archives a message. Failures fall back to memory and are logged; the
// caller's chat flow must not be interrupted by archival problems.
func (a *Archive) Save(sessionID string, role, content string, at time.Time) {
	e := Entry{SessionID: sessionID, Role: role, Content: content, CreatedAt: at}

	if a.initErr == nil && a.db != nil {
		_, err := a.db.Exec(
			`INSERT INTO messages (session_id, role, content, created_at) VALUES (?,?,?,?);`,
			e.SessionID, e.Role, e.Content, e.CreatedAt,
		)
		if err == nil {
			return
		}
		logger.L.Error("failed to archive message in sqlite; falling back to memory", "error", err)
	}

	a.mu.Lock()
	a.fallback = append(a.fallback, e)
	a.mu.Unlock()
}

// List returns all archived messages of a session in chronological order.
// The fallback slice is always merged in: entries rescued to memory by a
// failed insert stay readable even after sqlite recovers.
func (a *Archive) List(sessionID string) []Entry {
	var out []Entry
	if a.initErr == nil && a.db != nil {
		rows, err := a.db.Query(
			`SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY id ASC;`,
			sessionID,
		)
		if err == nil {
			for rows.Next() {
				var e Entry
				if err := rows.Scan(&e.ID, &e.SessionID, &e.Role, &e.Content, &e.CreatedAt); err == nil {
					out = append(out, e)
				}
			}
			rows.Close()
		} else {
			logger.L.Warn("sqlite query failed; reading in-memory archive", "error", err)
		}
	}

	a.mu.Lock()
	for _, e := range a.fallback {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	a.mu.Unlock()
	return out
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
