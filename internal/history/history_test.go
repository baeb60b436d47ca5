package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestArchive_SaveAndList(t *testing.T) {
	a := NewArchive(t.TempDir() + "/history.db")
	defer a.Close()

	now := time.Now().UTC()
	a.Save("s1", "user", "hello", now)
	a.Save("s1", "assistant", "hi there", now.Add(time.Second))
	a.Save("s2", "user", "other session", now)

	got := a.List("s1")
	require.Len(t, got, 2)
	require.Equal(t, "hello", got[0].Content)
	require.Equal(t, "assistant", got[1].Role)

	require.Len(t, a.List("s2"), 1)
	require.Empty(t, a.List("s3"))
}

// Entries that a failed insert rescued to memory must stay readable even
// while sqlite itself is healthy again.
func TestArchive_ListMergesRescuedEntries(t *testing.T) {
	a := NewArchive(t.TempDir() + "/history.db")
	defer a.Close()

	now := time.Now().UTC()
	a.Save("s1", "user", "stored in sqlite", now)

	// What Save does when the insert fails mid-flight.
	a.mu.Lock()
	a.fallback = append(a.fallback, Entry{
		SessionID: "s1",
		Role:      "assistant",
		Content:   "rescued to memory",
		CreatedAt: now.Add(time.Second),
	})
	a.mu.Unlock()

	got := a.List("s1")
	require.Len(t, got, 2)
	require.Equal(t, "stored in sqlite", got[0].Content)
	require.Equal(t, "rescued to memory", got[1].Content)
}

func TestArchive_MemoryFallback(t *testing.T) {
	// A directory path cannot be opened as a database file; exec fails and
	// the archive must keep working in memory.
	a := NewArchive(t.TempDir())
	defer a.Close()

	a.Save("s1", "user", "hello", time.Now())
	got := a.List("s1")
	require.Len(t, got, 1)
	require.Equal(t, "hello", got[0].Content)
}
