package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const snapshotBucket = "conversations"

// SnapshotStore persists session snapshots in a single BoltDB file, one
// record per store name. The file is opened per operation so concurrent
// short-lived writers do not hold the handle.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore returns a store backed by the bolt file at path. The
// parent directory is created on first use.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (p *SnapshotStore) open() (*bolt.DB, error) {
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return bolt.Open(p.path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
}

// SaveSnapshot writes the snapshot for name, replacing any previous record.
func (p *SnapshotStore) SaveSnapshot(name string, snap Snapshot) error {
	db, err := p.open()
	if err != nil {
		return fmt.Errorf("open snapshot db: %w", err)
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		if err != nil {
			return err
		}
		enc, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), enc)
	})
}

// LoadSnapshot reads the snapshot for name. The second return value is false
// when no record exists. Malformed records are treated as absent rather than
// failing the load.
func (p *SnapshotStore) LoadSnapshot(name string) (Snapshot, bool, error) {
	db, err := p.open()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("open snapshot db: %w", err)
	}
	defer func() { _ = db.Close() }()

	var snap Snapshot
	found := false
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucket))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(name))
		if len(v) == 0 {
			return nil
		}
		if e := json.Unmarshal(v, &snap); e != nil {
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

// DeleteSnapshot removes the record for name, if present.
func (p *SnapshotStore) DeleteSnapshot(name string) error {
	db, err := p.open()
	if err != nil {
		return fmt.Errorf("open snapshot db: %w", err)
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}
