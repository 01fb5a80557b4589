// Package store persists a point-in-time snapshot of a gossip.Engine's
// membership table so a restarted process can seed itself without
// waiting to relearn the cluster from scratch through gossip alone. The
// engine itself has no notion of persistence (spec §1's Non-goals);
// this package is a supplementary collaborator an embedder wires in on
// top of it. It only stores and returns a Snapshot; cmd/swimnode reads
// back just Self from it, and the saved Peers are not fed into an engine.
package store

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"gopkg.in/yaml.v3"

	"github.com/flowmesh/swim/internal/node"
)

// snapshotKey is the single pebble key this package ever writes.
// Membership snapshots are small and whole-table; there is no benefit
// to a richer key scheme until something other than a full Load/Save
// pair needs one.
var snapshotKey = []byte("swim/membership/snapshot")

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("store: no snapshot saved")

// Snapshot is the durable form of an Engine's state: its own view plus
// everything it knew about the rest of the table at SavedAt.
type Snapshot struct {
	Self    node.View
	Peers   []node.View
	SavedAt time.Time
}

// Store wraps a pebble database holding at most one Snapshot.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a pebble database rooted at dir.
func Open(dir string) (*Store, error) {
	return open(dir, vfs.Default)
}

// OpenMem opens an in-memory database, useful for tests and for
// embedders that want persistence-shaped code with no actual disk
// footprint.
func OpenMem() (*Store, error) {
	return open("swim", vfs.NewMem())
}

func open(dir string, fs vfs.FS) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{FS: fs})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble store at %s", dir)
	}
	return &Store{db: db}, nil
}

// Save overwrites the stored snapshot.
func (s *Store) Save(snap Snapshot) error {
	b, err := yaml.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal membership snapshot")
	}
	if err := s.db.Set(snapshotKey, b, pebble.Sync); err != nil {
		return errors.Wrap(err, "write membership snapshot")
	}
	return nil
}

// Load returns the most recently saved snapshot, or ErrNotFound if none
// has been saved.
func (s *Store) Load() (Snapshot, error) {
	b, closer, err := s.db.Get(snapshotKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "read membership snapshot")
	}
	defer closer.Close()

	var snap Snapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, errors.Wrap(err, "unmarshal membership snapshot")
	}
	return snap, nil
}

// Close closes the underlying pebble database.
func (s *Store) Close() error {
	return s.db.Close()
}
