// Package store persists generated heightmaps in a LevelDB database, keyed by
// a digest of the parameters that produced them. Identical generation
// requests become cache hits instead of recomputation.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brentp/intintmap"
	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/storage"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/terraforge/engine/terra/terrain"
)

// ErrNotFound is returned when no heightmap is stored under a key.
var ErrNotFound = errors.New("store: heightmap not found")

// Key prefixes inside the database. Heightmap records sit under 'h' followed
// by the 8-byte big-endian content key; tags sit under 't' followed by the
// tag name, holding the 8-byte content key they point at.
const (
	prefixHeightmap = 'h'
	prefixTag       = 't'
)

// Store is a durable heightmap cache. It keeps an in-memory presence index
// so existence checks and size queries never touch disk. Safe for concurrent
// use.
type Store struct {
	log *slog.Logger
	db  *leveldb.DB

	mu sync.RWMutex
	// index maps content key to cell count for every stored record.
	index *intintmap.Map
	// tags maps the fnv1a hash of a tag name to the content key it points at.
	tags *intintmap.Map
}

// Open opens the store at the path passed, creating it if needed. An empty
// path opens an in-memory store that is discarded on Close; tests and
// cache-less runs use it.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	s := &Store{
		log:   log.With("component", "store"),
		db:    db,
		index: intintmap.New(1024, 0.6),
		tags:  intintmap.New(64, 0.6),
	}
	if err := s.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// rebuildIndex scans the database once at open so presence checks are served
// from memory afterwards.
func (s *Store) rebuildIndex() error {
	it := s.db.NewIterator(nil, nil)
	defer it.Release()
	records := 0
	for it.Next() {
		k := it.Key()
		if len(k) == 0 {
			continue
		}
		switch k[0] {
		case prefixHeightmap:
			if len(k) != 9 {
				continue
			}
			cells := (len(it.Value()) - recordHeaderLen) / 8
			s.index.Put(int64(binary.BigEndian.Uint64(k[1:])), int64(cells))
			records++
		case prefixTag:
			if len(it.Value()) != 8 {
				continue
			}
			s.tags.Put(int64(fnv1a.HashString64(string(k[1:]))), int64(binary.BigEndian.Uint64(it.Value())))
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("store: scanning database: %w", err)
	}
	if records > 0 {
		s.log.Debug("rebuilt heightmap index", "records", records)
	}
	return nil
}

// Put stores a heightmap under the content key passed, replacing any previous
// record for that key.
func (s *Store) Put(key uint64, m terrain.Heightmap, width, height int) error {
	if err := m.Check(width, height); err != nil {
		return err
	}
	if err := s.db.Put(recordKey(key), encodeRecord(m, width, height), nil); err != nil {
		return fmt.Errorf("store: writing heightmap %x: %w", key, err)
	}
	s.mu.Lock()
	s.index.Put(int64(key), int64(len(m)))
	s.mu.Unlock()
	return nil
}

// Get loads a heightmap and its dimensions by content key.
func (s *Store) Get(key uint64) (terrain.Heightmap, int, int, error) {
	buf, err := s.db.Get(recordKey(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, 0, 0, ErrNotFound
	case err != nil:
		return nil, 0, 0, fmt.Errorf("store: reading heightmap %x: %w", key, err)
	}
	return decodeRecord(buf)
}

// Has reports whether a record exists for the key, without touching disk.
func (s *Store) Has(key uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index.Get(int64(key))
	return ok
}

// Cells returns the stored cell count for the key, or 0 if absent.
func (s *Store) Cells(key uint64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.index.Get(int64(key)); ok {
		return int(n)
	}
	return 0
}

// Tag points a stable name, such as a preset or share label, at a content
// key. Existing tags are overwritten.
func (s *Store) Tag(name string, key uint64) error {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], key)
	if err := s.db.Put(tagKey(name), val[:], nil); err != nil {
		return fmt.Errorf("store: writing tag %q: %w", name, err)
	}
	s.mu.Lock()
	s.tags.Put(int64(fnv1a.HashString64(name)), int64(key))
	s.mu.Unlock()
	return nil
}

// Lookup resolves a tag name to its content key. The in-memory index only
// keys by hash, so it serves as a negative check; the key itself is read from
// the tag record stored under the full name.
func (s *Store) Lookup(name string) (uint64, bool) {
	s.mu.RLock()
	_, ok := s.tags.Get(int64(fnv1a.HashString64(name)))
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}
	buf, err := s.db.Get(tagKey(name), nil)
	if err != nil || len(buf) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(buf), true
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(key uint64) []byte {
	k := make([]byte, 9)
	k[0] = prefixHeightmap
	binary.BigEndian.PutUint64(k[1:], key)
	return k
}

func tagKey(name string) []byte {
	return append([]byte{prefixTag}, name...)
}
