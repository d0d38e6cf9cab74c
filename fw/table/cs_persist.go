package table

import (
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/nfdgo/ndnd/fw/core"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// csPersistStore mirrors a Content Store's entries into an embedded
// key-value database, so that statically-published Data (e.g. signed
// router certificates, long-lived published objects) survives a
// forwarder restart instead of requiring the publisher to resend it.
// It is write-through: every Insert/Erase that touches the in-memory
// store is mirrored here before the call returns.
type csPersistStore struct {
	db *badger.DB
}

// openCsPersistStore opens (creating if necessary) a badger database
// rooted at dir.
func openCsPersistStore(dir string) (*csPersistStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &csPersistStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *csPersistStore) Close() error {
	return s.db.Close()
}

// put mirrors one Content Store entry keyed by its full name.
func (s *csPersistStore) put(key string, e *baseCsEntry) error {
	val := make([]byte, 9+len(e.wire.Join()))
	if e.isUnsolicited {
		val[0] = 1
	}
	binary.BigEndian.PutUint64(val[1:9], uint64(e.staleTime.UnixNano()))
	copy(val[9:], e.wire.Join())

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

// delete removes key from the persisted store, if present.
func (s *csPersistStore) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// loadAll replays every persisted entry into fn, skipping ones whose
// freshness has already elapsed. Called once at startup to rehydrate a
// ContentStore before it starts serving Interests.
func (s *csPersistStore) loadAll(fn func(key string, isUnsolicited bool, staleTime time.Time, wire []byte)) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))

			err := item.Value(func(val []byte) error {
				if len(val) < 9 {
					return nil
				}
				isUnsolicited := val[0] == 1
				staleTime := time.Unix(0, int64(binary.BigEndian.Uint64(val[1:9])))
				if time.Now().After(staleTime) {
					return nil
				}
				wire := append([]byte(nil), val[9:]...)
				fn(key, isUnsolicited, staleTime, wire)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// NewPersistentContentStore constructs a Content Store backed by an
// embedded database rooted at dbPath: every admitted Data is mirrored to
// disk, and any still-fresh entries found at dbPath are loaded back in
// before the store starts serving Interests.
func NewPersistentContentStore(capacity int, dbPath string) (*ContentStore, error) {
	store, err := openCsPersistStore(dbPath)
	if err != nil {
		return nil, err
	}

	cs := &ContentStore{
		entries: make(map[string]*baseCsEntry),
		policy:  newPriorityFifoPolicy(capacity),
		persist: store,
	}

	err = store.loadAll(func(key string, isUnsolicited bool, staleTime time.Time, wire []byte) {
		cs.nextIdx++
		e := &baseCsEntry{
			index:         cs.nextIdx,
			staleTime:     staleTime,
			wire:          enc.Wire{enc.Buffer(wire)},
			isUnsolicited: isUnsolicited,
		}
		cs.entries[key] = e
		cs.policy.Insert(e)
	})
	if err != nil {
		core.Log.Warn(cs, "Failed to reload persisted Content Store entries", "err", err)
	}

	return cs, nil
}
