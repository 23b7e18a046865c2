// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package overlaydb provides a write-back layer in front of the persistent
// key-value store. Mutations are buffered in memory and become durable only
// when Commit is called, which lets the state engine stage a whole block worth
// of trie nodes and code blobs before touching disk.
package overlaydb

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/ethdb"

	"github.com/corvuschain/corvus/kv"
)

var _ ethdb.Database = (*OverlayDB)(nil)

var errNotFound = errors.New("overlaydb: not found")

// entry is a buffered write. The deleted flag marks deletion.
type entry struct {
	value   []byte
	deleted bool
}

// OverlayDB buffers puts and deletes over a persistent kv store.
// Reads consult the overlay first, then fall through to disk.
//
// It satisfies go-ethereum's ethdb.Database, so a trie database can be bound
// directly on top of it. The overlay is single-writer: concurrent readers are
// fine as long as no write is in flight.
type OverlayDB struct {
	store   kv.Store
	closer  func() error
	lock    sync.RWMutex
	overlay map[string]*entry
}

// New wraps the given kv store into an overlay. The store stays owned by the
// caller.
func New(store kv.Store) *OverlayDB {
	return &OverlayDB{
		store:   store,
		overlay: make(map[string]*entry),
	}
}

// NewCloser wraps the given kv store into an overlay that owns it: Close
// closes the store as well.
func NewCloser(store kv.StoreCloser) *OverlayDB {
	return &OverlayDB{
		store:   store,
		closer:  store.Close,
		overlay: make(map[string]*entry),
	}
}

// Get returns the value for the given key, consulting the overlay first.
func (o *OverlayDB) Get(key []byte) ([]byte, error) {
	o.lock.RLock()
	defer o.lock.RUnlock()

	if ent, ok := o.overlay[string(key)]; ok {
		if ent.deleted {
			return nil, errNotFound
		}
		return append([]byte(nil), ent.value...), nil
	}
	return o.store.Get(key)
}

// Has returns whether the given key exists.
func (o *OverlayDB) Has(key []byte) (bool, error) {
	o.lock.RLock()
	defer o.lock.RUnlock()

	if ent, ok := o.overlay[string(key)]; ok {
		return !ent.deleted, nil
	}
	return o.store.Has(key)
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (o *OverlayDB) IsNotFound(err error) bool {
	if err == errNotFound {
		return true
	}
	return o.store.IsNotFound(err)
}

// Put buffers the value for the given key in memory.
func (o *OverlayDB) Put(key, value []byte) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.overlay[string(key)] = &entry{value: append([]byte(nil), value...)}
	return nil
}

// Delete buffers removal of the given key.
func (o *OverlayDB) Delete(key []byte) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.overlay[string(key)] = &entry{deleted: true}
	return nil
}

// Lookup returns the value for the given key, or nil if absent.
// It never returns an error for a missing key.
func (o *OverlayDB) Lookup(key []byte) []byte {
	v, err := o.Get(key)
	if err != nil {
		return nil
	}
	return v
}

// Keys returns the union of buffered and persisted keys, excluding keys
// marked deleted in the overlay. Diagnostic use only.
func (o *OverlayDB) Keys() map[string]struct{} {
	o.lock.RLock()
	defer o.lock.RUnlock()

	keys := make(map[string]struct{})
	o.store.Iterate(kv.Range{}, func(key, _ []byte) bool {
		keys[string(key)] = struct{}{}
		return true
	})
	for k, ent := range o.overlay {
		if ent.deleted {
			delete(keys, k)
		} else {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// Commit flushes all buffered writes to the kv store in a single batch and
// clears the overlay.
func (o *OverlayDB) Commit() error {
	o.lock.Lock()
	defer o.lock.Unlock()

	batch := o.store.NewBatch()
	for k, ent := range o.overlay {
		if ent.deleted {
			batch.Delete([]byte(k))
		} else {
			batch.Put([]byte(k), ent.value)
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	o.overlay = make(map[string]*entry)
	return nil
}

// Discard drops all buffered writes without touching disk.
func (o *OverlayDB) Discard() {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.overlay = make(map[string]*entry)
}

// Close releases the overlay memory and, when the overlay owns the store,
// closes it. Signature fixed by ethdb.Database, so a close failure can only
// be reported through the returned state of later operations.
func (o *OverlayDB) Close() {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.overlay = make(map[string]*entry)
	if o.closer != nil {
		o.closer()
	}
}

// NewBatch creates an ethdb batch whose Write applies the buffered ops into
// the overlay (not to disk).
func (o *OverlayDB) NewBatch() ethdb.Batch {
	return &overlayBatch{db: o}
}

type batchOp struct {
	key     []byte
	value   []byte
	deleted bool
}

type overlayBatch struct {
	db   *OverlayDB
	ops  []batchOp
	size int
}

func (b *overlayBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	b.size += len(value)
	return nil
}

func (b *overlayBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{
		key:     append([]byte(nil), key...),
		deleted: true,
	})
	b.size++
	return nil
}

func (b *overlayBatch) ValueSize() int {
	return b.size
}

func (b *overlayBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, op := range b.ops {
		if op.deleted {
			b.db.overlay[string(op.key)] = &entry{deleted: true}
		} else {
			b.db.overlay[string(op.key)] = &entry{value: op.value}
		}
	}
	return nil
}

func (b *overlayBatch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}
