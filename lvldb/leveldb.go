// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the kv interfaces with goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/corvuschain/corvus/kv"
)

var _ kv.StoreCloser = (*Store)(nil)

// Options tunes a store instance. The zero value picks sane defaults.
type Options struct {
	// CacheMB memory budget in MiB, split between the block cache and the
	// write buffers.
	CacheMB int
	// OpenFiles capacity of the file descriptor cache.
	OpenFiles int
}

const (
	minCacheMB   = 16
	minOpenFiles = 16
	// bitsPerKey of the bloom filter consulted before touching tables.
	bitsPerKey = 10
)

func (o Options) withDefaults() Options {
	if o.CacheMB < minCacheMB {
		o.CacheMB = minCacheMB
	}
	if o.OpenFiles < minOpenFiles {
		o.OpenFiles = minOpenFiles
	}
	return o
}

// Store is a goleveldb-backed kv store.
type Store struct {
	db   *leveldb.DB
	path string
}

// Open opens the store at path, creating it when missing.
func Open(path string, opts Options) (*Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.WithMessagef(err, "lvldb: open storage %q", path)
	}
	s, err := open(stg, opts)
	if err != nil {
		stg.Close()
		return nil, errors.WithMessagef(err, "lvldb: open %q", path)
	}
	s.path = path
	return s, nil
}

// OpenMem opens an in-memory store, for tests.
func OpenMem() (*Store, error) {
	s, err := open(storage.NewMemStorage(), Options{})
	if err != nil {
		return nil, errors.WithMessage(err, "lvldb: open mem")
	}
	return s, nil
}

func open(stg storage.Storage, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFiles,
		BlockCacheCapacity:     opts.CacheMB / 2 * opt.MiB,
		WriteBuffer:            opts.CacheMB / 4 * opt.MiB, // two write buffers are in flight internally
		Filter:                 filter.NewBloomFilter(bitsPerKey),
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Path returns the on-disk location, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for the given key. Missing keys fail with an error
// recognized by IsNotFound.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Has returns whether a key exists.
func (s *Store) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// IsNotFound recognizes the missing-key error returned by Get.
func (s *Store) IsNotFound(err error) bool {
	return errors.Cause(err) == leveldb.ErrNotFound
}

// Iterate visits entries within rng in key order until fn returns false.
func (s *Store) Iterate(rng kv.Range, fn func(key, value []byte) bool) error {
	it := s.db.NewIterator(&util.Range{Start: rng.From, Limit: rng.To}, nil)
	defer it.Release()

	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

// Put saves the value for the given key.
func (s *Store) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete removes the given key and its value.
func (s *Store) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// NewBatch creates a batch of writes applied atomically at Write.
func (s *Store) NewBatch() kv.Batch {
	return &batch{db: s.db}
}

// Close releases the store. Later operations all fail.
func (s *Store) Close() error {
	return s.db.Close()
}

type batch struct {
	db *leveldb.DB
	b  leveldb.Batch
}

func (b *batch) Put(key, value []byte) {
	b.b.Put(key, value)
}

func (b *batch) Delete(key []byte) {
	b.b.Delete(key)
}

func (b *batch) Len() int {
	return b.b.Len()
}

func (b *batch) Write() error {
	if b.b.Len() == 0 {
		return nil
	}
	if err := b.db.Write(&b.b, nil); err != nil {
		return errors.WithMessage(err, "lvldb: write batch")
	}
	b.b.Reset()
	return nil
}
