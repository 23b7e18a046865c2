// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store surface the state layer runs on.
package kv

// Range bounds iteration to keys in [From, To). A nil bound is open.
type Range struct {
	From []byte
	To   []byte
}

// Reader wraps read access to a store.
//
// Get fails on a missing key; the failure is recognized via IsNotFound.
// Iterate visits entries in key order until fn returns false or the range is
// exhausted; the key/value slices are only valid during the callback.
type Reader interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool

	Iterate(rng Range, fn func(key, value []byte) bool) error
}

// Writer wraps write access to a store.
type Writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	NewBatch() Batch
}

// Batch collects writes to be applied in one atomic Write. Staging never
// fails, so Put and Delete return nothing; errors surface at Write.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)

	Len() int
	Write() error
}

// Store is the full read-write surface of a store.
type Store interface {
	Reader
	Writer
}

// StoreCloser is a store owning resources that must be released.
type StoreCloser interface {
	Store
	Close() error
}
