// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/corvuschain/corvus/corvus"
)

const codeSizeCacheLimit = 50000

// CodeSizeCache maps code hash to code length, so that reading a contract's
// size does not require loading its bytecode. Entries never go stale because
// the key is the hash of the value they describe.
//
// It is safe for concurrent use by multiple State instances. A process-wide
// instance backs states constructed without an explicit cache; tests inject
// their own through Stater.
type CodeSizeCache struct {
	cache *lru.Cache
}

// NewCodeSizeCache creates a cache bounded to the given number of entries.
func NewCodeSizeCache(limit int) *CodeSizeCache {
	cache, err := lru.New(limit)
	if err != nil {
		panic(err)
	}
	return &CodeSizeCache{cache: cache}
}

// Contains reports whether the size for the given code hash is known.
func (c *CodeSizeCache) Contains(codeHash corvus.Bytes32) bool {
	return c.cache.Contains(codeHash)
}

// Get returns the recorded size for the given code hash.
func (c *CodeSizeCache) Get(codeHash corvus.Bytes32) (int, bool) {
	if v, ok := c.cache.Get(codeHash); ok {
		return v.(int), true
	}
	return 0, false
}

// Store records the size of the code identified by the given hash.
func (c *CodeSizeCache) Store(codeHash corvus.Bytes32, size int) {
	c.cache.Add(codeHash, size)
}

var defaultCodeSizeCache = NewCodeSizeCache(codeSizeCacheLimit)
