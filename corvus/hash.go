// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corvus

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// hasherPool recycles keccak states; state hashing is hot enough that the
// per-call allocation shows up in profiles.
var hasherPool = sync.Pool{
	New: func() interface{} {
		return sha3.NewLegacyKeccak256()
	},
}

// NewKeccak returns a keccak256 hasher.
func NewKeccak() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Keccak256 computes the keccak256 checksum over the concatenation of data.
func Keccak256(data ...[]byte) (h Bytes32) {
	hasher := hasherPool.Get().(hash.Hash)
	hasher.Reset()

	for _, b := range data {
		hasher.Write(b)
	}
	hasher.Sum(h[:0])

	hasherPool.Put(hasher)
	return
}
