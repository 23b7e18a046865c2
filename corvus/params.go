// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corvus

import "math/big"

// Constants of the chain.
const (
	// DatabaseVersion versions the on-disk layout of the state database.
	// Bumping it relocates the database directory.
	DatabaseVersion = 1
)

var (
	// EmptyCodeHash is the hash of empty contract code. Accounts whose code
	// hash equals this value bear no code.
	EmptyCodeHash = Keccak256(nil)

	// EmptyTrieRoot is the root hash of an empty trie, i.e. the hash of the
	// RLP encoding of the empty string.
	EmptyTrieRoot = Keccak256([]byte{0x80})

	// InitialAccountNonce is the nonce newly created accounts start with on
	// the default chain. Chains may override it per state instance.
	InitialAccountNonce = big.NewInt(0)
)
