// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/overlaydb"
)

// Stater is the state creator. States made by the same stater share the
// overlay db, the trie node cache and the code size cache.
type Stater struct {
	db                *overlaydb.OverlayDB
	trieDB            *trie.Database
	codeSizes         *CodeSizeCache
	accountStartNonce *big.Int
}

// NewStater create a new stater.
func NewStater(accountStartNonce *big.Int, db *overlaydb.OverlayDB) *Stater {
	return &Stater{
		db:                db,
		trieDB:            trie.NewDatabase(db),
		codeSizes:         NewCodeSizeCache(codeSizeCacheLimit),
		accountStartNonce: accountStartNonce,
	}
}

// SetCodeSizeCache replaces the injected code size cache. Tests use it to
// control cache contents.
func (st *Stater) SetCodeSizeCache(c *CodeSizeCache) {
	st.codeSizes = c
}

// NewState create a state object rooted at the given hash.
func (st *Stater) NewState(root corvus.Bytes32) (*State, error) {
	return newState(st.accountStartNonce, st.db, st.trieDB, st.codeSizes, common.Hash(root))
}

// NewEmptyState create a state object over a freshly initialized empty trie.
func (st *Stater) NewEmptyState() (*State, error) {
	return newState(st.accountStartNonce, st.db, st.trieDB, st.codeSizes, common.Hash{})
}
