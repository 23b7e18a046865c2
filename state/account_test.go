// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/lvldb"
	"github.com/corvuschain/corvus/overlaydb"
)

func M(a ...interface{}) []interface{} {
	return a
}

func TestAccountEmpty(t *testing.T) {
	a := newAccount(new(big.Int), new(big.Int), statusUnchanged)
	assert.True(t, a.IsEmpty(), "newly constructed account should be empty")
	assert.True(t, a.IsAlive())
	assert.False(t, a.IsDirty())

	assert.False(t, newAccount(new(big.Int), big.NewInt(1), statusUnchanged).IsEmpty())
	assert.False(t, newAccount(big.NewInt(1), new(big.Int), statusUnchanged).IsEmpty())

	fresh := newAccount(new(big.Int), new(big.Int), statusUnchanged)
	fresh.setFreshCode([]byte{1, 2, 3})
	assert.False(t, fresh.IsEmpty(), "account with pending code should not be empty")
}

func TestAccountLifecycle(t *testing.T) {
	a := newAccount(new(big.Int), new(big.Int), statusUnchanged)

	a.addBalance(big.NewInt(10))
	assert.True(t, a.IsDirty())
	assert.Equal(t, big.NewInt(10), a.Balance())

	a.incNonce()
	assert.Equal(t, big.NewInt(1), a.Nonce())

	a.setStorage(corvus.Bytes32{1}, corvus.Bytes32{2})
	a.setFreshCode([]byte{0xfe})
	assert.True(t, a.CodeBearing())

	a.kill()
	assert.False(t, a.IsAlive())
	assert.True(t, a.IsDirty())
	assert.Equal(t, new(big.Int), a.Balance())
	assert.Equal(t, new(big.Int), a.Nonce())
	assert.False(t, a.CodeBearing())
	assert.Empty(t, a.StorageOverlay())
}

func TestAccountCacheStorageNotDirty(t *testing.T) {
	a := newAccount(new(big.Int), new(big.Int), statusUnchanged)
	a.cacheStorage(corvus.Bytes32{1}, corvus.Bytes32{2})
	assert.False(t, a.IsDirty(), "read-through caching should not dirty the account")
	assert.Equal(t, corvus.Bytes32{2}, a.StorageOverlay()[corvus.Bytes32{1}])
}

func TestAccountCodec(t *testing.T) {
	data, err := encodeAccount(
		big.NewInt(3),
		big.NewInt(100),
		corvus.EmptyTrieRoot,
		corvus.EmptyCodeHash)
	assert.Nil(t, err)

	a, err := decodeAccount(data)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(3), a.Nonce())
	assert.Equal(t, big.NewInt(100), a.Balance())
	assert.Equal(t, corvus.EmptyTrieRoot, a.BaseStorageRoot())
	assert.Equal(t, corvus.EmptyCodeHash, a.CodeHash())
	assert.False(t, a.IsDirty())
}

func TestStorageCodec(t *testing.T) {
	v := corvus.BytesToBytes32([]byte{0x2a})

	raw, err := encodeStorageValue(v)
	assert.Nil(t, err)
	assert.Equal(t, M(decodeStorageValue(raw)), []interface{}{v, nil})

	assert.Equal(t,
		M(decodeStorageValue(nil)),
		[]interface{}{corvus.Bytes32{}, nil},
		"empty leaf should decode to zero")
}

func newTestTrie(t *testing.T) *trie.SecureTrie {
	store, err := lvldb.OpenMem()
	assert.Nil(t, err)
	t.Cleanup(func() { store.Close() })

	tr, err := trie.NewSecure(common.Hash{}, trie.NewDatabase(overlaydb.New(store)), 0)
	assert.Nil(t, err)
	return tr
}

func TestStorageTrie(t *testing.T) {
	tr := newTestTrie(t)

	key := corvus.BytesToBytes32([]byte("key"))
	value := corvus.BytesToBytes32([]byte("value"))

	assert.Nil(t, saveStorage(tr, key, value))
	assert.Equal(t,
		M(loadStorage(tr, key)),
		[]interface{}{value, nil})

	assert.Nil(t, saveStorage(tr, key, corvus.Bytes32{}))
	assert.Equal(t,
		M(tr.TryGet(key[:])),
		[]interface{}{[]byte(nil), nil},
		"zero value should delete the slot")
}
