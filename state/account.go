// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/corvuschain/corvus/corvus"
)

// status tracks where an account sits in its cache life cycle.
type status byte

const (
	// statusUnchanged cached from the trie, never mutated. Eviction candidate.
	statusUnchanged status = iota
	// statusDirty mutated since load, must be written back at commit.
	statusDirty
	// statusConceived a freshly created contract, a dirty variant kept apart
	// so diagnostics can tell creation from mutation.
	statusConceived
	// statusKilled marked for removal from the trie at commit.
	statusKilled
)

// Account is the in-memory representation of one account: basic fields from
// the trie leaf plus the storage/code working set accumulated between
// commits.
type Account struct {
	nonce   *big.Int
	balance *big.Int

	// root of the account's storage trie on disk at load time
	baseStorageRoot corvus.Bytes32
	// cached and/or dirty storage slots; the zero value means deleted
	storageOverlay map[corvus.Bytes32]corvus.Bytes32

	codeHash  corvus.Bytes32
	code      []byte
	codeValid bool // code field reflects codeHash
	freshCode bool // code set in this session, not yet hashed/persisted

	status status
}

func newAccount(nonce, balance *big.Int, s status) *Account {
	return &Account{
		nonce:           new(big.Int).Set(nonce),
		balance:         new(big.Int).Set(balance),
		baseStorageRoot: corvus.EmptyTrieRoot,
		codeHash:        corvus.EmptyCodeHash,
		status:          s,
	}
}

// accountRLP is the trie leaf layout: an ordered 4-tuple.
type accountRLP struct {
	Nonce       *big.Int
	Balance     *big.Int
	StorageRoot []byte
	CodeHash    []byte
}

func decodeAccount(data []byte) (*Account, error) {
	var leaf accountRLP
	if err := rlp.DecodeBytes(data, &leaf); err != nil {
		return nil, err
	}
	return &Account{
		nonce:           leaf.Nonce,
		balance:         leaf.Balance,
		baseStorageRoot: corvus.BytesToBytes32(leaf.StorageRoot),
		codeHash:        corvus.BytesToBytes32(leaf.CodeHash),
		status:          statusUnchanged,
	}, nil
}

func encodeAccount(nonce, balance *big.Int, storageRoot, codeHash corvus.Bytes32) ([]byte, error) {
	return rlp.EncodeToBytes(&accountRLP{
		Nonce:       nonce,
		Balance:     balance,
		StorageRoot: storageRoot[:],
		CodeHash:    codeHash[:],
	})
}

// Nonce returns the account nonce.
func (a *Account) Nonce() *big.Int {
	return new(big.Int).Set(a.nonce)
}

// Balance returns the account balance.
func (a *Account) Balance() *big.Int {
	return new(big.Int).Set(a.balance)
}

// BaseStorageRoot returns the storage root at load time. Pending overlay
// writes are not reflected.
func (a *Account) BaseStorageRoot() corvus.Bytes32 {
	return a.baseStorageRoot
}

// CodeHash returns the persisted code hash. Meaningless while fresh code is
// pending, see IsFreshCode.
func (a *Account) CodeHash() corvus.Bytes32 {
	return a.codeHash
}

// StorageOverlay returns a copy of the cached/dirty storage slots.
func (a *Account) StorageOverlay() map[corvus.Bytes32]corvus.Bytes32 {
	cpy := make(map[corvus.Bytes32]corvus.Bytes32, len(a.storageOverlay))
	for k, v := range a.storageOverlay {
		cpy[k] = v
	}
	return cpy
}

// IsEmpty returns whether the account has zero nonce, zero balance and no code.
func (a *Account) IsEmpty() bool {
	return !a.freshCode &&
		a.nonce.Sign() == 0 &&
		a.balance.Sign() == 0 &&
		a.codeHash == corvus.EmptyCodeHash
}

// IsAlive returns whether the account is not killed.
func (a *Account) IsAlive() bool {
	return a.status != statusKilled
}

// IsDirty returns whether the account must be written back at commit.
func (a *Account) IsDirty() bool {
	return a.status != statusUnchanged
}

// IsFreshCode returns whether code was set in this session and is not yet
// hashed nor persisted.
func (a *Account) IsFreshCode() bool {
	return a.freshCode
}

// CodeBearing returns whether the account has contract code, fresh or
// referenced.
func (a *Account) CodeBearing() bool {
	return a.freshCode || a.codeHash != corvus.EmptyCodeHash
}

func (a *Account) isCodeLoaded() bool {
	return a.freshCode || a.codeValid
}

func (a *Account) touch() {
	if a.status == statusUnchanged {
		a.status = statusDirty
	}
}

func (a *Account) addBalance(delta *big.Int) {
	a.balance = new(big.Int).Add(a.balance, delta)
	a.touch()
}

func (a *Account) subBalance(delta *big.Int) {
	a.balance = new(big.Int).Sub(a.balance, delta)
	a.touch()
}

func (a *Account) incNonce() {
	a.nonce = new(big.Int).Add(a.nonce, big.NewInt(1))
	a.touch()
}

// kill marks the account for removal and zeroes its content.
func (a *Account) kill() {
	a.status = statusKilled
	a.storageOverlay = nil
	a.baseStorageRoot = corvus.EmptyTrieRoot
	a.nonce = new(big.Int)
	a.balance = new(big.Int)
	a.code = nil
	a.codeHash = corvus.EmptyCodeHash
	a.codeValid = false
	a.freshCode = false
}

// setStorage writes the slot into the overlay and marks the account dirty.
func (a *Account) setStorage(key, value corvus.Bytes32) {
	if a.storageOverlay == nil {
		a.storageOverlay = make(map[corvus.Bytes32]corvus.Bytes32)
	}
	a.storageOverlay[key] = value
	a.touch()
}

// cacheStorage populates the overlay with a value read from the trie. It does
// not mark the account dirty.
func (a *Account) cacheStorage(key, value corvus.Bytes32) {
	if a.storageOverlay == nil {
		a.storageOverlay = make(map[corvus.Bytes32]corvus.Bytes32)
	}
	a.storageOverlay[key] = value
}

// noteCode records code loaded for the referenced code hash.
func (a *Account) noteCode(code []byte) {
	a.code = code
	a.codeValid = true
	a.freshCode = false
}

// setFreshCode installs new contract bytecode. The code hash stays unresolved
// until commit.
func (a *Account) setFreshCode(code []byte) {
	a.code = code
	a.codeValid = false
	a.freshCode = true
	a.touch()
}

// copy returns a deep copy of the account.
func (a *Account) copy() *Account {
	cpy := *a
	cpy.nonce = new(big.Int).Set(a.nonce)
	cpy.balance = new(big.Int).Set(a.balance)
	if a.storageOverlay != nil {
		cpy.storageOverlay = make(map[corvus.Bytes32]corvus.Bytes32, len(a.storageOverlay))
		for k, v := range a.storageOverlay {
			cpy.storageOverlay[k] = v
		}
	}
	if a.code != nil {
		cpy.code = append([]byte(nil), a.code...)
	}
	return &cpy
}

// loadStorage load a storage slot from the given storage trie.
func loadStorage(st *trie.SecureTrie, key corvus.Bytes32) (corvus.Bytes32, error) {
	raw, err := st.TryGet(key[:])
	if err != nil {
		return corvus.Bytes32{}, err
	}
	return decodeStorageValue(raw)
}

// saveStorage save a storage slot into the given storage trie.
// A zero value deletes the slot.
func saveStorage(st *trie.SecureTrie, key, value corvus.Bytes32) error {
	if value.IsZero() {
		return st.TryDelete(key[:])
	}
	raw, err := encodeStorageValue(value)
	if err != nil {
		return err
	}
	return st.TryUpdate(key[:], raw)
}

// encodeStorageValue encodes the slot value as the RLP of its minimal
// big-endian form.
func encodeStorageValue(value corvus.Bytes32) ([]byte, error) {
	return rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
}

// decodeStorageValue decodes a storage leaf. Empty input decodes to zero.
func decodeStorageValue(raw []byte) (corvus.Bytes32, error) {
	if len(raw) == 0 {
		return corvus.Bytes32{}, nil
	}
	_, content, _, err := rlp.Split(raw)
	if err != nil {
		return corvus.Bytes32{}, err
	}
	return corvus.BytesToBytes32(content), nil
}
