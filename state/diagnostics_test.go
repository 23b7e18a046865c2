// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/corvus"
)

func TestIsTrieGood(t *testing.T) {
	st := newTestState(t)

	assert.Nil(t, st.AddBalance(addr(1), big.NewInt(10)))
	assert.Nil(t, st.CreateContract(addr(2), false))
	assert.Nil(t, st.SetCode(addr(2), []byte{0xfe}))
	assert.Nil(t, st.SetStorage(addr(2), corvus.Bytes32{1}, corvus.Bytes32{2}))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	// a single committed generation has no leftovers under either mode
	assert.True(t, st.IsTrieGood(false, true))
	assert.True(t, st.IsTrieGood(true, true))

	// a second generation orphans the previous root's nodes
	assert.Nil(t, st.AddBalance(addr(1), big.NewInt(1)))
	_, err = st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	assert.True(t, st.IsTrieGood(true, false))
	assert.False(t, st.IsTrieGood(false, true))
}

func TestParanoia(t *testing.T) {
	st := newTestState(t)

	assert.Nil(t, st.paranoia("disabled", true), "disabled paranoia never fails")

	st.SetParanoid(true)
	assert.Nil(t, st.AddBalance(addr(1), big.NewInt(10)))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)
	assert.Nil(t, st.paranoia("after commit", true))
}

func TestAddresses(t *testing.T) {
	st := newTestState(t)

	_, err := st.Addresses()
	assert.True(t, errors.Is(err, ErrInterfaceNotSupported))

	st.SetFatDB(true)

	assert.Nil(t, st.AddBalance(addr(1), big.NewInt(10)))
	assert.Nil(t, st.AddBalance(addr(2), big.NewInt(20)))
	_, err = st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	// one committed, one pending in cache
	assert.Nil(t, st.AddBalance(addr(3), big.NewInt(30)))

	addrs, err := st.Addresses()
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(10), addrs[addr(1)])
	assert.Equal(t, big.NewInt(20), addrs[addr(2)])
	assert.Equal(t, big.NewInt(30), addrs[addr(3)])
}

func TestPrettyPrint(t *testing.T) {
	st := newTestState(t)
	st.SetFatDB(true)

	assert.Nil(t, st.AddBalance(addr(1), big.NewInt(10))) // plain account
	assert.Nil(t, st.AddBalance(addr(2), big.NewInt(20)))
	assert.Nil(t, st.CreateContract(addr(4), false))
	assert.Nil(t, st.SetCode(addr(4), []byte{0xfe}))
	assert.Nil(t, st.SetStorage(addr(4), corvus.Bytes32{1}, corvus.Bytes32{2}))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	assert.Nil(t, st.AddBalance(addr(2), big.NewInt(1)))  // modified
	assert.Nil(t, st.AddBalance(addr(3), big.NewInt(30))) // new in cache
	assert.Nil(t, st.Kill(addr(1)))                       // killed

	var out strings.Builder
	assert.Nil(t, st.PrettyPrint(&out))
	dump := out.String()

	assert.Contains(t, dump, "XXX  "+addr(1).String())
	assert.Contains(t, dump, " *   "+addr(2).String())
	assert.Contains(t, dump, " +   "+addr(3).String())
	assert.Contains(t, dump, "[SIMPLE]")
	assert.Contains(t, dump, " @:")
}
