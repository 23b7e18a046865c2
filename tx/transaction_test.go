// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/corvus"
)

func TestTransaction(t *testing.T) {
	to := corvus.BytesToAddress([]byte{2})
	trx := NewTransaction(7, big.NewInt(100), 21000, &to, big.NewInt(5), []byte{1, 2}, corvus.BytesToAddress([]byte{1}))

	assert.Equal(t, uint64(7), trx.Nonce())
	assert.Equal(t, big.NewInt(100), trx.GasPrice())
	assert.Equal(t, uint64(21000), trx.Gas())
	assert.Equal(t, &to, trx.To())
	assert.Equal(t, big.NewInt(5), trx.Value())
	assert.Equal(t, []byte{1, 2}, trx.Data())
	assert.False(t, trx.IsContractCreation())

	// hash is stable
	assert.Equal(t, trx.Hash(), trx.Hash())

	creation := NewTransaction(0, big.NewInt(1), 100000, nil, new(big.Int), []byte{0x60}, corvus.BytesToAddress([]byte{1}))
	assert.True(t, creation.IsContractCreation())
	assert.Nil(t, creation.To())
	assert.NotEqual(t, trx.Hash(), creation.Hash())
}

func TestTransactionRLP(t *testing.T) {
	to := corvus.BytesToAddress([]byte{2})
	trx := NewTransaction(7, big.NewInt(100), 21000, &to, big.NewInt(5), []byte{1, 2}, corvus.BytesToAddress([]byte{1}))

	data, err := rlp.EncodeToBytes(trx)
	assert.Nil(t, err)

	var decoded Transaction
	assert.Nil(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, trx.Hash(), decoded.Hash())
	assert.Equal(t, trx.Sender(), decoded.Sender())

	creation := NewTransaction(0, big.NewInt(1), 100000, nil, new(big.Int), nil, corvus.BytesToAddress([]byte{1}))
	data, err = rlp.EncodeToBytes(creation)
	assert.Nil(t, err)
	var decodedCreation Transaction
	assert.Nil(t, rlp.DecodeBytes(data, &decodedCreation))
	assert.True(t, decodedCreation.IsContractCreation())
}
