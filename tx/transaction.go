// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tx defines the transaction, receipt and log types exchanged with
// the executive.
package tx

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/corvuschain/corvus/corvus"
)

// Transaction an account-based transaction as the executive consumes it.
type Transaction struct {
	body body

	cache struct {
		hash *corvus.Bytes32
	}
}

type body struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *corvus.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	Sender   corvus.Address
}

// NewTransaction assembles a transaction.
func NewTransaction(
	nonce uint64,
	gasPrice *big.Int,
	gas uint64,
	to *corvus.Address,
	value *big.Int,
	data []byte,
	sender corvus.Address,
) *Transaction {
	if to != nil {
		cpy := *to
		to = &cpy
	}
	return &Transaction{
		body: body{
			Nonce:    nonce,
			GasPrice: new(big.Int).Set(gasPrice),
			Gas:      gas,
			To:       to,
			Value:    new(big.Int).Set(value),
			Data:     append([]byte(nil), data...),
			Sender:   sender,
		},
	}
}

// Nonce returns the sender-declared nonce.
func (t *Transaction) Nonce() uint64 { return t.body.Nonce }

// GasPrice returns the declared gas price.
func (t *Transaction) GasPrice() *big.Int { return new(big.Int).Set(t.body.GasPrice) }

// Gas returns the gas limit.
func (t *Transaction) Gas() uint64 { return t.body.Gas }

// To returns the recipient, nil for contract creation.
func (t *Transaction) To() *corvus.Address {
	if t.body.To == nil {
		return nil
	}
	cpy := *t.body.To
	return &cpy
}

// Value returns the transferred value.
func (t *Transaction) Value() *big.Int { return new(big.Int).Set(t.body.Value) }

// Data returns the call input or creation bytecode.
func (t *Transaction) Data() []byte { return append([]byte(nil), t.body.Data...) }

// Sender returns the account the transaction originates from.
func (t *Transaction) Sender() corvus.Address { return t.body.Sender }

// IsContractCreation returns whether the transaction creates a contract.
func (t *Transaction) IsContractCreation() bool { return t.body.To == nil }

// Hash returns the transaction hash.
func (t *Transaction) Hash() corvus.Bytes32 {
	if h := t.cache.hash; h != nil {
		return *h
	}
	data, _ := rlp.EncodeToBytes(&t.body)
	h := corvus.Keccak256(data)
	t.cache.hash = &h
	return h
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*t = Transaction{body: b}
	return nil
}
