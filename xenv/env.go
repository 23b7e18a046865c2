// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xenv provides the block environment transaction execution runs in.
package xenv

import (
	"math/big"

	"github.com/corvuschain/corvus/corvus"
)

// EnvInfo the block environment for one execution.
type EnvInfo struct {
	// Number the block number being built
	Number uint64
	// Time the block timestamp
	Time uint64
	// GasLimit the block gas limit
	GasLimit uint64
	// GasUsed gas consumed in the block before this transaction
	GasUsed *big.Int
	// Beneficiary receives the fees
	Beneficiary corvus.Address
}
