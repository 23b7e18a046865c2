// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/corvuschain/corvus/corvus"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// state root right after the tx committed
	StateRoot corvus.Bytes32
	// cumulative gas used in the block up to and including this tx
	GasUsed *big.Int
	// logs produced
	Logs []*Log
}
