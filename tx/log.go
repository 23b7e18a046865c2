// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/corvuschain/corvus/corvus"

// Log a contract event log emitted during execution.
type Log struct {
	// Address the account which emitted the log
	Address corvus.Address
	// Topics indexed arguments
	Topics []corvus.Bytes32
	// Data abi-encoded non-indexed arguments
	Data []byte
}
