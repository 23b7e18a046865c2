// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corvus

import (
	"fmt"
	"math"
	"strings"
)

// ForkConfig config for a fork.
type ForkConfig struct {
	// EIP158Block is the block number from which touched-and-empty accounts
	// are pruned from the state trie on commit.
	EIP158Block uint64
}

func (fc ForkConfig) String() string {
	var strs []string
	push := func(name string, blockNum uint64) {
		if blockNum != math.MaxUint64 {
			strs = append(strs, fmt.Sprintf("%v: #%v", name, blockNum))
		}
	}

	push("EIP158", fc.EIP158Block)

	return strings.Join(strs, ", ")
}

// NoFork a special config without any forks.
var NoFork = ForkConfig{
	EIP158Block: math.MaxUint64,
}

// forkConfigs for well-known networks, keyed by genesis ID.
var forkConfigs = map[Bytes32]ForkConfig{}

// GetForkConfig get fork config for given genesis ID.
// The zero value is returned for unknown networks.
func GetForkConfig(genesisID Bytes32) ForkConfig {
	return forkConfigs[genesisID]
}

// SetCustomNetForkConfig set the fork config for the given genesis ID.
func SetCustomNetForkConfig(genesisID Bytes32, f ForkConfig) error {
	if _, ok := forkConfigs[genesisID]; ok {
		return fmt.Errorf("fork config for %v already set", genesisID.AbbrevString())
	}
	forkConfigs[genesisID] = f
	return nil
}
