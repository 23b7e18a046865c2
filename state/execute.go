// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/tx"
	"github.com/corvuschain/corvus/xenv"
)

// Permanence selects whether an execution's effects survive.
type Permanence int

const (
	// PermanenceCommitted commits the cache into the trie.
	PermanenceCommitted Permanence = iota
	// PermanenceReverted discards the entire cache, leaving the trie
	// untouched.
	PermanenceReverted
)

// OnOpFunc is invoked per VM opcode while the executive runs.
type OnOpFunc func(pc uint64, op byte, gas uint64, depth int)

// ExecutionResult summarizes a transaction execution as reported by the
// executive.
type ExecutionResult struct {
	GasUsed    *big.Int
	GasRefund  *big.Int
	Output     []byte
	NewAddress corvus.Address
	// Excepted carries the VM fault, if any. A fault does not prevent the
	// commit; its effects are captured in the receipt.
	Excepted error
}

// Executive drives the VM over a state. It is an external collaborator; the
// engine only sequences its phases.
type Executive interface {
	// Initialize performs cheap validation of the transaction.
	Initialize(t *tx.Transaction) error
	// Execute runs precompile/short-circuit paths. It reports whether the
	// transaction completed without running the VM.
	Execute() (done bool, err error)
	// Go drives the VM to completion, calling onOp per opcode when non-nil.
	// VM faults are absorbed into Result().Excepted, not returned: the
	// commit still runs and the receipt captures the fault's effects. The
	// returned error is reserved for structural failures.
	Go(onOp OnOpFunc) error
	// Finalize applies suicides, refunds and fee transfers into the state.
	Finalize() error

	GasUsed() *big.Int
	Logs() []*tx.Log
	Result() *ExecutionResult
}

// SealEngine is the consensus engine face the execution wrapper needs:
// chain parameters and an executive bound to state and environment.
type SealEngine interface {
	ChainConfig() *corvus.ForkConfig
	NewExecutive(s *State, env *xenv.EnvInfo) Executive
}

// Execute runs the transaction through the engine's executive and either
// commits or reverts the cache atomically.
//
// With PermanenceReverted the cache is dropped and the trie stays untouched.
// Otherwise the cache commits with empty-account removal from the EIP158
// fork block on.
func (s *State) Execute(
	env *xenv.EnvInfo,
	engine SealEngine,
	t *tx.Transaction,
	p Permanence,
	onOp OnOpFunc,
) (*ExecutionResult, *tx.Receipt, error) {
	if s.vmTrace && onOp == nil {
		onOp = traceOp
	}

	if err := s.paranoia("start of execution", true); err != nil {
		return nil, nil, err
	}

	// The executive throws fairly cheaply and quickly if the transaction is
	// bad in any way.
	e := engine.NewExecutive(s, env)
	if err := e.Initialize(t); err != nil {
		return nil, nil, err
	}

	startGasUsed := new(big.Int)
	if env.GasUsed != nil {
		startGasUsed.Set(env.GasUsed)
	}

	done, err := e.Execute()
	if err != nil {
		return nil, nil, err
	}
	if !done {
		if err := e.Go(onOp); err != nil {
			return nil, nil, err
		}
	}
	if err := e.Finalize(); err != nil {
		return nil, nil, err
	}

	if p == PermanenceReverted {
		s.dropCache()
	} else {
		behaviour := KeepEmptyAccounts
		if cfg := engine.ChainConfig(); cfg != nil && env.Number >= cfg.EIP158Block {
			behaviour = RemoveEmptyAccounts
		}
		if _, err := s.Commit(behaviour); err != nil {
			return nil, nil, err
		}
		if err := s.paranoia("after execution commit", true); err != nil {
			return nil, nil, err
		}
	}

	receipt := &tx.Receipt{
		StateRoot: s.Root(),
		GasUsed:   startGasUsed.Add(startGasUsed, e.GasUsed()),
		Logs:      e.Logs(),
	}
	return e.Result(), receipt, nil
}

// traceOp logs each opcode, the tracing stand-in installed by SetVMTrace.
func traceOp(pc uint64, op byte, gas uint64, depth int) {
	log.Debug("vm op", "pc", pc, "op", op, "gas", gas, "depth", depth)
}
