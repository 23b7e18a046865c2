// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/tx"
	"github.com/corvuschain/corvus/xenv"
)

// testExecutive is a stand-in for the EVM driver: it performs a plain value
// transfer and touches the beneficiary.
type testExecutive struct {
	state *State
	env   *xenv.EnvInfo

	t       *tx.Transaction
	logs    []*tx.Log
	opCalls int
}

func (e *testExecutive) Initialize(t *tx.Transaction) error {
	if t.Gas() < 21000 {
		return errors.New("intrinsic gas too low")
	}
	e.t = t
	return nil
}

func (e *testExecutive) Execute() (bool, error) {
	return false, nil
}

func (e *testExecutive) Go(onOp OnOpFunc) error {
	if onOp != nil {
		onOp(0, 0x60, e.t.Gas(), 0)
		e.opCalls++
	}
	sender := e.t.Sender()
	if err := e.state.SubBalance(sender, e.t.Value()); err != nil {
		return err
	}
	if to := e.t.To(); to != nil {
		if err := e.state.AddBalance(*to, e.t.Value()); err != nil {
			return err
		}
	}
	if err := e.state.IncNonce(sender); err != nil {
		return err
	}
	e.logs = append(e.logs, &tx.Log{Address: sender})
	return nil
}

func (e *testExecutive) Finalize() error {
	// zero fee transfer still touches the beneficiary
	return e.state.EnsureAccountExists(e.env.Beneficiary)
}

func (e *testExecutive) GasUsed() *big.Int { return big.NewInt(21000) }

func (e *testExecutive) Logs() []*tx.Log { return e.logs }

func (e *testExecutive) Result() *ExecutionResult {
	return &ExecutionResult{GasUsed: big.NewInt(21000)}
}

type testEngine struct {
	cfg  corvus.ForkConfig
	last *testExecutive
}

func (en *testEngine) ChainConfig() *corvus.ForkConfig { return &en.cfg }

func (en *testEngine) NewExecutive(s *State, env *xenv.EnvInfo) Executive {
	en.last = &testExecutive{state: s, env: env}
	return en.last
}

func newTransfer(from, to corvus.Address, value int64) *tx.Transaction {
	return tx.NewTransaction(0, big.NewInt(1), 21000, &to, big.NewInt(value), nil, from)
}

func TestExecuteCommitted(t *testing.T) {
	st := newTestState(t)

	sender, receiver, beneficiary := addr(1), addr(2), addr(0xbe)
	assert.Nil(t, st.AddBalance(sender, big.NewInt(100)))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	engine := &testEngine{cfg: corvus.ForkConfig{EIP158Block: 100}}
	env := &xenv.EnvInfo{
		Number:      200, // past the fork
		GasUsed:     big.NewInt(1000),
		Beneficiary: beneficiary,
	}

	res, receipt, err := st.Execute(env, engine, newTransfer(sender, receiver, 40), PermanenceCommitted, nil)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(21000), res.GasUsed)

	assert.Equal(t, st.Root(), receipt.StateRoot)
	assert.Equal(t, big.NewInt(22000), receipt.GasUsed)
	assert.Len(t, receipt.Logs, 1)

	assert.Equal(t, M(st.Balance(sender)), []interface{}{big.NewInt(60), nil})
	assert.Equal(t, M(st.Balance(receiver)), []interface{}{big.NewInt(40), nil})
	assert.Equal(t, M(st.GetNonce(sender)), []interface{}{big.NewInt(1), nil})

	// the touched-and-empty beneficiary is reaped past the fork
	assert.Equal(t, M(st.AddressInUse(beneficiary)), []interface{}{false, nil})
}

func TestExecuteKeepsEmptyPreFork(t *testing.T) {
	st := newTestState(t)

	sender, receiver, beneficiary := addr(1), addr(2), addr(0xbe)
	assert.Nil(t, st.AddBalance(sender, big.NewInt(100)))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	engine := &testEngine{cfg: corvus.ForkConfig{EIP158Block: 100}}
	env := &xenv.EnvInfo{
		Number:      50, // before the fork
		GasUsed:     new(big.Int),
		Beneficiary: beneficiary,
	}

	_, _, err = st.Execute(env, engine, newTransfer(sender, receiver, 40), PermanenceCommitted, nil)
	assert.Nil(t, err)

	assert.Equal(t, M(st.AddressInUse(beneficiary)), []interface{}{true, nil})
}

func TestExecuteReverted(t *testing.T) {
	st := newTestState(t)

	sender, receiver := addr(1), addr(2)
	assert.Nil(t, st.AddBalance(sender, big.NewInt(100)))
	root, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	engine := &testEngine{cfg: corvus.NoFork}
	env := &xenv.EnvInfo{Number: 1, GasUsed: new(big.Int)}

	_, receipt, err := st.Execute(env, engine, newTransfer(sender, receiver, 40), PermanenceReverted, nil)
	assert.Nil(t, err)

	assert.Equal(t, root, st.Root())
	assert.Equal(t, root, receipt.StateRoot)
	assert.Equal(t, M(st.Balance(sender)), []interface{}{big.NewInt(100), nil})
	assert.Equal(t, M(st.Balance(receiver)), []interface{}{big.NewInt(0), nil})
}

func TestExecuteInvalidTransaction(t *testing.T) {
	st := newTestState(t)

	sender, receiver := addr(1), addr(2)
	assert.Nil(t, st.AddBalance(sender, big.NewInt(100)))
	root, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	engine := &testEngine{cfg: corvus.NoFork}
	env := &xenv.EnvInfo{Number: 1, GasUsed: new(big.Int)}

	badTx := tx.NewTransaction(0, big.NewInt(1), 100, &receiver, big.NewInt(40), nil, sender)
	_, _, err = st.Execute(env, engine, badTx, PermanenceCommitted, nil)
	assert.NotNil(t, err)
	assert.Equal(t, root, st.Root())
}

func TestExecuteOnOp(t *testing.T) {
	st := newTestState(t)

	sender, receiver := addr(1), addr(2)
	assert.Nil(t, st.AddBalance(sender, big.NewInt(100)))
	_, err := st.Commit(KeepEmptyAccounts)
	assert.Nil(t, err)

	engine := &testEngine{cfg: corvus.NoFork}
	env := &xenv.EnvInfo{Number: 1, GasUsed: new(big.Int)}

	var traced int
	onOp := func(pc uint64, op byte, gas uint64, depth int) {
		traced++
	}
	_, _, err = st.Execute(env, engine, newTransfer(sender, receiver, 1), PermanenceCommitted, onOp)
	assert.Nil(t, err)
	assert.Equal(t, 1, traced)
	assert.Equal(t, 1, engine.last.opCalls)
}
