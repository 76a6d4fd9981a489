// Copyright 2024 The go-gridchain Authors
// This file is part of the go-gridchain library.
//
// The go-gridchain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-gridchain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-gridchain library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"math"
	"testing"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core/rawdb"
	"github.com/gridchain/go-gridchain/core/types"
	"github.com/gridchain/go-gridchain/griddb"
	"github.com/stretchr/testify/require"
)

var (
	agentAddr = common.BytesToAddress([]byte("agent"))
	taskAddr  = common.BytesToAddress([]byte("task"))
	aliceKey  = common.BytesToAddress([]byte("alice"))
)

func newTestState(t *testing.T) (*StateDB, *Database) {
	t.Helper()
	db := NewDatabase(griddb.NewMemoryDatabase())
	return New(db), db
}

// allocSlot mimics the host allocating a zero-filled storage slot before the
// program runs.
func allocSlot(db *Database, addr common.Address, size int) {
	rawdb.AllocateAccount(db.DiskDB(), addr, size)
}

func TestCreateAgent(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)

	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))

	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, aliceKey, agent.Owner)
	require.Equal(t, uint64(0), agent.Credits)
	require.Equal(t, int32(100), agent.Reputation)
	require.Equal(t, uint32(0), agent.TasksCompleted)
	require.Equal(t, types.AgentActive, agent.Status)
}

func TestCreateAgentSlotChecks(t *testing.T) {
	s, db := newTestState(t)

	// No slot at all.
	require.Equal(t, ErrNotExist, s.CreateAgent(agentAddr, aliceKey, 100))

	// Wrong-size slot.
	allocSlot(db, agentAddr, types.AgentSize+1)
	require.Equal(t, ErrAccountAlreadyInitialized, s.CreateAgent(agentAddr, aliceKey, 100))

	// Registering the same slot twice.
	other := common.BytesToAddress([]byte("agent2"))
	allocSlot(db, other, types.AgentSize)
	require.NoError(t, s.CreateAgent(other, aliceKey, 100))
	require.Equal(t, ErrAccountAlreadyInitialized, s.CreateAgent(other, aliceKey, 100))
}

func TestCreditsNeverNegative(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))
	require.NoError(t, s.AddCredits(agentAddr, 500))

	require.Equal(t, ErrInsufficientCredits, s.SubCredits(agentAddr, 501))

	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(500), agent.Credits)
}

func TestCreditsOverflowChecked(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))
	require.NoError(t, s.AddCredits(agentAddr, math.MaxUint64))

	require.Equal(t, ErrOverflow, s.AddCredits(agentAddr, 1))

	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), agent.Credits)
}

func TestReputationSaturates(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, math.MaxInt32-1))

	require.NoError(t, s.AddReputation(agentAddr, 10))
	agent, _ := s.GetAgent(agentAddr)
	require.Equal(t, int32(math.MaxInt32), agent.Reputation)

	require.NoError(t, s.AddReputation(agentAddr, math.MinInt32))
	require.NoError(t, s.AddReputation(agentAddr, math.MinInt32))
	agent, _ = s.GetAgent(agentAddr)
	require.Equal(t, int32(math.MinInt32), agent.Reputation)
}

func TestTasksCompletedCeiling(t *testing.T) {
	s, db := newTestState(t)
	capped := &types.Agent{Owner: aliceKey, TasksCompleted: math.MaxUint32}
	db.WriteRecord(agentAddr, capped.Encode())

	require.NoError(t, s.IncTasksCompleted(agentAddr))
	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint32(math.MaxUint32), agent.TasksCompleted)
}

func TestSnapshotRevert(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	allocSlot(db, taskAddr, types.TaskSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))
	require.NoError(t, s.AddCredits(agentAddr, 1000))

	snap := s.Snapshot()

	require.NoError(t, s.SubCredits(agentAddr, 300))
	require.NoError(t, s.AddReputation(agentAddr, 5))
	require.NoError(t, s.SetAgentStatus(agentAddr, types.AgentSuspended))
	require.NoError(t, s.CreateTask(taskAddr, agentAddr, []byte{1, 2}, 300))
	require.NoError(t, s.SetTaskExecutor(taskAddr, aliceKey))
	require.NoError(t, s.SetTaskStatus(taskAddr, types.TaskExecuting))

	s.RevertToSnapshot(snap)

	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), agent.Credits)
	require.Equal(t, int32(100), agent.Reputation)
	require.Equal(t, types.AgentActive, agent.Status)

	_, err = s.GetTask(taskAddr)
	require.Equal(t, ErrNotExist, err)
}

func TestNestedSnapshots(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))

	outer := s.Snapshot()
	require.NoError(t, s.AddCredits(agentAddr, 100))
	inner := s.Snapshot()
	require.NoError(t, s.AddCredits(agentAddr, 50))

	s.RevertToSnapshot(inner)
	agent, _ := s.GetAgent(agentAddr)
	require.Equal(t, uint64(100), agent.Credits)

	s.RevertToSnapshot(outer)
	agent, _ = s.GetAgent(agentAddr)
	require.Equal(t, uint64(0), agent.Credits)
}

func TestFinalisePersists(t *testing.T) {
	disk := griddb.NewMemoryDatabase()
	db := NewDatabase(disk)
	s := New(db)

	rawdb.AllocateAccount(disk, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))
	require.NoError(t, s.AddCredits(agentAddr, 777))
	s.Finalise()

	// A fresh state over the same database must observe the committed record.
	reloaded := New(NewDatabase(disk))
	agent, err := reloaded.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, aliceKey, agent.Owner)
	require.Equal(t, uint64(777), agent.Credits)
}

func TestGetAgentReturnsCopy(t *testing.T) {
	s, db := newTestState(t)
	allocSlot(db, agentAddr, types.AgentSize)
	require.NoError(t, s.CreateAgent(agentAddr, aliceKey, 100))

	agent, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	agent.Credits = 999999

	fresh, err := s.GetAgent(agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), fresh.Credits)
}

func TestZeroFilledSlotIsNotARecord(t *testing.T) {
	s, db := newTestState(t)
	// An allocated but never registered agent-size slot decodes cleanly yet
	// must not pass for a live agent.
	allocSlot(db, agentAddr, types.AgentSize)
	_, err := s.GetAgent(agentAddr)
	require.Equal(t, ErrNotExist, err)

	allocSlot(db, taskAddr, types.TaskSize)
	_, err = s.GetTask(taskAddr)
	require.Equal(t, ErrNotExist, err)
}

func TestCorruptRecordRejected(t *testing.T) {
	s, db := newTestState(t)
	raw := make([]byte, types.AgentSize)
	copy(raw, aliceKey.Bytes())
	raw[48] = 7 // invalid status byte
	db.WriteRecord(agentAddr, raw)

	_, err := s.GetAgent(agentAddr)
	require.Equal(t, types.ErrCorruptAccount, err)
}
