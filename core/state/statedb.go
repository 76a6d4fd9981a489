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

// Package state provides the journaled account state the compute engine
// mutates. All modifications go through the journal so that a failing
// instruction can be reverted without a trace; Finalise persists the surviving
// changes in one batch.
package state

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core/types"
)

var (
	// ErrInsufficientCredits is returned when a debit exceeds the agent's
	// spendable balance. Balances never go negative.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrOverflow is returned when a credit operation would wrap the 64-bit
	// balance. Arithmetic is checked, never wrapping.
	ErrOverflow = errors.New("credit balance overflow")

	// ErrAccountAlreadyInitialized is returned when record creation targets a
	// storage slot that is not fresh: wrong size or already written.
	ErrAccountAlreadyInitialized = errors.New("account already initialized")

	// ErrNotExist is returned when an operation references a storage slot
	// that holds no initialized record.
	ErrNotExist = errors.New("account record does not exist")
)

// revision is an identified point in the journal, for Snapshot/RevertToSnapshot.
type revision struct {
	id           int
	journalIndex int
}

// StateDB holds the decoded account records touched by the current
// invocation. The backing store owns the raw buffers; the StateDB only sees a
// consistent snapshot of them and commits all mutations atomically on
// Finalise, or none when reverted.
type StateDB struct {
	db *Database

	// Live records, decoded on first touch.
	agents map[common.Address]*types.Agent
	tasks  map[common.Address]*types.Task

	// Journal of state modifications. This is the backbone of
	// Snapshot and RevertToSnapshot.
	journal        *journal
	validRevisions []revision
	nextRevisionId int
}

// New creates a state over the given account database.
func New(db *Database) *StateDB {
	return &StateDB{
		db:      db,
		agents:  make(map[common.Address]*types.Agent),
		tasks:   make(map[common.Address]*types.Task),
		journal: newJournal(),
	}
}

// getAgent returns the live agent record for addr, loading and decoding it
// from the backing store on first touch. A missing slot or a slot that was
// never registered (zero owner) yields ErrNotExist.
func (s *StateDB) getAgent(addr common.Address) (*types.Agent, error) {
	if agent, ok := s.agents[addr]; ok {
		return agent, nil
	}
	raw, err := s.db.ReadRecord(addr)
	if err != nil {
		return nil, ErrNotExist
	}
	agent, err := types.DecodeAgent(raw)
	if err != nil {
		return nil, err
	}
	if agent.Owner.IsZero() {
		return nil, ErrNotExist
	}
	s.agents[addr] = agent
	return agent, nil
}

// getTask returns the live task record for addr, loading and decoding it from
// the backing store on first touch.
func (s *StateDB) getTask(addr common.Address) (*types.Task, error) {
	if task, ok := s.tasks[addr]; ok {
		return task, nil
	}
	raw, err := s.db.ReadRecord(addr)
	if err != nil {
		return nil, ErrNotExist
	}
	task, err := types.DecodeTask(raw)
	if err != nil {
		return nil, err
	}
	if task.Requester.IsZero() {
		return nil, ErrNotExist
	}
	s.tasks[addr] = task
	return task, nil
}

// GetAgent returns a copy of the agent record at addr.
func (s *StateDB) GetAgent(addr common.Address) (*types.Agent, error) {
	agent, err := s.getAgent(addr)
	if err != nil {
		return nil, err
	}
	return agent.Copy(), nil
}

// GetTask returns a copy of the task record at addr.
func (s *StateDB) GetTask(addr common.Address) (*types.Task, error) {
	task, err := s.getTask(addr)
	if err != nil {
		return nil, err
	}
	return task.Copy(), nil
}

// checkFreshSlot verifies that the storage slot at addr was allocated by the
// host with exactly the wanted size and never written.
func (s *StateDB) checkFreshSlot(addr common.Address, size int) error {
	if _, ok := s.agents[addr]; ok {
		return ErrAccountAlreadyInitialized
	}
	if _, ok := s.tasks[addr]; ok {
		return ErrAccountAlreadyInitialized
	}
	raw, err := s.db.ReadRecord(addr)
	if err != nil {
		return ErrNotExist
	}
	if len(raw) != size || !common.IsZeroFilled(raw) {
		return ErrAccountAlreadyInitialized
	}
	return nil
}

// CreateAgent initializes a fresh agent record in the zero-filled slot at
// addr. The slot must be exactly types.AgentSize bytes.
func (s *StateDB) CreateAgent(addr, owner common.Address, neutralReputation int32) error {
	if err := s.checkFreshSlot(addr, types.AgentSize); err != nil {
		return err
	}
	s.journal.append(createAgentChange{account: &addr})
	s.agents[addr] = &types.Agent{
		Owner:      owner,
		Reputation: neutralReputation,
		Status:     types.AgentActive,
	}
	return nil
}

// CreateTask initializes a fresh task record in the zero-filled slot at addr.
// The slot must be exactly types.TaskSize bytes. The escrowed price is the
// caller's business; CreateTask only writes the record.
func (s *StateDB) CreateTask(addr, requester common.Address, requirements []byte, price uint64) error {
	if err := s.checkFreshSlot(addr, types.TaskSize); err != nil {
		return err
	}
	s.journal.append(createTaskChange{account: &addr})
	s.tasks[addr] = &types.Task{
		Requester:    requester,
		Requirements: common.CopyBytes(requirements),
		Price:        price,
		Status:       types.TaskCreated,
	}
	return nil
}

// AddCredits increases the agent's balance, failing with ErrOverflow instead
// of wrapping. This is the single most safety-critical path of the engine.
func (s *StateDB) AddCredits(addr common.Address, amount uint64) error {
	agent, err := s.getAgent(addr)
	if err != nil {
		return err
	}
	if agent.Credits > math.MaxUint64-amount {
		return ErrOverflow
	}
	s.journal.append(creditsChange{account: &addr, prev: agent.Credits})
	agent.Credits += amount
	return nil
}

// SubCredits decreases the agent's balance, failing with
// ErrInsufficientCredits if the balance would go negative.
func (s *StateDB) SubCredits(addr common.Address, amount uint64) error {
	agent, err := s.getAgent(addr)
	if err != nil {
		return err
	}
	if agent.Credits < amount {
		return ErrInsufficientCredits
	}
	s.journal.append(creditsChange{account: &addr, prev: agent.Credits})
	agent.Credits -= amount
	return nil
}

// SetAgentStatus updates the agent's lifecycle status.
func (s *StateDB) SetAgentStatus(addr common.Address, status types.AgentStatus) error {
	agent, err := s.getAgent(addr)
	if err != nil {
		return err
	}
	if agent.Status == status {
		return nil
	}
	s.journal.append(agentStatusChange{account: &addr, prev: agent.Status})
	agent.Status = status
	return nil
}

// AddReputation adjusts the agent's reputation by delta, saturating at the
// int32 bounds rather than wrapping.
func (s *StateDB) AddReputation(addr common.Address, delta int32) error {
	agent, err := s.getAgent(addr)
	if err != nil {
		return err
	}
	sum := int64(agent.Reputation) + int64(delta)
	if sum > math.MaxInt32 {
		sum = math.MaxInt32
	} else if sum < math.MinInt32 {
		sum = math.MinInt32
	}
	s.journal.append(reputationChange{account: &addr, prev: agent.Reputation})
	agent.Reputation = int32(sum)
	return nil
}

// IncTasksCompleted bumps the agent's completed-task counter. The counter is
// monotonically non-decreasing; at the u32 ceiling it stays put.
func (s *StateDB) IncTasksCompleted(addr common.Address) error {
	agent, err := s.getAgent(addr)
	if err != nil {
		return err
	}
	if agent.TasksCompleted == math.MaxUint32 {
		return nil
	}
	s.journal.append(tasksCompletedChange{account: &addr, prev: agent.TasksCompleted})
	agent.TasksCompleted++
	return nil
}

// SetTaskStatus moves the task to the given state-machine position. Legality
// of the transition is the engine's business, not the state layer's.
func (s *StateDB) SetTaskStatus(addr common.Address, status types.TaskStatus) error {
	task, err := s.getTask(addr)
	if err != nil {
		return err
	}
	s.journal.append(taskStatusChange{account: &addr, prev: task.Status})
	task.Status = status
	return nil
}

// SetTaskExecutor records the identity that claimed the task.
func (s *StateDB) SetTaskExecutor(addr, executor common.Address) error {
	task, err := s.getTask(addr)
	if err != nil {
		return err
	}
	s.journal.append(taskExecutorChange{account: &addr, prev: task.Executor})
	task.Executor = executor
	return nil
}

// SetTaskResultHash records the result digest of a completed task.
func (s *StateDB) SetTaskResultHash(addr common.Address, hash common.Hash) error {
	task, err := s.getTask(addr)
	if err != nil {
		return err
	}
	s.journal.append(taskResultChange{account: &addr, prev: task.ResultHash})
	task.ResultHash = hash
	return nil
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionId
	s.nextRevisionId++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	// Replay the journal to undo changes and remove invalidated snapshots
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Finalise writes every journalled record back to the account database and
// resets the journal. Called once per successfully applied instruction.
func (s *StateDB) Finalise() {
	for addr := range s.journal.dirties {
		if agent, ok := s.agents[addr]; ok {
			s.db.WriteRecord(addr, agent.Encode())
			continue
		}
		if task, ok := s.tasks[addr]; ok {
			s.db.WriteRecord(addr, task.Encode())
		}
	}
	s.journal = newJournal()
	s.validRevisions = s.validRevisions[:0]
	s.nextRevisionId = 0
}
