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
	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core/types"
)

// journalEntry is a modification entry in the state change journal that can be
// reverted on demand.
type journalEntry interface {
	// revert undoes the changes introduced by this journal entry.
	revert(*StateDB)

	// dirtied returns the account address modified by this journal entry.
	dirtied() *common.Address
}

// journal contains the list of state modifications applied since the last
// commit. These are tracked to be able to be reverted in case of an execution
// exception or revertal request.
type journal struct {
	entries []journalEntry         // Current changes tracked by the journal
	dirties map[common.Address]int // Dirty accounts and the number of changes
}

// newJournal creates a new initialized journal.
func newJournal() *journal {
	return &journal{
		dirties: make(map[common.Address]int),
	}
}

// append inserts a new modification entry to the end of the change journal.
func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// revert undoes a batch of journalled modifications along with any reverted
// dirty handling too.
func (j *journal) revert(statedb *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		// Undo the changes made by the operation
		j.entries[i].revert(statedb)

		// Drop any dirty tracking induced by the change
		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

// length returns the current number of entries in the journal.
func (j *journal) length() int {
	return len(j.entries)
}

type (
	// Changes to the set of account records.
	createAgentChange struct {
		account *common.Address
	}
	createTaskChange struct {
		account *common.Address
	}

	// Changes to agent records.
	creditsChange struct {
		account *common.Address
		prev    uint64
	}
	reputationChange struct {
		account *common.Address
		prev    int32
	}
	tasksCompletedChange struct {
		account *common.Address
		prev    uint32
	}
	agentStatusChange struct {
		account *common.Address
		prev    types.AgentStatus
	}

	// Changes to task records.
	taskStatusChange struct {
		account *common.Address
		prev    types.TaskStatus
	}
	taskExecutorChange struct {
		account *common.Address
		prev    common.Address
	}
	taskResultChange struct {
		account *common.Address
		prev    common.Hash
	}
)

func (ch createAgentChange) revert(s *StateDB) {
	delete(s.agents, *ch.account)
}

func (ch createAgentChange) dirtied() *common.Address {
	return ch.account
}

func (ch createTaskChange) revert(s *StateDB) {
	delete(s.tasks, *ch.account)
}

func (ch createTaskChange) dirtied() *common.Address {
	return ch.account
}

func (ch creditsChange) revert(s *StateDB) {
	s.agents[*ch.account].Credits = ch.prev
}

func (ch creditsChange) dirtied() *common.Address {
	return ch.account
}

func (ch reputationChange) revert(s *StateDB) {
	s.agents[*ch.account].Reputation = ch.prev
}

func (ch reputationChange) dirtied() *common.Address {
	return ch.account
}

func (ch tasksCompletedChange) revert(s *StateDB) {
	s.agents[*ch.account].TasksCompleted = ch.prev
}

func (ch tasksCompletedChange) dirtied() *common.Address {
	return ch.account
}

func (ch agentStatusChange) revert(s *StateDB) {
	s.agents[*ch.account].Status = ch.prev
}

func (ch agentStatusChange) dirtied() *common.Address {
	return ch.account
}

func (ch taskStatusChange) revert(s *StateDB) {
	s.tasks[*ch.account].Status = ch.prev
}

func (ch taskStatusChange) dirtied() *common.Address {
	return ch.account
}

func (ch taskExecutorChange) revert(s *StateDB) {
	s.tasks[*ch.account].Executor = ch.prev
}

func (ch taskExecutorChange) dirtied() *common.Address {
	return ch.account
}

func (ch taskResultChange) revert(s *StateDB) {
	s.tasks[*ch.account].ResultHash = ch.prev
}

func (ch taskResultChange) dirtied() *common.Address {
	return ch.account
}
