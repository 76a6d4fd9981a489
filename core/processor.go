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

// Package core implements the deterministic state-transition engine of the
// compute program. One invocation decodes one instruction, applies it against
// the referenced accounts and either commits every mutation or none.
package core

import (
	"errors"

	"github.com/gridchain/go-gridchain/core/state"
	"github.com/gridchain/go-gridchain/core/types"
	"github.com/gridchain/go-gridchain/params"
)

// Processor executes instructions against the account state. It holds no
// state of its own between invocations; every call is a single, atomic,
// sequential transition over the accounts it was given.
type Processor struct {
	config *params.ProgramConfig
}

// NewProcessor creates an instruction processor with the given policy values.
func NewProcessor(config *params.ProgramConfig) *Processor {
	return &Processor{config: config}
}

// Process decodes and applies one instruction. On any error the state is
// reverted to its pre-instruction snapshot and the error is surfaced to the
// host as a rejection of the whole invocation; nothing is retried.
func (p *Processor) Process(statedb *state.StateDB, refs []AccountRef, data []byte) error {
	instr, err := types.DecodeInstruction(data)
	if err != nil {
		return err
	}
	if err := validateShape(instr.Op(), refs); err != nil {
		return err
	}
	snap := statedb.Snapshot()
	switch in := instr.(type) {
	case types.RegisterInstr:
		err = p.applyRegister(statedb, refs)
	case types.CreateTaskInstr:
		err = p.applyCreateTask(statedb, refs, in)
	case types.ExecuteTaskInstr:
		err = p.applyExecuteTask(statedb, refs)
	case types.CompleteTaskInstr:
		err = p.applyCompleteTask(statedb, refs, in)
	case types.WithdrawInstr:
		err = p.applyWithdraw(statedb, refs, in)
	case types.DepositInstr:
		err = p.applyDeposit(statedb, refs, in)
	case types.SuspendAgentInstr:
		err = p.applySuspendAgent(statedb, refs)
	case types.FailTaskInstr:
		err = p.applyFailTask(statedb, refs)
	}
	if err != nil {
		statedb.RevertToSnapshot(snap)
		return err
	}
	statedb.Finalise()
	return nil
}

// applyRegister initializes a fresh agent record.
// Accounts: [new_agent_storage, owner_signer, system_allocator, rent_sysvar]
func (p *Processor) applyRegister(statedb *state.StateDB, refs []AccountRef) error {
	owner := refs[1].Address
	err := statedb.CreateAgent(refs[0].Address, owner, p.config.NeutralReputation)
	return mapMissingSlot(err)
}

// applyDeposit credits an agent account. Anyone may fund an agent; the payer
// signs but needs no relation to the agent's owner.
// Accounts: [agent, payer_signer]
func (p *Processor) applyDeposit(statedb *state.StateDB, refs []AccountRef, in types.DepositInstr) error {
	if in.Amount == 0 {
		return types.ErrMalformedInstruction
	}
	agent, err := statedb.GetAgent(refs[0].Address)
	if err != nil {
		return mapMissingSlot(err)
	}
	if agent.Status != types.AgentActive {
		return ErrInvalidStateTransition
	}
	return statedb.AddCredits(refs[0].Address, in.Amount)
}

// applyWithdraw debits an agent account. Only the agent's owner may withdraw.
// Accounts: [agent, owner_signer]
func (p *Processor) applyWithdraw(statedb *state.StateDB, refs []AccountRef, in types.WithdrawInstr) error {
	if in.Amount == 0 {
		return types.ErrMalformedInstruction
	}
	agent, err := statedb.GetAgent(refs[0].Address)
	if err != nil {
		return mapMissingSlot(err)
	}
	if err := requireSigner(refs, agent.Owner); err != nil {
		return err
	}
	return statedb.SubCredits(refs[0].Address, in.Amount)
}

// applySuspendAgent marks an agent suspended. Permitted to the agent's owner
// and to the configured administrator; idempotent.
// Accounts: [agent, caller_signer]
func (p *Processor) applySuspendAgent(statedb *state.StateDB, refs []AccountRef) error {
	agent, err := statedb.GetAgent(refs[0].Address)
	if err != nil {
		return mapMissingSlot(err)
	}
	caller := refs[1].Address
	if caller != agent.Owner && caller != p.config.AdminKey {
		return ErrUnauthorized
	}
	return statedb.SetAgentStatus(refs[0].Address, types.AgentSuspended)
}

// applyCreateTask creates a task record and moves its price from the
// requesting agent into escrow. The escrow is held by the task record until
// settlement: paid to the executor on completion, refunded on failure.
// Accounts: [new_task_storage, requester_agent, owner_signer]
func (p *Processor) applyCreateTask(statedb *state.StateDB, refs []AccountRef, in types.CreateTaskInstr) error {
	agentAddr := refs[1].Address
	agent, err := statedb.GetAgent(agentAddr)
	if err != nil {
		return mapMissingSlot(err)
	}
	if err := requireSigner(refs, agent.Owner); err != nil {
		return err
	}
	if agent.Status != types.AgentActive {
		return ErrInvalidStateTransition
	}
	if len(in.Requirements) > types.MaxRequirementsLen {
		return ErrInvalidRequirements
	}
	if err := statedb.SubCredits(agentAddr, in.Price); err != nil {
		return err
	}
	return mapMissingSlot(statedb.CreateTask(refs[0].Address, agentAddr, in.Requirements, in.Price))
}

// applyExecuteTask claims a created task. Claiming is open: whichever
// identity signs first becomes the task's executor and is the only one that
// may later complete it.
// Accounts: [task, executor_signer]
func (p *Processor) applyExecuteTask(statedb *state.StateDB, refs []AccountRef) error {
	taskAddr := refs[0].Address
	task, err := statedb.GetTask(taskAddr)
	if err != nil {
		return mapMissingSlot(err)
	}
	if task.Status != types.TaskCreated {
		return ErrInvalidStateTransition
	}
	if err := statedb.SetTaskExecutor(taskAddr, refs[1].Address); err != nil {
		return err
	}
	return statedb.SetTaskStatus(taskAddr, types.TaskExecuting)
}

// applyCompleteTask settles an executing task: records the result digest,
// releases the escrow to the executor's agent account and rewards the
// requester's reputation.
// Accounts: [task, requester_agent, executor_agent, executor_signer]
func (p *Processor) applyCompleteTask(statedb *state.StateDB, refs []AccountRef, in types.CompleteTaskInstr) error {
	taskAddr := refs[0].Address
	task, err := statedb.GetTask(taskAddr)
	if err != nil {
		return mapMissingSlot(err)
	}
	if task.Status != types.TaskExecuting {
		return ErrInvalidStateTransition
	}
	caller := refs[3].Address
	if caller != task.Executor {
		return ErrUnauthorized
	}
	if refs[1].Address != task.Requester {
		return ErrMalformedAccounts
	}
	executorAgent, err := statedb.GetAgent(refs[2].Address)
	if err != nil {
		return mapMissingSlot(err)
	}
	if executorAgent.Owner != caller {
		return ErrUnauthorized
	}
	if err := statedb.SetTaskResultHash(taskAddr, in.ResultHash); err != nil {
		return err
	}
	if err := statedb.SetTaskStatus(taskAddr, types.TaskCompleted); err != nil {
		return err
	}
	if err := statedb.AddCredits(refs[2].Address, task.Price); err != nil {
		return err
	}
	if err := statedb.IncTasksCompleted(task.Requester); err != nil {
		return err
	}
	return statedb.AddReputation(task.Requester, p.config.ReputationReward)
}

// applyFailTask aborts an open task, refunding the escrow to the requester.
// Permitted to the requester's owner, the claimed executor and the
// administrator. The requester's reputation takes the penalty regardless of
// whose fault the failure was.
// Accounts: [task, requester_agent, caller_signer]
func (p *Processor) applyFailTask(statedb *state.StateDB, refs []AccountRef) error {
	taskAddr := refs[0].Address
	task, err := statedb.GetTask(taskAddr)
	if err != nil {
		return mapMissingSlot(err)
	}
	if task.Status.Terminal() {
		return ErrInvalidStateTransition
	}
	if refs[1].Address != task.Requester {
		return ErrMalformedAccounts
	}
	requester, err := statedb.GetAgent(task.Requester)
	if err != nil {
		return mapMissingSlot(err)
	}
	caller := refs[2].Address
	authorized := caller == requester.Owner || caller == p.config.AdminKey
	if !authorized && !task.Executor.IsZero() {
		authorized = caller == task.Executor
	}
	if !authorized {
		return ErrUnauthorized
	}
	if err := statedb.AddCredits(task.Requester, task.Price); err != nil {
		return err
	}
	if err := statedb.SetTaskStatus(taskAddr, types.TaskFailed); err != nil {
		return err
	}
	return statedb.AddReputation(task.Requester, -p.config.ReputationPenalty)
}

// mapMissingSlot translates the state layer's missing-record error into the
// instruction-level account shape rejection.
func mapMissingSlot(err error) error {
	if errors.Is(err, state.ErrNotExist) {
		return ErrMalformedAccounts
	}
	return err
}
