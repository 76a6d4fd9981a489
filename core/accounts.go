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

package core

import (
	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core/types"
)

// AccountRef is one entry of the account list accompanying an instruction.
// The host runtime resolves the address to a storage slot, locks it for the
// invocation's duration and attests the Signer flag from the transaction's
// signature set. The engine never verifies signatures itself.
type AccountRef struct {
	Address  common.Address
	Writable bool
	Signer   bool
}

// accountSpec declares the flags one positional account slot must carry.
type accountSpec struct {
	writable bool
	signer   bool
}

// instructionShapes fixes the positional account list of every variant.
// A supplied list is rejected when its length differs or a position lacks a
// required flag; surplus flags are harmless.
var instructionShapes = map[types.OpCode][]accountSpec{
	// [new_agent_storage, owner_signer, system_allocator, rent_sysvar]
	types.OpRegister: {{writable: true}, {signer: true}, {}, {}},
	// [new_task_storage, requester_agent, owner_signer]
	types.OpCreateTask: {{writable: true}, {writable: true}, {signer: true}},
	// [task, executor_signer]
	types.OpExecuteTask: {{writable: true}, {signer: true}},
	// [task, requester_agent, executor_agent, executor_signer]
	types.OpCompleteTask: {{writable: true}, {writable: true}, {writable: true}, {signer: true}},
	// [agent, owner_signer]
	types.OpWithdraw: {{writable: true}, {signer: true}},
	// [agent, payer_signer]
	types.OpDeposit: {{writable: true}, {signer: true}},
	// [agent, caller_signer]
	types.OpSuspendAgent: {{writable: true}, {signer: true}},
	// [task, requester_agent, caller_signer]
	types.OpFailTask: {{writable: true}, {writable: true}, {signer: true}},
}

// validateShape checks the supplied account list against the variant's
// declared positional shape.
func validateShape(op types.OpCode, refs []AccountRef) error {
	shape, ok := instructionShapes[op]
	if !ok {
		return types.ErrMalformedInstruction
	}
	if len(refs) != len(shape) {
		return ErrMalformedAccounts
	}
	for i, spec := range shape {
		if spec.writable && !refs[i].Writable {
			return ErrMalformedAccounts
		}
		if spec.signer && !refs[i].Signer {
			return ErrMalformedAccounts
		}
	}
	return nil
}

// requireSigner is the single authorization predicate of the engine: the
// account list must carry a signing reference for the wanted identity.
func requireSigner(refs []AccountRef, want common.Address) error {
	for _, ref := range refs {
		if ref.Signer && ref.Address == want {
			return nil
		}
	}
	return ErrUnauthorized
}
