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

package types

import (
	"encoding/binary"
	"errors"

	"github.com/gridchain/go-gridchain/common"
)

// ErrMalformedInstruction is returned when instruction bytes carry an unknown
// discriminant or a payload whose length does not match the variant's shape.
var ErrMalformedInstruction = errors.New("malformed instruction")

// OpCode is the leading discriminant byte of an instruction.
type OpCode byte

const (
	OpRegister     OpCode = 0
	OpCreateTask   OpCode = 1
	OpExecuteTask  OpCode = 2
	OpCompleteTask OpCode = 3
	OpWithdraw     OpCode = 4
	OpDeposit      OpCode = 5
	OpSuspendAgent OpCode = 6
	OpFailTask     OpCode = 7
)

// String returns the mnemonic of the opcode.
func (op OpCode) String() string {
	switch op {
	case OpRegister:
		return "Register"
	case OpCreateTask:
		return "CreateTask"
	case OpExecuteTask:
		return "ExecuteTask"
	case OpCompleteTask:
		return "CompleteTask"
	case OpWithdraw:
		return "Withdraw"
	case OpDeposit:
		return "Deposit"
	case OpSuspendAgent:
		return "SuspendAgent"
	case OpFailTask:
		return "FailTask"
	default:
		return "Invalid"
	}
}

// Instruction is the closed set of typed operations the engine executes. Each
// variant is a concrete struct; the wire form is one discriminant byte
// followed by the variant payload, little-endian for all multi-byte integers.
type Instruction interface {
	// Op returns the wire discriminant of the variant.
	Op() OpCode
}

// RegisterInstr creates a fresh agent record. No payload.
type RegisterInstr struct{}

// CreateTaskInstr creates a task record funded by the requesting agent.
// Payload: requirements blob followed by the 8-byte price.
type CreateTaskInstr struct {
	Requirements []byte
	Price        uint64
}

// ExecuteTaskInstr claims a created task for execution. No payload.
type ExecuteTaskInstr struct{}

// CompleteTaskInstr settles an executing task. Payload: 32-byte result hash.
type CompleteTaskInstr struct {
	ResultHash common.Hash
}

// WithdrawInstr moves credits out of an agent account. Payload: 8-byte amount.
type WithdrawInstr struct {
	Amount uint64
}

// DepositInstr funds an agent account. Payload: 8-byte amount.
type DepositInstr struct {
	Amount uint64
}

// SuspendAgentInstr marks an agent suspended. No payload.
type SuspendAgentInstr struct{}

// FailTaskInstr aborts an open task, refunding its escrow. No payload.
type FailTaskInstr struct{}

func (RegisterInstr) Op() OpCode     { return OpRegister }
func (CreateTaskInstr) Op() OpCode   { return OpCreateTask }
func (ExecuteTaskInstr) Op() OpCode  { return OpExecuteTask }
func (CompleteTaskInstr) Op() OpCode { return OpCompleteTask }
func (WithdrawInstr) Op() OpCode     { return OpWithdraw }
func (DepositInstr) Op() OpCode      { return OpDeposit }
func (SuspendAgentInstr) Op() OpCode { return OpSuspendAgent }
func (FailTaskInstr) Op() OpCode     { return OpFailTask }

// DecodeInstruction parses raw instruction bytes into a typed variant. It is
// a pure function of its input: no side effects, no partial results.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ErrMalformedInstruction
	}
	op, payload := OpCode(data[0]), data[1:]
	switch op {
	case OpRegister:
		if len(payload) != 0 {
			return nil, ErrMalformedInstruction
		}
		return RegisterInstr{}, nil

	case OpCreateTask:
		// The trailing 8 bytes are the price; everything before them is the
		// requirements blob.
		if len(payload) < 8 {
			return nil, ErrMalformedInstruction
		}
		split := len(payload) - 8
		return CreateTaskInstr{
			Requirements: common.CopyBytes(payload[:split]),
			Price:        binary.LittleEndian.Uint64(payload[split:]),
		}, nil

	case OpExecuteTask:
		if len(payload) != 0 {
			return nil, ErrMalformedInstruction
		}
		return ExecuteTaskInstr{}, nil

	case OpCompleteTask:
		if len(payload) != common.HashLength {
			return nil, ErrMalformedInstruction
		}
		return CompleteTaskInstr{ResultHash: common.BytesToHash(payload)}, nil

	case OpWithdraw:
		if len(payload) != 8 {
			return nil, ErrMalformedInstruction
		}
		return WithdrawInstr{Amount: binary.LittleEndian.Uint64(payload)}, nil

	case OpDeposit:
		if len(payload) != 8 {
			return nil, ErrMalformedInstruction
		}
		return DepositInstr{Amount: binary.LittleEndian.Uint64(payload)}, nil

	case OpSuspendAgent:
		if len(payload) != 0 {
			return nil, ErrMalformedInstruction
		}
		return SuspendAgentInstr{}, nil

	case OpFailTask:
		if len(payload) != 0 {
			return nil, ErrMalformedInstruction
		}
		return FailTaskInstr{}, nil

	default:
		return nil, ErrMalformedInstruction
	}
}

// EncodeInstruction serializes a typed variant into its wire form. Encoding
// is the caller's side of the contract; the engine only ever decodes.
func EncodeInstruction(instr Instruction) []byte {
	switch in := instr.(type) {
	case RegisterInstr:
		return []byte{byte(OpRegister)}
	case CreateTaskInstr:
		b := make([]byte, 1+len(in.Requirements)+8)
		b[0] = byte(OpCreateTask)
		copy(b[1:], in.Requirements)
		binary.LittleEndian.PutUint64(b[1+len(in.Requirements):], in.Price)
		return b
	case ExecuteTaskInstr:
		return []byte{byte(OpExecuteTask)}
	case CompleteTaskInstr:
		b := make([]byte, 1+common.HashLength)
		b[0] = byte(OpCompleteTask)
		copy(b[1:], in.ResultHash.Bytes())
		return b
	case WithdrawInstr:
		b := make([]byte, 9)
		b[0] = byte(OpWithdraw)
		binary.LittleEndian.PutUint64(b[1:], in.Amount)
		return b
	case DepositInstr:
		b := make([]byte, 9)
		b[0] = byte(OpDeposit)
		binary.LittleEndian.PutUint64(b[1:], in.Amount)
		return b
	case SuspendAgentInstr:
		return []byte{byte(OpSuspendAgent)}
	case FailTaskInstr:
		return []byte{byte(OpFailTask)}
	default:
		return nil
	}
}
