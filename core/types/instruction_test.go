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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gridchain/go-gridchain/common"
)

func TestDecodeDeposit(t *testing.T) {
	data := make([]byte, 9)
	data[0] = byte(OpDeposit)
	binary.LittleEndian.PutUint64(data[1:], 1000)

	instr, err := DecodeInstruction(data)
	if err != nil {
		t.Fatal(err)
	}
	dep, ok := instr.(DepositInstr)
	if !ok {
		t.Fatalf("expected DepositInstr, got %T", instr)
	}
	if dep.Amount != 1000 {
		t.Fatalf("expected amount 1000, got %d", dep.Amount)
	}
}

func TestDecodeUnknownDiscriminant(t *testing.T) {
	if _, err := DecodeInstruction([]byte{9}); err != ErrMalformedInstruction {
		t.Fatalf("expected ErrMalformedInstruction, got %v", err)
	}
	if _, err := DecodeInstruction(nil); err != ErrMalformedInstruction {
		t.Fatalf("expected ErrMalformedInstruction for empty input, got %v", err)
	}
}

func TestDecodeWrongPayloadLength(t *testing.T) {
	cases := [][]byte{
		{byte(OpRegister), 0x01},             // Register takes no payload
		{byte(OpDeposit), 1, 2, 3},           // Deposit needs exactly 8 bytes
		{byte(OpWithdraw), 1, 2, 3, 4, 5, 6, 7, 8, 9}, // one byte too many
		{byte(OpCreateTask), 1, 2, 3},        // shorter than the 8-byte price
		{byte(OpCompleteTask), 1, 2, 3},      // hash must be 32 bytes
		{byte(OpExecuteTask), 0xff},
		{byte(OpSuspendAgent), 0xff},
		{byte(OpFailTask), 0xff},
	}
	for _, data := range cases {
		if _, err := DecodeInstruction(data); err != ErrMalformedInstruction {
			t.Fatalf("input %x: expected ErrMalformedInstruction, got %v", data, err)
		}
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	req := (&ComputeRequirements{CpuUnits: 100, MemoryMB: 512, StorageMB: 1024, MaxTimeSeconds: 3600}).Encode()
	instrs := []Instruction{
		RegisterInstr{},
		CreateTaskInstr{Requirements: req, Price: 500},
		ExecuteTaskInstr{},
		CompleteTaskInstr{ResultHash: common.HexToHash("0xdeadbeef")},
		WithdrawInstr{Amount: 42},
		DepositInstr{Amount: 1 << 60},
		SuspendAgentInstr{},
		FailTaskInstr{},
	}
	for _, in := range instrs {
		decoded, err := DecodeInstruction(EncodeInstruction(in))
		if err != nil {
			t.Fatalf("%s: %v", in.Op(), err)
		}
		if decoded.Op() != in.Op() {
			t.Fatalf("expected op %s, got %s", in.Op(), decoded.Op())
		}
		switch want := in.(type) {
		case CreateTaskInstr:
			got := decoded.(CreateTaskInstr)
			if got.Price != want.Price || !bytes.Equal(got.Requirements, want.Requirements) {
				t.Fatalf("create task round trip mismatch: %+v != %+v", got, want)
			}
		case CompleteTaskInstr:
			if decoded.(CompleteTaskInstr).ResultHash != want.ResultHash {
				t.Fatal("result hash round trip mismatch")
			}
		case WithdrawInstr:
			if decoded.(WithdrawInstr).Amount != want.Amount {
				t.Fatal("withdraw amount round trip mismatch")
			}
		case DepositInstr:
			if decoded.(DepositInstr).Amount != want.Amount {
				t.Fatal("deposit amount round trip mismatch")
			}
		}
	}
}

func TestDecodeCreateTaskEmptyRequirements(t *testing.T) {
	// A price with no requirements blob is a legal wire form; the engine
	// bounds the blob, the codec does not.
	data := make([]byte, 9)
	data[0] = byte(OpCreateTask)
	binary.LittleEndian.PutUint64(data[1:], 300)

	instr, err := DecodeInstruction(data)
	if err != nil {
		t.Fatal(err)
	}
	ct := instr.(CreateTaskInstr)
	if len(ct.Requirements) != 0 {
		t.Fatalf("expected empty requirements, got %d bytes", len(ct.Requirements))
	}
	if ct.Price != 300 {
		t.Fatalf("expected price 300, got %d", ct.Price)
	}
}
