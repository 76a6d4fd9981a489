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

	"github.com/gridchain/go-gridchain/common"
)

// TaskStatus is the state-machine position of a task record.
// Created and Executing may transition; Completed and Failed are terminal.
type TaskStatus uint8

const (
	TaskCreated   TaskStatus = 0
	TaskExecuting TaskStatus = 1
	TaskCompleted TaskStatus = 2
	TaskFailed    TaskStatus = 3
)

// String returns a human-readable representation of the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskExecuting:
		return "executing"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is absorbing.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// MaxRequirementsLen bounds the opaque requirements blob a task record can
// carry. The blob slot in the fixed layout is exactly this long.
const MaxRequirementsLen = 64

// TaskSize is the exact encoded size of a task record in bytes.
// requester[32] | executor[32] | reqLen u16 | requirements[64] | price u64 |
// status u8 | resultHash[32]
const TaskSize = common.AddressLength*2 + 2 + MaxRequirementsLen + 8 + 1 + common.HashLength

// Task is one requested unit of compute work. Its price is moved into escrow
// at creation and released on settlement; while the task is open the escrowed
// credits are held by the record itself.
type Task struct {
	Requester    common.Address // agent account that created the task
	Executor     common.Address // identity that claimed the task, zero until Executing
	Requirements []byte         // opaque bounded compute description
	Price        uint64         // escrowed credit cost, fixed at creation
	Status       TaskStatus
	ResultHash   common.Hash // set only on transition to Completed
}

// Encode serializes the task into its fixed 171-byte layout.
func (t *Task) Encode() []byte {
	b := make([]byte, TaskSize)
	copy(b[0:32], t.Requester.Bytes())
	copy(b[32:64], t.Executor.Bytes())
	binary.LittleEndian.PutUint16(b[64:66], uint16(len(t.Requirements)))
	copy(b[66:66+MaxRequirementsLen], t.Requirements)
	binary.LittleEndian.PutUint64(b[130:138], t.Price)
	b[138] = byte(t.Status)
	copy(b[139:171], t.ResultHash.Bytes())
	return b
}

// DecodeTask deserializes a task record. The input must be exactly TaskSize
// bytes with valid status and requirements length fields.
func DecodeTask(b []byte) (*Task, error) {
	if len(b) != TaskSize {
		return nil, ErrCorruptAccount
	}
	reqLen := binary.LittleEndian.Uint16(b[64:66])
	if reqLen > MaxRequirementsLen {
		return nil, ErrCorruptAccount
	}
	if b[138] > byte(TaskFailed) {
		return nil, ErrCorruptAccount
	}
	t := &Task{
		Requester:    common.BytesToAddress(b[0:32]),
		Executor:     common.BytesToAddress(b[32:64]),
		Requirements: common.CopyBytes(b[66 : 66+reqLen]),
		Price:        binary.LittleEndian.Uint64(b[130:138]),
		Status:       TaskStatus(b[138]),
		ResultHash:   common.BytesToHash(b[139:171]),
	}
	return t, nil
}

// Copy returns an independent copy of the task record.
func (t *Task) Copy() *Task {
	cpy := *t
	cpy.Requirements = common.CopyBytes(t.Requirements)
	return &cpy
}

// ComputeRequirements is the structured form of the requirements blob used by
// callers. The engine itself treats requirements as opaque; this is the
// client-side convention for filling the blob.
type ComputeRequirements struct {
	CpuUnits       uint32
	MemoryMB       uint32
	StorageMB      uint32
	MaxTimeSeconds uint32
}

// RequirementsSize is the encoded size of ComputeRequirements.
const RequirementsSize = 16

// Encode serializes the requirements as 4 little-endian u32 values.
func (r *ComputeRequirements) Encode() []byte {
	b := make([]byte, RequirementsSize)
	binary.LittleEndian.PutUint32(b[0:4], r.CpuUnits)
	binary.LittleEndian.PutUint32(b[4:8], r.MemoryMB)
	binary.LittleEndian.PutUint32(b[8:12], r.StorageMB)
	binary.LittleEndian.PutUint32(b[12:16], r.MaxTimeSeconds)
	return b
}

// DecodeRequirements deserializes a structured requirements blob.
func DecodeRequirements(b []byte) (*ComputeRequirements, error) {
	if len(b) != RequirementsSize {
		return nil, ErrCorruptAccount
	}
	return &ComputeRequirements{
		CpuUnits:       binary.LittleEndian.Uint32(b[0:4]),
		MemoryMB:       binary.LittleEndian.Uint32(b[4:8]),
		StorageMB:      binary.LittleEndian.Uint32(b[8:12]),
		MaxTimeSeconds: binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}
