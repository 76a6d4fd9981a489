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

// ErrCorruptAccount is returned when an account record cannot be decoded:
// the byte length does not match the record's fixed size, or an enum field
// holds an out-of-range value. A record is either fully valid or rejected.
var ErrCorruptAccount = errors.New("corrupt account record")

// AgentStatus is the lifecycle state of an agent record.
type AgentStatus uint8

const (
	AgentActive    AgentStatus = 0
	AgentSuspended AgentStatus = 1
)

// String returns a human-readable representation of the status.
func (s AgentStatus) String() string {
	switch s {
	case AgentActive:
		return "active"
	case AgentSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// AgentSize is the exact encoded size of an agent record in bytes.
// owner[32] | credits u64 | reputation i32 | tasksCompleted u32 | status u8
const AgentSize = common.AddressLength + 8 + 4 + 4 + 1

// Agent is one registered compute agent. The record layout is fixed-size
// little-endian so that the same bytes, reloaded, reproduce an identical
// logical value.
type Agent struct {
	Owner          common.Address // controlling external key, immutable after creation
	Credits        uint64         // spendable balance, mutated only by the credit ledger
	Reputation     int32          // adjusted only on task settlement
	TasksCompleted uint32         // monotonically non-decreasing
	Status         AgentStatus
}

// Encode serializes the agent into its fixed 49-byte layout.
func (a *Agent) Encode() []byte {
	b := make([]byte, AgentSize)
	copy(b[0:32], a.Owner.Bytes())
	binary.LittleEndian.PutUint64(b[32:40], a.Credits)
	binary.LittleEndian.PutUint32(b[40:44], uint32(a.Reputation))
	binary.LittleEndian.PutUint32(b[44:48], a.TasksCompleted)
	b[48] = byte(a.Status)
	return b
}

// DecodeAgent deserializes an agent record. The input must be exactly
// AgentSize bytes with a valid status byte.
func DecodeAgent(b []byte) (*Agent, error) {
	if len(b) != AgentSize {
		return nil, ErrCorruptAccount
	}
	if b[48] > byte(AgentSuspended) {
		return nil, ErrCorruptAccount
	}
	a := &Agent{
		Owner:          common.BytesToAddress(b[0:32]),
		Credits:        binary.LittleEndian.Uint64(b[32:40]),
		Reputation:     int32(binary.LittleEndian.Uint32(b[40:44])),
		TasksCompleted: binary.LittleEndian.Uint32(b[44:48]),
		Status:         AgentStatus(b[48]),
	}
	return a, nil
}

// Copy returns an independent copy of the agent record.
func (a *Agent) Copy() *Agent {
	cpy := *a
	return &cpy
}
