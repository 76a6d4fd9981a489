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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	fuzz "github.com/google/gofuzz"
)

func TestAgentRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		var a Agent
		f.Fuzz(&a)
		a.Status = AgentStatus(uint8(a.Status) % 2)

		decoded, err := DecodeAgent(a.Encode())
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if diff := cmp.Diff(&a, decoded); diff != "" {
			t.Fatalf("iteration %d: agent mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestDecodeAgentRejectsCorrupt(t *testing.T) {
	a := &Agent{Credits: 10}
	enc := a.Encode()

	if _, err := DecodeAgent(enc[:AgentSize-1]); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for short record, got %v", err)
	}
	if _, err := DecodeAgent(append(enc, 0)); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for long record, got %v", err)
	}
	bad := a.Encode()
	bad[48] = 2 // out-of-range status
	if _, err := DecodeAgent(bad); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for bad status, got %v", err)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, MaxRequirementsLen)
	for i := 0; i < 200; i++ {
		var task Task
		f.Fuzz(&task)
		task.Status = TaskStatus(uint8(task.Status) % 4)
		if len(task.Requirements) > MaxRequirementsLen {
			task.Requirements = task.Requirements[:MaxRequirementsLen]
		}

		decoded, err := DecodeTask(task.Encode())
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if diff := cmp.Diff(&task, decoded, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("iteration %d: task mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestDecodeTaskRejectsCorrupt(t *testing.T) {
	task := &Task{Price: 300}
	enc := task.Encode()

	if _, err := DecodeTask(enc[:TaskSize-1]); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for short record, got %v", err)
	}
	bad := task.Encode()
	bad[64] = MaxRequirementsLen + 1 // requirements length past the blob slot
	if _, err := DecodeTask(bad); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for oversized requirements, got %v", err)
	}
	bad = task.Encode()
	bad[138] = 4 // out-of-range status
	if _, err := DecodeTask(bad); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount for bad status, got %v", err)
	}
}

func TestRequirementsRoundTrip(t *testing.T) {
	want := &ComputeRequirements{CpuUnits: 100, MemoryMB: 512, StorageMB: 1024, MaxTimeSeconds: 3600}
	got, err := DecodeRequirements(want.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
	if _, err := DecodeRequirements(make([]byte, RequirementsSize-1)); err != ErrCorruptAccount {
		t.Fatalf("expected ErrCorruptAccount, got %v", err)
	}
}

func TestTaskCopyIndependent(t *testing.T) {
	orig := &Task{Requirements: []byte{1, 2, 3}, Price: 7}
	cpy := orig.Copy()
	cpy.Requirements[0] = 9
	if orig.Requirements[0] != 1 {
		t.Fatal("copy shares requirements backing array")
	}
}
