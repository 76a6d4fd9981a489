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

package rawdb

import (
	"bytes"
	"testing"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/griddb"
)

func TestAccountReadWrite(t *testing.T) {
	db := griddb.NewMemoryDatabase()
	addr := common.BytesToAddress([]byte("account"))

	if HasAccount(db, addr) {
		t.Fatal("account exists before write")
	}
	if _, err := ReadAccount(db, addr); err == nil {
		t.Fatal("read of missing account succeeded")
	}

	record := []byte{1, 2, 3, 4}
	WriteAccount(db, addr, record)
	if !HasAccount(db, addr) {
		t.Fatal("account missing after write")
	}
	got, err := ReadAccount(db, addr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, record) {
		t.Fatalf("expected %x, got %x", record, got)
	}

	DeleteAccount(db, addr)
	if HasAccount(db, addr) {
		t.Fatal("account survives delete")
	}
}

func TestAllocateAccount(t *testing.T) {
	db := griddb.NewMemoryDatabase()
	addr := common.BytesToAddress([]byte("slot"))

	AllocateAccount(db, addr, 49)
	raw, err := ReadAccount(db, addr)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 49 || !common.IsZeroFilled(raw) {
		t.Fatalf("expected 49 zero bytes, got %x", raw)
	}
}

func TestIterateAccounts(t *testing.T) {
	db := griddb.NewMemoryDatabase()
	addrs := map[common.Address]bool{
		common.BytesToAddress([]byte("a")): false,
		common.BytesToAddress([]byte("b")): false,
		common.BytesToAddress([]byte("c")): false,
	}
	for addr := range addrs {
		WriteAccount(db, addr, []byte{1})
	}
	// An entry outside the account namespace stays invisible.
	if err := db.Put([]byte("xx-other"), []byte{2}); err != nil {
		t.Fatal(err)
	}

	it := IterateAccounts(db)
	defer it.Release()
	count := 0
	for it.Next() {
		addr := AddressFromKey(it.Key())
		seen, ok := addrs[addr]
		if !ok || seen {
			t.Fatalf("unexpected or duplicate key %x", it.Key())
		}
		addrs[addr] = true
		count++
	}
	if count != len(addrs) {
		t.Fatalf("expected %d records, iterated %d", len(addrs), count)
	}
}
