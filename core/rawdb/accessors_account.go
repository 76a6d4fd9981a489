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
	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/griddb"
	"github.com/gridchain/go-gridchain/log"
)

// ReadAccount retrieves the raw record bytes stored at the given address.
func ReadAccount(db griddb.KeyValueReader, addr common.Address) ([]byte, error) {
	return db.Get(accountKey(addr))
}

// HasAccount reports whether a storage slot exists at the given address.
func HasAccount(db griddb.KeyValueReader, addr common.Address) bool {
	has, _ := db.Has(accountKey(addr))
	return has
}

// WriteAccount stores the raw record bytes at the given address.
func WriteAccount(db griddb.KeyValueWriter, addr common.Address, data []byte) {
	if err := db.Put(accountKey(addr), data); err != nil {
		log.Crit("Failed to store account record", "addr", addr, "err", err)
	}
}

// DeleteAccount removes the storage slot at the given address. Record
// reclamation is a host-level operation; the engine itself never deletes.
func DeleteAccount(db griddb.KeyValueWriter, addr common.Address) {
	if err := db.Delete(accountKey(addr)); err != nil {
		log.Crit("Failed to delete account record", "addr", addr, "err", err)
	}
}

// AllocateAccount creates a fresh zero-filled storage slot of the given size,
// the host-side half of the register/create contract.
func AllocateAccount(db griddb.KeyValueWriter, addr common.Address, size int) {
	WriteAccount(db, addr, make([]byte, size))
}

// IterateAccounts returns an iterator over every account record in the store.
func IterateAccounts(db griddb.Iteratee) griddb.Iterator {
	return db.NewIterator(accountPrefix)
}
