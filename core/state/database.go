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
	lru "github.com/hashicorp/golang-lru"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core/rawdb"
	"github.com/gridchain/go-gridchain/griddb"
)

// Number of raw account records to keep cached in memory.
const recordCacheSize = 10000

// Database wraps the raw account store with a read cache. Raw record bytes
// are cached by address; writes go through the cache so repeated invocations
// against the same accounts skip the disk.
type Database struct {
	disk    griddb.Database
	records *lru.Cache
}

// NewDatabase creates a caching account database around a backing store.
func NewDatabase(disk griddb.Database) *Database {
	cache, _ := lru.New(recordCacheSize)
	return &Database{disk: disk, records: cache}
}

// ReadRecord retrieves the raw record bytes stored at addr.
func (db *Database) ReadRecord(addr common.Address) ([]byte, error) {
	if cached, ok := db.records.Get(addr); ok {
		return common.CopyBytes(cached.([]byte)), nil
	}
	raw, err := rawdb.ReadAccount(db.disk, addr)
	if err != nil {
		return nil, err
	}
	db.records.Add(addr, common.CopyBytes(raw))
	return raw, nil
}

// WriteRecord stores the raw record bytes at addr, updating the cache.
func (db *Database) WriteRecord(addr common.Address, data []byte) {
	db.records.Add(addr, common.CopyBytes(data))
	rawdb.WriteAccount(db.disk, addr, data)
}

// DiskDB returns the underlying key-value store.
func (db *Database) DiskDB() griddb.Database {
	return db.disk
}
