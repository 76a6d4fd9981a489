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

package griddb

import (
	"github.com/gridchain/go-gridchain/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelDB is a persistent key-value store backed by LevelDB.
type levelDB struct {
	fn string      // filename for reporting
	db *leveldb.DB // LevelDB instance
}

// NewLevelDB opens (or creates) a LevelDB backed database at the given path.
func NewLevelDB(file string) (Database, error) {
	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Opened account database", "path", file)
	return &levelDB{fn: file, db: db}, nil
}

// NewMemoryDatabase returns a database kept entirely in memory, used by tests
// and the in-process host harness.
func NewMemoryDatabase() Database {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic(err) // cannot fail for the memory backend
	}
	return &levelDB{fn: "memory", db: db}
}

// Has retrieves if a key is present in the key-value store.
func (d *levelDB) Has(key []byte) (bool, error) {
	return d.db.Has(key, nil)
}

// Get retrieves the given key if it's present in the key-value store.
func (d *levelDB) Get(key []byte) ([]byte, error) {
	data, err := d.db.Get(key, nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put inserts the given value into the key-value store.
func (d *levelDB) Put(key []byte, value []byte) error {
	return d.db.Put(key, value, nil)
}

// Delete removes the key from the key-value store.
func (d *levelDB) Delete(key []byte) error {
	return d.db.Delete(key, nil)
}

// NewIterator creates an iterator over a subset of database content with a
// particular key prefix.
func (d *levelDB) NewIterator(prefix []byte) Iterator {
	return d.db.NewIterator(util.BytesPrefix(prefix), nil)
}

// Close flushes any pending data to disk and closes the store.
func (d *levelDB) Close() error {
	return d.db.Close()
}
