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

// Package rawdb contains the typed accessors over the flat account store.
package rawdb

import "github.com/gridchain/go-gridchain/common"

// Database key prefixes. One flat namespace holds every account record; the
// record kind is determined by its size and content, not its key.
var (
	accountPrefix = []byte("ga") // accountPrefix + address -> raw account record
)

// accountKey = accountPrefix + address
func accountKey(addr common.Address) []byte {
	return append(accountPrefix, addr.Bytes()...)
}

// AccountPrefix exposes the account namespace prefix for iteration.
func AccountPrefix() []byte {
	return accountPrefix
}

// AddressFromKey recovers the account address from a full database key.
func AddressFromKey(key []byte) common.Address {
	return common.BytesToAddress(key[len(accountPrefix):])
}
