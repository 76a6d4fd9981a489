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

package common

import (
	"bytes"
	"testing"
)

func TestBytesToAddressCropsLeft(t *testing.T) {
	long := make([]byte, AddressLength+4)
	for i := range long {
		long[i] = byte(i)
	}
	addr := BytesToAddress(long)
	if !bytes.Equal(addr.Bytes(), long[4:]) {
		t.Fatalf("expected left-cropped address, got %x", addr)
	}
}

func TestBytesToAddressPadsShort(t *testing.T) {
	addr := BytesToAddress([]byte{0xde, 0xad})
	want := make([]byte, AddressLength)
	want[AddressLength-2] = 0xde
	want[AddressLength-1] = 0xad
	if !bytes.Equal(addr.Bytes(), want) {
		t.Fatalf("expected left-padded address, got %x", addr)
	}
}

func TestHexToAddressRoundTrip(t *testing.T) {
	hex := "0x00000000000000000000000000000000000000000000000000000000deadbeef"
	addr := HexToAddress(hex)
	if addr.Hex() != hex {
		t.Fatalf("expected %s, got %s", hex, addr.Hex())
	}
}

func TestAddressIsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Fatal("zero address not reported zero")
	}
	if BytesToAddress([]byte{1}).IsZero() {
		t.Fatal("nonzero address reported zero")
	}
}

func TestIsZeroFilled(t *testing.T) {
	if !IsZeroFilled(make([]byte, 49)) {
		t.Fatal("zero-filled buffer not detected")
	}
	if !IsZeroFilled(nil) {
		t.Fatal("empty buffer should count as zero-filled")
	}
	b := make([]byte, 49)
	b[48] = 1
	if IsZeroFilled(b) {
		t.Fatal("dirty buffer reported zero-filled")
	}
}

func TestCopyBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	cpy := CopyBytes(src)
	cpy[0] = 9
	if src[0] != 1 {
		t.Fatal("copy shares backing array")
	}
	if CopyBytes(nil) != nil {
		t.Fatal("copy of nil should stay nil")
	}
}
