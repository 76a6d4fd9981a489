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

package core

import "errors"

var (
	// ErrMalformedAccounts is returned when the account list supplied with an
	// instruction does not match the variant's declared positional shape:
	// wrong length, missing writability, missing signer, or a reference that
	// resolves to no allocated storage.
	ErrMalformedAccounts = errors.New("malformed account list")

	// ErrUnauthorized is returned when the invoking transaction carries no
	// valid signature for the identity an operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStateTransition is returned when an operation targets a
	// record whose current state does not permit it, including the terminal
	// task states and suspended agents.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidRequirements is returned when a task's requirements blob
	// exceeds the bounded length.
	ErrInvalidRequirements = errors.New("invalid task requirements")
)
