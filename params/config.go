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

package params

import "github.com/gridchain/go-gridchain/common"

// ProgramConfig holds the tunable policy values of the compute engine.
type ProgramConfig struct {
	// AdminKey is the privileged administrator identity. It may suspend any
	// agent and fail any open task.
	AdminKey common.Address

	// NeutralReputation is the reputation score assigned to a freshly
	// registered agent.
	NeutralReputation int32

	// ReputationReward is added to a requester's reputation when one of its
	// tasks completes.
	ReputationReward int32

	// ReputationPenalty is subtracted from a requester's reputation when one
	// of its tasks fails.
	ReputationPenalty int32
}

// DefaultConfig are the engine policy values used when no configuration file
// overrides them.
var DefaultConfig = ProgramConfig{
	NeutralReputation: 100,
	ReputationReward:  5,
	ReputationPenalty: 10,
}
