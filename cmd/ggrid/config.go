// Copyright 2024 The go-gridchain Authors
// This file is part of go-gridchain.
//
// go-gridchain is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gridchain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gridchain. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"gopkg.in/urfave/cli.v1"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/params"
	"github.com/naoina/toml"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// engineConfig is the on-file form of the engine policy values. The admin key
// is kept as a hex string so the file stays hand-editable.
type engineConfig struct {
	AdminKey          string `toml:",omitempty"`
	NeutralReputation int32
	ReputationReward  int32
	ReputationPenalty int32
}

type ggridConfig struct {
	DataDir string `toml:",omitempty"`
	Engine  engineConfig
}

func loadConfig(file string, cfg *ggridConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func defaultGgridConfig() ggridConfig {
	return ggridConfig{
		DataDir: "ggrid-data",
		Engine: engineConfig{
			NeutralReputation: params.DefaultConfig.NeutralReputation,
			ReputationReward:  params.DefaultConfig.ReputationReward,
			ReputationPenalty: params.DefaultConfig.ReputationPenalty,
		},
	}
}

// makeConfig loads the configuration file when given and applies command line
// overrides on top.
func makeConfig(ctx *cli.Context) (ggridConfig, *params.ProgramConfig, error) {
	cfg := defaultGgridConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, nil, err
		}
	}
	if ctx.GlobalIsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.GlobalString(dataDirFlag.Name)
	}
	program := &params.ProgramConfig{
		NeutralReputation: cfg.Engine.NeutralReputation,
		ReputationReward:  cfg.Engine.ReputationReward,
		ReputationPenalty: cfg.Engine.ReputationPenalty,
	}
	if cfg.Engine.AdminKey != "" {
		program.AdminKey = common.HexToAddress(cfg.Engine.AdminKey)
	}
	return cfg, program, nil
}
