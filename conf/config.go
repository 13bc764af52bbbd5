/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package conf loads the yaml configuration of the crowdfund daemon.
package conf

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"
	yaml "gopkg.in/yaml.v2"

	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/utils"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

const (
	// DefaultListenAddr is the api listen address when none is configured.
	DefaultListenAddr = "127.0.0.1:4661"
	// DefaultMetricsPath is the path of the prometheus endpoint.
	DefaultMetricsPath = "/metrics"
	// DefaultDataDir is the storage directory relative to the working root.
	DefaultDataDir = "data"
	// DefaultPrivateKeyFile is the key file relative to the working root.
	DefaultPrivateKeyFile = "private.key"
)

var (
	// ErrNilConfig indicates a config file without content.
	ErrNilConfig = errors.New("nil config")
	// ErrInvalidMetricsPath indicates a metrics path which is not absolute.
	ErrInvalidMetricsPath = errors.New("metrics path must start with /")
)

// GenesisAccount is an account balance seeded into an empty ledger.
type GenesisAccount struct {
	Address proto.AccountAddress `yaml:"Address"`
	Balance uint64               `yaml:"Balance" validate:"gt=0"`
}

// GenesisInfo holds the initial state of an empty ledger.
type GenesisInfo struct {
	// CounterCapacity creates the campaign counter at genesis if not zero.
	CounterCapacity uint64           `yaml:"CounterCapacity"`
	Accounts        []GenesisAccount `yaml:"Accounts" validate:"dive"`
}

// Config holds all the config read from yaml config file.
type Config struct {
	WorkingRoot     string `yaml:"WorkingRoot"`
	DataDir         string `yaml:"DataDir"`
	ListenAddr      string `yaml:"ListenAddr" validate:"required"`
	MetricsPath     string `yaml:"MetricsPath" validate:"required"`
	LogLevel        string `yaml:"LogLevel" validate:"omitempty,oneof=panic fatal error warning warn info debug trace"`
	PrivateKeyFile  string `yaml:"PrivateKeyFile"`
	RecordCacheSize int    `yaml:"RecordCacheSize" validate:"gte=0"`

	Genesis *GenesisInfo `yaml:"Genesis"`
}

// GConf is the global config pointer.
var GConf *Config

// LoadConfig loads config from configPath, relative paths in the config are
// resolved against the working root, which defaults to the config directory.
func LoadConfig(configPath string) (config *Config, err error) {
	configPath = utils.HomeDirExpand(configPath)
	var configBytes []byte
	if configBytes, err = ioutil.ReadFile(configPath); err != nil {
		log.WithError(err).Error("read config file failed")
		return
	}
	config = &Config{}
	if err = yaml.Unmarshal(configBytes, config); err != nil {
		log.WithError(err).Error("unmarshal config file failed")
		return nil, errors.Wrap(err, "unmarshal config failed")
	}
	if len(configBytes) == 0 {
		return nil, ErrNilConfig
	}
	if config.WorkingRoot == "" {
		config.WorkingRoot = filepath.Dir(configPath)
	}
	config.setDefaults()

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		log.WithError(err).Error("validate config failed")
		return nil, errors.Wrap(err, "validate config failed")
	}
	if !strings.HasPrefix(config.MetricsPath, "/") {
		return nil, ErrInvalidMetricsPath
	}
	return
}

func (c *Config) setDefaults() {
	c.WorkingRoot = utils.HomeDirExpand(c.WorkingRoot)
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.PrivateKeyFile == "" {
		c.PrivateKeyFile = DefaultPrivateKeyFile
	}
	c.DataDir = utils.ResolvePath(c.WorkingRoot, c.DataDir)
	c.PrivateKeyFile = utils.ResolvePath(c.WorkingRoot, c.PrivateKeyFile)
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.Genesis == nil {
		c.Genesis = &GenesisInfo{}
	}
}
