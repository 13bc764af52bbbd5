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

package internal

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/CovenantSQL/crowdfund/client"
	"github.com/CovenantSQL/crowdfund/conf"
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/kms"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/utils"
)

// These are general flags used by the transaction and query commands.
var (
	configFile     string
	endpoint       string
	privateKeyFile string
	password       string
	noPassword     bool
	timeout        time.Duration
	logLevel       string
)

func addCommonFlags(cmd *Command) {
	cmd.Flag.StringVar(&configFile, "config", "~/.crowdfund/config.yaml",
		"Config file to read the api address and key file from")
	cmd.Flag.StringVar(&endpoint, "endpoint", "", "Ledger api endpoint, overrides the config")
	cmd.Flag.DurationVar(&timeout, "timeout", client.DefaultTimeout, "Timeout of every api call")
	cmd.Flag.StringVar(&logLevel, "log-level", "info", "Console log level")
}

func addKeyFlags(cmd *Command) {
	cmd.Flag.StringVar(&privateKeyFile, "key", "", "Private key file, overrides the config")
	cmd.Flag.StringVar(&password, "password", "", "Master key password of the private key file")
	cmd.Flag.BoolVar(&noPassword, "no-password", false, "Use an empty master key")
}

func readMasterKey() (string, error) {
	if password != "" || noPassword {
		return password, nil
	}
	fmt.Println("Enter master key(press Enter for default: \"\"): ")
	bytePwd, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(bytePwd), err
}

// loadConfig fills the endpoint and key file from the config file when they
// are not given as flags. A missing config file is not an error.
func loadConfig() {
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		ConsoleLog.SetLevel(lvl)
	}
	configFile = utils.HomeDirExpand(configFile)
	if utils.Exist(configFile) {
		cfg, err := conf.LoadConfig(configFile)
		if err != nil {
			ConsoleLog.WithError(err).Error("load config failed")
			SetExitStatus(1)
			Exit()
		}
		conf.GConf = cfg
		if endpoint == "" {
			endpoint = cfg.ListenAddr
		}
		if privateKeyFile == "" {
			privateKeyFile = cfg.PrivateKeyFile
		}
	}
	if endpoint == "" {
		endpoint = conf.DefaultListenAddr
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if privateKeyFile == "" {
		privateKeyFile = "~/.crowdfund/" + conf.DefaultPrivateKeyFile
	}
	privateKeyFile = utils.HomeDirExpand(privateKeyFile)
}

func loadPrivateKey() *asymmetric.PrivateKey {
	masterKey, err := readMasterKey()
	if err != nil {
		ConsoleLog.WithError(err).Error("read master key failed")
		SetExitStatus(1)
		Exit()
	}
	key, err := kms.LoadPrivateKey(privateKeyFile, []byte(masterKey))
	if err != nil {
		ConsoleLog.WithError(err).WithField("file", privateKeyFile).Error("load private key failed")
		SetExitStatus(1)
		Exit()
	}
	return key
}

// clientInit builds an api client, signing with the private key if withKey.
func clientInit(withKey bool) *client.Client {
	loadConfig()
	var key *asymmetric.PrivateKey
	if withKey {
		key = loadPrivateKey()
	}
	c, err := client.New(endpoint, key)
	if err != nil {
		ConsoleLog.WithError(err).Error("init client failed")
		SetExitStatus(1)
		Exit()
	}
	return c
}

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func parseAddress(s, what string) (addr proto.AccountAddress, ok bool) {
	var err error
	if addr, err = proto.AccountAddressFromString(s); err != nil {
		ConsoleLog.WithError(err).Errorf("%s address is not valid", what)
		SetExitStatus(1)
		return
	}
	return addr, true
}

func exitOnError(err error, msg string) {
	if err == nil {
		return
	}
	entry := ConsoleLog.WithError(err)
	if code := client.CodeOf(err); code != "" {
		entry = entry.WithField("code", code)
	}
	entry.Error(msg)
	SetExitStatus(1)
	Exit()
}
