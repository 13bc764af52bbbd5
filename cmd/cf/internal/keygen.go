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
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/kms"
)

var forceKeygen bool

// CmdKeygen is cf keygen command entity.
var CmdKeygen = &Command{
	UsageLine: "cf keygen [-key file] [-password pass | -no-password] [-force]",
	Short:     "generate a password protected private key",
	Long: `
Keygen generates a secp256k1 private key, encrypts it with the master key and
saves it to the key file. The account address of the key is printed.
e.g.
    cf keygen -key ~/.crowdfund/private.key
`,
}

// CmdAddress is cf address command entity.
var CmdAddress = &Command{
	UsageLine: "cf address [-key file] [-password pass | -no-password]",
	Short:     "print the account address of the private key",
	Long: `
Address loads the private key file and prints its account address and public key.
`,
}

func init() {
	CmdKeygen.Run = runKeygen
	CmdAddress.Run = runAddress

	for _, cmd := range []*Command{CmdKeygen, CmdAddress} {
		addCommonFlags(cmd)
		addKeyFlags(cmd)
	}
	CmdKeygen.Flag.BoolVar(&forceKeygen, "force", false, "Overwrite an existing key file without asking")
}

func askOverwrite(path string) bool {
	if forceKeygen {
		return true
	}
	fmt.Printf("Private key file \"%s\" already exists. \nDo you want to delete it? (y or n, press Enter for default n):\n",
		path)
	reader := bufio.NewReader(os.Stdin)
	t, err := reader.ReadString('\n')
	if err != nil {
		ConsoleLog.WithError(err).Error("unexpected error")
		SetExitStatus(1)
		Exit()
	}
	t = strings.TrimSpace(t)
	return t == "y" || t == "yes"
}

func runKeygen(cmd *Command, args []string) {
	loadConfig()
	if _, err := os.Stat(privateKeyFile); err == nil && !askOverwrite(privateKeyFile) {
		return
	}
	if err := os.MkdirAll(filepath.Dir(privateKeyFile), 0700); err != nil {
		ConsoleLog.WithError(err).Error("create key directory failed")
		SetExitStatus(1)
		return
	}

	privateKey, err := kms.GeneratePrivateKey()
	if err != nil {
		ConsoleLog.WithError(err).Error("generate key pair failed")
		SetExitStatus(1)
		return
	}
	masterKey, err := readMasterKey()
	if err != nil {
		ConsoleLog.WithError(err).Error("read master key failed")
		SetExitStatus(1)
		return
	}
	if err = kms.SavePrivateKey(privateKeyFile, privateKey, []byte(masterKey)); err != nil {
		ConsoleLog.WithError(err).Error("save generated keypair failed")
		SetExitStatus(1)
		return
	}
	addr, err := crypto.PubKeyHash(privateKey.PubKey())
	if err != nil {
		ConsoleLog.WithError(err).Error("derive address failed")
		SetExitStatus(1)
		return
	}

	fmt.Printf("Private key file: %s\n", privateKeyFile)
	fmt.Printf("Account address: %s\n", addr.String())
}

func runAddress(cmd *Command, args []string) {
	loadConfig()
	privateKey := loadPrivateKey()
	addr, err := crypto.PubKeyHash(privateKey.PubKey())
	if err != nil {
		ConsoleLog.WithError(err).Error("derive address failed")
		SetExitStatus(1)
		return
	}
	fmt.Printf("Account address: %s\n", addr.String())
	fmt.Printf("Public key's hex: %s\n", hex.EncodeToString(privateKey.PubKey().Serialize()))
}
