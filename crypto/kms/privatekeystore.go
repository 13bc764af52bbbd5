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

// Package kms stores the password encrypted private key of a ledger identity.
package kms

import (
	"bytes"
	"errors"
	"io/ioutil"

	pkgerrors "github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/crypto/symmetric"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

var (
	// ErrNotKeyFile indicates specified key file is empty or of wrong size.
	ErrNotKeyFile = errors.New("private key file empty")
	// ErrHashNotMatch indicates specified key hash is wrong.
	ErrHashNotMatch = errors.New("private key hash not match")

	// keyFileSalt is mixed into the password derivation of every key file.
	keyFileSalt = []byte("crowdfund-private-key-salt")
)

// LoadPrivateKey loads private key from keyFilePath, and verifies the hash
// head.
func LoadPrivateKey(keyFilePath string, masterKey []byte) (key *asymmetric.PrivateKey, err error) {
	fileContent, err := ioutil.ReadFile(keyFilePath)
	if err != nil {
		log.WithField("path", keyFilePath).WithError(err).Error("read key file failed")
		return nil, pkgerrors.Wrap(err, "read key file failed")
	}

	decData, err := symmetric.DecryptWithPassword(fileContent, masterKey, keyFileSalt)
	if err != nil {
		if err == symmetric.ErrInputSize {
			return nil, ErrNotKeyFile
		}
		log.WithField("path", keyFilePath).WithError(err).Error("decrypt private key failed")
		return nil, pkgerrors.Wrap(err, "decrypt private key failed")
	}

	// double sha256 + private key
	if len(decData) != hash.HashBSize+asymmetric.PrivateKeyBytesLen {
		return nil, ErrNotKeyFile
	}
	computedHash := hash.DoubleHashB(decData[hash.HashBSize:])
	if !bytes.Equal(computedHash, decData[:hash.HashBSize]) {
		return nil, ErrHashNotMatch
	}

	key, _, err = asymmetric.PrivKeyFromBytes(decData[hash.HashBSize:])
	return
}

// SavePrivateKey saves private key with its hash on the head to keyFilePath,
// default perm is 0600.
func SavePrivateKey(keyFilePath string, key *asymmetric.PrivateKey, masterKey []byte) (err error) {
	serializedKey := key.Serialize()
	rawData := append(hash.DoubleHashB(serializedKey), serializedKey...)
	encKey, err := symmetric.EncryptWithPassword(rawData, masterKey, keyFileSalt)
	if err != nil {
		return pkgerrors.Wrap(err, "encrypt private key failed")
	}
	return ioutil.WriteFile(keyFilePath, encKey, 0600)
}

// GeneratePrivateKey generates a new secp256k1 private key.
func GeneratePrivateKey() (key *asymmetric.PrivateKey, err error) {
	key, _, err = asymmetric.GenSecp256k1KeyPair()
	return
}
