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

// Package symmetric implements password based AES-256-CBC encryption used for
// key files.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
)

var (
	// ErrInputSize indicates cipher data size is not expected,
	// maybe data is not encrypted by EncryptWithPassword in this package.
	ErrInputSize = errors.New("cipher data size not match")
)

// keyDerivation does sha256 twice to password+salt.
func keyDerivation(password []byte, salt []byte) []byte {
	in := make([]byte, 0, len(password)+len(salt))
	in = append(in, password...)
	in = append(in, salt...)
	return hash.DoubleHashB(in)
}

// EncryptWithPassword encrypts data with given password, iv will be placed
// at head of cipher data.
func EncryptWithPassword(in, password []byte, salt []byte) (out []byte, err error) {
	keyE := keyDerivation(password, salt)
	paddedIn := crypto.AddPKCSPadding(append([]byte(nil), in...))
	// IV + padded cipher data
	out = make([]byte, aes.BlockSize+len(paddedIn))

	iv := out[:aes.BlockSize]
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	// keyE is 32 bytes so there is no error here
	block, _ := aes.NewCipher(keyE)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], paddedIn)
	return out, nil
}

// DecryptWithPassword decrypts data with given password.
func DecryptWithPassword(in, password []byte, salt []byte) (out []byte, err error) {
	// IV + padded cipher data == (n + 1 + 1) * aes.BlockSize
	if len(in)%aes.BlockSize != 0 || len(in)/aes.BlockSize < 2 {
		return nil, ErrInputSize
	}
	keyE := keyDerivation(password, salt)
	iv := in[:aes.BlockSize]

	block, _ := aes.NewCipher(keyE)
	plain := make([]byte, len(in)-aes.BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, in[aes.BlockSize:])
	return crypto.RemovePKCSPadding(plain)
}
