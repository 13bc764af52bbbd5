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

// Package crypto implements address derivation and the padding helpers used by
// the symmetric key file encryption.
package crypto

import (
	"bytes"
	"crypto/aes"
	"errors"
)

var errInvalidPadding = errors.New("invalid PKCS#7 padding")

// Implement PKCS#7 padding with block size of 16 (AES block size).

// AddPKCSPadding adds padding to a block of data.
func AddPKCSPadding(src []byte) []byte {
	padding := aes.BlockSize - len(src)%aes.BlockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(src, padtext...)
}

// RemovePKCSPadding removes padding from data that was added with AddPKCSPadding.
func RemovePKCSPadding(src []byte) ([]byte, error) {
	length := len(src)
	if length < aes.BlockSize {
		return nil, errInvalidPadding
	}
	padLength := int(src[length-1])
	if padLength == 0 || padLength > aes.BlockSize {
		return nil, errInvalidPadding
	}
	for _, b := range src[length-padLength:] {
		if int(b) != padLength {
			return nil, errInvalidPadding
		}
	}
	return src[:length-padLength], nil
}
