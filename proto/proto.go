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

// Package proto contains the identity and address types shared by every
// ledger package.
package proto

import (
	"encoding/json"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
)

// AccountAddress is the 32-byte address of an identity or of a derived record.
//
// Identities are the THash of a compressed public key; records live at
// addresses derived from fixed tags and identifying fields. Both share one key
// space, which is why custody accounts can hold a balance like any identity.
type AccountAddress hash.Hash

// String returns the hexadecimal form of the address.
func (z AccountAddress) String() string {
	return hash.Hash(z).String()
}

// Short returns the first n hexadecimal characters of the address.
func (z AccountAddress) Short(n int) string {
	return hash.Hash(z).Short(n)
}

// IsZero reports whether the address is unset.
func (z AccountAddress) IsZero() bool {
	return z == AccountAddress{}
}

// Bytes returns a copy of the address bytes.
func (z AccountAddress) Bytes() []byte {
	b := make([]byte, hash.HashSize)
	copy(b, z[:])
	return b
}

// MarshalHash marshals for hash.
func (z *AccountAddress) MarshalHash() (o []byte, err error) {
	return (*hash.Hash)(z).MarshalHash()
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *AccountAddress) Msgsize() (s int) {
	return (*hash.Hash)(z).Msgsize()
}

// MarshalJSON implements the json.Marshaler interface.
func (z AccountAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (z *AccountAddress) UnmarshalJSON(data []byte) (err error) {
	return (*hash.Hash)(z).UnmarshalJSON(data)
}

// MarshalYAML implements the yaml.Marshaler interface.
func (z AccountAddress) MarshalYAML() (interface{}, error) {
	return z.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (z *AccountAddress) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return (*hash.Hash)(z).UnmarshalYAML(unmarshal)
}

// AccountAddressFromString parses the hexadecimal form of an address.
func AccountAddressFromString(s string) (addr AccountAddress, err error) {
	var h *hash.Hash
	if h, err = hash.NewHashFromStr(s); err != nil {
		return
	}
	addr = AccountAddress(*h)
	return
}
