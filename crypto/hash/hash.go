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

package hash

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	hsp "github.com/CovenantSQL/HashStablePack/marshalhash"
)

// HashSize of array used to store hashes.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hex string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a hash
// string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is a THash digest.
type Hash [HashSize]byte

// String returns the hexadecimal form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first n hexadecimal characters, handy for logging.
func (h Hash) Short(n int) string {
	s := h.String()
	if n < len(s) {
		return s[:n]
	}
	return s
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// CloneBytes returns a copy of the bytes which represent the hash.
func (h *Hash) CloneBytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalHash marshals for hash.
func (h *Hash) MarshalHash() (o []byte, err error) {
	return h.CloneBytes(), nil
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (h *Hash) Msgsize() (s int) {
	return hsp.BytesPrefixSize + HashSize
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// MarshalJSON implements the json.Marshaler interface.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *Hash) UnmarshalJSON(data []byte) (err error) {
	var s string
	if err = json.Unmarshal(data, &s); err != nil {
		return
	}
	return Decode(h, s)
}

// MarshalYAML implements the yaml.Marshaler interface.
func (h Hash) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (h *Hash) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var s string
	if err = unmarshal(&s); err != nil {
		return
	}
	return Decode(h, s)
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	if err := sh.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from its full hexadecimal string.
func NewHashFromStr(s string) (*Hash, error) {
	ret := new(Hash)
	if err := Decode(ret, s); err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hexadecimal string encoding of a Hash to a destination.
func Decode(dst *Hash, src string) (err error) {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}
	if len(src) != MaxHashStringSize {
		return fmt.Errorf("invalid hash string length of %v, want %v", len(src), MaxHashStringSize)
	}
	var tmp Hash
	if _, err = hex.Decode(tmp[:], []byte(src)); err != nil {
		return
	}
	*dst = tmp
	return
}
