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

package asymmetric

import (
	"encoding/hex"
	"encoding/json"

	ec "github.com/btcsuite/btcd/btcec"
	hsp "github.com/CovenantSQL/HashStablePack/marshalhash"
	"github.com/pkg/errors"
)

// ErrInvalidSignature indicates that the bytes do not hold a DER encoded signature.
var ErrInvalidSignature = errors.New("invalid signature")

// Signature is a type representing an ecdsa signature.
type Signature ec.Signature

// Sign generates an ECDSA signature for the provided hash (which should be the result of hashing
// a larger message) using the private key. Produced signature is deterministic (same message and
// same key yield the same signature) and canonical in accordance with RFC6979 and BIP0062.
func (p *PrivateKey) Sign(hash []byte) (*Signature, error) {
	s, err := (*ec.PrivateKey)(p).Sign(hash)
	return (*Signature)(s), err
}

// Verify reports whether s is a valid signature of hash by signee.
func (s *Signature) Verify(hash []byte, signee *PublicKey) bool {
	if s == nil || !signee.IsValid() {
		return false
	}
	return (*ec.Signature)(s).Verify(hash, (*ec.PublicKey)(signee))
}

// Serialize returns the DER encoding of the signature.
func (s *Signature) Serialize() []byte {
	return (*ec.Signature)(s).Serialize()
}

// ParseDERSignature recovers the signature from its DER encoding.
func ParseDERSignature(b []byte) (*Signature, error) {
	sig, err := ec.ParseDERSignature(b, ec.S256())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return (*Signature)(sig), nil
}

// IsEqual returns true if two signatures are equal.
func (s *Signature) IsEqual(o *Signature) bool {
	if s == nil || o == nil {
		return s == o
	}
	return (*ec.Signature)(s).IsEqual((*ec.Signature)(o))
}

// MarshalHash marshals for hash.
func (s *Signature) MarshalHash() (o []byte, err error) {
	if s == nil {
		err = ErrInvalidSignature
		return
	}
	return hsp.AppendBytes(nil, s.Serialize()), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Signature) MarshalBinary() ([]byte, error) {
	if s == nil || s.R == nil || s.S == nil {
		return nil, ErrInvalidSignature
	}
	return s.Serialize(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Signature) UnmarshalBinary(b []byte) (err error) {
	var sig *Signature
	if sig, err = ParseDERSignature(b); err != nil {
		return
	}
	*s = *sig
	return
}

// MarshalJSON implements json.Marshaler.
func (s *Signature) MarshalJSON() ([]byte, error) {
	if s == nil || s.R == nil || s.S == nil {
		return json.Marshal("")
	}
	return json.Marshal(hex.EncodeToString(s.Serialize()))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Signature) UnmarshalJSON(data []byte) (err error) {
	var (
		str string
		raw []byte
	)
	if err = json.Unmarshal(data, &str); err != nil {
		return
	}
	if raw, err = hex.DecodeString(str); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return s.UnmarshalBinary(raw)
}
