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

const (
	// PrivateKeyBytesLen defines the length in bytes of a serialized private key.
	PrivateKeyBytesLen = 32
	// PublicKeyBytesLen defines the length in bytes of a compressed public key.
	PublicKeyBytesLen = ec.PubKeyBytesLenCompressed
)

var (
	// ErrInvalidPublicKey indicates that the bytes do not hold a secp256k1 public key.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidPrivateKey indicates that the bytes do not hold a secp256k1 private key.
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// PrivateKey wraps an ec.PrivateKey as a convenience mainly for signing things with the
// private key without having to directly import the btcec package.
type PrivateKey ec.PrivateKey

// PublicKey wraps an ec.PublicKey as a convenience mainly for verifying signatures with the
// public key without having to directly import the btcec package.
type PublicKey ec.PublicKey

// GenSecp256k1KeyPair generates a new secp256k1 key pair.
func GenSecp256k1KeyPair() (privateKey *PrivateKey, publicKey *PublicKey, err error) {
	var pk *ec.PrivateKey
	if pk, err = ec.NewPrivateKey(ec.S256()); err != nil {
		err = errors.Wrap(err, "generate secp256k1 key pair failed")
		return
	}
	privateKey = (*PrivateKey)(pk)
	publicKey = privateKey.PubKey()
	return
}

// PrivKeyFromBytes recovers the key pair from a serialized private key.
func PrivKeyFromBytes(b []byte) (*PrivateKey, *PublicKey, error) {
	if len(b) != PrivateKeyBytesLen {
		return nil, nil, ErrInvalidPrivateKey
	}
	priv, pub := ec.PrivKeyFromBytes(ec.S256(), b)
	return (*PrivateKey)(priv), (*PublicKey)(pub), nil
}

// PubKey returns the public key of p.
func (p *PrivateKey) PubKey() *PublicKey {
	return (*PublicKey)((*ec.PrivateKey)(p).PubKey())
}

// Serialize returns the private key number d as a big-endian binary-encoded number, padded to a
// length of 32 bytes.
func (p *PrivateKey) Serialize() []byte {
	return (*ec.PrivateKey)(p).Serialize()
}

// ParsePubKey recovers the public key from its compressed or uncompressed form.
func ParsePubKey(b []byte) (*PublicKey, error) {
	k, err := ec.ParsePubKey(b, ec.S256())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return (*PublicKey)(k), nil
}

// NewPublicKeyFromStr recovers the public key from its hexadecimal compressed form.
func NewPublicKeyFromStr(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return ParsePubKey(b)
}

// Serialize returns the compressed form of the public key.
func (k *PublicKey) Serialize() []byte {
	return (*ec.PublicKey)(k).SerializeCompressed()
}

// IsValid reports whether the key is a usable point.
func (k *PublicKey) IsValid() bool {
	return k != nil && k.X != nil && k.Y != nil && k.Curve != nil
}

// IsEqual reports whether two public keys are the same point.
func (k *PublicKey) IsEqual(o *PublicKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return (*ec.PublicKey)(k).IsEqual((*ec.PublicKey)(o))
}

// String returns the hexadecimal compressed form of the key.
func (k *PublicKey) String() string {
	if !k.IsValid() {
		return ""
	}
	return hex.EncodeToString(k.Serialize())
}

// MarshalHash marshals for hash.
func (k *PublicKey) MarshalHash() (o []byte, err error) {
	if !k.IsValid() {
		err = ErrInvalidPublicKey
		return
	}
	return hsp.AppendBytes(nil, k.Serialize()), nil
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (k *PublicKey) Msgsize() (s int) {
	return hsp.BytesPrefixSize + PublicKeyBytesLen
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *PublicKey) MarshalBinary() ([]byte, error) {
	if !k.IsValid() {
		return nil, ErrInvalidPublicKey
	}
	return k.Serialize(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *PublicKey) UnmarshalBinary(b []byte) (err error) {
	var pk *PublicKey
	if pk, err = ParsePubKey(b); err != nil {
		return
	}
	*k = *pk
	return
}

// MarshalJSON implements json.Marshaler.
func (k *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *PublicKey) UnmarshalJSON(data []byte) (err error) {
	var (
		s  string
		pk *PublicKey
	)
	if err = json.Unmarshal(data, &s); err != nil {
		return
	}
	if pk, err = NewPublicKeyFromStr(s); err != nil {
		return
	}
	*k = *pk
	return
}

// MarshalYAML implements the yaml.Marshaler interface.
func (k *PublicKey) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (k *PublicKey) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var (
		s  string
		pk *PublicKey
	)
	if err = unmarshal(&s); err != nil {
		return
	}
	if pk, err = NewPublicKeyFromStr(s); err != nil {
		return
	}
	*k = *pk
	return
}
