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

package crypto

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/proto"
)

// derivationDomain separates derived record addresses from public key hashes.
var derivationDomain = []byte("crowdfund/derived-address")

// PublicKeyToAddress is an alias to function crypto.PubKeyHash
var PublicKeyToAddress = PubKeyHash

// PubKeyHash generates the account hash address for specified public key.
func PubKeyHash(pubKey *asymmetric.PublicKey) (addr proto.AccountAddress, err error) {
	if !pubKey.IsValid() {
		err = errors.New("invalid public key")
		return
	}
	var enc []byte
	if enc, err = pubKey.MarshalHash(); err != nil {
		return
	}
	addr = proto.AccountAddress(hash.THashH(enc))
	return
}

// DeriveAddress produces the stable address of a record from its seeds.
//
// Every seed is length-prefixed before hashing, so ("ab", "c") and ("a", "bc")
// never collide. The result carries no permission: see SeedProof.
func DeriveAddress(seeds ...[]byte) proto.AccountAddress {
	size := len(derivationDomain)
	for _, s := range seeds {
		size += 4 + len(s)
	}
	buf := make([]byte, 0, size)
	for _, s := range seeds {
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(len(s)))
		buf = append(buf, l[:]...)
		buf = append(buf, s...)
	}
	buf = append(buf, derivationDomain...)
	return proto.AccountAddress(hash.THashH(buf))
}

// SeedProof is the authority presented when moving value out of a derived
// record, which has no private key of its own.
type SeedProof struct {
	Seeds [][]byte
}

// NewSeedProof returns a proof built from the seeds of a derived address.
func NewSeedProof(seeds ...[]byte) *SeedProof {
	cpy := make([][]byte, len(seeds))
	for i, s := range seeds {
		cpy[i] = append([]byte(nil), s...)
	}
	return &SeedProof{Seeds: cpy}
}

// Address returns the address derived from the proof seeds.
func (p *SeedProof) Address() proto.AccountAddress {
	return DeriveAddress(p.Seeds...)
}

// Authorizes reports whether the proof derives exactly addr.
func (p *SeedProof) Authorizes(addr proto.AccountAddress) bool {
	if p == nil || len(p.Seeds) == 0 {
		return false
	}
	return p.Address() == addr
}
