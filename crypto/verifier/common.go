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

// Package verifier implements the authority proof carried by every ledger
// transaction: a hash of the stable marshal of the header, the signee public
// key and its signature over that hash.
package verifier

import (
	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto"
	ca "github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/proto"
)

// MarshalHasher is implemented by transaction headers with a stable hash
// encoding.
type MarshalHasher interface {
	MarshalHash() ([]byte, error)
}

// DefaultHashSignVerifierImpl is the authority proof embedded in every ledger
// transaction. DataHash is the THash of the header and Signature signs
// DataHash with the key of the sender account.
type DefaultHashSignVerifierImpl struct {
	DataHash  hash.Hash
	Signee    *ca.PublicKey
	Signature *ca.Signature
}

func headerHash(mh MarshalHasher) (h hash.Hash, err error) {
	var enc []byte
	if enc, err = mh.MarshalHash(); err != nil {
		return h, errors.Wrap(err, "marshal header for hash failed")
	}
	return hash.THashH(enc), nil
}

// Hash returns the signed header hash, which also keys the transaction log.
func (i *DefaultHashSignVerifierImpl) Hash() hash.Hash {
	return i.DataHash
}

// GetSignee returns the public key which signed the hash.
func (i *DefaultHashSignVerifierImpl) GetSignee() *ca.PublicKey {
	return i.Signee
}

// SignerAddress returns the account address owned by the signee.
func (i *DefaultHashSignVerifierImpl) SignerAddress() (addr proto.AccountAddress, err error) {
	if i.Signee == nil {
		return addr, errors.WithStack(ErrMissingSignature)
	}
	return crypto.PubKeyHash(i.Signee)
}

// Sign hashes the header and signs the hash with signer. The proof is left
// untouched on failure.
func (i *DefaultHashSignVerifierImpl) Sign(mh MarshalHasher, signer *ca.PrivateKey) (err error) {
	var (
		h   hash.Hash
		sig *ca.Signature
	)
	if h, err = headerHash(mh); err != nil {
		return
	}
	if sig, err = signer.Sign(h[:]); err != nil {
		return errors.Wrap(err, "sign header hash failed")
	}
	i.DataHash, i.Signee, i.Signature = h, signer.PubKey(), sig
	return
}

// Verify checks that the proof is present, that DataHash matches the header
// and that Signature is valid for DataHash and Signee.
func (i *DefaultHashSignVerifierImpl) Verify(mh MarshalHasher) (err error) {
	if i.Signee == nil || i.Signature == nil {
		return errors.WithStack(ErrMissingSignature)
	}
	var h hash.Hash
	if h, err = headerHash(mh); err != nil {
		return
	}
	if !i.DataHash.IsEqual(&h) {
		return errors.Wrapf(ErrHashValueNotMatch, "header hash %s, signed %s", h.String(), i.DataHash.String())
	}
	if !i.Signature.Verify(h[:], i.Signee) {
		return errors.WithStack(ErrSignatureNotMatch)
	}
	return
}
