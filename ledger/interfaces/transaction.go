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

// Package interfaces defines the transaction contract of the crowdfunding
// ledger and the registry used to encode and decode concrete transactions.
package interfaces

import (
	"encoding/binary"
	"time"

	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/proto"
)

// AccountNonce is the per account transaction sequence.
type AccountNonce uint32

// TransactionType identifies a ledger entry point.
type TransactionType uint32

const (
	// TransactionTypeInitCounter creates the campaign id counter.
	TransactionTypeInitCounter TransactionType = iota + 1
	// TransactionTypeCreateCampaign registers a new campaign and its custody account.
	TransactionTypeCreateCampaign
	// TransactionTypeContribute locks funds into a campaign custody account.
	TransactionTypeContribute
	// TransactionTypeFinalize resolves an expired campaign.
	TransactionTypeFinalize
	// TransactionTypeClaimRefund returns a contribution of a failed campaign.
	TransactionTypeClaimRefund
	// TransactionTypeNumber is the number of transaction types.
	TransactionTypeNumber
)

// Bytes returns the big endian form of the type.
func (t TransactionType) Bytes() (b []byte) {
	b = make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(t))
	return
}

// FromBytes reads a type written by Bytes.
func FromBytes(b []byte) TransactionType {
	return TransactionType(binary.BigEndian.Uint32(b))
}

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeInitCounter:
		return "InitCounter"
	case TransactionTypeCreateCampaign:
		return "CreateCampaign"
	case TransactionTypeContribute:
		return "Contribute"
	case TransactionTypeFinalize:
		return "Finalize"
	case TransactionTypeClaimRefund:
		return "ClaimRefund"
	default:
		return "Unknown"
	}
}

// Transaction is the interface implemented by an object that can be verified
// and applied by the ledger.
type Transaction interface {
	GetAccountAddress() proto.AccountAddress
	GetAccountNonce() AccountNonce
	GetTransactionType() TransactionType
	GetTimestamp() time.Time
	GetSignee() *asymmetric.PublicKey
	SignerAddress() (proto.AccountAddress, error)
	Hash() hash.Hash
	Sign(signer *asymmetric.PrivateKey) error
	Verify() error
}
