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

package types

import (
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/verifier"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/proto"
)

// ClaimRefundHeader defines the refund claim header, the sender must be the
// contributor of Contribution.
type ClaimRefundHeader struct {
	Sender       proto.AccountAddress
	Nonce        pi.AccountNonce
	Campaign     proto.AccountAddress
	Contribution proto.AccountAddress
}

// ClaimRefund returns one contribution of a failed campaign.
type ClaimRefund struct {
	ClaimRefundHeader
	pi.TransactionTypeMixin
	verifier.DefaultHashSignVerifierImpl
}

// NewClaimRefund returns new instance.
func NewClaimRefund(header *ClaimRefundHeader) *ClaimRefund {
	return &ClaimRefund{
		ClaimRefundHeader:    *header,
		TransactionTypeMixin: *pi.NewTransactionTypeMixin(pi.TransactionTypeClaimRefund),
	}
}

// GetAccountAddress implements interfaces/Transaction.GetAccountAddress.
func (t *ClaimRefund) GetAccountAddress() proto.AccountAddress {
	return t.Sender
}

// GetAccountNonce implements interfaces/Transaction.GetAccountNonce.
func (t *ClaimRefund) GetAccountNonce() pi.AccountNonce {
	return t.Nonce
}

// Sign implements interfaces/Transaction.Sign.
func (t *ClaimRefund) Sign(signer *asymmetric.PrivateKey) (err error) {
	return t.DefaultHashSignVerifierImpl.Sign(&t.ClaimRefundHeader, signer)
}

// Verify implements interfaces/Transaction.Verify.
func (t *ClaimRefund) Verify() (err error) {
	return t.DefaultHashSignVerifierImpl.Verify(&t.ClaimRefundHeader)
}

func init() {
	pi.RegisterTransaction(pi.TransactionTypeClaimRefund, (*ClaimRefund)(nil))
}
