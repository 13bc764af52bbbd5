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

// CreateCampaignHeader defines the campaign creation header, the sender is
// the campaign creator.
type CreateCampaignHeader struct {
	Sender      proto.AccountAddress
	Nonce       pi.AccountNonce
	Title       string
	Description string
	FundingGoal uint64
}

// CreateCampaign registers a campaign and its custody.
type CreateCampaign struct {
	CreateCampaignHeader
	pi.TransactionTypeMixin
	verifier.DefaultHashSignVerifierImpl
}

// NewCreateCampaign returns new instance.
func NewCreateCampaign(header *CreateCampaignHeader) *CreateCampaign {
	return &CreateCampaign{
		CreateCampaignHeader: *header,
		TransactionTypeMixin: *pi.NewTransactionTypeMixin(pi.TransactionTypeCreateCampaign),
	}
}

// GetAccountAddress implements interfaces/Transaction.GetAccountAddress.
func (t *CreateCampaign) GetAccountAddress() proto.AccountAddress {
	return t.Sender
}

// GetAccountNonce implements interfaces/Transaction.GetAccountNonce.
func (t *CreateCampaign) GetAccountNonce() pi.AccountNonce {
	return t.Nonce
}

// Sign implements interfaces/Transaction.Sign.
func (t *CreateCampaign) Sign(signer *asymmetric.PrivateKey) (err error) {
	return t.DefaultHashSignVerifierImpl.Sign(&t.CreateCampaignHeader, signer)
}

// Verify implements interfaces/Transaction.Verify.
func (t *CreateCampaign) Verify() (err error) {
	return t.DefaultHashSignVerifierImpl.Verify(&t.CreateCampaignHeader)
}

func init() {
	pi.RegisterTransaction(pi.TransactionTypeCreateCampaign, (*CreateCampaign)(nil))
}
