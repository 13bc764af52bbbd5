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

// ContributeHeader defines the contribution header, the sender is the
// contributor whose balance is locked.
type ContributeHeader struct {
	Sender   proto.AccountAddress
	Nonce    pi.AccountNonce
	Campaign proto.AccountAddress
	Amount   uint64
}

// Contribute locks funds of the sender into the campaign custody.
type Contribute struct {
	ContributeHeader
	pi.TransactionTypeMixin
	verifier.DefaultHashSignVerifierImpl
}

// NewContribute returns new instance.
func NewContribute(header *ContributeHeader) *Contribute {
	return &Contribute{
		ContributeHeader:     *header,
		TransactionTypeMixin: *pi.NewTransactionTypeMixin(pi.TransactionTypeContribute),
	}
}

// GetAccountAddress implements interfaces/Transaction.GetAccountAddress.
func (t *Contribute) GetAccountAddress() proto.AccountAddress {
	return t.Sender
}

// GetAccountNonce implements interfaces/Transaction.GetAccountNonce.
func (t *Contribute) GetAccountNonce() pi.AccountNonce {
	return t.Nonce
}

// Sign implements interfaces/Transaction.Sign.
func (t *Contribute) Sign(signer *asymmetric.PrivateKey) (err error) {
	return t.DefaultHashSignVerifierImpl.Sign(&t.ContributeHeader, signer)
}

// Verify implements interfaces/Transaction.Verify.
func (t *Contribute) Verify() (err error) {
	return t.DefaultHashSignVerifierImpl.Verify(&t.ContributeHeader)
}

func init() {
	pi.RegisterTransaction(pi.TransactionTypeContribute, (*Contribute)(nil))
}
