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

// FinalizeHeader defines the finalization header, only the campaign creator
// may send it.
type FinalizeHeader struct {
	Sender   proto.AccountAddress
	Nonce    pi.AccountNonce
	Campaign proto.AccountAddress
}

// Finalize resolves an expired campaign and pays out on success.
type Finalize struct {
	FinalizeHeader
	pi.TransactionTypeMixin
	verifier.DefaultHashSignVerifierImpl
}

// NewFinalize returns new instance.
func NewFinalize(header *FinalizeHeader) *Finalize {
	return &Finalize{
		FinalizeHeader:       *header,
		TransactionTypeMixin: *pi.NewTransactionTypeMixin(pi.TransactionTypeFinalize),
	}
}

// GetAccountAddress implements interfaces/Transaction.GetAccountAddress.
func (t *Finalize) GetAccountAddress() proto.AccountAddress {
	return t.Sender
}

// GetAccountNonce implements interfaces/Transaction.GetAccountNonce.
func (t *Finalize) GetAccountNonce() pi.AccountNonce {
	return t.Nonce
}

// Sign implements interfaces/Transaction.Sign.
func (t *Finalize) Sign(signer *asymmetric.PrivateKey) (err error) {
	return t.DefaultHashSignVerifierImpl.Sign(&t.FinalizeHeader, signer)
}

// Verify implements interfaces/Transaction.Verify.
func (t *Finalize) Verify() (err error) {
	return t.DefaultHashSignVerifierImpl.Verify(&t.FinalizeHeader)
}

func init() {
	pi.RegisterTransaction(pi.TransactionTypeFinalize, (*Finalize)(nil))
}
