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

// InitCounterHeader defines the counter initialization header.
type InitCounterHeader struct {
	Sender   proto.AccountAddress
	Nonce    pi.AccountNonce
	Capacity uint64
}

// InitCounter creates the campaign id counter.
type InitCounter struct {
	InitCounterHeader
	pi.TransactionTypeMixin
	verifier.DefaultHashSignVerifierImpl
}

// NewInitCounter returns new instance.
func NewInitCounter(header *InitCounterHeader) *InitCounter {
	return &InitCounter{
		InitCounterHeader:    *header,
		TransactionTypeMixin: *pi.NewTransactionTypeMixin(pi.TransactionTypeInitCounter),
	}
}

// GetAccountAddress implements interfaces/Transaction.GetAccountAddress.
func (t *InitCounter) GetAccountAddress() proto.AccountAddress {
	return t.Sender
}

// GetAccountNonce implements interfaces/Transaction.GetAccountNonce.
func (t *InitCounter) GetAccountNonce() pi.AccountNonce {
	return t.Nonce
}

// Sign implements interfaces/Transaction.Sign.
func (t *InitCounter) Sign(signer *asymmetric.PrivateKey) (err error) {
	return t.DefaultHashSignVerifierImpl.Sign(&t.InitCounterHeader, signer)
}

// Verify implements interfaces/Transaction.Verify.
func (t *InitCounter) Verify() (err error) {
	return t.DefaultHashSignVerifierImpl.Verify(&t.InitCounterHeader)
}

func init() {
	pi.RegisterTransaction(pi.TransactionTypeInitCounter, (*InitCounter)(nil))
}
