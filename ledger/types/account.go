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
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/proto"
)

// Account is an external balance account. Identities and custody addresses
// both own one.
type Account struct {
	Address   proto.AccountAddress
	Balance   uint64
	NextNonce pi.AccountNonce
}

// Serialize returns the fixed width layout of the account.
func (a *Account) Serialize() []byte {
	w := newRecordWriter(RecordKindAccount, addressSize+8+4)
	w.putAddress(a.Address)
	w.putUint64(a.Balance)
	w.putUint32(uint32(a.NextNonce))
	return w.buf
}

// Deserialize decodes an account written by Serialize.
func (a *Account) Deserialize(enc []byte) error {
	r := newRecordReader(RecordKindAccount, enc)
	a.Address = r.address()
	a.Balance = r.uint64()
	a.NextNonce = pi.AccountNonce(r.uint32())
	return r.finish()
}
