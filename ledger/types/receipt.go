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
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/proto"
)

// Receipt describes the effect of an applied transaction.
type Receipt struct {
	TxHash    hash.Hash
	TxType    pi.TransactionType
	Sender    proto.AccountAddress
	Nonce     pi.AccountNonce
	AppliedAt int64

	// Created lists the addresses of records created by the transaction.
	Created []proto.AccountAddress
	// Affected lists the addresses of existing records mutated by the transaction.
	Affected []proto.AccountAddress

	CampaignID uint64
	// Success is the campaign outcome, only set by Finalize.
	Success bool
	// Moved is the amount of funds transferred by the transaction.
	Moved uint64
}
