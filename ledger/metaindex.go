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

package ledger

import (
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
)

// safeAdd provides a safe add method with upper overflow check for uint64.
func safeAdd(x, y *uint64) (err error) {
	if *x+*y < *x {
		return ErrBalanceOverflow
	}
	*x += *y
	return
}

// safeSub provides a safe sub method with lower overflow check for uint64.
func safeSub(x, y *uint64) (err error) {
	if *x < *y {
		return ErrInsufficientBalance
	}
	*x -= *y
	return
}

// saturatingSub returns x-y, or 0 if y > x.
func saturatingSub(x, y uint64) uint64 {
	if y > x {
		return 0
	}
	return x - y
}

type indexEntry struct {
	campaign, contribution proto.AccountAddress
}

// metaIndex holds the records touched by the transaction being applied.
type metaIndex struct {
	counter       *types.Counter
	campaigns     map[proto.AccountAddress]*types.Campaign
	custodies     map[proto.AccountAddress]*types.Custody
	contributions map[proto.AccountAddress]*types.Contribution
	accounts      map[proto.AccountAddress]*types.Account
	indexed       []indexEntry
}

func newMetaIndex() *metaIndex {
	return &metaIndex{
		campaigns:     make(map[proto.AccountAddress]*types.Campaign),
		custodies:     make(map[proto.AccountAddress]*types.Custody),
		contributions: make(map[proto.AccountAddress]*types.Contribution),
		accounts:      make(map[proto.AccountAddress]*types.Account),
	}
}

func (i *metaIndex) empty() bool {
	return i.counter == nil &&
		len(i.campaigns) == 0 &&
		len(i.custodies) == 0 &&
		len(i.contributions) == 0 &&
		len(i.accounts) == 0 &&
		len(i.indexed) == 0
}
