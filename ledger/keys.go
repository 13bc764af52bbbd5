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
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/proto"
)

var (
	// recordKeyPrefix prefixes Counter, Campaign, Custody and Contribution records.
	recordKeyPrefix = []byte{'R'}
	// accountKeyPrefix prefixes external balance accounts.
	accountKeyPrefix = []byte{'A'}
	// indexKeyPrefix prefixes the campaign to contribution index.
	indexKeyPrefix = []byte{'I'}
	// txKeyPrefix prefixes the applied transaction log.
	txKeyPrefix = []byte{'T'}
	// genesisKey marks a store seeded with the genesis accounts.
	genesisKey = []byte{'M', 'G'}
)

func prefixedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func recordKey(addr proto.AccountAddress) []byte {
	return prefixedKey(recordKeyPrefix, addr[:])
}

func accountKey(addr proto.AccountAddress) []byte {
	return prefixedKey(accountKeyPrefix, addr[:])
}

func campaignIndexPrefix(campaign proto.AccountAddress) []byte {
	return prefixedKey(indexKeyPrefix, campaign[:])
}

func indexKey(campaign, contribution proto.AccountAddress) []byte {
	return prefixedKey(indexKeyPrefix, campaign[:], contribution[:])
}

func txKey(h hash.Hash) []byte {
	return prefixedKey(txKeyPrefix, h[:])
}
