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
	"encoding/binary"

	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/proto"
)

var (
	counterSeed      = []byte("counter")
	campaignSeed     = []byte("campaign")
	custodySeed      = []byte("vault")
	contributionSeed = []byte("contribution")
)

func leUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// CounterSeeds returns the derivation seeds of the counter singleton.
func CounterSeeds() [][]byte {
	return [][]byte{counterSeed}
}

// CounterAddress returns the address of the counter singleton.
func CounterAddress() proto.AccountAddress {
	return crypto.DeriveAddress(CounterSeeds()...)
}

// CampaignSeeds returns the derivation seeds of a campaign.
func CampaignSeeds(creator proto.AccountAddress, id uint64) [][]byte {
	return [][]byte{campaignSeed, creator.Bytes(), leUint64(id)}
}

// CampaignAddress returns the address of the campaign with id created by creator.
func CampaignAddress(creator proto.AccountAddress, id uint64) proto.AccountAddress {
	return crypto.DeriveAddress(CampaignSeeds(creator, id)...)
}

// CustodySeeds returns the derivation seeds of the custody of a campaign,
// which are also the proof needed to move funds out of it.
func CustodySeeds(campaign proto.AccountAddress) [][]byte {
	return [][]byte{custodySeed, campaign.Bytes()}
}

// CustodyAddress returns the custody address of a campaign.
func CustodyAddress(campaign proto.AccountAddress) proto.AccountAddress {
	return crypto.DeriveAddress(CustodySeeds(campaign)...)
}

// CustodyProof returns the authority to move funds out of the custody of campaign.
func CustodyProof(campaign proto.AccountAddress) *crypto.SeedProof {
	return crypto.NewSeedProof(CustodySeeds(campaign)...)
}

// ContributionSeeds returns the derivation seeds of a contribution.
func ContributionSeeds(contributor, campaign proto.AccountAddress, createdAt int64) [][]byte {
	return [][]byte{contributionSeed, contributor.Bytes(), campaign.Bytes(), leUint64(uint64(createdAt))}
}

// ContributionAddress returns the address of a contribution made at createdAt.
func ContributionAddress(contributor, campaign proto.AccountAddress, createdAt int64) proto.AccountAddress {
	return crypto.DeriveAddress(ContributionSeeds(contributor, campaign, createdAt)...)
}
