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
	"math"

	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
)

// The functions below hold the campaign state machine. They take the records
// involved explicitly, check every precondition in a fixed order and only
// then mutate the records. Moving funds and storing records is left to the
// caller.

// createCampaign issues the next id of counter and returns the new campaign
// and its empty custody.
func createCampaign(
	counter *types.Counter, creator proto.AccountAddress,
	title, description string, fundingGoal uint64, now int64, policy Policy,
) (campaign *types.Campaign, custody *types.Custody, err error) {
	switch {
	case len(title) == 0:
		err = ErrEmptyTitle
	case len(description) == 0:
		err = ErrEmptyDescription
	case len(title) > types.MaxTitleLength:
		err = ErrTitleTooLong
	case len(description) > types.MaxDescriptionLength:
		err = ErrDescriptionTooLong
	case fundingGoal == 0:
		err = ErrInvalidFundingGoal
	case counter.Full():
		err = ErrCounterFull
	case now > math.MaxInt64-policy.durationSeconds():
		err = ErrAmountOverflow
	}
	if err != nil {
		return
	}

	counter.Count++
	campaign = &types.Campaign{
		Creator:     creator,
		Title:       title,
		Description: description,
		FundingGoal: fundingGoal,
		Deadline:    now + policy.durationSeconds(),
		CampaignID:  counter.Count,
	}
	custody = &types.Custody{
		CampaignRef: types.CampaignAddress(creator, counter.Count),
	}
	return
}

// contribute adds amount to the locked amount of custody.
func contribute(campaign *types.Campaign, custody *types.Custody, amount uint64, now int64) (err error) {
	switch {
	case amount == 0:
		return ErrInvalidContributionAmount
	case campaign.Expired(now):
		return ErrProjectExpired
	case campaign.IsFinalized:
		return ErrProjectFinalized
	}
	locked := custody.LockedAmount
	if locked+amount < locked {
		return ErrAmountOverflow
	}
	custody.LockedAmount = locked + amount
	return
}

// finalize resolves campaign and returns the amount to pay out to the creator,
// zero if the campaign failed.
func finalize(
	campaign *types.Campaign, custody *types.Custody,
	caller proto.AccountAddress, now int64, policy Policy,
) (payout uint64, err error) {
	switch {
	case caller != campaign.Creator:
		return 0, ErrUnauthorizedCreator
	case campaign.IsFinalized:
		return 0, ErrProjectAlreadyFinalized
	case policy.EnforceDeadline && !campaign.Expired(now):
		return 0, ErrProjectNotExpired
	}

	campaign.IsSuccess = custody.LockedAmount >= campaign.FundingGoal
	campaign.IsFinalized = true
	if campaign.IsSuccess {
		payout = custody.LockedAmount
		custody.LockedAmount = 0
	}
	return
}

// claimRefund marks contribution refunded and returns the amount to send back
// to the contributor.
func claimRefund(
	campaignAddr proto.AccountAddress, campaign *types.Campaign, custody *types.Custody,
	contribution *types.Contribution, caller proto.AccountAddress,
) (refund uint64, err error) {
	switch {
	case !campaign.IsFinalized:
		return 0, ErrProjectNotFinalized
	case campaign.IsSuccess:
		return 0, ErrProjectSucceeded
	case contribution.IsRefunded:
		return 0, ErrAlreadyRefunded
	case contribution.Contributor != caller:
		return 0, ErrUnauthorizedContributor
	case contribution.CampaignRef != campaignAddr:
		return 0, ErrInvalidContribution
	}

	contribution.IsRefunded = true
	// Apply moves the full amount out of the custody account, so a refund
	// larger than the held funds fails there before this floor is stored.
	custody.LockedAmount = saturatingSub(custody.LockedAmount, contribution.Amount)
	refund = contribution.Amount
	return
}
