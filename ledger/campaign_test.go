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
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
)

func testAddress(s string) proto.AccountAddress {
	return proto.AccountAddress(hash.THashH([]byte(s)))
}

func TestCreateCampaign(t *testing.T) {
	Convey("Given a counter with capacity 2", t, func() {
		var (
			creator = testAddress("creator")
			policy  = NewTestPolicy(time.Hour, true)
			counter = &types.Counter{Capacity: 2}
		)
		Convey("The input checks should run in a fixed order", func() {
			cases := []struct {
				title, description string
				goal               uint64
				expected           error
			}{
				{"", "", 0, ErrEmptyTitle},
				{"t", "", 0, ErrEmptyDescription},
				{strings.Repeat("t", 101), strings.Repeat("d", 1001), 0, ErrTitleTooLong},
				{strings.Repeat("t", 100), strings.Repeat("d", 1001), 0, ErrDescriptionTooLong},
				{strings.Repeat("t", 100), strings.Repeat("d", 1000), 0, ErrInvalidFundingGoal},
			}
			for _, c := range cases {
				campaign, custody, err := createCampaign(counter, creator, c.title, c.description, c.goal, 0, policy)
				So(err, ShouldEqual, c.expected)
				So(campaign, ShouldBeNil)
				So(custody, ShouldBeNil)
			}
			So(counter.Count, ShouldEqual, 0)
		})
		Convey("Campaigns should take consecutive ids until the counter is full", func() {
			campaign, custody, err := createCampaign(counter, creator, "a", "b", 10, 100, policy)
			So(err, ShouldBeNil)
			So(campaign.CampaignID, ShouldEqual, 1)
			So(campaign.Deadline, ShouldEqual, 100+3600)
			So(campaign.Creator, ShouldResemble, creator)
			So(campaign.IsFinalized, ShouldBeFalse)
			So(campaign.IsSuccess, ShouldBeFalse)
			So(custody.LockedAmount, ShouldEqual, 0)
			So(custody.CampaignRef, ShouldResemble, types.CampaignAddress(creator, 1))

			campaign, _, err = createCampaign(counter, creator, "a", "b", 10, 100, policy)
			So(err, ShouldBeNil)
			So(campaign.CampaignID, ShouldEqual, 2)

			_, _, err = createCampaign(counter, creator, "a", "b", 10, 100, policy)
			So(err, ShouldEqual, ErrCounterFull)
			So(counter.Count, ShouldEqual, 2)
		})
		Convey("Input errors should win over a full counter", func() {
			counter.Count = 2
			_, _, err := createCampaign(counter, creator, "a", "b", 0, 100, policy)
			So(err, ShouldEqual, ErrInvalidFundingGoal)
		})
		Convey("A deadline past the time range should overflow", func() {
			_, _, err := createCampaign(counter, creator, "a", "b", 10, math.MaxInt64-10, policy)
			So(err, ShouldEqual, ErrAmountOverflow)
			So(counter.Count, ShouldEqual, 0)
		})
	})
}

func TestContribute(t *testing.T) {
	Convey("Given an open campaign", t, func() {
		campaign := &types.Campaign{FundingGoal: 1000, Deadline: 200}
		custody := &types.Custody{}

		Convey("Contributions should accumulate in the custody", func() {
			So(contribute(campaign, custody, 400, 100), ShouldBeNil)
			So(contribute(campaign, custody, 700, 199), ShouldBeNil)
			So(custody.LockedAmount, ShouldEqual, 1100)
		})
		Convey("The checks should run in a fixed order", func() {
			campaign.IsFinalized = true
			So(contribute(campaign, custody, 0, 300), ShouldEqual, ErrInvalidContributionAmount)
			So(contribute(campaign, custody, 1, 200), ShouldEqual, ErrProjectExpired)
			So(contribute(campaign, custody, 1, 100), ShouldEqual, ErrProjectFinalized)
			So(custody.LockedAmount, ShouldEqual, 0)
		})
		Convey("An overflowing locked amount should be rejected", func() {
			custody.LockedAmount = math.MaxUint64 - 1
			So(contribute(campaign, custody, 2, 100), ShouldEqual, ErrAmountOverflow)
			So(custody.LockedAmount, ShouldEqual, uint64(math.MaxUint64-1))
		})
	})
}

func TestFinalize(t *testing.T) {
	Convey("Given a campaign with a deadline at 200", t, func() {
		var (
			creator  = testAddress("creator")
			other    = testAddress("other")
			enforced = NewTestPolicy(time.Hour, true)
			relaxed  = NewTestPolicy(time.Hour, false)
			campaign = &types.Campaign{Creator: creator, FundingGoal: 1000, Deadline: 200}
			custody  = &types.Custody{LockedAmount: 1000}
		)
		Convey("Only the creator may finalize", func() {
			_, err := finalize(campaign, custody, other, 300, enforced)
			So(err, ShouldEqual, ErrUnauthorizedCreator)
			So(campaign.IsFinalized, ShouldBeFalse)
		})
		Convey("An enforced deadline should block early finalization", func() {
			_, err := finalize(campaign, custody, creator, 199, enforced)
			So(err, ShouldEqual, ErrProjectNotExpired)

			payout, err := finalize(campaign, custody, creator, 200, enforced)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 1000)
			So(campaign.IsSuccess, ShouldBeTrue)
			So(custody.LockedAmount, ShouldEqual, 0)

			_, err = finalize(campaign, custody, creator, 300, enforced)
			So(err, ShouldEqual, ErrProjectAlreadyFinalized)
		})
		Convey("A relaxed policy should allow finalization before the deadline", func() {
			custody.LockedAmount = 999
			payout, err := finalize(campaign, custody, creator, 0, relaxed)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 0)
			So(campaign.IsFinalized, ShouldBeTrue)
			So(campaign.IsSuccess, ShouldBeFalse)
			So(custody.LockedAmount, ShouldEqual, 999)
		})
	})
}

func TestClaimRefund(t *testing.T) {
	Convey("Given a failed campaign with one contribution", t, func() {
		var (
			creator      = testAddress("creator")
			contributor  = testAddress("contributor")
			campaignAddr = types.CampaignAddress(creator, 1)
			campaign     = &types.Campaign{Creator: creator, FundingGoal: 1000, IsFinalized: true}
			custody      = &types.Custody{CampaignRef: campaignAddr, LockedAmount: 300}
			contribution = &types.Contribution{
				Contributor: contributor,
				CampaignRef: campaignAddr,
				Amount:      300,
			}
		)
		Convey("The contributor should get the amount back once", func() {
			refund, err := claimRefund(campaignAddr, campaign, custody, contribution, contributor)
			So(err, ShouldBeNil)
			So(refund, ShouldEqual, 300)
			So(contribution.IsRefunded, ShouldBeTrue)
			So(custody.LockedAmount, ShouldEqual, 0)

			_, err = claimRefund(campaignAddr, campaign, custody, contribution, contributor)
			So(err, ShouldEqual, ErrAlreadyRefunded)
		})
		Convey("The checks should run in a fixed order", func() {
			other := testAddress("other")
			contribution.CampaignRef = testAddress("elsewhere")
			_, err := claimRefund(campaignAddr, campaign, custody, contribution, other)
			So(err, ShouldEqual, ErrUnauthorizedContributor)
			_, err = claimRefund(campaignAddr, campaign, custody, contribution, contributor)
			So(err, ShouldEqual, ErrInvalidContribution)

			campaign.IsSuccess = true
			_, err = claimRefund(campaignAddr, campaign, custody, contribution, other)
			So(err, ShouldEqual, ErrProjectSucceeded)

			campaign.IsFinalized = false
			_, err = claimRefund(campaignAddr, campaign, custody, contribution, other)
			So(err, ShouldEqual, ErrProjectNotFinalized)

			So(contribution.IsRefunded, ShouldBeFalse)
			So(custody.LockedAmount, ShouldEqual, 300)
		})
		Convey("The locked amount should saturate at zero", func() {
			custody.LockedAmount = 100
			refund, err := claimRefund(campaignAddr, campaign, custody, contribution, contributor)
			So(err, ShouldBeNil)
			So(refund, ShouldEqual, 300)
			So(custody.LockedAmount, ShouldEqual, 0)
		})
	})
}
