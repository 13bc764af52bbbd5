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
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/crypto/verifier"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/storage"
)

const testEpoch = 1500000000

type testUser struct {
	priv *asymmetric.PrivateKey
	addr proto.AccountAddress
}

func newTestUser() (u *testUser) {
	priv, pub, err := asymmetric.GenSecp256k1KeyPair()
	So(err, ShouldBeNil)
	addr, err := crypto.PubKeyHash(pub)
	So(err, ShouldBeNil)
	return &testUser{priv: priv, addr: addr}
}

type testLedger struct {
	*Ledger
	st    *storage.Storage
	clock *ManualClock
}

func newTestLedger(policy Policy, capacity uint64, users ...*testUser) *testLedger {
	st, err := storage.OpenMemory(storage.DefaultCacheSize)
	So(err, ShouldBeNil)
	clock := NewManualClock(testEpoch)
	l := NewLedger(st, policy, clock)

	accounts := make([]GenesisAccount, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, GenesisAccount{Address: u.addr, Balance: 10000})
	}
	applied, err := l.InitGenesis(capacity, accounts)
	So(err, ShouldBeNil)
	So(applied, ShouldBeTrue)
	return &testLedger{Ledger: l, st: st, clock: clock}
}

// apply signs tx by u with the next nonce of u and applies it.
func (l *testLedger) apply(u *testUser, build func(nonce pi.AccountNonce) pi.Transaction) (*types.Receipt, error) {
	nonce, err := l.NextNonce(u.addr)
	So(err, ShouldBeNil)
	tx := build(nonce)
	So(tx.Sign(u.priv), ShouldBeNil)
	return l.Apply(tx)
}

func (l *testLedger) initCounter(u *testUser, capacity uint64) (*types.Receipt, error) {
	return l.apply(u, func(nonce pi.AccountNonce) pi.Transaction {
		return types.NewInitCounter(&types.InitCounterHeader{
			Sender: u.addr, Nonce: nonce, Capacity: capacity,
		})
	})
}

func (l *testLedger) create(u *testUser, title, description string, goal uint64) (*types.Receipt, error) {
	return l.apply(u, func(nonce pi.AccountNonce) pi.Transaction {
		return types.NewCreateCampaign(&types.CreateCampaignHeader{
			Sender: u.addr, Nonce: nonce, Title: title, Description: description, FundingGoal: goal,
		})
	})
}

func (l *testLedger) contribute(u *testUser, campaign proto.AccountAddress, amount uint64) (*types.Receipt, error) {
	return l.apply(u, func(nonce pi.AccountNonce) pi.Transaction {
		return types.NewContribute(&types.ContributeHeader{
			Sender: u.addr, Nonce: nonce, Campaign: campaign, Amount: amount,
		})
	})
}

func (l *testLedger) finalize(u *testUser, campaign proto.AccountAddress) (*types.Receipt, error) {
	return l.apply(u, func(nonce pi.AccountNonce) pi.Transaction {
		return types.NewFinalize(&types.FinalizeHeader{
			Sender: u.addr, Nonce: nonce, Campaign: campaign,
		})
	})
}

func (l *testLedger) refund(u *testUser, campaign, contribution proto.AccountAddress) (*types.Receipt, error) {
	return l.apply(u, func(nonce pi.AccountNonce) pi.Transaction {
		return types.NewClaimRefund(&types.ClaimRefundHeader{
			Sender: u.addr, Nonce: nonce, Campaign: campaign, Contribution: contribution,
		})
	})
}

func (l *testLedger) balance(addr proto.AccountAddress) uint64 {
	o, err := l.Account(addr)
	if errors.Cause(err) == ErrAccountNotFound {
		return 0
	}
	So(err, ShouldBeNil)
	return o.Balance
}

// checkCustody asserts the custody account holds exactly the locked amount.
func (l *testLedger) checkCustody(campaign proto.AccountAddress) uint64 {
	custody, err := l.Custody(types.CustodyAddress(campaign))
	So(err, ShouldBeNil)
	So(l.balance(types.CustodyAddress(campaign)), ShouldEqual, custody.LockedAmount)
	return custody.LockedAmount
}

// snapshot returns every key and value of the store.
func (l *testLedger) snapshot() map[string]string {
	m := make(map[string]string)
	So(l.st.Iterate(nil, func(k, v []byte) error {
		m[string(k)] = string(v)
		return nil
	}), ShouldBeNil)
	return m
}

// overwrite stores rec at addr bypassing Apply.
func (l *testLedger) overwrite(addr proto.AccountAddress, rec interface{ Serialize() []byte }) {
	b := storage.NewBatch()
	b.Put(recordKey(addr), rec.Serialize())
	So(l.st.Write(b), ShouldBeNil)
}

func (l *testLedger) total(users ...*testUser) (sum uint64) {
	for _, u := range users {
		sum += l.balance(u.addr)
	}
	return
}

func TestScenarios(t *testing.T) {
	Convey("Given a production ledger with a creator and two contributors", t, func() {
		var (
			creator = newTestUser()
			alice   = newTestUser()
			bob     = newTestUser()
			l       = newTestLedger(ProductionPolicy(), 10, creator, alice, bob)
		)
		defer l.st.Close()

		r, err := l.create(creator, "Solar roof", "Panels for the community hall", 1000)
		So(err, ShouldBeNil)
		campaign := types.CampaignAddress(creator.addr, 1)
		So(r.CampaignID, ShouldEqual, 1)
		So(r.Created, ShouldResemble, []proto.AccountAddress{campaign, types.CustodyAddress(campaign)})
		So(l.checkCustody(campaign), ShouldEqual, 0)
		c, err := l.Campaign(campaign)
		So(err, ShouldBeNil)
		So(c.Deadline, ShouldEqual, testEpoch+30*24*3600)

		Convey("Scenario A: a funded campaign should pay the creator", func() {
			r, err := l.contribute(alice, campaign, 400)
			So(err, ShouldBeNil)
			So(r.Moved, ShouldEqual, 400)
			So(l.checkCustody(campaign), ShouldEqual, 400)
			l.clock.Advance(time.Second)
			_, err = l.contribute(bob, campaign, 700)
			So(err, ShouldBeNil)
			So(l.checkCustody(campaign), ShouldEqual, 1100)

			_, err = l.finalize(creator, campaign)
			So(errors.Cause(err), ShouldEqual, ErrProjectNotExpired)

			l.clock.Set(c.Deadline)
			_, err = l.contribute(alice, campaign, 1)
			So(errors.Cause(err), ShouldEqual, ErrProjectExpired)

			r, err = l.finalize(creator, campaign)
			So(err, ShouldBeNil)
			So(r.Success, ShouldBeTrue)
			So(r.Moved, ShouldEqual, 1100)
			So(l.checkCustody(campaign), ShouldEqual, 0)
			So(l.balance(creator.addr), ShouldEqual, 10000+1100)
			So(l.total(creator, alice, bob), ShouldEqual, 30000)

			c, err := l.Campaign(campaign)
			So(err, ShouldBeNil)
			So(c.IsFinalized, ShouldBeTrue)
			So(c.IsSuccess, ShouldBeTrue)

			Convey("A succeeded campaign should refuse refunds and further operations", func() {
				entries, err := l.Contributions(campaign)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				for _, e := range entries {
					owner := alice
					if e.Contributor == bob.addr {
						owner = bob
					}
					_, err = l.refund(owner, campaign, e.Address)
					So(errors.Cause(err), ShouldEqual, ErrProjectSucceeded)
				}
				_, err = l.finalize(creator, campaign)
				So(errors.Cause(err), ShouldEqual, ErrProjectAlreadyFinalized)
				_, err = l.contribute(bob, campaign, 1)
				So(errors.Cause(err), ShouldEqual, ErrProjectExpired)
				So(l.balance(creator.addr), ShouldEqual, 11100)
			})
		})
		Convey("Scenario B: a failed campaign should refund its contributors", func() {
			r, err := l.contribute(alice, campaign, 300)
			So(err, ShouldBeNil)
			contribution := r.Created[0]
			So(contribution, ShouldResemble, types.ContributionAddress(alice.addr, campaign, testEpoch))

			l.clock.Set(c.Deadline + 1)
			r, err = l.finalize(creator, campaign)
			So(err, ShouldBeNil)
			So(r.Success, ShouldBeFalse)
			So(r.Moved, ShouldEqual, 0)
			So(l.checkCustody(campaign), ShouldEqual, 300)
			So(l.balance(creator.addr), ShouldEqual, 10000)

			_, err = l.refund(bob, campaign, contribution)
			So(errors.Cause(err), ShouldEqual, ErrUnauthorizedContributor)

			r, err = l.refund(alice, campaign, contribution)
			So(err, ShouldBeNil)
			So(r.Moved, ShouldEqual, 300)
			So(l.balance(alice.addr), ShouldEqual, 10000)
			So(l.checkCustody(campaign), ShouldEqual, 0)
			o, err := l.Contribution(contribution)
			So(err, ShouldBeNil)
			So(o.IsRefunded, ShouldBeTrue)

			_, err = l.refund(alice, campaign, contribution)
			So(errors.Cause(err), ShouldEqual, ErrAlreadyRefunded)
			So(l.total(creator, alice, bob), ShouldEqual, 30000)

			s, err := l.CampaignSummary(campaign)
			So(err, ShouldBeNil)
			So(s.Contributions, ShouldEqual, 1)
			So(s.Refunded, ShouldEqual, 1)
			So(s.Outstanding, ShouldEqual, 0)
			So(s.CustodyBalance, ShouldEqual, 0)
		})
		Convey("Scenario C: a zero contribution should change nothing", func() {
			before := l.snapshot()
			_, err := l.contribute(alice, campaign, 0)
			So(errors.Cause(err), ShouldEqual, ErrInvalidContributionAmount)
			So(CategoryOf(err), ShouldEqual, CategoryValidation)
			So(l.snapshot(), ShouldResemble, before)
			entries, err := l.Contributions(campaign)
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
			So(l.balance(alice.addr), ShouldEqual, 10000)
		})
		Convey("Scenario D: only the creator should finalize", func() {
			l.clock.Set(c.Deadline)
			before := l.snapshot()
			_, err := l.finalize(alice, campaign)
			So(errors.Cause(err), ShouldEqual, ErrUnauthorizedCreator)
			So(CodeOf(err), ShouldEqual, "UnauthorizedCreator")
			So(l.snapshot(), ShouldResemble, before)
			c, err := l.Campaign(campaign)
			So(err, ShouldBeNil)
			So(c.IsFinalized, ShouldBeFalse)
			So(c.IsSuccess, ShouldBeFalse)
		})
	})
}

func TestLedgerInvariants(t *testing.T) {
	Convey("Given a test mode ledger", t, func() {
		var (
			creator = newTestUser()
			alice   = newTestUser()
			l       = newTestLedger(TestModePolicy(), 0, creator, alice)
		)
		defer l.st.Close()

		Convey("Campaigns should require an initialized counter", func() {
			_, err := l.create(creator, "t", "d", 1)
			So(errors.Cause(err), ShouldEqual, ErrRecordNotFound)
		})
		Convey("The counter should be initialized once and cap campaigns", func() {
			r, err := l.initCounter(creator, 2)
			So(err, ShouldBeNil)
			So(r.Created, ShouldResemble, []proto.AccountAddress{types.CounterAddress()})
			_, err = l.initCounter(alice, 5)
			So(errors.Cause(err), ShouldEqual, ErrAlreadyInitialized)

			_, err = l.create(creator, "one", "d", 1)
			So(err, ShouldBeNil)
			r, err = l.create(alice, "two", "d", 1)
			So(err, ShouldBeNil)
			So(r.CampaignID, ShouldEqual, 2)
			So(r.Created[0], ShouldResemble, types.CampaignAddress(alice.addr, 2))

			before := l.snapshot()
			_, err = l.create(creator, "three", "d", 1)
			So(errors.Cause(err), ShouldEqual, ErrCounterFull)
			So(l.snapshot(), ShouldResemble, before)

			counter, err := l.Counter()
			So(err, ShouldBeNil)
			So(counter.Count, ShouldEqual, 2)
			So(counter.Capacity, ShouldEqual, 2)

			stats, err := l.Stats()
			So(err, ShouldBeNil)
			So(stats.Campaigns, ShouldEqual, 2)
			So(stats.CounterCount, ShouldEqual, 2)
			So(stats.DeadlineEnforced, ShouldBeFalse)
		})
		Convey("Given an open campaign", func() {
			_, err := l.initCounter(creator, 10)
			So(err, ShouldBeNil)
			_, err = l.create(creator, "t", "d", 500)
			So(err, ShouldBeNil)
			campaign := types.CampaignAddress(creator.addr, 1)

			Convey("Test mode should allow finalization before the deadline", func() {
				r, err := l.finalize(creator, campaign)
				So(err, ShouldBeNil)
				So(r.Success, ShouldBeFalse)
			})
			Convey("A contributor may contribute many times", func() {
				for i := 0; i < 3; i++ {
					_, err := l.contribute(alice, campaign, 100)
					So(err, ShouldBeNil)
					l.clock.Advance(time.Second)
				}
				So(l.checkCustody(campaign), ShouldEqual, 300)

				Convey("Two contributions in the same second should collide", func() {
					l.clock.Advance(-time.Second)
					_, err := l.contribute(alice, campaign, 100)
					So(errors.Cause(err), ShouldEqual, ErrRecordExists)
					So(CategoryOf(err), ShouldEqual, CategoryHost)
					So(l.checkCustody(campaign), ShouldEqual, 300)
					So(l.balance(alice.addr), ShouldEqual, 9700)
				})
				Convey("Each contribution should be refunded exactly once", func() {
					_, err := l.finalize(creator, campaign)
					So(err, ShouldBeNil)
					entries, err := l.Contributions(campaign)
					So(err, ShouldBeNil)
					So(entries, ShouldHaveLength, 3)
					for i, e := range entries {
						_, err = l.refund(alice, campaign, e.Address)
						So(err, ShouldBeNil)
						So(l.checkCustody(campaign), ShouldEqual, 300-100*(i+1))
					}
					for _, e := range entries {
						_, err = l.refund(alice, campaign, e.Address)
						So(errors.Cause(err), ShouldEqual, ErrAlreadyRefunded)
					}
					So(l.balance(alice.addr), ShouldEqual, 10000)
				})
				Convey("A funded campaign should not pay out twice", func() {
					_, err := l.contribute(alice, campaign, 200)
					So(err, ShouldBeNil)
					r, err := l.finalize(creator, campaign)
					So(err, ShouldBeNil)
					So(r.Moved, ShouldEqual, 500)
					_, err = l.finalize(creator, campaign)
					So(errors.Cause(err), ShouldEqual, ErrProjectAlreadyFinalized)
					So(l.balance(creator.addr), ShouldEqual, 10500)
					So(l.checkCustody(campaign), ShouldEqual, 0)
				})
			})
			Convey("A contribution beyond the balance should fail atomically", func() {
				before := l.snapshot()
				_, err := l.contribute(alice, campaign, 10001)
				So(errors.Cause(err), ShouldEqual, ErrInsufficientBalance)
				So(l.snapshot(), ShouldResemble, before)
			})
			Convey("A refund of a contribution to another campaign should fail", func() {
				_, err := l.create(creator, "other", "d", 500)
				So(err, ShouldBeNil)
				other := types.CampaignAddress(creator.addr, 2)
				r, err := l.contribute(alice, other, 10)
				So(err, ShouldBeNil)
				_, err = l.finalize(creator, campaign)
				So(err, ShouldBeNil)
				_, err = l.refund(alice, campaign, r.Created[0])
				So(errors.Cause(err), ShouldEqual, ErrInvalidContribution)
			})
			Convey("Contributing to a missing campaign should fail", func() {
				_, err := l.contribute(alice, types.CampaignAddress(creator.addr, 9), 1)
				So(errors.Cause(err), ShouldEqual, ErrRecordNotFound)
			})
			Convey("A refund larger than the locked funds should fault instead of saturating", func() {
				r, err := l.contribute(alice, campaign, 100)
				So(err, ShouldBeNil)
				_, err = l.finalize(creator, campaign)
				So(err, ShouldBeNil)

				contribution, err := l.Contribution(r.Created[0])
				So(err, ShouldBeNil)
				contribution.Amount = 150
				l.overwrite(r.Created[0], contribution)

				before := l.snapshot()
				_, err = l.refund(alice, campaign, r.Created[0])
				So(errors.Cause(err), ShouldEqual, ErrInsufficientBalance)
				So(l.snapshot(), ShouldResemble, before)
				So(l.checkCustody(campaign), ShouldEqual, 100)
				So(l.balance(alice.addr), ShouldEqual, 9900)
			})
			Convey("Stats should reject locked funds that overflow", func() {
				custodyAddr := types.CustodyAddress(campaign)
				l.overwrite(custodyAddr, &types.Custody{CampaignRef: campaign, LockedAmount: ^uint64(0)})
				_, err := l.create(creator, "other", "d", 500)
				So(err, ShouldBeNil)
				other := types.CampaignAddress(creator.addr, 2)
				_, err = l.contribute(alice, other, 1)
				So(err, ShouldBeNil)

				_, err = l.Stats()
				So(errors.Cause(err), ShouldEqual, ErrBalanceOverflow)
			})
		})
	})
}

func TestTransactionChecks(t *testing.T) {
	Convey("Given a ledger with an initialized counter", t, func() {
		var (
			creator = newTestUser()
			mallory = newTestUser()
			l       = newTestLedger(TestModePolicy(), 10, creator, mallory)
		)
		defer l.st.Close()

		Convey("A stale nonce should be rejected", func() {
			_, err := l.create(creator, "t", "d", 1)
			So(err, ShouldBeNil)
			nonce, err := l.NextNonce(creator.addr)
			So(err, ShouldBeNil)
			So(nonce, ShouldEqual, 1)

			tx := types.NewCreateCampaign(&types.CreateCampaignHeader{
				Sender: creator.addr, Nonce: 0, Title: "t", Description: "d", FundingGoal: 1,
			})
			So(tx.Sign(creator.priv), ShouldBeNil)
			_, err = l.Apply(tx)
			So(errors.Cause(err), ShouldEqual, ErrInvalidAccountNonce)
		})
		Convey("A transaction signed for another sender should be rejected", func() {
			tx := types.NewCreateCampaign(&types.CreateCampaignHeader{
				Sender: creator.addr, Title: "t", Description: "d", FundingGoal: 1,
			})
			So(tx.Sign(mallory.priv), ShouldBeNil)
			_, err := l.Apply(tx)
			So(errors.Cause(err), ShouldEqual, ErrInvalidSender)
		})
		Convey("A tampered transaction should fail verification", func() {
			tx := types.NewContribute(&types.ContributeHeader{
				Sender: mallory.addr, Campaign: types.CampaignAddress(creator.addr, 1), Amount: 1,
			})
			So(tx.Sign(mallory.priv), ShouldBeNil)
			tx.Amount = 1000
			_, err := l.Apply(tx)
			So(errors.Cause(err), ShouldEqual, verifier.ErrHashValueNotMatch)
			So(CategoryOf(err), ShouldEqual, CategoryHost)
		})
		Convey("Applied transactions should be logged by hash", func() {
			r, err := l.create(creator, "t", "d", 1)
			So(err, ShouldBeNil)
			tx, receipt, err := l.Transaction(r.TxHash)
			So(err, ShouldBeNil)
			So(tx.GetTransactionType(), ShouldEqual, pi.TransactionTypeCreateCampaign)
			So(tx.Hash(), ShouldResemble, r.TxHash)
			So(receipt.CampaignID, ShouldEqual, 1)

			_, _, err = l.Transaction(hash.THashH([]byte("missing")))
			So(errors.Cause(err), ShouldEqual, ErrRecordNotFound)
		})
		Convey("Genesis should only be applied once", func() {
			applied, err := l.InitGenesis(5, []GenesisAccount{{Address: creator.addr, Balance: 1}})
			So(err, ShouldBeNil)
			So(applied, ShouldBeFalse)
			So(l.balance(creator.addr), ShouldEqual, 10000)
		})
	})
}
