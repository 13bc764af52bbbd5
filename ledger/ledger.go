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

// Package ledger implements the escrow crowdfunding ledger: a serialized
// executor of signed transactions over persistent campaign, custody,
// contribution and balance records.
package ledger

import (
	"sync"

	"github.com/pkg/errors"

	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/metric"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/storage"
	"github.com/CovenantSQL/crowdfund/utils"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

// Ledger applies transactions one at a time. Each transaction runs against a
// dirty overlay which is either written to storage in one batch or discarded
// as a whole.
type Ledger struct {
	sync.RWMutex
	st     *storage.Storage
	state  *metaState
	policy Policy
	clock  Clock
}

// NewLedger returns a ledger over st. The policy and clock are fixed for the
// lifetime of the ledger.
func NewLedger(st *storage.Storage, policy Policy, clock Clock) *Ledger {
	if clock == nil {
		clock = SystemClock{}
	}
	entry := log.WithFields(log.Fields{
		"duration":         policy.CampaignDuration.String(),
		"enforce_deadline": policy.EnforceDeadline,
	})
	if policy.IsProduction() {
		entry.Info("ledger created with production policy")
	} else {
		entry.Warning("ledger created with non production policy")
	}
	return &Ledger{
		st:     st,
		state:  newMetaState(st),
		policy: policy,
		clock:  clock,
	}
}

// Policy returns the deadline policy of the ledger.
func (l *Ledger) Policy() Policy {
	return l.policy
}

// DeadlineEnforced reports whether Finalize checks the campaign deadline.
func (l *Ledger) DeadlineEnforced() bool {
	return l.policy.EnforceDeadline
}

// GenesisAccount is an account balance seeded into an empty store.
type GenesisAccount struct {
	Address proto.AccountAddress
	Balance uint64
}

// InitGenesis seeds the accounts, and the counter if counterCapacity is not
// zero, into a store which was never seeded. It returns false if the store
// was already seeded.
func (l *Ledger) InitGenesis(counterCapacity uint64, accounts []GenesisAccount) (applied bool, err error) {
	l.Lock()
	defer l.Unlock()

	var seeded bool
	if seeded, err = l.st.Has(genesisKey); err != nil || seeded {
		return
	}
	defer l.state.clean()

	for _, a := range accounts {
		var o *types.Account
		if o, err = l.state.loadOrNewAccount(a.Address); err != nil {
			return
		}
		if err = safeAdd(&o.Balance, &a.Balance); err != nil {
			return false, errors.Wrapf(err, "genesis account %s", a.Address.String())
		}
		l.state.storeAccount(o)
	}
	if counterCapacity > 0 {
		var exists bool
		if exists, err = l.state.recordExists(types.CounterAddress()); err != nil {
			return
		}
		if !exists {
			l.state.storeCounter(&types.Counter{Capacity: counterCapacity})
		}
	}

	b := storage.NewBatch()
	l.state.commit(b)
	b.Put(genesisKey, []byte{1})
	if err = l.st.Write(b); err != nil {
		return
	}
	log.WithFields(log.Fields{
		"accounts":         len(accounts),
		"counter_capacity": counterCapacity,
	}).Info("genesis applied")
	return true, nil
}

// txRecord is the transaction log entry of an applied transaction.
type txRecord struct {
	Tx      []byte
	Receipt *types.Receipt
}

// Apply verifies and applies tx, the returned receipt describes its effect.
// A failed transaction leaves every record unchanged.
func (l *Ledger) Apply(tx pi.Transaction) (receipt *types.Receipt, err error) {
	if w, ok := tx.(*pi.TransactionWrapper); ok {
		tx = w.Unwrap()
	}
	if tx == nil {
		return nil, errors.Wrap(pi.ErrNilTransaction, "apply failed")
	}

	l.Lock()
	defer l.Unlock()

	txType := tx.GetTransactionType()
	defer func() {
		if err != nil {
			l.state.clean()
			metric.TxRejected.WithLabelValues(txType.String(), CategoryOf(err).String()).Inc()
			log.WithFields(log.Fields{
				"type":     txType.String(),
				"sender":   tx.GetAccountAddress().String(),
				"nonce":    tx.GetAccountNonce(),
				"category": CategoryOf(err).String(),
			}).WithError(err).Debug("transaction rejected")
		}
	}()

	if err = l.checkTransaction(tx); err != nil {
		return
	}

	now := l.clock.Now()
	receipt = &types.Receipt{
		TxHash:    tx.Hash(),
		TxType:    txType,
		Sender:    tx.GetAccountAddress(),
		Nonce:     tx.GetAccountNonce(),
		AppliedAt: now,
	}
	if err = l.applyTransaction(tx, now, receipt); err != nil {
		receipt = nil
		return
	}
	if err = l.state.increaseNonce(tx.GetAccountAddress()); err != nil {
		receipt = nil
		return
	}

	var rec txRecord
	rec.Receipt = receipt
	if rec.Tx, err = pi.EncodeTransaction(tx); err != nil {
		receipt = nil
		return
	}
	enc, err := utils.EncodeMsgPack(&rec)
	if err != nil {
		receipt = nil
		err = errors.Wrap(err, "encode transaction log failed")
		return
	}

	b := storage.NewBatch()
	l.state.commit(b)
	b.Put(txKey(receipt.TxHash), enc.Bytes())
	if err = l.st.Write(b); err != nil {
		receipt = nil
		return
	}

	metric.TxApplied.WithLabelValues(txType.String()).Inc()
	log.WithFields(log.Fields{
		"type":    txType.String(),
		"hash":    receipt.TxHash.String(),
		"sender":  receipt.Sender.String(),
		"created": len(receipt.Created),
		"moved":   receipt.Moved,
	}).Info("transaction applied")
	return
}

// checkTransaction verifies the signature of tx, that the signee owns the
// sender account and that the nonce is the next one of the sender.
func (l *Ledger) checkTransaction(tx pi.Transaction) (err error) {
	if err = tx.Verify(); err != nil {
		return errors.Wrap(err, "verify transaction failed")
	}
	var realSender proto.AccountAddress
	if realSender, err = tx.SignerAddress(); err != nil {
		return errors.Wrap(err, "resolve signee failed")
	}
	if realSender != tx.GetAccountAddress() {
		return errors.Wrapf(ErrInvalidSender,
			"real sender %s, sender %s", realSender.String(), tx.GetAccountAddress().String())
	}
	var nextNonce pi.AccountNonce
	if nextNonce, err = l.state.nextNonce(realSender); err != nil {
		return
	}
	if nextNonce != tx.GetAccountNonce() {
		return errors.Wrapf(ErrInvalidAccountNonce,
			"actual %d, expected %d", tx.GetAccountNonce(), nextNonce)
	}
	return
}

func (l *Ledger) applyTransaction(tx pi.Transaction, now int64, receipt *types.Receipt) (err error) {
	switch t := tx.(type) {
	case *types.InitCounter:
		err = l.applyInitCounter(t, receipt)
	case *types.CreateCampaign:
		err = l.applyCreateCampaign(t, now, receipt)
	case *types.Contribute:
		err = l.applyContribute(t, now, receipt)
	case *types.Finalize:
		err = l.applyFinalize(t, now, receipt)
	case *types.ClaimRefund:
		err = l.applyClaimRefund(t, receipt)
	default:
		err = errors.Wrapf(ErrUnknownTransactionType, "type %T", tx)
	}
	return
}

func (l *Ledger) applyInitCounter(tx *types.InitCounter, receipt *types.Receipt) (err error) {
	addr := types.CounterAddress()
	var exists bool
	if exists, err = l.state.recordExists(addr); err != nil {
		return
	}
	if exists {
		return ErrAlreadyInitialized
	}
	l.state.storeCounter(&types.Counter{Capacity: tx.Capacity})
	receipt.Created = append(receipt.Created, addr)
	return
}

func (l *Ledger) applyCreateCampaign(tx *types.CreateCampaign, now int64, receipt *types.Receipt) (err error) {
	var counter *types.Counter
	if counter, err = l.state.loadCounter(); err != nil {
		return
	}
	var (
		campaign *types.Campaign
		custody  *types.Custody
	)
	if campaign, custody, err = createCampaign(
		counter, tx.Sender, tx.Title, tx.Description, tx.FundingGoal, now, l.policy,
	); err != nil {
		return
	}

	var (
		campaignAddr = types.CampaignAddress(tx.Sender, campaign.CampaignID)
		custodyAddr  = types.CustodyAddress(campaignAddr)
		exists       bool
	)
	for _, addr := range []proto.AccountAddress{campaignAddr, custodyAddr} {
		if exists, err = l.state.recordExists(addr); err != nil {
			return
		}
		if exists {
			return errors.Wrapf(ErrRecordExists, "address %s", addr.String())
		}
	}

	var custodyAccount *types.Account
	if custodyAccount, err = l.state.loadOrNewAccount(custodyAddr); err != nil {
		return
	}
	if custodyAccount.Balance != custody.LockedAmount {
		return errors.Wrapf(ErrCustodyMismatch, "fresh custody %s holds %d",
			custodyAddr.String(), custodyAccount.Balance)
	}

	l.state.storeCounter(counter)
	l.state.storeCampaign(campaignAddr, campaign)
	l.state.storeCustody(custodyAddr, custody)
	l.state.storeAccount(custodyAccount)

	receipt.Created = append(receipt.Created, campaignAddr, custodyAddr)
	receipt.Affected = append(receipt.Affected, types.CounterAddress())
	receipt.CampaignID = campaign.CampaignID
	return
}

func (l *Ledger) loadCampaignAndCustody(campaignAddr proto.AccountAddress) (
	campaign *types.Campaign, custodyAddr proto.AccountAddress, custody *types.Custody, err error,
) {
	if campaign, err = l.state.loadCampaign(campaignAddr); err != nil {
		return
	}
	custodyAddr = types.CustodyAddress(campaignAddr)
	if custody, err = l.state.loadCustody(custodyAddr); err != nil {
		return
	}
	if custody.CampaignRef != campaignAddr {
		err = errors.Wrapf(ErrCustodyMismatch, "custody %s refers to %s",
			custodyAddr.String(), custody.CampaignRef.String())
	}
	return
}

// checkCustody ensures the custody account holds exactly the locked amount.
func (l *Ledger) checkCustody(custodyAddr proto.AccountAddress, custody *types.Custody) (err error) {
	var o *types.Account
	if o, err = l.state.loadOrNewAccount(custodyAddr); err != nil {
		return
	}
	if o.Balance != custody.LockedAmount {
		return errors.Wrapf(ErrCustodyMismatch, "custody %s holds %d, locked %d",
			custodyAddr.String(), o.Balance, custody.LockedAmount)
	}
	return
}

func (l *Ledger) applyContribute(tx *types.Contribute, now int64, receipt *types.Receipt) (err error) {
	var (
		campaign    *types.Campaign
		custodyAddr proto.AccountAddress
		custody     *types.Custody
	)
	if campaign, custodyAddr, custody, err = l.loadCampaignAndCustody(tx.Campaign); err != nil {
		return
	}
	if err = contribute(campaign, custody, tx.Amount, now); err != nil {
		return
	}

	if err = l.state.transfer(tx.Sender, custodyAddr, tx.Amount, signerAuthority(tx.Sender)); err != nil {
		return
	}
	contributionAddr := types.ContributionAddress(tx.Sender, tx.Campaign, now)
	var exists bool
	if exists, err = l.state.recordExists(contributionAddr); err != nil {
		return
	}
	if exists {
		return errors.Wrapf(ErrRecordExists, "contribution %s", contributionAddr.String())
	}

	l.state.storeCustody(custodyAddr, custody)
	l.state.storeContribution(tx.Campaign, contributionAddr, &types.Contribution{
		Contributor: tx.Sender,
		CampaignRef: tx.Campaign,
		Amount:      tx.Amount,
		CreatedAt:   now,
	}, true)
	if err = l.checkCustody(custodyAddr, custody); err != nil {
		return
	}

	metric.FundsMoved.WithLabelValues("contribute").Add(float64(tx.Amount))
	receipt.Created = append(receipt.Created, contributionAddr)
	receipt.Affected = append(receipt.Affected, custodyAddr)
	receipt.CampaignID = campaign.CampaignID
	receipt.Moved = tx.Amount
	return
}

func (l *Ledger) applyFinalize(tx *types.Finalize, now int64, receipt *types.Receipt) (err error) {
	var (
		campaign    *types.Campaign
		custodyAddr proto.AccountAddress
		custody     *types.Custody
		payout      uint64
	)
	if campaign, custodyAddr, custody, err = l.loadCampaignAndCustody(tx.Campaign); err != nil {
		return
	}
	if payout, err = finalize(campaign, custody, tx.Sender, now, l.policy); err != nil {
		return
	}
	if payout > 0 {
		if err = l.state.transfer(
			custodyAddr, campaign.Creator, payout, types.CustodyProof(tx.Campaign),
		); err != nil {
			return
		}
	}

	l.state.storeCampaign(tx.Campaign, campaign)
	l.state.storeCustody(custodyAddr, custody)
	if err = l.checkCustody(custodyAddr, custody); err != nil {
		return
	}

	if payout > 0 {
		metric.FundsMoved.WithLabelValues("payout").Add(float64(payout))
	}
	receipt.Affected = append(receipt.Affected, tx.Campaign, custodyAddr)
	receipt.CampaignID = campaign.CampaignID
	receipt.Success = campaign.IsSuccess
	receipt.Moved = payout
	return
}

func (l *Ledger) applyClaimRefund(tx *types.ClaimRefund, receipt *types.Receipt) (err error) {
	var (
		campaign     *types.Campaign
		custodyAddr  proto.AccountAddress
		custody      *types.Custody
		contribution *types.Contribution
		refund       uint64
	)
	if campaign, custodyAddr, custody, err = l.loadCampaignAndCustody(tx.Campaign); err != nil {
		return
	}
	if contribution, err = l.state.loadContribution(tx.Contribution); err != nil {
		return
	}
	if refund, err = claimRefund(tx.Campaign, campaign, custody, contribution, tx.Sender); err != nil {
		return
	}
	if err = l.state.transfer(
		custodyAddr, contribution.Contributor, refund, types.CustodyProof(tx.Campaign),
	); err != nil {
		return
	}

	l.state.storeContribution(tx.Campaign, tx.Contribution, contribution, false)
	l.state.storeCustody(custodyAddr, custody)
	if err = l.checkCustody(custodyAddr, custody); err != nil {
		return
	}

	metric.FundsMoved.WithLabelValues("refund").Add(float64(refund))
	receipt.Affected = append(receipt.Affected, tx.Contribution, custodyAddr)
	receipt.CampaignID = campaign.CampaignID
	receipt.Moved = refund
	return
}
