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
	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/metric"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/storage"
	"github.com/CovenantSQL/crowdfund/utils"
)

// Counter returns the campaign counter.
func (l *Ledger) Counter() (*types.Counter, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.loadCounter()
}

// Campaign returns the campaign at addr.
func (l *Ledger) Campaign(addr proto.AccountAddress) (*types.Campaign, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.loadCampaign(addr)
}

// Custody returns the custody record at addr.
func (l *Ledger) Custody(addr proto.AccountAddress) (*types.Custody, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.loadCustody(addr)
}

// Contribution returns the contribution record at addr.
func (l *Ledger) Contribution(addr proto.AccountAddress) (*types.Contribution, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.loadContribution(addr)
}

// Account returns the balance account at addr.
func (l *Ledger) Account(addr proto.AccountAddress) (*types.Account, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.loadAccount(addr)
}

// NextNonce returns the nonce the next transaction of addr must carry.
func (l *Ledger) NextNonce(addr proto.AccountAddress) (pi.AccountNonce, error) {
	l.RLock()
	defer l.RUnlock()
	return l.state.nextNonce(addr)
}

// Transaction returns an applied transaction and its receipt.
func (l *Ledger) Transaction(h hash.Hash) (tx pi.Transaction, receipt *types.Receipt, err error) {
	l.RLock()
	defer l.RUnlock()

	var enc []byte
	if enc, err = l.st.Get(txKey(h)); err != nil {
		if err == storage.ErrNotFound {
			err = errors.Wrapf(ErrRecordNotFound, "transaction %s", h.String())
		}
		return
	}
	var rec txRecord
	if err = utils.DecodeMsgPack(enc, &rec); err != nil {
		err = errors.Wrap(err, "decode transaction log failed")
		return
	}
	if tx, err = pi.DecodeTransaction(rec.Tx); err != nil {
		return
	}
	receipt = rec.Receipt
	return
}

// ContributionEntry is a contribution record with its address.
type ContributionEntry struct {
	Address proto.AccountAddress
	*types.Contribution
}

// Contributions returns every contribution made to campaign, ordered by
// contribution address.
func (l *Ledger) Contributions(campaign proto.AccountAddress) (entries []ContributionEntry, err error) {
	l.RLock()
	defer l.RUnlock()
	return l.contributions(campaign)
}

func (l *Ledger) contributions(campaign proto.AccountAddress) (entries []ContributionEntry, err error) {
	prefix := campaignIndexPrefix(campaign)
	var addrs []proto.AccountAddress
	if err = l.st.Iterate(prefix, func(key, _ []byte) error {
		var addr proto.AccountAddress
		if len(key) != len(prefix)+len(addr) {
			return errors.Errorf("malformed index key %x", key)
		}
		copy(addr[:], key[len(prefix):])
		addrs = append(addrs, addr)
		return nil
	}); err != nil {
		return
	}
	for _, addr := range addrs {
		var o *types.Contribution
		if o, err = l.state.loadContribution(addr); err != nil {
			return nil, err
		}
		entries = append(entries, ContributionEntry{Address: addr, Contribution: o})
	}
	return
}

// CampaignSummary aggregates a campaign with its custody and contributions.
type CampaignSummary struct {
	Address        proto.AccountAddress
	Campaign       *types.Campaign
	CustodyAddress proto.AccountAddress
	Custody        *types.Custody
	CustodyBalance uint64
	Contributions  int
	Refunded       int
	Outstanding    uint64
}

// CampaignSummary returns the summary of the campaign at addr.
func (l *Ledger) CampaignSummary(addr proto.AccountAddress) (s *CampaignSummary, err error) {
	l.RLock()
	defer l.RUnlock()

	s = &CampaignSummary{
		Address:        addr,
		CustodyAddress: types.CustodyAddress(addr),
	}
	if s.Campaign, err = l.state.loadCampaign(addr); err != nil {
		return nil, err
	}
	if s.Custody, err = l.state.loadCustody(s.CustodyAddress); err != nil {
		return nil, err
	}
	var o *types.Account
	if o, err = l.state.loadOrNewAccount(s.CustodyAddress); err != nil {
		return nil, err
	}
	s.CustodyBalance = o.Balance

	var entries []ContributionEntry
	if entries, err = l.contributions(addr); err != nil {
		return nil, err
	}
	s.Contributions = len(entries)
	for _, e := range entries {
		if e.IsRefunded {
			s.Refunded++
			continue
		}
		if err = safeAdd(&s.Outstanding, &e.Amount); err != nil {
			return nil, err
		}
	}
	return
}

// Stats implements metric.StatsSource by scanning every stored record.
func (l *Ledger) Stats() (stats metric.LedgerStats, err error) {
	l.RLock()
	defer l.RUnlock()

	stats.DeadlineEnforced = l.policy.EnforceDeadline
	err = l.st.Iterate(recordKeyPrefix, func(key, value []byte) (err error) {
		var kind types.RecordKind
		if kind, err = types.KindOf(value); err != nil {
			return errors.Wrapf(err, "record %x", key)
		}
		switch kind {
		case types.RecordKindCounter:
			var o types.Counter
			if err = o.Deserialize(value); err == nil {
				stats.CounterCount = o.Count
				stats.CounterCapacity = o.Capacity
			}
		case types.RecordKindCampaign:
			var o types.Campaign
			if err = o.Deserialize(value); err == nil {
				stats.Campaigns++
				if o.IsFinalized {
					stats.FinalizedCampaigns++
				}
				if o.IsSuccess {
					stats.SucceededCampaigns++
				}
			}
		case types.RecordKindCustody:
			var o types.Custody
			if err = o.Deserialize(value); err == nil {
				if err = safeAdd(&stats.LockedFunds, &o.LockedAmount); err != nil {
					return errors.Wrapf(err, "locked funds of custody %x", key)
				}
			}
		case types.RecordKindContribution:
			var o types.Contribution
			if err = o.Deserialize(value); err == nil {
				stats.Contributions++
				if o.IsRefunded {
					stats.RefundedContributions++
				}
			}
		}
		return
	})
	return
}
