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
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"

	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/storage"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

// Authority grants the right to move funds out of an account. A verified
// transaction signer authorizes its own account, a crypto.SeedProof
// authorizes the derived address of its seeds.
type Authority interface {
	Authorizes(addr proto.AccountAddress) bool
}

// signerAuthority is only built from a sender whose signature was verified.
type signerAuthority proto.AccountAddress

func (a signerAuthority) Authorizes(addr proto.AccountAddress) bool {
	return proto.AccountAddress(a) == addr
}

type recordDecoder interface {
	Deserialize(enc []byte) error
}

// metaState is a dirty overlay over the persistent store. Reads fall through
// to storage, writes stay in the overlay until commit.
type metaState struct {
	st    *storage.Storage
	dirty *metaIndex
}

func newMetaState(st *storage.Storage) *metaState {
	return &metaState{
		st:    st,
		dirty: newMetaIndex(),
	}
}

func (s *metaState) loadStored(key []byte, rec recordDecoder, notFound error) (err error) {
	var enc []byte
	if enc, err = s.st.Get(key); err != nil {
		if err == storage.ErrNotFound {
			return notFound
		}
		return
	}
	if err = rec.Deserialize(enc); err != nil {
		err = errors.Wrapf(err, "decode record %x failed", key)
	}
	return
}

func (s *metaState) recordExists(addr proto.AccountAddress) (exists bool, err error) {
	if addr == types.CounterAddress() && s.dirty.counter != nil {
		return true, nil
	}
	if _, ok := s.dirty.campaigns[addr]; ok {
		return true, nil
	}
	if _, ok := s.dirty.custodies[addr]; ok {
		return true, nil
	}
	if _, ok := s.dirty.contributions[addr]; ok {
		return true, nil
	}
	return s.st.Has(recordKey(addr))
}

func (s *metaState) loadCounter() (o *types.Counter, err error) {
	if s.dirty.counter != nil {
		return deepcopy.Copy(s.dirty.counter).(*types.Counter), nil
	}
	o = &types.Counter{}
	if err = s.loadStored(recordKey(types.CounterAddress()), o, ErrRecordNotFound); err != nil {
		return nil, errors.Wrap(err, "load counter failed")
	}
	return
}

func (s *metaState) storeCounter(o *types.Counter) {
	s.dirty.counter = o
}

func (s *metaState) loadCampaign(addr proto.AccountAddress) (o *types.Campaign, err error) {
	if v, ok := s.dirty.campaigns[addr]; ok {
		return deepcopy.Copy(v).(*types.Campaign), nil
	}
	o = &types.Campaign{}
	if err = s.loadStored(recordKey(addr), o, ErrRecordNotFound); err != nil {
		return nil, errors.Wrapf(err, "load campaign %s failed", addr.String())
	}
	return
}

func (s *metaState) storeCampaign(addr proto.AccountAddress, o *types.Campaign) {
	s.dirty.campaigns[addr] = o
}

func (s *metaState) loadCustody(addr proto.AccountAddress) (o *types.Custody, err error) {
	if v, ok := s.dirty.custodies[addr]; ok {
		return deepcopy.Copy(v).(*types.Custody), nil
	}
	o = &types.Custody{}
	if err = s.loadStored(recordKey(addr), o, ErrRecordNotFound); err != nil {
		return nil, errors.Wrapf(err, "load custody %s failed", addr.String())
	}
	return
}

func (s *metaState) storeCustody(addr proto.AccountAddress, o *types.Custody) {
	s.dirty.custodies[addr] = o
}

func (s *metaState) loadContribution(addr proto.AccountAddress) (o *types.Contribution, err error) {
	if v, ok := s.dirty.contributions[addr]; ok {
		return deepcopy.Copy(v).(*types.Contribution), nil
	}
	o = &types.Contribution{}
	if err = s.loadStored(recordKey(addr), o, ErrRecordNotFound); err != nil {
		return nil, errors.Wrapf(err, "load contribution %s failed", addr.String())
	}
	return
}

func (s *metaState) storeContribution(campaign, addr proto.AccountAddress, o *types.Contribution, created bool) {
	s.dirty.contributions[addr] = o
	if created {
		s.dirty.indexed = append(s.dirty.indexed, indexEntry{campaign: campaign, contribution: addr})
	}
}

func (s *metaState) loadAccount(addr proto.AccountAddress) (o *types.Account, err error) {
	if v, ok := s.dirty.accounts[addr]; ok {
		return deepcopy.Copy(v).(*types.Account), nil
	}
	o = &types.Account{}
	if err = s.loadStored(accountKey(addr), o, ErrAccountNotFound); err != nil {
		return nil, err
	}
	return
}

func (s *metaState) loadOrNewAccount(addr proto.AccountAddress) (o *types.Account, err error) {
	if o, err = s.loadAccount(addr); err == ErrAccountNotFound {
		return &types.Account{Address: addr}, nil
	}
	return
}

func (s *metaState) storeAccount(o *types.Account) {
	s.dirty.accounts[o.Address] = o
}

// transfer moves amount from sender to receiver if auth authorizes sender.
// The receiver account is created when missing.
func (s *metaState) transfer(
	sender, receiver proto.AccountAddress, amount uint64, auth Authority) (err error,
) {
	if auth == nil || !auth.Authorizes(sender) {
		return errors.Wrapf(ErrUnauthorizedTransfer, "transfer from %s", sender.String())
	}
	if sender == receiver || amount == 0 {
		return
	}

	var so, ro *types.Account
	if so, err = s.loadAccount(sender); err != nil {
		if err == ErrAccountNotFound {
			err = errors.Wrapf(ErrInsufficientBalance, "no account %s", sender.String())
		}
		return
	}
	if ro, err = s.loadOrNewAccount(receiver); err != nil {
		return
	}

	if err = safeSub(&so.Balance, &amount); err != nil {
		return errors.Wrapf(err, "balance %d of %s, amount %d", so.Balance, sender.String(), amount)
	}
	if err = safeAdd(&ro.Balance, &amount); err != nil {
		return
	}

	s.storeAccount(so)
	s.storeAccount(ro)
	return
}

func (s *metaState) nextNonce(addr proto.AccountAddress) (nonce pi.AccountNonce, err error) {
	var o *types.Account
	if o, err = s.loadOrNewAccount(addr); err != nil {
		return
	}
	nonce = o.NextNonce
	return
}

func (s *metaState) increaseNonce(addr proto.AccountAddress) (err error) {
	var o *types.Account
	if o, err = s.loadOrNewAccount(addr); err != nil {
		return
	}
	o.NextNonce++
	s.storeAccount(o)
	return
}

// commit writes the overlay into b and resets it.
func (s *metaState) commit(b *storage.Batch) {
	if s.dirty.counter != nil {
		b.Put(recordKey(types.CounterAddress()), s.dirty.counter.Serialize())
	}
	for k, v := range s.dirty.campaigns {
		b.Put(recordKey(k), v.Serialize())
	}
	for k, v := range s.dirty.custodies {
		b.Put(recordKey(k), v.Serialize())
	}
	for k, v := range s.dirty.contributions {
		b.Put(recordKey(k), v.Serialize())
	}
	for k, v := range s.dirty.accounts {
		b.Put(accountKey(k), v.Serialize())
	}
	for _, e := range s.dirty.indexed {
		b.Put(indexKey(e.campaign, e.contribution), nil)
	}
	s.clean()
}

func (s *metaState) clean() {
	if !s.dirty.empty() {
		log.Debug("discard dirty ledger state")
	}
	s.dirty = newMetaIndex()
}
