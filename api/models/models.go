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

// Package models defines the json views served by the ledger api and read
// back by the client.
package models

import (
	"encoding/json"
	"time"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
)

// Response is the envelope of every api response.
type Response struct {
	Status    string          `json:"status"`
	Success   bool            `json:"success"`
	Code      string          `json:"code,omitempty"`
	Category  string          `json:"category,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// SubmitRequest carries an encoded signed transaction.
type SubmitRequest struct {
	Tx []byte `json:"tx"`
}

// Counter is the view of the campaign counter.
type Counter struct {
	Address  proto.AccountAddress `json:"address"`
	Count    uint64               `json:"count"`
	Capacity uint64               `json:"capacity"`
}

// NewCounter returns the view of o.
func NewCounter(o *types.Counter) *Counter {
	return &Counter{
		Address:  types.CounterAddress(),
		Count:    o.Count,
		Capacity: o.Capacity,
	}
}

// Campaign is the view of a campaign with its custody and contribution totals.
type Campaign struct {
	Address        proto.AccountAddress `json:"address"`
	CampaignID     uint64               `json:"campaign_id"`
	Creator        proto.AccountAddress `json:"creator"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	FundingGoal    uint64               `json:"funding_goal"`
	Deadline       int64                `json:"deadline"`
	IsSuccess      bool                 `json:"is_success"`
	IsFinalized    bool                 `json:"is_finalized"`
	CustodyAddress proto.AccountAddress `json:"custody_address"`
	LockedAmount   uint64               `json:"locked_amount"`
	CustodyBalance uint64               `json:"custody_balance"`
	Contributions  int                  `json:"contributions"`
	Refunded       int                  `json:"refunded"`
	Outstanding    uint64               `json:"outstanding"`
}

// NewCampaign returns the view of s.
func NewCampaign(s *ledger.CampaignSummary) *Campaign {
	return &Campaign{
		Address:        s.Address,
		CampaignID:     s.Campaign.CampaignID,
		Creator:        s.Campaign.Creator,
		Title:          s.Campaign.Title,
		Description:    s.Campaign.Description,
		FundingGoal:    s.Campaign.FundingGoal,
		Deadline:       s.Campaign.Deadline,
		IsSuccess:      s.Campaign.IsSuccess,
		IsFinalized:    s.Campaign.IsFinalized,
		CustodyAddress: s.CustodyAddress,
		LockedAmount:   s.Custody.LockedAmount,
		CustodyBalance: s.CustodyBalance,
		Contributions:  s.Contributions,
		Refunded:       s.Refunded,
		Outstanding:    s.Outstanding,
	}
}

// Custody is the view of a custody record and its account balance.
type Custody struct {
	Address      proto.AccountAddress `json:"address"`
	CampaignRef  proto.AccountAddress `json:"campaign_ref"`
	LockedAmount uint64               `json:"locked_amount"`
	Balance      uint64               `json:"balance"`
}

// NewCustody returns the view of the custody o at addr holding balance.
func NewCustody(addr proto.AccountAddress, o *types.Custody, balance uint64) *Custody {
	return &Custody{
		Address:      addr,
		CampaignRef:  o.CampaignRef,
		LockedAmount: o.LockedAmount,
		Balance:      balance,
	}
}

// Contribution is the view of a contribution record.
type Contribution struct {
	Address     proto.AccountAddress `json:"address"`
	Contributor proto.AccountAddress `json:"contributor"`
	CampaignRef proto.AccountAddress `json:"campaign_ref"`
	Amount      uint64               `json:"amount"`
	CreatedAt   int64                `json:"created_at"`
	IsRefunded  bool                 `json:"is_refunded"`
}

// NewContribution returns the view of the contribution o at addr.
func NewContribution(addr proto.AccountAddress, o *types.Contribution) *Contribution {
	return &Contribution{
		Address:     addr,
		Contributor: o.Contributor,
		CampaignRef: o.CampaignRef,
		Amount:      o.Amount,
		CreatedAt:   o.CreatedAt,
		IsRefunded:  o.IsRefunded,
	}
}

// ContributionList is a page of the contributions of a campaign.
type ContributionList struct {
	Campaign      proto.AccountAddress `json:"campaign"`
	Contributions []*Contribution      `json:"contributions"`
	Pagination    *Pagination          `json:"pagination"`
}

// Account is the view of a balance account.
type Account struct {
	Address   proto.AccountAddress `json:"address"`
	Balance   uint64               `json:"balance"`
	NextNonce uint32               `json:"next_nonce"`
}

// NewAccount returns the view of o.
func NewAccount(o *types.Account) *Account {
	return &Account{
		Address:   o.Address,
		Balance:   o.Balance,
		NextNonce: uint32(o.NextNonce),
	}
}

// Receipt is the view of a transaction receipt.
type Receipt struct {
	TxHash     hash.Hash              `json:"tx_hash"`
	TxType     string                 `json:"tx_type"`
	Sender     proto.AccountAddress   `json:"sender"`
	Nonce      uint32                 `json:"nonce"`
	AppliedAt  int64                  `json:"applied_at"`
	Created    []proto.AccountAddress `json:"created"`
	Affected   []proto.AccountAddress `json:"affected"`
	CampaignID uint64                 `json:"campaign_id"`
	Success    bool                   `json:"success"`
	Moved      uint64                 `json:"moved"`
}

// NewReceipt returns the view of r.
func NewReceipt(r *types.Receipt) *Receipt {
	return &Receipt{
		TxHash:     r.TxHash,
		TxType:     r.TxType.String(),
		Sender:     r.Sender,
		Nonce:      uint32(r.Nonce),
		AppliedAt:  r.AppliedAt,
		Created:    r.Created,
		Affected:   r.Affected,
		CampaignID: r.CampaignID,
		Success:    r.Success,
		Moved:      r.Moved,
	}
}

// Transaction is the view of an applied transaction.
type Transaction struct {
	Hash    hash.Hash   `json:"hash"`
	Type    string      `json:"type"`
	Tx      interface{} `json:"tx"`
	Receipt *Receipt    `json:"receipt"`
}

// Policy is the view of the deadline policy of the ledger.
type Policy struct {
	CampaignDuration        string `json:"campaign_duration"`
	CampaignDurationSeconds int64  `json:"campaign_duration_seconds"`
	EnforceDeadline         bool   `json:"enforce_deadline"`
	Production              bool   `json:"production"`
}

// NewPolicy returns the view of p.
func NewPolicy(p ledger.Policy) *Policy {
	return &Policy{
		CampaignDuration:        p.CampaignDuration.String(),
		CampaignDurationSeconds: int64(p.CampaignDuration / time.Second),
		EnforceDeadline:         p.EnforceDeadline,
		Production:              p.IsProduction(),
	}
}
