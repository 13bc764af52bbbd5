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
	"github.com/CovenantSQL/crowdfund/proto"
)

const (
	// MaxTitleLength is the maximum campaign title length in bytes.
	MaxTitleLength = 100
	// MaxDescriptionLength is the maximum campaign description length in bytes.
	MaxDescriptionLength = 1000

	addressSize = len(proto.AccountAddress{})
)

// Counter hands out campaign ids, it is a singleton created by InitCounter.
type Counter struct {
	Count    uint64
	Capacity uint64
}

// Full reports whether no more campaign id can be issued.
func (c *Counter) Full() bool {
	return c.Count >= c.Capacity
}

// Serialize returns the fixed width layout of the counter.
func (c *Counter) Serialize() []byte {
	w := newRecordWriter(RecordKindCounter, 16)
	w.putUint64(c.Count)
	w.putUint64(c.Capacity)
	return w.buf
}

// Deserialize decodes a counter written by Serialize.
func (c *Counter) Deserialize(enc []byte) error {
	r := newRecordReader(RecordKindCounter, enc)
	c.Count = r.uint64()
	c.Capacity = r.uint64()
	return r.finish()
}

// Campaign is a funding campaign, immutable except for the resolution flags
// which are set once by Finalize.
type Campaign struct {
	Creator     proto.AccountAddress
	Title       string
	Description string
	FundingGoal uint64
	Deadline    int64
	CampaignID  uint64
	IsSuccess   bool
	IsFinalized bool
}

// Expired reports whether the campaign deadline has been reached at now.
func (c *Campaign) Expired(now int64) bool {
	return now >= c.Deadline
}

// Serialize returns the layout of the campaign, the title and description
// carry a u32 length prefix.
func (c *Campaign) Serialize() []byte {
	w := newRecordWriter(RecordKindCampaign,
		addressSize+4+len(c.Title)+4+len(c.Description)+8+8+8+1+1)
	w.putAddress(c.Creator)
	w.putString(c.Title)
	w.putString(c.Description)
	w.putUint64(c.FundingGoal)
	w.putInt64(c.Deadline)
	w.putUint64(c.CampaignID)
	w.putBool(c.IsSuccess)
	w.putBool(c.IsFinalized)
	return w.buf
}

// Deserialize decodes a campaign written by Serialize.
func (c *Campaign) Deserialize(enc []byte) error {
	r := newRecordReader(RecordKindCampaign, enc)
	c.Creator = r.address()
	c.Title = r.string()
	c.Description = r.string()
	c.FundingGoal = r.uint64()
	c.Deadline = r.int64()
	c.CampaignID = r.uint64()
	c.IsSuccess = r.bool()
	c.IsFinalized = r.bool()
	return r.finish()
}

// Custody tracks the funds locked for one campaign.
type Custody struct {
	CampaignRef  proto.AccountAddress
	LockedAmount uint64
}

// Serialize returns the fixed width layout of the custody record.
func (c *Custody) Serialize() []byte {
	w := newRecordWriter(RecordKindCustody, addressSize+8)
	w.putAddress(c.CampaignRef)
	w.putUint64(c.LockedAmount)
	return w.buf
}

// Deserialize decodes a custody record written by Serialize.
func (c *Custody) Deserialize(enc []byte) error {
	r := newRecordReader(RecordKindCustody, enc)
	c.CampaignRef = r.address()
	c.LockedAmount = r.uint64()
	return r.finish()
}

// Contribution is one contribution event of a contributor to a campaign.
type Contribution struct {
	Contributor proto.AccountAddress
	CampaignRef proto.AccountAddress
	Amount      uint64
	CreatedAt   int64
	IsRefunded  bool
}

// Serialize returns the fixed width layout of the contribution.
func (c *Contribution) Serialize() []byte {
	w := newRecordWriter(RecordKindContribution, 2*addressSize+8+8+1)
	w.putAddress(c.Contributor)
	w.putAddress(c.CampaignRef)
	w.putUint64(c.Amount)
	w.putInt64(c.CreatedAt)
	w.putBool(c.IsRefunded)
	return w.buf
}

// Deserialize decodes a contribution written by Serialize.
func (c *Contribution) Deserialize(enc []byte) error {
	r := newRecordReader(RecordKindContribution, enc)
	c.Contributor = r.address()
	c.CampaignRef = r.address()
	c.Amount = r.uint64()
	c.CreatedAt = r.int64()
	c.IsRefunded = r.bool()
	return r.finish()
}
