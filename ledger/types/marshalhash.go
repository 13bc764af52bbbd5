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
	hsp "github.com/CovenantSQL/HashStablePack/marshalhash"
)

// MarshalHash marshals for hash.
func (z *InitCounterHeader) MarshalHash() (o []byte, err error) {
	var b []byte
	o = hsp.Require(b, z.Msgsize())
	// map header, size 3
	o = append(o, 0x83)
	o = hsp.AppendUint64(o, z.Capacity)
	o = hsp.AppendUint32(o, uint32(z.Nonce))
	if oTemp, err := z.Sender.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *InitCounterHeader) Msgsize() (s int) {
	s = 1 + 9 + hsp.Uint64Size + 6 + hsp.Uint32Size + 7 + z.Sender.Msgsize()
	return
}

// MarshalHash marshals for hash.
func (z *CreateCampaignHeader) MarshalHash() (o []byte, err error) {
	var b []byte
	o = hsp.Require(b, z.Msgsize())
	// map header, size 5
	o = append(o, 0x85)
	o = hsp.AppendString(o, z.Description)
	o = hsp.AppendUint64(o, z.FundingGoal)
	o = hsp.AppendUint32(o, uint32(z.Nonce))
	if oTemp, err := z.Sender.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	o = hsp.AppendString(o, z.Title)
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *CreateCampaignHeader) Msgsize() (s int) {
	s = 1 + 12 + hsp.StringPrefixSize + len(z.Description) + 12 + hsp.Uint64Size + 6 + hsp.Uint32Size +
		7 + z.Sender.Msgsize() + 6 + hsp.StringPrefixSize + len(z.Title)
	return
}

// MarshalHash marshals for hash.
func (z *ContributeHeader) MarshalHash() (o []byte, err error) {
	var b []byte
	o = hsp.Require(b, z.Msgsize())
	// map header, size 4
	o = append(o, 0x84)
	o = hsp.AppendUint64(o, z.Amount)
	if oTemp, err := z.Campaign.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	o = hsp.AppendUint32(o, uint32(z.Nonce))
	if oTemp, err := z.Sender.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *ContributeHeader) Msgsize() (s int) {
	s = 1 + 7 + hsp.Uint64Size + 9 + z.Campaign.Msgsize() + 6 + hsp.Uint32Size + 7 + z.Sender.Msgsize()
	return
}

// MarshalHash marshals for hash.
func (z *FinalizeHeader) MarshalHash() (o []byte, err error) {
	var b []byte
	o = hsp.Require(b, z.Msgsize())
	// map header, size 3
	o = append(o, 0x83)
	if oTemp, err := z.Campaign.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	o = hsp.AppendUint32(o, uint32(z.Nonce))
	if oTemp, err := z.Sender.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *FinalizeHeader) Msgsize() (s int) {
	s = 1 + 9 + z.Campaign.Msgsize() + 6 + hsp.Uint32Size + 7 + z.Sender.Msgsize()
	return
}

// MarshalHash marshals for hash.
func (z *ClaimRefundHeader) MarshalHash() (o []byte, err error) {
	var b []byte
	o = hsp.Require(b, z.Msgsize())
	// map header, size 4
	o = append(o, 0x84)
	if oTemp, err := z.Campaign.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	if oTemp, err := z.Contribution.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	o = hsp.AppendUint32(o, uint32(z.Nonce))
	if oTemp, err := z.Sender.MarshalHash(); err != nil {
		return nil, err
	} else {
		o = hsp.AppendBytes(o, oTemp)
	}
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message.
func (z *ClaimRefundHeader) Msgsize() (s int) {
	s = 1 + 9 + z.Campaign.Msgsize() + 13 + z.Contribution.Msgsize() + 6 + hsp.Uint32Size +
		7 + z.Sender.Msgsize()
	return
}
