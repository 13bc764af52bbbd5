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
	"fmt"
	"sync"
	"time"
)

const (
	// ProductionCampaignDuration is the lifetime of a campaign in production.
	ProductionCampaignDuration = 30 * 24 * time.Hour
	// TestModeCampaignDuration is the lifetime of a campaign in test mode.
	TestModeCampaignDuration = 20 * time.Second
)

// Policy holds the deadline rules of the ledger. It is fixed at construction.
type Policy struct {
	// CampaignDuration is added to the creation time to get the deadline.
	CampaignDuration time.Duration
	// EnforceDeadline makes Finalize fail before the deadline.
	EnforceDeadline bool
}

// ProductionPolicy returns the policy used by the daemon: 30 day campaigns
// and enforced deadlines.
func ProductionPolicy() Policy {
	return Policy{
		CampaignDuration: ProductionCampaignDuration,
		EnforceDeadline:  true,
	}
}

// NewTestPolicy returns a policy with a custom duration which may skip the
// finalization deadline check. It is meant for tests and local tooling only.
func NewTestPolicy(duration time.Duration, enforceDeadline bool) Policy {
	return Policy{
		CampaignDuration: duration,
		EnforceDeadline:  enforceDeadline,
	}
}

// TestModePolicy returns the short lived policy of the test mode: 20 second
// campaigns which can be finalized any time.
func TestModePolicy() Policy {
	return NewTestPolicy(TestModeCampaignDuration, false)
}

// IsProduction reports whether p equals ProductionPolicy.
func (p Policy) IsProduction() bool {
	return p == ProductionPolicy()
}

func (p Policy) durationSeconds() int64 {
	return int64(p.CampaignDuration / time.Second)
}

func (p Policy) String() string {
	return fmt.Sprintf("duration=%s enforce_deadline=%t", p.CampaignDuration, p.EnforceDeadline)
}

// Clock returns the current unix time in seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.Now.
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock always returns the same time.
type FixedClock int64

// Now implements Clock.Now.
func (c FixedClock) Now() int64 {
	return int64(c)
}

// ManualClock is a clock moved explicitly by its owner.
type ManualClock struct {
	sync.Mutex
	now int64
}

// NewManualClock returns a clock starting at now.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

// Now implements Clock.Now.
func (c *ManualClock) Now() int64 {
	c.Lock()
	defer c.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *ManualClock) Set(now int64) {
	c.Lock()
	defer c.Unlock()
	c.now = now
}

// Advance moves the clock forward by d, rounded down to seconds.
func (c *ManualClock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()
	c.now += int64(d / time.Second)
}
