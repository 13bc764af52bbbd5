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

package internal

import (
	"fmt"

	"github.com/CovenantSQL/crowdfund/api/models"
)

var (
	capacity     uint64
	title        string
	description  string
	fundingGoal  uint64
	amount       uint64
	campaignAddr string
	contribAddr  string
)

// CmdInitCounter is cf init-counter command entity.
var CmdInitCounter = &Command{
	UsageLine: "cf init-counter [common params] -capacity n",
	Short:     "create the campaign counter",
	Long: `
InitCounter creates the campaign counter which issues campaign ids. The counter
can be created only once, capacity bounds the number of campaigns.
e.g.
    cf init-counter -capacity 1000
`,
}

// CmdCreate is cf create command entity.
var CmdCreate = &Command{
	UsageLine: "cf create [common params] -title t -description d -goal n",
	Short:     "create a campaign",
	Long: `
Create registers a campaign of your account with a funding goal. The deadline
is set by the ledger policy. The campaign address is printed.
e.g.
    cf create -title "Solar roof" -description "Panels for the hall" -goal 1000
`,
}

// CmdContribute is cf contribute command entity.
var CmdContribute = &Command{
	UsageLine: "cf contribute [common params] -campaign address -amount n",
	Short:     "lock funds into a campaign",
	Long: `
Contribute moves amount from your balance into the custody of the campaign and
prints the address of the contribution record, needed to claim a refund.
`,
}

// CmdFinalize is cf finalize command entity.
var CmdFinalize = &Command{
	UsageLine: "cf finalize [common params] -campaign address",
	Short:     "resolve a campaign after its deadline",
	Long: `
Finalize resolves a campaign of your account. A funded campaign pays the
locked funds to you, a failed one opens refunds.
`,
}

// CmdRefund is cf refund command entity.
var CmdRefund = &Command{
	UsageLine: "cf refund [common params] -campaign address -contribution address",
	Short:     "claim back a contribution of a failed campaign",
	Long: `
Refund returns the funds of one of your contributions to a failed campaign.
`,
}

func init() {
	CmdInitCounter.Run = runInitCounter
	CmdCreate.Run = runCreate
	CmdContribute.Run = runContribute
	CmdFinalize.Run = runFinalize
	CmdRefund.Run = runRefund

	for _, cmd := range []*Command{CmdInitCounter, CmdCreate, CmdContribute, CmdFinalize, CmdRefund} {
		addCommonFlags(cmd)
		addKeyFlags(cmd)
	}
	CmdInitCounter.Flag.Uint64Var(&capacity, "capacity", 0, "Maximum number of campaigns")
	CmdCreate.Flag.StringVar(&title, "title", "", "Campaign title, at most 100 bytes")
	CmdCreate.Flag.StringVar(&description, "description", "", "Campaign description, at most 1000 bytes")
	CmdCreate.Flag.Uint64Var(&fundingGoal, "goal", 0, "Funding goal")
	CmdContribute.Flag.Uint64Var(&amount, "amount", 0, "Amount to contribute")
	for _, cmd := range []*Command{CmdContribute, CmdFinalize, CmdRefund} {
		cmd.Flag.StringVar(&campaignAddr, "campaign", "", "Campaign address")
	}
	CmdRefund.Flag.StringVar(&contribAddr, "contribution", "", "Contribution address")
}

func printReceipt(r *models.Receipt) {
	fmt.Printf("Transaction: %s (%s)\n", r.TxHash.String(), r.TxType)
	for _, addr := range r.Created {
		fmt.Printf("Created: %s\n", addr.String())
	}
	if r.Moved > 0 {
		fmt.Printf("Moved: %d\n", r.Moved)
	}
}

func runInitCounter(cmd *Command, args []string) {
	c := clientInit(true)
	ctx, cancel := callContext()
	defer cancel()
	r, err := c.InitCounter(ctx, capacity)
	exitOnError(err, "init counter failed")
	printReceipt(r)
}

func runCreate(cmd *Command, args []string) {
	c := clientInit(true)
	ctx, cancel := callContext()
	defer cancel()
	campaign, r, err := c.CreateCampaign(ctx, title, description, fundingGoal)
	exitOnError(err, "create campaign failed")
	printReceipt(r)
	fmt.Printf("Campaign: %s (id %d)\n", campaign.String(), r.CampaignID)
}

func runContribute(cmd *Command, args []string) {
	campaign, ok := parseAddress(campaignAddr, "campaign")
	if !ok {
		return
	}
	c := clientInit(true)
	ctx, cancel := callContext()
	defer cancel()
	contribution, r, err := c.Contribute(ctx, campaign, amount)
	exitOnError(err, "contribute failed")
	printReceipt(r)
	fmt.Printf("Contribution: %s\n", contribution.String())
}

func runFinalize(cmd *Command, args []string) {
	campaign, ok := parseAddress(campaignAddr, "campaign")
	if !ok {
		return
	}
	c := clientInit(true)
	ctx, cancel := callContext()
	defer cancel()
	r, err := c.Finalize(ctx, campaign)
	exitOnError(err, "finalize failed")
	printReceipt(r)
	if r.Success {
		fmt.Println("Campaign succeeded")
	} else {
		fmt.Println("Campaign failed, contributors may claim refunds")
	}
}

func runRefund(cmd *Command, args []string) {
	campaign, ok := parseAddress(campaignAddr, "campaign")
	if !ok {
		return
	}
	contribution, ok := parseAddress(contribAddr, "contribution")
	if !ok {
		return
	}
	c := clientInit(true)
	ctx, cancel := callContext()
	defer cancel()
	r, err := c.ClaimRefund(ctx, campaign, contribution)
	exitOnError(err, "refund failed")
	printReceipt(r)
}
