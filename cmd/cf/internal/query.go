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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/CovenantSQL/crowdfund/client"
	"github.com/CovenantSQL/crowdfund/proto"
)

var (
	listContributions bool
	page, pageSize    int
	asJSON            bool
)

// CmdCampaign is cf campaign command entity.
var CmdCampaign = &Command{
	UsageLine: "cf campaign [common params] [-contributions [-page n] [-size n]] [-json] address",
	Short:     "show a campaign",
	Long: `
Campaign prints a campaign with its custody balance and contribution totals.
e.g.
    cf campaign -contributions 5f1e...
`,
}

// CmdAccount is cf account command entity.
var CmdAccount = &Command{
	UsageLine: "cf account [common params] [-key file] [-json] [address]",
	Short:     "show the balance and nonce of an account",
	Long: `
Account prints the balance and next nonce of an account, your own account if
no address is given.
`,
}

func init() {
	CmdCampaign.Run = runCampaign
	CmdAccount.Run = runAccount

	addCommonFlags(CmdCampaign)
	addCommonFlags(CmdAccount)
	addKeyFlags(CmdAccount)
	CmdCampaign.Flag.BoolVar(&listContributions, "contributions", false, "List the contributions")
	CmdCampaign.Flag.IntVar(&page, "page", 1, "Contribution page")
	CmdCampaign.Flag.IntVar(&pageSize, "size", 0, "Contribution page size")
	for _, cmd := range []*Command{CmdCampaign, CmdAccount} {
		cmd.Flag.BoolVar(&asJSON, "json", false, "Print the raw json view")
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		ConsoleLog.WithError(err).Error("encode json failed")
		SetExitStatus(1)
	}
}

func runCampaign(cmd *Command, args []string) {
	if len(args) != 1 {
		ConsoleLog.Error("campaign command needs the campaign address as param")
		SetExitStatus(1)
		return
	}
	addr, ok := parseAddress(args[0], "campaign")
	if !ok {
		return
	}
	c := clientInit(false)
	ctx, cancel := callContext()
	defer cancel()

	v, err := c.Campaign(ctx, addr)
	exitOnError(err, "query campaign failed")
	if asJSON {
		printJSON(v)
	} else {
		state := "open"
		if v.IsFinalized && v.IsSuccess {
			state = "succeeded"
		} else if v.IsFinalized {
			state = "failed"
		}
		fmt.Printf("Campaign #%d %s\n", v.CampaignID, v.Address.String())
		fmt.Printf("  Title:       %s\n", v.Title)
		fmt.Printf("  Description: %s\n", v.Description)
		fmt.Printf("  Creator:     %s\n", v.Creator.String())
		fmt.Printf("  Goal:        %d\n", v.FundingGoal)
		fmt.Printf("  Deadline:    %s\n", time.Unix(v.Deadline, 0).UTC().Format(time.RFC3339))
		fmt.Printf("  State:       %s\n", state)
		fmt.Printf("  Custody:     %s locked %d balance %d\n", v.CustodyAddress.String(), v.LockedAmount, v.CustodyBalance)
		fmt.Printf("  Contributions: %d, refunded %d, outstanding %d\n", v.Contributions, v.Refunded, v.Outstanding)
	}
	if !listContributions {
		return
	}

	list, err := c.Contributions(ctx, addr, &client.ContributionQuery{Page: page, Size: pageSize})
	exitOnError(err, "query contributions failed")
	if asJSON {
		printJSON(list)
		return
	}
	for _, e := range list.Contributions {
		fmt.Printf("  %s from %s amount %d at %d refunded %t\n",
			e.Address.String(), e.Contributor.String(), e.Amount, e.CreatedAt, e.IsRefunded)
	}
	fmt.Printf("  page %d/%d\n", list.Pagination.Page, list.Pagination.Pages)
}

func runAccount(cmd *Command, args []string) {
	var (
		addr proto.AccountAddress
		ok   bool
		c    *client.Client
	)
	if len(args) == 1 {
		if addr, ok = parseAddress(args[0], "account"); !ok {
			return
		}
		c = clientInit(false)
	} else {
		c = clientInit(true)
		addr = c.Address()
	}
	ctx, cancel := callContext()
	defer cancel()

	v, err := c.Account(ctx, addr)
	exitOnError(err, "query account failed")
	if asJSON {
		printJSON(v)
		return
	}
	fmt.Printf("Account %s\n  Balance:    %d\n  Next nonce: %d\n", v.Address.String(), v.Balance, v.NextNonce)
}
