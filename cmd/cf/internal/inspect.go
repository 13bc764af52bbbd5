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
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/storage"
	"github.com/CovenantSQL/crowdfund/utils"
)

var (
	dataDir   string
	inspectTx bool
)

// CmdInspect is cf inspect command entity.
var CmdInspect = &Command{
	UsageLine: "cf inspect [-data-dir dir] [-tx] address|hash",
	Short:     "dump the raw records of an address",
	Long: `
Inspect dumps every record stored at an address: counter, campaign, custody,
contribution and balance account. With -tx the argument is a transaction hash.
With -data-dir the records are read from a stopped daemon data directory,
otherwise they are queried from the api.
e.g.
    cf inspect -data-dir ~/.crowdfund/data 5f1e...
`,
}

func init() {
	CmdInspect.Run = runInspect

	addCommonFlags(CmdInspect)
	CmdInspect.Flag.StringVar(&dataDir, "data-dir", "", "Data directory of a stopped daemon")
	CmdInspect.Flag.BoolVar(&inspectTx, "tx", false, "Inspect a transaction hash")
}

var dumper = &spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runInspect(cmd *Command, args []string) {
	if len(args) != 1 {
		ConsoleLog.Error("inspect command needs an address or hash as param")
		SetExitStatus(1)
		return
	}
	if dataDir != "" {
		inspectLocal(args[0])
		return
	}
	inspectRemote(args[0])
}

func inspectLocal(arg string) {
	st, err := storage.Open(utils.HomeDirExpand(dataDir), storage.DefaultCacheSize)
	exitOnError(err, "open data dir failed")
	defer st.Close()
	l := ledger.NewLedger(st, ledger.ProductionPolicy(), nil)

	if inspectTx {
		h, err := hash.NewHashFromStr(arg)
		exitOnError(err, "hash is not valid")
		tx, receipt, err := l.Transaction(*h)
		exitOnError(err, "load transaction failed")
		dumper.Fdump(os.Stdout, tx, receipt)
		return
	}
	addr, ok := parseAddress(arg, "record")
	if !ok {
		return
	}
	found := false
	dump := func(v interface{}, err error) {
		if err == nil {
			found = true
			dumper.Fdump(os.Stdout, v)
		} else if cause := errors.Cause(err); cause != ledger.ErrRecordNotFound && cause != ledger.ErrAccountNotFound {
			ConsoleLog.WithError(err).Debug("record does not decode as this kind")
		}
	}
	if addr == types.CounterAddress() {
		dump(l.Counter())
	}
	dump(l.Campaign(addr))
	dump(l.Custody(addr))
	dump(l.Contribution(addr))
	dump(l.Account(addr))
	if !found {
		ConsoleLog.Warningf("no record at %s", addr.String())
		SetExitStatus(1)
	}
}

func inspectRemote(arg string) {
	c := clientInit(false)
	ctx, cancel := callContext()
	defer cancel()

	if inspectTx {
		h, err := hash.NewHashFromStr(arg)
		exitOnError(err, "hash is not valid")
		tx, err := c.Transaction(ctx, *h)
		exitOnError(err, "query transaction failed")
		dumper.Fdump(os.Stdout, tx)
		return
	}
	addr, ok := parseAddress(arg, "record")
	if !ok {
		return
	}
	found := false
	if v, err := c.Campaign(ctx, addr); err == nil {
		found = true
		dumper.Fdump(os.Stdout, v)
	}
	if v, err := c.Custody(ctx, addr); err == nil {
		found = true
		dumper.Fdump(os.Stdout, v)
	}
	if v, err := c.Contribution(ctx, addr); err == nil {
		found = true
		dumper.Fdump(os.Stdout, v)
	}
	if v, err := c.Account(ctx, addr); err == nil {
		found = true
		dumper.Fdump(os.Stdout, v)
	}
	if !found {
		ConsoleLog.Warningf("no record at %s", addr.String())
		SetExitStatus(1)
	}
}
