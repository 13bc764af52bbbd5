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

package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	yaml "gopkg.in/yaml.v2"

	"github.com/CovenantSQL/crowdfund/client"
	"github.com/CovenantSQL/crowdfund/conf"
	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/utils"
)

// writeConfig copies the sample config into root with a free listen address.
func writeConfig(root string) (path string, listen string) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	So(err, ShouldBeNil)
	listen = l.Addr().String()
	So(l.Close(), ShouldBeNil)

	sample, err := ioutil.ReadFile(filepath.Join("sample", "config.yaml"))
	So(err, ShouldBeNil)
	var doc yaml.MapSlice
	So(yaml.Unmarshal(sample, &doc), ShouldBeNil)
	for i := range doc {
		switch doc[i].Key {
		case "WorkingRoot":
			doc[i].Value = root
		case "ListenAddr":
			doc[i].Value = listen
		}
	}
	out, err := yaml.Marshal(doc)
	So(err, ShouldBeNil)
	path = filepath.Join(root, "config.yaml")
	So(ioutil.WriteFile(path, out, 0600), ShouldBeNil)
	return
}

// waitReady polls the policy endpoint until the api server answers.
func waitReady(c *client.Client, timeout time.Duration) (err error) {
	deadline := time.Now().Add(timeout)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err = c.Policy(ctx)
		cancel()
		if err == nil || time.Now().After(deadline) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestDaemon(t *testing.T) {
	Convey("Given the sample config in a fresh working root", t, func() {
		root, err := ioutil.TempDir("", "cfd")
		So(err, ShouldBeNil)
		defer os.RemoveAll(root)

		path, listen := writeConfig(root)
		cfg, err := conf.LoadConfig(path)
		So(err, ShouldBeNil)
		So(cfg.DataDir, ShouldEqual, filepath.Join(root, "data"))
		So(cfg.Genesis.Accounts, ShouldHaveLength, 1)
		genesis := cfg.Genesis.Accounts[0]

		Convey("The ledger should enforce deadlines and seed genesis once", func() {
			st, l, err := newLedger(cfg)
			So(err, ShouldBeNil)
			So(l.DeadlineEnforced(), ShouldBeTrue)
			So(l.Policy(), ShouldResemble, ledger.ProductionPolicy())
			account, err := l.Account(genesis.Address)
			So(err, ShouldBeNil)
			So(account.Balance, ShouldEqual, genesis.Balance)
			So(st.Close(), ShouldBeNil)

			st, l, err = newLedger(cfg)
			So(err, ShouldBeNil)
			applied, err := l.InitGenesis(cfg.Genesis.CounterCapacity, nil)
			So(err, ShouldBeNil)
			So(applied, ShouldBeFalse)
			account, err = l.Account(genesis.Address)
			So(err, ShouldBeNil)
			So(account.Balance, ShouldEqual, genesis.Balance)
			So(st.Close(), ShouldBeNil)
		})

		Convey("The daemon should serve the production ledger until terminated", func() {
			stop := utils.WaitForExit()
			done := make(chan error, 1)
			go func() {
				done <- run(cfg, stop)
			}()

			c, err := client.New(fmt.Sprintf("http://%s", listen), nil)
			So(err, ShouldBeNil)
			So(waitReady(c, 10*time.Second), ShouldBeNil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			policy, err := c.Policy(ctx)
			So(err, ShouldBeNil)
			So(policy.Production, ShouldBeTrue)
			So(policy.EnforceDeadline, ShouldBeTrue)
			So(policy.CampaignDurationSeconds, ShouldEqual, int64(30*24*time.Hour/time.Second))

			account, err := c.Account(ctx, genesis.Address)
			So(err, ShouldBeNil)
			So(account.Balance, ShouldEqual, genesis.Balance)

			counter, err := c.Counter(ctx)
			So(err, ShouldBeNil)
			So(counter.Count, ShouldEqual, 0)
			So(counter.Capacity, ShouldEqual, cfg.Genesis.CounterCapacity)

			So(syscall.Kill(os.Getpid(), syscall.SIGTERM), ShouldBeNil)
			select {
			case err = <-done:
				So(err, ShouldBeNil)
			case <-time.After(10 * time.Second):
				So("daemon still running", ShouldBeEmpty)
			}
		})
	})
}
