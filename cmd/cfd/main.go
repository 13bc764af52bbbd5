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
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/CovenantSQL/crowdfund/api"
	"github.com/CovenantSQL/crowdfund/conf"
	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/metric"
	"github.com/CovenantSQL/crowdfund/storage"
	"github.com/CovenantSQL/crowdfund/utils"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

const name = "cfd"

var (
	version     = "unknown"
	configFile  string
	listenAddr  string
	logLevel    string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "~/.crowdfund/config.yaml", "Config file path")
	flag.StringVar(&listenAddr, "listen", "", "API listen addr (will override settings in config file)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (will override settings in config file)")
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit")
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Printf("%v %v %v %v %v\n",
			name, version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		os.Exit(0)
	}

	cfg, err := conf.LoadConfig(configFile)
	if err != nil {
		log.WithError(err).Fatal("load config failed")
	}
	conf.GConf = cfg
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log.SetStringLevel(logLevel, log.InfoLevel)

	flag.Visit(func(f *flag.Flag) {
		log.Infof("args %#v : %s", f.Name, f.Value)
	})

	if err = run(cfg, utils.WaitForExit()); err != nil {
		log.WithError(err).Fatal("run daemon failed")
	}
}

// newLedger opens the store of cfg and seeds an empty one with the genesis
// state. The ledger always runs with the production policy.
func newLedger(cfg *conf.Config) (st *storage.Storage, l *ledger.Ledger, err error) {
	if st, err = storage.Open(cfg.DataDir, cfg.RecordCacheSize); err != nil {
		return
	}

	l = ledger.NewLedger(st, ledger.ProductionPolicy(), ledger.SystemClock{})
	accounts := make([]ledger.GenesisAccount, 0, len(cfg.Genesis.Accounts))
	for _, a := range cfg.Genesis.Accounts {
		accounts = append(accounts, ledger.GenesisAccount{Address: a.Address, Balance: a.Balance})
	}
	var applied bool
	if applied, err = l.InitGenesis(cfg.Genesis.CounterCapacity, accounts); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	log.WithFields(log.Fields{
		"applied":  applied,
		"accounts": len(accounts),
	}).Info("genesis checked")
	return
}

// run serves the ledger of cfg until stop fires.
func run(cfg *conf.Config, stop <-chan os.Signal) (err error) {
	st, l, err := newLedger(cfg)
	if err != nil {
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Error("close storage failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metric.StartRuntimeSampler(ctx, 5*time.Second)

	service := api.NewService(l, cfg.MetricsPath)
	server, err := service.StartServer(cfg.ListenAddr)
	if err != nil {
		return
	}
	log.WithFields(log.Fields{
		"version":  version,
		"data_dir": cfg.DataDir,
		"listen":   cfg.ListenAddr,
	}).Info("crowdfund daemon started")

	sig := <-stop
	log.WithField("signal", sig).Info("stopping crowdfund daemon")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = service.StopServer(shutdownCtx, server); err != nil {
		log.WithError(err).Error("stop api server failed")
	}
	log.Info("crowdfund daemon stopped")
	return nil
}
