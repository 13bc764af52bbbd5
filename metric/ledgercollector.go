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

package metric

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CovenantSQL/crowdfund/utils/log"
)

// LedgerStats is a point in time summary of the ledger records.
type LedgerStats struct {
	CounterCount          uint64
	CounterCapacity       uint64
	Campaigns             uint64
	FinalizedCampaigns    uint64
	SucceededCampaigns    uint64
	Contributions         uint64
	RefundedContributions uint64
	LockedFunds           uint64
	DeadlineEnforced      bool
}

// StatsSource provides ledger stats on scrape.
type StatsSource interface {
	Stats() (LedgerStats, error)
}

// ledgerStatMetric provide description, value, and value type for a ledger stat metric.
type ledgerStatMetric struct {
	desc    *prometheus.Desc
	eval    func(*LedgerStats) float64
	valType prometheus.ValueType
}

type ledgerStatsMetrics []ledgerStatMetric

// LedgerCollector collects ledger record metrics.
type LedgerCollector struct {
	src     StatsSource
	metrics ledgerStatsMetrics
}

func ledgerStatName(s string) string {
	return fmt.Sprintf("%s_ledger_%s", namespace, s)
}

func gauge(name, help string, eval func(*LedgerStats) float64) ledgerStatMetric {
	return ledgerStatMetric{
		desc:    prometheus.NewDesc(ledgerStatName(name), help, nil, nil),
		eval:    eval,
		valType: prometheus.GaugeValue,
	}
}

// NewLedgerCollector returns a new LedgerCollector reading src on every scrape.
func NewLedgerCollector(src StatsSource) prometheus.Collector {
	return &LedgerCollector{
		src: src,
		metrics: ledgerStatsMetrics{
			gauge("counter_count", "Campaign ids issued.",
				func(s *LedgerStats) float64 { return float64(s.CounterCount) }),
			gauge("counter_capacity", "Campaign id capacity.",
				func(s *LedgerStats) float64 { return float64(s.CounterCapacity) }),
			gauge("campaigns", "Campaign records.",
				func(s *LedgerStats) float64 { return float64(s.Campaigns) }),
			gauge("campaigns_finalized", "Finalized campaigns.",
				func(s *LedgerStats) float64 { return float64(s.FinalizedCampaigns) }),
			gauge("campaigns_succeeded", "Campaigns finalized as successful.",
				func(s *LedgerStats) float64 { return float64(s.SucceededCampaigns) }),
			gauge("contributions", "Contribution records.",
				func(s *LedgerStats) float64 { return float64(s.Contributions) }),
			gauge("contributions_refunded", "Refunded contributions.",
				func(s *LedgerStats) float64 { return float64(s.RefundedContributions) }),
			gauge("locked_funds", "Funds locked in custody accounts.",
				func(s *LedgerStats) float64 { return float64(s.LockedFunds) }),
			gauge("deadline_enforced", "1 if finalization deadlines are enforced.",
				func(s *LedgerStats) float64 {
					if s.DeadlineEnforced {
						return 1
					}
					return 0
				}),
		},
	}
}

// Describe returns all descriptions of the collector.
func (lc *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, i := range lc.metrics {
		ch <- i.desc
	}
}

// Collect returns the current state of all metrics of the collector.
func (lc *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := lc.src.Stats()
	if err != nil {
		log.WithError(err).Warning("collect ledger stats failed")
		return
	}
	for _, i := range lc.metrics {
		ch <- prometheus.MustNewConstMetric(i.desc, i.valType, i.eval(&stats))
	}
}
