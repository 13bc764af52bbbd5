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

// Package metric exposes the ledger metrics to prometheus and the runtime
// gauges to the expvar based debug page.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
)

const namespace = "crowdfund"

var (
	// TxApplied counts applied transactions by type.
	TxApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tx_applied_total",
		Help:      "Number of applied transactions.",
	}, []string{"type"})
	// TxRejected counts rejected transactions by type and error category.
	TxRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tx_rejected_total",
		Help:      "Number of rejected transactions.",
	}, []string{"type", "category"})
	// FundsMoved sums the funds moved by kind: contribute, payout or refund.
	FundsMoved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "funds_moved_total",
		Help:      "Amount of funds moved between accounts.",
	}, []string{"kind"})
)

// NewRegistry returns a registry holding the transaction counters, the go
// runtime collectors and, if src is not nil, a LedgerCollector reading src.
func NewRegistry(src StatsSource) (registry *prometheus.Registry) {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		version.NewCollector(namespace),
		prometheus.NewGoCollector(),
		TxApplied,
		TxRejected,
		FundsMoved,
	)
	if src != nil {
		registry.MustRegister(NewLedgerCollector(src))
	}
	return
}
