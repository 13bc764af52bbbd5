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

// Package api serves the crowdfund ledger over http.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/metric"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

const (
	argAddress = "address"
	argHash    = "hash"

	// DebugMetricsPath serves the expvar runtime gauges.
	DebugMetricsPath = "/debug/metrics"
	// maxRequestBody caps the size of a submitted transaction.
	maxRequestBody = 1 << 20
)

var apiTimeout = time.Second * 10

// Service serves ledger queries and transaction submission.
type Service struct {
	ledger      *ledger.Ledger
	registry    *prometheus.Registry
	metricsPath string
	accessLog   io.WriteCloser
}

// NewService returns a service of l exposing prometheus metrics on metricsPath.
func NewService(l *ledger.Ledger, metricsPath string) *Service {
	return &Service{
		ledger:      l,
		registry:    metric.NewRegistry(l),
		metricsPath: metricsPath,
	}
}

// Handler returns the http handler of the service with its middlewares.
func (s *Service) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		sendResponse(http.StatusOK, true, nil, nil, rw)
	}).Methods("GET")
	router.Handle(s.metricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")
	router.Handle(DebugMetricsPath, metric.DebugHandler()).Methods("GET")

	v1Router := router.PathPrefix("/v1").Subrouter()
	v1Router.HandleFunc("/tx", s.submit).Methods("POST")
	v1Router.HandleFunc("/tx/{hash}", s.transaction).Methods("GET")
	v1Router.HandleFunc("/counter", s.counter).Methods("GET")
	v1Router.HandleFunc("/campaigns/{address}", s.campaign).Methods("GET")
	v1Router.HandleFunc("/campaigns/{address}/contributions", s.campaignContributions).Methods("GET")
	v1Router.HandleFunc("/custody/{address}", s.custody).Methods("GET")
	v1Router.HandleFunc("/contributions/{address}", s.contribution).Methods("GET")
	v1Router.HandleFunc("/accounts/{address}", s.account).Methods("GET")
	v1Router.HandleFunc("/policy", s.policy).Methods("GET")

	var handler http.Handler = router
	if log.GetLevel() >= log.DebugLevel {
		if s.accessLog == nil {
			s.accessLog = log.WriterLevel(log.DebugLevel)
		}
		handler = handlers.CombinedLoggingHandler(s.accessLog, handler)
	}
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(handler)
	handler = handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)(handler)
	return requestID(handler)
}

// StartServer serves the service on listenAddr in the background.
func (s *Service) StartServer(listenAddr string) (server *http.Server, err error) {
	server = &http.Server{
		Addr:         listenAddr,
		WriteTimeout: apiTimeout,
		ReadTimeout:  apiTimeout,
		IdleTimeout:  apiTimeout,
		Handler:      s.Handler(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("start api server failed")
		}
	}()

	log.WithField("addr", listenAddr).Info("api server started")
	return server, err
}

// StopServer shuts server down and releases the service resources.
func (s *Service) StopServer(ctx context.Context, server *http.Server) (err error) {
	err = server.Shutdown(ctx)
	if s.accessLog != nil {
		s.accessLog.Close()
		s.accessLog = nil
	}
	return
}
