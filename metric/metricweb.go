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
	"context"
	"expvar"
	"net/http"
	"runtime"
	"sync"
	"time"

	mw "github.com/zserge/metric"
)

const bytesPerMB = 1 << 20

var (
	runtimeGaugesOnce sync.Once
	runtimeGauges     = []string{"go:numgoroutine", "go:numcgocall", "go:alloc", "go:alloctotal"}
)

func publishRuntimeGauges() {
	runtimeGaugesOnce.Do(func() {
		for _, name := range runtimeGauges {
			if expvar.Get(name) == nil {
				expvar.Publish(name, mw.NewGauge("1m1s", "5m5s", "1h1m"))
			}
		}
	})
}

// SampleRuntime records one sample of the go runtime gauges.
func SampleRuntime() {
	publishRuntimeGauges()
	m := &runtime.MemStats{}
	runtime.ReadMemStats(m)
	expvar.Get("go:numgoroutine").(mw.Metric).Add(float64(runtime.NumGoroutine()))
	expvar.Get("go:numcgocall").(mw.Metric).Add(float64(runtime.NumCgoCall()))
	expvar.Get("go:alloc").(mw.Metric).Add(float64(m.Alloc) / bytesPerMB)
	expvar.Get("go:alloctotal").(mw.Metric).Add(float64(m.TotalAlloc) / bytesPerMB)
}

// StartRuntimeSampler samples the runtime gauges every interval until ctx is done.
func StartRuntimeSampler(ctx context.Context, interval time.Duration) {
	publishRuntimeGauges()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				SampleRuntime()
			}
		}
	}()
}

// DebugHandler serves the expvar gauges as the /debug/metrics page.
func DebugHandler() http.Handler {
	publishRuntimeGauges()
	return mw.Handler(mw.Exposed)
}
