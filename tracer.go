// Copyright 2026 The Flowforge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flowforge

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Tracer observes every Processor.Process call a Scheduler.Run makes,
// per spec.md §4.8. OnEnter fires before a node's execute (or before
// it short-circuits to StatusCancelled); OnExit fires after, with the
// resulting Status. Implementations must be safe for concurrent use:
// ParallelProcessor and the data-group composites call a shared
// ProcessContext's tracer from multiple goroutines at once.
type Tracer interface {
	OnEnter(info ProcessorInfo)
	OnExit(info ProcessorInfo, status Status)
}

// ConsoleTracer logs every enter/exit through a *zap.Logger, the way
// caddy's own admin/config-reload paths log structured events through
// its shared logger rather than fmt.Printf.
type ConsoleTracer struct {
	log *zap.Logger
}

// NewConsoleTracer returns a ConsoleTracer writing through log. If log
// is nil, zap.NewNop() is used and OnEnter/OnExit become no-ops.
func NewConsoleTracer(log *zap.Logger) *ConsoleTracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsoleTracer{log: log}
}

func (t *ConsoleTracer) OnEnter(info ProcessorInfo) {
	t.log.Info("processor enter",
		zap.String("run", info.RunID),
		zap.String("name", info.Name),
		zap.Uint64("id", uint64(info.ID)),
	)
}

func (t *ConsoleTracer) OnExit(info ProcessorInfo, status Status) {
	t.log.Info("processor exit",
		zap.String("run", info.RunID),
		zap.String("name", info.Name),
		zap.Uint64("id", uint64(info.ID)),
		zap.Stringer("status", status),
	)
}

// Dump satisfies Dumper; ConsoleTracer has nothing to accumulate
// beyond what it has already logged.
func (t *ConsoleTracer) Dump() string {
	return "console tracer: see log output"
}

// MetricsTracer aggregates per-processor call counts, status counts,
// and wall-clock duration into Prometheus collectors, and is the
// Tracer a Scheduler.AddTracker caller would register to expose
// /metrics, the way caddy's own metrics.go wires its admin API and
// module lifecycle into prometheus collectors.
type MetricsTracer struct {
	mu      sync.Mutex
	entered map[ProcessorId]time.Time

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec

	// totals mirrors the Prometheus collectors in plain memory, keyed
	// by processor name, so Dump can render a quick per-node summary
	// without scraping /metrics.
	totals map[string]*nodeTotals
}

type nodeTotals struct {
	calls int
	sum   time.Duration
}

// NewMetricsTracer constructs a MetricsTracer and registers its
// collectors with reg. Passing prometheus.DefaultRegisterer mirrors
// caddy's own use of the default registry for its admin metrics.
func NewMetricsTracer(reg prometheus.Registerer) *MetricsTracer {
	t := &MetricsTracer{
		entered: make(map[ProcessorId]time.Time),
		totals:  make(map[string]*nodeTotals),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowforge",
			Name:      "processor_calls_total",
			Help:      "Total Processor.Process invocations, by processor name and resulting status.",
		}, []string{"processor", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowforge",
			Name:      "processor_duration_seconds",
			Help:      "Processor.Process wall-clock duration, by processor name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"processor"}),
	}
	if reg != nil {
		reg.MustRegister(t.calls, t.duration)
	}
	return t
}

func (t *MetricsTracer) OnEnter(info ProcessorInfo) {
	t.mu.Lock()
	t.entered[info.ID] = time.Now()
	t.mu.Unlock()
}

func (t *MetricsTracer) OnExit(info ProcessorInfo, status Status) {
	t.mu.Lock()
	start, ok := t.entered[info.ID]
	delete(t.entered, info.ID)
	t.mu.Unlock()

	t.calls.WithLabelValues(info.Name, status.String()).Inc()
	if !ok {
		return
	}
	elapsed := time.Since(start)
	t.duration.WithLabelValues(info.Name).Observe(elapsed.Seconds())

	t.mu.Lock()
	nt, found := t.totals[info.Name]
	if !found {
		nt = &nodeTotals{}
		t.totals[info.Name] = nt
	}
	nt.calls++
	nt.sum += elapsed
	t.mu.Unlock()
}

// Dump satisfies Dumper, rendering one line per distinct processor
// name observed so far: call count and mean duration.
func (t *MetricsTracer) Dump() string {
	t.mu.Lock()
	names := make([]string, 0, len(t.totals))
	for name := range t.totals {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		nt := t.totals[name]
		mean := time.Duration(0)
		if nt.calls > 0 {
			mean = nt.sum / time.Duration(nt.calls)
		}
		lines = append(lines, fmt.Sprintf("%-40s calls=%-6s mean=%s", name, humanize.Comma(int64(nt.calls)), mean))
	}
	t.mu.Unlock()

	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out
}

// GroupTracer fans every OnEnter/OnExit call out to a fixed set of
// Tracers, so a Scheduler can run both a ConsoleTracer and a
// MetricsTracer (or several of either) over the same plan without
// either needing to know about the other.
type GroupTracer struct {
	tracers []Tracer
}

// NewGroupTracer returns a Tracer that forwards to every non-nil
// element of tracers, in order.
func NewGroupTracer(tracers ...Tracer) *GroupTracer {
	filtered := make([]Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			filtered = append(filtered, t)
		}
	}
	return &GroupTracer{tracers: filtered}
}

func (g *GroupTracer) OnEnter(info ProcessorInfo) {
	for _, t := range g.tracers {
		t.OnEnter(info)
	}
}

func (g *GroupTracer) OnExit(info ProcessorInfo, status Status) {
	for _, t := range g.tracers {
		t.OnExit(info, status)
	}
}

// Dump satisfies Dumper, concatenating the Dump output of every member
// tracer that implements it.
func (g *GroupTracer) Dump() string {
	out := ""
	for _, t := range g.tracers {
		d, ok := t.(Dumper)
		if !ok {
			continue
		}
		out += d.Dump()
	}
	return out
}
