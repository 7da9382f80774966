/*
 * Copyright 2025 Carver Automation Corporation.
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

// Package scan implements the concurrent IP/port range scanner: contiguous
// IP batches sized to available parallelism, fixed-size port chunks probed
// with bounded fan-out, and cooperative cancellation observed at IP and
// chunk boundaries.
package scan

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/ratelimit"

	"github.com/carverauto/tcptest/pkg/event"
	"github.com/carverauto/tcptest/pkg/ipv4"
	"github.com/carverauto/tcptest/pkg/logger"
	"github.com/carverauto/tcptest/pkg/models"
)

const (
	// portChunkSize is the bounded fan-out within a single IP: all ports of
	// a chunk are probed concurrently, then the whole chunk is awaited
	// before the next one starts.
	portChunkSize = 50

	// progressEvery controls the progress cadence in completed IPs.
	progressEvery = 10

	batchParallelismMultiplier = 2
)

// Scanner runs one scan invocation at a time against its result and
// diagnostic sinks. Both sinks are cleared at the start of each scan.
type Scanner struct {
	sink    event.Sink
	results *event.Log
	scanLog *event.Log
	status  *models.ScanStatus
	prober  Prober
	limiter ratelimit.Limiter
	logger  logger.Logger
}

func NewScanner(sink event.Sink, results, scanLog *event.Log, prober Prober, log logger.Logger) *Scanner {
	return &Scanner{
		sink:    sink,
		results: results,
		scanLog: scanLog,
		status:  &models.ScanStatus{},
		prober:  prober,
		limiter: ratelimit.NewUnlimited(),
		logger:  log,
	}
}

// SetRateLimit caps probe dispatch at perSec probes per second. Zero or
// negative removes the cap.
func (s *Scanner) SetRateLimit(perSec int) {
	if perSec <= 0 {
		s.limiter = ratelimit.NewUnlimited()
		return
	}

	s.limiter = ratelimit.New(perSec)
}

// Status exposes the shared counters and flags for the current scan.
func (s *Scanner) Status() *models.ScanStatus {
	return s.status
}

// Stop requests cooperative cancellation of the scan in flight. In-flight
// probes complete within their own timeout; batches exit at the next IP or
// chunk boundary.
func (s *Scanner) Stop() {
	s.status.Cancel()
}

// Run executes one scan to completion. The request is validated before any
// task is spawned; invalid ranges are rejected with a log entry and an error.
// Run blocks until all batches finish, so callers that want a background
// scan run it in a goroutine of their own.
func (s *Scanner) Run(ctx context.Context, req models.ScanRequest) error {
	if s.status.Running() {
		return ErrScanAlreadyRunning
	}

	s.results.Clear()
	s.scanLog.Clear()

	if !ipv4.ValidateRange(req.StartIP, req.EndIP, ipv4.MaxSpan) {
		s.reject(fmt.Sprintf("scan rejected: invalid IP range %s to %s", req.StartIP, req.EndIP))
		return fmt.Errorf("%w: %s to %s", ErrInvalidIPRange, req.StartIP, req.EndIP)
	}

	if !ipv4.ValidatePortRange(req.StartPort, req.EndPort, ipv4.MaxSpan) {
		s.reject(fmt.Sprintf("scan rejected: invalid port range %d to %d", req.StartPort, req.EndPort))
		return fmt.Errorf("%w: %d to %d", ErrInvalidPortRange, req.StartPort, req.EndPort)
	}

	start, _ := ipv4.Parse(req.StartIP)
	end, _ := ipv4.Parse(req.EndIP)

	scanID := uuid.NewString()[:8]
	totalIPs := uint64(end-start) + 1

	// Counters and flags reset before the first line is announced, so a
	// Stop issued on seeing the banner is never erased.
	s.status.Reset()
	defer s.status.SetRunning(false)

	s.announce(scanID, req, totalIPs)

	batchSize := ipv4.Ordinal(batchSizeFor(totalIPs))

	var wg sync.WaitGroup

	for batchStart := start; ; batchStart += batchSize {
		batchEnd := batchStart + batchSize - 1
		if batchEnd > end || batchEnd < batchStart {
			batchEnd = end
		}

		wg.Add(1)

		go func(from, to ipv4.Ordinal) {
			defer wg.Done()

			s.scanBatch(ctx, from, to, req, totalIPs)
		}(batchStart, batchEnd)

		if batchEnd == end {
			break
		}
	}

	wg.Wait()

	if s.status.Cancelled() {
		s.emitBoth("scan cancelled")
	}

	summary := fmt.Sprintf("scan %s complete: scanned %d IPs, found %d open",
		scanID, s.status.Scanned(), s.status.Open())
	s.emitBoth(summary)

	s.logger.Info().
		Str("scan_id", scanID).
		Uint64("scanned", s.status.Scanned()).
		Uint64("open", s.status.Open()).
		Bool("cancelled", s.status.Cancelled()).
		Msg("scan finished")

	return nil
}

// batchSizeFor sizes contiguous IP batches so the batch count stays close to
// usable concurrency: ordinals per batch = totalIPs / (2 x GOMAXPROCS),
// floor 1.
func batchSizeFor(totalIPs uint64) uint64 {
	parallelism := uint64(runtime.GOMAXPROCS(0) * batchParallelismMultiplier)

	size := totalIPs / parallelism
	if size < 1 {
		size = 1
	}

	return size
}

func (s *Scanner) reject(msg string) {
	ts := event.Timestamp()
	s.scanLog.Append(ts, msg)
	s.sink.Append(ts, msg)
	s.logger.Warn().Msg(msg)
}

func (s *Scanner) announce(scanID string, req models.ScanRequest, totalIPs uint64) {
	portMsg := fmt.Sprintf("port %d", req.StartPort)
	if req.StartPort != req.EndPort {
		portMsg = fmt.Sprintf("ports %d to %d", req.StartPort, req.EndPort)
	}

	s.emitBoth(fmt.Sprintf("scan %s started: %s to %s, %s", scanID, req.StartIP, req.EndIP, portMsg))
	s.emitBoth(fmt.Sprintf("total IPs to scan: %d", totalIPs))

	workers := uint64(runtime.GOMAXPROCS(0) * batchParallelismMultiplier)
	if totalIPs < workers {
		workers = totalIPs
	}

	s.emitBoth(fmt.Sprintf("scanning with %d workers", workers))
}

// emitBoth mirrors a message to the main event sink and the scan log, the
// way scan lifecycle messages are surfaced to both panels.
func (s *Scanner) emitBoth(msg string) {
	ts := event.Timestamp()
	s.sink.Append(ts, msg)
	s.scanLog.Append(ts, msg)
}

func (s *Scanner) scanBatch(ctx context.Context, from, to ipv4.Ordinal, req models.ScanRequest, totalIPs uint64) {
	for o := from; ; o++ {
		// Cancellation is observed only at IP boundaries, never mid-probe.
		if ctx.Err() != nil || s.status.Cancelled() || !s.status.Running() {
			s.status.Cancel()
			return
		}

		s.scanIP(ctx, o.String(), req)

		scanned := s.status.AddScanned(1)
		if scanned%progressEvery == 0 || scanned == totalIPs {
			pct := scanned * 100 / totalIPs
			s.scanLog.Append(event.Timestamp(),
				fmt.Sprintf("scanned %d/%d (%d%%)", scanned, totalIPs, pct))
		}

		if o == to {
			return
		}
	}
}

// scanIP probes all ports of one IP in fixed-size chunks. Each chunk is
// dispatched concurrently and awaited as a whole before the next chunk
// starts; cancellation is re-checked between chunks.
func (s *Scanner) scanIP(ctx context.Context, ip string, req models.ScanRequest) {
	startPort := int(req.StartPort)
	endPort := int(req.EndPort)

	for chunkStart := startPort; chunkStart <= endPort; chunkStart += portChunkSize {
		if ctx.Err() != nil || s.status.Cancelled() {
			return
		}

		chunkEnd := chunkStart + portChunkSize - 1
		if chunkEnd > endPort {
			chunkEnd = endPort
		}

		var wg sync.WaitGroup

		for port := chunkStart; port <= chunkEnd; port++ {
			s.limiter.Take()
			wg.Add(1)

			go func(port uint16) {
				defer wg.Done()

				s.probeOne(ctx, ip, port, req.Timeout)
			}(uint16(port)) // #nosec G115 - port ranges are validated against uint16 bounds
		}

		wg.Wait()
	}
}

func (s *Scanner) probeOne(ctx context.Context, ip string, port uint16, timeout time.Duration) {
	if !s.prober.Probe(ctx, ip, port, timeout) {
		// Closed ports go to the scan log only, never the primary sink.
		s.scanLog.Append(event.Timestamp(), fmt.Sprintf("%s:%d closed", ip, port))
		return
	}

	s.status.AddOpen()
	s.results.Append(event.Timestamp(), fmt.Sprintf("%s - %d open", ip, port))

	found := fmt.Sprintf("open port found: %s:%d", ip, port)
	s.emitBoth(found)

	s.logger.Debug().Str("ip", ip).Uint16("port", port).Msg("open port")
}
